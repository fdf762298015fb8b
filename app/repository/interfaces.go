package repository

import (
	"time"

	"github.com/ManuelReschke/PayFox/app/models"
)

// NotificationUpdate carries the provider linkage fields written by the
// notification receiver. Every field is overwritten unconditionally; the
// writes are idempotent under duplicate delivery.
type NotificationUpdate struct {
	PfPaymentID     string
	PfPaymentStatus string
	SignatureValid  bool
	PfToken         string
}

// SignupRepository defines the interface for signup-related database operations
type SignupRepository interface {
	Create(signup *models.Signup) error
	GetByID(id string) (*models.Signup, error)
	List(offset, limit int) ([]models.Signup, error)
	Count() (int64, error)
	ApplyNotificationFields(id string, update NotificationUpdate) error
	// MarkPaidIfPending flips a pending signup to paid and stores the upload
	// token in the same statement. Returns true only for the invocation that
	// actually performed the transition, which gates the one-time mail.
	MarkPaidIfPending(id, uploadToken string) (bool, error)
	MarkCanceled(id string, at time.Time) error
	SetVerificationStatus(id, status string) error
}

// NotificationLogRepository defines the interface for the append-only
// notification log. There are deliberately no update or delete operations.
type NotificationLogRepository interface {
	Create(entry *models.NotificationLog) error
	LatestContaining(needle string, limit int) ([]models.NotificationLog, error)
	List(offset, limit int) ([]models.NotificationLog, error)
}
