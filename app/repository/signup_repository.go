package repository

import (
	"time"

	"github.com/ManuelReschke/PayFox/app/models"
	"gorm.io/gorm"
)

type signupRepository struct {
	db *gorm.DB
}

// NewSignupRepository creates a new signup repository instance
func NewSignupRepository(db *gorm.DB) SignupRepository {
	return &signupRepository{db: db}
}

func (r *signupRepository) Create(signup *models.Signup) error {
	return r.db.Create(signup).Error
}

func (r *signupRepository) GetByID(id string) (*models.Signup, error) {
	var signup models.Signup
	err := r.db.Where("id = ?", id).First(&signup).Error
	if err != nil {
		return nil, err
	}
	return &signup, nil
}

func (r *signupRepository) List(offset, limit int) ([]models.Signup, error) {
	var signups []models.Signup
	err := r.db.Order("created_at DESC").Offset(offset).Limit(limit).Find(&signups).Error
	return signups, err
}

func (r *signupRepository) Count() (int64, error) {
	var count int64
	err := r.db.Model(&models.Signup{}).Count(&count).Error
	return count, err
}

func (r *signupRepository) ApplyNotificationFields(id string, update NotificationUpdate) error {
	return r.db.Model(&models.Signup{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"pf_payment_id":     update.PfPaymentID,
			"pf_payment_status": update.PfPaymentStatus,
			"signature_valid":   update.SignatureValid,
			"pf_token":          update.PfToken,
		}).Error
}

func (r *signupRepository) MarkPaidIfPending(id, uploadToken string) (bool, error) {
	// The status predicate makes the transition race-free under concurrent
	// duplicate notifications: only one statement can win the update.
	tx := r.db.Model(&models.Signup{}).
		Where("id = ? AND status = ?", id, models.STATUS_PENDING_PAYMENT).
		Updates(map[string]interface{}{
			"status":       models.STATUS_PAID,
			"upload_token": uploadToken,
		})
	if tx.Error != nil {
		return false, tx.Error
	}
	return tx.RowsAffected > 0, nil
}

func (r *signupRepository) MarkCanceled(id string, at time.Time) error {
	return r.db.Model(&models.Signup{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"status":      models.STATUS_CANCELED,
			"canceled_at": &at,
		}).Error
}

func (r *signupRepository) SetVerificationStatus(id, status string) error {
	return r.db.Model(&models.Signup{}).
		Where("id = ?", id).
		Update("verification_status", status).Error
}
