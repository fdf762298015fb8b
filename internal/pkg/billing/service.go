package billing

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/ManuelReschke/PayFox/app/models"
	"github.com/ManuelReschke/PayFox/app/repository"
	"github.com/ManuelReschke/PayFox/internal/pkg/env"
	"github.com/ManuelReschke/PayFox/internal/pkg/mail"
	"github.com/ManuelReschke/PayFox/internal/pkg/payfast"
	"github.com/gofiber/fiber/v2/log"
	"gorm.io/gorm"
)

// CancelAPI is the slice of the provider client the service needs.
type CancelAPI interface {
	CancelSubscription(ctx context.Context, token string) error
}

// Service drives the subscription lifecycle from verified payment
// notifications and the cancellation flow.
type Service struct {
	signups    repository.SignupRepository
	logs       repository.NotificationLogRepository
	cancelAPI  CancelAPI
	passphrase string

	// sendWelcome is swappable in tests; production uses the SMTP mailer.
	sendWelcome func(to, name, plan string) error
}

// NewService creates a billing service from injected collaborators.
func NewService(signups repository.SignupRepository, logs repository.NotificationLogRepository, cancelAPI CancelAPI, passphrase string) *Service {
	return &Service{
		signups:     signups,
		logs:        logs,
		cancelAPI:   cancelAPI,
		passphrase:  passphrase,
		sendWelcome: mail.SendWelcomeMail,
	}
}

// NewServiceFromDB creates a billing service bound to a GORM DB handle and
// the env-configured PayFast client.
func NewServiceFromDB(db *gorm.DB) *Service {
	return NewService(
		repository.NewSignupRepository(db),
		repository.NewNotificationLogRepository(db),
		payfast.NewClientFromEnv(),
		env.GetEnv("PAYFAST_PASSPHRASE", ""),
	)
}

// SetWelcomeMailer overrides the welcome mail sender (tests).
func (s *Service) SetWelcomeMailer(fn func(to, name, plan string) error) {
	s.sendWelcome = fn
}

// HandleNotification runs the full ITN pipeline. The raw payload is logged
// before anything else so a forensic record exists even when everything after
// it fails. Errors are returned for logging only; the HTTP boundary always
// acknowledges.
func (s *Service) HandleNotification(ctx context.Context, in NotificationInput) (*NotificationOutcome, error) {
	_ = ctx

	if err := s.logs.Create(&models.NotificationLog{
		RequestMeta: in.RequestMeta,
		RawBody:     string(in.RawBody),
	}); err != nil {
		// Keep going: the update path below is idempotent and the provider
		// must still get its acknowledgment.
		log.Errorf("notification log write failed: %v", err)
	}

	fields := payfast.ParseNotificationBody(in.RawBody)
	signatureValid := payfast.VerifyNotification(fields, s.passphrase)
	n := payfast.ExtractNotification(fields)

	outcome := &NotificationOutcome{
		SignupID:       n.MPaymentID,
		SignatureValid: signatureValid,
		Complete:       n.IsComplete(),
	}

	if n.MPaymentID == "" {
		return outcome, nil
	}

	// Linkage fields are written even on signature mismatch - they are
	// diagnostic, and the stored flag is what audit trusts.
	if err := s.signups.ApplyNotificationFields(n.MPaymentID, repository.NotificationUpdate{
		PfPaymentID:     n.PfPaymentID,
		PfPaymentStatus: n.PaymentStatus,
		SignatureValid:  signatureValid,
		PfToken:         n.Token,
	}); err != nil {
		return outcome, fmt.Errorf("notification update failed for %s: %w", n.MPaymentID, err)
	}

	if !n.IsComplete() {
		return outcome, nil
	}

	transitioned, err := s.signups.MarkPaidIfPending(n.MPaymentID, models.NewUploadToken())
	if err != nil {
		return outcome, fmt.Errorf("paid transition failed for %s: %w", n.MPaymentID, err)
	}
	outcome.Transitioned = transitioned
	if !transitioned {
		// Duplicate or out-of-order COMPLETE: a no-op success, and no second
		// welcome mail.
		return outcome, nil
	}

	signup, err := s.signups.GetByID(n.MPaymentID)
	if err != nil {
		return outcome, fmt.Errorf("signup reload failed for %s: %w", n.MPaymentID, err)
	}
	if err := s.sendWelcome(signup.Email, signup.Name, models.PlanDisplayName(signup.Plan)); err != nil {
		log.Errorf("welcome mail failed for %s: %v", signup.ID, err)
	}

	return outcome, nil
}

// ResolveCancelToken finds the recurring billing token for a signup: the
// direct record field first, then the newest notification log entry carrying
// the correlation id. The fallback exists because older records predate the
// direct column.
func (s *Service) ResolveCancelToken(signup *models.Signup) (string, error) {
	if signup.PfToken != "" {
		return signup.PfToken, nil
	}

	entries, err := s.logs.LatestContaining(signup.ID, 10)
	if err != nil {
		return "", err
	}
	for _, entry := range entries {
		fields := payfast.ParseNotificationBody([]byte(entry.RawBody))
		n := payfast.ExtractNotification(fields)
		if n.MPaymentID == signup.ID && n.Token != "" {
			return n.Token, nil
		}
	}

	return "", ErrNoCancelToken
}

// Cancel looks up the signup, resolves its cancel token, calls the provider,
// and only marks the local record canceled on confirmed success. Failure
// leaves no partial state behind.
func (s *Service) Cancel(ctx context.Context, signupID string) error {
	signup, err := s.signups.GetByID(signupID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrSignupNotFound
		}
		return err
	}

	if signup.Status == models.STATUS_CANCELED {
		return nil
	}

	token, err := s.ResolveCancelToken(signup)
	if err != nil {
		return err
	}

	if err := s.cancelAPI.CancelSubscription(ctx, token); err != nil {
		return err
	}

	return s.signups.MarkCanceled(signupID, time.Now())
}
