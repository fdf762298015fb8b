package controllers

import (
	"context"
	"errors"
	"time"

	"github.com/ManuelReschke/PayFox/app/repository"
	"github.com/ManuelReschke/PayFox/internal/pkg/billing"
	"github.com/ManuelReschke/PayFox/internal/pkg/cache"
	"github.com/ManuelReschke/PayFox/internal/pkg/database"
	"github.com/ManuelReschke/PayFox/internal/pkg/payfast"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"
	"gorm.io/gorm"
)

// billingService is the slice of the billing service the payment handlers
// use. Swappable in tests.
type billingService interface {
	HandleNotification(ctx context.Context, in billing.NotificationInput) (*billing.NotificationOutcome, error)
	Cancel(ctx context.Context, signupID string) error
}

var newBillingService = func() billingService {
	return billing.NewServiceFromDB(database.GetDB())
}

// HandleCheckout builds the signed PayFast checkout request for a signup.
// Calling it repeatedly is fine; deduplication happens at notification time.
func HandleCheckout(c *fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return jsonError(c, fiber.StatusBadRequest, "signup id is required")
	}

	repo := repository.GetGlobalFactory().GetSignupRepository()
	signup, err := repo.GetByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return jsonError(c, fiber.StatusNotFound, "signup not found")
		}
		log.Errorf("checkout lookup failed for %s: %v", id, err)
		return jsonError(c, fiber.StatusInternalServerError, "could not load signup")
	}

	cfg, err := payfast.LoadMerchantConfig()
	if err != nil {
		var cfgErr *payfast.ConfigError
		if errors.As(err, &cfgErr) {
			log.Errorf("checkout blocked: %v", cfgErr)
			return jsonError(c, fiber.StatusInternalServerError, cfgErr.Error())
		}
		return jsonError(c, fiber.StatusInternalServerError, "merchant configuration unavailable")
	}

	initiation, err := payfast.BuildInitiation(signup, cfg)
	if err != nil {
		return jsonError(c, fiber.StatusBadRequest, err.Error())
	}

	return c.JSON(fiber.Map{
		"ok":           true,
		"redirect_url": initiation.RedirectURL,
		"fields":       initiation.FieldMap(),
	})
}

// HandlePaymentNotify receives the provider's asynchronous payment
// notification (ITN). It always acknowledges with 200: internal failures are
// logged and swallowed so the provider does not retry indefinitely, and the
// unconditional raw log inside the service is the reconciliation fallback.
func HandlePaymentNotify(c *fiber.Ctx) error {
	rawBody := append([]byte(nil), c.BodyRaw()...)

	svc := newBillingService()
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	outcome, err := svc.HandleNotification(ctx, billing.NotificationInput{
		RequestMeta: requestMeta(c),
		RawBody:     rawBody,
	})
	if err != nil {
		log.Errorf("notification processing failed: %v", err)
	}
	if outcome != nil && outcome.SignupID != "" {
		if err := cache.Delete(cache.SignupStatusKey(outcome.SignupID)); err != nil {
			log.Warnf("status cache invalidation failed for %s: %v", outcome.SignupID, err)
		}
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{"ok": true})
}

// HandleCancelSignup cancels a signup's recurring billing with the provider
// and, only on confirmed success, marks the local record canceled.
func HandleCancelSignup(c *fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return jsonError(c, fiber.StatusBadRequest, "signup id is required")
	}

	svc := newBillingService()
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Second)
	defer cancel()

	if err := svc.Cancel(ctx, id); err != nil {
		switch {
		case errors.Is(err, billing.ErrSignupNotFound):
			return jsonError(c, fiber.StatusNotFound, "signup not found")
		case errors.Is(err, billing.ErrNoCancelToken):
			return jsonError(c, fiber.StatusBadRequest, "no cancel token available for this signup")
		case errors.Is(err, payfast.ErrProviderRejected):
			log.Errorf("cancel rejected by provider for %s: %v", id, err)
			return jsonError(c, fiber.StatusBadGateway, "payment provider rejected the cancellation")
		default:
			log.Errorf("cancel failed for %s: %v", id, err)
			return jsonError(c, fiber.StatusInternalServerError, "cancellation failed")
		}
	}

	if err := cache.Delete(cache.SignupStatusKey(id)); err != nil {
		log.Warnf("status cache invalidation failed for %s: %v", id, err)
	}

	return c.JSON(fiber.Map{"ok": true, "id": id, "status": "canceled"})
}
