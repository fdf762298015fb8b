package controllers

import (
	"encoding/json"
	"errors"
	"time"

	"github.com/ManuelReschke/PayFox/app/models"
	"github.com/ManuelReschke/PayFox/app/repository"
	"github.com/ManuelReschke/PayFox/internal/pkg/cache"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"
	"gorm.io/gorm"
)

const signupStatusCacheTTL = 30 * time.Second

type createSignupRequest struct {
	Plan        string `json:"plan"`
	Billing     string `json:"billing"`
	Name        string `json:"name"`
	Email       string `json:"email"`
	Phone       string `json:"phone"`
	AddressLine string `json:"address_line"`
	City        string `json:"city"`
	PostalCode  string `json:"postal_code"`
}

type signupStatusPayload struct {
	Status             string `json:"status"`
	VerificationStatus string `json:"verification_status"`
	UploadToken        string `json:"upload_token,omitempty"`
}

// HandleCreateSignup creates a new signup in pending_payment state.
func HandleCreateSignup(c *fiber.Ctx) error {
	var req createSignupRequest
	if err := c.BodyParser(&req); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "invalid request body")
	}

	signup, err := models.CreateSignup(req.Plan, req.Billing, req.Name, req.Email, req.Phone, req.AddressLine, req.City, req.PostalCode)
	if err != nil {
		return jsonError(c, fiber.StatusBadRequest, err.Error())
	}

	repo := repository.GetGlobalFactory().GetSignupRepository()
	if err := repo.Create(signup); err != nil {
		log.Errorf("signup create failed: %v", err)
		return jsonError(c, fiber.StatusInternalServerError, "could not create signup")
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"ok":     true,
		"id":     signup.ID,
		"status": signup.Status,
		"plan":   signup.Plan,
		"price":  signup.Price.StringFixed(2),
	})
}

// HandleSignupStatus returns the lifecycle status for the post-checkout
// return page to poll. Reads go through the cache best-effort.
func HandleSignupStatus(c *fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return jsonError(c, fiber.StatusBadRequest, "signup id is required")
	}

	if cached, err := cache.Get(cache.SignupStatusKey(id)); err == nil && cached != "" {
		var payload signupStatusPayload
		if err := json.Unmarshal([]byte(cached), &payload); err == nil {
			return c.JSON(fiber.Map{
				"ok":                  true,
				"id":                  id,
				"status":              payload.Status,
				"verification_status": payload.VerificationStatus,
				"upload_token":        payload.UploadToken,
			})
		}
	}

	repo := repository.GetGlobalFactory().GetSignupRepository()
	signup, err := repo.GetByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return jsonError(c, fiber.StatusNotFound, "signup not found")
		}
		log.Errorf("signup status lookup failed for %s: %v", id, err)
		return jsonError(c, fiber.StatusInternalServerError, "could not load signup")
	}

	payload := signupStatusPayload{
		Status:             signup.Status,
		VerificationStatus: signup.VerificationStatus,
	}
	// The upload token is only revealed once the signup is paid.
	if signup.Status == models.STATUS_PAID {
		payload.UploadToken = signup.UploadToken
	}

	if encoded, err := json.Marshal(payload); err == nil {
		if err := cache.Set(cache.SignupStatusKey(id), string(encoded), signupStatusCacheTTL); err != nil {
			log.Warnf("signup status cache write failed for %s: %v", id, err)
		}
	}

	return c.JSON(fiber.Map{
		"ok":                  true,
		"id":                  id,
		"status":              payload.Status,
		"verification_status": payload.VerificationStatus,
		"upload_token":        payload.UploadToken,
	})
}
