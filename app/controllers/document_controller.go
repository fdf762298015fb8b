package controllers

import (
	"context"
	"crypto/subtle"
	"errors"
	"strings"
	"time"

	"github.com/ManuelReschke/PayFox/app/models"
	"github.com/ManuelReschke/PayFox/app/repository"
	"github.com/ManuelReschke/PayFox/internal/pkg/docstore"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"
	"gorm.io/gorm"
)

// HandleDocumentUpload accepts a verification document for a paid signup.
// Access is scoped by the signup's upload token, which is unrelated to the
// payment signature.
func HandleDocumentUpload(c *fiber.Ctx) error {
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
		log.Errorf("document upload lookup failed for %s: %v", id, err)
		return jsonError(c, fiber.StatusInternalServerError, "could not load signup")
	}

	if signup.Status != models.STATUS_PAID {
		return jsonError(c, fiber.StatusForbidden, "signup is not paid")
	}

	token := strings.TrimSpace(c.Get("X-Upload-Token"))
	if token == "" {
		token = strings.TrimSpace(c.FormValue("token"))
	}
	if signup.UploadToken == "" || subtle.ConstantTimeCompare([]byte(token), []byte(signup.UploadToken)) != 1 {
		return jsonError(c, fiber.StatusUnauthorized, "invalid upload token")
	}

	fileHeader, err := c.FormFile("document")
	if err != nil {
		return jsonError(c, fiber.StatusBadRequest, "document file is required")
	}

	file, err := fileHeader.Open()
	if err != nil {
		log.Errorf("document open failed for %s: %v", id, err)
		return jsonError(c, fiber.StatusInternalServerError, "could not read document")
	}
	defer file.Close()

	cfg, err := docstore.LoadConfig()
	if err != nil {
		log.Errorf("document storage config invalid: %v", err)
		return jsonError(c, fiber.StatusInternalServerError, "document storage unavailable")
	}
	if !cfg.IsEnabled() {
		return jsonError(c, fiber.StatusServiceUnavailable, "document storage is disabled")
	}

	store, err := docstore.NewClient(cfg)
	if err != nil {
		log.Errorf("document storage init failed: %v", err)
		return jsonError(c, fiber.StatusInternalServerError, "document storage unavailable")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	contentType := fileHeader.Header.Get(fiber.HeaderContentType)
	key, err := store.StoreDocument(ctx, signup.ID, fileHeader.Filename, contentType, file)
	if err != nil {
		log.Errorf("document store failed for %s: %v", id, err)
		return jsonError(c, fiber.StatusInternalServerError, "could not store document")
	}

	if err := repo.SetVerificationStatus(signup.ID, models.VERIFICATION_SUBMITTED); err != nil {
		log.Errorf("verification status update failed for %s: %v", id, err)
		return jsonError(c, fiber.StatusInternalServerError, "could not update verification status")
	}

	return c.JSON(fiber.Map{"ok": true, "id": signup.ID, "document_key": key})
}
