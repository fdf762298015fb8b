package controllers

import (
	"github.com/ManuelReschke/PayFox/app/repository"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"
)

// HandleAdminListSignups lists signups for the admin surface.
func HandleAdminListSignups(c *fiber.Ctx) error {
	offset, limit := pagination(c)

	repo := repository.GetGlobalFactory().GetSignupRepository()
	signups, err := repo.List(offset, limit)
	if err != nil {
		log.Errorf("admin signup listing failed: %v", err)
		return jsonError(c, fiber.StatusInternalServerError, "could not list signups")
	}
	total, err := repo.Count()
	if err != nil {
		log.Errorf("admin signup count failed: %v", err)
		return jsonError(c, fiber.StatusInternalServerError, "could not count signups")
	}

	return c.JSON(fiber.Map{
		"ok":      true,
		"total":   total,
		"offset":  offset,
		"limit":   limit,
		"signups": signups,
	})
}

// HandleAdminListNotifications lists raw notification log entries, newest
// first, for payment dispute forensics.
func HandleAdminListNotifications(c *fiber.Ctx) error {
	offset, limit := pagination(c)

	repo := repository.GetGlobalFactory().GetNotificationLogRepository()
	entries, err := repo.List(offset, limit)
	if err != nil {
		log.Errorf("admin notification listing failed: %v", err)
		return jsonError(c, fiber.StatusInternalServerError, "could not list notifications")
	}

	return c.JSON(fiber.Map{
		"ok":            true,
		"offset":        offset,
		"limit":         limit,
		"notifications": entries,
	})
}
