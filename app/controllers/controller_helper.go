package controllers

import (
	"fmt"
	"strconv"

	"github.com/gofiber/fiber/v2"
)

// jsonError writes the standard error envelope. Messages are descriptive but
// never contain secrets or internals.
func jsonError(c *fiber.Ctx, status int, message string) error {
	return c.Status(status).JSON(fiber.Map{"ok": false, "error": message})
}

// requestMeta captures request metadata for the notification log.
func requestMeta(c *fiber.Ctx) string {
	meta := fmt.Sprintf("method=%s url=%s ip=%s content-type=%s user-agent=%s",
		c.Method(),
		c.OriginalURL(),
		c.IP(),
		c.Get(fiber.HeaderContentType),
		c.Get(fiber.HeaderUserAgent),
	)
	return meta
}

// pagination reads offset/limit query params with sane bounds.
func pagination(c *fiber.Ctx) (int, int) {
	offset, _ := strconv.Atoi(c.Query("offset", "0"))
	limit, _ := strconv.Atoi(c.Query("limit", "50"))
	if offset < 0 {
		offset = 0
	}
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	return offset, limit
}
