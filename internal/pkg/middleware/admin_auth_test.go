package middleware

import (
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
)

func adminApp() *fiber.App {
	app := fiber.New()
	app.Get("/admin/ping", AdminAuthMiddleware(), func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	})
	return app
}

func TestAdminAuthUnconfigured(t *testing.T) {
	t.Setenv("ADMIN_PASSWORD", "")

	req := httptest.NewRequest("GET", "/admin/ping", nil)
	req.Header.Set("X-Admin-Password", "anything")
	resp, err := adminApp().Test(req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.StatusCode != fiber.StatusInternalServerError {
		t.Fatalf("status = %d, unconfigured admin access must fail closed", resp.StatusCode)
	}
}

func TestAdminAuth(t *testing.T) {
	t.Setenv("ADMIN_PASSWORD", "s3cret")

	tests := []struct {
		name       string
		header     string
		value      string
		wantStatus int
	}{
		{name: "header match", header: "X-Admin-Password", value: "s3cret", wantStatus: fiber.StatusOK},
		{name: "bearer match", header: "Authorization", value: "Bearer s3cret", wantStatus: fiber.StatusOK},
		{name: "wrong password", header: "X-Admin-Password", value: "nope", wantStatus: fiber.StatusUnauthorized},
		{name: "missing credentials", wantStatus: fiber.StatusUnauthorized},
	}

	app := adminApp()
	for _, tt := range tests {
		req := httptest.NewRequest("GET", "/admin/ping", nil)
		if tt.header != "" {
			req.Header.Set(tt.header, tt.value)
		}
		resp, err := app.Test(req)
		if err != nil {
			t.Fatalf("%s: %v", tt.name, err)
		}
		if resp.StatusCode != tt.wantStatus {
			t.Fatalf("%s: status = %d, want %d", tt.name, resp.StatusCode, tt.wantStatus)
		}
	}
}
