package controllers

import (
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
)

func TestPagination(t *testing.T) {
	tests := []struct {
		query      string
		wantOffset int
		wantLimit  int
	}{
		{query: "", wantOffset: 0, wantLimit: 50},
		{query: "offset=20&limit=10", wantOffset: 20, wantLimit: 10},
		{query: "offset=-5", wantOffset: 0, wantLimit: 50},
		{query: "limit=0", wantOffset: 0, wantLimit: 50},
		{query: "limit=5000", wantOffset: 0, wantLimit: 50},
		{query: "offset=abc&limit=xyz", wantOffset: 0, wantLimit: 50},
	}

	app := fiber.New()
	var gotOffset, gotLimit int
	app.Get("/", func(c *fiber.Ctx) error {
		gotOffset, gotLimit = pagination(c)
		return c.SendStatus(fiber.StatusOK)
	})

	for _, tt := range tests {
		req := httptest.NewRequest("GET", "/?"+tt.query, nil)
		if _, err := app.Test(req); err != nil {
			t.Fatalf("query %q: %v", tt.query, err)
		}
		if gotOffset != tt.wantOffset || gotLimit != tt.wantLimit {
			t.Fatalf("query %q: got (%d, %d), want (%d, %d)",
				tt.query, gotOffset, gotLimit, tt.wantOffset, tt.wantLimit)
		}
	}
}

func TestRequestMeta(t *testing.T) {
	app := fiber.New()
	var meta string
	app.Post("/notify", func(c *fiber.Ctx) error {
		meta = requestMeta(c)
		return c.SendStatus(fiber.StatusOK)
	})

	req := httptest.NewRequest("POST", "/notify?x=1", strings.NewReader("a=b"))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("User-Agent", "PayFast/1.0")
	if _, err := app.Test(req); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	for _, want := range []string{
		"method=POST",
		"url=/notify?x=1",
		"content-type=application/x-www-form-urlencoded",
		"user-agent=PayFast/1.0",
	} {
		if !strings.Contains(meta, want) {
			t.Fatalf("meta %q missing %q", meta, want)
		}
	}
}
