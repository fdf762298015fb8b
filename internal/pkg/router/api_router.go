package router

import (
	"github.com/ManuelReschke/PayFox/app/controllers"
	"github.com/ManuelReschke/PayFox/internal/pkg/middleware"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"
)

type ApiRouter struct {
}

func (h ApiRouter) InstallRouter(app *fiber.App) {
	// The notification webhook is registered outside the rate limiter: the
	// provider retries aggressively and must never be throttled into a retry
	// storm.
	app.Post("/api/v1/payfast/notify", controllers.HandlePaymentNotify)

	api := app.Group("/api", limiter.New())
	api.Get("/", func(ctx *fiber.Ctx) error {
		return ctx.Status(fiber.StatusOK).JSON(fiber.Map{
			"message": "Hello from api",
		})
	})

	v1 := api.Group("/v1")
	v1.Post("/signups", controllers.HandleCreateSignup)
	v1.Get("/signups/:id/status", controllers.HandleSignupStatus)
	v1.Post("/signups/:id/checkout", controllers.HandleCheckout)
	v1.Post("/signups/:id/documents", controllers.HandleDocumentUpload)

	admin := v1.Group("/admin", middleware.AdminAuthMiddleware())
	admin.Get("/signups", controllers.HandleAdminListSignups)
	admin.Get("/notifications", controllers.HandleAdminListNotifications)
	admin.Post("/signups/:id/cancel", controllers.HandleCancelSignup)
}

func NewApiRouter() *ApiRouter {
	return &ApiRouter{}
}
