package routes

import (
	"github.com/fathima-sithara/user-auth-service/internal/handlers"
	"github.com/gofiber/fiber/v2"
)

// Setup registers the user routes. authRequired guards the routes that need
// an active session.
func Setup(app *fiber.App, h *handlers.Handler, authRequired fiber.Handler) {
	api := app.Group("/api/v1")
	user := api.Group("/user")

	user.Post("/register", h.Register)
	user.Post("/otp-verification", h.VerifyOTP)
	user.Post("/login", h.Login)
	user.Get("/logout", authRequired, h.Logout)
	user.Get("/me", authRequired, h.GetUser)
	user.Post("/password/forgot", h.ForgotPassword)
	user.Put("/password/reset/:token", h.ResetPassword)
}
