package handlers

import (
	"time"

	"github.com/fathima-sithara/user-auth-service/internal/apperr"
	"github.com/fathima-sithara/user-auth-service/internal/models"
	"github.com/fathima-sithara/user-auth-service/internal/utils"
	"github.com/gofiber/fiber/v2"
)

// sendToken issues a session token for the user, sets it as the HTTP-only
// "token" cookie and writes the standard success body.
func (h *Handler) sendToken(c *fiber.Ctx, user *models.User, status int, message string) error {
	token, err := utils.GenerateSessionToken(user.ID.Hex(), h.jwtSecret, h.jwtTTL)
	if err != nil {
		return apperr.Internal(err)
	}

	c.Cookie(&fiber.Cookie{
		Name:     "token",
		Value:    token,
		Expires:  time.Now().Add(h.cookieTTL),
		HTTPOnly: true,
	})

	return c.Status(status).JSON(fiber.Map{
		"success": true,
		"message": message,
		"token":   token,
		"user":    user,
	})
}
