package middleware

import (
	"context"
	"errors"

	"github.com/fathima-sithara/user-auth-service/internal/apperr"
	"github.com/fathima-sithara/user-auth-service/internal/models"
	"github.com/fathima-sithara/user-auth-service/internal/utils"
	"github.com/gofiber/fiber/v2"
)

// UserContextKey is where the authenticated user is stored in fiber locals.
const UserContextKey = "currentUser"

// UserResolver resolves an account id to its record. Satisfied by
// services.AccountService.
type UserResolver interface {
	GetUserByID(ctx context.Context, id string) (*models.User, error)
}

// Authenticated guards protected routes: the session cookie must be present,
// cryptographically valid and resolve to an existing account.
func Authenticated(resolver UserResolver, jwtSecret string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		token := c.Cookies("token")
		if token == "" {
			return apperr.Auth("User is not authenticated")
		}

		userID, err := utils.ParseSessionToken(token, jwtSecret)
		if err != nil {
			if errors.Is(err, utils.ErrTokenExpired) {
				return apperr.Auth("Json Web Token is expired, try again")
			}
			return apperr.Auth("Json Web Token is invalid, try again")
		}

		user, err := resolver.GetUserByID(c.Context(), userID)
		if err != nil {
			return err
		}

		c.Locals(UserContextKey, user)
		return c.Next()
	}
}
