package middleware

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/snowballopensource/snowball-api/internal/dto"
	"github.com/snowballopensource/snowball-api/internal/models"
	"gorm.io/gorm"
)

const currentUserKey = "current_user"

// CurrentUser returns the authenticated user resolved by TokenAuth, or
// nil for an anonymous request. Handlers thread this into services
// explicitly; nothing below the handler layer reads request state.
func CurrentUser(c *fiber.Ctx) *models.User {
	if user, ok := c.Locals(currentUserKey).(*models.User); ok {
		return user
	}
	return nil
}

// TokenAuth resolves the bearer token to a user when one is presented.
// It never rejects: routes that demand authentication stack RequireAuth
// on top, everything else serves anonymous viewers.
func TokenAuth(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		token := extractToken(c.Get(fiber.HeaderAuthorization))
		if token != "" {
			var user models.User
			err := db.Where("auth_token = ?", token).First(&user).Error
			if err == nil {
				c.Locals(currentUserKey, &user)
			} else if !errors.Is(err, gorm.ErrRecordNotFound) {
				return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
					Message: "An unexpected condition was encountered.",
				})
			}
		}
		return c.Next()
	}
}

func RequireAuth() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if CurrentUser(c) == nil {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
				Message: "Unauthorized",
			})
		}
		return c.Next()
	}
}

// extractToken accepts both "Bearer <token>" and the older
// `Token token="<token>"` form the mobile clients send.
func extractToken(header string) string {
	switch {
	case strings.HasPrefix(header, "Bearer "):
		return strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))
	case strings.HasPrefix(header, "Token token="):
		token := strings.TrimPrefix(header, "Token token=")
		return strings.Trim(strings.TrimSpace(token), `"`)
	}
	return ""
}
