package middleware

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/theleywin/Backend-Dissuade/src/lib"
	"github.com/theleywin/Backend-Dissuade/src/models"
	"github.com/theleywin/Backend-Dissuade/src/store"
)

const bearerPrefix = "Bearer "

// ProtectRoute checks for a valid bearer token, loads the user it was issued
// for and attaches it to the request context under "user".
func ProtectRoute(tokens *lib.Tokens, users store.UserStore, log *lib.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get(fiber.HeaderAuthorization)
		if authHeader == "" {
			return unauthorized(c, log, "No token provided")
		}
		if !strings.HasPrefix(authHeader, bearerPrefix) {
			return unauthorized(c, log, "Invalid token format")
		}

		userID, err := tokens.VerifyJWT(strings.TrimSpace(authHeader[len(bearerPrefix):]))
		if err != nil {
			return unauthorized(c, log, "Invalid token")
		}

		user, err := users.ByID(c.UserContext(), userID)
		if errors.Is(err, models.ErrNotFound) {
			return unauthorized(c, log, "User not found")
		}
		if err != nil {
			log.Error("auth user lookup failed", "user", userID.Hex(), "error", err)
			return lib.ErrorResponse(c, err, nil)
		}

		user.Password = ""
		c.Locals("user", *user)
		return c.Next()
	}
}

func unauthorized(c *fiber.Ctx, log *lib.Logger, message string) error {
	log.Debug("request rejected", "path", c.Path(), "reason", message)
	return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
		"message": "Unauthorized - " + message,
	})
}
