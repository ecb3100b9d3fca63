package routes

import (
	"github.com/gofiber/fiber/v2"
	"github.com/theleywin/Backend-Dissuade/src/controllers"
)

// UserRoutes sets up registration, login and the current-user lookup
func UserRoutes(app *fiber.App, uc *controllers.UserController, protect fiber.Handler) {
	user := app.Group("/api/users")

	user.Get("/test", uc.Test)
	user.Post("/register", uc.Register)
	user.Post("/login", uc.Login)
	user.Get("/current", protect, uc.Current)
}
