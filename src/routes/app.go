package routes

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/google/uuid"
	"github.com/theleywin/Backend-Dissuade/src/controllers"
	"github.com/theleywin/Backend-Dissuade/src/lib"
	"github.com/theleywin/Backend-Dissuade/src/middleware"
	"github.com/theleywin/Backend-Dissuade/src/store"
)

// NewApp builds the Fiber app with every route registered.
func NewApp(cfg lib.Config, stores store.Stores, log *lib.Logger) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:      "dissuade",
		ErrorHandler: errorHandler,
	})

	log = log.With("component", "http")

	app.Use(requestid.New(requestid.Config{Generator: uuid.NewString}))
	app.Use(middleware.RequestLogger(log))
	app.Use(recover.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: cfg.CORSOrigins,
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
	}))

	tokens := lib.NewTokens(cfg.JWTSecret, cfg.JWTTTL)
	protect := middleware.ProtectRoute(tokens, stores.Users, log)

	UserRoutes(app, controllers.NewUserController(stores.Users, tokens, cfg.BcryptCost, log), protect)
	ProfileRoutes(app, controllers.NewProfileController(stores.Profiles, stores.Users, log), protect)
	PostRoutes(app, controllers.NewPostController(stores.Posts, log), protect)

	app.Get("/", func(c *fiber.Ctx) error {
		return c.SendString("Hello World")
	})

	return app
}

func errorHandler(c *fiber.Ctx, err error) error {
	var fe *fiber.Error
	if errors.As(err, &fe) {
		return c.Status(fe.Code).JSON(fiber.Map{"message": fe.Message})
	}
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"server": "Server error"})
}
