package routes

import (
	"github.com/gofiber/fiber/v2"
	"github.com/theleywin/Backend-Dissuade/src/controllers"
)

// ProfileRoutes sets up profile lookups, edits and experience/education entries
func ProfileRoutes(app *fiber.App, pc *controllers.ProfileController, protect fiber.Handler) {
	profile := app.Group("/api/profile")

	profile.Get("/test", pc.Test)
	profile.Get("/all", pc.GetAllProfiles)
	profile.Get("/handle/:handle", pc.GetProfileByHandle)
	profile.Get("/user/:user_id", pc.GetProfileByUser)

	profile.Get("/", protect, pc.GetCurrentProfile)
	profile.Post("/", protect, pc.SaveProfile)
	profile.Delete("/", protect, pc.DeleteProfile)

	profile.Post("/experience", protect, pc.AddExperience)
	profile.Delete("/experience/:exp_id", protect, pc.DeleteExperience)

	profile.Post("/education", protect, pc.AddEducation)
	profile.Delete("/education/:edu_id", protect, pc.DeleteEducation)
	// kept for older clients that remove education with POST
	profile.Post("/education/:edu_id", protect, pc.DeleteEducation)
}
