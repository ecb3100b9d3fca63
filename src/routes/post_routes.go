package routes

import (
	"github.com/gofiber/fiber/v2"
	"github.com/theleywin/Backend-Dissuade/src/controllers"
)

// PostRoutes sets up post routes for listing, creation, deletion, likes and comments
func PostRoutes(app *fiber.App, pc *controllers.PostController, protect fiber.Handler) {
	post := app.Group("/api/posts")

	post.Get("/test", pc.Test)
	post.Get("/", pc.GetPosts)
	post.Get("/:id", pc.GetPostByID)
	post.Post("/", protect, pc.CreatePost)
	post.Delete("/:id", protect, pc.DeletePost)
	post.Post("/like/:id", protect, pc.LikePost)
	post.Post("/unlike/:id", protect, pc.UnlikePost)
	post.Post("/comment/:id", protect, pc.CreateComment)
	post.Delete("/comment/:id/:comment_id", protect, pc.DeleteComment)
}
