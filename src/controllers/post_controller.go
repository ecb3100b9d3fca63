package controllers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/theleywin/Backend-Dissuade/src/lib"
	"github.com/theleywin/Backend-Dissuade/src/models"
	"github.com/theleywin/Backend-Dissuade/src/store"
	"github.com/theleywin/Backend-Dissuade/src/validation"
)

var (
	noPost  = fiber.Map{"post": "No post found"}
	noPosts = fiber.Map{"nopostsfound": "No posts found"}

	cannotDeletePost    = fiber.Map{"deletePost": "User is not authorized to delete this post"}
	cannotDeleteComment = fiber.Map{"notAuthorized": "User is not authorized to delete this comment"}
)

type PostController struct {
	posts store.PostStore
	log   *lib.Logger
}

func NewPostController(posts store.PostStore, log *lib.Logger) *PostController {
	return &PostController{posts: posts, log: log}
}

func (pc *PostController) Test(c *fiber.Ctx) error {
	return c.JSON(lib.MessageResponse("Posts Works"))
}

// GetPosts returns every post, newest first.
func (pc *PostController) GetPosts(c *fiber.Ctx) error {
	posts, err := pc.posts.List(c.UserContext())
	if err != nil {
		return fail(c, pc.log, err, noPosts)
	}
	return c.JSON(posts)
}

func (pc *PostController) GetPostByID(c *fiber.Ctx) error {
	id, err := lib.ParseID(c.Params("id"))
	if err != nil {
		return fail(c, pc.log, err, noPost)
	}
	post, err := pc.posts.ByID(c.UserContext(), id)
	if err != nil {
		return fail(c, pc.log, err, noPost)
	}
	return c.JSON(post)
}

// CreatePost stores a post written by the caller. Name and avatar default to
// the caller's own.
func (pc *PostController) CreatePost(c *fiber.Ctx) error {
	rec, ok, err := readRecord(c, validation.Post)
	if !ok {
		return err
	}

	user := currentUser(c)
	post := models.NewPost(user.Id, rec["text"], orDefault(rec["name"], user.Name), orDefault(rec["avatar"], user.Avatar))
	if err := pc.posts.Insert(c.UserContext(), &post); err != nil {
		return fail(c, pc.log, err, nil)
	}
	return c.JSON(post)
}

func (pc *PostController) DeletePost(c *fiber.Ctx) error {
	id, err := lib.ParseID(c.Params("id"))
	if err != nil {
		return fail(c, pc.log, err, noPost)
	}
	post, err := pc.posts.ByID(c.UserContext(), id)
	if err != nil {
		return fail(c, pc.log, err, noPost)
	}
	if err := post.CanDelete(currentUser(c).Id); err != nil {
		return deny(c, pc.log, err, cannotDeletePost)
	}
	if err := pc.posts.Delete(c.UserContext(), id); err != nil {
		return fail(c, pc.log, err, noPost)
	}
	return c.JSON(fiber.Map{"success": true})
}

func (pc *PostController) LikePost(c *fiber.Ctx) error {
	user := currentUser(c)
	return pc.update(c, nil, func(post *models.Post) error {
		return post.Like(user.Id)
	})
}

func (pc *PostController) UnlikePost(c *fiber.Ctx) error {
	user := currentUser(c)
	return pc.update(c, nil, func(post *models.Post) error {
		return post.Unlike(user.Id)
	})
}

// CreateComment appends a comment by the caller to the post.
func (pc *PostController) CreateComment(c *fiber.Ctx) error {
	rec, ok, err := readRecord(c, validation.Comment)
	if !ok {
		return err
	}

	user := currentUser(c)
	comment := models.Comment{
		User:   user.Id,
		Text:   rec["text"],
		Name:   orDefault(rec["name"], user.Name),
		Avatar: orDefault(rec["avatar"], user.Avatar),
	}
	return pc.update(c, nil, func(post *models.Post) error {
		_, err := post.AddComment(comment)
		return err
	})
}

func (pc *PostController) DeleteComment(c *fiber.Ctx) error {
	commentID, err := lib.ParseID(c.Params("comment_id"))
	if err != nil {
		return fail(c, pc.log, models.ErrCommentNotFound, nil)
	}

	user := currentUser(c)
	return pc.update(c, cannotDeleteComment, func(post *models.Post) error {
		return post.RemoveComment(commentID, user.Id)
	})
}

// update loads the post named by :id, applies mutate and saves the result.
// denied, when set, is the body sent if mutate refuses the caller.
func (pc *PostController) update(c *fiber.Ctx, denied fiber.Map, mutate func(*models.Post) error) error {
	id, err := lib.ParseID(c.Params("id"))
	if err != nil {
		return fail(c, pc.log, err, noPost)
	}

	post, err := pc.posts.ByID(c.UserContext(), id)
	if err != nil {
		return fail(c, pc.log, err, noPost)
	}
	if err := mutate(post); err != nil {
		return deny(c, pc.log, err, denied)
	}
	if err := pc.posts.Save(c.UserContext(), post); err != nil {
		return fail(c, pc.log, err, noPost)
	}
	return c.JSON(post)
}

func orDefault(value, fallback string) string {
	if value != "" {
		return value
	}
	return fallback
}
