package lib

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/theleywin/Backend-Dissuade/src/models"
)

var failures = []struct {
	err    error
	status int
	key    string
}{
	{models.ErrNotFound, fiber.StatusNotFound, "notfound"},
	{models.ErrDuplicateHandle, fiber.StatusBadRequest, "handle"},
	{models.ErrProfileExists, fiber.StatusBadRequest, "profile"},
	{models.ErrEmailTaken, fiber.StatusBadRequest, "email"},
	{models.ErrInvalidCredentials, fiber.StatusBadRequest, "password"},
	{models.ErrAlreadyLiked, fiber.StatusBadRequest, "alreadyLiked"},
	{models.ErrNotLiked, fiber.StatusBadRequest, "notLiked"},
	{models.ErrCommentNotFound, fiber.StatusNotFound, "noComment"},
	{models.ErrEntryNotFound, fiber.StatusNotFound, "entry"},
	{models.ErrNotAuthorized, fiber.StatusUnauthorized, "notAuthorized"},
	{models.ErrConflict, fiber.StatusConflict, "conflict"},
	{models.ErrStoreUnavailable, fiber.StatusServiceUnavailable, "store"},
}

// StatusFor maps an error to the HTTP status and body key it is reported under.
func StatusFor(err error) (int, string) {
	for _, f := range failures {
		if errors.Is(err, f.err) {
			return f.status, f.key
		}
	}
	return fiber.StatusInternalServerError, "server"
}

// ErrorResponse writes err as a {key: message} body. When err is
// models.ErrNotFound and missing is set, missing is sent instead so each route
// can say what it could not find.
func ErrorResponse(c *fiber.Ctx, err error, missing fiber.Map) error {
	status, key := StatusFor(err)
	if status == fiber.StatusNotFound && errors.Is(err, models.ErrNotFound) && missing != nil {
		return c.Status(status).JSON(missing)
	}

	message := "Server error"
	if status < fiber.StatusInternalServerError || status == fiber.StatusServiceUnavailable {
		message = messageFor(err)
	}
	return c.Status(status).JSON(fiber.Map{key: message})
}

// messageFor returns the sentinel's own text rather than the wrapped chain,
// which may carry driver details.
func messageFor(err error) string {
	for _, f := range failures {
		if errors.Is(err, f.err) {
			return f.err.Error()
		}
	}
	return err.Error()
}
