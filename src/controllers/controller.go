package controllers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/theleywin/Backend-Dissuade/src/lib"
	"github.com/theleywin/Backend-Dissuade/src/middleware"
	"github.com/theleywin/Backend-Dissuade/src/models"
	"github.com/theleywin/Backend-Dissuade/src/validation"
)

// currentUser returns the user ProtectRoute attached to the request.
func currentUser(c *fiber.Ctx) models.User {
	return c.Locals("user").(models.User)
}

// readRecord parses the body and runs rules over it. A false ok means the 400
// response has already been written.
func readRecord(c *fiber.Ctx, rules validation.Rules) (rec validation.Record, ok bool, err error) {
	rec, err = lib.ParseRecord(c)
	if err != nil {
		return nil, false, c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
		})
	}
	if res := rules.Validate(rec); !res.IsValid {
		return nil, false, c.Status(fiber.StatusBadRequest).JSON(res.Errors)
	}
	return rec, true, nil
}

// fail writes err through lib.ErrorResponse, logging anything the client
// cannot fix.
func fail(c *fiber.Ctx, log *lib.Logger, err error, missing fiber.Map) error {
	if status, _ := lib.StatusFor(err); status >= fiber.StatusInternalServerError {
		log.Error("request failed",
			"method", c.Method(),
			"path", c.Path(),
			"request_id", middleware.RequestID(c),
			"error", err,
		)
	}
	return lib.ErrorResponse(c, err, missing)
}

// deny answers models.ErrNotAuthorized with the route's own 401 body and
// everything else through fail.
func deny(c *fiber.Ctx, log *lib.Logger, err error, denied fiber.Map) error {
	if denied != nil && errors.Is(err, models.ErrNotAuthorized) {
		return c.Status(fiber.StatusUnauthorized).JSON(denied)
	}
	return fail(c, log, err, nil)
}
