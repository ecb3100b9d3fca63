package controllers

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/theleywin/Backend-Dissuade/src/lib"
	"github.com/theleywin/Backend-Dissuade/src/models"
	"github.com/theleywin/Backend-Dissuade/src/store"
	"github.com/theleywin/Backend-Dissuade/src/validation"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

var (
	noProfile     = fiber.Map{"noprofile": "There is no profile for this user"}
	noUserProfile = fiber.Map{"noprofile": "There is no profile for that user"}
	noProfiles    = fiber.Map{"noprofile": "There are no profiles"}
)

type ProfileController struct {
	profiles store.ProfileStore
	users    store.UserStore
	log      *lib.Logger
}

func NewProfileController(profiles store.ProfileStore, users store.UserStore, log *lib.Logger) *ProfileController {
	return &ProfileController{profiles: profiles, users: users, log: log}
}

func (pc *ProfileController) Test(c *fiber.Ctx) error {
	return c.JSON(lib.MessageResponse("Profile Works"))
}

// GetCurrentProfile returns the caller's own profile.
func (pc *ProfileController) GetCurrentProfile(c *fiber.Ctx) error {
	user := currentUser(c)
	profile, err := pc.profiles.ByUser(c.UserContext(), user.Id)
	if err != nil {
		return fail(c, pc.log, err, noProfile)
	}
	return c.JSON(profile.WithUser(user.Dto()))
}

// GetAllProfiles lists every profile with its owner; no profiles is an
// empty list.
func (pc *ProfileController) GetAllProfiles(c *fiber.Ctx) error {
	profiles, err := pc.profiles.List(c.UserContext())
	if err != nil {
		return fail(c, pc.log, err, noProfiles)
	}
	ids := make([]primitive.ObjectID, 0, len(profiles))
	for _, p := range profiles {
		ids = append(ids, p.User)
	}
	users, err := pc.users.ByIDs(c.UserContext(), ids)
	if err != nil {
		return fail(c, pc.log, err, nil)
	}
	owners := make(map[primitive.ObjectID]models.UserDto, len(users))
	for _, u := range users {
		owners[u.Id] = u.Dto()
	}

	out := make([]models.ProfileDto, 0, len(profiles))
	for _, p := range profiles {
		owner, ok := owners[p.User]
		if !ok {
			owner = models.UserDto{ID: p.User}
		}
		out = append(out, p.WithUser(owner))
	}
	return c.JSON(out)
}

func (pc *ProfileController) GetProfileByHandle(c *fiber.Ctx) error {
	profile, err := pc.profiles.ByHandle(c.UserContext(), strings.TrimSpace(c.Params("handle")))
	if err != nil {
		return fail(c, pc.log, err, noUserProfile)
	}
	return pc.respond(c, profile)
}

func (pc *ProfileController) GetProfileByUser(c *fiber.Ctx) error {
	userID, err := lib.ParseID(c.Params("user_id"))
	if err != nil {
		return fail(c, pc.log, err, noUserProfile)
	}
	profile, err := pc.profiles.ByUser(c.UserContext(), userID)
	if err != nil {
		return fail(c, pc.log, err, noUserProfile)
	}
	return pc.respond(c, profile)
}

// SaveProfile creates the caller's profile, or edits it when one exists.
// A handle held by another profile is rejected before anything is written.
func (pc *ProfileController) SaveProfile(c *fiber.Ctx) error {
	rec, ok, err := readRecord(c, validation.Profile)
	if !ok {
		return err
	}

	ctx := c.UserContext()
	user := currentUser(c)

	profile, err := pc.profiles.ByUser(ctx, user.Id)
	switch {
	case err == nil:
		profile.Apply(rec)
		if err := pc.ensureHandleFree(ctx, profile); err != nil {
			return fail(c, pc.log, err, nil)
		}
		if err := pc.profiles.Save(ctx, profile); err != nil {
			return fail(c, pc.log, err, noProfile)
		}
	case errors.Is(err, models.ErrNotFound):
		created := models.NewProfile(user.Id)
		created.Apply(rec)
		if err := pc.ensureHandleFree(ctx, &created); err != nil {
			return fail(c, pc.log, err, nil)
		}
		if err := pc.profiles.Insert(ctx, &created); err != nil {
			return fail(c, pc.log, err, nil)
		}
		profile = &created
	default:
		return fail(c, pc.log, err, nil)
	}

	return c.JSON(profile.WithUser(user.Dto()))
}

// ensureHandleFree reports ErrDuplicateHandle when another user's profile
// already uses the handle. The unique index backs this up under races.
func (pc *ProfileController) ensureHandleFree(ctx context.Context, profile *models.Profile) error {
	holder, err := pc.profiles.ByHandle(ctx, profile.Handle)
	switch {
	case errors.Is(err, models.ErrNotFound):
		return nil
	case err != nil:
		return err
	case holder.User != profile.User:
		return models.ErrDuplicateHandle
	}
	return nil
}

// DeleteProfile removes the caller's profile and then the account itself.
func (pc *ProfileController) DeleteProfile(c *fiber.Ctx) error {
	user := currentUser(c)
	if err := pc.profiles.DeleteByUser(c.UserContext(), user.Id); err != nil && !errors.Is(err, models.ErrNotFound) {
		return fail(c, pc.log, err, nil)
	}
	if err := pc.users.Delete(c.UserContext(), user.Id); err != nil && !errors.Is(err, models.ErrNotFound) {
		return fail(c, pc.log, err, nil)
	}

	pc.log.Info("account deleted", "user", user.Id.Hex())
	return c.JSON(fiber.Map{"success": true})
}

func (pc *ProfileController) AddExperience(c *fiber.Ctx) error {
	rec, ok, err := readRecord(c, validation.Experience)
	if !ok {
		return err
	}

	from, to := period(rec)
	entry := models.Experience{
		Title:       rec["title"],
		Company:     rec["company"],
		Location:    rec["location"],
		From:        from,
		To:          to,
		Current:     flag(rec["current"]),
		Description: rec["description"],
	}
	return pc.update(c, func(p *models.Profile) error {
		_, err := p.AddExperience(entry)
		return err
	})
}

func (pc *ProfileController) DeleteExperience(c *fiber.Ctx) error {
	id, err := lib.ParseID(c.Params("exp_id"))
	if err != nil {
		return fail(c, pc.log, models.ErrEntryNotFound, nil)
	}
	return pc.update(c, func(p *models.Profile) error {
		return p.RemoveExperience(id)
	})
}

func (pc *ProfileController) AddEducation(c *fiber.Ctx) error {
	rec, ok, err := readRecord(c, validation.Education)
	if !ok {
		return err
	}

	from, to := period(rec)
	entry := models.Education{
		School:       rec["school"],
		Degree:       rec["degree"],
		FieldOfStudy: rec["fieldofstudy"],
		From:         from,
		To:           to,
		Current:      flag(rec["current"]),
		Description:  rec["description"],
	}
	return pc.update(c, func(p *models.Profile) error {
		_, err := p.AddEducation(entry)
		return err
	})
}

// DeleteEducation serves both DELETE and the legacy POST on
// /education/:edu_id.
func (pc *ProfileController) DeleteEducation(c *fiber.Ctx) error {
	id, err := lib.ParseID(c.Params("edu_id"))
	if err != nil {
		return fail(c, pc.log, models.ErrEntryNotFound, nil)
	}
	return pc.update(c, func(p *models.Profile) error {
		return p.RemoveEducation(id)
	})
}

// update loads the caller's profile, applies mutate and saves the result.
func (pc *ProfileController) update(c *fiber.Ctx, mutate func(*models.Profile) error) error {
	user := currentUser(c)
	profile, err := pc.profiles.ByUser(c.UserContext(), user.Id)
	if err != nil {
		return fail(c, pc.log, err, noProfile)
	}
	if err := mutate(profile); err != nil {
		return fail(c, pc.log, err, nil)
	}
	if err := pc.profiles.Save(c.UserContext(), profile); err != nil {
		return fail(c, pc.log, err, noProfile)
	}
	return c.JSON(profile.WithUser(user.Dto()))
}

// respond populates the owner of a profile looked up by someone else.
func (pc *ProfileController) respond(c *fiber.Ctx, profile *models.Profile) error {
	owner := models.UserDto{ID: profile.User}
	user, err := pc.users.ByID(c.UserContext(), profile.User)
	switch {
	case err == nil:
		owner = user.Dto()
	case !errors.Is(err, models.ErrNotFound):
		return fail(c, pc.log, err, nil)
	}
	return c.JSON(profile.WithUser(owner))
}

// period reads the already validated from/to dates of an entry.
func period(rec validation.Record) (time.Time, *time.Time) {
	from, _ := validation.ParseDate(rec["from"])
	if rec["to"] == "" {
		return from, nil
	}
	to, err := validation.ParseDate(rec["to"])
	if err != nil {
		return from, nil
	}
	return from, &to
}

func flag(v string) bool {
	b, _ := strconv.ParseBool(v)
	return b
}
