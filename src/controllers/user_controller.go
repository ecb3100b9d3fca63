package controllers

import (
	"crypto/md5"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/theleywin/Backend-Dissuade/src/lib"
	"github.com/theleywin/Backend-Dissuade/src/models"
	"github.com/theleywin/Backend-Dissuade/src/store"
	"github.com/theleywin/Backend-Dissuade/src/validation"
	"golang.org/x/crypto/bcrypt"
)

type UserController struct {
	users      store.UserStore
	tokens     *lib.Tokens
	bcryptCost int
	log        *lib.Logger
}

func NewUserController(users store.UserStore, tokens *lib.Tokens, bcryptCost int, log *lib.Logger) *UserController {
	if bcryptCost < bcrypt.MinCost || bcryptCost > bcrypt.MaxCost {
		bcryptCost = bcrypt.DefaultCost
	}
	return &UserController{users: users, tokens: tokens, bcryptCost: bcryptCost, log: log}
}

func (uc *UserController) Test(c *fiber.Ctx) error {
	return c.JSON(lib.MessageResponse("Users Works"))
}

// Register creates an account; the avatar is the e-mail's Gravatar.
func (uc *UserController) Register(c *fiber.Ctx) error {
	rec, ok, err := readRecord(c, validation.Register)
	if !ok {
		return err
	}

	email := strings.ToLower(strings.TrimSpace(rec["email"]))
	if _, err := uc.users.ByEmail(c.UserContext(), email); err == nil {
		return fail(c, uc.log, models.ErrEmailTaken, nil)
	} else if !errors.Is(err, models.ErrNotFound) {
		return fail(c, uc.log, err, nil)
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(rec["password"]), uc.bcryptCost)
	if errors.Is(err, bcrypt.ErrPasswordTooLong) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"password": "Password must be at most 72 bytes",
		})
	}
	if err != nil {
		return fail(c, uc.log, fmt.Errorf("hash password: %w", err), nil)
	}

	newUser := models.User{
		Name:     strings.TrimSpace(rec["name"]),
		Email:    email,
		Password: string(hashedPassword),
		Avatar:   gravatar(email),
		Date:     time.Now().UTC(),
	}
	if err := uc.users.Insert(c.UserContext(), &newUser); err != nil {
		return fail(c, uc.log, err, nil)
	}

	uc.log.Info("user registered", "user", newUser.Id.Hex())
	return c.JSON(newUser)
}

// Login checks the credentials and hands out a bearer token.
func (uc *UserController) Login(c *fiber.Ctx) error {
	rec, ok, err := readRecord(c, validation.Login)
	if !ok {
		return err
	}

	user, err := uc.users.ByEmail(c.UserContext(), strings.ToLower(strings.TrimSpace(rec["email"])))
	if err != nil {
		return fail(c, uc.log, err, fiber.Map{"email": "User not found"})
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(rec["password"])); err != nil {
		return fail(c, uc.log, models.ErrInvalidCredentials, nil)
	}

	token, err := uc.tokens.GenerateJWT(*user)
	if err != nil {
		return fail(c, uc.log, fmt.Errorf("sign token: %w", err), nil)
	}

	return c.JSON(fiber.Map{
		"success": true,
		"token":   "Bearer " + token,
	})
}

func (uc *UserController) Current(c *fiber.Ctx) error {
	user := currentUser(c)
	return c.JSON(fiber.Map{
		"id":     user.Id,
		"name":   user.Name,
		"email":  user.Email,
		"avatar": user.Avatar,
	})
}

func gravatar(email string) string {
	return fmt.Sprintf("//www.gravatar.com/avatar/%x?s=200&r=pg&d=mm", md5.Sum([]byte(email)))
}
