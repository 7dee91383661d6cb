package middleware

import (
	"context"
	"errors"
	"strings"

	"cinema_reservation/constants"
	"cinema_reservation/database"
	"cinema_reservation/helper"
	"cinema_reservation/model"
	"cinema_reservation/utils"

	"github.com/gofiber/fiber/v2"
)

// FindUser loads the token subject. Tests replace it with an in-memory lookup.
var FindUser = func(ctx context.Context, id uint) (*model.User, error) {
	var user model.User
	if err := database.DB.WithContext(ctx).First(&user, id).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func tokenFrom(c *fiber.Ctx) string {
	token := c.Cookies("access_token")
	if token == "" {
		auth := c.Get(fiber.HeaderAuthorization)
		if strings.HasPrefix(auth, "Bearer ") {
			token = strings.TrimPrefix(auth, "Bearer ")
		}
	}
	return token
}

func authenticate(c *fiber.Ctx) (*model.User, int, string, error) {
	token := tokenFrom(c)
	if token == "" {
		return nil, fiber.StatusUnauthorized, constants.MISSING_TOKEN, errors.New("no token")
	}
	claim, err := helper.ParseAccessToken(token)
	if err != nil {
		return nil, fiber.StatusUnauthorized, constants.INVALID_TOKEN, err
	}
	user, err := FindUser(c.UserContext(), claim.UserId)
	if err != nil {
		return nil, fiber.StatusUnauthorized, constants.INVALID_TOKEN, err
	}
	if !user.Active {
		return nil, fiber.StatusUnauthorized, constants.ACCOUNT_NOT_ACTIVE, errors.New("account disabled")
	}
	return user, 0, "", nil
}

// Protected rejects requests without a valid access token, from the
// access_token cookie or a bearer header, and stores the user in Locals.
func Protected() fiber.Handler {
	return func(c *fiber.Ctx) error {
		user, status, message, err := authenticate(c)
		if err != nil {
			return utils.ErrorResponse(c, status, message, err)
		}
		c.Locals("user", user)
		return c.Next()
	}
}

// OptionalAuth stores the user when a valid token is present and lets
// anonymous requests through.
func OptionalAuth() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if user, _, _, err := authenticate(c); err == nil {
			c.Locals("user", user)
		}
		return c.Next()
	}
}

// Require answers 403 unless the authenticated user's role holds every
// capability. It must run after Protected.
func Require(caps ...helper.Capability) fiber.Handler {
	return func(c *fiber.Ctx) error {
		user, ok := helper.CurrentUser(c)
		if !ok {
			return utils.ErrorResponse(c, fiber.StatusUnauthorized, constants.MISSING_TOKEN, errors.New("no user"))
		}
		if !helper.Can(helper.Role(user.Role), caps...) {
			return utils.ErrorResponse(c, fiber.StatusForbidden, constants.NOT_PERMISSION, errors.New("forbidden"))
		}
		return c.Next()
	}
}
