package middleware

import (
	"context"
	"errors"
	"net/http/httptest"
	"testing"
	"time"

	"cinema_reservation/config"
	"cinema_reservation/helper"
	"cinema_reservation/model"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func setupUsers(t *testing.T, users ...model.User) {
	t.Helper()
	helper.ConfigureTokens(config.JWTSettings{Secret: "middleware-secret", AccessTTL: time.Minute, RefreshTTL: time.Hour})

	byId := map[uint]model.User{}
	for _, u := range users {
		byId[u.ID] = u
	}
	previous := FindUser
	FindUser = func(_ context.Context, id uint) (*model.User, error) {
		u, ok := byId[id]
		if !ok {
			return nil, errors.New("record not found")
		}
		return &u, nil
	}
	t.Cleanup(func() { FindUser = previous })
}

func tokenFor(t *testing.T, u model.User) string {
	t.Helper()
	token, err := helper.GenerateAccessToken(model.TokenClaim{UserId: u.ID, Email: u.Email, Role: u.Role})
	require.NoError(t, err)
	return token
}

func newApp(handlers ...fiber.Handler) *fiber.App {
	app := fiber.New()
	handlers = append(handlers, func(c *fiber.Ctx) error {
		user, ok := helper.CurrentUser(c)
		if !ok {
			return c.SendString("anonymous")
		}
		return c.SendString(user.Email)
	})
	app.Get("/", handlers...)
	return app
}

func status(t *testing.T, app *fiber.App, token string, cookie bool) int {
	t.Helper()
	req := httptest.NewRequest(fiber.MethodGet, "/", nil)
	if token != "" {
		if cookie {
			req.Header.Set("Cookie", "access_token="+token)
		} else {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}
	resp, err := app.Test(req)
	require.NoError(t, err)
	return resp.StatusCode
}

var (
	customer = model.User{DTO: model.DTO{ID: 1}, Email: "c@example.com", Role: "customer", Active: true}
	admin    = model.User{DTO: model.DTO{ID: 2}, Email: "a@example.com", Role: "admin", Active: true}
	disabled = model.User{DTO: model.DTO{ID: 3}, Email: "d@example.com", Role: "customer", Active: false}
)

func TestProtected(t *testing.T) {
	setupUsers(t, customer, disabled)
	app := newApp(Protected())

	assert.Equal(t, fiber.StatusUnauthorized, status(t, app, "", false))
	assert.Equal(t, fiber.StatusUnauthorized, status(t, app, "garbage", false))
	assert.Equal(t, fiber.StatusOK, status(t, app, tokenFor(t, customer), false))
	assert.Equal(t, fiber.StatusOK, status(t, app, tokenFor(t, customer), true))
	assert.Equal(t, fiber.StatusUnauthorized, status(t, app, tokenFor(t, disabled), false))
	assert.Equal(t, fiber.StatusUnauthorized, status(t, app, tokenFor(t, admin), false), "unknown user")
}

func TestRequire(t *testing.T) {
	setupUsers(t, customer, admin)
	app := newApp(Protected(), Require(helper.CapCatalogWrite))

	assert.Equal(t, fiber.StatusForbidden, status(t, app, tokenFor(t, customer), false))
	assert.Equal(t, fiber.StatusOK, status(t, app, tokenFor(t, admin), false))
}

func TestOptionalAuth(t *testing.T) {
	setupUsers(t, customer)
	app := newApp(OptionalAuth())

	assert.Equal(t, fiber.StatusOK, status(t, app, "", false))
	assert.Equal(t, fiber.StatusOK, status(t, app, "garbage", false))
	assert.Equal(t, fiber.StatusOK, status(t, app, tokenFor(t, customer), false))
}

func TestLoggerKeepsStatus(t *testing.T) {
	app := fiber.New()
	app.Use(Logger(zap.NewNop()))
	app.Get("/missing", func(c *fiber.Ctx) error { return fiber.ErrNotFound })
	app.Get("/ok", func(c *fiber.Ctx) error { return c.SendStatus(fiber.StatusNoContent) })

	resp, err := app.Test(httptest.NewRequest(fiber.MethodGet, "/missing", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)

	resp, err = app.Test(httptest.NewRequest(fiber.MethodGet, "/ok", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusNoContent, resp.StatusCode)
}
