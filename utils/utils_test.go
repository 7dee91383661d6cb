package utils

import (
	"encoding/json"
	"errors"
	"io"
	"net/http/httptest"
	"strings"
	"testing"

	"cinema_reservation/constants"
	"cinema_reservation/service"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func respond(t *testing.T, err error) (int, map[string]any) {
	t.Helper()
	app := fiber.New()
	app.Get("/", func(c *fiber.Ctx) error { return FromError(c, err) })

	resp, testErr := app.Test(httptest.NewRequest(fiber.MethodGet, "/", nil))
	require.NoError(t, testErr)
	raw, _ := io.ReadAll(resp.Body)

	var body map[string]any
	require.NoError(t, json.Unmarshal(raw, &body))
	return resp.StatusCode, body
}

func TestFromErrorStatus(t *testing.T) {
	cases := []struct {
		kind   error
		status int
	}{
		{service.ErrValidation, fiber.StatusBadRequest},
		{service.ErrConflict, fiber.StatusBadRequest},
		{service.ErrNotFound, fiber.StatusNotFound},
		{service.ErrForbidden, fiber.StatusForbidden},
	}
	for _, tc := range cases {
		status, body := respond(t, &service.Error{Kind: tc.kind, Message: "boom"})
		assert.Equal(t, tc.status, status, tc.kind.Error())
		assert.Equal(t, "boom", body["message"])
		assert.Equal(t, tc.kind.Error(), body["error"])
	}
}

func TestFromErrorUnknown(t *testing.T) {
	status, body := respond(t, errors.New("db down"))
	assert.Equal(t, fiber.StatusInternalServerError, status)
	assert.Equal(t, constants.ERROR_INTERNAL_ERROR, body["message"])
	assert.Equal(t, "db down", body["error"])
}

func TestFromErrorKeepsCause(t *testing.T) {
	_, body := respond(t, &service.Error{Kind: service.ErrValidation, Message: "Invalid seats", Err: errors.New("seats must be an array")})
	assert.Equal(t, "Invalid seats", body["message"])
	assert.Equal(t, "seats must be an array", body["error"])
}

func TestRenderBookingConfirmation(t *testing.T) {
	subject, body, html, err := RenderMail(constants.MAIL_BOOKING_CONFIRMATION, map[string]any{
		"Name":      "Ada Lovelace",
		"Reference": "AB12CD34EF",
		"Movie":     "Metropolis",
		"Seats":     "A1, A2",
	})
	require.NoError(t, err)
	assert.True(t, html)
	assert.Equal(t, "Booking confirmation #AB12CD34EF", subject)
	assert.Contains(t, body, "Ada Lovelace")
	assert.Contains(t, body, "A1, A2")
	assert.Contains(t, body, "cid:"+ticketImageName)
}

func TestRenderPasswordReset(t *testing.T) {
	_, body, html, err := RenderMail(constants.MAIL_PASSWORD_RESET, map[string]any{
		"Name": "Ada",
		"Link": "http://localhost:5173/reset-password?token=abc",
	})
	require.NoError(t, err)
	assert.False(t, html)
	assert.True(t, strings.Contains(body, "token=abc"))
}

func TestRenderUnknownTemplate(t *testing.T) {
	_, _, _, err := RenderMail("nope", nil)
	assert.Error(t, err)
}

func TestGenerateQRCode(t *testing.T) {
	png, err := GenerateQRCode("AB12CD34EF", 0)
	require.NoError(t, err)
	assert.Equal(t, []byte("\x89PNG"), png[:4])
}
