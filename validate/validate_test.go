package validate

import (
	"io"
	"net/http/httptest"
	"strings"
	"testing"

	"cinema_reservation/model"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func do(t *testing.T, app *fiber.App, method, target, payload string) (int, string) {
	t.Helper()
	req := httptest.NewRequest(method, target, strings.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	require.NoError(t, err)
	raw, _ := io.ReadAll(resp.Body)
	return resp.StatusCode, string(raw)
}

func TestParamID(t *testing.T) {
	app := fiber.New()
	app.Get("/items/:id", ParamID("id"), func(c *fiber.Ctx) error {
		return c.SendString(c.Locals("inputId").(model.ID).String())
	})

	status, body := do(t, app, fiber.MethodGet, "/items/42", "")
	assert.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, "42", body)

	for _, bad := range []string{"abc", "0", "-1", "1.5"} {
		status, _ = do(t, app, fiber.MethodGet, "/items/"+bad, "")
		assert.Equal(t, fiber.StatusBadRequest, status, bad)
	}
}

func TestCreateRoomRowsAndColumns(t *testing.T) {
	app := fiber.New()
	app.Post("/", CreateRoom(), func(c *fiber.Ctx) error {
		input := c.Locals("inputCreateRoom").(model.CreateRoomInput)
		return c.SendString(input.Rows)
	})

	status, body := do(t, app, fiber.MethodPost, "/", `{"name":"Room 1","cinemaId":1,"rows":"ABC","columns":10}`)
	assert.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, "ABC", body)

	status, _ = do(t, app, fiber.MethodPost, "/", `{"name":"Room 1","cinemaId":1,"rows":"ABC"}`)
	assert.Equal(t, fiber.StatusBadRequest, status)

	status, _ = do(t, app, fiber.MethodPost, "/", `{"cinemaId":1}`)
	assert.Equal(t, fiber.StatusBadRequest, status)
}

func TestTimeRangeOrder(t *testing.T) {
	app := fiber.New()
	app.Post("/", TimeRange(), func(c *fiber.Ctx) error { return c.SendStatus(fiber.StatusNoContent) })

	status, _ := do(t, app, fiber.MethodPost, "/", `{"start":"2026-03-01T18:00:00Z","end":"2026-03-01T20:00:00Z"}`)
	assert.Equal(t, fiber.StatusNoContent, status)

	status, body := do(t, app, fiber.MethodPost, "/", `{"start":"2026-03-01T20:00:00Z","end":"2026-03-01T18:00:00Z"}`)
	assert.Equal(t, fiber.StatusBadRequest, status)
	assert.Contains(t, body, "End must be after start")
}

func TestChangePasswordMismatch(t *testing.T) {
	app := fiber.New()
	app.Post("/", ChangePassword(), func(c *fiber.Ctx) error { return c.SendStatus(fiber.StatusNoContent) })

	status, body := do(t, app, fiber.MethodPost, "/", `{"currentPassword":"old-pass","newPassword":"new-pass-1","repeatPassword":"new-pass-2"}`)
	assert.Equal(t, fiber.StatusBadRequest, status)
	assert.Contains(t, body, "repeatPassword")
}

func TestBookingStatus(t *testing.T) {
	app := fiber.New()
	app.Post("/", Booking(), func(c *fiber.Ctx) error { return c.SendStatus(fiber.StatusNoContent) })

	status, _ := do(t, app, fiber.MethodPost, "/", `{"sessionId":10,"seats":["A1"],"status":"pending"}`)
	assert.Equal(t, fiber.StatusNoContent, status)

	status, _ = do(t, app, fiber.MethodPost, "/", `{"sessionId":10,"seats":["A1"],"status":"paid"}`)
	assert.Equal(t, fiber.StatusBadRequest, status)

	status, _ = do(t, app, fiber.MethodPost, "/", `{"sessionId":10,"seats":["A1"],"status":"cancelled"}`)
	assert.Equal(t, fiber.StatusBadRequest, status)
}
