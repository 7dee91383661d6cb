package handler

import (
	"cinema_reservation/service"
	"cinema_reservation/utils"

	"github.com/gofiber/fiber/v2"
)

// Package level collaborators of the function handlers, set once by main.
var (
	Mailer        service.Mailer = discardMailer{}
	FrontendURL                  = "http://localhost:5173"
	SecureCookies                = false
)

type discardMailer struct{}

func (discardMailer) Send(string, string, map[string]any) {}

func Health(c *fiber.Ctx) error {
	return utils.SuccessResponse(c, fiber.StatusOK, fiber.Map{"status": "ok"})
}

func NotFound(c *fiber.Ctx) error {
	return utils.ErrorResponse(c, fiber.StatusNotFound, "Route not found", fiber.ErrNotFound)
}
