package utils

import (
	"errors"

	"cinema_reservation/constants"
	"cinema_reservation/logger"
	"cinema_reservation/service"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// FromError writes the response for an error returned by a service. Seat
// and uniqueness conflicts are client errors and map to 400.
func FromError(c *fiber.Ctx, err error) error {
	var se *service.Error
	if errors.As(err, &se) {
		status := fiber.StatusInternalServerError
		switch {
		case errors.Is(se.Kind, service.ErrValidation), errors.Is(se.Kind, service.ErrConflict):
			status = fiber.StatusBadRequest
		case errors.Is(se.Kind, service.ErrNotFound):
			status = fiber.StatusNotFound
		case errors.Is(se.Kind, service.ErrForbidden):
			status = fiber.StatusForbidden
		}
		detail := se.Kind
		if se.Err != nil {
			detail = se.Err
		}
		return ErrorResponse(c, status, se.Message, detail)
	}

	logger.Log.Error("request failed",
		zap.String("method", c.Method()),
		zap.String("path", c.Path()),
		zap.Error(err))
	return ErrorResponse(c, fiber.StatusInternalServerError, constants.ERROR_INTERNAL_ERROR, err)
}

// ErrorHandler is the fiber fallback for errors no handler turned into a response.
func ErrorHandler(c *fiber.Ctx, err error) error {
	var fe *fiber.Error
	if errors.As(err, &fe) {
		return ErrorResponse(c, fe.Code, fe.Message, err)
	}
	return FromError(c, err)
}
