package handler

import (
	"errors"

	"cinema_reservation/constants"
	"cinema_reservation/helper"
	"cinema_reservation/model"
	"cinema_reservation/service"
	"cinema_reservation/utils"

	"github.com/gofiber/fiber/v2"
)

type BookingHandler struct {
	bookings *service.BookingService
}

func NewBookingHandler(bookings *service.BookingService) *BookingHandler {
	return &BookingHandler{bookings: bookings}
}

// CreateOrUpdate serves both POST and PUT /api/bookings. A body carrying an
// id replaces that booking.
func (h *BookingHandler) CreateOrUpdate(c *fiber.Ctx) error {
	input, ok := c.Locals("inputBooking").(model.BookingInput)
	if !ok {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, constants.ERROR_PARSE_DATA_TO_LOCALS, errors.New("PARSE DATA TO LOCALS FAIL"))
	}

	booking, created, err := h.bookings.CreateOrUpdate(c.UserContext(), helper.ActorFrom(c, helper.CapBookingsManage), input)
	if err != nil {
		return utils.FromError(c, err)
	}
	status := fiber.StatusOK
	if created {
		status = fiber.StatusCreated
	}
	return utils.SuccessResponse(c, status, booking)
}

func (h *BookingHandler) List(c *fiber.Ctx) error {
	bookings, err := h.bookings.List(c.UserContext())
	if err != nil {
		return utils.FromError(c, err)
	}
	return utils.SuccessResponse(c, fiber.StatusOK, bookings)
}

func (h *BookingHandler) Get(c *fiber.Ctx) error {
	booking, err := h.bookings.Get(c.UserContext(), helper.ActorFrom(c, helper.CapBookingsManage), c.Params("id"))
	if err != nil {
		return utils.FromError(c, err)
	}
	return utils.SuccessResponse(c, fiber.StatusOK, booking)
}

func (h *BookingHandler) ListByUser(c *fiber.Ctx) error {
	userId := c.Locals("inputId").(model.ID)
	bookings, err := h.bookings.ListByUser(c.UserContext(), helper.ActorFrom(c, helper.CapBookingsManage), userId)
	if err != nil {
		return utils.FromError(c, err)
	}
	return utils.SuccessResponse(c, fiber.StatusOK, bookings)
}

// SoftDelete frees the seats and keeps the booking as cancelled.
func (h *BookingHandler) SoftDelete(c *fiber.Ctx) error {
	return h.cancel(c, false)
}

func (h *BookingHandler) Delete(c *fiber.Ctx) error {
	return h.cancel(c, true)
}

func (h *BookingHandler) cancel(c *fiber.Ctx, hard bool) error {
	booking, err := h.bookings.Cancel(c.UserContext(), helper.ActorFrom(c, helper.CapBookingsManage), c.Params("id"), hard)
	if err != nil {
		return utils.FromError(c, err)
	}
	return utils.SuccessResponse(c, fiber.StatusOK, booking)
}

func (h *BookingHandler) ResetCounts(c *fiber.Ctx) error {
	deleted, err := h.bookings.ResetAll(c.UserContext())
	if err != nil {
		return utils.FromError(c, err)
	}
	return utils.SuccessResponse(c, fiber.StatusOK, fiber.Map{"deletedCount": deleted})
}
