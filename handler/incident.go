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

type IncidentHandler struct {
	incidents *service.IncidentService
}

func NewIncidentHandler(incidents *service.IncidentService) *IncidentHandler {
	return &IncidentHandler{incidents: incidents}
}

func (h *IncidentHandler) Create(c *fiber.Ctx) error {
	input, ok := c.Locals("inputCreateIncident").(model.CreateIncidentInput)
	if !ok {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, constants.ERROR_PARSE_DATA_TO_LOCALS, errors.New("PARSE DATA TO LOCALS FAIL"))
	}
	incident, err := h.incidents.Create(c.UserContext(), helper.ActorFrom(c, helper.CapIncidentsManage), input)
	if err != nil {
		return utils.FromError(c, err)
	}
	return utils.SuccessResponse(c, fiber.StatusCreated, incident)
}

func (h *IncidentHandler) List(c *fiber.Ctx) error {
	filter, ok := c.Locals("incidentFilter").(model.IncidentFilter)
	if !ok {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, constants.ERROR_PARSE_DATA_TO_LOCALS, errors.New("PARSE DATA TO LOCALS FAIL"))
	}
	incidents, err := h.incidents.List(c.UserContext(), filter)
	if err != nil {
		return utils.FromError(c, err)
	}
	return utils.SuccessResponse(c, fiber.StatusOK, incidents)
}

func (h *IncidentHandler) Get(c *fiber.Ctx) error {
	incident, err := h.incidents.Get(c.UserContext(), c.Params("id"))
	if err != nil {
		return utils.FromError(c, err)
	}
	return utils.SuccessResponse(c, fiber.StatusOK, incident)
}

func (h *IncidentHandler) Update(c *fiber.Ctx) error {
	input, ok := c.Locals("inputEditIncident").(model.EditIncidentInput)
	if !ok {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, constants.ERROR_PARSE_DATA_TO_LOCALS, errors.New("PARSE DATA TO LOCALS FAIL"))
	}
	incident, err := h.incidents.Update(c.UserContext(), c.Params("id"), input)
	if err != nil {
		return utils.FromError(c, err)
	}
	return utils.SuccessResponse(c, fiber.StatusOK, incident)
}

func (h *IncidentHandler) Resolve(c *fiber.Ctx) error {
	incident, err := h.incidents.Resolve(c.UserContext(), c.Params("id"))
	if err != nil {
		return utils.FromError(c, err)
	}
	return utils.SuccessResponse(c, fiber.StatusOK, incident)
}

func (h *IncidentHandler) Delete(c *fiber.Ctx) error {
	id := c.Params("id")
	if err := h.incidents.Delete(c.UserContext(), id); err != nil {
		return utils.FromError(c, err)
	}
	return utils.SuccessResponse(c, fiber.StatusOK, fiber.Map{"id": id})
}
