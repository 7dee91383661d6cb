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

type ReviewHandler struct {
	reviews *service.ReviewService
}

func NewReviewHandler(reviews *service.ReviewService) *ReviewHandler {
	return &ReviewHandler{reviews: reviews}
}

func (h *ReviewHandler) Create(c *fiber.Ctx) error {
	input, ok := c.Locals("inputCreateReview").(model.CreateReviewInput)
	if !ok {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, constants.ERROR_PARSE_DATA_TO_LOCALS, errors.New("PARSE DATA TO LOCALS FAIL"))
	}
	review, err := h.reviews.Create(c.UserContext(), helper.ActorFrom(c, helper.CapReviewsModerate), input)
	if err != nil {
		return utils.FromError(c, err)
	}
	return utils.SuccessResponse(c, fiber.StatusCreated, review)
}

// List is the moderation queue. It returns every review matching the filter.
func (h *ReviewHandler) List(c *fiber.Ctx) error {
	filter, ok := c.Locals("reviewFilter").(model.ReviewFilter)
	if !ok {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, constants.ERROR_PARSE_DATA_TO_LOCALS, errors.New("PARSE DATA TO LOCALS FAIL"))
	}
	reviews, err := h.reviews.List(c.UserContext(), filter)
	if err != nil {
		return utils.FromError(c, err)
	}
	return utils.SuccessResponse(c, fiber.StatusOK, reviews)
}

func (h *ReviewHandler) ListByMovie(c *fiber.Ctx) error {
	movieId := c.Locals("inputId").(model.ID)
	reviews, err := h.reviews.ListApproved(c.UserContext(), movieId)
	if err != nil {
		return utils.FromError(c, err)
	}
	return utils.SuccessResponse(c, fiber.StatusOK, reviews)
}

func (h *ReviewHandler) Get(c *fiber.Ctx) error {
	review, err := h.reviews.Get(c.UserContext(), helper.ActorFrom(c, helper.CapReviewsModerate), c.Params("id"))
	if err != nil {
		return utils.FromError(c, err)
	}
	return utils.SuccessResponse(c, fiber.StatusOK, review)
}

func (h *ReviewHandler) Update(c *fiber.Ctx) error {
	input, ok := c.Locals("inputEditReview").(model.EditReviewInput)
	if !ok {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, constants.ERROR_PARSE_DATA_TO_LOCALS, errors.New("PARSE DATA TO LOCALS FAIL"))
	}
	review, err := h.reviews.Update(c.UserContext(), helper.ActorFrom(c, helper.CapReviewsModerate), c.Params("id"), input)
	if err != nil {
		return utils.FromError(c, err)
	}
	return utils.SuccessResponse(c, fiber.StatusOK, review)
}

func (h *ReviewHandler) Approve(c *fiber.Ctx) error {
	return h.moderate(c, constants.REVIEW_APPROVED)
}

func (h *ReviewHandler) Reject(c *fiber.Ctx) error {
	return h.moderate(c, constants.REVIEW_REJECTED)
}

func (h *ReviewHandler) moderate(c *fiber.Ctx, status string) error {
	review, err := h.reviews.Moderate(c.UserContext(), helper.ActorFrom(c, helper.CapReviewsModerate), c.Params("id"), status)
	if err != nil {
		return utils.FromError(c, err)
	}
	return utils.SuccessResponse(c, fiber.StatusOK, review)
}

func (h *ReviewHandler) Delete(c *fiber.Ctx) error {
	id := c.Params("id")
	if err := h.reviews.Delete(c.UserContext(), helper.ActorFrom(c, helper.CapReviewsModerate), id); err != nil {
		return utils.FromError(c, err)
	}
	return utils.SuccessResponse(c, fiber.StatusOK, fiber.Map{"id": id})
}
