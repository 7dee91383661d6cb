package handler

import (
	"errors"
	"time"

	"cinema_reservation/constants"
	"cinema_reservation/helper"
	"cinema_reservation/logger"
	"cinema_reservation/model"
	"cinema_reservation/utils"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

type PaymentHandler struct {
	gateway helper.PaymentGateway
}

func NewPaymentHandler(gateway helper.PaymentGateway) *PaymentHandler {
	return &PaymentHandler{gateway: gateway}
}

// CreateIntent opens a payment intent so the client can confirm the payment
// with the gateway directly.
func (h *PaymentHandler) CreateIntent(c *fiber.Ctx) error {
	input, ok := c.Locals("inputPaymentIntent").(model.PaymentIntentInput)
	if !ok {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, constants.ERROR_PARSE_DATA_TO_LOCALS, errors.New("PARSE DATA TO LOCALS FAIL"))
	}

	metadata := map[string]string{}
	if user, ok := helper.CurrentUser(c); ok {
		metadata["userId"] = model.ID(user.ID).String()
	}
	if input.BookingId != "" {
		metadata["bookingId"] = input.BookingId
	}

	intent, err := h.gateway.CreateIntent(c.UserContext(), input.Amount, input.Currency, metadata)
	if errors.Is(err, helper.ErrInvalidAmount) {
		return utils.ErrorResponseHaveKey(c, fiber.StatusBadRequest, constants.INVALID_INPUT, err, "amount")
	}
	if err != nil {
		logger.Log.Error("create payment intent", zap.String("gateway", h.gateway.Name()), zap.Error(err))
		return utils.ErrorResponse(c, fiber.StatusBadGateway, constants.PAYMENT_FAILED, err)
	}
	return utils.SuccessResponse(c, fiber.StatusOK, intent)
}

type UploadHandler struct {
	cld *cloudinary.Cloudinary
	now func() time.Time
}

func NewUploadHandler(cld *cloudinary.Cloudinary) *UploadHandler {
	return &UploadHandler{cld: cld, now: time.Now}
}

func (h *UploadHandler) Signature(c *fiber.Ctx) error {
	input, ok := c.Locals("inputUploadSignature").(model.UploadSignatureInput)
	if !ok {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, constants.ERROR_PARSE_DATA_TO_LOCALS, errors.New("PARSE DATA TO LOCALS FAIL"))
	}
	if h.cld == nil {
		return utils.ErrorResponse(c, fiber.StatusServiceUnavailable, constants.UPLOADS_DISABLED, errors.New("cloudinary is not configured"))
	}
	signature, err := helper.SignUpload(h.cld, input.Folder, h.now())
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, constants.ERROR_INTERNAL_ERROR, err)
	}
	return utils.SuccessResponse(c, fiber.StatusOK, signature)
}
