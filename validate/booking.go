package validate

import (
	"cinema_reservation/model"

	"github.com/gofiber/fiber/v2"
)

// Booking only checks the envelope. Identifiers and seats are parsed by the
// booking service so their messages name the offending field.
func Booking() fiber.Handler {
	return body[model.BookingInput]("inputBooking")
}

func CreateReview() fiber.Handler {
	return body[model.CreateReviewInput]("inputCreateReview")
}

func EditReview() fiber.Handler {
	return body[model.EditReviewInput]("inputEditReview")
}

func ReviewFilter() fiber.Handler {
	return query[model.ReviewFilter]("reviewFilter")
}

func PaymentIntent() fiber.Handler {
	return body[model.PaymentIntentInput]("inputPaymentIntent")
}

func UploadSignature() fiber.Handler {
	return body[model.UploadSignatureInput]("inputUploadSignature")
}
