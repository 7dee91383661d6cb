package validate

import (
	"cinema_reservation/model"

	"github.com/gofiber/fiber/v2"
)

func CreateCinema() fiber.Handler {
	return body[model.CreateCinemaInput]("inputCreateCinema")
}

func EditCinema() fiber.Handler {
	return body[model.EditCinemaInput]("inputEditCinema")
}

func IncidentFilter() fiber.Handler {
	return query[model.IncidentFilter]("incidentFilter")
}

func CreateIncident() fiber.Handler {
	return body[model.CreateIncidentInput]("inputCreateIncident")
}

func EditIncident() fiber.Handler {
	return body[model.EditIncidentInput]("inputEditIncident")
}
