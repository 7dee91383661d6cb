package validate

import (
	"cinema_reservation/model"

	"github.com/gofiber/fiber/v2"
)

func Category() fiber.Handler {
	return body[model.CategoryInput]("inputCategory")
}

func CreateMovie() fiber.Handler {
	return body[model.CreateMovieInput]("inputCreateMovie")
}

func EditMovie() fiber.Handler {
	return body[model.EditMovieInput]("inputEditMovie")
}

func MovieFilter() fiber.Handler {
	return query[model.MovieFilter]("movieFilter")
}
