package router

import (
	"cinema_reservation/handler"
	"cinema_reservation/helper"
	"cinema_reservation/middleware"
	"cinema_reservation/validate"

	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
)

// Handlers groups the handlers that carry their own dependencies. The rest of
// the handler package works on the shared database connection.
type Handlers struct {
	Bookings  *handler.BookingHandler
	Reviews   *handler.ReviewHandler
	Incidents *handler.IncidentHandler
	Payments  *handler.PaymentHandler
	Uploads   *handler.UploadHandler
}

func SetupRoutes(app *fiber.App, h Handlers) {
	api := app.Group("/api")
	api.Get("/health", handler.Health)

	catalogWrite := middleware.Require(helper.CapCatalogWrite)

	users := api.Group("/users")
	users.Post("/register", validate.Register(), handler.Register)
	users.Post("/login", validate.Login(), handler.Login)
	users.Post("/logout", handler.Logout)
	users.Post("/refresh-token", handler.RefreshToken)
	users.Post("/forgot-password", validate.ForgotPassword(), handler.ForgotPassword)
	users.Post("/reset-password", validate.ResetPassword(), handler.ResetPassword)
	users.Get("/me", middleware.Protected(), handler.Me)
	users.Put("/me", middleware.Protected(), validate.UpdateProfile(), handler.UpdateMe)
	users.Post("/change-password", middleware.Protected(), validate.ChangePassword(), handler.ChangePassword)
	users.Get("/", middleware.Protected(), middleware.Require(helper.CapUsersManage), handler.GetUsers)
	users.Post("/staff", middleware.Protected(), middleware.Require(helper.CapUsersManage), validate.CreateStaff(), handler.CreateStaff)
	users.Get("/:id", middleware.Protected(), middleware.Require(helper.CapUsersManage), validate.ParamID("id"), handler.GetUserById)
	users.Patch("/:id/role", middleware.Protected(), middleware.Require(helper.CapUsersPromote), validate.ParamID("id"), validate.ChangeRole(), handler.ChangeRole)
	users.Delete("/:id", middleware.Protected(), middleware.Require(helper.CapUsersManage), validate.ParamID("id"), handler.DeleteUser)

	categories := api.Group("/categories")
	categories.Get("/", handler.GetCategories)
	categories.Get("/:id", validate.ParamID("id"), handler.GetCategoryById)
	categories.Post("/", middleware.Protected(), catalogWrite, validate.Category(), handler.CreateCategory)
	categories.Put("/:id", middleware.Protected(), catalogWrite, validate.ParamID("id"), validate.Category(), handler.EditCategory)
	categories.Delete("/:id", middleware.Protected(), catalogWrite, validate.ParamID("id"), handler.DeleteCategory)

	movies := api.Group("/movies")
	movies.Get("/", validate.MovieFilter(), handler.GetMovies)
	movies.Get("/slug/:slug", handler.GetMovieBySlug)
	movies.Get("/:id", validate.ParamID("id"), handler.GetMovieById)
	movies.Post("/", middleware.Protected(), catalogWrite, validate.CreateMovie(), handler.CreateMovie)
	movies.Put("/:id", middleware.Protected(), catalogWrite, validate.ParamID("id"), validate.EditMovie(), handler.EditMovie)
	movies.Delete("/:id", middleware.Protected(), catalogWrite, validate.ParamID("id"), handler.DeleteMovie)

	cinemas := api.Group("/cinemas")
	cinemas.Get("/", handler.GetCinemas)
	cinemas.Get("/:id", validate.ParamID("id"), handler.GetCinemaById)
	cinemas.Get("/:id/rooms", validate.ParamID("id"), handler.GetRoomsByCinemaId)
	cinemas.Post("/", middleware.Protected(), catalogWrite, validate.CreateCinema(), handler.CreateCinema)
	cinemas.Put("/:id", middleware.Protected(), catalogWrite, validate.ParamID("id"), validate.EditCinema(), handler.EditCinema)
	cinemas.Delete("/:id", middleware.Protected(), catalogWrite, validate.ParamID("id"), handler.DeleteCinema)

	rooms := api.Group("/rooms")
	rooms.Get("/", handler.GetRooms)
	rooms.Get("/:id", validate.ParamID("id"), handler.GetRoomById)
	rooms.Get("/:id/seats", validate.ParamID("id"), handler.GetSeatsByRoomId)
	rooms.Post("/", middleware.Protected(), catalogWrite, validate.CreateRoom(), handler.CreateRoom)
	rooms.Put("/:id", middleware.Protected(), catalogWrite, validate.ParamID("id"), validate.EditRoom(), handler.EditRoom)
	rooms.Delete("/:id", middleware.Protected(), catalogWrite, validate.ParamID("id"), handler.DeleteRoom)

	seats := api.Group("/seats", middleware.Protected(), catalogWrite)
	seats.Post("/", validate.CreateSeat(), handler.CreateSeat)
	seats.Put("/:id", validate.ParamID("id"), validate.EditSeat(), handler.EditSeat)
	seats.Delete("/:id", validate.ParamID("id"), handler.DeleteSeat)

	sessions := api.Group("/sessions")
	sessions.Get("/", validate.SessionFilter(), handler.GetSessions)
	sessions.Get("/:id", validate.ParamID("id"), handler.GetSessionById)
	sessions.Post("/", middleware.Protected(), catalogWrite, validate.CreateSession(), handler.CreateSession)
	sessions.Put("/:id", middleware.Protected(), catalogWrite, validate.ParamID("id"), validate.EditSession(), handler.EditSession)
	sessions.Delete("/:id", middleware.Protected(), catalogWrite, validate.ParamID("id"), handler.DeleteSession)
	sessions.Post("/:id/time-ranges", middleware.Protected(), catalogWrite, validate.ParamID("id"), validate.TimeRange(), handler.CreateTimeRange)

	timeRanges := api.Group("/time-ranges")
	timeRanges.Get("/:id/seats", validate.ParamID("id"), handler.GetTimeRangeSeats)
	timeRanges.Delete("/:id", middleware.Protected(), catalogWrite, validate.ParamID("id"), handler.DeleteTimeRange)

	ws := api.Group("/ws", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	})
	ws.Get("/time-ranges/:id", websocket.New(handler.SeatMapSocket))

	bookings := api.Group("/bookings", middleware.Protected(), middleware.Require(helper.CapBookingsOwn))
	bookings.Post("/", validate.Booking(), h.Bookings.CreateOrUpdate)
	bookings.Put("/", validate.Booking(), h.Bookings.CreateOrUpdate)
	bookings.Put("/reset-counts", middleware.Require(helper.CapUsersManage), h.Bookings.ResetCounts)
	bookings.Get("/", middleware.Require(helper.CapBookingsManage), h.Bookings.List)
	bookings.Get("/user/:userId", validate.ParamID("userId"), h.Bookings.ListByUser)
	bookings.Get("/:id", h.Bookings.Get)
	bookings.Patch("/:id/soft-delete", h.Bookings.SoftDelete)
	bookings.Delete("/:id", h.Bookings.Delete)

	reviews := api.Group("/reviews")
	reviews.Get("/movie/:movieId", validate.ParamID("movieId"), h.Reviews.ListByMovie)
	reviews.Post("/", middleware.Protected(), validate.CreateReview(), h.Reviews.Create)
	reviews.Get("/", middleware.Protected(), middleware.Require(helper.CapReviewsModerate), validate.ReviewFilter(), h.Reviews.List)
	reviews.Get("/:id", middleware.OptionalAuth(), h.Reviews.Get)
	reviews.Put("/:id", middleware.Protected(), validate.EditReview(), h.Reviews.Update)
	reviews.Patch("/:id/approve", middleware.Protected(), middleware.Require(helper.CapReviewsModerate), h.Reviews.Approve)
	reviews.Patch("/:id/reject", middleware.Protected(), middleware.Require(helper.CapReviewsModerate), h.Reviews.Reject)
	reviews.Delete("/:id", middleware.Protected(), h.Reviews.Delete)

	incidents := api.Group("/incidents", middleware.Protected(), middleware.Require(helper.CapIncidentsManage))
	incidents.Post("/", validate.CreateIncident(), h.Incidents.Create)
	incidents.Get("/", validate.IncidentFilter(), h.Incidents.List)
	incidents.Get("/:id", h.Incidents.Get)
	incidents.Put("/:id", validate.EditIncident(), h.Incidents.Update)
	incidents.Patch("/:id/resolve", h.Incidents.Resolve)
	incidents.Delete("/:id", h.Incidents.Delete)

	api.Post("/payments/intent", middleware.Protected(), validate.PaymentIntent(), h.Payments.CreateIntent)
	api.Post("/uploads/signature", middleware.Protected(), catalogWrite, validate.UploadSignature(), h.Uploads.Signature)

	app.Use(handler.NotFound)
}
