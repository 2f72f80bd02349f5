package routers

import (
	"delivery-slot-service/internal/app/delivery/http/controllers"
	"delivery-slot-service/internal/app/delivery/http/middlewares"

	"github.com/go-chi/chi/v5"
)

func attachBookingRoutes(router chi.Router, middlewares *middlewares.Middlewares, bookingController *controllers.BookingController, submissionLimiter *middlewares.RateLimiter) {
	router.Use(middlewares.Authenticate)

	router.With(submissionLimiter.Limit).Post("/", bookingController.Submit)
	router.Get("/", bookingController.List)
	router.With(middlewares.RequireAdmin).Get("/stats", bookingController.Stats)
	router.Get("/{booking_id}", bookingController.FindByID)

	router.Group(func(r chi.Router) {
		r.Use(middlewares.RequireAdmin)
		r.Post("/{booking_id}/approve", bookingController.Approve)
		r.Post("/{booking_id}/reject", bookingController.Reject)
		r.Post("/{booking_id}/reschedule", bookingController.Reschedule)
	})
}
