package routers

import (
	"delivery-slot-service/internal/app/delivery/http/controllers"
	"delivery-slot-service/internal/app/delivery/http/middlewares"

	"github.com/go-chi/chi/v5"
)

func attachAvailabilityRoutes(router chi.Router, middlewares *middlewares.Middlewares, availabilityController *controllers.AvailabilityController) {
	router.Use(middlewares.Authenticate)

	router.Get("/", availabilityController.GetAvailability)
	router.Get("/version", availabilityController.GetVersion)
	router.With(middlewares.LimitStreamConnects).Get("/stream", availabilityController.Stream)
}
