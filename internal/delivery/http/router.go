package http

import (
	"net/http"

	httpSwagger "github.com/swaggo/http-swagger"

	"iamin/internal/delivery/http/controllers"
)

// NewRouter initializes the HTTP router with all application routes.
func NewRouter(eventController *controllers.EventController, healthController *controllers.HealthController) *http.ServeMux {
	mux := http.NewServeMux()

	// Events
	mux.HandleFunc("POST /events", eventController.CreateEvent)
	mux.HandleFunc("GET /events", eventController.ListEvents)
	mux.HandleFunc("GET /events/{eventID}", eventController.GetEventByID)
	mux.HandleFunc("POST /events/{eventID}/register", eventController.Register)
	mux.HandleFunc("POST /events/{eventID}/join", eventController.Join)

	// Health
	mux.HandleFunc("GET /health", healthController.Health)

	// Swagger
	mux.Handle("/swagger/", httpSwagger.WrapHandler)

	return mux
}
