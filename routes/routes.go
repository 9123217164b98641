package routes

import (
	"cove_server/controllers"

	"github.com/gorilla/mux"
)

// RegisterRoutes sets up the unauthenticated base routes
func RegisterRoutes(r *mux.Router) {
	r.HandleFunc("/health", controllers.HealthCheckHandler).Methods("GET")
	r.HandleFunc("/", controllers.WelcomeHandler).Methods("GET")
}
