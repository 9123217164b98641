package routes

import (
	"cove_server/controllers"
	"cove_server/services"

	"github.com/gorilla/mux"
)

// RegisterUserProfileRoutes registers user profile routes
func RegisterUserProfileRoutes(router *mux.Router, userProfileService *services.UserProfileService) {
	controller := &controllers.UserProfileController{UserProfileService: userProfileService}

	profileRouter := router.PathPrefix("/profiles").Subrouter()
	profileRouter.HandleFunc("/me", controller.EnsureProfileHandler).Methods("PUT")
	profileRouter.HandleFunc("/{userId}", controller.GetProfileHandler).Methods("GET")
}
