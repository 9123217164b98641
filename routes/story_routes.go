package routes

import (
	"cove_server/controllers"
	"cove_server/services"
	"cove_server/socket"

	"github.com/gorilla/mux"
)

// RegisterStoryRoutes registers anonymous story routes for a cove
func RegisterStoryRoutes(router *mux.Router, storyService *services.StoryService, notifier socket.Notifier) {
	controller := &controllers.StoryController{StoryService: storyService, Notifier: notifier}

	storyRouter := router.PathPrefix("/coves/{coveId}/stories").Subrouter()
	storyRouter.HandleFunc("", controller.CreateStoryHandler).Methods("POST")
	storyRouter.HandleFunc("", controller.ListStoriesHandler).Methods("GET")
	storyRouter.HandleFunc("/{storyId}", controller.EditStoryHandler).Methods("PATCH")
	storyRouter.HandleFunc("/{storyId}", controller.DeleteStoryHandler).Methods("DELETE")
	storyRouter.HandleFunc("/{storyId}/like", controller.ToggleLikeHandler).Methods("POST")
	storyRouter.HandleFunc("/{storyId}/like", controller.HasLikedHandler).Methods("GET")
}
