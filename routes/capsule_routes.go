package routes

import (
	"cove_server/controllers"
	"cove_server/services"
	"cove_server/socket"

	"github.com/gorilla/mux"
)

// RegisterCapsuleRoutes registers the time capsule routes for a cove
func RegisterCapsuleRoutes(router *mux.Router, capsuleService *services.CapsuleService, notifier socket.Notifier) {
	controller := &controllers.CapsuleController{CapsuleService: capsuleService, Notifier: notifier}

	capsuleRouter := router.PathPrefix("/coves/{coveId}/capsules").Subrouter()
	capsuleRouter.HandleFunc("", controller.CreateCapsuleHandler).Methods("POST")
	capsuleRouter.HandleFunc("/active", controller.GetActiveCapsuleHandler).Methods("GET")
	capsuleRouter.HandleFunc("/{capsuleId}/entries", controller.AppendEntryHandler).Methods("POST")
	capsuleRouter.HandleFunc("/{capsuleId}/entries", controller.ListEntriesHandler).Methods("GET")
	capsuleRouter.HandleFunc("/{capsuleId}/override", controller.ToggleOverrideHandler).Methods("POST")
}
