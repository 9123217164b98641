package routes

import (
	"cove_server/controllers"
	"cove_server/services"
	"cove_server/socket"

	"github.com/gorilla/mux"
)

// RegisterPinRoutes registers pinned place routes for a cove
func RegisterPinRoutes(router *mux.Router, pinService *services.PinService, notifier socket.Notifier) {
	controller := &controllers.PinController{PinService: pinService, Notifier: notifier}

	pinRouter := router.PathPrefix("/coves/{coveId}/pins").Subrouter()
	pinRouter.HandleFunc("", controller.CreatePinHandler).Methods("POST")
	pinRouter.HandleFunc("", controller.ListPinsHandler).Methods("GET")
	pinRouter.HandleFunc("/{pinId}", controller.DeletePinHandler).Methods("DELETE")
}
