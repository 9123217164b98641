package routes

import (
	"cove_server/controllers"
	"cove_server/services"
	"cove_server/socket"

	"github.com/gorilla/mux"
)

// RegisterCoveRoutes registers cove lifecycle and membership routes
func RegisterCoveRoutes(router *mux.Router, coveService *services.CoveService, notifier socket.Notifier) {
	controller := &controllers.CoveController{CoveService: coveService, Notifier: notifier}

	coveRouter := router.PathPrefix("/coves").Subrouter()
	coveRouter.HandleFunc("", controller.CreateCoveHandler).Methods("POST")
	coveRouter.HandleFunc("", controller.ListCovesHandler).Methods("GET")
	coveRouter.HandleFunc("/join", controller.JoinCoveHandler).Methods("POST")
	coveRouter.HandleFunc("/{coveId}", controller.GetCoveHandler).Methods("GET")
	coveRouter.HandleFunc("/{coveId}", controller.UpdateCoveHandler).Methods("PATCH")
	coveRouter.HandleFunc("/{coveId}", controller.DeleteCoveHandler).Methods("DELETE")
}
