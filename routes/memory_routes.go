package routes

import (
	"cove_server/controllers"
	"cove_server/services"

	"github.com/gorilla/mux"
)

// RegisterMemoryRoutes registers the roulette and flashback reads
func RegisterMemoryRoutes(router *mux.Router, memoryService *services.MemoryService) {
	controller := &controllers.MemoryController{MemoryService: memoryService}

	memoryRouter := router.PathPrefix("/coves/{coveId}/memories").Subrouter()
	memoryRouter.HandleFunc("/spin", controller.SpinHandler).Methods("POST")
	memoryRouter.HandleFunc("/flashback", controller.FlashbackHandler).Methods("GET")
}
