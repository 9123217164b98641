package controllers

import (
	"net/http"
	"time"

	"cove_server/helpers"
	"cove_server/services"

	"github.com/gorilla/mux"
)

// MemoryController handles the roulette and flashback reads
type MemoryController struct {
	MemoryService *services.MemoryService
}

// SpinHandler draws one random memory from the cove
func (c *MemoryController) SpinHandler(w http.ResponseWriter, r *http.Request) {
	identity, ok := requireIdentity(w, r)
	if !ok {
		return
	}
	coveID := mux.Vars(r)["coveId"]

	memory, err := c.MemoryService.Spin(r.Context(), identity, coveID)
	if err != nil {
		helpers.WriteServiceError(w, err)
		return
	}
	helpers.WriteJSONResponse(w, http.StatusOK, memory)
}

// FlashbackHandler lists memories from this day in earlier years
func (c *MemoryController) FlashbackHandler(w http.ResponseWriter, r *http.Request) {
	identity, ok := requireIdentity(w, r)
	if !ok {
		return
	}
	coveID := mux.Vars(r)["coveId"]

	memories, err := c.MemoryService.Flashback(r.Context(), identity, coveID, time.Now())
	if err != nil {
		helpers.WriteServiceError(w, err)
		return
	}
	helpers.WriteJSONResponse(w, http.StatusOK, memories)
}
