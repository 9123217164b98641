package controllers

import (
	"net/http"

	"cove_server/helpers"
	"cove_server/services"
	"cove_server/socket"

	"github.com/gorilla/mux"
)

// PinController handles HTTP requests for map pins
type PinController struct {
	PinService *services.PinService
	Notifier   socket.Notifier
}

type createPinRequest struct {
	Title       string  `json:"title" validate:"required,min=1,max=100"`
	Description string  `json:"description" validate:"max=1000"`
	Latitude    float64 `json:"latitude" validate:"gte=-90,lte=90"`
	Longitude   float64 `json:"longitude" validate:"gte=-180,lte=180"`
	MediaRef    string  `json:"mediaRef" validate:"max=500"`
}

// CreatePinHandler drops a pin on the cove map
func (c *PinController) CreatePinHandler(w http.ResponseWriter, r *http.Request) {
	identity, ok := requireIdentity(w, r)
	if !ok {
		return
	}
	coveID := mux.Vars(r)["coveId"]

	var req createPinRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	pin, err := c.PinService.CreatePin(r.Context(), identity, coveID, services.CreatePinInput{
		Title:       req.Title,
		Description: req.Description,
		Latitude:    req.Latitude,
		Longitude:   req.Longitude,
		MediaRef:    req.MediaRef,
	})
	if err != nil {
		helpers.WriteServiceError(w, err)
		return
	}

	if c.Notifier != nil {
		c.Notifier.NotifyCove(coveID, socket.EventPinChanged, pin)
	}
	helpers.WriteJSONResponse(w, http.StatusCreated, pin)
}

// ListPinsHandler lists a cove's pins
func (c *PinController) ListPinsHandler(w http.ResponseWriter, r *http.Request) {
	identity, ok := requireIdentity(w, r)
	if !ok {
		return
	}
	coveID := mux.Vars(r)["coveId"]

	pins, err := c.PinService.ListPins(r.Context(), identity, coveID)
	if err != nil {
		helpers.WriteServiceError(w, err)
		return
	}
	helpers.WriteJSONResponse(w, http.StatusOK, pins)
}

// DeletePinHandler deletes a pin; author or cove owner
func (c *PinController) DeletePinHandler(w http.ResponseWriter, r *http.Request) {
	identity, ok := requireIdentity(w, r)
	if !ok {
		return
	}
	vars := mux.Vars(r)
	coveID, pinID := vars["coveId"], vars["pinId"]

	if err := c.PinService.DeletePin(r.Context(), identity, coveID, pinID); err != nil {
		helpers.WriteServiceError(w, err)
		return
	}

	if c.Notifier != nil {
		c.Notifier.NotifyCove(coveID, socket.EventPinChanged, nil)
	}
	helpers.WriteJSONResponse(w, http.StatusOK, map[string]string{"message": "pin deleted"})
}
