package controllers

import (
	"net/http"

	"cove_server/helpers"
	"cove_server/services"
	"cove_server/socket"

	"github.com/gorilla/mux"
)

// CoveController handles HTTP requests for cove lifecycle and membership
type CoveController struct {
	CoveService *services.CoveService
	Notifier    socket.Notifier
}

type createCoveRequest struct {
	Name        string `json:"name" validate:"required,min=1,max=100"`
	Description string `json:"description" validate:"max=500"`
}

// CreateCoveHandler creates a cove owned by the caller
func (c *CoveController) CreateCoveHandler(w http.ResponseWriter, r *http.Request) {
	identity, ok := requireIdentity(w, r)
	if !ok {
		return
	}

	var req createCoveRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	cove, err := c.CoveService.CreateCove(r.Context(), identity, req.Name, req.Description)
	if err != nil {
		helpers.WriteServiceError(w, err)
		return
	}
	helpers.WriteJSONResponse(w, http.StatusCreated, cove)
}

type joinCoveRequest struct {
	// the service normalizes before validating length and charset
	Code string `json:"code" validate:"required,max=32"`
}

// JoinCoveHandler joins the caller to a cove by join code
func (c *CoveController) JoinCoveHandler(w http.ResponseWriter, r *http.Request) {
	identity, ok := requireIdentity(w, r)
	if !ok {
		return
	}

	var req joinCoveRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	cove, err := c.CoveService.JoinCove(r.Context(), identity, req.Code)
	if err != nil {
		helpers.WriteServiceError(w, err)
		return
	}

	if c.Notifier != nil {
		c.Notifier.NotifyCove(cove.ID, socket.EventCoveChanged, cove)
	}
	helpers.WriteJSONResponse(w, http.StatusOK, cove)
}

// ListCovesHandler lists the caller's coves
func (c *CoveController) ListCovesHandler(w http.ResponseWriter, r *http.Request) {
	identity, ok := requireIdentity(w, r)
	if !ok {
		return
	}

	coves, err := c.CoveService.ListCovesForUser(r.Context(), identity.ID)
	if err != nil {
		helpers.WriteServiceError(w, err)
		return
	}
	helpers.WriteJSONResponse(w, http.StatusOK, coves)
}

// GetCoveHandler fetches one cove the caller belongs to
func (c *CoveController) GetCoveHandler(w http.ResponseWriter, r *http.Request) {
	identity, ok := requireIdentity(w, r)
	if !ok {
		return
	}
	coveID := mux.Vars(r)["coveId"]

	cove, err := c.CoveService.RequireMember(r.Context(), coveID, identity.ID)
	if err != nil {
		helpers.WriteServiceError(w, err)
		return
	}
	helpers.WriteJSONResponse(w, http.StatusOK, cove)
}

type updateCoveRequest struct {
	Name        string `json:"name" validate:"required,min=1,max=100"`
	Description string `json:"description" validate:"max=500"`
}

// UpdateCoveHandler updates cove settings; owner only
func (c *CoveController) UpdateCoveHandler(w http.ResponseWriter, r *http.Request) {
	identity, ok := requireIdentity(w, r)
	if !ok {
		return
	}
	coveID := mux.Vars(r)["coveId"]

	var req updateCoveRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	if err := c.CoveService.UpdateCoveSettings(r.Context(), identity, coveID, req.Name, req.Description); err != nil {
		helpers.WriteServiceError(w, err)
		return
	}

	if c.Notifier != nil {
		c.Notifier.NotifyCove(coveID, socket.EventCoveChanged, nil)
	}
	helpers.WriteJSONResponse(w, http.StatusOK, map[string]string{"message": "cove updated"})
}

// DeleteCoveHandler deletes a cove and everything in it; owner only
func (c *CoveController) DeleteCoveHandler(w http.ResponseWriter, r *http.Request) {
	identity, ok := requireIdentity(w, r)
	if !ok {
		return
	}
	coveID := mux.Vars(r)["coveId"]

	if err := c.CoveService.DeleteCove(r.Context(), identity, coveID); err != nil {
		helpers.WriteServiceError(w, err)
		return
	}

	if c.Notifier != nil {
		c.Notifier.NotifyCove(coveID, socket.EventCoveChanged, nil)
	}
	helpers.WriteJSONResponse(w, http.StatusOK, map[string]string{"message": "cove deleted"})
}
