package controllers

import (
	"net/http"
	"time"

	"cove_server/helpers"
	"cove_server/services"
	"cove_server/socket"

	"github.com/gorilla/mux"
)

// CapsuleController handles HTTP requests for time capsules
type CapsuleController struct {
	CapsuleService *services.CapsuleService
	Notifier       socket.Notifier
}

type createCapsuleRequest struct {
	UnlockAt      string `json:"unlockAt" validate:"required"`
	DurationLabel string `json:"durationLabel" validate:"max=50"`
}

// CreateCapsuleHandler seals a new capsule; cove owner only
func (c *CapsuleController) CreateCapsuleHandler(w http.ResponseWriter, r *http.Request) {
	identity, ok := requireIdentity(w, r)
	if !ok {
		return
	}
	coveID := mux.Vars(r)["coveId"]

	var req createCapsuleRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	unlockAt, err := time.Parse(time.RFC3339, req.UnlockAt)
	if err != nil {
		helpers.WriteErrorResponse(w, http.StatusBadRequest, "unlockAt must be RFC3339")
		return
	}

	capsule, err := c.CapsuleService.CreateCapsule(r.Context(), identity, coveID, unlockAt, req.DurationLabel)
	if err != nil {
		helpers.WriteServiceError(w, err)
		return
	}

	if c.Notifier != nil {
		c.Notifier.NotifyCove(coveID, socket.EventCapsuleChanged, capsule)
	}
	helpers.WriteJSONResponse(w, http.StatusCreated, capsule)
}

// GetActiveCapsuleHandler returns the cove's most recent capsule
func (c *CapsuleController) GetActiveCapsuleHandler(w http.ResponseWriter, r *http.Request) {
	identity, ok := requireIdentity(w, r)
	if !ok {
		return
	}
	coveID := mux.Vars(r)["coveId"]

	capsule, err := c.CapsuleService.ActiveCapsule(r.Context(), identity, coveID)
	if err != nil {
		helpers.WriteServiceError(w, err)
		return
	}
	helpers.WriteJSONResponse(w, http.StatusOK, capsule)
}

type appendEntryRequest struct {
	Text string `json:"text" validate:"required,min=1,max=2000"`
}

// AppendEntryHandler seals a message into a capsule
func (c *CapsuleController) AppendEntryHandler(w http.ResponseWriter, r *http.Request) {
	identity, ok := requireIdentity(w, r)
	if !ok {
		return
	}
	vars := mux.Vars(r)
	coveID, capsuleID := vars["coveId"], vars["capsuleId"]

	var req appendEntryRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	entry, err := c.CapsuleService.AppendEntry(r.Context(), identity, coveID, capsuleID, req.Text)
	if err != nil {
		helpers.WriteServiceError(w, err)
		return
	}
	helpers.WriteJSONResponse(w, http.StatusCreated, entry)
}

// ListEntriesHandler returns a capsule's entries; empty while locked
func (c *CapsuleController) ListEntriesHandler(w http.ResponseWriter, r *http.Request) {
	identity, ok := requireIdentity(w, r)
	if !ok {
		return
	}
	vars := mux.Vars(r)

	entries, err := c.CapsuleService.ListEntries(r.Context(), identity, vars["coveId"], vars["capsuleId"])
	if err != nil {
		helpers.WriteServiceError(w, err)
		return
	}
	helpers.WriteJSONResponse(w, http.StatusOK, entries)
}

// ToggleOverrideHandler flips the emergency override; cove owner only
func (c *CapsuleController) ToggleOverrideHandler(w http.ResponseWriter, r *http.Request) {
	identity, ok := requireIdentity(w, r)
	if !ok {
		return
	}
	vars := mux.Vars(r)
	coveID, capsuleID := vars["coveId"], vars["capsuleId"]

	capsule, err := c.CapsuleService.ToggleOverride(r.Context(), identity, coveID, capsuleID)
	if err != nil {
		helpers.WriteServiceError(w, err)
		return
	}

	if c.Notifier != nil {
		c.Notifier.NotifyCove(coveID, socket.EventCapsuleChanged, capsule)
	}
	helpers.WriteJSONResponse(w, http.StatusOK, capsule)
}
