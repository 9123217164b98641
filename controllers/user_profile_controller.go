package controllers

import (
	"net/http"

	"cove_server/helpers"
	"cove_server/services"

	"github.com/gorilla/mux"
)

// UserProfileController handles HTTP requests for user profiles
type UserProfileController struct {
	UserProfileService *services.UserProfileService
}

type ensureProfileRequest struct {
	Email     string `json:"email" validate:"omitempty,email"`
	AvatarURL string `json:"avatarUrl" validate:"max=500"`
}

// EnsureProfileHandler upserts the caller's profile after sign-in
func (c *UserProfileController) EnsureProfileHandler(w http.ResponseWriter, r *http.Request) {
	identity, ok := requireIdentity(w, r)
	if !ok {
		return
	}

	var req ensureProfileRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	profile, err := c.UserProfileService.EnsureProfile(r.Context(), identity, req.Email, req.AvatarURL)
	if err != nil {
		helpers.WriteServiceError(w, err)
		return
	}
	helpers.WriteJSONResponse(w, http.StatusOK, profile)
}

// GetProfileHandler fetches a profile by user id
func (c *UserProfileController) GetProfileHandler(w http.ResponseWriter, r *http.Request) {
	if _, ok := requireIdentity(w, r); !ok {
		return
	}
	userID := mux.Vars(r)["userId"]

	profile, err := c.UserProfileService.GetProfile(r.Context(), userID)
	if err != nil {
		helpers.WriteServiceError(w, err)
		return
	}
	helpers.WriteJSONResponse(w, http.StatusOK, profile)
}
