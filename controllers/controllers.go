package controllers

import (
	"encoding/json"
	"net/http"

	"cove_server/helpers"
	"cove_server/middleware"
	"cove_server/models"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// HealthCheckHandler provides a basic health check
func HealthCheckHandler(w http.ResponseWriter, r *http.Request) {
	helpers.WriteJSONResponse(w, http.StatusOK, map[string]string{"status": "healthy"})
}

// WelcomeHandler provides a welcome message
func WelcomeHandler(w http.ResponseWriter, r *http.Request) {
	helpers.WriteJSONResponse(w, http.StatusOK, map[string]string{"message": "Welcome to the Cove API."})
}

// requireIdentity pulls the authenticated caller out of the request
// context; writes a 401 when the middleware did not run or failed
func requireIdentity(w http.ResponseWriter, r *http.Request) (models.Identity, bool) {
	identity, ok := middleware.IdentityFromContext(r.Context())
	if !ok {
		helpers.WriteErrorResponse(w, http.StatusUnauthorized, "not signed in")
	}
	return identity, ok
}

// decodeAndValidate decodes a JSON body into dst and runs struct validation
func decodeAndValidate(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		helpers.WriteErrorResponse(w, http.StatusBadRequest, "invalid request body")
		return false
	}
	if err := validate.Struct(dst); err != nil {
		helpers.WriteErrorResponse(w, http.StatusBadRequest, err.Error())
		return false
	}
	return true
}
