package controllers

import (
	"net/http"

	"cove_server/helpers"
	"cove_server/services"
)

type uploadURLRequest struct {
	FileName string `json:"fileName" validate:"required,max=200"`
	FileType string `json:"fileType" validate:"required,max=100"`
}

// GetUploadURLHandler returns a presigned URL for uploading pin media
func GetUploadURLHandler(w http.ResponseWriter, r *http.Request) {
	if _, ok := requireIdentity(w, r); !ok {
		return
	}

	var req uploadURLRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	url, key, err := services.GenerateUploadURL(req.FileName, req.FileType)
	if err != nil {
		helpers.WriteErrorResponse(w, http.StatusInternalServerError, "failed to generate upload URL")
		return
	}
	helpers.WriteJSONResponse(w, http.StatusOK, map[string]string{"uploadUrl": url, "key": key})
}

// GetReadURLHandler returns a presigned URL for reading stored media
func GetReadURLHandler(w http.ResponseWriter, r *http.Request) {
	if _, ok := requireIdentity(w, r); !ok {
		return
	}

	key := r.URL.Query().Get("key")
	if key == "" {
		helpers.WriteErrorResponse(w, http.StatusBadRequest, "missing key")
		return
	}

	url, err := services.GenerateReadURL(key)
	if err != nil {
		helpers.WriteErrorResponse(w, http.StatusInternalServerError, "failed to generate read URL")
		return
	}
	helpers.WriteJSONResponse(w, http.StatusOK, map[string]string{"url": url})
}
