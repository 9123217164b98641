package routes

import (
	"cove_server/controllers"

	"github.com/gorilla/mux"
)

// RegisterS3Routes registers presigned media upload and read routes
func RegisterS3Routes(router *mux.Router) {
	mediaRouter := router.PathPrefix("/media").Subrouter()
	mediaRouter.HandleFunc("/upload-url", controllers.GetUploadURLHandler).Methods("POST")
	mediaRouter.HandleFunc("/read-url", controllers.GetReadURLHandler).Methods("GET")
}
