package routes

import (
	"cove_server/controllers"
	"cove_server/services"
	"cove_server/socket"

	"github.com/gorilla/mux"
)

// RegisterQuoteRoutes registers the quotes wall routes for a cove
func RegisterQuoteRoutes(router *mux.Router, quoteService *services.QuoteService, notifier socket.Notifier) {
	controller := &controllers.QuoteController{QuoteService: quoteService, Notifier: notifier}

	quoteRouter := router.PathPrefix("/coves/{coveId}/quotes").Subrouter()
	quoteRouter.HandleFunc("", controller.CreateQuoteHandler).Methods("POST")
	quoteRouter.HandleFunc("", controller.ListQuotesHandler).Methods("GET")
	quoteRouter.HandleFunc("/{quoteId}", controller.DeleteQuoteHandler).Methods("DELETE")
	quoteRouter.HandleFunc("/{quoteId}/upvote", controller.ToggleUpvoteHandler).Methods("POST")
	quoteRouter.HandleFunc("/{quoteId}/upvote", controller.HasUpvotedHandler).Methods("GET")
	quoteRouter.HandleFunc("/{quoteId}/replies", controller.AddReplyHandler).Methods("POST")
	quoteRouter.HandleFunc("/{quoteId}/replies", controller.ListRepliesHandler).Methods("GET")
}
