package controllers

import (
	"net/http"

	"cove_server/helpers"
	"cove_server/services"
	"cove_server/socket"

	"github.com/gorilla/mux"
)

// QuoteController handles HTTP requests for the quotes wall
type QuoteController struct {
	QuoteService *services.QuoteService
	Notifier     socket.Notifier
}

type createQuoteRequest struct {
	Content string `json:"content" validate:"required,min=1,max=1000"`
}

// CreateQuoteHandler posts a quote
func (c *QuoteController) CreateQuoteHandler(w http.ResponseWriter, r *http.Request) {
	identity, ok := requireIdentity(w, r)
	if !ok {
		return
	}
	coveID := mux.Vars(r)["coveId"]

	var req createQuoteRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	quote, err := c.QuoteService.CreateQuote(r.Context(), identity, coveID, req.Content)
	if err != nil {
		helpers.WriteServiceError(w, err)
		return
	}

	if c.Notifier != nil {
		c.Notifier.NotifyCove(coveID, socket.EventQuoteChanged, quote)
	}
	helpers.WriteJSONResponse(w, http.StatusCreated, quote)
}

// ListQuotesHandler lists quotes, ?sort=recent|upvoted
func (c *QuoteController) ListQuotesHandler(w http.ResponseWriter, r *http.Request) {
	identity, ok := requireIdentity(w, r)
	if !ok {
		return
	}
	coveID := mux.Vars(r)["coveId"]

	sortBy := services.QuoteSortRecent
	if r.URL.Query().Get("sort") == string(services.QuoteSortUpvoted) {
		sortBy = services.QuoteSortUpvoted
	}

	quotes, err := c.QuoteService.ListQuotes(r.Context(), identity, coveID, sortBy)
	if err != nil {
		helpers.WriteServiceError(w, err)
		return
	}
	helpers.WriteJSONResponse(w, http.StatusOK, quotes)
}

// ToggleUpvoteHandler flips the caller's upvote on a quote
func (c *QuoteController) ToggleUpvoteHandler(w http.ResponseWriter, r *http.Request) {
	identity, ok := requireIdentity(w, r)
	if !ok {
		return
	}
	vars := mux.Vars(r)
	coveID, quoteID := vars["coveId"], vars["quoteId"]

	reacted, err := c.QuoteService.ToggleUpvote(r.Context(), identity, coveID, quoteID)
	if err != nil {
		helpers.WriteServiceError(w, err)
		return
	}

	if c.Notifier != nil {
		c.Notifier.NotifyCove(coveID, socket.EventReactionChanged, map[string]interface{}{
			"quoteId": quoteID,
		})
	}
	helpers.WriteJSONResponse(w, http.StatusOK, map[string]bool{"upvoted": reacted})
}

// HasUpvotedHandler reports the caller's upvote state
func (c *QuoteController) HasUpvotedHandler(w http.ResponseWriter, r *http.Request) {
	identity, ok := requireIdentity(w, r)
	if !ok {
		return
	}
	vars := mux.Vars(r)

	upvoted, err := c.QuoteService.HasUpvoted(r.Context(), identity, vars["coveId"], vars["quoteId"])
	if err != nil {
		helpers.WriteServiceError(w, err)
		return
	}
	helpers.WriteJSONResponse(w, http.StatusOK, map[string]bool{"upvoted": upvoted})
}

// DeleteQuoteHandler deletes a quote; author or cove owner
func (c *QuoteController) DeleteQuoteHandler(w http.ResponseWriter, r *http.Request) {
	identity, ok := requireIdentity(w, r)
	if !ok {
		return
	}
	vars := mux.Vars(r)
	coveID, quoteID := vars["coveId"], vars["quoteId"]

	if err := c.QuoteService.DeleteQuote(r.Context(), identity, coveID, quoteID); err != nil {
		helpers.WriteServiceError(w, err)
		return
	}

	if c.Notifier != nil {
		c.Notifier.NotifyCove(coveID, socket.EventQuoteChanged, nil)
	}
	helpers.WriteJSONResponse(w, http.StatusOK, map[string]string{"message": "quote deleted"})
}

type addReplyRequest struct {
	Content string `json:"content" validate:"required,min=1,max=1000"`
}

// AddReplyHandler posts a reply under a quote
func (c *QuoteController) AddReplyHandler(w http.ResponseWriter, r *http.Request) {
	identity, ok := requireIdentity(w, r)
	if !ok {
		return
	}
	vars := mux.Vars(r)
	coveID, quoteID := vars["coveId"], vars["quoteId"]

	var req addReplyRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	reply, err := c.QuoteService.AddReply(r.Context(), identity, coveID, quoteID, req.Content)
	if err != nil {
		helpers.WriteServiceError(w, err)
		return
	}

	if c.Notifier != nil {
		c.Notifier.NotifyCove(coveID, socket.EventQuoteChanged, reply)
	}
	helpers.WriteJSONResponse(w, http.StatusCreated, reply)
}

// ListRepliesHandler lists a quote's replies
func (c *QuoteController) ListRepliesHandler(w http.ResponseWriter, r *http.Request) {
	identity, ok := requireIdentity(w, r)
	if !ok {
		return
	}
	vars := mux.Vars(r)

	replies, err := c.QuoteService.ListReplies(r.Context(), identity, vars["coveId"], vars["quoteId"])
	if err != nil {
		helpers.WriteServiceError(w, err)
		return
	}
	helpers.WriteJSONResponse(w, http.StatusOK, replies)
}
