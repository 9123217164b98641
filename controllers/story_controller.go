package controllers

import (
	"net/http"

	"cove_server/helpers"
	"cove_server/services"
	"cove_server/socket"

	"github.com/gorilla/mux"
)

// StoryController handles HTTP requests for stories
type StoryController struct {
	StoryService *services.StoryService
	Notifier     socket.Notifier
}

type createStoryRequest struct {
	Content     string `json:"content" validate:"required,min=1,max=5000"`
	IsAnonymous bool   `json:"isAnonymous"`
}

// CreateStoryHandler posts a story
func (c *StoryController) CreateStoryHandler(w http.ResponseWriter, r *http.Request) {
	identity, ok := requireIdentity(w, r)
	if !ok {
		return
	}
	coveID := mux.Vars(r)["coveId"]

	var req createStoryRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	story, err := c.StoryService.CreateStory(r.Context(), identity, coveID, req.Content, req.IsAnonymous)
	if err != nil {
		helpers.WriteServiceError(w, err)
		return
	}

	if c.Notifier != nil {
		c.Notifier.NotifyCove(coveID, socket.EventStoryChanged, nil)
	}
	helpers.WriteJSONResponse(w, http.StatusCreated, story)
}

// ListStoriesHandler lists a cove's stories
func (c *StoryController) ListStoriesHandler(w http.ResponseWriter, r *http.Request) {
	identity, ok := requireIdentity(w, r)
	if !ok {
		return
	}
	coveID := mux.Vars(r)["coveId"]

	stories, err := c.StoryService.ListStories(r.Context(), identity, coveID)
	if err != nil {
		helpers.WriteServiceError(w, err)
		return
	}
	helpers.WriteJSONResponse(w, http.StatusOK, stories)
}

type editStoryRequest struct {
	Content string `json:"content" validate:"required,min=1,max=5000"`
}

// EditStoryHandler edits a story's content; author only
func (c *StoryController) EditStoryHandler(w http.ResponseWriter, r *http.Request) {
	identity, ok := requireIdentity(w, r)
	if !ok {
		return
	}
	vars := mux.Vars(r)
	coveID, storyID := vars["coveId"], vars["storyId"]

	var req editStoryRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	if err := c.StoryService.EditStory(r.Context(), identity, coveID, storyID, req.Content); err != nil {
		helpers.WriteServiceError(w, err)
		return
	}

	if c.Notifier != nil {
		c.Notifier.NotifyCove(coveID, socket.EventStoryChanged, nil)
	}
	helpers.WriteJSONResponse(w, http.StatusOK, map[string]string{"message": "story updated"})
}

// DeleteStoryHandler deletes a story; author or cove owner
func (c *StoryController) DeleteStoryHandler(w http.ResponseWriter, r *http.Request) {
	identity, ok := requireIdentity(w, r)
	if !ok {
		return
	}
	vars := mux.Vars(r)
	coveID, storyID := vars["coveId"], vars["storyId"]

	if err := c.StoryService.DeleteStory(r.Context(), identity, coveID, storyID); err != nil {
		helpers.WriteServiceError(w, err)
		return
	}

	if c.Notifier != nil {
		c.Notifier.NotifyCove(coveID, socket.EventStoryChanged, nil)
	}
	helpers.WriteJSONResponse(w, http.StatusOK, map[string]string{"message": "story deleted"})
}

// ToggleLikeHandler flips the caller's like on a story
func (c *StoryController) ToggleLikeHandler(w http.ResponseWriter, r *http.Request) {
	identity, ok := requireIdentity(w, r)
	if !ok {
		return
	}
	vars := mux.Vars(r)
	coveID, storyID := vars["coveId"], vars["storyId"]

	liked, err := c.StoryService.ToggleLike(r.Context(), identity, coveID, storyID)
	if err != nil {
		helpers.WriteServiceError(w, err)
		return
	}

	if c.Notifier != nil {
		c.Notifier.NotifyCove(coveID, socket.EventReactionChanged, map[string]interface{}{
			"storyId": storyID,
		})
	}
	helpers.WriteJSONResponse(w, http.StatusOK, map[string]bool{"liked": liked})
}

// HasLikedHandler reports the caller's like state
func (c *StoryController) HasLikedHandler(w http.ResponseWriter, r *http.Request) {
	identity, ok := requireIdentity(w, r)
	if !ok {
		return
	}
	vars := mux.Vars(r)

	liked, err := c.StoryService.HasLiked(r.Context(), identity, vars["coveId"], vars["storyId"])
	if err != nil {
		helpers.WriteServiceError(w, err)
		return
	}
	helpers.WriteJSONResponse(w, http.StatusOK, map[string]bool{"liked": liked})
}
