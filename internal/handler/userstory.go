package handler

import (
	"log/slog"
	"net/http"

	"techdocs/internal/httputil"
	"techdocs/internal/service"
)

// UserStoryHandler handles user story HTTP requests.
type UserStoryHandler struct {
	stories *service.UserStoryService
	logger  *slog.Logger
}

// NewUserStoryHandler creates a new user story handler
func NewUserStoryHandler(stories *service.UserStoryService, logger *slog.Logger) *UserStoryHandler {
	return &UserStoryHandler{
		stories: stories,
		logger:  logger,
	}
}

// ListUserStories retrieves all live user stories
// GET /api/userstory
func (h *UserStoryHandler) ListUserStories(w http.ResponseWriter, r *http.Request) {
	stories, err := h.stories.List(r.Context())
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, stories)
}

// GetUserStory retrieves a single user story by ID
// GET /api/userstory/{id}
func (h *UserStoryHandler) GetUserStory(w http.ResponseWriter, r *http.Request) {
	id, ok := PathParam(w, r, "id", "User story ID")
	if !ok {
		return
	}

	story, err := h.stories.Get(r.Context(), id)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, story)
}

// CreateUserStory creates a new user story
// POST /api/userstory
func (h *UserStoryHandler) CreateUserStory(w http.ResponseWriter, r *http.Request) {
	var input service.UserStoryInput
	if err := httputil.ParseJSON(w, r, &input); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	story, err := h.stories.Create(r.Context(), input)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, story)
}

type updateUserStoryRequest struct {
	ID string `json:"id"`
	service.UserStoryInput
}

// UpdateUserStory updates an existing user story
// PUT /api/userstory/{id}
// A body ID that disagrees with the path ID is rejected.
func (h *UserStoryHandler) UpdateUserStory(w http.ResponseWriter, r *http.Request) {
	id, ok := PathParam(w, r, "id", "User story ID")
	if !ok {
		return
	}

	var req updateUserStoryRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.ID != "" && req.ID != id {
		httputil.RespondError(w, http.StatusBadRequest, "User story ID in body does not match URL")
		return
	}

	story, err := h.stories.Update(r.Context(), id, req.UserStoryInput)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, story)
}

// DeleteUserStory soft-deletes a user story
// DELETE /api/userstory/{id}
func (h *UserStoryHandler) DeleteUserStory(w http.ResponseWriter, r *http.Request) {
	id, ok := PathParam(w, r, "id", "User story ID")
	if !ok {
		return
	}

	if err := h.stories.Delete(r.Context(), id); err != nil {
		handleError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
