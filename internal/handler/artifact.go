package handler

import (
	"log/slog"
	"net/http"

	"techdocs/internal/httputil"
	"techdocs/internal/models"
	"techdocs/internal/service"
)

// ArtifactHandler handles artifact generation HTTP requests.
type ArtifactHandler struct {
	artifacts *service.ArtifactService
	logger    *slog.Logger
}

// NewArtifactHandler creates a new artifact handler
func NewArtifactHandler(artifacts *service.ArtifactService, logger *slog.Logger) *ArtifactHandler {
	return &ArtifactHandler{
		artifacts: artifacts,
		logger:    logger,
	}
}

type generateArtifactRequest struct {
	UserStory    models.UserStory `json:"userStory"`
	ArtifactType string           `json:"artifactType"`
}

// GenerateArtifact produces a technical artifact from a user story
// POST /api/artifact/generate
func (h *ArtifactHandler) GenerateArtifact(w http.ResponseWriter, r *http.Request) {
	var req generateArtifactRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	artifact, err := h.artifacts.Generate(r.Context(), req.UserStory, req.ArtifactType)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, artifact)
}
