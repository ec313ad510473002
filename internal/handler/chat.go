package handler

import (
	"log/slog"
	"net/http"

	"techdocs/internal/httputil"
	"techdocs/internal/models"
	"techdocs/internal/service"
)

// ChatHandler handles chat HTTP requests.
type ChatHandler struct {
	chat   *service.ChatService
	assets *service.AssetService
	logger *slog.Logger
}

// NewChatHandler creates a new chat handler
func NewChatHandler(chat *service.ChatService, assets *service.AssetService, logger *slog.Logger) *ChatHandler {
	return &ChatHandler{
		chat:   chat,
		assets: assets,
		logger: logger,
	}
}

// Chat answers a documentation query
// POST /api/chat/query
func (h *ChatHandler) Chat(w http.ResponseWriter, r *http.Request) {
	var req models.ChatRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	resp, err := h.chat.Chat(r.Context(), req)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, resp)
}

// InitializeChat prepares the knowledge base by backfilling missing content
// vectors, so retrieval sees every live asset. Safe to call repeatedly.
// POST /api/chat/initialize
func (h *ChatHandler) InitializeChat(w http.ResponseWriter, r *http.Request) {
	missing, embedded, err := h.assets.BackfillEmbeddings(r.Context())
	if err != nil {
		h.logger.Error("chat initialization aborted", "embedded", embedded, "error", err)
		httputil.RespondError(w, http.StatusInternalServerError, "chat initialization failed")
		return
	}

	httputil.RespondJSON(w, http.StatusOK, map[string]int{
		"assets":   missing,
		"embedded": embedded,
	})
}
