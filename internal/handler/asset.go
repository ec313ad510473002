package handler

import (
	"log/slog"
	"net/http"
	"strconv"

	"techdocs/internal/httputil"
	"techdocs/internal/service"
)

// AssetHandler handles asset HTTP requests.
// Handlers only communicate with services, never repositories.
type AssetHandler struct {
	assets *service.AssetService
	logger *slog.Logger
}

// NewAssetHandler creates a new asset handler
func NewAssetHandler(assets *service.AssetService, logger *slog.Logger) *AssetHandler {
	return &AssetHandler{
		assets: assets,
		logger: logger,
	}
}

// ListAssets retrieves all live assets
// GET /api/assets
func (h *AssetHandler) ListAssets(w http.ResponseWriter, r *http.Request) {
	assets, err := h.assets.List(r.Context())
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, assets)
}

// GetAsset retrieves a single asset by ID
// GET /api/assets/{id}
func (h *AssetHandler) GetAsset(w http.ResponseWriter, r *http.Request) {
	id, ok := PathParam(w, r, "id", "Asset ID")
	if !ok {
		return
	}

	asset, err := h.assets.Get(r.Context(), id)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, asset)
}

// CreateAsset creates a new asset
// POST /api/assets
func (h *AssetHandler) CreateAsset(w http.ResponseWriter, r *http.Request) {
	var input service.AssetInput
	if err := httputil.ParseJSON(w, r, &input); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	asset, err := h.assets.Create(r.Context(), input)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusCreated, asset)
}

type createFromMarkdownRequest struct {
	Markdown string `json:"markdown"`
}

// CreateAssetFromMarkdown creates an asset from a raw markdown document,
// deriving the title from its first heading
// POST /api/assets/markdown
func (h *AssetHandler) CreateAssetFromMarkdown(w http.ResponseWriter, r *http.Request) {
	var req createFromMarkdownRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	asset, err := h.assets.CreateFromMarkdown(r.Context(), req.Markdown)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusCreated, asset)
}

type updateAssetRequest struct {
	ID string `json:"id"`
	service.AssetInput
}

// UpdateAsset updates an existing asset
// PUT /api/assets/{id}
// A body ID that disagrees with the path ID is rejected.
func (h *AssetHandler) UpdateAsset(w http.ResponseWriter, r *http.Request) {
	id, ok := PathParam(w, r, "id", "Asset ID")
	if !ok {
		return
	}

	var req updateAssetRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.ID != "" && req.ID != id {
		httputil.RespondError(w, http.StatusBadRequest, "Asset ID in body does not match URL")
		return
	}

	asset, err := h.assets.Update(r.Context(), id, req.AssetInput)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, asset)
}

// DeleteAsset soft-deletes an asset
// DELETE /api/assets/{id}
func (h *AssetHandler) DeleteAsset(w http.ResponseWriter, r *http.Request) {
	id, ok := PathParam(w, r, "id", "Asset ID")
	if !ok {
		return
	}

	if err := h.assets.Delete(r.Context(), id); err != nil {
		handleError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

type searchAssetsRequest struct {
	Query string `json:"query"`
	Limit int    `json:"limit"`
}

// SearchAssets runs a similarity search over the asset corpus. The query
// comes from URL parameters on GET and from the JSON body on POST.
// GET|POST /api/assets/search
func (h *AssetHandler) SearchAssets(w http.ResponseWriter, r *http.Request) {
	var req searchAssetsRequest
	if r.Method == http.MethodPost {
		if err := httputil.ParseJSON(w, r, &req); err != nil {
			httputil.RespondError(w, http.StatusBadRequest, "Invalid request body")
			return
		}
	} else {
		req.Query = r.URL.Query().Get("query")
		if raw := r.URL.Query().Get("limit"); raw != "" {
			limit, err := strconv.Atoi(raw)
			if err != nil {
				httputil.RespondError(w, http.StatusBadRequest, "limit must be an integer")
				return
			}
			req.Limit = limit
		}
	}

	assets, err := h.assets.SearchByText(r.Context(), req.Query, req.Limit)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, assets)
}

// UpdateEmbeddings recomputes the content vector of every live asset
// POST /api/assets/update-embeddings
func (h *AssetHandler) UpdateEmbeddings(w http.ResponseWriter, r *http.Request) {
	updated, err := h.assets.ReembedAll(r.Context())
	if err != nil {
		h.logger.Error("embedding recompute aborted", "updated", updated, "error", err)
		httputil.RespondError(w, http.StatusInternalServerError, "embedding update failed")
		return
	}

	httputil.RespondJSON(w, http.StatusOK, map[string]int{"updated": updated})
}
