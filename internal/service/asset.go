package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"

	"techdocs/internal/domain"
	"techdocs/internal/models"
)

// AssetRepository is the persistence surface the asset service needs.
type AssetRepository interface {
	Create(ctx context.Context, asset *models.Asset) error
	GetByID(ctx context.Context, id string) (*models.Asset, error)
	List(ctx context.Context) ([]*models.Asset, error)
	ListMissingEmbeddings(ctx context.Context) ([]*models.Asset, error)
	Update(ctx context.Context, asset *models.Asset) error
	UpdateVector(ctx context.Context, id string, vector []float32, modified time.Time) error
	SoftDelete(ctx context.Context, id string) error
	SearchSimilar(ctx context.Context, queryVector []float32, limit int, threshold float64) ([]*models.Asset, error)
}

// EmbeddingClient produces embedding vectors for document content.
type EmbeddingClient interface {
	Embed(ctx context.Context, text string) ([]float32, error)
}

// AssetInput carries the caller-supplied fields for creating or updating an
// asset.
type AssetInput struct {
	Title           string `json:"title"`
	MarkdownContent string `json:"markdownContent"`
}

// Validate checks the input against the asset field constraints.
func (in AssetInput) Validate() error {
	return validation.ValidateStruct(&in,
		validation.Field(&in.Title, validation.Required, validation.Length(1, 200)),
		validation.Field(&in.MarkdownContent, validation.Required),
	)
}

// AssetService owns asset lifecycle and keeps content vectors in sync with
// content changes.
type AssetService struct {
	repo     AssetRepository
	embedder EmbeddingClient
	logger   *slog.Logger
}

// NewAssetService creates a new asset service
func NewAssetService(repo AssetRepository, embedder EmbeddingClient, logger *slog.Logger) *AssetService {
	return &AssetService{
		repo:     repo,
		embedder: embedder,
		logger:   logger,
	}
}

// Create validates the input, embeds the content and persists the asset.
// An embedding failure fails the create; nothing is persisted without a
// vector.
func (s *AssetService) Create(ctx context.Context, input AssetInput) (*models.Asset, error) {
	if err := input.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %s", domain.ErrValidation, err.Error())
	}

	vector, err := s.embedder.Embed(ctx, input.MarkdownContent)
	if err != nil {
		return nil, fmt.Errorf("embed asset content: %w", err)
	}

	now := time.Now().UTC()
	asset := &models.Asset{
		ID:              uuid.NewString(),
		Title:           input.Title,
		MarkdownContent: input.MarkdownContent,
		ContentVector:   vector,
		Created:         now,
		Modified:        now,
	}

	if err := s.repo.Create(ctx, asset); err != nil {
		return nil, err
	}

	return asset, nil
}

// CreateFromMarkdown creates an asset from a raw markdown document. The title
// comes from the first level-one heading, with a placeholder when the document
// has none.
func (s *AssetService) CreateFromMarkdown(ctx context.Context, markdown string) (*models.Asset, error) {
	if strings.TrimSpace(markdown) == "" {
		return nil, fmt.Errorf("%w: markdown content is required", domain.ErrValidation)
	}

	return s.Create(ctx, AssetInput{
		Title:           titleFromMarkdown(markdown),
		MarkdownContent: markdown,
	})
}

// Get retrieves a single live asset.
func (s *AssetService) Get(ctx context.Context, id string) (*models.Asset, error) {
	if id == "" {
		return nil, fmt.Errorf("%w: asset id is required", domain.ErrValidation)
	}
	return s.repo.GetByID(ctx, id)
}

// List returns all live assets, newest first.
func (s *AssetService) List(ctx context.Context) ([]*models.Asset, error) {
	return s.repo.List(ctx)
}

// Update validates the input, re-embeds the new content and persists the
// changes. The created timestamp is preserved from the stored row.
func (s *AssetService) Update(ctx context.Context, id string, input AssetInput) (*models.Asset, error) {
	if id == "" {
		return nil, fmt.Errorf("%w: asset id is required", domain.ErrValidation)
	}
	if err := input.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %s", domain.ErrValidation, err.Error())
	}

	existing, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	vector, err := s.embedder.Embed(ctx, input.MarkdownContent)
	if err != nil {
		return nil, fmt.Errorf("embed asset content: %w", err)
	}

	asset := &models.Asset{
		ID:              id,
		Title:           input.Title,
		MarkdownContent: input.MarkdownContent,
		ContentVector:   vector,
		Created:         existing.Created,
		Modified:        time.Now().UTC(),
	}

	if err := s.repo.Update(ctx, asset); err != nil {
		return nil, err
	}

	return asset, nil
}

// Delete soft-deletes an asset so it stops appearing in lists and retrieval.
func (s *AssetService) Delete(ctx context.Context, id string) error {
	if id == "" {
		return fmt.Errorf("%w: asset id is required", domain.ErrValidation)
	}
	return s.repo.SoftDelete(ctx, id)
}

// defaultSearchThreshold is the minimum similarity applied when callers
// search by text without a tuned threshold.
const defaultSearchThreshold = 0.3

// defaultSearchLimit caps text searches when the caller does not set one.
const defaultSearchLimit = 10

// SearchByText embeds the query text and runs a similarity search with the
// default threshold. Zero results is a valid outcome.
func (s *AssetService) SearchByText(ctx context.Context, query string, limit int) ([]*models.Asset, error) {
	if strings.TrimSpace(query) == "" {
		return nil, fmt.Errorf("%w: search query is required", domain.ErrValidation)
	}
	if limit <= 0 {
		limit = defaultSearchLimit
	}

	vector, err := s.embedder.Embed(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("embed search query: %w", err)
	}

	return s.repo.SearchSimilar(ctx, vector, limit, defaultSearchThreshold)
}

// ReembedAll recomputes the vector of every live asset. Processing is
// sequential and the first embedding failure aborts the rest, so a broken
// provider does not burn through the whole corpus.
func (s *AssetService) ReembedAll(ctx context.Context) (int, error) {
	assets, err := s.repo.List(ctx)
	if err != nil {
		return 0, err
	}

	updated := 0
	for _, asset := range assets {
		vector, err := s.embedder.Embed(ctx, asset.MarkdownContent)
		if err != nil {
			return updated, fmt.Errorf("embed asset %s: %w", asset.ID, err)
		}
		if err := s.repo.UpdateVector(ctx, asset.ID, vector, time.Now().UTC()); err != nil {
			return updated, err
		}
		updated++
		s.logger.Debug("recomputed asset embedding", "asset_id", asset.ID)
	}

	return updated, nil
}

// BackfillEmbeddings embeds only the live assets that have no vector yet.
// Returns how many assets were missing a vector and how many were embedded;
// the two differ only when an embedding failure aborted the run.
func (s *AssetService) BackfillEmbeddings(ctx context.Context) (missing, embedded int, err error) {
	assets, err := s.repo.ListMissingEmbeddings(ctx)
	if err != nil {
		return 0, 0, err
	}

	for _, asset := range assets {
		vector, err := s.embedder.Embed(ctx, asset.MarkdownContent)
		if err != nil {
			return len(assets), embedded, fmt.Errorf("embed asset %s: %w", asset.ID, err)
		}
		if err := s.repo.UpdateVector(ctx, asset.ID, vector, time.Now().UTC()); err != nil {
			return len(assets), embedded, err
		}
		embedded++
		s.logger.Debug("backfilled asset embedding", "asset_id", asset.ID)
	}

	return len(assets), embedded, nil
}

const markdownTitleLimit = 200

// titleFromMarkdown extracts the first level-one heading, truncated to the
// title length limit. Documents without a heading get a placeholder title.
func titleFromMarkdown(markdown string) string {
	for _, line := range strings.Split(markdown, "\n") {
		trimmed := strings.TrimSpace(line)
		if strings.HasPrefix(trimmed, "# ") {
			title := strings.TrimSpace(strings.TrimPrefix(trimmed, "# "))
			if title == "" {
				continue
			}
			if len(title) > markdownTitleLimit {
				return title[:markdownTitleLimit-3] + "..."
			}
			return title
		}
	}

	return "Untitled Document"
}
