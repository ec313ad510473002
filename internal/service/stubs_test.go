package service

import (
	"context"
	"io"
	"log/slog"
	"time"

	"techdocs/internal/models"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type stubAssetRepo struct {
	createFn                func(ctx context.Context, asset *models.Asset) error
	getByIDFn               func(ctx context.Context, id string) (*models.Asset, error)
	listFn                  func(ctx context.Context) ([]*models.Asset, error)
	listMissingEmbeddingsFn func(ctx context.Context) ([]*models.Asset, error)
	updateFn                func(ctx context.Context, asset *models.Asset) error
	updateVectorFn          func(ctx context.Context, id string, vector []float32, modified time.Time) error
	softDeleteFn            func(ctx context.Context, id string) error
	searchSimilarFn         func(ctx context.Context, queryVector []float32, limit int, threshold float64) ([]*models.Asset, error)
}

func (s *stubAssetRepo) Create(ctx context.Context, asset *models.Asset) error {
	if s.createFn != nil {
		return s.createFn(ctx, asset)
	}
	return nil
}

func (s *stubAssetRepo) GetByID(ctx context.Context, id string) (*models.Asset, error) {
	if s.getByIDFn != nil {
		return s.getByIDFn(ctx, id)
	}
	return &models.Asset{ID: id}, nil
}

func (s *stubAssetRepo) List(ctx context.Context) ([]*models.Asset, error) {
	if s.listFn != nil {
		return s.listFn(ctx)
	}
	return nil, nil
}

func (s *stubAssetRepo) ListMissingEmbeddings(ctx context.Context) ([]*models.Asset, error) {
	if s.listMissingEmbeddingsFn != nil {
		return s.listMissingEmbeddingsFn(ctx)
	}
	return nil, nil
}

func (s *stubAssetRepo) Update(ctx context.Context, asset *models.Asset) error {
	if s.updateFn != nil {
		return s.updateFn(ctx, asset)
	}
	return nil
}

func (s *stubAssetRepo) UpdateVector(ctx context.Context, id string, vector []float32, modified time.Time) error {
	if s.updateVectorFn != nil {
		return s.updateVectorFn(ctx, id, vector, modified)
	}
	return nil
}

func (s *stubAssetRepo) SoftDelete(ctx context.Context, id string) error {
	if s.softDeleteFn != nil {
		return s.softDeleteFn(ctx, id)
	}
	return nil
}

func (s *stubAssetRepo) SearchSimilar(ctx context.Context, queryVector []float32, limit int, threshold float64) ([]*models.Asset, error) {
	if s.searchSimilarFn != nil {
		return s.searchSimilarFn(ctx, queryVector, limit, threshold)
	}
	return nil, nil
}

type stubUserStoryRepo struct {
	createFn     func(ctx context.Context, story *models.UserStory) error
	getByIDFn    func(ctx context.Context, id string) (*models.UserStory, error)
	listFn       func(ctx context.Context) ([]*models.UserStory, error)
	updateFn     func(ctx context.Context, story *models.UserStory) error
	softDeleteFn func(ctx context.Context, id string) error
}

func (s *stubUserStoryRepo) Create(ctx context.Context, story *models.UserStory) error {
	if s.createFn != nil {
		return s.createFn(ctx, story)
	}
	return nil
}

func (s *stubUserStoryRepo) GetByID(ctx context.Context, id string) (*models.UserStory, error) {
	if s.getByIDFn != nil {
		return s.getByIDFn(ctx, id)
	}
	return &models.UserStory{ID: id}, nil
}

func (s *stubUserStoryRepo) List(ctx context.Context) ([]*models.UserStory, error) {
	if s.listFn != nil {
		return s.listFn(ctx)
	}
	return nil, nil
}

func (s *stubUserStoryRepo) Update(ctx context.Context, story *models.UserStory) error {
	if s.updateFn != nil {
		return s.updateFn(ctx, story)
	}
	return nil
}

func (s *stubUserStoryRepo) SoftDelete(ctx context.Context, id string) error {
	if s.softDeleteFn != nil {
		return s.softDeleteFn(ctx, id)
	}
	return nil
}

type stubEmbedder struct {
	embedFn func(ctx context.Context, text string) ([]float32, error)
}

func (s *stubEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	if s.embedFn != nil {
		return s.embedFn(ctx, text)
	}
	return []float32{0.1, 0.2, 0.3}, nil
}

type stubChatClient struct {
	completeFn func(ctx context.Context, messages []models.ChatMessage) (string, error)
}

func (s *stubChatClient) Complete(ctx context.Context, messages []models.ChatMessage) (string, error) {
	if s.completeFn != nil {
		return s.completeFn(ctx, messages)
	}
	return "stub completion", nil
}

func floatPtr(f float64) *float64 {
	return &f
}
