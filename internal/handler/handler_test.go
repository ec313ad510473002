package handler

import (
	"context"
	"io"
	"log/slog"
	"time"

	"techdocs/internal/domain"
	"techdocs/internal/models"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// fakeAssetRepo is an in-memory asset store for handler tests.
type fakeAssetRepo struct {
	assets map[string]*models.Asset
}

func newFakeAssetRepo() *fakeAssetRepo {
	return &fakeAssetRepo{assets: make(map[string]*models.Asset)}
}

func (f *fakeAssetRepo) Create(ctx context.Context, asset *models.Asset) error {
	f.assets[asset.ID] = asset
	return nil
}

func (f *fakeAssetRepo) GetByID(ctx context.Context, id string) (*models.Asset, error) {
	asset, ok := f.assets[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return asset, nil
}

func (f *fakeAssetRepo) List(ctx context.Context) ([]*models.Asset, error) {
	out := make([]*models.Asset, 0, len(f.assets))
	for _, a := range f.assets {
		out = append(out, a)
	}
	return out, nil
}

func (f *fakeAssetRepo) ListMissingEmbeddings(ctx context.Context) ([]*models.Asset, error) {
	out := make([]*models.Asset, 0)
	for _, a := range f.assets {
		if a.ContentVector == nil {
			out = append(out, a)
		}
	}
	return out, nil
}

func (f *fakeAssetRepo) Update(ctx context.Context, asset *models.Asset) error {
	if _, ok := f.assets[asset.ID]; !ok {
		return domain.ErrNotFound
	}
	f.assets[asset.ID] = asset
	return nil
}

func (f *fakeAssetRepo) UpdateVector(ctx context.Context, id string, vector []float32, modified time.Time) error {
	asset, ok := f.assets[id]
	if !ok {
		return domain.ErrNotFound
	}
	asset.ContentVector = vector
	asset.Modified = modified
	return nil
}

func (f *fakeAssetRepo) SoftDelete(ctx context.Context, id string) error {
	if _, ok := f.assets[id]; !ok {
		return domain.ErrNotFound
	}
	delete(f.assets, id)
	return nil
}

func (f *fakeAssetRepo) SearchSimilar(ctx context.Context, queryVector []float32, limit int, threshold float64) ([]*models.Asset, error) {
	similarity := 0.9
	out := make([]*models.Asset, 0)
	for _, a := range f.assets {
		if a.ContentVector == nil {
			continue
		}
		match := *a
		match.Similarity = &similarity
		out = append(out, &match)
		if len(out) == limit {
			break
		}
	}
	return out, nil
}

// fakeUserStoryRepo is an in-memory user story store for handler tests.
type fakeUserStoryRepo struct {
	stories map[string]*models.UserStory
}

func newFakeUserStoryRepo() *fakeUserStoryRepo {
	return &fakeUserStoryRepo{stories: make(map[string]*models.UserStory)}
}

func (f *fakeUserStoryRepo) Create(ctx context.Context, story *models.UserStory) error {
	f.stories[story.ID] = story
	return nil
}

func (f *fakeUserStoryRepo) GetByID(ctx context.Context, id string) (*models.UserStory, error) {
	story, ok := f.stories[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return story, nil
}

func (f *fakeUserStoryRepo) List(ctx context.Context) ([]*models.UserStory, error) {
	out := make([]*models.UserStory, 0, len(f.stories))
	for _, s := range f.stories {
		out = append(out, s)
	}
	return out, nil
}

func (f *fakeUserStoryRepo) Update(ctx context.Context, story *models.UserStory) error {
	if _, ok := f.stories[story.ID]; !ok {
		return domain.ErrNotFound
	}
	f.stories[story.ID] = story
	return nil
}

func (f *fakeUserStoryRepo) SoftDelete(ctx context.Context, id string) error {
	if _, ok := f.stories[id]; !ok {
		return domain.ErrNotFound
	}
	delete(f.stories, id)
	return nil
}

// fakeEmbedder returns a fixed vector.
type fakeEmbedder struct{}

func (fakeEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	return []float32{0.1, 0.2, 0.3}, nil
}

// fakeChatClient returns a canned completion.
type fakeChatClient struct {
	response string
	err      error
}

func (f *fakeChatClient) Complete(ctx context.Context, messages []models.ChatMessage) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	if f.response != "" {
		return f.response, nil
	}
	return "canned completion", nil
}
