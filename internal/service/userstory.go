package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"

	"techdocs/internal/domain"
	"techdocs/internal/models"
)

// UserStoryRepository is the persistence surface the user story service needs.
type UserStoryRepository interface {
	Create(ctx context.Context, story *models.UserStory) error
	GetByID(ctx context.Context, id string) (*models.UserStory, error)
	List(ctx context.Context) ([]*models.UserStory, error)
	Update(ctx context.Context, story *models.UserStory) error
	SoftDelete(ctx context.Context, id string) error
}

// UserStoryInput carries the caller-supplied fields for creating or updating
// a user story. List fields may be omitted and are normalized to empty slices.
type UserStoryInput struct {
	Title                     string   `json:"title"`
	Description               string   `json:"description"`
	Actors                    []string `json:"actors"`
	Preconditions             []string `json:"preconditions"`
	Postconditions            []string `json:"postconditions"`
	MainFlow                  []string `json:"mainFlow"`
	AlternativeFlows          []string `json:"alternativeFlows"`
	BusinessRules             []string `json:"businessRules"`
	DataRequirements          []string `json:"dataRequirements"`
	NonFunctionalRequirements []string `json:"nonFunctionalRequirements"`
	Assumptions               []string `json:"assumptions"`
}

// Validate checks the input against the user story field constraints.
func (in UserStoryInput) Validate() error {
	return validation.ValidateStruct(&in,
		validation.Field(&in.Title, validation.Required, validation.Length(1, 200)),
		validation.Field(&in.Description, validation.Required),
	)
}

// UserStoryService owns the user story lifecycle.
type UserStoryService struct {
	repo   UserStoryRepository
	logger *slog.Logger
}

// NewUserStoryService creates a new user story service
func NewUserStoryService(repo UserStoryRepository, logger *slog.Logger) *UserStoryService {
	return &UserStoryService{
		repo:   repo,
		logger: logger,
	}
}

// Create validates the input and persists a new user story.
func (s *UserStoryService) Create(ctx context.Context, input UserStoryInput) (*models.UserStory, error) {
	if err := input.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %s", domain.ErrValidation, err.Error())
	}

	now := time.Now().UTC()
	story := storyFromInput(input)
	story.ID = uuid.NewString()
	story.CreatedAt = now
	story.UpdatedAt = now

	if err := s.repo.Create(ctx, story); err != nil {
		return nil, err
	}

	return story, nil
}

// Get retrieves a single live user story.
func (s *UserStoryService) Get(ctx context.Context, id string) (*models.UserStory, error) {
	if id == "" {
		return nil, fmt.Errorf("%w: user story id is required", domain.ErrValidation)
	}
	return s.repo.GetByID(ctx, id)
}

// List returns all live user stories, newest first.
func (s *UserStoryService) List(ctx context.Context) ([]*models.UserStory, error) {
	return s.repo.List(ctx)
}

// Update validates the input and replaces the stored story fields. The
// creation timestamp is preserved from the stored row.
func (s *UserStoryService) Update(ctx context.Context, id string, input UserStoryInput) (*models.UserStory, error) {
	if id == "" {
		return nil, fmt.Errorf("%w: user story id is required", domain.ErrValidation)
	}
	if err := input.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %s", domain.ErrValidation, err.Error())
	}

	existing, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	story := storyFromInput(input)
	story.ID = id
	story.CreatedAt = existing.CreatedAt
	story.UpdatedAt = time.Now().UTC()

	if err := s.repo.Update(ctx, story); err != nil {
		return nil, err
	}

	return story, nil
}

// Delete soft-deletes a user story.
func (s *UserStoryService) Delete(ctx context.Context, id string) error {
	if id == "" {
		return fmt.Errorf("%w: user story id is required", domain.ErrValidation)
	}
	return s.repo.SoftDelete(ctx, id)
}

func storyFromInput(input UserStoryInput) *models.UserStory {
	return &models.UserStory{
		Title:                     input.Title,
		Description:               input.Description,
		Actors:                    orEmpty(input.Actors),
		Preconditions:             orEmpty(input.Preconditions),
		Postconditions:            orEmpty(input.Postconditions),
		MainFlow:                  orEmpty(input.MainFlow),
		AlternativeFlows:          orEmpty(input.AlternativeFlows),
		BusinessRules:             orEmpty(input.BusinessRules),
		DataRequirements:          orEmpty(input.DataRequirements),
		NonFunctionalRequirements: orEmpty(input.NonFunctionalRequirements),
		Assumptions:               orEmpty(input.Assumptions),
	}
}

// orEmpty keeps list columns and JSON responses free of nulls.
func orEmpty(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
