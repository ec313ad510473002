package postgres

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"techdocs/internal/domain"
	"techdocs/internal/models"
)

// UserStoryRepository persists user stories. List fields are stored as
// Postgres text[] columns and scanned straight into string slices by pgx.
type UserStoryRepository struct {
	pool   *pgxpool.Pool
	tables *TableNames
	logger *slog.Logger
}

// NewUserStoryRepository creates a new user story repository
func NewUserStoryRepository(config *RepositoryConfig) *UserStoryRepository {
	return &UserStoryRepository{
		pool:   config.Pool,
		tables: config.Tables,
		logger: config.Logger,
	}
}

const userStoryColumns = `id, title, description, actors, preconditions, postconditions,
		main_flow, alternative_flows, business_rules, data_requirements,
		non_functional_requirements, assumptions, created_at, updated_at`

// Create inserts a new user story row.
func (r *UserStoryRepository) Create(ctx context.Context, story *models.UserStory) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (id, title, description, actors, preconditions, postconditions,
			main_flow, alternative_flows, business_rules, data_requirements,
			non_functional_requirements, assumptions, created_at, updated_at, is_deleted)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, FALSE)
	`, r.tables.UserStories)

	_, err := r.pool.Exec(ctx, query,
		story.ID,
		story.Title,
		story.Description,
		story.Actors,
		story.Preconditions,
		story.Postconditions,
		story.MainFlow,
		story.AlternativeFlows,
		story.BusinessRules,
		story.DataRequirements,
		story.NonFunctionalRequirements,
		story.Assumptions,
		story.CreatedAt,
		story.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("create user story: %w", err)
	}

	return nil
}

// GetByID retrieves a live user story by ID.
func (r *UserStoryRepository) GetByID(ctx context.Context, id string) (*models.UserStory, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM %s
		WHERE id = $1 AND %s
	`, userStoryColumns, r.tables.UserStories, liveRows)

	story, err := scanUserStory(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if IsPgNoRowsError(err) {
			return nil, fmt.Errorf("user story %s: %w", id, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("get user story: %w", err)
	}

	return story, nil
}

// List returns all live user stories, newest first.
func (r *UserStoryRepository) List(ctx context.Context) ([]*models.UserStory, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM %s
		WHERE %s
		ORDER BY created_at DESC
	`, userStoryColumns, r.tables.UserStories, liveRows)

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list user stories: %w", err)
	}
	defer rows.Close()

	stories := make([]*models.UserStory, 0)
	for rows.Next() {
		story, err := scanUserStory(rows)
		if err != nil {
			return nil, fmt.Errorf("scan user story: %w", err)
		}
		stories = append(stories, story)
	}

	return stories, rows.Err()
}

// Update replaces all mutable fields of a live user story.
func (r *UserStoryRepository) Update(ctx context.Context, story *models.UserStory) error {
	query := fmt.Sprintf(`
		UPDATE %s
		SET title = $2, description = $3, actors = $4, preconditions = $5,
			postconditions = $6, main_flow = $7, alternative_flows = $8,
			business_rules = $9, data_requirements = $10,
			non_functional_requirements = $11, assumptions = $12, updated_at = $13
		WHERE id = $1 AND %s
	`, r.tables.UserStories, liveRows)

	tag, err := r.pool.Exec(ctx, query,
		story.ID,
		story.Title,
		story.Description,
		story.Actors,
		story.Preconditions,
		story.Postconditions,
		story.MainFlow,
		story.AlternativeFlows,
		story.BusinessRules,
		story.DataRequirements,
		story.NonFunctionalRequirements,
		story.Assumptions,
		story.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update user story: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("user story %s: %w", story.ID, domain.ErrNotFound)
	}

	return nil
}

// SoftDelete marks a live user story as deleted. The row is retained.
func (r *UserStoryRepository) SoftDelete(ctx context.Context, id string) error {
	query := fmt.Sprintf(`
		UPDATE %s
		SET is_deleted = TRUE, updated_at = $2
		WHERE id = $1 AND %s
	`, r.tables.UserStories, liveRows)

	tag, err := r.pool.Exec(ctx, query, id, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("delete user story: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("user story %s: %w", id, domain.ErrNotFound)
	}

	return nil
}

func scanUserStory(row rowScanner) (*models.UserStory, error) {
	var story models.UserStory
	err := row.Scan(
		&story.ID,
		&story.Title,
		&story.Description,
		&story.Actors,
		&story.Preconditions,
		&story.Postconditions,
		&story.MainFlow,
		&story.AlternativeFlows,
		&story.BusinessRules,
		&story.DataRequirements,
		&story.NonFunctionalRequirements,
		&story.Assumptions,
		&story.CreatedAt,
		&story.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &story, nil
}
