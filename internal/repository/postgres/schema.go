package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// EnsureSchema creates the vector extension, tables and indexes if they do
// not exist. Safe to run on every startup.
func EnsureSchema(ctx context.Context, pool *pgxpool.Pool, tables *TableNames) error {
	statements := []string{
		`CREATE EXTENSION IF NOT EXISTS vector`,
		fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				id UUID PRIMARY KEY,
				title TEXT NOT NULL,
				markdown_content TEXT NOT NULL,
				content_vector vector(1536),
				created_at TIMESTAMPTZ NOT NULL,
				modified_at TIMESTAMPTZ NOT NULL,
				is_deleted BOOLEAN NOT NULL DEFAULT FALSE
			)
		`, tables.Assets),
		fmt.Sprintf(`
			CREATE INDEX IF NOT EXISTS %s_content_vector_idx
			ON %s USING hnsw (content_vector vector_cosine_ops)
		`, tables.Assets, tables.Assets),
		fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				id UUID PRIMARY KEY,
				title TEXT NOT NULL,
				description TEXT NOT NULL,
				actors TEXT[] NOT NULL DEFAULT '{}',
				preconditions TEXT[] NOT NULL DEFAULT '{}',
				postconditions TEXT[] NOT NULL DEFAULT '{}',
				main_flow TEXT[] NOT NULL DEFAULT '{}',
				alternative_flows TEXT[] NOT NULL DEFAULT '{}',
				business_rules TEXT[] NOT NULL DEFAULT '{}',
				data_requirements TEXT[] NOT NULL DEFAULT '{}',
				non_functional_requirements TEXT[] NOT NULL DEFAULT '{}',
				assumptions TEXT[] NOT NULL DEFAULT '{}',
				created_at TIMESTAMPTZ NOT NULL,
				updated_at TIMESTAMPTZ NOT NULL,
				is_deleted BOOLEAN NOT NULL DEFAULT FALSE
			)
		`, tables.UserStories),
	}

	for _, stmt := range statements {
		if _, err := pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("ensure schema: %w", err)
		}
	}

	return nil
}
