package postgres

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	pgvector "github.com/pgvector/pgvector-go"

	"techdocs/internal/domain"
	"techdocs/internal/models"
)

// AssetRepository persists assets and runs the store-side similarity search.
type AssetRepository struct {
	pool   *pgxpool.Pool
	tables *TableNames
	logger *slog.Logger
}

// NewAssetRepository creates a new asset repository
func NewAssetRepository(config *RepositoryConfig) *AssetRepository {
	return &AssetRepository{
		pool:   config.Pool,
		tables: config.Tables,
		logger: config.Logger,
	}
}

const assetColumns = "id, title, markdown_content, content_vector, created_at, modified_at"

// Create inserts a new asset row. ID, timestamps and vector are set by the
// caller before persisting.
func (r *AssetRepository) Create(ctx context.Context, asset *models.Asset) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (id, title, markdown_content, content_vector, created_at, modified_at, is_deleted)
		VALUES ($1, $2, $3, $4, $5, $6, FALSE)
	`, r.tables.Assets)

	_, err := r.pool.Exec(ctx, query,
		asset.ID,
		asset.Title,
		asset.MarkdownContent,
		vectorParam(asset.ContentVector),
		asset.Created,
		asset.Modified,
	)
	if err != nil {
		return fmt.Errorf("create asset: %w", err)
	}

	return nil
}

// GetByID retrieves a live asset by ID.
func (r *AssetRepository) GetByID(ctx context.Context, id string) (*models.Asset, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM %s
		WHERE id = $1 AND %s
	`, assetColumns, r.tables.Assets, liveRows)

	asset, err := scanAsset(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if IsPgNoRowsError(err) {
			return nil, fmt.Errorf("asset %s: %w", id, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("get asset: %w", err)
	}

	return asset, nil
}

// List returns all live assets, newest first.
func (r *AssetRepository) List(ctx context.Context) ([]*models.Asset, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM %s
		WHERE %s
		ORDER BY created_at DESC
	`, assetColumns, r.tables.Assets, liveRows)

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list assets: %w", err)
	}
	defer rows.Close()

	assets := make([]*models.Asset, 0)
	for rows.Next() {
		asset, err := scanAsset(rows)
		if err != nil {
			return nil, fmt.Errorf("scan asset: %w", err)
		}
		assets = append(assets, asset)
	}

	return assets, rows.Err()
}

// ListMissingEmbeddings returns live assets whose content vector is absent.
func (r *AssetRepository) ListMissingEmbeddings(ctx context.Context) ([]*models.Asset, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM %s
		WHERE content_vector IS NULL AND %s
		ORDER BY created_at DESC
	`, assetColumns, r.tables.Assets, liveRows)

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list assets missing embeddings: %w", err)
	}
	defer rows.Close()

	assets := make([]*models.Asset, 0)
	for rows.Next() {
		asset, err := scanAsset(rows)
		if err != nil {
			return nil, fmt.Errorf("scan asset: %w", err)
		}
		assets = append(assets, asset)
	}

	return assets, rows.Err()
}

// Update replaces title, content, vector and modified timestamp of a live
// asset.
func (r *AssetRepository) Update(ctx context.Context, asset *models.Asset) error {
	query := fmt.Sprintf(`
		UPDATE %s
		SET title = $2, markdown_content = $3, content_vector = $4, modified_at = $5
		WHERE id = $1 AND %s
	`, r.tables.Assets, liveRows)

	tag, err := r.pool.Exec(ctx, query,
		asset.ID,
		asset.Title,
		asset.MarkdownContent,
		vectorParam(asset.ContentVector),
		asset.Modified,
	)
	if err != nil {
		return fmt.Errorf("update asset: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("asset %s: %w", asset.ID, domain.ErrNotFound)
	}

	return nil
}

// UpdateVector replaces only the content vector and modified timestamp.
func (r *AssetRepository) UpdateVector(ctx context.Context, id string, vector []float32, modified time.Time) error {
	query := fmt.Sprintf(`
		UPDATE %s
		SET content_vector = $2, modified_at = $3
		WHERE id = $1 AND %s
	`, r.tables.Assets, liveRows)

	tag, err := r.pool.Exec(ctx, query, id, vectorParam(vector), modified)
	if err != nil {
		return fmt.Errorf("update asset vector: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("asset %s: %w", id, domain.ErrNotFound)
	}

	return nil
}

// SoftDelete marks a live asset as deleted. The row is retained.
func (r *AssetRepository) SoftDelete(ctx context.Context, id string) error {
	query := fmt.Sprintf(`
		UPDATE %s
		SET is_deleted = TRUE, modified_at = $2
		WHERE id = $1 AND %s
	`, r.tables.Assets, liveRows)

	tag, err := r.pool.Exec(ctx, query, id, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("delete asset: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("asset %s: %w", id, domain.ErrNotFound)
	}

	return nil
}

// SearchSimilar runs the cosine-similarity search inside Postgres. Results
// come back already ranked descending by similarity; rows below the threshold
// or without a vector are excluded by the query itself. Zero rows is a valid
// outcome, not an error.
func (r *AssetRepository) SearchSimilar(ctx context.Context, queryVector []float32, limit int, threshold float64) ([]*models.Asset, error) {
	query := fmt.Sprintf(`
		SELECT %s, 1 - (content_vector <=> $1) AS similarity
		FROM %s
		WHERE %s
		  AND content_vector IS NOT NULL
		  AND 1 - (content_vector <=> $1) >= $2
		ORDER BY content_vector <=> $1
		LIMIT $3
	`, assetColumns, r.tables.Assets, liveRows)

	rows, err := r.pool.Query(ctx, query, pgvector.NewVector(queryVector), threshold, limit)
	if err != nil {
		return nil, fmt.Errorf("search assets by similarity: %w", err)
	}
	defer rows.Close()

	assets := make([]*models.Asset, 0, limit)
	for rows.Next() {
		var (
			asset      models.Asset
			vec        *pgvector.Vector
			similarity *float64
		)
		err := rows.Scan(
			&asset.ID,
			&asset.Title,
			&asset.MarkdownContent,
			&vec,
			&asset.Created,
			&asset.Modified,
			&similarity,
		)
		if err != nil {
			return nil, fmt.Errorf("scan similar asset: %w", err)
		}
		if vec != nil {
			asset.ContentVector = vec.Slice()
		}
		asset.Similarity = similarity
		assets = append(assets, &asset)
	}

	return assets, rows.Err()
}

// rowScanner covers pgx.Row and pgx.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanAsset(row rowScanner) (*models.Asset, error) {
	var (
		asset models.Asset
		vec   *pgvector.Vector
	)
	err := row.Scan(
		&asset.ID,
		&asset.Title,
		&asset.MarkdownContent,
		&vec,
		&asset.Created,
		&asset.Modified,
	)
	if err != nil {
		return nil, err
	}
	if vec != nil {
		asset.ContentVector = vec.Slice()
	}
	return &asset, nil
}

// vectorParam converts a float slice to a nullable vector parameter.
func vectorParam(v []float32) *pgvector.Vector {
	if v == nil {
		return nil
	}
	vec := pgvector.NewVector(v)
	return &vec
}
