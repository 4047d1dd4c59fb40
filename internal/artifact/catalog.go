package artifact

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/yourusername/degree-recommender/internal/database"
	"github.com/yourusername/degree-recommender/internal/models"
)

// Catalog tracks trained artifacts so serving can resolve the active one.
type Catalog interface {
	// Register inserts a catalog row for a freshly trained artifact and
	// marks it active, deactivating prior versions of the same model.
	Register(ctx context.Context, rec *models.ArtifactRecord) error

	// GetActive returns the active artifact record for a model name.
	GetActive(ctx context.Context, name string) (*models.ArtifactRecord, error)
}

// PostgresCatalog implements Catalog on PostgreSQL.
type PostgresCatalog struct {
	db *database.DB
}

// NewPostgresCatalog creates a new artifact catalog
func NewPostgresCatalog(db *database.DB) Catalog {
	return &PostgresCatalog{db: db}
}

// Register inserts the record and flips the active flag in one transaction.
func (c *PostgresCatalog) Register(ctx context.Context, rec *models.ArtifactRecord) error {
	tx, err := c.db.GetPool().Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	if rec.ID == uuid.Nil {
		rec.ID = uuid.New()
	}

	_, err = tx.Exec(ctx, `UPDATE model_artifacts SET active = false WHERE name = $1`, rec.Name)
	if err != nil {
		return fmt.Errorf("failed to deactivate previous artifacts: %w", err)
	}

	query := `
		INSERT INTO model_artifacts (id, name, path, mean_ndcg, groups_evaluated, total_candidates, trained_at, active)
		VALUES ($1, $2, $3, $4, $5, $6, $7, true)
	`
	_, err = tx.Exec(ctx, query,
		rec.ID, rec.Name, rec.Path, rec.MeanNDCG, rec.GroupsEvaluated, rec.TotalCandidates, rec.TrainedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert artifact record: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit artifact record: %w", err)
	}

	return nil
}

// GetActive retrieves the active artifact record for a model name.
func (c *PostgresCatalog) GetActive(ctx context.Context, name string) (*models.ArtifactRecord, error) {
	query := `
		SELECT id, name, path, mean_ndcg, groups_evaluated, total_candidates, trained_at, active, created_at
		FROM model_artifacts
		WHERE name = $1 AND active = true
		ORDER BY trained_at DESC
		LIMIT 1
	`

	rec := &models.ArtifactRecord{}
	err := c.db.GetPool().QueryRow(ctx, query, name).Scan(
		&rec.ID, &rec.Name, &rec.Path, &rec.MeanNDCG, &rec.GroupsEvaluated,
		&rec.TotalCandidates, &rec.TrainedAt, &rec.Active, &rec.CreatedAt,
	)
	if err == pgx.ErrNoRows {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get active artifact: %w", err)
	}

	return rec, nil
}
