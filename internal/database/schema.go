package database

import (
	"context"
	"fmt"
)

// EnsureSchema creates the artifact catalog table if it does not exist.
// Called once by the training entry point before registering an artifact.
func (db *DB) EnsureSchema(ctx context.Context) error {
	ddl := `
		CREATE TABLE IF NOT EXISTS model_artifacts (
			id UUID PRIMARY KEY,
			name TEXT NOT NULL,
			path TEXT NOT NULL,
			mean_ndcg DOUBLE PRECISION NOT NULL,
			groups_evaluated INTEGER NOT NULL,
			total_candidates INTEGER NOT NULL,
			trained_at TIMESTAMPTZ NOT NULL,
			active BOOLEAN NOT NULL DEFAULT false,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		);
		CREATE INDEX IF NOT EXISTS idx_model_artifacts_name_active
			ON model_artifacts (name, active);
	`

	if _, err := db.pool.Exec(ctx, ddl); err != nil {
		return fmt.Errorf("failed to ensure catalog schema: %w", err)
	}

	return nil
}
