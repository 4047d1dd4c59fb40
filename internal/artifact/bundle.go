// Package artifact persists the trained model as a single self-describing
// unit: booster, encoder registry, fitted aggregates, feature-column order,
// and frozen summary statistics. Bundling them together means a stale
// encoder can never be paired with a newer booster.
package artifact

import (
	"encoding/gob"
	"fmt"
	"os"
	"path/filepath"

	"github.com/yourusername/degree-recommender/internal/feature"
	"github.com/yourusername/degree-recommender/internal/models"
	"github.com/yourusername/degree-recommender/internal/rank"
)

// Bundle is the complete trained model artifact.
type Bundle struct {
	ModelName      string
	Booster        *rank.Booster
	Encoders       *feature.EncoderRegistry
	Aggregates     *feature.Aggregates
	FeatureColumns []string
	Stats          models.ModelStats
}

// Pipeline reconstructs the transform-mode feature pipeline from the bundle.
func (b *Bundle) Pipeline() *feature.Pipeline {
	return &feature.Pipeline{
		Encoders:   b.Encoders,
		Aggregates: b.Aggregates,
		Columns:    b.FeatureColumns,
	}
}

// Save writes the bundle atomically: encode to a temp file in the target
// directory, then rename over the destination. A failed training run can
// never leave a partially written artifact behind.
func Save(path string, b *Bundle) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create artifact directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".artifact-*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temp artifact: %w", err)
	}
	defer os.Remove(tmp.Name())

	if err := gob.NewEncoder(tmp).Encode(b); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to encode artifact: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close temp artifact: %w", err)
	}

	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("failed to move artifact into place: %w", err)
	}

	return nil
}

// Load reads a bundle from disk.
func Load(path string) (*Bundle, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open artifact %s: %w", path, err)
	}
	defer f.Close()

	b := &Bundle{}
	if err := gob.NewDecoder(f).Decode(b); err != nil {
		return nil, fmt.Errorf("failed to decode artifact %s: %w", path, err)
	}

	if b.Booster == nil || b.Encoders == nil || b.Aggregates == nil || len(b.FeatureColumns) == 0 {
		return nil, fmt.Errorf("artifact %s is incomplete", path)
	}

	return b, nil
}
