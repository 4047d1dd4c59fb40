package models

import (
	"time"

	"github.com/google/uuid"
)

// ArtifactRecord is the catalog row kept for every trained model artifact.
// The payload itself lives at Path; the catalog only tracks identity and the
// frozen quality summary so serving can resolve the active artifact.
type ArtifactRecord struct {
	ID              uuid.UUID
	Name            string
	Path            string
	MeanNDCG        float64
	GroupsEvaluated int
	TotalCandidates int
	TrainedAt       time.Time
	Active          bool
	CreatedAt       time.Time
}
