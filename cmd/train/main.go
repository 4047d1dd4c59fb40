package main

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/yourusername/degree-recommender/internal/artifact"
	"github.com/yourusername/degree-recommender/internal/config"
	"github.com/yourusername/degree-recommender/internal/database"
	"github.com/yourusername/degree-recommender/internal/dataset"
	"github.com/yourusername/degree-recommender/internal/feature"
	"github.com/yourusername/degree-recommender/internal/logger"
	"github.com/yourusername/degree-recommender/internal/models"
	"github.com/yourusername/degree-recommender/internal/rank"
)

// Build information - set via ldflags
var (
	Version   = "dev"
	GitCommit = "unknown"
)

var (
	configFile   string
	datasetFlag  string
	artifactFlag string
	appLogger    *logrus.Logger
	cfg          *config.Config
)

func init() {
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "./config/config.yaml", "Path to configuration file")
	rootCmd.Flags().StringVar(&datasetFlag, "dataset", "", "Override dataset location")
	rootCmd.Flags().StringVar(&artifactFlag, "output", "", "Override artifact output path")
}

var rootCmd = &cobra.Command{
	Use:   "train",
	Short: "Train a degree recommendation model artifact",
	Long: `Loads the historical admission dataset, fits the feature pipeline,
trains the gradient-boosted ranker, and persists the complete model
artifact (booster, encoders, aggregates, feature columns, stats).`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load(configFile)
		if err != nil {
			return fmt.Errorf("failed to load configuration: %w", err)
		}
		if err := config.Validate(cfg); err != nil {
			return err
		}
		appLogger = logger.NewLogger(cfg.App.LogLevel)
		return nil
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return runTraining(cmd.Context())
	},
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		log.Fatalf("Error: %v", err)
	}
}

func runTraining(ctx context.Context) error {
	if datasetFlag != "" {
		cfg.Dataset.Location = datasetFlag
	}
	outputPath := cfg.Model.ArtifactPath
	if artifactFlag != "" {
		outputPath = artifactFlag
	}

	start := time.Now()

	loader := dataset.NewLoader(cfg.Dataset, appLogger)
	records, err := loader.Load(ctx)
	if err != nil {
		return err
	}

	pipeline, set, err := feature.Fit(records)
	if err != nil {
		return err
	}

	appLogger.WithFields(logrus.Fields{
		"rows":     len(set.Features),
		"features": len(set.Columns),
	}).Info("Feature pipeline fitted")

	params := rank.DefaultParams()
	params.Seed = cfg.Model.Seed

	trainer := rank.NewTrainer(params, appLogger)
	result, err := trainer.Train(set)
	if err != nil {
		return err
	}

	stats := models.ModelStats{
		ModelName:         cfg.Model.Name,
		MeanNDCG:          result.Report.MeanNDCG,
		GroupsEvaluated:   result.Report.GroupsEvaluated,
		TotalCandidates:   len(pipeline.Aggregates.CandidatePopularity),
		Districts:         pipeline.Aggregates.Districts,
		Streams:           pipeline.Aggregates.ObservedStreams,
		TrainedAt:         time.Now().UTC(),
		FeatureImportance: result.FeatureImportance,
	}

	bundle := &artifact.Bundle{
		ModelName:      cfg.Model.Name,
		Booster:        result.Booster,
		Encoders:       pipeline.Encoders,
		Aggregates:     pipeline.Aggregates,
		FeatureColumns: pipeline.Columns,
		Stats:          stats,
	}

	if err := artifact.Save(outputPath, bundle); err != nil {
		return err
	}

	if cfg.Database.Enabled {
		if err := registerArtifact(ctx, outputPath, stats); err != nil {
			return err
		}
	}

	appLogger.WithFields(logrus.Fields{
		"artifact":         outputPath,
		"mean_ndcg_at_5":   stats.MeanNDCG,
		"groups_evaluated": stats.GroupsEvaluated,
		"train_groups":     result.TrainGroups,
		"test_groups":      result.TestGroups,
		"boosting_rounds":  result.Rounds,
		"candidates":       stats.TotalCandidates,
		"elapsed":          time.Since(start).String(),
	}).Info("Training complete")

	return nil
}

func registerArtifact(ctx context.Context, path string, stats models.ModelStats) error {
	db, err := database.New(ctx, &cfg.Database)
	if err != nil {
		return fmt.Errorf("failed to connect to artifact catalog: %w", err)
	}
	defer db.Close()

	if err := db.EnsureSchema(ctx); err != nil {
		return err
	}

	catalog := artifact.NewPostgresCatalog(db)
	rec := &models.ArtifactRecord{
		Name:            stats.ModelName,
		Path:            path,
		MeanNDCG:        stats.MeanNDCG,
		GroupsEvaluated: stats.GroupsEvaluated,
		TotalCandidates: stats.TotalCandidates,
		TrainedAt:       stats.TrainedAt,
	}
	if err := catalog.Register(ctx, rec); err != nil {
		return err
	}

	appLogger.WithFields(logrus.Fields{
		"artifact_id": rec.ID,
		"model":       rec.Name,
	}).Info("Artifact registered in catalog")

	return nil
}
