package main

import (
	"context"
	"fmt"
	"log"
	"sort"
	"time"

	"github.com/spf13/cobra"

	"github.com/yourusername/degree-recommender/internal/artifact"
	"github.com/yourusername/degree-recommender/internal/config"
	"github.com/yourusername/degree-recommender/internal/database"
)

var (
	configFile   string
	artifactFlag string
	cfg          *config.Config
)

func init() {
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "./config/config.yaml", "Path to configuration file")
	rootCmd.Flags().StringVar(&artifactFlag, "artifact", "", "Inspect a specific artifact file instead of the configured one")
}

var rootCmd = &cobra.Command{
	Use:   "model-status",
	Short: "Print the summary statistics frozen into a trained model artifact",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load(configFile)
		if err != nil {
			return fmt.Errorf("failed to load configuration: %w", err)
		}
		return nil
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return displayStatus(cmd.Context())
	},
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		log.Fatalf("Error: %v", err)
	}
}

func displayStatus(ctx context.Context) error {
	path := cfg.Model.ArtifactPath
	if artifactFlag != "" {
		path = artifactFlag
	} else if cfg.Database.Enabled {
		resolved, err := resolveFromCatalog(ctx)
		if err != nil {
			return err
		}
		path = resolved
	}

	bundle, err := artifact.Load(path)
	if err != nil {
		return err
	}
	stats := bundle.Stats

	fmt.Printf("Model:            %s\n", stats.ModelName)
	fmt.Printf("Artifact:         %s\n", path)
	fmt.Printf("Trained at:       %s\n", stats.TrainedAt.Format(time.RFC3339))
	fmt.Printf("Mean NDCG@5:      %.4f (%d groups evaluated)\n", stats.MeanNDCG, stats.GroupsEvaluated)
	fmt.Printf("Candidates:       %d\n", stats.TotalCandidates)
	fmt.Printf("Districts:        %d\n", len(stats.Districts))
	fmt.Printf("Streams:          %d\n", len(stats.Streams))

	if len(stats.FeatureImportance) > 0 {
		fmt.Println("\nFeature importance (split gain):")
		type kv struct {
			name string
			gain float64
		}
		sorted := make([]kv, 0, len(stats.FeatureImportance))
		for name, gain := range stats.FeatureImportance {
			sorted = append(sorted, kv{name, gain})
		}
		sort.Slice(sorted, func(i, j int) bool { return sorted[i].gain > sorted[j].gain })
		for _, f := range sorted {
			fmt.Printf("  %-28s %.2f\n", f.name, f.gain)
		}
	}

	return nil
}

func resolveFromCatalog(ctx context.Context) (string, error) {
	db, err := database.New(ctx, &cfg.Database)
	if err != nil {
		return "", fmt.Errorf("failed to connect to artifact catalog: %w", err)
	}
	defer db.Close()

	rec, err := artifact.NewPostgresCatalog(db).GetActive(ctx, cfg.Model.Name)
	if err != nil {
		return "", fmt.Errorf("failed to resolve active artifact: %w", err)
	}
	return rec.Path, nil
}
