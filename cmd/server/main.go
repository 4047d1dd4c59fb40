package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/yourusername/degree-recommender/internal/api"
	"github.com/yourusername/degree-recommender/internal/artifact"
	"github.com/yourusername/degree-recommender/internal/config"
	"github.com/yourusername/degree-recommender/internal/database"
	"github.com/yourusername/degree-recommender/internal/logger"
	"github.com/yourusername/degree-recommender/internal/metrics"
	"github.com/yourusername/degree-recommender/internal/recommend"
)

// Build information - set via ldflags
var (
	Version   = "dev"
	GitCommit = "unknown"
)

var (
	configFile string
	appLogger  *logrus.Logger
	cfg        *config.Config
)

func init() {
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "./config/config.yaml", "Path to configuration file")
}

var rootCmd = &cobra.Command{
	Use:   "server",
	Short: "Serve degree recommendations over HTTP",
	Long: `Loads the trained model artifact and serves ranked degree
recommendations. If the artifact cannot be loaded the server still starts,
reporting not-ready and answering every inference call with 503 rather than
running half-initialized.`,
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
		return runServer()
	},
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		log.Fatalf("Error: %v", err)
	}
}

func runServer() error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	engine := recommend.NewEngine(cfg.Cache, appLogger)

	// Artifact loading is a blocking, one-time startup step. Failure is
	// surfaced through the ready state, not a crash loop.
	if err := loadArtifact(ctx, engine); err != nil {
		appLogger.WithError(err).Error("Model artifact not loaded; serving in not-ready state")
	}

	server := api.NewServer(cfg.Server, engine, appLogger)
	if err := server.Start(ctx); err != nil {
		return err
	}

	if cfg.Metrics.Enabled {
		startMetricsServer(ctx)
	}

	appLogger.WithFields(logrus.Fields{
		"version": Version,
		"commit":  GitCommit,
		"ready":   engine.Ready(),
	}).Info("Degree recommender started")

	// Wait for shutdown signal
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	sig := <-sigCh

	appLogger.WithField("signal", sig.String()).Info("Shutting down")
	cancel()

	// Give the servers a moment to drain
	time.Sleep(500 * time.Millisecond)

	return nil
}

// loadArtifact resolves the artifact path, preferring the active catalog row
// when the database is enabled, and installs the bundle into the engine.
func loadArtifact(ctx context.Context, engine *recommend.Engine) error {
	path := cfg.Model.ArtifactPath

	if cfg.Database.Enabled {
		db, err := database.New(ctx, &cfg.Database)
		if err != nil {
			return fmt.Errorf("failed to connect to artifact catalog: %w", err)
		}
		defer db.Close()

		rec, err := artifact.NewPostgresCatalog(db).GetActive(ctx, cfg.Model.Name)
		if err != nil {
			return fmt.Errorf("failed to resolve active artifact: %w", err)
		}
		path = rec.Path
	}

	bundle, err := artifact.Load(path)
	if err != nil {
		return err
	}

	engine.SetBundle(bundle)

	appLogger.WithFields(logrus.Fields{
		"artifact":       path,
		"model":          bundle.ModelName,
		"mean_ndcg_at_5": bundle.Stats.MeanNDCG,
		"candidates":     bundle.Stats.TotalCandidates,
		"trained_at":     bundle.Stats.TrainedAt,
	}).Info("Model artifact loaded")

	return nil
}

func startMetricsServer(ctx context.Context) {
	mux := http.NewServeMux()
	mux.Handle(cfg.Metrics.Path, metrics.Handler())

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Metrics.Port),
		Handler: mux,
	}

	go func() {
		appLogger.WithField("port", cfg.Metrics.Port).Info("Metrics server starting")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			appLogger.WithError(err).Error("Metrics server error")
		}
	}()

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		srv.Shutdown(shutdownCtx)
	}()
}
