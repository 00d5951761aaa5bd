package cli

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/mrodal/inmomatch/internal/config"
	"github.com/mrodal/inmomatch/internal/database"
	"github.com/mrodal/inmomatch/internal/match"
	"github.com/mrodal/inmomatch/internal/notify"
	"github.com/mrodal/inmomatch/internal/notify/gmail"
	"github.com/mrodal/inmomatch/internal/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the matching engine over HTTP",
	Long: `Serve exposes the engine to the web frontend:

  GET  /listings/{id}/recommendations   ranked similar listings
  POST /digest/run                      trigger one alert digest run
  GET  /healthz                         liveness probe

Recommendation responses carry a one-hour cache directive.`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	if err := cfg.EnsureDirectories(); err != nil {
		return err
	}

	db, err := database.Open(cfg.Database.Path)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	sender := gmail.New(cfg.Gmail.CredentialsPath, cfg.Gmail.TokenPath)

	fmt.Println("Authenticating with Gmail...")
	if err := sender.Authenticate(ctx); err != nil {
		return fmt.Errorf("authentication failed: %w", err)
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
	recommender := match.NewRecommender(db)
	scheduler := notify.New(db, db, sender, cfg.Digest.Subject, cfg.Digest.Lookback())

	srv := server.New(logger, recommender, scheduler)
	return srv.ListenAndServe(ctx, cfg.Server.Addr)
}
