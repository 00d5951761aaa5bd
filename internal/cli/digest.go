package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mrodal/inmomatch/internal/config"
	"github.com/mrodal/inmomatch/internal/database"
	"github.com/mrodal/inmomatch/internal/listing"
	"github.com/mrodal/inmomatch/internal/notify"
	"github.com/mrodal/inmomatch/internal/notify/gmail"
)

var digestDryRun bool

var digestCmd = &cobra.Command{
	Use:   "digest",
	Short: "Manage the saved-search alert digest",
}

var digestRunCmd = &cobra.Command{
	Use:   "run",
	Short: "Evaluate all active saved searches and send alert digests",
	Long: `Run evaluates every active saved search against listings created
since its last successful notification (or the configured lookback for
searches never notified), and sends at most one digest email per search.

A failed send leaves the search's watermark untouched, so its matches
are reconsidered on the next run. Intended to be triggered once daily
by cron or a job runner.

Examples:
  inmomatch digest run
  inmomatch digest run --dry-run   # evaluate and report without sending`,
	RunE: runDigest,
}

func init() {
	rootCmd.AddCommand(digestCmd)
	digestCmd.AddCommand(digestRunCmd)
	digestRunCmd.Flags().BoolVar(&digestDryRun, "dry-run", false, "Evaluate matches without sending emails or advancing watermarks")
}

// discardDispatcher satisfies notify.Dispatcher for dry runs
type discardDispatcher struct{}

func (discardDispatcher) Send(ctx context.Context, to, subject, html string) error {
	fmt.Printf("  [dry-run] would send %q to %s\n", subject, to)
	return nil
}

// readOnlySearches wraps the search store so dry runs never persist
// watermark changes
type readOnlySearches struct {
	*database.DB
}

func (readOnlySearches) UpdateSavedSearch(ctx context.Context, s *listing.SavedSearch) error {
	return nil
}

func runDigest(cmd *cobra.Command, args []string) error {
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

	var dispatcher notify.Dispatcher
	var searches notify.SearchStore = db
	if digestDryRun {
		dispatcher = discardDispatcher{}
		searches = readOnlySearches{db}
	} else {
		sender := gmail.New(cfg.Gmail.CredentialsPath, cfg.Gmail.TokenPath)

		fmt.Println("Authenticating with Gmail...")
		if err := sender.Authenticate(ctx); err != nil {
			return fmt.Errorf("authentication failed: %w", err)
		}
		dispatcher = sender
	}

	scheduler := notify.New(db, searches, dispatcher, cfg.Digest.Subject, cfg.Digest.Lookback())

	fmt.Println("Running alert digest...")
	result, err := scheduler.Run(ctx)
	if err != nil {
		return fmt.Errorf("digest run failed: %w", err)
	}

	fmt.Println()
	return outputData(result)
}
