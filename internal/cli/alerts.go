package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mrodal/inmomatch/internal/config"
	"github.com/mrodal/inmomatch/internal/database"
	"github.com/mrodal/inmomatch/internal/listing"
)

var (
	alertUserID   string
	alertEmail    string
	alertLocation string
	alertType     string
	alertPlan     string
	alertPriceMin float64
	alertPriceMax float64
	alertsAll     bool
)

var alertsCmd = &cobra.Command{
	Use:   "alerts",
	Short: "Manage saved-search alerts",
}

var alertsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List saved searches",
	RunE:  runAlertsList,
}

var alertsAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Create a saved search",
	Long: `Add creates an active saved search. Criteria left unset (or set
to "all") match every listing; a search with several criteria only
matches listings satisfying all of them.

Examples:
  inmomatch alerts add --user=u1 --email=ana@example.com --location=Pocitos
  inmomatch alerts add --user=u1 --email=ana@example.com \
    --type=apartment --price-min=80000 --price-max=150000`,
	RunE: runAlertsAdd,
}

var alertsEnableCmd = &cobra.Command{
	Use:   "enable <search-id>",
	Short: "Re-activate a saved search",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return setAlertActive(cmd, args[0], true)
	},
}

var alertsDisableCmd = &cobra.Command{
	Use:   "disable <search-id>",
	Short: "Deactivate a saved search without deleting it",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return setAlertActive(cmd, args[0], false)
	},
}

var alertsDeleteCmd = &cobra.Command{
	Use:   "delete <search-id>",
	Short: "Delete a saved search",
	Args:  cobra.ExactArgs(1),
	RunE:  runAlertsDelete,
}

func init() {
	rootCmd.AddCommand(alertsCmd)
	alertsCmd.AddCommand(alertsListCmd)
	alertsCmd.AddCommand(alertsAddCmd)
	alertsCmd.AddCommand(alertsEnableCmd)
	alertsCmd.AddCommand(alertsDisableCmd)
	alertsCmd.AddCommand(alertsDeleteCmd)

	alertsListCmd.Flags().BoolVar(&alertsAll, "all", false, "Include inactive searches")

	alertsAddCmd.Flags().StringVar(&alertUserID, "user", "", "Owning user ID (required)")
	alertsAddCmd.Flags().StringVar(&alertEmail, "email", "", "Digest recipient address (required)")
	alertsAddCmd.Flags().StringVar(&alertLocation, "location", listing.CriteriaAny, "Location filter")
	alertsAddCmd.Flags().StringVar(&alertType, "type", listing.CriteriaAny, "Property type filter")
	alertsAddCmd.Flags().StringVar(&alertPlan, "plan", listing.CriteriaAny, "Agency plan filter")
	alertsAddCmd.Flags().Float64Var(&alertPriceMin, "price-min", 0, "Minimum price (inclusive)")
	alertsAddCmd.Flags().Float64Var(&alertPriceMax, "price-max", 0, "Maximum price (inclusive)")
}

func runAlertsList(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	db, err := database.Open(cfg.Database.Path)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	var searches []listing.SavedSearch
	if alertsAll {
		searches, err = db.ListSavedSearches(ctx)
	} else {
		searches, err = db.ListActiveSavedSearches(ctx)
	}
	if err != nil {
		return fmt.Errorf("failed to list saved searches: %w", err)
	}

	return outputData(searches)
}

func runAlertsAdd(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	if alertUserID == "" {
		return fmt.Errorf("--user is required")
	}
	if alertEmail == "" {
		return fmt.Errorf("--email is required")
	}
	if alertPriceMin > 0 && alertPriceMax > 0 && alertPriceMin > alertPriceMax {
		return fmt.Errorf("--price-min must not exceed --price-max")
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	db, err := database.Open(cfg.Database.Path)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	criteria := listing.Criteria{
		Location:     alertLocation,
		PropertyType: alertType,
		Plan:         alertPlan,
	}
	if alertPriceMin > 0 || alertPriceMax > 0 {
		criteria.PriceRange = &listing.PriceRange{Min: alertPriceMin, Max: alertPriceMax}
	}

	search := &listing.SavedSearch{
		UserID:    alertUserID,
		UserEmail: alertEmail,
		Criteria:  criteria,
		Active:    true,
	}

	if err := db.CreateSavedSearch(ctx, search); err != nil {
		return err
	}

	fmt.Printf("Created saved search %s\n", search.ID)
	return nil
}

func setAlertActive(cmd *cobra.Command, id string, active bool) error {
	ctx := cmd.Context()

	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	db, err := database.Open(cfg.Database.Path)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	if err := db.SetSavedSearchActive(ctx, id, active); err != nil {
		return err
	}

	state := "disabled"
	if active {
		state = "enabled"
	}
	fmt.Printf("Saved search %s %s\n", id, state)
	return nil
}

func runAlertsDelete(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	db, err := database.Open(cfg.Database.Path)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	if err := db.DeleteSavedSearch(ctx, args[0]); err != nil {
		return err
	}

	fmt.Printf("Deleted saved search %s\n", args[0])
	return nil
}
