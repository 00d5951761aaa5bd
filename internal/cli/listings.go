package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/mrodal/inmomatch/internal/config"
	"github.com/mrodal/inmomatch/internal/database"
	"github.com/mrodal/inmomatch/internal/listing"
)

var (
	listingTitle     string
	listingPrice     float64
	listingCurrency  string
	listingLocation  string
	listingType      string
	listingOperation string
	listingRooms     int
	listingAgencyID  string
	listSince        int
)

var listingsCmd = &cobra.Command{
	Use:   "listings",
	Short: "Manage catalog listings",
}

var listingsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List catalog listings",
	RunE:  runListingsList,
}

var listingsAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Add one listing to the catalog",
	Long: `Add inserts a single listing.

Example:
  inmomatch listings add --title="Bright 2BR in Pocitos" \
    --price=145000 --currency=USD --location="Pocitos" \
    --type=apartment --operation=sale --rooms=2`,
	RunE: runListingsAdd,
}

var listingsImportCmd = &cobra.Command{
	Use:   "import <file.json>",
	Short: "Import listings from a JSON file",
	Long: `Import reads a JSON array of listings and inserts them all.
Listings that fail validation are reported and skipped.`,
	Args: cobra.ExactArgs(1),
	RunE: runListingsImport,
}

func init() {
	rootCmd.AddCommand(listingsCmd)
	listingsCmd.AddCommand(listingsListCmd)
	listingsCmd.AddCommand(listingsAddCmd)
	listingsCmd.AddCommand(listingsImportCmd)

	listingsListCmd.Flags().IntVar(&listSince, "since", 0, "Only listings created in the last N hours")

	listingsAddCmd.Flags().StringVar(&listingTitle, "title", "", "Listing title (required)")
	listingsAddCmd.Flags().Float64Var(&listingPrice, "price", 0, "Price (required)")
	listingsAddCmd.Flags().StringVar(&listingCurrency, "currency", "USD", "Currency (USD or UYU)")
	listingsAddCmd.Flags().StringVar(&listingLocation, "location", "", "Location (free text)")
	listingsAddCmd.Flags().StringVar(&listingType, "type", "", "Property type (apartment, house, lot, commercial)")
	listingsAddCmd.Flags().StringVar(&listingOperation, "operation", "sale", "Operation (sale, rent, seasonal)")
	listingsAddCmd.Flags().IntVar(&listingRooms, "rooms", -1, "Room count (omit if unknown)")
	listingsAddCmd.Flags().StringVar(&listingAgencyID, "agency", "", "Owning agency ID")
}

func runListingsList(cmd *cobra.Command, args []string) error {
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

	opts := listing.ListOptions{}
	if listSince > 0 {
		since := time.Now().Add(-time.Duration(listSince) * time.Hour)
		opts.CreatedAfter = &since
	}

	listings, err := db.ListListings(ctx, opts)
	if err != nil {
		return fmt.Errorf("failed to list listings: %w", err)
	}

	return outputData(listings)
}

func runListingsAdd(cmd *cobra.Command, args []string) error {
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

	l := &listing.Listing{
		Title:         listingTitle,
		Price:         listingPrice,
		Currency:      listing.Currency(listingCurrency),
		Location:      listingLocation,
		PropertyType:  listing.PropertyType(listingType),
		OperationType: listing.OperationType(listingOperation),
	}
	if listingRooms >= 0 {
		l.Rooms = &listingRooms
	}
	if listingAgencyID != "" {
		l.AgencyID = &listingAgencyID
	}

	if err := db.CreateListing(ctx, l); err != nil {
		return err
	}

	fmt.Printf("Created listing %s\n", l.ID)
	return nil
}

func runListingsImport(cmd *cobra.Command, args []string) error {
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

	data, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("failed to read import file: %w", err)
	}

	var listings []listing.Listing
	if err := json.Unmarshal(data, &listings); err != nil {
		return fmt.Errorf("failed to parse import file: %w", err)
	}

	imported := 0
	for i := range listings {
		if err := db.CreateListing(ctx, &listings[i]); err != nil {
			fmt.Fprintf(os.Stderr, "  skipping %q: %v\n", listings[i].Title, err)
			continue
		}
		imported++
	}

	fmt.Printf("Imported %d of %d listings\n", imported, len(listings))
	return nil
}
