package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mrodal/inmomatch/internal/config"
	"github.com/mrodal/inmomatch/internal/database"
	"github.com/mrodal/inmomatch/internal/match"
)

var recommendCmd = &cobra.Command{
	Use:   "recommend <listing-id>",
	Short: "Show listings similar to the given one",
	Long: `Recommend ranks the rest of the catalog by similarity to the given
listing: same type, same operation, price proximity, shared location
words, room count, and shared agency all contribute to the score.

Examples:
  inmomatch recommend 4f6c9c1e
  inmomatch recommend 4f6c9c1e --output=json`,
	Args: cobra.ExactArgs(1),
	RunE: runRecommend,
}

func init() {
	rootCmd.AddCommand(recommendCmd)
}

func runRecommend(cmd *cobra.Command, args []string) error {
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

	recommender := match.NewRecommender(db)

	recs, err := recommender.Recommend(ctx, args[0])
	if err != nil {
		return err
	}

	return outputData(recs)
}
