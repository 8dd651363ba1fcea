package main

import (
	"encoding/json"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/localscout/localscout/internal/model"
)

var (
	searchCity string
	searchArea string
	searchMode string
)

var searchCmd = &cobra.Command{
	Use:   "search <place-type>",
	Short: "Run a one-shot place search",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		placeType, err := model.ParsePlaceType(args[0])
		if err != nil {
			return err
		}

		if searchMode != "" {
			cfg.Pipeline.Mode = searchMode
		}

		p, err := buildPipeline(cfg)
		if err != nil {
			return err
		}

		query := model.SearchQuery{
			City:      searchCity,
			Area:      searchArea,
			PlaceType: placeType,
		}

		places := p.Run(ctx, query)

		zap.L().Info("search complete",
			zap.String("query", query.String()),
			zap.Int("results", len(places)),
		)

		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(places)
	},
}

func init() {
	searchCmd.Flags().StringVar(&searchCity, "city", "", "city to search in (required)")
	searchCmd.Flags().StringVar(&searchArea, "area", "", "area or locality within the city (required)")
	searchCmd.Flags().StringVar(&searchMode, "mode", "", "pipeline mode: standard or validate (default from config)")
	_ = searchCmd.MarkFlagRequired("city")
	_ = searchCmd.MarkFlagRequired("area")
	rootCmd.AddCommand(searchCmd)
}
