package main

import (
	"os"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/localscout/localscout/internal/config"
)

var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:   "localscout",
	Short: "Place search with multi-source result fusion",
	Long:  "Answers \"find places of a given type near an area\" by fusing candidates from a generative model, open-map data, and search-engine results, then filtering, deduplicating, and phone-enriching the combined list.",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		c, err := config.Load()
		if err != nil {
			return eris.Wrap(err, "load config")
		}
		cfg = c

		if err := config.InitLogger(cfg.Log); err != nil {
			return eris.Wrap(err, "init logger")
		}

		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = zap.L().Sync()
	},
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
