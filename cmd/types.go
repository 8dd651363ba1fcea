package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/localscout/localscout/internal/model"
)

var typesCmd = &cobra.Command{
	Use:   "types",
	Short: "List supported place types",
	Run: func(cmd *cobra.Command, args []string) {
		for _, t := range model.AllPlaceTypes() {
			fmt.Println(t)
		}
	},
}

func init() {
	rootCmd.AddCommand(typesCmd)
}
