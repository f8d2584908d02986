package main

import (
	"github.com/spf13/cobra"

	"github.com/luki/airmap/internal/api"
	"github.com/luki/airmap/internal/config"
	"github.com/luki/airmap/internal/dashboard"
)

var dashCmd = &cobra.Command{
	Use:   "dash",
	Short: "Run the map dashboard",
	RunE:  runDash,
}

func init() {
	rootCmd.AddCommand(dashCmd)
	// Bare `airmap` runs the dashboard too.
	rootCmd.RunE = runDash
}

func runDash(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	client := api.New(cfg.APIURL, cfg.APIKey)
	return dashboard.Run(cfg, client)
}
