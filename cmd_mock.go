package main

import (
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"github.com/luki/airmap/internal/config"
	"github.com/luki/airmap/internal/geo"
	"github.com/luki/airmap/internal/mockapi"
)

var mockCmd = &cobra.Command{
	Use:   "mock",
	Short: "Serve a synthetic sensor API for development",
	Long: `Starts a local server implementing the /device and /air endpoints
over a deterministic synthetic fleet. Point AIRMAP_API_URL at it to run
the dashboard without production credentials.`,
	RunE: runMock,
}

var mockLat, mockLon float64

func init() {
	mockCmd.Flags().Float64Var(&mockLat, "lat", 37.5665, "fleet center latitude")
	mockCmd.Flags().Float64Var(&mockLon, "lon", 126.978, "fleet center longitude")
	rootCmd.AddCommand(mockCmd)
}

func runMock(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	s := mockapi.New(cfg.APIKey, geo.Point{Lat: mockLat, Lon: mockLon})
	server := &http.Server{
		Addr:         cfg.MockAddr,
		Handler:      s.Handler(),
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	log.Printf("mock sensor API listening on %s (fleet around %.4f,%.4f)", cfg.MockAddr, mockLat, mockLon)
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
