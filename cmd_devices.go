package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/luki/airmap/internal/api"
	"github.com/luki/airmap/internal/config"
	"github.com/luki/airmap/internal/geo"
)

var devicesCmd = &cobra.Command{
	Use:   "devices",
	Short: "List devices in a bounding box and exit",
	Long: `One-shot device listing for scripts. The box defaults to the area
around the configured home position.`,
	RunE: runDevices,
}

var devicesSpan float64

func init() {
	devicesCmd.Flags().Float64Var(&devicesSpan, "span", 0.25, "box span in degrees")
	rootCmd.AddCommand(devicesCmd)
}

func runDevices(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	center := geo.Point{Lat: 37.5665, Lon: 126.978}
	if cfg.HasHome {
		center = geo.Point{Lat: cfg.HomeLat, Lon: cfg.HomeLon}
	}
	box := geo.BoxAround(center, devicesSpan, devicesSpan)

	ctx, cancel := context.WithTimeout(cmd.Context(), 15*time.Second)
	defer cancel()

	client := api.New(cfg.APIURL, cfg.APIKey)
	devs, err := client.FetchDevices(ctx, box)
	if err != nil {
		return err
	}

	for _, d := range devs {
		fmt.Printf("%-16s %9.4f %9.4f  last seen %s\n",
			d.ID, d.Lat, d.Lon, d.LastSeen.Format("2006-01-02 15:04:05"))
	}
	fmt.Printf("%d devices in %.2f° box around %.4f,%.4f\n",
		len(devs), devicesSpan, center.Lat, center.Lon)
	return nil
}
