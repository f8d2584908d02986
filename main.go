// airmap renders a fleet of geolocated air-quality sensors on an
// interactive terminal map, with per-device history charts fetched from
// the sensor HTTP API.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "airmap",
	Short: "Terminal map dashboard for geolocated air-quality sensors",
	Long: `airmap shows sensor devices on a pannable map and plots temperature,
humidity and particulate readings for a selected device, paged in
3-hour windows.

Configuration comes from the environment (or a .env file):
  AIRMAP_API_URL   base URL of the sensor API
  AIRMAP_API_KEY   key sent as x-api-key
  AIRMAP_HOME_LAT / AIRMAP_HOME_LON   optional start position`,
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
