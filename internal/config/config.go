// Package config loads the dashboard configuration from the environment,
// with optional .env file support for local development.
package config

import (
	"fmt"
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds everything the dashboard and mock server need to run.
type Config struct {
	APIURL string // base URL of the sensor API
	APIKey string // static key sent as x-api-key

	// Optional start position. When set, the map opens centered here and
	// draws an accuracy circle of HomeAccuracyM meters around it.
	HomeLat       float64
	HomeLon       float64
	HomeAccuracyM float64
	HasHome       bool

	MockAddr string // listen address for the mock API server
}

// Load reads configuration from the environment. A missing .env file is
// fine; system environment variables still apply.
func Load() (Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, relying on system environment variables")
	}

	cfg := Config{
		APIURL:   os.Getenv("AIRMAP_API_URL"),
		APIKey:   os.Getenv("AIRMAP_API_KEY"),
		MockAddr: os.Getenv("AIRMAP_MOCK_ADDR"),
	}
	if cfg.MockAddr == "" {
		cfg.MockAddr = ":8077"
	}
	if cfg.APIURL == "" {
		return Config{}, fmt.Errorf("AIRMAP_API_URL is not set")
	}
	if cfg.APIKey == "" {
		return Config{}, fmt.Errorf("AIRMAP_API_KEY is not set")
	}

	latStr, lonStr := os.Getenv("AIRMAP_HOME_LAT"), os.Getenv("AIRMAP_HOME_LON")
	if latStr != "" && lonStr != "" {
		lat, errLat := strconv.ParseFloat(latStr, 64)
		lon, errLon := strconv.ParseFloat(lonStr, 64)
		if errLat != nil || errLon != nil {
			return Config{}, fmt.Errorf("invalid AIRMAP_HOME_LAT/LON: %q, %q", latStr, lonStr)
		}
		cfg.HomeLat, cfg.HomeLon = lat, lon
		cfg.HasHome = true
		cfg.HomeAccuracyM = 500
		if accStr := os.Getenv("AIRMAP_HOME_ACCURACY_M"); accStr != "" {
			acc, err := strconv.ParseFloat(accStr, 64)
			if err != nil {
				return Config{}, fmt.Errorf("invalid AIRMAP_HOME_ACCURACY_M: %q", accStr)
			}
			cfg.HomeAccuracyM = acc
		}
	}

	return cfg, nil
}
