package config

import "testing"

func setBase(t *testing.T) {
	t.Helper()
	t.Setenv("AIRMAP_API_URL", "http://localhost:8077")
	t.Setenv("AIRMAP_API_KEY", "k")
	t.Setenv("AIRMAP_HOME_LAT", "")
	t.Setenv("AIRMAP_HOME_LON", "")
	t.Setenv("AIRMAP_HOME_ACCURACY_M", "")
	t.Setenv("AIRMAP_MOCK_ADDR", "")
}

func TestLoadRequiresURLAndKey(t *testing.T) {
	setBase(t)
	t.Setenv("AIRMAP_API_URL", "")
	if _, err := Load(); err == nil {
		t.Error("missing API URL must fail")
	}

	setBase(t)
	t.Setenv("AIRMAP_API_KEY", "")
	if _, err := Load(); err == nil {
		t.Error("missing API key must fail")
	}
}

func TestLoadDefaults(t *testing.T) {
	setBase(t)
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.HasHome {
		t.Error("home should be unset without coordinates")
	}
	if cfg.MockAddr != ":8077" {
		t.Errorf("mock addr default: %q", cfg.MockAddr)
	}
}

func TestLoadHome(t *testing.T) {
	setBase(t)
	t.Setenv("AIRMAP_HOME_LAT", "37.5665")
	t.Setenv("AIRMAP_HOME_LON", "126.978")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !cfg.HasHome || cfg.HomeLat != 37.5665 || cfg.HomeLon != 126.978 {
		t.Errorf("home: %+v", cfg)
	}
	if cfg.HomeAccuracyM != 500 {
		t.Errorf("default accuracy: %v", cfg.HomeAccuracyM)
	}

	t.Setenv("AIRMAP_HOME_ACCURACY_M", "250")
	cfg, err = Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.HomeAccuracyM != 250 {
		t.Errorf("accuracy override: %v", cfg.HomeAccuracyM)
	}

	t.Setenv("AIRMAP_HOME_LAT", "not-a-number")
	if _, err := Load(); err == nil {
		t.Error("bad latitude must fail")
	}
}
