package config

import (
	"os"
	"path/filepath"
	"testing"
)

func writeConfig(t *testing.T, name, data string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoad(t *testing.T) {
	path := writeConfig(t, "config.yaml", `data:
  aircraft_types: "data/aircraft.csv"
  fleet: "data/fleet.csv"
  hubs: "data/hubs.csv"
  destinations: "data/destinations.csv"
  routes: "data/routes.csv"
indicators: "data/indicators.yaml"
scheduler:
  slot_duration_minutes: 30
  day_start_hour: 5
  day_end_hour: 22
metrics:
  prometheus_enabled: true
  prometheus_port: "9102"
publisher:
  enabled: false
logging:
  level: "debug"
  format: "console"
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load error: %v", err)
	}
	checks := []struct {
		name string
		got  any
		want any
	}{
		{"aircraft_types", cfg.Data.AircraftTypes, "data/aircraft.csv"},
		{"routes", cfg.Data.Routes, "data/routes.csv"},
		{"indicators", cfg.Indicators, "data/indicators.yaml"},
		{"slot_duration_minutes", cfg.Scheduler.SlotDurationMinutes, 30},
		{"day_start_hour", cfg.Scheduler.DayStartHour, 5},
		{"day_end_hour", cfg.Scheduler.DayEndHour, 22},
		{"first_class_value default", cfg.Scheduler.FirstClassValue, 4.0},
		{"prometheus_enabled", cfg.Metrics.PrometheusEnabled, true},
		{"prometheus_port", cfg.Metrics.PrometheusPort, "9102"},
		{"publisher_enabled", cfg.Publisher.Enabled, false},
		{"log_level", cfg.Logging.Level, "debug"},
		{"log_format", cfg.Logging.Format, "console"},
	}
	for _, c := range checks {
		if c.got != c.want {
			t.Errorf("%s mismatch: %v", c.name, c.got)
		}
	}
}

func TestLoadEnvOverride(t *testing.T) {
	path := writeConfig(t, "config.yaml", `indicators: "data/indicators.yaml"
logging:
  level: "info"
`)
	t.Setenv("FP_INDICATORS", "override/indicators.yaml")
	t.Setenv("FP_LOGGING__LEVEL", "warn")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load error: %v", err)
	}
	if cfg.Indicators != "override/indicators.yaml" {
		t.Errorf("env override ignored: %s", cfg.Indicators)
	}
	if cfg.Logging.Level != "warn" {
		t.Errorf("nested env override ignored: %s", cfg.Logging.Level)
	}
}

func TestLoadRejectsBadValues(t *testing.T) {
	path := writeConfig(t, "config.yaml", `scheduler:
  day_start_hour: 20
  day_end_hour: 8
`)
	if _, err := Load(path); err == nil {
		t.Fatalf("expected validation error for inverted day window")
	}
}

func TestLoadUnsupportedFormat(t *testing.T) {
	path := writeConfig(t, "config.toml", "x = 1\n")
	if _, err := Load(path); err == nil {
		t.Fatalf("expected error for unsupported extension")
	}
}

func TestLoadJSON(t *testing.T) {
	path := writeConfig(t, "config.json", `{"indicators": "data/indicators.yaml", "logging": {"level": "error", "format": "json"}}`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load error: %v", err)
	}
	if cfg.Logging.Level != "error" {
		t.Errorf("level %s", cfg.Logging.Level)
	}
}
