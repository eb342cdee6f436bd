package config

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/kilianp07/fleetplan/core/capability"
	"github.com/kilianp07/fleetplan/core/demand"
	"github.com/kilianp07/fleetplan/core/metrics"
	"github.com/kilianp07/fleetplan/core/refdata"
	"github.com/kilianp07/fleetplan/core/scheduler"
	"github.com/kilianp07/fleetplan/infra/mqtt"
)

// Config groups every setting of a planning deployment.
type Config struct {
	Data       refdata.Sources    `json:"data"`
	Indicators string             `json:"indicators"`
	Demand     demand.Weights     `json:"demand"`
	Capability capability.Weights `json:"capability"`
	Scheduler  scheduler.Config   `json:"scheduler"`
	Metrics    metrics.Config     `json:"metrics"`
	Publisher  mqtt.Config        `json:"publisher"`
	Logging    LoggingConfig      `json:"logging"`
}

// Load reads the configuration file (YAML or JSON by extension) and applies
// FP_-prefixed environment overrides.
func Load(path string) (*Config, error) {
	k := koanf.New(".")
	ext := strings.ToLower(filepath.Ext(path))
	var parser koanf.Parser
	switch ext {
	case ".yaml", ".yml":
		parser = yaml.Parser()
	case ".json":
		parser = json.Parser()
	default:
		return nil, fmt.Errorf("unsupported config format: %s", ext)
	}
	if err := k.Load(file.Provider(path), parser); err != nil {
		return nil, err
	}
	// Optional environment overrides
	if err := k.Load(env.Provider("FP_", "__", func(s string) string {
		s = strings.TrimPrefix(strings.ToLower(s), "fp_")
		return strings.ReplaceAll(s, "__", ".")
	}), nil); err != nil {
		return nil, err
	}
	var cfg Config
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "json"}); err != nil {
		return nil, err
	}
	cfg.Scheduler.SetDefaults()
	cfg.Logging.SetDefaults()
	if err := cfg.Scheduler.Validate(); err != nil {
		return nil, err
	}
	if err := cfg.Logging.Validate(); err != nil {
		return nil, err
	}
	if err := cfg.Publisher.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}
