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

	"github.com/enginetwin/enginetwin/core/engine"
	"github.com/enginetwin/enginetwin/core/metrics"
	"github.com/enginetwin/enginetwin/infra/mqtt"
)

type Config struct {
	Server  ServerConfig   `json:"server"`
	Engine  engine.Config  `json:"engine"`
	Dataset DatasetConfig  `json:"dataset"`
	MQTT    mqtt.Config    `json:"mqtt"`
	Metrics metrics.Config `json:"metrics"`
}

// ServerConfig holds the HTTP listener settings.
type ServerConfig struct {
	// Addr is the listen address for the API and stream endpoints.
	Addr string `json:"addr"`
}

// SetDefaults applies sane defaults.
func (c *ServerConfig) SetDefaults() {
	if c.Addr == "" {
		c.Addr = ":8000"
	}
}

// DatasetConfig points the batch path at a sensor dataset on disk.
type DatasetConfig struct {
	// Path is the dataset file; empty disables the summary endpoint.
	Path string `json:"path"`
}

// Load reads the configuration file at path and applies environment
// overrides with the ET_ prefix (ET_SERVER__ADDR overrides server.addr).
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
	// Optional environment overrides. The "__" delimiter must survive the
	// callback so the provider nests the key under its section.
	if err := k.Load(env.Provider("ET_", "__", func(s string) string {
		return strings.TrimPrefix(strings.ToLower(s), "et_")
	}), nil); err != nil {
		return nil, err
	}
	var cfg Config
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "json"}); err != nil {
		return nil, err
	}
	cfg.Server.SetDefaults()
	cfg.Engine.SetDefaults()
	cfg.MQTT.SetDefaults()
	cfg.Metrics.SetDefaults()
	if err := cfg.Engine.Validate(); err != nil {
		return nil, err
	}
	if err := cfg.MQTT.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}
