// Package config loads the engine configuration document and the separately
// produced fusion-weights document.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/searchforge/cardfuse/internal/engine"
	"github.com/searchforge/cardfuse/internal/fuse"
	"github.com/searchforge/cardfuse/internal/signal"
)

const (
	defaultPort          = 7070
	defaultTopK          = 20
	defaultTopNPerSignal = 50
	defaultRRFK          = 60
	defaultCacheTTLMS    = 60000
)

// Config is the full configuration document.
type Config struct {
	Artifacts signal.Paths `koanf:"artifacts"`
	// Labels is the query/label vocabulary checked for signal coverage at
	// startup.
	Labels []string `koanf:"labels"`

	Signals struct {
		TemporalWindowDays   int     `koanf:"temporal_window_days"`
		TemporalHalfLifeDays int     `koanf:"temporal_half_life_days"`
		StapleThreshold      float64 `koanf:"staple_threshold"`
	} `koanf:"signals"`

	Fusion struct {
		Aggregator    string             `koanf:"aggregator"`
		RRFK          int                `koanf:"rrf_k"`
		TopNPerSignal int                `koanf:"top_n_per_signal"`
		TopK          int                `koanf:"top_k"`
		Weights       map[string]float64 `koanf:"weights"`
		// WeightsFile points at an externally produced weights document
		// (typically offline grid search output). It overrides Weights.
		WeightsFile string           `koanf:"weights_file"`
		MMR         engine.MMRConfig `koanf:"mmr"`
	} `koanf:"fusion"`

	CacheTTLMS int `koanf:"cache_ttl_ms"`
	Port       int `koanf:"port"`
}

// Load reads the YAML configuration at path and applies defaults and env
// overrides (PORT, CACHE_TTL_MS).
func Load(path string) (Config, error) {
	k := koanf.New(".")
	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return Config{}, fmt.Errorf("load config %s: %w", path, err)
		}
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return Config{}, fmt.Errorf("parse config %s: %w", path, err)
	}

	if cfg.Port <= 0 {
		cfg.Port = defaultPort
	}
	if cfg.Fusion.TopK <= 0 {
		cfg.Fusion.TopK = defaultTopK
	}
	if cfg.Fusion.TopNPerSignal <= 0 {
		cfg.Fusion.TopNPerSignal = defaultTopNPerSignal
	}
	if cfg.Fusion.RRFK <= 0 {
		cfg.Fusion.RRFK = defaultRRFK
	}
	if cfg.CacheTTLMS < 0 {
		cfg.CacheTTLMS = 0
	} else if cfg.CacheTTLMS == 0 {
		cfg.CacheTTLMS = defaultCacheTTLMS
	}

	cfg.Port = getEnvInt("PORT", cfg.Port)
	cfg.CacheTTLMS = getEnvInt("CACHE_TTL_MS", cfg.CacheTTLMS)

	if cfg.Fusion.WeightsFile != "" {
		weights, err := LoadWeights(cfg.Fusion.WeightsFile)
		if err != nil {
			return Config{}, err
		}
		cfg.Fusion.Weights = weights
	}

	return cfg, nil
}

// LoadWeights reads a standalone signal -> weight YAML document.
func LoadWeights(path string) (map[string]float64, error) {
	k := koanf.New(".")
	if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
		return nil, fmt.Errorf("load weights %s: %w", path, err)
	}
	var weights map[string]float64
	if err := k.Unmarshal("", &weights); err != nil {
		return nil, fmt.Errorf("parse weights %s: %w", path, err)
	}
	return weights, nil
}

// Bootstrap converts the document into an engine bootstrap configuration.
func (c Config) Bootstrap() engine.BootstrapConfig {
	weights := make(fuse.Weights, len(c.Fusion.Weights))
	for name, w := range c.Fusion.Weights {
		weights[signal.Name(name)] = w
	}

	return engine.BootstrapConfig{
		Paths:  c.Artifacts,
		Labels: c.Labels,
		Options: signal.Options{
			TemporalWindow:   time.Duration(c.Signals.TemporalWindowDays) * 24 * time.Hour,
			TemporalHalfLife: time.Duration(c.Signals.TemporalHalfLifeDays) * 24 * time.Hour,
			StapleThreshold:  c.Signals.StapleThreshold,
		},
		Engine: engine.Config{
			Weights:       weights,
			Aggregator:    fuse.Kind(c.Fusion.Aggregator),
			RRFK:          c.Fusion.RRFK,
			TopNPerSignal: c.Fusion.TopNPerSignal,
			TopK:          c.Fusion.TopK,
			MMR:           c.Fusion.MMR,
			CacheTTL:      time.Duration(c.CacheTTLMS) * time.Millisecond,
		},
	}
}

func getEnvInt(key string, fallback int) int {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil && parsed > 0 {
			return parsed
		}
	}
	return fallback
}
