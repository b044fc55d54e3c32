// Package config loads the curing-batch pipeline's tunables, grounded on
// arx-os-arxos's cmd/config/config.go viper-defaults-then-unmarshal
// pattern.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"

	"github.com/cureops/autobatch/internal/planmodel"
)

// Config is the complete autobatch CLI configuration.
type Config struct {
	Solver  SolverConfig  `yaml:"solver" json:"solver"`
	Batch   BatchConfig   `yaml:"batch" json:"batch"`
	Logging LoggingConfig `yaml:"logging" json:"logging"`
}

// SolverConfig maps directly onto planmodel.ConstraintBundle.
type SolverConfig struct {
	BorderMarginMM  float64 `mapstructure:"border_margin_mm" yaml:"border_margin_mm" json:"border_margin_mm"`
	ClearanceMM     float64 `mapstructure:"clearance_mm" yaml:"clearance_mm" json:"clearance_mm"`
	AllowRotation   bool    `mapstructure:"allow_rotation" yaml:"allow_rotation" json:"allow_rotation"`
	ElevationCap    float64 `mapstructure:"elevation_cap" yaml:"elevation_cap" json:"elevation_cap"`
	SupportSpacing  float64 `mapstructure:"support_spacing_mm" yaml:"support_spacing_mm" json:"support_spacing_mm"`
	TimeCapSeconds  float64 `mapstructure:"time_cap_seconds" yaml:"time_cap_seconds" json:"time_cap_seconds"`
	Workers         int     `mapstructure:"workers" yaml:"workers" json:"workers"`
	AcceptThreshold float64 `mapstructure:"accept_threshold" yaml:"accept_threshold" json:"accept_threshold"`
}

// BatchConfig holds the batch builder's retention thresholds as
// configuration values. The builder (internal/batch) uses its own constants
// with the same defaults and does not read these fields.
type BatchConfig struct {
	TargetEfficiency float64 `mapstructure:"target_efficiency" yaml:"target_efficiency" json:"target_efficiency"`
	MinEfficiency    float64 `mapstructure:"min_efficiency" yaml:"min_efficiency" json:"min_efficiency"`
}

// LoggingConfig selects the obslog logger mode.
type LoggingConfig struct {
	Level       string `yaml:"level" json:"level"`
	Development bool   `yaml:"development" json:"development"`
}

// maxTimeCapSeconds is the hard ceiling Load applies to the solver's
// wall-clock budget regardless of what a config file requests; Execute
// applies the same 300 s ceiling to every run.
const maxTimeCapSeconds = 300.0

// Load reads configFile (or the default search path, $HOME/.autobatch and
// the working directory, when configFile is empty), applies the spec's
// default bundle, and unmarshals into a Config.
func Load(configFile string) (*Config, error) {
	v := viper.New()

	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		home, err := os.UserHomeDir()
		if err == nil {
			v.AddConfigPath(filepath.Join(home, ".autobatch"))
		}
		v.AddConfigPath(".")
		v.SetConfigName("config")
		v.SetConfigType("yaml")
	}

	v.SetEnvPrefix("AUTOBATCH")
	v.AutomaticEnv()

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("read config: %w", err)
		}
		// No config file present: defaults alone are a valid configuration.
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if cfg.Solver.TimeCapSeconds > maxTimeCapSeconds {
		cfg.Solver.TimeCapSeconds = maxTimeCapSeconds
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("solver.border_margin_mm", 20.0)
	v.SetDefault("solver.clearance_mm", 15.0)
	v.SetDefault("solver.allow_rotation", true)
	v.SetDefault("solver.elevation_cap", 0.35)
	v.SetDefault("solver.support_spacing_mm", 300.0)
	v.SetDefault("solver.time_cap_seconds", 60.0)
	v.SetDefault("solver.workers", 6)
	v.SetDefault("solver.accept_threshold", 0.4)

	v.SetDefault("batch.target_efficiency", 0.75)
	v.SetDefault("batch.min_efficiency", 0.50)

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.development", false)
}

// Default returns the spec's default configuration without touching the
// filesystem, for callers (such as tests) that don't need a config file.
func Default() *Config {
	cfg := &Config{}
	v := viper.New()
	setDefaults(v)
	_ = v.Unmarshal(cfg)
	return cfg
}

// ConstraintBundle converts the solver section into the shared domain type.
func (c *Config) ConstraintBundle() planmodel.ConstraintBundle {
	return planmodel.ConstraintBundle{
		BorderMargin:    c.Solver.BorderMarginMM,
		Clearance:       c.Solver.ClearanceMM,
		AllowRotation:   c.Solver.AllowRotation,
		ElevationCap:    c.Solver.ElevationCap,
		SupportSpacing:  c.Solver.SupportSpacing,
		SolverTimeCap:   c.Solver.TimeCapSeconds,
		SolverWorkers:   c.Solver.Workers,
		AcceptThreshold: c.Solver.AcceptThreshold,
	}
}
