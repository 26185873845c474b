// Package config loads the tunables every phase of the pipeline and the
// query engine need from a YAML file, environment overrides, or defaults.
package config

import (
	"bytes"
	"fmt"

	"github.com/spf13/viper"

	"github.com/Khoshkhah/h3-routing-platform/pkg/contract"
)

// Config is the top-level configuration tree, mapping directly onto the
// input.*, algorithm.*, parallel.*, duckdb.*, and logging.* key families.
type Config struct {
	Input     InputConfig     `mapstructure:"input"`
	Algorithm AlgorithmConfig `mapstructure:"algorithm"`
	Parallel  ParallelConfig  `mapstructure:"parallel"`
	DuckDB    DuckDBConfig    `mapstructure:"duckdb"`
	Logging   LoggingConfig   `mapstructure:"logging"`
}

// InputConfig names the source files a preprocess run ingests.
type InputConfig struct {
	EdgesFile string `mapstructure:"edges_file"`
	GraphFile string `mapstructure:"graph_file"`
	District  string `mapstructure:"district"`
}

// AlgorithmConfig controls which shortest-path kernel contraction uses at
// each resolution, and where partitions are cut.
type AlgorithmConfig struct {
	SPMethod     string `mapstructure:"sp_method"`
	HybridRes    int8   `mapstructure:"hybrid_res"`
	PartitionRes int8   `mapstructure:"partition_res"`
}

// ParallelConfig sizes the worker pools for each parallel phase.
type ParallelConfig struct {
	Workers       int `mapstructure:"workers"`
	WorkersPhase1 int `mapstructure:"workers_phase1"`
	WorkersPhase4 int `mapstructure:"workers_phase4"`
}

// DuckDBConfig controls the analytic store a run's ingestion and export
// steps use.
type DuckDBConfig struct {
	MemoryLimit string `mapstructure:"memory_limit"`
	FreshStart  bool   `mapstructure:"fresh_start"`
}

// LoggingConfig controls the standard logger's verbosity.
type LoggingConfig struct {
	Level   string `mapstructure:"level"`
	Verbose bool   `mapstructure:"verbose"`
}

// Load reads configuration from configPath (or the standard search
// locations if empty), applying defaults for anything left unset and
// allowing environment variables to override file values.
func Load(configPath string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./configs")
		v.AddConfigPath("/etc/h3-routing-platform")
	}

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	v.SetEnvPrefix("H3ROUTE")
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// LoadFromReader parses configType content directly, bypassing the file
// search path — used by tests.
func LoadFromReader(configType string, content []byte) (*Config, error) {
	v := viper.New()
	setDefaults(v)
	v.SetConfigType(configType)
	if err := v.ReadConfig(bytes.NewReader(content)); err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("algorithm.sp_method", "HYBRID")
	v.SetDefault("algorithm.hybrid_res", 10)
	v.SetDefault("algorithm.partition_res", 7)

	v.SetDefault("parallel.workers", 4)
	v.SetDefault("parallel.workers_phase1", 4)
	v.SetDefault("parallel.workers_phase4", 4)

	v.SetDefault("duckdb.memory_limit", "4GB")
	v.SetDefault("duckdb.fresh_start", false)

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.verbose", false)
}

var validMethods = map[string]bool{"PURE": true, "SCIPY": true, "HYBRID": true}

// Validate rejects configurations the rest of the pipeline cannot run
// with — an unknown sp_method or a nonsensical worker count is a
// ConfigError-class mistake the caller should see before spending any
// work on a doomed run.
func (c *Config) Validate() error {
	if !validMethods[c.Algorithm.SPMethod] {
		return fmt.Errorf("algorithm.sp_method %q is not one of PURE, SCIPY, HYBRID", c.Algorithm.SPMethod)
	}
	if c.Parallel.WorkersPhase1 < 1 || c.Parallel.WorkersPhase4 < 1 {
		return fmt.Errorf("parallel.workers_phase1/workers_phase4 must each be at least 1")
	}
	return nil
}

// ContractConfig projects the loaded configuration onto the subset the
// contraction pipeline needs, adding the run directory a cobra flag
// supplies at invocation time (it has no config-file key of its own).
func (c *Config) ContractConfig(runDir string) contract.Config {
	return contract.Config{
		PartitionRes:  c.Algorithm.PartitionRes,
		HybridRes:     c.Algorithm.HybridRes,
		WorkersPhase1: c.Parallel.WorkersPhase1,
		WorkersPhase4: c.Parallel.WorkersPhase4,
		RunDir:        runDir,
		FreshStart:    c.DuckDB.FreshStart,
	}
}
