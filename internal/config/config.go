// Package config loads the CLI configuration from ~/.partners/config.toml and
// PARTNERS_* environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/nathangeffen/matchcmp/internal/logging"
	"github.com/spf13/viper"
)

const (
	configName = "config"
	configType = "toml"
	envPrefix  = "PARTNERS"

	Dir           = ".partners"
	ScenariosFile = "scenarios.toml"
	RunsFile      = "runs.toml"

	ScenariosPathKey = "scenarios.path"
	RunsPathKey      = "runs.path"
	LogLevelKey      = "log.level"
	RunSeedKey       = "run.seed"
	RunAgentsKey     = "run.agents"
	RunScenarioKey   = "run.scenario"
)

const (
	defaultSeed     = 23
	defaultAgents   = 10000
	defaultScenario = "default"
)

// Load registers defaults, environment binding and the optional config file
// on cfg. A missing config file is not an error.
func Load(cfg *viper.Viper) (*viper.Viper, error) {
	if cfg == nil {
		cfg = viper.New()
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("resolve home directory: %w", err)
	}
	configDir := filepath.Join(homeDir, Dir)

	cfg.SetConfigName(configName)
	cfg.SetConfigType(configType)
	cfg.AddConfigPath(configDir)

	cfg.SetEnvPrefix(envPrefix)
	cfg.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	cfg.AutomaticEnv()

	cfg.SetDefault(ScenariosPathKey, filepath.Join(configDir, ScenariosFile))
	cfg.SetDefault(RunsPathKey, filepath.Join(configDir, RunsFile))
	cfg.SetDefault(LogLevelKey, logging.DefaultLevel)
	cfg.SetDefault(RunSeedKey, defaultSeed)
	cfg.SetDefault(RunAgentsKey, defaultAgents)
	cfg.SetDefault(RunScenarioKey, defaultScenario)

	if err := cfg.ReadInConfig(); err != nil {
		var configNotFound viper.ConfigFileNotFoundError
		if !errors.As(err, &configNotFound) {
			return nil, fmt.Errorf("read config file: %w", err)
		}
	}

	return cfg, nil
}

// PathOrDefault returns the configured path for key, falling back to name
// inside ~/.partners.
func PathOrDefault(cfg *viper.Viper, key, name string) (string, error) {
	if cfg != nil {
		if path := cfg.GetString(key); path != "" {
			return normalizePath(path)
		}
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home directory: %w", err)
	}

	return normalizePath(filepath.Join(homeDir, Dir, name))
}

func normalizePath(path string) (string, error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("resolve path %s: %w", path, err)
	}

	return filepath.Clean(absPath), nil
}
