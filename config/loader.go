package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

const (
	configDir  = ".dbkit"
	configFile = "config"
	configType = "yaml"
	envPrefix  = "DBKIT"
)

// Load reads the configuration from ~/.dbkit/config.yaml. A missing file
// yields an empty config rather than an error.
func Load() (*Config, error) {
	dir, err := configDirPath()
	if err != nil {
		return nil, fmt.Errorf("config dir: %w", err)
	}
	return load(dir)
}

// LoadDir reads the configuration from dir/config.yaml.
func LoadDir(dir string) (*Config, error) {
	return load(dir)
}

func load(dir string) (*Config, error) {
	v := viper.New()
	v.SetConfigName(configFile)
	v.SetConfigType(configType)
	v.AddConfigPath(dir)
	v.SetEnvPrefix(envPrefix)
	v.AutomaticEnv()

	cfg := &Config{}

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			return cfg, nil
		}
		return nil, fmt.Errorf("read config: %w", err)
	}

	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	return cfg, nil
}

// Save writes the configuration to ~/.dbkit/config.yaml, creating the
// directory when needed.
func Save(cfg *Config) error {
	dir, err := configDirPath()
	if err != nil {
		return fmt.Errorf("config dir: %w", err)
	}
	return save(dir, cfg)
}

// SaveDir writes the configuration to dir/config.yaml.
func SaveDir(dir string, cfg *Config) error {
	return save(dir, cfg)
}

func save(dir string, cfg *Config) error {
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}

	v := viper.New()
	v.Set("profiles", cfg.Profiles)
	v.Set("preferences", cfg.Preferences)

	path := filepath.Join(dir, configFile+"."+configType)
	return v.WriteConfigAs(path)
}

func configDirPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, configDir), nil
}
