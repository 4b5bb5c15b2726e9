// Package config loads pyventory settings from file and environment.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/viper"
)

// configName is the config file name without extension.
const configName = ".pyventory"

// configType is the config file format.
const configType = "yaml"

// envPrefix is the environment variable prefix for pyventory settings.
const envPrefix = "PYVENTORY"

// GitHub holds the remote-hosting credentials and target account.
type GitHub struct {
	Token   string `mapstructure:"token"`
	Account string `mapstructure:"account"`
}

// Config is the full runtime configuration. The core extractors never read
// it; only the CLI layer does, passing explicit values down.
type Config struct {
	GitHub       GitHub   `mapstructure:"github"`
	Destination  string   `mapstructure:"destination"`
	SitePackages []string `mapstructure:"site_packages"`
}

// Load reads configuration from file, env vars, and defaults. If configPath
// is non-empty it is used as the explicit config file path; otherwise the
// file is searched in CWD and $HOME. A missing config file is not an error.
func Load(configPath string) (*Config, error) {
	v := viper.New()

	v.SetDefault("destination", "repos")

	v.SetConfigType(configType)
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Unmarshal only sees keys viper knows about, so every key has to be
	// bound explicitly for its PYVENTORY_* variable to take effect.
	for _, key := range []string{"github.token", "github.account", "destination", "site_packages"} {
		if err := v.BindEnv(key); err != nil {
			return nil, fmt.Errorf("bind env: %w", err)
		}
	}

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName(configName)
		v.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			v.AddConfigPath(home)
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !os.IsNotExist(err) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	// GITHUB_TOKEN is the conventional variable name; honor it when the
	// prefixed form is unset.
	if cfg.GitHub.Token == "" {
		cfg.GitHub.Token = os.Getenv("GITHUB_TOKEN")
	}
	if cfg.GitHub.Account == "" {
		cfg.GitHub.Account = os.Getenv("GITHUB_ACCOUNT")
	}

	return &cfg, nil
}
