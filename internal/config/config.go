// Package config handles billctl configuration using Viper.
//
// Configuration sources (in priority order):
//  1. Environment variables (BILLCTL_*)
//  2. Config file (~/.config/billctl/config.yaml)
//  3. Built-in defaults
package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/viper"

	"github.com/billing-agent/billctl/internal/paths"
)

const (
	// DefaultBaseURL is the default Composio API endpoint.
	DefaultBaseURL = "https://backend.composio.dev"
	// DefaultServerName is the default MCP server name created by setup.
	DefaultServerName = "billing-invoice-automation"
	// DefaultServerLabel is the default key under mcpServers in emitted configs.
	DefaultServerLabel = "billing-agent"
)

// Config holds the billctl configuration.
type Config struct {
	v *viper.Viper
}

// Load reads configuration from all sources.
func Load() *Config {
	v := viper.New()

	v.SetDefault("api.base_url", DefaultBaseURL)
	v.SetDefault("server.name", DefaultServerName)
	v.SetDefault("server.label", DefaultServerLabel)

	// Config file location
	if root, err := paths.ConfigRoot(); err == nil {
		v.AddConfigPath(root)
		v.SetConfigName("config")
		v.SetConfigType("yaml")
	}

	// Environment variables
	v.SetEnvPrefix("BILLCTL")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Read config file (ignore if not found, but warn on other errors)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			fmt.Fprintf(os.Stderr, "Warning: error reading config file: %v\n", err)
		}
	}

	return &Config{v: v}
}

// Get returns a configuration value.
func (c *Config) Get(key string) interface{} {
	return c.v.Get(key)
}

// GetString returns a configuration value as string.
func (c *Config) GetString(key string) string {
	return c.v.GetString(key)
}

// Set sets a configuration value and persists it.
func (c *Config) Set(key string, value interface{}) error {
	c.v.Set(key, value)

	root, err := paths.ConfigRoot()
	if err != nil {
		return err
	}

	if err := os.MkdirAll(root, 0o700); err != nil {
		return err
	}

	return c.v.WriteConfigAs(root + string(os.PathSeparator) + "config.yaml")
}

// All returns all configuration as a map.
func (c *Config) All() map[string]interface{} {
	return c.v.AllSettings()
}

// BaseURL returns the configured Composio API base URL.
func (c *Config) BaseURL() string {
	return c.GetString("api.base_url")
}

// ServerName returns the configured default server name.
func (c *Config) ServerName() string {
	return c.GetString("server.name")
}

// ServerLabel returns the configured default config label.
func (c *Config) ServerLabel() string {
	return c.GetString("server.label")
}
