package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// expandEnvVar expands an environment variable reference.
// Supports both $VAR and ${VAR} syntax; other values are returned as-is.
// An unset variable expands to the empty string.
func expandEnvVar(value string) string {
	if !strings.HasPrefix(value, "$") {
		return value
	}

	var envVarName string
	if strings.HasPrefix(value, "${") && strings.HasSuffix(value, "}") {
		envVarName = value[2 : len(value)-1]
	} else {
		envVarName = strings.TrimPrefix(value, "$")
	}

	return os.Getenv(envVarName)
}

// GetBaseURL returns the API base URL
func (c *Config) GetBaseURL() (string, error) {
	if c.BaseURL == "" {
		return "", fmt.Errorf("base URL is not configured. Set it in config file (base_url) or environment variable (AGENTC_BASE_URL)")
	}
	return c.BaseURL, nil
}

// GetToken returns the API token. The client reports a missing token itself,
// so an empty value is not an error here.
func (c *Config) GetToken() string {
	return c.Token
}

// GetAgentID returns the agent to talk to, preferring override when set
func (c *Config) GetAgentID(override string) string {
	if strings.TrimSpace(override) != "" {
		return strings.TrimSpace(override)
	}
	return c.AgentID
}

// ResolvePath converts a relative path to absolute path if needed.
// Relative paths are resolved against the directory of the config file in
// use, or the working directory when there is none.
func ResolvePath(v *viper.Viper, path string) (string, error) {
	if filepath.IsAbs(path) {
		return path, nil
	}

	configFile := v.ConfigFileUsed()
	if configFile == "" {
		cwd, err := os.Getwd()
		if err != nil {
			return "", fmt.Errorf("error getting current working directory: %w", err)
		}
		return filepath.Join(cwd, path), nil
	}

	configDir := filepath.Dir(configFile)
	if !filepath.IsAbs(configDir) {
		cwd, err := os.Getwd()
		if err != nil {
			return "", fmt.Errorf("error getting current working directory: %w", err)
		}
		configDir = filepath.Join(cwd, configDir)
	}

	return filepath.Join(configDir, path), nil
}

// ConfigDir returns the directory holding the config file in use, or
// $HOME/.config/agentc when no file was loaded
func ConfigDir(v *viper.Viper) (string, error) {
	if configFile := v.ConfigFileUsed(); configFile != "" {
		return ResolvePath(v, ".")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get user home directory: %w", err)
	}
	return filepath.Join(home, ".config", "agentc"), nil
}
