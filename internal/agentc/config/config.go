package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const (
	DefaultBaseURL                 = "https://api.mistral.ai/v1"
	DefaultToken                   = "$MISTRAL_API_KEY"
	DefaultTimeoutSeconds          = 60
	DefaultTranscriptRetentionDays = 30
)

// Config holds the configuration for the conversation client
type Config struct {
	AgentID                 string   `toml:"agent_id" mapstructure:"agent_id"`
	BaseURL                 string   `toml:"base_url" mapstructure:"base_url"`
	Token                   string   `toml:"token" mapstructure:"token"` // "$VAR" or "${VAR}" reads the environment
	PromptDirs              []string `toml:"prompt_dirs" mapstructure:"prompt_dirs"`
	TimeoutSeconds          int      `toml:"timeout_seconds" mapstructure:"timeout_seconds"`
	SaveTranscripts         bool     `toml:"save_transcripts" mapstructure:"save_transcripts"`
	TranscriptRetentionDays int      `toml:"transcript_retention_days" mapstructure:"transcript_retention_days"` // Number of days to retain transcripts (default: 30)
}

// NewDefaultConfig returns a new Config with default values
func NewDefaultConfig(promptDir string) *Config {
	return &Config{
		AgentID:                 "",
		BaseURL:                 DefaultBaseURL,
		Token:                   DefaultToken,
		PromptDirs:              []string{promptDir},
		TimeoutSeconds:          DefaultTimeoutSeconds,
		SaveTranscripts:         false,
		TranscriptRetentionDays: DefaultTranscriptRetentionDays,
	}
}

// SetDefaults registers the default values with viper
func SetDefaults(v *viper.Viper, promptDirs []string) {
	def := NewDefaultConfig("")
	v.SetDefault("agent_id", def.AgentID)
	v.SetDefault("base_url", def.BaseURL)
	v.SetDefault("token", def.Token)
	v.SetDefault("prompt_dirs", promptDirs)
	v.SetDefault("timeout_seconds", def.TimeoutSeconds)
	v.SetDefault("save_transcripts", def.SaveTranscripts)
	v.SetDefault("transcript_retention_days", def.TranscriptRetentionDays)
}

// EnvPrefix is the prefix of environment variables overriding config keys
const EnvPrefix = "AGENTC"

// Keys lists every config key
var Keys = []string{
	"agent_id",
	"base_url",
	"token",
	"prompt_dirs",
	"timeout_seconds",
	"save_transcripts",
	"transcript_retention_days",
}

// BindEnv makes every key overridable through AGENTC_<KEY>
func BindEnv(v *viper.Viper) {
	v.SetEnvPrefix(EnvPrefix)
	v.AutomaticEnv()
	for _, key := range Keys {
		_ = v.BindEnv(key, EnvPrefix+"_"+strings.ToUpper(key))
	}
}

// LoadConfig loads configuration from the global viper instance
func LoadConfig() (*Config, error) {
	return LoadConfigFrom(viper.GetViper())
}

// LoadConfigFrom loads configuration from v, expanding environment variable
// references and resolving prompt directories.
func LoadConfigFrom(v *viper.Viper) (*Config, error) {
	config := &Config{}
	if err := v.Unmarshal(config); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	config.Token = expandEnvVar(config.Token)
	config.AgentID = expandEnvVar(config.AgentID)
	config.BaseURL = expandEnvVar(config.BaseURL)

	// Convert prompt directories to absolute paths
	for i, promptDir := range config.PromptDirs {
		absPath, err := ResolvePath(v, promptDir)
		if err != nil {
			return nil, fmt.Errorf("error resolving prompt directory path '%s': %w", promptDir, err)
		}
		config.PromptDirs[i] = absPath
	}

	return config, nil
}

// Timeout returns the request timeout, falling back to the default for
// non-positive values
func (c *Config) Timeout() time.Duration {
	if c.TimeoutSeconds <= 0 {
		return DefaultTimeoutSeconds * time.Second
	}
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// RetentionDays returns the transcript retention period in days
func (c *Config) RetentionDays() int {
	if c.TranscriptRetentionDays <= 0 {
		return DefaultTranscriptRetentionDays
	}
	return c.TranscriptRetentionDays
}
