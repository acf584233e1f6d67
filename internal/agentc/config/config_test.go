package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/require"
)

func newViper(t *testing.T, content string) *viper.Viper {
	t.Helper()
	v := viper.New()
	SetDefaults(v, []string{"prompts"})
	BindEnv(v)
	if content != "" {
		path := filepath.Join(t.TempDir(), "config.toml")
		require.NoError(t, os.WriteFile(path, []byte(content), 0644))
		v.SetConfigFile(path)
		require.NoError(t, v.ReadInConfig())
	}
	return v
}

func TestExpandEnvVar(t *testing.T) {
	t.Setenv("AGENTC_TEST_KEY", "secret")

	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"dollar form", "$AGENTC_TEST_KEY", "secret"},
		{"braced form", "${AGENTC_TEST_KEY}", "secret"},
		{"literal", "sk-literal", "sk-literal"},
		{"unset variable", "$AGENTC_TEST_UNSET", ""},
		{"empty", "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, expandEnvVar(tt.input))
		})
	}
}

func TestLoadConfig_Defaults(t *testing.T) {
	t.Setenv("MISTRAL_API_KEY", "sk-from-env")

	v := newViper(t, "")
	cfg, err := LoadConfigFrom(v)
	require.NoError(t, err)

	require.Equal(t, DefaultBaseURL, cfg.BaseURL)
	require.Equal(t, "sk-from-env", cfg.GetToken())
	require.Empty(t, cfg.AgentID)
	require.Equal(t, 60*time.Second, cfg.Timeout())
	require.Equal(t, 30, cfg.RetentionDays())
	require.Len(t, cfg.PromptDirs, 1)
	require.True(t, filepath.IsAbs(cfg.PromptDirs[0]))
}

func TestLoadConfig_MissingKeyExpandsToEmpty(t *testing.T) {
	t.Setenv("MISTRAL_API_KEY", "")

	cfg, err := LoadConfigFrom(newViper(t, ""))
	require.NoError(t, err)
	require.Empty(t, cfg.GetToken())
}

func TestLoadConfig_File(t *testing.T) {
	t.Setenv("MY_AGENT", "ag_from_env")

	v := newViper(t, `
agent_id = "${MY_AGENT}"
base_url = "http://localhost:9999/v1"
token = "sk-inline"
prompt_dirs = ["prompts", "/abs/prompts"]
timeout_seconds = 5
save_transcripts = true
transcript_retention_days = 7
`)
	cfg, err := LoadConfigFrom(v)
	require.NoError(t, err)

	require.Equal(t, "ag_from_env", cfg.AgentID)
	require.Equal(t, "sk-inline", cfg.Token)
	require.Equal(t, 5*time.Second, cfg.Timeout())
	require.True(t, cfg.SaveTranscripts)
	require.Equal(t, 7, cfg.RetentionDays())

	baseURL, err := cfg.GetBaseURL()
	require.NoError(t, err)
	require.Equal(t, "http://localhost:9999/v1", baseURL)

	configDir := filepath.Dir(v.ConfigFileUsed())
	require.Equal(t, []string{filepath.Join(configDir, "prompts"), "/abs/prompts"}, cfg.PromptDirs)
}

func TestLoadConfig_EnvOverride(t *testing.T) {
	t.Setenv("AGENTC_TOKEN", "sk-override")
	t.Setenv("AGENTC_AGENT_ID", "ag_override")

	cfg, err := LoadConfigFrom(newViper(t, `token = "sk-file"`))
	require.NoError(t, err)
	require.Equal(t, "sk-override", cfg.Token)
	require.Equal(t, "ag_override", cfg.AgentID)
}

func TestGetAgentID(t *testing.T) {
	cfg := &Config{AgentID: "ag_config"}
	require.Equal(t, "ag_config", cfg.GetAgentID(""))
	require.Equal(t, "ag_config", cfg.GetAgentID("  "))
	require.Equal(t, "ag_flag", cfg.GetAgentID(" ag_flag "))
}

func TestGetBaseURL_Empty(t *testing.T) {
	_, err := (&Config{}).GetBaseURL()
	require.Error(t, err)
	require.Contains(t, err.Error(), "AGENTC_BASE_URL")
}

func TestTimeoutAndRetentionFallbacks(t *testing.T) {
	cfg := &Config{TimeoutSeconds: -1, TranscriptRetentionDays: 0}
	require.Equal(t, DefaultTimeoutSeconds*time.Second, cfg.Timeout())
	require.Equal(t, DefaultTranscriptRetentionDays, cfg.RetentionDays())
}

func TestConfigDir(t *testing.T) {
	v := newViper(t, `token = "x"`)
	dir, err := ConfigDir(v)
	require.NoError(t, err)
	require.Equal(t, filepath.Dir(v.ConfigFileUsed()), dir)

	home := t.TempDir()
	t.Setenv("HOME", home)
	dir, err = ConfigDir(viper.New())
	require.NoError(t, err)
	require.Equal(t, filepath.Join(home, ".config", "agentc"), dir)
}
