package cmd

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/longkey1/agentc/internal/agentc/config"
)

const configFields = "configfile, agent_id, base_url, token, prompt_dirs, timeout_seconds, save_transcripts, transcript_retention_days"

// configCmd represents the config command
var configCmd = &cobra.Command{
	Use:   "config [field]",
	Short: "Display current configuration",
	Long: `Display the current configuration values.
This command shows all configuration values loaded from the config file and environment variables.

If a field name is specified, only that field's value is displayed.
Available fields: ` + configFields + `

Examples:
  agentc config                 # Show all configuration
  agentc config agent_id        # Show only the agent ID
  agentc config token           # Show only the (masked) API key`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.LoadConfig()
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}

		out := cmd.OutOrStdout()
		if len(args) > 0 {
			return printConfigField(out, cfg, args[0])
		}

		fmt.Fprintf(out, "ConfigFile: %s\n", viper.ConfigFileUsed())
		fmt.Fprintf(out, "AgentID: %s\n", cfg.AgentID)
		fmt.Fprintf(out, "BaseURL: %s\n", cfg.BaseURL)
		fmt.Fprintf(out, "Token: %s\n", maskToken(cfg.Token))
		fmt.Fprintf(out, "PromptDirectories: %s\n", strings.Join(cfg.PromptDirs, ","))
		fmt.Fprintf(out, "TimeoutSeconds: %d\n", cfg.TimeoutSeconds)
		fmt.Fprintf(out, "SaveTranscripts: %v\n", cfg.SaveTranscripts)
		fmt.Fprintf(out, "TranscriptRetentionDays: %d\n", cfg.TranscriptRetentionDays)
		return nil
	},
}

func printConfigField(out io.Writer, cfg *config.Config, field string) error {
	switch strings.ToLower(field) {
	case "configfile":
		fmt.Fprintln(out, viper.ConfigFileUsed())
	case "agent_id", "agentid":
		fmt.Fprintln(out, cfg.AgentID)
	case "base_url", "baseurl":
		fmt.Fprintln(out, cfg.BaseURL)
	case "token":
		fmt.Fprintln(out, maskToken(cfg.Token))
	case "prompt_dirs", "promptdirs":
		fmt.Fprintln(out, strings.Join(cfg.PromptDirs, ","))
	case "timeout_seconds", "timeout":
		fmt.Fprintln(out, cfg.TimeoutSeconds)
	case "save_transcripts":
		fmt.Fprintln(out, cfg.SaveTranscripts)
	case "transcript_retention_days":
		fmt.Fprintln(out, cfg.TranscriptRetentionDays)
	default:
		return fmt.Errorf("unknown field: %s\nAvailable fields: %s", field, configFields)
	}
	return nil
}

// maskToken returns a masked version of the token for security
func maskToken(token string) string {
	if token == "" {
		return "(not set)"
	}
	if len(token) <= 8 {
		return "********"
	}
	return token[:4] + "..." + token[len(token)-4:]
}

func init() {
	rootCmd.AddCommand(configCmd)
}
