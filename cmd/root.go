/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/longkey1/agentc/internal/agentc/config"
	"github.com/longkey1/agentc/internal/mistral"
)

var (
	cfgFile string
	verbose bool

	// logger writes diagnostics to stderr; --verbose enables debug output
	logger = log.NewWithOptions(os.Stderr, log.Options{Prefix: "agentc", Level: log.WarnLevel})
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "agentc",
	Short: "A CLI tool for talking to hosted conversational agents",
	Long: `agentc sends messages to a pre-configured remote agent over the Mistral
conversations API and prints the agent's reply.

The API key is read from MISTRAL_API_KEY by default.
You can configure the tool using a TOML configuration file.`,
	SilenceErrors: true,
	SilenceUsage:  true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, errorLine(err))
		os.Exit(1)
	}
}

// errorLine formats err as "<kind>: <message>"
func errorLine(err error) string {
	return fmt.Sprintf("%s: %v", mistral.Kind(err), err)
}

func init() {
	cobra.OnInitialize(initConfig)

	// Global flags
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.config/agentc/config.toml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	if verbose {
		logger.SetLevel(log.DebugLevel)
	} else {
		logger.SetLevel(log.WarnLevel)
	}

	config.BindEnv(viper.GetViper())

	home, err := os.UserHomeDir()
	cobra.CheckErr(err)
	userConfigDir := filepath.Join(home, ".config", "agentc")

	// Later directories in the array take precedence over earlier ones
	defaultPromptDirs := []string{
		"/usr/share/agentc/prompts",             // System package prompts (lowest priority)
		"/usr/local/share/agentc/prompts",       // Local install prompts (low priority)
		filepath.Join(userConfigDir, "prompts"), // User-specific prompts (highest priority)
	}
	config.SetDefaults(viper.GetViper(), defaultPromptDirs)

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
		if err := viper.ReadInConfig(); err != nil {
			logger.Error("error reading config file", "path", cfgFile, "err", err)
		}
	} else {
		// Load system-wide config first (lower priority)
		for _, path := range []string{"/etc/agentc", "/usr/local/etc/agentc"} {
			viper.AddConfigPath(path)
		}
		viper.SetConfigType("toml")
		viper.SetConfigName("config")

		systemConfigLoaded := false
		if err := viper.ReadInConfig(); err == nil {
			systemConfigLoaded = true
			logger.Debug("loaded system-wide config", "path", viper.ConfigFileUsed())
		}

		// Load user config (higher priority) - merge with system config
		viper.AddConfigPath(userConfigDir)
		if systemConfigLoaded {
			if err := viper.MergeInConfig(); err != nil {
				if !isNotFound(err) {
					logger.Error("error merging user config file", "err", err)
				}
			} else {
				logger.Debug("merged user config", "path", viper.ConfigFileUsed())
			}
		} else if err := viper.ReadInConfig(); err != nil && !isNotFound(err) {
			logger.Error("error reading config file", "err", err)
		}
	}

	logger.Debug("configuration",
		"config_file", viper.ConfigFileUsed(),
		"base_url", viper.GetString("base_url"),
		"agent_id", viper.GetString("agent_id"),
		"prompt_dirs", viper.GetStringSlice("prompt_dirs"),
		"save_transcripts", viper.GetBool("save_transcripts"),
	)
}

func isNotFound(err error) bool {
	var notFound viper.ConfigFileNotFoundError
	return errors.As(err, &notFound)
}
