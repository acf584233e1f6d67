/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/longkey1/agentc/internal/agentc/config"
	promptpkg "github.com/longkey1/agentc/internal/agentc/prompt"
)

var withDir bool

// promptCmd represents the prompt command
var promptCmd = &cobra.Command{
	Use:   "prompt",
	Short: "List available prompt templates",
	Long: `List all available prompt templates from the configured prompt directories.
This command recursively scans all prompt directories specified in the configuration and displays
the names of available .toml prompt files, including those in subdirectories.

A prompt file describes the messages sent to the agent:
system = "System message with optional {{input}} placeholder"
user = "User message with optional {{input}} placeholder"

Prompt names are displayed as relative paths from the prompt directory root.
For example, a file at ${prompt_dir}/foo/bar.toml will be displayed as "foo/bar".

If you want to see which directory each prompt comes from, use the --with-dir option.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.LoadConfig()
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}
		logger.Debug("scanning prompt directories", "dirs", cfg.PromptDirs)

		found, err := promptpkg.ListPrompts(cfg.PromptDirs)
		if err != nil {
			return err
		}

		names := make([]string, 0, len(found))
		for name := range found {
			names = append(names, name)
		}
		sort.Strings(names)

		out := cmd.OutOrStdout()
		if len(names) == 0 {
			fmt.Fprintln(out, "No prompt templates found.")
			fmt.Fprintln(out, "Create .toml files in the following directories:")
			for _, promptDir := range cfg.PromptDirs {
				fmt.Fprintf(out, "  - %s\n", promptDir)
			}
			return nil
		}

		fmt.Fprintf(out, "Available prompt templates (%d found):\n\n", len(names))
		for _, name := range names {
			if withDir {
				fmt.Fprintf(out, "  %s (from %s)\n", name, found[name])
			} else {
				fmt.Fprintf(out, "  %s\n", name)
			}
		}

		fmt.Fprintf(out, "\nUse a prompt template with: agentc start --prompt <name> [message]\n")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(promptCmd)
	promptCmd.Flags().BoolVar(&withDir, "with-dir", false, "Show the directory each prompt was found in")
}
