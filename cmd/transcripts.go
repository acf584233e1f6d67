package cmd

import (
	"bufio"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/longkey1/agentc/internal/agentc"
	"github.com/longkey1/agentc/internal/agentc/config"
	"github.com/longkey1/agentc/internal/mistral"
)

var assumeYes bool

// transcriptsCmd represents the transcripts command
var transcriptsCmd = &cobra.Command{
	Use:   "transcripts",
	Short: "Manage saved transcripts",
	Long: `Manage saved transcripts including listing, viewing, deleting and pruning them.

A transcript records the messages sent by 'agentc start --save' and the raw response received.
Transcripts are an archive only; they are never sent back to the agent.`,
}

var transcriptsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all transcripts",
	Long:  `List all saved transcripts sorted by most recently created.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := transcriptStore()
		if err != nil {
			return err
		}
		transcripts, err := store.List()
		if err != nil {
			return fmt.Errorf("listing transcripts: %w", err)
		}

		out := cmd.OutOrStdout()
		if len(transcripts) == 0 {
			fmt.Fprintln(out, "No transcripts found.")
			fmt.Fprintln(out, "\nSave one with:")
			fmt.Fprintln(out, "  agentc start --save \"your message\"")
			return nil
		}

		w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tAGENT\tCREATED\tINPUTS\tPREVIEW")
		fmt.Fprintln(w, "--\t-----\t-------\t------\t-------")
		for _, t := range transcripts {
			fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%s\n",
				t.GetShortID(),
				t.AgentID,
				t.CreatedAt.Format("2006-01-02 15:04"),
				t.InputCount(),
				t.Preview(40),
			)
		}
		w.Flush()

		fmt.Fprintln(out, "\nUse 'agentc transcripts show <id>' to view a transcript.")
		return nil
	},
}

var transcriptsShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show a transcript",
	Long: `Show the messages and the response recorded in a transcript.

The ID can be a short ID (minimum 4 characters), full UUID, or "latest" for the most recent transcript.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := transcriptStore()
		if err != nil {
			return err
		}
		t, err := store.FindByPrefix(args[0])
		if err != nil {
			return fmt.Errorf("finding transcript: %w", err)
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "Transcript: %s\n", t.ID)
		fmt.Fprintf(out, "Agent: %s\n", t.AgentID)
		if t.ConversationID != "" {
			fmt.Fprintf(out, "Conversation: %s\n", t.ConversationID)
		}
		if t.PromptName != "" {
			fmt.Fprintf(out, "Prompt: %s\n", t.PromptName)
		}
		fmt.Fprintf(out, "Created: %s\n", t.CreatedAt.Format("2006-01-02 15:04:05"))
		fmt.Fprintln(out)

		fmt.Fprintln(out, "Inputs:")
		fmt.Fprintln(out, "-------")
		for i, m := range t.Inputs {
			fmt.Fprintf(out, "\n[%d] %s\n", i+1, agentc.FormatMessageString(m))
		}

		fmt.Fprintln(out, "\nReply:")
		fmt.Fprintln(out, "------")
		if text := mistral.NewConversationResponse(t.Response).Text(); text != "" {
			fmt.Fprintf(out, "\n%s\n", agentc.FormatMessageString(agentc.Message{Role: agentc.RoleAssistant, Content: text}))
		} else {
			fmt.Fprintf(out, "\n%s\n", string(t.Response))
		}
		return nil
	},
}

var transcriptsDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a transcript",
	Long: `Delete a transcript permanently.

The ID can be a short ID (minimum 4 characters), full UUID, or "latest" for the most recent transcript.

Warning: This action cannot be undone.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := transcriptStore()
		if err != nil {
			return err
		}
		t, err := store.FindByPrefix(args[0])
		if err != nil {
			return fmt.Errorf("finding transcript: %w", err)
		}

		out := cmd.OutOrStdout()
		if !confirm(cmd, fmt.Sprintf("Are you sure you want to delete transcript %s?", t.GetShortID())) {
			fmt.Fprintln(out, "Deletion cancelled.")
			return nil
		}

		if err := store.Delete(t.ID); err != nil {
			return fmt.Errorf("deleting transcript: %w", err)
		}
		fmt.Fprintf(out, "Transcript %s deleted successfully.\n", t.GetShortID())
		return nil
	},
}

var transcriptsPruneCmd = &cobra.Command{
	Use:   "prune",
	Short: "Delete old transcripts",
	Long: `Delete old transcripts permanently.

By default, deletes transcripts created more than transcript_retention_days ago (30 unless configured).
Use --before to specify a different date, or --all to delete all transcripts.

Warning: This action cannot be undone.

Examples:
  agentc transcripts prune                      # Delete transcripts older than the retention period
  agentc transcripts prune --before 2024-01-01  # Delete transcripts created before 2024-01-01
  agentc transcripts prune --before 2024-12     # Delete transcripts created before 2024-12-01
  agentc transcripts prune --all                # Delete all transcripts`,
	RunE: func(cmd *cobra.Command, args []string) error {
		beforeDateStr, _ := cmd.Flags().GetString("before")
		deleteAll, _ := cmd.Flags().GetBool("all")

		store, err := transcriptStore()
		if err != nil {
			return err
		}

		now := time.Now()
		retentionDays := 0
		var cutoff time.Time
		var question string
		switch {
		case deleteAll:
			cutoff = now.Add(time.Second)
		case beforeDateStr != "":
			cutoff, err = parseDate(beforeDateStr)
			if err != nil {
				return fmt.Errorf("parsing date: %w", err)
			}
		default:
			cfg, err := config.LoadConfig()
			if err != nil {
				return fmt.Errorf("loading config: %w", err)
			}
			retentionDays = cfg.RetentionDays()
			cutoff = now.AddDate(0, 0, -retentionDays)
		}

		older, err := store.Before(cutoff)
		if err != nil {
			return fmt.Errorf("listing transcripts: %w", err)
		}

		out := cmd.OutOrStdout()
		if len(older) == 0 {
			if deleteAll {
				fmt.Fprintln(out, "No transcripts to delete.")
			} else {
				fmt.Fprintf(out, "No transcripts found created before %s.\n", cutoff.Format("2006-01-02"))
			}
			return nil
		}

		switch {
		case deleteAll:
			question = fmt.Sprintf("Are you sure you want to delete all %d transcripts?", len(older))
		case retentionDays > 0:
			question = fmt.Sprintf("Are you sure you want to delete %d transcripts older than %d days (created before %s)?",
				len(older), retentionDays, cutoff.Format("2006-01-02"))
		default:
			question = fmt.Sprintf("Are you sure you want to delete %d transcripts created before %s?",
				len(older), cutoff.Format("2006-01-02"))
		}
		if !confirm(cmd, question) {
			fmt.Fprintln(out, "Deletion cancelled.")
			return nil
		}

		if retentionDays > 0 {
			deleted, err := store.Prune(retentionDays, now)
			if err != nil {
				return fmt.Errorf("pruning transcripts (%d deleted): %w", deleted, err)
			}
			fmt.Fprintf(out, "Successfully deleted %d transcripts.\n", deleted)
			return nil
		}

		deleted, failed := 0, 0
		for _, t := range older {
			if err := store.Delete(t.ID); err != nil {
				logger.Warn("failed to delete transcript", "id", t.GetShortID(), "err", err)
				failed++
				continue
			}
			deleted++
		}

		fmt.Fprintf(out, "Successfully deleted %d transcripts", deleted)
		if failed > 0 {
			fmt.Fprintf(out, " (%d failed)", failed)
		}
		fmt.Fprintln(out, ".")
		return nil
	},
}

// confirm asks a yes/no question on the command's streams
func confirm(cmd *cobra.Command, question string) bool {
	if assumeYes {
		return true
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s [y/N]: ", question)
	return readYes(cmd.InOrStdin())
}

func readYes(r io.Reader) bool {
	line, err := bufio.NewReader(r).ReadString('\n')
	if err != nil && line == "" {
		return false
	}
	answer := strings.TrimSpace(line)
	return answer == "y" || answer == "Y"
}

// parseDate parses a date string in various formats and returns a time.Time
// Supported formats: YYYY-MM-DD, YYYY-MM, YYYY
func parseDate(dateStr string) (time.Time, error) {
	for _, layout := range []string{"2006-01-02", "2006-01", "2006"} {
		if t, err := time.ParseInLocation(layout, dateStr, time.Local); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid date format: %s (use YYYY-MM-DD, YYYY-MM, or YYYY)", dateStr)
}

func init() {
	rootCmd.AddCommand(transcriptsCmd)
	transcriptsCmd.AddCommand(transcriptsListCmd)
	transcriptsCmd.AddCommand(transcriptsShowCmd)
	transcriptsCmd.AddCommand(transcriptsDeleteCmd)
	transcriptsCmd.AddCommand(transcriptsPruneCmd)

	transcriptsCmd.PersistentFlags().BoolVarP(&assumeYes, "yes", "y", false, "Do not ask for confirmation")
	transcriptsPruneCmd.Flags().String("before", "", "Delete transcripts created before this date (YYYY-MM-DD, YYYY-MM, or YYYY)")
	transcriptsPruneCmd.Flags().Bool("all", false, "Delete all transcripts")
	transcriptsPruneCmd.MarkFlagsMutuallyExclusive("before", "all")
}
