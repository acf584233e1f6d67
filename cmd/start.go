package cmd

import (
	"fmt"
	"io"
	"os"
	"os/exec"
	"os/signal"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/term"

	"github.com/longkey1/agentc/internal/agentc"
	"github.com/longkey1/agentc/internal/agentc/config"
	promptpkg "github.com/longkey1/agentc/internal/agentc/prompt"
	"github.com/longkey1/agentc/internal/agentc/transcript"
	"github.com/longkey1/agentc/internal/mistral"
)

var (
	agentID        string
	role           string
	messageFlags   []string
	prompt         string
	argFlags       []string
	useEditor      bool
	textOnly       bool
	saveTranscript bool
)

// startCmd represents the start command
var startCmd = &cobra.Command{
	Use:   "start [message]",
	Short: "Start a conversation with an agent",
	Long: `Send messages to a remote agent and print its reply.
This command performs exactly one API call; nothing is retried.

The message sequence is built in this order:
  1. every --message role:content flag, in the order given
  2. the positional message (role set by --role, default "user"),
     or the messages of the --prompt template with {{input}} replaced by it

If no message is provided as an argument and stdin is not a terminal, it is read from stdin.
If --editor flag is set, it opens the default editor (from EDITOR environment variable) to compose the message.

The agent is taken from --agent, then AGENTC_AGENT_ID, then the prompt template, then the config file.

The prompt file should be in TOML format:
agent_id = "optional agent override"
system = "System message with optional {{input}} placeholder"
user = "User message with optional {{input}} placeholder"
# or, for a full sequence:
[[messages]]
role = "user"
content = "{{input}}"`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.LoadConfig()
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}

		messages, err := parseMessageFlags(messageFlags)
		if err != nil {
			return &mistral.ConfigurationError{Reason: "invalid --message flag", Err: err}
		}

		var text string
		if useEditor {
			text, err = getMessageFromEditor()
			if err != nil {
				return fmt.Errorf("getting message from editor: %w", err)
			}
		} else if len(args) > 0 {
			text = strings.Join(args, " ")
		} else if in := cmd.InOrStdin(); len(messageFlags) == 0 && !isTerminal(in) {
			text, err = readMessage(in)
			if err != nil {
				return fmt.Errorf("reading from stdin: %w", err)
			}
		}

		if prompt != "" {
			formatted, err := promptpkg.FormatMessages(text, prompt, cfg.PromptDirs, argFlags)
			if err != nil {
				return &mistral.ConfigurationError{Reason: "formatting prompt template", Err: err}
			}
			logger.Debug("using prompt template", "path", formatted.Path, "messages", len(formatted.Messages))
			messages = append(messages, formatted.Messages...)
			if formatted.AgentID != nil && os.Getenv(config.EnvPrefix+"_AGENT_ID") == "" {
				cfg.AgentID = *formatted.AgentID
			}
		} else if text != "" {
			messages = append(messages, agentc.Message{Role: agentc.Role(strings.ToLower(role)), Content: text})
		}

		target := cfg.GetAgentID(agentID)

		baseURL, err := cfg.GetBaseURL()
		if err != nil {
			return &mistral.ConfigurationError{Reason: "base URL", Err: err}
		}

		client := mistral.NewClient(cfg.GetToken(),
			mistral.WithBaseURL(baseURL),
			mistral.WithTimeout(cfg.Timeout()),
			mistral.WithLogger(logger),
		)

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
		defer stop()

		resp, err := client.StartConversation(ctx, target, messages)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		if textOnly {
			fmt.Fprintln(out, resp.Text())
		} else {
			fmt.Fprintln(out, resp.String())
		}

		if saveTranscript || cfg.SaveTranscripts {
			if err := saveExchange(cmd, target, messages, resp); err != nil {
				// reply is already printed
				logger.Warn("could not save transcript", "err", err)
			}
		}
		return nil
	},
}

func parseMessageFlags(flags []string) ([]agentc.Message, error) {
	messages := make([]agentc.Message, 0, len(flags)+1)
	for _, f := range flags {
		m, err := agentc.ParseMessageString(f)
		if err != nil {
			return nil, err
		}
		messages = append(messages, m)
	}
	return messages, nil
}

// isTerminal reports whether r is an interactive terminal. Anything that is
// not an *os.File counts as piped input.
func isTerminal(r io.Reader) bool {
	f, ok := r.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

func readMessage(r io.Reader) (string, error) {
	input, err := io.ReadAll(r)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(input)), nil
}

func transcriptStore() (*transcript.Store, error) {
	configDir, err := config.ConfigDir(viper.GetViper())
	if err != nil {
		return nil, err
	}
	return transcript.NewStore(transcript.DirFor(configDir)), nil
}

func saveExchange(cmd *cobra.Command, agent string, messages []agentc.Message, resp *mistral.ConversationResponse) error {
	store, err := transcriptStore()
	if err != nil {
		return err
	}
	t := transcript.New(agent, messages, resp.Raw())
	t.PromptName = prompt
	if err := store.Save(t); err != nil {
		return err
	}
	fmt.Fprintf(cmd.ErrOrStderr(), "\nTranscript saved: %s\n", t.GetShortID())
	fmt.Fprintf(cmd.ErrOrStderr(), "View it with:\n  agentc transcripts show %s\n", t.GetShortID())
	return nil
}

// getMessageFromEditor opens the default editor and returns the edited message
func getMessageFromEditor() (string, error) {
	editor := os.Getenv("EDITOR")
	if editor == "" {
		return "", fmt.Errorf("EDITOR environment variable is not set")
	}

	tmpFile, err := os.CreateTemp("", "agentc-*.txt")
	if err != nil {
		return "", fmt.Errorf("failed to create temporary file: %w", err)
	}
	tmpFile.Close()
	defer os.Remove(tmpFile.Name())

	cmd := exec.Command(editor, tmpFile.Name())
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	if err := cmd.Run(); err != nil {
		return "", fmt.Errorf("failed to open editor: %w", err)
	}

	content, err := os.ReadFile(tmpFile.Name())
	if err != nil {
		return "", fmt.Errorf("failed to read edited content: %w", err)
	}

	return strings.TrimSpace(string(content)), nil
}

func init() {
	rootCmd.AddCommand(startCmd)

	startCmd.Flags().StringVarP(&agentID, "agent", "a", "", "Agent ID to talk to (overrides agent_id from config and prompt)")
	startCmd.Flags().StringVarP(&role, "role", "r", string(agentc.RoleUser), "Role of the positional message (user, assistant, system)")
	startCmd.Flags().StringArrayVarP(&messageFlags, "message", "M", []string{}, "Message to send before the positional one (format: role:content, repeatable)")
	startCmd.Flags().StringVarP(&prompt, "prompt", "p", "", "Name of the prompt template (without .toml extension)")
	startCmd.Flags().StringArrayVar(&argFlags, "arg", []string{}, "Key-value pairs for prompt template (format: key:value)")
	startCmd.Flags().BoolVarP(&useEditor, "editor", "e", false, "Use default editor (from EDITOR environment variable) to compose message")
	startCmd.Flags().BoolVarP(&textOnly, "text", "t", false, "Print only the agent's reply text instead of the raw JSON response")
	startCmd.Flags().BoolVar(&saveTranscript, "save", false, "Save the exchange as a transcript")
}
