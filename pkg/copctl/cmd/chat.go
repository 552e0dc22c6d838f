package cmd

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/mossrock/copilot-chat/pkg/chat"
)

func NewChatCommand() *cobra.Command {
	var (
		maxTokens   int
		temperature float64
		noStream    bool
	)

	cmd := &cobra.Command{
		Use:   "chat [prompt]",
		Short: "Send a prompt to GitHub Copilot",
		Long: `Send a prompt to GitHub Copilot and print the completion.

The prompt comes from the arguments, from piped stdin, or from both
(piped input is prepended). With no prompt and an interactive terminal
an in-memory conversation loop starts instead.`,
		Args: cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := runtimeFrom(cmd)
			if err != nil {
				return err
			}
			manager, err := rt.newManager()
			if err != nil {
				return err
			}
			clientOpts := []chat.Option{chat.WithEvents(rt.recorder)}
			if base := rt.APIBase(); base != "" {
				clientOpts = append(clientOpts, chat.WithBaseURL(base))
			}
			client, err := chat.New(manager, clientOpts...)
			if err != nil {
				return err
			}

			opts := chat.Options{}
			if cmd.Flags().Changed("max-tokens") {
				opts.MaxTokens = &maxTokens
			} else if rt.cfg != nil && rt.cfg.Settings.MaxTokens > 0 {
				mt := rt.cfg.Settings.MaxTokens
				opts.MaxTokens = &mt
			}
			if cmd.Flags().Changed("temperature") {
				opts.Temperature = &temperature
			} else if rt.cfg != nil && rt.cfg.Settings.Temperature > 0 {
				tp := rt.cfg.Settings.Temperature
				opts.Temperature = &tp
			}

			prompt := strings.TrimSpace(strings.Join(args, " "))
			in := cmd.InOrStdin()
			interactive := stdinIsTerminal()
			if !interactive {
				piped, err := io.ReadAll(in)
				if err != nil {
					return fmt.Errorf("failed to read stdin: %w", err)
				}
				prompt = joinPrompt(strings.TrimSpace(string(piped)), prompt)
			}

			if prompt == "" {
				if !interactive {
					return fmt.Errorf("prompt is required")
				}
				return runChatLoop(cmd.Context(), rt.Writer(), in, client, chat.Request{
					Model:   rt.Model(),
					Options: opts,
					Stream:  !noStream,
				})
			}

			runCompletion(cmd.Context(), rt.Writer(), client, chat.Request{
				Model:   rt.Model(),
				Prompt:  prompt,
				Options: opts,
				Stream:  !noStream,
			})
			return nil
		},
	}

	cmd.Flags().IntVar(&maxTokens, "max-tokens", chat.DefaultMaxTokens, "Maximum tokens to generate")
	cmd.Flags().Float64Var(&temperature, "temperature", chat.DefaultTemperature, "Sampling temperature (0 to 1)")
	cmd.Flags().BoolVar(&noStream, "no-stream", false, "Disable streaming and print the raw response")

	return cmd
}

// stdinIsTerminal reports whether stdin is attached to a terminal. It is a
// variable so tests can pin the answer.
var stdinIsTerminal = func() bool {
	return term.IsTerminal(int(os.Stdin.Fd()))
}

// joinPrompt combines piped input and argument prompt, piped input first.
func joinPrompt(piped, args string) string {
	switch {
	case piped == "":
		return args
	case args == "":
		return piped
	default:
		return piped + "\n\n" + args
	}
}

func runCompletion(ctx context.Context, w io.Writer, client *chat.Client, req chat.Request) string {
	var response strings.Builder
	client.Execute(ctx, req, func(fragment string) {
		response.WriteString(fragment)
		_, _ = fmt.Fprint(w, fragment)
	})
	_, _ = fmt.Fprintln(w)
	return response.String()
}

// runChatLoop reads prompts line by line and replays the accumulated
// conversation with every turn.
func runChatLoop(ctx context.Context, w io.Writer, in io.Reader, client *chat.Client, req chat.Request) error {
	conversation := &chat.Conversation{}
	req.Conversation = conversation

	_, _ = fmt.Fprintln(w, "Interactive chat. Type \"exit\" or press Ctrl-D to quit.")
	scanner := bufio.NewScanner(in)
	for {
		_, _ = fmt.Fprint(w, "> ")
		if !scanner.Scan() {
			_, _ = fmt.Fprintln(w)
			break
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if line == "exit" || line == "quit" {
			break
		}
		req.Prompt = line
		response := runCompletion(ctx, w, client, req)
		conversation.Add(line, response)
	}
	return scanner.Err()
}
