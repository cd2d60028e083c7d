// Command secure-agent runs an autonomous agent against a fixed task, with
// an optional Archestra security proxy in front of the model.
//
// The agent can read local files, fetch GitHub issues and "send" email. The
// task points it at an issue whose body may carry injected instructions, so
// running without --secure shows what an unprotected agent will do.
//
// Configuration is via environment variables (a .env file is loaded if
// present):
//
//	OPENAI_API_KEY      - OpenAI API key (required)
//	GITHUB_TOKEN        - Token for the GitHub issues API (optional)
//	OPENAI_BASE_URL     - Direct endpoint (default: https://api.openai.com/v1)
//	ARCHESTRA_BASE_URL  - Proxy endpoint (default: http://host.docker.internal:9000/v1)
//	AGENT_MODEL         - Model name (default: gpt-4o)
//	AGENT_MAX_STEPS     - Max agent iterations (default: 50)
//	AGENT_LOG_LEVEL     - debug, info, warn or error (default: warn)
//
// Usage:
//
//	# Direct to OpenAI, vulnerable to prompt injection
//	go run ./cmd/secure-agent
//
//	# Through Archestra, which blocks malicious tool calls
//	go run ./cmd/secure-agent --secure
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

// errInterrupted reports that the run was stopped by a signal.
var errInterrupted = errors.New("interrupted")

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	os.Exit(run(ctx, os.Args[1:], os.Stdout, os.Stderr))
}

// run executes the command and maps its outcome to an exit code.
func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	cmd := newRootCommand()
	cmd.SetArgs(args)
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)

	err := cmd.ExecuteContext(ctx)
	switch {
	case err == nil:
		return 0
	case errors.Is(err, errInterrupted):
		fmt.Fprintln(stdout, "\n\nInterrupted by user.")
		return 0
	default:
		fmt.Fprintf(stdout, "\n\nError: %v\n", err)
		return 1
	}
}

func newRootCommand() *cobra.Command {
	var secure bool

	cmd := &cobra.Command{
		Use:   "secure-agent",
		Short: "Run an autonomous agent with optional Archestra security layer",
		Example: `  # Run without Archestra (direct to OpenAI) - vulnerable to prompt injection
  secure-agent

  # Run with Archestra protection - blocks malicious tool calls
  secure-agent --secure`,
		Args: cobra.NoArgs,
		// SilenceUsage prevents usage from being printed on errors
		SilenceUsage: true,
		// SilenceErrors prevents Cobra from printing errors (handled in run)
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg := LoadConfig()
			cfg.Secure = secure
			return runAgent(cmd.Context(), cfg, cmd.OutOrStdout(), cmd.ErrOrStderr())
		},
	}

	cmd.Flags().BoolVar(&secure, "secure", false, "Use Archestra Platform as security proxy")
	return cmd
}
