package tool

import (
	"io"
	"os"
)

// WorkspaceOption configures the workspace tool set.
type WorkspaceOption func(*workspaceConfig)

type workspaceConfig struct {
	output     io.Writer
	fileOpts   []FileToolOption
	githubOpts []GitHubToolOption
}

// WithOutput sets where tool activity is printed. Defaults to os.Stdout.
func WithOutput(w io.Writer) WorkspaceOption {
	return func(c *workspaceConfig) {
		c.output = w
	}
}

// WithFileOptions sets options for the read_file tool.
func WithFileOptions(opts ...FileToolOption) WorkspaceOption {
	return func(c *workspaceConfig) {
		c.fileOpts = append(c.fileOpts, opts...)
	}
}

// WithGitHubOptions sets options for the get_github_issue tool.
func WithGitHubOptions(opts ...GitHubToolOption) WorkspaceOption {
	return func(c *workspaceConfig) {
		c.githubOpts = append(c.githubOpts, opts...)
	}
}

// Workspace returns the read_file, get_github_issue and send_email tools
// sharing one console reporter.
//
//	registry := tool.NewRegistry().Add(tool.Workspace(
//	    tool.WithGitHubOptions(tool.WithGitHubToken(token)),
//	)...)
func Workspace(opts ...WorkspaceOption) []Registration {
	cfg := &workspaceConfig{output: os.Stdout}
	for _, opt := range opts {
		opt(cfg)
	}

	rep := NewReporter(cfg.output)
	return []Registration{
		NewReadFileTool(rep, cfg.fileOpts...),
		NewGitHubIssueTool(rep, cfg.githubOpts...),
		NewSendEmailTool(rep),
	}
}
