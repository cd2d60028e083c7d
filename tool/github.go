package tool

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/tidwall/gjson"
)

const (
	// DefaultGitHubAPIURL is the public GitHub REST endpoint.
	DefaultGitHubAPIURL = "https://api.github.com"

	// GitHubTimeout bounds a single issue request.
	GitHubTimeout = 10 * time.Second

	githubAPIVersion = "2022-11-28"
)

// GitHubIssueArgs are the arguments of the get_github_issue tool.
type GitHubIssueArgs struct {
	Owner       string `json:"owner" desc:"Repository owner (user or organization)" required:"true"`
	Repo        string `json:"repo" desc:"Repository name" required:"true"`
	IssueNumber int    `json:"issue_number" desc:"Issue number" required:"true"`
}

// issueFields maps result keys to their path in the GitHub issue payload.
var issueFields = []struct {
	key  string
	path string
}{
	{"title", "title"},
	{"body", "body"},
	{"state", "state"},
	{"number", "number"},
	{"url", "html_url"},
}

// GitHubToolOption configures the get_github_issue tool.
type GitHubToolOption func(*githubToolConfig)

type githubToolConfig struct {
	baseURL string
	token   string
	client  *http.Client
}

// WithGitHubToken sets the bearer token sent with every request.
func WithGitHubToken(token string) GitHubToolOption {
	return func(c *githubToolConfig) {
		c.token = token
	}
}

// WithGitHubBaseURL points the tool at a different API root, such as a
// GitHub Enterprise host or a test server.
func WithGitHubBaseURL(url string) GitHubToolOption {
	return func(c *githubToolConfig) {
		c.baseURL = url
	}
}

// WithGitHubHTTPClient sets the HTTP client. Its timeout replaces the
// default of GitHubTimeout.
func WithGitHubHTTPClient(client *http.Client) GitHubToolOption {
	return func(c *githubToolConfig) {
		c.client = client
	}
}

func applyGitHubOpts(opts []GitHubToolOption) *githubToolConfig {
	cfg := &githubToolConfig{baseURL: DefaultGitHubAPIURL}
	for _, opt := range opts {
		opt(cfg)
	}
	if cfg.client == nil {
		cfg.client = &http.Client{Timeout: GitHubTimeout}
	}
	cfg.baseURL = strings.TrimRight(cfg.baseURL, "/")
	return cfg
}

// NewGitHubIssueTool creates the get_github_issue tool.
//
// It issues one GET per call with no retry and returns the issue's title,
// body, state, number and url. Transport failures, non-2xx statuses and
// undecodable bodies are returned as {"error": <message>}.
func NewGitHubIssueTool(rep *Reporter, opts ...GitHubToolOption) Registration {
	cfg := applyGitHubOpts(opts)
	if rep == nil {
		rep = NewReporter(nil)
	}

	return Func("get_github_issue", "Fetch a GitHub issue using the GitHub API.",
		resultFunc(func(ctx context.Context, args GitHubIssueArgs) Result {
			rep.Call(ctx, "Fetching GitHub issue: %s/%s#%d", args.Owner, args.Repo, args.IssueNumber)

			issue, err := cfg.fetchIssue(ctx, args)
			if err != nil {
				rep.Error(ctx, "Failed to fetch issue: %v", err)
				return errorResult(err)
			}

			rep.Result(ctx, "Successfully fetched issue #%d: %v", args.IssueNumber, issue["title"])
			return issue
		}))
}

func (c *githubToolConfig) fetchIssue(ctx context.Context, args GitHubIssueArgs) (Result, error) {
	url := fmt.Sprintf("%s/repos/%s/%s/issues/%d", c.baseURL, args.Owner, args.Repo, args.IssueNumber)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/vnd.github+json")
	req.Header.Set("X-GitHub-Api-Version", githubAPIVersion)
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if err := checkStatus(resp, url); err != nil {
		return nil, err
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if !gjson.ValidBytes(body) {
		return nil, fmt.Errorf("invalid JSON in response from %s", url)
	}

	paths := make([]string, len(issueFields))
	for i, f := range issueFields {
		paths[i] = f.path
	}

	issue := make(Result, len(issueFields))
	for i, v := range gjson.GetManyBytes(body, paths...) {
		issue[issueFields[i].key] = v.Value()
	}
	return issue, nil
}

// checkStatus turns a 4xx/5xx response into an error.
func checkStatus(resp *http.Response, url string) error {
	kind := ""
	switch {
	case resp.StatusCode >= 400 && resp.StatusCode < 500:
		kind = "Client"
	case resp.StatusCode >= 500 && resp.StatusCode < 600:
		kind = "Server"
	default:
		return nil
	}
	return fmt.Errorf("%d %s Error: %s for url: %s", resp.StatusCode, kind, http.StatusText(resp.StatusCode), url)
}
