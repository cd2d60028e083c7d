// Package tool provides the tool registry used by agents and the workspace
// tools the demo agent is given.
//
// Tools are plain Go functions with a struct argument type. The JSON schema
// sent to the model is generated from the struct tags:
//
//	type IssueArgs struct {
//	    Owner string `json:"owner" desc:"Repository owner" required:"true"`
//	}
//
//	registry := tool.NewRegistry().Add(
//	    tool.Func("get_owner", "Echo the owner", func(ctx context.Context, args IssueArgs) (string, error) {
//	        return args.Owner, nil
//	    }),
//	)
//
// # Workspace tools
//
// [Workspace] returns the three tools handed to the demo agent:
//
//   - read_file: read a local file
//   - get_github_issue: fetch an issue from the GitHub REST API
//   - send_email: print a simulated email to the console
//
// Workspace tools never fail the call. Every failure is reported back to the
// model as a JSON object with an "error" key so the agent can decide how to
// continue.
package tool
