// Package mcp bridges tool registries and the Model Context Protocol.
//
// NewServer exposes a [tool.Registry] to MCP clients, which is how the
// workspace tools are published to an MCP gateway:
//
//	registry := tool.NewRegistry().Add(tool.Workspace(tool.WithOutput(os.Stderr))...)
//	if err := mcp.ServeStdio(registry); err != nil {
//	    log.Fatal(err)
//	}
//
// RemoteRegistry goes the other way: it connects to an MCP server and turns
// its tools into registrations an agent can call.
//
//	remote, err := mcp.NewRemoteRegistry(ctx, "./mcp-tools", nil)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer remote.Close()
//	registry := tool.NewRegistry().Add(remote.Registrations()...)
package mcp
