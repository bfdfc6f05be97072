// Package mcpservice provides the building blocks of the server side of the
// protocol: the capability interfaces consumed by the engine, a concrete
// ServerCapabilities built from options, an immutable tool registry with
// schema reflection and argument validation, and the error taxonomy that
// tool handlers use to report failures.
//
// Quick start:
//
//	type EchoArgs struct {
//	    Message string `json:"message"`
//	}
//	type EchoResult struct {
//	    Echo string `json:"echo"`
//	}
//	echo := mcpservice.NewTool("echo", func(ctx context.Context, a EchoArgs) (EchoResult, error) {
//	    return EchoResult{Echo: a.Message}, nil
//	}, mcpservice.WithToolDescription("Echo a message back to the caller"))
//
//	tools, err := mcpservice.NewToolsContainer([]mcpservice.StaticTool{echo})
//	if err != nil {
//	    return err
//	}
//	srv := mcpservice.NewServer(
//	    mcpservice.WithServerInfo(mcp.ImplementationInfo{Name: "example", Version: "1.0.0"}),
//	    mcpservice.WithToolsCapability(tools),
//	)
//
// Handlers that return an *Error control the code and data of the error
// response. Any other error is reported to the client as an internal error.
package mcpservice
