// Package stdio serves one MCP session over a pair of byte streams, normally
// the process's stdin and stdout.
//
// Each input line holds one JSON-RPC message. Lines are handled strictly in
// order; the response to a request is written and flushed before the next
// line is read, so responses come out in request order. Notifications never
// produce output.
//
// A line that cannot be decoded is answered with a parse error or an
// invalid request error when its id can still be picked out of the bytes,
// and is logged and dropped otherwise. Blank lines are skipped.
//
//	h := stdio.NewHandler(srv, stdio.WithLogger(logger))
//	err := h.Serve(ctx) // nil at end of input
//
// Diagnostics go to the configured slog.Logger and never to the output stream.
package stdio
