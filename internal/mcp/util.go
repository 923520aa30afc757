package mcp

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/koopa0/wbserver/internal/upstream"
)

// errorPayload is the uniform failure shape. Handlers return it in place
// of a success payload; the two are never mixed, except that comparison
// list items may carry partial fields alongside an error note.
type errorPayload struct {
	Error string `json:"error"`
}

// toolJSON serializes any payload as the tool result's text content.
// All data becomes JSON; clients parse it.
func toolJSON(v any) *mcp.CallToolResult {
	b, err := json.Marshal(v)
	if err != nil {
		return &mcp.CallToolResult{
			Content: []mcp.Content{&mcp.TextContent{Text: `{"error": "Failed to serialize result"}`}},
			IsError: true,
		}
	}
	_, isErr := v.(errorPayload)
	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: string(b)}},
		IsError: isErr,
	}
}

// resourceJSON serializes a payload as a resource's JSON contents under
// the requested URI. Error payloads travel the same way: a resource read
// always yields well-formed JSON.
func resourceJSON(uri string, v any) (*mcp.ReadResourceResult, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("serializing resource %s: %w", uri, err)
	}
	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      uri,
			MIMEType: "application/json",
			Text:     string(b),
		}},
	}, nil
}

// upstreamPayload maps an outbound HTTP failure to the user-facing error
// payload and logs it at the tier the taxonomy demands: 404 is expected
// absence (Warn, caller-specific message), everything else is a fault
// (Error, kind-tagged message).
func (s *Server) upstreamPayload(err error, notFoundMsg string, attrs ...any) errorPayload {
	var statusErr *upstream.StatusError
	switch {
	case errors.Is(err, upstream.ErrNotFound):
		s.logger.Warn("upstream reported not found", attrs...)
		return errorPayload{Error: notFoundMsg}
	case errors.As(err, &statusErr):
		s.logger.Error("upstream API error", append(attrs, "status", statusErr.StatusCode)...)
		return errorPayload{Error: fmt.Sprintf("API error (%d): %v", statusErr.StatusCode, err)}
	case errors.Is(err, upstream.ErrTimeout):
		s.logger.Error("upstream request timed out", attrs...)
		return errorPayload{Error: "Request timed out, please try again"}
	case errors.Is(err, upstream.ErrNetwork):
		s.logger.Error("upstream network error", append(attrs, "error", err)...)
		return errorPayload{Error: fmt.Sprintf("Network error: %v", err)}
	default:
		s.logger.Error("unexpected upstream failure", append(attrs, "error", err)...)
		return errorPayload{Error: fmt.Sprintf("Unexpected error: %v", err)}
	}
}
