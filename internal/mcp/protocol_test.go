package mcp

import (
	"context"
	"encoding/json"
	"net/http"
	"sort"
	"testing"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// connectServer builds a wbserver MCP server and an SDK client connected
// via in-memory transports. Returns the client session for protocol calls.
// Both sessions are cleaned up via t.Cleanup.
func connectServer(t *testing.T, server *Server) *mcp.ClientSession {
	t.Helper()

	ctx := context.Background()
	serverTransport, clientTransport := mcp.NewInMemoryTransports()

	serverSession, err := server.mcpServer.Connect(ctx, serverTransport, nil)
	if err != nil {
		t.Fatalf("server.Connect() unexpected error: %v", err)
	}
	t.Cleanup(func() { _ = serverSession.Close() })

	client := mcp.NewClient(&mcp.Implementation{
		Name:    "test-client",
		Version: "1.0.0",
	}, nil)

	clientSession, err := client.Connect(ctx, clientTransport, nil)
	if err != nil {
		t.Fatalf("client.Connect() unexpected error: %v", err)
	}
	t.Cleanup(func() { _ = clientSession.Close() })

	return clientSession
}

func TestProtocol_ListTools(t *testing.T) {
	h := newTestHelper(t)
	session := connectServer(t, h.newServer(nil, nil))

	result, err := session.ListTools(context.Background(), nil)
	if err != nil {
		t.Fatalf("ListTools() unexpected error: %v", err)
	}

	var names []string
	for _, tool := range result.Tools {
		names = append(names, tool.Name)
	}
	sort.Strings(names)

	want := []string{"compare_countries", "get_country_info", "get_live_indicator"}
	if len(names) != len(want) {
		t.Fatalf("tools = %v, want %v", names, want)
	}
	for i := range want {
		if names[i] != want[i] {
			t.Errorf("tools[%d] = %q, want %q", i, names[i], want[i])
		}
	}
}

func TestProtocol_ListResources(t *testing.T) {
	h := newTestHelper(t)
	session := connectServer(t, h.newServer(nil, nil))

	result, err := session.ListResources(context.Background(), nil)
	if err != nil {
		t.Fatalf("ListResources() unexpected error: %v", err)
	}

	var uris []string
	for _, resource := range result.Resources {
		uris = append(uris, resource.URI)
	}
	sort.Strings(uris)

	want := []string{countriesURI, schemaURI}
	if len(uris) != len(want) {
		t.Fatalf("resources = %v, want %v", uris, want)
	}

	templates, err := session.ListResourceTemplates(context.Background(), nil)
	if err != nil {
		t.Fatalf("ListResourceTemplates() unexpected error: %v", err)
	}
	if len(templates.ResourceTemplates) != 1 {
		t.Fatalf("templates = %v, want the indicators template", templates.ResourceTemplates)
	}
	if got := templates.ResourceTemplates[0].URITemplate; got != indicatorsTemplate {
		t.Errorf("template = %q, want %q", got, indicatorsTemplate)
	}
}

func TestProtocol_ReadResource(t *testing.T) {
	h := newTestHelper(t)
	session := connectServer(t, h.newServer(nil, nil))

	result, err := session.ReadResource(context.Background(), &mcp.ReadResourceParams{
		URI: indicatorsURIPrefix + "CHN",
	})
	if err != nil {
		t.Fatalf("ReadResource() unexpected error: %v", err)
	}
	if len(result.Contents) != 1 {
		t.Fatalf("got %d contents, want 1", len(result.Contents))
	}

	var rows []map[string]string
	if err := json.Unmarshal([]byte(result.Contents[0].Text), &rows); err != nil {
		t.Fatalf("contents are not valid JSON: %v", err)
	}
	if len(rows) != 1 || rows[0]["countryiso3code"] != "CHN" {
		t.Errorf("rows = %v, want the single CHN row", rows)
	}
}

func TestProtocol_CallTool(t *testing.T) {
	h := newTestHelper(t)
	session := connectServer(t, h.newServer(nil, worldBankHandler(t)))

	result, err := session.CallTool(context.Background(), &mcp.CallToolParams{
		Name: "get_live_indicator",
		Arguments: map[string]any{
			"country_code": "USA",
			"indicator":    "NY.GDP.PCAP.CD",
			"year":         2022,
		},
	})
	if err != nil {
		t.Fatalf("CallTool() unexpected error: %v", err)
	}
	if result.IsError {
		t.Fatalf("CallTool() returned error result")
	}

	textContent, ok := result.Content[0].(*mcp.TextContent)
	if !ok {
		t.Fatalf("content[0] type = %T, want *mcp.TextContent", result.Content[0])
	}

	var payload map[string]any
	if err := json.Unmarshal([]byte(textContent.Text), &payload); err != nil {
		t.Fatalf("parsing JSON: %v\ntext: %s", err, textContent.Text)
	}
	if payload["country"] != "USA" || payload["year"] != float64(2022) {
		t.Errorf("payload = %v", payload)
	}
}

func TestProtocol_UnknownTool(t *testing.T) {
	h := newTestHelper(t)
	session := connectServer(t, h.newServer(nil, nil))

	_, err := session.CallTool(context.Background(), &mcp.CallToolParams{
		Name: "nonexistent_tool",
	})
	if err == nil {
		t.Fatal("CallTool(nonexistent_tool) expected error, got nil")
	}
}

func TestProtocol_StreamableHTTP(t *testing.T) {
	h := newTestHelper(t)
	server := h.newServer(nil, nil)

	// The handler must answer MCP traffic end to end over HTTP.
	httpSrv := h.upstreamServer(server.HTTPHandler().ServeHTTP)

	client := mcp.NewClient(&mcp.Implementation{Name: "test-client", Version: "1.0.0"}, nil)
	session, err := client.Connect(context.Background(),
		&mcp.StreamableClientTransport{Endpoint: httpSrv.URL, HTTPClient: &http.Client{}}, nil)
	if err != nil {
		t.Fatalf("Connect() over streamable HTTP: %v", err)
	}
	t.Cleanup(func() { _ = session.Close() })

	result, err := session.ListTools(context.Background(), nil)
	if err != nil {
		t.Fatalf("ListTools() over HTTP: %v", err)
	}
	if len(result.Tools) != 3 {
		t.Errorf("got %d tools over HTTP, want 3", len(result.Tools))
	}
}
