package mcp

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/koopa0/wbserver/internal/restcountries"
)

const cheCountryPayload = `[{
	"name": {"common": "Switzerland", "official": "Swiss Confederation"},
	"capital": ["Bern"],
	"region": "Europe",
	"subregion": "Western Europe",
	"languages": {"gsw": "Swiss German"},
	"currencies": {"CHF": {"name": "Swiss franc"}},
	"population": 8654622,
	"flag": "flag"
}]`

// toolText extracts the JSON text of a tool result.
func toolText(t *testing.T, result *mcp.CallToolResult) string {
	t.Helper()
	if len(result.Content) == 0 {
		t.Fatal("tool result has no content")
	}
	text, ok := result.Content[0].(*mcp.TextContent)
	if !ok {
		t.Fatalf("content[0] type = %T, want *mcp.TextContent", result.Content[0])
	}
	return text.Text
}

func TestGetCountryInfo_Success(t *testing.T) {
	h := newTestHelper(t)
	s := h.newServer(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(cheCountryPayload))
	}, nil)

	result, _, err := s.GetCountryInfo(context.Background(), nil, CountryInfoInput{CountryCode: "CH"})
	if err != nil {
		t.Fatalf("GetCountryInfo() unexpected error: %v", err)
	}
	if result.IsError {
		t.Fatalf("GetCountryInfo() returned error result: %s", toolText(t, result))
	}

	var payload map[string]any
	if err := json.Unmarshal([]byte(toolText(t, result)), &payload); err != nil {
		t.Fatalf("payload is not valid JSON: %v", err)
	}
	if payload["name"] != "Switzerland" {
		t.Errorf("name = %v, want Switzerland", payload["name"])
	}
	if payload["capital"] != "Bern" {
		t.Errorf("capital = %v, want Bern", payload["capital"])
	}
	if payload["population"] != float64(8654622) {
		t.Errorf("population = %v, want 8654622", payload["population"])
	}
}

func TestGetCountryInfo_NotFound(t *testing.T) {
	h := newTestHelper(t)
	s := h.newServer(nil, nil) // nil handler answers 404

	result, _, err := s.GetCountryInfo(context.Background(), nil, CountryInfoInput{CountryCode: "XYZ"})
	if err != nil {
		t.Fatalf("GetCountryInfo() unexpected error: %v", err)
	}

	want := `{"error":"Country code 'XYZ' not found"}`
	if got := toolText(t, result); got != want {
		t.Errorf("payload = %s, want %s", got, want)
	}
}

func TestGetCountryInfo_APIError(t *testing.T) {
	h := newTestHelper(t)
	s := h.newServer(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}, nil)

	result, _, err := s.GetCountryInfo(context.Background(), nil, CountryInfoInput{CountryCode: "CH"})
	if err != nil {
		t.Fatalf("GetCountryInfo() unexpected error: %v", err)
	}
	if got := toolText(t, result); !strings.Contains(got, "API error (502)") {
		t.Errorf("payload = %s, want API error (502)", got)
	}
}

func TestGetCountryInfo_Timeout(t *testing.T) {
	h := newTestHelper(t)
	s := h.newServer(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
	}, nil)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	result, _, err := s.GetCountryInfo(ctx, nil, CountryInfoInput{CountryCode: "CH"})
	if err != nil {
		t.Fatalf("GetCountryInfo() unexpected error: %v", err)
	}
	want := `{"error":"Request timed out, please try again"}`
	if got := toolText(t, result); got != want {
		t.Errorf("payload = %s, want %s", got, want)
	}
}

func TestGetCountryInfo_NetworkError(t *testing.T) {
	h := newTestHelper(t)
	s := h.newServer(nil, nil)

	// Point the client at a closed server to force a connection failure.
	srv := h.upstreamServer(func(w http.ResponseWriter, r *http.Request) {})
	url := srv.URL
	srv.Close()
	s.countries = restcountries.New(url, time.Second)

	result, _, err := s.GetCountryInfo(context.Background(), nil, CountryInfoInput{CountryCode: "CH"})
	if err != nil {
		t.Fatalf("GetCountryInfo() unexpected error: %v", err)
	}
	if got := toolText(t, result); !strings.HasPrefix(got, `{"error":"Network error:`) {
		t.Errorf("payload = %s, want network error payload", got)
	}
}
