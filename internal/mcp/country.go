package mcp

import (
	"context"
	"fmt"

	"github.com/google/jsonschema-go/jsonschema"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// CountryInfoInput defines the input schema for get_country_info.
type CountryInfoInput struct {
	CountryCode string `json:"country_code" jsonschema:"ISO 3166-1 alpha-2 or alpha-3 country code (e.g. US, USA, DE)"`
}

// registerCountryTools registers the REST Countries backed tools.
func (s *Server) registerCountryTools() error {
	schema, err := jsonschema.For[CountryInfoInput](nil)
	if err != nil {
		return fmt.Errorf("schema for get_country_info: %w", err)
	}
	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name: "get_country_info",
		Description: "Fetch detailed information about a country from the REST Countries API: " +
			"name, capital, region, subregion, languages, currencies, population, and flag emoji.",
		InputSchema: schema,
	}, s.GetCountryInfo)
	return nil
}

// GetCountryInfo handles the get_country_info tool call. One synchronous
// GET, first match only; code format validation is the upstream's problem.
func (s *Server) GetCountryInfo(ctx context.Context, _ *mcp.CallToolRequest, in CountryInfoInput) (*mcp.CallToolResult, any, error) {
	s.logger.Info("fetching country info", "code", in.CountryCode)

	country, err := s.countries.Lookup(ctx, in.CountryCode)
	if err != nil {
		payload := s.upstreamPayload(err,
			fmt.Sprintf("Country code '%s' not found", in.CountryCode),
			"code", in.CountryCode)
		return toolJSON(payload), nil, nil
	}

	return toolJSON(country), nil, nil
}
