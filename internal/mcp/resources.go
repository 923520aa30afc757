package mcp

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/koopa0/wbserver/internal/store"
)

// Resource URIs. The indicators resource is a template; the country code
// segment is filled by the client.
const (
	schemaURI           = "data://schema"
	countriesURI        = "data://countries"
	indicatorsTemplate  = "data://indicators/{country_code}"
	indicatorsURIPrefix = "data://indicators/"
)

// registerResources registers the three read-only snapshot resources.
func (s *Server) registerResources() {
	s.mcpServer.AddResource(&mcp.Resource{
		URI:         schemaURI,
		Name:        "schema",
		Description: "Column names and types of the local World Bank indicator dataset.",
		MIMEType:    "application/json",
	}, s.readSchema)

	s.mcpServer.AddResource(&mcp.Resource{
		URI:         countriesURI,
		Name:        "countries",
		Description: "All unique country codes and names in the local dataset.",
		MIMEType:    "application/json",
	}, s.readCountries)

	s.mcpServer.AddResourceTemplate(&mcp.ResourceTemplate{
		URITemplate: indicatorsTemplate,
		Name:        "indicators",
		Description: "All indicator records for one ISO 3166-1 alpha-3 country code (e.g. USA, CHN, DEU).",
		MIMEType:    "application/json",
	}, s.readCountryIndicators)
}

// readSchema serves data://schema: a mapping from column name to a
// human-readable type tag inferred from the data. Loader failures are
// wrapped into the error payload like every other resource.
func (s *Server) readSchema(_ context.Context, req *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
	table, err := store.Load(s.dataFile)
	if err != nil {
		return resourceJSON(req.Params.URI, s.loadFailurePayload(err, "schema"))
	}
	return resourceJSON(req.Params.URI, table.Schema())
}

// readCountries serves data://countries: the unique {countryiso3code,
// country} tuples in the snapshot.
func (s *Server) readCountries(_ context.Context, req *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
	table, err := store.Load(s.dataFile)
	if err != nil {
		return resourceJSON(req.Params.URI, s.loadFailurePayload(err, "countries"))
	}
	return resourceJSON(req.Params.URI, table.Countries())
}

// readCountryIndicators serves data://indicators/{country_code}: every
// snapshot row for the (upper-cased) code. An unknown code is a normal
// outcome, reported as an error payload and logged at Warn.
func (s *Server) readCountryIndicators(_ context.Context, req *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
	code := countryCodeFromURI(req.Params.URI)

	table, err := store.Load(s.dataFile)
	if err != nil {
		return resourceJSON(req.Params.URI, s.loadFailurePayload(err, "indicators"))
	}

	rows := table.ByCountry(code)
	if len(rows) == 0 {
		s.logger.Warn("country code not found in local data", "code", code)
		return resourceJSON(req.Params.URI, errorPayload{
			Error: fmt.Sprintf("Country code '%s' not found in local dataset", code),
		})
	}
	return resourceJSON(req.Params.URI, rows)
}

// loadFailurePayload logs a snapshot load failure and produces the error
// payload, with distinct log lines for a missing file vs anything else.
func (s *Server) loadFailurePayload(err error, resource string) errorPayload {
	if errors.Is(err, store.ErrDataFileMissing) {
		s.logger.Error("data file missing", "resource", resource, "error", err)
		return errorPayload{Error: err.Error()}
	}
	s.logger.Error("loading data file failed", "resource", resource, "error", err)
	return errorPayload{Error: fmt.Sprintf("Failed to load %s: %v", resource, err)}
}

// countryCodeFromURI extracts the template segment from a resolved
// indicators URI.
func countryCodeFromURI(uri string) string {
	code := strings.TrimPrefix(uri, indicatorsURIPrefix)
	if unescaped, err := url.PathUnescape(code); err == nil {
		code = unescaped
	}
	return code
}
