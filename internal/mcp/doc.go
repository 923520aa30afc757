// Package mcp implements the World Bank data MCP server.
//
// The server exposes two kinds of named operations to MCP clients:
//
//   - Resources over the local CSV snapshot: data://schema,
//     data://countries, and data://indicators/{country_code}.
//   - Tools backed by live upstream APIs: get_country_info (REST
//     Countries), get_live_indicator (World Bank), and compare_countries
//     (sequential per-country fan-out over get_live_indicator).
//
// Every handler is registered explicitly in NewServer; there is no ambient
// registration. Each call performs at most one snapshot load or one
// outbound HTTP request (N sequential requests for comparisons), and every
// anticipated failure is returned to the caller as a well-formed JSON
// error payload {"error": message} rather than a protocol error. Expected
// absence (unknown code, no data for a year) logs at Warn; operational
// faults (missing file, timeouts, upstream HTTP errors) log at Error.
package mcp
