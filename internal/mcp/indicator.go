package mcp

import (
	"context"
	"fmt"
	"strconv"

	"github.com/google/jsonschema-go/jsonschema"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// defaultYear is used when a tool call omits the year.
const defaultYear = 2022

// LiveIndicatorInput defines the input schema for get_live_indicator.
type LiveIndicatorInput struct {
	CountryCode string `json:"country_code" jsonschema:"ISO 3166-1 alpha-2 or alpha-3 country code"`
	Indicator   string `json:"indicator" jsonschema:"World Bank indicator ID (e.g. NY.GDP.PCAP.CD for GDP per capita, SP.POP.TOTL for population, SP.DYN.LE00.IN for life expectancy)"`
	Year        int    `json:"year,omitempty" jsonschema:"Year to fetch data for (default 2022)"`
}

// CompareCountriesInput defines the input schema for compare_countries.
type CompareCountriesInput struct {
	CountryCodes []string `json:"country_codes" jsonschema:"ISO country codes to compare (e.g. USA, CHN, DEU)"`
	Indicator    string   `json:"indicator" jsonschema:"World Bank indicator ID to compare"`
	Year         int      `json:"year,omitempty" jsonschema:"Year to fetch data for (default 2022)"`
}

// observationPayload is the get_live_indicator success shape. Value stays
// null when the indicator is undefined for that country and year; that is
// a successful observation, not an error.
type observationPayload struct {
	Country       string   `json:"country"`
	CountryName   string   `json:"country_name"`
	Indicator     string   `json:"indicator"`
	IndicatorName string   `json:"indicator_name"`
	Year          int      `json:"year"`
	Value         *float64 `json:"value"`
}

// compareFaultItem is the partial record a comparison emits when one
// country's lookup fails unexpectedly instead of returning its own error
// payload.
type compareFaultItem struct {
	Country   string   `json:"country"`
	Indicator string   `json:"indicator"`
	Year      int      `json:"year"`
	Value     *float64 `json:"value"`
	Error     string   `json:"error"`
}

// registerIndicatorTools registers the World Bank backed tools.
func (s *Server) registerIndicatorTools() error {
	liveSchema, err := jsonschema.For[LiveIndicatorInput](nil)
	if err != nil {
		return fmt.Errorf("schema for get_live_indicator: %w", err)
	}
	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name: "get_live_indicator",
		Description: "Fetch a specific indicator value from the World Bank API for one country and year. " +
			"Common indicators: NY.GDP.PCAP.CD (GDP per capita), SP.POP.TOTL (population), " +
			"SP.DYN.LE00.IN (life expectancy), SE.ADT.LITR.ZS (adult literacy rate).",
		InputSchema: liveSchema,
	}, s.GetLiveIndicator)

	compareSchema, err := jsonschema.For[CompareCountriesInput](nil)
	if err != nil {
		return fmt.Errorf("schema for compare_countries: %w", err)
	}
	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name: "compare_countries",
		Description: "Compare a World Bank indicator across multiple countries for one year. " +
			"Returns one entry per country in input order; individual failures don't abort the whole request.",
		InputSchema: compareSchema,
	}, s.CompareCountries)

	return nil
}

// GetLiveIndicator handles the get_live_indicator tool call.
func (s *Server) GetLiveIndicator(ctx context.Context, _ *mcp.CallToolRequest, in LiveIndicatorInput) (*mcp.CallToolResult, any, error) {
	year := in.Year
	if year == 0 {
		year = defaultYear
	}
	s.logger.Info("fetching live indicator", "code", in.CountryCode, "indicator", in.Indicator, "year", year)

	return toolJSON(s.liveIndicator(ctx, in.CountryCode, in.Indicator, year)), nil, nil
}

// liveIndicator performs one lookup and returns either an
// observationPayload or an errorPayload. compare_countries reuses it per
// country.
func (s *Server) liveIndicator(ctx context.Context, code, indicator string, year int) any {
	records, err := s.worldBank.Observations(ctx, code, indicator, year)
	if err != nil {
		return s.upstreamPayload(err,
			fmt.Sprintf("Country '%s' or indicator '%s' not found", code, indicator),
			"code", code, "indicator", indicator)
	}

	if len(records) == 0 {
		s.logger.Warn("no records returned", "code", code, "indicator", indicator, "year", year)
		return errorPayload{Error: fmt.Sprintf("No data available for %s / %s in %d", code, indicator, year)}
	}

	// The date parameter already filters upstream, but the API may still
	// return unrelated or multiple records; scan for the exact year.
	want := strconv.Itoa(year)
	for _, record := range records {
		if record.Date == want {
			return observationPayload{
				Country:       code,
				CountryName:   orNA(record.CountryName),
				Indicator:     indicator,
				IndicatorName: orNA(record.IndicatorName),
				Year:          year,
				Value:         record.Value,
			}
		}
	}

	s.logger.Warn("year not found in results", "code", code, "indicator", indicator, "year", year)
	return errorPayload{Error: fmt.Sprintf("No data found for %s / %s in %d", code, indicator, year)}
}

// CompareCountries handles the compare_countries tool call. Lookups run
// strictly sequentially and the output preserves input order, one entry
// per code.
func (s *Server) CompareCountries(ctx context.Context, _ *mcp.CallToolRequest, in CompareCountriesInput) (*mcp.CallToolResult, any, error) {
	year := in.Year
	if year == 0 {
		year = defaultYear
	}
	s.logger.Info("comparing countries", "codes", in.CountryCodes, "indicator", in.Indicator, "year", year)

	if len(in.CountryCodes) == 0 {
		s.logger.Warn("compare_countries called with empty country list")
		return toolJSON([]any{errorPayload{Error: "No country codes provided"}}), nil, nil
	}

	results := make([]any, 0, len(in.CountryCodes))
	for _, code := range in.CountryCodes {
		results = append(results, s.compareOne(ctx, code, in.Indicator, year))
	}
	return toolJSON(results), nil, nil
}

// compareOne isolates a single country's lookup: an unexpected fault (a
// panic) becomes a partial record with an error note and must never abort
// the remaining codes.
func (s *Server) compareOne(ctx context.Context, code, indicator string, year int) (result any) {
	defer func() {
		if r := recover(); r != nil {
			s.logger.Error("indicator lookup failed unexpectedly", "code", code, "indicator", indicator, "panic", r)
			result = compareFaultItem{
				Country:   code,
				Indicator: indicator,
				Year:      year,
				Error:     fmt.Sprint(r),
			}
		}
	}()
	return s.liveIndicator(ctx, code, indicator, year)
}

func orNA(s string) string {
	if s == "" {
		return "N/A"
	}
	return s
}
