// Package worldbank fetches indicator observations from the World Bank API
// (https://api.worldbank.org/v2).
//
// The API answers with a two-element JSON envelope: element 0 is pagination
// metadata and element 1 the records array. Either element may be missing
// when the query matches nothing, which is absence rather than failure, so
// the envelope is read with gjson instead of a rigid struct decode.
package worldbank

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/tidwall/gjson"

	"github.com/koopa0/wbserver/internal/upstream"
)

// DefaultBaseURL is the public World Bank v2 endpoint.
const DefaultBaseURL = "https://api.worldbank.org/v2"

// perPage is the fixed page size; there is no pagination beyond it.
const perPage = 100

// Observation is one record from the indicator records array. Value is nil
// when the upstream reports JSON null, meaning the indicator is undefined
// for that country and year; that is a successful observation.
type Observation struct {
	Date          string
	Value         *float64
	CountryName   string
	IndicatorName string
}

// Client calls the World Bank indicator API with a fixed timeout and no
// retries.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// New creates a Client. An empty baseURL selects the public API.
func New(baseURL string, timeout time.Duration) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		baseURL:    baseURL,
		httpClient: upstream.NewClient(timeout),
	}
}

// Observations fetches the records for one country and indicator. A year
// greater than zero is passed through as the date filter. An envelope with
// no records array, or an empty one, yields an empty slice and nil error.
// HTTP-level failures carry the upstream package taxonomy.
func (c *Client) Observations(ctx context.Context, countryCode, indicator string, year int) ([]Observation, error) {
	params := url.Values{}
	params.Set("format", "json")
	params.Set("per_page", strconv.Itoa(perPage))
	if year > 0 {
		params.Set("date", strconv.Itoa(year))
	}

	u := fmt.Sprintf("%s/country/%s/indicator/%s?%s",
		c.baseURL, url.PathEscape(countryCode), url.PathEscape(indicator), params.Encode())

	body, err := upstream.Get(ctx, c.httpClient, u)
	if err != nil {
		return nil, err
	}

	records := gjson.ParseBytes(body).Get("1")
	if !records.Exists() || !records.IsArray() {
		return nil, nil
	}

	var out []Observation
	records.ForEach(func(_, record gjson.Result) bool {
		obs := Observation{
			Date:          record.Get("date").String(),
			CountryName:   record.Get("country.value").String(),
			IndicatorName: record.Get("indicator.value").String(),
		}
		if value := record.Get("value"); value.Exists() && value.Type != gjson.Null {
			f := value.Float()
			obs.Value = &f
		}
		out = append(out, obs)
		return true
	})
	return out, nil
}
