// Package restcountries looks up country metadata from the REST Countries
// API (https://restcountries.com).
//
// The upstream payload is a JSON array of country objects with nested maps
// whose keys we do not control (languages keyed by language code, currencies
// keyed by currency code), so the client reads it with gjson rather than
// forcing it through structs. Only the first match is used; code format
// validation is left entirely to the upstream.
package restcountries

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/tidwall/gjson"

	"github.com/koopa0/wbserver/internal/upstream"
)

// DefaultBaseURL is the public REST Countries v3.1 endpoint.
const DefaultBaseURL = "https://restcountries.com/v3.1"

// Country is the reshaped lookup result. Absent upstream fields are
// defaulted, never left partially filled.
type Country struct {
	Name       string   `json:"name"`
	Capital    string   `json:"capital"`
	Region     string   `json:"region"`
	Subregion  string   `json:"subregion"`
	Languages  []string `json:"languages"`
	Currencies []string `json:"currencies"`
	Population int64    `json:"population"`
	Flag       string   `json:"flag"`
}

// Client calls the REST Countries API with a fixed timeout and no retries.
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

// Lookup fetches the country identified by a 2- or 3-letter code and
// reshapes the first match. HTTP-level failures carry the upstream package
// taxonomy: upstream.ErrNotFound for an unknown code, upstream.ErrTimeout,
// upstream.ErrNetwork, or *upstream.StatusError.
func (c *Client) Lookup(ctx context.Context, code string) (Country, error) {
	u := fmt.Sprintf("%s/alpha/%s", c.baseURL, url.PathEscape(code))
	body, err := upstream.Get(ctx, c.httpClient, u)
	if err != nil {
		return Country{}, err
	}

	first := gjson.ParseBytes(body).Get("0")
	if !first.Exists() {
		return Country{}, fmt.Errorf("empty response for country %q", code)
	}

	country := Country{
		Name:       first.Get("name.common").String(),
		Capital:    "N/A",
		Region:     "N/A",
		Subregion:  "N/A",
		Languages:  []string{},
		Currencies: []string{},
		Population: first.Get("population").Int(),
		Flag:       first.Get("flag").String(),
	}

	if capital := first.Get("capital.0"); capital.Exists() {
		country.Capital = capital.String()
	}
	if region := first.Get("region"); region.Exists() {
		country.Region = region.String()
	}
	if subregion := first.Get("subregion"); subregion.Exists() {
		country.Subregion = subregion.String()
	}
	// Languages are the map values ("English"), currencies the map keys ("USD").
	first.Get("languages").ForEach(func(_, value gjson.Result) bool {
		country.Languages = append(country.Languages, value.String())
		return true
	})
	first.Get("currencies").ForEach(func(key, _ gjson.Result) bool {
		country.Currencies = append(country.Currencies, key.String())
		return true
	})

	return country, nil
}
