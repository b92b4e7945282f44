// Package tmdb looks up movies and tv shows on The Movie Database.
package tmdb

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/mitchellh/mapstructure"
)

const (
	defaultBaseURL = "https://api.themoviedb.org/3"
	posterBaseURL  = "https://image.tmdb.org/t/p/w185"

	KindMovie = "movie"
	KindTV    = "tv"
)

// ErrNoResults is returned when the search matched nothing.
var ErrNoResults = errors.New("tmdb: no results")

type Client struct {
	HTTP    *http.Client
	BaseURL string
	apiKey  string
}

// Result is the first search hit. Movie and tv payloads use different field
// names for title and date; both sets are captured and Title/Year pick
// whichever is filled.
type Result struct {
	Name         string  `mapstructure:"name"`
	MovieTitle   string  `mapstructure:"title"`
	Overview     string  `mapstructure:"overview"`
	VoteAverage  float64 `mapstructure:"vote_average"`
	FirstAirDate string  `mapstructure:"first_air_date"`
	ReleaseDate  string  `mapstructure:"release_date"`
	PosterPath   string  `mapstructure:"poster_path"`
}

func (r *Result) Title() string {
	if r.MovieTitle != "" {
		return r.MovieTitle
	}
	return r.Name
}

func (r *Result) Year() string {
	date := r.ReleaseDate
	if date == "" {
		date = r.FirstAirDate
	}
	if i := strings.IndexByte(date, '-'); i > 0 {
		return date[:i]
	}
	return date
}

func (r *Result) PosterURL() string {
	if r.PosterPath == "" {
		return ""
	}
	return posterBaseURL + r.PosterPath
}

func New(apiKey string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{HTTP: httpClient, BaseURL: defaultBaseURL, apiKey: apiKey}
}

// Search queries tmdb for kind ("movie" or "tv") and returns the first hit.
func (c *Client) Search(ctx context.Context, kind, query string) (*Result, error) {
	if kind != KindMovie && kind != KindTV {
		return nil, fmt.Errorf("tmdb: unknown search kind %q", kind)
	}

	params := url.Values{}
	params.Set("api_key", c.apiKey)
	params.Set("query", query)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.BaseURL+"/search/"+kind+"?"+params.Encode(), nil)
	if err != nil {
		return nil, err
	}
	resp, err := c.HTTP.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("tmdb: status %s", resp.Status)
	}

	var payload struct {
		Results []map[string]any `json:"results"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("tmdb: %w", err)
	}
	if len(payload.Results) == 0 {
		return nil, ErrNoResults
	}

	// tmdb mixes number types across entries, hence the weak decode
	result := &Result{}
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		WeaklyTypedInput: true,
		Result:           result,
	})
	if err != nil {
		return nil, err
	}
	if err := decoder.Decode(payload.Results[0]); err != nil {
		return nil, fmt.Errorf("tmdb: %w", err)
	}
	return result, nil
}
