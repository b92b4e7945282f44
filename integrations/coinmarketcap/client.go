// Package coinmarketcap fetches the public bitcoin ticker.
package coinmarketcap

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	simplejson "github.com/bitly/go-simplejson"
)

const defaultBaseURL = "https://api.coinmarketcap.com/v1/ticker"

type Client struct {
	HTTP    *http.Client
	BaseURL string
}

// Ticker is the slice of the coinmarketcap payload the bot shows. Trend
// fields keep the api's string form ("-2.31") since they are only displayed.
type Ticker struct {
	PriceUSD    string
	Change1h    string
	Change24h   string
	Change7d    string
	LastUpdated time.Time
}

func New(httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{HTTP: httpClient, BaseURL: defaultBaseURL}
}

// Bitcoin fetches the current bitcoin ticker.
func (c *Client) Bitcoin(ctx context.Context) (*Ticker, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.BaseURL+"/bitcoin", nil)
	if err != nil {
		return nil, err
	}
	resp, err := c.HTTP.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("coinmarketcap: status %s", resp.Status)
	}

	js, err := simplejson.NewJson(body)
	if err != nil {
		return nil, fmt.Errorf("coinmarketcap: %w", err)
	}
	first := js.GetIndex(0)

	ticker := &Ticker{
		PriceUSD:  first.Get("price_usd").MustString(),
		Change1h:  first.Get("percent_change_1h").MustString(),
		Change24h: first.Get("percent_change_24h").MustString(),
		Change7d:  first.Get("percent_change_7d").MustString(),
	}
	if ticker.PriceUSD == "" {
		return nil, fmt.Errorf("coinmarketcap: empty ticker payload")
	}
	if raw := first.Get("last_updated").MustString(); raw != "" {
		if unix, err := strconv.ParseInt(raw, 10, 64); err == nil {
			ticker.LastUpdated = time.Unix(unix, 0)
		}
	}
	return ticker, nil
}
