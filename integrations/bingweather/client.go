// Package bingweather scrapes the weather answer box from a bing search.
// There is no api key: the old IE user agent makes bing serve a simple page
// with stable wtr_* class names.
package bingweather

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

const defaultBaseURL = "http://bing.com/search"

// Old IE headers give an easier page to scrape.
const userAgent = "Mozilla/4.0 (compatible; MSIE 8.0; Windows NT 6.1; Trident/4.0; GTB6.5; SLCC2; " +
	".NET CLR 2.0.50727; .NET CLR 3.5.30729; .NET CLR 3.0.30729; Media Center PC 6.0; .NET4.0C; TheWorld)"

// ErrNoWeather is returned when the page has no weather answer box, which
// is what an unknown location looks like.
var ErrNoWeather = errors.New("bingweather: no weather box on page")

var usStates = map[string]bool{
	"Alabama": true, "Alaska": true, "Arizona": true, "Arkansas": true, "California": true,
	"Colorado": true, "Connecticut": true, "Delaware": true, "Florida": true, "Georgia": true,
	"Hawaii": true, "Idaho": true, "Illinois": true, "Indiana": true, "Iowa": true,
	"Kansas": true, "Kentucky": true, "Louisiana": true, "Maine": true, "Maryland": true,
	"Massachusetts": true, "Michigan": true, "Minnesota": true, "Mississippi": true,
	"Missouri": true, "Montana": true, "Nebraska": true, "Nevada": true, "Hampshire": true,
	"Jersey": true, "Mexico": true, "York": true, "Carolina": true, "Dakota": true,
	"Ohio": true, "Oklahoma": true, "Oregon": true, "Pennsylvania": true, "Island": true,
	"Tennessee": true, "Texas": true, "Utah": true, "Vermont": true, "Virginia": true,
	"Washington": true, "Wisconsin": true, "Wyoming": true,
}

// Report is the parsed weather box. Values are Fahrenheit/MPH as served;
// ToCelsius converts in place for non US locations.
type Report struct {
	Location   string   `json:"loc"`
	Temp       int      `json:"temp"`
	Precip     string   `json:"precip"`
	ImgURL     string   `json:"img_url"`
	Conditions string   `json:"curr_cond"`
	Wind       int      `json:"wind"`
	Humidity   string   `json:"humidity"`
	Forecast   []string `json:"forecast"`
	// NeedsConversion is true when the location does not look like a US
	// state, so the embed should show metric units.
	NeedsConversion bool `json:"needs_conversion"`
}

// ToCelsius converts temperature to C and wind to m/s.
func (r *Report) ToCelsius() {
	r.Temp = int(float64(r.Temp-32) * 5 / 9)
	r.Wind = int(float64(r.Wind) * 0.44704)
}

type Client struct {
	HTTP    *http.Client
	BaseURL string
}

func New(httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{HTTP: httpClient, BaseURL: defaultBaseURL}
}

// Fetch searches bing for the location's weather and parses the answer box.
func (c *Client) Fetch(ctx context.Context, location string) (*Report, error) {
	params := url.Values{}
	params.Set("q", "weather "+location)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.BaseURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("bingweather: status %s", resp.Status)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, err
	}
	return Parse(doc)
}

// Parse extracts the weather box from a bing result page.
func Parse(doc *goquery.Document) (*Report, error) {
	loc := doc.Find("div.wtr_locTitle").First().Text()
	if loc == "" {
		return nil, ErrNoWeather
	}

	report := &Report{
		Location:   loc,
		Precip:     afterColon(doc.Find("div.wtr_currPerci").First().Text()),
		Conditions: doc.Find("div.wtr_caption").First().Text(),
		Humidity:   afterColon(doc.Find("div.wtr_currHumi").First().Text()),
	}
	report.ImgURL, _ = doc.Find("img.wtr_currImg").First().Attr("src")

	temp, err := strconv.Atoi(strings.TrimSpace(doc.Find("div.wtr_currTemp").First().Text()))
	if err != nil {
		return nil, fmt.Errorf("bingweather: temperature: %w", err)
	}
	report.Temp = temp

	windFields := strings.Fields(afterColon(doc.Find("div.wtr_currWind").First().Text()))
	if len(windFields) > 0 {
		report.Wind, _ = strconv.Atoi(windFields[0])
	}

	doc.Find("div.wtr_forecastDay").Each(func(_ int, s *goquery.Selection) {
		if label, ok := s.Attr("aria-label"); ok {
			report.Forecast = append(report.Forecast, label)
		}
	})

	report.NeedsConversion = true
	for _, word := range strings.Fields(loc) {
		if usStates[strings.Trim(word, ",")] {
			report.NeedsConversion = false
			break
		}
	}
	return report, nil
}

func afterColon(s string) string {
	parts := strings.Split(s, ": ")
	return parts[len(parts)-1]
}
