package bingweather

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const pageFixture = `<html><body>
<div class="wtr_locTitle">Manchester, England, United Kingdom</div>
<div class="wtr_currTemp">54</div>
<div class="wtr_currPerci">Precipitation: 80%</div>
<img class="wtr_currImg" src="https://example.com/rain.png">
<div class="wtr_caption">Light rain</div>
<div class="wtr_currWind">Wind: 12 mph</div>
<div class="wtr_currHumi">Humidity: 88%</div>
<div class="wtr_forecastDay" aria-label="Saturday 56° 48° Rain"></div>
<div class="wtr_forecastDay" aria-label="Sunday 58° 49° Cloudy"></div>
</body></html>`

const usPageFixture = `<html><body>
<div class="wtr_locTitle">Austin, Texas</div>
<div class="wtr_currTemp">95</div>
<div class="wtr_currPerci">Precipitation: 0%</div>
<img class="wtr_currImg" src="https://example.com/sun.png">
<div class="wtr_caption">Sunny</div>
<div class="wtr_currWind">Wind: 5 mph</div>
<div class="wtr_currHumi">Humidity: 40%</div>
</body></html>`

func parseFixture(t *testing.T, html string) *Report {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	require.NoError(t, err)
	report, err := Parse(doc)
	require.NoError(t, err)
	return report
}

func TestParse(t *testing.T) {
	report := parseFixture(t, pageFixture)
	assert.Equal(t, "Manchester, England, United Kingdom", report.Location)
	assert.Equal(t, 54, report.Temp)
	assert.Equal(t, "80%", report.Precip)
	assert.Equal(t, "https://example.com/rain.png", report.ImgURL)
	assert.Equal(t, "Light rain", report.Conditions)
	assert.Equal(t, 12, report.Wind)
	assert.Equal(t, "88%", report.Humidity)
	assert.Len(t, report.Forecast, 2)
	assert.True(t, report.NeedsConversion, "non US location shows metric")
}

func TestParseUSLocation(t *testing.T) {
	report := parseFixture(t, usPageFixture)
	assert.False(t, report.NeedsConversion)
}

func TestToCelsius(t *testing.T) {
	report := parseFixture(t, pageFixture)
	report.ToCelsius()
	assert.Equal(t, 12, report.Temp, "54F is 12C")
	assert.Equal(t, 5, report.Wind, "12mph is 5 m/s")
}

func TestParseNoWeatherBox(t *testing.T) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader("<html><body>nothing</body></html>"))
	require.NoError(t, err)
	_, err = Parse(doc)
	assert.ErrorIs(t, err, ErrNoWeather)
}

func TestFetch(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Contains(t, r.URL.Query().Get("q"), "weather ")
		assert.Contains(t, r.Header.Get("User-Agent"), "MSIE 8.0")
		_, _ = w.Write([]byte(pageFixture))
	}))
	defer server.Close()

	client := New(nil)
	client.BaseURL = server.URL

	report, err := client.Fetch(context.Background(), "manchester")
	require.NoError(t, err)
	assert.Equal(t, 54, report.Temp)
}
