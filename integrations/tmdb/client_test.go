package tmdb

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSearchMovie(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/search/movie", r.URL.Path)
		assert.Equal(t, "k", r.URL.Query().Get("api_key"))
		assert.Equal(t, "blade runner", r.URL.Query().Get("query"))
		_, _ = w.Write([]byte(`{"results":[{
			"title": "Blade Runner",
			"release_date": "1982-06-25",
			"overview": "A blade runner must pursue replicants.",
			"vote_average": 7.9,
			"poster_path": "/p.jpg"
		}]}`))
	}))
	defer server.Close()

	client := New("k", nil)
	client.BaseURL = server.URL

	result, err := client.Search(context.Background(), KindMovie, "blade runner")
	require.NoError(t, err)
	assert.Equal(t, "Blade Runner", result.Title())
	assert.Equal(t, "1982", result.Year())
	assert.InDelta(t, 7.9, result.VoteAverage, 0.001)
	assert.Equal(t, posterBaseURL+"/p.jpg", result.PosterURL())
}

func TestSearchTV(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/search/tv", r.URL.Path)
		// vote_average as int exercises the weak decode
		_, _ = w.Write([]byte(`{"results":[{
			"name": "The Wire",
			"first_air_date": "2002-06-02",
			"overview": "Baltimore.",
			"vote_average": 8
		}]}`))
	}))
	defer server.Close()

	client := New("k", nil)
	client.BaseURL = server.URL

	result, err := client.Search(context.Background(), KindTV, "the wire")
	require.NoError(t, err)
	assert.Equal(t, "The Wire", result.Title())
	assert.Equal(t, "2002", result.Year())
	assert.InDelta(t, 8.0, result.VoteAverage, 0.001)
	assert.Equal(t, "", result.PosterURL())
}

func TestSearchNoResults(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"results":[]}`))
	}))
	defer server.Close()

	client := New("k", nil)
	client.BaseURL = server.URL

	_, err := client.Search(context.Background(), KindMovie, "nothing")
	assert.ErrorIs(t, err, ErrNoResults)
}

func TestSearchUnknownKind(t *testing.T) {
	client := New("k", nil)
	_, err := client.Search(context.Background(), "book", "dune")
	assert.Error(t, err)
}
