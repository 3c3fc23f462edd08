package omdb

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testClient(srv *httptest.Server) *Client {
	c := NewClient("test-key")
	c.baseURL = srv.URL + "/"
	c.http = srv.Client()
	return c
}

func TestFetchByTitle(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "test-key", r.URL.Query().Get("apikey"))
		assert.Equal(t, "Heat", r.URL.Query().Get("t"))
		assert.Equal(t, "movie", r.URL.Query().Get("type"))

		w.Write([]byte(`{
			"Title": "Heat", "Year": "1995", "imdbID": "tt0113277",
			"Type": "movie", "Genre": "Crime, Drama",
			"imdbRating": "8.3", "Poster": "N/A", "Response": "True"
		}`))
	}))
	defer srv.Close()

	res, err := testClient(srv).FetchByTitle(context.Background(), "Heat", "movie")
	require.NoError(t, err)
	assert.Equal(t, "tt0113277", res.ImdbID)
	assert.Equal(t, "1995", res.Year)
	assert.Equal(t, "N/A", res.Poster)
}

func TestFetchByTitleNotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// OMDB devuelve 200 con Response="False" cuando no encuentra
		w.Write([]byte(`{"Response": "False", "Error": "Movie not found!"}`))
	}))
	defer srv.Close()

	_, err := testClient(srv).FetchByTitle(context.Background(), "No Existe", "movie")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestFetchByTitleServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	_, err := testClient(srv).FetchByTitle(context.Background(), "Heat", "movie")
	assert.Error(t, err)
	assert.NotErrorIs(t, err, ErrNotFound)
}
