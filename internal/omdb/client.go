package omdb

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"
)

const defaultBaseURL = "http://www.omdbapi.com/"

// ErrNotFound: OMDB respondió pero no encontró el título.
var ErrNotFound = errors.New("omdb: title not found")

type Client struct {
	apiKey  string
	baseURL string
	http    *http.Client
}

func NewClient(apiKey string) *Client {
	return &Client{
		apiKey:  apiKey,
		baseURL: defaultBaseURL,
		http:    &http.Client{Timeout: 10 * time.Second},
	}
}

// Result mapea la respuesta cruda de OMDB (keys con mayúscula inicial).
type Result struct {
	Title      string `json:"Title"`
	Year       string `json:"Year"`
	ImdbID     string `json:"imdbID"`
	Type       string `json:"Type"`
	Genre      string `json:"Genre"`
	ImdbRating string `json:"imdbRating"`
	Poster     string `json:"Poster"`
	Plot       string `json:"Plot"`
	Director   string `json:"Director"`
	Actors     string `json:"Actors"`
	Response   string `json:"Response"`
	Error      string `json:"Error"`
}

// FetchByTitle busca un título exacto. contentType es "movie" o "series".
func (c *Client) FetchByTitle(ctx context.Context, title, contentType string) (*Result, error) {
	q := url.Values{}
	q.Set("apikey", c.apiKey)
	q.Set("t", title)
	q.Set("type", contentType)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+q.Encode(), nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("omdb: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("omdb: status %d", resp.StatusCode)
	}

	var out Result
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("omdb: decodificando respuesta: %w", err)
	}

	// OMDB devuelve 200 con Response="False" cuando no encuentra
	if out.Response == "False" {
		if out.Error != "" {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, out.Error)
		}
		return nil, ErrNotFound
	}
	return &out, nil
}
