package service

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/jonahkeegan/pairwatch/internal/cache"
	"github.com/jonahkeegan/pairwatch/internal/models"
	"github.com/jonahkeegan/pairwatch/internal/omdb"

	"github.com/google/uuid"
)

// títulos semilla para arrancar el catálogo (acotados para no quemar la
// cuota de OMDB en el primer arranque)
var popularMovies = []string{
	"The Shawshank Redemption", "The Godfather", "The Dark Knight", "Pulp Fiction",
	"Forrest Gump", "Inception", "The Matrix", "Goodfellas", "The Silence of the Lambs",
	"Se7en", "Saving Private Ryan", "Interstellar", "The Departed", "The Prestige",
	"Fight Club",
}

var popularSeries = []string{
	"Breaking Bad", "Game of Thrones", "The Sopranos", "The Wire", "Friends",
	"The Office", "Stranger Things", "The Crown", "Sherlock", "True Detective",
	"House of Cards", "Narcos", "Black Mirror", "Westworld", "The Mandalorian",
}

type CatalogService struct {
	content ContentStore
	omdb    *omdb.Client
}

func NewCatalogService(content ContentStore, omdbClient *omdb.Client) *CatalogService {
	return &CatalogService{content: content, omdb: omdbClient}
}

type SeedResult struct {
	Movies  int      `json:"movies"`
	Series  int      `json:"series"`
	Errors  []string `json:"errors,omitempty"`
	Message string   `json:"message,omitempty"`
}

// InitializeContent siembra el catálogo desde OMDB. Si ya hay contenido no
// vuelve a sembrar.
func (s *CatalogService) InitializeContent(ctx context.Context) (*SeedResult, error) {
	existing, err := s.content.Count(ctx)
	if err != nil {
		return nil, err
	}
	if existing > 0 {
		return &SeedResult{
			Message: fmt.Sprintf("content already initialized with %d items", existing),
		}, nil
	}

	out := &SeedResult{}
	for _, title := range popularMovies {
		if err := s.fetchAndStore(ctx, title, models.ContentTypeMovie); err != nil {
			out.Errors = append(out.Errors, fmt.Sprintf("movie %s: %v", title, err))
			continue
		}
		out.Movies++
	}
	for _, title := range popularSeries {
		if err := s.fetchAndStore(ctx, title, models.ContentTypeSeries); err != nil {
			out.Errors = append(out.Errors, fmt.Sprintf("series %s: %v", title, err))
			continue
		}
		out.Series++
	}

	log.Printf("[catalog] seed: %d películas, %d series, %d errores", out.Movies, out.Series, len(out.Errors))
	return out, nil
}

func (s *CatalogService) fetchAndStore(ctx context.Context, title, contentType string) error {
	res, err := s.omdb.FetchByTitle(ctx, title, contentType)
	if err != nil {
		return err
	}

	ct := models.ContentTypeSeries
	if res.Type == "movie" {
		ct = models.ContentTypeMovie
	}

	item := &models.ContentItem{
		ID:          uuid.NewString(),
		IMDBID:      res.ImdbID,
		Title:       res.Title,
		Year:        res.Year,
		ContentType: ct,
		Genre:       res.Genre,
		Plot:        res.Plot,
		Director:    res.Director,
		Actors:      res.Actors,
	}
	if res.ImdbRating != "" && res.ImdbRating != "N/A" {
		item.Rating = res.ImdbRating
	}
	if res.Poster != "" && res.Poster != "N/A" {
		item.Poster = res.Poster
	}

	return s.content.Insert(ctx, item)
}

// GetContent busca por cualquiera de las dos formas de ID, con cache.
func (s *CatalogService) GetContent(ctx context.Context, id string) (*models.ContentItem, error) {
	cacheKey := "content:" + id

	var cached models.ContentItem
	if ok, err := cache.GetJSON(ctx, cacheKey, &cached); err == nil && ok {
		return &cached, nil
	}

	item, err := s.content.GetByAnyID(ctx, id)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, fmt.Errorf("%w: content %s", ErrNotFound, id)
	}

	if err := cache.SetJSON(ctx, cacheKey, item, 3600); err != nil {
		log.Printf("[catalog] cacheando %s: %v", id, err)
	}
	return item, nil
}

// IsOMDBNotFound distingue "no existe en OMDB" de fallas del upstream.
func IsOMDBNotFound(err error) bool {
	return errors.Is(err, omdb.ErrNotFound)
}
