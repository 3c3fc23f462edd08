package models

import "time"

const (
	ContentTypeMovie  = "movie"
	ContentTypeSeries = "series"
)

// ContentItem puede ser referenciado por su id interno o por su imdb_id;
// cualquier chequeo de exclusión tiene que matchear por ambos.
type ContentItem struct {
	ID          string    `json:"id" bson:"id"`
	IMDBID      string    `json:"imdb_id" bson:"imdb_id"`
	Title       string    `json:"title" bson:"title"`
	Year        string    `json:"year" bson:"year"`
	ContentType string    `json:"content_type" bson:"content_type"`
	Genre       string    `json:"genre" bson:"genre"`
	Rating      string    `json:"rating,omitempty" bson:"rating,omitempty"`
	Poster      string    `json:"poster,omitempty" bson:"poster,omitempty"`
	Plot        string    `json:"plot,omitempty" bson:"plot,omitempty"`
	Director    string    `json:"director,omitempty" bson:"director,omitempty"`
	Actors      string    `json:"actors,omitempty" bson:"actors,omitempty"`
	CreatedAt   time.Time `json:"created_at" bson:"created_at"`
}

// VotePair se arma fresco por request, nunca se persiste.
type VotePair struct {
	Item1       ContentItem `json:"item1"`
	Item2       ContentItem `json:"item2"`
	ContentType string      `json:"content_type"`
}
