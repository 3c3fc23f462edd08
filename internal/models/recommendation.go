package models

import "time"

// RecommendationDoc es una fila cacheada por identidad. La regeneración
// reemplaza todo el lote (nunca mezcla filas viejas con nuevas) y dedupea
// por ambas formas de ID antes de escribir.
type RecommendationDoc struct {
	Identity    string    `json:"identity" bson:"identity"`
	ContentID   string    `json:"content_id" bson:"content_id"`
	IMDBID      string    `json:"imdb_id" bson:"imdb_id"`
	Title       string    `json:"title" bson:"title"`
	ContentType string    `json:"content_type" bson:"content_type"`
	Year        string    `json:"year" bson:"year"`
	Genre       string    `json:"genre,omitempty" bson:"genre,omitempty"`
	Poster      string    `json:"poster,omitempty" bson:"poster,omitempty"`
	Rating      string    `json:"rating,omitempty" bson:"rating,omitempty"`
	Score       float64   `json:"score" bson:"score"`
	Reasoning   string    `json:"reasoning" bson:"reasoning"`
	Confidence  float64   `json:"confidence" bson:"confidence"`
	GeneratedAt time.Time `json:"generated_at" bson:"generated_at"`
}

// RecommendationPage es lo que devuelve el listado paginado.
type RecommendationPage struct {
	Items   []RecommendationDoc `json:"items"`
	Offset  int                 `json:"offset"`
	Limit   int                 `json:"limit"`
	HasMore bool                `json:"has_more"`
}
