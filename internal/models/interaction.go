package models

import "time"

const (
	InteractionWatched       = "watched"
	InteractionWantToWatch   = "want_to_watch"
	InteractionNotInterested = "not_interested"
)

// InteractionDoc registra un juicio del usuario sobre un contenido.
// A lo sumo un tipo activo por (identidad, contenido): un upsert con otro
// tipo reemplaza al anterior, y un DELETE lo quita del todo (el "undo"
// vive en el backend, no solo en el estado del cliente).
type InteractionDoc struct {
	Identity  string    `json:"identity" bson:"identity"`
	ContentID string    `json:"content_id" bson:"content_id"`
	Type      string    `json:"interaction_type" bson:"interaction_type"`
	Priority  int       `json:"priority" bson:"priority"`
	Timestamp time.Time `json:"timestamp" bson:"timestamp"`
}

// ValidInteractionType valida el tipo que llega por la API.
func ValidInteractionType(t string) bool {
	switch t {
	case InteractionWatched, InteractionWantToWatch, InteractionNotInterested:
		return true
	}
	return false
}

// InteractionPriority ordena los tipos por fuerza de exclusión.
func InteractionPriority(t string) int {
	switch t {
	case InteractionNotInterested:
		return 3
	case InteractionWatched:
		return 2
	case InteractionWantToWatch:
		return 1
	}
	return 0
}

// Excludes indica si el tipo saca al contenido de todas las superficies
// (voting pair, replacement, recomendaciones). want_to_watch no excluye.
func Excludes(t string) bool {
	return t == InteractionWatched || t == InteractionNotInterested
}
