package models

import "time"

// SessionDoc representa a un invitado: estado efímero, keyed por session_id.
type SessionDoc struct {
	SessionID string    `json:"session_id" bson:"session_id"`
	VoteCount int       `json:"vote_count" bson:"vote_count"`
	CreatedAt time.Time `json:"created_at" bson:"created_at"`
}
