package models

import "time"

// VoteDoc es append-only: nunca se edita ni se borra.
type VoteDoc struct {
	ID          string    `json:"id" bson:"id"`
	Identity    string    `json:"identity" bson:"identity"`
	WinnerID    string    `json:"winner_id" bson:"winner_id"`
	LoserID     string    `json:"loser_id" bson:"loser_id"`
	ContentType string    `json:"content_type" bson:"content_type"`
	CreatedAt   time.Time `json:"created_at" bson:"created_at"`
}
