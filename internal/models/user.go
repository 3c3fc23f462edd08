package models

type UserDoc struct {
	UserID       int    `json:"user_id" bson:"user_id"`
	Email        string `json:"email" bson:"email"`
	PasswordHash string `json:"-" bson:"password_hash"`
	Role         string `json:"role" bson:"role"`
	CreatedAt    string `json:"created_at" bson:"created_at"`
}
