package repository

import (
	"context"
	"time"

	"github.com/jonahkeegan/pairwatch/internal/db"
	"github.com/jonahkeegan/pairwatch/internal/models"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

type SessionRepository struct {
	col *mongo.Collection
}

func NewSessionRepository() *SessionRepository {
	return &SessionRepository{col: db.DB().Collection("sessions")}
}

func (r *SessionRepository) Create(ctx context.Context) (*models.SessionDoc, error) {
	s := &models.SessionDoc{
		SessionID: uuid.NewString(),
		VoteCount: 0,
		CreatedAt: time.Now().UTC(),
	}
	if _, err := r.col.InsertOne(ctx, s); err != nil {
		return nil, err
	}
	return s, nil
}

func (r *SessionRepository) FindByID(ctx context.Context, sessionID string) (*models.SessionDoc, error) {
	var s models.SessionDoc
	err := r.col.FindOne(ctx, bson.M{"session_id": sessionID}).Decode(&s)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *SessionRepository) IncrementVoteCount(ctx context.Context, sessionID string) error {
	_, err := r.col.UpdateOne(ctx,
		bson.M{"session_id": sessionID},
		bson.M{"$inc": bson.M{"vote_count": 1}},
	)
	return err
}
