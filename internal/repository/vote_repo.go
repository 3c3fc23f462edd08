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

type VoteRepository struct {
	col *mongo.Collection
}

func NewVoteRepository() *VoteRepository {
	return &VoteRepository{col: db.DB().Collection("votes")}
}

func (r *VoteRepository) Insert(ctx context.Context, vote *models.VoteDoc) error {
	if vote.ID == "" {
		vote.ID = uuid.NewString()
	}
	if vote.CreatedAt.IsZero() {
		vote.CreatedAt = time.Now().UTC()
	}
	_, err := r.col.InsertOne(ctx, vote)
	return err
}

func (r *VoteRepository) CountByIdentity(ctx context.Context, identity models.Identity) (int64, error) {
	return r.col.CountDocuments(ctx, bson.M{"identity": identity.String()})
}

func (r *VoteRepository) CountByIdentityAndType(ctx context.Context, identity models.Identity, contentType string) (int64, error) {
	return r.col.CountDocuments(ctx, bson.M{
		"identity":     identity.String(),
		"content_type": contentType,
	})
}

func (r *VoteRepository) GetAllByIdentity(ctx context.Context, identity models.Identity) ([]models.VoteDoc, error) {
	cur, err := r.col.Find(ctx, bson.M{"identity": identity.String()})
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []models.VoteDoc
	for cur.Next(ctx) {
		var v models.VoteDoc
		if err := cur.Decode(&v); err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, cur.Err()
}
