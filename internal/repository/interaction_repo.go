package repository

import (
	"context"
	"time"

	"github.com/jonahkeegan/pairwatch/internal/db"
	"github.com/jonahkeegan/pairwatch/internal/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type InteractionRepository struct {
	col *mongo.Collection
}

func NewInteractionRepository() *InteractionRepository {
	return &InteractionRepository{col: db.DB().Collection("interactions")}
}

// Upsert deja a lo sumo una interacción activa por (identidad, contenido):
// setear un tipo nuevo pisa al anterior.
func (r *InteractionRepository) Upsert(ctx context.Context, identity models.Identity, contentID, interactionType string) error {
	_, err := r.col.UpdateOne(ctx,
		bson.M{"identity": identity.String(), "content_id": contentID},
		bson.M{"$set": bson.M{
			"interaction_type": interactionType,
			"priority":         models.InteractionPriority(interactionType),
			"timestamp":        time.Now().UTC(),
		}},
		options.Update().SetUpsert(true),
	)
	return err
}

// Delete borra la interacción (el undo durable del frontend).
func (r *InteractionRepository) Delete(ctx context.Context, identity models.Identity, contentID string) (bool, error) {
	res, err := r.col.DeleteOne(ctx, bson.M{
		"identity":   identity.String(),
		"content_id": contentID,
	})
	if err != nil {
		return false, err
	}
	return res.DeletedCount > 0, nil
}

func (r *InteractionRepository) GetByIdentity(ctx context.Context, identity models.Identity) ([]models.InteractionDoc, error) {
	return r.find(ctx, bson.M{"identity": identity.String()})
}

// GetExcluding devuelve solo las interacciones que excluyen contenido
// (watched y not_interested; want_to_watch no cuenta).
func (r *InteractionRepository) GetExcluding(ctx context.Context, identity models.Identity) ([]models.InteractionDoc, error) {
	return r.find(ctx, bson.M{
		"identity": identity.String(),
		"interaction_type": bson.M{"$in": []string{
			models.InteractionWatched,
			models.InteractionNotInterested,
		}},
	})
}

func (r *InteractionRepository) CountSince(ctx context.Context, identity models.Identity, since time.Time) (int64, error) {
	return r.col.CountDocuments(ctx, bson.M{
		"identity":  identity.String(),
		"timestamp": bson.M{"$gt": since},
	})
}

func (r *InteractionRepository) find(ctx context.Context, filter bson.M) ([]models.InteractionDoc, error) {
	cur, err := r.col.Find(ctx, filter)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []models.InteractionDoc
	for cur.Next(ctx) {
		var doc models.InteractionDoc
		if err := cur.Decode(&doc); err != nil {
			return nil, err
		}
		out = append(out, doc)
	}
	return out, cur.Err()
}
