package repository

import (
	"context"
	"time"

	"github.com/jonahkeegan/pairwatch/internal/db"
	"github.com/jonahkeegan/pairwatch/internal/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

type ContentRepository struct {
	col *mongo.Collection
}

func NewContentRepository() *ContentRepository {
	return &ContentRepository{col: db.DB().Collection("content")}
}

func (r *ContentRepository) Insert(ctx context.Context, item *models.ContentItem) error {
	if item.CreatedAt.IsZero() {
		item.CreatedAt = time.Now().UTC()
	}
	_, err := r.col.InsertOne(ctx, item)
	return err
}

// GetByAnyID busca por id interno o imdb_id, indistintamente.
func (r *ContentRepository) GetByAnyID(ctx context.Context, id string) (*models.ContentItem, error) {
	var item models.ContentItem
	err := r.col.FindOne(ctx, bson.M{
		"$or": []bson.M{{"id": id}, {"imdb_id": id}},
	}).Decode(&item)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *ContentRepository) Count(ctx context.Context) (int64, error) {
	return r.col.CountDocuments(ctx, bson.M{})
}

// SampleEligible devuelve hasta n ítems al azar del tipo pedido, excluyendo
// por AMBAS formas de ID: un documento queda afuera si su id interno O su
// imdb_id aparece en la lista. contentType vacío = cualquier tipo.
func (r *ContentRepository) SampleEligible(ctx context.Context, contentType string, excludeIDs []string, n int) ([]models.ContentItem, error) {
	match := bson.M{}
	if contentType != "" {
		match["content_type"] = contentType
	}
	if len(excludeIDs) > 0 {
		match["id"] = bson.M{"$nin": excludeIDs}
		match["imdb_id"] = bson.M{"$nin": excludeIDs}
	}

	pipeline := mongo.Pipeline{
		bson.D{{Key: "$match", Value: match}},
		bson.D{{Key: "$sample", Value: bson.M{"size": n}}},
	}

	cur, err := r.col.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []models.ContentItem
	for cur.Next(ctx) {
		var item models.ContentItem
		if err := cur.Decode(&item); err != nil {
			return nil, err
		}
		out = append(out, item)
	}
	return out, cur.Err()
}

// AllEligible lista todo lo no excluido de un tipo (lo usa el generador).
func (r *ContentRepository) AllEligible(ctx context.Context, excludeIDs []string) ([]models.ContentItem, error) {
	filter := bson.M{}
	if len(excludeIDs) > 0 {
		filter["id"] = bson.M{"$nin": excludeIDs}
		filter["imdb_id"] = bson.M{"$nin": excludeIDs}
	}

	cur, err := r.col.Find(ctx, filter)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []models.ContentItem
	for cur.Next(ctx) {
		var item models.ContentItem
		if err := cur.Decode(&item); err != nil {
			return nil, err
		}
		out = append(out, item)
	}
	return out, cur.Err()
}
