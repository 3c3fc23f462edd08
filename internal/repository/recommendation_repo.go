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

type RecommendationRepository struct {
	col *mongo.Collection
}

func NewRecommendationRepository() *RecommendationRepository {
	return &RecommendationRepository{col: db.DB().Collection("recommendations")}
}

// ReplaceAll pisa el lote completo de la identidad: nunca queda una mezcla
// de filas viejas y nuevas.
func (r *RecommendationRepository) ReplaceAll(ctx context.Context, identity models.Identity, docs []models.RecommendationDoc) error {
	if _, err := r.col.DeleteMany(ctx, bson.M{"identity": identity.String()}); err != nil {
		return err
	}
	if len(docs) == 0 {
		return nil
	}

	rows := make([]any, 0, len(docs))
	for i := range docs {
		rows = append(rows, docs[i])
	}
	_, err := r.col.InsertMany(ctx, rows)
	return err
}

// FindByIdentity lista en orden estable: score descendente, luego
// generated_at descendente. Pide limit+1 para calcular has_more.
func (r *RecommendationRepository) FindByIdentity(ctx context.Context, identity models.Identity, offset, limit int) ([]models.RecommendationDoc, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "score", Value: -1}, {Key: "generated_at", Value: -1}}).
		SetSkip(int64(offset)).
		SetLimit(int64(limit))

	cur, err := r.col.Find(ctx, bson.M{"identity": identity.String()}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []models.RecommendationDoc
	for cur.Next(ctx) {
		var doc models.RecommendationDoc
		if err := cur.Decode(&doc); err != nil {
			return nil, err
		}
		out = append(out, doc)
	}
	return out, cur.Err()
}

// DeleteOne borra una fila por cualquiera de las dos formas de ID.
// No toca la interacción subyacente.
func (r *RecommendationRepository) DeleteOne(ctx context.Context, identity models.Identity, contentID string) (bool, error) {
	res, err := r.col.DeleteOne(ctx, bson.M{
		"identity": identity.String(),
		"$or":      []bson.M{{"content_id": contentID}, {"imdb_id": contentID}},
	})
	if err != nil {
		return false, err
	}
	return res.DeletedCount > 0, nil
}

// LatestGeneratedAt devuelve el generated_at del lote vigente (ok=false si
// la identidad no tiene recomendaciones guardadas).
func (r *RecommendationRepository) LatestGeneratedAt(ctx context.Context, identity models.Identity) (time.Time, bool, error) {
	opts := options.FindOne().SetSort(bson.D{{Key: "generated_at", Value: -1}})
	var doc models.RecommendationDoc
	err := r.col.FindOne(ctx, bson.M{"identity": identity.String()}, opts).Decode(&doc)
	if err == mongo.ErrNoDocuments {
		return time.Time{}, false, nil
	}
	if err != nil {
		return time.Time{}, false, err
	}
	return doc.GeneratedAt, true, nil
}

// StaleIdentities lista identidades cuyo lote es anterior a `olderThan`
// (las barre el cron para disparar el refresh por decaimiento temporal).
func (r *RecommendationRepository) StaleIdentities(ctx context.Context, olderThan time.Time) ([]string, error) {
	vals, err := r.col.Distinct(ctx, "identity", bson.M{
		"generated_at": bson.M{"$lt": olderThan},
	})
	if err != nil {
		return nil, err
	}

	out := make([]string, 0, len(vals))
	for _, v := range vals {
		if s, ok := v.(string); ok {
			out = append(out, s)
		}
	}
	return out, nil
}
