package service

import (
	"context"
	"time"

	"github.com/jonahkeegan/pairwatch/internal/models"
)

// Interfaces mínimas sobre los repos de Mongo, para poder testear los
// servicios con stores en memoria. Los tipos de internal/repository las
// satisfacen tal cual.

type ContentStore interface {
	Insert(ctx context.Context, item *models.ContentItem) error
	GetByAnyID(ctx context.Context, id string) (*models.ContentItem, error)
	Count(ctx context.Context) (int64, error)
	SampleEligible(ctx context.Context, contentType string, excludeIDs []string, n int) ([]models.ContentItem, error)
	AllEligible(ctx context.Context, excludeIDs []string) ([]models.ContentItem, error)
}

type InteractionStore interface {
	Upsert(ctx context.Context, identity models.Identity, contentID, interactionType string) error
	Delete(ctx context.Context, identity models.Identity, contentID string) (bool, error)
	GetByIdentity(ctx context.Context, identity models.Identity) ([]models.InteractionDoc, error)
	GetExcluding(ctx context.Context, identity models.Identity) ([]models.InteractionDoc, error)
	CountSince(ctx context.Context, identity models.Identity, since time.Time) (int64, error)
}

type VoteStore interface {
	Insert(ctx context.Context, vote *models.VoteDoc) error
	CountByIdentity(ctx context.Context, identity models.Identity) (int64, error)
	CountByIdentityAndType(ctx context.Context, identity models.Identity, contentType string) (int64, error)
	GetAllByIdentity(ctx context.Context, identity models.Identity) ([]models.VoteDoc, error)
}

type SessionStore interface {
	Create(ctx context.Context) (*models.SessionDoc, error)
	FindByID(ctx context.Context, sessionID string) (*models.SessionDoc, error)
	IncrementVoteCount(ctx context.Context, sessionID string) error
}

type RecommendationStore interface {
	ReplaceAll(ctx context.Context, identity models.Identity, docs []models.RecommendationDoc) error
	FindByIdentity(ctx context.Context, identity models.Identity, offset, limit int) ([]models.RecommendationDoc, error)
	DeleteOne(ctx context.Context, identity models.Identity, contentID string) (bool, error)
	LatestGeneratedAt(ctx context.Context, identity models.Identity) (time.Time, bool, error)
	StaleIdentities(ctx context.Context, olderThan time.Time) ([]string, error)
}
