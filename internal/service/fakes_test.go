package service

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/jonahkeegan/pairwatch/internal/models"
)

// Stores en memoria para testear los servicios sin Mongo.

type fakeContentStore struct {
	items []models.ContentItem
}

func (f *fakeContentStore) Insert(_ context.Context, item *models.ContentItem) error {
	f.items = append(f.items, *item)
	return nil
}

func (f *fakeContentStore) GetByAnyID(_ context.Context, id string) (*models.ContentItem, error) {
	for i := range f.items {
		if f.items[i].ID == id || f.items[i].IMDBID == id {
			c := f.items[i]
			return &c, nil
		}
	}
	return nil, nil
}

func (f *fakeContentStore) Count(_ context.Context) (int64, error) {
	return int64(len(f.items)), nil
}

func excludedBy(item models.ContentItem, excludeIDs []string) bool {
	for _, id := range excludeIDs {
		if item.ID == id || (item.IMDBID != "" && item.IMDBID == id) {
			return true
		}
	}
	return false
}

func (f *fakeContentStore) SampleEligible(_ context.Context, contentType string, excludeIDs []string, n int) ([]models.ContentItem, error) {
	var out []models.ContentItem
	for _, item := range f.items {
		if contentType != "" && item.ContentType != contentType {
			continue
		}
		if excludedBy(item, excludeIDs) {
			continue
		}
		out = append(out, item)
		if len(out) == n {
			break
		}
	}
	return out, nil
}

func (f *fakeContentStore) AllEligible(_ context.Context, excludeIDs []string) ([]models.ContentItem, error) {
	var out []models.ContentItem
	for _, item := range f.items {
		if !excludedBy(item, excludeIDs) {
			out = append(out, item)
		}
	}
	return out, nil
}

// cheatingContentStore ignora la lista de exclusión: simula el bug
// histórico de un filtro divergente río arriba del selector.
type cheatingContentStore struct {
	fakeContentStore
}

func (f *cheatingContentStore) SampleEligible(ctx context.Context, contentType string, _ []string, n int) ([]models.ContentItem, error) {
	return f.fakeContentStore.SampleEligible(ctx, contentType, nil, n)
}

type fakeInteractionStore struct {
	docs []models.InteractionDoc
	err  error
}

func (f *fakeInteractionStore) Upsert(_ context.Context, identity models.Identity, contentID, interactionType string) error {
	if f.err != nil {
		return f.err
	}
	for i := range f.docs {
		if f.docs[i].Identity == identity.String() && f.docs[i].ContentID == contentID {
			f.docs[i].Type = interactionType
			f.docs[i].Priority = models.InteractionPriority(interactionType)
			f.docs[i].Timestamp = time.Now()
			return nil
		}
	}
	f.docs = append(f.docs, models.InteractionDoc{
		Identity:  identity.String(),
		ContentID: contentID,
		Type:      interactionType,
		Priority:  models.InteractionPriority(interactionType),
		Timestamp: time.Now(),
	})
	return nil
}

func (f *fakeInteractionStore) Delete(_ context.Context, identity models.Identity, contentID string) (bool, error) {
	if f.err != nil {
		return false, f.err
	}
	for i := range f.docs {
		if f.docs[i].Identity == identity.String() && f.docs[i].ContentID == contentID {
			f.docs = append(f.docs[:i], f.docs[i+1:]...)
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeInteractionStore) GetByIdentity(_ context.Context, identity models.Identity) ([]models.InteractionDoc, error) {
	if f.err != nil {
		return nil, f.err
	}
	var out []models.InteractionDoc
	for _, d := range f.docs {
		if d.Identity == identity.String() {
			out = append(out, d)
		}
	}
	return out, nil
}

func (f *fakeInteractionStore) GetExcluding(ctx context.Context, identity models.Identity) ([]models.InteractionDoc, error) {
	all, err := f.GetByIdentity(ctx, identity)
	if err != nil {
		return nil, err
	}
	var out []models.InteractionDoc
	for _, d := range all {
		if models.Excludes(d.Type) {
			out = append(out, d)
		}
	}
	return out, nil
}

func (f *fakeInteractionStore) CountSince(_ context.Context, identity models.Identity, since time.Time) (int64, error) {
	if f.err != nil {
		return 0, f.err
	}
	var n int64
	for _, d := range f.docs {
		if d.Identity == identity.String() && d.Timestamp.After(since) {
			n++
		}
	}
	return n, nil
}

type fakeVoteStore struct {
	votes []models.VoteDoc
}

func (f *fakeVoteStore) Insert(_ context.Context, vote *models.VoteDoc) error {
	if vote.CreatedAt.IsZero() {
		vote.CreatedAt = time.Now()
	}
	f.votes = append(f.votes, *vote)
	return nil
}

func (f *fakeVoteStore) CountByIdentity(_ context.Context, identity models.Identity) (int64, error) {
	var n int64
	for _, v := range f.votes {
		if v.Identity == identity.String() {
			n++
		}
	}
	return n, nil
}

func (f *fakeVoteStore) CountByIdentityAndType(_ context.Context, identity models.Identity, contentType string) (int64, error) {
	var n int64
	for _, v := range f.votes {
		if v.Identity == identity.String() && v.ContentType == contentType {
			n++
		}
	}
	return n, nil
}

func (f *fakeVoteStore) GetAllByIdentity(_ context.Context, identity models.Identity) ([]models.VoteDoc, error) {
	var out []models.VoteDoc
	for _, v := range f.votes {
		if v.Identity == identity.String() {
			out = append(out, v)
		}
	}
	return out, nil
}

type fakeSessionStore struct {
	sessions map[string]*models.SessionDoc
}

func newFakeSessionStore() *fakeSessionStore {
	return &fakeSessionStore{sessions: map[string]*models.SessionDoc{}}
}

func (f *fakeSessionStore) Create(_ context.Context) (*models.SessionDoc, error) {
	s := &models.SessionDoc{SessionID: "sess-1", CreatedAt: time.Now()}
	f.sessions[s.SessionID] = s
	return s, nil
}

func (f *fakeSessionStore) FindByID(_ context.Context, sessionID string) (*models.SessionDoc, error) {
	return f.sessions[sessionID], nil
}

func (f *fakeSessionStore) IncrementVoteCount(_ context.Context, sessionID string) error {
	if s, ok := f.sessions[sessionID]; ok {
		s.VoteCount++
	}
	return nil
}

type fakeRecStore struct {
	docs map[string][]models.RecommendationDoc
}

func newFakeRecStore() *fakeRecStore {
	return &fakeRecStore{docs: map[string][]models.RecommendationDoc{}}
}

func (f *fakeRecStore) ReplaceAll(_ context.Context, identity models.Identity, docs []models.RecommendationDoc) error {
	cp := make([]models.RecommendationDoc, len(docs))
	copy(cp, docs)
	f.docs[identity.String()] = cp
	return nil
}

func (f *fakeRecStore) FindByIdentity(_ context.Context, identity models.Identity, offset, limit int) ([]models.RecommendationDoc, error) {
	rows := make([]models.RecommendationDoc, len(f.docs[identity.String()]))
	copy(rows, f.docs[identity.String()])
	sort.SliceStable(rows, func(i, j int) bool {
		if rows[i].Score != rows[j].Score {
			return rows[i].Score > rows[j].Score
		}
		return rows[i].GeneratedAt.After(rows[j].GeneratedAt)
	})
	if offset >= len(rows) {
		return nil, nil
	}
	rows = rows[offset:]
	if len(rows) > limit {
		rows = rows[:limit]
	}
	return rows, nil
}

func (f *fakeRecStore) DeleteOne(_ context.Context, identity models.Identity, contentID string) (bool, error) {
	rows := f.docs[identity.String()]
	for i, row := range rows {
		if row.ContentID == contentID || row.IMDBID == contentID {
			f.docs[identity.String()] = append(rows[:i], rows[i+1:]...)
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeRecStore) LatestGeneratedAt(_ context.Context, identity models.Identity) (time.Time, bool, error) {
	rows := f.docs[identity.String()]
	if len(rows) == 0 {
		return time.Time{}, false, nil
	}
	latest := rows[0].GeneratedAt
	for _, row := range rows[1:] {
		if row.GeneratedAt.After(latest) {
			latest = row.GeneratedAt
		}
	}
	return latest, true, nil
}

func (f *fakeRecStore) StaleIdentities(_ context.Context, olderThan time.Time) ([]string, error) {
	var out []string
	for id, rows := range f.docs {
		for _, row := range rows {
			if row.GeneratedAt.Before(olderThan) {
				out = append(out, id)
				break
			}
		}
	}
	return out, nil
}

// countingRegen cuenta corridas de regeneración; block permite simular una
// corrida en vuelo para los tests de coalescing.
type countingRegen struct {
	mu    sync.Mutex
	runs  int
	block chan struct{}
}

func (c *countingRegen) Regenerate(_ context.Context, _ models.Identity) error {
	if c.block != nil {
		<-c.block
	}
	c.mu.Lock()
	c.runs++
	c.mu.Unlock()
	return nil
}

func (c *countingRegen) count() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.runs
}
