package service

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/jonahkeegan/pairwatch/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recommendFixture struct {
	svc          *RecommendService
	content      *fakeContentStore
	interactions *fakeInteractionStore
	votes        *fakeVoteStore
	recs         *fakeRecStore
}

func newRecommendFixture(items []models.ContentItem) *recommendFixture {
	f := &recommendFixture{
		content:      &fakeContentStore{items: items},
		interactions: &fakeInteractionStore{},
		votes:        &fakeVoteStore{},
		recs:         newFakeRecStore(),
	}
	excl := NewExclusionService(f.interactions, f.content)
	f.svc = NewRecommendService(f.recs, f.content, f.interactions, f.votes, excl)
	return f
}

// seedVotes agrega n votos reales entre los dos primeros ítems del catálogo.
func (f *recommendFixture) seedVotes(identity models.Identity, n int) {
	for i := 0; i < n; i++ {
		f.votes.votes = append(f.votes.votes, models.VoteDoc{
			Identity:    identity.String(),
			WinnerID:    f.content.items[0].ID,
			LoserID:     f.content.items[1].ID,
			ContentType: models.ContentTypeMovie,
		})
	}
}

func bigCatalog(n int) []models.ContentItem {
	items := make([]models.ContentItem, 0, n)
	for i := 0; i < n; i++ {
		items = append(items, models.ContentItem{
			ID:          fmt.Sprintf("c%d", i),
			IMDBID:      fmt.Sprintf("tt%04d", i),
			Title:       fmt.Sprintf("Title %d", i),
			Year:        "2018",
			Genre:       "Drama, Thriller",
			Rating:      "7.5",
			ContentType: models.ContentTypeMovie,
		})
	}
	return items
}

func TestRegenerateBelowThresholdIsNoop(t *testing.T) {
	ctx := context.Background()
	identity := models.GuestIdentity("s1")
	f := newRecommendFixture(bigCatalog(20))
	f.seedVotes(identity, 5)

	require.NoError(t, f.svc.Regenerate(ctx, identity))
	assert.Empty(t, f.recs.docs[identity.String()])
}

func TestRegenerateReplacesWholeBatch(t *testing.T) {
	ctx := context.Background()
	identity := models.GuestIdentity("s1")
	f := newRecommendFixture(bigCatalog(30))
	f.seedVotes(identity, 10)

	require.NoError(t, f.svc.Regenerate(ctx, identity))
	first := f.recs.docs[identity.String()]
	require.Len(t, first, recommendationBatchSize)

	// regenerar dos veces nunca acumula: reemplazo total, no append
	require.NoError(t, f.svc.Regenerate(ctx, identity))
	second := f.recs.docs[identity.String()]
	assert.Len(t, second, recommendationBatchSize)

	seen := map[string]struct{}{}
	for _, row := range second {
		_, dupID := seen[row.ContentID]
		_, dupIMDB := seen[row.IMDBID]
		assert.False(t, dupID || dupIMDB, "fila duplicada: %s", row.Title)
		seen[row.ContentID] = struct{}{}
		seen[row.IMDBID] = struct{}{}
	}
}

func TestRegenerateDedupsByTitleAndYear(t *testing.T) {
	ctx := context.Background()
	identity := models.GuestIdentity("s1")

	// misma película cargada dos veces con ids distintos (carga repetida
	// desde OMDB): al lote entra una sola
	items := bigCatalog(12)
	items = append(items, models.ContentItem{
		ID:          "dup",
		IMDBID:      "tt9999",
		Title:       "Title 3",
		Year:        "2018",
		Genre:       "Drama",
		ContentType: models.ContentTypeMovie,
	})
	f := newRecommendFixture(items)
	f.seedVotes(identity, 10)

	require.NoError(t, f.svc.Regenerate(ctx, identity))

	count := 0
	for _, row := range f.recs.docs[identity.String()] {
		if row.Title == "Title 3" && row.Year == "2018" {
			count++
		}
	}
	assert.Equal(t, 1, count)
}

func TestRegenerateSkipsExcludedContent(t *testing.T) {
	ctx := context.Background()
	identity := models.GuestIdentity("s1")
	f := newRecommendFixture(bigCatalog(15))
	f.seedVotes(identity, 10)

	require.NoError(t, f.interactions.Upsert(ctx, identity, "c5", models.InteractionWatched))
	// exclusión registrada por la forma imdb
	require.NoError(t, f.interactions.Upsert(ctx, identity, "tt0006", models.InteractionNotInterested))

	require.NoError(t, f.svc.Regenerate(ctx, identity))

	for _, row := range f.recs.docs[identity.String()] {
		assert.NotEqual(t, "c5", row.ContentID)
		assert.NotEqual(t, "c6", row.ContentID)
	}
}

func TestListRequiresVoteThreshold(t *testing.T) {
	identity := models.GuestIdentity("s1")
	f := newRecommendFixture(bigCatalog(15))
	f.seedVotes(identity, 9)

	_, err := f.svc.List(context.Background(), identity, 0, 10)
	assert.ErrorIs(t, err, ErrNotEnoughVotes)
}

func TestListPagination(t *testing.T) {
	ctx := context.Background()
	identity := models.GuestIdentity("s1")
	f := newRecommendFixture(bigCatalog(15))
	f.seedVotes(identity, 10)

	now := time.Now()
	rows := make([]models.RecommendationDoc, 0, 15)
	for i := 0; i < 15; i++ {
		rows = append(rows, models.RecommendationDoc{
			Identity:    identity.String(),
			ContentID:   fmt.Sprintf("c%d", i),
			IMDBID:      fmt.Sprintf("tt%04d", i),
			Title:       fmt.Sprintf("Title %d", i),
			Score:       1.0 - float64(i)*0.01,
			GeneratedAt: now,
		})
	}
	require.NoError(t, f.recs.ReplaceAll(ctx, identity, rows))

	page, err := f.svc.List(ctx, identity, 0, 10)
	require.NoError(t, err)
	assert.Len(t, page.Items, 10)
	assert.True(t, page.HasMore)
	// ordenado por score descendente
	assert.Equal(t, "c0", page.Items[0].ContentID)

	page, err = f.svc.List(ctx, identity, 10, 10)
	require.NoError(t, err)
	assert.Len(t, page.Items, 5)
	assert.False(t, page.HasMore)

	// offset más allá del lote: página vacía, no error
	page, err = f.svc.List(ctx, identity, 40, 10)
	require.NoError(t, err)
	assert.Empty(t, page.Items)
	assert.False(t, page.HasMore)
}

func TestListClampsLimit(t *testing.T) {
	ctx := context.Background()
	identity := models.GuestIdentity("s1")
	f := newRecommendFixture(bigCatalog(15))
	f.seedVotes(identity, 10)

	page, err := f.svc.List(ctx, identity, -3, 900)
	require.NoError(t, err)
	assert.Equal(t, 0, page.Offset)
	assert.Equal(t, maxPageLimit, page.Limit)
}

func TestListFiltersStaleExcludedRows(t *testing.T) {
	ctx := context.Background()
	identity := models.GuestIdentity("s1")
	f := newRecommendFixture(bigCatalog(15))
	f.seedVotes(identity, 10)

	require.NoError(t, f.svc.Regenerate(ctx, identity))
	require.NotEmpty(t, f.recs.docs[identity.String()])
	target := f.recs.docs[identity.String()][0]

	// el usuario marca watched DESPUÉS de la generación: la fila vieja
	// sigue en Mongo pero no puede salir por la lectura
	require.NoError(t, f.interactions.Upsert(ctx, identity, target.ContentID, models.InteractionWatched))

	page, err := f.svc.List(ctx, identity, 0, 10)
	require.NoError(t, err)
	for _, row := range page.Items {
		assert.NotEqual(t, target.ContentID, row.ContentID)
		assert.NotEqual(t, target.IMDBID, row.IMDBID)
	}
}

func TestRemoveItemByEitherIDForm(t *testing.T) {
	ctx := context.Background()
	identity := models.GuestIdentity("s1")
	f := newRecommendFixture(bigCatalog(15))
	f.seedVotes(identity, 10)

	require.NoError(t, f.svc.Regenerate(ctx, identity))
	target := f.recs.docs[identity.String()][0]

	// borrar por imdb_id aunque la fila guarda el id interno
	require.NoError(t, f.svc.RemoveItem(ctx, identity, target.IMDBID))
	for _, row := range f.recs.docs[identity.String()] {
		assert.NotEqual(t, target.ContentID, row.ContentID)
	}

	// segunda vez ya no está
	assert.ErrorIs(t, f.svc.RemoveItem(ctx, identity, target.IMDBID), ErrNotFound)
}

func TestRemoveItemDoesNotWriteInteraction(t *testing.T) {
	ctx := context.Background()
	identity := models.GuestIdentity("s1")
	f := newRecommendFixture(bigCatalog(15))
	f.seedVotes(identity, 10)

	require.NoError(t, f.svc.Regenerate(ctx, identity))
	target := f.recs.docs[identity.String()][0]
	require.NoError(t, f.svc.RemoveItem(ctx, identity, target.ContentID))

	// sacar de la lista no es not_interested: el set de exclusión no cambia
	docs, err := f.interactions.GetByIdentity(ctx, identity)
	require.NoError(t, err)
	assert.Empty(t, docs)
}
