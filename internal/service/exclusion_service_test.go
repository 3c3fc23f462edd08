package service

import (
	"context"
	"errors"
	"testing"

	"github.com/jonahkeegan/pairwatch/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveAddsBothIDForms(t *testing.T) {
	ctx := context.Background()
	identity := models.GuestIdentity("s1")

	content := &fakeContentStore{items: []models.ContentItem{
		{ID: "c1", IMDBID: "tt0111161", Title: "The Shawshank Redemption", ContentType: models.ContentTypeMovie},
	}}
	interactions := &fakeInteractionStore{}

	// la interacción se registró contra el imdb_id, no contra el id interno
	require.NoError(t, interactions.Upsert(ctx, identity, "tt0111161", models.InteractionWatched))

	svc := NewExclusionService(interactions, content)
	set, err := svc.Resolve(ctx, identity)
	require.NoError(t, err)

	assert.True(t, set.Contains("tt0111161"))
	assert.True(t, set.Contains("c1"), "el id interno también tiene que quedar excluido")
}

func TestResolveAddsBothIDFormsFromInternalID(t *testing.T) {
	ctx := context.Background()
	identity := models.GuestIdentity("s1")

	content := &fakeContentStore{items: []models.ContentItem{
		{ID: "c1", IMDBID: "tt0111161", ContentType: models.ContentTypeMovie},
	}}
	interactions := &fakeInteractionStore{}
	require.NoError(t, interactions.Upsert(ctx, identity, "c1", models.InteractionNotInterested))

	svc := NewExclusionService(interactions, content)
	set, err := svc.Resolve(ctx, identity)
	require.NoError(t, err)

	assert.True(t, set.Contains("c1"))
	assert.True(t, set.Contains("tt0111161"))
}

func TestResolveWantToWatchDoesNotExclude(t *testing.T) {
	ctx := context.Background()
	identity := models.GuestIdentity("s1")

	content := &fakeContentStore{items: []models.ContentItem{
		{ID: "c1", IMDBID: "tt1", ContentType: models.ContentTypeMovie},
		{ID: "c2", IMDBID: "tt2", ContentType: models.ContentTypeMovie},
	}}
	interactions := &fakeInteractionStore{}
	require.NoError(t, interactions.Upsert(ctx, identity, "c1", models.InteractionWantToWatch))
	require.NoError(t, interactions.Upsert(ctx, identity, "c2", models.InteractionWatched))

	svc := NewExclusionService(interactions, content)
	set, err := svc.Resolve(ctx, identity)
	require.NoError(t, err)

	assert.False(t, set.Contains("c1", "tt1"))
	assert.True(t, set.Contains("c2", "tt2"))
}

func TestResolveUpsertReplacesType(t *testing.T) {
	ctx := context.Background()
	identity := models.GuestIdentity("s1")

	content := &fakeContentStore{items: []models.ContentItem{
		{ID: "c1", IMDBID: "tt1", ContentType: models.ContentTypeMovie},
	}}
	interactions := &fakeInteractionStore{}
	require.NoError(t, interactions.Upsert(ctx, identity, "c1", models.InteractionWatched))
	// el usuario cambia de opinión: un solo tipo activo por contenido
	require.NoError(t, interactions.Upsert(ctx, identity, "c1", models.InteractionWantToWatch))

	svc := NewExclusionService(interactions, content)
	set, err := svc.Resolve(ctx, identity)
	require.NoError(t, err)

	assert.False(t, set.Contains("c1", "tt1"))
	assert.Equal(t, 0, set.Size())
}

func TestResolveFailsClosed(t *testing.T) {
	ctx := context.Background()
	interactions := &fakeInteractionStore{err: errors.New("mongo caído")}

	svc := NewExclusionService(interactions, &fakeContentStore{})
	set, err := svc.Resolve(ctx, models.GuestIdentity("s1"))

	// nunca un set vacío silencioso cuando el store falla
	require.Error(t, err)
	assert.Nil(t, set)
}

func TestResolveIgnoresDifferentIdentity(t *testing.T) {
	ctx := context.Background()

	content := &fakeContentStore{items: []models.ContentItem{
		{ID: "c1", IMDBID: "tt1", ContentType: models.ContentTypeMovie},
	}}
	interactions := &fakeInteractionStore{}
	require.NoError(t, interactions.Upsert(ctx, models.GuestIdentity("otra"), "c1", models.InteractionWatched))

	svc := NewExclusionService(interactions, content)
	set, err := svc.Resolve(ctx, models.UserIdentity(7))
	require.NoError(t, err)
	assert.Equal(t, 0, set.Size())
}
