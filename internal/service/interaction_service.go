package service

import (
	"context"
	"fmt"
	"log"

	"github.com/jonahkeegan/pairwatch/internal/cache"
	"github.com/jonahkeegan/pairwatch/internal/models"
)

type InteractionService struct {
	interactions InteractionStore
	content      ContentStore
	refresh      *RefreshService
}

func NewInteractionService(interactions InteractionStore, content ContentStore, refresh *RefreshService) *InteractionService {
	return &InteractionService{interactions: interactions, content: content, refresh: refresh}
}

type InteractionAck struct {
	ContentID        string `json:"content_id"`
	InteractionType  string `json:"interaction_type,omitempty"`
	ExclusionVersion int64  `json:"exclusion_version"`
}

// Record upserta la interacción (un tipo nuevo pisa al anterior) y bumpea
// la versión de exclusión que el cliente usa para invalidar sus caches.
func (s *InteractionService) Record(ctx context.Context, identity models.Identity, contentID, interactionType string) (*InteractionAck, error) {
	if !models.ValidInteractionType(interactionType) {
		return nil, fmt.Errorf("%w: interaction_type %q", ErrInvalidInput, interactionType)
	}

	item, err := s.content.GetByAnyID(ctx, contentID)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, fmt.Errorf("%w: content %s", ErrNotFound, contentID)
	}

	// guardamos contra el id interno; la exclusión igual matchea por
	// ambas formas vía el resolver
	if err := s.interactions.Upsert(ctx, identity, item.ID, interactionType); err != nil {
		return nil, err
	}

	version, err := cache.BumpExclusionVersion(ctx, identity.String())
	if err != nil {
		log.Printf("[interact] bump de versión de %s: %v", identity, err)
	}

	s.refresh.OnInteraction(ctx, identity, interactionType)

	return &InteractionAck{
		ContentID:        item.ID,
		InteractionType:  interactionType,
		ExclusionVersion: version,
	}, nil
}

// Remove borra la interacción: el "deseleccionar" del frontend queda
// reflejado en el store, no solo en el estado local del cliente.
func (s *InteractionService) Remove(ctx context.Context, identity models.Identity, contentID string) (*InteractionAck, error) {
	item, err := s.content.GetByAnyID(ctx, contentID)
	if err != nil {
		return nil, err
	}

	// si el contenido ya no existe en el catálogo igual intentamos borrar
	// por el id que mandó el cliente
	id := contentID
	if item != nil {
		id = item.ID
	}

	deleted, err := s.interactions.Delete(ctx, identity, id)
	if err != nil {
		return nil, err
	}
	if !deleted {
		return nil, fmt.Errorf("%w: interaction for %s", ErrNotFound, contentID)
	}

	version, err := cache.BumpExclusionVersion(ctx, identity.String())
	if err != nil {
		log.Printf("[interact] bump de versión de %s: %v", identity, err)
	}

	// quitar una exclusión también cambia qué puede recomendarse
	s.refresh.OnExclusionChanged(ctx, identity)

	return &InteractionAck{ContentID: id, ExclusionVersion: version}, nil
}
