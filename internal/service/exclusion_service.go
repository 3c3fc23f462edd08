package service

import (
	"context"
	"fmt"

	"github.com/jonahkeegan/pairwatch/internal/models"
)

// ExclusionSet es el conjunto de identificadores (mezcla de ids internos e
// imdb_ids) que una identidad no puede volver a ver. Los callers arman sus
// queries con "id not in set Y imdb_id not in set": ambas condiciones.
type ExclusionSet struct {
	ids map[string]struct{}
}

func newExclusionSet() *ExclusionSet {
	return &ExclusionSet{ids: map[string]struct{}{}}
}

func (s *ExclusionSet) add(ids ...string) {
	for _, id := range ids {
		if id != "" {
			s.ids[id] = struct{}{}
		}
	}
}

// Contains es true si CUALQUIERA de las formas de ID está en el set.
func (s *ExclusionSet) Contains(ids ...string) bool {
	for _, id := range ids {
		if id == "" {
			continue
		}
		if _, ok := s.ids[id]; ok {
			return true
		}
	}
	return false
}

func (s *ExclusionSet) IDs() []string {
	out := make([]string, 0, len(s.ids))
	for id := range s.ids {
		out = append(out, id)
	}
	return out
}

func (s *ExclusionSet) Size() int { return len(s.ids) }

// ExclusionService es EL ÚNICO camino para calcular exclusiones. Todo
// selector (pair, replacement, recomendaciones) pasa por acá; ninguno
// arma su propio filtro a mano.
type ExclusionService struct {
	interactions InteractionStore
	content      ContentStore
}

func NewExclusionService(interactions InteractionStore, content ContentStore) *ExclusionService {
	return &ExclusionService{interactions: interactions, content: content}
}

// Resolve devuelve el set completo de exclusión de la identidad: por cada
// interacción watched/not_interested suma el id interno Y el imdb_id del
// contenido, sin importar con cuál forma se registró la interacción.
//
// Falla cerrado: si la consulta de interacciones falla devolvemos error,
// nunca un set vacío — un set vacío silencioso rompería la garantía de
// "no volver a ver contenido excluido". Sin cache interno: cualquier
// staleness solo puede venir de caches del caller.
func (s *ExclusionService) Resolve(ctx context.Context, identity models.Identity) (*ExclusionSet, error) {
	docs, err := s.interactions.GetExcluding(ctx, identity)
	if err != nil {
		return nil, fmt.Errorf("resolviendo exclusiones de %s: %w", identity, err)
	}

	set := newExclusionSet()
	for _, doc := range docs {
		set.add(doc.ContentID)

		item, err := s.content.GetByAnyID(ctx, doc.ContentID)
		if err != nil {
			// también cerrado acá: sin el alias no podemos garantizar
			// la exclusión por ambas formas de ID
			return nil, fmt.Errorf("resolviendo alias de %s: %w", doc.ContentID, err)
		}
		if item != nil {
			set.add(item.ID, item.IMDBID)
		}
	}
	return set, nil
}
