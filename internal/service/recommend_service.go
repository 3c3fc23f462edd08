package service

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/jonahkeegan/pairwatch/internal/cache"
	"github.com/jonahkeegan/pairwatch/internal/models"
	"github.com/jonahkeegan/pairwatch/internal/recommend"
)

const (
	recommendationBatchSize = 10
	defaultPageLimit        = 10
	maxPageLimit            = 50
	// TTL corto: la key ya incluye versión de exclusión y de lote, esto
	// solo acota memoria en Redis
	pageCacheTTLSeconds = 300
)

// RecommendService genera, guarda y pagina recomendaciones por identidad.
type RecommendService struct {
	recs         RecommendationStore
	content      ContentStore
	interactions InteractionStore
	votes        VoteStore
	exclusions   *ExclusionService

	now func() time.Time
}

func NewRecommendService(recs RecommendationStore, content ContentStore, interactions InteractionStore, votes VoteStore, exclusions *ExclusionService) *RecommendService {
	return &RecommendService{
		recs:         recs,
		content:      content,
		interactions: interactions,
		votes:        votes,
		exclusions:   exclusions,
		now:          time.Now,
	}
}

// Regenerate produce el lote fresco de la identidad y REEMPLAZA el
// anterior (nunca agrega encima). La llama RefreshService en background.
func (s *RecommendService) Regenerate(ctx context.Context, identity models.Identity) error {
	total, err := s.votes.CountByIdentity(ctx, identity)
	if err != nil {
		return fmt.Errorf("contando votos: %w", err)
	}
	if total < RecommendationThreshold {
		return nil // COLD, nada que generar
	}

	excl, err := s.exclusions.Resolve(ctx, identity)
	if err != nil {
		return err
	}

	// los candidatos ya vienen filtrados por ambas formas de ID
	eligible, err := s.content.AllEligible(ctx, excl.IDs())
	if err != nil {
		return fmt.Errorf("buscando candidatos: %w", err)
	}

	signals, err := s.collectSignals(ctx, identity)
	if err != nil {
		return err
	}

	profile := recommend.BuildProfile(signals)
	now := s.now()
	cands := recommend.Generate(eligible, profile, recommendationBatchSize, now)

	docs := make([]models.RecommendationDoc, 0, len(cands))
	for _, c := range cands {
		docs = append(docs, models.RecommendationDoc{
			Identity:    identity.String(),
			ContentID:   c.Content.ID,
			IMDBID:      c.Content.IMDBID,
			Title:       c.Content.Title,
			ContentType: c.Content.ContentType,
			Year:        c.Content.Year,
			Genre:       c.Content.Genre,
			Poster:      c.Content.Poster,
			Rating:      c.Content.Rating,
			Score:       c.Score,
			Reasoning:   c.Reasoning,
			Confidence:  c.Confidence,
			GeneratedAt: now,
		})
	}

	if err := s.recs.ReplaceAll(ctx, identity, docs); err != nil {
		return fmt.Errorf("guardando lote: %w", err)
	}

	if _, err := cache.BumpBatchVersion(ctx, identity.String()); err != nil {
		log.Printf("[recommend] bump de versión de lote de %s: %v", identity, err)
	}

	log.Printf("[recommend] %s: lote regenerado con %d ítems", identity, len(docs))
	return nil
}

// collectSignals junta interacciones explícitas y ganadores/perdedores del
// historial de votos, con el contenido resuelto una sola vez por ID.
func (s *RecommendService) collectSignals(ctx context.Context, identity models.Identity) ([]recommend.Signal, error) {
	interactions, err := s.interactions.GetByIdentity(ctx, identity)
	if err != nil {
		return nil, fmt.Errorf("leyendo interacciones: %w", err)
	}
	votes, err := s.votes.GetAllByIdentity(ctx, identity)
	if err != nil {
		return nil, fmt.Errorf("leyendo votos: %w", err)
	}

	byID := map[string]*models.ContentItem{}
	lookup := func(id string) (*models.ContentItem, error) {
		if c, ok := byID[id]; ok {
			return c, nil
		}
		c, err := s.content.GetByAnyID(ctx, id)
		if err != nil {
			return nil, err
		}
		byID[id] = c
		return c, nil
	}

	var signals []recommend.Signal
	for _, doc := range interactions {
		c, err := lookup(doc.ContentID)
		if err != nil {
			return nil, err
		}
		if c == nil {
			continue // contenido borrado del catálogo, la señal no aporta
		}
		signals = append(signals, recommend.Signal{Type: doc.Type, Content: c})
	}

	for _, v := range votes {
		if winner, err := lookup(v.WinnerID); err != nil {
			return nil, err
		} else if winner != nil {
			signals = append(signals, recommend.Signal{Type: recommend.SignalVoteWinner, Content: winner})
		}
		if loser, err := lookup(v.LoserID); err != nil {
			return nil, err
		} else if loser != nil {
			signals = append(signals, recommend.Signal{Type: recommend.SignalVoteLoser, Content: loser})
		}
	}
	return signals, nil
}

// List pagina el lote guardado. Filtra exclusiones TAMBIÉN a la lectura:
// si quedó una fila vieja referenciando contenido hoy excluido, no sale
// (defensa en profundidad, no alcanza con el dedup de escritura).
func (s *RecommendService) List(ctx context.Context, identity models.Identity, offset, limit int) (*models.RecommendationPage, error) {
	if offset < 0 {
		offset = 0
	}
	if limit <= 0 {
		limit = defaultPageLimit
	}
	if limit > maxPageLimit {
		limit = maxPageLimit
	}

	total, err := s.votes.CountByIdentity(ctx, identity)
	if err != nil {
		return nil, err
	}
	if total < RecommendationThreshold {
		return nil, ErrNotEnoughVotes
	}

	// cache por página, keyed por versión de exclusión + versión de lote:
	// cualquier interacción o regeneración mueve la key y la página vieja
	// muere sola
	exclVer, _ := cache.ExclusionVersion(ctx, identity.String())
	batchVer, _ := cache.BatchVersion(ctx, identity.String())
	cacheKey := fmt.Sprintf("recs:page:%s:e%d:b%d:o%d:l%d", identity, exclVer, batchVer, offset, limit)

	var cached models.RecommendationPage
	if ok, err := cache.GetJSON(ctx, cacheKey, &cached); err == nil && ok {
		return &cached, nil
	}

	excl, err := s.exclusions.Resolve(ctx, identity)
	if err != nil {
		return nil, err
	}

	rows, err := s.recs.FindByIdentity(ctx, identity, offset, limit+1)
	if err != nil {
		return nil, err
	}

	hasMore := len(rows) > limit
	if hasMore {
		rows = rows[:limit]
	}

	items := make([]models.RecommendationDoc, 0, len(rows))
	for _, row := range rows {
		if excl.Contains(row.ContentID, row.IMDBID) {
			log.Printf("[recommend] %s: fila vieja excluida filtrada a la lectura (%s)", identity, row.Title)
			continue
		}
		items = append(items, row)
	}

	page := &models.RecommendationPage{
		Items:   items,
		Offset:  offset,
		Limit:   limit,
		HasMore: hasMore,
	}

	if err := cache.SetJSON(ctx, cacheKey, page, pageCacheTTLSeconds); err != nil {
		log.Printf("[recommend] cacheando página de %s: %v", identity, err)
	}
	return page, nil
}

// RemoveItem borra una fila de la lista. Decisión de producto explícita:
// NO escribe not_interested; un cliente que quiera excluir el título llama
// a /content/interact por su cuenta.
func (s *RecommendService) RemoveItem(ctx context.Context, identity models.Identity, contentID string) error {
	deleted, err := s.recs.DeleteOne(ctx, identity, contentID)
	if err != nil {
		return err
	}
	if !deleted {
		return fmt.Errorf("%w: recommendation %s", ErrNotFound, contentID)
	}
	if _, err := cache.BumpBatchVersion(ctx, identity.String()); err != nil {
		log.Printf("[recommend] bump de versión de lote de %s: %v", identity, err)
	}
	return nil
}
