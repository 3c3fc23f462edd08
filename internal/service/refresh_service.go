package service

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/jonahkeegan/pairwatch/internal/cache"
	"github.com/jonahkeegan/pairwatch/internal/models"
)

const (
	// umbral de votos para que existan recomendaciones
	RecommendationThreshold = 10

	// interacciones nuevas desde la última generación que fuerzan refresh
	interactionsPerRefresh = 5

	// edad del lote a partir de la cual se regenera
	staleAfter = 72 * time.Hour

	// timeout de una corrida de regeneración en background
	regenTimeout = 2 * time.Minute

	// TTL del marcador in-flight (red de seguridad contra crash sin release)
	inflightTTL = 5 * time.Minute
)

// hitos de votos que disparan regeneración
var voteMilestones = map[int64]struct{}{
	10: {}, 15: {}, 20: {}, 25: {}, 30: {}, 40: {}, 50: {},
}

// Regenerator produce y guarda el lote fresco. Lo implementa
// RecommendService; la interfaz existe para poder testear el evaluador
// con un contador en memoria.
type Regenerator interface {
	Regenerate(ctx context.Context, identity models.Identity) error
}

// RefreshService decide, después de cada voto o interacción, si hay que
// regenerar recomendaciones en background. A lo sumo una corrida in-flight
// por identidad: un segundo trigger dentro de la ventana se descarta (no
// se encola) — la corrida en vuelo lee el estado más nuevo igual.
type RefreshService struct {
	regen        Regenerator
	votes        VoteStore
	interactions InteractionStore
	recs         RecommendationStore

	mu       sync.Mutex
	inflight map[models.Identity]time.Time

	ttl     time.Duration
	timeout time.Duration

	// hook para tests: se llama al terminar una corrida
	afterRun func(identity models.Identity, err error)
}

func NewRefreshService(regen Regenerator, votes VoteStore, interactions InteractionStore, recs RecommendationStore) *RefreshService {
	return &RefreshService{
		regen:        regen,
		votes:        votes,
		interactions: interactions,
		recs:         recs,
		inflight:     map[models.Identity]time.Time{},
		ttl:          inflightTTL,
		timeout:      regenTimeout,
	}
}

// OnVote evalúa triggers tras registrar un voto. No bloquea: a lo sumo
// agenda una goroutine y vuelve; la respuesta del request nunca espera a
// la regeneración.
func (s *RefreshService) OnVote(ctx context.Context, identity models.Identity, totalVotes int64) bool {
	if totalVotes < RecommendationThreshold {
		return false // COLD: ningún trigger
	}
	if _, ok := voteMilestones[totalVotes]; ok {
		return s.Schedule(ctx, identity)
	}
	return s.evaluateStaleness(ctx, identity)
}

// OnInteraction evalúa triggers tras registrar (o borrar) una interacción.
// watched/not_interested disparan siempre (cambian el set de exclusión y
// el lote guardado puede referenciar contenido ahora excluido).
func (s *RefreshService) OnInteraction(ctx context.Context, identity models.Identity, interactionType string) bool {
	total, err := s.votes.CountByIdentity(ctx, identity)
	if err != nil {
		log.Printf("[refresh] contando votos de %s: %v", identity, err)
		return false
	}
	if total < RecommendationThreshold {
		return false
	}
	if models.Excludes(interactionType) {
		return s.Schedule(ctx, identity)
	}
	return s.evaluateStaleness(ctx, identity)
}

// OnExclusionChanged dispara cuando el set de exclusión cambió sin pasar
// por un alta de interacción (p. ej. un undo que borra un watched).
func (s *RefreshService) OnExclusionChanged(ctx context.Context, identity models.Identity) bool {
	total, err := s.votes.CountByIdentity(ctx, identity)
	if err != nil {
		log.Printf("[refresh] contando votos de %s: %v", identity, err)
		return false
	}
	if total < RecommendationThreshold {
		return false
	}
	return s.Schedule(ctx, identity)
}

// evaluateStaleness cubre los triggers (b) y (c): N interacciones nuevas
// desde la última generación, o lote más viejo que staleAfter.
func (s *RefreshService) evaluateStaleness(ctx context.Context, identity models.Identity) bool {
	lastGen, ok, err := s.recs.LatestGeneratedAt(ctx, identity)
	if err != nil {
		log.Printf("[refresh] leyendo generated_at de %s: %v", identity, err)
		return false
	}
	if !ok {
		// pasó el umbral y todavía no hay lote
		return s.Schedule(ctx, identity)
	}

	n, err := s.interactions.CountSince(ctx, identity, lastGen)
	if err != nil {
		log.Printf("[refresh] contando interacciones de %s: %v", identity, err)
		return false
	}
	if n >= interactionsPerRefresh {
		return s.Schedule(ctx, identity)
	}

	if time.Since(lastGen) >= staleAfter {
		return s.Schedule(ctx, identity)
	}
	return false
}

// Schedule agenda una regeneración en background. Devuelve false si ya hay
// una corrida in-flight para la identidad (trigger coalescado).
func (s *RefreshService) Schedule(ctx context.Context, identity models.Identity) bool {
	s.mu.Lock()
	now := time.Now()
	for id, started := range s.inflight {
		if now.Sub(started) > s.ttl {
			delete(s.inflight, id) // marcador vencido, limpiamos
		}
	}
	if _, ok := s.inflight[identity]; ok {
		s.mu.Unlock()
		log.Printf("[refresh] %s: trigger coalescado (regeneración en vuelo)", identity)
		return false
	}
	s.inflight[identity] = now
	s.mu.Unlock()

	// lock distribuido como red de seguridad; si Redis falla seguimos
	// solo con el marcador local
	if ok, err := cache.AcquireRegenLock(ctx, identity.String(), s.ttl); err != nil {
		log.Printf("[refresh] lock redis de %s: %v", identity, err)
	} else if !ok {
		s.mu.Lock()
		delete(s.inflight, identity)
		s.mu.Unlock()
		log.Printf("[refresh] %s: otra réplica tiene la regeneración", identity)
		return false
	}

	go s.run(identity)
	return true
}

func (s *RefreshService) run(identity models.Identity) {
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()

	err := s.regen.Regenerate(ctx, identity)
	if err != nil {
		// falla de background: se loguea y se traga, el lote viejo sigue
		// sirviendo y un trigger posterior reintenta
		log.Printf("[refresh] regeneración de %s falló: %v", identity, err)
	}

	s.mu.Lock()
	delete(s.inflight, identity)
	s.mu.Unlock()

	if relErr := cache.ReleaseRegenLock(context.Background(), identity.String()); relErr != nil {
		log.Printf("[refresh] liberando lock de %s: %v", identity, relErr)
	}

	if s.afterRun != nil {
		s.afterRun(identity, err)
	}
}

// SweepStale recorre las identidades con lote vencido y les agenda un
// refresh. Lo corre el cron horario: así el decaimiento temporal no
// depende de que el usuario vuelva a votar.
func (s *RefreshService) SweepStale(ctx context.Context) {
	ids, err := s.recs.StaleIdentities(ctx, time.Now().Add(-staleAfter))
	if err != nil {
		log.Printf("[refresh] sweep: %v", err)
		return
	}
	for _, id := range ids {
		s.Schedule(ctx, models.Identity(id))
	}
	if len(ids) > 0 {
		log.Printf("[refresh] sweep: %d identidades con lote vencido", len(ids))
	}
}
