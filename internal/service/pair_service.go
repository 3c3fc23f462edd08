package service

import (
	"context"
	"fmt"
	"log"
	"math/rand"

	"github.com/jonahkeegan/pairwatch/internal/models"
)

const (
	// cuántos candidatos muestreamos para elegir un par
	pairSampleSize = 24
	// intentos para encontrar un par que la identidad no haya votado ya
	pairPickAttempts = 50
)

// PairService selecciona pares de votación y reemplazos de tile. Los dos
// caminos usan el MISMO ExclusionService: históricamente el endpoint de
// reemplazo tenía su propio filtro y dejaba reaparecer contenido excluido.
type PairService struct {
	content    ContentStore
	votes      VoteStore
	exclusions *ExclusionService
}

func NewPairService(content ContentStore, votes VoteStore, exclusions *ExclusionService) *PairService {
	return &PairService{content: content, votes: votes, exclusions: exclusions}
}

// GetVotingPair devuelve dos ítems distintos del mismo tipo, ninguno en el
// set de exclusión. contentType vacío = el servicio elige movie o series
// al azar. Selección pura: no escribe nada.
func (s *PairService) GetVotingPair(ctx context.Context, identity models.Identity, contentType string) (*models.VotePair, error) {
	if contentType != "" && contentType != models.ContentTypeMovie && contentType != models.ContentTypeSeries {
		return nil, fmt.Errorf("%w: content_type %q", ErrInvalidInput, contentType)
	}

	excl, err := s.exclusions.Resolve(ctx, identity)
	if err != nil {
		return nil, err
	}

	chosen := contentType
	if chosen == "" {
		if rand.Intn(2) == 0 {
			chosen = models.ContentTypeMovie
		} else {
			chosen = models.ContentTypeSeries
		}
	}

	pair, err := s.selectPair(ctx, identity, chosen, excl)
	if err == nil {
		return pair, nil
	}
	if err != ErrExhausted {
		return nil, err
	}

	// degradación: quedan menos de dos elegibles del tipo pedido →
	// par cross-type antes que error (jamás relajando la exclusión)
	log.Printf("[pair] %s: sin pares %s elegibles, probando cross-type", identity, chosen)
	return s.selectPair(ctx, identity, "", excl)
}

func (s *PairService) selectPair(ctx context.Context, identity models.Identity, contentType string, excl *ExclusionSet) (*models.VotePair, error) {
	for attempt := 0; attempt < 2; attempt++ {
		items, err := s.content.SampleEligible(ctx, contentType, excl.IDs(), pairSampleSize)
		if err != nil {
			return nil, err
		}
		if len(items) < 2 {
			return nil, ErrExhausted
		}

		voted, err := s.votedPairs(ctx, identity)
		if err != nil {
			return nil, err
		}

		a, b := pickUnvoted(items, voted)

		// re-chequeo defensivo a la salida del selector, no solo en la
		// query: si un candidato está excluido acá hay un bug río arriba
		if excl.Contains(a.ID, a.IMDBID) || excl.Contains(b.ID, b.IMDBID) {
			log.Printf("[pair] CONSISTENCIA: candidato excluido llegó a la salida (identity=%s), reintentando", identity)
			continue
		}

		ct := a.ContentType
		if a.ContentType != b.ContentType {
			ct = "" // par cross-type de la política degradada
		}
		return &models.VotePair{Item1: a, Item2: b, ContentType: ct}, nil
	}
	return nil, ErrConsistency
}

// GetReplacement arma un nuevo compañero para el ítem sobreviviente cuando
// el otro tile acaba de ser excluido, sin reiniciar el flujo de votación.
func (s *PairService) GetReplacement(ctx context.Context, identity models.Identity, survivingID string) (*models.VotePair, error) {
	surviving, err := s.content.GetByAnyID(ctx, survivingID)
	if err != nil {
		return nil, err
	}
	if surviving == nil {
		return nil, fmt.Errorf("%w: content %s", ErrNotFound, survivingID)
	}

	// mismo resolver que el selector principal: exactamente S ∪ {sobreviviente}
	excl, err := s.exclusions.Resolve(ctx, identity)
	if err != nil {
		return nil, err
	}
	excl.add(surviving.ID, surviving.IMDBID)

	partner, err := s.selectOne(ctx, identity, surviving.ContentType, excl)
	if err == ErrExhausted {
		// relajamos a cross-type; el sobreviviente y las exclusiones
		// frescas no se relajan nunca
		log.Printf("[pair] %s: sin reemplazo %s elegible, probando cross-type", identity, surviving.ContentType)
		partner, err = s.selectOne(ctx, identity, "", excl)
	}
	if err != nil {
		return nil, err
	}

	return &models.VotePair{
		Item1:       *surviving,
		Item2:       *partner,
		ContentType: surviving.ContentType,
	}, nil
}

func (s *PairService) selectOne(ctx context.Context, identity models.Identity, contentType string, excl *ExclusionSet) (*models.ContentItem, error) {
	for attempt := 0; attempt < 2; attempt++ {
		items, err := s.content.SampleEligible(ctx, contentType, excl.IDs(), 1)
		if err != nil {
			return nil, err
		}
		if len(items) == 0 {
			return nil, ErrExhausted
		}

		c := items[0]
		if excl.Contains(c.ID, c.IMDBID) {
			log.Printf("[pair] CONSISTENCIA: reemplazo excluido llegó a la salida (identity=%s), reintentando", identity)
			continue
		}
		return &c, nil
	}
	return nil, ErrConsistency
}

func (s *PairService) votedPairs(ctx context.Context, identity models.Identity) (map[string]struct{}, error) {
	votes, err := s.votes.GetAllByIdentity(ctx, identity)
	if err != nil {
		return nil, err
	}
	out := make(map[string]struct{}, len(votes))
	for _, v := range votes {
		out[pairKey(v.WinnerID, v.LoserID)] = struct{}{}
	}
	return out, nil
}

func pairKey(a, b string) string {
	if a > b {
		a, b = b, a
	}
	return a + "|" + b
}

// pickUnvoted busca un par que la identidad no haya votado todavía; si
// todos los pares ya se votaron, devuelve dos distintos cualesquiera.
func pickUnvoted(items []models.ContentItem, voted map[string]struct{}) (models.ContentItem, models.ContentItem) {
	n := len(items)
	for attempt := 0; attempt < pairPickAttempts; attempt++ {
		i := rand.Intn(n)
		j := rand.Intn(n)
		if i == j {
			continue
		}
		if _, ok := voted[pairKey(items[i].ID, items[j].ID)]; ok {
			continue
		}
		return items[i], items[j]
	}

	i := rand.Intn(n)
	j := (i + 1 + rand.Intn(n-1)) % n
	return items[i], items[j]
}
