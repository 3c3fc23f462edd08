package service

import (
	"context"
	"fmt"
	"log"

	"github.com/jonahkeegan/pairwatch/internal/cache"
	"github.com/jonahkeegan/pairwatch/internal/models"
)

type VoteService struct {
	votes    VoteStore
	content  ContentStore
	sessions SessionStore
	refresh  *RefreshService
}

func NewVoteService(votes VoteStore, content ContentStore, sessions SessionStore, refresh *RefreshService) *VoteService {
	return &VoteService{votes: votes, content: content, sessions: sessions, refresh: refresh}
}

type VoteResult struct {
	VoteRecorded              bool  `json:"vote_recorded"`
	TotalVotes                int64 `json:"total_votes"`
	VotesUntilRecommendations int64 `json:"votes_until_recommendations"`
	RecommendationsAvailable  bool  `json:"recommendations_available"`
	ExclusionVersion          int64 `json:"exclusion_version"`
}

type StatsResult struct {
	TotalVotes                int64 `json:"total_votes"`
	MovieVotes                int64 `json:"movie_votes"`
	SeriesVotes               int64 `json:"series_votes"`
	VotesUntilRecommendations int64 `json:"votes_until_recommendations"`
	RecommendationsAvailable  bool  `json:"recommendations_available"`
}

// Submit registra un voto (append-only) y evalúa triggers de refresh. El
// camino interactivo no espera a la regeneración.
func (s *VoteService) Submit(ctx context.Context, identity models.Identity, winnerID, loserID, contentType string) (*VoteResult, error) {
	if winnerID == "" || loserID == "" || winnerID == loserID {
		return nil, fmt.Errorf("%w: winner y loser deben ser distintos y no vacíos", ErrInvalidInput)
	}
	if contentType != models.ContentTypeMovie && contentType != models.ContentTypeSeries {
		return nil, fmt.Errorf("%w: content_type %q", ErrInvalidInput, contentType)
	}

	winner, err := s.content.GetByAnyID(ctx, winnerID)
	if err != nil {
		return nil, err
	}
	if winner == nil {
		return nil, fmt.Errorf("%w: content %s", ErrNotFound, winnerID)
	}
	loser, err := s.content.GetByAnyID(ctx, loserID)
	if err != nil {
		return nil, err
	}
	if loser == nil {
		return nil, fmt.Errorf("%w: content %s", ErrNotFound, loserID)
	}

	// normalizamos al id interno: los votos siempre referencian una sola
	// forma, la dualidad queda para las interacciones/exclusiones
	vote := &models.VoteDoc{
		Identity:    identity.String(),
		WinnerID:    winner.ID,
		LoserID:     loser.ID,
		ContentType: contentType,
	}
	if err := s.votes.Insert(ctx, vote); err != nil {
		return nil, err
	}

	if sessionID, isGuest := identity.GuestSessionID(); isGuest {
		if err := s.sessions.IncrementVoteCount(ctx, sessionID); err != nil {
			// el contador de la sesión es informativo; la fuente de
			// verdad es la colección de votos
			log.Printf("[vote] incrementando vote_count de %s: %v", sessionID, err)
		}
	}

	total, err := s.votes.CountByIdentity(ctx, identity)
	if err != nil {
		return nil, err
	}

	s.refresh.OnVote(ctx, identity, total)

	version, _ := cache.ExclusionVersion(ctx, identity.String())
	return &VoteResult{
		VoteRecorded:              true,
		TotalVotes:                total,
		VotesUntilRecommendations: votesUntil(total),
		RecommendationsAvailable:  total >= RecommendationThreshold,
		ExclusionVersion:          version,
	}, nil
}

func (s *VoteService) Stats(ctx context.Context, identity models.Identity) (*StatsResult, error) {
	total, err := s.votes.CountByIdentity(ctx, identity)
	if err != nil {
		return nil, err
	}
	movies, err := s.votes.CountByIdentityAndType(ctx, identity, models.ContentTypeMovie)
	if err != nil {
		return nil, err
	}
	series, err := s.votes.CountByIdentityAndType(ctx, identity, models.ContentTypeSeries)
	if err != nil {
		return nil, err
	}

	return &StatsResult{
		TotalVotes:                total,
		MovieVotes:                movies,
		SeriesVotes:               series,
		VotesUntilRecommendations: votesUntil(total),
		RecommendationsAvailable:  total >= RecommendationThreshold,
	}, nil
}

func votesUntil(total int64) int64 {
	if total >= RecommendationThreshold {
		return 0
	}
	return RecommendationThreshold - total
}
