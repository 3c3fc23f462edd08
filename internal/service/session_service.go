package service

import (
	"context"
	"fmt"

	"github.com/jonahkeegan/pairwatch/internal/models"
)

type SessionService struct {
	sessions SessionStore
}

func NewSessionService(sessions SessionStore) *SessionService {
	return &SessionService{sessions: sessions}
}

func (s *SessionService) Create(ctx context.Context) (*models.SessionDoc, error) {
	return s.sessions.Create(ctx)
}

func (s *SessionService) Get(ctx context.Context, sessionID string) (*models.SessionDoc, error) {
	doc, err := s.sessions.FindByID(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if doc == nil {
		return nil, fmt.Errorf("%w: session %s", ErrNotFound, sessionID)
	}
	return doc, nil
}
