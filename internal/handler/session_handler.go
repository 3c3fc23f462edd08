package handler

import (
	"net/http"

	"github.com/jonahkeegan/pairwatch/internal/service"

	"github.com/go-chi/chi/v5"
)

type SessionHandler struct {
	svc *service.SessionService
}

func NewSessionHandler(s *service.SessionService) *SessionHandler { return &SessionHandler{svc: s} }

// @Summary Crear sesión de invitado
// @Tags sessions
// @Produce json
// @Success 201 {object} models.SessionDoc
// @Router /session [post]
func (h *SessionHandler) Create(w http.ResponseWriter, r *http.Request) {
	s, err := h.svc.Create(r.Context())
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, s)
}

// @Summary Info de una sesión
// @Tags sessions
// @Produce json
// @Param id path string true "session_id"
// @Success 200 {object} models.SessionDoc
// @Router /session/{id} [get]
func (h *SessionHandler) Get(w http.ResponseWriter, r *http.Request) {
	s, err := h.svc.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, s)
}
