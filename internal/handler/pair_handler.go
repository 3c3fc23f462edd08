package handler

import (
	"net/http"

	"github.com/jonahkeegan/pairwatch/internal/service"

	"github.com/go-chi/chi/v5"
)

type PairHandler struct {
	svc *service.PairService
}

func NewPairHandler(s *service.PairService) *PairHandler { return &PairHandler{svc: s} }

// @Summary Par de votación para la identidad
// @Tags voting
// @Produce json
// @Param content_type query string false "movie | series (vacío = al azar)"
// @Success 200 {object} models.VotePair
// @Router /voting-pair [get]
func (h *PairHandler) GetVotingPair(w http.ResponseWriter, r *http.Request) {
	identity := IdentityFromContext(r.Context())
	contentType := r.URL.Query().Get("content_type")

	pair, err := h.svc.GetVotingPair(r.Context(), identity, contentType)
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, pair)
}

// @Summary Reemplazo de tile: nuevo compañero para el ítem sobreviviente
// @Tags voting
// @Produce json
// @Param survivingId path string true "id del ítem que sigue en pantalla"
// @Success 200 {object} models.VotePair
// @Router /voting-pair-replacement/{survivingId} [get]
func (h *PairHandler) GetReplacement(w http.ResponseWriter, r *http.Request) {
	identity := IdentityFromContext(r.Context())
	survivingID := chi.URLParam(r, "survivingId")

	pair, err := h.svc.GetReplacement(r.Context(), identity, survivingID)
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, pair)
}
