package handler

import (
	"encoding/json"
	"net/http"

	"github.com/jonahkeegan/pairwatch/internal/service"
)

type VoteHandler struct {
	svc *service.VoteService
}

func NewVoteHandler(s *service.VoteService) *VoteHandler { return &VoteHandler{svc: s} }

type voteRequest struct {
	WinnerID    string `json:"winner_id"`
	LoserID     string `json:"loser_id"`
	ContentType string `json:"content_type"`
}

// @Summary Registrar un voto
// @Tags voting
// @Accept json
// @Produce json
// @Param body body voteRequest true "voto"
// @Success 200 {object} service.VoteResult
// @Router /vote [post]
func (h *VoteHandler) Submit(w http.ResponseWriter, r *http.Request) {
	var req voteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	identity := IdentityFromContext(r.Context())
	res, err := h.svc.Submit(r.Context(), identity, req.WinnerID, req.LoserID, req.ContentType)
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// @Summary Estadísticas de votación de la identidad
// @Tags voting
// @Produce json
// @Success 200 {object} service.StatsResult
// @Router /stats [get]
func (h *VoteHandler) Stats(w http.ResponseWriter, r *http.Request) {
	identity := IdentityFromContext(r.Context())
	res, err := h.svc.Stats(r.Context(), identity)
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}
