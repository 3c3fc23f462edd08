package handler

import (
	"encoding/json"
	"net/http"

	"github.com/jonahkeegan/pairwatch/internal/service"

	"github.com/go-chi/chi/v5"
)

type InteractionHandler struct {
	svc *service.InteractionService
}

func NewInteractionHandler(s *service.InteractionService) *InteractionHandler {
	return &InteractionHandler{svc: s}
}

type interactRequest struct {
	ContentID       string `json:"content_id"`
	InteractionType string `json:"interaction_type"`
}

// @Summary Registrar interacción (watched / want_to_watch / not_interested)
// @Tags interactions
// @Accept json
// @Produce json
// @Param body body interactRequest true "interacción"
// @Success 200 {object} service.InteractionAck
// @Router /content/interact [post]
func (h *InteractionHandler) Record(w http.ResponseWriter, r *http.Request) {
	var req interactRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	identity := IdentityFromContext(r.Context())
	ack, err := h.svc.Record(r.Context(), identity, req.ContentID, req.InteractionType)
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, ack)
}

// @Summary Borrar interacción (undo durable)
// @Tags interactions
// @Produce json
// @Param contentId path string true "content id (cualquier forma)"
// @Success 200 {object} service.InteractionAck
// @Router /content/interact/{contentId} [delete]
func (h *InteractionHandler) Remove(w http.ResponseWriter, r *http.Request) {
	identity := IdentityFromContext(r.Context())
	ack, err := h.svc.Remove(r.Context(), identity, chi.URLParam(r, "contentId"))
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, ack)
}
