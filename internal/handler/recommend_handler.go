package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/jonahkeegan/pairwatch/internal/service"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"
)

type RecommendHandler struct {
	svc     *service.RecommendService
	refresh *service.RefreshService
}

func NewRecommendHandler(s *service.RecommendService, refresh *service.RefreshService) *RecommendHandler {
	return &RecommendHandler{svc: s, refresh: refresh}
}

// @Summary Recomendaciones paginadas de la identidad
// @Tags recommend
// @Produce json
// @Param offset query int false "offset"
// @Param limit query int false "cantidad por página (máx 50)"
// @Success 200 {object} models.RecommendationPage
// @Router /recommendations [get]
func (h *RecommendHandler) List(w http.ResponseWriter, r *http.Request) {
	identity := IdentityFromContext(r.Context())
	offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))

	page, err := h.svc.List(r.Context(), identity, offset, limit)
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, page)
}

// @Summary Quitar una recomendación de la lista
// @Tags recommend
// @Produce json
// @Param contentId path string true "content id (cualquier forma)"
// @Success 204
// @Router /recommendations/{contentId} [delete]
func (h *RecommendHandler) Remove(w http.ResponseWriter, r *http.Request) {
	identity := IdentityFromContext(r.Context())
	if err := h.svc.RemoveItem(r.Context(), identity, chi.URLParam(r, "contentId")); err != nil {
		writeErr(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// upgrader global (no afecta a swagger)
var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// @Summary Refresh de recomendaciones en tiempo real (WebSocket)
// @Tags recommend
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /ws/recommendations [get]
func (h *RecommendHandler) Live(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		http.Error(w, "no se pudo abrir WebSocket", http.StatusBadRequest)
		return
	}
	defer conn.Close()

	identity := IdentityFromContext(r.Context())

	conn.WriteJSON(map[string]any{
		"type": "start",
		"msg":  "Conexión WS abierta, agendando regeneración…",
	})

	scheduled := h.refresh.Schedule(r.Context(), identity)
	conn.WriteJSON(map[string]any{
		"type":      "progress",
		"scheduled": scheduled, // false = ya había una corrida en vuelo
	})

	// le damos una ventana corta a la corrida antes de leer el lote;
	// si no llegó, el cliente igual recibe el lote vigente
	time.Sleep(1200 * time.Millisecond)

	page, err := h.svc.List(r.Context(), identity, 0, 10)
	if err != nil {
		conn.WriteJSON(map[string]any{
			"type":  "error",
			"error": err.Error(),
		})
		return
	}

	conn.WriteJSON(map[string]any{
		"type":         "recommendations",
		"identity":     identity.String(),
		"items":        page.Items,
		"has_more":     page.HasMore,
		"generated_at": time.Now(),
	})
}
