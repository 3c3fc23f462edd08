package handler

import (
	"net/http"

	"github.com/jonahkeegan/pairwatch/internal/service"

	"github.com/go-chi/chi/v5"
)

type CatalogHandler struct {
	svc *service.CatalogService
}

func NewCatalogHandler(s *service.CatalogService) *CatalogHandler { return &CatalogHandler{svc: s} }

// @Summary Sembrar catálogo desde OMDB
// @Tags catalog
// @Produce json
// @Success 200 {object} service.SeedResult
// @Router /initialize-content [post]
func (h *CatalogHandler) Initialize(w http.ResponseWriter, r *http.Request) {
	res, err := h.svc.InitializeContent(r.Context())
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// @Summary Contenido por id interno o imdb_id
// @Tags catalog
// @Produce json
// @Param id path string true "content id (cualquier forma)"
// @Success 200 {object} models.ContentItem
// @Router /content/{id} [get]
func (h *CatalogHandler) Get(w http.ResponseWriter, r *http.Request) {
	item, err := h.svc.GetContent(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, item)
}
