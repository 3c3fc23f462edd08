package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/jonahkeegan/pairwatch/internal/service"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeErr mapea los errores tipados de los servicios a códigos HTTP.
// Todo lo no reconocido es 500.
func writeErr(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, service.ErrNotFound):
		http.Error(w, err.Error(), http.StatusNotFound)
	case errors.Is(err, service.ErrInvalidInput), errors.Is(err, service.ErrNotEnoughVotes):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, service.ErrExhausted):
		// sin candidatos ni con la política relajada: el cliente puede
		// avisarle al usuario que no queda contenido por mostrar
		http.Error(w, err.Error(), http.StatusConflict)
	default:
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}
