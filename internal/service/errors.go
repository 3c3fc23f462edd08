package service

import "errors"

var (
	// ErrNotFound: contenido o identidad inexistente. Se mapea a 404,
	// nunca se sustituye en silencio por otro resultado.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput: request malformado (tipo de interacción inválido,
	// winner == loser, etc.). Se mapea a 400.
	ErrInvalidInput = errors.New("invalid input")

	// ErrExhausted: ni siquiera la política relajada encontró candidatos
	// que respeten el set de exclusión.
	ErrExhausted = errors.New("no eligible candidates")

	// ErrNotEnoughVotes: la identidad todavía no llegó al umbral de votos
	// para tener recomendaciones.
	ErrNotEnoughVotes = errors.New("not enough votes for recommendations")

	// ErrConsistency: un selector estuvo a punto de devolver contenido
	// excluido. Se re-chequea a la salida, se loguea y se reintenta una
	// vez; si reaparece, se devuelve este error antes que servir el ítem.
	ErrConsistency = errors.New("selector produced excluded content")
)
