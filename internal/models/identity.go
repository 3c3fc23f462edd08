package models

import "fmt"

// Identity es la clave contra la que se guardan interacciones, votos y
// recomendaciones: usuario autenticado o sesión de invitado. El historial
// de invitado NO se fusiona al usuario al hacer login.
type Identity string

func UserIdentity(userID int) Identity {
	return Identity(fmt.Sprintf("user:%d", userID))
}

func GuestIdentity(sessionID string) Identity {
	return Identity("guest:" + sessionID)
}

func (i Identity) String() string { return string(i) }

// GuestSessionID devuelve el session_id si la identidad es un invitado.
func (i Identity) GuestSessionID() (string, bool) {
	const prefix = "guest:"
	s := string(i)
	if len(s) > len(prefix) && s[:len(prefix)] == prefix {
		return s[len(prefix):], true
	}
	return "", false
}
