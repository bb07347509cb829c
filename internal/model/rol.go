package model

import "fmt"

// Rol is the closed set of roles a Usuario can hold.
type Rol string

const (
	RolTecnico     Rol = "tecnico"
	RolCoordinador Rol = "coordinador"
)

// Roles lists every valid role, in display order.
var Roles = []Rol{RolTecnico, RolCoordinador}

// Valid reports whether r is one of the known roles.
func (r Rol) Valid() bool {
	switch r {
	case RolTecnico, RolCoordinador:
		return true
	default:
		return false
	}
}

// ParseRol converts free text into a Rol, rejecting anything outside the enumeration.
func ParseRol(s string) (Rol, error) {
	r := Rol(s)
	if !r.Valid() {
		return "", fmt.Errorf("rol desconocido %q", s)
	}
	return r, nil
}

func (r Rol) String() string { return string(r) }
