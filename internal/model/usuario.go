package model

import (
	"time"

	"github.com/google/uuid"
)

// Roles de usuario. Los cuatro roles de proceso coinciden con los tipos de
// fase que pueden editar; Oficina y Admin escriben en todo, Visualización
// solo lee.
const (
	RolAdmin         = "Admin"
	RolOficina       = "Oficina"
	RolFabricacion   = "Fabricación"
	RolCristal       = "Cristal"
	RolPersianas     = "Persianas"
	RolTransporte    = "Transporte"
	RolVisualizacion = "Visualización"
)

// Roles lists every valid rol, in the order the UI presents them.
var Roles = []string{
	RolAdmin, RolOficina, RolFabricacion, RolCristal,
	RolPersianas, RolTransporte, RolVisualizacion,
}

// EsRolProceso reports whether rol is one of the four per-phase operator roles.
func EsRolProceso(rol string) bool {
	switch rol {
	case RolFabricacion, RolCristal, RolPersianas, RolTransporte:
		return true
	}
	return false
}

// Usuario stores system users with role-based access.
// Nombre doubles as the login handle.
type Usuario struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Nombre       string    `gorm:"uniqueIndex;not null"`
	Email        *string
	PasswordHash string `gorm:"not null"`
	Rol          string `gorm:"type:varchar(20);not null"`
	Activo       bool   `gorm:"not null;default:true"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
