package model

import (
	"time"

	"github.com/google/uuid"
)

// Estados agregados de un pedido.
const (
	EstadoListo      = "Listo"
	EstadoEnCurso    = "En curso"
	EstadoDetenido   = "Detenido"
	EstadoNoIniciado = "No iniciado"
)

// Materiales admitidos.
const (
	MaterialPVC      = "PVC"
	MaterialAluminio = "Aluminio"
)

// Pedido is a manufacturing job tracked through production phases.
// The ID is supplied by the client (e.g. "PED-2025-001") and immutable.
type Pedido struct {
	ID               string    `gorm:"primaryKey"`
	FechaEntrada     time.Time `gorm:"type:date;not null;index"`
	Centro           string    `gorm:"not null;index"`
	Material         string    `gorm:"type:varchar(10);not null"`
	FechaVencimiento time.Time `gorm:"type:date;not null"`
	// Estado is derived from the production fases whenever any exist;
	// directly settable only while the pedido has no production fases.
	Estado      string `gorm:"type:varchar(15);not null;default:'No iniciado';index"`
	Incidencias *string
	Transporte  bool       `gorm:"not null;default:false"`
	CreatedBy   *uuid.UUID `gorm:"type:uuid"`
	CreatedAt   time.Time
	UpdatedAt   time.Time

	Fases []Fase `gorm:"foreignKey:PedidoID;constraint:OnDelete:CASCADE"`
}
