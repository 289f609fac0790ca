package model

import (
	"time"

	"github.com/google/uuid"
)

// Tipos de fase, en su orden lógico de producción.
const (
	FaseFabricacion = "Fabricación"
	FaseCristal     = "Cristal"
	FasePersianas   = "Persianas"
	FaseTransporte  = "Transporte"
)

// Estados de una fase.
const (
	FaseCompletado = "Completado"
	FaseEnProceso  = "En proceso"
	FasePendiente  = "Pendiente"
	FaseBloqueado  = "Bloqueado"
)

// OrdenFase gives each tipo its position in the fixed logical sequence
// used when returning a pedido's fases.
var OrdenFase = map[string]int{
	FaseFabricacion: 1,
	FaseCristal:     2,
	FasePersianas:   3,
	FaseTransporte:  4,
}

// EsTipoFase reports whether tipo is a valid fase type.
func EsTipoFase(tipo string) bool {
	_, ok := OrdenFase[tipo]
	return ok
}

// Fase is one production stage of a Pedido. At most one fase per tipo per
// pedido; enforced by the service layer on create/update.
type Fase struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	PedidoID    string    `gorm:"not null;index"`
	Tipo        string    `gorm:"type:varchar(15);not null"`
	Estado      string    `gorm:"type:varchar(15);not null;default:'Pendiente'"`
	FechaInicio *time.Time `gorm:"type:date"`
	FechaFin    *time.Time `gorm:"type:date"`
	OperarioID  *uuid.UUID `gorm:"type:uuid"`
	Observaciones *string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
