package model

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Acciones auditadas.
const (
	AccionCreate = "CREATE"
	AccionUpdate = "UPDATE"
	AccionDelete = "DELETE"
)

// RegistroAuditoria es una fila append-only escrita en la misma transacción
// que la mutación que describe. Nunca se actualiza ni se borra.
type RegistroAuditoria struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	UsuarioID *uuid.UUID `gorm:"type:uuid;index"`
	Accion    string     `gorm:"type:varchar(10);not null"`
	Entidad   string     `gorm:"not null"`
	EntidadID string     `gorm:"not null;index"`
	// Snapshots completos antes/después, serializados como JSON.
	DatosAnteriores json.RawMessage `gorm:"type:jsonb"`
	DatosNuevos     json.RawMessage `gorm:"type:jsonb"`
	CreatedAt       time.Time
}

// TableName overrides GORM's default pluralization.
func (RegistroAuditoria) TableName() string { return "registros_auditoria" }
