package dto

// Fechas circulan como "YYYY-MM-DD"; el service las convierte a time.Time.

// ─── Request DTOs ────────────────────────────────────────────────────────────

type FaseRequest struct {
	// ID present → update that fase; absent → insert as new.
	ID            string  `json:"id"            validate:"omitempty,uuid"`
	Tipo          string  `json:"tipo"          validate:"required,oneof=Fabricación Cristal Persianas Transporte"`
	Estado        string  `json:"estado"        validate:"omitempty,oneof=Completado 'En proceso' Pendiente Bloqueado"`
	FechaInicio   *string `json:"fechaInicio"   validate:"omitempty,datetime=2006-01-02"`
	FechaFin      *string `json:"fechaFin"      validate:"omitempty,datetime=2006-01-02"`
	OperarioID    *string `json:"operarioId"    validate:"omitempty,uuid"`
	Observaciones *string `json:"observaciones"`
}

type CrearPedidoRequest struct {
	ID               string        `json:"id"               validate:"required,min=1"`
	FechaEntrada     string        `json:"fechaEntrada"     validate:"required,datetime=2006-01-02"`
	Centro           string        `json:"centro"           validate:"required,min=1"`
	Material         string        `json:"material"         validate:"required"`
	FechaVencimiento string        `json:"fechaVencimiento" validate:"required,datetime=2006-01-02"`
	Estado           string        `json:"estado"           validate:"omitempty,oneof=Listo 'En curso' Detenido 'No iniciado'"`
	Incidencias      *string       `json:"incidencias"`
	Transporte       bool          `json:"transporte"`
	Fases            []FaseRequest `json:"fases" validate:"omitempty,dive"`
}

// ActualizarPedidoRequest is a partial update: nil fields keep their stored
// values. The pedido ID itself is immutable.
type ActualizarPedidoRequest struct {
	FechaEntrada     *string       `json:"fechaEntrada"     validate:"omitempty,datetime=2006-01-02"`
	Centro           *string       `json:"centro"           validate:"omitempty,min=1"`
	Material         *string       `json:"material"         validate:"omitempty,oneof=PVC Aluminio"`
	FechaVencimiento *string       `json:"fechaVencimiento" validate:"omitempty,datetime=2006-01-02"`
	Estado           *string       `json:"estado"           validate:"omitempty,oneof=Listo 'En curso' Detenido 'No iniciado'"`
	Incidencias      *string       `json:"incidencias"`
	Transporte       *bool         `json:"transporte"`
	Fases            []FaseRequest `json:"fases" validate:"omitempty,dive"`
}

// PedidoFilter collects the optional list predicates plus pagination.
type PedidoFilter struct {
	Centro     string `form:"centro"`
	Material   string `form:"material"`
	Estado     string `form:"estado"`
	FechaDesde string `form:"fechaDesde"`
	FechaHasta string `form:"fechaHasta"`
	Page       int    `form:"page"`
	Limit      int    `form:"limit"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type FaseResponse struct {
	ID            string  `json:"id"`
	PedidoID      string  `json:"pedidoId"`
	Tipo          string  `json:"tipo"`
	Estado        string  `json:"estado"`
	FechaInicio   *string `json:"fechaInicio"`
	FechaFin      *string `json:"fechaFin"`
	OperarioID    *string `json:"operarioId"`
	Observaciones *string `json:"observaciones"`
}

type PedidoResponse struct {
	ID               string         `json:"id"`
	FechaEntrada     string         `json:"fechaEntrada"`
	Centro           string         `json:"centro"`
	Material         string         `json:"material"`
	FechaVencimiento string         `json:"fechaVencimiento"`
	Estado           string         `json:"estado"`
	Incidencias      *string        `json:"incidencias"`
	Transporte       bool           `json:"transporte"`
	CreatedBy        *string        `json:"createdBy,omitempty"`
	CreatedAt        string         `json:"createdAt,omitempty"`
	UpdatedAt        string         `json:"updatedAt,omitempty"`
	Fases            []FaseResponse `json:"fases"`
}

type PedidoListResponse struct {
	Pedidos    []PedidoResponse `json:"pedidos"`
	Total      int64            `json:"total"`
	Page       int              `json:"page"`
	TotalPages int              `json:"totalPages"`
}

// ResumenResponse feeds the dashboard KPI cards.
type ResumenResponse struct {
	Total      int64 `json:"total"`
	Listo      int64 `json:"listo"`
	EnCurso    int64 `json:"enCurso"`
	Detenido   int64 `json:"detenido"`
	NoIniciado int64 `json:"noIniciado"`
}

type AuditoriaEntryResponse struct {
	ID              string  `json:"id"`
	UsuarioID       *string `json:"usuarioId"`
	Accion          string  `json:"accion"`
	Entidad         string  `json:"entidad"`
	EntidadID       string  `json:"entidadId"`
	DatosAnteriores any     `json:"datosAnteriores,omitempty"`
	DatosNuevos     any     `json:"datosNuevos,omitempty"`
	Timestamp       string  `json:"timestamp"`
}

type AuditoriaListResponse struct {
	Entradas   []AuditoriaEntryResponse `json:"entradas"`
	Total      int64                    `json:"total"`
	Page       int                      `json:"page"`
	TotalPages int                      `json:"totalPages"`
}
