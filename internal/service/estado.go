package service

import (
	"github.com/Fraancoboss/WTRACKER/internal/model"
)

// CalcularEstado derives the aggregate pedido estado from its fases.
// Only the production fases (Fabricación, Cristal, Persianas) participate;
// Transporte never affects the aggregate. With no production fases the
// result is "No iniciado".
//
// Precedence: all Completado → Listo; any En proceso → En curso;
// any Bloqueado → Detenido; otherwise No iniciado.
func CalcularEstado(fases []model.Fase) string {
	var produccion []model.Fase
	for _, f := range fases {
		if f.Tipo != model.FaseTransporte {
			produccion = append(produccion, f)
		}
	}
	if len(produccion) == 0 {
		return model.EstadoNoIniciado
	}

	completadas := 0
	enProceso := false
	bloqueado := false
	for _, f := range produccion {
		switch f.Estado {
		case model.FaseCompletado:
			completadas++
		case model.FaseEnProceso:
			enProceso = true
		case model.FaseBloqueado:
			bloqueado = true
		}
	}

	switch {
	case completadas == len(produccion):
		return model.EstadoListo
	case enProceso:
		return model.EstadoEnCurso
	case bloqueado:
		return model.EstadoDetenido
	default:
		return model.EstadoNoIniciado
	}
}

// TieneFasesProduccion reports whether at least one non-Transporte fase exists.
// While false, a client-supplied estado is honored as-is (manual pinning of an
// un-phased pedido).
func TieneFasesProduccion(fases []model.Fase) bool {
	for _, f := range fases {
		if f.Tipo != model.FaseTransporte {
			return true
		}
	}
	return false
}
