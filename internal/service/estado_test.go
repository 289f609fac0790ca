package service

import (
	"testing"

	"github.com/Fraancoboss/WTRACKER/internal/model"

	"github.com/stretchr/testify/assert"
)

func fase(tipo, estado string) model.Fase {
	return model.Fase{Tipo: tipo, Estado: estado}
}

func TestCalcularEstado(t *testing.T) {
	cases := []struct {
		name  string
		fases []model.Fase
		want  string
	}{
		{
			name:  "sin fases",
			fases: nil,
			want:  model.EstadoNoIniciado,
		},
		{
			name:  "solo transporte no cuenta",
			fases: []model.Fase{fase(model.FaseTransporte, model.FaseCompletado)},
			want:  model.EstadoNoIniciado,
		},
		{
			name: "todas completadas",
			fases: []model.Fase{
				fase(model.FaseFabricacion, model.FaseCompletado),
				fase(model.FaseCristal, model.FaseCompletado),
				fase(model.FasePersianas, model.FaseCompletado),
			},
			want: model.EstadoListo,
		},
		{
			name: "transporte pendiente no impide Listo",
			fases: []model.Fase{
				fase(model.FaseFabricacion, model.FaseCompletado),
				fase(model.FaseTransporte, model.FasePendiente),
			},
			want: model.EstadoListo,
		},
		{
			name: "alguna en proceso",
			fases: []model.Fase{
				fase(model.FaseFabricacion, model.FaseCompletado),
				fase(model.FaseCristal, model.FaseEnProceso),
			},
			want: model.EstadoEnCurso,
		},
		{
			name: "en proceso gana a bloqueado",
			fases: []model.Fase{
				fase(model.FaseFabricacion, model.FaseEnProceso),
				fase(model.FaseCristal, model.FaseBloqueado),
			},
			want: model.EstadoEnCurso,
		},
		{
			name: "bloqueado sin en proceso",
			fases: []model.Fase{
				fase(model.FaseFabricacion, model.FaseBloqueado),
				fase(model.FaseCristal, model.FasePendiente),
			},
			want: model.EstadoDetenido,
		},
		{
			name: "completado parcial y resto pendiente",
			fases: []model.Fase{
				fase(model.FaseFabricacion, model.FaseCompletado),
				fase(model.FaseCristal, model.FasePendiente),
			},
			want: model.EstadoNoIniciado,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, CalcularEstado(tc.fases))
		})
	}
}

func TestTieneFasesProduccion(t *testing.T) {
	assert.False(t, TieneFasesProduccion(nil))
	assert.False(t, TieneFasesProduccion([]model.Fase{fase(model.FaseTransporte, model.FasePendiente)}))
	assert.True(t, TieneFasesProduccion([]model.Fase{fase(model.FaseCristal, model.FasePendiente)}))
}
