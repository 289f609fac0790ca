package worker

// notificacion_worker.go
// Processes notification jobs from QueueNotificaciones.
// Sends avisos by email to the configured office address via SMTP.

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/Fraancoboss/WTRACKER/internal/infra"

	"github.com/rs/zerolog/log"
)

const (
	NotificacionPedidoDetenido     = "pedido_detenido"
	NotificacionVencimientoProximo = "vencimiento_proximo"
)

// NotificacionPayload is the job envelope sent to QueueNotificaciones.
type NotificacionPayload struct {
	Tipo             string `json:"tipo"`
	PedidoID         string `json:"pedido_id"`
	Centro           string `json:"centro"`
	FechaVencimiento string `json:"fecha_vencimiento"`
}

// NotificacionWorker sends avisos through the SMTP relay.
// All sends go through the circuit breaker so that a dead relay
// does not pile up blocked workers.
type NotificacionWorker struct {
	mailer     *infra.Mailer
	cb         *infra.CircuitBreaker
	avisoEmail string
}

func NewNotificacionWorker(mailer *infra.Mailer, cb *infra.CircuitBreaker, avisoEmail string) *NotificacionWorker {
	return &NotificacionWorker{mailer: mailer, cb: cb, avisoEmail: avisoEmail}
}

// Process builds the aviso for the payload tipo and sends it.
// Returns an error so the pool can route the job to the DLQ.
func (w *NotificacionWorker) Process(_ context.Context, raw json.RawMessage) error {
	var payload NotificacionPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		return fmt.Errorf("notificacion_worker: invalid payload: %w", err)
	}
	if w.avisoEmail == "" {
		log.Warn().Msg("notificacion_worker: AVISO_EMAIL not configured: skipping")
		return nil
	}

	var subject, body string
	switch payload.Tipo {
	case NotificacionPedidoDetenido:
		subject = fmt.Sprintf("[WTRACKER] Pedido %s detenido", payload.PedidoID)
		body = fmt.Sprintf(
			"El pedido %s (%s) ha pasado a estado Detenido.\n\nFecha de vencimiento: %s\n\nRevise las fases bloqueadas e incidencias.",
			payload.PedidoID, payload.Centro, payload.FechaVencimiento,
		)
	case NotificacionVencimientoProximo:
		subject = fmt.Sprintf("[WTRACKER] Pedido %s próximo a vencer", payload.PedidoID)
		body = fmt.Sprintf(
			"El pedido %s (%s) vence el %s y aún no está Listo.\n\nRevise el avance de sus fases.",
			payload.PedidoID, payload.Centro, payload.FechaVencimiento,
		)
	default:
		log.Warn().Str("tipo", payload.Tipo).Msg("notificacion_worker: tipo desconocido: skipping")
		return nil
	}

	err := w.cb.Execute(func() error {
		return w.mailer.SendAviso(w.avisoEmail, subject, body)
	})
	if err != nil {
		return fmt.Errorf("notificacion_worker: send failed for pedido %s: %w", payload.PedidoID, err)
	}

	log.Info().
		Str("tipo", payload.Tipo).
		Str("pedido_id", payload.PedidoID).
		Msg("notificacion_worker: aviso sent")
	return nil
}
