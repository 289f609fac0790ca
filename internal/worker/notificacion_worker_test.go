package worker

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/Fraancoboss/WTRACKER/internal/config"
	"github.com/Fraancoboss/WTRACKER/internal/infra"

	"github.com/stretchr/testify/assert"
)

func testWorker(avisoEmail string) *NotificacionWorker {
	// Nothing listens on this port: sends fail fast
	mailer := infra.NewMailer(&config.Config{SMTPHost: "localhost", SMTPPort: 19999})
	cb := infra.NewCircuitBreaker(infra.DefaultCBConfig())
	return NewNotificacionWorker(mailer, cb, avisoEmail)
}

func TestProcessPayloadInvalido(t *testing.T) {
	w := testWorker("oficina@wtracker.com")
	err := w.Process(context.Background(), json.RawMessage(`{no es json`))
	assert.Error(t, err)
}

func TestProcessSinEmailConfiguradoNoFalla(t *testing.T) {
	w := testWorker("")
	payload, _ := json.Marshal(NotificacionPayload{
		Tipo: NotificacionPedidoDetenido, PedidoID: "PED-1",
	})
	assert.NoError(t, w.Process(context.Background(), payload))
}

func TestProcessTipoDesconocidoSeDescarta(t *testing.T) {
	w := testWorker("oficina@wtracker.com")
	payload, _ := json.Marshal(NotificacionPayload{Tipo: "otro", PedidoID: "PED-1"})
	// Unknown tipo is dropped, not retried
	assert.NoError(t, w.Process(context.Background(), payload))
}

func TestProcessSMTPCaidoDevuelveError(t *testing.T) {
	w := testWorker("oficina@wtracker.com")
	payload, _ := json.Marshal(NotificacionPayload{
		Tipo:             NotificacionVencimientoProximo,
		PedidoID:         "PED-2026-001",
		Centro:           "Alcobendas",
		FechaVencimiento: "2026-09-15",
	})
	err := w.Process(context.Background(), payload)
	assert.Error(t, err)
}
