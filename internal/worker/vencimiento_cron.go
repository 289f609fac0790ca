package worker

// vencimiento_cron.go
// Background goroutine that periodically looks for pedidos whose fecha de
// vencimiento falls within the configured warning window and enqueues an
// aviso for each. A Redis SETNX key per pedido and day guarantees at most
// one aviso per pedido per day even with several server instances running.

import (
	"context"
	"fmt"
	"time"

	"github.com/Fraancoboss/WTRACKER/internal/repository"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const vencimientoTickInterval = 1 * time.Hour

// VencimientoCronConfig holds all dependencies for the due-date goroutine.
type VencimientoCronConfig struct {
	PedidoRepo repository.PedidoRepository
	Dispatcher *Dispatcher
	RDB        *redis.Client
	DiasAviso  int
}

// StartVencimientoCron launches a background goroutine that ticks hourly,
// queries pedidos close to their due date, and enqueues notification jobs.
// It respects the context for graceful shutdown.
func StartVencimientoCron(ctx context.Context, cfg VencimientoCronConfig) {
	go func() {
		ticker := time.NewTicker(vencimientoTickInterval)
		defer ticker.Stop()

		log.Info().Int("dias_aviso", cfg.DiasAviso).Msg("vencimiento_cron: started")

		// First pass on startup so a restarted server does not wait an hour
		processVencimientos(ctx, cfg)

		for {
			select {
			case <-ctx.Done():
				log.Info().Msg("vencimiento_cron: shutting down")
				return
			case <-ticker.C:
				processVencimientos(ctx, cfg)
			}
		}
	}()
}

func processVencimientos(ctx context.Context, cfg VencimientoCronConfig) {
	limite := time.Now().AddDate(0, 0, cfg.DiasAviso).Format("2006-01-02")

	pedidos, err := cfg.PedidoRepo.ListVencenAntes(ctx, limite)
	if err != nil {
		log.Error().Err(err).Msg("vencimiento_cron: failed to query pedidos")
		return
	}
	if len(pedidos) == 0 {
		return
	}

	hoy := time.Now().Format("2006-01-02")
	enqueued := 0

	for i := range pedidos {
		p := &pedidos[i]

		// One aviso per pedido per day across all instances
		dedupKey := fmt.Sprintf("aviso:vencimiento:%s:%s", p.ID, hoy)
		ok, err := cfg.RDB.SetNX(ctx, dedupKey, "1", 48*time.Hour).Result()
		if err != nil {
			log.Error().Err(err).Str("pedido_id", p.ID).Msg("vencimiento_cron: dedup check failed")
			continue
		}
		if !ok {
			continue // already notified today
		}

		payload := NotificacionPayload{
			Tipo:             NotificacionVencimientoProximo,
			PedidoID:         p.ID,
			Centro:           p.Centro,
			FechaVencimiento: p.FechaVencimiento.Format("2006-01-02"),
		}
		if err := cfg.Dispatcher.EnqueueNotificacion(ctx, payload); err != nil {
			log.Error().Err(err).Str("pedido_id", p.ID).Msg("vencimiento_cron: enqueue failed")
			// Release the dedup key so the next tick retries
			cfg.RDB.Del(ctx, dedupKey)
			continue
		}
		enqueued++
	}

	if enqueued > 0 {
		log.Info().Int("count", enqueued).Msg("vencimiento_cron: avisos enqueued")
	}
}
