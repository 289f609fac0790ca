package service

import (
	"context"
	"encoding/json"
	"time"

	"github.com/Fraancoboss/WTRACKER/internal/apierror"
	"github.com/Fraancoboss/WTRACKER/internal/dto"
	"github.com/Fraancoboss/WTRACKER/internal/model"
	"github.com/Fraancoboss/WTRACKER/internal/repository"

	"github.com/redis/go-redis/v9"
)

const (
	resumenCacheKey = "resumen:pedidos"
	resumenCacheTTL = 30 * time.Second
)

// ResumenService serves the dashboard KPI counts, cached in Redis so the
// panel can poll without hitting the database each time.
type ResumenService interface {
	Resumen(ctx context.Context) (*dto.ResumenResponse, error)
	Invalidate(ctx context.Context)
}

type resumenService struct {
	repo repository.PedidoRepository
	rdb  *redis.Client
}

func NewResumenService(repo repository.PedidoRepository, rdb *redis.Client) ResumenService {
	return &resumenService{repo: repo, rdb: rdb}
}

func (s *resumenService) Resumen(ctx context.Context) (*dto.ResumenResponse, error) {
	if s.rdb != nil {
		if cached, err := s.rdb.Get(ctx, resumenCacheKey).Bytes(); err == nil {
			var resp dto.ResumenResponse
			if jsonErr := json.Unmarshal(cached, &resp); jsonErr == nil {
				return &resp, nil
			}
		}
	}

	counts, total, err := s.repo.CountByEstado(ctx)
	if err != nil {
		return nil, apierror.NewDatabase("Error al obtener resumen", err)
	}
	resp := &dto.ResumenResponse{
		Total:      total,
		Listo:      counts[model.EstadoListo],
		EnCurso:    counts[model.EstadoEnCurso],
		Detenido:   counts[model.EstadoDetenido],
		NoIniciado: counts[model.EstadoNoIniciado],
	}

	// cache writes are best effort
	if s.rdb != nil {
		if b, jsonErr := json.Marshal(resp); jsonErr == nil {
			_ = s.rdb.Set(ctx, resumenCacheKey, b, resumenCacheTTL).Err()
		}
	}

	return resp, nil
}

// Invalidate drops the cached counts after any pedido mutation.
func (s *resumenService) Invalidate(ctx context.Context) {
	if s.rdb != nil {
		_ = s.rdb.Del(ctx, resumenCacheKey).Err()
	}
}
