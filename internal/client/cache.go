package client

import (
	"sync"

	"github.com/Fraancoboss/WTRACKER/internal/dto"
)

// pedidoCache keeps the last fetched list of pedidos so the CLI can show
// mutations immediately without re-querying the server.
type pedidoCache struct {
	mu      sync.RWMutex
	pedidos []dto.PedidoResponse
}

// replace swaps the whole cached list, as after a fresh listing.
func (pc *pedidoCache) replace(pedidos []dto.PedidoResponse) {
	pc.mu.Lock()
	defer pc.mu.Unlock()
	pc.pedidos = make([]dto.PedidoResponse, len(pedidos))
	copy(pc.pedidos, pedidos)
}

// upsert replaces the entry with the same ID, or prepends when it is new.
func (pc *pedidoCache) upsert(p dto.PedidoResponse) {
	pc.mu.Lock()
	defer pc.mu.Unlock()
	for i := range pc.pedidos {
		if pc.pedidos[i].ID == p.ID {
			pc.pedidos[i] = p
			return
		}
	}
	pc.pedidos = append([]dto.PedidoResponse{p}, pc.pedidos...)
}

func (pc *pedidoCache) remove(id string) {
	pc.mu.Lock()
	defer pc.mu.Unlock()
	for i := range pc.pedidos {
		if pc.pedidos[i].ID == id {
			pc.pedidos = append(pc.pedidos[:i], pc.pedidos[i+1:]...)
			return
		}
	}
}

// all returns a copy of the cached list.
func (pc *pedidoCache) all() []dto.PedidoResponse {
	pc.mu.RLock()
	defer pc.mu.RUnlock()
	out := make([]dto.PedidoResponse, len(pc.pedidos))
	copy(out, pc.pedidos)
	return out
}
