package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/Fraancoboss/WTRACKER/internal/dto"
	"github.com/Fraancoboss/WTRACKER/internal/repository"

	"github.com/gin-gonic/gin"
)

// AuditoriaHandler serves the admin-only audit trail. Read path only, so it
// talks to the repository directly.
type AuditoriaHandler struct{ repo repository.AuditoriaRepository }

func NewAuditoriaHandler(repo repository.AuditoriaRepository) *AuditoriaHandler {
	return &AuditoriaHandler{repo: repo}
}

func (h *AuditoriaHandler) Listar(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 200 {
		limit = 50
	}

	entries, total, err := h.repo.List(c.Request.Context(), page, limit)
	if err != nil {
		fail(c, err)
		return
	}

	items := make([]dto.AuditoriaEntryResponse, 0, len(entries))
	for i := range entries {
		e := &entries[i]
		item := dto.AuditoriaEntryResponse{
			ID:        e.ID.String(),
			Accion:    e.Accion,
			Entidad:   e.Entidad,
			EntidadID: e.EntidadID,
			Timestamp: e.CreatedAt.Format(time.RFC3339),
		}
		if e.UsuarioID != nil {
			s := e.UsuarioID.String()
			item.UsuarioID = &s
		}
		if len(e.DatosAnteriores) > 0 {
			item.DatosAnteriores = e.DatosAnteriores
		}
		if len(e.DatosNuevos) > 0 {
			item.DatosNuevos = e.DatosNuevos
		}
		items = append(items, item)
	}

	totalPages := int((total + int64(limit) - 1) / int64(limit))
	ok(c, http.StatusOK, dto.AuditoriaListResponse{
		Entradas:   items,
		Total:      total,
		Page:       page,
		TotalPages: totalPages,
	})
}
