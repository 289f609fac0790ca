package handler

import (
	"net/http"

	"github.com/Fraancoboss/WTRACKER/internal/dto"
	"github.com/Fraancoboss/WTRACKER/internal/infra"
	"github.com/Fraancoboss/WTRACKER/internal/middleware"
	"github.com/Fraancoboss/WTRACKER/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type PedidosHandler struct {
	svc        service.PedidoService
	resumen    service.ResumenService
	pdfStorage string
}

func NewPedidosHandler(svc service.PedidoService, resumen service.ResumenService, pdfStorage string) *PedidosHandler {
	return &PedidosHandler{svc: svc, resumen: resumen, pdfStorage: pdfStorage}
}

func actorFrom(c *gin.Context) service.Actor {
	claims := middleware.GetClaims(c)
	id, _ := uuid.Parse(claims.UserID)
	return service.Actor{ID: id, Rol: claims.Rol}
}

// Listar godoc
// @Summary      Listar pedidos
// @Description  Lista paginada de pedidos con filtros opcionales.
// @Tags         pedidos
// @Produce      json
// @Security     BearerAuth
// @Param        centro      query string false "Centro"
// @Param        material    query string false "PVC | Aluminio"
// @Param        estado      query string false "Listo | En curso | Detenido | No iniciado"
// @Param        fechaDesde  query string false "Fecha entrada desde (YYYY-MM-DD)"
// @Param        fechaHasta  query string false "Fecha entrada hasta (YYYY-MM-DD)"
// @Param        page        query int    false "Página (default 1)"
// @Param        limit       query int    false "Registros por página (default 20)"
// @Success      200 {object} dto.PedidoListResponse
// @Router       /api/pedidos [get]
func (h *PedidosHandler) Listar(c *gin.Context) {
	var filter dto.PedidoFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Parámetros de consulta inválidos"})
		return
	}
	resp, err := h.svc.Listar(c.Request.Context(), filter)
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, http.StatusOK, resp)
}

// Resumen returns the per-estado counters for the dashboard.
// Served from a short-lived Redis cache.
func (h *PedidosHandler) Resumen(c *gin.Context) {
	resp, err := h.resumen.Resumen(c.Request.Context())
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, http.StatusOK, resp)
}

func (h *PedidosHandler) Obtener(c *gin.Context) {
	resp, err := h.svc.Obtener(c.Request.Context(), c.Param("id"))
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, http.StatusOK, resp)
}

// DescargarPDF generates the printable order sheet and streams it back.
func (h *PedidosHandler) DescargarPDF(c *gin.Context) {
	pedido, err := h.svc.Obtener(c.Request.Context(), c.Param("id"))
	if err != nil {
		fail(c, err)
		return
	}
	path, err := infra.GenerarHojaPedido(pedido, h.pdfStorage)
	if err != nil {
		fail(c, err)
		return
	}
	c.Header("Content-Disposition", `attachment; filename="pedido_`+pedido.ID+`.pdf"`)
	c.File(path)
}

// Crear godoc
// @Summary      Crear pedido
// @Tags         pedidos
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body body dto.CrearPedidoRequest true "Datos del pedido"
// @Success      201 {object} dto.PedidoResponse
// @Failure      409 {object} map[string]interface{}
// @Router       /api/pedidos [post]
func (h *PedidosHandler) Crear(c *gin.Context) {
	var req dto.CrearPedidoRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Crear(c.Request.Context(), actorFrom(c), req)
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, http.StatusCreated, resp)
}

func (h *PedidosHandler) Actualizar(c *gin.Context) {
	var req dto.ActualizarPedidoRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Actualizar(c.Request.Context(), actorFrom(c), c.Param("id"), req)
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, http.StatusOK, resp)
}

func (h *PedidosHandler) Eliminar(c *gin.Context) {
	if err := h.svc.Eliminar(c.Request.Context(), actorFrom(c), c.Param("id")); err != nil {
		fail(c, err)
		return
	}
	okMessage(c, "Pedido eliminado exitosamente")
}
