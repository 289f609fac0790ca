package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/Fraancoboss/WTRACKER/internal/apierror"
	"github.com/Fraancoboss/WTRACKER/internal/dto"
	"github.com/Fraancoboss/WTRACKER/internal/middleware"
	"github.com/Fraancoboss/WTRACKER/internal/model"
	"github.com/Fraancoboss/WTRACKER/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

// stubPedidoService returns canned responses so the tests exercise only the
// HTTP layer: binding, envelope shape and status mapping.
type stubPedidoService struct {
	pedido    *dto.PedidoResponse
	lista     *dto.PedidoListResponse
	err       error
	lastActor service.Actor
}

func (s *stubPedidoService) Listar(_ context.Context, _ dto.PedidoFilter) (*dto.PedidoListResponse, error) {
	return s.lista, s.err
}

func (s *stubPedidoService) Obtener(_ context.Context, _ string) (*dto.PedidoResponse, error) {
	return s.pedido, s.err
}

func (s *stubPedidoService) Crear(_ context.Context, actor service.Actor, _ dto.CrearPedidoRequest) (*dto.PedidoResponse, error) {
	s.lastActor = actor
	return s.pedido, s.err
}

func (s *stubPedidoService) Actualizar(_ context.Context, actor service.Actor, _ string, _ dto.ActualizarPedidoRequest) (*dto.PedidoResponse, error) {
	s.lastActor = actor
	return s.pedido, s.err
}

func (s *stubPedidoService) Eliminar(_ context.Context, actor service.Actor, _ string) error {
	s.lastActor = actor
	return s.err
}

type stubResumenService struct{}

func (stubResumenService) Resumen(_ context.Context) (*dto.ResumenResponse, error) {
	return &dto.ResumenResponse{Total: 3, Listo: 1, EnCurso: 2}, nil
}
func (stubResumenService) Invalidate(_ context.Context) {}

func testClaims() *service.TokenClaims {
	return &service.TokenClaims{UserID: uuid.New().String(), Nombre: "tester", Rol: model.RolOficina}
}

func pedidosRouter(svc *stubPedidoService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := NewPedidosHandler(svc, stubResumenService{}, "/tmp")
	r := gin.New()
	r.Use(func(c *gin.Context) {
		c.Set(middleware.ClaimsKey, testClaims())
	})
	r.GET("/api/pedidos", h.Listar)
	r.GET("/api/pedidos/resumen", h.Resumen)
	r.GET("/api/pedidos/:id", h.Obtener)
	r.POST("/api/pedidos", h.Crear)
	r.PUT("/api/pedidos/:id", h.Actualizar)
	r.DELETE("/api/pedidos/:id", h.Eliminar)
	return r
}

func TestListarEnvuelveRespuesta(t *testing.T) {
	svc := &stubPedidoService{lista: &dto.PedidoListResponse{
		Pedidos: []dto.PedidoResponse{{ID: "PED-1"}}, Total: 1, Page: 1, TotalPages: 1,
	}}
	r := pedidosRouter(svc)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/pedidos?page=1&limit=20", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	var body struct {
		Success bool                   `json:"success"`
		Data    dto.PedidoListResponse `json:"data"`
	}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.True(t, body.Success)
	assert.Equal(t, int64(1), body.Data.Total)
	assert.Equal(t, "PED-1", body.Data.Pedidos[0].ID)
}

func TestResumen(t *testing.T) {
	r := pedidosRouter(&stubPedidoService{})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/pedidos/resumen", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"total":3`)
}

func TestObtenerNotFound(t *testing.T) {
	svc := &stubPedidoService{err: apierror.NewNotFound("Pedido PED-X no encontrado")}
	r := pedidosRouter(svc)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/pedidos/PED-X", nil))

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), `"success":false`)
	assert.Contains(t, w.Body.String(), "Pedido PED-X no encontrado")
}

func TestCrearJSONInvalido(t *testing.T) {
	r := pedidosRouter(&stubPedidoService{})

	req := httptest.NewRequest(http.MethodPost, "/api/pedidos", strings.NewReader("{esto no es json"))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "JSON inválido")
}

func TestCrearValidacionFallida(t *testing.T) {
	r := pedidosRouter(&stubPedidoService{})

	// Missing required fields
	req := httptest.NewRequest(http.MethodPost, "/api/pedidos", strings.NewReader(`{"id":"PED-1"}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Datos de entrada inválidos")
}

func TestCrearPropagaActor(t *testing.T) {
	svc := &stubPedidoService{pedido: &dto.PedidoResponse{ID: "PED-1"}}
	r := pedidosRouter(svc)

	body := `{"id":"PED-1","fechaEntrada":"2026-08-01","centro":"Alcobendas","material":"PVC","fechaVencimiento":"2026-09-15"}`
	req := httptest.NewRequest(http.MethodPost, "/api/pedidos", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, model.RolOficina, svc.lastActor.Rol)
	assert.NotEqual(t, uuid.Nil, svc.lastActor.ID)
}

func TestEliminarMensaje(t *testing.T) {
	r := pedidosRouter(&stubPedidoService{})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodDelete, "/api/pedidos/PED-1", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Pedido eliminado exitosamente")
}
