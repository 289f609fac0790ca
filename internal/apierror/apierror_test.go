package apierror

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConstructoresAsignanStatus(t *testing.T) {
	assert.Equal(t, http.StatusBadRequest, NewValidation("x").Status)
	assert.Equal(t, http.StatusUnauthorized, NewAuthentication("x").Status)
	assert.Equal(t, http.StatusForbidden, NewAuthorization("x").Status)
	assert.Equal(t, http.StatusNotFound, NewNotFound("x").Status)
	assert.Equal(t, http.StatusConflict, NewConflict("x").Status)
	assert.Equal(t, http.StatusInternalServerError, NewDatabase("x", nil).Status)
}

func TestUnwrapPreservaCausa(t *testing.T) {
	cause := errors.New("pq: connection refused")
	err := NewDatabase("Error al crear pedido", cause)

	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "Error al crear pedido: pq: connection refused", err.Error())
}

func TestFromExtraeTipado(t *testing.T) {
	typed := NewConflict("El pedido ya existe")
	wrapped := fmt.Errorf("tx failed: %w", typed)

	got := From(wrapped)
	assert.Equal(t, http.StatusConflict, got.Status)
	assert.Equal(t, "El pedido ya existe", got.Message)
}

func TestFromErrorDesconocidoEs500Generico(t *testing.T) {
	got := From(errors.New("algo interno con detalles sensibles"))
	assert.Equal(t, http.StatusInternalServerError, got.Status)
	// Internal detail never leaks into the client message
	assert.Equal(t, "Error interno del servidor", got.Message)
	assert.NotNil(t, got.Err)
}
