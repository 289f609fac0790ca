package handler

import (
	"net/http"

	"github.com/Fraancoboss/WTRACKER/internal/apierror"
	"github.com/Fraancoboss/WTRACKER/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// UsuariosHandler exposes the admin-only user management endpoints.
type UsuariosHandler struct{ svc service.AuthService }

func NewUsuariosHandler(svc service.AuthService) *UsuariosHandler {
	return &UsuariosHandler{svc: svc}
}

func (h *UsuariosHandler) Listar(c *gin.Context) {
	resp, err := h.svc.ListarUsuarios(c.Request.Context())
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, http.StatusOK, resp)
}

// Desactivar performs a soft delete: the usuario keeps its audit trail
// but can no longer log in.
func (h *UsuariosHandler) Desactivar(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		fail(c, apierror.NewValidation("ID de usuario inválido"))
		return
	}
	if err := h.svc.DesactivarUsuario(c.Request.Context(), id); err != nil {
		fail(c, err)
		return
	}
	okMessage(c, "Usuario desactivado exitosamente")
}

func (h *UsuariosHandler) Reactivar(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		fail(c, apierror.NewValidation("ID de usuario inválido"))
		return
	}
	if err := h.svc.ReactivarUsuario(c.Request.Context(), id); err != nil {
		fail(c, err)
		return
	}
	okMessage(c, "Usuario reactivado exitosamente")
}
