package middleware

import (
	"net/http"
	"strings"

	"github.com/Fraancoboss/WTRACKER/internal/model"

	"github.com/gin-gonic/gin"
)

// Permisos is the single authorization table for the whole API.
// Routes declare a capability; the roles that hold it live here.
// Per-fase write eligibility for process roles is finer-grained than a
// role list and is enforced in the pedido service.
var Permisos = map[string][]string{
	"pedidos:crear": {model.RolAdmin, model.RolOficina},
	"pedidos:actualizar": {
		model.RolAdmin, model.RolOficina,
		model.RolFabricacion, model.RolCristal, model.RolPersianas, model.RolTransporte,
	},
	"pedidos:eliminar":     {model.RolAdmin},
	"usuarios:administrar": {model.RolAdmin},
	"auditoria:leer":       {model.RolAdmin},
}

// Require rejects requests whose JWT role does not hold the capability.
// Unknown capabilities deny everything, so a typo fails closed.
func Require(permiso string) gin.HandlerFunc {
	roles := Permisos[permiso]
	allowed := make(map[string]bool, len(roles))
	for _, r := range roles {
		allowed[r] = true
	}
	denegado := "Acceso denegado. Roles permitidos: " + strings.Join(roles, ", ")
	return func(c *gin.Context) {
		claims := GetClaims(c)
		if claims == nil {
			abort(c, http.StatusUnauthorized, "Usuario no autenticado")
			return
		}
		if !allowed[claims.Rol] {
			abort(c, http.StatusForbidden, denegado)
			return
		}
		c.Next()
	}
}
