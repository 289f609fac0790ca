package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/Fraancoboss/WTRACKER/internal/config"
	"github.com/Fraancoboss/WTRACKER/internal/dto"
	"github.com/Fraancoboss/WTRACKER/internal/model"
	"github.com/Fraancoboss/WTRACKER/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"golang.org/x/crypto/bcrypt"
)

type fakeUsuarioRepo struct {
	user *model.Usuario
}

func (r *fakeUsuarioRepo) Create(_ context.Context, _ *model.Usuario) error { return nil }

func (r *fakeUsuarioRepo) FindByNombre(_ context.Context, nombre string) (*model.Usuario, error) {
	if r.user != nil && r.user.Nombre == nombre {
		return r.user, nil
	}
	return nil, errors.New("record not found")
}

func (r *fakeUsuarioRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Usuario, error) {
	if r.user != nil && r.user.ID == id {
		return r.user, nil
	}
	return nil, errors.New("record not found")
}

func (r *fakeUsuarioRepo) List(_ context.Context) ([]model.Usuario, error) { return nil, nil }
func (r *fakeUsuarioRepo) UpdatePasswordHash(_ context.Context, _ uuid.UUID, _ string) error {
	return nil
}
func (r *fakeUsuarioRepo) Desactivar(_ context.Context, _ uuid.UUID) error { return nil }
func (r *fakeUsuarioRepo) Reactivar(_ context.Context, _ uuid.UUID) error  { return nil }

func authFixture(t *testing.T, rol string) (service.AuthService, string) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	hash, err := bcrypt.GenerateFromPassword([]byte("secreto1"), bcrypt.MinCost)
	assert.NoError(t, err)
	repo := &fakeUsuarioRepo{user: &model.Usuario{
		ID: uuid.New(), Nombre: "tester", PasswordHash: string(hash), Rol: rol, Activo: true,
	}}
	svc := service.NewAuthService(repo, &config.Config{
		JWTSecret:          "middleware_test_secret_32_chars!!",
		JWTExpirationHours: 1,
		JWTRefreshHours:    24,
	})
	login, err := svc.Login(context.Background(), dto.LoginRequest{Nombre: "tester", Password: "secreto1"})
	assert.NoError(t, err)
	return svc, login.AccessToken
}

func protectedRouter(svc service.AuthService, permiso string) *gin.Engine {
	r := gin.New()
	grp := r.Group("/", JWTAuth(svc))
	if permiso != "" {
		grp.Use(Require(permiso))
	}
	grp.GET("/recurso", func(c *gin.Context) {
		claims := GetClaims(c)
		c.JSON(http.StatusOK, gin.H{"rol": claims.Rol})
	})
	return r
}

func TestJWTAuthSinToken(t *testing.T) {
	svc, _ := authFixture(t, model.RolAdmin)
	r := protectedRouter(svc, "")

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/recurso", nil))

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "Token no proporcionado")
}

func TestJWTAuthTokenInvalido(t *testing.T) {
	svc, _ := authFixture(t, model.RolAdmin)
	r := protectedRouter(svc, "")

	req := httptest.NewRequest(http.MethodGet, "/recurso", nil)
	req.Header.Set("Authorization", "Bearer no.es.jwt")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "Token inválido o expirado")
}

func TestJWTAuthTokenValido(t *testing.T) {
	svc, token := authFixture(t, model.RolOficina)
	r := protectedRouter(svc, "")

	req := httptest.NewRequest(http.MethodGet, "/recurso", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), model.RolOficina)
}

func TestRequirePermisoDenegado(t *testing.T) {
	svc, token := authFixture(t, model.RolVisualizacion)
	r := protectedRouter(svc, "pedidos:crear")

	req := httptest.NewRequest(http.MethodGet, "/recurso", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Contains(t, w.Body.String(), "Acceso denegado")
}

func TestRequirePermisoConcedido(t *testing.T) {
	svc, token := authFixture(t, model.RolOficina)
	r := protectedRouter(svc, "pedidos:crear")

	req := httptest.NewRequest(http.MethodGet, "/recurso", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRequirePermisoDesconocidoFallaCerrado(t *testing.T) {
	svc, token := authFixture(t, model.RolAdmin)
	r := protectedRouter(svc, "permiso:inexistente")

	req := httptest.NewRequest(http.MethodGet, "/recurso", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestTablaPermisos(t *testing.T) {
	// Eliminar pedidos is Admin-only; actualizar includes the process roles.
	assert.Equal(t, []string{model.RolAdmin}, Permisos["pedidos:eliminar"])
	assert.Contains(t, Permisos["pedidos:actualizar"], model.RolFabricacion)
	assert.Contains(t, Permisos["pedidos:actualizar"], model.RolTransporte)
	assert.NotContains(t, Permisos["pedidos:crear"], model.RolVisualizacion)
}
