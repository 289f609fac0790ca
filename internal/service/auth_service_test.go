package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/Fraancoboss/WTRACKER/internal/apierror"
	"github.com/Fraancoboss/WTRACKER/internal/config"
	"github.com/Fraancoboss/WTRACKER/internal/dto"
	"github.com/Fraancoboss/WTRACKER/internal/model"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"golang.org/x/crypto/bcrypt"
)

// ── In-memory usuario repo stub ───────────────────────────────────────────────

type stubUsuarioRepo struct {
	users map[string]*model.Usuario
}

func newStubUsuarioRepo() *stubUsuarioRepo {
	return &stubUsuarioRepo{users: make(map[string]*model.Usuario)}
}

func (r *stubUsuarioRepo) Create(_ context.Context, u *model.Usuario) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	r.users[u.Nombre] = u
	return nil
}

func (r *stubUsuarioRepo) FindByNombre(_ context.Context, nombre string) (*model.Usuario, error) {
	u, ok := r.users[nombre]
	if !ok {
		return nil, errors.New("record not found")
	}
	return u, nil
}

func (r *stubUsuarioRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Usuario, error) {
	for _, u := range r.users {
		if u.ID == id {
			return u, nil
		}
	}
	return nil, errors.New("record not found")
}

func (r *stubUsuarioRepo) List(_ context.Context) ([]model.Usuario, error) {
	users := make([]model.Usuario, 0, len(r.users))
	for _, u := range r.users {
		users = append(users, *u)
	}
	return users, nil
}

func (r *stubUsuarioRepo) UpdatePasswordHash(_ context.Context, id uuid.UUID, hash string) error {
	for _, u := range r.users {
		if u.ID == id {
			u.PasswordHash = hash
			return nil
		}
	}
	return errors.New("record not found")
}

func (r *stubUsuarioRepo) Desactivar(_ context.Context, id uuid.UUID) error {
	for _, u := range r.users {
		if u.ID == id {
			u.Activo = false
			return nil
		}
	}
	return errors.New("record not found")
}

func (r *stubUsuarioRepo) Reactivar(_ context.Context, id uuid.UUID) error {
	for _, u := range r.users {
		if u.ID == id {
			u.Activo = true
			return nil
		}
	}
	return errors.New("record not found")
}

// ── Helpers ───────────────────────────────────────────────────────────────────

const testSecret = "test_jwt_secret_32_chars_minimum!"

func newTestCfg() *config.Config {
	return &config.Config{
		JWTSecret:          testSecret,
		JWTExpirationHours: 1,
		JWTRefreshHours:    24,
		BcryptCost:         bcrypt.MinCost, // fast tests
	}
}

func seedUsuario(t *testing.T, repo *stubUsuarioRepo, nombre, password, rol string) *model.Usuario {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	assert.NoError(t, err)
	u := &model.Usuario{
		ID: uuid.New(), Nombre: nombre,
		PasswordHash: string(hash), Rol: rol, Activo: true,
	}
	repo.users[nombre] = u
	return u
}

// ── Tests ─────────────────────────────────────────────────────────────────────

func TestRegisterYLogin(t *testing.T) {
	repo := newStubUsuarioRepo()
	svc := NewAuthService(repo, newTestCfg())
	ctx := context.Background()

	resp, err := svc.Register(ctx, dto.RegisterRequest{
		Nombre: "maria.lopez", Password: "secreto1", Rol: model.RolOficina,
	})
	assert.NoError(t, err)
	assert.Equal(t, "maria.lopez", resp.User.Nombre)
	assert.Equal(t, model.RolOficina, resp.User.Rol)
	assert.NotEmpty(t, resp.AccessToken)
	assert.NotEmpty(t, resp.RefreshToken)

	login, err := svc.Login(ctx, dto.LoginRequest{Nombre: "maria.lopez", Password: "secreto1"})
	assert.NoError(t, err)
	assert.Equal(t, resp.User.ID, login.User.ID)

	claims, err := svc.VerifyToken(login.AccessToken)
	assert.NoError(t, err)
	assert.Equal(t, resp.User.ID, claims.UserID)
	assert.Equal(t, model.RolOficina, claims.Rol)
}

func TestRegisterValidaciones(t *testing.T) {
	svc := NewAuthService(newStubUsuarioRepo(), newTestCfg())
	ctx := context.Background()

	_, err := svc.Register(ctx, dto.RegisterRequest{Nombre: "ab", Password: "secreto1", Rol: model.RolAdmin})
	assert.EqualError(t, err, "El nombre debe tener al menos 3 caracteres")

	_, err = svc.Register(ctx, dto.RegisterRequest{Nombre: "abc", Password: "corta", Rol: model.RolAdmin})
	assert.EqualError(t, err, "La contraseña debe tener al menos 6 caracteres")

	_, err = svc.Register(ctx, dto.RegisterRequest{Nombre: "abc", Password: "secreto1"})
	assert.EqualError(t, err, "El rol es requerido")
}

func TestRegisterDuplicadoEsConflict(t *testing.T) {
	repo := newStubUsuarioRepo()
	svc := NewAuthService(repo, newTestCfg())
	seedUsuario(t, repo, "admin", "admin123", model.RolAdmin)

	_, err := svc.Register(context.Background(), dto.RegisterRequest{
		Nombre: "admin", Password: "otracosa", Rol: model.RolOficina,
	})
	var apiErr *apierror.Error
	assert.ErrorAs(t, err, &apiErr)
	assert.Equal(t, 409, apiErr.Status)
	assert.Equal(t, "El usuario ya existe", apiErr.Message)
}

func TestLoginCredencialesInvalidasIndistinguibles(t *testing.T) {
	repo := newStubUsuarioRepo()
	svc := NewAuthService(repo, newTestCfg())
	seedUsuario(t, repo, "juan", "correcta1", model.RolFabricacion)
	ctx := context.Background()

	// Wrong password and unknown user yield the same message.
	_, errPwd := svc.Login(ctx, dto.LoginRequest{Nombre: "juan", Password: "incorrecta"})
	_, errUser := svc.Login(ctx, dto.LoginRequest{Nombre: "nadie", Password: "loquesea"})
	assert.EqualError(t, errPwd, "Credenciales inválidas")
	assert.EqualError(t, errUser, "Credenciales inválidas")
}

func TestLoginUsuarioDesactivado(t *testing.T) {
	repo := newStubUsuarioRepo()
	svc := NewAuthService(repo, newTestCfg())
	u := seedUsuario(t, repo, "paula", "secreto1", model.RolCristal)
	u.Activo = false

	_, err := svc.Login(context.Background(), dto.LoginRequest{Nombre: "paula", Password: "secreto1"})
	assert.EqualError(t, err, "Usuario desactivado")
}

func TestVerifyTokenRechazaFirmaAjena(t *testing.T) {
	repo := newStubUsuarioRepo()
	svcA := NewAuthService(repo, newTestCfg())
	otherCfg := newTestCfg()
	otherCfg.JWTSecret = "otro_secreto_totalmente_distinto!"
	svcB := NewAuthService(repo, otherCfg)

	seedUsuario(t, repo, "ana", "secreto1", model.RolAdmin)
	login, err := svcA.Login(context.Background(), dto.LoginRequest{Nombre: "ana", Password: "secreto1"})
	assert.NoError(t, err)

	_, err = svcB.VerifyToken(login.AccessToken)
	assert.EqualError(t, err, "Token inválido o expirado")
}

func TestRefreshDevuelveSoloAccessToken(t *testing.T) {
	repo := newStubUsuarioRepo()
	svc := NewAuthService(repo, newTestCfg())
	seedUsuario(t, repo, "ana", "secreto1", model.RolAdmin)
	ctx := context.Background()

	login, err := svc.Login(ctx, dto.LoginRequest{Nombre: "ana", Password: "secreto1"})
	assert.NoError(t, err)

	resp, err := svc.RefreshAccessToken(ctx, login.RefreshToken)
	assert.NoError(t, err)
	assert.NotEmpty(t, resp.AccessToken)

	claims, err := svc.VerifyToken(resp.AccessToken)
	assert.NoError(t, err)
	assert.Equal(t, "ana", claims.Nombre)
	assert.True(t, claims.ExpiresAt.After(time.Now()))
}

func TestRefreshConTokenBasura(t *testing.T) {
	svc := NewAuthService(newStubUsuarioRepo(), newTestCfg())
	_, err := svc.RefreshAccessToken(context.Background(), "no-es-un-jwt")
	assert.EqualError(t, err, "Token de refresco inválido")
}

func TestRefreshUsuarioDesactivado(t *testing.T) {
	repo := newStubUsuarioRepo()
	svc := NewAuthService(repo, newTestCfg())
	u := seedUsuario(t, repo, "ana", "secreto1", model.RolAdmin)

	login, err := svc.Login(context.Background(), dto.LoginRequest{Nombre: "ana", Password: "secreto1"})
	assert.NoError(t, err)

	u.Activo = false
	_, err = svc.RefreshAccessToken(context.Background(), login.RefreshToken)
	assert.EqualError(t, err, "Usuario no válido")
}

func TestChangePassword(t *testing.T) {
	repo := newStubUsuarioRepo()
	svc := NewAuthService(repo, newTestCfg())
	u := seedUsuario(t, repo, "ana", "secreto1", model.RolAdmin)
	ctx := context.Background()

	err := svc.ChangePassword(ctx, u.ID, dto.ChangePasswordRequest{
		OldPassword: "equivocada", NewPassword: "nueva123",
	})
	assert.EqualError(t, err, "Contraseña actual incorrecta")

	err = svc.ChangePassword(ctx, u.ID, dto.ChangePasswordRequest{
		OldPassword: "secreto1", NewPassword: "nueva123",
	})
	assert.NoError(t, err)

	_, err = svc.Login(ctx, dto.LoginRequest{Nombre: "ana", Password: "nueva123"})
	assert.NoError(t, err)
}

func TestDesactivarYReactivarUsuario(t *testing.T) {
	repo := newStubUsuarioRepo()
	svc := NewAuthService(repo, newTestCfg())
	u := seedUsuario(t, repo, "ana", "secreto1", model.RolOficina)
	ctx := context.Background()

	assert.NoError(t, svc.DesactivarUsuario(ctx, u.ID))
	_, err := svc.Login(ctx, dto.LoginRequest{Nombre: "ana", Password: "secreto1"})
	assert.EqualError(t, err, "Usuario desactivado")

	assert.NoError(t, svc.ReactivarUsuario(ctx, u.ID))
	_, err = svc.Login(ctx, dto.LoginRequest{Nombre: "ana", Password: "secreto1"})
	assert.NoError(t, err)
}
