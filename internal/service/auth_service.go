package service

import (
	"context"
	"time"

	"github.com/Fraancoboss/WTRACKER/internal/apierror"
	"github.com/Fraancoboss/WTRACKER/internal/config"
	"github.com/Fraancoboss/WTRACKER/internal/dto"
	"github.com/Fraancoboss/WTRACKER/internal/model"
	"github.com/Fraancoboss/WTRACKER/internal/repository"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"
)

// TokenClaims is the payload embedded in both access and refresh tokens.
type TokenClaims struct {
	UserID string `json:"id"`
	Nombre string `json:"nombre"`
	Rol    string `json:"rol"`
	jwt.RegisteredClaims
}

type AuthService interface {
	Register(ctx context.Context, req dto.RegisterRequest) (*dto.AuthResponse, error)
	Login(ctx context.Context, req dto.LoginRequest) (*dto.AuthResponse, error)
	VerifyToken(token string) (*TokenClaims, error)
	RefreshAccessToken(ctx context.Context, refreshToken string) (*dto.RefreshResponse, error)
	GetUsuario(ctx context.Context, id uuid.UUID) (*dto.UsuarioResponse, error)
	ChangePassword(ctx context.Context, userID uuid.UUID, req dto.ChangePasswordRequest) error

	ListarUsuarios(ctx context.Context) ([]dto.UsuarioResponse, error)
	DesactivarUsuario(ctx context.Context, id uuid.UUID) error
	ReactivarUsuario(ctx context.Context, id uuid.UUID) error
}

type authService struct {
	repo repository.UsuarioRepository
	cfg  *config.Config
}

func NewAuthService(repo repository.UsuarioRepository, cfg *config.Config) AuthService {
	return &authService{repo: repo, cfg: cfg}
}

func (s *authService) Register(ctx context.Context, req dto.RegisterRequest) (*dto.AuthResponse, error) {
	// Validation thresholds match the route-level contract: nombre >= 3,
	// password >= 6, rol required. The DTO tags enforce the same rules at
	// bind time; re-checking here keeps the service safe when called
	// directly (seeds, tests, CLI).
	if len(req.Nombre) < 3 {
		return nil, apierror.NewValidation("El nombre debe tener al menos 3 caracteres")
	}
	if len(req.Password) < 6 {
		return nil, apierror.NewValidation("La contraseña debe tener al menos 6 caracteres")
	}
	if req.Rol == "" {
		return nil, apierror.NewValidation("El rol es requerido")
	}

	if _, err := s.repo.FindByNombre(ctx, req.Nombre); err == nil {
		return nil, apierror.NewConflict("El usuario ya existe")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), s.bcryptCost())
	if err != nil {
		return nil, err
	}

	user := &model.Usuario{
		Nombre:       req.Nombre,
		Email:        req.Email,
		PasswordHash: string(hash),
		Rol:          req.Rol,
		Activo:       true,
	}
	if err := s.repo.Create(ctx, user); err != nil {
		return nil, apierror.NewDatabase("Error al registrar usuario", err)
	}

	log.Info().Str("usuario_id", user.ID.String()).Str("nombre", user.Nombre).
		Str("rol", user.Rol).Msg("usuario registrado")

	return s.authResponse(user)
}

func (s *authService) Login(ctx context.Context, req dto.LoginRequest) (*dto.AuthResponse, error) {
	user, err := s.repo.FindByNombre(ctx, req.Nombre)
	if err != nil {
		// Same message as a password mismatch so a probe cannot tell
		// which of the two failed.
		return nil, apierror.NewAuthentication("Credenciales inválidas")
	}

	if !user.Activo {
		return nil, apierror.NewAuthentication("Usuario desactivado")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, apierror.NewAuthentication("Credenciales inválidas")
	}

	log.Info().Str("usuario_id", user.ID.String()).Str("nombre", user.Nombre).Msg("login")

	return s.authResponse(user)
}

func (s *authService) VerifyToken(tokenStr string) (*TokenClaims, error) {
	claims := &TokenClaims{}
	token, err := jwt.ParseWithClaims(tokenStr, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return []byte(s.cfg.JWTSecret), nil
	})
	if err != nil || !token.Valid {
		return nil, apierror.NewAuthentication("Token inválido o expirado")
	}
	return claims, nil
}

func (s *authService) RefreshAccessToken(ctx context.Context, refreshToken string) (*dto.RefreshResponse, error) {
	claims, err := s.VerifyToken(refreshToken)
	if err != nil {
		return nil, apierror.NewAuthentication("Token de refresco inválido")
	}

	uid, err := uuid.Parse(claims.UserID)
	if err != nil {
		return nil, apierror.NewAuthentication("Token de refresco inválido")
	}

	user, err := s.repo.FindByID(ctx, uid)
	if err != nil || !user.Activo {
		return nil, apierror.NewAuthentication("Usuario no válido")
	}

	accessToken, err := s.generateToken(user, time.Duration(s.cfg.JWTExpirationHours)*time.Hour)
	if err != nil {
		return nil, err
	}
	return &dto.RefreshResponse{AccessToken: accessToken}, nil
}

func (s *authService) GetUsuario(ctx context.Context, id uuid.UUID) (*dto.UsuarioResponse, error) {
	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, apierror.NewNotFound("Usuario no encontrado")
	}
	resp := usuarioToResponse(user)
	return &resp, nil
}

func (s *authService) ChangePassword(ctx context.Context, userID uuid.UUID, req dto.ChangePasswordRequest) error {
	if len(req.NewPassword) < 6 {
		return apierror.NewValidation("La nueva contraseña debe tener al menos 6 caracteres")
	}

	user, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		return apierror.NewAuthentication("Usuario no encontrado")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.OldPassword)); err != nil {
		return apierror.NewAuthentication("Contraseña actual incorrecta")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), s.bcryptCost())
	if err != nil {
		return err
	}
	if err := s.repo.UpdatePasswordHash(ctx, userID, string(hash)); err != nil {
		return apierror.NewDatabase("Error al cambiar contraseña", err)
	}

	log.Info().Str("usuario_id", userID.String()).Msg("contraseña cambiada")
	return nil
}

func (s *authService) ListarUsuarios(ctx context.Context) ([]dto.UsuarioResponse, error) {
	users, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	resp := make([]dto.UsuarioResponse, len(users))
	for i, u := range users {
		resp[i] = usuarioToResponse(&u)
	}
	return resp, nil
}

func (s *authService) DesactivarUsuario(ctx context.Context, id uuid.UUID) error {
	return s.repo.Desactivar(ctx, id)
}

func (s *authService) ReactivarUsuario(ctx context.Context, id uuid.UUID) error {
	return s.repo.Reactivar(ctx, id)
}

func (s *authService) bcryptCost() int {
	if s.cfg.BcryptCost >= bcrypt.MinCost && s.cfg.BcryptCost <= bcrypt.MaxCost {
		return s.cfg.BcryptCost
	}
	return bcrypt.DefaultCost
}

func (s *authService) authResponse(user *model.Usuario) (*dto.AuthResponse, error) {
	accessToken, err := s.generateToken(user, time.Duration(s.cfg.JWTExpirationHours)*time.Hour)
	if err != nil {
		return nil, err
	}
	refreshToken, err := s.generateToken(user, time.Duration(s.cfg.JWTRefreshHours)*time.Hour)
	if err != nil {
		return nil, err
	}
	return &dto.AuthResponse{
		User:         usuarioToResponse(user),
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
	}, nil
}

func (s *authService) generateToken(user *model.Usuario, duration time.Duration) (string, error) {
	now := time.Now()
	claims := TokenClaims{
		UserID: user.ID.String(),
		Nombre: user.Nombre,
		Rol:    user.Rol,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(duration)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.cfg.JWTSecret))
}

// usuarioToResponse strips the password hash; it must never reach a client.
func usuarioToResponse(u *model.Usuario) dto.UsuarioResponse {
	return dto.UsuarioResponse{
		ID:     u.ID.String(),
		Nombre: u.Nombre,
		Email:  u.Email,
		Rol:    u.Rol,
		Activo: u.Activo,
	}
}
