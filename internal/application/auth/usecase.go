package auth

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"

	"github.com/jhoicas/sibci-api/internal/application/dto"
	"github.com/jhoicas/sibci-api/internal/application/ports"
	"github.com/jhoicas/sibci-api/internal/domain"
	"github.com/jhoicas/sibci-api/internal/domain/entity"
	"github.com/jhoicas/sibci-api/internal/domain/policy"
	"github.com/jhoicas/sibci-api/internal/domain/repository"
	"github.com/jhoicas/sibci-api/pkg/jwt"
)

// JWTConfig configuración para generación de tokens.
type JWTConfig struct {
	Secret     string
	ExpMinutes int
	Issuer     string
}

// Session es la identidad extraída de un token válido.
type Session struct {
	UserID   string
	Username string
	FullName string
	Role     entity.Role
}

// Caller convierte la sesión en la identidad que consume la política de acceso.
func (s *Session) Caller() policy.Caller {
	return policy.Caller{UserID: s.UserID, Username: s.Username, Role: s.Role}
}

// AuthUseCase emite y valida sesiones: login con reCAPTCHA, verificación de token y
// el registro público heredado (apagado salvo que la configuración lo habilite).
type AuthUseCase struct {
	userRepo            repository.UserRepository
	captcha             ports.CaptchaVerifier
	jwtCfg              JWTConfig
	registrationEnabled bool
}

// NewAuthUseCase construye el caso de uso de auth.
func NewAuthUseCase(userRepo repository.UserRepository, captcha ports.CaptchaVerifier, jwtCfg JWTConfig, registrationEnabled bool) *AuthUseCase {
	return &AuthUseCase{userRepo: userRepo, captcha: captcha, jwtCfg: jwtCfg, registrationEnabled: registrationEnabled}
}

// Login verifica reCAPTCHA, usuario y contraseña; genera JWT y retorna token + usuario.
// Usuario inexistente y contraseña incorrecta devuelven el mismo error.
func (uc *AuthUseCase) Login(ctx context.Context, in dto.LoginRequest, remoteIP string) (*dto.LoginResponse, error) {
	username := strings.TrimSpace(in.Username)
	if username == "" || in.Password == "" {
		return nil, fmt.Errorf("%w: usuario y contraseña son requeridos", domain.ErrInvalidInput)
	}
	if err := uc.checkCaptcha(ctx, in.CaptchaToken, remoteIP); err != nil {
		return nil, err
	}

	user, err := uc.userRepo.GetByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, domain.ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(in.Password)); err != nil {
		return nil, domain.ErrInvalidCredentials
	}
	return uc.issue(user)
}

// Register crea un jefe sin departamento. Solo disponible si la configuración lo habilita.
func (uc *AuthUseCase) Register(ctx context.Context, in dto.RegisterRequest, remoteIP string) (*dto.LoginResponse, error) {
	if !uc.registrationEnabled {
		return nil, domain.ErrRegistrationOff
	}
	if err := uc.checkCaptcha(ctx, in.CaptchaToken, remoteIP); err != nil {
		return nil, err
	}
	username := strings.TrimSpace(in.Username)
	existing, err := uc.userRepo.GetByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, fmt.Errorf("%w: el usuario ya existe", domain.ErrDuplicate)
	}
	hash, err := HashPassword(in.Password)
	if err != nil {
		return nil, err
	}
	now := time.Now()
	user := &entity.User{
		ID:           uuid.New().String(),
		Username:     username,
		PasswordHash: hash,
		FullName:     strings.TrimSpace(in.FullName),
		Email:        strings.TrimSpace(in.Email),
		Role:         entity.RoleJefe,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := uc.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}
	log.Info().Str("username", user.Username).Msg("usuario registrado por autoservicio")
	return uc.issue(user)
}

// Authenticate valida firma, expiración y rol del token.
func (uc *AuthUseCase) Authenticate(token string) (*Session, error) {
	claims, err := jwt.Parse(uc.jwtCfg.Secret, token)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrUnauthorized, err)
	}
	role, ok := entity.ParseRole(claims.Role)
	if !ok || claims.UserID == "" || claims.Username == "" {
		return nil, fmt.Errorf("%w: claims incompletos", domain.ErrUnauthorized)
	}
	return &Session{
		UserID:   claims.UserID,
		Username: claims.Username,
		FullName: claims.FullName,
		Role:     role,
	}, nil
}

// Me recarga el usuario de la sesión (puede haber sido eliminado después de emitir el token).
func (uc *AuthUseCase) Me(ctx context.Context, s *Session) (*dto.VerifyResponse, error) {
	user, err := uc.userRepo.GetByID(ctx, s.UserID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, domain.ErrUserNotFound
	}
	return &dto.VerifyResponse{User: toSessionUser(user)}, nil
}

func (uc *AuthUseCase) checkCaptcha(ctx context.Context, token, remoteIP string) error {
	if !uc.captcha.Enabled() {
		log.Warn().Msg("RECAPTCHA_SECRET_KEY no configurado: verificación reCAPTCHA omitida")
		return nil
	}
	if token == "" {
		return domain.ErrCaptchaFailed
	}
	ok, err := uc.captcha.Verify(ctx, token, remoteIP)
	if err != nil {
		log.Error().Err(err).Msg("verificando reCAPTCHA")
		return domain.ErrCaptchaFailed
	}
	if !ok {
		return domain.ErrCaptchaFailed
	}
	return nil
}

func (uc *AuthUseCase) issue(user *entity.User) (*dto.LoginResponse, error) {
	token, err := jwt.Generate(uc.jwtCfg.Secret, jwt.Identity{
		UserID:   user.ID,
		Username: user.Username,
		Role:     string(user.Role),
		FullName: user.FullName,
	}, uc.jwtCfg.Issuer, uc.jwtCfg.ExpMinutes)
	if err != nil {
		return nil, err
	}
	su := toSessionUser(user)
	su.Email = ""
	return &dto.LoginResponse{Token: token, User: su}, nil
}

// HashPassword genera el hash bcrypt de una contraseña.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hash), nil
}

func toSessionUser(u *entity.User) dto.SessionUser {
	return dto.SessionUser{
		ID:       u.ID,
		Username: u.Username,
		FullName: u.FullName,
		Email:    u.Email,
		Role:     string(u.Role),
	}
}
