package auth_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/jhoicas/sibci-api/internal/application/auth"
	"github.com/jhoicas/sibci-api/internal/application/dto"
	"github.com/jhoicas/sibci-api/internal/domain"
	"github.com/jhoicas/sibci-api/internal/domain/entity"
	"github.com/jhoicas/sibci-api/internal/testutil"
	"github.com/jhoicas/sibci-api/pkg/jwt"
)

var jwtCfg = auth.JWTConfig{Secret: "secreto-de-prueba", ExpMinutes: 60, Issuer: "sibci"}

func newUser(t *testing.T, id, username, password string, role entity.Role) *entity.User {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	return &entity.User{ID: id, Username: username, PasswordHash: string(hash), FullName: "Nombre " + username, Email: username + "@sibci.gob.ve", Role: role}
}

func TestLogin_OK(t *testing.T) {
	users := testutil.NewUsers(newUser(t, "u1", "jefe1", "clave123", entity.RoleJefe))
	uc := auth.NewAuthUseCase(users, &testutil.Captcha{}, jwtCfg, false)

	out, err := uc.Login(context.Background(), dto.LoginRequest{Username: "jefe1", Password: "clave123"}, "127.0.0.1")
	require.NoError(t, err)
	assert.Equal(t, "jefe1", out.User.Username)
	assert.Equal(t, "jefe", out.User.Role)
	assert.Empty(t, out.User.Email)

	claims, err := jwt.Parse(jwtCfg.Secret, out.Token)
	require.NoError(t, err)
	assert.Equal(t, "u1", claims.UserID)
	assert.Equal(t, "jefe", claims.Role)
	assert.Equal(t, "sibci", claims.Issuer)
}

func TestLogin_CredencialesInvalidasMismoError(t *testing.T) {
	users := testutil.NewUsers(newUser(t, "u1", "jefe1", "clave123", entity.RoleJefe))
	uc := auth.NewAuthUseCase(users, &testutil.Captcha{}, jwtCfg, false)
	ctx := context.Background()

	_, errUser := uc.Login(ctx, dto.LoginRequest{Username: "nadie", Password: "clave123"}, "")
	_, errPass := uc.Login(ctx, dto.LoginRequest{Username: "jefe1", Password: "otra"}, "")
	assert.ErrorIs(t, errUser, domain.ErrInvalidCredentials)
	assert.ErrorIs(t, errPass, domain.ErrInvalidCredentials)
	assert.Equal(t, errUser.Error(), errPass.Error())

	_, err := uc.Login(ctx, dto.LoginRequest{Username: "jefe1"}, "")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestLogin_Captcha(t *testing.T) {
	users := testutil.NewUsers(newUser(t, "u1", "jefe1", "clave123", entity.RoleJefe))
	ctx := context.Background()
	in := dto.LoginRequest{Username: "jefe1", Password: "clave123", CaptchaToken: "tok"}

	cases := []struct {
		name    string
		captcha *testutil.Captcha
		token   string
		wantErr error
	}{
		{"deshabilitado se omite", &testutil.Captcha{On: false}, "", nil},
		{"token vacío", &testutil.Captcha{On: true, Result: true}, "", domain.ErrCaptchaFailed},
		{"success=false", &testutil.Captcha{On: true, Result: false}, "tok", domain.ErrCaptchaFailed},
		{"fallo de transporte", &testutil.Captcha{On: true, Err: errors.New("timeout")}, "tok", domain.ErrCaptchaFailed},
		{"válido", &testutil.Captcha{On: true, Result: true}, "tok", nil},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			uc := auth.NewAuthUseCase(users, tc.captcha, jwtCfg, false)
			req := in
			req.CaptchaToken = tc.token
			_, err := uc.Login(ctx, req, "10.0.0.1")
			if tc.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tc.wantErr)
		})
	}
}

func TestAuthenticate(t *testing.T) {
	uc := auth.NewAuthUseCase(testutil.NewUsers(), &testutil.Captcha{}, jwtCfg, false)

	tok, err := jwt.Generate(jwtCfg.Secret, jwt.Identity{UserID: "u1", Username: "admin", Role: "admin", FullName: "Admin"}, "sibci", 5)
	require.NoError(t, err)
	s, err := uc.Authenticate(tok)
	require.NoError(t, err)
	assert.Equal(t, entity.RoleAdmin, s.Role)
	assert.Equal(t, "admin", s.Caller().Username)

	bad, err := jwt.Generate(jwtCfg.Secret, jwt.Identity{UserID: "u1", Username: "x", Role: "root"}, "sibci", 5)
	require.NoError(t, err)
	_, err = uc.Authenticate(bad)
	assert.ErrorIs(t, err, domain.ErrUnauthorized)

	expired, err := jwt.Generate(jwtCfg.Secret, jwt.Identity{UserID: "u1", Username: "x", Role: "admin"}, "sibci", -1)
	require.NoError(t, err)
	_, err = uc.Authenticate(expired)
	assert.ErrorIs(t, err, domain.ErrUnauthorized)

	_, err = uc.Authenticate("no-es-un-token")
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}

func TestMe_UsuarioEliminado(t *testing.T) {
	users := testutil.NewUsers(newUser(t, "u1", "jefe1", "clave123", entity.RoleJefe))
	uc := auth.NewAuthUseCase(users, &testutil.Captcha{}, jwtCfg, false)
	ctx := context.Background()

	out, err := uc.Me(ctx, &auth.Session{UserID: "u1"})
	require.NoError(t, err)
	assert.Equal(t, "jefe1@sibci.gob.ve", out.User.Email)

	require.NoError(t, users.Delete(ctx, "u1"))
	_, err = uc.Me(ctx, &auth.Session{UserID: "u1"})
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
}

func TestRegister(t *testing.T) {
	ctx := context.Background()
	in := dto.RegisterRequest{Username: "nuevo", Password: "clave123", FullName: "Nuevo", Email: "nuevo@sibci.gob.ve"}

	off := auth.NewAuthUseCase(testutil.NewUsers(), &testutil.Captcha{}, jwtCfg, false)
	_, err := off.Register(ctx, in, "")
	assert.ErrorIs(t, err, domain.ErrRegistrationOff)

	users := testutil.NewUsers()
	on := auth.NewAuthUseCase(users, &testutil.Captcha{}, jwtCfg, true)
	out, err := on.Register(ctx, in, "")
	require.NoError(t, err)
	assert.Equal(t, "jefe", out.User.Role)
	assert.Equal(t, 1, users.Len())

	_, err = on.Register(ctx, in, "")
	assert.ErrorIs(t, err, domain.ErrDuplicate)
}
