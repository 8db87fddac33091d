package http

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/sibci-api/internal/application/auth"
	"github.com/jhoicas/sibci-api/internal/application/dto"
	"github.com/jhoicas/sibci-api/internal/domain/policy"
)

// LocalSession clave de c.Locals donde queda la sesión autenticada.
const LocalSession = "session"

// tokenVerifier es lo que el middleware necesita del caso de uso de auth.
type tokenVerifier interface {
	Authenticate(token string) (*auth.Session, error)
}

// AuthMiddleware valida el Bearer Token y deja la sesión en c.Locals.
// Sin token -> 401 MISSING_TOKEN; token inválido, expirado o con rol desconocido -> 403 INVALID_TOKEN.
func AuthMiddleware(v tokenVerifier) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get(fiber.HeaderAuthorization)
		parts := strings.SplitN(authHeader, " ", 2)
		if authHeader == "" || len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || strings.TrimSpace(parts[1]) == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "MISSING_TOKEN", Message: "Authorization: Bearer <token> requerido"})
		}
		session, err := v.Authenticate(strings.TrimSpace(parts[1]))
		if err != nil {
			return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{Code: "INVALID_TOKEN", Message: "token inválido o expirado"})
		}
		c.Locals(LocalSession, session)
		return c.Next()
	}
}

// RequireAction corta con 403 si el rol de la sesión no puede ejecutar la acción.
// Debe usarse después de AuthMiddleware.
func RequireAction(action policy.Action) fiber.Handler {
	return func(c *fiber.Ctx) error {
		s := GetSession(c)
		if s == nil {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "MISSING_TOKEN", Message: "sesión no encontrada"})
		}
		if err := policy.Check(s.Role, action); err != nil {
			return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{Code: "FORBIDDEN", Message: err.Error()})
		}
		return c.Next()
	}
}

// GetSession devuelve la sesión del contexto (nil antes de AuthMiddleware).
func GetSession(c *fiber.Ctx) *auth.Session {
	s, _ := c.Locals(LocalSession).(*auth.Session)
	return s
}

func caller(c *fiber.Ctx) policy.Caller {
	if s := GetSession(c); s != nil {
		return s.Caller()
	}
	return policy.Caller{}
}
