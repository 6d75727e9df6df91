package http

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Gastos-api/internal/application/dto"
	"github.com/jhoicas/Gastos-api/internal/domain"
	"github.com/jhoicas/Gastos-api/internal/domain/entity"
	"github.com/jhoicas/Gastos-api/pkg/jwt"
)

// Locals keys de la sesión en Fiber.
const (
	LocalIdentity  = "identity"
	LocalUserID    = "user_id"
	LocalCompanyID = "company_id"
	LocalRoles     = "roles"
	localCookie    = "session_cookie"
	localError     = "handler_error"
)

// sessionChecker es el contrato mínimo que necesita el middleware para validar la sesión contra la DB.
// Lo implementa *auth.AuthUseCase.
type sessionChecker interface {
	CheckSession(ctx context.Context, id *jwt.Identity) error
}

// AuthConfig parámetros del middleware de sesión.
type AuthConfig struct {
	Secret       string
	CookieName   string
	CookieSecure bool
	Sessions     sessionChecker // nil = solo se valida la firma del token
}

// AuthMiddleware acepta el token por Authorization: Bearer o por la cookie de sesión, valida
// firma y expiración y carga la identidad en c.Locals. Una sesión inconsistente borra la cookie
// y responde 401 SESSION_ERROR.
func AuthMiddleware(cfg AuthConfig) fiber.Handler {
	return func(c *fiber.Ctx) error {
		c.Locals(localCookie, sessionCookie{name: cfg.CookieName, secure: cfg.CookieSecure})
		tokenString, fromCookie, errResp := extractToken(c, cfg.CookieName)
		if errResp != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(errResp)
		}
		id, err := jwt.Parse(cfg.Secret, tokenString)
		if err != nil {
			if fromCookie {
				clearSessionCookie(c, cfg.CookieName, cfg.CookieSecure)
			}
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "INVALID_TOKEN", Message: "token inválido o expirado"})
		}
		if cfg.Sessions != nil {
			if err := cfg.Sessions.CheckSession(c.UserContext(), id); err != nil {
				if errors.Is(err, domain.ErrSession) {
					return sessionError(c)
				}
				return c.Status(fiber.StatusServiceUnavailable).JSON(dto.ErrorResponse{
					Code: "SESSION_CHECK_FAILED", Message: "no se pudo validar la sesión, intente más tarde",
				})
			}
		}
		c.Locals(LocalIdentity, id)
		c.Locals(LocalUserID, id.UserID)
		c.Locals(LocalCompanyID, id.CompanyID)
		c.Locals(LocalRoles, id.Roles)
		return c.Next()
	}
}

func extractToken(c *fiber.Ctx, cookieName string) (string, bool, *dto.ErrorResponse) {
	if authHeader := c.Get(fiber.HeaderAuthorization); authHeader != "" {
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			return "", false, &dto.ErrorResponse{Code: "INVALID_TOKEN", Message: "formato: Bearer <token>"}
		}
		tokenString := strings.TrimSpace(parts[1])
		if tokenString == "" {
			return "", false, &dto.ErrorResponse{Code: "MISSING_TOKEN", Message: "token vacío"}
		}
		return tokenString, false, nil
	}
	if cookieName != "" {
		if v := c.Cookies(cookieName); v != "" {
			return v, true, nil
		}
	}
	return "", false, &dto.ErrorResponse{Code: "MISSING_TOKEN", Message: "sesión requerida"}
}

// setSessionCookie entrega el token como cookie HttpOnly, SameSite=Lax.
func setSessionCookie(c *fiber.Ctx, name, token string, maxAge time.Duration, secure bool) {
	if name == "" {
		return
	}
	c.Cookie(&fiber.Cookie{
		Name:     name,
		Value:    token,
		Path:     "/",
		MaxAge:   int(maxAge.Seconds()),
		Expires:  time.Now().Add(maxAge),
		HTTPOnly: true,
		Secure:   secure,
		SameSite: fiber.CookieSameSiteLaxMode,
	})
}

func clearSessionCookie(c *fiber.Ctx, name string, secure bool) {
	if name == "" {
		return
	}
	c.Cookie(&fiber.Cookie{
		Name:     name,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		Expires:  time.Unix(0, 0),
		HTTPOnly: true,
		Secure:   secure,
		SameSite: fiber.CookieSameSiteLaxMode,
	})
}

// sessionCookie parámetros de la cookie vigentes en la petición.
type sessionCookie struct {
	name   string
	secure bool
}

func sessionError(c *fiber.Ctx) error {
	if sc, ok := c.Locals(localCookie).(sessionCookie); ok {
		clearSessionCookie(c, sc.name, sc.secure)
	}
	return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
		Code: "SESSION_ERROR", Message: "sesión inválida, inicie sesión nuevamente",
	})
}

// RequireUser rechaza los tokens del portal de referidores.
func RequireUser() fiber.Handler {
	return requireKind(jwt.KindUser)
}

// RequireReferrer rechaza los tokens de usuarios del portal.
func RequireReferrer() fiber.Handler {
	return requireKind(jwt.KindReferrer)
}

func requireKind(kind string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := GetIdentity(c)
		if id == nil {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "sesión requerida"})
		}
		if id.Kind != kind {
			return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{Code: "FORBIDDEN", Message: "esta sesión no tiene acceso a este recurso"})
		}
		return c.Next()
	}
}

// RequireAnyRole permite el paso si la sesión tiene alguno de los roles (sin distinguir mayúsculas).
// Debe usarse DESPUÉS de AuthMiddleware.
func RequireAnyRole(roles ...string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		have := GetRoles(c)
		if len(have) == 0 {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "MISSING_ROLE", Message: "la sesión no tiene roles asignados"})
		}
		if !entity.HasAnyRole(have, roles...) {
			return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{Code: "FORBIDDEN", Message: "no tiene permisos para esta acción"})
		}
		return c.Next()
	}
}

// GetIdentity devuelve la identidad de la sesión (después del middleware de auth).
func GetIdentity(c *fiber.Ctx) *jwt.Identity {
	id, _ := c.Locals(LocalIdentity).(*jwt.Identity)
	return id
}

// GetUserID devuelve el UserID del contexto (después del middleware de auth).
func GetUserID(c *fiber.Ctx) string {
	s, _ := c.Locals(LocalUserID).(string)
	return s
}

// GetCompanyID devuelve la empresa efectiva de la petición: la del token o, para platform_admin,
// la seleccionada con X-Company-ID.
func GetCompanyID(c *fiber.Ctx) string {
	s, _ := c.Locals(LocalCompanyID).(string)
	return s
}

// GetRoles devuelve los roles de la sesión.
func GetRoles(c *fiber.Ctx) []string {
	r, _ := c.Locals(LocalRoles).([]string)
	return r
}

// HasRole true si la sesión tiene el rol.
func HasRole(c *fiber.Ctx, role string) bool {
	return entity.HasRole(GetRoles(c), role)
}

// ActorFrom arma el actor de la petición para los casos de uso.
func ActorFrom(c *fiber.Ctx) entity.Actor {
	a := entity.Actor{
		UserID:    GetUserID(c),
		CompanyID: GetCompanyID(c),
		Roles:     GetRoles(c),
		IP:        c.IP(),
	}
	if id := GetIdentity(c); id != nil {
		a.StoreID = id.StoreID
		a.Name = id.Name
	}
	return a
}
