package http

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Gastos-api/internal/application/dto"
	"github.com/jhoicas/Gastos-api/internal/domain/entity"
)

// HeaderCompanyID empresa sobre la que actúa un platform_admin.
const HeaderCompanyID = "X-Company-ID"

// RequireCompany resuelve la empresa efectiva de la petición. Debe usarse DESPUÉS de AuthMiddleware.
//
// Comportamiento:
//   - usuario de empresa sin company_id en el token → 401 SESSION_ERROR (borra la cookie).
//   - platform_admin: toma X-Company-ID; sin cabecera → 400 COMPANY_REQUIRED.
func RequireCompany() fiber.Handler {
	return resolveCompany(false)
}

// OptionalCompany igual que RequireCompany pero un platform_admin sin X-Company-ID sigue con
// empresa vacía (vistas que abarcan todas las empresas).
func OptionalCompany() fiber.Handler {
	return resolveCompany(true)
}

func resolveCompany(optional bool) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if !entity.HasRole(GetRoles(c), entity.RolePlatformAdmin) {
			if GetCompanyID(c) == "" {
				return sessionError(c)
			}
			return c.Next()
		}
		selected := strings.TrimSpace(c.Get(HeaderCompanyID))
		if selected == "" && !optional {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
				Code: "COMPANY_REQUIRED", Message: "seleccione una empresa (cabecera " + HeaderCompanyID + ")",
			})
		}
		c.Locals(LocalCompanyID, selected)
		return c.Next()
	}
}
