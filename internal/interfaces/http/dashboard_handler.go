package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Gastos-api/internal/application/analytics"
	"github.com/jhoicas/Gastos-api/internal/application/dto"
)

// DashboardHandler series del tablero de gastos.
type DashboardHandler struct {
	uc *analytics.DashboardUseCase
}

// NewDashboardHandler construye el handler.
func NewDashboardHandler(uc *analytics.DashboardUseCase) *DashboardHandler {
	return &DashboardHandler{uc: uc}
}

// GetDashboard godoc
// @Summary      Tablero de gastos
// @Description  Totales por categoría, departamento y medio de pago en el período, pagos de los
// @Description  últimos 12 meses y conteo por estado. Series listas para graficar en el cliente.
// @Tags         dashboard
// @Security     Bearer
// @Produce      json
// @Param        start_date  query  string  false  "Inicio del período (YYYY-MM-DD). Default: primer día del mes."
// @Param        end_date    query  string  false  "Fin del período (YYYY-MM-DD). Default: hoy."
// @Success      200  {object}  dto.DashboardResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      500  {object}  dto.ErrorResponse
// @Router       /api/dashboard [get]
func (h *DashboardHandler) GetDashboard(c *fiber.Ctx) error {
	var q dto.PeriodQuery
	if err := c.QueryParser(&q); err != nil {
		return invalidParams(c)
	}
	out, err := h.uc.Dashboard(c.UserContext(), ActorFrom(c), q)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// GetDepartments godoc
// @Summary      Departamentos de la empresa
// @Tags         dashboard
// @Security     Bearer
// @Produce      json
// @Success      200  {array}  string
// @Router       /api/departments [get]
func (h *DashboardHandler) GetDepartments(c *fiber.Ctx) error {
	out, err := h.uc.Departments(c.UserContext(), ActorFrom(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}
