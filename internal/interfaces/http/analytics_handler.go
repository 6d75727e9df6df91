package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Gastos-api/internal/application/analytics"
	"github.com/jhoicas/Gastos-api/internal/application/dto"
)

// AnalyticsHandler resumen de reportes y reporte de anomalías.
type AnalyticsHandler struct {
	reports   *analytics.ReportsUseCase
	anomalies *analytics.AnomalyUseCase
}

// NewAnalyticsHandler construye el handler.
func NewAnalyticsHandler(reports *analytics.ReportsUseCase, anomalies *analytics.AnomalyUseCase) *AnalyticsHandler {
	return &AnalyticsHandler{reports: reports, anomalies: anomalies}
}

// GetReportsSummary godoc
// @Summary      Reportes filtrados con resumen por categoría y medio de pago
// @Tags         analytics
// @Security     Bearer
// @Produce      json
// @Param        user_id     query  string  false  "Empleado"
// @Param        status      query  string  false  "Estado del reporte"
// @Param        start_date  query  string  false  "Enviados desde (YYYY-MM-DD)"
// @Param        end_date    query  string  false  "Enviados hasta, inclusive (YYYY-MM-DD)"
// @Success      200  {object}  dto.ReportsSummaryResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/analytics/reports [get]
func (h *AnalyticsHandler) GetReportsSummary(c *fiber.Ctx) error {
	var q dto.ReportsQuery
	if err := c.QueryParser(&q); err != nil {
		return invalidParams(c)
	}
	out, err := h.reports.Summary(c.UserContext(), ActorFrom(c), q)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// GetAnomalies godoc
// @Summary      Reporte de detección de anomalías
// @Description  Ítems de reportes aprobados o pagados marcados por monto alto (media + 2σ de la
// @Description  categoría), descripción vaga o gasto en fin de semana. Una regla que falla se
// @Description  informa en errors sin abortar el reporte.
// @Tags         analytics
// @Security     Bearer
// @Produce      json
// @Param        start_date  query  string  false  "Inicio del período (YYYY-MM-DD). Default: primer día del mes."
// @Param        end_date    query  string  false  "Fin del período (YYYY-MM-DD). Default: hoy."
// @Param        department  query  string  false  "Departamento"
// @Success      200  {object}  dto.AnomalyReportResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/analytics/anomalies [get]
func (h *AnalyticsHandler) GetAnomalies(c *fiber.Ctx) error {
	var q dto.AnomalyQuery
	if err := c.QueryParser(&q); err != nil {
		return invalidParams(c)
	}
	out, err := h.anomalies.Report(c.UserContext(), ActorFrom(c), q)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}
