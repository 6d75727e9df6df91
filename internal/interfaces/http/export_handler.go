package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Gastos-api/internal/application/dto"
	"github.com/jhoicas/Gastos-api/internal/application/export"
)

// ExportHandler descargas CSV/XLSX/PDF.
type ExportHandler struct {
	uc *export.UseCase
}

// NewExportHandler construye el handler.
func NewExportHandler(uc *export.UseCase) *ExportHandler {
	return &ExportHandler{uc: uc}
}

func sendFile(c *fiber.Ctx, f *export.File, disposition string) error {
	c.Set(fiber.HeaderContentType, f.ContentType)
	c.Set(fiber.HeaderContentDisposition, disposition+`; filename="`+f.Name+`"`)
	return c.Send(f.Body)
}

// ExportReports godoc
// @Summary      Exportar reportes filtrados
// @Tags         exports
// @Security     Bearer
// @Produce      text/csv
// @Produce      application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Param        format      query  string  false  "csv (default) | xlsx"
// @Param        user_id     query  string  false  "Empleado"
// @Param        status      query  string  false  "Estado del reporte"
// @Param        start_date  query  string  false  "Enviados desde (YYYY-MM-DD)"
// @Param        end_date    query  string  false  "Enviados hasta (YYYY-MM-DD)"
// @Success      200  {file}    binary
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/exports/reports [get]
func (h *ExportHandler) ExportReports(c *fiber.Ctx) error {
	var q dto.ReportsQuery
	if err := c.QueryParser(&q); err != nil {
		return invalidParams(c)
	}
	f, err := h.uc.ExportReports(c.UserContext(), ActorFrom(c), q)
	if err != nil {
		return respondError(c, err)
	}
	return sendFile(c, f, "attachment")
}

// ReportPDF godoc
// @Summary      Versión imprimible de un reporte
// @Tags         exports
// @Security     Bearer
// @Produce      application/pdf
// @Param        id   path  string  true  "ID del reporte"
// @Success      200  {file}    binary
// @Failure      403  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/exports/reports/{id}/pdf [get]
func (h *ExportHandler) ReportPDF(c *fiber.Ctx) error {
	f, err := h.uc.ReportPDF(c.UserContext(), ActorFrom(c), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return sendFile(c, f, "inline")
}

// AnomalyPDF godoc
// @Summary      Versión imprimible del reporte de anomalías
// @Tags         exports
// @Security     Bearer
// @Produce      application/pdf
// @Param        start_date  query  string  false  "Inicio del período (YYYY-MM-DD)"
// @Param        end_date    query  string  false  "Fin del período (YYYY-MM-DD)"
// @Param        department  query  string  false  "Departamento"
// @Success      200  {file}    binary
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/exports/anomalies/pdf [get]
func (h *ExportHandler) AnomalyPDF(c *fiber.Ctx) error {
	var q dto.AnomalyQuery
	if err := c.QueryParser(&q); err != nil {
		return invalidParams(c)
	}
	f, err := h.uc.AnomalyPDF(c.UserContext(), ActorFrom(c), q)
	if err != nil {
		return respondError(c, err)
	}
	return sendFile(c, f, "inline")
}
