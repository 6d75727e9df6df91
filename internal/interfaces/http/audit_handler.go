package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Gastos-api/internal/application/audit"
	"github.com/jhoicas/Gastos-api/internal/application/dto"
)

// AuditHandler visor de la bitácora de auditoría.
type AuditHandler struct {
	rec *audit.Recorder
}

// NewAuditHandler construye el handler.
func NewAuditHandler(rec *audit.Recorder) *AuditHandler {
	return &AuditHandler{rec: rec}
}

// List godoc
// @Summary      Últimas entradas de auditoría
// @Tags         audit
// @Security     Bearer
// @Produce      json
// @Param        action_type  query  string  false  "Filtrar por tipo de acción"
// @Param        user_id      query  string  false  "Filtrar por usuario"
// @Param        limit        query  int     false  "Máximo de filas (default y tope 100)"
// @Success      200  {array}  dto.AuditLogResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/audit-logs [get]
func (h *AuditHandler) List(c *fiber.Ctx) error {
	var q dto.AuditQuery
	if err := c.QueryParser(&q); err != nil {
		return invalidParams(c)
	}
	out, err := h.rec.ListRecent(c.UserContext(), ActorFrom(c), q)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}
