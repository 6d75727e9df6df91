package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Gastos-api/internal/application/dto"
	"github.com/jhoicas/Gastos-api/internal/application/expense"
)

// ReviewHandler bandeja de revisión, decisiones de aprobador y contabilidad, y pagos.
type ReviewHandler struct {
	review  *expense.ReviewUseCase
	payouts *expense.PayoutUseCase
}

// NewReviewHandler construye el handler.
func NewReviewHandler(review *expense.ReviewUseCase, payouts *expense.PayoutUseCase) *ReviewHandler {
	return &ReviewHandler{review: review, payouts: payouts}
}

// Queue godoc
// @Summary      Bandeja de revisión
// @Description  Aprobador: pendientes de aprobación asignados. Contabilidad: pendientes de verificación.
// @Description  Admin: todo lo no borrador. platform_admin sin X-Company-ID: todas las empresas.
// @Tags         review
// @Security     Bearer
// @Produce      json
// @Success      200  {array}  dto.ReportResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Router       /api/review [get]
func (h *ReviewHandler) Queue(c *fiber.Ctx) error {
	out, err := h.review.Queue(c.UserContext(), ActorFrom(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// GetByID godoc
// @Summary      Reporte para revisión
// @Tags         review
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del reporte"
// @Success      200  {object}  dto.ReportResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/review/{id} [get]
func (h *ReviewHandler) GetByID(c *fiber.Ctx) error {
	out, err := h.review.GetForReview(c.UserContext(), ActorFrom(c), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// ApproverDecision godoc
// @Summary      Decisión del aprobador (nivel 1)
// @Tags         review
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                     true  "ID del reporte"
// @Param        body  body  dto.ReviewDecisionRequest  true  "approve | reject y comentarios"
// @Success      200   {object}  dto.ReportResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/review/{id}/approver-decision [post]
func (h *ReviewHandler) ApproverDecision(c *fiber.Ctx) error {
	var in dto.ReviewDecisionRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	out, err := h.review.ApproverDecision(c.UserContext(), ActorFrom(c), c.Params("id"), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// AccountsDecision godoc
// @Summary      Verificación de contabilidad (nivel 2)
// @Description  Aprobar exige approved_amount > 0. Los ítems pagados con caja menor se descuentan
// @Description  de la billetera del empleado en la misma transacción.
// @Tags         review
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                     true  "ID del reporte"
// @Param        body  body  dto.ReviewDecisionRequest  true  "approve | reject, monto aprobado y comentarios"
// @Success      200   {object}  dto.ReportResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/review/{id}/accounts-decision [post]
func (h *ReviewHandler) AccountsDecision(c *fiber.Ctx) error {
	var in dto.ReviewDecisionRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	out, err := h.review.AccountsDecision(c.UserContext(), ActorFrom(c), c.Params("id"), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// ListPayouts godoc
// @Summary      Reportes aprobados pendientes de pago
// @Tags         payouts
// @Security     Bearer
// @Produce      json
// @Success      200  {array}  dto.PayoutResponse
// @Router       /api/payouts [get]
func (h *ReviewHandler) ListPayouts(c *fiber.Ctx) error {
	out, err := h.payouts.ListPayouts(c.UserContext(), ActorFrom(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// MarkPaid godoc
// @Summary      Marcar reporte como pagado
// @Tags         payouts
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del reporte"
// @Success      200  {object}  dto.MessageResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/payouts/{id}/paid [post]
func (h *ReviewHandler) MarkPaid(c *fiber.Ctx) error {
	if err := h.payouts.MarkPaid(c.UserContext(), ActorFrom(c), c.Params("id")); err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.MessageResponse{Message: "reporte marcado como pagado"})
}
