package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Gastos-api/internal/application/dto"
	"github.com/jhoicas/Gastos-api/internal/application/expense"
)

// ReportHandler reportes de gastos del empleado y su billetera de comprobantes.
type ReportHandler struct {
	uc *expense.EmployeeUseCase
}

// NewReportHandler construye el handler.
func NewReportHandler(uc *expense.EmployeeUseCase) *ReportHandler {
	return &ReportHandler{uc: uc}
}

// Create godoc
// @Summary      Crear reporte en borrador
// @Tags         reports
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateReportRequest  true  "Datos del reporte"
// @Success      201   {object}  dto.ReportResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/reports [post]
func (h *ReportHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateReportRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	out, err := h.uc.CreateDraft(c.UserContext(), ActorFrom(c), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// List godoc
// @Summary      Mis reportes
// @Description  Borradores primero, luego rechazos no leídos y después los más recientes.
// @Tags         reports
// @Security     Bearer
// @Produce      json
// @Success      200  {array}  dto.ReportResponse
// @Router       /api/reports [get]
func (h *ReportHandler) List(c *fiber.Ctx) error {
	out, err := h.uc.ListMine(c.UserContext(), ActorFrom(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// GetByID godoc
// @Summary      Detalle de un reporte propio
// @Tags         reports
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del reporte"
// @Success      200  {object}  dto.ReportResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/reports/{id} [get]
func (h *ReportHandler) GetByID(c *fiber.Ctx) error {
	out, err := h.uc.GetMine(c.UserContext(), ActorFrom(c), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// AddItem godoc
// @Summary      Agregar ítem a un borrador
// @Tags         reports
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string              true  "ID del reporte"
// @Param        body  body  dto.AddItemRequest  true  "Ítem de gasto"
// @Success      201   {object}  dto.ItemResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/reports/{id}/items [post]
func (h *ReportHandler) AddItem(c *fiber.Ctx) error {
	var in dto.AddItemRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	out, err := h.uc.AddItem(c.UserContext(), ActorFrom(c), c.Params("id"), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// DeleteItem godoc
// @Summary      Eliminar ítem de un borrador
// @Tags         reports
// @Security     Bearer
// @Param        id       path  string  true  "ID del reporte"
// @Param        item_id  path  string  true  "ID del ítem"
// @Success      204
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/reports/{id}/items/{item_id} [delete]
func (h *ReportHandler) DeleteItem(c *fiber.Ctx) error {
	if err := h.uc.DeleteItem(c.UserContext(), ActorFrom(c), c.Params("id"), c.Params("item_id")); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// Submit godoc
// @Summary      Enviar reporte a aprobación
// @Tags         reports
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del reporte"
// @Success      200  {object}  dto.ReportResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/reports/{id}/submit [post]
func (h *ReportHandler) Submit(c *fiber.Ctx) error {
	out, err := h.uc.Submit(c.UserContext(), ActorFrom(c), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// MarkRead godoc
// @Summary      Marcar rechazo como leído
// @Tags         reports
// @Security     Bearer
// @Param        id   path  string  true  "ID del reporte"
// @Success      204
// @Router       /api/reports/{id}/read [post]
func (h *ReportHandler) MarkRead(c *fiber.Ctx) error {
	if err := h.uc.MarkRejectionRead(c.UserContext(), ActorFrom(c), c.Params("id")); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// UploadReceipt godoc
// @Summary      Subir comprobante a la billetera
// @Description  jpg, jpeg, png o pdf; máximo 5 MB.
// @Tags         receipts
// @Security     Bearer
// @Accept       multipart/form-data
// @Produce      json
// @Param        file   formData  file    true   "Comprobante"
// @Param        notes  formData  string  false  "Notas"
// @Success      201    {object}  dto.ReceiptResponse
// @Failure      400    {object}  dto.ErrorResponse
// @Router       /api/receipts [post]
func (h *ReportHandler) UploadReceipt(c *fiber.Ctx) error {
	fh, err := c.FormFile("file")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "seleccione un archivo"})
	}
	f, err := fh.Open()
	if err != nil {
		return respondError(c, err)
	}
	defer f.Close()

	out, err := h.uc.UploadReceipt(c.UserContext(), ActorFrom(c), expense.ReceiptUpload{
		Filename: fh.Filename,
		Size:     fh.Size,
		Body:     f,
		Notes:    c.FormValue("notes"),
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// ListReceipts godoc
// @Summary      Comprobantes sin asignar
// @Tags         receipts
// @Security     Bearer
// @Produce      json
// @Success      200  {array}  dto.ReceiptResponse
// @Router       /api/receipts [get]
func (h *ReportHandler) ListReceipts(c *fiber.Ctx) error {
	out, err := h.uc.ListUnassignedReceipts(c.UserContext(), ActorFrom(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}
