package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Gastos-api/internal/application/dto"
	"github.com/jhoicas/Gastos-api/internal/application/pettycash"
)

// PettyCashHandler billeteras de caja menor.
type PettyCashHandler struct {
	uc *pettycash.UseCase
}

// NewPettyCashHandler construye el handler.
func NewPettyCashHandler(uc *pettycash.UseCase) *PettyCashHandler {
	return &PettyCashHandler{uc: uc}
}

// ListWallets godoc
// @Summary      Billeteras de caja menor
// @Tags         petty-cash
// @Security     Bearer
// @Produce      json
// @Success      200  {array}  dto.WalletResponse
// @Router       /api/petty-cash/wallets [get]
func (h *PettyCashHandler) ListWallets(c *fiber.Ctx) error {
	out, err := h.uc.ListWallets(c.UserContext(), ActorFrom(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// CreateWallet godoc
// @Summary      Crear billetera
// @Tags         petty-cash
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateWalletRequest  true  "user_id, initial_balance"
// @Success      201   {object}  dto.WalletResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/petty-cash/wallets [post]
func (h *PettyCashHandler) CreateWallet(c *fiber.Ctx) error {
	var in dto.CreateWalletRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	out, err := h.uc.CreateWallet(c.UserContext(), ActorFrom(c), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// AddFunds godoc
// @Summary      Recargar billetera
// @Tags         petty-cash
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string               true  "ID de la billetera"
// @Param        body  body  dto.AddFundsRequest  true  "amount, description"
// @Success      200   {object}  dto.WalletResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/petty-cash/wallets/{id}/funds [post]
func (h *PettyCashHandler) AddFunds(c *fiber.Ctx) error {
	var in dto.AddFundsRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	out, err := h.uc.AddFunds(c.UserContext(), ActorFrom(c), c.Params("id"), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Statement godoc
// @Summary      Extracto de caja menor de un empleado
// @Tags         petty-cash
// @Security     Bearer
// @Produce      json
// @Param        user_id     path   string  true   "ID del empleado"
// @Param        start_date  query  string  false  "Inicio (YYYY-MM-DD). Default: primer día del mes."
// @Param        end_date    query  string  false  "Fin (YYYY-MM-DD). Default: hoy."
// @Success      200  {object}  dto.StatementResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/petty-cash/statements/{user_id} [get]
func (h *PettyCashHandler) Statement(c *fiber.Ctx) error {
	var q dto.PeriodQuery
	if err := c.QueryParser(&q); err != nil {
		return invalidParams(c)
	}
	out, err := h.uc.Statement(c.UserContext(), ActorFrom(c), c.Params("user_id"), q)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}
