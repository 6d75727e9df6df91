package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Gastos-api/internal/application/dto"
	"github.com/jhoicas/Gastos-api/internal/application/referral"
)

// ReferralHandler portal de referidores y gestión de referidos por el personal.
type ReferralHandler struct {
	uc     *referral.UseCase
	cookie CookieConfig
}

// NewReferralHandler construye el handler.
func NewReferralHandler(uc *referral.UseCase, cookie CookieConfig) *ReferralHandler {
	return &ReferralHandler{uc: uc, cookie: cookie}
}

// ── Portal de referidores ─────────────────────────────────────────────────────

// Register godoc
// @Summary      Registro de referidor
// @Tags         referrer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.ReferrerRegisterRequest  true  "Datos del referidor"
// @Success      201   {object}  dto.ReferrerResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/referrer/register [post]
func (h *ReferralHandler) Register(c *fiber.Ctx) error {
	var in dto.ReferrerRegisterRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	out, err := h.uc.Register(c.UserContext(), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// Login godoc
// @Summary      Login de referidor
// @Tags         referrer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.ReferrerLoginRequest  true  "mobile_number, password"
// @Success      200   {object}  dto.ReferrerLoginResponse
// @Failure      401   {object}  dto.ErrorResponse
// @Router       /api/referrer/login [post]
func (h *ReferralHandler) Login(c *fiber.Ctx) error {
	var in dto.ReferrerLoginRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	out, err := h.uc.Login(c.UserContext(), in)
	if err != nil {
		return respondError(c, err)
	}
	setSessionCookie(c, h.cookie.Name, out.Token, h.cookie.MaxAge, h.cookie.Secure)
	return c.JSON(out)
}

// Dashboard godoc
// @Summary      Tablero del referidor
// @Tags         referrer
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.ReferrerDashboardResponse
// @Router       /api/referrer/dashboard [get]
func (h *ReferralHandler) Dashboard(c *fiber.Ctx) error {
	out, err := h.uc.Dashboard(c.UserContext(), GetUserID(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// AddReferral godoc
// @Summary      Registrar un referido
// @Tags         referrer
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.AddReferralRequest  true  "Datos del invitado"
// @Success      201   {object}  dto.ReferralResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/referrer/referrals [post]
func (h *ReferralHandler) AddReferral(c *fiber.Ctx) error {
	var in dto.AddReferralRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	out, err := h.uc.AddReferral(c.UserContext(), GetUserID(c), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// ── Personal ──────────────────────────────────────────────────────────────────

// List godoc
// @Summary      Listar referidos
// @Description  Sin rol admin o accounts solo se ven los referidos de la tienda propia.
// @Tags         referrals
// @Security     Bearer
// @Produce      json
// @Param        status  query  string  false  "Estado"
// @Success      200  {array}  dto.ReferralResponse
// @Router       /api/referrals [get]
func (h *ReferralHandler) List(c *fiber.Ctx) error {
	out, err := h.uc.ListReferrals(c.UserContext(), ActorFrom(c), c.Query("status"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// GetByID godoc
// @Summary      Referido con su historial de cambios
// @Tags         referrals
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del referido"
// @Success      200  {object}  dto.ReferralDetailResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/referrals/{id} [get]
func (h *ReferralHandler) GetByID(c *fiber.Ctx) error {
	out, err := h.uc.GetReferral(c.UserContext(), ActorFrom(c), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Update godoc
// @Summary      Actualizar seguimiento de un referido
// @Description  Pasar a "Points Awarded" acredita los puntos al referidor una sola vez.
// @Tags         referrals
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                     true  "ID del referido"
// @Param        body  body  dto.UpdateReferralRequest  true  "Campos de seguimiento"
// @Success      200   {object}  dto.ReferralDetailResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/referrals/{id} [put]
func (h *ReferralHandler) Update(c *fiber.Ctx) error {
	var in dto.UpdateReferralRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	out, err := h.uc.UpdateReferral(c.UserContext(), ActorFrom(c), c.Params("id"), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// ListReferrers godoc
// @Summary      Referidores de la empresa
// @Tags         referrals
// @Security     Bearer
// @Produce      json
// @Success      200  {array}  dto.ReferrerResponse
// @Router       /api/referrers [get]
func (h *ReferralHandler) ListReferrers(c *fiber.Ctx) error {
	out, err := h.uc.ListReferrers(c.UserContext(), ActorFrom(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}
