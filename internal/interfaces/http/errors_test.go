package http_test

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Gastos-api/internal/application/dto"
	"github.com/jhoicas/Gastos-api/internal/domain"
	apphttp "github.com/jhoicas/Gastos-api/internal/interfaces/http"
)

func errorApp(err error) *fiber.App {
	app := fiber.New(fiber.Config{ErrorHandler: apphttp.ErrorHandler})
	app.Get("/x", func(c *fiber.Ctx) error { return err })
	return app
}

func TestErrorHandler_MapeaErroresDeDominio(t *testing.T) {
	cases := []struct {
		name   string
		err    error
		status int
		code   string
	}{
		{"validación con mensaje", domain.Invalid("el monto debe ser mayor a cero"), http.StatusBadRequest, "VALIDATION"},
		{"no encontrado envuelto", fmt.Errorf("reporte: %w", domain.ErrNotFound), http.StatusNotFound, "NOT_FOUND"},
		{"duplicado", domain.ErrDuplicate, http.StatusConflict, "DUPLICATE"},
		{"conflicto de estado", domain.Conflict("el reporte ya fue pagado"), http.StatusConflict, "CONFLICT"},
		{"sin permisos", domain.ErrForbidden, http.StatusForbidden, "FORBIDDEN"},
		{"sin roles", domain.ErrNoRoles, http.StatusForbidden, "FORBIDDEN"},
		{"credenciales", domain.ErrUnauthorized, http.StatusUnauthorized, "UNAUTHORIZED"},
		{"sesión", domain.ErrSession, http.StatusUnauthorized, "SESSION_ERROR"},
		{"sin aprobador", domain.ErrNoApprover, http.StatusBadRequest, "NO_APPROVER"},
		{"sin cambios", domain.ErrNoChanges, http.StatusBadRequest, "NO_CHANGES"},
		{"sin billetera", domain.ErrWalletNotFound, http.StatusNotFound, "WALLET_NOT_FOUND"},
		{"ruta de fiber", fiber.ErrMethodNotAllowed, http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED"},
		{"desconocido", fmt.Errorf("conexión rechazada"), http.StatusInternalServerError, "INTERNAL"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			resp, err := errorApp(tc.err).Test(httptest.NewRequest(http.MethodGet, "/x", nil), -1)
			require.NoError(t, err)
			defer resp.Body.Close()

			assert.Equal(t, tc.status, resp.StatusCode)
			var body dto.ErrorResponse
			require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
			assert.Equal(t, tc.code, body.Code)
		})
	}
}

func TestErrorHandler_ValidacionConservaMensaje(t *testing.T) {
	resp, err := errorApp(domain.Invalid("la fecha de fin no puede ser anterior a la de inicio")).
		Test(httptest.NewRequest(http.MethodGet, "/x", nil), -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	var body dto.ErrorResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "la fecha de fin no puede ser anterior a la de inicio", body.Message)
}

func TestErrorHandler_InternoNoFiltraDetalle(t *testing.T) {
	resp, err := errorApp(fmt.Errorf("pq: password authentication failed")).
		Test(httptest.NewRequest(http.MethodGet, "/x", nil), -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	var body dto.ErrorResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.NotContains(t, body.Message, "password")
}
