package domain_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/Gastos-api/internal/domain"
)

func TestValidationError_EsErrInvalidInput(t *testing.T) {
	err := fmt.Errorf("categoría: %w", domain.Invalid("el nombre es obligatorio"))

	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.NotErrorIs(t, err, domain.ErrConflict)

	var ve *domain.ValidationError
	assert.True(t, errors.As(err, &ve))
	assert.Equal(t, "el nombre es obligatorio", ve.Msg)
}

func TestConflictError_EsErrConflict(t *testing.T) {
	err := domain.Conflict("ya pagado")
	assert.ErrorIs(t, err, domain.ErrConflict)
	assert.Equal(t, "ya pagado", err.Error())
}
