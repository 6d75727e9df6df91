package jwt_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pkgjwt "github.com/jhoicas/Gastos-api/pkg/jwt"
)

const secret = "test-secret-key-for-unit-tests"

func TestGenerateAndParse_ConservaIdentidad(t *testing.T) {
	in := pkgjwt.Identity{
		UserID:    "u-1",
		CompanyID: "c-1",
		Roles:     []string{"approver", "employee"},
		StoreID:   "s-9",
		Name:      "Ana",
	}
	tok, err := pkgjwt.Generate(secret, in, "gastos-test", 60)
	require.NoError(t, err)

	out, err := pkgjwt.Parse(secret, tok)
	require.NoError(t, err)
	assert.Equal(t, pkgjwt.KindUser, out.Kind, "el tipo por defecto es user")
	assert.Equal(t, in.UserID, out.UserID)
	assert.Equal(t, in.CompanyID, out.CompanyID)
	assert.Equal(t, in.Roles, out.Roles)
	assert.Equal(t, in.StoreID, out.StoreID)
}

func TestParse_TokenExpirado(t *testing.T) {
	tok, err := pkgjwt.Generate(secret, pkgjwt.Identity{UserID: "u-1"}, "gastos-test", -1)
	require.NoError(t, err)

	_, err = pkgjwt.Parse(secret, tok)
	assert.Error(t, err, "token expirado debe retornar error")
}

func TestParse_SecretIncorrecto(t *testing.T) {
	tok, err := pkgjwt.Generate(secret, pkgjwt.Identity{UserID: "u-1"}, "gastos-test", 60)
	require.NoError(t, err)

	_, err = pkgjwt.Parse("otro-secret", tok)
	assert.Error(t, err)
}

func TestGenerate_SinSecret(t *testing.T) {
	_, err := pkgjwt.Generate("", pkgjwt.Identity{UserID: "u-1"}, "gastos-test", 60)
	assert.Error(t, err)
}
