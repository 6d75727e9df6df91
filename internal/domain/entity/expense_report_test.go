package entity_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/Gastos-api/internal/domain/entity"
)

func TestCanTransition_CicloDeVida(t *testing.T) {
	cases := []struct {
		from, to string
		ok       bool
	}{
		{entity.StatusDraft, entity.StatusPendingApproval, true},
		{entity.StatusPendingApproval, entity.StatusPendingVerification, true},
		{entity.StatusPendingApproval, entity.StatusRejected, true},
		{entity.StatusPendingVerification, entity.StatusApproved, true},
		{entity.StatusPendingVerification, entity.StatusRejected, true},
		{entity.StatusApproved, entity.StatusPaid, true},
		// Un reporte pagado no vuelve a pagarse.
		{entity.StatusPaid, entity.StatusPaid, false},
		{entity.StatusDraft, entity.StatusApproved, false},
		{entity.StatusRejected, entity.StatusPendingApproval, false},
		{entity.StatusApproved, entity.StatusRejected, false},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.ok, entity.CanTransition(tc.from, tc.to), "%s -> %s", tc.from, tc.to)
	}
}

func TestStatusBadge(t *testing.T) {
	assert.Equal(t, "bg-success", entity.StatusBadge("approved"))
	assert.Equal(t, "bg-success", entity.StatusBadge("paid"))
	assert.Equal(t, "bg-danger", entity.StatusBadge("rejected"))
	assert.Equal(t, "bg-warning text-dark", entity.StatusBadge("pending_approval"))
	assert.Equal(t, "bg-info text-dark", entity.StatusBadge("pending_verification"))
	assert.Equal(t, "bg-secondary", entity.StatusBadge("draft"))
	assert.Equal(t, "bg-secondary", entity.StatusBadge("otro"))
}

func TestStatusLabel(t *testing.T) {
	assert.Equal(t, "Pending Approval", entity.StatusLabel("pending_approval"))
	assert.Equal(t, "Paid", entity.StatusLabel("paid"))
}

func TestPettyCashItems(t *testing.T) {
	items := []entity.ExpenseItem{
		{ID: "1", Amount: decimal.NewFromInt(100), PaymentMethod: entity.PaymentPettyCash},
		{ID: "2", Amount: decimal.NewFromInt(50), PaymentMethod: entity.PaymentCash},
		{ID: "3", Amount: decimal.RequireFromString("20.5"), PaymentMethod: entity.PaymentPettyCash},
	}
	pc, total := entity.PettyCashItems(items)

	assert.Len(t, pc, 2)
	assert.True(t, total.Equal(decimal.RequireFromString("120.5")))
	assert.True(t, entity.SumItems(items).Equal(decimal.RequireFromString("170.5")))
}

func TestHasRole_SinDistinguirMayusculas(t *testing.T) {
	roles := []string{"Admin", "employee"}
	assert.True(t, entity.HasRole(roles, "admin"))
	assert.True(t, entity.HasAnyRole(roles, "accounts", "EMPLOYEE"))
	assert.False(t, entity.HasAnyRole(roles, "accounts", "approver"))
	assert.False(t, entity.IsAssignableRole(entity.RolePlatformAdmin))
}

func TestCompanyCode(t *testing.T) {
	assert.Equal(t, "ACME_01", entity.NormalizeCompanyCode("  acme_01 "))
	assert.True(t, entity.ValidCompanyCode("ACME-01"))
	assert.False(t, entity.ValidCompanyCode("ACME 01"))
	assert.False(t, entity.ValidCompanyCode(""))
}
