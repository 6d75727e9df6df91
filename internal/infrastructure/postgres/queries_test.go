package postgres

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestReviewQueueWhere_FiltraPorAprobadorDelReporte(t *testing.T) {
	// La bandeja y los permisos de nivel 1 leen el mismo campo: si el aprobador del empleado
	// cambia después del envío, el reporte sigue en la bandeja del aprobador original.
	assert.Contains(t, reviewQueueWhere, "r.approver_id = $3::uuid")
	assert.NotContains(t, reviewQueueWhere, "u.approver_id")
}

func TestTotalsByDepartmentQuery_ExcluyeSinDepartamento(t *testing.T) {
	assert.Contains(t, totalsByDepartmentQuery, "COALESCE(u.department, '') <> ''")
	assert.NotContains(t, totalsByDepartmentQuery, "Unassigned")
}
