package postgres

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPgx5URL(t *testing.T) {
	assert.Equal(t, "pgx5://u:p@db:5432/gastos?sslmode=disable", pgx5URL("postgres://u:p@db:5432/gastos?sslmode=disable"))
	assert.Equal(t, "pgx5://u@db/gastos", pgx5URL("postgresql://u@db/gastos"))
	assert.Equal(t, "pgx5://ya", pgx5URL("pgx5://ya"))
}

func TestMigracionesEmbebidas_ParesUpDown(t *testing.T) {
	entries, err := migrationsFS.ReadDir("migrations")
	require.NoError(t, err)

	ups, downs := 0, 0
	for _, e := range entries {
		switch {
		case strings.HasSuffix(e.Name(), ".up.sql"):
			ups++
		case strings.HasSuffix(e.Name(), ".down.sql"):
			downs++
		}
	}
	assert.Positive(t, ups)
	assert.Equal(t, ups, downs, "cada migración up necesita su down")
}
