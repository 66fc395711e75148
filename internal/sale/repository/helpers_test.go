package repository

import (
	"testing"

	"github.com/stretchr/testify/require"

	"stockkeeper/internal/infrastructure/database"
)

func testDialect(t *testing.T) database.Dialect {
	t.Helper()

	d, err := database.NewDialect(database.DriverSQLite)
	require.NoError(t, err)
	return d
}
