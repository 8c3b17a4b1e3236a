package persistence

import (
	"context"
	"errors"
	"testing"
	"testing/fstest"

	"github.com/pashagolub/pgxmock/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestRunMigrations_AppliesInOrder(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	fsys := fstest.MapFS{
		"002_seed.sql":   {Data: []byte("INSERT INTO x VALUES (1)")},
		"001_schema.sql": {Data: []byte("CREATE TABLE x (id int)")},
		"README.md":      {Data: []byte("ignored")},
	}

	mock.ExpectExec("CREATE TABLE x").WillReturnResult(pgxmock.NewResult("CREATE", 0))
	mock.ExpectExec("INSERT INTO x").WillReturnResult(pgxmock.NewResult("INSERT", 1))

	require.NoError(t, RunMigrations(context.Background(), mock, fsys, zap.NewNop()))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRunMigrations_StopsOnFailure(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	fsys := fstest.MapFS{
		"001_schema.sql": {Data: []byte("CREATE TABLE x (id int)")},
		"002_seed.sql":   {Data: []byte("INSERT INTO x VALUES (1)")},
	}
	mock.ExpectExec("CREATE TABLE x").WillReturnError(errors.New("boom"))

	err = RunMigrations(context.Background(), mock, fsys, zap.NewNop())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "001_schema.sql")
	assert.NoError(t, mock.ExpectationsWereMet())
}
