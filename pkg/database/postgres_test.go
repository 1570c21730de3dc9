package database

import (
	"context"
	"errors"
	"testing"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/study-tracker-api/pkg/config"
)

func TestDSN(t *testing.T) {
	dsn := DSN(config.DatabaseConfig{Host: "db", Port: 5432, User: "u", Password: "p", Name: "study", SSLMode: "disable"})
	assert.Equal(t, "host=db port=5432 user=u password=p dbname=study sslmode=disable", dsn)
}

func TestMigrateAppliesSchema(t *testing.T) {
	raw, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer raw.Close()
	db := sqlx.NewDb(raw, "sqlmock")

	mock.ExpectExec("CREATE TABLE IF NOT EXISTS subjects").WillReturnResult(sqlmock.NewResult(0, 0))
	require.NoError(t, Migrate(context.Background(), db))

	mock.ExpectExec("CREATE TABLE IF NOT EXISTS subjects").WillReturnError(errors.New("permission denied"))
	err = Migrate(context.Background(), db)
	assert.ErrorContains(t, err, "apply schema")
	assert.NoError(t, mock.ExpectationsWereMet())
}
