package database

import (
	"context"
	"errors"
	"testing"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSplitStatements(t *testing.T) {
	stmts := splitStatements("CREATE TABLE a (id INT);\n\n CREATE INDEX b ON a (id);\n")
	assert.Equal(t, []string{"CREATE TABLE a (id INT)", "CREATE INDEX b ON a (id)"}, stmts)
}

func TestEnsureSchemaAppliesEveryStatement(t *testing.T) {
	for _, dialect := range []string{DialectPostgres, DialectSQLite} {
		t.Run(dialect, func(t *testing.T) {
			db, mock, err := sqlmock.New()
			require.NoError(t, err)
			defer db.Close()

			file := "schema/postgres.sql"
			if dialect == DialectSQLite {
				file = "schema/sqlite.sql"
			}
			raw, err := schemaFS.ReadFile(file)
			require.NoError(t, err)
			stmts := splitStatements(string(raw))
			require.NotEmpty(t, stmts)
			for range stmts {
				mock.ExpectExec("CREATE").WillReturnResult(sqlmock.NewResult(0, 0))
			}

			require.NoError(t, EnsureSchema(context.Background(), sqlx.NewDb(db, dialect)))
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestSchemaEnforcesUniqueness(t *testing.T) {
	for _, file := range []string{"schema/postgres.sql", "schema/sqlite.sql"} {
		t.Run(file, func(t *testing.T) {
			raw, err := schemaFS.ReadFile(file)
			require.NoError(t, err)
			script := string(raw)
			assert.Contains(t, script, "CREATE UNIQUE INDEX IF NOT EXISTS idx_users_username_lower ON users (LOWER(username))")
			assert.Contains(t, script, "ON favorites (user_id, type, COALESCE(building_id, 0), COALESCE(classroom_id, 0))")
		})
	}
}

func TestEnsureSchemaStopsOnError(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec("CREATE TABLE IF NOT EXISTS users").WillReturnError(errors.New("permission denied"))

	err = EnsureSchema(context.Background(), sqlx.NewDb(db, DialectPostgres))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "apply schema")
	assert.NoError(t, mock.ExpectationsWereMet())
}
