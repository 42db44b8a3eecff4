package migrations

import (
	"context"
	"errors"
	"testing"
	"testing/fstest"

	"github.com/pashagolub/pgxmock/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMigrateFS_AppliesPendingInOrder(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	fsys := fstest.MapFS{
		"002_b.sql":  {Data: []byte("CREATE TABLE b (id INT);")},
		"001_a.sql":  {Data: []byte("CREATE TABLE a (id INT);")},
		"README.txt": {Data: []byte("ignored")},
	}

	mock.ExpectExec("CREATE TABLE IF NOT EXISTS schema_migrations").
		WillReturnResult(pgxmock.NewResult("CREATE", 0))

	mock.ExpectQuery("SELECT EXISTS").WithArgs("001").
		WillReturnRows(pgxmock.NewRows([]string{"exists"}).AddRow(true))

	mock.ExpectQuery("SELECT EXISTS").WithArgs("002").
		WillReturnRows(pgxmock.NewRows([]string{"exists"}).AddRow(false))
	mock.ExpectBegin()
	mock.ExpectExec("CREATE TABLE b").WillReturnResult(pgxmock.NewResult("CREATE", 0))
	mock.ExpectExec("INSERT INTO schema_migrations").
		WithArgs("002", pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	mock.ExpectCommit()

	require.NoError(t, NewMigrator(mock).MigrateFS(context.Background(), fsys))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMigrateFS_RollsBackOnFailure(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	fsys := fstest.MapFS{"001_bad.sql": {Data: []byte("CREATE TABLE nope (")}}

	mock.ExpectExec("CREATE TABLE IF NOT EXISTS schema_migrations").
		WillReturnResult(pgxmock.NewResult("CREATE", 0))
	mock.ExpectQuery("SELECT EXISTS").WithArgs("001").
		WillReturnRows(pgxmock.NewRows([]string{"exists"}).AddRow(false))
	mock.ExpectBegin()
	mock.ExpectExec("CREATE TABLE nope").WillReturnError(errors.New("syntax error"))
	mock.ExpectRollback()

	err = NewMigrator(mock).MigrateFS(context.Background(), fsys)
	assert.ErrorContains(t, err, "001_bad.sql")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestEmbeddedMigrationsPresent(t *testing.T) {
	entries, err := embedded.ReadDir("sql")
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "001_init.sql", entries[0].Name())
	assert.Equal(t, "002_bookings.sql", entries[1].Name())
}

func TestBookingsTable_UnboundedIdentityColumns(t *testing.T) {
	content, err := embedded.ReadFile("sql/002_bookings.sql")
	require.NoError(t, err)

	ddl := string(content)
	for _, col := range []string{"id", "user_id", "class_instance_id"} {
		assert.Contains(t, ddl, "\n    "+col+" TEXT NOT NULL,", col)
	}
	assert.NotContains(t, ddl, "user_id VARCHAR")
}
