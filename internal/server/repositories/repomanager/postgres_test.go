package repomanager

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dmitrijs2005/clicon/internal/server/models"
	"github.com/pressly/goose/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db, mock
}

func TestPostgresFactories(t *testing.T) {
	db, _ := newDB(t)

	var m RepositoryManager = NewPostgresRepositoryManager(db)

	assert.NotNil(t, m.Users())
	assert.NotNil(t, m.PendingRegistrations())
	assert.NotNil(t, m.Products())
	assert.NotNil(t, m.Carts())
}

func TestPostgresWithTx_Commit(t *testing.T) {
	db, mock := newDB(t)
	m := NewPostgresRepositoryManager(db)

	mock.ExpectBegin()
	mock.ExpectQuery(`INSERT\s+INTO\s+users`).WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow("u-1"))
	mock.ExpectExec(`DELETE\s+FROM\s+temp_users`).WithArgs("sess").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	err := m.WithTx(context.Background(), func(ctx context.Context, rm RepositoryManager) error {
		if _, err := rm.Users().Create(ctx, &models.User{Email: "jane@x.com"}); err != nil {
			return err
		}
		// nested WithTx reuses the open transaction
		return rm.WithTx(ctx, func(ctx context.Context, rm RepositoryManager) error {
			return rm.PendingRegistrations().Delete(ctx, "sess")
		})
	})
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresWithTx_Rollback(t *testing.T) {
	db, mock := newDB(t)
	m := NewPostgresRepositoryManager(db)

	mock.ExpectBegin()
	mock.ExpectQuery(`INSERT\s+INTO\s+users`).WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow("u-1"))
	mock.ExpectExec(`DELETE\s+FROM\s+temp_users`).WillReturnError(errors.New("lost connection"))
	mock.ExpectRollback()

	err := m.WithTx(context.Background(), func(ctx context.Context, rm RepositoryManager) error {
		if _, err := rm.Users().Create(ctx, &models.User{Email: "jane@x.com"}); err != nil {
			return err
		}
		return rm.PendingRegistrations().Delete(ctx, "sess")
	})
	require.Error(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRunMigrations(t *testing.T) {
	db, _ := newDB(t)
	m := NewPostgresRepositoryManager(db)

	orig := gooseUpContext
	t.Cleanup(func() { gooseUpContext = orig })

	gooseUpContext = func(ctx context.Context, db *sql.DB, dir string, opts ...goose.OptionsFunc) error {
		if dir != "." {
			return errors.New("unexpected dir")
		}
		return nil
	}
	require.NoError(t, m.RunMigrations(context.Background()))

	gooseUpContext = func(ctx context.Context, db *sql.DB, dir string, opts ...goose.OptionsFunc) error {
		return errors.New("boom")
	}
	assert.EqualError(t, m.RunMigrations(context.Background()), "boom")
}

func TestOpenPostgres(t *testing.T) {
	orig := sqlOpen
	t.Cleanup(func() { sqlOpen = orig })

	t.Run("ping ok", func(t *testing.T) {
		db, mock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
		require.NoError(t, err)
		mock.ExpectPing()

		sqlOpen = func(driver, dsn string) (*sql.DB, error) {
			assert.Equal(t, "pgx", driver)
			return db, nil
		}

		got, err := OpenPostgres(context.Background(), "postgres://x")
		require.NoError(t, err)
		assert.Same(t, db, got)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("open error", func(t *testing.T) {
		sqlOpen = func(driver, dsn string) (*sql.DB, error) { return nil, errors.New("bad dsn") }

		_, err := OpenPostgres(context.Background(), "::")
		assert.ErrorContains(t, err, "bad dsn")
	})

	t.Run("ping gives up when context ends", func(t *testing.T) {
		db, mock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
		require.NoError(t, err)
		mock.ExpectPing().WillReturnError(errors.New("refused"))

		sqlOpen = func(driver, dsn string) (*sql.DB, error) { return db, nil }

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		_, err = OpenPostgres(ctx, "postgres://x")
		assert.Error(t, err)
	})
}

func TestPostgresPing(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	m := NewPostgresRepositoryManager(db)

	mock.ExpectPing()
	assert.NoError(t, m.Ping(context.Background()))

	mock.ExpectPing().WillReturnError(errors.New("down"))
	assert.Error(t, m.Ping(context.Background()))

	require.NoError(t, mock.ExpectationsWereMet())
}
