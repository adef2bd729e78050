package products

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dmitrijs2005/clicon/internal/common"
	"github.com/dmitrijs2005/clicon/internal/server/models"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var cols = []string{"id", "title", "description", "price", "offer_price", "category", "image_urls", "brand"}

func newPostgres(t *testing.T) (*PostgresRepository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewPostgresRepository(db), mock
}

func TestPostgres_Create(t *testing.T) {
	repo, mock := newPostgres(t)

	offer := 899.0
	mock.ExpectExec(`(?s)^INSERT\s+INTO\s+products`).
		WithArgs("p1", "Phone", "desc", 999.0, 899.0, "mobile", `[]`, "Acme").
		WillReturnResult(sqlmock.NewResult(0, 1))

	p := &models.Product{ID: "p1", Title: "Phone", Description: "desc", Price: 999, OfferPrice: &offer, Category: "mobile", Brand: "Acme"}
	got, err := repo.Create(context.Background(), p)
	require.NoError(t, err)
	assert.Equal(t, p, got)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgres_CreateDuplicate(t *testing.T) {
	repo, mock := newPostgres(t)
	mock.ExpectExec(`INSERT`).WillReturnError(&pgconn.PgError{Code: pgerrcode.UniqueViolation})

	_, err := repo.Create(context.Background(), &models.Product{ID: "p1"})
	assert.ErrorIs(t, err, common.ErrorAlreadyExists)
}

func TestPostgres_GetByID(t *testing.T) {
	t.Run("found", func(t *testing.T) {
		repo, mock := newPostgres(t)
		mock.ExpectQuery(`(?s)^SELECT\s+id,.*FROM\s+products\s+WHERE\s+id\s*=\s*\$1$`).
			WithArgs("p1").
			WillReturnRows(sqlmock.NewRows(cols).AddRow("p1", "Phone", "d", 10.0, nil, "mobile", []byte(`["https://a/1.png"]`), "Acme"))

		got, err := repo.GetByID(context.Background(), "p1")
		require.NoError(t, err)
		assert.Nil(t, got.OfferPrice)
		assert.Equal(t, []string{"https://a/1.png"}, got.ImageURLs)
	})

	t.Run("not found", func(t *testing.T) {
		repo, mock := newPostgres(t)
		mock.ExpectQuery(`SELECT`).WithArgs("p1").WillReturnError(sql.ErrNoRows)

		_, err := repo.GetByID(context.Background(), "p1")
		assert.ErrorIs(t, err, common.ErrorNotFound)
	})

	t.Run("bad uuid", func(t *testing.T) {
		repo, mock := newPostgres(t)
		mock.ExpectQuery(`SELECT`).WithArgs("x").WillReturnError(&pgconn.PgError{Code: pgerrcode.InvalidTextRepresentation})

		_, err := repo.GetByID(context.Background(), "x")
		assert.ErrorIs(t, err, common.ErrorInvalidID)
	})
}

func TestPostgres_GetByIDs(t *testing.T) {
	repo, mock := newPostgres(t)

	mock.ExpectQuery(`(?s)WHERE\s+id\s+IN\s+\(\$1,\s*\$2\)$`).
		WithArgs("p1", "p2").
		WillReturnRows(sqlmock.NewRows(cols).
			AddRow("p1", "A", "", 1.0, nil, "", []byte(`[]`), "").
			AddRow("p2", "B", "", 2.0, 1.5, "", nil, ""))

	got, err := repo.GetByIDs(context.Background(), []string{"p1", "p2"})
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, 1.5, *got[1].OfferPrice)
	assert.Equal(t, []string{}, got[1].ImageURLs)

	empty, err := repo.GetByIDs(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestPostgres_AppendImage(t *testing.T) {
	q := `(?s)^UPDATE\s+products\s+SET\s+image_urls\s*=\s*image_urls\s*\|\|\s*jsonb_build_array\(\$2::text\)\s+WHERE\s+id\s*=\s*\$1\s*$`

	t.Run("ok", func(t *testing.T) {
		repo, mock := newPostgres(t)
		mock.ExpectExec(q).WithArgs("p1", "https://u").WillReturnResult(sqlmock.NewResult(0, 1))
		require.NoError(t, repo.AppendImage(context.Background(), "p1", "https://u"))
	})

	t.Run("missing", func(t *testing.T) {
		repo, mock := newPostgres(t)
		mock.ExpectExec(q).WithArgs("p1", "https://u").WillReturnResult(sqlmock.NewResult(0, 0))
		assert.ErrorIs(t, repo.AppendImage(context.Background(), "p1", "https://u"), common.ErrorNotFound)
	})

	t.Run("db error", func(t *testing.T) {
		repo, mock := newPostgres(t)
		mock.ExpectExec(q).WillReturnError(errors.New("down"))
		assert.Error(t, repo.AppendImage(context.Background(), "p1", "https://u"))
	})
}

func TestPostgres_List(t *testing.T) {
	repo, mock := newPostgres(t)

	mock.ExpectQuery(`(?s)ORDER\s+BY\s+created_at,\s*id\s+LIMIT\s+\$1\s+OFFSET\s+\$2$`).
		WithArgs(5, 10).
		WillReturnRows(sqlmock.NewRows(cols).AddRow("p11", "K", "", 1.0, nil, "", []byte(`[]`), ""))

	got, err := repo.List(context.Background(), 10, 5)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "p11", got[0].ID)
}

func TestPostgres_Filter(t *testing.T) {
	repo, mock := newPostgres(t)

	mock.ExpectQuery(`(?s)WHERE\s+title\s+ILIKE\s+\$1\s+AND\s+brand\s+ILIKE\s+\$2\s+AND\s+category\s+ILIKE\s+\$3`).
		WithArgs("%pho%", "%50\\%%", "%%", 5).
		WillReturnRows(sqlmock.NewRows(cols))

	got, err := repo.Filter(context.Background(), models.ProductFilter{Title: "pho", Brand: "50%"}, 5)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestLikePattern(t *testing.T) {
	assert.Equal(t, "%%", likePattern(""))
	assert.Equal(t, `%a\_b\\c%`, likePattern(`a_b\c`))
}
