package users

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dmitrijs2005/gophauth/internal/common"
	"github.com/dmitrijs2005/gophauth/internal/server/models"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	insertQuery  = `(?s)^INSERT\s+INTO\s+users\s*\(username,\s*email,\s*password,\s*created_at\)\s*VALUES\s*\(\$1,\s*\$2,\s*\$3,\s*\$4\)\s*RETURNING\s+id\s*$`
	byEmailQuery = `(?s)^SELECT\s+id,\s*username,\s*email,\s*password,\s*created_at\s+FROM\s+users\s+WHERE\s+email\s*=\s*\$1\s*$`
	existsQuery  = `(?s)^SELECT\s+COUNT\(\*\)\s+FROM\s+users\s+WHERE\s+username\s*=\s*\$1\s+OR\s+email\s*=\s*\$2\s*$`
	listQuery    = `(?s)^SELECT\s+id,\s*username,\s*email,\s*password,\s*created_at\s+FROM\s+users\s+ORDER\s+BY\s+id\s*$`
)

var userColumns = []string{"id", "username", "email", "password", "created_at"}

func newRepoWithMock(t *testing.T) (*PostgresRepository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return NewPostgresRepository(db), mock
}

func TestCreate_Success(t *testing.T) {
	repo, mock := newRepoWithMock(t)
	created := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)

	mock.ExpectQuery(insertQuery).
		WithArgs("alice", "alice@x.com", "$2a$hash", created).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(42)))

	u := &models.User{UserName: "alice", Email: "alice@x.com", Password: "$2a$hash", CreatedAt: created}
	got, err := repo.Create(context.Background(), u)
	require.NoError(t, err)
	assert.Equal(t, int64(42), got.ID)
	assert.Equal(t, created, got.CreatedAt)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreate_UniqueViolation(t *testing.T) {
	repo, mock := newRepoWithMock(t)

	mock.ExpectQuery(insertQuery).
		WithArgs("alice", "alice@x.com", "h", sqlmock.AnyArg()).
		WillReturnError(&pgconn.PgError{Code: "23505", ConstraintName: "users_email_key"})

	_, err := repo.Create(context.Background(), &models.User{UserName: "alice", Email: "alice@x.com", Password: "h"})
	assert.ErrorIs(t, err, common.ErrorAlreadyExists)
}

func TestCreate_DBError(t *testing.T) {
	repo, mock := newRepoWithMock(t)

	mock.ExpectQuery(insertQuery).
		WithArgs("alice", "alice@x.com", "h", sqlmock.AnyArg()).
		WillReturnError(errors.New("db down"))

	_, err := repo.Create(context.Background(), &models.User{UserName: "alice", Email: "alice@x.com", Password: "h"})
	require.Error(t, err)
	assert.Regexp(t, regexp.MustCompile(`db error: .*db down`), err.Error())
	assert.NotErrorIs(t, err, common.ErrorAlreadyExists)
}

func TestGetUserByEmail_Found(t *testing.T) {
	repo, mock := newRepoWithMock(t)
	created := time.Now().UTC()

	mock.ExpectQuery(byEmailQuery).
		WithArgs("alice@x.com").
		WillReturnRows(sqlmock.NewRows(userColumns).AddRow(int64(1), "alice", "alice@x.com", "hash", created))

	got, err := repo.GetUserByEmail(context.Background(), "alice@x.com")
	require.NoError(t, err)
	assert.Equal(t, &models.User{ID: 1, UserName: "alice", Email: "alice@x.com", Password: "hash", CreatedAt: created}, got)
}

func TestGetUserByEmail_NotFound(t *testing.T) {
	repo, mock := newRepoWithMock(t)

	mock.ExpectQuery(byEmailQuery).
		WithArgs("ghost@x.com").
		WillReturnError(sql.ErrNoRows)

	_, err := repo.GetUserByEmail(context.Background(), "ghost@x.com")
	assert.ErrorIs(t, err, common.ErrorNotFound)
}

func TestGetUserByEmail_DBError(t *testing.T) {
	repo, mock := newRepoWithMock(t)

	mock.ExpectQuery(byEmailQuery).
		WithArgs("alice@x.com").
		WillReturnError(errors.New("db err"))

	_, err := repo.GetUserByEmail(context.Background(), "alice@x.com")
	require.Error(t, err)
	assert.Regexp(t, `db error: .*db err`, err.Error())
}

func TestExistsByUserNameOrEmail(t *testing.T) {
	repo, mock := newRepoWithMock(t)

	mock.ExpectQuery(existsQuery).
		WithArgs("alice", "alice@x.com").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))
	mock.ExpectQuery(existsQuery).
		WithArgs("bob", "bob@x.com").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))

	ok, err := repo.ExistsByUserNameOrEmail(context.Background(), "alice", "alice@x.com")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = repo.ExistsByUserNameOrEmail(context.Background(), "bob", "bob@x.com")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestList(t *testing.T) {
	repo, mock := newRepoWithMock(t)
	now := time.Now().UTC()

	mock.ExpectQuery(listQuery).
		WillReturnRows(sqlmock.NewRows(userColumns).
			AddRow(int64(1), "alice", "alice@x.com", "h1", now).
			AddRow(int64(2), "bob", "bob@x.com", "h2", now))

	got, err := repo.List(context.Background())
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "alice", got[0].UserName)
	assert.Equal(t, "bob", got[1].UserName)
}

func TestList_Empty(t *testing.T) {
	repo, mock := newRepoWithMock(t)

	mock.ExpectQuery(listQuery).WillReturnRows(sqlmock.NewRows(userColumns))

	got, err := repo.List(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestList_ScanError(t *testing.T) {
	repo, mock := newRepoWithMock(t)

	mock.ExpectQuery(listQuery).
		WillReturnRows(sqlmock.NewRows(userColumns).AddRow("not-a-number", "a", "a@x.com", "h", time.Now()))

	_, err := repo.List(context.Background())
	assert.ErrorContains(t, err, "db error")
}
