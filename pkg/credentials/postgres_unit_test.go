package credentials

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"os"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMockStore(t *testing.T) (*PostgresStore, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)

	t.Cleanup(func() { _ = db.Close() })

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))

	return NewPostgresStoreWithDB(db, logger), mock
}

func TestPostgresStore_Get(t *testing.T) {
	store, mock := newMockStore(t)
	now := time.Now().UTC()

	mock.ExpectQuery(regexp.QuoteMeta("FROM app_credentials")).
		WithArgs("app-1").
		WillReturnRows(sqlmock.NewRows([]string{
			"authorized_app_id", "merchant_id", "access_token", "token_type", "created_at", "updated_at",
		}).AddRow("app-1", "merchant-1", "token", "Bearer", now, now))

	credential, err := store.Get(context.Background(), "app-1")
	require.NoError(t, err)
	assert.Equal(t, "merchant-1", credential.MerchantID)
	assert.Equal(t, "token", credential.AccessToken)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_GetNotFound(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectQuery(regexp.QuoteMeta("FROM app_credentials")).
		WithArgs("missing").
		WillReturnError(sql.ErrNoRows)

	credential, err := store.Get(context.Background(), "missing")
	assert.Nil(t, credential)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_GetDatabaseError(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectQuery(regexp.QuoteMeta("FROM app_credentials")).
		WithArgs("app-1").
		WillReturnError(errors.New("connection reset"))

	_, err := store.Get(context.Background(), "app-1")
	require.Error(t, err)
	assert.False(t, IsNotFound(err))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_Save(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO app_credentials")).
		WithArgs("app-1", "merchant-1", "token", "", sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))

	credential := &Credential{AuthorizedAppID: "app-1", MerchantID: "merchant-1", AccessToken: "token"}

	err := store.Save(context.Background(), credential)
	require.NoError(t, err)
	assert.False(t, credential.CreatedAt.IsZero())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_SaveInvalid(t *testing.T) {
	store, mock := newMockStore(t)

	err := store.Save(context.Background(), &Credential{AuthorizedAppID: "app-1"})
	assert.ErrorIs(t, err, ErrInvalidCredential)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_Delete(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM app_credentials")).
		WithArgs("app-1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM app_credentials")).
		WithArgs("app-1").
		WillReturnResult(sqlmock.NewResult(0, 0))

	require.NoError(t, store.Delete(context.Background(), "app-1"))
	assert.ErrorIs(t, store.Delete(context.Background(), "app-1"), ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}
