package postgres

import (
	"context"
	"database/sql"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/campus/core/store"
)

func newMockKV(t *testing.T) (*KV, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return NewKV(sqlx.NewDb(db, "postgres")), mock
}

func TestKV_Get(t *testing.T) {
	ctx := context.Background()
	kv, mock := newMockKV(t)

	mock.ExpectQuery(regexp.QuoteMeta(getQuery)).
		WithArgs("students").
		WillReturnRows(sqlmock.NewRows([]string{"value"}).AddRow([]byte(`[{"id":"s1"}]`)))
	mock.ExpectQuery(regexp.QuoteMeta(getQuery)).
		WithArgs("faculty").
		WillReturnError(sql.ErrNoRows)
	mock.ExpectQuery(regexp.QuoteMeta(getQuery)).
		WithArgs("menu").
		WillReturnError(sql.ErrConnDone)

	val, err := kv.Get(ctx, "students")
	require.NoError(t, err)
	assert.Equal(t, `[{"id":"s1"}]`, string(val))

	_, err = kv.Get(ctx, "faculty")
	assert.Equal(t, store.ErrKeyNotFound, err)

	_, err = kv.Get(ctx, "menu")
	assert.Error(t, err)
	assert.NotEqual(t, store.ErrKeyNotFound, err)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestKV_SetDelete(t *testing.T) {
	ctx := context.Background()
	kv, mock := newMockKV(t)

	mock.ExpectExec(regexp.QuoteMeta(upsertQuery)).
		WithArgs("userRole", []byte(`"student"`)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta(deleteQuery)).
		WithArgs("userRole").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta(deleteQuery)).
		WithArgs("userRole").
		WillReturnResult(sqlmock.NewResult(0, 0))

	require.NoError(t, kv.Set(ctx, "userRole", []byte(`"student"`)))
	require.NoError(t, kv.Delete(ctx, "userRole"))
	assert.Equal(t, store.ErrKeyNotFound, kv.Delete(ctx, "userRole"))

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestKV_Records(t *testing.T) {
	ctx := context.Background()
	kv, mock := newMockKV(t)
	records := store.NewRecords(kv)

	mock.ExpectQuery(regexp.QuoteMeta(getQuery)).
		WithArgs(store.KeyFeesSettings).
		WillReturnError(sql.ErrNoRows)
	mock.ExpectExec(regexp.QuoteMeta(upsertQuery)).
		WithArgs(store.KeyFeesSettings, []byte(`{"enabled":true}`)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	dst := struct {
		Enabled bool `json:"enabled"`
	}{Enabled: true}
	require.NoError(t, records.Load(ctx, store.KeyFeesSettings, &dst))
	assert.True(t, dst.Enabled)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestKV_Keys(t *testing.T) {
	kv, mock := newMockKV(t)
	mock.ExpectQuery(regexp.QuoteMeta(keysQuery)).
		WillReturnRows(sqlmock.NewRows([]string{"key"}).AddRow("faculty").AddRow("students"))

	keys, err := kv.Keys(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"faculty", "students"}, keys)
	assert.NoError(t, mock.ExpectationsWereMet())
}
