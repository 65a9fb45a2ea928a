package session

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/campus/core/store"
	"github.com/trezcool/campus/storage/inmem"
)

func TestRevocations(t *testing.T) {
	ctx := context.Background()
	records := store.NewRecords(inmem.New())
	revs := NewRevocations(records)

	now := time.Date(2024, 9, 3, 14, 0, 0, 0, time.UTC)
	nowFunc = func() time.Time { return now }
	defer func() { nowFunc = time.Now }()

	ok, err := revs.Revoked(ctx, "t1")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, revs.Revoke(ctx, "t1", now.Add(time.Minute)))
	require.NoError(t, revs.Revoke(ctx, "t2", now.Add(time.Hour)))
	for _, id := range []string{"t1", "t2"} {
		ok, err = revs.Revoked(ctx, id)
		require.NoError(t, err)
		assert.True(t, ok, id)
	}

	// t1 has expired by the next revocation
	now = now.Add(2 * time.Minute)
	require.NoError(t, revs.Revoke(ctx, "t3", now.Add(time.Hour)))

	var stored map[string]int64
	found, err := records.Peek(ctx, store.KeyRevokedTokens, &stored)
	require.NoError(t, err)
	require.True(t, found)
	assert.Len(t, stored, 2)
	assert.NotContains(t, stored, "t1")

	// another instance over the same records reads the same list
	ok, err = NewRevocations(records).Revoked(ctx, "t3")
	require.NoError(t, err)
	assert.True(t, ok)
}
