package store

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mapKV struct {
	mu   sync.Mutex
	data map[string][]byte
	sets int
}

func newMapKV() *mapKV { return &mapKV{data: make(map[string][]byte)} }

func (kv *mapKV) Get(_ context.Context, key string) ([]byte, error) {
	kv.mu.Lock()
	defer kv.mu.Unlock()
	v, ok := kv.data[key]
	if !ok {
		return nil, ErrKeyNotFound
	}
	return v, nil
}

func (kv *mapKV) Set(_ context.Context, key string, value []byte) error {
	kv.mu.Lock()
	defer kv.mu.Unlock()
	kv.data[key] = value
	kv.sets++
	return nil
}

func (kv *mapKV) Delete(_ context.Context, key string) error {
	kv.mu.Lock()
	defer kv.mu.Unlock()
	delete(kv.data, key)
	return nil
}

type record struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

func TestRecords_Load(t *testing.T) {
	ctx := context.Background()

	t.Run("missing key establishes default", func(t *testing.T) {
		kv := newMapKV()
		recs := NewRecords(kv)

		got := []record{{Name: "default", Count: 1}}
		require.NoError(t, recs.Load(ctx, KeyStudents, &got))
		assert.Equal(t, []record{{Name: "default", Count: 1}}, got)
		assert.JSONEq(t, `[{"name":"default","count":1}]`, string(kv.data[KeyStudents]))
	})

	t.Run("saved value wins over default", func(t *testing.T) {
		kv := newMapKV()
		recs := NewRecords(kv)
		require.NoError(t, recs.Save(ctx, KeyStudents, []record{{Name: "saved"}}))

		got := []record{{Name: "default"}, {Name: "other"}}
		require.NoError(t, recs.Load(ctx, KeyStudents, &got))
		assert.Equal(t, []record{{Name: "saved"}}, got)
	})

	t.Run("maps are replaced, not merged", func(t *testing.T) {
		kv := newMapKV()
		recs := NewRecords(kv)
		require.NoError(t, recs.Save(ctx, KeyStudentCreds, map[string]string{"s2": "b"}))

		got := map[string]string{"s1": "a"}
		require.NoError(t, recs.Load(ctx, KeyStudentCreds, &got))
		assert.Equal(t, map[string]string{"s2": "b"}, got)
	})

	t.Run("non pointer destination", func(t *testing.T) {
		recs := NewRecords(newMapKV())
		assert.Error(t, recs.Load(ctx, KeyStudents, []record{}))
	})

	t.Run("corrupt value", func(t *testing.T) {
		kv := newMapKV()
		kv.data[KeyStudents] = []byte("{nope")
		recs := NewRecords(kv)
		var got []record
		assert.Error(t, recs.Load(ctx, KeyStudents, &got))
	})
}

func TestRecords_Save(t *testing.T) {
	ctx := context.Background()
	kv := newMapKV()
	recs := NewRecords(kv)

	require.NoError(t, recs.Save(ctx, KeyFaculty, []record{{Name: "a"}, {Name: "b"}}))
	require.NoError(t, recs.Save(ctx, KeyFaculty, []record{{Name: "c"}}))

	var got []record
	require.NoError(t, recs.Load(ctx, KeyFaculty, &got))
	assert.Equal(t, []record{{Name: "c"}}, got)
}

func TestRecords_Update(t *testing.T) {
	ctx := context.Background()
	errBoom := errors.New("boom")

	t.Run("mutation saved", func(t *testing.T) {
		recs := NewRecords(newMapKV())
		got := record{Name: "x"}
		err := recs.Update(ctx, KeyFeesSettings, &got, func() error {
			got.Count++
			return nil
		})
		require.NoError(t, err)

		var again record
		require.NoError(t, recs.Load(ctx, KeyFeesSettings, &again))
		assert.Equal(t, record{Name: "x", Count: 1}, again)
	})

	t.Run("failed mutation not saved", func(t *testing.T) {
		kv := newMapKV()
		recs := NewRecords(kv)
		require.NoError(t, recs.Save(ctx, KeyFeesSettings, record{Name: "x"}))

		got := record{}
		err := recs.Update(ctx, KeyFeesSettings, &got, func() error {
			got.Count = 42
			return errBoom
		})
		assert.Equal(t, errBoom, err)

		var again record
		require.NoError(t, recs.Load(ctx, KeyFeesSettings, &again))
		assert.Equal(t, record{Name: "x"}, again)
	})

	t.Run("concurrent updates serialize", func(t *testing.T) {
		recs := NewRecords(newMapKV())
		var wg sync.WaitGroup
		for i := 0; i < 50; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				var r record
				_ = recs.Update(ctx, KeyAdminSettings, &r, func() error {
					r.Count++
					return nil
				})
			}()
		}
		wg.Wait()

		var got record
		require.NoError(t, recs.Load(ctx, KeyAdminSettings, &got))
		assert.Equal(t, 50, got.Count)
	})
}

func TestRecords_Remove(t *testing.T) {
	ctx := context.Background()
	kv := newMapKV()
	recs := NewRecords(kv)
	require.NoError(t, recs.Save(ctx, KeySessionUser, record{Name: "u"}))
	require.NoError(t, recs.Save(ctx, KeySessionRole, "student"))

	require.NoError(t, recs.Remove(ctx, KeySessionUser, KeySessionRole))
	require.NoError(t, recs.Remove(ctx, KeySessionUser)) // already gone

	ok, err := recs.Exists(ctx, KeySessionUser)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestRecords_Peek(t *testing.T) {
	ctx := context.Background()
	kv := newMapKV()
	recs := NewRecords(kv)

	var role string
	ok, err := recs.Peek(ctx, KeySessionRole, &role)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Zero(t, kv.sets, "peek never establishes a value")

	require.NoError(t, recs.Save(ctx, KeySessionRole, "faculty"))
	ok, err = recs.Peek(ctx, KeySessionRole, &role)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "faculty", role)
}
