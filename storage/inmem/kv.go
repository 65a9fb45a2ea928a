package inmem

import (
	"context"
	"sync"

	"github.com/trezcool/campus/core/store"
)

// KV keeps values in process memory. Values are copied in and out.
type KV struct {
	sync.RWMutex
	table map[string][]byte
}

var _ store.KV = (*KV)(nil)

func New() *KV {
	return &KV{table: make(map[string][]byte)}
}

func (kv *KV) Get(_ context.Context, key string) ([]byte, error) {
	kv.RLock()
	defer kv.RUnlock()

	val, ok := kv.table[key]
	if !ok {
		return nil, store.ErrKeyNotFound
	}
	return append([]byte(nil), val...), nil
}

func (kv *KV) Set(_ context.Context, key string, value []byte) error {
	kv.Lock()
	defer kv.Unlock()

	kv.table[key] = append([]byte(nil), value...)
	return nil
}

func (kv *KV) Delete(_ context.Context, key string) error {
	kv.Lock()
	defer kv.Unlock()

	if _, ok := kv.table[key]; !ok {
		return store.ErrKeyNotFound
	}
	delete(kv.table, key)
	return nil
}

// Keys returns the saved keys, in no particular order.
func (kv *KV) Keys(context.Context) ([]string, error) {
	kv.RLock()
	defer kv.RUnlock()

	keys := make([]string, 0, len(kv.table))
	for k := range kv.table {
		keys = append(keys, k)
	}
	return keys, nil
}

func (kv *KV) Close() error { return nil }
