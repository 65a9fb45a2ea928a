// Package redisstore stores each record as a plain string value under a key prefix.
package redisstore

import (
	"context"
	"strings"

	"github.com/go-redis/redis/v8"
	"github.com/pkg/errors"

	"github.com/trezcool/campus/core"
	"github.com/trezcool/campus/core/store"
)

type KV struct {
	client *redis.Client
	prefix string
}

var _ store.KV = (*KV)(nil)

func New(client *redis.Client, prefix string) *KV {
	return &KV{client: client, prefix: prefix}
}

// Open connects and pings the server.
func Open(ctx context.Context, conf core.RedisConfig) (*KV, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     conf.Addr,
		Password: conf.Password,
		DB:       conf.DB,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, errors.Wrap(err, "pinging redis")
	}
	return New(client, conf.Prefix), nil
}

func (kv *KV) key(k string) string { return kv.prefix + k }

func (kv *KV) unkey(k string) string { return strings.TrimPrefix(k, kv.prefix) }

func (kv *KV) Get(ctx context.Context, key string) ([]byte, error) {
	val, err := kv.client.Get(ctx, kv.key(key)).Bytes()
	if err == redis.Nil {
		return nil, store.ErrKeyNotFound
	}
	if err != nil {
		return nil, errors.Wrap(err, "getting record")
	}
	return val, nil
}

func (kv *KV) Set(ctx context.Context, key string, value []byte) error {
	return errors.Wrap(kv.client.Set(ctx, kv.key(key), value, 0).Err(), "setting record")
}

func (kv *KV) Delete(ctx context.Context, key string) error {
	n, err := kv.client.Del(ctx, kv.key(key)).Result()
	if err != nil {
		return errors.Wrap(err, "deleting record")
	}
	if n == 0 {
		return store.ErrKeyNotFound
	}
	return nil
}

func (kv *KV) Keys(ctx context.Context) ([]string, error) {
	keys := make([]string, 0)
	iter := kv.client.Scan(ctx, 0, kv.prefix+"*", 100).Iterator()
	for iter.Next(ctx) {
		keys = append(keys, kv.unkey(iter.Val()))
	}
	if err := iter.Err(); err != nil {
		return nil, errors.Wrap(err, "scanning records")
	}
	return keys, nil
}

func (kv *KV) Close() error {
	return kv.client.Close()
}
