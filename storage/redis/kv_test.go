package redisstore

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/trezcool/campus/core"
)

func TestKV_keys(t *testing.T) {
	kv := New(nil, "campus:")
	assert.Equal(t, "campus:students", kv.key("students"))
	assert.Equal(t, "students", kv.unkey("campus:students"))

	kv = New(nil, "")
	assert.Equal(t, "userRole", kv.key("userRole"))
}

func TestOpen_unreachable(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	_, err := Open(ctx, core.RedisConfig{Addr: "127.0.0.1:1", Prefix: "campus:"})
	assert.Error(t, err)
}
