// Package storage opens the configured Record Store backend.
package storage

import (
	"context"

	"github.com/pkg/errors"

	"github.com/trezcool/campus/core"
	"github.com/trezcool/campus/core/store"
	"github.com/trezcool/campus/storage/inmem"
	mongostore "github.com/trezcool/campus/storage/mongo"
	"github.com/trezcool/campus/storage/postgres"
	redisstore "github.com/trezcool/campus/storage/redis"
)

// Backend is a KV that can list its keys and be closed.
type Backend interface {
	store.KV
	Keys(ctx context.Context) ([]string, error)
	Close() error
}

var (
	_ Backend = (*inmem.KV)(nil)
	_ Backend = (*postgres.KV)(nil)
	_ Backend = (*mongostore.KV)(nil)
	_ Backend = (*redisstore.KV)(nil)
)

// ErrNotDurable is returned by RequireDurable for engines that lose every record on exit.
var ErrNotDurable = errors.New("storage engine does not persist records between runs")

// RequireDurable fails for the memory engine.
// Command line tools run one process per command and need records to outlive it.
func RequireDurable(conf *core.Config) error {
	switch conf.Storage.Engine {
	case core.EngineMemory, "":
		return errors.Wrapf(ErrNotDurable, "%q engine: configure postgres, mongo or redis", core.EngineMemory)
	}
	return nil
}

// Open connects to the engine named in conf.Storage.Engine.
// Postgres migrations are applied on open.
func Open(ctx context.Context, conf *core.Config) (Backend, error) {
	switch conf.Storage.Engine {
	case core.EngineMemory, "":
		return inmem.New(), nil
	case core.EnginePostgres:
		db, err := postgres.Open(ctx, conf)
		if err != nil {
			return nil, err
		}
		if err := postgres.Migrate(db.DB, "up"); err != nil {
			_ = db.Close()
			return nil, err
		}
		return postgres.NewKV(db), nil
	case core.EngineMongo:
		return mongostore.Open(ctx, conf.Mongo)
	case core.EngineRedis:
		return redisstore.Open(ctx, conf.Redis)
	}
	return nil, errors.Errorf("unknown storage engine %q", conf.Storage.Engine)
}
