package main

import (
	"context"
	"log"
	"os"

	"github.com/go-playground/validator/v10"

	"github.com/trezcool/campus/core"
	"github.com/trezcool/campus/core/application"
	"github.com/trezcool/campus/core/fee"
	"github.com/trezcool/campus/core/menu"
	"github.com/trezcool/campus/core/settings"
	"github.com/trezcool/campus/core/store"
	"github.com/trezcool/campus/core/user"
	emailsvc "github.com/trezcool/campus/services/email"
	logsvc "github.com/trezcool/campus/services/logger"
	"github.com/trezcool/campus/storage"
	"github.com/trezcool/campus/storage/postgres"
)

func main() {
	conf := core.NewConfig()
	logger := logsvc.NewRollbarLogger(
		log.New(os.Stdout, "ADMIN : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile),
		conf,
	)
	logger.Enable(!conf.Debug)

	cli, closeFn, err := newCommandLine(conf, logger)
	if err != nil {
		logger.Fatal("setting up storage", err)
	}

	err = cli.run(os.Args)
	if cErr := closeFn(); cErr != nil {
		logger.Error("closing storage", cErr)
	}
	if err != nil {
		if err != errHelp {
			logger.Error(err.Error(), err)
		}
		os.Exit(1)
	}
}

// newCommandLine opens the configured backend. Postgres is opened without
// migrating, so that `migrate` stays in control of the schema.
func newCommandLine(conf *core.Config, logger core.Logger) (*commandLine, func() error, error) {
	ctx := context.Background()
	cli := &commandLine{out: os.Stdout}
	if err := storage.RequireDurable(conf); err != nil {
		return nil, nil, err
	}

	if conf.Storage.Engine == core.EnginePostgres {
		if err := postgres.CreateIfNotExist(ctx, conf); err != nil {
			return nil, nil, err
		}
		db, err := postgres.Open(ctx, conf)
		if err != nil {
			return nil, nil, err
		}
		cli.db = db.DB
		cli.backend = postgres.NewKV(db)
	} else {
		backend, err := storage.Open(ctx, conf)
		if err != nil {
			return nil, nil, err
		}
		cli.backend = backend
	}

	cli.validate = validator.New()
	translator := core.NewTranslator()
	core.InitValidators(cli.validate, translator)
	user.InitValidators(cli.validate, translator)

	cli.records = store.NewRecords(cli.backend)
	cli.usrSvc = user.NewService(cli.records, conf)
	cli.settingsSvc = settings.NewService(cli.records)
	cli.menuSvc = menu.NewService(cli.records)
	cli.appSvc = application.NewService(cli.records, cli.usrSvc, emailsvc.NewConsoleService(conf, logger), logger)
	cli.feeSvc = fee.NewService(cli.usrSvc, cli.settingsSvc, logger)
	return cli, cli.backend.Close, nil
}
