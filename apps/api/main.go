package main

import (
	"context"
	"expvar"
	"fmt"
	"log"
	"net/http"
	_ "net/http/pprof"
	"os"

	"github.com/go-playground/validator/v10"

	echoapi "github.com/trezcool/campus/apps/api/echo"
	"github.com/trezcool/campus/core"
	"github.com/trezcool/campus/core/application"
	"github.com/trezcool/campus/core/fee"
	"github.com/trezcool/campus/core/menu"
	"github.com/trezcool/campus/core/session"
	"github.com/trezcool/campus/core/settings"
	"github.com/trezcool/campus/core/store"
	"github.com/trezcool/campus/core/user"
	emailsvc "github.com/trezcool/campus/services/email"
	i18nsvc "github.com/trezcool/campus/services/i18n"
	logsvc "github.com/trezcool/campus/services/logger"
	metricsvc "github.com/trezcool/campus/services/metrics"
	"github.com/trezcool/campus/storage"
	"github.com/trezcool/campus/storage/postgres"
)

func main() {
	// =========================================================================
	// Set up Dependencies

	conf := core.NewConfig()

	// set up loggers
	logger := logsvc.NewRollbarLogger(
		log.New(os.Stdout, "API : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile),
		conf,
	)
	logger.Enable(!conf.Debug)

	storeLogger := logsvc.NewRollbarLogger(
		log.New(os.Stdout, "STORE : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile),
		conf,
	)
	storeLogger.Enable(!conf.Debug)

	if err := i18nsvc.Init(conf.Locale); err != nil {
		logger.Fatal(fmt.Sprintf("loading translations: %v", err), err)
	}
	if !i18nsvc.Supported(conf.Locale) {
		logger.Warn(fmt.Sprintf("no translations for locale %q, falling back to English", conf.Locale))
	}

	// set up the record store
	backend, err := setUpStorage(conf)
	if err != nil {
		logger.Fatal(fmt.Sprintf("setting up storage: %v", err), err)
	}
	defer func() {
		if err = backend.Close(); err != nil {
			storeLogger.Fatal("Failed to close", err)
		}
	}()
	records := store.NewRecords(backend)

	// set up services
	var mailSvc core.EmailService
	if conf.Debug {
		mailSvc = emailsvc.NewConsoleService(conf, logger)
	} else {
		mailSvc = emailsvc.NewSendgridService(conf, logger)
	}
	usrSvc := user.NewService(records, conf)
	settingsSvc := settings.NewService(records)
	menuSvc := menu.NewService(records)
	appSvc := application.NewService(records, usrSvc, mailSvc, logger)
	feeSvc := fee.NewService(usrSvc, settingsSvc, logger)

	// =========================================================================
	// Initialize App

	logger.Info(fmt.Sprintf("Application initializing : version %q", conf.Build))
	defer logger.Info("Application stopped")

	validate := validator.New()
	translator := core.NewTranslator()
	core.InitValidators(validate, translator)
	user.InitValidators(validate, translator)
	application.InitValidators(validate, translator)
	menu.InitValidators(validate, translator)

	// =========================================================================
	// Start Debug Service
	//
	// /debug/pprof - Added to the default mux by importing the net/http/pprof package.
	// /debug/vars - Added to the default mux by importing the expvar package.

	// Expose important info under /debug/vars.
	expvar.NewString("build").Set(conf.Build)
	expvar.NewString("env").Set(conf.Env)
	expvar.NewString("storage").Set(conf.Storage.Engine)

	go func() {
		if err := http.ListenAndServe(conf.Server.DebugHost, http.DefaultServeMux); err != nil {
			logger.Error(fmt.Sprintf("debug server closed: %v", err), err)
		}
	}()

	// =========================================================================
	// Start API Service

	server := echoapi.NewServer(
		echoapi.ServerDeps{
			Conf:        conf,
			Logger:      logger,
			Metrics:     metricsvc.New(),
			Validate:    validate,
			Translator:  translator,
			UserSvc:     usrSvc,
			Revocations: session.NewRevocations(records),
			SettingsSvc: settingsSvc,
			MenuSvc:     menuSvc,
			AppSvc:      appSvc,
			FeeSvc:      feeSvc,
		},
	)

	go func() {
		server.Start()
	}()

	// =========================================================================
	// Shutdown

	select {
	case err = <-server.Errors():
		logger.Fatal(fmt.Sprintf("server error: %v", err), err)

	case sig := <-server.ShutdownSignal():
		logger.Info(fmt.Sprintf("%v: Start shutdown...", sig))

		// give outstanding requests a deadline for completion
		ctx, cancel := context.WithTimeout(context.Background(), conf.Server.ShutdownTimeout)
		defer cancel()

		// asking listener to shutdown and shed load
		if err = server.Shutdown(ctx); err != nil {
			logger.Error(fmt.Sprintf("could not stop server gracefully: %v", err), err)

			if err = server.Close(); err != nil {
				logger.Fatal(fmt.Sprintf("could not force stop server: %v", err), err)
			}
		}
	}
}

func setUpStorage(conf *core.Config) (storage.Backend, error) {
	ctx := context.Background()
	if conf.Storage.Engine == core.EnginePostgres {
		if err := postgres.CreateIfNotExist(ctx, conf); err != nil {
			return nil, err
		}
	}
	return storage.Open(ctx, conf)
}
