package main

import (
	"context"
	"fmt"
	"log"
	"os"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"

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
	"github.com/trezcool/campus/storage"
	"github.com/trezcool/campus/storage/postgres"
)

func main() {
	conf := core.NewConfig()
	logger := logsvc.NewRollbarLogger(
		log.New(os.Stderr, "PORTAL : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile),
		conf,
	)
	logger.Enable(!conf.Debug)

	if err := i18nsvc.Init(conf.Locale); err != nil {
		logger.Fatal(fmt.Sprintf("loading translations: %v", err), err)
	}
	if !i18nsvc.Supported(conf.Locale) {
		logger.Warn(fmt.Sprintf("no translations for locale %q, falling back to English", conf.Locale))
	}

	ctx := context.Background()
	if err := storage.RequireDurable(conf); err != nil {
		logger.Fatal(fmt.Sprintf("setting up storage: %v", err), err)
	}
	if conf.Storage.Engine == core.EnginePostgres {
		if err := postgres.CreateIfNotExist(ctx, conf); err != nil {
			logger.Fatal(fmt.Sprintf("setting up database: %v", err), err)
		}
	}
	backend, err := storage.Open(ctx, conf)
	if err != nil {
		logger.Fatal(fmt.Sprintf("setting up storage: %v", err), err)
	}

	validate := validator.New()
	translator := core.NewTranslator()
	core.InitValidators(validate, translator)
	user.InitValidators(validate, translator)
	application.InitValidators(validate, translator)

	var mailSvc core.EmailService
	if conf.Debug {
		mailSvc = emailsvc.NewConsoleService(conf, logger)
	} else {
		mailSvc = emailsvc.NewSendgridService(conf, logger)
	}

	records := store.NewRecords(backend)
	usrSvc := user.NewService(records, conf)
	settingsSvc := settings.NewService(records)
	cli := commandLine{
		out:      os.Stdout,
		session:  session.NewManager(usrSvc, session.NewStoreSlot(records)),
		validate: validate,
		usrSvc:   usrSvc,
		appSvc:   application.NewService(records, usrSvc, mailSvc, logger),
		feeSvc:   fee.NewService(usrSvc, settingsSvc, logger),
		menuSvc:  menu.NewService(records),
	}

	err = cli.run(os.Args)
	if cErr := backend.Close(); cErr != nil {
		logger.Error("closing storage", cErr)
	}
	if err != nil {
		if err != errHelp {
			fmt.Fprintln(os.Stderr, describe(err, conf.Locale, translator))
			if !isUserError(err) {
				logger.Error(err.Error(), err, cli.session.State().Identity)
			}
		}
		os.Exit(1)
	}
}

// messageID returns the translated message of a domain error.
func messageID(cause error) (string, bool) {
	switch {
	case core.Is(cause, core.ErrInvalidCredentials):
		return "invalidCredentials", true
	case core.Is(cause, core.ErrNotFound):
		return "notFound", true
	case core.Is(cause, core.ErrInvalidTransition):
		return "invalidTransition", true
	case core.Is(cause, core.ErrPaymentsDisabled):
		return "paymentsDisabled", true
	case core.Is(cause, core.ErrAlreadyPaid):
		return "alreadyPaid", true
	case core.Is(cause, core.ErrDuplicateEmail):
		return "duplicateEmail", true
	case core.Is(cause, core.ErrPermissionDenied):
		return "permissionDenied", true
	}
	return "", false
}

// describe turns err into the line printed to the user.
func describe(err error, locale string, translator ut.Translator) string {
	cause := errors.Cause(err)
	switch e := cause.(type) {
	case *loginRequiredError:
		return i18nsvc.Translate(locale, "loginRequired", map[string]interface{}{"Role": string(e.Role)})
	case validator.ValidationErrors:
		msg := ""
		for _, fe := range core.ValidationFieldErrors(e, translator) {
			msg += fe.Field + ": " + fe.Error + "\n"
		}
		return msg[:len(msg)-1]
	case *core.ValidationError:
		if e.Err == core.ErrDuplicateEmail {
			return i18nsvc.Translate(locale, "duplicateEmail")
		}
		if len(e.Fields) == 0 {
			return i18nsvc.Translate(locale, "invalidData")
		}
		msg := ""
		for _, fe := range e.Fields {
			msg += fe.Field + ": " + fe.Error + "\n"
		}
		return msg[:len(msg)-1]
	}
	if id, ok := messageID(cause); ok {
		return i18nsvc.Translate(locale, id)
	}
	if cause == errPasswordMismatch {
		return err.Error()
	}
	return i18nsvc.Translate(locale, "internalError")
}

func isUserError(err error) bool {
	cause := errors.Cause(err)
	switch cause.(type) {
	case *loginRequiredError, validator.ValidationErrors, *core.ValidationError:
		return true
	}
	_, ok := messageID(cause)
	return ok || cause == errPasswordMismatch
}
