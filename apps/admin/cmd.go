package main

import (
	"database/sql"
	"errors"
	"flag"
	"fmt"
	"io"
	"syscall"

	"github.com/go-playground/validator/v10"
	"golang.org/x/term"

	"github.com/trezcool/campus/core/application"
	"github.com/trezcool/campus/core/fee"
	"github.com/trezcool/campus/core/menu"
	"github.com/trezcool/campus/core/settings"
	"github.com/trezcool/campus/core/store"
	"github.com/trezcool/campus/core/user"
	"github.com/trezcool/campus/storage"
)

var (
	readPasswordFunc = term.ReadPassword // mockable

	errHelp       = errors.New("help provided")
	errNoDatabase = errors.New("migrate needs the postgres storage engine")
)

type commandLine struct {
	out      io.Writer
	db       *sql.DB // nil unless the storage engine is postgres
	backend  storage.Backend
	records  *store.Records
	validate *validator.Validate

	usrSvc      *user.Service
	settingsSvc *settings.Service
	menuSvc     *menu.Service
	appSvc      *application.Service
	feeSvc      *fee.Service
}

func (cli *commandLine) printUsage() {
	fmt.Fprintln(cli.out, "Usage:")
	fmt.Fprintln(cli.out, "  migrate COMMAND [ARGS] - run a goose migration command (postgres only)")
	fmt.Fprintln(cli.out, "  seed [-empty] - reset every collection to the demo data, or to empty collections")
	fmt.Fprintln(cli.out, "  adduser -role student|faculty ... - register a student or faculty member")
	fmt.Fprintln(cli.out, "  resetpassword -role student|faculty -email EMAIL - reset a password")
	fmt.Fprintln(cli.out, "  settings [-payments on|off] [-faculty-edit on|off] - show or change the switches")
	fmt.Fprintln(cli.out, "  report - print fee collection and application counts")
	fmt.Fprintln(cli.out, "  status - list the stored record keys")
}

func (cli *commandLine) run(args []string) error {
	if len(args) < 2 {
		cli.printUsage()
		return errHelp
	}

	switch args[1] {
	case "migrate":
		if len(args) < 3 {
			cli.printUsage()
			return errHelp
		}
		return cli.migrate(args[2:])
	case "seed":
		seedCmd := flag.NewFlagSet("seed", flag.ContinueOnError)
		seedCmd.SetOutput(cli.out)
		empty := seedCmd.Bool("empty", false, "Start from empty collections instead of the demo data.")
		if err := seedCmd.Parse(args[2:]); err != nil {
			return errHelp
		}
		return cli.seed(*empty)
	case "adduser":
		return cli.runAddUser(args[2:])
	case "resetpassword":
		resetPasswordCmd := flag.NewFlagSet("resetpassword", flag.ContinueOnError)
		resetPasswordCmd.SetOutput(cli.out)
		role := resetPasswordCmd.String("role", "", "student or faculty.")
		email := resetPasswordCmd.String("email", "", "The user's email. The password will be prompted next.")
		if err := resetPasswordCmd.Parse(args[2:]); err != nil {
			return errHelp
		}
		r, ok := user.ParseRole(*role)
		if !ok || r == user.RoleAdmin || *email == "" {
			resetPasswordCmd.Usage()
			return errHelp
		}
		pwd, err := cli.promptPassword()
		if err != nil {
			return err
		}
		if len(pwd) == 0 {
			resetPasswordCmd.Usage()
			return errHelp
		}
		return cli.resetPassword(r, *email, pwd)
	case "settings":
		settingsCmd := flag.NewFlagSet("settings", flag.ContinueOnError)
		settingsCmd.SetOutput(cli.out)
		payments := settingsCmd.String("payments", "", "on or off: allow students to pay online.")
		facultyEdit := settingsCmd.String("faculty-edit", "", "on or off: allow faculty to edit students.")
		if err := settingsCmd.Parse(args[2:]); err != nil {
			return errHelp
		}
		var us settings.UpdateSettings
		var err error
		if us.PaymentsEnabled, err = parseSwitch(*payments); err != nil {
			settingsCmd.Usage()
			return errHelp
		}
		if us.FacultyCanEdit, err = parseSwitch(*facultyEdit); err != nil {
			settingsCmd.Usage()
			return errHelp
		}
		return cli.settings(us)
	case "report":
		return cli.report()
	case "status":
		return cli.status()
	default:
		cli.printUsage()
		return errHelp
	}
}

func (cli *commandLine) promptPassword() (string, error) {
	fmt.Fprint(cli.out, "Enter password:")
	pwd, err := readPasswordFunc(int(syscall.Stdin))
	fmt.Fprintln(cli.out)
	if err != nil {
		return "", err
	}
	return string(pwd), nil
}

// parseSwitch reads "on" or "off". An empty value leaves the switch alone.
func parseSwitch(s string) (*bool, error) {
	switch s {
	case "":
		return nil, nil
	case "on":
		v := true
		return &v, nil
	case "off":
		v := false
		return &v, nil
	}
	return nil, fmt.Errorf("%q: expected on or off", s)
}
