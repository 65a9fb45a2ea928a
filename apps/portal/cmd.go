package main

import (
	"context"
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
	"github.com/trezcool/campus/core/session"
	"github.com/trezcool/campus/core/user"
)

var (
	readPasswordFunc = term.ReadPassword // mockable

	errHelp = errors.New("help provided")
)

// loginRequiredError is the gate turning a command away.
type loginRequiredError struct {
	Role     user.Role
	Redirect string
}

func (err *loginRequiredError) Error() string {
	return fmt.Sprintf("login required: redirect to %s", err.Redirect)
}

type commandLine struct {
	out      io.Writer
	session  *session.Manager
	validate *validator.Validate

	usrSvc  *user.Service
	appSvc  *application.Service
	feeSvc  *fee.Service
	menuSvc *menu.Service
}

func (cli *commandLine) printUsage() {
	fmt.Fprintln(cli.out, "Usage:")
	fmt.Fprintln(cli.out, "  login -role student|faculty|admin -email EMAIL - open a session, the password is prompted")
	fmt.Fprintln(cli.out, "  logout - close the session")
	fmt.Fprintln(cli.out, "  whoami - print the logged in identity")
	fmt.Fprintln(cli.out, "  passwd - change the password (students)")
	fmt.Fprintln(cli.out, "  apply -type TYPE -reason REASON -dates DATES [-faculty ID] - submit an application (students)")
	fmt.Fprintln(cli.out, "  applications [-department D] [-batch B] [-status S] - list the applications you can see")
	fmt.Fprintln(cli.out, "  decide -id ID -status Approved|Rejected [-remarks R] - decide an application (faculty, admin)")
	fmt.Fprintln(cli.out, "  fees - print your fee statement (students)")
	fmt.Fprintln(cli.out, "  pay -category CATEGORY -mode MODE - pay a fee online (students)")
	fmt.Fprintln(cli.out, "  menu - print the weekly hostel menu (students)")
}

// run restores the session, then dispatches args[1].
func (cli *commandLine) run(args []string) error {
	if len(args) < 2 {
		cli.printUsage()
		return errHelp
	}

	ctx := context.Background()
	if _, err := cli.session.Restore(ctx); err != nil {
		return err
	}

	switch args[1] {
	case "login":
		loginCmd := flag.NewFlagSet("login", flag.ContinueOnError)
		loginCmd.SetOutput(cli.out)
		role := loginCmd.String("role", "", "student, faculty or admin.")
		email := loginCmd.String("email", "", "Your email. The password will be prompted next.")
		if err := loginCmd.Parse(args[2:]); err != nil {
			return errHelp
		}
		r, ok := user.ParseRole(*role)
		if !ok || *email == "" {
			loginCmd.Usage()
			return errHelp
		}
		pwd, err := cli.promptPassword("Enter password:")
		if err != nil {
			return err
		}
		return cli.login(ctx, r, *email, pwd)
	case "logout":
		return cli.logout(ctx)
	case "whoami":
		return cli.whoami()
	case "passwd":
		return cli.runPasswd(ctx)
	case "apply":
		applyCmd := flag.NewFlagSet("apply", flag.ContinueOnError)
		applyCmd.SetOutput(cli.out)
		var na application.NewApplication
		applyCmd.StringVar(&na.Type, "type", "", "On-Duty, Leave or Bonafide Certificate.")
		applyCmd.StringVar(&na.Reason, "reason", "", "Why you apply.")
		applyCmd.StringVar(&na.Dates, "dates", "", "Dates concerned, or the issue date of a certificate.")
		applyCmd.StringVar(&na.FacultyAssignedID, "faculty", "", "On-Duty: the faculty member to assign.")
		if err := applyCmd.Parse(args[2:]); err != nil {
			return errHelp
		}
		return cli.apply(ctx, na)
	case "applications":
		listCmd := flag.NewFlagSet("applications", flag.ContinueOnError)
		listCmd.SetOutput(cli.out)
		var filter application.Filter
		listCmd.StringVar(&filter.Department, "department", "", "Admin: only this department.")
		listCmd.StringVar(&filter.Batch, "batch", "", "Admin: only this batch.")
		listCmd.StringVar(&filter.Status, "status", "", "Admin: only this status.")
		if err := listCmd.Parse(args[2:]); err != nil {
			return errHelp
		}
		return cli.applications(ctx, filter)
	case "decide":
		decideCmd := flag.NewFlagSet("decide", flag.ContinueOnError)
		decideCmd.SetOutput(cli.out)
		id := decideCmd.String("id", "", "The application ID.")
		var d application.Decision
		decideCmd.StringVar(&d.Status, "status", "", "Approved or Rejected.")
		decideCmd.StringVar(&d.Remarks, "remarks", "", "Remarks for the student.")
		if err := decideCmd.Parse(args[2:]); err != nil {
			return errHelp
		}
		if *id == "" {
			decideCmd.Usage()
			return errHelp
		}
		return cli.decide(ctx, *id, d)
	case "fees":
		return cli.fees(ctx)
	case "pay":
		payCmd := flag.NewFlagSet("pay", flag.ContinueOnError)
		payCmd.SetOutput(cli.out)
		category := payCmd.String("category", "", "The fee category, e.g. Exam.")
		var p fee.Payment
		payCmd.StringVar(&p.Mode, "mode", "", "GPay/UPI, Net Banking or Bank Transfer.")
		if err := payCmd.Parse(args[2:]); err != nil {
			return errHelp
		}
		if *category == "" {
			payCmd.Usage()
			return errHelp
		}
		return cli.pay(ctx, *category, p)
	case "menu":
		return cli.menu(ctx)
	default:
		cli.printUsage()
		return errHelp
	}
}

func (cli *commandLine) promptPassword(prompt string) (string, error) {
	fmt.Fprint(cli.out, prompt)
	pwd, err := readPasswordFunc(int(syscall.Stdin))
	fmt.Fprintln(cli.out)
	if err != nil {
		return "", err
	}
	return string(pwd), nil
}

// require admits the session if it holds one of roles; the first role names the login to go to.
func (cli *commandLine) require(roles ...user.Role) (user.Identity, error) {
	for _, r := range roles {
		if d := cli.session.Authorize(r); d.Allowed {
			return cli.session.State().Identity, nil
		}
	}
	d := cli.session.Authorize(roles[0])
	return user.Identity{}, &loginRequiredError{Role: roles[0], Redirect: d.Redirect}
}
