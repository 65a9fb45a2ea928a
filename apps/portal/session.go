package main

import (
	"context"
	"fmt"

	"github.com/pkg/errors"

	"github.com/trezcool/campus/core/user"
)

var errPasswordMismatch = errors.New("passwords do not match")

func (cli *commandLine) login(ctx context.Context, role user.Role, email, pwd string) error {
	ident, err := cli.session.Login(ctx, email, pwd, role)
	if err != nil {
		return err
	}
	fmt.Fprintf(cli.out, "Logged in as %s (%s).\n", ident.Name(), ident.Role)
	return nil
}

func (cli *commandLine) logout(ctx context.Context) error {
	if err := cli.session.Logout(ctx); err != nil {
		return err
	}
	fmt.Fprintln(cli.out, "Logged out.")
	return nil
}

func (cli *commandLine) whoami() error {
	state := cli.session.State()
	if !state.LoggedIn() {
		fmt.Fprintln(cli.out, "Not logged in.")
		return nil
	}
	ident := state.Identity
	fmt.Fprintf(cli.out, "%s %s: %s <%s>\n", ident.Role, ident.ID(), ident.Name(), ident.Email())
	return nil
}

func (cli *commandLine) runPasswd(ctx context.Context) error {
	if _, err := cli.require(user.RoleStudent); err != nil {
		return err
	}
	oldPwd, err := cli.promptPassword("Current password:")
	if err != nil {
		return err
	}
	newPwd, err := cli.promptPassword("New password:")
	if err != nil {
		return err
	}
	confirm, err := cli.promptPassword("Confirm new password:")
	if err != nil {
		return err
	}
	if newPwd == "" {
		return errHelp
	}
	if newPwd != confirm {
		return errPasswordMismatch
	}

	if err := cli.session.ChangePassword(ctx, oldPwd, newPwd); err != nil {
		return err
	}
	fmt.Fprintln(cli.out, "Password has been changed.")
	return nil
}
