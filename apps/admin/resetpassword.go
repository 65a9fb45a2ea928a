package main

import (
	"context"
	"fmt"

	"github.com/trezcool/campus/core/user"
)

func (cli *commandLine) resetPassword(role user.Role, email, pwd string) error {
	ctx := context.Background()
	ident, err := cli.usrSvc.FindByEmail(ctx, role, email)
	if err != nil {
		return err
	}
	if err := cli.usrSvc.ResetSecret(ctx, role, ident.ID(), pwd); err != nil {
		return err
	}
	fmt.Fprintf(cli.out, "Password of %s %s (%s) has been reset.\n", role, ident.ID(), ident.Email())
	return nil
}
