package main

import (
	"context"
	"fmt"
	"text/tabwriter"

	"github.com/trezcool/campus/core"
	"github.com/trezcool/campus/core/application"
	"github.com/trezcool/campus/core/user"
)

func (cli *commandLine) apply(ctx context.Context, na application.NewApplication) error {
	ident, err := cli.require(user.RoleStudent)
	if err != nil {
		return err
	}
	if err := na.Validate(cli.validate); err != nil {
		return err
	}
	s, err := cli.usrSvc.GetStudent(ctx, ident.ID())
	if err != nil {
		return err
	}
	app, err := cli.appSvc.Submit(ctx, s, na)
	if err != nil {
		return err
	}
	fmt.Fprintf(cli.out, "%s application %s submitted.\n", app.Type, app.ID)
	return nil
}

// applications lists what the logged in identity may see. Filters apply to admins only.
func (cli *commandLine) applications(ctx context.Context, filter application.Filter) error {
	ident, err := cli.require(user.RoleStudent, user.RoleFaculty, user.RoleAdmin)
	if err != nil {
		return err
	}
	if err := cli.validate.Struct(filter); err != nil {
		return err
	}
	// faculty scope follows the current department, not the one saved at login
	if ident, err = cli.usrSvc.Lookup(ctx, ident.Role, ident.ID()); err != nil {
		return err
	}
	apps, err := cli.appSvc.ListFor(ctx, ident, filter)
	if err != nil {
		return err
	}
	if len(apps) == 0 {
		fmt.Fprintln(cli.out, "No applications.")
		return nil
	}

	w := tabwriter.NewWriter(cli.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tTYPE\tSTATUS\tSTUDENT\tDATES\tSUBMITTED\tREMARKS")
	for _, a := range apps {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s (%s)\t%s\t%s\t%s\n",
			a.ID, a.Type, a.Status, a.StudentName, a.StudentRollNumber, a.Dates,
			a.SubmittedAt.Format(core.DateLayout), a.Remarks)
	}
	return w.Flush()
}

func (cli *commandLine) decide(ctx context.Context, id string, d application.Decision) error {
	ident, err := cli.require(user.RoleFaculty, user.RoleAdmin)
	if err != nil {
		return err
	}
	if err := d.Validate(cli.validate); err != nil {
		return err
	}
	if ident, err = cli.usrSvc.Lookup(ctx, ident.Role, ident.ID()); err != nil {
		return err
	}
	app, err := cli.appSvc.DecideAs(ctx, ident, id, d)
	if err != nil {
		return err
	}
	fmt.Fprintf(cli.out, "Application %s %s.\n", app.ID, app.Status)
	return nil
}
