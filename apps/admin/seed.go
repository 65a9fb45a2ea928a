package main

import (
	"context"
	"fmt"
	"time"

	"github.com/pkg/errors"

	"github.com/trezcool/campus/core/application"
	"github.com/trezcool/campus/core/store"
	"github.com/trezcool/campus/core/user"
)

type slot struct {
	key   string
	value interface{}
}

// seed drops every slot, the portal session included, and writes the collections back.
// Settings and the hostel menu get their defaults.
func (cli *commandLine) seed(empty bool) error {
	ctx := context.Background()
	if err := cli.records.Remove(ctx, store.AllKeys...); err != nil {
		return errors.Wrap(err, "clearing records")
	}

	slots := []slot{
		{store.KeyStudents, user.SeedStudents()},
		{store.KeyFaculty, user.SeedFaculty()},
		{store.KeyApplications, application.Seed(time.Now())},
		{store.KeyStudentCreds, user.SeedStudentCredentials()},
		{store.KeyFacultyCreds, user.SeedFacultyCredentials()},
	}
	if empty {
		slots = []slot{
			{store.KeyStudents, []user.Student{}},
			{store.KeyFaculty, []user.Faculty{}},
			{store.KeyApplications, []application.Application{}},
			{store.KeyStudentCreds, user.Credentials{}},
			{store.KeyFacultyCreds, user.Credentials{}},
		}
	}
	for _, s := range slots {
		if err := cli.records.Save(ctx, s.key, s.value); err != nil {
			return err
		}
	}

	if _, err := cli.settingsSvc.Get(ctx); err != nil {
		return err
	}
	if _, err := cli.menuSvc.Get(ctx); err != nil {
		return err
	}

	if empty {
		fmt.Fprintln(cli.out, "Records reset to empty collections.")
	} else {
		fmt.Fprintln(cli.out, "Records reset to the demo data.")
	}
	return nil
}
