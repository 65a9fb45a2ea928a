package main

import "github.com/trezcool/campus/storage/postgres"

var migrateFunc = postgres.Migrate // mockable

func (cli *commandLine) migrate(args []string) error {
	if cli.db == nil {
		return errNoDatabase
	}
	return migrateFunc(cli.db, args[0], args[1:]...)
}
