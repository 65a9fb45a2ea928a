package main

import (
	"context"
	"fmt"
)

// status lists the slots currently stored in the backend.
func (cli *commandLine) status() error {
	keys, err := cli.backend.Keys(context.Background())
	if err != nil {
		return err
	}
	if len(keys) == 0 {
		fmt.Fprintln(cli.out, "No records stored.")
		return nil
	}
	for _, k := range keys {
		fmt.Fprintln(cli.out, k)
	}
	return nil
}
