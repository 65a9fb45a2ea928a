package main

import (
	"context"
	"fmt"

	"github.com/trezcool/campus/core/settings"
)

func (cli *commandLine) settings(us settings.UpdateSettings) error {
	s, err := cli.settingsSvc.Update(context.Background(), us)
	if err != nil {
		return err
	}
	fmt.Fprintf(cli.out, "payments:     %s\n", onOff(s.PaymentsEnabled))
	fmt.Fprintf(cli.out, "faculty-edit: %s\n", onOff(s.FacultyCanEdit))
	return nil
}

func onOff(b bool) string {
	if b {
		return "on"
	}
	return "off"
}
