package main

import (
	"context"
	"fmt"
	"text/tabwriter"
)

func (cli *commandLine) report() error {
	ctx := context.Background()
	fees, err := cli.feeSvc.Report(ctx)
	if err != nil {
		return err
	}
	apps, err := cli.appSvc.Summary(ctx)
	if err != nil {
		return err
	}

	fmt.Fprintf(cli.out, "Fees: total %.0f, collected %.0f, pending %.0f (%s%% collected)\n",
		fees.Total, fees.Collected, fees.Pending, fees.CompletionRatio)
	fmt.Fprintf(cli.out, "Applications: %d total, %d pending, %d approved, %d rejected\n",
		apps.Total, apps.Pending, apps.Approved, apps.Rejected)

	if len(fees.StudentsWithDues) == 0 {
		return nil
	}
	fmt.Fprintln(cli.out)
	w := tabwriter.NewWriter(cli.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tROLL\tDEPT\tPENDING")
	for _, d := range fees.StudentsWithDues {
		fmt.Fprintf(w, "%s\t%s\t%s\t%.0f\n", d.Name, d.RollNumber, d.Department, d.Pending)
	}
	return w.Flush()
}
