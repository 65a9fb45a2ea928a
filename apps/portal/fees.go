package main

import (
	"context"
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/trezcool/campus/core/fee"
	"github.com/trezcool/campus/core/user"
)

func (cli *commandLine) fees(ctx context.Context) error {
	ident, err := cli.require(user.RoleStudent)
	if err != nil {
		return err
	}
	st, err := cli.feeSvc.Statement(ctx, ident.ID())
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(cli.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "CATEGORY\tAMOUNT\tSTATUS\tPAID ON\tTRANSACTION\tMODE")
	for _, f := range st.Fees {
		fmt.Fprintf(w, "%s\t%.0f\t%s\t%s\t%s\t%s\n", f.Type, f.Amount, f.Status, f.PaymentDate, f.TransactionID, f.PaymentMode)
	}
	if err := w.Flush(); err != nil {
		return err
	}
	fmt.Fprintf(cli.out, "\nTotal %.0f, paid %.0f, pending %.0f\n", st.Total, st.Paid, st.Pending)
	fmt.Fprintf(cli.out, "Categories: %s\n", strings.Join(st.Categories, ", "))
	if !st.PaymentsEnabled {
		fmt.Fprintln(cli.out, "Online payments are currently disabled.")
	}
	return nil
}

func (cli *commandLine) pay(ctx context.Context, category string, p fee.Payment) error {
	ident, err := cli.require(user.RoleStudent)
	if err != nil {
		return err
	}
	if err := p.Validate(cli.validate); err != nil {
		return err
	}
	item, err := cli.feeSvc.Pay(ctx, ident.ID(), category, p.Mode)
	if err != nil {
		return err
	}
	fmt.Fprintf(cli.out, "%s fee of %.0f paid by %s on %s, transaction %s.\n",
		item.Type, item.Amount, item.PaymentMode, item.PaymentDate, item.TransactionID)
	return nil
}

func (cli *commandLine) menu(ctx context.Context) error {
	if _, err := cli.require(user.RoleStudent); err != nil {
		return err
	}
	m, err := cli.menuSvc.Get(ctx)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(cli.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "DAY\tBREAKFAST\tLUNCH\tDINNER")
	for _, d := range m.Week() {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", d.Day, d.Breakfast, d.Lunch, d.Dinner)
	}
	return w.Flush()
}
