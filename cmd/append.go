package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"
	"github.com/omdtools/omd/refdata"
)

// appendCmd holds the flags for the 'append' subcommand.
type appendCmd struct {
	in          inputFlags
	ref         referenceFlags
	consolidado string
	outputFile  string
}

func (*appendCmd) Name() string { return "append" }
func (*appendCmd) Synopsis() string {
	return "value an operation and append it to the consolidated workbook"
}
func (*appendCmd) Usage() string {
	return `omdcalc append -consolidado <workbook.xlsx> -i <memo> | -records <records.jsonl> [options]

  Values the operation and appends one row per bond to the 'Canjes
  desagregado' sheet and the operation summary to the 'HISTORICO' sheet of
  the consolidated workbook. The updated workbook is written to -o, leaving
  the original untouched.
`
}

func (c *appendCmd) SetFlags(f *flag.FlagSet) {
	c.in.SetFlags(f)
	c.ref.SetFlags(f)
	f.StringVar(&c.consolidado, "consolidado", "", "consolidated workbook to append to (xlsx)")
	f.StringVar(&c.outputFile, "o", "", "where to write the updated workbook (default <id>.xlsx)")
}

func (c *appendCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.consolidado == "" {
		fmt.Fprintln(os.Stderr, "Error: -consolidado is required")
		return subcommands.ExitUsageError
	}

	records, scanned, err := c.in.load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading records: %v\n", err)
		return subcommands.ExitFailure
	}

	op, err := c.ref.operation(scanned)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitUsageError
	}

	bonds, totals, rowErrs := op.Run(records)
	if len(rowErrs) > 0 {
		// financial history must not silently miss instruments
		for _, e := range rowErrs {
			fmt.Fprintf(os.Stderr, "Error: cannot append, row failed: %v\n", e)
		}
		return subcommands.ExitFailure
	}

	wb, err := refdata.OpenConsolidado(c.consolidado)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	defer wb.Close()

	if err := wb.Append(bonds, totals); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}

	out := c.outputFile
	if out == "" {
		out = totals.OperationID + ".xlsx"
	}
	if err := wb.SaveAs(out); err != nil {
		fmt.Fprintf(os.Stderr, "Error writing %q: %v\n", out, err)
		return subcommands.ExitFailure
	}

	fmt.Printf("Appended %d bonds and operation %s to %s\n", len(bonds), totals.OperationID, out)
	return subcommands.ExitSuccess
}
