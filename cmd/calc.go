package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"
	"github.com/omdtools/omd/renderer"
)

// calcCmd holds the flags for the 'calc' subcommand.
type calcCmd struct {
	in  inputFlags
	ref referenceFlags
}

func (*calcCmd) Name() string     { return "calc" }
func (*calcCmd) Synopsis() string { return "value an operation and display the report" }
func (*calcCmd) Usage() string {
	return `omdcalc calc -i <memo> | -records <records.jsonl> [options]

  Values every bond of the operation and displays the printable report:
  per-bond prices and the operation totals (amount exchanged, net fiscal
  cost, indexation, overall result). Rows that cannot be valued are listed
  at the end of the report and excluded from the totals.
`
}

func (c *calcCmd) SetFlags(f *flag.FlagSet) {
	c.in.SetFlags(f)
	c.ref.SetFlags(f)
}

func (c *calcCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
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
	printMarkdown(renderer.OperationMarkdown(bonds, totals, rowErrs))

	for _, e := range rowErrs {
		fmt.Fprintf(os.Stderr, "Warning: skipped %v\n", e)
	}
	return subcommands.ExitSuccess
}
