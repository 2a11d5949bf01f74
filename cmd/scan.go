package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"
	"github.com/omdtools/omd"
	"github.com/omdtools/omd/renderer"
)

// scanCmd holds the flags for the 'scan' subcommand.
type scanCmd struct {
	memoFile   string
	outputFile string
}

func (*scanCmd) Name() string     { return "scan" }
func (*scanCmd) Synopsis() string { return "extract the bond tables from an OMD memo" }
func (*scanCmd) Usage() string {
	return `omdcalc scan -i <memo> [-o <records.jsonl>]

  Scans the memo for the collected and delivered bond tables and the
  settlement date, and displays what was extracted. With -o the raw records
  are written as JSONL so they can be corrected before calculation.
`
}

func (c *scanCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.memoFile, "i", "", "OMD memo to scan (.pdf or extracted .txt)")
	f.StringVar(&c.outputFile, "o", "", "write the raw records to this JSONL file")
}

func (c *scanCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.memoFile == "" {
		fmt.Fprintln(os.Stderr, "Error: -i is required")
		return subcommands.ExitUsageError
	}

	text, err := loadMemoText(c.memoFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error reading memo %q: %v\n", c.memoFile, err)
		return subcommands.ExitFailure
	}

	res := omd.Scan(text)
	printMarkdown(renderer.RecordsMarkdown(res))

	if c.outputFile != "" {
		out, err := os.Create(c.outputFile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error creating %q: %v\n", c.outputFile, err)
			return subcommands.ExitFailure
		}
		defer out.Close()
		if err := omd.EncodeRecords(out, res.Records()); err != nil {
			fmt.Fprintf(os.Stderr, "Error writing records: %v\n", err)
			return subcommands.ExitFailure
		}
		fmt.Printf("Wrote %d records to %s\n", len(res.Records()), c.outputFile)
	}
	return subcommands.ExitSuccess
}
