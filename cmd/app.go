// Package cmd implements the CLI application to value debt-management
// exchange operations.
package cmd

import (
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/google/subcommands"
	"github.com/omdtools/omd"
	"github.com/omdtools/omd/pdftext"
	"github.com/omdtools/omd/refdata"
)

// Register the subcommands.
// A main package will call Register() to allow subcommands, and Execute() on the user-selected one.
func Register(c *subcommands.Commander) {
	c.Register(&scanCmd{}, "memo")
	c.Register(&calcCmd{}, "operation")
	c.Register(&appendCmd{}, "operation")
}

// printMarkdown renders markdown for the terminal, falling back to the raw
// text when the renderer cannot initialize (e.g. dumb terminals).
func printMarkdown(md string) {
	out, err := glamour.Render(md, "auto")
	if err != nil {
		fmt.Print(md)
		return
	}
	fmt.Print(out)
}

// loadMemoText reads the memo: PDFs go through the text extractor, anything
// else is taken as already-extracted text.
func loadMemoText(path string) (string, error) {
	if strings.EqualFold(filepath.Ext(path), ".pdf") {
		return pdftext.ExtractFile(path)
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	return string(raw), nil
}

// inputFlags is the shared input surface of the operation commands: either a
// memo to scan or a corrected records file from the editor round-trip.
type inputFlags struct {
	memoFile    string
	recordsFile string
}

func (in *inputFlags) SetFlags(f *flag.FlagSet) {
	f.StringVar(&in.memoFile, "i", "", "OMD memo to scan (.pdf or extracted .txt)")
	f.StringVar(&in.recordsFile, "records", "", "corrected records file (JSONL) instead of scanning a memo")
}

// load returns the records and the settlement date found in the memo, if any.
func (in *inputFlags) load() ([]omd.RawBondRecord, omd.Date, error) {
	switch {
	case in.recordsFile != "":
		f, err := os.Open(in.recordsFile)
		if err != nil {
			return nil, omd.Date{}, err
		}
		defer f.Close()
		records, err := omd.DecodeRecords(f)
		return records, omd.Date{}, err
	case in.memoFile != "":
		text, err := loadMemoText(in.memoFile)
		if err != nil {
			return nil, omd.Date{}, err
		}
		res := omd.Scan(text)
		return res.Records(), res.SettlementDate, nil
	default:
		return nil, omd.Date{}, fmt.Errorf("either -i or -records is required")
	}
}

// referenceFlags selects the reference data for a run: explicit overrides,
// spreadsheet lookups, the central bank's published series, or the documented
// defaults, in that order.
type referenceFlags struct {
	id            string
	date          string
	uvrFile       string
	inflationFile string
	uvrSpot       float64
	inflation     float64
	uvrOnline     bool

	// fetchUVR stands in for refdata.FetchLatestUVR in tests.
	fetchUVR func(*http.Client) (omd.Date, float64, error)
}

func (r *referenceFlags) SetFlags(f *flag.FlagSet) {
	f.StringVar(&r.id, "id", "", "operation identifier (default derived from the settlement date)")
	f.StringVar(&r.date, "d", "", "settlement date override, e.g. 2025-12-19")
	f.StringVar(&r.uvrFile, "uvr-file", "", "UVR reference spreadsheet (xlsx)")
	f.StringVar(&r.inflationFile, "inflation-file", "", "inflation reference spreadsheet (xlsx)")
	f.Float64Var(&r.uvrSpot, "uvr", 0, "UVR spot value override")
	f.Float64Var(&r.inflation, "inflation", 0, "annual inflation fraction override, e.g. 0.052")
	f.BoolVar(&r.uvrOnline, "uvr-online", false, "fetch the latest UVR value from the Banco de la República series")
}

// operation assembles the run context from the flags and the scanned
// settlement date. Flag overrides win over spreadsheets, spreadsheets over
// defaults.
func (r *referenceFlags) operation(scanned omd.Date) (omd.Operation, error) {
	settlement := scanned
	if r.date != "" {
		d, err := omd.ParseDate(r.date)
		if err != nil {
			return omd.Operation{}, err
		}
		settlement = d
	}
	if settlement.IsZero() {
		return omd.Operation{}, fmt.Errorf("no settlement date found in the memo, use -d")
	}

	spot := r.uvrSpot
	if spot == 0 {
		spot = omd.DefaultIndexSpot
		switch {
		case r.uvrFile != "":
			table, err := refdata.OpenUVRTable(r.uvrFile)
			if err != nil {
				return omd.Operation{}, err
			}
			spot = table.Lookup(settlement)
		case r.uvrOnline:
			fetch := r.fetchUVR
			if fetch == nil {
				fetch = refdata.FetchLatestUVR
			}
			on, val, err := fetch(http.DefaultClient)
			if err != nil {
				return omd.Operation{}, err
			}
			log.Printf("UVR %v published on %s", val, on)
			spot = val
		}
	}

	inflation := r.inflation
	if inflation == 0 {
		inflation = omd.DefaultInflation
		if r.inflationFile != "" {
			table, err := refdata.OpenInflationTable(r.inflationFile)
			if err != nil {
				return omd.Operation{}, err
			}
			inflation = table.Lookup(settlement.Year())
		}
	}

	id := r.id
	if id == "" {
		id = omd.DefaultOperationID(settlement)
	}

	log.Printf("operation %s: settlement=%s uvr=%v inflation=%v", id, settlement, spot, inflation)
	return omd.Operation{
		ID:             id,
		SettlementDate: settlement,
		IndexSpot:      spot,
		Inflation:      inflation,
	}, nil
}
