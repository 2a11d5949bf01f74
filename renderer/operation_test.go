package renderer

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/omdtools/omd"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/text"
)

func setupBonds(t *testing.T) ([]omd.ValuedBond, omd.OperationTotals) {
	t.Helper()
	op := omd.Operation{
		ID:             "OMD_191225",
		SettlementDate: omd.NewDate(2025, time.December, 19),
		IndexSpot:      389.5,
		Inflation:      0.052,
	}
	records := []omd.RawBondRecord{
		{ISIN: "CO0000000001", Maturity: omd.NewDate(2026, time.December, 15), Denomination: omd.LocalCurrency, Yield: 10.655, Price: 90.471, FaceValue: 1000000, Role: omd.Collected},
		{ISIN: "COL17CT03920", Maturity: omd.NewDate(2031, time.May, 21), Denomination: omd.IndexLinked, Coupon: 3.3, Yield: 4.5, Price: 102.34, FaceValue: 5000, Role: omd.Delivered},
	}
	bonds, totals, errs := op.Run(records)
	if len(errs) != 0 {
		t.Fatalf("setup run failed: %v", errs)
	}
	return bonds, totals
}

func TestOperationMarkdown(t *testing.T) {
	bonds, totals := setupBonds(t)
	out := OperationMarkdown(bonds, totals, nil)

	for _, want := range []string{
		"Informe de Operación OMD_191225",
		"2025-12-19",
		"CO0000000001",
		"COL17CT03920",
		"Títulos recogidos",
		"Títulos entregados",
		"Monto canjeado",
		"Resultado general",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("report does not mention %q\n%s", want, out)
		}
	}
	if strings.Contains(out, "Filas excluidas") {
		t.Error("report lists skipped rows although there were none")
	}
}

func TestOperationMarkdownSkippedRows(t *testing.T) {
	bonds, totals := setupBonds(t)
	skipped := []omd.RowError{{Index: 2, ISIN: "CO00000BAD00", Err: errors.New("missing maturity date")}}

	out := OperationMarkdown(bonds, totals, skipped)
	if !strings.Contains(out, "Filas excluidas") || !strings.Contains(out, "CO00000BAD00") {
		t.Errorf("report does not surface the skipped row\n%s", out)
	}
}

func TestRecordsMarkdownWithoutSettlementDate(t *testing.T) {
	out := RecordsMarkdown(omd.ScanResult{})
	if !strings.Contains(out, "no detectada") {
		t.Errorf("report does not flag the missing settlement date\n%s", out)
	}
}

// TestOperationMarkdownIsValidMarkdown parses the generated report and checks
// the structure a reader relies on: one document title and the section tables.
func TestOperationMarkdownIsValidMarkdown(t *testing.T) {
	bonds, totals := setupBonds(t)
	source := []byte(OperationMarkdown(bonds, totals, nil))

	parser := goldmark.New(goldmark.WithExtensions(extension.Table)).Parser()
	root := parser.Parse(text.NewReader(source))

	var h1, tables int
	err := ast.Walk(root, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch v := n.(type) {
		case *ast.Heading:
			if v.Level == 1 {
				h1++
			}
		}
		if n.Kind().String() == "Table" {
			tables++
		}
		return ast.WalkContinue, nil
	})
	if err != nil {
		t.Fatalf("walking markdown AST: %v", err)
	}
	if h1 != 1 {
		t.Errorf("document has %d level-1 headings, want 1", h1)
	}
	if tables != 3 {
		t.Errorf("document has %d tables, want 3 (two sides + summary)", tables)
	}
}
