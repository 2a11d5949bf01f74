package refdata

import (
	"fmt"
	"io"

	"github.com/omdtools/omd"
	"github.com/xuri/excelize/v2"
)

// Sheet names and column layout of the consolidated workbook. The layout is
// fixed: the workbook pre-exists and other tooling reads these positions.
const (
	detailSheet  = "Canjes desagregado"
	historySheet = "HISTORICO"
)

// Detail sheet columns (0-based).
const (
	colYear = iota
	colOperation
	colSettlement
	colSide
	_ // concepto
	colISIN
	colDenomination
	_ // plazo
	_ // fecha emisión
	colMaturity
	colCoupon
	colYield
	colDirtyPrice
	colCleanPrice
	colAccrued
	_ // intereses por devengar
	colFaceValue
	colCostValue
	colLocalFace
)

const (
	colCouponEffect = 22
	colIndexation   = 29
)

// History sheet columns (0-based), after the year/id/type/date block.
const (
	histAmountExchanged = 4
	histOutlay          = 5
	histCouponEffects   = 6
	histNetFiscalCost   = 7
	histIndexation      = 8
	histCostPlusIndex   = 9
	histDebtBalance     = 10
	histOverallResult   = 11
)

// Consolidado wraps the pre-existing consolidated workbook so an operation's
// results can be appended without disturbing the rest of the file.
type Consolidado struct {
	f *excelize.File
}

// OpenConsolidado opens the consolidated workbook from disk.
func OpenConsolidado(path string) (*Consolidado, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("cannot open consolidated workbook %q: %w", path, err)
	}
	return &Consolidado{f: f}, nil
}

// ReadConsolidado opens the consolidated workbook from a stream.
func ReadConsolidado(r io.Reader) (*Consolidado, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("cannot read consolidated workbook: %w", err)
	}
	return &Consolidado{f: f}, nil
}

// Close releases the underlying workbook.
func (c *Consolidado) Close() error { return c.f.Close() }

// Append writes one row per valued bond into the detail sheet and the
// operation summary row into the history sheet. Missing sheets are an error:
// appending to the wrong workbook must not silently create them.
func (c *Consolidado) Append(bonds []omd.ValuedBond, totals omd.OperationTotals) error {
	if err := c.appendDetails(bonds, totals); err != nil {
		return err
	}
	return c.appendHistory(totals)
}

func (c *Consolidado) appendDetails(bonds []omd.ValuedBond, totals omd.OperationTotals) error {
	next, err := c.nextRow(detailSheet)
	if err != nil {
		return err
	}

	for i, b := range bonds {
		row := next + i
		set := func(col int, value any) {
			if err != nil {
				return
			}
			var cell string
			cell, err = excelize.CoordinatesToCellName(col+1, row)
			if err == nil {
				err = c.f.SetCellValue(detailSheet, cell, value)
			}
		}

		set(colYear, totals.SettlementDate.Year())
		set(colOperation, totals.OperationID)
		set(colSettlement, totals.SettlementDate.String())
		set(colSide, string(b.Role))
		set(colISIN, b.ISIN)
		set(colDenomination, string(b.Denomination))
		set(colMaturity, b.Maturity.String())
		set(colCoupon, b.Coupon/100)
		set(colYield, b.Yield/100)
		set(colDirtyPrice, b.DirtyPrice/100)
		set(colCleanPrice, b.CleanPrice/100)
		set(colAccrued, b.AccruedInterest/100)
		set(colFaceValue, b.FaceValue)
		set(colCostValue, b.CostValue)
		set(colLocalFace, b.LocalFaceValue)
		set(colCouponEffect, b.CouponEffect)
		set(colIndexation, b.Indexation)

		if err != nil {
			return fmt.Errorf("cannot append bond %s to %q: %w", b.ISIN, detailSheet, err)
		}
	}
	return nil
}

func (c *Consolidado) appendHistory(totals omd.OperationTotals) error {
	row, err := c.nextRow(historySheet)
	if err != nil {
		return err
	}

	set := func(col int, value any) {
		if err != nil {
			return
		}
		var cell string
		cell, err = excelize.CoordinatesToCellName(col+1, row)
		if err == nil {
			err = c.f.SetCellValue(historySheet, cell, value)
		}
	}

	set(0, totals.SettlementDate.Year())
	set(1, totals.OperationID)
	set(2, "OMD")
	set(3, totals.SettlementDate.String())
	set(histAmountExchanged, totals.AmountExchanged)
	set(histOutlay, totals.Outlay)
	set(histCouponEffects, totals.TotalCouponEffect)
	set(histNetFiscalCost, totals.NetFiscalCost)
	set(histIndexation, totals.TotalIndexation)
	set(histCostPlusIndex, totals.NetFiscalCost+totals.TotalIndexation)
	set(histDebtBalance, totals.DebtBalance)
	set(histOverallResult, totals.OverallResult)

	if err != nil {
		return fmt.Errorf("cannot append operation %s to %q: %w", totals.OperationID, historySheet, err)
	}
	return nil
}

// nextRow returns the first empty row of a sheet, 1-based.
func (c *Consolidado) nextRow(sheet string) (int, error) {
	idx, err := c.f.GetSheetIndex(sheet)
	if err != nil || idx < 0 {
		return 0, fmt.Errorf("workbook has no sheet %q", sheet)
	}
	rows, err := c.f.GetRows(sheet)
	if err != nil {
		return 0, fmt.Errorf("cannot list rows of sheet %q: %w", sheet, err)
	}
	return len(rows) + 1, nil
}

// SaveAs writes the updated workbook to path.
func (c *Consolidado) SaveAs(path string) error { return c.f.SaveAs(path) }

// Write writes the updated workbook to w.
func (c *Consolidado) Write(w io.Writer) error {
	_, err := c.f.WriteTo(w)
	return err
}
