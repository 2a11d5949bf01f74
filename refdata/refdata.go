// Package refdata holds the reference-data adapters around the valuation
// core: the UVR index and inflation lookups backed by the reference
// spreadsheets, the consolidated-workbook append, and the online UVR series.
// The core never reads these directly; values are passed in explicitly.
package refdata

import (
	"fmt"
	"io"
	"strconv"

	"github.com/omdtools/omd"
	"github.com/xuri/excelize/v2"
)

// UVRTable is the (date, value) time series of the UVR index read from the
// reference spreadsheet.
type UVRTable struct {
	values map[omd.Date]float64
}

// OpenUVRTable reads the UVR series from an xlsx file on disk.
func OpenUVRTable(path string) (*UVRTable, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("cannot open UVR table %q: %w", path, err)
	}
	defer f.Close()
	return readUVRTable(f)
}

// ReadUVRTable reads the UVR series from an xlsx stream.
func ReadUVRTable(r io.Reader) (*UVRTable, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("cannot read UVR table: %w", err)
	}
	defer f.Close()
	return readUVRTable(f)
}

// readUVRTable walks the first sheet: first column a date, second the index
// value. Rows that do not parse (headers, blanks) are skipped rather than
// failing the load.
func readUVRTable(f *excelize.File) (*UVRTable, error) {
	sheet := f.GetSheetName(0)
	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("cannot list rows of sheet %q: %w", sheet, err)
	}

	t := &UVRTable{values: make(map[omd.Date]float64, len(rows))}
	for _, row := range rows {
		if len(row) < 2 {
			continue
		}
		d, ok := omd.ParseBondDate(row[0])
		if !ok {
			continue
		}
		v, ok := parseCell(row[1])
		if !ok {
			continue
		}
		t.values[d] = v
	}
	return t, nil
}

// Lookup returns the UVR value on a date, or omd.DefaultIndexSpot when the
// series does not cover it.
func (t *UVRTable) Lookup(d omd.Date) float64 {
	if t == nil {
		return omd.DefaultIndexSpot
	}
	if v, ok := t.values[d]; ok {
		return v
	}
	return omd.DefaultIndexSpot
}

// Len returns the number of dated values in the series.
func (t *UVRTable) Len() int { return len(t.values) }

// InflationTable is the annual inflation reference read from the inflation
// spreadsheet: first column the year, third column the observed annual
// inflation in percent.
type InflationTable struct {
	byYear map[int]float64
	latest float64
	loaded bool
}

// OpenInflationTable reads the inflation reference from an xlsx file on disk.
func OpenInflationTable(path string) (*InflationTable, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("cannot open inflation table %q: %w", path, err)
	}
	defer f.Close()
	return readInflationTable(f)
}

// ReadInflationTable reads the inflation reference from an xlsx stream.
func ReadInflationTable(r io.Reader) (*InflationTable, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("cannot read inflation table: %w", err)
	}
	defer f.Close()
	return readInflationTable(f)
}

func readInflationTable(f *excelize.File) (*InflationTable, error) {
	sheet := f.GetSheetName(0)
	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("cannot list rows of sheet %q: %w", sheet, err)
	}

	t := &InflationTable{byYear: make(map[int]float64)}
	for _, row := range rows {
		if len(row) < 3 {
			continue
		}
		pct, ok := parseCell(row[2])
		if !ok {
			continue
		}
		t.latest = pct / 100
		t.loaded = true
		if year, err := strconv.Atoi(row[0]); err == nil {
			t.byYear[year] = pct / 100
		}
	}
	return t, nil
}

// Lookup returns the annual inflation fraction for a year. When the year is
// not listed it falls back to the latest observed value, and to
// omd.DefaultInflation when the table is empty.
func (t *InflationTable) Lookup(year int) float64 {
	if t == nil || !t.loaded {
		return omd.DefaultInflation
	}
	if v, ok := t.byYear[year]; ok {
		return v
	}
	return t.latest
}

// parseCell reads a numeric spreadsheet cell. Values usually come back in
// machine format ("389.5"), but formatted sheets may carry the Spanish style.
func parseCell(s string) (float64, bool) {
	if v, err := strconv.ParseFloat(s, 64); err == nil {
		return v, true
	}
	return omd.ParseNumber(s)
}
