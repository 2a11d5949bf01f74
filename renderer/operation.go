// Package renderer turns valued operations into markdown documents: the
// printable summary memo and the per-bond detail tables.
package renderer

import (
	"bytes"
	"fmt"

	md "github.com/nao1215/markdown"
	"github.com/omdtools/omd"
)

// RecordsMarkdown renders the raw records of a scan, before any correction,
// so the operator can eyeball the extraction against the memo.
func RecordsMarkdown(res omd.ScanResult) string {
	var buf bytes.Buffer
	doc := md.NewMarkdown(&buf)

	if res.SettlementDate.IsZero() {
		doc.H1("Operación de Manejo de Deuda")
		doc.PlainText("Fecha de liquidación: no detectada")
	} else {
		doc.H1(fmt.Sprintf("Operación de Manejo de Deuda — %s", res.SettlementDate))
	}

	doc.H2("Títulos recogidos")
	doc.Table(rawTable(res.Collected))
	doc.H2("Títulos entregados")
	doc.Table(rawTable(res.Delivered))

	return doc.String()
}

func rawTable(records []omd.RawBondRecord) md.TableSet {
	rows := make([][]string, 0, len(records))
	for _, r := range records {
		maturity := ""
		if !r.Maturity.IsZero() {
			maturity = r.Maturity.String()
		}
		rows = append(rows, []string{
			r.ISIN,
			maturity,
			string(r.Denomination),
			omd.Percent(r.Coupon).String(),
			omd.Percent(r.Yield).String(),
			omd.FormatNumber(r.Price, 3),
			omd.FormatNumber(r.FaceValue, 0),
		})
	}
	return md.TableSet{
		Header: []string{"ISIN", "Vencimiento", "Den", "Cupón", "Tasa", "Precio", "Valor Nominal"},
		Rows:   rows,
	}
}

// OperationMarkdown renders the printable operation report: the valued bonds
// of both sides and the operation totals. Skipped rows are listed at the end
// so the report stays auditable per instrument.
func OperationMarkdown(bonds []omd.ValuedBond, totals omd.OperationTotals, skipped []omd.RowError) string {
	var buf bytes.Buffer
	doc := md.NewMarkdown(&buf)

	doc.H1(fmt.Sprintf("Informe de Operación %s", totals.OperationID))
	if !totals.SettlementDate.IsZero() {
		doc.PlainText(fmt.Sprintf("Fecha de liquidación: %s", totals.SettlementDate))
	}

	var collected, delivered []omd.ValuedBond
	for _, b := range bonds {
		if b.Role == omd.Collected {
			collected = append(collected, b)
		} else {
			delivered = append(delivered, b)
		}
	}

	doc.H2("Títulos recogidos")
	doc.Table(valuedTable(collected))
	doc.H2("Títulos entregados")
	doc.Table(valuedTable(delivered))

	doc.H2("Resumen de la operación")
	doc.Table(md.TableSet{
		Header: []string{"Concepto", "Valor"},
		Rows: [][]string{
			{"Monto canjeado", omd.COP(totals.AmountExchanged).String()},
			{"Valor de giro", omd.COP(totals.Outlay).String()},
			{"Efectos cupones", omd.COP(totals.TotalCouponEffect).String()},
			{"Costo fiscal neto", omd.COP(totals.NetFiscalCost).String()},
			{"Indexaciones", omd.COP(totals.TotalIndexation).String()},
			{"Saldo de la deuda", omd.COP(totals.DebtBalance).String()},
			{"Resultado general", omd.COP(totals.OverallResult).String()},
		},
	})

	if len(skipped) > 0 {
		doc.H2("Filas excluidas")
		rows := make([][]string, 0, len(skipped))
		for _, e := range skipped {
			rows = append(rows, []string{fmt.Sprintf("%d", e.Index), e.ISIN, e.Err.Error()})
		}
		doc.Table(md.TableSet{
			Header: []string{"Fila", "ISIN", "Motivo"},
			Rows:   rows,
		})
	}

	return doc.String()
}

func valuedTable(bonds []omd.ValuedBond) md.TableSet {
	rows := make([][]string, 0, len(bonds)+1)
	var face, cost omd.Money
	for _, b := range bonds {
		face = face.Add(omd.COP(b.LocalFaceValue))
		cost = cost.Add(omd.COP(b.CostValue))
		rows = append(rows, []string{
			b.ISIN,
			b.Maturity.String(),
			string(b.Denomination),
			omd.Percent(b.Coupon).String(),
			omd.Percent(b.Yield).String(),
			omd.FormatNumber(b.DirtyPrice, 3),
			omd.FormatNumber(b.CleanPrice, 3),
			omd.COP(b.LocalFaceValue).String(),
			omd.COP(b.CostValue).String(),
			omd.COP(b.CouponEffect).SignedString(),
			omd.COP(b.Indexation).SignedString(),
		})
	}
	if len(bonds) > 0 {
		rows = append(rows, []string{
			"Total", "", "", "", "", "", "", face.String(), cost.String(), "", "",
		})
	}
	return md.TableSet{
		Header: []string{
			"ISIN", "Vencimiento", "Den", "Cupón", "Tasa",
			"Precio Sucio", "Precio Limpio", "Nominal COP", "Valor Costo",
			"Efecto Cupón", "Indexación",
		},
		Rows: rows,
	}
}
