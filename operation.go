package omd

import (
	"fmt"
	"math"
)

// ValuedBond is the engine's output for one bond: the normalized input record
// plus its price decomposition and the operation-level contributions. It is
// created once per calculation pass and never mutated afterwards; the
// aggregator only reads and sums.
type ValuedBond struct {
	RawBondRecord

	CleanPrice      float64 `json:"cleanPrice"`      // percent of par
	DirtyPrice      float64 `json:"dirtyPrice"`      // percent of par
	AccruedInterest float64 `json:"accruedInterest"` // percent of par
	LocalFaceValue  float64 `json:"localFaceValue"`  // COP, signed per role
	CostValue       float64 `json:"costValue"`       // COP
	CouponEffect    float64 `json:"couponEffect"`    // COP, signed per role
	Indexation      float64 `json:"indexation"`      // COP, zero unless index-linked
}

// OperationTotals aggregates one settlement run. Totals are pure sums over
// the valued bonds; a skipped row contributes to none of them.
type OperationTotals struct {
	OperationID    string `json:"operationId"`
	SettlementDate Date   `json:"settlementDate"`

	// AmountExchanged is the sum of absolute local face values of the
	// collected bonds.
	AmountExchanged float64 `json:"amountExchanged"`
	// Outlay is the settlement cash flow, the negated sum of all cost
	// values (outflow convention).
	Outlay float64 `json:"outlay"`
	// TotalCouponEffect sums the signed per-bond coupon effects.
	TotalCouponEffect float64 `json:"totalCouponEffect"`
	// NetFiscalCost is Outlay + TotalCouponEffect.
	NetFiscalCost float64 `json:"netFiscalCost"`
	// TotalIndexation sums the signed per-bond indexation amounts.
	TotalIndexation float64 `json:"totalIndexation"`
	// DebtBalance is the sum of signed local face values over both roles.
	DebtBalance float64 `json:"debtBalance"`
	// OverallResult is DebtBalance + NetFiscalCost + TotalIndexation.
	OverallResult float64 `json:"overallResult"`
}

// RowError reports a bond that had to be excluded from the totals. The run as
// a whole still succeeds; financial totals must stay auditable per
// instrument, so the skipped rows are surfaced instead of aborting the batch.
type RowError struct {
	Index int
	ISIN  string
	Err   error
}

func (e RowError) Error() string {
	if e.ISIN == "" {
		return fmt.Sprintf("row %d: %v", e.Index, e.Err)
	}
	return fmt.Sprintf("row %d (%s): %v", e.Index, e.ISIN, e.Err)
}

func (e RowError) Unwrap() error { return e.Err }

// Operation carries the context shared by every bond of one settlement run.
// Reference data (index spot and inflation) is passed in explicitly so runs
// are deterministic and testable without ambient state.
type Operation struct {
	ID             string
	SettlementDate Date
	IndexSpot      float64 // index (UVR) value on the settlement date
	Inflation      float64 // annual inflation, fraction
}

// DefaultOperationID derives the conventional operation identifier from the
// settlement date, e.g. "OMD_191225" for 2025-12-19.
func DefaultOperationID(settlement Date) string {
	if settlement.IsZero() {
		return "OMD_000000"
	}
	return "OMD_" + settlement.Format("020106")
}

// Run values every record independently and accumulates the operation totals.
// A single record's failure is reported in the returned error list and
// excluded from the totals; it never aborts the remaining portfolio.
func (op Operation) Run(records []RawBondRecord) ([]ValuedBond, OperationTotals, []RowError) {
	totals := OperationTotals{
		OperationID:    op.ID,
		SettlementDate: op.SettlementDate,
	}
	if totals.OperationID == "" {
		totals.OperationID = DefaultOperationID(op.SettlementDate)
	}

	var bonds []ValuedBond
	var errs []RowError

	var outlaySum float64
	for i, rec := range records {
		vb, err := op.value(rec)
		if err != nil {
			errs = append(errs, RowError{Index: i, ISIN: rec.ISIN, Err: err})
			continue
		}
		bonds = append(bonds, vb)

		if vb.Role == Collected {
			totals.AmountExchanged += math.Abs(vb.LocalFaceValue)
		}
		totals.DebtBalance += vb.LocalFaceValue
		totals.TotalCouponEffect += vb.CouponEffect
		totals.TotalIndexation += vb.Indexation
		outlaySum += vb.CostValue
	}

	totals.Outlay = -outlaySum
	totals.NetFiscalCost = totals.Outlay + totals.TotalCouponEffect
	totals.OverallResult = totals.DebtBalance + totals.NetFiscalCost + totals.TotalIndexation
	return bonds, totals, errs
}

// value computes one bond. Records carry rates and prices in percent; all
// conversion to fractions happens here, once.
func (op Operation) value(rec RawBondRecord) (ValuedBond, error) {
	rec = rec.Normalize()

	if rec.Maturity.IsZero() {
		return ValuedBond{}, fmt.Errorf("missing maturity date")
	}
	if rec.Yield <= -100 {
		return ValuedBond{}, fmt.Errorf("degenerate yield %v%%", rec.Yield)
	}

	coupon := Percent(rec.Coupon).Fraction()
	yieldRate := Percent(rec.Yield).Fraction()

	val := Value(yieldRate, coupon, rec.Maturity, op.SettlementDate)

	// The memo quotes the dirty price; when present it takes precedence over
	// the model price, and the clean price is derived from it so that
	// clean = dirty - accrued holds exactly either way.
	dirty := val.DirtyPrice
	if rec.Price != 0 {
		dirty = rec.Price
	}
	clean := dirty - val.AccruedInterest

	localFace := rec.FaceValue
	if rec.Denomination == IndexLinked {
		localFace = rec.FaceValue * op.IndexSpot
	}

	cost := localFace * dirty / 100
	effect := CouponEffect(op.SettlementDate, rec.Maturity, coupon, localFace)
	forward := IndexForward(op.IndexSpot, op.Inflation, op.SettlementDate)
	indexation := Indexation(rec.FaceValue, op.IndexSpot, forward, rec.Denomination)

	vb := ValuedBond{
		RawBondRecord:   rec,
		CleanPrice:      clean,
		DirtyPrice:      dirty,
		AccruedInterest: val.AccruedInterest,
		LocalFaceValue:  localFace,
		CostValue:       cost,
		CouponEffect:    effect,
		Indexation:      indexation,
	}
	if math.IsNaN(vb.CostValue) || math.IsInf(vb.CostValue, 0) {
		return ValuedBond{}, fmt.Errorf("non-finite cost value")
	}
	return vb, nil
}
