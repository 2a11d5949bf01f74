package omd

import (
	"bytes"
	"math"
	"strings"
	"testing"
	"time"
)

// setupOperation returns the operation context used across aggregator tests.
func setupOperation(t *testing.T) Operation {
	t.Helper()
	return Operation{
		ID:             "OMD_191225",
		SettlementDate: NewDate(2025, time.December, 19),
		IndexSpot:      389.5,
		Inflation:      0.052,
	}
}

func TestRunSignInvariant(t *testing.T) {
	op := setupOperation(t)

	// Face values entered with the "wrong" sign on both sides.
	records := []RawBondRecord{
		{ISIN: "CO0000000001", Maturity: NewDate(2026, time.December, 15), Denomination: LocalCurrency, Yield: 10.655, Price: 90.471, FaceValue: 1000, Role: Collected},
		{ISIN: "CO0000000002", Maturity: NewDate(2031, time.May, 21), Denomination: LocalCurrency, Coupon: 7, Yield: 9.5, Price: 95.2, FaceValue: -2000, Role: Collected},
		{ISIN: "CO0000000003", Maturity: NewDate(2034, time.October, 18), Denomination: LocalCurrency, Coupon: 9.25, Yield: 10.1, Price: 101.3, FaceValue: -3000, Role: Delivered},
	}

	bonds, totals, errs := op.Run(records)
	if len(errs) != 0 {
		t.Fatalf("unexpected row errors: %v", errs)
	}

	var collectedSum, deliveredSum float64
	for _, b := range bonds {
		switch b.Role {
		case Collected:
			if b.FaceValue > 0 || b.LocalFaceValue > 0 {
				t.Errorf("collected bond %s has positive face value %v", b.ISIN, b.FaceValue)
			}
			collectedSum += b.LocalFaceValue
		case Delivered:
			if b.FaceValue < 0 || b.LocalFaceValue < 0 {
				t.Errorf("delivered bond %s has negative face value %v", b.ISIN, b.FaceValue)
			}
			deliveredSum += b.LocalFaceValue
		}
	}
	if collectedSum > 0 {
		t.Errorf("sum of collected face values = %v, want <= 0", collectedSum)
	}
	if deliveredSum < 0 {
		t.Errorf("sum of delivered face values = %v, want >= 0", deliveredSum)
	}

	if want := 3000.0; totals.AmountExchanged != want {
		t.Errorf("AmountExchanged = %v, want %v (collected only, absolute)", totals.AmountExchanged, want)
	}
	if want := collectedSum + deliveredSum; totals.DebtBalance != want {
		t.Errorf("DebtBalance = %v, want %v", totals.DebtBalance, want)
	}
}

func TestRunSingleBond(t *testing.T) {
	// One collected par bond: coupon == yield, maturity exactly one year out,
	// no memo price so the model price applies.
	op := Operation{
		SettlementDate: NewDate(2025, time.December, 15),
		IndexSpot:      DefaultIndexSpot,
		Inflation:      DefaultInflation,
	}
	records := []RawBondRecord{{
		ISIN:         "CO0000000001",
		Maturity:     NewDate(2026, time.December, 15),
		Denomination: LocalCurrency,
		Coupon:       10,
		Yield:        10,
		FaceValue:    1000,
		Role:         Collected,
	}}

	bonds, totals, errs := op.Run(records)
	if len(errs) != 0 {
		t.Fatalf("unexpected row errors: %v", errs)
	}
	b := bonds[0]

	if math.Abs(b.DirtyPrice-100) > 1e-9 {
		t.Errorf("DirtyPrice = %v, want 100 (par identity)", b.DirtyPrice)
	}
	if b.CleanPrice != b.DirtyPrice-b.AccruedInterest {
		t.Errorf("clean/dirty identity broken: %v != %v - %v", b.CleanPrice, b.DirtyPrice, b.AccruedInterest)
	}
	if b.LocalFaceValue != -1000 {
		t.Errorf("LocalFaceValue = %v, want -1000", b.LocalFaceValue)
	}
	if want := -1000.0; math.Abs(b.CostValue-want) > 1e-9 {
		t.Errorf("CostValue = %v, want %v", b.CostValue, want)
	}
	if b.Indexation != 0 {
		t.Errorf("Indexation = %v, want 0 for a COP bond", b.Indexation)
	}

	// settlement month/day equals the maturity anniversary: no coupon effect
	if b.CouponEffect != 0 {
		t.Errorf("CouponEffect = %v, want 0", b.CouponEffect)
	}
	if want := 1000.0; math.Abs(totals.Outlay-want) > 1e-9 {
		t.Errorf("Outlay = %v, want %v (negated cost sum)", totals.Outlay, want)
	}
	if totals.OperationID != "OMD_151225" {
		t.Errorf("OperationID = %q, want default from settlement date", totals.OperationID)
	}
}

func TestRunIndexLinkedBond(t *testing.T) {
	op := setupOperation(t)
	records := []RawBondRecord{{
		ISIN:         "COL17CT03920",
		Maturity:     NewDate(2031, time.May, 21),
		Denomination: IndexLinked,
		Coupon:       3.3,
		Yield:        4.5,
		Price:        102.34,
		FaceValue:    1000,
		Role:         Delivered,
	}}

	bonds, _, errs := op.Run(records)
	if len(errs) != 0 {
		t.Fatalf("unexpected row errors: %v", errs)
	}
	b := bonds[0]

	if want := 1000 * op.IndexSpot; b.LocalFaceValue != want {
		t.Errorf("LocalFaceValue = %v, want %v (face units x index spot)", b.LocalFaceValue, want)
	}
	forward := IndexForward(op.IndexSpot, op.Inflation, op.SettlementDate)
	if want := 1000*forward - 1000*op.IndexSpot; math.Abs(b.Indexation-want) > 1e-9 {
		t.Errorf("Indexation = %v, want %v", b.Indexation, want)
	}
	if b.Indexation <= 0 {
		t.Errorf("Indexation = %v, want positive for a delivered UVR bond under positive inflation", b.Indexation)
	}
}

func TestRunIsolatesBadRows(t *testing.T) {
	op := setupOperation(t)

	valid := []RawBondRecord{
		{ISIN: "CO0000000001", Maturity: NewDate(2026, time.December, 15), Denomination: LocalCurrency, Yield: 10.655, Price: 90.471, FaceValue: 1000, Role: Collected},
		{ISIN: "CO0000000002", Maturity: NewDate(2034, time.October, 18), Denomination: LocalCurrency, Coupon: 9.25, Yield: 10.1, Price: 101.3, FaceValue: 2000, Role: Delivered},
	}
	// missing maturity: could not be parsed upstream, kept for repair
	bad := RawBondRecord{ISIN: "CO00000BAD00", Denomination: LocalCurrency, Price: 90, FaceValue: 500, Role: Collected}

	mixed := []RawBondRecord{valid[0], bad, valid[1]}

	wantBonds, wantTotals, wantErrs := op.Run(valid)
	if len(wantErrs) != 0 {
		t.Fatalf("control run reported errors: %v", wantErrs)
	}

	bonds, totals, errs := op.Run(mixed)

	if len(errs) != 1 {
		t.Fatalf("len(errs) = %d, want 1", len(errs))
	}
	if errs[0].Index != 1 || errs[0].ISIN != "CO00000BAD00" {
		t.Errorf("skip list entry = %+v, want index 1 / CO00000BAD00", errs[0])
	}
	if len(bonds) != len(wantBonds) {
		t.Fatalf("len(bonds) = %d, want %d", len(bonds), len(wantBonds))
	}

	// Totals must equal the totals of the valid rows alone.
	if totals != wantTotals {
		t.Errorf("totals with bad row = %+v, want %+v", totals, wantTotals)
	}
}

func TestRunMaturedBondIsNotAnError(t *testing.T) {
	op := setupOperation(t)
	records := []RawBondRecord{{
		ISIN:         "CO0000000001",
		Maturity:     NewDate(2020, time.July, 24),
		Denomination: LocalCurrency,
		Coupon:       11,
		Yield:        12,
		FaceValue:    1000,
		Role:         Collected,
	}}
	bonds, _, errs := op.Run(records)
	if len(errs) != 0 {
		t.Fatalf("matured bond reported as error: %v", errs)
	}
	b := bonds[0]
	if b.DirtyPrice != 0 || b.CleanPrice != 0 || b.AccruedInterest != 0 {
		t.Errorf("matured bond valuation = (%v, %v, %v), want zeros",
			b.CleanPrice, b.AccruedInterest, b.DirtyPrice)
	}
}

func TestDefaultOperationID(t *testing.T) {
	if got := DefaultOperationID(NewDate(2025, time.December, 19)); got != "OMD_191225" {
		t.Errorf("DefaultOperationID = %q, want OMD_191225", got)
	}
	if got := DefaultOperationID(Date{}); got != "OMD_000000" {
		t.Errorf("DefaultOperationID(zero) = %q", got)
	}
}

func TestRecordsRoundTrip(t *testing.T) {
	records := []RawBondRecord{
		{ISIN: "CO0000000001", Maturity: NewDate(2026, time.December, 15), Denomination: LocalCurrency, Yield: 10.655, Price: 90.471, FaceValue: 1000, Role: Collected},
		{ISIN: "", Denomination: IndexLinked, Role: Delivered}, // unparsed row kept for repair
	}

	var buf bytes.Buffer
	if err := EncodeRecords(&buf, records); err != nil {
		t.Fatalf("EncodeRecords: %v", err)
	}
	got, err := DecodeRecords(&buf)
	if err != nil {
		t.Fatalf("DecodeRecords: %v", err)
	}
	if len(got) != len(records) {
		t.Fatalf("len = %d, want %d", len(got), len(records))
	}
	for i := range records {
		if got[i] != records[i] {
			t.Errorf("record %d = %+v, want %+v", i, got[i], records[i])
		}
	}
}

func TestDecodeRecordsRejectsGarbage(t *testing.T) {
	_, err := DecodeRecords(strings.NewReader("{\"isin\":\"CO1\"}\nnot json\n"))
	if err == nil {
		t.Fatal("expected error for malformed line")
	}
	if !strings.Contains(err.Error(), "line 2") {
		t.Errorf("error %q does not name the offending line", err)
	}
}
