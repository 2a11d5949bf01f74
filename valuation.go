package omd

import (
	"math"
	"time"
)

// Valuation is the price decomposition of one bond on the settlement date.
// All three figures are percent of par.
type Valuation struct {
	CleanPrice      float64
	AccruedInterest float64
	DirtyPrice      float64
}

const daysPerYear = 365.0

// Value prices an annual-coupon bond by discounted cash-flow summation.
// Rates are fractions (0.10655 for 10.655%). Coupons are assumed to pay on
// the maturity anniversary each year.
//
//	dirty = Σ_{i=1..n} C/(1+y)^(i-1+f) + 100/(1+y)^(n-1+f)
//	accrued = C × days(prevCoupon, settlement)/365
//	clean = dirty − accrued
//
// A settlement on or after maturity is a defined degenerate case: the
// instrument has no forward value and all three figures are zero.
func Value(yieldRate, couponRate float64, maturity, settlement Date) Valuation {
	if !settlement.Before(maturity) {
		return Valuation{}
	}

	// Walk back one year at a time from maturity to the first coupon date
	// still after settlement.
	nextCoupon := maturity
	for c := maturity; c.After(settlement); c = c.AddYear(-1) {
		nextCoupon = c
	}
	prevCoupon := nextCoupon.AddYear(-1)

	f := float64(settlement.Days(nextCoupon)) / daysPerYear
	n := maturity.Year() - nextCoupon.Year() + 1

	coupon := 100 * couponRate

	var dirty float64
	for i := 1; i <= n; i++ {
		dirty += coupon / math.Pow(1+yieldRate, float64(i-1)+f)
	}
	dirty += 100 / math.Pow(1+yieldRate, float64(n-1)+f)

	accrued := coupon * float64(prevCoupon.Days(settlement)) / daysPerYear

	return Valuation{
		CleanPrice:      dirty - accrued,
		AccruedInterest: accrued,
		DirtyPrice:      dirty,
	}
}

// CouponEffect estimates the signed impact of the bond's next coupon falling
// within the settlement year. The settlement and maturity month/day are
// compared in a fixed leap reference year (2000, so Feb-29 maturities remain
// comparable): when the settlement falls strictly before the maturity
// anniversary, a coupon is still due this year and the effect magnitude is
// couponRate × |faceValue|, otherwise zero. The sign follows the face value:
// negative for collected bonds, positive for delivered ones.
func CouponEffect(settlement, maturity Date, couponRate, faceValue float64) float64 {
	const referenceYear = 2000

	s := NewDate(referenceYear, settlement.Month(), settlement.Day())
	m := NewDate(referenceYear, maturity.Month(), maturity.Day())

	var effect float64
	if s.Before(m) {
		effect = couponRate * math.Abs(faceValue)
	}
	if faceValue < 0 {
		return -math.Abs(effect)
	}
	return math.Abs(effect)
}

// IndexForward projects the inflation index from its spot value to the end of
// the settlement year:
//
//	forward = spot × (1+inflation)^(days to Dec 31 / 365)
func IndexForward(indexSpot, annualInflation float64, settlement Date) float64 {
	endOfYear := NewDate(settlement.Year(), time.December, 31)
	remaining := float64(settlement.Days(endOfYear))
	return indexSpot * math.Pow(1+annualInflation, remaining/daysPerYear)
}

// Indexation values the inflation carry of an index-linked position: the face
// value is expressed in index units, so the amount is faceUnits×forward −
// faceUnits×spot. Local-currency bonds have no indexation.
func Indexation(faceUnits, indexSpot, indexForward float64, denom Denomination) float64 {
	if denom != IndexLinked {
		return 0
	}
	return faceUnits*indexForward - faceUnits*indexSpot
}
