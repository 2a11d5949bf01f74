package omd

import "fmt"

// Percent is a rate or price expressed in percent (10.655 for 10.655%).
type Percent float64

func (p Percent) Equal(q Percent) bool {
	// it has to be compared with some precision
	const precision = 0.0001
	diff := p - q
	if diff < 0 {
		diff = -diff
	}
	return diff < precision
}

// Fraction returns the rate as a fraction (0.10655 for 10.655%).
func (p Percent) Fraction() float64 { return float64(p) / 100 }

func (p Percent) String() string {
	return fmt.Sprintf("%.3f%%", float64(p))
}

func (p Percent) SignedString() string {
	res := fmt.Sprintf("%+.3f%%", float64(p))
	if res == "+0.000%" {
		return "-"
	}
	return res
}
