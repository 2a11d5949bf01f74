package omd

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"math"
)

// Role is the side of the exchange a bond belongs to.
type Role string

const (
	// Collected bonds are retired (bought back) by the operation.
	Collected Role = "collected"
	// Delivered bonds are newly issued or received.
	Delivered Role = "delivered"
)

// Denomination tells whether a bond's principal is expressed in local
// currency (COP) or in inflation-index units (UVR).
type Denomination string

const (
	LocalCurrency Denomination = "COP"
	IndexLinked   Denomination = "UVR"
)

// RawBondRecord is one bond row as extracted from the memo, before valuation.
// A record with an empty ISIN is still retained so it can be repaired in the
// external editor rather than silently dropped.
type RawBondRecord struct {
	ISIN         string       `json:"isin"`
	Maturity     Date         `json:"maturity"`     // zero when unparsed
	Denomination Denomination `json:"denomination"` // COP or UVR
	Coupon       float64      `json:"coupon"`       // percent, e.g. 7.25
	Yield        float64      `json:"yield"`        // percent
	Price        float64      `json:"price"`        // dirty price, percent of par
	FaceValue    float64      `json:"faceValue"`    // original-denomination units
	Role         Role         `json:"role"`
}

// Normalize applies the sign convention exactly once: collected bonds carry a
// negative face value, delivered bonds a non-negative one, regardless of how
// the value was entered.
func (r RawBondRecord) Normalize() RawBondRecord {
	switch r.Role {
	case Collected:
		r.FaceValue = -math.Abs(r.FaceValue)
	case Delivered:
		r.FaceValue = math.Abs(r.FaceValue)
	}
	return r
}

// DecodeRecords decodes bond records from a stream of JSONL data, one record
// per line. This is the round-trip format the external editor reads and
// writes between scanning and calculation.
func DecodeRecords(r io.Reader) ([]RawBondRecord, error) {
	var records []RawBondRecord
	scanner := bufio.NewScanner(r)
	line := 0
	for scanner.Scan() {
		line++
		raw := scanner.Bytes()
		if len(raw) == 0 {
			continue
		}
		var rec RawBondRecord
		if err := json.Unmarshal(raw, &rec); err != nil {
			return nil, fmt.Errorf("invalid record on line %d: %w", line, err)
		}
		if rec.Denomination == "" {
			rec.Denomination = LocalCurrency
		}
		records = append(records, rec)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return records, nil
}

// EncodeRecords writes bond records as JSONL, one record per line.
func EncodeRecords(w io.Writer, records []RawBondRecord) error {
	enc := json.NewEncoder(w)
	for i, rec := range records {
		if err := enc.Encode(rec); err != nil {
			return fmt.Errorf("cannot encode record %d (%s): %w", i, rec.ISIN, err)
		}
	}
	return nil
}
