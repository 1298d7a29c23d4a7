// Package models defines data structures for Advisor
package models

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// NotAvailable is the rendering of an absent metric. It is used
// everywhere an unknown value reaches a human-readable surface so that
// "unknown" is never confused with a numeric zero.
const NotAvailable = "not available"

// Metric is an optional numeric snapshot field. Provider responses do
// not guarantee completeness, so every numeric snapshot field carries
// its own validity bit instead of an ad hoc zero/"N/A" convention.
type Metric struct {
	Value float64
	Valid bool
}

// MetricOf returns a present Metric holding v.
func MetricOf(v float64) Metric {
	return Metric{Value: v, Valid: true}
}

// String renders the value with two decimals, or NotAvailable.
func (m Metric) String() string {
	if !m.Valid {
		return NotAvailable
	}
	return fmt.Sprintf("%.2f", m.Value)
}

// MarshalJSON encodes an absent metric as null, never as 0.
func (m Metric) MarshalJSON() ([]byte, error) {
	if !m.Valid {
		return []byte("null"), nil
	}
	return json.Marshal(m.Value)
}

// UnmarshalJSON decodes null as absent.
func (m *Metric) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		m.Value, m.Valid = 0, false
		return nil
	}
	if err := json.Unmarshal(data, &m.Value); err != nil {
		return err
	}
	m.Valid = true
	return nil
}
