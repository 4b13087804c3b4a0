package entities

import (
	"strconv"
	"strings"

	domainerrors "monthly-club.backend/internal/domain/errors"
)

// Billing days stop at 28 so every month has the day.
const (
	MinBillingDay = 1
	MaxBillingDay = 28
)

// BillingDay is a day of month on which a recurring charge runs
type BillingDay int

// NewBillingDay validates day against [MinBillingDay, MaxBillingDay]
func NewBillingDay(day int) (BillingDay, error) {
	d := BillingDay(day)
	if !d.Valid() {
		return 0, domainerrors.Validation("billing day must be an integer between %d and %d, got %d", MinBillingDay, MaxBillingDay, day)
	}
	return d, nil
}

// ParseBillingDay parses a decimal integer day. Fractions, exponents and
// anything else that is not a plain integer are rejected.
func ParseBillingDay(raw string) (BillingDay, error) {
	raw = strings.TrimSpace(raw)
	day, err := strconv.Atoi(raw)
	if err != nil {
		return 0, domainerrors.Validation("billing day must be an integer between %d and %d, got %q", MinBillingDay, MaxBillingDay, raw)
	}
	return NewBillingDay(day)
}

// Valid reports whether d is inside the allowed range
func (d BillingDay) Valid() bool {
	return d >= MinBillingDay && d <= MaxBillingDay
}

// Int returns the day as a plain int
func (d BillingDay) Int() int {
	return int(d)
}
