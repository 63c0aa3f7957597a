package core

import (
	"errors"
	"strings"
	"time"
)

type (
	Date struct {
		time.Time
	}

	// Money is a signed amount in cents. Positive values are inflows,
	// negative values are outflows.
	Money struct {
		Cents int64
	}

	// Transaction is a single normalized ledger record. It is immutable
	// once read; the analytics engine never mutates it.
	Transaction struct {
		Date        Date
		Amount      Money
		Category    string
		Merchant    string
		Account     string
		Tags        []string
		Owner       string
		Description string
	}

	// Budget is the configured spending plan for a period. A zero amount
	// means "not configured", never "exceeded".
	Budget struct {
		Year       int
		Month      int // 0 for a yearly budget
		TotalCents int64
		Categories map[string]int64
	}
)

var (
	ErrInvalidDate   = errors.New("invalid date")
	ErrInvalidAmount = errors.New("invalid amount")
)

// NewDate creates a Date from year, month, day.
func NewDate(year, month, day int) Date {
	return Date{Time: time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)}
}

// Day returns the day of the month.
func (d Date) Day() int {
	return d.Time.Day()
}

// Month returns the month as 1-12.
func (d Date) Month() int {
	return int(d.Time.Month())
}

// Year returns the year.
func (d Date) Year() int {
	return d.Time.Year()
}

func (d Date) Validate() error {
	if d.IsZero() {
		return ErrInvalidDate
	}
	return nil
}

// IsInflow reports whether the amount is positive.
func (m Money) IsInflow() bool {
	return m.Cents > 0
}

// IsOutflow reports whether the amount is negative.
func (m Money) IsOutflow() bool {
	return m.Cents < 0
}

// Abs returns the magnitude of the amount in cents.
func (m Money) Abs() int64 {
	if m.Cents < 0 {
		return -m.Cents
	}
	return m.Cents
}

// Units returns the amount as a float64 in currency units for display
// purposes. Use cents for calculations to avoid floating-point drift.
func (m Money) Units() float64 {
	return float64(m.Cents) / 100.0
}

func (t Transaction) Validate() error {
	if err := t.Date.Validate(); err != nil {
		return err
	}
	if t.Amount.Cents == 0 {
		return ErrInvalidAmount
	}
	if len(t.Description) > 200 {
		return errors.New("description too long (max 200 characters)")
	}
	return nil
}

func (b Budget) Validate() error {
	if b.Year < 1900 || b.Year > 9999 {
		return errors.New("invalid budget year")
	}
	if b.Month < 0 || b.Month > 12 {
		return errors.New("invalid budget month")
	}
	if b.TotalCents < 0 {
		return errors.New("negative total budget")
	}
	for name, cents := range b.Categories {
		if strings.TrimSpace(name) == "" {
			return errors.New("empty budget category name")
		}
		if cents < 0 {
			return errors.New("negative budget for category " + name)
		}
	}
	return nil
}
