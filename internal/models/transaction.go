// Package models provides the canonical data structures that flow through
// ingestion, categorization and export.
package models

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// DateLayout is the ISO calendar-date layout used in prompts and exports.
const DateLayout = "2006-01-02"

// Transaction is one monetary movement, independent of its source format.
//
// ID is dense and 0-based within a batch and is the only key used to match
// classification results; nothing outside ingestion changes it. Value is
// signed: positive is an inflow, negative an outflow.
type Transaction struct {
	ID           int
	Name         string
	Value        decimal.Decimal
	Date         time.Time
	Category     string
	Confidence   float64
	Reasoning    string
	DateInferred bool
}

// NewTransaction builds a transaction with its date truncated to a calendar day.
func NewTransaction(id int, name string, value decimal.Decimal, date time.Time, category string) Transaction {
	return Transaction{
		ID:       id,
		Name:     name,
		Value:    value,
		Date:     CalendarDate(date),
		Category: category,
	}
}

// CalendarDate drops the clock component of t and expresses it as midnight UTC
// on the same calendar day.
func CalendarDate(t time.Time) time.Time {
	if t.IsZero() {
		return t
	}
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// Float returns Value as a float64 for presentation.
func (t Transaction) Float() float64 {
	f, _ := t.Value.Float64()
	return f
}

// IsDebit reports whether the transaction is an outflow.
func (t Transaction) IsDebit() bool {
	return t.Value.IsNegative()
}

// FormattedDate returns the date as YYYY-MM-DD.
func (t Transaction) FormattedDate() string {
	return t.Date.Format(DateLayout)
}

// FormattedValue returns the value with two decimals.
func (t Transaction) FormattedValue() string {
	return t.Value.StringFixed(2)
}

// Annotate returns a copy of t carrying a classification.
func (t Transaction) Annotate(category string, confidence float64, reasoning string) Transaction {
	t.Category = category
	t.Confidence = confidence
	t.Reasoning = reasoning
	return t
}

func (t Transaction) String() string {
	return fmt.Sprintf("#%d %s %s %s [%s]", t.ID, t.FormattedDate(), t.FormattedValue(), t.Name, t.Category)
}
