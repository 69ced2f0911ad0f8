package models

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewTransaction_TruncatesDate(t *testing.T) {
	loc := time.FixedZone("BRT", -3*3600)
	tx := NewTransaction(4, "PADARIA", decimal.RequireFromString("-12.30"),
		time.Date(2024, 3, 1, 22, 15, 0, 0, loc), CategoryUncategorizedCSV)

	assert.Equal(t, time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC), tx.Date)
	assert.Equal(t, "2024-03-01", tx.FormattedDate())
	assert.Equal(t, "-12.30", tx.FormattedValue())
	assert.InDelta(t, -12.30, tx.Float(), 1e-9)
	assert.True(t, tx.IsDebit())
}

func TestCalendarDate_Zero(t *testing.T) {
	assert.True(t, CalendarDate(time.Time{}).IsZero())
}

func TestTransaction_AnnotateDoesNotMutate(t *testing.T) {
	orig := Transaction{ID: 1, Name: "UBER", Category: CategoryUncategorizedCSV}
	got := orig.Annotate("Transporte", 0.9, "Uber")

	assert.Equal(t, CategoryUncategorizedCSV, orig.Category)
	assert.Equal(t, "Transporte", got.Category)
	assert.Equal(t, 0.9, got.Confidence)
	assert.Equal(t, "Uber", got.Reasoning)
	assert.Equal(t, 1, got.ID)
}

func TestFormat(t *testing.T) {
	tests := []struct {
		in   string
		want Format
	}{
		{"csv", FormatCSV},
		{" OFX ", FormatOFX},
		{"qfx", FormatOFX},
		{"xlsx", FormatUnknown},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseFormat(tt.in))
		})
	}
	assert.Equal(t, "csv", FormatCSV.String())
	assert.Equal(t, "unknown", FormatUnknown.String())
}

func TestStatement_IDs(t *testing.T) {
	st := Statement{Transactions: []Transaction{{ID: 0}, {ID: 1}, {ID: 2}}}
	assert.Equal(t, []int{0, 1, 2}, st.IDs())
	assert.Equal(t, 3, st.Len())

	replaced := st.WithTransactions(nil)
	assert.Equal(t, 0, replaced.Len())
	assert.Equal(t, 3, st.Len())
}

func TestColumnMapping(t *testing.T) {
	m := ColumnMapping{RoleDate: 0, RoleDescription: 1, RoleDebit: 3, RoleCredit: 2}

	assert.True(t, m.Has(RoleDebit))
	assert.False(t, m.Has(RoleValue))
	assert.Equal(t, 3, m.MaxIndex())
	assert.True(t, m.HasAmount())
	assert.Equal(t, []ColumnRole{RoleDate, RoleDescription, RoleCredit, RoleDebit}, m.Roles())

	idx, ok := m.Index(RoleCredit)
	require.True(t, ok)
	assert.Equal(t, 2, idx)

	assert.Equal(t, -1, ColumnMapping{}.MaxIndex())
	assert.False(t, ColumnMapping{RoleDate: 0}.HasAmount())
}

func TestClassificationItem_Defaults(t *testing.T) {
	conf := 0.8
	reason := "mercado"
	full := ClassificationItem{ID: 1, Category: "Alimentação", Confidence: &conf, Reasoning: &reason}
	empty := ClassificationItem{ID: 2}

	assert.True(t, full.HasCategory())
	assert.Equal(t, 0.8, full.ConfidenceOr(DefaultConfidence))
	assert.Equal(t, "mercado", full.ReasoningOr(""))

	assert.False(t, empty.HasCategory())
	assert.Equal(t, DefaultConfidence, empty.ConfidenceOr(DefaultConfidence))
	assert.Equal(t, "", empty.ReasoningOr(""))
}
