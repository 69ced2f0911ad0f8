package models

import (
	"strings"
	"time"
)

// Format identifies the source layout of a statement file.
type Format int

const (
	FormatUnknown Format = iota
	FormatCSV
	FormatOFX
)

func (f Format) String() string {
	switch f {
	case FormatCSV:
		return "csv"
	case FormatOFX:
		return "ofx"
	default:
		return "unknown"
	}
}

// ParseFormat maps a name such as "csv" or "OFX" to a Format.
func ParseFormat(s string) Format {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "csv":
		return FormatCSV
	case "ofx", "qfx":
		return FormatOFX
	default:
		return FormatUnknown
	}
}

// Statement is the ordered batch of transactions parsed from one file.
// GeneratedAt is the file's own trailing date when one is reliable, otherwise
// the moment of parsing.
type Statement struct {
	Transactions []Transaction
	GeneratedAt  time.Time
	Source       string
	Format       Format
}

// Len returns the number of transactions.
func (s Statement) Len() int {
	return len(s.Transactions)
}

// IDs returns the transaction ids in order.
func (s Statement) IDs() []int {
	ids := make([]int, len(s.Transactions))
	for i, tx := range s.Transactions {
		ids[i] = tx.ID
	}
	return ids
}

// WithTransactions returns a copy of s holding txs.
func (s Statement) WithTransactions(txs []Transaction) Statement {
	s.Transactions = txs
	return s
}
