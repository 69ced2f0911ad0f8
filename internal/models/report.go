package models

import "time"

// Report is the JSON document returned for one processed statement.
type Report struct {
	OriginalFile      string              `json:"original_file"`
	ProcessedAt       string              `json:"processed_at"`
	FileType          string              `json:"file_type"`
	TotalTransactions int                 `json:"total_transactions"`
	AIOK              bool                `json:"ai_ok"`
	Transactions      []ReportTransaction `json:"transactions"`
}

// ReportTransaction is one annotated transaction of a Report.
type ReportTransaction struct {
	ID         int     `json:"id"`
	Name       string  `json:"name"`
	Value      float64 `json:"value"`
	Date       string  `json:"date"`
	Category   string  `json:"category"`
	Confidence float64 `json:"categorization_confidence"`
	Reasoning  string  `json:"categorization_reasoning"`
}

// NewReport builds the report of an annotated statement. processedAt is
// written in RFC 3339 with the local offset it carries.
func NewReport(originalFile string, stmt Statement, aiOK bool, processedAt time.Time) Report {
	rows := make([]ReportTransaction, len(stmt.Transactions))
	for i, tx := range stmt.Transactions {
		rows[i] = ReportTransaction{
			ID:         tx.ID,
			Name:       tx.Name,
			Value:      tx.Float(),
			Date:       tx.FormattedDate(),
			Category:   tx.Category,
			Confidence: tx.Confidence,
			Reasoning:  tx.Reasoning,
		}
	}
	return Report{
		OriginalFile:      originalFile,
		ProcessedAt:       processedAt.Format(time.RFC3339),
		FileType:          stmt.Format.String(),
		TotalTransactions: len(rows),
		AIOK:              aiOK,
		Transactions:      rows,
	}
}
