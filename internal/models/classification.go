package models

// ClassificationItem is one entry of a model response. Pointer fields are nil
// when the model omitted them.
type ClassificationItem struct {
	ID         int
	Category   string
	Confidence *float64
	Reasoning  *string
}

// HasCategory reports whether the item carries a usable category.
func (c ClassificationItem) HasCategory() bool {
	return c.Category != ""
}

// ConfidenceOr returns the item's confidence or def when absent.
func (c ClassificationItem) ConfidenceOr(def float64) float64 {
	if c.Confidence == nil {
		return def
	}
	return *c.Confidence
}

// ReasoningOr returns the item's reasoning or def when absent.
func (c ClassificationItem) ReasoningOr(def string) string {
	if c.Reasoning == nil {
		return def
	}
	return *c.Reasoning
}
