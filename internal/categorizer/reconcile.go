package categorizer

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"fjacquet/fincat/internal/models"
)

// ErrNoJSONObject is returned when the model response holds no JSON object.
var ErrNoJSONObject = errors.New("response is not a JSON object")

type responseEnvelope struct {
	Categorizations json.RawMessage `json:"categorizations"`
}

type responseItem struct {
	ID         json.RawMessage `json:"id"`
	Category   json.RawMessage `json:"category"`
	Confidence json.RawMessage `json:"confidence"`
	Reasoning  json.RawMessage `json:"reasoning"`
}

// ParseResponse extracts and decodes the classification items of a model
// response. Items without an integer id are dropped. A category, confidence
// or reasoning of the wrong type is treated as absent. A response whose
// object lacks "categorizations" yields no items and no error.
func ParseResponse(raw string) ([]models.ClassificationItem, error) {
	payload := ExtractJSON(raw)

	dec := json.NewDecoder(strings.NewReader(payload))
	var top json.RawMessage
	if err := dec.Decode(&top); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	top = bytes.TrimSpace(top)
	if len(top) == 0 || top[0] != '{' {
		return nil, ErrNoJSONObject
	}

	var env responseEnvelope
	if err := json.Unmarshal(top, &env); err != nil {
		return nil, fmt.Errorf("decode envelope: %w", err)
	}
	if isAbsent(env.Categorizations) {
		return nil, nil
	}

	var rawItems []json.RawMessage
	if err := json.Unmarshal(env.Categorizations, &rawItems); err != nil {
		return nil, fmt.Errorf("categorizations is not a list: %w", err)
	}

	items := make([]models.ClassificationItem, 0, len(rawItems))
	for _, ri := range rawItems {
		var it responseItem
		if err := json.Unmarshal(ri, &it); err != nil {
			continue
		}
		id, ok := decodeID(it.ID)
		if !ok {
			continue
		}
		item := models.ClassificationItem{ID: id}
		if s, ok := decodeString(it.Category); ok {
			item.Category = strings.TrimSpace(s)
		}
		if f, ok := decodeFloat(it.Confidence); ok {
			item.Confidence = &f
		}
		if s, ok := decodeString(it.Reasoning); ok {
			item.Reasoning = &s
		}
		items = append(items, item)
	}
	return items, nil
}

func decodeID(raw json.RawMessage) (int, bool) {
	if isAbsent(raw) {
		return 0, false
	}
	var n json.Number
	if err := json.Unmarshal(raw, &n); err == nil {
		return integral(string(n))
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return integral(strings.TrimSpace(s))
	}
	return 0, false
}

func integral(s string) (int, bool) {
	if i, err := strconv.Atoi(s); err == nil {
		return i, true
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsInf(f, 0) || f != math.Trunc(f) {
		return 0, false
	}
	return int(f), true
}

func isAbsent(raw json.RawMessage) bool {
	return len(raw) == 0 || string(raw) == "null"
}

func decodeString(raw json.RawMessage) (string, bool) {
	if isAbsent(raw) {
		return "", false
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return "", false
	}
	return s, true
}

func decodeFloat(raw json.RawMessage) (float64, bool) {
	if isAbsent(raw) {
		return 0, false
	}
	var f float64
	if err := json.Unmarshal(raw, &f); err != nil {
		return 0, false
	}
	return f, true
}

// Reconcile annotates every transaction of txs from items, matched by id.
// The result has the same length, order and ids as txs whatever items holds.
// A transaction without a matching item, or whose item has no category, gets
// the catch-all with zero confidence. When several items share an id the
// last one wins.
func Reconcile(txs []models.Transaction, items []models.ClassificationItem, vocab models.Vocabulary) []models.Transaction {
	byID := make(map[int]models.ClassificationItem, len(items))
	for _, it := range items {
		byID[it.ID] = it
	}

	catchAll := vocab.CatchAllLabel()
	out := make([]models.Transaction, len(txs))
	for i, tx := range txs {
		it, ok := byID[tx.ID]
		if !ok || !it.HasCategory() {
			out[i] = tx.Annotate(catchAll, 0, models.ReasoningNotFound)
			continue
		}
		out[i] = tx.Annotate(it.Category, clamp01(it.ConfidenceOr(models.DefaultConfidence)), it.ReasoningOr(""))
	}
	return out
}

// GlobalFallback gives every transaction the catch-all with zero confidence.
func GlobalFallback(txs []models.Transaction, vocab models.Vocabulary) []models.Transaction {
	catchAll := vocab.CatchAllLabel()
	out := make([]models.Transaction, len(txs))
	for i, tx := range txs {
		out[i] = tx.Annotate(catchAll, 0, models.ReasoningGlobalFailure)
	}
	return out
}

func clamp01(f float64) float64 {
	switch {
	case math.IsNaN(f):
		return 0
	case f < 0:
		return 0
	case f > 1:
		return 1
	default:
		return f
	}
}
