package csvparser

import (
	"bytes"
	"encoding/csv"
	"errors"
	"io"
	"strings"

	"fjacquet/fincat/internal/models"
)

// DefaultSampleSize is how many bytes are inspected to sniff the delimiter.
const DefaultSampleSize = 1024

// DefaultDelimiter is used when sniffing is inconclusive.
const DefaultDelimiter = ','

// candidateDelimiters are tried in order; earlier entries win ties.
var candidateDelimiters = []rune{',', ';', '\t', '|'}

// Layout describes a tabular statement: its delimiter, raw header cells and
// the inferred column roles.
type Layout struct {
	Delimiter rune
	Headers   []string
	Mapping   models.ColumnMapping
}

// roleKeywords lists, per role, the synonyms a header cell may contain.
var roleKeywords = map[models.ColumnRole][]string{
	models.RoleDate:        {"data", "date", "dt", "fecha"},
	models.RoleDescription: {"descricao", "descrição", "description", "historico", "histórico", "memo", "detail"},
	models.RoleValue:       {"valor", "value", "amount", "montante"},
	models.RoleDebit:       {"debito", "débito", "debit"},
	models.RoleCredit:      {"credito", "crédito", "credit"},
	models.RoleCategory:    {"categoria", "category", "tipo", "type", "class"},
}

// DetectFormat sniffs the delimiter of sample, reads its first record as the
// header and infers the column mapping. An incomplete mapping is not an error.
func DetectFormat(sample []byte) (Layout, error) {
	delimiter := SniffDelimiter(sample)
	headers, err := readHeader(bytes.NewReader(sample), delimiter)
	if err != nil {
		return Layout{Delimiter: delimiter}, err
	}
	return Layout{
		Delimiter: delimiter,
		Headers:   headers,
		Mapping:   InferColumns(headers),
	}, nil
}

func readHeader(r io.Reader, delimiter rune) ([]string, error) {
	reader := newCSVReader(r, delimiter)
	headers, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return nil, nil
	}
	return headers, err
}

func newCSVReader(r io.Reader, delimiter rune) *csv.Reader {
	reader := csv.NewReader(r)
	reader.Comma = delimiter
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true
	return reader
}

// InferColumns maps header cells to roles. For each role the first cell, left
// to right, containing any of the role's keywords wins. Debit and credit are
// only looked for when no value column exists, and a cell taken as debit is
// never also considered for credit.
func InferColumns(headers []string) models.ColumnMapping {
	normalized := make([]string, len(headers))
	for i, h := range headers {
		normalized[i] = strings.ToLower(strings.TrimSpace(h))
	}

	mapping := models.ColumnMapping{}
	for _, role := range []models.ColumnRole{models.RoleDate, models.RoleDescription, models.RoleValue} {
		if i, ok := firstMatch(normalized, roleKeywords[role]); ok {
			mapping[role] = i
		}
	}

	if !mapping.Has(models.RoleValue) {
		for i, h := range normalized {
			switch {
			case containsAny(h, roleKeywords[models.RoleDebit]):
				if !mapping.Has(models.RoleDebit) {
					mapping[models.RoleDebit] = i
				}
			case containsAny(h, roleKeywords[models.RoleCredit]):
				if !mapping.Has(models.RoleCredit) {
					mapping[models.RoleCredit] = i
				}
			}
		}
	}

	if i, ok := firstMatch(normalized, roleKeywords[models.RoleCategory]); ok {
		mapping[models.RoleCategory] = i
	}
	return mapping
}

func firstMatch(headers []string, keywords []string) (int, bool) {
	for i, h := range headers {
		if containsAny(h, keywords) {
			return i, true
		}
	}
	return 0, false
}

func containsAny(s string, keywords []string) bool {
	for _, k := range keywords {
		if strings.Contains(s, k) {
			return true
		}
	}
	return false
}

// SniffDelimiter picks the delimiter that splits every complete line of
// sample into the same non-zero number of fields. Delimiters inside double
// quotes are ignored. The highest consistent count wins and candidate order
// breaks ties. When nothing is consistent the result is DefaultDelimiter.
//
// A sample of DefaultSampleSize bytes or more is assumed to be cut short, so
// its unterminated last line is ignored.
func SniffDelimiter(sample []byte) rune {
	return sniff(sample, len(sample) < DefaultSampleSize)
}

func sniff(sample []byte, complete bool) rune {
	lines := sampleLines(string(sample), complete)
	if len(lines) == 0 {
		return DefaultDelimiter
	}

	best, bestCount := DefaultDelimiter, 0
	for _, candidate := range candidateDelimiters {
		count, consistent := consistentCount(lines, candidate)
		if consistent && count > bestCount {
			best, bestCount = candidate, count
		}
	}
	return best
}

// sampleLines splits the sample into non-blank records, respecting quoted
// newlines. An unterminated last record is kept only when the sample is
// complete or holds nothing else.
func sampleLines(sample string, complete bool) []string {
	var (
		lines   []string
		current strings.Builder
		quoted  bool
	)
	flush := func() {
		if strings.TrimSpace(current.String()) != "" {
			lines = append(lines, current.String())
		}
		current.Reset()
	}

	for _, r := range sample {
		switch {
		case r == '"':
			quoted = !quoted
			current.WriteRune(r)
		case (r == '\n' || r == '\r') && !quoted:
			flush()
		default:
			current.WriteRune(r)
		}
	}

	if complete || len(lines) == 0 {
		flush()
	}
	return lines
}

func consistentCount(lines []string, delimiter rune) (int, bool) {
	expected := -1
	for _, line := range lines {
		n := countUnquoted(line, delimiter)
		if n == 0 {
			return 0, false
		}
		if expected == -1 {
			expected = n
		} else if n != expected {
			return 0, false
		}
	}
	return expected, expected > 0
}

func countUnquoted(line string, delimiter rune) int {
	n := 0
	quoted := false
	for _, r := range line {
		switch {
		case r == '"':
			quoted = !quoted
		case r == delimiter && !quoted:
			n++
		}
	}
	return n
}
