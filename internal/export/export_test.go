package export

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"fjacquet/fincat/internal/logging"
	"fjacquet/fincat/internal/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func annotatedStatement() models.Statement {
	day := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	txs := []models.Transaction{
		models.NewTransaction(0, "PADARIA \"PÃO\", LTDA", decimal.RequireFromString("-12.5"), day, "").
			Annotate("Alimentação", 0.9, "padaria"),
		models.NewTransaction(1, "SALARIO", decimal.NewFromInt(5000), day.AddDate(0, 0, 4), "").
			Annotate("Renda", 1, ""),
	}
	return models.Statement{Transactions: txs, Format: models.FormatCSV, Source: "extrato.csv"}
}

func TestWriteJSON(t *testing.T) {
	stmt := annotatedStatement()
	processed := time.Date(2024, 3, 6, 10, 0, 0, 0, time.UTC)
	report := models.NewReport("extrato.csv", stmt, true, processed)

	var buf bytes.Buffer
	require.NoError(t, WriteJSON(&buf, report))
	assert.Contains(t, buf.String(), "Alimentação")
	assert.Contains(t, buf.String(), "\n  \"original_file\"")

	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, "extrato.csv", decoded["original_file"])
	assert.Equal(t, "2024-03-06T10:00:00Z", decoded["processed_at"])
	assert.Equal(t, "csv", decoded["file_type"])
	assert.Equal(t, float64(2), decoded["total_transactions"])
	assert.Equal(t, true, decoded["ai_ok"])

	rows := decoded["transactions"].([]interface{})
	first := rows[0].(map[string]interface{})
	assert.Equal(t, float64(0), first["id"])
	assert.Equal(t, -12.5, first["value"])
	assert.Equal(t, "2024-03-01", first["date"])
	assert.Equal(t, 0.9, first["categorization_confidence"])
	assert.Equal(t, "padaria", first["categorization_reasoning"])
}

func TestWriteJSON_EmptyTransactionsIsList(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteJSON(&buf, models.Report{FileType: "ofx"}))
	assert.Contains(t, buf.String(), `"transactions": []`)
}

func TestWriteCSV(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, annotatedStatement().Transactions, ';'))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "id;date;name;value;category;categorization_confidence;categorization_reasoning;date_inferred", lines[0])
	assert.Contains(t, lines[1], "-12.50")
	assert.Contains(t, lines[1], `"PADARIA ""PÃO"", LTDA"`)
	assert.Contains(t, lines[2], "5000.00")
}

func TestExporter_WriteFile(t *testing.T) {
	dir := t.TempDir()
	logger := logging.NewMockLogger()
	e := NewExporter(logger, 0)
	stmt := annotatedStatement()
	report := models.NewReport("extrato.csv", stmt, false, time.Now())

	jsonPath := filepath.Join(dir, "out", OutputName("extrato.csv", FormatJSON))
	require.NoError(t, e.WriteFile(jsonPath, FormatJSON, report, stmt))
	data, err := os.ReadFile(jsonPath)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"ai_ok": false`)
	assert.True(t, logger.HasEntry("INFO", "Wrote categorized statement"))

	csvPath := filepath.Join(dir, OutputName("extrato.csv", FormatCSV))
	require.NoError(t, e.WriteFile(csvPath, FormatCSV, report, stmt))
	data, err = os.ReadFile(csvPath)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(data), "id,date,name"))

	assert.Error(t, e.WriteFile(filepath.Join(dir, "x.xml"), "xml", report, stmt))
}

func TestOutputName(t *testing.T) {
	assert.Equal(t, "extrato_categorized.json", OutputName("/tmp/x/extrato.ofx", "json"))
	assert.Equal(t, "extrato_categorized.csv", OutputName("extrato.csv", "CSV"))
	assert.Equal(t, "extrato_categorized.json", OutputName("extrato", ""))
}
