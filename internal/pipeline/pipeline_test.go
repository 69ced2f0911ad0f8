package pipeline

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"fjacquet/fincat/internal/categorizer"
	"fjacquet/fincat/internal/factory"
	"fjacquet/fincat/internal/logging"
	"fjacquet/fincat/internal/models"
	"fjacquet/fincat/internal/parsererror"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type scriptedClient struct {
	reply string
	err   error
	calls int
}

func (s *scriptedClient) Name() string { return "scripted" }

func (s *scriptedClient) Generate(ctx context.Context, prompt string) (string, error) {
	s.calls++
	return s.reply, s.err
}

var processedAt = time.Date(2024, 3, 6, 12, 0, 0, 0, time.UTC)

func newProcessor(client categorizer.ModelClient) (*Processor, *logging.MockLogger) {
	logger := logging.NewMockLogger()
	var c *categorizer.Classifier
	if client != nil {
		c = categorizer.NewClassifier(client, models.DefaultVocabulary(), time.Second, logger)
	}
	return NewProcessor(c, factory.Options{Clock: func() time.Time { return processedAt }}, logger), logger
}

const brazilianCSV = "Data;Descrição;Valor\n" +
	"01/03/2024;SUPERMERCADO XYZ;-150,50\n" +
	"02/03/2024;UBER TRIP;-23,90\n" +
	"05/03/2024;SALARIO;5.000,00\n"

const minimalOFX = `OFXHEADER:100
DATA:OFXSGML
VERSION:102
SECURITY:NONE
ENCODING:USASCII
CHARSET:1252
COMPRESSION:NONE
OLDFILEUID:NONE
NEWFILEUID:NONE

<OFX>
<SIGNONMSGSRSV1>
<SONRS>
<STATUS>
<CODE>0
<SEVERITY>INFO
</STATUS>
<DTSERVER>20240315120000
<LANGUAGE>POR
</SONRS>
</SIGNONMSGSRSV1>
<BANKMSGSRSV1>
<STMTTRNRS>
<TRNUID>1
<STATUS>
<CODE>0
<SEVERITY>INFO
</STATUS>
<STMTRS>
<CURDEF>BRL
<BANKACCTFROM>
<BANKID>123
<ACCTID>123456789
<ACCTTYPE>CHECKING
</BANKACCTFROM>
<BANKTRANLIST>
<DTSTART>20240301000000
<DTEND>20240315000000
<STMTTRN>
<TRNTYPE>DEBIT
<DTPOSTED>20240301080000
<TRNAMT>-150.00
<FITID>TRN001
<MEMO>SUPERMERCADO XYZ LTDA
</STMTTRN>
<STMTTRN>
<TRNTYPE>CREDIT
<DTPOSTED>20240305080000
<TRNAMT>5000.00
<FITID>TRN002
<MEMO>SALARIO
</STMTTRN>
</BANKTRANLIST>
<LEDGERBAL>
<BALAMT>4850.00
<DTASOF>20240315120000
</LEDGERBAL>
</STMTRS>
</STMTTRNRS>
</BANKMSGSRSV1>
</OFX>
`

func TestProcess_CSV(t *testing.T) {
	client := &scriptedClient{reply: "```json\n{\"categorizations\":[" +
		"{\"id\":0,\"category\":\"Alimentação\",\"confidence\":0.95,\"reasoning\":\"mercado\"}," +
		"{\"id\":1,\"category\":\"Transporte\",\"confidence\":0.9,\"reasoning\":\"Uber\"}," +
		"{\"id\":2,\"category\":\"Renda\",\"confidence\":0.99}]}\n```"}
	p, logger := newProcessor(client)

	out, err := p.Process(context.Background(), "extrato.csv", strings.NewReader(brazilianCSV))
	require.NoError(t, err)

	assert.True(t, out.AIOK)
	assert.Equal(t, models.FormatCSV, out.FileType)
	assert.Equal(t, "extrato.csv", out.Statement.Source)
	assert.Equal(t, []int{0, 1, 2}, out.Statement.IDs())
	assert.Equal(t, "Transporte", out.Statement.Transactions[1].Category)
	assert.Equal(t, 1, client.calls)
	assert.True(t, logger.HasEntry("INFO", "Statement processed"))

	report := out.Payload()
	assert.Equal(t, "extrato.csv", report.OriginalFile)
	assert.Equal(t, "2024-03-06T12:00:00Z", report.ProcessedAt)
	assert.Equal(t, "csv", report.FileType)
	assert.Equal(t, 3, report.TotalTransactions)
	assert.True(t, report.AIOK)
	assert.Equal(t, -150.5, report.Transactions[0].Value)
	assert.Equal(t, "2024-03-01", report.Transactions[0].Date)
	assert.Equal(t, 0.99, report.Transactions[2].Confidence)
}

func TestProcessFile_OFXWithModelFailure(t *testing.T) {
	path := filepath.Join(t.TempDir(), "extrato.ofx")
	require.NoError(t, os.WriteFile(path, []byte(minimalOFX), 0600))

	p, _ := newProcessor(&scriptedClient{err: errors.New("503")})
	out, err := p.ProcessFile(context.Background(), path)
	require.NoError(t, err)

	assert.False(t, out.AIOK)
	assert.Equal(t, models.FormatOFX, out.FileType)
	assert.Equal(t, "extrato.ofx", out.OriginalFile)
	require.Equal(t, 2, out.Statement.Len())
	for _, tx := range out.Statement.Transactions {
		assert.Equal(t, "Outros", tx.Category)
		assert.Equal(t, models.ReasoningGlobalFailure, tx.Reasoning)
	}
	assert.Equal(t, "ofx", out.Payload().FileType)
}

func TestProcess_WithoutClassifier(t *testing.T) {
	p, _ := newProcessor(nil)

	out, err := p.Process(context.Background(), "extrato.csv", strings.NewReader(brazilianCSV))
	require.NoError(t, err)
	assert.False(t, out.AIOK)
	assert.Equal(t, 3, out.Statement.Len())
}

func TestProcess_HeaderOnlyCSV(t *testing.T) {
	client := &scriptedClient{}
	p, _ := newProcessor(client)

	out, err := p.Process(context.Background(), "vazio.csv", strings.NewReader("Data;Descrição;Valor\n"))
	require.NoError(t, err)
	assert.True(t, out.AIOK)
	assert.Equal(t, 0, out.Statement.Len())
	assert.Equal(t, 0, client.calls)
	assert.NotNil(t, out.Payload().Transactions)
}

func TestProcess_Errors(t *testing.T) {
	p, _ := newProcessor(&scriptedClient{})

	_, err := p.Process(context.Background(), "extrato.pdf", strings.NewReader("%PDF"))
	assert.ErrorIs(t, err, parsererror.ErrUnsupportedFormat)

	_, err = p.Process(context.Background(), "extrato.ofx", strings.NewReader("garbage"))
	require.Error(t, err)
	assert.True(t, parsererror.IsDocumentError(err))

	_, err = p.ProcessFile(context.Background(), filepath.Join(t.TempDir(), "missing.csv"))
	require.Error(t, err)
	assert.True(t, parsererror.IsDocumentError(err))
	assert.ErrorIs(t, err, parsererror.ErrUnreadableDocument)
	assert.ErrorIs(t, err, fs.ErrNotExist)
	assert.Contains(t, err.Error(), "missing.csv")
}
