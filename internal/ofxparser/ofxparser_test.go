package ofxparser

import (
	"strings"
	"testing"
	"time"

	"fjacquet/fincat/internal/logging"
	"fjacquet/fincat/internal/models"
	"fjacquet/fincat/internal/parsererror"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sgmlHeader = `OFXHEADER:100
DATA:OFXSGML
VERSION:102
SECURITY:NONE
ENCODING:USASCII
CHARSET:1252
COMPRESSION:NONE
OLDFILEUID:NONE
NEWFILEUID:NONE

`

const signon = `<SIGNONMSGSRSV1>
<SONRS>
<STATUS>
<CODE>0
<SEVERITY>INFO
</STATUS>
<DTSERVER>20240315120000
<LANGUAGE>POR
</SONRS>
</SIGNONMSGSRSV1>
`

func bankStatement(transactions string) string {
	return sgmlHeader + `<OFX>
` + signon + `<BANKMSGSRSV1>
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
` + transactions + `</BANKTRANLIST>
<LEDGERBAL>
<BALAMT>1014.70
<DTASOF>20240315120000
</LEDGERBAL>
</STMTRS>
</STMTTRNRS>
</BANKMSGSRSV1>
</OFX>
`
}

const fiveTransactions = `<STMTTRN>
<TRNTYPE>DEBIT
<DTPOSTED>20240301080000
<TRNAMT>-150.00
<FITID>TRN001
<MEMO>SUPERMERCADO XYZ LTDA
</STMTTRN>
<STMTTRN>
<TRNTYPE>DEBIT
<DTPOSTED>20240302100000
<TRNAMT>-89.50
<FITID>TRN002
<MEMO>POSTO COMBUSTIVEL ABC
</STMTTRN>
<STMTTRN>
<TRNTYPE>CREDIT
<DTPOSTED>20240305140000
<TRNAMT>2500.00
<FITID>TRN003
<MEMO>SALARIO EMPRESA XYZ
</STMTTRN>
<STMTTRN>
<TRNTYPE>DEBIT
<DTPOSTED>20240307090000
<TRNAMT>-45.80
<FITID>TRN004
<MEMO>FARMACIA SAUDE TOTAL
</STMTTRN>
<STMTTRN>
<TRNTYPE>DEBIT
<DTPOSTED>20240310160000
<TRNAMT>-1200.00
<FITID>TRN005
<MEMO>ALUGUEL APARTAMENTO
</STMTTRN>
`

var fixedNow = time.Date(2024, 6, 30, 18, 0, 0, 0, time.UTC)

func newTestParser() (*Parser, *logging.MockLogger) {
	mock := logging.NewMockLogger()
	return NewParser(mock, func() time.Time { return fixedNow }), mock
}

func TestParse_BankStatementSGML(t *testing.T) {
	p, _ := newTestParser()
	st, err := p.Parse(strings.NewReader(bankStatement(fiveTransactions)))
	require.NoError(t, err)

	require.Len(t, st.Transactions, 5)
	assert.Equal(t, models.FormatOFX, st.Format)
	assert.Equal(t, []int{0, 1, 2, 3, 4}, st.IDs())

	first := st.Transactions[0]
	assert.Equal(t, "SUPERMERCADO XYZ LTDA", first.Name)
	assert.True(t, decimal.RequireFromString("-150").Equal(first.Value))
	assert.Equal(t, time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC), first.Date)
	assert.Equal(t, models.CategoryUncategorizedOFX, first.Category)
	assert.False(t, first.DateInferred)

	assert.True(t, decimal.RequireFromString("2500").Equal(st.Transactions[2].Value))
	assert.True(t, decimal.RequireFromString("-45.80").Equal(st.Transactions[3].Value))

	// GeneratedAt is the date of the last transaction.
	assert.Equal(t, time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC), st.GeneratedAt)
}

func TestParse_NameFallbacks(t *testing.T) {
	trns := `<STMTTRN>
<TRNTYPE>DEBIT
<DTPOSTED>20240301
<TRNAMT>-10.00
<FITID>A
<NAME>PADARIA CENTRAL
</STMTTRN>
<STMTTRN>
<TRNTYPE>DEBIT
<DTPOSTED>20240302
<TRNAMT>-20.00
<FITID>B
<NAME>IGNORED NAME
<MEMO>MEMO WINS
</STMTTRN>
<STMTTRN>
<TRNTYPE>DEBIT
<DTPOSTED>20240303
<TRNAMT>-30.00
<FITID>C
</STMTTRN>
`
	p, _ := newTestParser()
	st, err := p.Parse(strings.NewReader(bankStatement(trns)))
	require.NoError(t, err)

	require.Len(t, st.Transactions, 3)
	assert.Equal(t, "PADARIA CENTRAL", st.Transactions[0].Name)
	assert.Equal(t, "MEMO WINS", st.Transactions[1].Name)
	assert.Equal(t, models.NameNoDescription, st.Transactions[2].Name)
}

func TestParse_MissingPostingDateUsesStatementEnd(t *testing.T) {
	trns := `<STMTTRN>
<TRNTYPE>DEBIT
<TRNAMT>-10.00
<FITID>A
<MEMO>SEM DATA
</STMTTRN>
`
	p, mock := newTestParser()
	st, err := p.Parse(strings.NewReader(bankStatement(trns)))
	require.NoError(t, err)

	require.Len(t, st.Transactions, 1)
	tx := st.Transactions[0]
	assert.True(t, tx.DateInferred)
	assert.Equal(t, time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC), tx.Date)

	inferred := 0
	for _, e := range mock.GetEntriesByLevel("WARN") {
		if e.Message == "OFX transaction has no posting date, date inferred" {
			inferred++
		}
	}
	assert.Equal(t, 1, inferred)
	assert.Empty(t, mock.GetEntriesByLevel("ERROR"))
}

func TestParse_MissingPostingAndEndDateUsesClock(t *testing.T) {
	doc := strings.Replace(bankStatement(`<STMTTRN>
<TRNTYPE>DEBIT
<TRNAMT>-10.00
<FITID>A
</STMTTRN>
`), "<DTEND>20240315000000\n", "", 1)

	p, _ := newTestParser()
	st, err := p.Parse(strings.NewReader(doc))
	require.NoError(t, err)

	require.Len(t, st.Transactions, 1)
	assert.True(t, st.Transactions[0].DateInferred)
	assert.Equal(t, models.CalendarDate(fixedNow), st.Transactions[0].Date)
}

func TestParse_EmptyTransactionList(t *testing.T) {
	p, _ := newTestParser()
	st, err := p.Parse(strings.NewReader(bankStatement("")))
	require.NoError(t, err)

	assert.Empty(t, st.Transactions)
	assert.Equal(t, fixedNow, st.GeneratedAt)
}

func TestParse_KeepsAmountPrecision(t *testing.T) {
	trns := `<STMTTRN>
<TRNTYPE>DEBIT
<DTPOSTED>20240301
<TRNAMT>-12.3456789
<FITID>A
<MEMO>FRACIONADO
</STMTTRN>
`
	p, _ := newTestParser()
	st, err := p.Parse(strings.NewReader(bankStatement(trns)))
	require.NoError(t, err)

	require.Len(t, st.Transactions, 1)
	assert.True(t, decimal.RequireFromString("-12.3456789").Equal(st.Transactions[0].Value),
		"got %s", st.Transactions[0].Value)
}

func TestParse_CreditCardStatement(t *testing.T) {
	doc := sgmlHeader + `<OFX>
` + signon + `<CREDITCARDMSGSRSV1>
<CCSTMTTRNRS>
<TRNUID>1
<STATUS>
<CODE>0
<SEVERITY>INFO
</STATUS>
<CCSTMTRS>
<CURDEF>BRL
<CCACCTFROM>
<ACCTID>4111111111111111
</CCACCTFROM>
<BANKTRANLIST>
<DTSTART>20240301
<DTEND>20240331
<STMTTRN>
<TRNTYPE>DEBIT
<DTPOSTED>20240312
<TRNAMT>-59.90
<FITID>CC1
<MEMO>STREAMING
</STMTTRN>
</BANKTRANLIST>
<LEDGERBAL>
<BALAMT>-59.90
<DTASOF>20240331
</LEDGERBAL>
</CCSTMTRS>
</CCSTMTTRNRS>
</CREDITCARDMSGSRSV1>
</OFX>
`
	p, _ := newTestParser()
	st, err := p.Parse(strings.NewReader(doc))
	require.NoError(t, err)

	require.Len(t, st.Transactions, 1)
	assert.Equal(t, "STREAMING", st.Transactions[0].Name)
	assert.True(t, decimal.RequireFromString("-59.90").Equal(st.Transactions[0].Value))
}

func TestParse_XMLVersion2(t *testing.T) {
	doc := `<?xml version="1.0" encoding="UTF-8" standalone="no"?>
<?OFX OFXHEADER="200" VERSION="203" SECURITY="NONE" OLDFILEUID="NONE" NEWFILEUID="NONE"?>
<OFX>
<SIGNONMSGSRSV1><SONRS><STATUS><CODE>0</CODE><SEVERITY>INFO</SEVERITY></STATUS><DTSERVER>20240315120000</DTSERVER><LANGUAGE>POR</LANGUAGE></SONRS></SIGNONMSGSRSV1>
<BANKMSGSRSV1><STMTTRNRS><TRNUID>1</TRNUID><STATUS><CODE>0</CODE><SEVERITY>INFO</SEVERITY></STATUS>
<STMTRS><CURDEF>BRL</CURDEF>
<BANKACCTFROM><BANKID>001</BANKID><ACCTID>42</ACCTID><ACCTTYPE>CHECKING</ACCTTYPE></BANKACCTFROM>
<BANKTRANLIST><DTSTART>20240301</DTSTART><DTEND>20240331</DTEND>
<STMTTRN><TRNTYPE>CREDIT</TRNTYPE><DTPOSTED>20240305</DTPOSTED><TRNAMT>3200.00</TRNAMT><FITID>X1</FITID><MEMO>SALARIO</MEMO></STMTTRN>
</BANKTRANLIST>
<LEDGERBAL><BALAMT>3200.00</BALAMT><DTASOF>20240331</DTASOF></LEDGERBAL>
</STMTRS></STMTTRNRS></BANKMSGSRSV1>
</OFX>
`
	p, _ := newTestParser()
	st, err := p.Parse(strings.NewReader(doc))
	require.NoError(t, err)

	require.Len(t, st.Transactions, 1)
	assert.Equal(t, "SALARIO", st.Transactions[0].Name)
	assert.Equal(t, time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC), st.Transactions[0].Date)
}

func TestParse_DocumentErrors(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected error
	}{
		{"empty file", "   \n", parsererror.ErrUnreadableDocument},
		{"not ofx", "Data;Valor\n01/03/2024;10\n", parsererror.ErrMalformedDocument},
		{"no statement section", sgmlHeader + "<OFX>\n" + signon + "</OFX>\n", parsererror.ErrNoStatement},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, _ := newTestParser()
			_, err := p.Parse(strings.NewReader(tt.input))
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.expected)
			assert.True(t, parsererror.IsDocumentError(err))
		})
	}
}
