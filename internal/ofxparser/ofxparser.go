// Package ofxparser converts OFX statements (1.x SGML and 2.x XML) into the
// canonical statement model using ofxgo.
package ofxparser

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"fjacquet/fincat/internal/logging"
	"fjacquet/fincat/internal/models"
	"fjacquet/fincat/internal/parser"
	"fjacquet/fincat/internal/parsererror"

	"github.com/aclindsa/ofxgo"
	"github.com/shopspring/decimal"
)

const formatName = "OFX"

// Parser parses OFX statements.
type Parser struct {
	parser.BaseParser
}

// NewParser creates an OFX parser. A nil clock uses time.Now; the clock only
// matters for transactions without a posting date.
func NewParser(logger logging.Logger, clock parser.Clock) *Parser {
	return &Parser{BaseParser: parser.NewBaseParser(logger, clock)}
}

// statementData is the part of a bank or credit-card statement we use.
type statementData struct {
	kind     string
	tranList *ofxgo.TransactionList
}

// Parse reads the first bank statement of r, or the first credit-card
// statement when there is no bank statement.
//
// A record without DTPOSTED is dated with the statement's DTEND, or with the
// clock when DTEND is missing too, and is flagged DateInferred.
func (p *Parser) Parse(r io.Reader) (models.Statement, error) {
	logger := p.GetLogger().WithField(logging.FieldParser, "ofx")

	raw, err := io.ReadAll(r)
	if err != nil {
		return models.Statement{}, documentError(parsererror.ErrUnreadableDocument, err)
	}
	if len(bytes.TrimSpace(raw)) == 0 {
		return models.Statement{}, documentError(parsererror.ErrUnreadableDocument, errors.New("empty file"))
	}

	resp, err := ofxgo.ParseResponse(bytes.NewReader(raw))
	if resp == nil {
		if err == nil {
			err = errors.New("no response")
		}
		return models.Statement{}, documentError(parsererror.ErrMalformedDocument, err)
	}
	if err != nil {
		logger.WithError(err).Warn("OFX response failed validation, using decoded content")
	}

	stmt, ok := firstStatement(resp)
	if !ok {
		return models.Statement{}, documentError(parsererror.ErrNoStatement, nil)
	}

	var (
		transactions []models.Transaction
		fallback     time.Time
		inferred     int
	)
	if stmt.tranList != nil {
		fallback = stmt.tranList.DtEnd.Time
		for _, trn := range stmt.tranList.Transactions {
			tx := p.convert(trn, len(transactions), fallback)
			if tx.DateInferred {
				inferred++
				logger.Warn("OFX transaction has no posting date, date inferred",
					logging.Field{Key: logging.FieldTransactionID, Value: tx.ID},
					logging.Field{Key: "fitid", Value: string(trn.FiTID)},
					logging.Field{Key: "inferred_date", Value: tx.FormattedDate()})
			}
			transactions = append(transactions, tx)
		}
	}

	generatedAt := p.Now()
	if n := len(transactions); n > 0 {
		generatedAt = transactions[n-1].Date
	}

	logger.Info("Parsed OFX statement",
		logging.Field{Key: "statement", Value: stmt.kind},
		logging.Field{Key: logging.FieldCount, Value: len(transactions)},
		logging.Field{Key: "inferred_dates", Value: inferred})

	return models.Statement{
		Transactions: transactions,
		GeneratedAt:  generatedAt,
		Format:       models.FormatOFX,
	}, nil
}

func firstStatement(resp *ofxgo.Response) (statementData, bool) {
	for _, msg := range resp.Bank {
		if s, ok := msg.(*ofxgo.StatementResponse); ok {
			return statementData{kind: "bank", tranList: s.BankTranList}, true
		}
	}
	for _, msg := range resp.CreditCard {
		if s, ok := msg.(*ofxgo.CCStatementResponse); ok {
			return statementData{kind: "credit_card", tranList: s.BankTranList}, true
		}
	}
	return statementData{}, false
}

func (p *Parser) convert(trn ofxgo.Transaction, id int, fallback time.Time) models.Transaction {
	date := trn.DtPosted.Time
	inferred := false
	if date.IsZero() {
		inferred = true
		date = fallback
		if date.IsZero() {
			date = p.Now()
		}
	}

	tx := models.NewTransaction(id, transactionName(trn), amount(trn.TrnAmt), date, models.CategoryUncategorizedOFX)
	tx.DateInferred = inferred
	return tx
}

// transactionName prefers MEMO, then NAME, then the extended PAYEE name.
func transactionName(trn ofxgo.Transaction) string {
	candidates := []string{string(trn.Memo), string(trn.Name)}
	if trn.Payee != nil {
		candidates = append(candidates, string(trn.Payee.Name))
	}
	for _, c := range candidates {
		if s := strings.TrimSpace(c); s != "" {
			return s
		}
	}
	return models.NameNoDescription
}

// amountPrecision bounds the fractional digits kept from TRNAMT.
const amountPrecision = 16

func amount(a ofxgo.Amount) decimal.Decimal {
	return decimal.NewFromBigRat(&a.Rat, amountPrecision)
}

func documentError(sentinel, cause error) error {
	err := sentinel
	if cause != nil {
		err = fmt.Errorf("%w: %v", sentinel, cause)
	}
	return &parsererror.DocumentError{Format: formatName, Err: err}
}
