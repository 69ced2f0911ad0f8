package csvparser

import (
	"fmt"
	"strings"

	"fjacquet/fincat/internal/currencyutils"
	"fjacquet/fincat/internal/dateutils"
	"fjacquet/fincat/internal/models"
	"fjacquet/fincat/internal/parsererror"

	"github.com/shopspring/decimal"
)

// NormalizeRow converts one data row into a Transaction with the given id.
// rowNum is the record's 1-based position in the file, header included; it
// names the transaction when the row has no description.
//
// Defects are returned as *parsererror.RowError wrapping ErrRowTooShort,
// ErrRowInvalidDate or ErrRowMissingValue. Unparsable amounts are zero, not
// errors.
func NormalizeRow(row []string, mapping models.ColumnMapping, rowNum, id int) (models.Transaction, error) {
	if len(row) == 0 || len(row) < mapping.MaxIndex()+1 {
		return models.Transaction{}, &parsererror.RowError{
			Row:    rowNum,
			Detail: fmt.Sprintf("%d columns, need %d", len(row), mapping.MaxIndex()+1),
			Err:    parsererror.ErrRowTooShort,
		}
	}

	dateCol, ok := mapping.Index(models.RoleDate)
	if !ok {
		return models.Transaction{}, &parsererror.RowError{Row: rowNum, Detail: "no date column", Err: parsererror.ErrRowInvalidDate}
	}
	date, err := dateutils.ParseStatementDate(row[dateCol])
	if err != nil {
		return models.Transaction{}, &parsererror.RowError{Row: rowNum, Detail: strings.TrimSpace(row[dateCol]), Err: parsererror.ErrRowInvalidDate}
	}

	value, err := rowValue(row, mapping)
	if err != nil {
		return models.Transaction{}, &parsererror.RowError{Row: rowNum, Err: err}
	}

	name := cell(row, mapping, models.RoleDescription)
	if name == "" {
		name = fmt.Sprintf(models.NamePlaceholderFormat, rowNum)
	}

	category := cell(row, mapping, models.RoleCategory)
	if category == "" {
		category = models.CategoryUncategorizedCSV
	}

	return models.NewTransaction(id, name, value, date, category), nil
}

// rowValue reads the single value column or combines debit and credit. A
// positive debit is reported as an outflow.
func rowValue(row []string, mapping models.ColumnMapping) (decimal.Decimal, error) {
	if i, ok := mapping.Index(models.RoleValue); ok {
		return currencyutils.ParseAmount(row[i]), nil
	}

	if !mapping.Has(models.RoleDebit) && !mapping.Has(models.RoleCredit) {
		return decimal.Zero, parsererror.ErrRowMissingValue
	}

	debit := decimal.Zero
	if raw := cell(row, mapping, models.RoleDebit); raw != "" {
		debit = currencyutils.ParseAmount(raw)
		if debit.IsPositive() {
			debit = debit.Neg()
		}
	}

	credit := decimal.Zero
	if raw := cell(row, mapping, models.RoleCredit); raw != "" {
		credit = currencyutils.ParseAmount(raw)
	}

	return credit.Add(debit), nil
}

// cell returns the trimmed content of the role's column, or "" when the role
// is unmapped.
func cell(row []string, mapping models.ColumnMapping, role models.ColumnRole) string {
	i, ok := mapping.Index(role)
	if !ok || i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}
