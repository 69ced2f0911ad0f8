// Package currencyutils parses and formats the monetary amounts found in bank
// statement exports.
package currencyutils

import (
	"fmt"
	"strings"

	"fjacquet/fincat/internal/logging"

	"github.com/shopspring/decimal"
)

var log logging.Logger

// SetLogger sets the logger used to report unparsable amounts.
func SetLogger(logger logging.Logger) {
	if logger != nil {
		log = logger
	}
}

func logger() logging.Logger {
	return logging.OrDefault(log)
}

var symbolReplacer = strings.NewReplacer(
	"R$", "",
	"$", "",
	" ", "",
	"\u00a0", "",
	"\t", "",
)

// TryParseAmount converts a statement amount into a decimal. It accepts
// "R$ 1.150,50", "1,000.50", "(89,75)" and similar spellings. The empty string
// is zero.
func TryParseAmount(amountStr string) (decimal.Decimal, error) {
	standardized := StandardizeAmount(amountStr)
	if standardized == "" {
		return decimal.Zero, nil
	}

	amount, err := decimal.NewFromString(standardized)
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to parse amount '%s': %w", amountStr, err)
	}
	return amount, nil
}

// ParseAmount is TryParseAmount that yields zero for an unparsable amount
// and logs it instead of failing.
func ParseAmount(amountStr string) decimal.Decimal {
	amount, err := TryParseAmount(amountStr)
	if err != nil {
		logger().WithError(err).Warn("Unparsable amount, using zero",
			logging.Field{Key: "value", Value: amountStr})
		return decimal.Zero
	}
	return amount
}

// StandardizeAmount rewrites a locale-formatted amount into the plain form
// accepted by decimal.NewFromString.
//
// A parenthesized amount is negative, as is one with a trailing minus
// ("150,00-"); an inner minus sign is not doubled.
// When both a comma and a period occur, whichever appears later is the
// decimal separator and the other is dropped as a thousands separator. A lone
// comma is a decimal separator. A lone period is left untouched.
func StandardizeAmount(amountStr string) string {
	s := symbolReplacer.Replace(strings.TrimSpace(amountStr))

	if len(s) >= 2 && strings.HasPrefix(s, "(") && strings.HasSuffix(s, ")") {
		inner := s[1 : len(s)-1]
		if strings.HasPrefix(inner, "-") {
			s = inner
		} else {
			s = "-" + inner
		}
	}

	if len(s) >= 2 && strings.HasSuffix(s, "-") {
		s = strings.TrimSuffix(s, "-")
		if !strings.HasPrefix(s, "-") {
			s = "-" + s
		}
	}

	comma := strings.LastIndex(s, ",")
	period := strings.LastIndex(s, ".")
	switch {
	case comma >= 0 && period >= 0:
		if comma > period {
			s = strings.ReplaceAll(s, ".", "")
			s = strings.ReplaceAll(s, ",", ".")
		} else {
			s = strings.ReplaceAll(s, ",", "")
		}
	case comma >= 0:
		s = strings.ReplaceAll(s, ",", ".")
	}

	return s
}

// FormatAmount renders amount with two decimals prefixed by currency, as in
// "R$ -150.50". An empty currency yields just the number.
func FormatAmount(amount decimal.Decimal, currency string) string {
	formatted := amount.StringFixed(2)
	if currency == "" {
		return formatted
	}
	return currency + " " + formatted
}

// FormatBRL renders amount the way statement prompts show it.
func FormatBRL(amount decimal.Decimal) string {
	return FormatAmount(amount, "R$")
}
