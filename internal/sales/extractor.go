package sales

import (
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/shopspring/decimal"
)

// extractSale fills quantity, name and unit price from a Record line.
// Each category is last-writer-wins across tokens.
func (c *Classifier) extractSale(rec *SaleRecord, line string) {
	for _, tok := range strings.Fields(line) {
		if n, err := strconv.Atoi(tok); err == nil {
			if n >= 0 {
				rec.Quantity = n
			}
			continue
		}
		if c.isKeyword(tok) {
			// The trailing character is always dropped: "apples" names "apple".
			rec.ProductName = dropLast(tok)
			continue
		}
		if num := c.trimCurrency(tok); startsWithDigit(num) {
			price, ok := parseAmount(num)
			if !ok {
				price = decimal.Zero
			}
			rec.UnitPrice = price
		}
	}
}

// extractAdjustment fills the amount and target name of an adjustment line.
// The leading operation keyword is skipped and scanning stops at the first
// numeric token.
func (c *Classifier) extractAdjustment(rec *SaleRecord, line string) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return
	}
	for _, tok := range fields[1:] {
		num := c.trimCurrency(tok)
		if !startsWithDigit(num) {
			rec.ProductName = dropLast(tok)
			continue
		}
		amount, ok := parseAmount(num)
		if !ok {
			amount = identityAmount(rec.Kind)
		}
		rec.AdjustmentAmount = amount
		return
	}
}

// parseAmount parses s as a plain decimal, retrying without its trailing
// character so that "20p" and "2." both read as numbers. Exponent notation
// is refused: "1e20000000" would expand to millions of digits when rendered.
func parseAmount(s string) (decimal.Decimal, bool) {
	for _, cand := range []string{s, dropLast(s)} {
		if !isPlainDecimal(cand) {
			continue
		}
		if d, err := decimal.NewFromString(cand); err == nil {
			return d, true
		}
	}
	return decimal.Zero, false
}

// isPlainDecimal reports whether s is digits with at most one '.' after the first digit.
func isPlainDecimal(s string) bool {
	if !startsWithDigit(s) {
		return false
	}
	dot := false
	for i := 1; i < len(s); i++ {
		switch {
		case isDigit(s[i]):
		case s[i] == '.' && !dot:
			dot = true
		default:
			return false
		}
	}
	return true
}

// identityAmount is the amount that leaves a total unchanged under op.
func identityAmount(op Kind) decimal.Decimal {
	if op == KindMultiply {
		return decimal.NewFromInt(1)
	}
	return decimal.Zero
}

func (c *Classifier) trimCurrency(tok string) string {
	if c.currencies == "" || tok == "" {
		return tok
	}
	r, size := utf8.DecodeRuneInString(tok)
	if strings.ContainsRune(c.currencies, r) {
		return tok[size:]
	}
	return tok
}

func startsWithDigit(s string) bool {
	return s != "" && isDigit(s[0])
}

func dropLast(s string) string {
	if s == "" {
		return s
	}
	_, size := utf8.DecodeLastRuneInString(s)
	return s[:len(s)-size]
}
