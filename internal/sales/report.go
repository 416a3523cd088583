package sales

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// Column widths of the report table.
const (
	nameWidth     = 37
	quantityWidth = 16
	totalWidth    = 10
)

// CurrencyPrefix is prepended to totals. Totals are kept in pence and printed in pounds.
const CurrencyPrefix = "£"

var (
	tableBorder = "+" + strings.Repeat("-", nameWidth) +
		"+" + strings.Repeat("-", quantityWidth) +
		"+" + strings.Repeat("-", totalWidth) + "+"
	tableHeader = "|" + cell("        NAME", nameWidth) +
		"|" + cell("    QUANTITY", quantityWidth) +
		"|" + cell("   TOTAL", totalWidth) + "|"
	hundred = decimal.NewFromInt(100)
)

// FormatTotal renders a total held in minor units, e.g. 250 as "£2.50".
func FormatTotal(total decimal.Decimal) string {
	return CurrencyPrefix + total.Div(hundred).StringFixed(2)
}

// cell left-aligns s in a column of width runes, truncating if needed.
func cell(s string, width int) string {
	return fmt.Sprintf("%-*.*s", width, width, s)
}

func row(e LedgerEntry) string {
	return "|" + cell(e.Name, nameWidth) +
		"|" + cell(strconv.Itoa(e.Quantity), quantityWidth) +
		"|" + cell(FormatTotal(e.TotalPrice), totalWidth) + "|"
}

// reportWriter keeps the first write error so callers can check once at the end.
type reportWriter struct {
	w   io.Writer
	err error
}

func (rw *reportWriter) line(s string) {
	if rw.err != nil {
		return
	}
	_, rw.err = io.WriteString(rw.w, s+"\n")
}

func (rw *reportWriter) table(entries []LedgerEntry) {
	rw.line(tableBorder)
	rw.line(tableHeader)
	rw.line(tableBorder)
	for _, e := range entries {
		if e.Name == "" {
			continue
		}
		rw.line(row(e))
	}
	rw.line(tableBorder)
}

// WriteTable writes the bordered table for entries.
func WriteTable(w io.Writer, entries []LedgerEntry) error {
	rw := &reportWriter{w: w}
	rw.table(entries)
	return rw.err
}

// WritePeriodicReport writes the report emitted every period messages.
func WritePeriodicReport(w io.Writer, period int, entries []LedgerEntry) error {
	rw := &reportWriter{w: w}
	rw.line(fmt.Sprintf("After %d messages received, the log report:", period))
	rw.table(entries)
	rw.line("")
	rw.line("")
	return rw.err
}

// WriteAdjustmentReport writes the before/after tables of every applied
// adjustment followed by the final adjusted ledger.
func WriteAdjustmentReport(w io.Writer, ceiling int, steps []AdjustmentStep, final []LedgerEntry) error {
	rw := &reportWriter{w: w}
	rw.line(fmt.Sprintf("After %d messages received, the adjustment log report:", ceiling))
	for _, s := range steps {
		rw.line("Before adjustment: " + s.Before.Name)
		rw.table([]LedgerEntry{s.Before})
		rw.line("")
		rw.line(fmt.Sprintf("After adjustment: %s %s %sproduct",
			s.Adjustment.ProductName, s.Adjustment.Kind, s.Adjustment.AdjustmentAmount.String()))
		rw.table([]LedgerEntry{s.After})
		rw.line("")
	}
	rw.line("+-----------------------+")
	rw.line("|Final Adjustment Report|")
	rw.line("+-----------------------+")
	rw.table(final)
	rw.line("")
	rw.line("")
	return rw.err
}
