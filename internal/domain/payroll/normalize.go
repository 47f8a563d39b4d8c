package payroll

import (
	"math"
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// ParseAmount parses a spreadsheet cell as a number. Blank cells, stray text
// and pre-formatted values such as "1,200" are errors.
func ParseAmount(value string) (decimal.Decimal, error) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return decimal.Zero, ErrEmptyAmount
	}
	return decimal.NewFromString(trimmed)
}

var (
	maxInteger = decimal.NewFromInt(math.MaxInt64)
	minInteger = decimal.NewFromInt(math.MinInt64)
)

// ToInteger rounds a cell to the nearest integer, halves to even. Unparseable
// cells and values outside the int64 range are 0.
func ToInteger(value string) int64 {
	amount, err := ParseAmount(value)
	if err != nil {
		return 0
	}
	rounded := amount.RoundBank(0)
	if rounded.GreaterThan(maxInteger) || rounded.LessThan(minInteger) {
		return 0
	}
	return rounded.IntPart()
}

// ToDisplay rounds a cell and groups thousands with commas. Unparseable cells are "0".
func ToDisplay(value string) string {
	return FormatAmount(ToInteger(value))
}

func FormatAmount(amount int64) string {
	return message.NewPrinter(language.English).Sprintf("%d", amount)
}
