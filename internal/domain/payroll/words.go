package payroll

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var (
	ones = []string{
		"zero", "one", "two", "three", "four", "five", "six", "seven", "eight", "nine",
		"ten", "eleven", "twelve", "thirteen", "fourteen", "fifteen", "sixteen",
		"seventeen", "eighteen", "nineteen",
	}
	tens = []string{
		"", "", "twenty", "thirty", "forty", "fifty", "sixty", "seventy", "eighty", "ninety",
	}
)

// scale is a named group in the Indian numbering system.
type scale struct {
	name    string
	divisor int64
	modulo  int64
}

// Groups from largest to smallest. Crore has no modulo so large amounts read
// as "one thousand crore" rather than introducing higher units.
var indianScales = []scale{
	{name: "crore", divisor: 10000000},
	{name: "lakh", divisor: 100000, modulo: 100},
	{name: "thousand", divisor: 1000, modulo: 100},
	{name: "hundred", divisor: 100, modulo: 10},
}

// AmountInWords spells an amount with Indian digit grouping, e.g.
// 145250 -> "one lakh, forty-five thousand, two hundred and fifty".
func AmountInWords(amount int64) string {
	if amount < 0 {
		// -amount overflows for the minimum int64; payroll figures never get there.
		return "minus " + AmountInWords(-amount)
	}
	if amount < 100 {
		return belowHundred(amount)
	}

	var groups []string
	for _, s := range indianScales {
		count := amount / s.divisor
		if s.modulo > 0 {
			count %= s.modulo
		}
		if count == 0 {
			continue
		}
		groups = append(groups, AmountInWords(count)+" "+s.name)
	}

	text := strings.Join(groups, ", ")
	if rest := amount % 100; rest > 0 {
		text += " and " + belowHundred(rest)
	}
	return text
}

func belowHundred(n int64) string {
	if n < 20 {
		return ones[n]
	}
	word := tens[n/10]
	if n%10 != 0 {
		word += "-" + ones[n%10]
	}
	return word
}

// NetPayWords renders the payslip "amount in words" line.
func NetPayWords(amount int64) string {
	return CurrencyPrefix + " " + cases.Title(language.English).String(AmountInWords(amount)) + " " + AmountSuffix
}
