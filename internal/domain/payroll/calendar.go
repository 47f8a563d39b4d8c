package payroll

import (
	"strings"
	"time"
)

// ParseMonth parses labels like "May 2025". Month names are matched case-insensitively.
func ParseMonth(label string) (time.Time, error) {
	return time.Parse(MonthLayout, strings.TrimSpace(label))
}

// WeekendDays counts the Saturdays and Sundays in the labelled month.
// The second result is false when the label cannot be parsed.
func WeekendDays(label string) (int, bool) {
	month, err := ParseMonth(label)
	if err != nil {
		return 0, false
	}
	count := 0
	for day := month; day.Month() == month.Month(); day = day.AddDate(0, 0, 1) {
		switch day.Weekday() {
		case time.Saturday, time.Sunday:
			count++
		}
	}
	return count, true
}

// WeekOff is WeekendDays as an optional day count.
func WeekOff(label string) Days {
	count, ok := WeekendDays(label)
	if !ok {
		return Days{}
	}
	return KnownDays(int64(count))
}

// PresentDays subtracts the weekend days from the paid days. It is not clamped
// at zero and stays unknown when the weekend count is unknown.
func PresentDays(paidDays int64, weekOff Days) Days {
	if !weekOff.Known {
		return Days{}
	}
	return KnownDays(paidDays - weekOff.Value)
}
