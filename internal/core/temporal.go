package core

import (
	"fmt"
	"time"
)

const monthLayout = "2006-01"

// ReportingMonth returns the "YYYY-MM" month lag months before now. The police
// API publishes a month's data with a delay, so the default report looks back.
func ReportingMonth(now time.Time, lag int) string {
	// Anchor on the first of the month so AddDate never overflows into the next one.
	first := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	return first.AddDate(0, -lag, 0).Format(monthLayout)
}

// ValidateMonth checks that month is in the "YYYY-MM" form the API expects.
func ValidateMonth(month string) error {
	if _, err := time.Parse(monthLayout, month); err != nil {
		return fmt.Errorf("invalid month %q, expected YYYY-MM", month)
	}
	return nil
}
