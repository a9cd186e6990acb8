package pkg

import "time"

const redemptionDateLayout = "Jan 2, 2006 3:04 PM"

// FormatRedemptionDate renders a timestamp for customer-facing messages.
func FormatRedemptionDate(t *time.Time) string {
	if t == nil {
		return "an earlier visit"
	}
	return t.UTC().Format(redemptionDateLayout) + " UTC"
}
