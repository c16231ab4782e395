package contract

import "time"

// ResponseOffsetDays is how far ahead the "did we get a response" alert looks.
// The alert has always been called the two-week check but fires at 27 days.
const ResponseOffsetDays = 27

// Targets are the two expiry dates that trigger an alert today.
type Targets struct {
	TwoWeeks CalendarDate
	OneMonth CalendarDate
}

// ComputeTargets derives both targets from now, in now's location. The month
// step uses time.AddDate, so Jan 31 rolls over to early March.
func ComputeTargets(now time.Time) Targets {
	return Targets{
		TwoWeeks: DateOf(now.AddDate(0, 0, ResponseOffsetDays)),
		OneMonth: DateOf(now.AddDate(0, 1, 0)),
	}
}
