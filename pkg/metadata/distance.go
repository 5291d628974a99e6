package metadata

import (
	"fmt"
	"math"
	"time"
)

const (
	minutesInDay       = 1440
	minutesInMonth     = 43200
	minutesInTwoMonths = 86400
)

// DistanceInWords describes the time between a and b the way people say it:
// "less than a minute", "about 3 hours", "over 2 years". The order of the
// arguments does not matter.
func DistanceInWords(a, b time.Time) string {
	if a.After(b) {
		a, b = b, a
	}
	minutes := int(round(b.Sub(a).Seconds() / 60))

	switch {
	case minutes == 0:
		return "less than a minute"
	case minutes < 2:
		return "1 minute"
	case minutes < 45:
		return fmt.Sprintf("%d minutes", minutes)
	case minutes < 90:
		return "about 1 hour"
	case minutes < minutesInDay:
		return fmt.Sprintf("about %d hours", int(round(float64(minutes)/60)))
	case minutes < 2520:
		return "1 day"
	case minutes < minutesInMonth:
		return fmt.Sprintf("%d days", int(round(float64(minutes)/minutesInDay)))
	case minutes < minutesInTwoMonths:
		return plural(int(round(float64(minutes)/minutesInMonth)), "about %d month", "about %d months")
	}

	months := monthsBetween(a, b)
	if months < 12 {
		return plural(int(round(float64(minutes)/minutesInMonth)), "%d month", "%d months")
	}

	years := months / 12
	switch rest := months % 12; {
	case rest < 3:
		return plural(years, "about %d year", "about %d years")
	case rest < 9:
		return plural(years, "over %d year", "over %d years")
	default:
		return fmt.Sprintf("almost %d years", years+1)
	}
}

// monthsBetween counts full calendar months from a to b, a <= b.
func monthsBetween(a, b time.Time) int {
	months := (b.Year()-a.Year())*12 + int(b.Month()) - int(a.Month())
	if months > 0 && b.AddDate(0, -months, 0).Before(a) {
		months--
	}
	return months
}

// round rounds half up, like JavaScript's Math.round.
func round(x float64) float64 { return math.Floor(x + 0.5) }

func plural(n int, one, many string) string {
	if n == 1 {
		return fmt.Sprintf(one, n)
	}
	return fmt.Sprintf(many, n)
}
