// Package matching decides whether a claimer's asserted details match a found
// item and whether the daily rejection quota is used up.
package matching

import (
	"strings"
	"time"
)

// MaxRejectionsPerDay is the number of rejected attempts a claimer may make
// on one found item per calendar day. The next mismatch is refused.
const MaxRejectionsPerDay = 2

// Normalize lowercases s, collapses whitespace runs to a single space and trims it.
func Normalize(s string) string {
	return strings.Join(strings.Fields(strings.ToLower(s)), " ")
}

// Matches reports whether the asserted location equals the stored one after
// normalization. Empty locations never match.
func Matches(asserted, stored string) bool {
	a, s := Normalize(asserted), Normalize(stored)
	return a != "" && s != "" && a == s
}

// QuotaExceeded reports whether another rejection would exceed the daily quota.
func QuotaExceeded(rejectedToday int) bool {
	return rejectedToday >= MaxRejectionsPerDay
}

// DayBounds returns the start of now's calendar day and the start of the next
// one, in now's location.
func DayBounds(now time.Time) (time.Time, time.Time) {
	y, m, d := now.Date()
	start := time.Date(y, m, d, 0, 0, 0, 0, now.Location())
	return start, start.AddDate(0, 0, 1)
}
