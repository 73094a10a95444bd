package utils

import "time"

// AddDays computes an absolute expiry from a relative day count.
func AddDays(days int) time.Time {
	return time.Now().UTC().AddDate(0, 0, days)
}

// IsExpired reports whether a nullable expiry has passed. A nil expiry never
// expires.
func IsExpired(expiresAt *time.Time) bool {
	return expiresAt != nil && expiresAt.Before(time.Now().UTC())
}
