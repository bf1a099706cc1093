package utils

import "time"

// NowUTC is the clock used for server-assigned timestamps.
func NowUTC() time.Time { return time.Now().UTC() }

// FormatRFC3339UTC renders t the way outbound payloads carry timestamps.
func FormatRFC3339UTC(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339Nano)
}
