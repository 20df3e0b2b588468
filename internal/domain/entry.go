package domain

import (
	"errors"
	"time"
)

// UntitledPlaceholder replaces a missing or empty entry title.
const UntitledPlaceholder = "제목 없음"

// ErrChannelUnavailable is returned when the notification channel cannot be resolved.
var ErrChannelUnavailable = errors.New("notification channel unavailable")

// Entry is a single dated record read from the Notion calendar database.
type Entry struct {
	// Date is nil when the record carries no usable date.
	Date  *time.Time
	Title string
}

// IsOn reports whether the entry falls on the calendar day of day.
func (e Entry) IsOn(day time.Time) bool {
	return IsToday(e.Date, day)
}

// IsToday compares calendar dates only. The entry date is taken at face value,
// without converting it into today's location.
func IsToday(date *time.Time, today time.Time) bool {
	if date == nil {
		return false
	}

	y1, m1, d1 := date.Date()
	y2, m2, d2 := today.Date()
	return y1 == y2 && m1 == m2 && d1 == d2
}
