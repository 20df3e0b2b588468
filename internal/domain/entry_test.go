package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func datePtr(t time.Time) *time.Time { return &t }

func TestIsToday(t *testing.T) {
	seoul := time.FixedZone("KST", 9*60*60)
	today := time.Date(2026, time.October, 19, 23, 30, 0, 0, time.UTC)

	tests := []struct {
		name string
		date *time.Time
		want bool
	}{
		{name: "missing date", date: nil, want: false},
		{name: "same day", date: datePtr(time.Date(2026, time.October, 19, 0, 0, 0, 0, time.UTC)), want: true},
		{name: "previous day", date: datePtr(time.Date(2026, time.October, 18, 12, 0, 0, 0, time.UTC)), want: false},
		{name: "same day next year", date: datePtr(time.Date(2027, time.October, 19, 0, 0, 0, 0, time.UTC)), want: false},
		{
			// 2026-10-20T01:00+09:00 is still the 19th in UTC, but the date portion is used as written.
			name: "offset is not converted",
			date: datePtr(time.Date(2026, time.October, 20, 1, 0, 0, 0, seoul)),
			want: false,
		},
		{
			name: "offset date portion matches",
			date: datePtr(time.Date(2026, time.October, 19, 8, 0, 0, 0, seoul)),
			want: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsToday(tt.date, today))
			assert.Equal(t, tt.want, Entry{Date: tt.date, Title: "x"}.IsOn(today))
		})
	}
}
