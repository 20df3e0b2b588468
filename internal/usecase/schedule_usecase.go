package usecase

import (
	"context"
	"time"

	"github.com/samber/lo"

	"github.com/sglre6355/notion-dday/internal/domain"
)

// EntrySource returns every calendar entry currently stored upstream.
type EntrySource interface {
	FetchAllEntries(ctx context.Context) ([]domain.Entry, error)
}

// ScheduleUsecase answers "what is scheduled today" for both the timer and the command.
type ScheduleUsecase struct {
	source EntrySource
	nowFn  func() time.Time
}

// ScheduleUsecaseOption configures a ScheduleUsecase.
type ScheduleUsecaseOption func(*ScheduleUsecase)

// WithScheduleClock overrides the clock used to decide what "today" is.
func WithScheduleClock(nowFn func() time.Time) ScheduleUsecaseOption {
	return func(u *ScheduleUsecase) {
		if nowFn != nil {
			u.nowFn = nowFn
		}
	}
}

// NewScheduleUsecase wraps source to expose today's entries.
func NewScheduleUsecase(source EntrySource, opts ...ScheduleUsecaseOption) *ScheduleUsecase {
	u := &ScheduleUsecase{
		source: source,
		nowFn:  time.Now,
	}

	for _, opt := range opts {
		opt(u)
	}

	return u
}

// TodaysEntries fetches all entries and keeps those dated today, preserving query order.
func (u *ScheduleUsecase) TodaysEntries(ctx context.Context) ([]domain.Entry, error) {
	entries, err := u.source.FetchAllEntries(ctx)
	if err != nil {
		return nil, err
	}

	today := u.nowFn()
	return lo.Filter(entries, func(entry domain.Entry, _ int) bool {
		return entry.IsOn(today)
	}), nil
}
