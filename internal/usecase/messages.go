package usecase

import (
	"fmt"
	"strings"

	"github.com/samber/lo"

	"github.com/sglre6355/notion-dday/internal/domain"
)

const (
	// ScheduledFailureMessage is posted when the timed check cannot read Notion.
	ScheduledFailureMessage = "노션 일정을 가져오는 데 실패했습니다. 😅"
	// LoadingMessage acknowledges the schedule command.
	LoadingMessage = "📅 노션 캘린더에서 일정을 불러오는 중..."
	// EmptyScheduleMessage answers the command when nothing is due today.
	EmptyScheduleMessage = "✅ 오늘 예정된 일정이 없습니다."

	todayScheduleHeader = "✨ **오늘의 일정**"
)

// FormatDDayNotice renders the per-entry message sent by the timed check.
func FormatDDayNotice(title string) string {
	return fmt.Sprintf("🗓️ **D-Day 알림!** 오늘 일정: **%s**", title)
}

// FormatTodaySchedule renders the command reply for today's entries.
func FormatTodaySchedule(entries []domain.Entry) string {
	if len(entries) == 0 {
		return EmptyScheduleMessage
	}

	lines := lo.Map(entries, func(entry domain.Entry, _ int) string {
		return "- " + entry.Title
	})
	return todayScheduleHeader + "\n" + strings.Join(lines, "\n")
}

// FormatCommandFailure renders the command reply when Notion cannot be read.
func FormatCommandFailure(err error) string {
	return fmt.Sprintf("노션 일정을 가져오는 데 실패했습니다: %v", err)
}
