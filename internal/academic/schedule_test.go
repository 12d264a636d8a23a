package academic

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExpandScheduleSkipsHolidays(t *testing.T) {
	cal := DefaultCalendar()

	// Tuesdays of September 2025; the 16th is a holiday.
	dates := ExpandSchedule([]int{2}, MustDate("2025-09-01"), MustDate("2025-09-30"), cal)
	require.Len(t, dates, 4)
	assert.Equal(t, "2025-09-02", dates[0].String())
	assert.Equal(t, "2025-09-09", dates[1].String())
	assert.Equal(t, "2025-09-23", dates[2].String())
	assert.Equal(t, "2025-09-30", dates[3].String())
}

func TestExpandScheduleKeepsExamDays(t *testing.T) {
	cal := DefaultCalendar()

	// 2025-10-06 is a Monday inside an exam range: still instructional.
	dates := ExpandSchedule([]int{1}, MustDate("2025-10-06"), MustDate("2025-10-06"), cal)
	require.Len(t, dates, 1)
	assert.Equal(t, "2025-10-06", dates[0].String())
}

func TestExpandScheduleEmptyDaySet(t *testing.T) {
	cal := DefaultCalendar()
	assert.Empty(t, ExpandSchedule(nil, MustDate("2025-09-01"), MustDate("2025-12-19"), cal))
}

func TestExpandScheduleInvertedRange(t *testing.T) {
	cal := DefaultCalendar()
	assert.Empty(t, ExpandSchedule([]int{1}, MustDate("2025-10-01"), MustDate("2025-09-01"), cal))
}

func TestExpandScheduleGrowsWithRange(t *testing.T) {
	cal := DefaultCalendar()
	days := []int{1, 3, 5}
	from := MustDate("2025-09-01")

	prev := 0
	for to := from; !to.After(MustDate("2025-12-19")); to = to.AddDays(7) {
		dates := ExpandSchedule(days, from, to, cal)
		assert.GreaterOrEqual(t, len(dates), prev)
		prev = len(dates)

		for _, d := range dates {
			assert.Contains(t, days, d.Weekday())
			assert.False(t, cal.NonInstructional(d))
		}
	}
}

func TestFilterWindow(t *testing.T) {
	dates := []Date{MustDate("2025-09-01"), MustDate("2025-10-17"), MustDate("2025-11-20")}

	assert.Len(t, FilterWindow(dates, MustDate("2025-10-01"), MustDate("2025-10-31")), 1)
	assert.Len(t, FilterWindow(dates, Date{}, MustDate("2025-10-17")), 2)
	assert.Len(t, FilterWindow(dates, Date{}, Date{}), 3)
}
