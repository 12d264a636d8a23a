package academic

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCalendarLookupSingleAndRange(t *testing.T) {
	cal := NewCalendar([]EventDef{
		OnDate("Civic holiday", CategoryHoliday, MustDate("2025-09-16")),
		Spanning("Midterms", CategoryExam, MustDate("2025-10-06"), MustDate("2025-10-08")),
	})

	event, ok := cal.Lookup(MustDate("2025-09-16"))
	require.True(t, ok)
	assert.Equal(t, CategoryHoliday, event.Category)

	for _, day := range []string{"2025-10-06", "2025-10-07", "2025-10-08"} {
		event, ok := cal.Lookup(MustDate(day))
		require.True(t, ok, day)
		assert.Equal(t, "Midterms", event.Title)
	}

	_, ok = cal.Lookup(MustDate("2025-10-09"))
	assert.False(t, ok)
}

func TestCalendarLastInsertionWinsOnCollision(t *testing.T) {
	cal := NewCalendar([]EventDef{
		OnDate("Term ends", CategoryEvent, MustDate("2025-12-19")),
		Spanning("Winter break", CategoryVacation, MustDate("2025-12-19"), MustDate("2026-02-03")),
	})
	event, ok := cal.Lookup(MustDate("2025-12-19"))
	require.True(t, ok)
	assert.Equal(t, CategoryVacation, event.Category)
}

func TestNonInstructionalOnlyHolidayAndVacation(t *testing.T) {
	cal := DefaultCalendar()

	assert.True(t, cal.NonInstructional(MustDate("2025-09-16")))
	assert.True(t, cal.NonInstructional(MustDate("2025-12-25")))

	// Exams, grade deadlines and plain events still hold class.
	assert.False(t, cal.NonInstructional(MustDate("2025-10-06")))
	assert.False(t, cal.NonInstructional(MustDate("2025-10-17")))
	assert.False(t, cal.NonInstructional(MustDate("2025-10-01")))
	assert.False(t, cal.NonInstructional(MustDate("2025-09-02")))
}
