package academic

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAttendancePartition(t *testing.T) {
	instructional := []Date{
		MustDate("2025-09-02"),
		MustDate("2025-09-09"),
		MustDate("2025-09-23"),
		MustDate("2025-09-30"),
	}
	recorded := NewDateSet(MustDate("2025-09-02"), MustDate("2025-09-23"))

	summary := Attendance(recorded, instructional)
	require.Len(t, summary.Attended, 2)
	require.Len(t, summary.Missed, 2)
	assert.Equal(t, 0.5, summary.Ratio)
	assert.Equal(t, "2025-09-09", summary.Missed[0].String())
}

func TestAttendanceNoRecords(t *testing.T) {
	instructional := []Date{MustDate("2025-09-02"), MustDate("2025-09-09")}
	summary := Attendance(NewDateSet(), instructional)
	assert.Zero(t, summary.Ratio)
	assert.Empty(t, summary.Attended)
	assert.Len(t, summary.Missed, 2)
}

func TestAttendanceEmptyInstructionalDates(t *testing.T) {
	summary := Attendance(NewDateSet(MustDate("2025-09-02")), nil)
	assert.Zero(t, summary.Ratio)
	assert.Empty(t, summary.Attended)
	assert.Empty(t, summary.Missed)
}

func TestAttendanceIgnoresRecordsOutsideSchedule(t *testing.T) {
	// A record on a non-instructional day never counts as attended.
	instructional := []Date{MustDate("2025-09-02")}
	recorded := NewDateSet(MustDate("2025-09-03"))
	summary := Attendance(recorded, instructional)
	assert.Empty(t, summary.Attended)
	assert.Len(t, summary.Missed, 1)
}
