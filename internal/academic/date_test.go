package academic

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDateRoundTrip(t *testing.T) {
	d, err := ParseDate("2025-09-01")
	require.NoError(t, err)
	assert.Equal(t, "2025-09-01", d.String())
	assert.Equal(t, 1, d.Weekday()) // monday

	_, err = ParseDate("not-a-date")
	assert.Error(t, err)
}

func TestDateWeekdaySundayMapsToSeven(t *testing.T) {
	sunday := MustDate("2025-09-07")
	assert.Equal(t, 7, sunday.Weekday())
	saturday := MustDate("2025-09-06")
	assert.Equal(t, 6, saturday.Weekday())
}

func TestDateOfTimeTruncatesToUTCDay(t *testing.T) {
	// 23:30 in UTC-6 is already the next day in UTC.
	loc := time.FixedZone("CST", -6*3600)
	late := time.Date(2025, time.September, 15, 23, 30, 0, 0, loc)
	assert.Equal(t, "2025-09-16", DateOfTime(late).String())
}

func TestDateAddDaysCrossesMonths(t *testing.T) {
	d := MustDate("2025-10-30").AddDays(3)
	assert.Equal(t, "2025-11-02", d.String())
	assert.Equal(t, "2025-10-29", MustDate("2025-10-30").AddDays(-1).String())
}

func TestDateJSON(t *testing.T) {
	raw, err := json.Marshal(MustDate("2025-12-19"))
	require.NoError(t, err)
	assert.Equal(t, `"2025-12-19"`, string(raw))

	var d Date
	require.NoError(t, json.Unmarshal([]byte(`"2026-01-09"`), &d))
	assert.Equal(t, "2026-01-09", d.String())
}

func TestDateScan(t *testing.T) {
	var d Date
	require.NoError(t, d.Scan(time.Date(2025, time.September, 1, 8, 0, 0, 0, time.UTC)))
	assert.Equal(t, "2025-09-01", d.String())

	require.NoError(t, d.Scan([]byte("2025-10-17")))
	assert.Equal(t, "2025-10-17", d.String())

	require.NoError(t, d.Scan(nil))
	assert.True(t, d.IsZero())
}
