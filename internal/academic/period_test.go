package academic

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolvePeriodsEndsDayBeforeNextStart(t *testing.T) {
	periods := ResolvePeriods(map[string]Date{
		"1": MustDate("2025-09-01"),
		"2": MustDate("2025-10-17"),
	}, MustDate("2025-09-01"))

	p1, ok := periods["1"]
	require.True(t, ok)
	assert.Equal(t, "2025-09-01", p1.Start.String())
	assert.Equal(t, "2025-10-16", p1.End.String())

	p2, ok := periods["2"]
	require.True(t, ok)
	assert.Equal(t, "2025-10-17", p2.Start.String())

	final := periods[PeriodKeyFinal]
	assert.Equal(t, "2025-09-01", final.Start.String())
	assert.Equal(t, final.End, p2.End)

	_, ok = periods["3"]
	assert.False(t, ok)
	_, ok = periods["4"]
	assert.False(t, ok)
}

func TestResolvePeriodsFinalSpansEighteenWeeks(t *testing.T) {
	periods := ResolvePeriods(nil, MustDate("2025-09-01"))
	final := periods[PeriodKeyFinal]
	assert.Equal(t, "2025-09-01", final.Start.String())
	assert.Equal(t, MustDate("2025-09-01").AddDays(126), final.End)
	assert.Len(t, periods, 1)
}

func TestResolvePeriodsFallbackOnlyWhenPeriodOneAbsent(t *testing.T) {
	periods := ResolvePeriods(map[string]Date{"2": MustDate("2025-10-17")}, MustDate("2025-09-01"))
	assert.Equal(t, "2025-09-01", periods[PeriodKeyFinal].Start.String())

	periods = ResolvePeriods(map[string]Date{"1": MustDate("2025-09-08")}, MustDate("2025-09-01"))
	assert.Equal(t, "2025-09-08", periods[PeriodKeyFinal].Start.String())
}

func TestResolvePeriodsSkipsGaps(t *testing.T) {
	// Period 2 missing: period 1 runs until period 3 starts.
	periods := ResolvePeriods(map[string]Date{
		"1": MustDate("2025-09-01"),
		"3": MustDate("2025-11-15"),
	}, MustDate("2025-09-01"))

	assert.Equal(t, "2025-11-14", periods["1"].End.String())
	assert.Equal(t, periods[PeriodKeyFinal].End, periods["3"].End)
	_, ok := periods["2"]
	assert.False(t, ok)
}

func TestPeriodOrder(t *testing.T) {
	assert.Equal(t, []string{"final", "1", "2", "3", "4"}, PeriodOrder())
}
