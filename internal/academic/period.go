package academic

import "fmt"

// PeriodKeyFinal addresses the whole-term window.
const PeriodKeyFinal = "final"

// termLengthDays approximates an academic semester: 18 weeks.
const termLengthDays = 18 * 7

// Period is a named grading window with inclusive bounds.
type Period struct {
	Name  string `json:"name"`
	Start Date   `json:"start"`
	End   Date   `json:"end"`
}

// PeriodOrder is the display ordering for resolved periods.
func PeriodOrder() []string {
	return []string{PeriodKeyFinal, "1", "2", "3", "4"}
}

// ResolvePeriods computes grading windows from the configured period start
// dates. The final window opens at period 1's start (or the semester fallback
// when period 1 is not configured) and spans the fixed term length. Each
// numbered period ends the day before the next configured period starts; the
// last configured period runs to the end of the term. Periods without a
// configured start are omitted.
func ResolvePeriods(starts map[string]Date, semesterFallback Date) map[string]Period {
	finalStart := semesterFallback
	if s, ok := starts["1"]; ok && !s.IsZero() {
		finalStart = s
	}
	finalEnd := finalStart.AddDays(termLengthDays)

	periods := map[string]Period{
		PeriodKeyFinal: {Name: "Calificación Final", Start: finalStart, End: finalEnd},
	}

	keys := []string{"1", "2", "3", "4"}
	for i, key := range keys {
		start, ok := starts[key]
		if !ok || start.IsZero() {
			continue
		}
		end := finalEnd
		for _, next := range keys[i+1:] {
			if nextStart, ok := starts[next]; ok && !nextStart.IsZero() {
				end = nextStart.AddDays(-1)
				break
			}
		}
		periods[key] = Period{Name: fmt.Sprintf("Parcial %s", key), Start: start, End: end}
	}
	return periods
}
