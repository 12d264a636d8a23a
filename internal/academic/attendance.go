package academic

// AttendanceSummary partitions a period's instructional dates for one student.
type AttendanceSummary struct {
	Attended []Date  `json:"attended"`
	Missed   []Date  `json:"missed"`
	Ratio    float64 `json:"ratio"`
}

// DateSet is a membership set of calendar days keyed by ISO string.
type DateSet map[string]struct{}

// NewDateSet builds a set from the given dates.
func NewDateSet(dates ...Date) DateSet {
	set := make(DateSet, len(dates))
	for _, d := range dates {
		set[d.String()] = struct{}{}
	}
	return set
}

// Add inserts a date into the set.
func (s DateSet) Add(d Date) { s[d.String()] = struct{}{} }

// Contains reports membership.
func (s DateSet) Contains(d Date) bool {
	_, ok := s[d.String()]
	return ok
}

// Attendance splits the instructional dates into attended and missed against
// the student's recorded days and computes the attendance ratio. An empty
// instructional sequence yields ratio 0, never a division by zero.
func Attendance(recorded DateSet, instructional []Date) AttendanceSummary {
	summary := AttendanceSummary{}
	for _, d := range instructional {
		if recorded.Contains(d) {
			summary.Attended = append(summary.Attended, d)
		} else {
			summary.Missed = append(summary.Missed, d)
		}
	}
	if len(instructional) > 0 {
		summary.Ratio = float64(len(summary.Attended)) / float64(len(instructional))
	}
	return summary
}
