package academic

// ExpandSchedule walks every calendar day from 'from' to 'to' inclusive and
// keeps the dates whose ISO weekday appears in days and that the calendar
// does not mark non-instructional. The result is ascending. An empty weekday
// set yields an empty sequence: an unscheduled subject has no instructional
// dates rather than an error.
func ExpandSchedule(days []int, from, to Date, cal *Calendar) []Date {
	if len(days) == 0 || from.After(to) {
		return nil
	}
	wanted := make(map[int]bool, len(days))
	for _, day := range days {
		wanted[day] = true
	}
	var dates []Date
	for d := from; !d.After(to); d = d.AddDays(1) {
		if !wanted[d.Weekday()] {
			continue
		}
		if cal != nil && cal.NonInstructional(d) {
			continue
		}
		dates = append(dates, d)
	}
	return dates
}

// FilterWindow keeps the dates inside [start, end] inclusive. A zero start or
// end leaves that side unbounded.
func FilterWindow(dates []Date, start, end Date) []Date {
	var out []Date
	for _, d := range dates {
		if !start.IsZero() && d.Before(start) {
			continue
		}
		if !end.IsZero() && d.After(end) {
			continue
		}
		out = append(out, d)
	}
	return out
}
