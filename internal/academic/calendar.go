package academic

// EventCategory classifies academic calendar entries.
type EventCategory string

const (
	CategoryEvent          EventCategory = "event"
	CategoryHoliday        EventCategory = "holiday"
	CategoryExam           EventCategory = "exam"
	CategoryGradesDeadline EventCategory = "grades"
	CategoryVacation       EventCategory = "vacation"
)

// Event is a named calendar entry as resolved for a single day.
type Event struct {
	Title    string        `json:"title"`
	Category EventCategory `json:"category"`
}

// EventDef declares a calendar entry before expansion: either a single day or
// an inclusive date range, never both.
type EventDef struct {
	Title    string
	Category EventCategory
	single   Date
	start    Date
	end      Date
	ranged   bool
}

// OnDate declares a single-day calendar entry.
func OnDate(title string, category EventCategory, date Date) EventDef {
	return EventDef{Title: title, Category: category, single: date}
}

// Spanning declares an inclusive date-range calendar entry.
func Spanning(title string, category EventCategory, start, end Date) EventDef {
	return EventDef{Title: title, Category: category, start: start, end: end, ranged: true}
}

// Calendar resolves dates against a fixed academic event table. It is built
// once from injected definitions and never mutated afterwards.
type Calendar struct {
	byDate map[string]Event
}

// NewCalendar expands the given definitions into a per-day lookup table.
// Range entries are walked day by day; when entries collide on a date the
// later definition wins.
func NewCalendar(defs []EventDef) *Calendar {
	byDate := make(map[string]Event)
	for _, def := range defs {
		event := Event{Title: def.Title, Category: def.Category}
		if !def.ranged {
			byDate[def.single.String()] = event
			continue
		}
		for d := def.start; !d.After(def.end); d = d.AddDays(1) {
			byDate[d.String()] = event
		}
	}
	return &Calendar{byDate: byDate}
}

// Lookup returns the event covering the given date, if any.
func (c *Calendar) Lookup(date Date) (Event, bool) {
	event, ok := c.byDate[date.String()]
	return event, ok
}

// DatedEvent pairs a calendar day with its resolved event.
type DatedEvent struct {
	Date  Date  `json:"date"`
	Event Event `json:"event"`
}

// EventsBetween returns the dated events in the inclusive range, in
// chronological order.
func (c *Calendar) EventsBetween(from, to Date) []DatedEvent {
	var out []DatedEvent
	for d := from; !d.After(to); d = d.AddDays(1) {
		if event, ok := c.Lookup(d); ok {
			out = append(out, DatedEvent{Date: d, Event: event})
		}
	}
	return out
}

// NonInstructional reports whether classes are suspended on the given date.
// Exams, grade deadlines and generic events still hold class.
func (c *Calendar) NonInstructional(date Date) bool {
	event, ok := c.Lookup(date)
	if !ok {
		return false
	}
	return event.Category == CategoryHoliday || event.Category == CategoryVacation
}

// DefaultCalendar returns the deployment's fixed 2025-2026 semester table.
func DefaultCalendar() *Calendar {
	return NewCalendar([]EventDef{
		OnDate("Inicio de semestre", CategoryEvent, MustDate("2025-09-01")),
		OnDate("Suspensión de clases", CategoryHoliday, MustDate("2025-09-16")),
		OnDate("Efemerides", CategoryEvent, MustDate("2025-10-01")),
		Spanning("Aplicación de exámenes 1er parcial", CategoryExam, MustDate("2025-10-06"), MustDate("2025-10-08")),
		Spanning("Exámenes Extemporáneos", CategoryExam, MustDate("2025-10-11"), MustDate("2025-10-12")),
		OnDate("Entrega de calif. 1er parcial", CategoryGradesDeadline, MustDate("2025-10-17")),
		Spanning("Aplicación de exámenes 2do parcial", CategoryExam, MustDate("2025-11-03"), MustDate("2025-11-05")),
		OnDate("Efemerides", CategoryEvent, MustDate("2025-11-06")),
		Spanning("Exámenes Extemporáneos", CategoryExam, MustDate("2025-11-11"), MustDate("2025-11-12")),
		OnDate("Entrega de calif. 2do parcial", CategoryGradesDeadline, MustDate("2025-11-14")),
		OnDate("Suspensión de clases", CategoryHoliday, MustDate("2025-11-17")),
		Spanning("Semana de conferencias", CategoryEvent, MustDate("2025-12-01"), MustDate("2025-12-05")),
		Spanning("Aplicación de exámenes 3er parcial", CategoryExam, MustDate("2025-12-03"), MustDate("2025-12-05")),
		Spanning("Exámenes Extemporáneos", CategoryExam, MustDate("2025-12-08"), MustDate("2025-12-09")),
		OnDate("Entrega de calif. 3er parcial", CategoryGradesDeadline, MustDate("2025-12-12")),
		OnDate("Efemerides", CategoryEvent, MustDate("2025-12-16")),
		Spanning("Aplicación de exámenes 4o parcial", CategoryExam, MustDate("2025-12-17"), MustDate("2025-12-19")),
		OnDate("Fin de Semestre", CategoryEvent, MustDate("2025-12-19")),
		Spanning("Periodo Vacacional", CategoryVacation, MustDate("2025-12-19"), MustDate("2026-02-03")),
		Spanning("Exámenes Extemporáneos", CategoryExam, MustDate("2026-01-05"), MustDate("2026-01-06")),
		OnDate("Entrega de calif. Finales", CategoryGradesDeadline, MustDate("2026-01-09")),
		OnDate("Aplicación de exámenes extraordinarios", CategoryExam, MustDate("2026-01-16")),
		OnDate("Recursamiento de Materias", CategoryEvent, MustDate("2026-01-19")),
		OnDate("Aplicación de exámenes extraordinarios", CategoryExam, MustDate("2026-01-23")),
		OnDate("Inicio de Semestre", CategoryEvent, MustDate("2026-02-04")),
	})
}
