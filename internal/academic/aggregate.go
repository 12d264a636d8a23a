package academic

import "fmt"

// CriterionType is the closed set of grading rubric behaviors.
type CriterionType string

const (
	CriterionDefault       CriterionType = "default"
	CriterionAttendance    CriterionType = "attendance"
	CriterionParticipation CriterionType = "participation"
)

// Valid reports whether the type is a supported value.
func (t CriterionType) Valid() bool {
	switch t {
	case CriterionDefault, CriterionAttendance, CriterionParticipation:
		return true
	default:
		return false
	}
}

// Rollup selects how per-criterion averages combine into a final score.
type Rollup int

const (
	// RollupSimple sums criterionAverage/10 × percentage directly. Correct
	// when the in-scope percentages already total ~100.
	RollupSimple Rollup = iota
	// RollupNormalized divides the weighted sum by the total defined
	// percentage, tolerating periods whose weights do not reach 100.
	RollupNormalized
)

// Criterion is a weighted rubric line item as seen by the aggregator.
type Criterion struct {
	ID            string
	Name          string
	Percentage    float64
	Type          CriterionType
	MaxPoints     float64
	GradingPeriod int
}

// AssignmentScore pairs an assignment with its recorded grade, if any.
// A nil Score means the assignment exists but has not been graded yet.
type AssignmentScore struct {
	AssignmentID string
	Name         string
	CreatedOn    Date
	Score        *float64
}

// ParticipationEntry is one participation award on a calendar day.
type ParticipationEntry struct {
	Points float64
	Date   Date
}

// LineItem is one display row under a criterion.
type LineItem struct {
	Label string   `json:"label"`
	Score *float64 `json:"score"`
}

// CriterionResult carries one criterion's computed average. A nil Average
// means the criterion has no content for the selected period ("not yet
// graded"), which is distinct from a zero score.
type CriterionResult struct {
	CriterionID string        `json:"criterion_id"`
	Name        string        `json:"name"`
	Percentage  float64       `json:"percentage"`
	Type        CriterionType `json:"type"`
	Average     *float64      `json:"average"`
	Items       []LineItem    `json:"items"`
}

// AggregateInput gathers the already-fetched records the aggregator needs.
type AggregateInput struct {
	Criteria           []Criterion
	AssignmentsByCrit  map[string][]AssignmentScore
	AttendanceRatio    float64
	InstructionalCount int
	Participations     []ParticipationEntry
	Window             Period
	PeriodKey          string
	Rollup             Rollup
	// DropEmptyWeights excludes no-content criteria from the normalization
	// denominator instead of letting them depress the final score. The source
	// behavior keeps them in, so false is the default.
	DropEmptyWeights bool
}

// Summary is the aggregation result for one student and period.
type Summary struct {
	PerCriterion []CriterionResult `json:"per_criterion"`
	FinalScore   float64           `json:"final_score"`
}

// periodNumber extracts the numbered period from a key; final selects all.
func periodNumber(key string) (int, bool) {
	if key == PeriodKeyFinal {
		return 0, false
	}
	var n int
	if _, err := fmt.Sscanf(key, "%d", &n); err != nil {
		return 0, false
	}
	return n, true
}

// Aggregate computes per-criterion averages on the 0-10 scale and the final
// weighted score. The computation is a pure function of its input: repeated
// calls with identical arguments return identical results, and every
// degenerate denominator resolves to a defined value.
func Aggregate(in AggregateInput) Summary {
	selected, scoped := periodNumber(in.PeriodKey)

	var results []CriterionResult
	var weightedSum, definedWeight float64

	for _, crit := range in.Criteria {
		if scoped && crit.GradingPeriod != selected {
			continue
		}

		var average *float64
		var items []LineItem
		switch crit.Type {
		case CriterionAttendance:
			average, items = aggregateAttendance(crit, in)
		case CriterionParticipation:
			average, items = aggregateParticipation(crit, in)
		default:
			average, items = aggregateDefault(crit, in)
		}

		if average != nil {
			weightedSum += *average / 10 * crit.Percentage
		}
		if average != nil || !in.DropEmptyWeights {
			definedWeight += crit.Percentage
		}

		results = append(results, CriterionResult{
			CriterionID: crit.ID,
			Name:        crit.Name,
			Percentage:  crit.Percentage,
			Type:        crit.Type,
			Average:     average,
			Items:       items,
		})
	}

	final := weightedSum / 10
	if in.Rollup == RollupNormalized {
		if definedWeight == 0 {
			final = 0
		} else {
			final = weightedSum / definedWeight * 100 / 10
		}
	}

	return Summary{PerCriterion: results, FinalScore: final}
}

func aggregateAttendance(_ Criterion, in AggregateInput) (*float64, []LineItem) {
	if in.InstructionalCount == 0 {
		return nil, nil
	}
	avg := in.AttendanceRatio * 10
	return &avg, []LineItem{{Label: "Cálculo automático por asistencia", Score: &avg}}
}

func aggregateParticipation(crit Criterion, in AggregateInput) (*float64, []LineItem) {
	var total float64
	inWindow := 0
	for _, p := range in.Participations {
		if !in.Window.Start.IsZero() && p.Date.Before(in.Window.Start) {
			continue
		}
		if !in.Window.End.IsZero() && p.Date.After(in.Window.End) {
			continue
		}
		total += p.Points
		inWindow++
	}
	if in.PeriodKey != PeriodKeyFinal && inWindow == 0 && crit.MaxPoints <= 0 {
		return nil, nil
	}
	maxPoints := crit.MaxPoints
	if maxPoints <= 0 {
		maxPoints = 1
	}
	avg := total / maxPoints * 10
	if avg > 10 {
		avg = 10
	}
	label := fmt.Sprintf("Puntos acumulados: %.1f / %.0f", total, maxPoints)
	return &avg, []LineItem{{Label: label, Score: &avg}}
}

func aggregateDefault(crit Criterion, in AggregateInput) (*float64, []LineItem) {
	var items []LineItem
	var sum float64
	graded := 0
	for _, a := range in.AssignmentsByCrit[crit.ID] {
		if !in.Window.Start.IsZero() && a.CreatedOn.Before(in.Window.Start) {
			continue
		}
		if !in.Window.End.IsZero() && a.CreatedOn.After(in.Window.End) {
			continue
		}
		items = append(items, LineItem{Label: a.Name, Score: a.Score})
		if a.Score != nil {
			sum += *a.Score
			graded++
		}
	}
	if len(items) == 0 || graded == 0 {
		// Ungraded-only criteria stay "no content" so the caller can render
		// them as pending rather than scored zero.
		return nil, items
	}
	avg := sum / float64(graded)
	return &avg, items
}
