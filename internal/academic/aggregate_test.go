package academic

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func scorePtr(v float64) *float64 { return &v }

func semesterWindow() Period {
	return Period{Name: "Parcial 1", Start: MustDate("2025-09-01"), End: MustDate("2025-10-16")}
}

func TestAggregateWeightedScenario(t *testing.T) {
	// One default criterion at 60% with two assignments (one graded 8, one
	// ungraded) plus an attendance criterion at 40% with 8 of 10 sessions
	// attended. Both roll-ups agree when weights total 100.
	in := AggregateInput{
		Criteria: []Criterion{
			{ID: "c1", Name: "Tareas", Percentage: 60, Type: CriterionDefault, GradingPeriod: 1},
			{ID: "c2", Name: "Asistencia", Percentage: 40, Type: CriterionAttendance, GradingPeriod: 1},
		},
		AssignmentsByCrit: map[string][]AssignmentScore{
			"c1": {
				{AssignmentID: "a1", Name: "Tarea 1", CreatedOn: MustDate("2025-09-10"), Score: scorePtr(8)},
				{AssignmentID: "a2", Name: "Tarea 2", CreatedOn: MustDate("2025-09-20")},
			},
		},
		AttendanceRatio:    0.8,
		InstructionalCount: 10,
		Window:             semesterWindow(),
		PeriodKey:          "1",
		Rollup:             RollupNormalized,
	}

	summary := Aggregate(in)
	require.Len(t, summary.PerCriterion, 2)

	tareas := summary.PerCriterion[0]
	require.NotNil(t, tareas.Average)
	assert.InDelta(t, 8.0, *tareas.Average, 1e-9) // ungraded assignment excluded from the mean
	require.Len(t, tareas.Items, 2)
	assert.Nil(t, tareas.Items[1].Score)

	attendance := summary.PerCriterion[1]
	require.NotNil(t, attendance.Average)
	assert.InDelta(t, 8.0, *attendance.Average, 1e-9)

	assert.InDelta(t, 8.0, summary.FinalScore, 1e-9)

	in.Rollup = RollupSimple
	assert.InDelta(t, 8.0, Aggregate(in).FinalScore, 1e-9)
}

func TestAggregateParticipationCappedAtTen(t *testing.T) {
	in := AggregateInput{
		Criteria: []Criterion{
			{ID: "p", Name: "Participaciones", Percentage: 100, Type: CriterionParticipation, MaxPoints: 5, GradingPeriod: 1},
		},
		Participations: []ParticipationEntry{
			{Points: 1, Date: MustDate("2025-09-05")},
			{Points: 2, Date: MustDate("2025-09-12")},
		},
		Window:    semesterWindow(),
		PeriodKey: "1",
		Rollup:    RollupNormalized,
	}

	summary := Aggregate(in)
	require.NotNil(t, summary.PerCriterion[0].Average)
	assert.InDelta(t, 6.0, *summary.PerCriterion[0].Average, 1e-9) // min(10, 10*3/5)

	// Twelve points against a five point target caps at 10.
	in.Participations = append(in.Participations, ParticipationEntry{Points: 9, Date: MustDate("2025-09-19")})
	summary = Aggregate(in)
	assert.InDelta(t, 10.0, *summary.PerCriterion[0].Average, 1e-9)
}

func TestAggregateParticipationWindowScoping(t *testing.T) {
	in := AggregateInput{
		Criteria: []Criterion{
			{ID: "p", Name: "Participaciones", Percentage: 100, Type: CriterionParticipation, MaxPoints: 10, GradingPeriod: 1},
		},
		Participations: []ParticipationEntry{
			{Points: 5, Date: MustDate("2025-09-05")},
			{Points: 5, Date: MustDate("2025-11-01")}, // outside the period window
		},
		Window:    semesterWindow(),
		PeriodKey: "1",
		Rollup:    RollupNormalized,
	}

	summary := Aggregate(in)
	require.NotNil(t, summary.PerCriterion[0].Average)
	assert.InDelta(t, 5.0, *summary.PerCriterion[0].Average, 1e-9)
}

func TestAggregatePeriodScopingAndFinalView(t *testing.T) {
	criteria := []Criterion{
		{ID: "c1", Name: "Tareas", Percentage: 50, Type: CriterionDefault, GradingPeriod: 1},
		{ID: "c2", Name: "Proyecto", Percentage: 50, Type: CriterionDefault, GradingPeriod: 2},
	}
	assignments := map[string][]AssignmentScore{
		"c1": {{AssignmentID: "a1", Name: "T1", CreatedOn: MustDate("2025-09-10"), Score: scorePtr(6)}},
		"c2": {{AssignmentID: "a2", Name: "P1", CreatedOn: MustDate("2025-10-20"), Score: scorePtr(9)}},
	}

	period1 := Aggregate(AggregateInput{
		Criteria:          criteria,
		AssignmentsByCrit: assignments,
		Window:            semesterWindow(),
		PeriodKey:         "1",
		Rollup:            RollupNormalized,
	})
	require.Len(t, period1.PerCriterion, 1)
	assert.Equal(t, "Tareas", period1.PerCriterion[0].Name)
	assert.InDelta(t, 6.0, period1.FinalScore, 1e-9)

	final := Aggregate(AggregateInput{
		Criteria:          criteria,
		AssignmentsByCrit: assignments,
		Window:            Period{Start: MustDate("2025-09-01"), End: MustDate("2026-01-05")},
		PeriodKey:         PeriodKeyFinal,
		Rollup:            RollupSimple,
	})
	require.Len(t, final.PerCriterion, 2)
	assert.InDelta(t, (6.0/10*50+9.0/10*50)/10, final.FinalScore, 1e-9)
}

func TestAggregateEmptyCriterionDepressesNormalizedScore(t *testing.T) {
	criteria := []Criterion{
		{ID: "c1", Name: "Tareas", Percentage: 50, Type: CriterionDefault, GradingPeriod: 1},
		{ID: "c2", Name: "Examen", Percentage: 50, Type: CriterionDefault, GradingPeriod: 1},
	}
	assignments := map[string][]AssignmentScore{
		"c1": {{AssignmentID: "a1", Name: "T1", CreatedOn: MustDate("2025-09-10"), Score: scorePtr(10)}},
	}

	in := AggregateInput{
		Criteria:          criteria,
		AssignmentsByCrit: assignments,
		Window:            semesterWindow(),
		PeriodKey:         "1",
		Rollup:            RollupNormalized,
	}

	// Source behavior: the empty criterion keeps its weight in the
	// denominator, halving the final score.
	summary := Aggregate(in)
	assert.Nil(t, summary.PerCriterion[1].Average)
	assert.InDelta(t, 5.0, summary.FinalScore, 1e-9)

	in.DropEmptyWeights = true
	assert.InDelta(t, 10.0, Aggregate(in).FinalScore, 1e-9)
}

func TestAggregateDegeneraciesResolveToZero(t *testing.T) {
	// No criteria at all.
	summary := Aggregate(AggregateInput{PeriodKey: "1", Rollup: RollupNormalized})
	assert.Zero(t, summary.FinalScore)

	// Attendance criterion with no instructional dates has no content.
	summary = Aggregate(AggregateInput{
		Criteria:  []Criterion{{ID: "c", Name: "Asistencia", Percentage: 100, Type: CriterionAttendance, GradingPeriod: 1}},
		PeriodKey: "1",
		Rollup:    RollupNormalized,
	})
	require.Len(t, summary.PerCriterion, 1)
	assert.Nil(t, summary.PerCriterion[0].Average)
	assert.Zero(t, summary.FinalScore)
	assert.False(t, summary.FinalScore != summary.FinalScore, "final score must never be NaN")
}

func TestAggregateIdempotent(t *testing.T) {
	in := AggregateInput{
		Criteria: []Criterion{
			{ID: "c1", Name: "Tareas", Percentage: 60, Type: CriterionDefault, GradingPeriod: 1},
			{ID: "c2", Name: "Asistencia", Percentage: 40, Type: CriterionAttendance, GradingPeriod: 1},
		},
		AssignmentsByCrit: map[string][]AssignmentScore{
			"c1": {{AssignmentID: "a1", Name: "T1", CreatedOn: MustDate("2025-09-10"), Score: scorePtr(7.5)}},
		},
		AttendanceRatio:    0.9,
		InstructionalCount: 20,
		Window:             semesterWindow(),
		PeriodKey:          "1",
		Rollup:             RollupNormalized,
	}

	first := Aggregate(in)
	second := Aggregate(in)
	assert.Equal(t, first, second)
}
