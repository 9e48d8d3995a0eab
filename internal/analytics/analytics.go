// Package analytics computes read-only progress metrics over a study program.
// Every metric is 0 on empty input rather than an error.
package analytics

import (
	"sort"

	"github.com/B3ttiK0nf3ti/studyprogram-dashboard/internal/domain"
)

// GradeAverage is the mean grade of passing exam attempts across all modules.
// Failed attempts do not count.
func GradeAverage(p *domain.StudyProgram) float64 {
	var sum float64
	var n int
	for _, m := range p.Modules() {
		for _, e := range m.ExamPerformances() {
			if e.Passed {
				sum += e.Grade
				n++
			}
		}
	}
	return ratio(sum, float64(n))
}

// PassQuote is the percentage of modules with at least one passed exam.
func PassQuote(p *domain.StudyProgram) float64 {
	modules := p.Modules()
	var passed int
	for _, m := range modules {
		if m.HasPassedExam() {
			passed++
		}
	}
	return 100 * ratio(float64(passed), float64(len(modules)))
}

// StudyProgress is the ECTS-weighted completion percentage.
func StudyProgress(p *domain.StudyProgram) float64 {
	return p.Progress()
}

// AverageLearningTime is the mean of hours over every learning-time entry.
func AverageLearningTime(p *domain.StudyProgram) float64 {
	var sum float64
	var n int
	for _, m := range p.Modules() {
		for _, lt := range m.LearningTimes() {
			sum += lt.Hours
			n++
		}
	}
	return ratio(sum, float64(n))
}

// PlannedLearningHours is the workload implied by the credits of all modules.
func PlannedLearningHours(p *domain.StudyProgram) float64 {
	var h float64
	for _, m := range p.Modules() {
		h += float64(m.ECTS() * domain.PlannedHoursPerECTS)
	}
	return h
}

// ActualLearningHours sums every logged hour.
func ActualLearningHours(p *domain.StudyProgram) float64 {
	var h float64
	for _, m := range p.Modules() {
		h += m.TotalHours()
	}
	return h
}

// StatusBreakdown counts modules per status.
type StatusBreakdown struct {
	Open   int `json:"open"`
	Passed int `json:"passed"`
	Failed int `json:"failed"`
}

func (b StatusBreakdown) Total() int { return b.Open + b.Passed + b.Failed }

// Percent returns the share of the given status, 0 when there are no modules.
func (b StatusBreakdown) Percent(s domain.Status) float64 {
	var n int
	switch s {
	case domain.StatusOpen:
		n = b.Open
	case domain.StatusPassed:
		n = b.Passed
	case domain.StatusFailed:
		n = b.Failed
	}
	return 100 * ratio(float64(n), float64(b.Total()))
}

func Breakdown(p *domain.StudyProgram) StatusBreakdown {
	var b StatusBreakdown
	for _, m := range p.Modules() {
		switch m.Status() {
		case domain.StatusPassed:
			b.Passed++
		case domain.StatusFailed:
			b.Failed++
		default:
			b.Open++
		}
	}
	return b
}

// SemesterGrade is the mean of passed grades within one semester.
type SemesterGrade struct {
	Semester int     `json:"semester"`
	Average  float64 `json:"average"`
	// HasGrades is false when the semester has no passed exam yet.
	HasGrades bool `json:"has_grades"`
}

// SemesterGradeAverages covers semesters 1..RegularStudyPeriod plus any higher
// semester present, sorted by number.
func SemesterGradeAverages(p *domain.StudyProgram) []SemesterGrade {
	type acc struct {
		sum float64
		n   int
	}
	by := map[int]*acc{}
	for i := 1; i <= p.RegularStudyPeriod; i++ {
		by[i] = &acc{}
	}
	for _, s := range p.Semesters() {
		a, ok := by[s.Number()]
		if !ok {
			a = &acc{}
			by[s.Number()] = a
		}
		for _, m := range s.Modules() {
			for _, e := range m.ExamPerformances() {
				if e.Passed {
					a.sum += e.Grade
					a.n++
				}
			}
		}
	}

	out := make([]SemesterGrade, 0, len(by))
	for n, a := range by {
		out = append(out, SemesterGrade{
			Semester:  n,
			Average:   ratio(a.sum, float64(a.n)),
			HasGrades: a.n > 0,
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Semester < out[j].Semester })
	return out
}

// Summary bundles every dashboard metric.
type Summary struct {
	ProgramName          string          `json:"program_name"`
	RegularStudyPeriod   int             `json:"regular_study_period"`
	GradeAverage         float64         `json:"grade_average"`
	PassQuote            float64         `json:"pass_quote"`
	StudyProgress        float64         `json:"study_progress"`
	AverageLearningTime  float64         `json:"average_learning_time"`
	PlannedLearningHours float64         `json:"planned_learning_hours"`
	ActualLearningHours  float64         `json:"actual_learning_hours"`
	Status               StatusBreakdown `json:"status"`
	SemesterGrades       []SemesterGrade `json:"semester_grades"`
}

func Summarize(p *domain.StudyProgram) Summary {
	return Summary{
		ProgramName:          p.Name,
		RegularStudyPeriod:   p.RegularStudyPeriod,
		GradeAverage:         GradeAverage(p),
		PassQuote:            PassQuote(p),
		StudyProgress:        StudyProgress(p),
		AverageLearningTime:  AverageLearningTime(p),
		PlannedLearningHours: PlannedLearningHours(p),
		ActualLearningHours:  ActualLearningHours(p),
		Status:               Breakdown(p),
		SemesterGrades:       SemesterGradeAverages(p),
	}
}

// LearningGap is actual minus planned hours; negative means behind plan.
func (s Summary) LearningGap() float64 {
	return s.ActualLearningHours - s.PlannedLearningHours
}

func ratio(num, den float64) float64 {
	if den == 0 {
		return 0
	}
	return num / den
}
