package domain

import (
	"fmt"
	"math"
	"strings"
	"time"
)

const (
	MinGrade     = 1.0
	MaxGrade     = 5.0
	PassingGrade = 4.0

	// MaxAttempts is the number of exam sittings a module allows.
	MaxAttempts = 3

	// PlannedHoursPerECTS is the workload convention behind planned learning time.
	PlannedHoursPerECTS = 25

	// DateLayout is the calendar date format used for learning-time entries.
	DateLayout = "2006-01-02"
)

// Status represents the lifecycle state of a module.
type Status string

const (
	StatusOpen   Status = "open"
	StatusPassed Status = "passed"
	StatusFailed Status = "failed"
)

// ParseStatus accepts the lowercase tags only; anything else is ErrUnknownStatus.
func ParseStatus(tag string) (Status, error) {
	switch Status(tag) {
	case StatusOpen, StatusPassed, StatusFailed:
		return Status(tag), nil
	default:
		return "", fmt.Errorf("%q: %w", tag, ErrUnknownStatus)
	}
}

// ExamPerformance is one exam sitting. Values are immutable once recorded.
type ExamPerformance struct {
	Grade   float64
	Attempt int
	Passed  bool
}

// LearningTimeEntry logs study hours on a calendar day.
type LearningTimeEntry struct {
	Date  time.Time
	Hours float64
}

// DateOf truncates t to its calendar day (UTC midnight).
func DateOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// ValidECTS reports whether ects is one of the allowed credit values.
func ValidECTS(ects int) bool {
	return ects == 5 || ects == 10
}

// ValidGrade reports whether grade lies within [MinGrade, MaxGrade].
func ValidGrade(grade float64) bool {
	return !math.IsNaN(grade) && grade >= MinGrade && grade <= MaxGrade
}

// IsPassingGrade reports whether grade passes an exam.
func IsPassingGrade(grade float64) bool {
	return grade <= PassingGrade
}

// NormalizeTitle trims, collapses inner whitespace and lower-cases a title.
// The result is for comparisons only, never for display.
func NormalizeTitle(title string) string {
	return strings.ToLower(strings.Join(strings.Fields(title), " "))
}

// Module is a course unit inside a semester.
type Module struct {
	title  string
	ects   int
	status Status
	exams  []ExamPerformance
	times  []LearningTimeEntry
}

func newModule(title string, ects int) (*Module, error) {
	if !ValidECTS(ects) {
		return nil, fmt.Errorf("%d: %w", ects, ErrInvalidECTS)
	}
	return &Module{
		title:  title,
		ects:   ects,
		status: StatusOpen,
		exams:  []ExamPerformance{},
		times:  []LearningTimeEntry{},
	}, nil
}

// RestoreModule rebuilds a module from persisted state and re-checks every invariant.
func RestoreModule(title string, ects int, status Status, exams []ExamPerformance, times []LearningTimeEntry) (*Module, error) {
	const op = "domain.restore_module"

	m, err := newModule(title, ects)
	if err != nil {
		return nil, opErr(op, KindValidation, title, err)
	}
	if _, err := ParseStatus(string(status)); err != nil {
		return nil, opErr(op, KindMalformed, title, err)
	}
	if len(exams) > MaxAttempts {
		return nil, opErr(op, KindMalformed, title,
			fmt.Errorf("%d exam performances exceed %d attempts: %w", len(exams), MaxAttempts, ErrMalformedData))
	}
	for i, e := range exams {
		if e.Attempt != i+1 {
			return nil, opErr(op, KindMalformed, title,
				fmt.Errorf("exam %d has attempt %d: %w", i, e.Attempt, ErrMalformedData))
		}
		if !ValidGrade(e.Grade) {
			return nil, opErr(op, KindValidation, title, fmt.Errorf("%v: %w", e.Grade, ErrInvalidGrade))
		}
		if e.Passed != IsPassingGrade(e.Grade) {
			return nil, opErr(op, KindMalformed, title,
				fmt.Errorf("exam %d passed flag disagrees with grade %v: %w", i, e.Grade, ErrMalformedData))
		}
		if i > 0 && exams[i-1].Passed {
			return nil, opErr(op, KindMalformed, title,
				fmt.Errorf("exam %d recorded after a passed attempt: %w", i, ErrMalformedData))
		}
	}
	if want := derivedStatus(exams); status != want {
		return nil, opErr(op, KindMalformed, title,
			fmt.Errorf("status %q disagrees with exam history (want %q): %w", status, want, ErrMalformedData))
	}
	for i, lt := range times {
		if lt.Hours < 0 || math.IsNaN(lt.Hours) {
			return nil, opErr(op, KindValidation, title, fmt.Errorf("entry %d: %w", i, ErrInvalidDuration))
		}
	}

	m.status = status
	m.exams = append(m.exams, exams...)
	for _, lt := range times {
		m.times = append(m.times, LearningTimeEntry{Date: DateOf(lt.Date), Hours: lt.Hours})
	}
	return m, nil
}

// derivedStatus is the status RecordExam leaves behind for a valid exam list:
// open without exams, otherwise the outcome of the last attempt.
func derivedStatus(exams []ExamPerformance) Status {
	if len(exams) == 0 {
		return StatusOpen
	}
	if exams[len(exams)-1].Passed {
		return StatusPassed
	}
	return StatusFailed
}

func (m *Module) Title() string { return m.title }

// NormalizedTitle is derived from Title on every call.
func (m *Module) NormalizedTitle() string { return NormalizeTitle(m.title) }

func (m *Module) ECTS() int { return m.ects }

func (m *Module) Status() Status { return m.status }

// ExamPerformances returns a copy in attempt order.
func (m *Module) ExamPerformances() []ExamPerformance {
	out := make([]ExamPerformance, len(m.exams))
	copy(out, m.exams)
	return out
}

// LearningTimes returns a copy in insertion order.
func (m *Module) LearningTimes() []LearningTimeEntry {
	out := make([]LearningTimeEntry, len(m.times))
	copy(out, m.times)
	return out
}

// AttemptsLeft is how many more exams may be recorded before the cap.
func (m *Module) AttemptsLeft() int {
	if m.status == StatusPassed {
		return 0
	}
	return MaxAttempts - len(m.exams)
}

// RecordExam appends the next attempt and moves the status to passed or failed.
//
// A passed module is terminal. Once MaxAttempts exist, the call fails and the
// module is forced to failed.
func (m *Module) RecordExam(grade float64) (ExamPerformance, error) {
	const op = "domain.record_exam"

	if m.status == StatusPassed {
		return ExamPerformance{}, opErr(op, KindState, m.title, ErrModuleAlreadyPassed)
	}
	if !ValidGrade(grade) {
		return ExamPerformance{}, opErr(op, KindValidation, m.title, fmt.Errorf("%v: %w", grade, ErrInvalidGrade))
	}
	if len(m.exams) >= MaxAttempts {
		m.status = StatusFailed
		return ExamPerformance{}, opErr(op, KindState, m.title, ErrAttemptsExhausted)
	}

	e := ExamPerformance{
		Grade:   grade,
		Attempt: len(m.exams) + 1,
		Passed:  IsPassingGrade(grade),
	}
	m.exams = append(m.exams, e)

	if e.Passed {
		m.status = StatusPassed
	} else {
		m.status = StatusFailed
	}
	return e, nil
}

// RecordLearningTime appends hours spent on the calendar day of date.
func (m *Module) RecordLearningTime(date time.Time, hours float64) (LearningTimeEntry, error) {
	if hours < 0 || math.IsNaN(hours) {
		return LearningTimeEntry{}, opErr("domain.record_learning_time", KindValidation, m.title,
			fmt.Errorf("%v: %w", hours, ErrInvalidDuration))
	}
	lt := LearningTimeEntry{Date: DateOf(date), Hours: hours}
	m.times = append(m.times, lt)
	return lt, nil
}

// ChangeECTS edits the credit value.
func (m *Module) ChangeECTS(ects int) error {
	if !ValidECTS(ects) {
		return opErr("domain.change_ects", KindValidation, m.title, fmt.Errorf("%d: %w", ects, ErrInvalidECTS))
	}
	m.ects = ects
	return nil
}

// AverageGrade is the mean over every recorded attempt, 0 when none.
func (m *Module) AverageGrade() float64 {
	if len(m.exams) == 0 {
		return 0
	}
	var sum float64
	for _, e := range m.exams {
		sum += e.Grade
	}
	return sum / float64(len(m.exams))
}

// HasPassedExam reports whether any attempt passed.
func (m *Module) HasPassedExam() bool {
	for _, e := range m.exams {
		if e.Passed {
			return true
		}
	}
	return false
}

// TotalHours sums all learning-time entries.
func (m *Module) TotalHours() float64 {
	var sum float64
	for _, lt := range m.times {
		sum += lt.Hours
	}
	return sum
}
