package tui

import (
	"fmt"
	"math"
	"strings"
	"unicode/utf8"

	"github.com/charmbracelet/bubbles/list"

	"github.com/B3ttiK0nf3ti/studyprogram-dashboard/internal/analytics"
	"github.com/B3ttiK0nf3ti/studyprogram-dashboard/internal/domain"
	"github.com/B3ttiK0nf3ti/studyprogram-dashboard/internal/usecase"
)

func clampString(s string, maxLen int) string {
	if maxLen <= 0 {
		return ""
	}
	if utf8.RuneCountInString(s) <= maxLen {
		return s
	}
	var b strings.Builder
	b.Grow(len(s))

	n := 0
	for _, r := range s {
		if n >= maxLen {
			break
		}
		b.WriteRune(r)
		n++
	}
	return b.String() + "…"
}

// progressBar renders pct (0..100) as a fixed-width bar.
func progressBar(t Theme, pct float64, width int) string {
	if width <= 0 {
		return ""
	}
	pct = math.Max(0, math.Min(100, pct))
	full := int(math.Round(pct / 100 * float64(width)))
	return t.BarFull.Render(strings.Repeat("█", full)) +
		t.BarEmpty.Render(strings.Repeat("░", width-full))
}

func formatGrade(g float64) string {
	if g == 0 {
		return "–"
	}
	return fmt.Sprintf("%.2f", g)
}

func renderSummary(t Theme, s analytics.Summary, barWidth int) string {
	var b strings.Builder

	fmt.Fprintf(&b, "%s  %s\n\n", t.Title.Render(s.ProgramName),
		t.Subtitle.Render(fmt.Sprintf("regular study period: %d semesters", s.RegularStudyPeriod)))

	fmt.Fprintf(&b, "Study progress   %s %5.1f%%\n", progressBar(t, s.StudyProgress, barWidth), s.StudyProgress)
	fmt.Fprintf(&b, "Pass quote       %s %5.1f%%\n", progressBar(t, s.PassQuote, barWidth), s.PassQuote)

	planned := 0.0
	if s.PlannedLearningHours > 0 {
		planned = 100 * s.ActualLearningHours / s.PlannedLearningHours
	}
	fmt.Fprintf(&b, "Learning hours   %s %.1f / %.0f h\n\n", progressBar(t, planned, barWidth),
		s.ActualLearningHours, s.PlannedLearningHours)

	fmt.Fprintf(&b, "Grade average           %s\n", formatGrade(s.GradeAverage))
	fmt.Fprintf(&b, "Avg. hours per session  %.2f\n", s.AverageLearningTime)
	fmt.Fprintf(&b, "Modules                 %s %d · %s %d · %s %d\n",
		t.Passed.Render("passed"), s.Status.Passed,
		t.Failed.Render("failed"), s.Status.Failed,
		t.Open.Render("open"), s.Status.Open,
	)
	return b.String()
}

func renderSemesterGrades(t Theme, grades []analytics.SemesterGrade) string {
	var b strings.Builder
	b.WriteString(t.Title.Render("Grade average per semester"))
	b.WriteString("\n\n")
	for _, g := range grades {
		avg := "–"
		if g.HasGrades {
			avg = fmt.Sprintf("%.2f", g.Average)
		}
		fmt.Fprintf(&b, "Semester %2d   %s\n", g.Semester, avg)
	}
	return b.String()
}

// moduleItem is one row of the modules list.
type moduleItem struct {
	ref    usecase.ModuleRef
	title  string
	desc   string
	status domain.Status
}

func (m moduleItem) Title() string       { return m.title }
func (m moduleItem) Description() string { return m.desc }
func (m moduleItem) FilterValue() string { return m.ref.Title }

func moduleItems(p *domain.StudyProgram) []list.Item {
	var items []list.Item
	for _, s := range p.Semesters() {
		for _, m := range s.Modules() {
			desc := fmt.Sprintf("%d ECTS · %s · Ø %s · %.1f h · %d attempt(s) left",
				m.ECTS(), m.Status(), formatGrade(m.AverageGrade()), m.TotalHours(), m.AttemptsLeft())
			items = append(items, moduleItem{
				ref:    usecase.ModuleRef{Semester: s.Number(), Title: m.Title()},
				title:  fmt.Sprintf("S%d · %s", s.Number(), clampString(m.Title(), 48)),
				desc:   desc,
				status: m.Status(),
			})
		}
	}
	return items
}
