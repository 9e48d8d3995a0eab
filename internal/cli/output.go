package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"gopkg.in/yaml.v3"

	"github.com/B3ttiK0nf3ti/studyprogram-dashboard/internal/analytics"
	"github.com/B3ttiK0nf3ti/studyprogram-dashboard/internal/codec"
	"github.com/B3ttiK0nf3ti/studyprogram-dashboard/internal/domain"
)

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func printSnapshot(w io.Writer, p *domain.StudyProgram, format string) error {
	switch format {
	case "json":
		return printJSON(w, codec.Encode(p))
	case "yaml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(codec.Encode(p)); err != nil {
			return err
		}
		return enc.Close()
	case "pretty", "":
		printPrettyProgram(w, p)
		return nil
	default:
		return fmt.Errorf("unsupported format %q (expected pretty|json|yaml)", format)
	}
}

func printPrettyProgram(w io.Writer, p *domain.StudyProgram) {
	fmt.Fprintf(w, "Program: %s (%d semesters)\n", p.Name, p.RegularStudyPeriod)
	fmt.Fprintf(w, "Progress: %.1f%%\n\n", p.Progress())

	semesters := p.Semesters()
	if len(semesters) == 0 {
		fmt.Fprintln(w, "No modules yet. Add one with: studytrack module add -s 1 -t <title>")
		return
	}

	for _, s := range semesters {
		fmt.Fprintf(w, "Semester %d\n", s.Number())
		if len(s.Modules()) == 0 {
			fmt.Fprintln(w, "  (no modules)")
		}
		for _, m := range s.Modules() {
			fmt.Fprintf(w, "- [%s] %s (%d ECTS)\n", m.Status(), m.Title(), m.ECTS())
			for _, e := range m.ExamPerformances() {
				mark := "✓"
				if !e.Passed {
					mark = "✗"
				}
				fmt.Fprintf(w, "    %s attempt %d: %.1f\n", mark, e.Attempt, e.Grade)
			}
			if n := len(m.LearningTimes()); n > 0 {
				fmt.Fprintf(w, "    learning: %gh in %d entries\n", m.TotalHours(), n)
			}
		}
		fmt.Fprintln(w)
	}
}

// printModuleTable lists modules of one semester, or all when semester is 0.
func printModuleTable(w io.Writer, p *domain.StudyProgram, semester int) {
	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers("SEM", "TITLE", "ECTS", "STATUS", "ATTEMPTS", "AVG", "HOURS")

	rows := 0
	for _, s := range p.Semesters() {
		if semester > 0 && s.Number() != semester {
			continue
		}
		for _, m := range s.Modules() {
			avg := "-"
			if len(m.ExamPerformances()) > 0 {
				avg = strconv.FormatFloat(m.AverageGrade(), 'f', 1, 64)
			}
			t.Row(
				strconv.Itoa(s.Number()),
				m.Title(),
				strconv.Itoa(m.ECTS()),
				string(m.Status()),
				strconv.Itoa(len(m.ExamPerformances())),
				avg,
				strconv.FormatFloat(m.TotalHours(), 'f', -1, 64),
			)
			rows++
		}
	}

	if rows == 0 {
		fmt.Fprintln(w, "No modules.")
		return
	}
	fmt.Fprintln(w, t.Render())
}

func printSummary(w io.Writer, s analytics.Summary, format string) error {
	switch format {
	case "json":
		return printJSON(w, s)
	case "pretty", "":
		printPrettySummary(w, s)
		return nil
	default:
		return fmt.Errorf("unsupported format %q (expected pretty|json)", format)
	}
}

func printPrettySummary(w io.Writer, s analytics.Summary) {
	fmt.Fprintf(w, "Program:        %s\n", s.ProgramName)
	fmt.Fprintf(w, "Study progress: %.1f%%\n", s.StudyProgress)
	fmt.Fprintf(w, "Pass quote:     %.1f%%\n", s.PassQuote)
	fmt.Fprintf(w, "Grade average:  %s\n", gradeText(s.GradeAverage, s.GradeAverage > 0))
	fmt.Fprintf(w, "Avg learning:   %.2fh per entry\n", s.AverageLearningTime)
	fmt.Fprintf(w, "Learning hours: %gh of %gh planned (%+gh)\n", s.ActualLearningHours, s.PlannedLearningHours, s.LearningGap())
	fmt.Fprintf(w, "Modules:        %d open / %d passed / %d failed\n", s.Status.Open, s.Status.Passed, s.Status.Failed)

	fmt.Fprintln(w)
	fmt.Fprintln(w, "Grades per semester:")
	for _, g := range s.SemesterGrades {
		fmt.Fprintf(w, "  %2d: %s\n", g.Semester, gradeText(g.Average, g.HasGrades))
	}
}

func gradeText(avg float64, ok bool) string {
	if !ok {
		return "-"
	}
	return strconv.FormatFloat(avg, 'f', 2, 64)
}
