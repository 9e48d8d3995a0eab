package tui

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/B3ttiK0nf3ti/studyprogram-dashboard/internal/domain"
	"github.com/B3ttiK0nf3ti/studyprogram-dashboard/internal/usecase"
)

const actionTimeout = 15 * time.Second

func cmdRecordExam(tr *usecase.Tracker, log *slog.Logger, ref usecase.ModuleRef, raw string) tea.Cmd {
	return func() tea.Msg {
		grade, err := parseNumber(raw)
		if err != nil {
			return actionDoneMsg{err: err}
		}

		ctx, cancel := context.WithTimeout(context.Background(), actionTimeout)
		defer cancel()

		e, err := tr.RecordExam(ctx, usecase.RecordExamInput{ModuleRef: ref, Grade: grade})
		if err != nil {
			log.Warn("tui.record_exam.failed", "title", ref.Title, "err", err)
			return actionDoneMsg{err: err}
		}
		verdict := "failed"
		if e.Passed {
			verdict = "passed"
		}
		return actionDoneMsg{toast: fmt.Sprintf("%s: attempt %d %s (%.1f)", ref.Title, e.Attempt, verdict, e.Grade)}
	}
}

func cmdLogHours(tr *usecase.Tracker, log *slog.Logger, ref usecase.ModuleRef, raw string) tea.Cmd {
	return func() tea.Msg {
		hours, err := parseNumber(raw)
		if err != nil {
			return actionDoneMsg{err: err}
		}

		ctx, cancel := context.WithTimeout(context.Background(), actionTimeout)
		defer cancel()

		lt, err := tr.LogLearningTime(ctx, usecase.LogLearningTimeInput{ModuleRef: ref, Hours: hours})
		if err != nil {
			log.Warn("tui.log_hours.failed", "title", ref.Title, "err", err)
			return actionDoneMsg{err: err}
		}
		return actionDoneMsg{toast: fmt.Sprintf("%s: %gh on %s", ref.Title, lt.Hours, lt.Date.Format(domain.DateLayout))}
	}
}

func cmdReload(tr *usecase.Tracker) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), actionTimeout)
		defer cancel()

		err := tr.Open(ctx)
		return reloadedMsg{recovered: tr.Recovered(), err: err}
	}
}

// parseNumber accepts both "1.7" and the German "1,7".
func parseNumber(raw string) (float64, error) {
	s := strings.ReplaceAll(strings.TrimSpace(raw), ",", ".")
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, &domain.OpError{
			Op:   "tui.parse_number",
			Kind: domain.KindValidation,
			Err:  fmt.Errorf("%q is not a number: %w", raw, domain.ErrValidation),
		}
	}
	return f, nil
}
