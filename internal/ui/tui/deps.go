package tui

import (
	"log/slog"

	"github.com/B3ttiK0nf3ti/studyprogram-dashboard/internal/usecase"
)

type Deps struct {
	Tracker *usecase.Tracker
	// Source describes where the program is stored, for the header.
	Source string

	Logger *slog.Logger
	Debug  bool
}
