package tui

import (
	"fmt"
	"io"
	"log/slog"
	"runtime/debug"

	tea "github.com/charmbracelet/bubbletea"
)

const panicToast = "Unexpected error (see logs)"

// guarded keeps a panic in Update or View from killing the program and
// leaving the terminal in raw mode. The dashboard falls back to the home menu.
type guarded struct {
	inner model
	log   *slog.Logger
}

func guard(m model, log *slog.Logger) guarded {
	if log == nil {
		log = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}
	return guarded{inner: m, log: log}
}

func (g guarded) Init() tea.Cmd { return g.inner.Init() }

func (g guarded) Update(msg tea.Msg) (next tea.Model, cmd tea.Cmd) {
	defer func() {
		if r := recover(); r != nil {
			g.report("update", r)
			g.inner.scr = screenHome
			g.inner.mode = inputNone
			g.inner.busy = false
			g.inner.setToast(panicToast, true)
			next, cmd = g, nil
		}
	}()

	updated, c := g.inner.Update(msg)
	switch u := updated.(type) {
	case model:
		g.inner = u
	case guarded:
		g = u
	}
	return g, c
}

func (g guarded) View() (out string) {
	defer func() {
		if r := recover(); r != nil {
			g.report("view", r)
			out = panicToast
		}
	}()
	return g.inner.View()
}

func (g guarded) report(where string, r any) {
	g.log.Error("tui.panic",
		"where", where,
		"screen", g.inner.scr.String(),
		"panic", fmt.Sprint(r),
		"stack", string(debug.Stack()),
	)
}

var _ tea.Model = guarded{}
