package tui

import (
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/B3ttiK0nf3ti/studyprogram-dashboard/internal/analytics"
	"github.com/B3ttiK0nf3ti/studyprogram-dashboard/internal/usecase"
)

type screen int

const (
	screenHome screen = iota
	screenDashboard
	screenModules
	screenSemesters
)

type inputMode int

const (
	inputNone inputMode = iota
	inputGrade
	inputHours
)

type menuItem struct {
	title string
	desc  string
	to    screen
}

func (m menuItem) Title() string       { return m.title }
func (m menuItem) Description() string { return m.desc }
func (m menuItem) FilterValue() string { return m.title }

const (
	menuReload = "Reload"
	menuQuit   = "Quit"
)

type model struct {
	theme Theme
	deps  Deps
	log   *slog.Logger

	scr     screen
	menu    list.Model
	modules list.Model

	input  textinput.Model
	mode   inputMode
	target usecase.ModuleRef

	// summary is refreshed on the event loop only, never while a command
	// is mutating the tracker.
	summary analytics.Summary
	busy    bool

	toast    string
	toastErr bool
	width    int
}

func Run(deps Deps) error {
	m := newModel(deps)
	p := tea.NewProgram(guard(m, m.log), tea.WithAltScreen())
	_, err := p.Run()
	return err
}

func newModel(deps Deps) model {
	log := deps.Logger
	if log == nil {
		log = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}

	items := []list.Item{
		menuItem{"Dashboard", "Progress, pass quote, grade average, learning hours", screenDashboard},
		menuItem{"Modules", "Record exams and log learning time", screenModules},
		menuItem{"Semesters", "Grade average per semester", screenSemesters},
		menuItem{menuReload, "Re-read the stored program", screenHome},
		menuItem{menuQuit, "Exit studytrack", screenHome},
	}

	menu := list.New(items, list.NewDefaultDelegate(), 76, 20)
	menu.Title = "studytrack"
	menu.SetShowStatusBar(false)
	menu.SetFilteringEnabled(false)
	menu.SetShowHelp(false)

	mods := list.New(nil, list.NewDefaultDelegate(), 76, 18)
	mods.Title = "Modules"
	mods.SetShowHelp(false)

	in := textinput.New()
	in.CharLimit = 8
	in.Width = 10

	m := model{
		theme:   DefaultTheme(),
		deps:    deps,
		log:     log,
		scr:     screenHome,
		menu:    menu,
		modules: mods,
		input:   in,
		width:   80,
	}
	m.refresh()

	if deps.Tracker != nil {
		if rec := deps.Tracker.Recovered(); rec != nil {
			m.setToast(recoveredMessage(rec), true)
		}
	}
	return m
}

func (m *model) refresh() {
	if m.deps.Tracker == nil {
		return
	}
	m.summary = m.deps.Tracker.Summary()
	m.modules.SetItems(moduleItems(m.deps.Tracker.Program()))
}

func (m *model) setToast(s string, isErr bool) {
	m.toast = s
	m.toastErr = isErr
}

func (m model) Init() tea.Cmd { return nil }

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.menu.SetSize(msg.Width-4, msg.Height-10)
		m.modules.SetSize(msg.Width-4, msg.Height-12)
		return m, nil

	case actionDoneMsg:
		m.busy = false
		if msg.err != nil {
			m.setToast(userMessage(msg.err), true)
		} else {
			m.setToast(msg.toast, false)
		}
		m.refresh()
		return m, nil

	case reloadedMsg:
		m.busy = false
		switch {
		case msg.err != nil:
			m.setToast(userMessage(msg.err), true)
		case msg.recovered != nil:
			m.setToast(recoveredMessage(msg.recovered), true)
		default:
			m.setToast("Reloaded", false)
		}
		m.refresh()
		return m, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
		if m.mode != inputNone {
			return m.updateInput(msg)
		}
		return m.updateKey(msg)
	}

	return m.delegate(msg)
}

func (m model) updateKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.scr == screenModules && m.modules.SettingFilter() {
		return m.delegate(msg)
	}

	switch msg.String() {
	case "q":
		if m.scr == screenHome {
			return m, tea.Quit
		}
		m.scr = screenHome
		return m, nil

	case "esc", "b":
		if m.scr != screenHome {
			m.scr = screenHome
			return m, nil
		}

	case "enter":
		if m.scr == screenHome {
			it, ok := m.menu.SelectedItem().(menuItem)
			if !ok {
				return m, nil
			}
			switch it.title {
			case menuQuit:
				return m, tea.Quit
			case menuReload:
				if m.busy || m.deps.Tracker == nil {
					return m, nil
				}
				m.busy = true
				return m, cmdReload(m.deps.Tracker)
			}
			m.scr = it.to
			m.toast = ""
			return m, nil
		}

	case "g", "h":
		if m.scr == screenModules && !m.busy {
			it, ok := m.modules.SelectedItem().(moduleItem)
			if !ok {
				return m, nil
			}
			m.target = it.ref
			m.mode = inputGrade
			m.input.Placeholder = "1.0 – 5.0"
			if msg.String() == "h" {
				m.mode = inputHours
				m.input.Placeholder = "hours"
			}
			m.input.SetValue("")
			m.input.Focus()
			return m, textinput.Blink
		}
	}

	return m.delegate(msg)
}

func (m model) updateInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.mode = inputNone
		m.input.Blur()
		return m, nil

	case "enter":
		raw := m.input.Value()
		mode := m.mode
		m.mode = inputNone
		m.input.Blur()
		if m.deps.Tracker == nil {
			return m, nil
		}
		m.busy = true
		if mode == inputHours {
			return m, cmdLogHours(m.deps.Tracker, m.log, m.target, raw)
		}
		return m, cmdRecordExam(m.deps.Tracker, m.log, m.target, raw)
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m model) delegate(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch m.scr {
	case screenHome:
		m.menu, cmd = m.menu.Update(msg)
	case screenModules:
		m.modules, cmd = m.modules.Update(msg)
	}
	return m, cmd
}

func (m model) View() string {
	wrap := lipgloss.NewStyle().Padding(1, 2)
	header := m.theme.Title.Render("studytrack") + "\n" +
		m.theme.Subtitle.Render("study progress dashboard") + "\n"
	if m.deps.Source != "" {
		header += m.theme.Help.Render("Data: "+m.deps.Source) + "\n"
	}

	var body, help string
	switch m.scr {
	case screenHome:
		body = m.theme.Card.Render(m.menu.View())
		help = "↑/↓ navigate • enter open • q quit"

	case screenDashboard:
		body = m.theme.Card.Render(renderSummary(m.theme, m.summary, m.barWidth()))
		help = "esc/b back • q home"

	case screenSemesters:
		body = m.theme.Card.Render(renderSemesterGrades(m.theme, m.summary.SemesterGrades))
		help = "esc/b back • q home"

	case screenModules:
		if len(m.modules.Items()) == 0 {
			body = m.theme.Card.Render("No modules yet.\n\nAdd one with: studytrack module add --semester 1 --title \"Mathematik\" --ects 5")
		} else {
			body = m.theme.Card.Render(m.modules.View())
		}
		help = "g record grade • h log hours • / filter • esc/b back"
		if m.mode != inputNone {
			label := "Grade for "
			if m.mode == inputHours {
				label = "Hours for "
			}
			body += "\n" + label + m.target.Title + ": " + m.input.View()
			help = "enter save • esc cancel"
		}

	default:
		body = "unknown state"
	}

	var status string
	switch {
	case m.busy:
		status = m.theme.Help.Render("saving…")
	case m.toast != "" && m.toastErr:
		status = m.theme.Error.Render(m.toast)
	case m.toast != "":
		status = m.theme.Toast.Render(m.toast)
	}

	parts := []string{header, body}
	if status != "" {
		parts = append(parts, status)
	}
	parts = append(parts, m.theme.Help.Render(help))
	return wrap.Render(strings.Join(parts, "\n"))
}

func (m model) barWidth() int {
	w := m.width - 40
	if w > 40 {
		w = 40
	}
	if w < 10 {
		w = 10
	}
	return w
}

// String is used in debug logs.
func (s screen) String() string {
	switch s {
	case screenHome:
		return "home"
	case screenDashboard:
		return "dashboard"
	case screenModules:
		return "modules"
	case screenSemesters:
		return "semesters"
	default:
		return fmt.Sprintf("screen(%d)", int(s))
	}
}
