package tui

import (
	"context"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/B3ttiK0nf3ti/studyprogram-dashboard/internal/domain"
	"github.com/B3ttiK0nf3ti/studyprogram-dashboard/internal/usecase"
)

type memStore struct {
	doc     map[string]any
	loadErr error
}

func (s *memStore) Load(context.Context) (map[string]any, bool, error) {
	if s.loadErr != nil {
		return nil, false, s.loadErr
	}
	return s.doc, s.doc != nil, nil
}

func (s *memStore) Save(_ context.Context, doc map[string]any) error {
	s.doc = doc
	return nil
}

func newTestModel(t *testing.T) model {
	t.Helper()
	tr := usecase.NewTracker(&memStore{}, domain.ProgramConfig{Name: "Informatik", RegularStudyPeriod: 6, MaxSemester: 6})
	require.NoError(t, tr.Open(context.Background()))
	_, err := tr.AddModule(context.Background(), usecase.AddModuleInput{Semester: 1, Title: "Mathematik", ECTS: 5})
	require.NoError(t, err)
	return newModel(Deps{Tracker: tr, Source: "memory"})
}

func TestNewModel_ReportsLoadFailure(t *testing.T) {
	store := &memStore{loadErr: &domain.OpError{Op: "redisstore.load", Kind: domain.KindStorage, Err: domain.ErrStorageUnavailable}}
	tr := usecase.NewTracker(store, domain.ProgramConfig{Name: "Informatik", RegularStudyPeriod: 6, MaxSemester: 6})
	require.NoError(t, tr.Open(context.Background()))

	m := newModel(Deps{Tracker: tr, Source: "redis"})
	assert.Equal(t, "Could not load stored data, started with an empty program", m.toast)
	assert.True(t, m.toastErr)
	assert.NotContains(t, m.toast, "kept in memory")
}

func key(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func send(t *testing.T, m model, msg tea.Msg) (model, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	mm, ok := next.(model)
	require.True(t, ok)
	return mm, cmd
}

func typeText(t *testing.T, m model, s string) model {
	t.Helper()
	for _, r := range s {
		m, _ = send(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	}
	return m
}

func TestNavigateToDashboard(t *testing.T) {
	m := newTestModel(t)

	m, _ = send(t, m, key("enter"))
	assert.Equal(t, screenDashboard, m.scr)
	assert.Contains(t, m.View(), "Study progress")
	assert.Contains(t, m.View(), "Informatik")

	m, _ = send(t, m, key("esc"))
	assert.Equal(t, screenHome, m.scr)
}

func TestRecordGradeFromModulesScreen(t *testing.T) {
	m := newTestModel(t)

	m, _ = send(t, m, key("down"))
	m, _ = send(t, m, key("enter"))
	require.Equal(t, screenModules, m.scr)

	m, _ = send(t, m, key("g"))
	require.Equal(t, inputGrade, m.mode)
	assert.Equal(t, "Mathematik", m.target.Title)

	m = typeText(t, m, "1,7")
	m, cmd := send(t, m, key("enter"))
	require.NotNil(t, cmd)
	assert.True(t, m.busy)

	m, _ = send(t, m, cmd())
	assert.False(t, m.busy)
	assert.False(t, m.toastErr, m.toast)
	assert.Contains(t, m.toast, "passed")
	assert.Equal(t, 100.0, m.summary.StudyProgress)
	assert.Equal(t, 1.7, m.summary.GradeAverage)
}

func TestInvalidHoursShowsError(t *testing.T) {
	m := newTestModel(t)
	m.scr = screenModules

	m, _ = send(t, m, key("h"))
	require.Equal(t, inputHours, m.mode)
	m = typeText(t, m, "abc")
	m, cmd := send(t, m, key("enter"))
	require.NotNil(t, cmd)

	m, _ = send(t, m, cmd())
	assert.True(t, m.toastErr)
	assert.Equal(t, "Invalid input", m.toast)
}

func TestEscCancelsInput(t *testing.T) {
	m := newTestModel(t)
	m.scr = screenModules

	m, _ = send(t, m, key("g"))
	m, cmd := send(t, m, key("esc"))
	assert.Nil(t, cmd)
	assert.Equal(t, inputNone, m.mode)
	assert.Equal(t, screenModules, m.scr)
}

func TestReloadKeepsData(t *testing.T) {
	m := newTestModel(t)
	for i := 0; i < 3; i++ {
		m, _ = send(t, m, key("down"))
	}
	m, cmd := send(t, m, key("enter"))
	require.NotNil(t, cmd)

	m, _ = send(t, m, cmd())
	assert.Equal(t, "Reloaded", m.toast)
	assert.Len(t, m.modules.Items(), 1)
}

func TestGuardRecoversFromPanics(t *testing.T) {
	g := guard(model{}, nil)
	assert.NotPanics(t, func() {
		next, _ := g.Update(key("enter"))
		out := next.View()
		if ng, ok := next.(guarded); ok && ng.inner.toast == panicToast {
			assert.Equal(t, screenHome, ng.inner.scr)
			assert.NotEmpty(t, out)
		}
	})
}

func TestSemestersView(t *testing.T) {
	m := newTestModel(t)
	m.scr = screenSemesters
	v := m.View()
	assert.Contains(t, v, "Grade average per semester")
	assert.Equal(t, 6, strings.Count(v, "Semester "))
}
