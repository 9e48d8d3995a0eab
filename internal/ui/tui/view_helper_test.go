package tui

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/B3ttiK0nf3ti/studyprogram-dashboard/internal/domain"
)

func TestClampString(t *testing.T) {
	assert.Equal(t, "abc", clampString("abc", 3))
	assert.Equal(t, "ab…", clampString("abc", 2))
	assert.Equal(t, "", clampString("abc", 0))
	assert.Equal(t, "Prüf…", clampString("Prüfung", 4))
}

func TestProgressBar(t *testing.T) {
	th := DefaultTheme()
	bar := progressBar(th, 50, 10)
	assert.Equal(t, 5, strings.Count(bar, "█"))
	assert.Equal(t, 5, strings.Count(bar, "░"))

	assert.Equal(t, 10, strings.Count(progressBar(th, 140, 10), "█"))
	assert.Equal(t, 10, strings.Count(progressBar(th, -3, 10), "░"))
	assert.Empty(t, progressBar(th, 50, 0))
}

func TestParseNumber(t *testing.T) {
	f, err := parseNumber(" 2,3 ")
	require.NoError(t, err)
	assert.Equal(t, 2.3, f)

	_, err = parseNumber("x")
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestModuleItems(t *testing.T) {
	p := domain.NewStudyProgram("Test", 6)
	m, err := p.AddModule(2, "Datenbanken", 10)
	require.NoError(t, err)
	_, err = m.RecordExam(5.0)
	require.NoError(t, err)

	items := moduleItems(p)
	require.Len(t, items, 1)
	it := items[0].(moduleItem)
	assert.Equal(t, "S2 · Datenbanken", it.Title())
	assert.Contains(t, it.Description(), "10 ECTS · failed")
	assert.Contains(t, it.Description(), "2 attempt(s) left")
	assert.Equal(t, "Datenbanken", it.FilterValue())
}

func TestUserMessage(t *testing.T) {
	wrap := func(kind domain.ErrorKind, err error) error {
		return &domain.OpError{Op: "test", Kind: kind, Err: err}
	}

	cases := []struct {
		err  error
		want string
	}{
		{nil, ""},
		{wrap(domain.KindValidation, fmt.Errorf("x: %w", domain.ErrInvalidGrade)), "Grade must be between 1.0 and 5.0"},
		{wrap(domain.KindState, domain.ErrModuleAlreadyPassed), "Module already passed"},
		{wrap(domain.KindState, domain.ErrAttemptsExhausted), "No exam attempts left"},
		{wrap(domain.KindConflict, domain.ErrDuplicateModule), "Module already exists in this semester"},
		{wrap(domain.KindNotFound, domain.ErrNotFound), "Not found"},
		{wrap(domain.KindStorage, domain.ErrStorageUnavailable), "Storage unavailable, change kept in memory only"},
		{wrap(domain.KindMalformed, domain.ErrUnknownStatus), "Stored data has an unknown module status"},
		{errors.New("boom"), "Unexpected error (see logs)"},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, userMessage(c.err))
	}
}

func TestRecoveredMessage(t *testing.T) {
	storage := &domain.OpError{Op: "filestore.load", Kind: domain.KindStorage, Err: fmt.Errorf("%w: permission denied", domain.ErrStorageUnavailable)}
	assert.Equal(t, "Could not load stored data, started with an empty program", recoveredMessage(storage))

	bad := &domain.OpError{Op: "codec.decode", Kind: domain.KindMalformed, Err: domain.ErrMalformedData}
	assert.Equal(t, "Stored data is malformed, started with an empty program", recoveredMessage(bad))
}
