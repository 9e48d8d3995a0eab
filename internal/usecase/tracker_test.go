package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/B3ttiK0nf3ti/studyprogram-dashboard/internal/codec"
	"github.com/B3ttiK0nf3ti/studyprogram-dashboard/internal/domain"
)

type memStore struct {
	doc     map[string]any
	loadErr error
	saveErr error
	saves   int
}

func (s *memStore) Load(context.Context) (map[string]any, bool, error) {
	if s.loadErr != nil {
		return nil, false, s.loadErr
	}
	return s.doc, s.doc != nil, nil
}

func (s *memStore) Save(_ context.Context, doc map[string]any) error {
	if s.saveErr != nil {
		return s.saveErr
	}
	s.doc = doc
	s.saves++
	return nil
}

var programCfg = domain.ProgramConfig{Name: "Informatik", RegularStudyPeriod: 6, MaxSemester: 8}

func openTracker(t *testing.T, store *memStore) *Tracker {
	t.Helper()
	tr := NewTracker(store, programCfg, WithNow(func() time.Time {
		return time.Date(2024, 3, 5, 14, 30, 0, 0, time.UTC)
	}))
	require.NoError(t, tr.Open(context.Background()))
	return tr
}

func TestOpen_EmptyStoreGivesFreshProgram(t *testing.T) {
	tr := openTracker(t, &memStore{})

	assert.NoError(t, tr.Recovered())
	assert.Equal(t, "Informatik", tr.Program().Name)
	assert.Equal(t, 6, tr.Program().RegularStudyPeriod)
	assert.Empty(t, tr.Program().Semesters())
}

func TestOpen_FallsBackOnBadData(t *testing.T) {
	cases := map[string]*memStore{
		"unknown status": {doc: map[string]any{
			"name": "X",
			"semesters": []any{map[string]any{"number": 1, "modules": []any{
				map[string]any{"title": "A", "ects": 5, "status": "done"},
			}}},
		}},
		"malformed":   {doc: map[string]any{"semesters": "nope"}},
		"unavailable": {loadErr: &domain.OpError{Op: "x", Kind: domain.KindStorage, Err: domain.ErrStorageUnavailable}},
	}
	for name, store := range cases {
		t.Run(name, func(t *testing.T) {
			tr := openTracker(t, store)
			require.Error(t, tr.Recovered())
			assert.Equal(t, "Informatik", tr.Program().Name)
			assert.Empty(t, tr.Program().Modules())
		})
	}
}

func TestOpen_ReturnsContextErrors(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	tr := NewTracker(&memStore{loadErr: context.Canceled}, programCfg)
	assert.ErrorIs(t, tr.Open(ctx), context.Canceled)
}

func TestEndToEnd_PersistsAfterEveryMutation(t *testing.T) {
	ctx := context.Background()
	store := &memStore{}
	tr := openTracker(t, store)

	_, err := tr.AddModule(ctx, AddModuleInput{Semester: 1, Title: "  Mathematik ", ECTS: 5})
	require.NoError(t, err)
	_, err = tr.RecordExam(ctx, RecordExamInput{ModuleRef: ModuleRef{Semester: 1, Title: "mathematik"}, Grade: 1.7})
	require.NoError(t, err)
	lt, err := tr.LogLearningTime(ctx, LogLearningTimeInput{ModuleRef: ModuleRef{Semester: 1, Title: "Mathematik"}, Hours: 3.5})
	require.NoError(t, err)
	assert.Equal(t, "2024-03-05", lt.Date.Format(domain.DateLayout))
	assert.Equal(t, 3, store.saves)

	s := tr.Summary()
	assert.Equal(t, 1.7, s.GradeAverage)
	assert.Equal(t, 100.0, s.StudyProgress)
	assert.Equal(t, 3.5, s.AverageLearningTime)

	reopened := openTracker(t, store)
	m, err := reopened.Program().Semesters()[0].LookupModule("Mathematik")
	require.NoError(t, err)
	assert.Equal(t, domain.StatusPassed, m.Status())
	assert.Equal(t, "Mathematik", m.Title())
}

func TestAddModule_Validation(t *testing.T) {
	ctx := context.Background()
	tr := openTracker(t, &memStore{})

	cases := []struct {
		name string
		in   AddModuleInput
		want error
	}{
		{"bad ects", AddModuleInput{Semester: 1, Title: "A", ECTS: 7}, domain.ErrInvalidECTS},
		{"zero semester", AddModuleInput{Semester: 0, Title: "A", ECTS: 5}, domain.ErrInvalidSemester},
		{"above max semester", AddModuleInput{Semester: 9, Title: "A", ECTS: 5}, domain.ErrInvalidSemester},
		{"blank title", AddModuleInput{Semester: 1, Title: "   ", ECTS: 5}, domain.ErrValidation},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			_, err := tr.AddModule(ctx, c.in)
			require.Error(t, err)
			assert.ErrorIs(t, err, c.want)
			assert.True(t, domain.IsKind(err, domain.KindValidation))
		})
	}
	assert.Empty(t, tr.Program().Modules())

	_, err := tr.AddModule(ctx, AddModuleInput{Semester: 8, Title: "A", ECTS: 10})
	require.NoError(t, err)
	_, err = tr.AddModule(ctx, AddModuleInput{Semester: 8, Title: "a", ECTS: 5})
	assert.ErrorIs(t, err, domain.ErrDuplicateModule)
}

func TestRecordExam_Rules(t *testing.T) {
	ctx := context.Background()
	store := &memStore{}
	tr := openTracker(t, store)
	_, err := tr.AddModule(ctx, AddModuleInput{Semester: 2, Title: "Physik", ECTS: 5})
	require.NoError(t, err)
	ref := ModuleRef{Semester: 2, Title: "Physik"}

	_, err = tr.RecordExam(ctx, RecordExamInput{ModuleRef: ref, Grade: 0.7})
	assert.ErrorIs(t, err, domain.ErrInvalidGrade)

	for _, g := range []float64{5.0, 4.3, 4.7} {
		_, err = tr.RecordExam(ctx, RecordExamInput{ModuleRef: ref, Grade: g})
		require.NoError(t, err)
	}
	_, err = tr.RecordExam(ctx, RecordExamInput{ModuleRef: ref, Grade: 1.0})
	assert.ErrorIs(t, err, domain.ErrAttemptsExhausted)

	m, _ := tr.Program().Semesters()[0].LookupModule("Physik")
	assert.Equal(t, domain.StatusFailed, m.Status())
	assert.Len(t, m.ExamPerformances(), 3)

	_, err = tr.RecordExam(ctx, RecordExamInput{ModuleRef: ModuleRef{Semester: 2, Title: "Chemie"}, Grade: 2})
	assert.ErrorIs(t, err, domain.ErrNotFound)
	_, err = tr.RecordExam(ctx, RecordExamInput{ModuleRef: ModuleRef{Semester: 5, Title: "Physik"}, Grade: 2})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestRecordExam_PassedIsTerminal(t *testing.T) {
	ctx := context.Background()
	tr := openTracker(t, &memStore{})
	_, err := tr.AddModule(ctx, AddModuleInput{Semester: 1, Title: "A", ECTS: 5})
	require.NoError(t, err)
	ref := ModuleRef{Semester: 1, Title: "A"}

	_, err = tr.RecordExam(ctx, RecordExamInput{ModuleRef: ref, Grade: 4.0})
	require.NoError(t, err)

	_, err = tr.RecordExam(ctx, RecordExamInput{ModuleRef: ref, Grade: 9})
	assert.ErrorIs(t, err, domain.ErrModuleAlreadyPassed)
	assert.True(t, domain.IsKind(err, domain.KindState))
}

func TestLogLearningTime_RejectsNegativeHours(t *testing.T) {
	ctx := context.Background()
	store := &memStore{}
	tr := openTracker(t, store)
	_, err := tr.AddModule(ctx, AddModuleInput{Semester: 1, Title: "A", ECTS: 5})
	require.NoError(t, err)

	_, err = tr.LogLearningTime(ctx, LogLearningTimeInput{ModuleRef: ModuleRef{Semester: 1, Title: "A"}, Hours: -1})
	assert.ErrorIs(t, err, domain.ErrInvalidDuration)
	assert.Equal(t, 1, store.saves)
}

func TestRenameChangeMoveDelete(t *testing.T) {
	ctx := context.Background()
	store := &memStore{}
	tr := openTracker(t, store)
	for _, title := range []string{"Algo", "Netze"} {
		_, err := tr.AddModule(ctx, AddModuleInput{Semester: 3, Title: title, ECTS: 5})
		require.NoError(t, err)
	}

	err := tr.RenameModule(ctx, RenameModuleInput{ModuleRef: ModuleRef{Semester: 3, Title: "algo"}, NewTitle: " NETZE "})
	assert.ErrorIs(t, err, domain.ErrDuplicateModule)
	require.NoError(t, tr.RenameModule(ctx, RenameModuleInput{ModuleRef: ModuleRef{Semester: 3, Title: "algo"}, NewTitle: "Algorithmen"}))

	err = tr.ChangeECTS(ctx, ChangeECTSInput{ModuleRef: ModuleRef{Semester: 3, Title: "Algorithmen"}, ECTS: 6})
	assert.ErrorIs(t, err, domain.ErrInvalidECTS)
	require.NoError(t, tr.ChangeECTS(ctx, ChangeECTSInput{ModuleRef: ModuleRef{Semester: 3, Title: "Algorithmen"}, ECTS: 10}))

	err = tr.MoveModule(ctx, MoveModuleInput{ModuleRef: ModuleRef{Semester: 3, Title: "Algorithmen"}, To: 9})
	assert.ErrorIs(t, err, domain.ErrInvalidSemester)
	require.NoError(t, tr.MoveModule(ctx, MoveModuleInput{ModuleRef: ModuleRef{Semester: 3, Title: "Algorithmen"}, To: 4}))

	s4, err := tr.Program().LookupSemester(4)
	require.NoError(t, err)
	m, err := s4.LookupModule("Algorithmen")
	require.NoError(t, err)
	assert.Equal(t, 10, m.ECTS())

	require.NoError(t, tr.DeleteModule(ctx, ModuleRef{Semester: 3, Title: "Netze"}))
	assert.ErrorIs(t, tr.DeleteModule(ctx, ModuleRef{Semester: 3, Title: "Netze"}), domain.ErrNotFound)

	restored, err := codec.Decode(store.doc)
	require.NoError(t, err)
	require.Len(t, restored.Modules(), 1)
	assert.Equal(t, "Algorithmen", restored.Modules()[0].Title())
}

func TestSaveFailureKeepsMutation(t *testing.T) {
	ctx := context.Background()
	store := &memStore{saveErr: errors.New("disk full")}
	tr := openTracker(t, store)

	_, err := tr.AddModule(ctx, AddModuleInput{Semester: 1, Title: "A", ECTS: 5})
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrStorageUnavailable)
	assert.True(t, domain.IsKind(err, domain.KindStorage))
	assert.Len(t, tr.Program().Modules(), 1)
}
