package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/B3ttiK0nf3ti/studyprogram-dashboard/internal/analytics"
	"github.com/B3ttiK0nf3ti/studyprogram-dashboard/internal/codec"
	"github.com/B3ttiK0nf3ti/studyprogram-dashboard/internal/domain"
	"github.com/B3ttiK0nf3ti/studyprogram-dashboard/internal/infra/logger"
	"github.com/B3ttiK0nf3ti/studyprogram-dashboard/internal/ports"
)

// Tracker is the single owner of the in-memory program. Every mutation is
// validated, applied to the entity graph and then persisted as a whole
// snapshot. It is not safe for concurrent use.
type Tracker struct {
	store ports.ProgramStore
	cfg   domain.ProgramConfig
	log   *slog.Logger
	now   func() time.Time

	program   *domain.StudyProgram
	recovered error
}

type Option func(*Tracker)

func WithLogger(l *slog.Logger) Option {
	return func(t *Tracker) { t.log = l }
}

// WithNow is useful for tests.
func WithNow(now func() time.Time) Option {
	return func(t *Tracker) { t.now = now }
}

func NewTracker(store ports.ProgramStore, cfg domain.ProgramConfig, opts ...Option) *Tracker {
	if cfg.MaxSemester <= 0 {
		cfg.MaxSemester = cfg.RegularStudyPeriod
	}
	if cfg.MaxSemester <= 0 {
		cfg.MaxSemester = domain.DefaultRegularStudyPeriod
	}

	t := &Tracker{
		store: store,
		cfg:   cfg,
		log:   logger.Component("tracker"),
		now:   time.Now,
	}
	for _, opt := range opts {
		opt(t)
	}
	t.program = t.fresh()
	return t
}

// Open loads the stored program. Missing data yields a fresh program silently;
// unreadable or undecodable data yields a fresh program too, and the cause is
// kept for Recovered. Only context cancellation is returned.
func (t *Tracker) Open(ctx context.Context) error {
	t.recovered = nil

	doc, ok, err := t.store.Load(ctx)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		t.fallback(err)
		return nil
	}
	if !ok {
		t.program = t.fresh()
		t.log.Info("tracker.load.empty")
		return nil
	}

	p, err := codec.Decode(doc)
	if err != nil {
		t.fallback(err)
		return nil
	}

	t.program = p
	t.log.Info("tracker.load.ok",
		"program", p.Name,
		"semesters", len(p.Semesters()),
		"modules", len(p.Modules()),
	)
	return nil
}

func (t *Tracker) fallback(err error) {
	t.recovered = err
	t.program = t.fresh()
	t.log.Warn("tracker.load.fallback", "error", err.Error())
}

func (t *Tracker) fresh() *domain.StudyProgram {
	return domain.NewStudyProgram(t.cfg.Name, t.cfg.RegularStudyPeriod)
}

// Recovered is the error that made Open fall back to a fresh program, if any.
func (t *Tracker) Recovered() error { return t.recovered }

func (t *Tracker) Program() *domain.StudyProgram { return t.program }

func (t *Tracker) Summary() analytics.Summary { return analytics.Summarize(t.program) }

// Snapshot is the encoded program, as it would be persisted.
func (t *Tracker) Snapshot() codec.Value { return codec.Encode(t.program) }

// MaxSemester is the configured upper bound for semester numbers.
func (t *Tracker) MaxSemester() int { return t.cfg.MaxSemester }

func (t *Tracker) AddModule(ctx context.Context, in AddModuleInput) (*domain.Module, error) {
	const op = "tracker.add_module"

	in.Title = strings.TrimSpace(in.Title)
	if err := checkInput(op, in); err != nil {
		return nil, err
	}
	if err := checkSemesterRange(op, in.Semester, t.cfg.MaxSemester); err != nil {
		return nil, err
	}

	m, err := t.program.AddModule(in.Semester, in.Title, in.ECTS)
	if err != nil {
		return nil, err
	}
	t.log.Info("module.added", "semester", in.Semester, "title", m.Title(), "ects", m.ECTS())
	return m, t.persist(ctx, op)
}

func (t *Tracker) RecordExam(ctx context.Context, in RecordExamInput) (domain.ExamPerformance, error) {
	const op = "tracker.record_exam"

	m, err := t.lookup(op, &in.ModuleRef)
	if err != nil {
		return domain.ExamPerformance{}, err
	}

	before := m.Status()
	e, err := m.RecordExam(in.Grade)
	if err != nil {
		// Exhaustion can still flip the status to failed.
		if errors.Is(err, domain.ErrAttemptsExhausted) && m.Status() != before {
			if perr := t.persist(ctx, op); perr != nil {
				return domain.ExamPerformance{}, errors.Join(err, perr)
			}
		}
		return domain.ExamPerformance{}, err
	}

	t.log.Info("exam.recorded",
		"title", m.Title(),
		"attempt", e.Attempt,
		"grade", e.Grade,
		"status", string(m.Status()),
	)
	return e, t.persist(ctx, op)
}

func (t *Tracker) LogLearningTime(ctx context.Context, in LogLearningTimeInput) (domain.LearningTimeEntry, error) {
	const op = "tracker.log_learning_time"

	m, err := t.lookup(op, &in.ModuleRef)
	if err != nil {
		return domain.LearningTimeEntry{}, err
	}
	if err := checkInput(op, in); err != nil {
		return domain.LearningTimeEntry{}, err
	}
	if in.Date.IsZero() {
		in.Date = t.now()
	}

	lt, err := m.RecordLearningTime(in.Date, in.Hours)
	if err != nil {
		return domain.LearningTimeEntry{}, err
	}
	t.log.Info("learning_time.logged", "title", m.Title(), "date", lt.Date.Format(domain.DateLayout), "hours", lt.Hours)
	return lt, t.persist(ctx, op)
}

func (t *Tracker) RenameModule(ctx context.Context, in RenameModuleInput) error {
	const op = "tracker.rename_module"

	in.NewTitle = strings.TrimSpace(in.NewTitle)
	m, err := t.lookup(op, &in.ModuleRef)
	if err != nil {
		return err
	}
	if err := checkInput(op, in); err != nil {
		return err
	}

	s, err := t.program.LookupSemester(in.Semester)
	if err != nil {
		return err
	}
	old := m.Title()
	if err := s.RenameModule(m, in.NewTitle); err != nil {
		return err
	}
	t.log.Info("module.renamed", "semester", in.Semester, "from", old, "to", m.Title())
	return t.persist(ctx, op)
}

func (t *Tracker) ChangeECTS(ctx context.Context, in ChangeECTSInput) error {
	const op = "tracker.change_ects"

	m, err := t.lookup(op, &in.ModuleRef)
	if err != nil {
		return err
	}
	if err := checkInput(op, in); err != nil {
		return err
	}
	if err := m.ChangeECTS(in.ECTS); err != nil {
		return err
	}
	t.log.Info("module.ects_changed", "title", m.Title(), "ects", in.ECTS)
	return t.persist(ctx, op)
}

func (t *Tracker) MoveModule(ctx context.Context, in MoveModuleInput) error {
	const op = "tracker.move_module"

	m, err := t.lookup(op, &in.ModuleRef)
	if err != nil {
		return err
	}
	if err := checkInput(op, in); err != nil {
		return err
	}
	if err := checkSemesterRange(op, in.To, t.cfg.MaxSemester); err != nil {
		return err
	}
	if err := t.program.MoveModule(m, in.Semester, in.To); err != nil {
		return err
	}
	t.log.Info("module.moved", "title", m.Title(), "from", in.Semester, "to", in.To)
	return t.persist(ctx, op)
}

func (t *Tracker) DeleteModule(ctx context.Context, ref ModuleRef) error {
	const op = "tracker.delete_module"

	m, err := t.lookup(op, &ref)
	if err != nil {
		return err
	}
	s, err := t.program.LookupSemester(ref.Semester)
	if err != nil {
		return err
	}
	if err := s.DeleteModule(m); err != nil {
		return err
	}
	t.log.Info("module.deleted", "semester", ref.Semester, "title", m.Title())
	return t.persist(ctx, op)
}

// lookup validates the reference and resolves it top-down.
func (t *Tracker) lookup(op string, ref *ModuleRef) (*domain.Module, error) {
	ref.Title = strings.TrimSpace(ref.Title)
	if err := checkInput(op, *ref); err != nil {
		return nil, err
	}

	s, err := t.program.LookupSemester(ref.Semester)
	if err != nil {
		return nil, err
	}
	return s.LookupModule(ref.Title)
}

// persist saves the whole snapshot. On failure the in-memory change stays and
// the caller gets a storage error.
func (t *Tracker) persist(ctx context.Context, op string) error {
	err := t.store.Save(ctx, codec.Encode(t.program))
	if err == nil {
		return nil
	}

	t.log.Error("store.save.failed", "op", op, "error", err.Error())
	if !errors.Is(err, domain.ErrStorageUnavailable) {
		err = fmt.Errorf("%w: %w", domain.ErrStorageUnavailable, err)
	}
	return &domain.OpError{Op: op, Kind: domain.KindStorage, Err: err}
}
