package domain

import (
	"fmt"
	"slices"
	"strconv"
)

// DefaultRegularStudyPeriod is the planned number of semesters when none is configured.
const DefaultRegularStudyPeriod = 6

// MaxRegularStudyPeriod caps the planned number of semesters.
const MaxRegularStudyPeriod = 30

// Semester groups the modules taken in one term. Titles are unique per semester.
type Semester struct {
	number  int
	modules []*Module
}

func newSemester(number int) (*Semester, error) {
	if number <= 0 {
		return nil, fmt.Errorf("%d: %w", number, ErrInvalidSemester)
	}
	return &Semester{number: number, modules: []*Module{}}, nil
}

// RestoreSemester rebuilds a semester from persisted modules, rejecting duplicate titles.
func RestoreSemester(number int, modules []*Module) (*Semester, error) {
	const op = "domain.restore_semester"

	s, err := newSemester(number)
	if err != nil {
		return nil, opErr(op, KindValidation, strconv.Itoa(number), err)
	}
	for _, m := range modules {
		if _, dup := s.Module(m.title); dup {
			return nil, opErr(op, KindConflict, strconv.Itoa(number), fmt.Errorf("%q: %w", m.title, ErrDuplicateModule))
		}
		s.modules = append(s.modules, m)
	}
	return s, nil
}

func (s *Semester) Number() int { return s.number }

// Modules returns the semester's modules in insertion order.
func (s *Semester) Modules() []*Module {
	return slices.Clone(s.modules)
}

// Module finds a module by normalized title.
func (s *Semester) Module(title string) (*Module, bool) {
	key := NormalizeTitle(title)
	for _, m := range s.modules {
		if m.NormalizedTitle() == key {
			return m, true
		}
	}
	return nil, false
}

// LookupModule is Module with a NotFound error instead of a bool.
func (s *Semester) LookupModule(title string) (*Module, error) {
	m, ok := s.Module(title)
	if !ok {
		return nil, opErr("domain.lookup_module", KindNotFound, strconv.Itoa(s.number),
			fmt.Errorf("module %q: %w", title, ErrNotFound))
	}
	return m, nil
}

func (s *Semester) indexOf(m *Module) int {
	return slices.Index(s.modules, m)
}

// RenameModule changes a module's display title if the normalized title stays unique.
func (s *Semester) RenameModule(m *Module, newTitle string) error {
	const op = "domain.rename_module"

	if s.indexOf(m) < 0 {
		return opErr(op, KindNotFound, strconv.Itoa(s.number), fmt.Errorf("module %q: %w", m.title, ErrNotFound))
	}
	if other, ok := s.Module(newTitle); ok && other != m {
		return opErr(op, KindConflict, strconv.Itoa(s.number), fmt.Errorf("%q: %w", newTitle, ErrDuplicateModule))
	}
	m.title = newTitle
	return nil
}

// DeleteModule releases the module from this semester.
func (s *Semester) DeleteModule(m *Module) error {
	i := s.indexOf(m)
	if i < 0 {
		return opErr("domain.delete_module", KindNotFound, strconv.Itoa(s.number),
			fmt.Errorf("module %q: %w", m.title, ErrNotFound))
	}
	s.modules = slices.Delete(s.modules, i, i+1)
	return nil
}

// StudyProgram is the root aggregate. It owns every semester exclusively.
type StudyProgram struct {
	Name               string
	RegularStudyPeriod int

	semesters []*Semester
}

func NewStudyProgram(name string, regularStudyPeriod int) *StudyProgram {
	if regularStudyPeriod <= 0 {
		regularStudyPeriod = DefaultRegularStudyPeriod
	}
	return &StudyProgram{
		Name:               name,
		RegularStudyPeriod: regularStudyPeriod,
		semesters:          []*Semester{},
	}
}

// Semesters returns the semesters in the order they were created.
func (p *StudyProgram) Semesters() []*Semester {
	return slices.Clone(p.semesters)
}

// Semester finds a semester by number.
func (p *StudyProgram) Semester(number int) (*Semester, bool) {
	for _, s := range p.semesters {
		if s.number == number {
			return s, true
		}
	}
	return nil, false
}

// LookupSemester is Semester with a NotFound error instead of a bool.
func (p *StudyProgram) LookupSemester(number int) (*Semester, error) {
	s, ok := p.Semester(number)
	if !ok {
		return nil, opErr("domain.lookup_semester", KindNotFound, strconv.Itoa(number),
			fmt.Errorf("semester %d: %w", number, ErrNotFound))
	}
	return s, nil
}

// EnsureSemester finds or creates (and appends) the semester with the given number.
func (p *StudyProgram) EnsureSemester(number int) (*Semester, error) {
	if s, ok := p.Semester(number); ok {
		return s, nil
	}
	s, err := newSemester(number)
	if err != nil {
		return nil, opErr("domain.ensure_semester", KindValidation, strconv.Itoa(number), err)
	}
	p.semesters = append(p.semesters, s)
	return s, nil
}

// AttachSemester adds a reconstructed semester; numbers must stay unique.
func (p *StudyProgram) AttachSemester(s *Semester) error {
	if _, dup := p.Semester(s.number); dup {
		return opErr("domain.attach_semester", KindConflict, strconv.Itoa(s.number),
			fmt.Errorf("semester %d appears twice: %w", s.number, ErrMalformedData))
	}
	p.semesters = append(p.semesters, s)
	return nil
}

// AddModule finds-or-creates the semester and adds an open module to it.
func (p *StudyProgram) AddModule(semesterNumber int, title string, ects int) (*Module, error) {
	const op = "domain.add_module"

	m, err := newModule(title, ects)
	if err != nil {
		return nil, opErr(op, KindValidation, title, err)
	}
	if semesterNumber <= 0 {
		return nil, opErr(op, KindValidation, strconv.Itoa(semesterNumber),
			fmt.Errorf("%d: %w", semesterNumber, ErrInvalidSemester))
	}
	if s, ok := p.Semester(semesterNumber); ok {
		if _, dup := s.Module(title); dup {
			return nil, opErr(op, KindConflict, strconv.Itoa(semesterNumber), fmt.Errorf("%q: %w", title, ErrDuplicateModule))
		}
	}

	s, err := p.EnsureSemester(semesterNumber)
	if err != nil {
		return nil, err
	}
	s.modules = append(s.modules, m)
	return m, nil
}

// MoveModule transfers ownership of m from one semester to another, creating the
// target if needed. Only the target semester is checked for a title collision.
func (p *StudyProgram) MoveModule(m *Module, from, to int) error {
	const op = "domain.move_module"

	src, err := p.LookupSemester(from)
	if err != nil {
		return err
	}
	if src.indexOf(m) < 0 {
		return opErr(op, KindNotFound, strconv.Itoa(from), fmt.Errorf("module %q: %w", m.title, ErrNotFound))
	}
	if to <= 0 {
		return opErr(op, KindValidation, strconv.Itoa(to), fmt.Errorf("%d: %w", to, ErrInvalidSemester))
	}
	if from == to {
		return nil
	}
	if s, ok := p.Semester(to); ok {
		if _, dup := s.Module(m.title); dup {
			return opErr(op, KindConflict, strconv.Itoa(to), fmt.Errorf("%q: %w", m.title, ErrDuplicateModule))
		}
	}

	dst, err := p.EnsureSemester(to)
	if err != nil {
		return err
	}
	if err := src.DeleteModule(m); err != nil {
		return err
	}
	dst.modules = append(dst.modules, m)
	return nil
}

// Modules flattens every module across semesters in semester order.
func (p *StudyProgram) Modules() []*Module {
	var out []*Module
	for _, s := range p.semesters {
		out = append(out, s.modules...)
	}
	return out
}

// Progress is the ECTS-weighted share of passed modules in percent, 0 without modules.
func (p *StudyProgram) Progress() float64 {
	var passed, total int
	for _, m := range p.Modules() {
		total += m.ects
		if m.status == StatusPassed {
			passed += m.ects
		}
	}
	if total == 0 {
		return 0
	}
	return 100 * float64(passed) / float64(total)
}
