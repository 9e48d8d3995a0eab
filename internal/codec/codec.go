// Package codec converts a domain.StudyProgram to and from a language-neutral
// structured value (maps, slices and primitives) and back.
//
// The codec performs no I/O. Storage adapters marshal the structured value to
// JSON, YAML or a database column.
package codec

import (
	"errors"
	"fmt"

	"github.com/B3ttiK0nf3ti/studyprogram-dashboard/internal/domain"
)

// Value is the structured representation of a study program.
type Value = map[string]any

// Field names of the persisted representation.
const (
	KeyName               = "name"
	KeyRegularStudyPeriod = "regular_study_period"
	KeySemesters          = "semesters"
	KeyNumber             = "number"
	KeyModules            = "modules"
	KeyTitle              = "title"
	KeyECTS               = "ects"
	KeyStatus             = "status"
	KeyExamPerformances   = "exam_performances"
	KeyLearningTimes      = "learning_times"
	KeyGrade              = "grade"
	KeyAttempt            = "attempt"
	KeyPassed             = "passed"
	KeyDate               = "date"
	KeyHours              = "hours"
)

// Encode maps the program graph into a structured value. Order of semesters,
// modules, exams and learning times is preserved.
func Encode(p *domain.StudyProgram) Value {
	semesters := make([]any, 0, len(p.Semesters()))
	for _, s := range p.Semesters() {
		semesters = append(semesters, encodeSemester(s))
	}

	return Value{
		KeyName:               p.Name,
		KeyRegularStudyPeriod: p.RegularStudyPeriod,
		KeySemesters:          semesters,
	}
}

func encodeSemester(s *domain.Semester) map[string]any {
	modules := make([]any, 0, len(s.Modules()))
	for _, m := range s.Modules() {
		modules = append(modules, encodeModule(m))
	}
	return map[string]any{
		KeyNumber:  s.Number(),
		KeyModules: modules,
	}
}

func encodeModule(m *domain.Module) map[string]any {
	exams := make([]any, 0, len(m.ExamPerformances()))
	for _, e := range m.ExamPerformances() {
		exams = append(exams, map[string]any{
			KeyGrade:   e.Grade,
			KeyAttempt: e.Attempt,
			KeyPassed:  e.Passed,
		})
	}

	times := make([]any, 0, len(m.LearningTimes()))
	for _, lt := range m.LearningTimes() {
		times = append(times, map[string]any{
			KeyDate:  lt.Date.Format(domain.DateLayout),
			KeyHours: lt.Hours,
		})
	}

	return map[string]any{
		KeyTitle:            m.Title(),
		KeyECTS:             m.ECTS(),
		KeyStatus:           string(m.Status()),
		KeyExamPerformances: exams,
		KeyLearningTimes:    times,
	}
}

// Decode rebuilds a program from a structured value. Structural problems fail
// with domain.ErrMalformedData; unknown status tags with domain.ErrUnknownStatus.
func Decode(v Value) (*domain.StudyProgram, error) {
	if v == nil {
		return nil, malformed("", fmt.Errorf("empty document: %w", domain.ErrMalformedData))
	}

	name, err := requireString(v, KeyName, KeyName)
	if err != nil {
		return nil, err
	}

	period := domain.DefaultRegularStudyPeriod
	if _, ok := v[KeyRegularStudyPeriod]; ok {
		period, err = requireInt(v, KeyRegularStudyPeriod, KeyRegularStudyPeriod)
		if err != nil {
			return nil, err
		}
		if period < 1 || period > domain.MaxRegularStudyPeriod {
			return nil, malformed(KeyRegularStudyPeriod,
				fmt.Errorf("%d outside 1..%d: %w", period, domain.MaxRegularStudyPeriod, domain.ErrMalformedData))
		}
	}

	p := domain.NewStudyProgram(name, period)

	semesters, err := optionalList(v, KeySemesters, KeySemesters)
	if err != nil {
		return nil, err
	}
	for i, raw := range semesters {
		path := fmt.Sprintf("%s[%d]", KeySemesters, i)
		s, err := decodeSemester(raw, path)
		if err != nil {
			return nil, err
		}
		if err := p.AttachSemester(s); err != nil {
			return nil, malformed(path, err)
		}
	}

	return p, nil
}

func decodeSemester(raw any, path string) (*domain.Semester, error) {
	obj, err := asObject(raw, path)
	if err != nil {
		return nil, err
	}

	number, err := requireInt(obj, KeyNumber, path+"."+KeyNumber)
	if err != nil {
		return nil, err
	}

	rawModules, err := optionalList(obj, KeyModules, path+"."+KeyModules)
	if err != nil {
		return nil, err
	}

	modules := make([]*domain.Module, 0, len(rawModules))
	for i, rm := range rawModules {
		m, err := decodeModule(rm, fmt.Sprintf("%s.%s[%d]", path, KeyModules, i))
		if err != nil {
			return nil, err
		}
		modules = append(modules, m)
	}

	s, err := domain.RestoreSemester(number, modules)
	if err != nil {
		return nil, malformed(path, err)
	}
	return s, nil
}

func decodeModule(raw any, path string) (*domain.Module, error) {
	obj, err := asObject(raw, path)
	if err != nil {
		return nil, err
	}

	title, err := requireString(obj, KeyTitle, path+"."+KeyTitle)
	if err != nil {
		return nil, err
	}
	ects, err := requireInt(obj, KeyECTS, path+"."+KeyECTS)
	if err != nil {
		return nil, err
	}
	tag, err := requireString(obj, KeyStatus, path+"."+KeyStatus)
	if err != nil {
		return nil, err
	}
	status, err := domain.ParseStatus(tag)
	if err != nil {
		return nil, malformed(path+"."+KeyStatus, err)
	}

	exams, err := decodeExams(obj, path+"."+KeyExamPerformances)
	if err != nil {
		return nil, err
	}
	times, err := decodeLearningTimes(obj, path+"."+KeyLearningTimes)
	if err != nil {
		return nil, err
	}

	m, err := domain.RestoreModule(title, ects, status, exams, times)
	if err != nil {
		return nil, malformed(path, err)
	}
	return m, nil
}

func decodeExams(obj map[string]any, path string) ([]domain.ExamPerformance, error) {
	raw, err := optionalList(obj, KeyExamPerformances, path)
	if err != nil {
		return nil, err
	}

	out := make([]domain.ExamPerformance, 0, len(raw))
	for i, r := range raw {
		p := fmt.Sprintf("%s[%d]", path, i)
		e, err := asObject(r, p)
		if err != nil {
			return nil, err
		}
		grade, err := requireFloat(e, KeyGrade, p+"."+KeyGrade)
		if err != nil {
			return nil, err
		}
		attempt, err := requireInt(e, KeyAttempt, p+"."+KeyAttempt)
		if err != nil {
			return nil, err
		}
		passed, err := requireBool(e, KeyPassed, p+"."+KeyPassed)
		if err != nil {
			return nil, err
		}
		out = append(out, domain.ExamPerformance{Grade: grade, Attempt: attempt, Passed: passed})
	}
	return out, nil
}

func decodeLearningTimes(obj map[string]any, path string) ([]domain.LearningTimeEntry, error) {
	raw, err := optionalList(obj, KeyLearningTimes, path)
	if err != nil {
		return nil, err
	}

	out := make([]domain.LearningTimeEntry, 0, len(raw))
	for i, r := range raw {
		p := fmt.Sprintf("%s[%d]", path, i)
		lt, err := asObject(r, p)
		if err != nil {
			return nil, err
		}
		date, err := requireDate(lt, KeyDate, p+"."+KeyDate)
		if err != nil {
			return nil, err
		}
		hours, err := requireFloat(lt, KeyHours, p+"."+KeyHours)
		if err != nil {
			return nil, err
		}
		out = append(out, domain.LearningTimeEntry{Date: date, Hours: hours})
	}
	return out, nil
}

// malformed keeps the cause in the chain and guarantees ErrMalformedData is in it too.
func malformed(path string, err error) error {
	if !errors.Is(err, domain.ErrMalformedData) {
		err = fmt.Errorf("%w: %w", domain.ErrMalformedData, err)
	}
	return &domain.OpError{
		Op:   "codec.decode",
		Kind: domain.KindMalformed,
		Path: path,
		Err:  err,
	}
}
