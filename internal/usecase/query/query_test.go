package query

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/B3ttiK0nf3ti/studyprogram-dashboard/internal/codec"
	"github.com/B3ttiK0nf3ti/studyprogram-dashboard/internal/domain"
)

func sampleDoc(t *testing.T) map[string]any {
	t.Helper()
	p := domain.NewStudyProgram("Informatik", 6)
	m, err := p.AddModule(1, "Mathe", 5)
	require.NoError(t, err)
	_, err = m.RecordExam(1.3)
	require.NoError(t, err)
	_, err = p.AddModule(1, "BWL", 10)
	require.NoError(t, err)
	return codec.Encode(p)
}

func TestEval_Scalar(t *testing.T) {
	r, err := Eval(sampleDoc(t), "$.name")
	require.NoError(t, err)

	s, err := r.Text()
	require.NoError(t, err)
	assert.Equal(t, "Informatik", s)
}

func TestEval_FilterReturnsTitles(t *testing.T) {
	r, err := Eval(sampleDoc(t), `$.semesters[*].modules[?(@.status=="open")].title`)
	require.NoError(t, err)

	s, err := r.Text()
	require.NoError(t, err)
	assert.Equal(t, "BWL", s)

	r, err = Eval(sampleDoc(t), `$.semesters[0].modules[*].ects`)
	require.NoError(t, err)
	s, err = r.Text()
	require.NoError(t, err)
	assert.Equal(t, "[5,10]", s)
}

func TestEval_Errors(t *testing.T) {
	doc := sampleDoc(t)

	_, err := Eval(doc, "  ")
	assert.True(t, domain.IsKind(err, domain.KindValidation))

	_, err = Eval(doc, "$.[")
	assert.ErrorIs(t, err, domain.ErrValidation)

	_, err = Eval(doc, `$.semesters[*].modules[?(@.status=="failed")].title`)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
