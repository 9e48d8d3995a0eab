package usecase

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/B3ttiK0nf3ti/studyprogram-dashboard/internal/domain"
)

var validate = validator.New()

// fieldErrors maps an input field to the domain error its violation means.
var fieldErrors = map[string]error{
	"Semester": domain.ErrInvalidSemester,
	"From":     domain.ErrInvalidSemester,
	"To":       domain.ErrInvalidSemester,
	"ECTS":     domain.ErrInvalidECTS,
	"Grade":    domain.ErrInvalidGrade,
	"Hours":    domain.ErrInvalidDuration,
}

// checkInput runs struct tags and converts the first violation into a
// validation OpError carrying the matching domain sentinel.
func checkInput(op string, in any) error {
	err := validate.Struct(in)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return &domain.OpError{Op: op, Kind: domain.KindValidation, Err: fmt.Errorf("%w: %w", domain.ErrValidation, err)}
	}

	fe := verrs[0]
	cause, ok := fieldErrors[fe.Field()]
	if !ok {
		cause = domain.ErrValidation
	}
	return &domain.OpError{
		Op:   op,
		Kind: domain.KindValidation,
		Path: strings.ToLower(fe.Field()),
		Err:  fmt.Errorf("%s=%v violates %q: %w", fe.Field(), fe.Value(), fe.Tag(), cause),
	}
}

// checkSemesterRange applies the configured upper bound, which struct tags
// cannot carry.
func checkSemesterRange(op string, number, limit int) error {
	if err := validate.Var(number, fmt.Sprintf("min=1,max=%d", limit)); err != nil {
		return &domain.OpError{
			Op:   op,
			Kind: domain.KindValidation,
			Path: "semester",
			Err:  fmt.Errorf("semester %d outside 1..%d: %w", number, limit, domain.ErrInvalidSemester),
		}
	}
	return nil
}
