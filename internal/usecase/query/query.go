// Package query evaluates JSONPath expressions against the encoded program,
// e.g. `$.semesters[*].modules[?(@.status=="passed")].title`.
package query

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/PaesslerAG/jsonpath"

	"github.com/B3ttiK0nf3ti/studyprogram-dashboard/internal/domain"
)

// Result is one evaluated expression.
type Result struct {
	Expr  string
	Value any
}

// Eval runs expr against doc. doc is normalized through JSON first so that
// numbers compare the same way whatever store produced them.
//
// Policy:
// - empty expression or jsonpath syntax error -> validation error
// - nil, empty string, empty list or empty object -> not found
func Eval(doc map[string]any, expr string) (Result, error) {
	const op = "query.eval"

	expr = strings.TrimSpace(expr)
	if expr == "" {
		return Result{}, &domain.OpError{Op: op, Kind: domain.KindValidation,
			Err: fmt.Errorf("empty jsonpath expression: %w", domain.ErrValidation)}
	}

	norm, err := normalize(doc)
	if err != nil {
		return Result{}, &domain.OpError{Op: op, Kind: domain.KindMalformed,
			Err: fmt.Errorf("%w: %w", domain.ErrMalformedData, err)}
	}

	val, err := jsonpath.Get(expr, norm)
	if err != nil {
		return Result{}, &domain.OpError{Op: op, Kind: domain.KindValidation, Path: expr,
			Err: fmt.Errorf("jsonpath error: %v: %w", err, domain.ErrValidation)}
	}
	if isEmptyValue(val) {
		return Result{}, &domain.OpError{Op: op, Kind: domain.KindNotFound, Path: expr,
			Err: fmt.Errorf("no value found: %w", domain.ErrNotFound)}
	}
	return Result{Expr: expr, Value: val}, nil
}

// Text renders the value for a terminal: scalars bare, a single-element list
// as its element, anything else as compact JSON.
func (r Result) Text() (string, error) {
	return toString(r.Value)
}

func normalize(doc map[string]any) (any, error) {
	b, err := json.Marshal(doc)
	if err != nil {
		return nil, err
	}
	var out any
	if err := json.Unmarshal(b, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func isEmptyValue(v any) bool {
	if v == nil {
		return true
	}
	switch t := v.(type) {
	case string:
		return t == ""
	case []any:
		return len(t) == 0
	case map[string]any:
		return len(t) == 0
	default:
		return false
	}
}

func toString(v any) (string, error) {
	if arr, ok := v.([]any); ok && len(arr) == 1 {
		return toString(arr[0])
	}

	switch t := v.(type) {
	case string:
		return t, nil
	case float64, bool, int, int64:
		return fmt.Sprint(t), nil
	default:
		b, err := json.Marshal(t)
		if err != nil {
			return "", err
		}
		return string(b), nil
	}
}
