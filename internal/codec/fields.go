package codec

import (
	"encoding/json"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/B3ttiK0nf3ti/studyprogram-dashboard/internal/domain"
)

// Numbers arrive as int from Go callers and YAML, float64 from encoding/json,
// and json.Number when a decoder uses UseNumber.

func missing(path string) error {
	return malformed(path, fmt.Errorf("field %s is required: %w", path, domain.ErrMalformedData))
}

func wrongType(path, want string, got any) error {
	return malformed(path, fmt.Errorf("field %s: expected %s, got %T: %w", path, want, got, domain.ErrMalformedData))
}

func asObject(raw any, path string) (map[string]any, error) {
	obj, ok := raw.(map[string]any)
	if !ok {
		return nil, wrongType(path, "object", raw)
	}
	return obj, nil
}

func requireString(obj map[string]any, key, path string) (string, error) {
	raw, ok := obj[key]
	if !ok || raw == nil {
		return "", missing(path)
	}
	s, ok := raw.(string)
	if !ok {
		return "", wrongType(path, "string", raw)
	}
	return s, nil
}

func requireBool(obj map[string]any, key, path string) (bool, error) {
	raw, ok := obj[key]
	if !ok || raw == nil {
		return false, missing(path)
	}
	b, ok := raw.(bool)
	if !ok {
		return false, wrongType(path, "bool", raw)
	}
	return b, nil
}

func requireFloat(obj map[string]any, key, path string) (float64, error) {
	raw, ok := obj[key]
	if !ok || raw == nil {
		return 0, missing(path)
	}
	f, ok := toFloat(raw)
	if !ok || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, wrongType(path, "number", raw)
	}
	return f, nil
}

func requireInt(obj map[string]any, key, path string) (int, error) {
	raw, ok := obj[key]
	if !ok || raw == nil {
		return 0, missing(path)
	}
	switch n := raw.(type) {
	case int:
		return n, nil
	case int32:
		return int(n), nil
	case int64:
		return int(n), nil
	case uint64:
		if n <= math.MaxInt32 {
			return int(n), nil
		}
	default:
		if f, ok := toFloat(raw); ok && f == math.Trunc(f) && math.Abs(f) <= math.MaxInt32 {
			return int(f), nil
		}
	}
	return 0, wrongType(path, "integer", raw)
}

func requireDate(obj map[string]any, key, path string) (time.Time, error) {
	raw, ok := obj[key]
	if !ok || raw == nil {
		return time.Time{}, missing(path)
	}
	switch d := raw.(type) {
	case time.Time:
		return domain.DateOf(d), nil
	case string:
		t, err := time.Parse(domain.DateLayout, strings.TrimSpace(d))
		if err != nil {
			return time.Time{}, malformed(path, fmt.Errorf("field %s: expected YYYY-MM-DD: %w", path, err))
		}
		return t, nil
	default:
		return time.Time{}, wrongType(path, "date string", raw)
	}
}

// optionalList treats an absent or null collection as empty.
func optionalList(obj map[string]any, key, path string) ([]any, error) {
	raw, ok := obj[key]
	if !ok || raw == nil {
		return []any{}, nil
	}
	switch l := raw.(type) {
	case []any:
		return l, nil
	case []map[string]any:
		out := make([]any, len(l))
		for i := range l {
			out[i] = l[i]
		}
		return out, nil
	default:
		return nil, wrongType(path, "list", raw)
	}
}

func toFloat(raw any) (float64, bool) {
	switch n := raw.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint64:
		return float64(n), true
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	default:
		return 0, false
	}
}
