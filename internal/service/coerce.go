package service

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
	"tarc-profile-bot/internal/domain"
)

// parseKey accepts a positive whole number given as a JSON number or a
// numeric string. Anything else is ErrInvalidKey.
func parseKey(v any) (domain.PlayerID, error) {
	f, ok := toFloat(v)
	if !ok || math.IsNaN(f) || math.IsInf(f, 0) || f <= 0 || f != math.Trunc(f) || f >= math.MaxInt64 {
		return 0, ErrInvalidKey
	}
	// large ids lose precision through float64, so reparse exactly when possible
	if s, isText := numberText(v); isText {
		if n, err := strconv.ParseInt(s, 10, 64); err == nil {
			return domain.PlayerID(n), nil
		}
	}
	return domain.PlayerID(int64(f)), nil
}

// coerceCount never fails: malformed, negative, and non-finite values become 0
// and fractions are floored.
func coerceCount(v any) int64 {
	f, ok := toFloat(v)
	if !ok || math.IsNaN(f) || math.IsInf(f, 0) || f <= 0 {
		return 0
	}
	if f >= math.MaxInt64 {
		return math.MaxInt64
	}
	return int64(math.Floor(f))
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case json.Number:
		f, err := strconv.ParseFloat(n.String(), 64)
		return f, err == nil
	case string:
		s := strings.TrimSpace(n)
		if s == "" {
			return 0, false
		}
		f, err := strconv.ParseFloat(s, 64)
		return f, err == nil
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	default:
		return 0, false
	}
}

func numberText(v any) (string, bool) {
	switch n := v.(type) {
	case json.Number:
		return n.String(), true
	case string:
		return strings.TrimSpace(n), true
	case int:
		return strconv.Itoa(n), true
	case int64:
		return strconv.FormatInt(n, 10), true
	default:
		return "", false
	}
}
