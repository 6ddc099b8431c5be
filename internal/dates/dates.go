// Package dates coerces loosely typed document attributes into timestamps.
// Front matter decoders hand dates over as time.Time, strings or numbers
// depending on the source format, so the paginator and the collection builder
// share one coercion rule.
package dates

import (
	"encoding/json"
	"math"
	"strings"
	"time"

	"github.com/araddon/dateparse"
)

// Parse converts value into a timestamp. Numbers are read as Unix
// milliseconds. Strings accept the loose forms dateparse understands (year
// only, month names, slashed and US ordered dates); those without an explicit
// offset are interpreted in loc (UTC when loc is nil). Missing, zero or unparseable values report false.
func Parse(value any, loc *time.Location) (time.Time, bool) {
	if loc == nil {
		loc = time.UTC
	}

	switch v := value.(type) {
	case nil:
		return time.Time{}, false
	case time.Time:
		return v, !v.IsZero()
	case *time.Time:
		if v == nil {
			return time.Time{}, false
		}
		return *v, !v.IsZero()
	case string:
		return parseString(v, loc)
	case []byte:
		return parseString(string(v), loc)
	case json.Number:
		if ms, err := v.Int64(); err == nil {
			return fromMillis(ms, loc)
		}
		if f, err := v.Float64(); err == nil {
			return fromFloat(f, loc)
		}
		return time.Time{}, false
	case int:
		return fromMillis(int64(v), loc)
	case int32:
		return fromMillis(int64(v), loc)
	case int64:
		return fromMillis(v, loc)
	case uint:
		return fromMillis(int64(v), loc)
	case uint32:
		return fromMillis(int64(v), loc)
	case uint64:
		if v > math.MaxInt64 {
			return time.Time{}, false
		}
		return fromMillis(int64(v), loc)
	case float32:
		return fromFloat(float64(v), loc)
	case float64:
		return fromFloat(v, loc)
	default:
		return time.Time{}, false
	}
}

// Year returns the calendar year of value, using the same rules as Parse.
func Year(value any, loc *time.Location) (int, bool) {
	t, ok := Parse(value, loc)
	if !ok {
		return 0, false
	}
	return t.Year(), true
}

func parseString(raw string, loc *time.Location) (time.Time, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, false
	}
	t, err := dateparse.ParseIn(raw, loc)
	if err != nil {
		return time.Time{}, false
	}
	return t, !t.IsZero()
}

func fromMillis(ms int64, loc *time.Location) (time.Time, bool) {
	if ms == 0 {
		return time.Time{}, false
	}
	return time.UnixMilli(ms).In(loc), true
}

func fromFloat(f float64, loc *time.Location) (time.Time, bool) {
	if f == 0 || math.IsNaN(f) || math.IsInf(f, 0) {
		return time.Time{}, false
	}
	if f > math.MaxInt64 || f < math.MinInt64 {
		return time.Time{}, false
	}
	return fromMillis(int64(f), loc)
}
