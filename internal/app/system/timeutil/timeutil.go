// Package timeutil normalizes the heterogeneous timestamp shapes found in
// task documents into a single canonical time.Time.
//
// Tasks have been written by several client generations, so a date field can
// arrive as a native BSON date, an ISO-8601 string, an epoch-millis number,
// or an exported {seconds,nanoseconds} wrapper. Coerce is the single
// conversion point; nothing else in the codebase may compare raw values.
package timeutil

import (
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// stringLayouts are tried in order when coercing a string value.
var stringLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// Coerce converts any of the supported timestamp shapes into a UTC time.
// The second return is false when the value is absent or unparseable;
// callers must then exclude the task from date-bounded calculations
// instead of guessing.
func Coerce(v any) (time.Time, bool) {
	switch t := v.(type) {
	case nil:
		return time.Time{}, false
	case time.Time:
		if t.IsZero() {
			return time.Time{}, false
		}
		return t.UTC(), true
	case *time.Time:
		if t == nil {
			return time.Time{}, false
		}
		return Coerce(*t)
	case primitive.DateTime:
		if t == 0 {
			return time.Time{}, false
		}
		return t.Time().UTC(), true
	case primitive.Timestamp:
		if t.T == 0 {
			return time.Time{}, false
		}
		return time.Unix(int64(t.T), 0).UTC(), true
	case string:
		for _, layout := range stringLayouts {
			if parsed, err := time.Parse(layout, t); err == nil {
				return parsed.UTC(), true
			}
		}
		return time.Time{}, false
	case int64:
		return fromEpoch(t)
	case int32:
		return fromEpoch(int64(t))
	case int:
		return fromEpoch(int64(t))
	case float64:
		return fromEpoch(int64(t))
	case map[string]any:
		return fromSecondsDoc(t["seconds"], t["nanoseconds"])
	case bson.M:
		return fromSecondsDoc(t["seconds"], t["nanoseconds"])
	case bson.D:
		m := make(map[string]any, len(t))
		for _, e := range t {
			m[e.Key] = e.Value
		}
		return fromSecondsDoc(m["seconds"], m["nanoseconds"])
	default:
		return time.Time{}, false
	}
}

// fromEpoch interprets a raw number as epoch millis, falling back to epoch
// seconds for values too small to be a plausible millisecond timestamp.
func fromEpoch(n int64) (time.Time, bool) {
	if n <= 0 {
		return time.Time{}, false
	}
	// Epoch seconds for anything before ~2001 in millis terms.
	if n < 1e12 {
		return time.Unix(n, 0).UTC(), true
	}
	return time.UnixMilli(n).UTC(), true
}

// fromSecondsDoc handles the exported {seconds,nanoseconds} wrapper shape.
func fromSecondsDoc(secs, nanos any) (time.Time, bool) {
	s, ok := asInt64(secs)
	if !ok || s <= 0 {
		return time.Time{}, false
	}
	ns, _ := asInt64(nanos)
	return time.Unix(s, ns).UTC(), true
}

func asInt64(v any) (int64, bool) {
	switch n := v.(type) {
	case int64:
		return n, true
	case int32:
		return int64(n), true
	case int:
		return int64(n), true
	case float64:
		return int64(n), true
	default:
		return 0, false
	}
}
