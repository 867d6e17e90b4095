package helper_util

import (
	"fmt"
	"time"
)

// ParseOptionalTime parses an RFC3339 query value; empty means zero time.
func ParseOptionalTime(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	return time.Parse(time.RFC3339, s)
}

// ParseStoredTime reads a timestamp property coming back from the graph
// store, which may hold either a native time or an RFC3339 string.
func ParseStoredTime(value interface{}) (time.Time, error) {
	switch v := value.(type) {
	case nil:
		return time.Time{}, nil
	case time.Time:
		return v, nil
	case string:
		return time.Parse(time.RFC3339, v)
	default:
		return time.Time{}, fmt.Errorf("unsupported type for time parsing: %T", value)
	}
}
