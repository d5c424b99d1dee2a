package models

import (
	"bytes"
	"fmt"
	"strconv"
	"time"
)

// naiveLayout is how the backend writes datetimes stored without a timezone.
const naiveLayout = "2006-01-02T15:04:05.999999999"

// Timestamp is a backend datetime. Values carrying an offset are read as
// RFC 3339, values without one are taken as local time.
type Timestamp struct {
	time.Time
}

func (t *Timestamp) UnmarshalJSON(b []byte) error {
	if bytes.Equal(b, []byte("null")) {
		t.Time = time.Time{}
		return nil
	}
	s, err := strconv.Unquote(string(b))
	if err != nil {
		return fmt.Errorf("timestamp %s is not a string: %w", b, err)
	}
	if s == "" {
		t.Time = time.Time{}
		return nil
	}

	if parsed, err := time.Parse(time.RFC3339Nano, s); err == nil {
		t.Time = parsed
		return nil
	}
	parsed, err := time.ParseInLocation(naiveLayout, s, time.Local)
	if err != nil {
		return fmt.Errorf("parsing timestamp %q: %w", s, err)
	}
	t.Time = parsed
	return nil
}
