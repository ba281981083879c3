package model

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"

	"github.com/pb33f/harhar"
)

const (
	FieldStartedDateTime = "startedDateTime"
	FieldTime            = "time"
)

// requiredEntryFields cannot be defaulted; an entry without them has no place on a timeline.
var requiredEntryFields = []string{FieldStartedDateTime, FieldTime}

// Entry is one request/response pair. It embeds the HAR 1.2 entry and remembers
// which required fields were absent from the decoded document, because a zero
// time and a missing time look the same once decoded.
type Entry struct {
	harhar.Entry

	missing []string
}

// UnmarshalJSON decodes the HAR entry and records absent required fields.
func (e *Entry) UnmarshalJSON(data []byte) error {
	var present map[string]json.RawMessage
	if err := json.Unmarshal(data, &present); err != nil {
		return err
	}

	var inner harhar.Entry
	if err := json.Unmarshal(data, &inner); err != nil {
		return err
	}

	e.Entry = inner
	e.missing = nil
	for _, field := range requiredEntryFields {
		raw, ok := present[field]
		if !ok || bytes.Equal(bytes.TrimSpace(raw), []byte("null")) {
			e.missing = append(e.missing, field)
		}
	}
	return nil
}

// Missing returns the required fields that were absent when the entry was decoded.
func (e *Entry) Missing() []string {
	return e.missing
}

// StartTime parses startedDateTime (ISO 8601, fractional seconds optional).
func (e *Entry) StartTime() (time.Time, error) {
	if e.Start == "" {
		return time.Time{}, fmt.Errorf("%s is empty", FieldStartedDateTime)
	}
	t, err := time.Parse(time.RFC3339Nano, e.Start)
	if err != nil {
		return time.Time{}, fmt.Errorf("cannot parse %s %q: %w", FieldStartedDateTime, e.Start, err)
	}
	return t, nil
}

// PhaseDuration returns the recorded duration of a phase in milliseconds.
// Absent phases read as zero and "not applicable" phases as negative.
func (e *Entry) PhaseDuration(p Phase) float64 {
	return p.Duration(&e.Timings)
}

// Millis converts a millisecond offset into a time.Duration.
func Millis(ms float64) time.Duration {
	return time.Duration(ms * float64(time.Millisecond))
}

// ToMillis converts a time.Duration into fractional milliseconds.
func ToMillis(d time.Duration) float64 {
	return float64(d) / float64(time.Millisecond)
}
