package motor

import (
	"fmt"
	"strings"
)

// InvalidDomainError reports a capture that has no usable time span: no
// entries at all, or a total duration that is not positive.
type InvalidDomainError struct {
	Reason string
}

func (e *InvalidDomainError) Error() string {
	return "invalid time domain: " + e.Reason
}

// InvalidEntryError reports an entry whose timing fields cannot be placed on a
// timeline. Index is the position of the entry in the capture.
type InvalidEntryError struct {
	Index int
	Field string
	Err   error
}

func (e *InvalidEntryError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "invalid entry %d", e.Index)
	if e.Field != "" {
		fmt.Fprintf(&b, ": field %s", e.Field)
	}
	if e.Err != nil {
		fmt.Fprintf(&b, ": %v", e.Err)
	}
	return b.String()
}

func (e *InvalidEntryError) Unwrap() error {
	return e.Err
}

// InsufficientWidthError reports a layout budget that leaves no room for bars,
// or that gives a label area a negative width. Area names the offending area;
// empty means the bar area.
type InsufficientWidthError struct {
	BarAreaWidth float64
	Area         string
	Width        float64
}

func (e *InsufficientWidthError) Error() string {
	if e.Area != "" {
		return fmt.Sprintf("insufficient width: %s is %g units", e.Area, e.Width)
	}
	return fmt.Sprintf("insufficient width: bar area would be %g units", e.BarAreaWidth)
}

// InvalidSizeError reports a negative byte count passed to size formatting.
type InvalidSizeError struct {
	Bytes int64
}

func (e *InvalidSizeError) Error() string {
	return fmt.Sprintf("invalid size: %d bytes", e.Bytes)
}
