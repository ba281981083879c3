package motor

import (
	"errors"
	"time"

	"github.com/pb33f/harscope/motor/model"
)

// TimeDomain is the shared time scale of a capture.
type TimeDomain struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`

	// TotalTime is End - Start in milliseconds, always > 0 for a valid domain.
	TotalTime float64 `json:"totalTime"`
}

// Offset returns how many milliseconds after Start t happened.
func (d TimeDomain) Offset(t time.Time) float64 {
	return model.ToMillis(t.Sub(d.Start))
}

// ComputeTimeDomain derives the start, end and total duration of a capture.
// Start is the first entry's start (entries are pre-sorted); End is the latest
// entry completion, extended to the first page's onLoad when that fires later.
func ComputeTimeDomain(capture *model.Capture) (TimeDomain, error) {
	if capture == nil || len(capture.Log.Entries) == 0 {
		return TimeDomain{}, &InvalidDomainError{Reason: "capture has no entries"}
	}

	entries := capture.Log.Entries
	start, end, err := entrySpan(0, &entries[0])
	if err != nil {
		return TimeDomain{}, err
	}

	for i := 1; i < len(entries); i++ {
		_, entryEnd, err := entrySpan(i, &entries[i])
		if err != nil {
			return TimeDomain{}, err
		}
		if entryEnd.After(end) {
			end = entryEnd
		}
	}

	if page := capture.FirstPage(); page != nil {
		onLoad := start.Add(model.Millis(page.PageTimings.OnLoad))
		if onLoad.After(end) {
			end = onLoad
		}
	}

	domain := TimeDomain{
		Start:     start,
		End:       end,
		TotalTime: model.ToMillis(end.Sub(start)),
	}
	if domain.TotalTime <= 0 {
		return TimeDomain{}, &InvalidDomainError{Reason: "total duration is not positive"}
	}
	return domain, nil
}

// entrySpan validates an entry's timing fields and returns when it started and ended.
func entrySpan(index int, entry *model.Entry) (time.Time, time.Time, error) {
	if missing := entry.Missing(); len(missing) > 0 {
		return time.Time{}, time.Time{}, &InvalidEntryError{
			Index: index,
			Field: missing[0],
			Err:   errors.New("required field is missing"),
		}
	}

	start, err := entry.StartTime()
	if err != nil {
		return time.Time{}, time.Time{}, &InvalidEntryError{Index: index, Field: model.FieldStartedDateTime, Err: err}
	}

	if entry.Time < 0 {
		return time.Time{}, time.Time{}, &InvalidEntryError{
			Index: index,
			Field: model.FieldTime,
			Err:   errors.New("duration is negative"),
		}
	}

	return start, start.Add(model.Millis(entry.Time)), nil
}
