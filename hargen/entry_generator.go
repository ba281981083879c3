package hargen

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/pb33f/harhar"
	"github.com/pb33f/harscope/motor/model"
)

// startedDateTimeLayout is ISO 8601 with millisecond precision, as browsers record it
const startedDateTimeLayout = "2006-01-02T15:04:05.000Z07:00"

// resourceKind describes one kind of subresource a page load fetches
type resourceKind struct {
	extension string
	mimeType  string
	minSize   int
	maxSize   int
}

var resourceKinds = []resourceKind{
	{".js", "application/javascript", 2_000, 400_000},
	{".css", "text/css", 1_000, 80_000},
	{".png", "image/png", 500, 250_000},
	{".jpg", "image/jpeg", 5_000, 900_000},
	{".woff2", "font/woff2", 10_000, 60_000},
	{".json", "application/json", 100, 20_000},
}

var statuses = []struct {
	code int
	text string
}{
	{200, "OK"}, {200, "OK"}, {200, "OK"}, {200, "OK"},
	{204, "No Content"},
	{301, "Moved Permanently"},
	{304, "Not Modified"},
	{404, "Not Found"},
}

// EntryGenerator creates the entries of a page load with consistent timings:
// each entry's time is the sum of its applicable phases and entries start in
// non-decreasing order.
type EntryGenerator struct {
	dict   *Dictionary
	rng    *rand.Rand
	host   string
	cursor time.Time
}

// NewEntryGenerator creates a generator whose first entry starts at start
func NewEntryGenerator(dict *Dictionary, host string, start time.Time, rng *rand.Rand) *EntryGenerator {
	return &EntryGenerator{
		dict:   dict,
		rng:    rng,
		host:   host,
		cursor: start,
	}
}

// GenerateDocument creates the root document request of the page
func (eg *EntryGenerator) GenerateDocument(pageRef string) model.Entry {
	entry := eg.newEntry(pageRef, "https://"+eg.host+"/", resourceKind{".html", "text/html", 10_000, 120_000})
	eg.setTimings(&entry, true)
	return entry
}

// GenerateEntry creates one subresource request, started a little after the previous one
func (eg *EntryGenerator) GenerateEntry(pageRef string) model.Entry {
	eg.cursor = eg.cursor.Add(time.Duration(eg.rng.Intn(40)) * time.Millisecond)

	kind := resourceKinds[eg.rng.Intn(len(resourceKinds))]
	url := fmt.Sprintf("https://%s/%s%s", eg.host, eg.dict.RandomPath(eg.rng.Intn(4)+1, eg.rng), kind.extension)

	entry := eg.newEntry(pageRef, url, kind)
	// reused connections skip dns and connect
	eg.setTimings(&entry, eg.rng.Intn(4) == 0)
	return entry
}

func (eg *EntryGenerator) newEntry(pageRef, url string, kind resourceKind) model.Entry {
	status := statuses[eg.rng.Intn(len(statuses))]
	size := kind.minSize + eg.rng.Intn(kind.maxSize-kind.minSize+1)
	if status.code == 204 || status.code == 304 {
		size = 0
	}

	return model.Entry{Entry: harhar.Entry{
		PageRef: pageRef,
		Start:   eg.cursor.Format(startedDateTimeLayout),
		Request: harhar.Request{
			Method:      "GET",
			URL:         url,
			HTTPVersion: "HTTP/1.1",
			Headers: []harhar.NameValuePair{
				{Name: "Host", Value: eg.host},
				{Name: "Accept", Value: "*/*"},
			},
			HeadersSize: eg.rng.Intn(300) + 200,
			BodySize:    0,
		},
		Response: harhar.Response{
			StatusCode:  status.code,
			StatusText:  status.text,
			HTTPVersion: "HTTP/1.1",
			Headers: []harhar.NameValuePair{
				{Name: "Content-Type", Value: kind.mimeType},
				{Name: "Content-Length", Value: fmt.Sprint(size)},
			},
			Body: harhar.BodyResponseType{
				Size:     size,
				MIMEType: kind.mimeType,
			},
			HeadersSize: eg.rng.Intn(400) + 200,
			BodySize:    size,
		},
		ServerIP:   fmt.Sprintf("10.0.%d.%d", eg.rng.Intn(256), eg.rng.Intn(256)),
		Connection: fmt.Sprint(eg.rng.Intn(6) + 1),
	}}
}

// setTimings fills the phases and sets time to their applicable sum. Phases
// that did not happen are recorded as -1.
func (eg *EntryGenerator) setTimings(entry *model.Entry, newConnection bool) {
	timings := &entry.Timings
	model.PhaseBlocked.SetDuration(timings, float64(eg.rng.Intn(20)))
	model.PhaseDNS.SetDuration(timings, -1)
	model.PhaseConnect.SetDuration(timings, -1)
	timings.SSL = -1
	if newConnection {
		model.PhaseDNS.SetDuration(timings, float64(eg.rng.Intn(40)+5))
		model.PhaseConnect.SetDuration(timings, float64(eg.rng.Intn(80)+10))
	}
	model.PhaseSend.SetDuration(timings, float64(eg.rng.Intn(3)))
	model.PhaseWait.SetDuration(timings, float64(eg.rng.Intn(200)+10))
	model.PhaseReceive.SetDuration(timings, float64(eg.rng.Intn(120)))

	total := 0.0
	for _, phase := range model.Phases {
		if d := phase.Duration(timings); d > 0 {
			total += d
		}
	}
	entry.Time = total
}

// End is the completion time of the latest entry generated so far
func (eg *EntryGenerator) End(entries []model.Entry) time.Time {
	end := eg.cursor
	for i := range entries {
		start, err := entries[i].StartTime()
		if err != nil {
			continue
		}
		if e := start.Add(model.Millis(entries[i].Time)); e.After(end) {
			end = e
		}
	}
	return end
}
