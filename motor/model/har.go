package model

import "github.com/pb33f/harhar"

// Capture represents the root of one HTTP Archive document, as recorded by a
// browser performance run.
//
// W3C Spec: https://w3c.github.io/web-performance/specs/HAR/Overview.html
type Capture struct {
	Log Log `json:"log"`
}

// NewCapture creates an empty HAR 1.2 capture attributed to the provided creator.
func NewCapture(creatorName, creatorVersion string) *Capture {
	return &Capture{
		Log: Log{
			Version: "1.2",
			Creator: harhar.Creator{
				Name:    creatorName,
				Version: creatorVersion,
			},
		},
	}
}

// Log holds the pages and entries of a capture, plus the device that produced them.
type Log struct {
	// Version of the HAR format.
	Version string `json:"version"`

	// Creator of this set of Log entries.
	Creator harhar.Creator `json:"creator"`

	// Browser that produced this set of Log entries.
	Browser *harhar.Creator `json:"browser,omitempty"`

	// OS is a vendor extension naming the operating system of the device.
	OS *OSInfo `json:"_os,omitempty"`

	// Pages in navigation order. Layout only ever uses the first one.
	Pages []Page `json:"pages,omitempty"`

	// Entries in the order they were recorded, which is start-time order.
	Entries []Entry `json:"entries"`

	// Comment can be added to the log to describe the particulars of this data.
	Comment string `json:"comment,omitempty"`
}

// OSInfo identifies the operating system a capture was recorded on.
type OSInfo struct {
	Name    string `json:"_name"`
	Version string `json:"_version"`
}

// FirstPage returns the page the waterfall is laid out against, or nil when
// the capture has no pages.
func (c *Capture) FirstPage() *Page {
	if c == nil || len(c.Log.Pages) == 0 {
		return nil
	}
	return &c.Log.Pages[0]
}
