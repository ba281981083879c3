package model

import "github.com/pb33f/harhar"

// Page represents one navigation inside a capture. It embeds the HAR 1.2 page
// (id, title, pageTimings) and adds the statistics recorded by the profiler.
// Every statistic is optional: a nil pointer means "not recorded", which is
// different from a recorded zero.
type Page struct {
	harhar.Page

	// Name is the human readable key of the page load.
	Name string `json:"_pageName,omitempty"`

	CSSStats     *CSSStats     `json:"_cssStats,omitempty"`
	EventStats   *EventStats   `json:"_eventStats,omitempty"`
	MemoryStats  *MemoryStats  `json:"_memoryStats,omitempty"`
	DOMNodeStats *DOMNodeStats `json:"_domNodeStats,omitempty"`
}

// CSSStats summarises selector matching cost for the page.
type CSSStats struct {
	// TotalTime spent matching CSS rules, in milliseconds.
	TotalTime *float64 `json:"_totalTime,omitempty"`

	MostTimeConsumingRule *CSSRule `json:"_mostTimeConsumingRule,omitempty"`
	MostMissesRule        *CSSRule `json:"_mostMissesRule,omitempty"`
}

// CSSRule is the profile of a single selector.
type CSSRule struct {
	Selector   string  `json:"selector,omitempty"`
	Time       float64 `json:"time"`
	HitCount   int64   `json:"hitCount"`
	MatchCount int64   `json:"matchCount"`
}

// Misses is the number of times the selector was tried without matching.
func (r *CSSRule) Misses() int64 {
	return r.HitCount - r.MatchCount
}

// EventStats counts renderer events during the page load.
type EventStats struct {
	StyleRecalculates *float64 `json:"_styleRecalculates,omitempty"`
	Paints            *float64 `json:"_paints,omitempty"`
	GCEvents          *float64 `json:"_gcEvents,omitempty"`
}

// MemoryStats samples the JS heap during the page load, in bytes.
type MemoryStats struct {
	InitialTotalHeapSize *float64 `json:"_initialTotalHeapSize,omitempty"`
	MaxTotalHeapSize     *float64 `json:"_maxTotalHeapSize,omitempty"`
	InitialUsedHeapSize  *float64 `json:"_initialUsedHeapSize,omitempty"`
	MaxUsedHeapSize      *float64 `json:"_maxUsedHeapSize,omitempty"`
	AvgUsedHeapSize      *float64 `json:"_avgUsedHeapSize,omitempty"`
	MaxJSEventListeners  *float64 `json:"_maxJsEventListeners,omitempty"`
	MaxNodes             *float64 `json:"_maxNodes,omitempty"`
	MaxDocuments         *float64 `json:"_maxDocuments,omitempty"`
}

// DOMNodeStats groups live DOM nodes at the end of the load.
type DOMNodeStats struct {
	DOMGroups []DOMGroup `json:"domGroups,omitempty"`
}

// DOMGroup is one group of DOM nodes.
type DOMGroup struct {
	Size int64 `json:"size"`
}

// Float returns a pointer to v, for building optional statistics.
func Float(v float64) *float64 {
	return &v
}
