package tui

import "time"

const (
	tableVerticalPadding = 4
	detailPanelPadding   = 2
	minURLColumnWidth    = 20
	maxURLColumnWidth    = 100
	borderPadding        = 8

	methodColumnWidth   = 8
	statusColumnWidth   = 10
	durationColumnWidth = 12
	sizeColumnWidth     = 10

	// detail panel keys are 30% of the panel, within these bounds
	minKeyWidth = 12
	maxKeyWidth = 18

	defaultDetailDelay = 300 * time.Millisecond
)
