package main

import "time"

type Mode int

const (
	ModeCanvas Mode = iota
	ModeChat
	ModeRenameSection
	ModePinContent
	ModeConfirm
)

type ConfirmAction int

const (
	ConfirmQuit ConfirmAction = iota
	ConfirmDeleteSelection
	ConfirmDeleteSection
)

const (
	// Terminal cells stand in for pixels at this size.
	cellWidth  = 8
	cellHeight = 16

	// One wheel notch, in screen pixels.
	wheelStep = 48

	// Arrow keys pan this many cells; shifted arrows pan twice as far.
	panCells = 4

	workflowInterval = 100 * time.Millisecond

	newSectionWidth  = 600
	newSectionHeight = 400

	sidebarStep = 20
)
