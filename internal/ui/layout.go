package ui

// Terminal width thresholds for responsive layouts.
const (
	// LayoutCompactWidth is the threshold below which the header drops the
	// endpoint and timestamps.
	LayoutCompactWidth = 100

	// LayoutMinBoxWidth is the narrowest the collection box is drawn.
	LayoutMinBoxWidth = 20
)

// Rows taken by the header and command bar above the collection box.
const chromeRows = 2

// Each joke occupies setup, punchline and a blank separator row.
const rowsPerJoke = 3

// LogTailLines is how many lines of the client log the overlay shows.
const LogTailLines = 500

// formWidth is the width of the add/edit and confirm dialogs.
const formWidth = 60
