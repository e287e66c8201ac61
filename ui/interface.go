package ui

// SubmitFunc receives one user-submitted line. It runs on the UI's event
// loop, so submissions are serialized. A nil error clears the input field.
type SubmitFunc func(line string) error

// Surface is the display contract the session drives.
// AppendOutput, ResetOutput and SetStatus are safe to call from any
// goroutine; the adapter marshals them onto its own loop in call order.
type Surface interface {
	// OnSubmit registers the handler for user submissions. Call before Run.
	OnSubmit(fn SubmitFunc)

	// AppendOutput adds one line to the output log; the surface supplies
	// the line separator.
	AppendOutput(line string)
	// ResetOutput replaces the whole output log with text.
	ResetOutput(text string)
	// SetStatus replaces the status line.
	SetStatus(text string)

	Run() error
	Quit()
	Done() <-chan struct{}
}
