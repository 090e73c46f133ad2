package tui

type lookupDoneMsg struct {
	rendered string
}
