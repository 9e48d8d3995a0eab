package tui

// actionDoneMsg reports a finished tracker mutation.
type actionDoneMsg struct {
	toast string
	err   error
}

type reloadedMsg struct {
	recovered error
	err       error
}
