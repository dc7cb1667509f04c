// Package page is the expert profile page: it loads the caller's profile,
// switches between viewing and editing, holds the field edits of one edit
// session and pushes them to the server in a single save.
//
// The page is UI agnostic. It reports progress through a Notifier and is
// drawn by Render from a View snapshot, so the same state machine can back
// the terminal client or any other front end.
package page

import "github.com/dmitrijs2005/expertprofile/internal/models"

// LoadState tells whether a profile is available to show.
// It is either NotLoaded or Loaded.
type LoadState interface {
	isLoadState()
}

// NotLoaded is the state before the first successful fetch.
type NotLoaded struct{}

// Loaded carries the record currently on display.
type Loaded struct {
	User *models.UserInfo
}

func (NotLoaded) isLoadState() {}
func (Loaded) isLoadState()    {}

type Mode int

const (
	Viewing Mode = iota
	Editing
)

func (m Mode) String() string {
	if m == Editing {
		return "editing"
	}
	return "viewing"
}
