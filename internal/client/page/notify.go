package page

import "fmt"

type Level int

const (
	Pending Level = iota
	Success
	Failure
)

func (l Level) String() string {
	switch l {
	case Pending:
		return "pending"
	case Success:
		return "success"
	default:
		return "failure"
	}
}

// Notification is a transient message about a fetch or a save.
type Notification struct {
	Level   Level
	Message string
}

type Notifier interface {
	Notify(n Notification)
}

// NotifierFunc adapts a function to Notifier.
type NotifierFunc func(Notification)

func (f NotifierFunc) Notify(n Notification) { f(n) }

const (
	MsgSaving     = "Saving profile..."
	MsgSaved      = "Profile saved successfully! 🎉"
	MsgSaveFailed = "Error saving profile data. Please try again."
	MsgFetchError = "Error fetching profile data"
)

func saveFailed(err error) Notification {
	return Notification{Level: Failure, Message: fmt.Sprintf("%s (%v)", MsgSaveFailed, err)}
}

func fetchFailed(err error) Notification {
	return Notification{Level: Failure, Message: fmt.Sprintf("%s: %v", MsgFetchError, err)}
}
