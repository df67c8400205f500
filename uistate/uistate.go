// Package uistate holds the load lifecycle shared by every screen.
package uistate

import "encoding/json"

const (
	// MessageEmpty is shown when a load finished without data.
	MessageEmpty = "Something went wrong"
	// MessageUnknown is shown when a load failed without a message.
	MessageUnknown = "Unknown error"
)

type Phase int

const (
	PhaseLoading Phase = iota
	PhaseSuccess
	PhaseError
)

func (p Phase) String() string {
	switch p {
	case PhaseLoading:
		return "loading"
	case PhaseSuccess:
		return "success"
	case PhaseError:
		return "error"
	}
	return "unknown"
}

func (p Phase) MarshalJSON() ([]byte, error) {
	return json.Marshal(p.String())
}

// State is Loading, Success or Error. Message is only set for Error.
type State struct {
	Phase   Phase  `json:"phase"`
	Message string `json:"message,omitempty"`
}

func Loading() State {
	return State{Phase: PhaseLoading}
}

func Success() State {
	return State{Phase: PhaseSuccess}
}

func Error(message string) State {
	return State{Phase: PhaseError, Message: message}
}

// FromErr builds the Error state for a failed load.
func FromErr(err error) State {
	if err == nil || err.Error() == "" {
		return Error(MessageUnknown)
	}
	return Error(err.Error())
}

func (s State) IsLoading() bool { return s.Phase == PhaseLoading }
func (s State) IsSuccess() bool { return s.Phase == PhaseSuccess }
func (s State) IsError() bool   { return s.Phase == PhaseError }

// ToggledBookmark returns the bookmark flag to keep after a toggle write.
// The flag flips whether or not the write succeeded.
func ToggledBookmark(current bool, _ error) bool {
	return !current
}
