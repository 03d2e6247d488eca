package session

import (
	"errors"
	"fmt"
)

// View is the screen a session is currently on.
type View string

const (
	ViewHome            View = "home"
	ViewInput           View = "input"
	ViewLoading         View = "loading"
	ViewResult          View = "result"
	ViewTalismanInput   View = "talismanInput"
	ViewTalismanLoading View = "talismanLoading"
	ViewTalismanResult  View = "talismanResult"
	ViewChat            View = "chat"
)

// Views lists every view in flow order.
var Views = []View{
	ViewHome, ViewInput, ViewLoading, ViewResult,
	ViewTalismanInput, ViewTalismanLoading, ViewTalismanResult, ViewChat,
}

// Event is something that moves a session between views.
type Event string

const (
	EventStart            Event = "start"
	EventSubmit           Event = "submit"
	EventFortuneReady     Event = "fortuneReady"
	EventFortuneFailed    Event = "fortuneFailed"
	EventOpenTalisman     Event = "openTalisman"
	EventGenerateTalisman Event = "generateTalisman"
	EventTalismanReady    Event = "talismanReady"
	EventTalismanFailed   Event = "talismanFailed"
	EventResetTalisman    Event = "resetTalisman"
	EventBack             Event = "back"
	EventOpenChat         Event = "openChat"
	EventReset            Event = "reset"
)

// ErrIllegalTransition is returned for an event the current view does not accept.
var ErrIllegalTransition = errors.New("illegal view transition")

type edge struct {
	from  View
	event Event
}

var transitions = buildTransitions()

func buildTransitions() map[edge]View {
	t := map[edge]View{
		{ViewHome, EventStart}:                     ViewInput,
		{ViewInput, EventSubmit}:                   ViewLoading,
		{ViewLoading, EventFortuneReady}:           ViewResult,
		{ViewLoading, EventFortuneFailed}:          ViewInput,
		{ViewResult, EventOpenTalisman}:            ViewTalismanInput,
		{ViewTalismanInput, EventGenerateTalisman}: ViewTalismanLoading,
		{ViewTalismanInput, EventBack}:             ViewResult,
		{ViewTalismanLoading, EventTalismanReady}:  ViewTalismanResult,
		{ViewTalismanLoading, EventTalismanFailed}: ViewTalismanInput,
		{ViewTalismanResult, EventResetTalisman}:   ViewTalismanInput,
		{ViewTalismanResult, EventBack}:            ViewResult,
		{ViewResult, EventOpenChat}:                ViewChat,
		{ViewTalismanResult, EventOpenChat}:        ViewChat,
		{ViewChat, EventBack}:                      ViewResult,
	}
	for _, v := range Views {
		switch v {
		case ViewHome, ViewLoading, ViewTalismanLoading:
			continue
		}
		t[edge{v, EventReset}] = ViewHome
	}
	return t
}

// Transition returns the view reached from `from` on ev.
func Transition(from View, ev Event) (View, error) {
	to, ok := transitions[edge{from, ev}]
	if !ok {
		return from, fmt.Errorf("%w: %s on %s", ErrIllegalTransition, ev, from)
	}
	return to, nil
}

// Busy reports whether the view is waiting on an upstream call.
func (v View) Busy() bool {
	return v == ViewLoading || v == ViewTalismanLoading
}

// Valid reports whether v is a known view.
func (v View) Valid() bool {
	for _, known := range Views {
		if v == known {
			return true
		}
	}
	return false
}
