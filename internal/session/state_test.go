package session

import (
	"errors"
	"testing"
)

func TestTransitionTable(t *testing.T) {
	tests := []struct {
		from View
		ev   Event
		want View
	}{
		{ViewHome, EventStart, ViewInput},
		{ViewInput, EventSubmit, ViewLoading},
		{ViewLoading, EventFortuneReady, ViewResult},
		{ViewLoading, EventFortuneFailed, ViewInput},
		{ViewResult, EventOpenTalisman, ViewTalismanInput},
		{ViewTalismanInput, EventGenerateTalisman, ViewTalismanLoading},
		{ViewTalismanInput, EventBack, ViewResult},
		{ViewTalismanLoading, EventTalismanReady, ViewTalismanResult},
		{ViewTalismanLoading, EventTalismanFailed, ViewTalismanInput},
		{ViewTalismanResult, EventResetTalisman, ViewTalismanInput},
		{ViewTalismanResult, EventBack, ViewResult},
		{ViewResult, EventOpenChat, ViewChat},
		{ViewTalismanResult, EventOpenChat, ViewChat},
		{ViewChat, EventBack, ViewResult},
		{ViewInput, EventReset, ViewHome},
		{ViewResult, EventReset, ViewHome},
		{ViewTalismanInput, EventReset, ViewHome},
		{ViewTalismanResult, EventReset, ViewHome},
		{ViewChat, EventReset, ViewHome},
	}

	for _, tt := range tests {
		got, err := Transition(tt.from, tt.ev)
		if err != nil {
			t.Errorf("Transition(%s, %s): unexpected error: %v", tt.from, tt.ev, err)
			continue
		}
		if got != tt.want {
			t.Errorf("Transition(%s, %s) = %s, want %s", tt.from, tt.ev, got, tt.want)
		}
	}
}

func TestTransitionRejectsIllegalPairs(t *testing.T) {
	tests := []struct {
		from View
		ev   Event
	}{
		{ViewHome, EventSubmit},
		{ViewHome, EventReset},
		{ViewLoading, EventSubmit},
		{ViewLoading, EventReset},
		{ViewLoading, EventBack},
		{ViewTalismanLoading, EventReset},
		{ViewTalismanLoading, EventGenerateTalisman},
		{ViewInput, EventOpenTalisman},
		{ViewResult, EventBack},
		{ViewChat, EventOpenTalisman},
	}

	for _, tt := range tests {
		got, err := Transition(tt.from, tt.ev)
		if !errors.Is(err, ErrIllegalTransition) {
			t.Errorf("Transition(%s, %s): expected ErrIllegalTransition, got %v", tt.from, tt.ev, err)
		}
		if got != tt.from {
			t.Errorf("Transition(%s, %s) moved to %s on error", tt.from, tt.ev, got)
		}
	}
}

func TestEveryViewReachableFromHome(t *testing.T) {
	seen := map[View]bool{ViewHome: true}
	queue := []View{ViewHome}
	for len(queue) > 0 {
		v := queue[0]
		queue = queue[1:]
		for e, to := range transitions {
			if e.from == v && !seen[to] {
				seen[to] = true
				queue = append(queue, to)
			}
		}
	}
	for _, v := range Views {
		if !seen[v] {
			t.Errorf("view %s is unreachable", v)
		}
	}
}

func TestViewHelpers(t *testing.T) {
	if !ViewLoading.Busy() || !ViewTalismanLoading.Busy() || ViewResult.Busy() {
		t.Error("Busy misreports loading views")
	}
	if !ViewChat.Valid() || View("bogus").Valid() {
		t.Error("Valid misreports views")
	}
}
