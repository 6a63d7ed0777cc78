package models

import "testing"

func TestNextStatusLegalTransitions(t *testing.T) {
	cases := []struct {
		from  SessionStatus
		event SessionEvent
		want  SessionStatus
	}{
		{SessionPending, EventPaymentConfirmed, SessionConfirmed},
		{SessionPending, EventCancelled, SessionCancelled},
		{SessionConfirmed, EventMeetingStarted, SessionInProgress},
		{SessionConfirmed, EventMeetingEnded, SessionCompleted},
		{SessionConfirmed, EventCancelled, SessionCancelled},
		{SessionInProgress, EventMeetingEnded, SessionCompleted},
	}
	for _, c := range cases {
		got, ok := NextStatus(c.from, c.event)
		if !ok {
			t.Errorf("NextStatus(%s, %s): expected legal transition", c.from, c.event)
			continue
		}
		if got != c.want {
			t.Errorf("NextStatus(%s, %s) = %s, want %s", c.from, c.event, got, c.want)
		}
	}
}

func TestNextStatusIllegalTransitions(t *testing.T) {
	cases := []struct {
		from  SessionStatus
		event SessionEvent
	}{
		// Terminal states never move.
		{SessionCompleted, EventMeetingStarted},
		{SessionCompleted, EventCancelled},
		{SessionCancelled, EventPaymentConfirmed},
		{SessionCancelled, EventMeetingEnded},
		// A meeting cannot start before payment confirms.
		{SessionPending, EventMeetingStarted},
		{SessionPending, EventMeetingEnded},
		// In-progress sessions are past cancellation.
		{SessionInProgress, EventCancelled},
		{SessionInProgress, EventMeetingStarted},
	}
	for _, c := range cases {
		if got, ok := NextStatus(c.from, c.event); ok {
			t.Errorf("NextStatus(%s, %s) = %s, expected illegal", c.from, c.event, got)
		}
	}
}

func TestStatesAllowingMatchesTransitionTable(t *testing.T) {
	all := []SessionStatus{
		SessionPending, SessionConfirmed, SessionInProgress,
		SessionCompleted, SessionCancelled,
	}
	events := []SessionEvent{
		EventPaymentConfirmed, EventMeetingStarted,
		EventMeetingEnded, EventCancelled,
	}
	for _, event := range events {
		allowed := make(map[SessionStatus]bool)
		for _, st := range StatesAllowing(event) {
			allowed[st] = true
		}
		for _, st := range all {
			if _, legal := NextStatus(st, event); legal != allowed[st] {
				t.Errorf("StatesAllowing(%s) includes %s = %v, table says %v",
					event, st, allowed[st], legal)
			}
		}
	}
}

func TestStatesAllowingGuardLists(t *testing.T) {
	cases := []struct {
		event SessionEvent
		want  []SessionStatus
	}{
		{EventPaymentConfirmed, []SessionStatus{SessionPending}},
		{EventMeetingStarted, []SessionStatus{SessionConfirmed}},
		{EventMeetingEnded, []SessionStatus{SessionConfirmed, SessionInProgress}},
		{EventCancelled, []SessionStatus{SessionPending, SessionConfirmed}},
	}
	for _, c := range cases {
		got := StatesAllowing(c.event)
		if len(got) != len(c.want) {
			t.Errorf("StatesAllowing(%s) = %v, want %v", c.event, got, c.want)
			continue
		}
		for i := range got {
			if got[i] != c.want[i] {
				t.Errorf("StatesAllowing(%s) = %v, want %v", c.event, got, c.want)
				break
			}
		}
	}
}

func TestValidDuration(t *testing.T) {
	for _, d := range []int{30, 60} {
		if !ValidDuration(d) {
			t.Errorf("ValidDuration(%d) = false, want true", d)
		}
	}
	for _, d := range []int{0, 15, 45, 90, -30} {
		if ValidDuration(d) {
			t.Errorf("ValidDuration(%d) = true, want false", d)
		}
	}
}
