package models

import (
	"testing"
	"time"
)

func TestParseMatchStatus(t *testing.T) {
	tests := []struct {
		in   string
		want MatchStatus
	}{
		{"NECESITAMOS_JUGADORES", StatusNeedsPlayers},
		{"ARMADO", StatusFormed},
		{"CONFIRMADO", StatusConfirmed},
		{"EN_JUEGO", StatusInProgress},
		{"FINALIZADO", StatusFinished},
		{"CANCELADO", StatusCanceled},
		{"armado", StatusUnknown},
		{"Necesitamos jugadores", StatusUnknown},
		{"", StatusUnknown},
	}

	for _, tt := range tests {
		if got := ParseMatchStatus(tt.in); got != tt.want {
			t.Errorf("ParseMatchStatus(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestMatchStatusCanTransitionTo(t *testing.T) {
	tests := []struct {
		name string
		from MatchStatus
		to   MatchStatus
		want bool
	}{
		{"needs players fills up", StatusNeedsPlayers, StatusFormed, true},
		{"formed confirmed", StatusFormed, StatusConfirmed, true},
		{"formed loses a player", StatusFormed, StatusNeedsPlayers, true},
		{"confirmed starts", StatusConfirmed, StatusInProgress, true},
		{"in progress finishes", StatusInProgress, StatusFinished, true},
		{"needs players canceled", StatusNeedsPlayers, StatusCanceled, true},
		{"in progress canceled", StatusInProgress, StatusCanceled, true},

		{"no skipping to in progress", StatusNeedsPlayers, StatusInProgress, false},
		{"no skipping to confirmed", StatusNeedsPlayers, StatusConfirmed, false},
		{"no early finish", StatusConfirmed, StatusFinished, false},
		{"no going back from confirmed", StatusConfirmed, StatusFormed, false},
		{"finished is terminal", StatusFinished, StatusCanceled, false},
		{"canceled is terminal", StatusCanceled, StatusNeedsPlayers, false},
		{"unknown is never a target", StatusFormed, StatusUnknown, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.from.CanTransitionTo(tt.to); got != tt.want {
				t.Errorf("%s -> %s = %v, want %v", tt.from, tt.to, got, tt.want)
			}
		})
	}
}

func TestMatchStatusIsTerminal(t *testing.T) {
	for _, s := range []MatchStatus{StatusNeedsPlayers, StatusFormed, StatusConfirmed, StatusInProgress} {
		if s.IsTerminal() {
			t.Errorf("%s should not be terminal", s)
		}
	}
	for _, s := range []MatchStatus{StatusFinished, StatusCanceled} {
		if !s.IsTerminal() {
			t.Errorf("%s should be terminal", s)
		}
	}
}

func TestParseMatchResult(t *testing.T) {
	for _, in := range []string{"A", "B", "EMPATE"} {
		if _, ok := ParseMatchResult(in); !ok {
			t.Errorf("ParseMatchResult(%q) should be valid", in)
		}
	}
	for _, in := range []string{"", "a", "empate", "C", "DRAW"} {
		if _, ok := ParseMatchResult(in); ok {
			t.Errorf("ParseMatchResult(%q) should be rejected", in)
		}
	}
}

func TestMatchStartsAt(t *testing.T) {
	m := &Match{
		Date: time.Date(2025, time.June, 14, 0, 0, 0, 0, time.UTC),
		Time: "18:30",
	}
	got := m.StartsAt()
	want := time.Date(2025, time.June, 14, 18, 30, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Errorf("StartsAt() = %v, want %v", got, want)
	}

	m.Time = "not-a-time"
	if !m.StartsAt().Equal(m.Date) {
		t.Errorf("malformed hora should fall back to the date at midnight")
	}
}

func TestMatchHasParticipantAndIsFull(t *testing.T) {
	m := &Match{
		RequiredPlayers:  2,
		ConfirmedPlayers: 1,
		Participants: []Participant{
			{UserID: "u1", Team: SideA},
		},
	}

	if !m.HasParticipant("u1") {
		t.Error("u1 should be a participant")
	}
	if m.HasParticipant("u2") {
		t.Error("u2 should not be a participant")
	}
	if m.IsFull() {
		t.Error("match with 1/2 players should not be full")
	}

	m.ConfirmedPlayers = 2
	if !m.IsFull() {
		t.Error("match with 2/2 players should be full")
	}
}
