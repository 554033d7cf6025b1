package alerts

import (
	"errors"
	"testing"
	"time"
)

func newTestBoard(now *time.Time) *Board {
	board := NewBoard()
	board.now = func() time.Time { return *now }
	return board
}

func TestPublishAndExpire(t *testing.T) {
	now := time.Date(2024, time.March, 1, 9, 0, 0, 0, time.UTC)
	board := newTestBoard(&now)

	alert, err := board.Publish(Form{
		Type:     "Delays",
		Title:    "Route A running late",
		Matches:  []string{"A"},
		ValidFor: "PT30M",
	}, "admin@example.com")
	if err != nil {
		t.Fatalf("Publish: %v", err)
	}
	if alert.PrimaryIdentifier == "" || !alert.ValidUntil.Equal(now.Add(30*time.Minute)) {
		t.Errorf("unexpected alert %+v", alert)
	}

	if _, err := board.Publish(Form{Type: "Information", Title: "Welcome"}, "admin@example.com"); err != nil {
		t.Fatalf("Publish: %v", err)
	}

	if got := len(board.Active()); got != 2 {
		t.Errorf("active = %d, want 2", got)
	}
	if got := len(board.Matching("A")); got != 2 {
		t.Errorf("matching A = %d, want 2", got)
	}
	if got := len(board.Matching("B")); got != 1 {
		t.Errorf("matching B = %d, want 1", got)
	}

	now = now.Add(time.Hour)
	if got := len(board.Matching("A")); got != 1 {
		t.Errorf("matching A after expiry = %d, want 1", got)
	}

	if _, err := board.Publish(Form{Type: "Planned", Title: "Works", Matches: []string{"S1", "S1"}}, ""); err != nil {
		t.Fatalf("Publish: %v", err)
	}
	if board.Len() != 2 {
		t.Errorf("expired alert was not pruned, %d stored", board.Len())
	}
	if matches := board.Matching("S1")[1].MatchedIdentifiers; len(matches) != 1 {
		t.Errorf("matches not deduplicated: %v", matches)
	}
}

func TestReturnedAlertsAreCopies(t *testing.T) {
	now := time.Date(2024, time.March, 1, 9, 0, 0, 0, time.UTC)
	board := newTestBoard(&now)

	published, err := board.Publish(Form{Type: "StopClosed", Title: "Stop closed", Matches: []string{"S1"}}, "admin@example.com")
	if err != nil {
		t.Fatalf("Publish: %v", err)
	}
	published.Title = "edited"

	matching := board.Matching("S1")
	if len(matching) != 1 {
		t.Fatalf("matching = %d, want 1", len(matching))
	}
	matching[0].Title = "edited"
	matching[0].MatchedIdentifiers[0] = "S2"
	matching[0].ValidUntil = now

	active := board.Active()
	if len(active) != 1 {
		t.Fatalf("active = %d, want 1", len(active))
	}
	if active[0].Title != "Stop closed" {
		t.Errorf("title changed to %q", active[0].Title)
	}
	if len(active[0].MatchedIdentifiers) != 1 || active[0].MatchedIdentifiers[0] != "S1" {
		t.Errorf("matches changed to %v", active[0].MatchedIdentifiers)
	}
	if !active[0].ValidUntil.IsZero() {
		t.Errorf("validity changed to %s", active[0].ValidUntil)
	}
}

func TestPublishRejectsBadForms(t *testing.T) {
	now := time.Date(2024, time.March, 1, 9, 0, 0, 0, time.UTC)
	board := newTestBoard(&now)

	tests := []struct {
		name string
		form Form
	}{
		{"unknown type", Form{Type: "Meteor", Title: "Incoming"}},
		{"missing title", Form{Type: "Warning"}},
		{"empty match", Form{Type: "Warning", Title: "Closed", Matches: []string{""}}},
		{"bad duration", Form{Type: "Warning", Title: "Closed", ValidFor: "two hours"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := board.Publish(tt.form, "admin@example.com"); err == nil {
				t.Error("expected error")
			}
		})
	}

	_, err := board.Publish(Form{Type: "Warning", Title: "Closed", ValidFor: "bogus"}, "")
	if !errors.Is(err, ErrInvalidValidity) {
		t.Errorf("got %v, want ErrInvalidValidity", err)
	}

	if len(board.Active()) != 0 {
		t.Error("rejected forms were published")
	}
}

func TestRemove(t *testing.T) {
	now := time.Date(2024, time.March, 1, 9, 0, 0, 0, time.UTC)
	board := newTestBoard(&now)

	alert, _ := board.Publish(Form{Type: "StopClosed", Title: "S3 closed", Matches: []string{"S3"}}, "")

	if !board.Remove(alert.PrimaryIdentifier) {
		t.Error("Remove returned false")
	}
	if board.Remove(alert.PrimaryIdentifier) {
		t.Error("second Remove returned true")
	}
	if len(board.Active()) != 0 {
		t.Error("removed alert is still active")
	}
}
