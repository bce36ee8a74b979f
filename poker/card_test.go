package poker

import (
	"errors"
	"testing"
)

func TestCardCreation(t *testing.T) {
	t.Parallel()
	aceSpades := NewCard(Ace, Spades)
	if aceSpades.Rank != Ace {
		t.Errorf("Expected rank Ace, got %d", aceSpades.Rank)
	}
	if aceSpades.String() != "A♠" {
		t.Errorf("Expected 'A♠', got %s", aceSpades.String())
	}
	if got := NewCard(Ten, Hearts).String(); got != "10♥" {
		t.Errorf("Expected '10♥', got %s", got)
	}
	if !NewCard(Two, Diamonds).Suit.IsRed() || NewCard(Two, Clubs).Suit.IsRed() {
		t.Error("IsRed misclassified a suit")
	}
}

func TestParseCard(t *testing.T) {
	t.Parallel()
	tests := []struct {
		input    string
		wantCard Card
		wantErr  bool
	}{
		{input: "A♠", wantCard: NewCard(Ace, Spades)},
		{input: "As", wantCard: NewCard(Ace, Spades)},
		{input: "10♥", wantCard: NewCard(Ten, Hearts)},
		{input: "Td", wantCard: NewCard(Ten, Diamonds)},
		{input: "kc", wantCard: NewCard(King, Clubs)},
		{input: "2h", wantCard: NewCard(Two, Hearts)},
		{input: " 9s ", wantCard: NewCard(Nine, Spades)},
		{input: "1s", wantErr: true},
		{input: "Xs", wantErr: true},
		{input: "Ax", wantErr: true},
		{input: "A", wantErr: true},
		{input: "", wantErr: true},
	}

	for _, tc := range tests {
		t.Run(tc.input, func(t *testing.T) {
			t.Parallel()
			card, err := ParseCard(tc.input)
			if tc.wantErr {
				if !errors.Is(err, ErrInvalidCard) {
					t.Errorf("ParseCard(%q) error = %v, want ErrInvalidCard", tc.input, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseCard(%q) unexpected error: %v", tc.input, err)
			}
			if card != tc.wantCard {
				t.Errorf("ParseCard(%q) = %v, want %v", tc.input, card, tc.wantCard)
			}
		})
	}
}

func TestAll52CardsRoundTrip(t *testing.T) {
	t.Parallel()
	seen := make(map[string]bool)
	for _, suit := range Suits {
		for rank := Two; rank <= Ace; rank++ {
			card := NewCard(rank, suit)
			str := card.String()
			if seen[str] {
				t.Errorf("Duplicate card string: %s", str)
			}
			seen[str] = true

			parsed, err := ParseCard(str)
			if err != nil {
				t.Errorf("Failed to parse %s: %v", str, err)
			}
			if parsed != card {
				t.Errorf("Round-trip failed for %s", str)
			}
		}
	}
	if len(seen) != 52 {
		t.Errorf("Expected 52 unique cards, got %d", len(seen))
	}
}

func TestParseCards(t *testing.T) {
	t.Parallel()
	cards, err := ParseCards("A♠, K♠ Q♠\tJ♠ 10♠")
	if err != nil {
		t.Fatal(err)
	}
	if len(cards) != 5 || cards[4] != NewCard(Ten, Spades) {
		t.Errorf("unexpected cards %v", cards)
	}
	if _, err := ParseCards("As Zz"); err == nil {
		t.Error("expected error for malformed list")
	}
}
