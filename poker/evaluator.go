package poker

import (
	"errors"
	"fmt"
	"slices"
)

// Category enumerates poker hand classes from weakest (HighCard=1) to strongest (RoyalFlush=10).
type Category uint8

const (
	HighCard Category = iota + 1
	OnePair
	TwoPair
	ThreeOfAKind
	Straight
	Flush
	FullHouse
	FourOfAKind
	StraightFlush
	RoyalFlush
)

// String returns a human-readable category name.
func (c Category) String() string {
	switch c {
	case HighCard:
		return "High Card"
	case OnePair:
		return "One Pair"
	case TwoPair:
		return "Two Pair"
	case ThreeOfAKind:
		return "Three of a Kind"
	case Straight:
		return "Straight"
	case Flush:
		return "Flush"
	case FullHouse:
		return "Full House"
	case FourOfAKind:
		return "Four of a Kind"
	case StraightFlush:
		return "Straight Flush"
	case RoyalFlush:
		return "Royal Flush"
	default:
		return "Unknown"
	}
}

// HandRank is the strength of a five-card hand: a category plus the ranks that break ties
// within it, most significant first. Straights carry only their top card, with the wheel
// (A-2-3-4-5) topped by Five.
type HandRank struct {
	Category Category
	Tiebreak []Rank
}

// Compare returns 1 if hr beats other, -1 if other wins, 0 for a tie.
func (hr HandRank) Compare(other HandRank) int {
	if hr.Category != other.Category {
		if hr.Category > other.Category {
			return 1
		}
		return -1
	}
	n := min(len(hr.Tiebreak), len(other.Tiebreak))
	for i := range n {
		switch {
		case hr.Tiebreak[i] > other.Tiebreak[i]:
			return 1
		case hr.Tiebreak[i] < other.Tiebreak[i]:
			return -1
		}
	}
	switch {
	case len(hr.Tiebreak) > len(other.Tiebreak):
		return 1
	case len(hr.Tiebreak) < len(other.Tiebreak):
		return -1
	}
	return 0
}

// String describes the hand, e.g. "Full House, Kings over Twos".
func (hr HandRank) String() string {
	tb := hr.Tiebreak
	at := func(i int) Rank {
		if i < len(tb) {
			return tb[i]
		}
		return 0
	}
	switch hr.Category {
	case RoyalFlush:
		return "Royal Flush"
	case StraightFlush, Straight, Flush:
		return fmt.Sprintf("%s, %s high", hr.Category, at(0).Name())
	case FourOfAKind, ThreeOfAKind:
		return fmt.Sprintf("%s, %s", hr.Category, plural(at(0)))
	case FullHouse:
		return fmt.Sprintf("Full House, %s over %s", plural(at(0)), plural(at(1)))
	case TwoPair:
		return fmt.Sprintf("Two Pair, %s and %s", plural(at(0)), plural(at(1)))
	case OnePair:
		return fmt.Sprintf("Pair of %s", plural(at(0)))
	case HighCard:
		return fmt.Sprintf("High Card, %s", at(0).Name())
	}
	return hr.Category.String()
}

func plural(r Rank) string {
	if r == Six {
		return "Sixes"
	}
	return r.Name() + "s"
}

var (
	// ErrCardCount is returned when evaluating fewer than 5 or more than 7 cards.
	ErrCardCount = errors.New("hand evaluation needs 5 to 7 cards")
	// ErrDuplicateCard is returned when the same card appears twice.
	ErrDuplicateCard = errors.New("duplicate card")
)

// Evaluate returns the rank of the best five-card hand that can be made from 5 to 7 cards.
func Evaluate(cards []Card) (HandRank, error) {
	rank, _, err := EvaluateBest(cards)
	return rank, err
}

// EvaluateBest is Evaluate that also returns the five cards making the hand.
// Every 5-card subset is scored (21 for seven cards) and the strongest kept, so hands with
// several trips or pairs spread across hole and board cards are never misread.
func EvaluateBest(cards []Card) (HandRank, [5]Card, error) {
	var best [5]Card
	if len(cards) < 5 || len(cards) > 7 {
		return HandRank{}, best, fmt.Errorf("%w: got %d", ErrCardCount, len(cards))
	}
	seen := make(map[Card]struct{}, len(cards))
	for _, c := range cards {
		if !c.Valid() {
			return HandRank{}, best, fmt.Errorf("%w: %v", ErrInvalidCard, c)
		}
		if _, dup := seen[c]; dup {
			return HandRank{}, best, fmt.Errorf("%w: %s", ErrDuplicateCard, c)
		}
		seen[c] = struct{}{}
	}

	var bestRank HandRank
	found := false
	var five [5]Card
	n := len(cards)
	for a := 0; a < n-4; a++ {
		for b := a + 1; b < n-3; b++ {
			for c := b + 1; c < n-2; c++ {
				for d := c + 1; d < n-1; d++ {
					for e := d + 1; e < n; e++ {
						five = [5]Card{cards[a], cards[b], cards[c], cards[d], cards[e]}
						r := rankFive(five)
						if !found || r.Compare(bestRank) > 0 {
							bestRank, best, found = r, five, true
						}
					}
				}
			}
		}
	}
	return bestRank, best, nil
}

type rankGroup struct {
	rank  Rank
	count int
}

// rankFive scores exactly five distinct cards.
func rankFive(cards [5]Card) HandRank {
	var counts [Ace + 1]int
	flush := true
	for i, c := range cards {
		counts[c.Rank]++
		if i > 0 && c.Suit != cards[0].Suit {
			flush = false
		}
	}

	// Groups ordered by multiplicity, then rank, both descending.
	groups := make([]rankGroup, 0, 5)
	for r := Ace; r >= Two; r-- {
		if counts[r] > 0 {
			groups = append(groups, rankGroup{rank: r, count: counts[r]})
		}
	}
	slices.SortStableFunc(groups, func(x, y rankGroup) int {
		return y.count - x.count
	})

	ordered := make([]Rank, 0, 5)
	for _, g := range groups {
		ordered = append(ordered, g.rank)
	}

	straightHigh := Rank(0)
	if len(groups) == 5 {
		switch {
		case groups[0].rank-groups[4].rank == 4:
			straightHigh = groups[0].rank
		case groups[0].rank == Ace && groups[1].rank == Five:
			straightHigh = Five // wheel
		}
	}

	switch {
	case flush && straightHigh == Ace:
		return HandRank{Category: RoyalFlush, Tiebreak: []Rank{Ace}}
	case flush && straightHigh > 0:
		return HandRank{Category: StraightFlush, Tiebreak: []Rank{straightHigh}}
	case groups[0].count == 4:
		return HandRank{Category: FourOfAKind, Tiebreak: ordered}
	case groups[0].count == 3 && groups[1].count == 2:
		return HandRank{Category: FullHouse, Tiebreak: ordered}
	case flush:
		return HandRank{Category: Flush, Tiebreak: ordered}
	case straightHigh > 0:
		return HandRank{Category: Straight, Tiebreak: []Rank{straightHigh}}
	case groups[0].count == 3:
		return HandRank{Category: ThreeOfAKind, Tiebreak: ordered}
	case groups[0].count == 2 && groups[1].count == 2:
		return HandRank{Category: TwoPair, Tiebreak: ordered}
	case groups[0].count == 2:
		return HandRank{Category: OnePair, Tiebreak: ordered}
	default:
		return HandRank{Category: HighCard, Tiebreak: ordered}
	}
}
