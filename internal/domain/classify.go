package domain

import (
	"fmt"
	"sort"
)

// HandType represents the category of a played hand.
type HandType int

const (
	Invalid HandType = iota
	Single
	Pair
	Triple
	Straight
	Flush
	FullHouse
	FourOfAKind
	StraightFlush
	RoyalFlush
)

var handTypeNames = map[HandType]string{
	Invalid:       "invalid",
	Single:        "single",
	Pair:          "pair",
	Triple:        "triple",
	Straight:      "straight",
	Flush:         "flush",
	FullHouse:     "full house",
	FourOfAKind:   "four of a kind",
	StraightFlush: "straight flush",
	RoyalFlush:    "royal flush",
}

func (t HandType) String() string {
	if name, ok := handTypeNames[t]; ok {
		return name
	}
	return "invalid"
}

// FiveCardRank returns the strict hierarchy position among 5-card hand
// types (straight lowest at 1, royal flush highest at 6), or 0 for types
// that are not 5-card hands.
func (t HandType) FiveCardRank() int {
	switch t {
	case Straight:
		return 1
	case Flush:
		return 2
	case FullHouse:
		return 3
	case FourOfAKind:
		return 4
	case StraightFlush:
		return 5
	case RoyalFlush:
		return 6
	}
	return 0
}

// Classification describes a validated hand: its type and the power used
// to compare same-type hands.
type Classification struct {
	Type  HandType
	Value int32
}

// Classify determines the hand type and comparison value for 1, 2, 3, or
// 5 cards. Any other count, a duplicate card, or a shape that matches no
// category is a structural error.
func Classify(cards []Card) (Classification, error) {
	switch len(cards) {
	case 1, 2, 3:
		return classifyGroup(cards)
	case 5:
		return classifyFive(cards)
	}
	return Classification{}, fmt.Errorf("%w: wrong card count %d", ErrStructural, len(cards))
}

func classifyGroup(cards []Card) (Classification, error) {
	if hasDuplicate(cards) {
		return Classification{}, fmt.Errorf("%w: duplicate card", ErrStructural)
	}
	rank := cards[0].Rank
	for _, c := range cards[1:] {
		if c.Rank != rank {
			return Classification{}, fmt.Errorf("%w: cards must share one rank", ErrStructural)
		}
	}
	types := [...]HandType{1: Single, 2: Pair, 3: Triple}
	return Classification{Type: types[len(cards)], Value: maxValue(cards)}, nil
}

func classifyFive(cards []Card) (Classification, error) {
	if hasDuplicate(cards) {
		return Classification{}, fmt.Errorf("%w: duplicate card", ErrStructural)
	}

	sorted := make([]Card, len(cards))
	copy(sorted, cards)
	SortHand(sorted)

	straight := isStraight(sorted)
	flush := allSameSuit(sorted)

	switch {
	case straight && flush && sorted[4].Rank == RankAce:
		return Classification{Type: RoyalFlush, Value: CardValue(sorted[4])}, nil
	case straight && flush:
		return Classification{Type: StraightFlush, Value: CardValue(sorted[4])}, nil
	}

	if group := rankGroup(sorted, 4); group != nil {
		return Classification{Type: FourOfAKind, Value: maxValue(group)}, nil
	}
	if triple := rankGroup(sorted, 3); triple != nil {
		rest := RemoveCards(sorted, triple)
		if len(rest) == 2 && rest[0].Rank == rest[1].Rank {
			// Value derives from the triple's rank group, not card position.
			return Classification{Type: FullHouse, Value: maxValue(triple)}, nil
		}
	}

	switch {
	case flush:
		return Classification{Type: Flush, Value: CardValue(sorted[4])}, nil
	case straight:
		return Classification{Type: Straight, Value: CardValue(sorted[4])}, nil
	}

	return Classification{}, fmt.Errorf("%w: no five-card category matches", ErrStructural)
}

// CanBeat reports whether a play with classification next beats the
// current lead. For 1-3 card hands both must share the type; 5-card hands
// compare hierarchy rank first, then value.
func CanBeat(lead, next Classification) bool {
	leadRank := lead.Type.FiveCardRank()
	nextRank := next.Type.FiveCardRank()

	if leadRank == 0 || nextRank == 0 {
		if lead.Type != next.Type {
			return false
		}
		return next.Value > lead.Value
	}

	if nextRank != leadRank {
		return nextRank > leadRank
	}
	return next.Value > lead.Value
}

// isStraight reports whether five sorted cards form strictly consecutive
// ranks. Rank 2 never participates in a straight.
func isStraight(sorted []Card) bool {
	for i, c := range sorted {
		if c.Rank == RankTwo {
			return false
		}
		if i > 0 && c.Rank != sorted[i-1].Rank+1 {
			return false
		}
	}
	return true
}

func allSameSuit(cards []Card) bool {
	for _, c := range cards[1:] {
		if c.Suit != cards[0].Suit {
			return false
		}
	}
	return true
}

// rankGroup returns the cards of the first rank appearing exactly n
// times, or nil when no rank does.
func rankGroup(cards []Card, n int) []Card {
	counts := make(map[int32]int)
	for _, c := range cards {
		counts[c.Rank]++
	}
	var ranks []int
	for r, count := range counts {
		if count == n {
			ranks = append(ranks, int(r))
		}
	}
	if len(ranks) == 0 {
		return nil
	}
	sort.Ints(ranks)
	rank := int32(ranks[0])
	group := make([]Card, 0, n)
	for _, c := range cards {
		if c.Rank == rank {
			group = append(group, c)
		}
	}
	return group
}

func maxValue(cards []Card) int32 {
	max := int32(-1)
	for _, c := range cards {
		if v := CardValue(c); v > max {
			max = v
		}
	}
	return max
}

func hasDuplicate(cards []Card) bool {
	seen := make(map[Card]bool, len(cards))
	for _, c := range cards {
		if seen[c] {
			return true
		}
		seen[c] = true
	}
	return false
}
