package domain

// Suit indexes for Card.Suit. The ordering is the Big 2 tie-break order:
// Diamonds lowest, Spades highest.
const (
	SuitDiamonds int32 = 0
	SuitClubs    int32 = 1
	SuitHearts   int32 = 2
	SuitSpades   int32 = 3
)

// Rank indexes for Card.Rank. 3 is the lowest rank and 2 the highest.
const (
	RankThree int32 = 0
	RankFour  int32 = 1
	RankFive  int32 = 2
	RankSix   int32 = 3
	RankSeven int32 = 4
	RankEight int32 = 5
	RankNine  int32 = 6
	RankTen   int32 = 7
	RankJack  int32 = 8
	RankQueen int32 = 9
	RankKing  int32 = 10
	RankAce   int32 = 11
	RankTwo   int32 = 12
)

// Card is a single playing card. Rank 0..12 maps 3..A,2; Suit 0..3 maps
// Diamonds, Clubs, Hearts, Spades.
type Card struct {
	Rank int32
	Suit int32
}

// CardValue returns the card's absolute power. Rank dominates and suit
// breaks ties, so no two distinct cards compare equal.
func CardValue(c Card) int32 {
	return c.Rank*4 + c.Suit
}

var rankNames = [...]string{"3", "4", "5", "6", "7", "8", "9", "10", "J", "Q", "K", "A", "2"}
var suitNames = [...]string{"D", "C", "H", "S"}

// String renders the card as rank followed by suit letter, e.g. "10H".
func (c Card) String() string {
	if c.Rank < 0 || c.Rank > 12 || c.Suit < 0 || c.Suit > 3 {
		return "??"
	}
	return rankNames[c.Rank] + suitNames[c.Suit]
}

// ContainsCard reports whether the card appears in the slice.
func ContainsCard(cards []Card, target Card) bool {
	for _, c := range cards {
		if c == target {
			return true
		}
	}
	return false
}

// LowestCard returns the lowest-value card in a non-empty slice.
func LowestCard(cards []Card) Card {
	lowest := cards[0]
	for _, c := range cards[1:] {
		if CardValue(c) < CardValue(lowest) {
			lowest = c
		}
	}
	return lowest
}
