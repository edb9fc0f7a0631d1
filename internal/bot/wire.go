package bot

import (
	"strings"

	"github.com/pkg/errors"

	"github.com/Retopia/Big-2-Backend/internal/domain"
)

var rankCodes = map[string]int32{
	"3": domain.RankThree, "4": domain.RankFour, "5": domain.RankFive,
	"6": domain.RankSix, "7": domain.RankSeven, "8": domain.RankEight,
	"9": domain.RankNine, "10": domain.RankTen, "T": domain.RankTen,
	"J": domain.RankJack, "Q": domain.RankQueen, "K": domain.RankKing,
	"A": domain.RankAce, "2": domain.RankTwo,
}

var suitCodes = map[byte]int32{
	'D': domain.SuitDiamonds,
	'C': domain.SuitClubs,
	'H': domain.SuitHearts,
	'S': domain.SuitSpades,
}

// ParseCardCode reads a card code like "9H" or "10D". Remote services
// have been seen to emit the suit first ("H9"), so both orders are
// accepted. Only this boundary deals in string cards.
func ParseCardCode(code string) (domain.Card, error) {
	trimmed := strings.ToUpper(strings.TrimSpace(code))
	if len(trimmed) < 2 {
		return domain.Card{}, errors.Errorf("card code %q too short", code)
	}

	if suit, ok := suitCodes[trimmed[len(trimmed)-1]]; ok {
		if rank, ok := rankCodes[trimmed[:len(trimmed)-1]]; ok {
			return domain.Card{Rank: rank, Suit: suit}, nil
		}
	}
	if suit, ok := suitCodes[trimmed[0]]; ok {
		if rank, ok := rankCodes[trimmed[1:]]; ok {
			return domain.Card{Rank: rank, Suit: suit}, nil
		}
	}
	return domain.Card{}, errors.Errorf("unparseable card code %q", code)
}

func formatCards(cards []domain.Card) []string {
	out := make([]string, len(cards))
	for i, c := range cards {
		out[i] = c.String()
	}
	return out
}
