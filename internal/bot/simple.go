package bot

import (
	"context"
	"math/rand"
	"sort"

	"github.com/Retopia/Big-2-Backend/internal/domain"
)

// Simple is the "easy" strategy: it plays the lowest-value legal play,
// with an optional seedable rng that occasionally picks the second
// lowest instead. A nil rng makes it fully deterministic.
type Simple struct {
	rng *rand.Rand
}

// NewSimple builds the easy strategy; rng may be nil.
func NewSimple(rng *rand.Rand) *Simple {
	return &Simple{rng: rng}
}

func (s *Simple) Decide(_ context.Context, view View) (Move, error) {
	plays := domain.Enumerate(view.Hand, view.TableLead, view.FirstPlay, view.OpeningValue)
	if len(plays) == 0 {
		return Move{Pass: true}, nil
	}

	sort.SliceStable(plays, func(i, j int) bool {
		if plays[i].Class.Value != plays[j].Class.Value {
			return plays[i].Class.Value < plays[j].Class.Value
		}
		return len(plays[i].Cards) < len(plays[j].Cards)
	})

	pick := 0
	if s.rng != nil && len(plays) > 1 && s.rng.Intn(4) == 0 {
		pick = 1
	}
	return Move{Cards: plays[pick].Cards}, nil
}
