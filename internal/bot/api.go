package bot

import (
	"context"

	"github.com/Retopia/Big-2-Backend/internal/domain"
)

// Move represents the decision made by a strategy.
type Move struct {
	Pass  bool
	Cards []domain.Card
}

// View is the immutable decision context handed to a strategy: the
// acting seat's hand, the table lead, and the match facts the scoring
// model consumes. Strategies never see or mutate match state directly.
type View struct {
	Hand              []domain.Card
	TableLead         []domain.Card
	FirstPlay         bool
	OpeningValue      int32
	RoundNumber       int
	OpponentHandSizes []int
	History           []domain.MoveRecord
}

// Strategy is the decision seam for computer-controlled seats. Decide
// must return either a pass or cards drawn verbatim from view.Hand; the
// caller re-validates against the enumerator regardless.
type Strategy interface {
	Decide(ctx context.Context, view View) (Move, error)
}
