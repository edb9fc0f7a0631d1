package bot

import (
	"context"

	"github.com/Retopia/Big-2-Backend/internal/domain"
)

// Heuristic is the deterministic scoring strategy. It enumerates the
// legal plays, assigns each a cost under the danger-adjusted weights,
// and picks the cheapest; an empty candidate set means pass. It is a
// pure function of its view and never blocks.
type Heuristic struct {
	tuning Tuning
}

// NewHeuristic builds the strategy with the supplied tuning, or the
// default table when given the zero value.
func NewHeuristic(tuning Tuning) *Heuristic {
	if tuning.TieNudge == 0 {
		tuning = DefaultTuning
	}
	return &Heuristic{tuning: tuning}
}

func (h *Heuristic) Decide(_ context.Context, view View) (Move, error) {
	plays := domain.Enumerate(view.Hand, view.TableLead, view.FirstPlay, view.OpeningValue)
	if len(plays) == 0 {
		return Move{Pass: true}, nil
	}

	danger := DetectDanger(view.OpponentHandSizes)
	weights := h.tuning.ForDanger(danger)

	leading := len(view.TableLead) == 0
	var leadValue int32
	if !leading {
		if leadClass, err := domain.Classify(view.TableLead); err == nil {
			leadValue = leadClass.Value
		}
	}

	best := 0
	bestCost := 0.0
	for i, play := range plays {
		cost := h.cost(view, play, weights, leading, leadValue)
		cost += h.tuning.TieNudge * float64(i)
		if i == 0 || cost < bestCost {
			best = i
			bestCost = cost
		}
	}

	return Move{Cards: plays[best].Cards}, nil
}

func (h *Heuristic) cost(view View, play domain.Play, w Weights, leading bool, leadValue int32) float64 {
	cost := w.BaseValue * float64(play.Class.Value)
	cost += w.BreakStructure * float64(brokenGroups(view.Hand, play.Cards))
	cost += w.ControlCard * float64(countControlCards(play.Cards))

	if len(view.Hand) <= h.tuning.EndgameHandSize {
		cost -= w.ShedReward * float64(len(play.Cards))
		if len(play.Cards) == len(view.Hand) {
			cost -= w.FinishReward
		}
	}

	if leading {
		// Prefer multi-card openings over degenerating into single-card
		// combat, more so the larger the hand still is.
		if len(play.Cards) > 1 {
			cost -= w.LeadMultiCard * float64(len(play.Cards)) * leadScale(len(view.Hand))
		}
	} else {
		cost += w.OverbidMargin * float64(play.Class.Value-leadValue)
	}

	return cost
}

func leadScale(handSize int) float64 {
	if handSize >= 10 {
		return 1.5
	}
	if handSize >= 6 {
		return 1.0
	}
	return 0.5
}

// brokenGroups counts the rank groups (pair or better) in the hand that
// the play splits by taking only part of them.
func brokenGroups(hand []domain.Card, play []domain.Card) int {
	handCounts := make(map[int32]int)
	for _, c := range hand {
		handCounts[c.Rank]++
	}
	playCounts := make(map[int32]int)
	for _, c := range play {
		playCounts[c.Rank]++
	}

	broken := 0
	for rank, used := range playCounts {
		if held := handCounts[rank]; held >= 2 && used < held {
			broken++
		}
	}
	return broken
}

func countControlCards(cards []domain.Card) int {
	n := 0
	for _, c := range cards {
		if c.Rank == domain.RankAce || c.Rank == domain.RankTwo {
			n++
		}
	}
	return n
}
