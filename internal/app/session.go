package app

import (
	"context"
	"sync"

	"github.com/Retopia/Big-2-Backend/internal/bot"
	"github.com/Retopia/Big-2-Backend/internal/domain"
)

// Session wraps one match behind a mutual-exclusion boundary: at most
// one play or pass executes at a time, and a pending bot decision holds
// a flag so it cannot be started twice for the same turn. Matches share
// no state, so sessions are independent.
type Session struct {
	mu               sync.Mutex
	match            *domain.Match
	strategies       map[string]bot.Strategy
	decisionInFlight bool
	actionSeq        uint64
	closed           bool
}

// Play submits a play intent for a seat. Rejections leave the match
// untouched and carry the domain error taxonomy.
func (s *Session) Play(seatID string, cards []domain.Card) ([]Event, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil, ErrSessionClosed
	}
	return s.playLocked(seatID, cards)
}

// Pass submits a pass intent for a seat.
func (s *Session) Pass(seatID string) ([]Event, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil, ErrSessionClosed
	}
	return s.passLocked(seatID)
}

// RunBotTurn asks the current seat's strategy for a move and applies it.
// The strategy runs outside the lock (the external strategy may await a
// network round trip); a decision-in-flight guard prevents reentrant
// calls, and the result is discarded if the session closed or the match
// moved on while the decision was pending.
func (s *Session) RunBotTurn(ctx context.Context) ([]Event, error) {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil, ErrSessionClosed
	}
	if s.match.Phase() != domain.PhaseActive {
		s.mu.Unlock()
		return nil, domain.ErrMatchFinished
	}
	if s.decisionInFlight {
		s.mu.Unlock()
		return nil, ErrDecisionInFlight
	}
	seat := s.match.CurrentSeat()
	strategy, ok := s.strategies[seat.ID]
	if !ok {
		s.mu.Unlock()
		return nil, ErrNotBotTurn
	}
	s.decisionInFlight = true
	view := s.viewLocked(seat.ID)
	seq := s.actionSeq
	s.mu.Unlock()

	move, err := strategy.Decide(ctx, view)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.decisionInFlight = false

	// Discard stale results rather than applying them to a match that
	// closed, finished, or advanced while the decision was pending.
	if s.closed {
		return nil, ErrSessionClosed
	}
	if s.match.Phase() != domain.PhaseActive || s.actionSeq != seq || s.match.CurrentSeat().ID != seat.ID {
		return nil, nil
	}
	if err != nil {
		// Strategies are expected to fall back internally; as a last
		// resort decide deterministically so the match keeps moving.
		move, _ = bot.NewHeuristic(bot.DefaultTuning).Decide(ctx, view)
	}

	if move.Pass {
		return s.passLocked(seat.ID)
	}
	return s.playLocked(seat.ID, move.Cards)
}

// Close terminates the session; any in-flight decision result will be
// discarded on arrival.
func (s *Session) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
}

// ViewFor builds the strategy view for a seat. Transports use it to
// auto-act for seats that exhaust their turn clock.
func (s *Session) ViewFor(seatID string) (bot.View, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return bot.View{}, ErrSessionClosed
	}
	if _, err := s.match.HandOf(seatID); err != nil {
		return bot.View{}, err
	}
	return s.viewLocked(seatID), nil
}

// SnapshotFor returns the per-seat projection of the match.
func (s *Session) SnapshotFor(seatID string) (domain.Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return domain.Snapshot{}, ErrSessionClosed
	}
	return s.match.SnapshotFor(seatID)
}

// CurrentSeat returns the seat whose turn it is.
func (s *Session) CurrentSeat() domain.Seat {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.match.CurrentSeat()
}

// Finished reports whether the match reached its terminal state.
func (s *Session) Finished() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.match.Phase() == domain.PhaseFinished
}

// Winner returns the winning seat once finished.
func (s *Session) Winner() (domain.Seat, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.match.Winner()
}

// Scores returns the per-seat win tally.
func (s *Session) Scores() map[string]int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.match.Scores()
}

// IsBotSeat reports whether the seat is computer controlled.
func (s *Session) IsBotSeat(seatID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.strategies[seatID]
	return ok
}

func (s *Session) playLocked(seatID string, cards []domain.Card) ([]Event, error) {
	roundBefore := s.match.RoundNumber()
	outcome, err := s.match.Play(seatID, cards)
	if err != nil {
		return nil, err
	}
	s.actionSeq++

	hand, _ := s.match.HandOf(seatID)
	events := []Event{{
		Kind: EventCardPlayed,
		Payload: CardPlayedPayload{
			SeatID:         seatID,
			Cards:          cards,
			NextTurnSeatID: s.match.CurrentSeat().ID,
			HandSize:       len(hand),
		},
	}}

	if outcome.Finished {
		events = append(events, Event{
			Kind: EventGameEnded,
			Payload: GameEndedPayload{
				WinnerSeatID: outcome.WinnerID,
				Scores:       s.match.Scores(),
			},
		})
	} else if s.match.RoundNumber() != roundBefore {
		events = append(events, Event{
			Kind: EventRoundReset,
			Payload: RoundResetPayload{
				RoundNumber: s.match.RoundNumber(),
				LeadSeatID:  s.match.CurrentSeat().ID,
			},
		})
	}
	return events, nil
}

func (s *Session) passLocked(seatID string) ([]Event, error) {
	outcome, err := s.match.Pass(seatID)
	if err != nil {
		return nil, err
	}
	s.actionSeq++

	events := []Event{{
		Kind: EventTurnPassed,
		Payload: TurnPassedPayload{
			SeatID:         seatID,
			NextTurnSeatID: s.match.CurrentSeat().ID,
		},
	}}
	if outcome.NewRound {
		events = append(events, Event{
			Kind: EventRoundReset,
			Payload: RoundResetPayload{
				RoundNumber: s.match.RoundNumber(),
				LeadSeatID:  s.match.CurrentSeat().ID,
			},
		})
	}
	return events, nil
}

func (s *Session) viewLocked(seatID string) bot.View {
	hand, _ := s.match.HandOf(seatID)
	var opponents []int
	for _, seat := range s.match.Seats() {
		if seat.ID == seatID {
			continue
		}
		other, _ := s.match.HandOf(seat.ID)
		opponents = append(opponents, len(other))
	}
	return bot.View{
		Hand:              hand,
		TableLead:         s.match.TableLead(),
		FirstPlay:         s.match.FirstPlayPending(),
		OpeningValue:      s.match.OpeningValue(),
		RoundNumber:       s.match.RoundNumber(),
		OpponentHandSizes: opponents,
		History:           s.match.History(),
	}
}
