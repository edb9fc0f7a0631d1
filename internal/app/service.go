package app

import (
	"errors"
	"math/rand"
	"time"

	"github.com/Retopia/Big-2-Backend/internal/bot"
	"github.com/Retopia/Big-2-Backend/internal/domain"
)

// Service constructs match sessions. It owns the shared rng used for
// shuffling and bot jitter; inject a seeded source for reproducibility.
type Service struct {
	rng *rand.Rand
}

// NewService constructs a Service with the provided rng or a
// time-seeded default.
func NewService(rng *rand.Rand) *Service {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &Service{rng: rng}
}

var (
	ErrSessionClosed    = errors.New("session closed")
	ErrDecisionInFlight = errors.New("a bot decision is already in flight")
	ErrNotBotTurn       = errors.New("current seat is not computer controlled")
)

// SeatConfig describes one seat requested by the caller. Identity is
// resolved upstream; the core never performs name lookup.
type SeatConfig struct {
	ID          string
	DisplayName string
	IsBot       bool
	Difficulty  string
}

// CreateSession deals a new match for the given seats and returns the
// session plus the deal events (hands targeted per seat, start
// broadcast).
func (s *Service) CreateSession(seats []SeatConfig, strategies map[string]bot.Strategy) (*Session, []Event, error) {
	domainSeats := make([]domain.Seat, len(seats))
	for i, cfg := range seats {
		domainSeats[i] = domain.Seat{
			ID:          cfg.ID,
			DisplayName: cfg.DisplayName,
			IsBot:       cfg.IsBot,
			Difficulty:  cfg.Difficulty,
		}
	}

	match, err := domain.NewMatch(domainSeats, s.rng)
	if err != nil {
		return nil, nil, err
	}

	session := &Session{
		match:      match,
		strategies: make(map[string]bot.Strategy, len(seats)),
	}
	for _, cfg := range seats {
		if !cfg.IsBot {
			continue
		}
		strategy, ok := strategies[cfg.ID]
		if !ok {
			strategy = bot.NewStrategy(cfg.Difficulty, s.rng)
		}
		session.strategies[cfg.ID] = strategy
	}

	events := make([]Event, 0, len(seats)+1)
	seatIDs := make([]string, len(seats))
	for i, cfg := range seats {
		seatIDs[i] = cfg.ID
		hand, _ := match.HandOf(cfg.ID)
		events = append(events, Event{
			Kind:       EventHandDealt,
			Payload:    HandDealtPayload{SeatID: cfg.ID, Hand: hand},
			Recipients: []string{cfg.ID},
		})
	}
	events = append(events, Event{
		Kind: EventGameStarted,
		Payload: GameStartedPayload{
			SeatIDs:         seatIDs,
			FirstTurnSeatID: match.CurrentSeat().ID,
			RoundNumber:     match.RoundNumber(),
		},
	})

	return session, events, nil
}
