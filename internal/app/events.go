package app

import "github.com/Retopia/Big-2-Backend/internal/domain"

// EventKind identifies emitted events for transport dispatch.
type EventKind string

const (
	EventGameStarted EventKind = "game_started"
	EventHandDealt   EventKind = "hand_dealt"
	EventCardPlayed  EventKind = "card_played"
	EventTurnPassed  EventKind = "turn_passed"
	EventRoundReset  EventKind = "round_reset"
	EventGameEnded   EventKind = "game_ended"
)

// Event is an app event with optional targeted recipients. An empty
// recipient list means broadcast; who actually receives what is the
// transport layer's call.
type Event struct {
	Kind       EventKind
	Payload    any
	Recipients []string
}

type GameStartedPayload struct {
	SeatIDs         []string
	FirstTurnSeatID string
	RoundNumber     int
}

type HandDealtPayload struct {
	SeatID string
	Hand   []domain.Card
}

type CardPlayedPayload struct {
	SeatID         string
	Cards          []domain.Card
	NextTurnSeatID string
	HandSize       int
}

type TurnPassedPayload struct {
	SeatID         string
	NextTurnSeatID string
}

type RoundResetPayload struct {
	RoundNumber int
	LeadSeatID  string
}

type GameEndedPayload struct {
	WinnerSeatID string
	Scores       map[string]int
}
