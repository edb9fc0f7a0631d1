package nakama

import "github.com/Retopia/Big-2-Backend/internal/domain"

// WireCard is the JSON card representation shared with clients.
type WireCard struct {
	Rank int32 `json:"rank"` // 0..12 (3=0, A=11, 2=12)
	Suit int32 `json:"suit"` // 0=D, 1=C, 2=H, 3=S
}

func toWireCards(cards []domain.Card) []WireCard {
	out := make([]WireCard, len(cards))
	for i, c := range cards {
		out[i] = WireCard{Rank: c.Rank, Suit: c.Suit}
	}
	return out
}

func fromWireCards(cards []WireCard) []domain.Card {
	out := make([]domain.Card, len(cards))
	for i, c := range cards {
		out[i] = domain.Card{Rank: c.Rank, Suit: c.Suit}
	}
	return out
}

// MatchLabel is the label advertised for quick-match queries.
type MatchLabel struct {
	Open  int    `json:"open"`
	Game  string `json:"game"`
	Phase string `json:"phase"`
}

// PlayerInfo is the per-seat entry of the lobby snapshot.
type PlayerInfo struct {
	UserID      string `json:"user_id"`
	Seat        int    `json:"seat"`
	IsOwner     bool   `json:"is_owner"`
	IsBot       bool   `json:"is_bot"`
	DisplayName string `json:"display_name"`
	HandSize    int    `json:"hand_size"`
}

// LobbySnapshot is broadcast on joins and leaves so clients can render
// the table.
type LobbySnapshot struct {
	Seats     []string     `json:"seats"`
	OwnerSeat int          `json:"owner_seat"`
	Phase     string       `json:"phase"`
	Players   []PlayerInfo `json:"players"`
}

// PlayCardsRequest is the client payload for OpPlayCards.
type PlayCardsRequest struct {
	Cards []WireCard `json:"cards"`
}

type GameStartedEvent struct {
	SeatIDs         []string `json:"seat_ids"`
	FirstTurnSeatID string   `json:"first_turn_seat_id"`
	RoundNumber     int      `json:"round_number"`
}

type HandDealtEvent struct {
	Hand []WireCard `json:"hand"`
}

type CardPlayedEvent struct {
	SeatID         string     `json:"seat_id"`
	Cards          []WireCard `json:"cards"`
	NextTurnSeatID string     `json:"next_turn_seat_id"`
	HandSize       int        `json:"hand_size"`
}

type TurnPassedEvent struct {
	SeatID         string `json:"seat_id"`
	NextTurnSeatID string `json:"next_turn_seat_id"`
}

type RoundResetEvent struct {
	RoundNumber int    `json:"round_number"`
	LeadSeatID  string `json:"lead_seat_id"`
}

type GameEndedEvent struct {
	WinnerSeatID string         `json:"winner_seat_id"`
	Scores       map[string]int `json:"scores"`
}

type GameErrorEvent struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}
