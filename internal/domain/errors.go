package domain

import "errors"

// Rejection categories for play/pass intents. Callers match with
// errors.Is; specific reasons are attached via %w wrapping.
var (
	// ErrInvalidSeatCount rejects match construction outside 2..4 seats.
	ErrInvalidSeatCount = errors.New("match requires 2 to 4 seats")
	// ErrSeatNotFound rejects intents for an unknown seat id.
	ErrSeatNotFound = errors.New("seat not found")
	// ErrNotYourTurn rejects intents from any seat other than the current one.
	ErrNotYourTurn = errors.New("not this seat's turn")
	// ErrCardsNotOwned rejects plays containing cards absent from the seat's hand.
	ErrCardsNotOwned = errors.New("cards not in seat's hand")
	// ErrCannotPassOnLead rejects a pass from the seat opening a round.
	ErrCannotPassOnLead = errors.New("cannot pass when opening a round")
	// ErrStructural rejects card sets that do not form a playable hand.
	ErrStructural = errors.New("cards do not form a playable hand")
	// ErrRanking rejects structurally valid hands that do not beat the table lead.
	ErrRanking = errors.New("play does not beat the table lead")
	// ErrOpeningConstraint rejects a first play omitting the opening card.
	ErrOpeningConstraint = errors.New("first play must include the opening card")
	// ErrMatchFinished rejects any intent once the match is terminal.
	ErrMatchFinished = errors.New("match already finished")
)
