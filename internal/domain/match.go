package domain

import (
	"fmt"
	"math/rand"
	"time"
)

// Phase represents the lifecycle stage of a match.
type Phase string

const (
	// PhaseActive indicates the match is in progress.
	PhaseActive Phase = "active"
	// PhaseFinished indicates a seat emptied its hand and the match is terminal.
	PhaseFinished Phase = "finished"
)

// Seat describes one participant, supplied by the caller at construction.
// Seat count and order never change for the match's lifetime.
type Seat struct {
	ID          string
	DisplayName string
	IsBot       bool
	Difficulty  string
}

// MoveRecord is one accepted play in the match history.
type MoveRecord struct {
	SeatID string
	Cards  []Card
}

// Snapshot is the read-only projection of match state for one seat.
// Which seat receives which snapshot is the transport layer's concern.
type Snapshot struct {
	OwnHand       []Card
	TableLead     []Card
	CurrentSeatID string
	HandSizes     map[string]int
	RoundNumber   int
}

// PlayOutcome reports the result of an accepted play.
type PlayOutcome struct {
	Finished bool
	WinnerID string
}

// PassOutcome reports the result of an accepted pass.
type PassOutcome struct {
	NewRound bool
}

// Match owns the authoritative state for one game: per-seat hands, turn
// and round tracking, the table lead, and the score tally. It is not
// safe for concurrent use; callers serialize access (see app.Session).
type Match struct {
	seats         []Seat
	hands         [][]Card
	discards      []Card
	current       int
	tableLead     []Card
	leadClass     Classification
	passed        map[int]bool
	lastAccepting int
	roundNumber   int
	history       []MoveRecord
	scores        []int
	openingValue  int32
	phase         Phase
	winner        int
	passResets    int
}

// NewMatch shuffles, deals per the 2/3/4-seat rules, and determines the
// opening seat. A nil rng falls back to a time-seeded source.
func NewMatch(seats []Seat, rng *rand.Rand) (*Match, error) {
	if len(seats) < 2 || len(seats) > 4 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidSeatCount, len(seats))
	}
	seen := make(map[string]bool, len(seats))
	for _, s := range seats {
		if s.ID == "" || seen[s.ID] {
			return nil, fmt.Errorf("%w: seat ids must be unique and non-empty", ErrInvalidSeatCount)
		}
		seen[s.ID] = true
	}
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}

	m := &Match{
		seats:  append([]Seat(nil), seats...),
		passed: make(map[int]bool),
		scores: make([]int, len(seats)),
		phase:  PhaseActive,
		winner: -1,
	}
	m.deal(ShuffleDeck(NewDeck(), rng))

	opener, value := m.determineOpener()
	m.openingValue = value
	m.current = opener
	m.lastAccepting = opener
	m.roundNumber = 1
	return m, nil
}

// deal distributes the shuffled deck: 13 each for four seats, 17 each
// for three with the single leftover joining the opening card's holder,
// 17 each for two with the remainder discarded except the opening card.
func (m *Match) deal(deck []Card) {
	n := len(m.seats)
	per := 13
	if n < 4 {
		per = 17
	}

	m.hands = make([][]Card, n)
	for i := 0; i < n; i++ {
		m.hands[i] = append([]Card(nil), deck[i*per:(i+1)*per]...)
	}
	leftovers := deck[n*per:]

	switch n {
	case 3:
		m.assignExtraCard(leftovers[0])
	case 2:
		lowest := LowestCard(NewDeck())
		for _, c := range leftovers {
			if c == lowest {
				m.assignExtraCard(c)
				continue
			}
			m.discards = append(m.discards, c)
		}
	}

	for i := range m.hands {
		SortHand(m.hands[i])
	}
}

// assignExtraCard hands the card to the seat holding the opening
// constraint card, or to the lowest-card holder when it is not dealt.
func (m *Match) assignExtraCard(card Card) {
	target, _ := m.determineOpener()
	m.hands[target] = append(m.hands[target], card)
}

// determineOpener returns the seat holding the globally lowest dealt
// card and that card's value. When the deck's lowest card was dealt this
// is its holder; otherwise it falls back to the lowest card overall.
func (m *Match) determineOpener() (int, int32) {
	opener := 0
	best := int32(-1)
	for i, hand := range m.hands {
		if len(hand) == 0 {
			continue
		}
		if v := CardValue(LowestCard(hand)); best == -1 || v < best {
			best = v
			opener = i
		}
	}
	return opener, best
}

// Play validates and applies a play intent for the given seat. On
// rejection the match state is unchanged and the error wraps one of the
// sentinel categories in errors.go.
func (m *Match) Play(seatID string, cards []Card) (PlayOutcome, error) {
	if m.phase == PhaseFinished {
		return PlayOutcome{}, ErrMatchFinished
	}
	idx, err := m.seatIndex(seatID)
	if err != nil {
		return PlayOutcome{}, err
	}
	if idx != m.current {
		return PlayOutcome{}, fmt.Errorf("%w: seat %s", ErrNotYourTurn, seatID)
	}
	if err := m.checkOwnership(idx, cards); err != nil {
		return PlayOutcome{}, err
	}
	class, err := m.ValidateAgainstLead(cards)
	if err != nil {
		return PlayOutcome{}, err
	}

	played := make([]Card, len(cards))
	copy(played, cards)
	SortHand(played)

	m.hands[idx] = RemoveCards(m.hands[idx], played)
	m.tableLead = played
	m.leadClass = class
	m.history = append(m.history, MoveRecord{SeatID: seatID, Cards: played})
	if len(m.passed) >= len(m.seats)-1 {
		m.passed = make(map[int]bool)
	}
	m.lastAccepting = idx

	if len(m.hands[idx]) == 0 {
		m.phase = PhaseFinished
		m.winner = idx
		m.scores[idx]++
		return PlayOutcome{Finished: true, WinnerID: seatID}, nil
	}

	m.advance()
	return PlayOutcome{}, nil
}

// Pass records a pass intent. A seat opening a round may not pass. When
// all other seats have passed, the round resets to the last accepting
// seat with a cleared lead.
func (m *Match) Pass(seatID string) (PassOutcome, error) {
	if m.phase == PhaseFinished {
		return PassOutcome{}, ErrMatchFinished
	}
	idx, err := m.seatIndex(seatID)
	if err != nil {
		return PassOutcome{}, err
	}
	if idx != m.current {
		return PassOutcome{}, fmt.Errorf("%w: seat %s", ErrNotYourTurn, seatID)
	}
	if len(m.tableLead) == 0 {
		return PassOutcome{}, ErrCannotPassOnLead
	}

	m.passed[idx] = true
	if len(m.passed) >= len(m.seats)-1 {
		m.current = m.lastAccepting
		m.tableLead = nil
		m.leadClass = Classification{}
		m.passed = make(map[int]bool)
		m.roundNumber++
		return PassOutcome{NewRound: true}, nil
	}

	m.advance()
	return PassOutcome{}, nil
}

// ValidateAgainstLead classifies the cards and checks them against the
// current table lead and the opening constraint, without mutating state.
// This is the same acceptance rule the enumerator's output satisfies.
func (m *Match) ValidateAgainstLead(cards []Card) (Classification, error) {
	class, err := Classify(cards)
	if err != nil {
		return Classification{}, err
	}

	if len(m.tableLead) == 0 {
		if len(m.history) == 0 && !containsValue(cards, m.openingValue) {
			return Classification{}, fmt.Errorf("%w: card value %d required", ErrOpeningConstraint, m.openingValue)
		}
		return class, nil
	}

	if len(cards) != len(m.tableLead) {
		return Classification{}, fmt.Errorf("%w: must match hand type %s", ErrRanking, m.leadClass.Type)
	}
	if class.Type.FiveCardRank() == 0 && class.Type != m.leadClass.Type {
		return Classification{}, fmt.Errorf("%w: must match hand type %s", ErrRanking, m.leadClass.Type)
	}
	if !CanBeat(m.leadClass, class) {
		return Classification{}, fmt.Errorf("%w: must be higher than the %s on the table", ErrRanking, m.leadClass.Type)
	}
	return class, nil
}

// advance rotates the turn to the next seat not in the pass set. The
// loop is bounded to one full rotation; exceeding it means the pass set
// is inconsistent, so it is cleared defensively and counted.
func (m *Match) advance() {
	for step := 1; step <= len(m.seats); step++ {
		next := (m.current + step) % len(m.seats)
		if !m.passed[next] {
			m.current = next
			return
		}
	}
	m.passed = make(map[int]bool)
	m.passResets++
	m.current = (m.current + 1) % len(m.seats)
}

func (m *Match) checkOwnership(idx int, cards []Card) error {
	if len(cards) == 0 {
		return fmt.Errorf("%w: wrong card count 0", ErrStructural)
	}
	seen := make(map[Card]bool, len(cards))
	for _, c := range cards {
		if seen[c] {
			return fmt.Errorf("%w: card %s repeated", ErrCardsNotOwned, c)
		}
		seen[c] = true
		if !ContainsCard(m.hands[idx], c) {
			return fmt.Errorf("%w: card %s", ErrCardsNotOwned, c)
		}
	}
	return nil
}

func (m *Match) seatIndex(seatID string) (int, error) {
	for i, s := range m.seats {
		if s.ID == seatID {
			return i, nil
		}
	}
	return -1, fmt.Errorf("%w: %s", ErrSeatNotFound, seatID)
}

// CurrentSeat returns the seat whose turn it is.
func (m *Match) CurrentSeat() Seat {
	return m.seats[m.current]
}

// SnapshotFor builds the per-seat projection of the match state.
func (m *Match) SnapshotFor(seatID string) (Snapshot, error) {
	idx, err := m.seatIndex(seatID)
	if err != nil {
		return Snapshot{}, err
	}
	sizes := make(map[string]int, len(m.seats))
	for i, s := range m.seats {
		sizes[s.ID] = len(m.hands[i])
	}
	return Snapshot{
		OwnHand:       append([]Card(nil), m.hands[idx]...),
		TableLead:     append([]Card(nil), m.tableLead...),
		CurrentSeatID: m.seats[m.current].ID,
		HandSizes:     sizes,
		RoundNumber:   m.roundNumber,
	}, nil
}

// Seats returns the ordered seat list.
func (m *Match) Seats() []Seat {
	return append([]Seat(nil), m.seats...)
}

// HandOf returns a copy of the seat's current hand.
func (m *Match) HandOf(seatID string) ([]Card, error) {
	idx, err := m.seatIndex(seatID)
	if err != nil {
		return nil, err
	}
	return append([]Card(nil), m.hands[idx]...), nil
}

// TableLead returns a copy of the last accepted play, empty at a round open.
func (m *Match) TableLead() []Card {
	return append([]Card(nil), m.tableLead...)
}

// History returns the accepted moves in order.
func (m *Match) History() []MoveRecord {
	return append([]MoveRecord(nil), m.history...)
}

// Discards returns the cards removed from play by a two-seat deal.
func (m *Match) Discards() []Card {
	return append([]Card(nil), m.discards...)
}

// Phase reports whether the match is active or finished.
func (m *Match) Phase() Phase {
	return m.phase
}

// Winner returns the winning seat once the match has finished.
func (m *Match) Winner() (Seat, bool) {
	if m.winner < 0 {
		return Seat{}, false
	}
	return m.seats[m.winner], true
}

// Scores returns the per-seat win tally.
func (m *Match) Scores() map[string]int {
	out := make(map[string]int, len(m.seats))
	for i, s := range m.seats {
		out[s.ID] = m.scores[i]
	}
	return out
}

// RoundNumber returns the current round, starting at 1.
func (m *Match) RoundNumber() int {
	return m.roundNumber
}

// OpeningValue returns the value of the opening constraint card.
func (m *Match) OpeningValue() int32 {
	return m.openingValue
}

// FirstPlayPending reports whether the match's very first play is still owed.
func (m *Match) FirstPlayPending() bool {
	return len(m.history) == 0
}

// PassResets reports how many defensive pass-set resets occurred. Any
// non-zero value indicates a turn-advance logic inconsistency.
func (m *Match) PassResets() int {
	return m.passResets
}

func containsValue(cards []Card, value int32) bool {
	for _, c := range cards {
		if CardValue(c) == value {
			return true
		}
	}
	return false
}
