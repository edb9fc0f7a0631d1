package domain

import (
	"errors"
	"math/rand"
	"testing"
)

func testSeats(n int) []Seat {
	all := []Seat{
		{ID: "p1", DisplayName: "One"},
		{ID: "p2", DisplayName: "Two"},
		{ID: "p3", DisplayName: "Three"},
		{ID: "p4", DisplayName: "Four"},
	}
	return all[:n]
}

func TestNewMatchSeatCounts(t *testing.T) {
	rng := rand.New(rand.NewSource(1))

	for _, n := range []int{0, 1, 5} {
		seats := make([]Seat, n)
		for i := range seats {
			seats[i] = Seat{ID: string(rune('a' + i))}
		}
		if _, err := NewMatch(seats, rng); !errors.Is(err, ErrInvalidSeatCount) {
			t.Errorf("Expected ErrInvalidSeatCount for %d seats, got %v", n, err)
		}
	}

	for _, n := range []int{2, 3, 4} {
		if _, err := NewMatch(testSeats(n), rng); err != nil {
			t.Errorf("Expected %d seats to be legal, got %v", n, err)
		}
	}

	dup := []Seat{{ID: "p1"}, {ID: "p1"}}
	if _, err := NewMatch(dup, rng); !errors.Is(err, ErrInvalidSeatCount) {
		t.Errorf("Expected duplicate seat ids rejected, got %v", err)
	}
}

func TestDealSizes(t *testing.T) {
	tests := []struct {
		seats int
		sizes []int
	}{
		{seats: 4, sizes: []int{13, 13, 13, 13}},
		{seats: 3, sizes: []int{17, 17, 17}}, // plus one extra somewhere
	}

	for _, tt := range tests {
		rng := rand.New(rand.NewSource(2))
		m, err := NewMatch(testSeats(tt.seats), rng)
		if err != nil {
			t.Fatalf("NewMatch: %v", err)
		}
		total := 0
		extra := 0
		for i, s := range m.Seats() {
			hand, _ := m.HandOf(s.ID)
			total += len(hand)
			if len(hand) == tt.sizes[i]+1 {
				extra++
			} else if len(hand) != tt.sizes[i] {
				t.Errorf("%d seats: seat %d holds %d cards", tt.seats, i, len(hand))
			}
		}
		switch tt.seats {
		case 4:
			if total != 52 {
				t.Errorf("4 seats should hold all 52 cards, got %d", total)
			}
		case 3:
			if total != 52 || extra != 1 {
				t.Errorf("3 seats should hold 52 with one 18-card hand, got total=%d extra=%d", total, extra)
			}
		}
	}
}

func TestDealTwoSeats(t *testing.T) {
	for seed := int64(0); seed < 20; seed++ {
		rng := rand.New(rand.NewSource(seed))
		m, err := NewMatch(testSeats(2), rng)
		if err != nil {
			t.Fatalf("NewMatch: %v", err)
		}

		held := 0
		lowestHeld := false
		lowest := Card{Rank: RankThree, Suit: SuitDiamonds}
		for _, s := range m.Seats() {
			hand, _ := m.HandOf(s.ID)
			held += len(hand)
			if ContainsCard(hand, lowest) {
				lowestHeld = true
			}
		}
		// The opening card is always rescued from the remainder.
		if !lowestHeld {
			t.Fatalf("seed %d: 3D not held by either seat", seed)
		}
		if held+len(m.Discards()) != 52 {
			t.Fatalf("seed %d: hands (%d) + discards (%d) != 52", seed, held, len(m.Discards()))
		}
		if m.OpeningValue() != CardValue(lowest) {
			t.Errorf("seed %d: opening value %d, want %d", seed, m.OpeningValue(), CardValue(lowest))
		}
	}
}

func TestOpenerHoldsLowestCard(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	m, err := NewMatch(testSeats(4), rng)
	if err != nil {
		t.Fatalf("NewMatch: %v", err)
	}

	opener := m.CurrentSeat()
	hand, _ := m.HandOf(opener.ID)
	lowest := Card{Rank: RankThree, Suit: SuitDiamonds}
	if !ContainsCard(hand, lowest) {
		t.Fatal("Opening seat does not hold the 3D")
	}

	// The first play must include the 3D.
	var other Card
	for _, c := range hand {
		if c != lowest {
			other = c
			break
		}
	}
	if _, err := m.Play(opener.ID, []Card{other}); !errors.Is(err, ErrOpeningConstraint) {
		t.Errorf("Expected ErrOpeningConstraint, got %v", err)
	}
	if _, err := m.Play(opener.ID, []Card{lowest}); err != nil {
		t.Errorf("Opening with the 3D should be accepted, got %v", err)
	}
}

// When the deck's lowest card is out of play entirely, the opener falls
// back to the seat holding the lowest card overall.
func TestOpenerFallbackWithoutLowestCard(t *testing.T) {
	m := &Match{
		seats:  testSeats(2),
		passed: make(map[int]bool),
		scores: make([]int, 2),
		phase:  PhaseActive,
		winner: -1,
		hands: [][]Card{
			{{Rank: RankNine, Suit: SuitSpades}, {Rank: RankTen, Suit: SuitSpades}},
			{{Rank: RankThree, Suit: SuitHearts}, {Rank: RankTwo, Suit: SuitSpades}},
		},
	}
	opener, value := m.determineOpener()
	if opener != 1 {
		t.Errorf("Expected seat 1 (3H holder) to open, got %d", opener)
	}
	if want := CardValue(Card{Rank: RankThree, Suit: SuitHearts}); value != want {
		t.Errorf("Expected opening value %d, got %d", want, value)
	}
}

func TestPlayRejections(t *testing.T) {
	rng := rand.New(rand.NewSource(4))
	m, err := NewMatch(testSeats(4), rng)
	if err != nil {
		t.Fatalf("NewMatch: %v", err)
	}
	opener := m.CurrentSeat()

	if _, err := m.Play("ghost", nil); !errors.Is(err, ErrSeatNotFound) {
		t.Errorf("Expected ErrSeatNotFound, got %v", err)
	}

	var bystander Seat
	for _, s := range m.Seats() {
		if s.ID != opener.ID {
			bystander = s
			break
		}
	}
	hand, _ := m.HandOf(bystander.ID)
	if _, err := m.Play(bystander.ID, hand[:1]); !errors.Is(err, ErrNotYourTurn) {
		t.Errorf("Expected ErrNotYourTurn, got %v", err)
	}
	if _, err := m.Pass(bystander.ID); !errors.Is(err, ErrNotYourTurn) {
		t.Errorf("Expected ErrNotYourTurn on pass, got %v", err)
	}

	// A card the opener does not hold.
	openerHand, _ := m.HandOf(opener.ID)
	var foreign Card
	for _, c := range NewDeck() {
		if !ContainsCard(openerHand, c) {
			foreign = c
			break
		}
	}
	if _, err := m.Play(opener.ID, []Card{foreign}); !errors.Is(err, ErrCardsNotOwned) {
		t.Errorf("Expected ErrCardsNotOwned, got %v", err)
	}

	// Opening a round is not passable.
	if _, err := m.Pass(opener.ID); !errors.Is(err, ErrCannotPassOnLead) {
		t.Errorf("Expected ErrCannotPassOnLead, got %v", err)
	}
}

// Lead is a pair of 7s: a pair of 9s is accepted, a single 9 is a type
// mismatch, a pair of 5s is too low.
func TestRankingRejections(t *testing.T) {
	m := fixedMatch(t, [][]Card{
		{{Rank: RankSeven, Suit: SuitDiamonds}, {Rank: RankSeven, Suit: SuitClubs}, {Rank: RankThree, Suit: SuitSpades}},
		{
			{Rank: RankNine, Suit: SuitDiamonds}, {Rank: RankNine, Suit: SuitClubs},
			{Rank: RankNine, Suit: SuitSpades},
			{Rank: RankFive, Suit: SuitDiamonds}, {Rank: RankFive, Suit: SuitClubs},
		},
	})

	lead := []Card{{Rank: RankSeven, Suit: SuitDiamonds}, {Rank: RankSeven, Suit: SuitClubs}}
	if _, err := m.Play("p1", lead); err != nil {
		t.Fatalf("Lead rejected: %v", err)
	}

	if _, err := m.Play("p2", []Card{{Rank: RankNine, Suit: SuitSpades}}); !errors.Is(err, ErrRanking) {
		t.Errorf("Single 9 should be a ranking error, got %v", err)
	}
	if _, err := m.Play("p2", []Card{{Rank: RankFive, Suit: SuitDiamonds}, {Rank: RankFive, Suit: SuitClubs}}); !errors.Is(err, ErrRanking) {
		t.Errorf("Pair of 5s should be a ranking error, got %v", err)
	}
	if _, err := m.Play("p2", []Card{{Rank: RankNine, Suit: SuitDiamonds}, {Rank: RankNine, Suit: SuitClubs}}); err != nil {
		t.Errorf("Pair of 9s should be accepted, got %v", err)
	}
}

// fixedMatch builds a match with predetermined hands, opening constraint
// already satisfied, for scenario tests.
func fixedMatch(t *testing.T, hands [][]Card) *Match {
	t.Helper()
	seats := testSeats(len(hands))
	m := &Match{
		seats:   seats,
		passed:  make(map[int]bool),
		scores:  make([]int, len(hands)),
		phase:   PhaseActive,
		winner:  -1,
		history: []MoveRecord{{SeatID: "dealt", Cards: nil}},
	}
	for _, h := range hands {
		hand := append([]Card(nil), h...)
		SortHand(hand)
		m.hands = append(m.hands, hand)
	}
	m.roundNumber = 1
	return m
}

func TestRoundReset(t *testing.T) {
	m := fixedMatch(t, [][]Card{
		{{Rank: RankFour, Suit: SuitDiamonds}, {Rank: RankKing, Suit: SuitSpades}},
		{{Rank: RankFive, Suit: SuitDiamonds}, {Rank: RankSix, Suit: SuitDiamonds}},
		{{Rank: RankFive, Suit: SuitClubs}, {Rank: RankSix, Suit: SuitClubs}},
		{{Rank: RankFive, Suit: SuitHearts}, {Rank: RankSix, Suit: SuitHearts}},
	})

	if _, err := m.Play("p1", []Card{{Rank: RankKing, Suit: SuitSpades}}); err != nil {
		t.Fatalf("Lead rejected: %v", err)
	}

	round := m.RoundNumber()
	for _, id := range []string{"p2", "p3"} {
		out, err := m.Pass(id)
		if err != nil {
			t.Fatalf("Pass %s: %v", id, err)
		}
		if out.NewRound {
			t.Fatalf("Round reset too early at %s", id)
		}
	}
	out, err := m.Pass("p4")
	if err != nil {
		t.Fatalf("Pass p4: %v", err)
	}
	if !out.NewRound {
		t.Fatal("Expected round reset after three passes")
	}
	if m.RoundNumber() != round+1 {
		t.Errorf("Round number %d, want %d", m.RoundNumber(), round+1)
	}
	if m.CurrentSeat().ID != "p1" {
		t.Errorf("Accepting seat should lead the new round, got %s", m.CurrentSeat().ID)
	}
	if len(m.TableLead()) != 0 {
		t.Error("Table lead should be cleared on round reset")
	}

	// No pass flags survive into the new round: p1 leads low, everyone may respond.
	if _, err := m.Play("p1", []Card{{Rank: RankFour, Suit: SuitDiamonds}}); err != nil {
		t.Fatalf("New round lead rejected: %v", err)
	}
	if m.CurrentSeat().ID != "p2" {
		t.Errorf("Expected p2 to act next, got %s", m.CurrentSeat().ID)
	}
}

func TestWinDetection(t *testing.T) {
	m := fixedMatch(t, [][]Card{
		{{Rank: RankAce, Suit: SuitSpades}},
		{{Rank: RankThree, Suit: SuitClubs}, {Rank: RankFour, Suit: SuitClubs}},
	})

	out, err := m.Play("p1", []Card{{Rank: RankAce, Suit: SuitSpades}})
	if err != nil {
		t.Fatalf("Winning play rejected: %v", err)
	}
	if !out.Finished || out.WinnerID != "p1" {
		t.Fatalf("Expected p1 to win, got %+v", out)
	}
	if m.Phase() != PhaseFinished {
		t.Error("Match should be finished")
	}
	winner, ok := m.Winner()
	if !ok || winner.ID != "p1" {
		t.Errorf("Winner accessor mismatch: %v %v", winner, ok)
	}
	if m.Scores()["p1"] != 1 || m.Scores()["p2"] != 0 {
		t.Errorf("Score tally wrong: %v", m.Scores())
	}

	if _, err := m.Play("p2", []Card{{Rank: RankThree, Suit: SuitClubs}}); !errors.Is(err, ErrMatchFinished) {
		t.Errorf("Play after finish should fail, got %v", err)
	}
	if _, err := m.Pass("p2"); !errors.Is(err, ErrMatchFinished) {
		t.Errorf("Pass after finish should fail, got %v", err)
	}
}

// Deck integrity: hands plus played cards plus two-seat discards always
// rebuild the full 52-card universe with no duplicates.
func TestDeckIntegrityThroughMatch(t *testing.T) {
	rng := rand.New(rand.NewSource(5))
	m, err := NewMatch(testSeats(4), rng)
	if err != nil {
		t.Fatalf("NewMatch: %v", err)
	}

	checkIntegrity := func() {
		t.Helper()
		seen := make(map[Card]int)
		for _, s := range m.Seats() {
			hand, _ := m.HandOf(s.ID)
			for _, c := range hand {
				seen[c]++
			}
		}
		for _, rec := range m.History() {
			for _, c := range rec.Cards {
				seen[c]++
			}
		}
		for _, c := range m.Discards() {
			seen[c]++
		}
		if len(seen) != 52 {
			t.Fatalf("Universe has %d cards", len(seen))
		}
		for c, n := range seen {
			if n != 1 {
				t.Fatalf("Card %v appears %d times", c, n)
			}
		}
	}

	checkIntegrity()
	for steps := 0; steps < 600 && m.Phase() == PhaseActive; steps++ {
		seat := m.CurrentSeat()
		hand, _ := m.HandOf(seat.ID)
		plays := Enumerate(hand, m.TableLead(), m.FirstPlayPending(), m.OpeningValue())
		if len(plays) == 0 {
			if _, err := m.Pass(seat.ID); err != nil {
				t.Fatalf("Pass: %v", err)
			}
		} else {
			if _, err := m.Play(seat.ID, plays[0].Cards); err != nil {
				t.Fatalf("Play: %v", err)
			}
		}
		checkIntegrity()
	}
	if m.PassResets() != 0 {
		t.Errorf("Defensive pass resets occurred: %d", m.PassResets())
	}
}

func TestSnapshotFor(t *testing.T) {
	rng := rand.New(rand.NewSource(6))
	m, err := NewMatch(testSeats(3), rng)
	if err != nil {
		t.Fatalf("NewMatch: %v", err)
	}

	snap, err := m.SnapshotFor("p2")
	if err != nil {
		t.Fatalf("SnapshotFor: %v", err)
	}
	hand, _ := m.HandOf("p2")
	if len(snap.OwnHand) != len(hand) {
		t.Errorf("Snapshot hand size %d, want %d", len(snap.OwnHand), len(hand))
	}
	if snap.CurrentSeatID != m.CurrentSeat().ID {
		t.Errorf("Snapshot current seat %s, want %s", snap.CurrentSeatID, m.CurrentSeat().ID)
	}
	if snap.RoundNumber != 1 {
		t.Errorf("Snapshot round %d, want 1", snap.RoundNumber)
	}
	if len(snap.HandSizes) != 3 {
		t.Errorf("Snapshot hand sizes count %d, want 3", len(snap.HandSizes))
	}

	if _, err := m.SnapshotFor("ghost"); !errors.Is(err, ErrSeatNotFound) {
		t.Errorf("Expected ErrSeatNotFound, got %v", err)
	}
}
