package nakama

import (
	"context"
	"encoding/json"
	"math/rand"
	"testing"

	"github.com/heroiclabs/nakama-common/runtime"

	"github.com/Retopia/Big-2-Backend/internal/app"
	"github.com/Retopia/Big-2-Backend/internal/bot"
)

// noopLogger implements runtime.Logger for tests that only need to satisfy the interface.
type noopLogger struct{}

func (noopLogger) Debug(string, ...interface{}) {}
func (noopLogger) Info(string, ...interface{})  {}
func (noopLogger) Warn(string, ...interface{})  {}
func (noopLogger) Error(string, ...interface{}) {}
func (noopLogger) WithField(string, interface{}) runtime.Logger {
	return noopLogger{}
}
func (noopLogger) WithFields(map[string]interface{}) runtime.Logger {
	return noopLogger{}
}
func (noopLogger) Fields() map[string]interface{} {
	return nil
}

// mockDispatcher records match dispatcher calls for assertions.
type mockDispatcher struct {
	broadcastCount int
	labelUpdates   int
	opCodes        []int64
	lastOpCode     int64
	lastData       []byte
}

func (md *mockDispatcher) BroadcastMessage(opCode int64, data []byte, presences []runtime.Presence, sender runtime.Presence, reliable bool) error {
	md.broadcastCount++
	md.opCodes = append(md.opCodes, opCode)
	md.lastOpCode = opCode
	md.lastData = append([]byte(nil), data...)
	return nil
}

func (md *mockDispatcher) BroadcastMessageDeferred(opCode int64, data []byte, presences []runtime.Presence, sender runtime.Presence, reliable bool) error {
	return nil
}

func (md *mockDispatcher) MatchKick(presences []runtime.Presence) error {
	return nil
}

func (md *mockDispatcher) MatchLabelUpdate(label string) error {
	md.labelUpdates++
	return nil
}

// testMessage implements runtime.MatchData for driving the handler.
type testMessage struct {
	userID string
	opCode int64
	data   []byte
}

func (tm *testMessage) GetUserId() string                   { return tm.userID }
func (tm *testMessage) GetSessionId() string                { return "session-" + tm.userID }
func (tm *testMessage) GetNodeId() string                   { return "node" }
func (tm *testMessage) GetHidden() bool                     { return false }
func (tm *testMessage) GetPersistence() bool                { return false }
func (tm *testMessage) GetUsername() string                 { return tm.userID }
func (tm *testMessage) GetStatus() string                   { return "" }
func (tm *testMessage) GetReason() runtime.PresenceReason   { return runtime.PresenceReasonUnknown }
func (tm *testMessage) GetOpCode() int64                    { return tm.opCode }
func (tm *testMessage) GetData() []byte                     { return tm.data }
func (tm *testMessage) GetReliable() bool                   { return true }
func (tm *testMessage) GetReceiveTime() int64               { return 0 }

func TestFindFirstHumanSeat(t *testing.T) {
	taken := make(map[string]bool)
	bot1 := bot.PickIdentity("normal", taken).UserID
	taken[bot1] = true
	bot2 := bot.PickIdentity("normal", taken).UserID

	tests := []struct {
		name  string
		seats []string
		want  int
	}{
		{
			name:  "FirstHumanAfterBot",
			seats: []string{bot1, "user-1", "", ""},
			want:  1,
		},
		{
			name:  "AllBots",
			seats: []string{bot1, bot2, "", ""},
			want:  -1,
		},
		{
			name:  "AllEmpty",
			seats: []string{"", "", "", ""},
			want:  -1,
		},
		{
			name:  "FirstHumanIsSeatZero",
			seats: []string{"user-1", bot1, "user-2", ""},
			want:  0,
		},
	}

	for _, test := range tests {
		test := test
		t.Run(test.name, func(t *testing.T) {
			if got := findFirstHumanSeat(test.seats); got != test.want {
				t.Fatalf("findFirstHumanSeat() = %d, want %d", got, test.want)
			}
		})
	}
}

func TestShouldTerminateNoHumans(t *testing.T) {
	taken := make(map[string]bool)
	bot1 := bot.PickIdentity("normal", taken).UserID
	taken[bot1] = true
	bot2 := bot.PickIdentity("easy", taken).UserID

	tests := []struct {
		name  string
		seats []string
		want  bool
	}{
		{
			name:  "BotsOnly",
			seats: []string{bot1, bot2, "", ""},
			want:  true,
		},
		{
			name:  "HumansPresent",
			seats: []string{bot1, "user-1", "", ""},
			want:  false,
		},
		{
			name:  "AllEmpty",
			seats: []string{"", "", "", ""},
			want:  true,
		},
	}

	for _, test := range tests {
		test := test
		t.Run(test.name, func(t *testing.T) {
			if got := shouldTerminateNoHumans(test.seats); got != test.want {
				t.Fatalf("shouldTerminateNoHumans() = %t, want %t", got, test.want)
			}
		})
	}
}

func TestMatchLabel_Marshal(t *testing.T) {
	tests := []struct {
		name     string
		label    MatchLabel
		expected string
	}{
		{
			name:     "LobbyState",
			label:    MatchLabel{Open: 3, Game: "big2", Phase: "lobby"},
			expected: `{"open":3,"game":"big2","phase":"lobby"}`,
		},
		{
			name:     "PlayingState",
			label:    MatchLabel{Open: 0, Game: "big2", Phase: "playing"},
			expected: `{"open":0,"game":"big2","phase":"playing"}`,
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			payload, err := json.Marshal(test.label)
			if err != nil {
				t.Fatalf("Failed to marshal label: %v", err)
			}
			if string(payload) != test.expected {
				t.Errorf("Got %s, want %s", payload, test.expected)
			}
		})
	}
}

func TestProcessBots_AutoFillsSoloHumanLobby(t *testing.T) {
	handler := &matchHandler{}
	dispatcher := &mockDispatcher{}
	state := &MatchState{
		Seats:             [4]string{"user-1", "", "", ""},
		Presences:         make(map[string]runtime.Presence),
		BotDifficulty:     make(map[string]string),
		BotAutoFillDelay:  2,
		LastSoloHumanTick: 8,
		Tick:              10,
		Rng:               rand.New(rand.NewSource(1)),
	}

	handler.processBots(context.Background(), state, dispatcher, noopLogger{})

	botCount := 0
	for _, seat := range state.Seats {
		if isBotUserId(seat) {
			botCount++
		}
	}

	if botCount != 3 {
		t.Fatalf("Expected 3 bots, got %d", botCount)
	}
	if state.GetOpenSeatsCount() != 0 {
		t.Fatalf("Expected no open seats after auto-fill, got %d", state.GetOpenSeatsCount())
	}
	if state.LastSoloHumanTick != 0 {
		t.Fatalf("Expected auto-fill timer reset, got %d", state.LastSoloHumanTick)
	}
	if dispatcher.broadcastCount == 0 || dispatcher.labelUpdates == 0 {
		t.Fatalf("Expected lobby broadcast and label update after auto-fill")
	}
}

func newActiveState(t *testing.T, seats [4]string) (*MatchState, *mockDispatcher) {
	t.Helper()
	handler := &matchHandler{}
	dispatcher := &mockDispatcher{}
	state := &MatchState{
		Seats:         seats,
		OwnerSeat:     findFirstHumanSeat(seats[:]),
		Presences:     make(map[string]runtime.Presence),
		App:           app.NewService(rand.New(rand.NewSource(17))),
		BotDifficulty: make(map[string]string),
		BotsEnabled:   true,
		BotMinDelay:   1,
		BotMaxDelay:   1,
		Rng:           rand.New(rand.NewSource(17)),
	}
	for _, id := range seats {
		if isBotUserId(id) {
			state.BotDifficulty[id] = bot.DifficultyNormal
		}
	}

	handler.handleStartGame(context.Background(), state, dispatcher, noopLogger{}, &testMessage{
		userID: seats[state.OwnerSeat],
		opCode: OpStartGame,
	})
	if state.Session == nil {
		t.Fatal("handleStartGame did not create a session")
	}
	return state, dispatcher
}

func TestHandleStartGame_RejectsNonOwner(t *testing.T) {
	handler := &matchHandler{}
	dispatcher := &mockDispatcher{}
	state := &MatchState{
		Seats:         [4]string{"user-1", "user-2", "", ""},
		OwnerSeat:     0,
		Presences:     make(map[string]runtime.Presence),
		App:           app.NewService(nil),
		BotDifficulty: make(map[string]string),
		Rng:           rand.New(rand.NewSource(2)),
	}

	handler.handleStartGame(context.Background(), state, dispatcher, noopLogger{}, &testMessage{
		userID: "user-2",
		opCode: OpStartGame,
	})

	if state.Session != nil {
		t.Fatal("non-owner start request should be ignored")
	}
}

func TestProcessBots_PlaysFullGame(t *testing.T) {
	taken := make(map[string]bool)
	var seats [4]string
	seats[0] = "user-1"
	for i := 1; i < 4; i++ {
		id := bot.PickIdentity("normal", taken)
		taken[id.UserID] = true
		seats[i] = id.UserID
	}

	state, dispatcher := newActiveState(t, seats)
	handler := &matchHandler{}
	ctx := context.Background()

	// The human seat auto-plays when its clock is treated as expired, so
	// the game can run to completion from ticks alone.
	var ended bool
	for tick := int64(0); tick < 3000 && state.Session != nil; tick++ {
		state.Tick = tick
		handler.processBots(ctx, state, dispatcher, noopLogger{})
		if state.Session != nil {
			state.TurnDeadlineTick = tick // expire the human clock immediately
			handler.processTurnClock(ctx, state, dispatcher, noopLogger{})
		}
	}

	for _, op := range dispatcher.opCodes {
		if op == OpGameEnded {
			ended = true
		}
	}
	if state.Session != nil {
		t.Fatal("game did not run to completion")
	}
	if !ended {
		t.Fatal("no game_ended broadcast observed")
	}
	if dispatcher.labelUpdates < 2 {
		t.Fatalf("expected label updates for start and end, got %d", dispatcher.labelUpdates)
	}
}

func TestHandlePlayCards_RejectsMalformedPayload(t *testing.T) {
	var seats [4]string
	seats[0] = "user-1"
	seats[1] = "user-2"
	state, _ := newActiveState(t, seats)

	handler := &matchHandler{}
	dispatcher := &mockDispatcher{}
	before := totalCardsHeld(t, state)

	handler.handlePlayCards(context.Background(), state, dispatcher, noopLogger{}, &testMessage{
		userID: "user-1",
		opCode: OpPlayCards,
		data:   []byte("{not json"),
	})

	if totalCardsHeld(t, state) != before {
		t.Fatal("malformed payload must not mutate the match")
	}
}

func totalCardsHeld(t *testing.T, state *MatchState) int {
	t.Helper()
	snap, err := state.Session.SnapshotFor(state.Seats[0])
	if err != nil {
		t.Fatalf("SnapshotFor: %v", err)
	}
	total := 0
	for _, n := range snap.HandSizes {
		total += n
	}
	return total
}
