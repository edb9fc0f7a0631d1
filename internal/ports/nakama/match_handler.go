package nakama

import (
	"context"
	"database/sql"
	"encoding/json"
	"math/rand"
	"os"
	"strconv"
	"time"

	"github.com/heroiclabs/nakama-common/runtime"
	"github.com/rs/zerolog"

	"github.com/Retopia/Big-2-Backend/internal/app"
	"github.com/Retopia/Big-2-Backend/internal/bot"
	"github.com/Retopia/Big-2-Backend/internal/config"
)

// extLogger feeds the external strategy adapter, which logs fallbacks
// outside the Nakama logger's reach.
var extLogger = zerolog.New(os.Stderr).With().Timestamp().Str("component", "external_strategy").Logger()

// MatchState holds the authoritative runtime state for the Nakama match handler.
type MatchState struct {
	Seats     [4]string                   `json:"seats"`      // Array of user IDs, empty string means seat is empty
	OwnerSeat int                         `json:"owner_seat"` // Seat index of the match owner
	Tick      int64                       `json:"tick"`       // Current tick of the match for turn-based logic
	Presences map[string]runtime.Presence `json:"-"`          // Map UserId -> Presence for targeted messaging
	App       *app.Service                `json:"-"`          // App service that deals sessions
	Session   *app.Session                `json:"-"`          // Current active session (nil if in lobby)

	BotsEnabled       bool             `json:"bots_enabled"`
	BotDifficulty     map[string]string `json:"-"` // Bot user id -> difficulty tag
	BotMinDelay       int              `json:"bot_min_delay"`       // Min ticks a bot waits before acting
	BotMaxDelay       int              `json:"bot_max_delay"`       // Max ticks a bot waits before acting
	BotAutoFillDelay  int              `json:"bot_auto_fill_delay"` // Ticks to wait before auto-filling with bots
	BotWaitUntil      int64            `json:"bot_wait_until"`      // Tick when the bot should act
	LastSoloHumanTick int64            `json:"last_solo_human_tick"`

	TurnSeatID       string `json:"turn_seat_id"`       // Seat whose clock is running
	TurnDeadlineTick int64  `json:"turn_deadline_tick"` // Tick at which the seat is auto-acted

	Rng *rand.Rand `json:"-"`
}

func (ms *MatchState) GetOpenSeatsCount() int {
	count := 0
	for _, seat := range ms.Seats {
		if seat == "" {
			count++
		}
	}
	return count
}

func (ms *MatchState) GetOccupiedSeatCount() int {
	count := 0
	for _, seat := range ms.Seats {
		if seat != "" {
			count++
		}
	}
	return count
}

func (ms *MatchState) GetHumanPlayerCount() int {
	count := 0
	for _, seat := range ms.Seats {
		if seat != "" && !isBotUserId(seat) {
			count++
		}
	}
	return count
}

// isBotUserId reports whether the given user id represents a bot seat.
func isBotUserId(userId string) bool {
	return bot.IsBot(userId)
}

// isHumanSeat reports whether the seat index belongs to a human player.
func isHumanSeat(seats []string, seatIndex int) bool {
	if seatIndex < 0 || seatIndex >= len(seats) {
		return false
	}
	userId := seats[seatIndex]
	return userId != "" && !isBotUserId(userId)
}

// findFirstHumanSeat returns the first seat index with a human occupant or -1 if none exist.
func findFirstHumanSeat(seats []string) int {
	for i, userId := range seats {
		if userId != "" && !isBotUserId(userId) {
			return i
		}
	}
	return -1
}

// shouldTerminateNoHumans returns true when there are no humans in the match.
func shouldTerminateNoHumans(seats []string) bool {
	return findFirstHumanSeat(seats) == -1
}

func newMatchHandler() runtime.Match {
	return &matchHandler{}
}

type matchHandler struct{}

// MatchInit is called when the match is created.
func (mh *matchHandler) MatchInit(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, params map[string]interface{}) (interface{}, int, string) {
	logger.Debug("MatchInit: Initializing match handler.")

	if err := bot.LoadIdentities("data/bot_identities.json"); err != nil {
		logger.Warn("MatchInit: Could not load bot identities: %v", err)
	}
	if err := config.LoadGameConfig("data/game_config.json"); err != nil {
		logger.Warn("MatchInit: Could not load game config: %v", err)
	}
	cfg := config.GetGameConfig()

	state := &MatchState{
		Tick:             time.Now().Unix(),
		Presences:        make(map[string]runtime.Presence),
		App:              app.NewService(nil),
		OwnerSeat:        -1,
		BotDifficulty:    make(map[string]string),
		BotsEnabled:      true,
		BotMinDelay:      cfg.BotMinDelayTicks,
		BotMaxDelay:      cfg.BotMaxDelayTicks,
		BotAutoFillDelay: cfg.BotAutoFillDelaySeconds,
		Rng:              rand.New(rand.NewSource(time.Now().UnixNano())),
	}

	// Environment overrides for bot behaviour.
	env, _ := ctx.Value(runtime.RUNTIME_CTX_ENV).(map[string]string)
	if val, ok := env["big2_bots_enabled"]; ok {
		state.BotsEnabled = val == "true"
	}
	if val, ok := env["big2_bot_min_delay_ticks"]; ok {
		if i, err := strconv.Atoi(val); err == nil {
			state.BotMinDelay = i
		}
	}
	if val, ok := env["big2_bot_max_delay_ticks"]; ok {
		if i, err := strconv.Atoi(val); err == nil {
			state.BotMaxDelay = i
		}
	}
	if val, ok := env["big2_bot_auto_fill_delay_sec"]; ok {
		if i, err := strconv.Atoi(val); err == nil {
			state.BotAutoFillDelay = i
		}
	}

	if state.BotMinDelay <= 0 {
		state.BotMinDelay = 1
	}
	if state.BotMaxDelay < state.BotMinDelay {
		state.BotMaxDelay = state.BotMinDelay + 2
	}
	if state.BotAutoFillDelay <= 0 {
		state.BotAutoFillDelay = 5
	}

	label := MatchLabel{Open: state.GetOpenSeatsCount(), Game: "big2", Phase: "lobby"}
	labelBytes, err := json.Marshal(label)
	if err != nil {
		logger.Error("MatchInit: Failed to marshal label: %v", err)
		return nil, 0, ""
	}

	tickRate := 1 // 1 tick per second
	return state, tickRate, string(labelBytes)
}

func (mh *matchHandler) MatchJoinAttempt(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, dispatcher runtime.MatchDispatcher, tick int64, state interface{}, presence runtime.Presence, metadata map[string]string) (interface{}, bool, string) {
	matchState, ok := state.(*MatchState)
	if !ok {
		return state, false, "state not found"
	}

	// Allow join if there is an empty seat OR a bot to replace (if game hasn't started)
	if matchState.GetOpenSeatsCount() <= 0 {
		hasBot := false
		if matchState.Session == nil {
			for _, seat := range matchState.Seats {
				if isBotUserId(seat) {
					hasBot = true
					break
				}
			}
		}
		if !hasBot {
			return state, false, "Match full"
		}
	}

	return state, true, ""
}

func (mh *matchHandler) MatchJoin(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, dispatcher runtime.MatchDispatcher, tick int64, state interface{}, presences []runtime.Presence) interface{} {
	matchState, ok := state.(*MatchState)
	if !ok {
		logger.Error("MatchJoin: state not found")
		return state
	}

	for _, p := range presences {
		matchState.Presences[p.GetUserId()] = p

		// Assign seat: Try empty seats first, then bots (if lobby)
		assigned := false
		for i, seatUserId := range matchState.Seats {
			if seatUserId == "" {
				matchState.Seats[i] = p.GetUserId()
				assigned = true
				break
			}
		}

		if !assigned && matchState.Session == nil {
			for i, seatUserId := range matchState.Seats {
				if isBotUserId(seatUserId) {
					logger.Info("MatchJoin: Replacing bot %s with human %s in seat %d", seatUserId, p.GetUserId(), i)
					delete(matchState.BotDifficulty, seatUserId)
					matchState.Seats[i] = p.GetUserId()
					assigned = true
					break
				}
			}
		}

		if !assigned {
			logger.Warn("MatchJoin: User %s joined but no seat (empty or bot) was available.", p.GetUserId())
			continue
		}
	}

	// Ensure owner seat is assigned to a human player only.
	if !isHumanSeat(matchState.Seats[:], matchState.OwnerSeat) {
		matchState.OwnerSeat = findFirstHumanSeat(matchState.Seats[:])
		if matchState.OwnerSeat >= 0 {
			logger.Debug("MatchJoin: Owner set to human seat %d.", matchState.OwnerSeat)
		}
	}

	mh.updateLabel(matchState, dispatcher, logger)
	mh.broadcastLobby(matchState, dispatcher, logger, OpPlayerJoined)

	return matchState
}

// MatchLeave is called when one or more players leave the match.
func (mh *matchHandler) MatchLeave(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, dispatcher runtime.MatchDispatcher, tick int64, state interface{}, presences []runtime.Presence) interface{} {
	matchState, ok := state.(*MatchState)
	if !ok {
		logger.Error("MatchLeave: state not found")
		return state
	}

	for _, p := range presences {
		delete(matchState.Presences, p.GetUserId())

		for i, seatUserId := range matchState.Seats {
			if seatUserId == p.GetUserId() {
				// In an active session the seat stays occupied so the
				// turn clock can auto-act for the absent player; in a
				// lobby the seat is freed immediately.
				if matchState.Session == nil {
					matchState.Seats[i] = ""
					logger.Debug("MatchLeave: User %s left, seat %d freed.", p.GetUserId(), i)
				} else {
					logger.Debug("MatchLeave: User %s disconnected mid-game, seat %d kept.", p.GetUserId(), i)
				}
				break
			}
		}
	}

	newOwnerSeat := findFirstHumanSeat(matchState.Seats[:])
	if newOwnerSeat != matchState.OwnerSeat {
		matchState.OwnerSeat = newOwnerSeat
	}

	if len(matchState.Presences) == 0 {
		logger.Info("MatchLeave: Terminating match with no connected humans.")
		if matchState.Session != nil {
			matchState.Session.Close()
		}
		return nil
	}

	mh.updateLabel(matchState, dispatcher, logger)
	mh.broadcastLobby(matchState, dispatcher, logger, OpPlayerLeft)

	return matchState
}

func (mh *matchHandler) MatchLoop(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, dispatcher runtime.MatchDispatcher, tick int64, state interface{}, messages []runtime.MatchData) interface{} {
	matchState, ok := state.(*MatchState)
	if !ok {
		return state
	}

	matchState.Tick = tick

	for _, msg := range messages {
		switch msg.GetOpCode() {
		case OpStartGame, OpRequestNewGame:
			mh.handleStartGame(ctx, matchState, dispatcher, logger, msg)
		case OpPlayCards:
			mh.handlePlayCards(ctx, matchState, dispatcher, logger, msg)
		case OpPassTurn:
			mh.handlePassTurn(ctx, matchState, dispatcher, logger, msg)
		default:
			logger.Warn("MatchLoop: Unknown opcode received: %d", msg.GetOpCode())
		}
	}

	if matchState.BotsEnabled {
		mh.processBots(ctx, matchState, dispatcher, logger)
	}
	mh.processTurnClock(ctx, matchState, dispatcher, logger)

	return matchState
}

func (mh *matchHandler) processBots(ctx context.Context, state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger) {
	// 1. Auto-fill lobby with bots if there's only one human player after a delay.
	if state.Session == nil {
		humanCount := state.GetHumanPlayerCount()
		if humanCount == 1 {
			if state.LastSoloHumanTick == 0 {
				state.LastSoloHumanTick = state.Tick
				logger.Debug("processBots: Single player detected, starting auto-fill timer.")
			}

			if state.Tick-state.LastSoloHumanTick >= int64(state.BotAutoFillDelay) {
				difficulty := config.GetGameConfig().DefaultDifficulty
				taken := make(map[string]bool, len(state.BotDifficulty))
				for id := range state.BotDifficulty {
					taken[id] = true
				}

				added := false
				for i, seat := range state.Seats {
					if seat != "" {
						continue
					}
					identity := bot.PickIdentity(difficulty, taken)
					taken[identity.UserID] = true
					state.Seats[i] = identity.UserID
					state.BotDifficulty[identity.UserID] = identity.Difficulty
					logger.Info("processBots: Added bot %s (%s) to seat %d", identity.DisplayName, identity.UserID, i)
					added = true
				}
				if added {
					mh.updateLabel(state, dispatcher, logger)
					mh.broadcastLobby(state, dispatcher, logger, OpPlayerJoined)
				}
				state.LastSoloHumanTick = 0
			}
		} else {
			state.LastSoloHumanTick = 0
		}
		return
	}

	// 2. Handle bot turns in-game.
	if state.Session.Finished() {
		return
	}
	currentID := state.Session.CurrentSeat().ID
	if !state.Session.IsBotSeat(currentID) {
		state.BotWaitUntil = 0
		return
	}

	if state.BotWaitUntil == 0 {
		delay := state.Rng.Intn(state.BotMaxDelay-state.BotMinDelay+1) + state.BotMinDelay
		state.BotWaitUntil = state.Tick + int64(delay)
		logger.Debug("processBots: Bot %s will act at tick %d (current %d)", currentID, state.BotWaitUntil, state.Tick)
	}
	if state.Tick < state.BotWaitUntil {
		return
	}
	state.BotWaitUntil = 0

	events, err := state.Session.RunBotTurn(ctx)
	if err != nil {
		logger.Error("processBots: Bot %s failed to act: %v", currentID, err)
		return
	}
	for _, ev := range events {
		mh.broadcastEvent(state, dispatcher, logger, ev)
	}
}

// processTurnClock auto-acts for human seats that exhaust their turn
// timer, so one absent player cannot stall the table.
func (mh *matchHandler) processTurnClock(ctx context.Context, state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger) {
	if state.Session == nil || state.Session.Finished() {
		state.TurnSeatID = ""
		return
	}

	currentID := state.Session.CurrentSeat().ID
	if state.Session.IsBotSeat(currentID) {
		state.TurnSeatID = ""
		return
	}

	if state.TurnSeatID != currentID {
		state.TurnSeatID = currentID
		state.TurnDeadlineTick = state.Tick + int64(config.TurnDuration())
		return
	}
	if state.Tick < state.TurnDeadlineTick {
		return
	}

	logger.Info("processTurnClock: Seat %s timed out, auto-acting.", currentID)
	state.TurnSeatID = ""

	view, err := state.Session.ViewFor(currentID)
	if err != nil {
		logger.Error("processTurnClock: View for %s: %v", currentID, err)
		return
	}
	move, err := bot.NewHeuristic(bot.DefaultTuning).Decide(ctx, view)
	if err != nil {
		logger.Error("processTurnClock: Decide for %s: %v", currentID, err)
		return
	}

	var events []app.Event
	if move.Pass {
		events, err = state.Session.Pass(currentID)
	} else {
		events, err = state.Session.Play(currentID, move.Cards)
	}
	if err != nil {
		logger.Error("processTurnClock: Auto-act for %s: %v", currentID, err)
		return
	}
	for _, ev := range events {
		mh.broadcastEvent(state, dispatcher, logger, ev)
	}
}

func (mh *matchHandler) handleStartGame(ctx context.Context, state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger, msg runtime.MatchData) {
	senderID := msg.GetUserId()
	senderSeat := seatIndexOf(state.Seats[:], senderID)

	logger.Info("StartGame: Request received from %s (seat=%d, owner_seat=%d, occupied=%d)", senderID, senderSeat, state.OwnerSeat, state.GetOccupiedSeatCount())

	if state.Session != nil && !state.Session.Finished() {
		logger.Warn("StartGame: Game already in progress.")
		return
	}
	if senderSeat != state.OwnerSeat {
		logger.Warn("StartGame: User %s tried to start game but is not owner (owner_seat=%d)", senderID, state.OwnerSeat)
		return
	}
	if state.GetOccupiedSeatCount() < 2 {
		logger.Warn("StartGame: Cannot start with %d players. Need at least 2.", state.GetOccupiedSeatCount())
		return
	}

	cfg := config.GetGameConfig()
	var seatConfigs []app.SeatConfig
	strategies := make(map[string]bot.Strategy)
	for _, userID := range state.Seats {
		if userID == "" {
			continue
		}
		isBot := isBotUserId(userID)
		displayName := userID
		if p, exists := state.Presences[userID]; exists {
			displayName = p.GetUsername()
		}
		difficulty := ""
		if isBot {
			difficulty = state.BotDifficulty[userID]
			if difficulty == "" {
				difficulty = cfg.DefaultDifficulty
			}
			strategies[userID] = mh.newStrategy(state, difficulty)
		}
		seatConfigs = append(seatConfigs, app.SeatConfig{
			ID:          userID,
			DisplayName: displayName,
			IsBot:       isBot,
			Difficulty:  difficulty,
		})
	}

	session, events, err := state.App.CreateSession(seatConfigs, strategies)
	if err != nil {
		logger.Error("StartGame: Failed to start game: %v", err)
		return
	}

	state.Session = session
	state.BotWaitUntil = 0
	state.TurnSeatID = ""

	mh.updateLabel(state, dispatcher, logger)
	for _, ev := range events {
		mh.broadcastEvent(state, dispatcher, logger, ev)
	}

	logger.Info("StartGame: Game started with %d players.", len(seatConfigs))
}

// newStrategy builds the decision pipeline for a bot seat. When an
// external strategy service is configured it fronts the heuristic,
// which remains the fallback for any remote failure.
func (mh *matchHandler) newStrategy(state *MatchState, difficulty string) bot.Strategy {
	base := bot.NewStrategy(difficulty, state.Rng)
	ext := config.GetGameConfig().External
	if ext.URL == "" {
		return base
	}
	return bot.NewExternal(bot.ExternalConfig{
		URL:     ext.URL,
		Issuer:  ext.Issuer,
		Secret:  ext.Secret,
		Timeout: time.Duration(ext.TimeoutMillis) * time.Millisecond,
	}, base, extLogger)
}

func (mh *matchHandler) handlePlayCards(ctx context.Context, state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger, msg runtime.MatchData) {
	senderID := msg.GetUserId()
	if state.Session == nil {
		logger.Warn("handlePlayCards: Game not started.")
		return
	}

	var request PlayCardsRequest
	if err := json.Unmarshal(msg.GetData(), &request); err != nil {
		logger.Error("handlePlayCards: Failed to unmarshal PlayCardsRequest: %v", err)
		mh.sendError(state, dispatcher, logger, senderID, 400, "malformed play request")
		return
	}

	events, err := state.Session.Play(senderID, fromWireCards(request.Cards))
	if err != nil {
		logger.Warn("handlePlayCards: User %s failed to play cards: %v. Requested: %+v", senderID, err, request.Cards)
		mh.sendError(state, dispatcher, logger, senderID, 400, err.Error())
		return
	}

	for _, ev := range events {
		mh.broadcastEvent(state, dispatcher, logger, ev)
	}
}

func (mh *matchHandler) handlePassTurn(ctx context.Context, state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger, msg runtime.MatchData) {
	senderID := msg.GetUserId()
	if state.Session == nil {
		logger.Warn("handlePassTurn: Game not started.")
		return
	}

	events, err := state.Session.Pass(senderID)
	if err != nil {
		logger.Warn("handlePassTurn: User %s failed to pass turn: %v", senderID, err)
		mh.sendError(state, dispatcher, logger, senderID, 400, err.Error())
		return
	}

	for _, ev := range events {
		mh.broadcastEvent(state, dispatcher, logger, ev)
	}
}

// broadcastEvent handles the conversion and dispatching of app events to Nakama.
func (mh *matchHandler) broadcastEvent(state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger, ev app.Event) {
	var opCode int64
	var payload interface{}

	switch ev.Kind {
	case app.EventGameStarted:
		opCode = OpGameStarted
		p := ev.Payload.(app.GameStartedPayload)
		payload = GameStartedEvent{
			SeatIDs:         p.SeatIDs,
			FirstTurnSeatID: p.FirstTurnSeatID,
			RoundNumber:     p.RoundNumber,
		}
	case app.EventHandDealt:
		opCode = OpHandDealt
		p := ev.Payload.(app.HandDealtPayload)
		payload = HandDealtEvent{Hand: toWireCards(p.Hand)}
	case app.EventCardPlayed:
		opCode = OpCardPlayed
		p := ev.Payload.(app.CardPlayedPayload)
		payload = CardPlayedEvent{
			SeatID:         p.SeatID,
			Cards:          toWireCards(p.Cards),
			NextTurnSeatID: p.NextTurnSeatID,
			HandSize:       p.HandSize,
		}
	case app.EventTurnPassed:
		opCode = OpTurnPassed
		p := ev.Payload.(app.TurnPassedPayload)
		payload = TurnPassedEvent{SeatID: p.SeatID, NextTurnSeatID: p.NextTurnSeatID}
	case app.EventRoundReset:
		opCode = OpRoundReset
		p := ev.Payload.(app.RoundResetPayload)
		payload = RoundResetEvent{RoundNumber: p.RoundNumber, LeadSeatID: p.LeadSeatID}
	case app.EventGameEnded:
		opCode = OpGameEnded
		p := ev.Payload.(app.GameEndedPayload)
		payload = GameEndedEvent{WinnerSeatID: p.WinnerSeatID, Scores: p.Scores}

		// Game ended, return to lobby so the owner can request a rematch.
		state.Session = nil
		state.BotWaitUntil = 0
		state.TurnSeatID = ""
		mh.updateLabel(state, dispatcher, logger)
	default:
		logger.Warn("Unknown event kind: %v", ev.Kind)
		return
	}

	bytes, err := json.Marshal(payload)
	if err != nil {
		logger.Error("Failed to marshal event %v: %v", ev.Kind, err)
		return
	}

	// Determine recipients (default to broadcast)
	var recipients []runtime.Presence
	if len(ev.Recipients) > 0 {
		for _, uid := range ev.Recipients {
			if p, ok := state.Presences[uid]; ok {
				recipients = append(recipients, p)
			}
		}

		// If we had intended recipients but none are connected (e.g. they are bots),
		// we MUST NOT broadcast to everyone else.
		if len(recipients) == 0 {
			return
		}
	}

	dispatcher.BroadcastMessage(opCode, bytes, recipients, nil, true)
}

// sendError sends a GameErrorEvent to a specific user.
func (mh *matchHandler) sendError(state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger, userID string, code int, message string) {
	bytes, err := json.Marshal(GameErrorEvent{Code: code, Message: message})
	if err != nil {
		logger.Error("Failed to marshal GameErrorEvent: %v", err)
		return
	}

	presence, ok := state.Presences[userID]
	if !ok {
		logger.Warn("Cannot send error to %s: Presence not found", userID)
		return
	}

	dispatcher.BroadcastMessage(OpGameError, bytes, []runtime.Presence{presence}, nil, true)
}

func (mh *matchHandler) broadcastLobby(state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger, opCode int64) {
	phase := "lobby"
	if state.Session != nil {
		phase = "playing"
	}

	var players []PlayerInfo
	for i, userID := range state.Seats {
		if userID == "" {
			continue
		}

		displayName := userID
		if p, exists := state.Presences[userID]; exists {
			displayName = p.GetUsername()
		}

		handSize := 0
		if state.Session != nil {
			if snap, err := state.Session.SnapshotFor(userID); err == nil {
				handSize = len(snap.OwnHand)
			}
		}

		players = append(players, PlayerInfo{
			UserID:      userID,
			Seat:        i,
			IsOwner:     i == state.OwnerSeat,
			IsBot:       isBotUserId(userID),
			DisplayName: displayName,
			HandSize:    handSize,
		})
	}

	snapshot := LobbySnapshot{
		Seats:     state.Seats[:],
		OwnerSeat: state.OwnerSeat,
		Phase:     phase,
		Players:   players,
	}
	bytes, err := json.Marshal(snapshot)
	if err != nil {
		logger.Error("Failed to marshal lobby snapshot: %v", err)
		return
	}
	dispatcher.BroadcastMessage(opCode, bytes, nil, nil, true)
}

func (mh *matchHandler) updateLabel(state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger) {
	phase := "lobby"
	if state.Session != nil {
		phase = "playing"
	}

	label := MatchLabel{Open: state.GetOpenSeatsCount(), Game: "big2", Phase: phase}
	labelBytes, err := json.Marshal(label)
	if err != nil {
		logger.Error("UpdateLabel: Failed to marshal: %v", err)
		return
	}
	if err := dispatcher.MatchLabelUpdate(string(labelBytes)); err != nil {
		logger.Error("UpdateLabel: Failed to update: %v", err)
	}
}

func seatIndexOf(seats []string, userID string) int {
	for i, id := range seats {
		if id == userID {
			return i
		}
	}
	return -1
}

func (mh *matchHandler) MatchTerminate(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, dispatcher runtime.MatchDispatcher, tick int64, state interface{}, reason int) interface{} {
	if matchState, ok := state.(*MatchState); ok && matchState.Session != nil {
		matchState.Session.Close()
	}
	logger.Debug("MatchTerminate: Match terminated for reason %d", reason)
	return state
}

func (mh *matchHandler) MatchSignal(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, dispatcher runtime.MatchDispatcher, tick int64, state interface{}, data string) (interface{}, string) {
	return state, ""
}
