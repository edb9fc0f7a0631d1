package bot

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/form3tech-oss/jwt-go"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"

	"github.com/Retopia/Big-2-Backend/internal/domain"
)

// ExternalConfig describes the remote decision service endpoint.
type ExternalConfig struct {
	URL     string
	Issuer  string
	Secret  string
	Timeout time.Duration
}

// External consults a remote prediction service for a move. Every answer
// is re-verified against the enumerator's candidate set, and any
// timeout, transport failure, parse failure, or ineligible card set
// falls back to the wrapped strategy so a match is never blocked on the
// remote side. This adapter is the only place card codes exist as
// strings.
type External struct {
	cfg      ExternalConfig
	client   *http.Client
	fallback Strategy
	logger   zerolog.Logger
}

// NewExternal builds the adapter. The timeout is mandatory; a zero
// value gets a conservative default.
func NewExternal(cfg ExternalConfig, fallback Strategy, logger zerolog.Logger) *External {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 3 * time.Second
	}
	return &External{
		cfg:      cfg,
		client:   &http.Client{Timeout: cfg.Timeout},
		fallback: fallback,
		logger:   logger,
	}
}

type externalRequest struct {
	Hand              []string   `json:"hand"`
	TableLead         []string   `json:"table_lead"`
	FirstPlay         bool       `json:"first_play"`
	RoundNumber       int        `json:"round_number"`
	OpponentHandSizes []int      `json:"opponent_hand_sizes"`
	RecentMoves       [][]string `json:"recent_moves,omitempty"`
}

type externalResponse struct {
	Action string   `json:"action"` // "play" or "pass"
	Cards  []string `json:"cards,omitempty"`
}

func (e *External) Decide(ctx context.Context, view View) (Move, error) {
	candidates := domain.Enumerate(view.Hand, view.TableLead, view.FirstPlay, view.OpeningValue)
	if len(candidates) == 0 {
		return Move{Pass: true}, nil
	}

	move, err := e.consult(ctx, view, candidates)
	if err != nil {
		e.logger.Warn().Err(err).Msg("external strategy unusable, falling back to heuristic")
		return e.fallback.Decide(ctx, view)
	}
	return move, nil
}

func (e *External) consult(ctx context.Context, view View, candidates []domain.Play) (Move, error) {
	payload := externalRequest{
		Hand:              formatCards(view.Hand),
		TableLead:         formatCards(view.TableLead),
		FirstPlay:         view.FirstPlay,
		RoundNumber:       view.RoundNumber,
		OpponentHandSizes: view.OpponentHandSizes,
	}
	for _, rec := range recentMoves(view.History, 8) {
		payload.RecentMoves = append(payload.RecentMoves, formatCards(rec.Cards))
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return Move{}, errors.Wrap(err, "encode request")
	}

	token, err := e.signToken()
	if err != nil {
		return Move{}, errors.Wrap(err, "sign request token")
	}

	ctx, cancel := context.WithTimeout(ctx, e.cfg.Timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, e.cfg.URL, bytes.NewReader(body))
	if err != nil {
		return Move{}, errors.Wrap(err, "build request")
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := e.client.Do(req)
	if err != nil {
		return Move{}, errors.Wrap(err, "call decision service")
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return Move{}, errors.Errorf("decision service returned status %d", resp.StatusCode)
	}

	var answer externalResponse
	if err := json.NewDecoder(resp.Body).Decode(&answer); err != nil {
		return Move{}, errors.Wrap(err, "decode response")
	}

	return e.verify(answer, view, candidates)
}

// verify checks the remote answer against the caller's own hand and the
// enumerator's candidate set before it is allowed near the match.
func (e *External) verify(answer externalResponse, view View, candidates []domain.Play) (Move, error) {
	switch answer.Action {
	case "pass":
		if len(view.TableLead) == 0 {
			return Move{}, errors.New("remote passed while leading a round")
		}
		return Move{Pass: true}, nil
	case "play":
	default:
		return Move{}, errors.Errorf("unknown action %q", answer.Action)
	}

	cards := make([]domain.Card, 0, len(answer.Cards))
	for _, code := range answer.Cards {
		card, err := ParseCardCode(code)
		if err != nil {
			return Move{}, err
		}
		if !domain.ContainsCard(view.Hand, card) {
			return Move{}, errors.Errorf("card %s not in hand", code)
		}
		cards = append(cards, card)
	}

	for _, cand := range candidates {
		if sameCardSet(cards, cand.Cards) {
			return Move{Cards: cards}, nil
		}
	}
	return Move{}, errors.New("remote play matches no legal candidate")
}

func (e *External) signToken() (string, error) {
	claims := jwt.MapClaims{
		"iss": e.cfg.Issuer,
		"sub": "move-decision",
		"iat": time.Now().Unix(),
		"exp": time.Now().Add(time.Minute).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(e.cfg.Secret))
}

func recentMoves(history []domain.MoveRecord, n int) []domain.MoveRecord {
	if len(history) <= n {
		return history
	}
	return history[len(history)-n:]
}

func sameCardSet(a, b []domain.Card) bool {
	if len(a) != len(b) {
		return false
	}
	counts := make(map[domain.Card]int, len(a))
	for _, c := range a {
		counts[c]++
	}
	for _, c := range b {
		counts[c]--
		if counts[c] < 0 {
			return false
		}
	}
	return true
}
