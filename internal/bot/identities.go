package bot

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"sync"
)

// Identity is a bot profile presented to human players.
type Identity struct {
	UserID      string `json:"user_id"`
	Username    string `json:"username"`
	DisplayName string `json:"display_name"`
	Difficulty  string `json:"difficulty"` // "easy", "normal", "hard"
	AvatarIndex int    `json:"avatar_index"`
}

const botIDPrefix = "bot-"

var (
	identities    []Identity
	identityByID  map[string]Identity
	identitiesMu  sync.RWMutex
	loadOnce      sync.Once
	loadErr       error
)

// LoadIdentities loads bot profiles from the given JSON file once.
func LoadIdentities(path string) error {
	loadOnce.Do(func() {
		data, err := os.ReadFile(path)
		if err != nil {
			loadErr = fmt.Errorf("failed to read bot identities: %w", err)
			return
		}

		var loaded []Identity
		if err := json.Unmarshal(data, &loaded); err != nil {
			loadErr = fmt.Errorf("failed to unmarshal bot identities: %w", err)
			return
		}

		identitiesMu.Lock()
		defer identitiesMu.Unlock()
		identities = loaded
		identityByID = make(map[string]Identity, len(loaded))
		for _, id := range loaded {
			if id.UserID != "" {
				identityByID[id.UserID] = id
			}
		}
	})
	return loadErr
}

// IsBot reports whether the user id belongs to a bot seat.
func IsBot(userID string) bool {
	if strings.HasPrefix(userID, botIDPrefix) {
		return true
	}
	identitiesMu.RLock()
	defer identitiesMu.RUnlock()
	_, ok := identityByID[userID]
	return ok
}

// PickIdentity returns an unused profile for the requested difficulty,
// or a synthetic one when the pool is exhausted or never loaded.
func PickIdentity(difficulty string, taken map[string]bool) Identity {
	identitiesMu.RLock()
	defer identitiesMu.RUnlock()
	for _, id := range identities {
		if id.Difficulty == difficulty && !taken[id.UserID] {
			return id
		}
	}
	n := len(taken) + 1
	return Identity{
		UserID:      fmt.Sprintf("%s%s-%d", botIDPrefix, difficulty, n),
		Username:    fmt.Sprintf("bot_%d", n),
		DisplayName: fmt.Sprintf("Bot %d", n),
		Difficulty:  difficulty,
	}
}
