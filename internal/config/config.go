package config

import (
	"encoding/json"
	"fmt"
	"os"
	"sync"
)

// ExternalStrategyConfig points bot seats at an external decision
// service. An empty URL disables the integration.
type ExternalStrategyConfig struct {
	URL           string `json:"url"`
	Issuer        string `json:"issuer"`
	Secret        string `json:"secret"`
	TimeoutMillis int    `json:"timeout_millis"`
}

type GameConfig struct {
	TurnDurationSeconds int    `json:"turn_duration_seconds"`
	DefaultDifficulty   string `json:"default_difficulty"`
	// BotMinDelayTicks / BotMaxDelayTicks bound the artificial pause
	// before a bot acts, in match ticks.
	BotMinDelayTicks int `json:"bot_min_delay_ticks"`
	BotMaxDelayTicks int `json:"bot_max_delay_ticks"`
	// BotAutoFillDelaySeconds configures how many seconds to wait before adding bots to a short-handed lobby.
	BotAutoFillDelaySeconds int                    `json:"bot_auto_fill_delay_seconds"`
	External                ExternalStrategyConfig `json:"external_strategy"`
}

var (
	cfg      *GameConfig
	loadOnce sync.Once
	loadErr  error
)

// LoadGameConfig loads the game configuration from the given path.
func LoadGameConfig(path string) error {
	loadOnce.Do(func() {
		data, err := os.ReadFile(path)
		if err != nil {
			loadErr = fmt.Errorf("failed to read game config: %w", err)
			return
		}

		var c GameConfig
		if err := json.Unmarshal(data, &c); err != nil {
			loadErr = fmt.Errorf("failed to unmarshal game config: %w", err)
			return
		}
		cfg = &c
	})
	return loadErr
}

// GetGameConfig returns the global game configuration, falling back to
// defaults when no file was loaded.
func GetGameConfig() *GameConfig {
	if cfg == nil {
		return defaultConfig()
	}
	return cfg
}

func defaultConfig() *GameConfig {
	return &GameConfig{
		TurnDurationSeconds:     30,
		DefaultDifficulty:       "normal",
		BotMinDelayTicks:        2,
		BotMaxDelayTicks:        6,
		BotAutoFillDelaySeconds: 10,
	}
}

// TurnDuration returns the configured turn clock in seconds, with a
// sane floor.
func TurnDuration() int {
	c := GetGameConfig()
	if c.TurnDurationSeconds <= 0 {
		return 30
	}
	return c.TurnDurationSeconds
}
