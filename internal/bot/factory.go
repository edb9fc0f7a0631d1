package bot

import "math/rand"

// Difficulty tags accepted by the factory.
const (
	DifficultyEasy   = "easy"
	DifficultyNormal = "normal"
	DifficultyHard   = "hard"
)

// NewStrategy creates a strategy for the given difficulty tag. Unknown
// tags get the heuristic, so a misconfigured seat still plays. The rng
// is only consulted by the easy strategy.
func NewStrategy(difficulty string, rng *rand.Rand) Strategy {
	switch difficulty {
	case DifficultyEasy:
		return NewSimple(rng)
	case DifficultyHard:
		return NewHeuristic(HardTuning)
	default:
		return NewHeuristic(DefaultTuning)
	}
}
