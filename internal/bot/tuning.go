package bot

// DangerLevel classifies how close the most advanced opponent is to
// going out.
type DangerLevel int

const (
	DangerLow DangerLevel = iota
	DangerMedium
	DangerHigh
)

// DetectDanger derives the danger level from the minimum opponent hand
// size: two or fewer cards is high, four or fewer medium, otherwise low.
func DetectDanger(opponentHandSizes []int) DangerLevel {
	min := -1
	for _, n := range opponentHandSizes {
		if n <= 0 {
			continue
		}
		if min == -1 || n < min {
			min = n
		}
	}
	switch {
	case min == -1:
		return DangerLow
	case min <= 2:
		return DangerHigh
	case min <= 4:
		return DangerMedium
	}
	return DangerLow
}

// Weights tune move cost terms for one danger level. Lower cost wins.
type Weights struct {
	BaseValue      float64 // per point of play value; keeps cheap cards flowing out
	BreakStructure float64 // per pair/triple/quad split by a smaller play
	ControlCard    float64 // per Ace or 2 spent
	OverbidMargin  float64 // per point above the lead when responding
	LeadMultiCard  float64 // per card rewarded on a multi-card open lead
	ShedReward     float64 // per card shed once in endgame
	FinishReward   float64 // flat reward for emptying the hand
}

// Tuning holds per-danger weight tables and shared thresholds.
type Tuning struct {
	Low             Weights
	Medium          Weights
	High            Weights
	EndgameHandSize int
	TieNudge        float64
}

// ForDanger returns the weights matching the supplied danger level.
func (t Tuning) ForDanger(d DangerLevel) Weights {
	switch d {
	case DangerHigh:
		return t.High
	case DangerMedium:
		return t.Medium
	}
	return t.Low
}

const finishReward = 1000.0

// DefaultTuning hoards structure and control cards while safe and spends
// both freely once an opponent is near empty.
var DefaultTuning = Tuning{
	Low: Weights{
		BaseValue:      0.10,
		BreakStructure: 3.0,
		ControlCard:    6.0,
		OverbidMargin:  0.30,
		LeadMultiCard:  1.2,
		ShedReward:     4.0,
		FinishReward:   finishReward,
	},
	Medium: Weights{
		BaseValue:      0.10,
		BreakStructure: 2.0,
		ControlCard:    3.5,
		OverbidMargin:  0.18,
		LeadMultiCard:  1.5,
		ShedReward:     4.5,
		FinishReward:   finishReward,
	},
	High: Weights{
		BaseValue:      0.10,
		BreakStructure: 0.8,
		ControlCard:    1.0,
		OverbidMargin:  0.06,
		LeadMultiCard:  2.0,
		ShedReward:     5.0,
		FinishReward:   finishReward,
	},
	EndgameHandSize: 5,
	TieNudge:        0.001,
}

// HardTuning leans harder on multi-card leads and sheds earlier,
// trading card hoarding for tempo.
var HardTuning = Tuning{
	Low: Weights{
		BaseValue:      0.08,
		BreakStructure: 2.5,
		ControlCard:    5.0,
		OverbidMargin:  0.25,
		LeadMultiCard:  1.8,
		ShedReward:     4.5,
		FinishReward:   finishReward,
	},
	Medium: Weights{
		BaseValue:      0.08,
		BreakStructure: 1.5,
		ControlCard:    2.5,
		OverbidMargin:  0.14,
		LeadMultiCard:  2.2,
		ShedReward:     5.0,
		FinishReward:   finishReward,
	},
	High: Weights{
		BaseValue:      0.08,
		BreakStructure: 0.5,
		ControlCard:    0.6,
		OverbidMargin:  0.04,
		LeadMultiCard:  2.6,
		ShedReward:     5.5,
		FinishReward:   finishReward,
	},
	EndgameHandSize: 6,
	TieNudge:        0.001,
}
