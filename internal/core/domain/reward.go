package domain

import "errors"

// Difficulty is the tier a requester picks at creation; it fixes the reward.
type Difficulty string

const (
	DifficultyEasy   Difficulty = "easy"
	DifficultyMedium Difficulty = "medium"
	DifficultyHard   Difficulty = "hard"
)

var ErrInvalidDifficulty = errors.New("invalid difficulty")

// Reward is the (coins, xp) pair frozen onto a task at creation.
type Reward struct {
	Coins int
	XP    int
}

// rewardTable is the fixed difficulty → reward mapping. Coins and XP are
// intentionally equal per tier.
var rewardTable = map[Difficulty]Reward{
	DifficultyEasy:   {Coins: 10, XP: 10},
	DifficultyMedium: {Coins: 25, XP: 25},
	DifficultyHard:   {Coins: 50, XP: 50},
}

// RewardFor returns the reward for a difficulty tier. It is the only way a
// reward amount enters the system.
func RewardFor(d Difficulty) (Reward, error) {
	r, ok := rewardTable[d]
	if !ok {
		return Reward{}, ErrInvalidDifficulty
	}
	return r, nil
}
