package models

// Milestone is a configured pint-count threshold with an associated reward.
// Rows are seeded once and read-only from the API's perspective.
type Milestone struct {
	ID         string  `json:"id" db:"id"`
	Name       string  `json:"name" db:"name"`
	PintTarget int     `json:"pintTarget" db:"pint_target"`
	RewardText *string `json:"rewardText,omitempty" db:"reward_text"`
}
