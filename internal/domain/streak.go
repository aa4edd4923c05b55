package domain

// StreakResult describes what one streak evaluation did.
type StreakResult struct {
	CurrentStreak int    `json:"current_streak"`
	LastStreakKey string `json:"last_streak_key"`
	Extended      bool   `json:"extended"`     // streak grew (first day or +1)
	Saved         bool   `json:"saved"`        // a gap was bridged by shields
	Broke         bool   `json:"broke"`        // streak reset to 1
	ShieldsUsed   int    `json:"shields_used"` // shields consumed on a save
	Milestone     int    `json:"milestone"`    // milestone length reached, 0 if none
}
