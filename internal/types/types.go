package types

import "time"

// ProgressRecord is the authoritative per-user game state.
type ProgressRecord struct {
	UserID      string    `json:"userId"`
	DisplayName string    `json:"userName"`
	TotalCoins  int64     `json:"coins"`
	TotalDelta  int64     `json:"totalDelta"`
	Level       int       `json:"level"`
	TapPower    int       `json:"tapPower"`
	LastSyncAt  time.Time `json:"lastSyncAt"`
}

// TapRequest is the client-reported sync payload for POST /api/tap.
// Coins is a pointer so a missing field is distinguishable from zero.
type TapRequest struct {
	UserID   string   `json:"userId"`
	UserName string   `json:"userName,omitempty"`
	Coins    *float64 `json:"coins"`
	InitData string   `json:"initData,omitempty"`
}

// LeaderboardEntry is one ranked row of the leaderboard response.
type LeaderboardEntry struct {
	UserID      string `json:"userId"`
	DisplayName string `json:"userName"`
	TotalCoins  int64  `json:"coins"`
	Level       int    `json:"level"`
}

// JournalEntry records one accepted sync for audit purposes.
type JournalEntry struct {
	SyncID     string    `json:"syncId"`
	UserID     string    `json:"userId"`
	Delta      int64     `json:"delta"`
	TotalCoins int64     `json:"coins"`
	AppliedAt  time.Time `json:"appliedAt"`
}

// ErrorResponse is the fixed error body the game client expects.
type ErrorResponse struct {
	Error string `json:"error"`
}

// HealthResponse reports service liveness and store size.
type HealthResponse struct {
	Status    string `json:"status"`
	Version   string `json:"version"`
	UserCount int    `json:"user_count"`
}
