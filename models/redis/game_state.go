package redis

// GameSnapshot is the live view of a game kept in Redis so clients can
// poll round progress without hitting PostgreSQL
type GameSnapshot struct {
	GameID            string `json:"game_id"`
	State             string `json:"state"`
	PlayerCount       int    `json:"player_count"`
	MaxPlayers        int    `json:"max_players"`
	WinnerCount       int    `json:"winner_count"`
	PrizePool         uint64 `json:"prize_pool"`
	CurrentRound      int    `json:"current_round"`
	DrawnNumbers      []int  `json:"drawn_numbers"`
	RemainingPlayers  int    `json:"remaining_players"`
	VrfRequestPending bool   `json:"vrf_request_pending"`
	PendingRound      int    `json:"pending_round"`
}

// GameEvent is what gets published on a game's event channel and
// broadcast to its socket.io room
type GameEvent struct {
	GameID    string                 `json:"game_id"`
	Event     string                 `json:"event"`
	Payload   map[string]interface{} `json:"payload"`
	Timestamp int64                  `json:"timestamp"`
}
