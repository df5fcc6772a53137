package utils

import "fmt"

// Deterministic key derivation for every Redis-backed record. Anything
// that reads or writes game state in Redis goes through these, so the
// {entity, game, round} triple always maps to the same address.

// FormatGameKey returns the key of a game's live snapshot
// Format: "game:{id}"
func FormatGameKey(gameID string) string {
	return fmt.Sprintf("game:%s", gameID)
}

// FormatGameEventsKey returns the pub/sub channel of a game's events
// Format: "game:{id}:events"
func FormatGameEventsKey(gameID string) string {
	return fmt.Sprintf("game:%s:events", gameID)
}

// FormatOracleRequestKey returns the key of a raw oracle request handle
// Format: "oracle:{handle}"
func FormatOracleRequestKey(handle string) string {
	return fmt.Sprintf("oracle:%s", handle)
}
