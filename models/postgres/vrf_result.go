package postgres

import (
	"time"
)

/*
 * 'VrfResult' stores the randomness for one (game, round) pair. Exactly
 * one row accumulates per round and rows are never deleted.
 */
type VrfResult struct {
	// NOTE: composite primary key definition
	GameID string `gorm:"primaryKey;size:16;not null"`
	Round  int    `gorm:"primaryKey;not null"`
	// 32-byte random value from the oracle
	RandomValue []byte `gorm:"type:bytea;not null"`
	// Variable-length proof, only present on the oracle-signed path
	Proof []byte `gorm:"type:bytea"`
	// Number derived from the random value, within the game's range
	DrawnNumber int `gorm:"not null"`
	// Single-use flag, set by the elimination pass that consumed this row
	Used        bool      `gorm:"default:false"`
	SubmittedAt time.Time `gorm:"default:CURRENT_TIMESTAMP"`

	// Relationship with the game
	Game Game `gorm:"foreignKey:GameID"`
}
