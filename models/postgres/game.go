package postgres

import (
	"time"

	"gorm.io/datatypes"
)

// GameStatus is the lifecycle state of a game
type GameStatus string

const (
	StatusCreated         GameStatus = "created"
	StatusJoining         GameStatus = "joining"
	StatusNumberSelection GameStatus = "number_selection"
	StatusPlaying         GameStatus = "playing"
	StatusDistributing    GameStatus = "distributing"
	StatusCompleted       GameStatus = "completed"
	StatusCancelled       GameStatus = "cancelled"
)

/*
 * 'Game' defines the structure of an elimination lottery game. One row per
 * lottery instance, created together with its (empty) player roster.
 * It contains references to User (creator) and Player
 */
type Game struct {
	ID              string     `gorm:"primaryKey;size:16;not null"`
	CreatorUsername string     `gorm:"size:50;not null;index:idx_games_creator"`
	EntryFee        uint64     `gorm:"not null"`
	MaxPlayers      int        `gorm:"not null"`
	WinnerCount     int        `gorm:"not null"`
	State           GameStatus `gorm:"size:20;not null;index:idx_games_state"`
	PrizePool       uint64     `gorm:"default:0"`
	TreasuryFee     uint64     `gorm:"default:0"`
	NumberMin       int        `gorm:"not null"`
	NumberMax       int        `gorm:"not null"`
	CreatedAt       time.Time  `gorm:"default:CURRENT_TIMESTAMP"`
	StartedAt       *time.Time
	CompletedAt     *time.Time
	PaymentDeadline time.Time `gorm:"not null"`
	CurrentRound    int       `gorm:"default:0"`

	// Append-only list of drawn numbers, one per completed round
	DrawnNumbers datatypes.JSON `gorm:"type:jsonb;default:'[]'"`

	// Escrow token account holding the deposited entry fees
	EscrowAddress string `gorm:"size:64;not null"`

	// Username of the oracle authority allowed to submit randomness
	VrfOracle string `gorm:"size:50;not null"`

	// Two-phase oracle request guard (see services/game/randomness.go)
	VrfRequestPending bool   `gorm:"default:false"`
	PendingRound      int    `gorm:"default:0"`
	OracleHandle      string `gorm:"size:64"`

	CancelReason  string     `gorm:"size:200"`
	PreviousState GameStatus `gorm:"size:20"`

	// Relationships
	Creator User     `gorm:"foreignKey:CreatorUsername;references:Username"`
	Players []Player `gorm:"foreignKey:GameID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
}

// IsTerminal reports whether the game reached a terminal state
func (g *Game) IsTerminal() bool {
	return g.State == StatusCompleted || g.State == StatusCancelled
}
