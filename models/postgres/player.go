package postgres

import (
	"time"
)

// PayoutStatus distinguishes a claimed prize from a processed refund.
// The on-chain version reused one bool for both, which made game history
// ambiguous after a cancellation.
type PayoutStatus string

const (
	PayoutUnclaimed    PayoutStatus = "unclaimed"
	PayoutPrizeClaimed PayoutStatus = "prize_claimed"
	PayoutRefunded     PayoutStatus = "refunded"
)

/*
 * 'Player' represents one roster entry of a game. It contains references
 * to Game and User (via the wallet address)
 */
type Player struct {
	// NOTE: composite primary key definition
	GameID        string `gorm:"primaryKey;size:16;not null"`
	WalletAddress string `gorm:"primaryKey;size:64;not null;index"`
	ExternalID    string `gorm:"size:32;not null"`
	// nil until the player picks a number during number selection
	SelectedNumber *int
	// nil while the player is still active
	EliminatedRound *int
	IsWinner        bool         `gorm:"default:false"`
	PayoutStatus    PayoutStatus `gorm:"size:15;default:'unclaimed'"`
	PrizeAmount     uint64       `gorm:"default:0"`
	JoinedAt        time.Time    `gorm:"default:CURRENT_TIMESTAMP"`

	// Relationship with the game
	Game Game `gorm:"foreignKey:GameID"`
}

// IsActive reports whether the player is still in the running
func (p *Player) IsActive() bool {
	return p.EliminatedRound == nil
}

// HasSelected reports whether the player already picked a number
func (p *Player) HasSelected() bool {
	return p.SelectedNumber != nil
}
