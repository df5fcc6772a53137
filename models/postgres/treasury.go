package postgres

import (
	"time"
)

/*
 * 'Treasury' is the single global fee ledger. It must be initialized once
 * before any game can be created. Invariant:
 * pending_withdrawal <= total_collected - total_distributed
 */
type Treasury struct {
	ID                int    `gorm:"primaryKey"`
	AuthorityUsername string `gorm:"size:50;not null"`
	TotalCollected    uint64 `gorm:"default:0"`
	TotalDistributed  uint64 `gorm:"default:0"`
	PendingWithdrawal uint64 `gorm:"default:0"`
	FeePercentage     int    `gorm:"not null"`
	// Token account the fees accumulate on
	TokenAddress string `gorm:"size:64;not null"`
	// Token account withdrawals are paid out to
	DestinationAddress string    `gorm:"size:64;not null"`
	CreatedAt          time.Time `gorm:"default:CURRENT_TIMESTAMP"`
}

// TreasuryID is the fixed primary key of the singleton treasury row
const TreasuryID = 1
