package postgres

import (
	"time"
)

// Token account kinds
const (
	AccountKindWallet   = "wallet"
	AccountKindEscrow   = "escrow"
	AccountKindTreasury = "treasury"
)

/*
 * 'TokenAccount' is one balance entry of the token ledger. Wallets belong
 * to users, one escrow account is created per game (and per raffle), and
 * the treasury owns two accounts (fees + withdrawal destination).
 */
type TokenAccount struct {
	Address       string    `gorm:"primaryKey;size:64;not null"`
	OwnerUsername string    `gorm:"size:50;index"`
	Kind          string    `gorm:"size:10;not null"`
	Balance       uint64    `gorm:"default:0"`
	CreatedAt     time.Time `gorm:"default:CURRENT_TIMESTAMP"`
}
