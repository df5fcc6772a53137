package postgres

import (
	"time"
)

// RaffleStatus is the lifecycle state of a raffle
type RaffleStatus string

const (
	RaffleActive      RaffleStatus = "active"
	RaffleDrawing     RaffleStatus = "drawing"
	RaffleComplete    RaffleStatus = "complete"
	RaffleDistributed RaffleStatus = "distributed"
	RaffleCancelled   RaffleStatus = "cancelled"
)

/*
 * 'Raffle' is the single-draw sibling of Game: ticket purchases, one
 * oracle draw, one winner, fee to the treasury. It contains references to
 * User (creator) and RaffleTicket
 */
type Raffle struct {
	ID              uint         `gorm:"primaryKey;autoIncrement"`
	CreatorUsername string       `gorm:"size:50;not null;index:idx_raffles_creator"`
	Title           string       `gorm:"size:200;not null"`
	Description     string       `gorm:"size:1000"`
	PrizeAmount     uint64       `gorm:"not null"`
	TicketPrice     uint64       `gorm:"not null"`
	MaxTickets      int          `gorm:"not null"`
	TicketsSold     int          `gorm:"default:0"`
	StartTime       time.Time    `gorm:"not null"`
	EndTime         time.Time    `gorm:"not null"`
	Status          RaffleStatus `gorm:"size:15;not null;index:idx_raffles_status"`
	EscrowAddress   string       `gorm:"size:64;not null"`

	// Handle of the pending oracle request while drawing
	OracleHandle  string    `gorm:"size:64"`
	WinnerWallet  *string   `gorm:"size:64"`
	WinningTicket *int
	CreatedAt     time.Time `gorm:"default:CURRENT_TIMESTAMP"`
	DrawnAt       *time.Time
	DistributedAt *time.Time

	// Relationships
	Creator User           `gorm:"foreignKey:CreatorUsername;references:Username"`
	Tickets []RaffleTicket `gorm:"foreignKey:RaffleID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
}

// HasEnded reports whether the raffle reached its end time or sold out
func (r *Raffle) HasEnded(now time.Time) bool {
	return now.After(r.EndTime) || r.TicketsSold >= r.MaxTickets
}

/*
 * 'RaffleTicket' is one purchased ticket. Ticket numbers start at 0 and
 * follow the purchase order, which is what the winning-ticket draw
 * indexes into.
 */
type RaffleTicket struct {
	// NOTE: composite primary key definition
	RaffleID     uint      `gorm:"primaryKey;not null"`
	TicketNumber int       `gorm:"primaryKey;not null"`
	OwnerWallet  string    `gorm:"size:64;not null;index"`
	Refunded     bool      `gorm:"default:false"`
	PurchasedAt  time.Time `gorm:"default:CURRENT_TIMESTAMP"`
}
