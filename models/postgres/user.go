package postgres

import (
	"time"
)

/*
 * 'User' contains the blueprint definition of a User. Every user owns a
 * wallet token account that entry fees are paid from and prizes are
 * refunded to.
 */
type User struct {
	Email         string    `gorm:"primaryKey;size:100;not null"`
	Username      string    `gorm:"size:50;not null;uniqueIndex"`
	PasswordHash  string    `gorm:"size:255;not null"`
	WalletAddress string    `gorm:"size:64;not null;uniqueIndex"`
	MemberSince   time.Time `gorm:"default:CURRENT_TIMESTAMP"`

	// Relationship with the games created by this user
	Games []Game `gorm:"foreignKey:CreatorUsername;references:Username"`
}
