package token

import (
	models "Rondo/models/postgres"
	"errors"
	"fmt"
	"math/rand"

	"gorm.io/gorm"
)

// Token transfer service. The game engine never touches balances
// directly: every fund movement between wallets, escrows and the
// treasury goes through Transfer, inside the caller's transaction, so a
// failed transfer aborts the whole game operation.

var (
	ErrAccountNotFound    = errors.New("token account not found")
	ErrInsufficientFunds  = errors.New("insufficient token balance")
	ErrArithmeticOverflow = errors.New("token arithmetic overflow")
)

const addressCharset = "abcdefghijklmnopqrstuvwxyz0123456789"

// GenerateAddress produces a new pseudo-random account address
func GenerateAddress() string {
	b := make([]byte, 44)
	for i := range b {
		b[i] = addressCharset[rand.Intn(len(addressCharset))]
	}
	return string(b)
}

// CreateAccount inserts a new zero-balance token account
func CreateAccount(tx *gorm.DB, address string, owner string, kind string) (*models.TokenAccount, error) {
	account := models.TokenAccount{
		Address:       address,
		OwnerUsername: owner,
		Kind:          kind,
	}
	if err := tx.Create(&account).Error; err != nil {
		return nil, fmt.Errorf("error creating token account: %w", err)
	}
	return &account, nil
}

// Deposit credits an account (dev/test faucet, there is no real mint)
func Deposit(tx *gorm.DB, address string, amount uint64) error {
	var account models.TokenAccount
	if err := tx.Where("address = ?", address).First(&account).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return ErrAccountNotFound
		}
		return err
	}

	newBalance := account.Balance + amount
	if newBalance < account.Balance {
		return ErrArithmeticOverflow
	}
	account.Balance = newBalance

	return tx.Save(&account).Error
}

// Transfer moves amount from one account to another. Both legs happen in
// the caller's transaction: either both balances change or neither does.
func Transfer(tx *gorm.DB, amount uint64, from string, to string) error {
	var source models.TokenAccount
	if err := tx.Where("address = ?", from).First(&source).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return ErrAccountNotFound
		}
		return err
	}

	var dest models.TokenAccount
	if err := tx.Where("address = ?", to).First(&dest).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return ErrAccountNotFound
		}
		return err
	}

	if source.Balance < amount {
		return ErrInsufficientFunds
	}

	newDestBalance := dest.Balance + amount
	if newDestBalance < dest.Balance {
		return ErrArithmeticOverflow
	}

	source.Balance -= amount
	dest.Balance = newDestBalance

	if err := tx.Save(&source).Error; err != nil {
		return fmt.Errorf("error saving source account: %w", err)
	}
	if err := tx.Save(&dest).Error; err != nil {
		return fmt.Errorf("error saving destination account: %w", err)
	}
	return nil
}

// GetBalance returns the current balance of an account
func GetBalance(tx *gorm.DB, address string) (uint64, error) {
	var account models.TokenAccount
	if err := tx.Where("address = ?", address).First(&account).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return 0, ErrAccountNotFound
		}
		return 0, err
	}
	return account.Balance, nil
}
