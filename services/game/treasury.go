package game

import (
	constants "Rondo/constants/game"
	models "Rondo/models/postgres"
	"Rondo/services/redis"
	"Rondo/services/socket_io"
	"Rondo/services/token"
	"log"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// InitTreasury creates the single global treasury ledger. Must run once
// before any game exists, re-initialization is rejected.
func InitTreasury(db *gorm.DB, authorityUsername string, feePercentage int) (*models.Treasury, error) {
	if feePercentage <= 0 || feePercentage > constants.MaxTreasuryFeePercentage {
		return nil, ErrInvalidFeePercentage
	}

	var treasury *models.Treasury
	err := db.Transaction(func(tx *gorm.DB) error {
		var existing models.Treasury
		if err := tx.Where("id = ?", models.TreasuryID).First(&existing).Error; err == nil {
			return ErrTreasuryAlreadyInitialized
		} else if err != gorm.ErrRecordNotFound {
			return err
		}

		feeAccount, err := token.CreateAccount(tx, token.GenerateAddress(), authorityUsername, models.AccountKindTreasury)
		if err != nil {
			return err
		}
		destAccount, err := token.CreateAccount(tx, token.GenerateAddress(), authorityUsername, models.AccountKindWallet)
		if err != nil {
			return err
		}

		treasury = &models.Treasury{
			ID:                 models.TreasuryID,
			AuthorityUsername:  authorityUsername,
			FeePercentage:      feePercentage,
			TokenAddress:       feeAccount.Address,
			DestinationAddress: destAccount.Address,
		}
		return tx.Create(treasury).Error
	})
	if err != nil {
		return nil, err
	}

	log.Printf("[TREASURY] Treasury initialized, authority=%s fee=%d%%", authorityUsername, feePercentage)
	return treasury, nil
}

// GetTreasury returns the global treasury ledger
func GetTreasury(db *gorm.DB) (*models.Treasury, error) {
	var treasury models.Treasury
	if err := db.Where("id = ?", models.TreasuryID).First(&treasury).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, ErrTreasuryNotInitialized
		}
		return nil, err
	}
	return &treasury, nil
}

// WithdrawTreasury pays out up to the pending balance to the treasury's
// destination account. amount == nil withdraws everything pending.
func WithdrawTreasury(db *gorm.DB, rc *redis.RedisClient, sio *socket_io.SocketServer, callerUsername string, amount *uint64) (uint64, error) {
	var withdrawn uint64
	var remaining uint64

	err := db.Transaction(func(tx *gorm.DB) error {
		var treasury models.Treasury
		if err := tx.Where("id = ?", models.TreasuryID).First(&treasury).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				return ErrTreasuryNotInitialized
			}
			return err
		}

		if treasury.AuthorityUsername != callerUsername {
			return ErrUnauthorized
		}

		if amount != nil {
			if *amount > treasury.PendingWithdrawal {
				return ErrInsufficientTreasuryBalance
			}
			withdrawn = *amount
		} else {
			withdrawn = treasury.PendingWithdrawal
		}

		if withdrawn == 0 {
			return ErrNoFundsToWithdraw
		}

		if err := token.Transfer(tx, withdrawn, treasury.TokenAddress, treasury.DestinationAddress); err != nil {
			return err
		}

		// Checked subtraction, guarded above by the pending balance check
		if treasury.PendingWithdrawal < withdrawn {
			return ErrArithmeticOverflow
		}
		treasury.PendingWithdrawal -= withdrawn

		newDistributed := treasury.TotalDistributed + withdrawn
		if newDistributed < treasury.TotalDistributed {
			return ErrArithmeticOverflow
		}
		treasury.TotalDistributed = newDistributed

		remaining = treasury.PendingWithdrawal
		return tx.Save(&treasury).Error
	})
	if err != nil {
		return 0, err
	}

	log.Printf("[TREASURY] Withdrawal of %d processed by %s, remaining=%d", withdrawn, callerUsername, remaining)
	emitEvent(rc, sio, "treasury", EventTreasuryWithdrawal, gin.H{
		"authority":         callerUsername,
		"amount":            withdrawn,
		"remaining_balance": remaining,
	})

	return withdrawn, nil
}
