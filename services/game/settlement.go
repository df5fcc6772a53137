package game

import (
	models "Rondo/models/postgres"
	"Rondo/services/redis"
	"Rondo/services/socket_io"
	"Rondo/services/token"
	"log"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// CompleteGame settles a game once the survivors are within the winner
// count. It marks the winners, fixes their per-winner prize, moves the
// accrued fee from escrow to the treasury and opens the claim window.
// The winner count used for the split is the ACTUAL number of survivors,
// which can be below the configured winner count.
func CompleteGame(db *gorm.DB, rc *redis.RedisClient, sio *socket_io.SocketServer,
	gameID string, callerUsername string) (*models.Game, error) {

	var g *models.Game
	var players []models.Player
	var winners []string
	var prizePerWinner uint64

	err := db.Transaction(func(tx *gorm.DB) error {
		var err error
		g, err = loadGame(tx, gameID)
		if err != nil {
			return err
		}

		if g.CreatorUsername != callerUsername && g.VrfOracle != callerUsername {
			return ErrUnauthorized
		}
		if g.State != models.StatusPlaying {
			return ErrInvalidGameState
		}

		players, err = loadRoster(tx, gameID)
		if err != nil {
			return err
		}

		remaining := CountActivePlayers(players)
		if remaining > g.WinnerCount {
			return ErrGameNotReadyToComplete
		}
		if remaining == 0 {
			return ErrNoWinnersFound
		}

		prizePerWinner, err = CalculatePrizeDistribution(g.PrizePool, g.TreasuryFee, remaining)
		if err != nil {
			return err
		}

		for i := range players {
			p := &players[i]
			if !p.IsActive() {
				continue
			}
			p.IsWinner = true
			p.PrizeAmount = prizePerWinner
			if err := tx.Save(p).Error; err != nil {
				return err
			}
			winners = append(winners, p.WalletAddress)
		}

		if g.TreasuryFee > 0 {
			var treasury models.Treasury
			if err := tx.Where("id = ?", models.TreasuryID).First(&treasury).Error; err != nil {
				if err == gorm.ErrRecordNotFound {
					return ErrTreasuryNotInitialized
				}
				return err
			}

			if err := token.Transfer(tx, g.TreasuryFee, g.EscrowAddress, treasury.TokenAddress); err != nil {
				return err
			}

			newCollected := treasury.TotalCollected + g.TreasuryFee
			if newCollected < treasury.TotalCollected {
				return ErrArithmeticOverflow
			}
			newPending := treasury.PendingWithdrawal + g.TreasuryFee
			if newPending < treasury.PendingWithdrawal {
				return ErrArithmeticOverflow
			}
			treasury.TotalCollected = newCollected
			treasury.PendingWithdrawal = newPending
			if err := tx.Save(&treasury).Error; err != nil {
				return err
			}
		}

		now := time.Now()
		g.State = models.StatusDistributing
		g.CompletedAt = &now
		return tx.Save(g).Error
	})
	if err != nil {
		return nil, err
	}

	log.Printf("[GAME] Game %s completed: winners=%d prize=%d fee=%d",
		gameID, len(winners), prizePerWinner, g.TreasuryFee)

	syncSnapshot(rc, g, players)
	emitEvent(rc, sio, gameID, EventGameCompleted, gin.H{
		"game_id":          gameID,
		"winners":          winners,
		"prize_per_winner": prizePerWinner,
		"treasury_fee":     g.TreasuryFee,
	})

	return g, nil
}
