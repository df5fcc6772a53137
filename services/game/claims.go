package game

import (
	models "Rondo/models/postgres"
	"Rondo/services/redis"
	"Rondo/services/socket_io"
	"Rondo/services/token"
	"log"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// ClaimPrize pays out a winner's prize from the escrow, exactly once.
// When the last winner collects, the game closes to its terminal
// completed state.
func ClaimPrize(db *gorm.DB, rc *redis.RedisClient, sio *socket_io.SocketServer,
	gameID string, walletAddress string) (uint64, error) {

	var g *models.Game
	var players []models.Player
	var amount uint64
	var allClaimed bool

	err := db.Transaction(func(tx *gorm.DB) error {
		var err error
		g, err = loadGame(tx, gameID)
		if err != nil {
			return err
		}

		if g.State != models.StatusDistributing {
			return ErrInvalidGameState
		}

		players, err = loadRoster(tx, gameID)
		if err != nil {
			return err
		}

		player := FindPlayer(players, walletAddress)
		if player == nil {
			return ErrPlayerNotInGame
		}
		if !player.IsWinner {
			return ErrNotAWinner
		}
		if player.PayoutStatus == models.PayoutPrizeClaimed {
			return ErrPrizeAlreadyClaimed
		}
		if player.PrizeAmount == 0 {
			return ErrNoPrizeToClaim
		}

		amount = player.PrizeAmount
		if err := token.Transfer(tx, amount, g.EscrowAddress, walletAddress); err != nil {
			return err
		}

		player.PayoutStatus = models.PayoutPrizeClaimed
		if err := tx.Save(player).Error; err != nil {
			return err
		}

		allClaimed = true
		for i := range players {
			p := &players[i]
			if p.IsWinner && p.PayoutStatus != models.PayoutPrizeClaimed {
				allClaimed = false
				break
			}
		}
		if allClaimed {
			g.State = models.StatusCompleted
			return tx.Save(g).Error
		}
		return nil
	})
	if err != nil {
		return 0, err
	}

	log.Printf("[GAME] Prize of %d claimed by %s in game %s", amount, walletAddress, gameID)

	syncSnapshot(rc, g, players)
	emitEvent(rc, sio, gameID, EventPrizeClaimed, gin.H{
		"game_id": gameID,
		"wallet":  walletAddress,
		"amount":  amount,
	})
	if allClaimed {
		emitEvent(rc, sio, gameID, EventAllPrizesClaimed, gin.H{
			"game_id": gameID,
		})
	}

	return amount, nil
}

// RequestRefund returns a player's entry fee after cancellation,
// exactly once per player.
func RequestRefund(db *gorm.DB, rc *redis.RedisClient, sio *socket_io.SocketServer,
	gameID string, walletAddress string) (uint64, error) {

	var g *models.Game
	var players []models.Player
	var amount uint64
	var allRefunded bool

	err := db.Transaction(func(tx *gorm.DB) error {
		var err error
		g, err = loadGame(tx, gameID)
		if err != nil {
			return err
		}

		if g.State != models.StatusCancelled {
			return ErrGameNotCancelled
		}

		players, err = loadRoster(tx, gameID)
		if err != nil {
			return err
		}

		player := FindPlayer(players, walletAddress)
		if player == nil {
			return ErrPlayerNotInGame
		}
		if player.PayoutStatus == models.PayoutRefunded {
			return ErrRefundAlreadyProcessed
		}

		amount = g.EntryFee
		if err := token.Transfer(tx, amount, g.EscrowAddress, walletAddress); err != nil {
			return err
		}

		player.PayoutStatus = models.PayoutRefunded
		if err := tx.Save(player).Error; err != nil {
			return err
		}

		allRefunded = true
		for i := range players {
			if players[i].PayoutStatus != models.PayoutRefunded {
				allRefunded = false
				break
			}
		}
		return nil
	})
	if err != nil {
		return 0, err
	}

	log.Printf("[GAME] Refund of %d processed for %s in game %s", amount, walletAddress, gameID)

	syncSnapshot(rc, g, players)
	emitEvent(rc, sio, gameID, EventRefundProcessed, gin.H{
		"game_id": gameID,
		"wallet":  walletAddress,
		"amount":  amount,
	})
	if allRefunded {
		emitEvent(rc, sio, gameID, EventAllRefundsProcessed, gin.H{
			"game_id": gameID,
		})
	}

	return amount, nil
}
