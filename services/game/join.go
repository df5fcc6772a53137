package game

import (
	constants "Rondo/constants/game"
	models "Rondo/models/postgres"
	"Rondo/services/redis"
	"Rondo/services/socket_io"
	"Rondo/services/token"
	"log"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// JoinGame enters a player into a joinable game. The entry fee moves
// from the player's wallet into the game escrow and a tenth of it is
// accrued as the game's treasury fee. When the roster fills up the game
// advances to number selection automatically.
func JoinGame(db *gorm.DB, rc *redis.RedisClient, sio *socket_io.SocketServer,
	gameID string, walletAddress string, externalID string) (*models.Player, error) {

	if len(externalID) > constants.MaxExternalIDLen {
		return nil, ErrExternalIdTooLong
	}

	var g *models.Game
	var player *models.Player
	var players []models.Player
	var selectionStarted bool

	err := db.Transaction(func(tx *gorm.DB) error {
		var err error
		g, err = loadGame(tx, gameID)
		if err != nil {
			return err
		}

		if g.State != models.StatusJoining {
			return ErrInvalidGameState
		}
		if time.Now().After(g.PaymentDeadline) {
			return ErrPaymentDeadlineExpired
		}

		players, err = loadRoster(tx, gameID)
		if err != nil {
			return err
		}
		if len(players) >= g.MaxPlayers {
			return ErrGameFull
		}
		if FindPlayer(players, walletAddress) != nil {
			return ErrPlayerAlreadyJoined
		}

		if err := token.Transfer(tx, g.EntryFee, walletAddress, g.EscrowAddress); err != nil {
			return err
		}

		newPool := g.PrizePool + g.EntryFee
		if newPool < g.PrizePool {
			return ErrArithmeticOverflow
		}
		g.PrizePool = newPool

		fee, err := CalculateTreasuryFee(g.EntryFee, constants.TreasuryFeePercentage)
		if err != nil {
			return err
		}
		newFee := g.TreasuryFee + fee
		if newFee < g.TreasuryFee {
			return ErrArithmeticOverflow
		}
		g.TreasuryFee = newFee

		player = &models.Player{
			GameID:        gameID,
			WalletAddress: walletAddress,
			ExternalID:    externalID,
			PayoutStatus:  models.PayoutUnclaimed,
			JoinedAt:      time.Now(),
		}
		if err := tx.Create(player).Error; err != nil {
			return err
		}
		players = append(players, *player)

		if len(players) == g.MaxPlayers {
			now := time.Now()
			g.State = models.StatusNumberSelection
			g.StartedAt = &now
			selectionStarted = true
		}

		return tx.Save(g).Error
	})
	if err != nil {
		return nil, err
	}

	log.Printf("[GAME] Player %s joined game %s (%d/%d), pool=%d fee=%d",
		walletAddress, gameID, len(players), g.MaxPlayers, g.PrizePool, g.TreasuryFee)

	syncSnapshot(rc, g, players)
	emitEvent(rc, sio, gameID, EventPlayerJoined, gin.H{
		"game_id":      gameID,
		"wallet":       walletAddress,
		"player_count": len(players),
		"max_players":  g.MaxPlayers,
		"prize_pool":   g.PrizePool,
	})
	if selectionStarted {
		emitEvent(rc, sio, gameID, EventSelectionStarted, gin.H{
			"game_id":    gameID,
			"state":      string(g.State),
			"number_min": g.NumberMin,
			"number_max": g.NumberMax,
		})
	}

	return player, nil
}
