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

// CreateGame creates a new lottery, opens its escrow account and
// immediately opens it for joining. The drawable number range is fixed
// at creation to [1, 2*maxPlayers].
func CreateGame(db *gorm.DB, rc *redis.RedisClient, sio *socket_io.SocketServer,
	gameID string, creatorUsername string, oracleUsername string,
	entryFee uint64, maxPlayers int, winnerCount int, paymentDeadline time.Time) (*models.Game, error) {

	if len(gameID) == 0 || len(gameID) > constants.MaxGameIDLen {
		return nil, ErrGameIdTooLong
	}
	if err := ValidateGameConfig(entryFee, maxPlayers, winnerCount); err != nil {
		return nil, err
	}

	var g *models.Game
	err := db.Transaction(func(tx *gorm.DB) error {
		// The treasury must exist before the first game so the fee split
		// always has a destination
		var treasury models.Treasury
		if err := tx.Where("id = ?", models.TreasuryID).First(&treasury).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				return ErrTreasuryNotInitialized
			}
			return err
		}

		escrow, err := token.CreateAccount(tx, token.GenerateAddress(), creatorUsername, models.AccountKindEscrow)
		if err != nil {
			return err
		}

		g = &models.Game{
			ID:              gameID,
			CreatorUsername: creatorUsername,
			EntryFee:        entryFee,
			MaxPlayers:      maxPlayers,
			WinnerCount:     winnerCount,
			State:           models.StatusJoining,
			NumberMin:       1,
			NumberMax:       2 * maxPlayers,
			PaymentDeadline: paymentDeadline,
			EscrowAddress:   escrow.Address,
			VrfOracle:       oracleUsername,
		}
		return tx.Create(g).Error
	})
	if err != nil {
		return nil, err
	}

	log.Printf("[GAME] Game %s created by %s: fee=%d max=%d winners=%d range=[%d,%d]",
		g.ID, creatorUsername, entryFee, maxPlayers, winnerCount, g.NumberMin, g.NumberMax)

	syncSnapshot(rc, g, nil)
	emitEvent(rc, sio, g.ID, EventGameCreated, gin.H{
		"game_id":      g.ID,
		"creator":      creatorUsername,
		"entry_fee":    entryFee,
		"max_players":  maxPlayers,
		"winner_count": winnerCount,
		"number_min":   g.NumberMin,
		"number_max":   g.NumberMax,
		"deadline":     paymentDeadline.Unix(),
	})

	return g, nil
}
