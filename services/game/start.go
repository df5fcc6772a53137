package game

import (
	models "Rondo/models/postgres"
	"Rondo/services/redis"
	"Rondo/services/socket_io"
	"log"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// StartGame moves a game from number selection into play. Only the
// creator may start it, and only once every player holds a number.
func StartGame(db *gorm.DB, rc *redis.RedisClient, sio *socket_io.SocketServer,
	gameID string, callerUsername string) (*models.Game, error) {

	var g *models.Game
	var players []models.Player

	err := db.Transaction(func(tx *gorm.DB) error {
		var err error
		g, err = loadGame(tx, gameID)
		if err != nil {
			return err
		}

		if g.CreatorUsername != callerUsername {
			return ErrUnauthorized
		}
		if g.State != models.StatusNumberSelection {
			return ErrInvalidGameState
		}

		players, err = loadRoster(tx, gameID)
		if err != nil {
			return err
		}
		if !AllNumbersSelected(players) {
			return ErrNumbersNotSelected
		}

		g.State = models.StatusPlaying
		return tx.Save(g).Error
	})
	if err != nil {
		return nil, err
	}

	log.Printf("[GAME] Game %s started with %d players", gameID, len(players))

	syncSnapshot(rc, g, players)
	emitEvent(rc, sio, gameID, EventGameStarted, gin.H{
		"game_id":      gameID,
		"player_count": len(players),
		"winner_count": g.WinnerCount,
	})

	return g, nil
}
