package game

import (
	models "Rondo/models/postgres"
	"Rondo/services/redis"
	"Rondo/services/socket_io"
	"log"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// SelectNumber records a player's chosen number during the selection
// phase. Numbers are exclusive among active players and a selection is
// final: there is no re-pick.
func SelectNumber(db *gorm.DB, rc *redis.RedisClient, sio *socket_io.SocketServer,
	gameID string, walletAddress string, number int) (*models.Player, error) {

	var g *models.Game
	var player *models.Player
	var players []models.Player
	var allSelected bool

	err := db.Transaction(func(tx *gorm.DB) error {
		var err error
		g, err = loadGame(tx, gameID)
		if err != nil {
			return err
		}

		if g.State != models.StatusNumberSelection {
			return ErrInvalidGameState
		}
		if number < g.NumberMin || number > g.NumberMax {
			return ErrNumberOutOfRange
		}

		players, err = loadRoster(tx, gameID)
		if err != nil {
			return err
		}

		player = FindPlayer(players, walletAddress)
		if player == nil {
			return ErrPlayerNotInGame
		}
		if !player.IsActive() {
			return ErrPlayerEliminated
		}
		if player.HasSelected() {
			return ErrNumberAlreadySelected
		}
		if holder := NumberTakenBy(players, number); holder != "" {
			return ErrNumberAlreadyTaken
		}

		player.SelectedNumber = &number
		if err := tx.Save(player).Error; err != nil {
			return err
		}

		allSelected = AllNumbersSelected(players)
		return nil
	})
	if err != nil {
		return nil, err
	}

	log.Printf("[GAME] Player %s selected number %d in game %s", walletAddress, number, gameID)

	syncSnapshot(rc, g, players)
	emitEvent(rc, sio, gameID, EventNumberSelected, gin.H{
		"game_id": gameID,
		"wallet":  walletAddress,
		"number":  number,
	})
	if allSelected {
		emitEvent(rc, sio, gameID, EventAllNumbersSelected, gin.H{
			"game_id": gameID,
		})
	}

	return player, nil
}
