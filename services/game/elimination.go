package game

import (
	models "Rondo/models/postgres"
	"Rondo/services/redis"
	"Rondo/services/socket_io"
	"log"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// ProcessElimination consumes the randomness of the given round and
// eliminates every active player holding the drawn number. A result is
// consumed exactly once; when the survivors drop to the winner count the
// game signals it is ready to complete.
func ProcessElimination(db *gorm.DB, rc *redis.RedisClient, sio *socket_io.SocketServer,
	gameID string, round int) (int, []string, error) {

	var g *models.Game
	var players []models.Player
	var eliminated []string
	var drawn int
	var remaining int
	var readyToComplete bool

	err := db.Transaction(func(tx *gorm.DB) error {
		var err error
		g, err = loadGame(tx, gameID)
		if err != nil {
			return err
		}

		if g.State != models.StatusPlaying {
			return ErrInvalidGameState
		}
		if round != g.CurrentRound {
			return ErrInvalidRound
		}

		var result models.VrfResult
		if err := tx.Where("game_id = ? AND round = ?", gameID, round).First(&result).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				return ErrVrfResultNotFound
			}
			return err
		}
		if result.Used {
			return ErrVrfAlreadyUsed
		}
		drawn = result.DrawnNumber

		players, err = loadRoster(tx, gameID)
		if err != nil {
			return err
		}

		for i := range players {
			p := &players[i]
			if p.IsActive() && p.HasSelected() && *p.SelectedNumber == drawn {
				r := round
				p.EliminatedRound = &r
				if err := tx.Save(p).Error; err != nil {
					return err
				}
				eliminated = append(eliminated, p.WalletAddress)
			}
		}

		result.Used = true
		if err := tx.Save(&result).Error; err != nil {
			return err
		}

		remaining = CountActivePlayers(players)
		readyToComplete = remaining <= g.WinnerCount
		return nil
	})
	if err != nil {
		return 0, nil, err
	}

	log.Printf("[GAME] Elimination processed for game %s round %d: drawn=%d eliminated=%d remaining=%d",
		gameID, round, drawn, len(eliminated), remaining)

	syncSnapshot(rc, g, players)
	emitEvent(rc, sio, gameID, EventEliminationProcessed, gin.H{
		"game_id":      gameID,
		"round":        round,
		"drawn_number": drawn,
		"eliminated":   eliminated,
		"remaining":    remaining,
	})
	if readyToComplete {
		emitEvent(rc, sio, gameID, EventGameReadyToComplete, gin.H{
			"game_id":      gameID,
			"remaining":    remaining,
			"winner_count": g.WinnerCount,
		})
	}

	return drawn, eliminated, nil
}
