package game

import (
	constants "Rondo/constants/game"
	models "Rondo/models/postgres"
	"Rondo/services/redis"
	"Rondo/services/socket_io"
	"log"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// CancelGame aborts a game and opens refunds. What counts as a valid
// cancellation depends on the phase:
//   - joining: the roster is still empty, or the payment deadline passed
//   - number_selection: the selection phase has been stuck for 24 hours
//   - playing: at the creator's discretion, a reason is required
//
// Distributing and terminal games can never be cancelled. The state the
// game was cancelled from is preserved for auditing.
func CancelGame(db *gorm.DB, rc *redis.RedisClient, sio *socket_io.SocketServer,
	gameID string, callerUsername string, reason string) (*models.Game, error) {

	if len(reason) > constants.MaxCancelReasonLen {
		return nil, ErrReasonTooLong
	}

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

		players, err = loadRoster(tx, gameID)
		if err != nil {
			return err
		}

		now := time.Now()
		switch g.State {
		case models.StatusCreated, models.StatusJoining:
			if len(players) > 0 && now.Before(g.PaymentDeadline) {
				return ErrCannotCancelActiveGame
			}
		case models.StatusNumberSelection:
			if g.StartedAt == nil || now.Sub(*g.StartedAt) < constants.SelectionCancelTimeout {
				return ErrCannotCancelActiveGame
			}
		case models.StatusPlaying:
			if reason == "" {
				return ErrReasonRequired
			}
		default:
			return ErrCannotCancelGame
		}

		g.PreviousState = g.State
		g.State = models.StatusCancelled
		g.CancelReason = reason
		g.CompletedAt = &now
		return tx.Save(g).Error
	})
	if err != nil {
		return nil, err
	}

	log.Printf("[GAME] Game %s cancelled from state %s, reason=%q", gameID, g.PreviousState, reason)

	// The game is no longer live, drop its snapshot
	if rc != nil {
		if err := rc.DeleteGameSnapshot(gameID); err != nil {
			log.Printf("[GAME-ERROR] Error dropping snapshot for game %s: %v", gameID, err)
		}
	}
	emitEvent(rc, sio, gameID, EventGameCancelled, gin.H{
		"game_id":        gameID,
		"previous_state": string(g.PreviousState),
		"reason":         reason,
		"player_count":   len(players),
	})

	return g, nil
}
