package game

import (
	models "Rondo/models/postgres"
	redis_models "Rondo/models/redis"
	"Rondo/services/redis"
	"Rondo/services/socket_io"
	"log"
	"time"

	"github.com/gin-gonic/gin"
)

// Event names, one per notification of the external interface
const (
	EventGameCreated          = "game_created"
	EventPlayerJoined         = "player_joined"
	EventSelectionStarted     = "selection_started"
	EventNumberSelected       = "number_selected"
	EventAllNumbersSelected   = "all_numbers_selected"
	EventGameStarted          = "game_started"
	EventVrfSubmitted         = "vrf_submitted"
	EventVrfRequested         = "vrf_requested"
	EventVrfFulfilled         = "vrf_fulfilled"
	EventEliminationProcessed = "elimination_processed"
	EventGameReadyToComplete  = "game_ready_to_complete"
	EventGameCompleted        = "game_completed"
	EventPrizeClaimed         = "prize_claimed"
	EventAllPrizesClaimed     = "all_prizes_claimed"
	EventRefundProcessed      = "refund_processed"
	EventAllRefundsProcessed  = "all_refunds_processed"
	EventGameCancelled        = "game_cancelled"
	EventTreasuryWithdrawal   = "treasury_withdrawal"
)

// emitEvent publishes a notification on the game's redis channel and
// socket.io room. Events are informational: a failed broadcast is logged
// and never fails the operation that produced it.
func emitEvent(rc *redis.RedisClient, sio *socket_io.SocketServer, gameID string, event string, payload gin.H) {
	log.Printf("[EVENT] %s game=%s payload=%v", event, gameID, payload)

	if rc != nil {
		gameEvent := &redis_models.GameEvent{
			GameID:    gameID,
			Event:     event,
			Payload:   payload,
			Timestamp: time.Now().Unix(),
		}
		if err := rc.PublishGameEvent(gameEvent); err != nil {
			log.Printf("[EVENT-ERROR] Error publishing %s for game %s: %v", event, gameID, err)
		}
	}

	if sio != nil {
		sio.Broadcast(gameID, event, payload)
	}
}

// syncSnapshot refreshes the live redis view of a game after a mutation
func syncSnapshot(rc *redis.RedisClient, g *models.Game, players []models.Player) {
	if rc == nil {
		return
	}

	drawn, err := DecodeDrawnNumbers(g)
	if err != nil {
		log.Printf("[SNAPSHOT-ERROR] Error decoding drawn numbers for game %s: %v", g.ID, err)
		drawn = []int{}
	}

	snapshot := &redis_models.GameSnapshot{
		GameID:            g.ID,
		State:             string(g.State),
		PlayerCount:       len(players),
		MaxPlayers:        g.MaxPlayers,
		WinnerCount:       g.WinnerCount,
		PrizePool:         g.PrizePool,
		CurrentRound:      g.CurrentRound,
		DrawnNumbers:      drawn,
		RemainingPlayers:  CountActivePlayers(players),
		VrfRequestPending: g.VrfRequestPending,
		PendingRound:      g.PendingRound,
	}
	if err := rc.SaveGameSnapshot(snapshot); err != nil {
		log.Printf("[SNAPSHOT-ERROR] Error saving snapshot for game %s: %v", g.ID, err)
	}
}
