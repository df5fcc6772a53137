package game

import (
	constants "Rondo/constants/game"
	models "Rondo/models/postgres"
	"Rondo/services/oracle"
	"Rondo/services/redis"
	"Rondo/services/socket_io"
	"encoding/hex"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// Randomness intake. Two paths feed the same per-round result record:
// the push path (SubmitVrf, the oracle authority posts value+proof
// directly) and the two-phase pull path (RequestVrf then FulfillVrf
// against the oracle collaborator). Both end in recordVrfResult, so the
// round bookkeeping and number derivation cannot diverge.

// recordVrfResult validates and stores the randomness for the next
// round, derives its drawn number and advances the round counter.
// Caller has already loaded and guarded the game.
func recordVrfResult(tx *gorm.DB, g *models.Game, round int, randomValue []byte, proof []byte) (*models.VrfResult, error) {
	if len(randomValue) != constants.RandomValueLen {
		return nil, ErrInvalidRandomValue
	}
	if round != g.CurrentRound+1 {
		return nil, ErrInvalidRound
	}

	var existing models.VrfResult
	err := tx.Where("game_id = ? AND round = ?", g.ID, round).First(&existing).Error
	if err == nil {
		return nil, ErrVrfAlreadySubmitted
	}
	if err != gorm.ErrRecordNotFound {
		return nil, err
	}

	drawn := DeriveDrawnNumber(randomValue, g.NumberMin, g.NumberMax)

	result := &models.VrfResult{
		GameID:      g.ID,
		Round:       round,
		RandomValue: randomValue,
		Proof:       proof,
		DrawnNumber: drawn,
		SubmittedAt: time.Now(),
	}
	if err := tx.Create(result).Error; err != nil {
		return nil, err
	}

	if err := appendDrawnNumber(g, drawn); err != nil {
		return nil, err
	}
	g.CurrentRound = round

	return result, nil
}

// SubmitVrf is the push intake: the game's oracle authority posts the
// random value and its proof for the next round directly.
func SubmitVrf(db *gorm.DB, rc *redis.RedisClient, sio *socket_io.SocketServer,
	gameID string, callerUsername string, round int, randomValue []byte, proof []byte) (*models.VrfResult, error) {

	if len(proof) < constants.MinVrfProofLen || len(proof) > constants.MaxVrfProofLen {
		return nil, ErrInvalidVrfProof
	}

	var g *models.Game
	var result *models.VrfResult

	err := db.Transaction(func(tx *gorm.DB) error {
		var err error
		g, err = loadGame(tx, gameID)
		if err != nil {
			return err
		}

		if g.VrfOracle != callerUsername {
			return ErrUnauthorized
		}
		if g.State != models.StatusPlaying {
			return ErrInvalidGameState
		}
		if g.VrfRequestPending {
			// The pull path owns the next round once a request is out
			return ErrVrfRequestPending
		}

		result, err = recordVrfResult(tx, g, round, randomValue, proof)
		if err != nil {
			return err
		}
		return tx.Save(g).Error
	})
	if err != nil {
		return nil, err
	}

	log.Printf("[VRF] Result submitted for game %s round %d, drawn=%d", gameID, round, result.DrawnNumber)

	emitEvent(rc, sio, gameID, EventVrfSubmitted, gin.H{
		"game_id":      gameID,
		"round":        round,
		"drawn_number": result.DrawnNumber,
	})

	return result, nil
}

// RequestVrf opens a pull-path randomness request for the next round.
// At most one request may be in flight per game.
func RequestVrf(db *gorm.DB, rc *redis.RedisClient, sio *socket_io.SocketServer, orc oracle.Oracle,
	gameID string, callerUsername string) (string, error) {

	var g *models.Game
	var handle string

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
		if g.VrfRequestPending {
			return ErrVrfRequestPending
		}

		round := g.CurrentRound + 1
		seed := fmt.Sprintf("%s-round-%d", g.ID, round)
		handle, err = orc.Request(seed)
		if err != nil {
			return fmt.Errorf("error requesting randomness: %w", err)
		}

		g.VrfRequestPending = true
		g.PendingRound = round
		g.OracleHandle = handle
		return tx.Save(g).Error
	})
	if err != nil {
		return "", err
	}

	log.Printf("[VRF] Randomness requested for game %s round %d, handle=%s", gameID, g.PendingRound, handle)

	emitEvent(rc, sio, gameID, EventVrfRequested, gin.H{
		"game_id": gameID,
		"round":   g.PendingRound,
		"handle":  handle,
	})

	return handle, nil
}

// FulfillVrf closes the pull path: reads the oracle's value for the
// pending request and records it as the round result. Fails with
// ErrVrfNotFulfilled while the oracle has not answered yet, leaving the
// request pending.
func FulfillVrf(db *gorm.DB, rc *redis.RedisClient, sio *socket_io.SocketServer, orc oracle.Oracle,
	gameID string) (*models.VrfResult, error) {

	var g *models.Game
	var result *models.VrfResult

	err := db.Transaction(func(tx *gorm.DB) error {
		var err error
		g, err = loadGame(tx, gameID)
		if err != nil {
			return err
		}

		if g.State != models.StatusPlaying {
			return ErrInvalidGameState
		}
		if !g.VrfRequestPending {
			return ErrNoVrfRequestPending
		}

		randomValue, err := orc.Read(g.OracleHandle)
		if err != nil {
			if errors.Is(err, oracle.ErrNotYetAvailable) {
				return ErrVrfNotFulfilled
			}
			return fmt.Errorf("error reading oracle result: %w", err)
		}

		// The oracle's value stands in for a proof on the pull path,
		// the request handle ties it back to the oracle's records
		result, err = recordVrfResult(tx, g, g.PendingRound, randomValue, []byte(hex.EncodeToString(randomValue)+g.OracleHandle))
		if err != nil {
			return err
		}

		g.VrfRequestPending = false
		g.PendingRound = 0
		g.OracleHandle = ""
		return tx.Save(g).Error
	})
	if err != nil {
		return nil, err
	}

	log.Printf("[VRF] Request fulfilled for game %s round %d, drawn=%d", gameID, result.Round, result.DrawnNumber)

	emitEvent(rc, sio, gameID, EventVrfFulfilled, gin.H{
		"game_id":      gameID,
		"round":        result.Round,
		"drawn_number": result.DrawnNumber,
	})

	return result, nil
}
