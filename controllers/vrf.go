package controllers

import (
	gamesvc "Rondo/services/game"
	"Rondo/services/oracle"
	"Rondo/services/redis"
	"Rondo/services/socket_io"
	"encoding/hex"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// @Summary Submits randomness for the next round
// @Description Push intake: the game's oracle authority posts the hex-encoded 32-byte random value and its proof for round current+1
// @Tags vrf
// @Accept x-www-form-urlencoded
// @Produce json
// @Param Authorization header string true "Bearer JWT token"
// @Param game_id path string true "Game id"
// @Param round formData integer true "Round number, must be current round + 1"
// @Param random_value formData string true "Hex-encoded 32-byte random value"
// @Param proof formData string true "Proof bytes, hex-encoded, 64 to 256 bytes"
// @Success 200 {object} object{round=integer,drawn_number=integer}
// @Failure 400 {object} object{error=string}
// @Failure 409 {object} object{error=string}
// @Router /auth/games/{game_id}/vrf [post]
// @Security ApiKeyAuth
func SubmitVrf(db *gorm.DB, rc *redis.RedisClient, sio *socket_io.SocketServer) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := getAuthenticatedUser(c, db)
		if !ok {
			return
		}

		round, err := strconv.Atoi(c.PostForm("round"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid round"})
			return
		}
		randomValue, err := hex.DecodeString(c.PostForm("random_value"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid random value encoding"})
			return
		}
		proof, err := hex.DecodeString(c.PostForm("proof"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid proof encoding"})
			return
		}

		result, err := gamesvc.SubmitVrf(db, rc, sio, c.Param("game_id"), user.Username, round, randomValue, proof)
		if err != nil {
			respondError(c, err)
			return
		}

		c.JSON(http.StatusOK, gin.H{"round": result.Round, "drawn_number": result.DrawnNumber})
	}
}

// @Summary Requests randomness from the oracle
// @Description Pull intake, phase one: opens an oracle request for the next round. One request may be in flight per game.
// @Tags vrf
// @Produce json
// @Param Authorization header string true "Bearer JWT token"
// @Param game_id path string true "Game id"
// @Success 200 {object} object{handle=string}
// @Failure 409 {object} object{error=string}
// @Router /auth/games/{game_id}/vrf/request [post]
// @Security ApiKeyAuth
func RequestVrf(db *gorm.DB, rc *redis.RedisClient, sio *socket_io.SocketServer, orc oracle.Oracle) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := getAuthenticatedUser(c, db)
		if !ok {
			return
		}

		handle, err := gamesvc.RequestVrf(db, rc, sio, orc, c.Param("game_id"), user.Username)
		if err != nil {
			respondError(c, err)
			return
		}

		c.JSON(http.StatusOK, gin.H{"handle": handle})
	}
}

// @Summary Consumes the oracle's answer
// @Description Pull intake, phase two: reads the fulfilled oracle request and records the round's randomness. Fails with 409 while the oracle has not answered.
// @Tags vrf
// @Produce json
// @Param Authorization header string true "Bearer JWT token"
// @Param game_id path string true "Game id"
// @Success 200 {object} object{round=integer,drawn_number=integer}
// @Failure 409 {object} object{error=string}
// @Router /auth/games/{game_id}/vrf/fulfill [post]
// @Security ApiKeyAuth
func FulfillVrf(db *gorm.DB, rc *redis.RedisClient, sio *socket_io.SocketServer, orc oracle.Oracle) gin.HandlerFunc {
	return func(c *gin.Context) {
		result, err := gamesvc.FulfillVrf(db, rc, sio, orc, c.Param("game_id"))
		if err != nil {
			respondError(c, err)
			return
		}

		c.JSON(http.StatusOK, gin.H{"round": result.Round, "drawn_number": result.DrawnNumber})
	}
}

// @Summary Returns the randomness of one round
// @Tags vrf
// @Produce json
// @Param Authorization header string true "Bearer JWT token"
// @Param game_id path string true "Game id"
// @Param round path integer true "Round number"
// @Success 200 {object} object{round=integer,drawn_number=integer,used=boolean}
// @Failure 404 {object} object{error=string}
// @Router /auth/games/{game_id}/rounds/{round} [get]
// @Security ApiKeyAuth
func GetVrfResult(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		round, err := strconv.Atoi(c.Param("round"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid round"})
			return
		}

		result, err := gamesvc.GetVrfResult(db, c.Param("game_id"), round)
		if err != nil {
			respondError(c, err)
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"round":        result.Round,
			"random_value": hex.EncodeToString(result.RandomValue),
			"drawn_number": result.DrawnNumber,
			"used":         result.Used,
			"submitted_at": result.SubmittedAt,
		})
	}
}

// @Summary Fulfills a pending oracle request (dev only)
// @Description Generates the random value for a pending request. Stands in for the oracle network on dev deployments.
// @Tags vrf
// @Accept x-www-form-urlencoded
// @Produce json
// @Param handle formData string true "Oracle request handle"
// @Success 200 {object} object{message=string}
// @Failure 404 {object} object{error=string}
// @Router /oracle/fulfill [post]
func DevFulfillOracle(orc *oracle.DevOracle) gin.HandlerFunc {
	return func(c *gin.Context) {
		handle := c.PostForm("handle")
		if handle == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Handle is required"})
			return
		}

		if err := orc.Fulfill(handle); err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Request fulfilled"})
	}
}
