package controllers

import (
	gamesvc "Rondo/services/game"
	"Rondo/services/redis"
	"Rondo/services/socket_io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// @Summary Processes an elimination round
// @Description Consumes the stored randomness of the given round and eliminates every active player holding the drawn number
// @Tags game
// @Accept x-www-form-urlencoded
// @Produce json
// @Param Authorization header string true "Bearer JWT token"
// @Param game_id path string true "Game id"
// @Param round formData integer true "Round to process, must equal the current round"
// @Success 200 {object} object{drawn_number=integer,eliminated=array}
// @Failure 409 {object} object{error=string}
// @Router /auth/games/{game_id}/eliminate [post]
// @Security ApiKeyAuth
func ProcessElimination(db *gorm.DB, rc *redis.RedisClient, sio *socket_io.SocketServer) gin.HandlerFunc {
	return func(c *gin.Context) {
		round, err := strconv.Atoi(c.PostForm("round"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid round"})
			return
		}

		drawn, eliminated, err := gamesvc.ProcessElimination(db, rc, sio, c.Param("game_id"), round)
		if err != nil {
			respondError(c, err)
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"round":        round,
			"drawn_number": drawn,
			"eliminated":   eliminated,
		})
	}
}

// @Summary Completes a game
// @Description Settles a game whose survivors are within the winner count: marks winners, moves the fee to the treasury and opens claims
// @Tags game
// @Produce json
// @Param Authorization header string true "Bearer JWT token"
// @Param game_id path string true "Game id"
// @Success 200 {object} object{state=string}
// @Failure 403 {object} object{error=string}
// @Failure 409 {object} object{error=string}
// @Router /auth/games/{game_id}/complete [post]
// @Security ApiKeyAuth
func CompleteGame(db *gorm.DB, rc *redis.RedisClient, sio *socket_io.SocketServer) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := getAuthenticatedUser(c, db)
		if !ok {
			return
		}

		g, err := gamesvc.CompleteGame(db, rc, sio, c.Param("game_id"), user.Username)
		if err != nil {
			respondError(c, err)
			return
		}

		c.JSON(http.StatusOK, gin.H{"state": g.State, "treasury_fee": g.TreasuryFee})
	}
}

// @Summary Claims a prize
// @Description Pays the caller's prize from the game escrow, once
// @Tags game
// @Produce json
// @Param Authorization header string true "Bearer JWT token"
// @Param game_id path string true "Game id"
// @Success 200 {object} object{amount=integer}
// @Failure 409 {object} object{error=string}
// @Router /auth/games/{game_id}/claim [post]
// @Security ApiKeyAuth
func ClaimPrize(db *gorm.DB, rc *redis.RedisClient, sio *socket_io.SocketServer) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := getAuthenticatedUser(c, db)
		if !ok {
			return
		}

		amount, err := gamesvc.ClaimPrize(db, rc, sio, c.Param("game_id"), user.WalletAddress)
		if err != nil {
			respondError(c, err)
			return
		}

		c.JSON(http.StatusOK, gin.H{"message": "Prize claimed", "amount": amount})
	}
}

// @Summary Requests a refund
// @Description Returns the caller's entry fee after cancellation, once
// @Tags game
// @Produce json
// @Param Authorization header string true "Bearer JWT token"
// @Param game_id path string true "Game id"
// @Success 200 {object} object{amount=integer}
// @Failure 409 {object} object{error=string}
// @Router /auth/games/{game_id}/refund [post]
// @Security ApiKeyAuth
func RequestRefund(db *gorm.DB, rc *redis.RedisClient, sio *socket_io.SocketServer) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := getAuthenticatedUser(c, db)
		if !ok {
			return
		}

		amount, err := gamesvc.RequestRefund(db, rc, sio, c.Param("game_id"), user.WalletAddress)
		if err != nil {
			respondError(c, err)
			return
		}

		c.JSON(http.StatusOK, gin.H{"message": "Refund processed", "amount": amount})
	}
}
