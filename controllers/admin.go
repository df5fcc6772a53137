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

// @Summary Cancels a game
// @Description Aborts a game and opens refunds. Allowed for empty or expired joining games, stuck selection phases and, with a reason, running games. Creator only.
// @Tags admin
// @Accept x-www-form-urlencoded
// @Produce json
// @Param Authorization header string true "Bearer JWT token"
// @Param game_id path string true "Game id"
// @Param reason formData string false "Cancellation reason, required for running games, at most 200 characters"
// @Success 200 {object} object{state=string}
// @Failure 403 {object} object{error=string}
// @Failure 409 {object} object{error=string}
// @Router /auth/games/{game_id}/cancel [post]
// @Security ApiKeyAuth
func CancelGame(db *gorm.DB, rc *redis.RedisClient, sio *socket_io.SocketServer) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := getAuthenticatedUser(c, db)
		if !ok {
			return
		}

		g, err := gamesvc.CancelGame(db, rc, sio, c.Param("game_id"), user.Username, c.PostForm("reason"))
		if err != nil {
			respondError(c, err)
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"state":          g.State,
			"previous_state": g.PreviousState,
			"reason":         g.CancelReason,
		})
	}
}

// @Summary Initializes the treasury
// @Description Creates the single global treasury. Runs once; the caller becomes its authority.
// @Tags admin
// @Accept x-www-form-urlencoded
// @Produce json
// @Param Authorization header string true "Bearer JWT token"
// @Param fee_percentage formData integer true "Fee percentage, 1 to 50"
// @Success 200 {object} object{token_address=string}
// @Failure 400 {object} object{error=string}
// @Failure 409 {object} object{error=string}
// @Router /auth/treasury/init [post]
// @Security ApiKeyAuth
func InitTreasury(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := getAuthenticatedUser(c, db)
		if !ok {
			return
		}

		feePercentage, err := strconv.Atoi(c.PostForm("fee_percentage"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid fee percentage"})
			return
		}

		treasury, err := gamesvc.InitTreasury(db, user.Username, feePercentage)
		if err != nil {
			respondError(c, err)
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"authority":           treasury.AuthorityUsername,
			"fee_percentage":      treasury.FeePercentage,
			"token_address":       treasury.TokenAddress,
			"destination_address": treasury.DestinationAddress,
		})
	}
}

// @Summary Returns the treasury's balances
// @Tags admin
// @Produce json
// @Param Authorization header string true "Bearer JWT token"
// @Success 200 {object} object{total_collected=integer,pending_withdrawal=integer}
// @Failure 400 {object} object{error=string}
// @Router /auth/treasury [get]
// @Security ApiKeyAuth
func GetTreasury(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		treasury, err := gamesvc.GetTreasury(db)
		if err != nil {
			respondError(c, err)
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"authority":          treasury.AuthorityUsername,
			"fee_percentage":     treasury.FeePercentage,
			"total_collected":    treasury.TotalCollected,
			"total_distributed":  treasury.TotalDistributed,
			"pending_withdrawal": treasury.PendingWithdrawal,
		})
	}
}

// @Summary Withdraws treasury funds
// @Description Pays out up to the pending balance to the treasury's destination account. Authority only; omit amount to withdraw everything.
// @Tags admin
// @Accept x-www-form-urlencoded
// @Produce json
// @Param Authorization header string true "Bearer JWT token"
// @Param amount formData integer false "Amount to withdraw (default: everything pending)"
// @Success 200 {object} object{withdrawn=integer}
// @Failure 400 {object} object{error=string}
// @Failure 403 {object} object{error=string}
// @Router /auth/treasury/withdraw [post]
// @Security ApiKeyAuth
func WithdrawTreasury(db *gorm.DB, rc *redis.RedisClient, sio *socket_io.SocketServer) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := getAuthenticatedUser(c, db)
		if !ok {
			return
		}

		var amount *uint64
		if v := c.PostForm("amount"); v != "" {
			parsed, err := strconv.ParseUint(v, 10, 64)
			if err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid amount"})
				return
			}
			amount = &parsed
		}

		withdrawn, err := gamesvc.WithdrawTreasury(db, rc, sio, user.Username, amount)
		if err != nil {
			respondError(c, err)
			return
		}

		c.JSON(http.StatusOK, gin.H{"withdrawn": withdrawn})
	}
}
