package controllers

import (
	gamesvc "Rondo/services/game"
	"Rondo/services/redis"
	"Rondo/services/socket_io"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// @Summary Creates a new elimination lottery
// @Description Creates a game with the given fee, size and winner count. The caller becomes its creator; the number range is fixed at [1, 2*max_players].
// @Tags game
// @Accept x-www-form-urlencoded
// @Produce json
// @Param Authorization header string true "Bearer JWT token"
// @Param game_id formData string true "Game id, at most 16 characters"
// @Param entry_fee formData integer true "Entry fee in tokens"
// @Param max_players formData integer true "Roster size, 2 to 100"
// @Param winner_count formData integer true "Winner count, below max_players"
// @Param deadline_minutes formData integer false "Minutes until the payment deadline (default 60)"
// @Param oracle formData string false "Username of the oracle authority (defaults to the creator)"
// @Success 200 {object} object{game_id=string,escrow=string}
// @Failure 400 {object} object{error=string}
// @Failure 500 {object} object{error=string}
// @Router /auth/games [post]
// @Security ApiKeyAuth
func CreateGame(db *gorm.DB, rc *redis.RedisClient, sio *socket_io.SocketServer) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := getAuthenticatedUser(c, db)
		if !ok {
			return
		}

		gameID := c.PostForm("game_id")
		entryFee, err1 := strconv.ParseUint(c.PostForm("entry_fee"), 10, 64)
		maxPlayers, err2 := strconv.Atoi(c.PostForm("max_players"))
		winnerCount, err3 := strconv.Atoi(c.PostForm("winner_count"))
		if err1 != nil || err2 != nil || err3 != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid numeric parameters"})
			return
		}

		deadlineMinutes := 60
		if v := c.PostForm("deadline_minutes"); v != "" {
			m, err := strconv.Atoi(v)
			if err != nil || m <= 0 {
				c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid deadline"})
				return
			}
			deadlineMinutes = m
		}

		oracleUser := c.PostForm("oracle")
		if oracleUser == "" {
			oracleUser = user.Username
		}

		deadline := time.Now().Add(time.Duration(deadlineMinutes) * time.Minute)
		g, err := gamesvc.CreateGame(db, rc, sio, gameID, user.Username, oracleUser,
			entryFee, maxPlayers, winnerCount, deadline)
		if err != nil {
			respondError(c, err)
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"game_id":    g.ID,
			"escrow":     g.EscrowAddress,
			"number_min": g.NumberMin,
			"number_max": g.NumberMax,
			"deadline":   g.PaymentDeadline,
		})
	}
}

// @Summary Joins a game
// @Description Pays the entry fee from the caller's wallet into the game escrow
// @Tags game
// @Accept x-www-form-urlencoded
// @Produce json
// @Param Authorization header string true "Bearer JWT token"
// @Param game_id path string true "Game id"
// @Param external_id formData string false "Opaque external identifier, at most 32 characters"
// @Success 200 {object} object{message=string}
// @Failure 400 {object} object{error=string}
// @Failure 409 {object} object{error=string}
// @Router /auth/games/{game_id}/join [post]
// @Security ApiKeyAuth
func JoinGame(db *gorm.DB, rc *redis.RedisClient, sio *socket_io.SocketServer) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := getAuthenticatedUser(c, db)
		if !ok {
			return
		}

		gameID := c.Param("game_id")
		externalID := c.PostForm("external_id")

		player, err := gamesvc.JoinGame(db, rc, sio, gameID, user.WalletAddress, externalID)
		if err != nil {
			respondError(c, err)
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"message":   "Joined game successfully",
			"wallet":    player.WalletAddress,
			"joined_at": player.JoinedAt,
		})
	}
}

// @Summary Gives info of a game
// @Description Returns a game's configuration, state and roster
// @Tags game
// @Produce json
// @Param Authorization header string true "Bearer JWT token"
// @Param game_id path string true "Game id"
// @Success 200 {object} object{game_id=string,state=string}
// @Failure 404 {object} object{error=string}
// @Router /auth/games/{game_id} [get]
// @Security ApiKeyAuth
func GetGameInfo(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		gameID := c.Param("game_id")

		g, err := gamesvc.GetGame(db, gameID)
		if err != nil {
			respondError(c, err)
			return
		}

		drawn, err := gamesvc.DecodeDrawnNumbers(g)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}

		players := make([]gin.H, len(g.Players))
		for i, p := range g.Players {
			players[i] = gin.H{
				"wallet":           p.WalletAddress,
				"selected_number":  p.SelectedNumber,
				"eliminated_round": p.EliminatedRound,
				"is_winner":        p.IsWinner,
				"payout_status":    p.PayoutStatus,
				"prize_amount":     p.PrizeAmount,
			}
		}

		c.JSON(http.StatusOK, gin.H{
			"game_id":       g.ID,
			"creator":       g.CreatorUsername,
			"state":         g.State,
			"entry_fee":     g.EntryFee,
			"max_players":   g.MaxPlayers,
			"winner_count":  g.WinnerCount,
			"prize_pool":    g.PrizePool,
			"treasury_fee":  g.TreasuryFee,
			"number_min":    g.NumberMin,
			"number_max":    g.NumberMax,
			"current_round": g.CurrentRound,
			"drawn_numbers": drawn,
			"players":       players,
			"created_at":    g.CreatedAt,
			"started_at":    g.StartedAt,
			"completed_at":  g.CompletedAt,
			"cancel_reason": g.CancelReason,
		})
	}
}

// @Summary Lists games
// @Description Returns all games, optionally filtered by state
// @Tags game
// @Produce json
// @Param Authorization header string true "Bearer JWT token"
// @Param state query string false "Filter by lifecycle state"
// @Success 200 {array} object{game_id=string,state=string}
// @Failure 500 {object} object{error=string}
// @Router /auth/games [get]
// @Security ApiKeyAuth
func ListGames(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		games, err := gamesvc.ListGames(db, c.Query("state"))
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}

		list := make([]gin.H, len(games))
		for i, g := range games {
			list[i] = gin.H{
				"game_id":      g.ID,
				"creator":      g.CreatorUsername,
				"state":        g.State,
				"entry_fee":    g.EntryFee,
				"max_players":  g.MaxPlayers,
				"winner_count": g.WinnerCount,
				"prize_pool":   g.PrizePool,
				"created_at":   g.CreatedAt,
			}
		}
		c.JSON(http.StatusOK, list)
	}
}

// @Summary Returns a game's live state
// @Description Serves the redis snapshot of a game so clients can poll round progress without hitting PostgreSQL
// @Tags game
// @Produce json
// @Param Authorization header string true "Bearer JWT token"
// @Param game_id path string true "Game id"
// @Success 200 {object} object{game_id=string,state=string,current_round=integer}
// @Failure 404 {object} object{error=string}
// @Router /auth/games/{game_id}/live [get]
// @Security ApiKeyAuth
func GetGameLiveState(rc *redis.RedisClient) gin.HandlerFunc {
	return func(c *gin.Context) {
		snapshot, err := rc.GetGameSnapshot(c.Param("game_id"))
		if err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "No live state for this game"})
			return
		}
		c.JSON(http.StatusOK, snapshot)
	}
}

// @Summary Starts a game
// @Description Moves the game from number selection into play, creator only
// @Tags game
// @Produce json
// @Param Authorization header string true "Bearer JWT token"
// @Param game_id path string true "Game id"
// @Success 200 {object} object{message=string}
// @Failure 403 {object} object{error=string}
// @Failure 409 {object} object{error=string}
// @Router /auth/games/{game_id}/start [post]
// @Security ApiKeyAuth
func StartGame(db *gorm.DB, rc *redis.RedisClient, sio *socket_io.SocketServer) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := getAuthenticatedUser(c, db)
		if !ok {
			return
		}

		g, err := gamesvc.StartGame(db, rc, sio, c.Param("game_id"), user.Username)
		if err != nil {
			respondError(c, err)
			return
		}

		c.JSON(http.StatusOK, gin.H{"message": "Game started", "state": g.State})
	}
}

// @Summary Selects a player's number
// @Description Records the caller's number for the selection phase. Numbers are exclusive and final.
// @Tags game
// @Accept x-www-form-urlencoded
// @Produce json
// @Param Authorization header string true "Bearer JWT token"
// @Param game_id path string true "Game id"
// @Param number formData integer true "Chosen number within the game's range"
// @Success 200 {object} object{message=string,number=integer}
// @Failure 400 {object} object{error=string}
// @Failure 409 {object} object{error=string}
// @Router /auth/games/{game_id}/number [post]
// @Security ApiKeyAuth
func SelectNumber(db *gorm.DB, rc *redis.RedisClient, sio *socket_io.SocketServer) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := getAuthenticatedUser(c, db)
		if !ok {
			return
		}

		number, err := strconv.Atoi(c.PostForm("number"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid number"})
			return
		}

		player, err := gamesvc.SelectNumber(db, rc, sio, c.Param("game_id"), user.WalletAddress, number)
		if err != nil {
			respondError(c, err)
			return
		}

		c.JSON(http.StatusOK, gin.H{"message": "Number selected", "number": *player.SelectedNumber})
	}
}
