package routes

import (
	"Rondo/controllers"
	"Rondo/middleware"
	"Rondo/services/oracle"
	"Rondo/services/redis"
	"Rondo/services/socket_io"
	utils "Rondo/utils"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// SetupRoutes configures all API routes
func SetupRoutes(router *gin.Engine, db *gorm.DB, redisClient *redis.RedisClient,
	sio *socket_io.SocketServer, orc *oracle.DevOracle) {

	// utils global
	router.Use(utils.ErrorHandler())

	// Swagger route
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// API routes group
	api := router.Group("/")

	api.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})

	api.POST("/signup", controllers.SignUp(db))

	api.POST("/login", controllers.Login(db))

	// Dev oracle fulfillment endpoint, stands in for the oracle network
	api.POST("/oracle/fulfill", controllers.DevFulfillOracle(orc))

	authentication := api.Group("/auth")
	authentication.Use(middleware.AuthRequired)
	{
		authentication.DELETE("/logout", controllers.Logout)

		authentication.GET("/me", controllers.Me(db))

		// Game lifecycle
		authentication.POST("/games", controllers.CreateGame(db, redisClient, sio))
		authentication.GET("/games", controllers.ListGames(db))
		authentication.GET("/games/:game_id", controllers.GetGameInfo(db))
		authentication.GET("/games/:game_id/live", controllers.GetGameLiveState(redisClient))
		authentication.POST("/games/:game_id/join", controllers.JoinGame(db, redisClient, sio))
		authentication.POST("/games/:game_id/number", controllers.SelectNumber(db, redisClient, sio))
		authentication.POST("/games/:game_id/start", controllers.StartGame(db, redisClient, sio))

		// Randomness intake
		authentication.POST("/games/:game_id/vrf", controllers.SubmitVrf(db, redisClient, sio))
		authentication.POST("/games/:game_id/vrf/request", controllers.RequestVrf(db, redisClient, sio, orc))
		authentication.POST("/games/:game_id/vrf/fulfill", controllers.FulfillVrf(db, redisClient, sio, orc))
		authentication.GET("/games/:game_id/rounds/:round", controllers.GetVrfResult(db))

		// Elimination and settlement
		authentication.POST("/games/:game_id/eliminate", controllers.ProcessElimination(db, redisClient, sio))
		authentication.POST("/games/:game_id/complete", controllers.CompleteGame(db, redisClient, sio))
		authentication.POST("/games/:game_id/claim", controllers.ClaimPrize(db, redisClient, sio))
		authentication.POST("/games/:game_id/refund", controllers.RequestRefund(db, redisClient, sio))
		authentication.POST("/games/:game_id/cancel", controllers.CancelGame(db, redisClient, sio))

		// Treasury
		authentication.POST("/treasury/init", controllers.InitTreasury(db))
		authentication.GET("/treasury", controllers.GetTreasury(db))
		authentication.POST("/treasury/withdraw", controllers.WithdrawTreasury(db, redisClient, sio))

		// Raffles
		authentication.POST("/raffles", controllers.CreateRaffle(db))
		authentication.GET("/raffles/:raffle_id", controllers.GetRaffleInfo(db))
		authentication.POST("/raffles/:raffle_id/tickets", controllers.BuyRaffleTicket(db))
		authentication.POST("/raffles/:raffle_id/draw", controllers.RequestRaffleDraw(db, orc))
		authentication.POST("/raffles/:raffle_id/draw/fulfill", controllers.FulfillRaffleDraw(db, sio, orc))
		authentication.POST("/raffles/:raffle_id/distribute", controllers.DistributeRafflePrize(db))
		authentication.POST("/raffles/:raffle_id/cancel", controllers.CancelRaffle(db))
		authentication.POST("/raffles/:raffle_id/refund", controllers.ClaimRaffleRefund(db))
	}
}
