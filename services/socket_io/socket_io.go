package socket_io

import (
	"Rondo/utils"
	"time"

	"github.com/gin-gonic/gin"
	elog "github.com/zishang520/engine.io/v2/log"
	"github.com/zishang520/engine.io/v2/types"
	"github.com/zishang520/socket.io/v2/socket"
	"gorm.io/gorm"

	"log"
	"os"
)

// SocketServer relays game events to everyone watching a game. Clients
// join the room named after the game id and receive every notification
// the engine emits for it.
type SocketServer struct {
	Sio_server *socket.Server
}

func NewSocketServer() *SocketServer {
	return &SocketServer{}
}

// Start mounts the socket.io endpoint on the gin router and wires the
// room join protocol
func (sio *SocketServer) Start(router *gin.Engine, db *gorm.DB) {
	if os.Getenv("VERBOSE_SOCKETS") == "true" {
		elog.DEBUG = true
	}

	c := socket.DefaultServerOptions()
	c.SetServeClient(true)
	// NOTE: higher ping interval and timeout to 1) reduce network load
	// and 2) support slower networks
	c.SetPingInterval(5 * time.Second)
	c.SetPingTimeout(3 * time.Second)
	c.SetMaxHttpBufferSize(1000000)
	c.SetConnectTimeout(10 * time.Second)
	c.SetTransports(types.NewSet("polling", "websocket"))
	c.SetCors(&types.Cors{
		Origin:      "*",
		Credentials: true,
	})

	sio.Sio_server = socket.NewServer(nil, c)

	sio.Sio_server.On("connection", func(clients ...interface{}) {
		client := clients[0].(*socket.Socket)
		log.Printf("[SOCKET] Client connected: %s", client.Id())

		client.On("watch_game", func(args ...interface{}) {
			if len(args) == 0 {
				return
			}
			gameID, ok := args[0].(string)
			if !ok {
				client.Emit("error", gin.H{"error": "game id must be a string"})
				return
			}
			if err := utils.GameExists(db, gameID, client); err != nil {
				return
			}
			client.Join(socket.Room(gameID))
			log.Printf("[SOCKET] Client %s watching game %s", client.Id(), gameID)

			// Players can announce their wallet to get tagged in the logs
			if len(args) > 1 {
				if wallet, ok := args[1].(string); ok {
					isPlayer, err := utils.IsPlayerInGame(db, gameID, wallet)
					if err == nil && isPlayer {
						log.Printf("[SOCKET] Watcher %s is a player in game %s", wallet, gameID)
					}
				}
			}
		})

		client.On("unwatch_game", func(args ...interface{}) {
			if len(args) == 0 {
				return
			}
			if gameID, ok := args[0].(string); ok {
				client.Leave(socket.Room(gameID))
			}
		})

		client.On("disconnect", func(...interface{}) {
			log.Printf("[SOCKET] Client disconnected: %s", client.Id())
		})
	})

	router.POST("/socket.io/*any", gin.WrapH(sio.Sio_server.ServeHandler(c)))
	router.GET("/socket.io/*any", gin.WrapH(sio.Sio_server.ServeHandler(c)))
}

// Broadcast emits an event to a game's room
func (sio *SocketServer) Broadcast(gameID string, event string, payload gin.H) {
	if sio == nil || sio.Sio_server == nil {
		return
	}
	sio.Sio_server.To(socket.Room(gameID)).Emit(event, payload)
}

// Close shuts the socket.io server down
func (sio *SocketServer) Close() {
	if sio != nil && sio.Sio_server != nil {
		sio.Sio_server.Close(func(err error) {
			if err != nil {
				log.Printf("[SOCKET-ERROR] Error closing socket server: %v", err)
			}
		})
	}
}
