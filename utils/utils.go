package utils

import (
	models "Rondo/models/postgres"
	"fmt"

	"gorm.io/gorm"

	"github.com/gin-gonic/gin"
	"github.com/zishang520/socket.io/v2/socket"
)

// ErrorHandler handles global errors
func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()
	}
}

// Function to check if a game exists
func CheckGameExists(db *gorm.DB, gameID string) (*models.Game, error) {
	var g models.Game
	result := db.Where("id = ?", gameID).First(&g)

	if result.Error != nil {
		if result.Error == gorm.ErrRecordNotFound {
			return nil, fmt.Errorf("game not found")
		}
		return nil, result.Error
	}

	return &g, nil
}

// IsPlayerInGame reports whether a wallet holds a roster slot in a game
func IsPlayerInGame(db *gorm.DB, gameID string, wallet string) (bool, error) {
	var count int64
	err := db.Model(&models.Player{}).
		Where("game_id = ? AND wallet_address = ?", gameID, wallet).
		Count(&count).Error

	if err != nil {
		return false, err
	}

	return count > 0, nil
}

// GameExists checks a game from a socket handler, emitting the error to
// the client
func GameExists(db *gorm.DB, gameID string, client *socket.Socket) error {
	_, err := CheckGameExists(db, gameID)
	if err != nil {
		fmt.Println("Game does not exist:", gameID)
		client.Emit("error", gin.H{"error": "Game does not exist"})
	}
	return err
}
