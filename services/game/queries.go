package game

import (
	models "Rondo/models/postgres"

	"gorm.io/gorm"
)

// Read-side queries for the HTTP layer. These never mutate and run
// outside any transaction.

// GetGame returns one game with its roster preloaded
func GetGame(db *gorm.DB, gameID string) (*models.Game, error) {
	var g models.Game
	err := db.Preload("Players").Where("id = ?", gameID).First(&g).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, ErrGameNotFound
		}
		return nil, err
	}
	return &g, nil
}

// ListGames returns games, optionally filtered by state
func ListGames(db *gorm.DB, state string) ([]models.Game, error) {
	var games []models.Game
	q := db.Order("created_at DESC")
	if state != "" {
		q = q.Where("state = ?", state)
	}
	if err := q.Find(&games).Error; err != nil {
		return nil, err
	}
	return games, nil
}

// GetRoster returns a game's players in join order
func GetRoster(db *gorm.DB, gameID string) ([]models.Player, error) {
	if _, err := loadGame(db, gameID); err != nil {
		return nil, err
	}
	return loadRoster(db, gameID)
}

// GetVrfResult returns the stored randomness of one round
func GetVrfResult(db *gorm.DB, gameID string, round int) (*models.VrfResult, error) {
	var result models.VrfResult
	err := db.Where("game_id = ? AND round = ?", gameID, round).First(&result).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, ErrVrfResultNotFound
		}
		return nil, err
	}
	return &result, nil
}
