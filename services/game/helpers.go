package game

import (
	models "Rondo/models/postgres"
	"encoding/json"
	"fmt"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// loadGame fetches a game by id inside the current transaction
func loadGame(tx *gorm.DB, gameID string) (*models.Game, error) {
	var g models.Game
	if err := tx.Where("id = ?", gameID).First(&g).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, ErrGameNotFound
		}
		return nil, err
	}
	return &g, nil
}

// loadRoster fetches a game's players ordered by join time, so prize and
// refund enumeration is deterministic
func loadRoster(tx *gorm.DB, gameID string) ([]models.Player, error) {
	var players []models.Player
	err := tx.Where("game_id = ?", gameID).
		Order("joined_at ASC, wallet_address ASC").
		Find(&players).Error
	if err != nil {
		return nil, fmt.Errorf("error loading roster: %w", err)
	}
	return players, nil
}

// DecodeDrawnNumbers parses the jsonb drawn-number list of a game
func DecodeDrawnNumbers(g *models.Game) ([]int, error) {
	if len(g.DrawnNumbers) == 0 {
		return []int{}, nil
	}
	var numbers []int
	if err := json.Unmarshal(g.DrawnNumbers, &numbers); err != nil {
		return nil, fmt.Errorf("error decoding drawn numbers: %w", err)
	}
	return numbers, nil
}

// appendDrawnNumber appends one number to a game's drawn-number list.
// The list is append-only and its length always equals the current round.
func appendDrawnNumber(g *models.Game, number int) error {
	numbers, err := DecodeDrawnNumbers(g)
	if err != nil {
		return err
	}
	numbers = append(numbers, number)
	data, err := json.Marshal(numbers)
	if err != nil {
		return fmt.Errorf("error encoding drawn numbers: %w", err)
	}
	g.DrawnNumbers = datatypes.JSON(data)
	return nil
}
