package game

import (
	models "Rondo/models/postgres"
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateGameConfig(t *testing.T) {
	assert.NoError(t, ValidateGameConfig(1000, 4, 1))
	assert.NoError(t, ValidateGameConfig(1, 2, 1))
	assert.NoError(t, ValidateGameConfig(1000, 100, 99))

	assert.ErrorIs(t, ValidateGameConfig(0, 4, 1), ErrInvalidEntryFee)
	assert.ErrorIs(t, ValidateGameConfig(1000, 1, 1), ErrInvalidMaxPlayers)
	assert.ErrorIs(t, ValidateGameConfig(1000, 101, 1), ErrInvalidMaxPlayers)
	assert.ErrorIs(t, ValidateGameConfig(1000, 4, 0), ErrInvalidWinnerCount)
	// Winner count must stay below the roster size
	assert.ErrorIs(t, ValidateGameConfig(1000, 4, 4), ErrInvalidWinnerCount)
}

func TestCalculateTreasuryFee(t *testing.T) {
	fee, err := CalculateTreasuryFee(1000, 10)
	assert.NoError(t, err)
	assert.Equal(t, uint64(100), fee)

	// Floor division
	fee, err = CalculateTreasuryFee(999, 10)
	assert.NoError(t, err)
	assert.Equal(t, uint64(99), fee)

	fee, err = CalculateTreasuryFee(0, 10)
	assert.NoError(t, err)
	assert.Equal(t, uint64(0), fee)

	_, err = CalculateTreasuryFee(1000, 101)
	assert.ErrorIs(t, err, ErrInvalidFeePercentage)

	// Overflow is detected, not wrapped
	_, err = CalculateTreasuryFee(^uint64(0), 10)
	assert.ErrorIs(t, err, ErrArithmeticOverflow)
}

func TestCalculatePrizeDistribution(t *testing.T) {
	prize, err := CalculatePrizeDistribution(1000, 100, 3)
	assert.NoError(t, err)
	assert.Equal(t, uint64(300), prize)

	// Full scenario: 4 players at 1,000,000 each, one winner
	prize, err = CalculatePrizeDistribution(4_000_000, 400_000, 1)
	assert.NoError(t, err)
	assert.Equal(t, uint64(3_600_000), prize)

	_, err = CalculatePrizeDistribution(1000, 100, 0)
	assert.ErrorIs(t, err, ErrNoWinnersFound)

	_, err = CalculatePrizeDistribution(100, 200, 1)
	assert.ErrorIs(t, err, ErrArithmeticOverflow)
}

func TestDeriveDrawnNumber(t *testing.T) {
	value := make([]byte, 32)

	// All-zero randomness lands on the range minimum
	assert.Equal(t, 1, DeriveDrawnNumber(value, 1, 8))

	binary.LittleEndian.PutUint64(value[:8], 7)
	assert.Equal(t, 8, DeriveDrawnNumber(value, 1, 8))

	binary.LittleEndian.PutUint64(value[:8], 8)
	assert.Equal(t, 1, DeriveDrawnNumber(value, 1, 8))

	// Only the first 8 bytes matter
	binary.LittleEndian.PutUint64(value[:8], 3)
	value[8] = 0xFF
	value[31] = 0xFF
	assert.Equal(t, 4, DeriveDrawnNumber(value, 1, 8))

	// Always within [min, max]
	for i := uint64(0); i < 1000; i++ {
		binary.LittleEndian.PutUint64(value[:8], i*2654435761)
		n := DeriveDrawnNumber(value, 1, 8)
		assert.GreaterOrEqual(t, n, 1)
		assert.LessOrEqual(t, n, 8)
	}
}

func intPtr(n int) *int { return &n }

func TestRosterHelpers(t *testing.T) {
	players := []models.Player{
		{WalletAddress: "a", SelectedNumber: intPtr(1)},
		{WalletAddress: "b", SelectedNumber: intPtr(2), EliminatedRound: intPtr(1)},
		{WalletAddress: "c"},
	}

	assert.Equal(t, 2, CountActivePlayers(players))
	assert.False(t, AllNumbersSelected(players))

	players[2].SelectedNumber = intPtr(3)
	assert.True(t, AllNumbersSelected(players))

	assert.Equal(t, "a", NumberTakenBy(players, 1))
	// Eliminated players do not hold their numbers anymore
	assert.Equal(t, "", NumberTakenBy(players, 2))
	assert.Equal(t, "", NumberTakenBy(players, 99))

	assert.Equal(t, &players[1], FindPlayer(players, "b"))
	assert.Nil(t, FindPlayer(players, "z"))
}
