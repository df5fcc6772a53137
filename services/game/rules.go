package game

import (
	constants "Rondo/constants/game"
	models "Rondo/models/postgres"
	"encoding/binary"
)

// Pure game arithmetic. Everything here is deterministic and
// side-effect free so the fund-split and derivation properties can be
// checked in isolation.

// ValidateGameConfig checks the creation parameters of a game
func ValidateGameConfig(entryFee uint64, maxPlayers int, winnerCount int) error {
	if entryFee == 0 {
		return ErrInvalidEntryFee
	}
	if maxPlayers < constants.MinPlayers || maxPlayers > constants.MaxPlayers {
		return ErrInvalidMaxPlayers
	}
	if winnerCount <= 0 || winnerCount >= maxPlayers {
		return ErrInvalidWinnerCount
	}
	return nil
}

// CalculateTreasuryFee returns floor(amount * percentage / 100)
func CalculateTreasuryFee(amount uint64, percentage int) (uint64, error) {
	if percentage < 0 || percentage > 100 {
		return 0, ErrInvalidFeePercentage
	}
	product := amount * uint64(percentage)
	if amount != 0 && product/amount != uint64(percentage) {
		return 0, ErrArithmeticOverflow
	}
	return product / 100, nil
}

// CalculatePrizeDistribution returns the per-winner prize:
// floor((pool - fee) / winners). The division remainder stays in escrow,
// it is never distributed.
func CalculatePrizeDistribution(prizePool uint64, treasuryFee uint64, winnerCount int) (uint64, error) {
	if winnerCount <= 0 {
		return 0, ErrNoWinnersFound
	}
	if treasuryFee > prizePool {
		return 0, ErrArithmeticOverflow
	}
	distributable := prizePool - treasuryFee
	return distributable / uint64(winnerCount), nil
}

// DeriveDrawnNumber maps a 32-byte random value into [min, max]:
// little-endian u64 of the first 8 bytes, mod the range size, plus min
func DeriveDrawnNumber(randomValue []byte, min int, max int) int {
	randomU64 := binary.LittleEndian.Uint64(randomValue[:8])
	rangeSize := uint64(max - min + 1)
	return int(randomU64%rangeSize) + min
}

// CountActivePlayers returns how many roster entries have not been
// eliminated yet
func CountActivePlayers(players []models.Player) int {
	count := 0
	for i := range players {
		if players[i].IsActive() {
			count++
		}
	}
	return count
}

// AllNumbersSelected reports whether every active player has a number
func AllNumbersSelected(players []models.Player) bool {
	for i := range players {
		if players[i].IsActive() && !players[i].HasSelected() {
			return false
		}
	}
	return true
}

// NumberTakenBy returns the wallet holding a number among active
// players, or "" if the number is free
func NumberTakenBy(players []models.Player, number int) string {
	for i := range players {
		p := &players[i]
		if p.IsActive() && p.HasSelected() && *p.SelectedNumber == number {
			return p.WalletAddress
		}
	}
	return ""
}

// FindPlayer returns the roster entry for a wallet, or nil
func FindPlayer(players []models.Player, wallet string) *models.Player {
	for i := range players {
		if players[i].WalletAddress == wallet {
			return &players[i]
		}
	}
	return nil
}
