package game

import (
	models "Rondo/models/postgres"
	"Rondo/services/token"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// completeTwoPlayerGame runs a minimal game to completion so its fee
// lands in the treasury, and returns that fee
func completeTwoPlayerGame(t *testing.T, db *gorm.DB, gameID string,
	creator *models.User, p1 *models.User, p2 *models.User) uint64 {

	const entryFee uint64 = 1000

	_, err := CreateGame(db, nil, nil, gameID, creator.Username, creator.Username,
		entryFee, 2, 1, time.Now().Add(time.Hour))
	require.NoError(t, err)

	_, err = JoinGame(db, nil, nil, gameID, p1.WalletAddress, "")
	require.NoError(t, err)
	_, err = JoinGame(db, nil, nil, gameID, p2.WalletAddress, "")
	require.NoError(t, err)

	_, err = SelectNumber(db, nil, nil, gameID, p1.WalletAddress, 1)
	require.NoError(t, err)
	_, err = SelectNumber(db, nil, nil, gameID, p2.WalletAddress, 2)
	require.NoError(t, err)

	_, err = StartGame(db, nil, nil, gameID, creator.Username)
	require.NoError(t, err)

	_, err = SubmitVrf(db, nil, nil, gameID, creator.Username, 1, randomValueFor(2), testProof())
	require.NoError(t, err)
	_, _, err = ProcessElimination(db, nil, nil, gameID, 1)
	require.NoError(t, err)

	g, err := CompleteGame(db, nil, nil, gameID, creator.Username)
	require.NoError(t, err)
	require.Equal(t, models.StatusDistributing, g.State)
	return g.TreasuryFee
}

func TestTreasuryAccrualAndWithdraw(t *testing.T) {
	db := testDB(t)
	suffix := randSuffix(t)

	creator := createTestUser(t, db, "tres-"+suffix)
	treasury := ensureTreasury(t, db, creator.Username)
	p1 := createTestUser(t, db, "tresp1-"+suffix)
	p2 := createTestUser(t, db, "tresp2-"+suffix)

	// The treasury is a singleton that survives across games and test
	// runs, so every assertion works on deltas
	before, err := GetTreasury(db)
	require.NoError(t, err)
	feeBalanceBefore, err := token.GetBalance(db, treasury.TokenAddress)
	require.NoError(t, err)

	fee := completeTwoPlayerGame(t, db, "gt"+suffix, creator, p1, p2)
	require.NotZero(t, fee)

	// Settlement moved the fee out of escrow and accrued it as pending
	after, err := GetTreasury(db)
	require.NoError(t, err)
	assert.Equal(t, before.TotalCollected+fee, after.TotalCollected)
	assert.Equal(t, before.PendingWithdrawal+fee, after.PendingWithdrawal)
	assert.Equal(t, before.TotalDistributed, after.TotalDistributed)

	feeBalance, err := token.GetBalance(db, treasury.TokenAddress)
	require.NoError(t, err)
	assert.Equal(t, feeBalanceBefore+fee, feeBalance)

	authority := after.AuthorityUsername
	pending := after.PendingWithdrawal

	// Only the authority may withdraw
	_, err = WithdrawTreasury(db, nil, nil, p1.Username, nil)
	assert.ErrorIs(t, err, ErrUnauthorized)

	// No more than the pending balance may leave
	over := pending + 1
	_, err = WithdrawTreasury(db, nil, nil, authority, &over)
	assert.ErrorIs(t, err, ErrInsufficientTreasuryBalance)

	// Partial withdrawal
	part := fee / 2
	withdrawn, err := WithdrawTreasury(db, nil, nil, authority, &part)
	require.NoError(t, err)
	assert.Equal(t, part, withdrawn)

	mid, err := GetTreasury(db)
	require.NoError(t, err)
	assert.Equal(t, pending-part, mid.PendingWithdrawal)
	assert.Equal(t, after.TotalDistributed+part, mid.TotalDistributed)

	// A nil amount drains whatever is left
	withdrawn, err = WithdrawTreasury(db, nil, nil, authority, nil)
	require.NoError(t, err)
	assert.Equal(t, pending-part, withdrawn)

	drained, err := GetTreasury(db)
	require.NoError(t, err)
	assert.Equal(t, uint64(0), drained.PendingWithdrawal)
	assert.Equal(t, after.TotalDistributed+pending, drained.TotalDistributed)

	// Everything withdrawn left the fee account for the destination
	feeBalance, err = token.GetBalance(db, treasury.TokenAddress)
	require.NoError(t, err)
	assert.Equal(t, feeBalanceBefore+fee-pending, feeBalance)

	// Nothing pending, nothing to withdraw
	_, err = WithdrawTreasury(db, nil, nil, authority, nil)
	assert.ErrorIs(t, err, ErrNoFundsToWithdraw)
}
