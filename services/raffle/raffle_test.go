package raffle

import (
	"Rondo/config"
	models "Rondo/models/postgres"
	gamesvc "Rondo/services/game"
	"Rondo/services/oracle"
	"Rondo/services/token"
	"crypto/rand"
	"encoding/binary"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

const testFaucet uint64 = 10_000_000

func testDB(t *testing.T) *gorm.DB {
	if os.Getenv("POSTGRES_HOST") == "" {
		t.Skip("POSTGRES_HOST not set, skipping database tests")
	}
	db, err := config.ConnectGORM()
	require.NoError(t, err)
	require.NoError(t, config.MigrateDatabase(db))
	return db
}

func randSuffix(t *testing.T) string {
	b := make([]byte, 4)
	_, err := rand.Read(b)
	require.NoError(t, err)
	return hex.EncodeToString(b)
}

func createTestUser(t *testing.T, db *gorm.DB, name string) *models.User {
	var user models.User
	err := db.Transaction(func(tx *gorm.DB) error {
		account, err := token.CreateAccount(tx, token.GenerateAddress(), name, models.AccountKindWallet)
		if err != nil {
			return err
		}
		if err := token.Deposit(tx, account.Address, testFaucet); err != nil {
			return err
		}
		user = models.User{
			Email:         name + "@test.local",
			Username:      name,
			PasswordHash:  "x",
			WalletAddress: account.Address,
			MemberSince:   time.Now(),
		}
		return tx.Create(&user).Error
	})
	require.NoError(t, err)
	return &user
}

func ensureTreasury(t *testing.T, db *gorm.DB, authority string) {
	_, err := gamesvc.InitTreasury(db, authority, 10)
	if errors.Is(err, gamesvc.ErrTreasuryAlreadyInitialized) {
		return
	}
	require.NoError(t, err)
}

// stubOracle answers every request with a fixed winning index
type stubOracle struct {
	handles map[string]bool
	value   []byte
}

func newStubOracle(winning uint64) *stubOracle {
	value := make([]byte, 32)
	binary.LittleEndian.PutUint64(value[:8], winning)
	return &stubOracle{handles: make(map[string]bool), value: value}
}

func (s *stubOracle) Request(seed string) (string, error) {
	handle := fmt.Sprintf("stub-%s", seed)
	s.handles[handle] = true
	return handle, nil
}

func (s *stubOracle) Read(handle string) ([]byte, error) {
	if !s.handles[handle] {
		return nil, oracle.ErrUnknownHandle
	}
	return s.value, nil
}

// shortOracle hands back an undersized random value
type shortOracle struct {
	stubOracle
}

func (s *shortOracle) Read(handle string) ([]byte, error) {
	value, err := s.stubOracle.Read(handle)
	if err != nil {
		return nil, err
	}
	return value[:4], nil
}

func TestRaffleLifecycle(t *testing.T) {
	db := testDB(t)
	suffix := randSuffix(t)

	creator := createTestUser(t, db, "rcreator-"+suffix)
	ensureTreasury(t, db, creator.Username)
	buyers := make([]*models.User, 3)
	for i := range buyers {
		buyers[i] = createTestUser(t, db, fmt.Sprintf("rb%d-%s", i, suffix))
	}

	const prize uint64 = 100_000
	const ticketPrice uint64 = 10_000

	r, err := CreateRaffle(db, creator.Username, creator.WalletAddress,
		"Test raffle "+suffix, "", prize, ticketPrice, 3,
		time.Now().Add(-time.Minute), time.Now().Add(time.Hour))
	require.NoError(t, err)
	assert.Equal(t, models.RaffleActive, r.Status)

	// The prize is escrowed up front
	escrowBalance, err := token.GetBalance(db, r.EscrowAddress)
	require.NoError(t, err)
	assert.Equal(t, prize, escrowBalance)

	// Creator cannot buy a ticket
	_, err = BuyTicket(db, r.ID, creator.Username, creator.WalletAddress)
	assert.ErrorIs(t, err, ErrCreatorCannotBuy)

	// Tickets are numbered by purchase order from zero
	for i, b := range buyers {
		ticket, err := BuyTicket(db, r.ID, b.Username, b.WalletAddress)
		require.NoError(t, err)
		assert.Equal(t, i, ticket.TicketNumber)
	}

	// Sold out, nothing left to sell
	_, err = BuyTicket(db, r.ID, buyers[0].Username, buyers[0].WalletAddress)
	assert.ErrorIs(t, err, ErrRaffleSoldOut)

	// 5 % 3 == 2: ticket two wins
	orc := newStubOracle(5)
	_, err = RequestDraw(db, orc, r.ID, creator.Username)
	require.NoError(t, err)

	r, err = FulfillDraw(db, nil, orc, r.ID)
	require.NoError(t, err)
	require.NotNil(t, r.WinningTicket)
	assert.Equal(t, 2, *r.WinningTicket)
	assert.Equal(t, buyers[2].WalletAddress, *r.WinnerWallet)

	r, err = DistributePrize(db, r.ID, creator.WalletAddress)
	require.NoError(t, err)
	assert.Equal(t, models.RaffleDistributed, r.Status)

	winnerBalance, err := token.GetBalance(db, buyers[2].WalletAddress)
	require.NoError(t, err)
	assert.Equal(t, testFaucet-ticketPrice+prize, winnerBalance)

	// Revenue minus the 2.5% fee went back to the creator
	revenue := ticketPrice * 3
	fee := revenue * feeRateBps / 10000
	creatorBalance, err := token.GetBalance(db, creator.WalletAddress)
	require.NoError(t, err)
	assert.Equal(t, testFaucet-prize+revenue-fee, creatorBalance)
}

func TestRaffleCancelAndRefund(t *testing.T) {
	db := testDB(t)
	suffix := randSuffix(t)

	creator := createTestUser(t, db, "rxcreator-"+suffix)
	ensureTreasury(t, db, creator.Username)
	buyer := createTestUser(t, db, "rxbuyer-"+suffix)

	r, err := CreateRaffle(db, creator.Username, creator.WalletAddress,
		"Doomed raffle "+suffix, "", 50_000, 5_000, 10,
		time.Now().Add(-time.Minute), time.Now().Add(time.Hour))
	require.NoError(t, err)

	_, err = BuyTicket(db, r.ID, buyer.Username, buyer.WalletAddress)
	require.NoError(t, err)
	_, err = BuyTicket(db, r.ID, buyer.Username, buyer.WalletAddress)
	require.NoError(t, err)

	// Only the creator may cancel
	_, err = CancelRaffle(db, r.ID, buyer.Username, buyer.WalletAddress)
	assert.ErrorIs(t, err, ErrNotRaffleCreator)

	_, err = CancelRaffle(db, r.ID, creator.Username, creator.WalletAddress)
	require.NoError(t, err)

	// The escrowed prize went back to the creator
	creatorBalance, err := token.GetBalance(db, creator.WalletAddress)
	require.NoError(t, err)
	assert.Equal(t, testFaucet, creatorBalance)

	// Both tickets are refunded in one claim, once
	amount, err := ClaimTicketRefund(db, r.ID, buyer.WalletAddress)
	require.NoError(t, err)
	assert.Equal(t, uint64(10_000), amount)

	_, err = ClaimTicketRefund(db, r.ID, buyer.WalletAddress)
	assert.ErrorIs(t, err, ErrNoTicketsToRefund)

	buyerBalance, err := token.GetBalance(db, buyer.WalletAddress)
	require.NoError(t, err)
	assert.Equal(t, testFaucet, buyerBalance)
}

func TestRequestDrawGuards(t *testing.T) {
	db := testDB(t)
	suffix := randSuffix(t)

	creator := createTestUser(t, db, "rgcreator-"+suffix)
	ensureTreasury(t, db, creator.Username)

	r, err := CreateRaffle(db, creator.Username, creator.WalletAddress,
		"Open raffle "+suffix, "", 50_000, 5_000, 10,
		time.Now().Add(-time.Minute), time.Now().Add(time.Hour))
	require.NoError(t, err)

	orc := newStubOracle(0)

	// Still open and nothing sold
	_, err = RequestDraw(db, orc, r.ID, creator.Username)
	assert.ErrorIs(t, err, ErrRaffleNotEnded)

	// Force the end time into the past: now the empty raffle is the blocker
	require.NoError(t, db.Model(&models.Raffle{}).Where("id = ?", r.ID).
		Update("end_time", time.Now().Add(-time.Minute)).Error)

	_, err = RequestDraw(db, orc, r.ID, creator.Username)
	assert.ErrorIs(t, err, ErrNoTicketsSold)
}

func TestFulfillDrawRejectsShortValue(t *testing.T) {
	db := testDB(t)
	suffix := randSuffix(t)

	creator := createTestUser(t, db, "rscreator-"+suffix)
	ensureTreasury(t, db, creator.Username)
	buyer := createTestUser(t, db, "rsbuyer-"+suffix)

	r, err := CreateRaffle(db, creator.Username, creator.WalletAddress,
		"Short draw raffle "+suffix, "", 50_000, 5_000, 1,
		time.Now().Add(-time.Minute), time.Now().Add(time.Hour))
	require.NoError(t, err)

	orc := &shortOracle{*newStubOracle(0)}

	// One ticket sells the raffle out, so the draw may be requested
	_, err = BuyTicket(db, r.ID, buyer.Username, buyer.WalletAddress)
	require.NoError(t, err)
	_, err = RequestDraw(db, orc, r.ID, creator.Username)
	require.NoError(t, err)

	// A truncated random value never picks a winner
	_, err = FulfillDraw(db, nil, orc, r.ID)
	assert.ErrorIs(t, err, ErrInvalidDrawValue)

	got, err := GetRaffle(db, r.ID)
	require.NoError(t, err)
	assert.Equal(t, models.RaffleDrawing, got.Status)
	assert.Nil(t, got.WinningTicket)
}
