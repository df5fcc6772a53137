package token

import (
	"Rondo/config"
	models "Rondo/models/postgres"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func testDB(t *testing.T) *gorm.DB {
	if os.Getenv("POSTGRES_HOST") == "" {
		t.Skip("POSTGRES_HOST not set, skipping database tests")
	}
	db, err := config.ConnectGORM()
	require.NoError(t, err)
	require.NoError(t, config.MigrateDatabase(db))
	return db
}

func TestTransfer(t *testing.T) {
	db := testDB(t)

	from, err := CreateAccount(db, GenerateAddress(), "alice", models.AccountKindWallet)
	require.NoError(t, err)
	to, err := CreateAccount(db, GenerateAddress(), "bob", models.AccountKindWallet)
	require.NoError(t, err)

	require.NoError(t, Deposit(db, from.Address, 1000))

	require.NoError(t, Transfer(db, 400, from.Address, to.Address))

	fromBalance, err := GetBalance(db, from.Address)
	require.NoError(t, err)
	toBalance, err := GetBalance(db, to.Address)
	require.NoError(t, err)
	assert.Equal(t, uint64(600), fromBalance)
	assert.Equal(t, uint64(400), toBalance)

	// Balance shortfalls abort without moving anything
	err = Transfer(db, 601, from.Address, to.Address)
	assert.ErrorIs(t, err, ErrInsufficientFunds)
	fromBalance, _ = GetBalance(db, from.Address)
	assert.Equal(t, uint64(600), fromBalance)

	err = Transfer(db, 1, "no-such-account", to.Address)
	assert.ErrorIs(t, err, ErrAccountNotFound)
	err = Transfer(db, 1, from.Address, "no-such-account")
	assert.ErrorIs(t, err, ErrAccountNotFound)
}

func TestTransferInsideTransactionRollsBack(t *testing.T) {
	db := testDB(t)

	from, err := CreateAccount(db, GenerateAddress(), "carol", models.AccountKindWallet)
	require.NoError(t, err)
	to, err := CreateAccount(db, GenerateAddress(), "dave", models.AccountKindEscrow)
	require.NoError(t, err)
	require.NoError(t, Deposit(db, from.Address, 100))

	// A failing step after the transfer undoes both legs
	err = db.Transaction(func(tx *gorm.DB) error {
		if err := Transfer(tx, 100, from.Address, to.Address); err != nil {
			return err
		}
		return gorm.ErrInvalidData
	})
	assert.Error(t, err)

	fromBalance, _ := GetBalance(db, from.Address)
	toBalance, _ := GetBalance(db, to.Address)
	assert.Equal(t, uint64(100), fromBalance)
	assert.Equal(t, uint64(0), toBalance)
}

func TestGenerateAddress(t *testing.T) {
	a := GenerateAddress()
	b := GenerateAddress()
	assert.Len(t, a, 44)
	assert.Len(t, b, 44)
	assert.NotEqual(t, a, b)
}
