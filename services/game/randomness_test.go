package game

import (
	models "Rondo/models/postgres"
	"Rondo/services/oracle"
	"encoding/binary"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeOracle is an in-memory Oracle for exercising the two-phase pull
// path without a running Redis
type fakeOracle struct {
	next      uint64
	requests  map[string]string
	fulfilled map[string][]byte
}

func newFakeOracle() *fakeOracle {
	return &fakeOracle{
		requests:  make(map[string]string),
		fulfilled: make(map[string][]byte),
	}
}

func (f *fakeOracle) Request(seed string) (string, error) {
	f.next++
	handle := fmt.Sprintf("handle-%d", f.next)
	f.requests[handle] = seed
	return handle, nil
}

func (f *fakeOracle) Read(handle string) ([]byte, error) {
	if _, ok := f.requests[handle]; !ok {
		return nil, oracle.ErrUnknownHandle
	}
	value, ok := f.fulfilled[handle]
	if !ok {
		return nil, oracle.ErrNotYetAvailable
	}
	return value, nil
}

func (f *fakeOracle) fulfillWith(handle string, drawn int) {
	value := make([]byte, 32)
	binary.LittleEndian.PutUint64(value[:8], uint64(drawn-1))
	f.fulfilled[handle] = value
}

func TestVrfPullPath(t *testing.T) {
	db := testDB(t)
	suffix := randSuffix(t)
	orc := newFakeOracle()

	creator := createTestUser(t, db, "pull-"+suffix)
	ensureTreasury(t, db, creator.Username)
	p1 := createTestUser(t, db, "pullp1-"+suffix)
	p2 := createTestUser(t, db, "pullp2-"+suffix)

	gameID := "gv" + suffix
	_, err := CreateGame(db, nil, nil, gameID, creator.Username, creator.Username,
		1000, 2, 1, time.Now().Add(time.Hour))
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

	// Nothing to fulfill before a request is opened
	_, err = FulfillVrf(db, nil, nil, orc, gameID)
	assert.ErrorIs(t, err, ErrNoVrfRequestPending)

	handle, err := RequestVrf(db, nil, nil, orc, gameID, creator.Username)
	require.NoError(t, err)
	assert.NotEmpty(t, handle)

	// One request in flight at a time, and it blocks the push path too
	_, err = RequestVrf(db, nil, nil, orc, gameID, creator.Username)
	assert.ErrorIs(t, err, ErrVrfRequestPending)
	_, err = SubmitVrf(db, nil, nil, gameID, creator.Username, 1, make([]byte, 32), testProof())
	assert.ErrorIs(t, err, ErrVrfRequestPending)

	// Oracle has not answered yet: the request stays pending
	_, err = FulfillVrf(db, nil, nil, orc, gameID)
	assert.ErrorIs(t, err, ErrVrfNotFulfilled)

	orc.fulfillWith(handle, 2)

	result, err := FulfillVrf(db, nil, nil, orc, gameID)
	require.NoError(t, err)
	assert.Equal(t, 1, result.Round)
	assert.Equal(t, 2, result.DrawnNumber)

	g, err := GetGame(db, gameID)
	require.NoError(t, err)
	assert.False(t, g.VrfRequestPending)
	assert.Equal(t, 1, g.CurrentRound)

	_, eliminated, err := ProcessElimination(db, nil, nil, gameID, 1)
	require.NoError(t, err)
	assert.Equal(t, []string{p2.WalletAddress}, eliminated)

	g, err = CompleteGame(db, nil, nil, gameID, creator.Username)
	require.NoError(t, err)
	assert.Equal(t, models.StatusDistributing, g.State)
}

func TestSubmitVrfValidation(t *testing.T) {
	db := testDB(t)
	suffix := randSuffix(t)

	creator := createTestUser(t, db, "subv-"+suffix)
	ensureTreasury(t, db, creator.Username)
	p1 := createTestUser(t, db, "subvp1-"+suffix)
	p2 := createTestUser(t, db, "subvp2-"+suffix)

	gameID := "gs" + suffix
	_, err := CreateGame(db, nil, nil, gameID, creator.Username, creator.Username,
		1000, 2, 1, time.Now().Add(time.Hour))
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

	// Proof bounds
	_, err = SubmitVrf(db, nil, nil, gameID, creator.Username, 1, make([]byte, 32), make([]byte, 63))
	assert.ErrorIs(t, err, ErrInvalidVrfProof)
	_, err = SubmitVrf(db, nil, nil, gameID, creator.Username, 1, make([]byte, 32), make([]byte, 257))
	assert.ErrorIs(t, err, ErrInvalidVrfProof)

	// Random value must be exactly 32 bytes
	_, err = SubmitVrf(db, nil, nil, gameID, creator.Username, 1, make([]byte, 31), testProof())
	assert.ErrorIs(t, err, ErrInvalidRandomValue)

	// Only the oracle authority submits
	_, err = SubmitVrf(db, nil, nil, gameID, p1.Username, 1, make([]byte, 32), testProof())
	assert.ErrorIs(t, err, ErrUnauthorized)

	// Rounds advance strictly one at a time
	_, err = SubmitVrf(db, nil, nil, gameID, creator.Username, 2, make([]byte, 32), testProof())
	assert.ErrorIs(t, err, ErrInvalidRound)

	_, err = SubmitVrf(db, nil, nil, gameID, creator.Username, 1, make([]byte, 32), testProof())
	require.NoError(t, err)

	// No double submission for a settled round
	_, err = SubmitVrf(db, nil, nil, gameID, creator.Username, 1, make([]byte, 32), testProof())
	assert.ErrorIs(t, err, ErrInvalidRound)
}
