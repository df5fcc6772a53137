package oracle

import (
	redis_models "Rondo/models/redis"
	"Rondo/services/redis"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"log"
	"time"
)

// Randomness oracle collaborator. The game engine only ever calls
// Request and Read; fulfillment happens out of band (in production a real
// VRF network, here the dev fulfiller below).

var (
	ErrNotYetAvailable = errors.New("randomness not yet available")
	ErrUnknownHandle   = errors.New("unknown oracle request handle")
)

// Oracle is the two-phase randomness contract
type Oracle interface {
	// Request registers a seed and returns a handle to poll later
	Request(seed string) (string, error)
	// Read returns the 32-byte random value for a handle, or
	// ErrNotYetAvailable while the request is still pending
	Read(handle string) ([]byte, error)
}

// DevOracle keeps its requests in Redis and fulfills them on demand.
// It is NOT a verifiable randomness source, just the development stand-in
// with the same request/read shape.
type DevOracle struct {
	rc *redis.RedisClient
}

func NewDevOracle(rc *redis.RedisClient) *DevOracle {
	return &DevOracle{rc: rc}
}

// Request registers a pending randomness request for the given seed
func (o *DevOracle) Request(seed string) (string, error) {
	handleBytes := make([]byte, 16)
	if _, err := rand.Read(handleBytes); err != nil {
		return "", fmt.Errorf("error generating oracle handle: %v", err)
	}
	handle := hex.EncodeToString(handleBytes)

	req := &redis_models.OracleRequest{
		Handle:      handle,
		Seed:        seed,
		Fulfilled:   false,
		RequestedAt: time.Now().Unix(),
	}
	if err := o.rc.SaveOracleRequest(req); err != nil {
		return "", err
	}

	log.Printf("[ORACLE] Randomness requested, seed=%s handle=%s", seed, handle)
	return handle, nil
}

// Read returns the random value for a fulfilled request
func (o *DevOracle) Read(handle string) ([]byte, error) {
	req, err := o.rc.GetOracleRequest(handle)
	if err != nil {
		return nil, err
	}
	if req == nil {
		return nil, ErrUnknownHandle
	}
	if !req.Fulfilled {
		return nil, ErrNotYetAvailable
	}
	return req.RandomValue, nil
}

// Fulfill generates the random value for a pending request. In
// production this is the oracle network's job; the dev deployment exposes
// it on an operator endpoint.
func (o *DevOracle) Fulfill(handle string) error {
	req, err := o.rc.GetOracleRequest(handle)
	if err != nil {
		return err
	}
	if req == nil {
		return ErrUnknownHandle
	}
	if req.Fulfilled {
		// Fulfilling twice is a no-op, the value never changes
		return nil
	}

	value := make([]byte, 32)
	if _, err := rand.Read(value); err != nil {
		return fmt.Errorf("error generating random value: %v", err)
	}

	req.Fulfilled = true
	req.RandomValue = value
	req.FulfilledAt = time.Now().Unix()
	if err := o.rc.SaveOracleRequest(req); err != nil {
		return err
	}

	log.Printf("[ORACLE] Randomness fulfilled, handle=%s", handle)
	return nil
}
