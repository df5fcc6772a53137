package game_constants

import "time"

// Game configuration bounds
const MaxGameIDLen = 16
const MaxExternalIDLen = 32
const MinPlayers = 2
const MaxPlayers = 100
const MaxCancelReasonLen = 200

// Treasury fee is a fixed 10% of every deposit (integer division,
// the remainder stays in the prize pool)
const TreasuryFeePercentage = 10
const MaxTreasuryFeePercentage = 50

// VRF proof well-formedness bounds. Actual proof verification happens in
// the oracle service, not here.
const MinVrfProofLen = 64
const MaxVrfProofLen = 256
const RandomValueLen = 32

// How long the authority has to wait before cancelling a game that is
// stuck in number selection
const SelectionCancelTimeout = 24 * time.Hour

// Raffle fee rate is expressed in basis points (100 = 1%)
const MaxRaffleFeeRateBps = 1000
