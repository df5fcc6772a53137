package game

import "errors"

// Failure taxonomy: validation, authorization, phase, arithmetic and
// idempotency errors. Every operation checks these inside its
// transaction and aborts whole, no partial state ever persists.
var (
	// Validation
	ErrGameIdTooLong        = errors.New("game id too long")
	ErrInvalidEntryFee      = errors.New("invalid entry fee amount")
	ErrInvalidMaxPlayers    = errors.New("max players must be between 2 and 100")
	ErrInvalidWinnerCount   = errors.New("invalid winner count")
	ErrInvalidFeePercentage = errors.New("invalid fee percentage")
	ErrNumberOutOfRange     = errors.New("number out of valid range")
	ErrInvalidVrfProof      = errors.New("invalid vrf proof length")
	ErrInvalidRandomValue   = errors.New("random value must be 32 bytes")
	ErrReasonTooLong        = errors.New("cancel reason too long")
	ErrReasonRequired       = errors.New("cancel reason required")
	ErrExternalIdTooLong    = errors.New("external id too long")

	// Authorization
	ErrUnauthorized = errors.New("not authorized to perform this action")

	// Phase
	ErrGameNotFound           = errors.New("game not found")
	ErrInvalidGameState       = errors.New("invalid game state for this operation")
	ErrGameNotCancelled       = errors.New("game not cancelled")
	ErrCannotCancelGame       = errors.New("cannot cancel game in current state")
	ErrCannotCancelActiveGame = errors.New("cannot cancel active game yet")

	// Entry / escrow
	ErrGameFull               = errors.New("game is full")
	ErrPaymentDeadlineExpired = errors.New("payment deadline has expired")
	ErrPlayerAlreadyJoined    = errors.New("player already joined this game")
	ErrPlayerNotInGame        = errors.New("player not in game")

	// Number selection
	ErrNumberAlreadySelected = errors.New("player has already selected a number")
	ErrNumberAlreadyTaken    = errors.New("number already taken by another player")
	ErrPlayerEliminated      = errors.New("player has been eliminated")
	ErrNumbersNotSelected    = errors.New("not all players have selected a number")

	// Randomness
	ErrInvalidRound        = errors.New("invalid round number")
	ErrVrfAlreadySubmitted = errors.New("vrf result already submitted for this round")
	ErrVrfAlreadyUsed      = errors.New("vrf result already used")
	ErrVrfResultNotFound   = errors.New("vrf result not found")
	ErrVrfRequestPending   = errors.New("vrf request already pending")
	ErrNoVrfRequestPending = errors.New("no vrf request pending")
	ErrVrfNotFulfilled     = errors.New("vrf not fulfilled")

	// Settlement / claims
	ErrGameNotReadyToComplete = errors.New("remaining players still above winner count")
	ErrNoWinnersFound         = errors.New("no winners found")
	ErrNotAWinner             = errors.New("player is not a winner")
	ErrPrizeAlreadyClaimed    = errors.New("prize already claimed")
	ErrNoPrizeToClaim         = errors.New("no prize to claim")
	ErrRefundAlreadyProcessed = errors.New("refund already processed")

	// Treasury
	ErrTreasuryNotInitialized      = errors.New("treasury not initialized")
	ErrTreasuryAlreadyInitialized  = errors.New("treasury already initialized")
	ErrInsufficientTreasuryBalance = errors.New("insufficient treasury balance")
	ErrNoFundsToWithdraw           = errors.New("no funds to withdraw")

	// Arithmetic
	ErrArithmeticOverflow = errors.New("arithmetic overflow")
)
