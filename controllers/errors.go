package controllers

import (
	"Rondo/services/game"
	"Rondo/services/raffle"
	"Rondo/services/token"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
)

// respondError maps a service error to its HTTP status. Anything not in
// the taxonomy is a 500.
func respondError(c *gin.Context, err error) {
	status := http.StatusInternalServerError

	switch {
	case errors.Is(err, game.ErrGameNotFound),
		errors.Is(err, game.ErrVrfResultNotFound),
		errors.Is(err, raffle.ErrRaffleNotFound),
		errors.Is(err, token.ErrAccountNotFound):
		status = http.StatusNotFound

	case errors.Is(err, game.ErrUnauthorized),
		errors.Is(err, raffle.ErrNotRaffleCreator):
		status = http.StatusForbidden

	case errors.Is(err, game.ErrInvalidGameState),
		errors.Is(err, game.ErrGameNotCancelled),
		errors.Is(err, game.ErrCannotCancelGame),
		errors.Is(err, game.ErrCannotCancelActiveGame),
		errors.Is(err, game.ErrGameFull),
		errors.Is(err, game.ErrPaymentDeadlineExpired),
		errors.Is(err, game.ErrPlayerAlreadyJoined),
		errors.Is(err, game.ErrNumberAlreadySelected),
		errors.Is(err, game.ErrNumberAlreadyTaken),
		errors.Is(err, game.ErrPlayerEliminated),
		errors.Is(err, game.ErrNumbersNotSelected),
		errors.Is(err, game.ErrVrfAlreadySubmitted),
		errors.Is(err, game.ErrVrfAlreadyUsed),
		errors.Is(err, game.ErrVrfRequestPending),
		errors.Is(err, game.ErrNoVrfRequestPending),
		errors.Is(err, game.ErrVrfNotFulfilled),
		errors.Is(err, game.ErrGameNotReadyToComplete),
		errors.Is(err, game.ErrNotAWinner),
		errors.Is(err, game.ErrPrizeAlreadyClaimed),
		errors.Is(err, game.ErrNoPrizeToClaim),
		errors.Is(err, game.ErrRefundAlreadyProcessed),
		errors.Is(err, game.ErrTreasuryAlreadyInitialized),
		errors.Is(err, raffle.ErrRaffleNotActive),
		errors.Is(err, raffle.ErrRaffleEnded),
		errors.Is(err, raffle.ErrRaffleNotEnded),
		errors.Is(err, raffle.ErrRaffleSoldOut),
		errors.Is(err, raffle.ErrCreatorCannotBuy),
		errors.Is(err, raffle.ErrNoTicketsSold),
		errors.Is(err, raffle.ErrDrawNotFulfilled),
		errors.Is(err, raffle.ErrNoDrawPending),
		errors.Is(err, raffle.ErrRaffleNotComplete),
		errors.Is(err, raffle.ErrRaffleNotCancelled),
		errors.Is(err, raffle.ErrTicketAlreadyRefunded),
		errors.Is(err, raffle.ErrNoTicketsToRefund):
		status = http.StatusConflict

	case errors.Is(err, game.ErrGameIdTooLong),
		errors.Is(err, game.ErrInvalidEntryFee),
		errors.Is(err, game.ErrInvalidMaxPlayers),
		errors.Is(err, game.ErrInvalidWinnerCount),
		errors.Is(err, game.ErrInvalidFeePercentage),
		errors.Is(err, game.ErrNumberOutOfRange),
		errors.Is(err, game.ErrInvalidVrfProof),
		errors.Is(err, game.ErrInvalidRandomValue),
		errors.Is(err, game.ErrInvalidRound),
		errors.Is(err, game.ErrReasonTooLong),
		errors.Is(err, game.ErrReasonRequired),
		errors.Is(err, game.ErrExternalIdTooLong),
		errors.Is(err, game.ErrPlayerNotInGame),
		errors.Is(err, game.ErrNoWinnersFound),
		errors.Is(err, game.ErrTreasuryNotInitialized),
		errors.Is(err, game.ErrInsufficientTreasuryBalance),
		errors.Is(err, game.ErrNoFundsToWithdraw),
		errors.Is(err, raffle.ErrInvalidRaffleConfig),
		errors.Is(err, raffle.ErrInvalidFeeRate),
		errors.Is(err, raffle.ErrInvalidDrawValue),
		errors.Is(err, token.ErrInsufficientFunds):
		status = http.StatusBadRequest
	}

	c.JSON(status, gin.H{"error": err.Error()})
}
