package controllers

import (
	"Rondo/services/oracle"
	rafflesvc "Rondo/services/raffle"
	"Rondo/services/socket_io"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

func raffleIDParam(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("raffle_id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid raffle id"})
		return 0, false
	}
	return uint(id), true
}

// @Summary Creates a raffle
// @Description Opens a single-draw raffle and escrows the caller's prize up front
// @Tags raffle
// @Accept x-www-form-urlencoded
// @Produce json
// @Param Authorization header string true "Bearer JWT token"
// @Param title formData string true "Title, at most 200 characters"
// @Param description formData string false "Description"
// @Param prize_amount formData integer true "Prize locked into escrow"
// @Param ticket_price formData integer true "Price per ticket"
// @Param max_tickets formData integer true "Ticket cap"
// @Param duration_minutes formData integer true "Minutes the raffle stays open"
// @Success 200 {object} object{raffle_id=integer}
// @Failure 400 {object} object{error=string}
// @Router /auth/raffles [post]
// @Security ApiKeyAuth
func CreateRaffle(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := getAuthenticatedUser(c, db)
		if !ok {
			return
		}

		prizeAmount, err1 := strconv.ParseUint(c.PostForm("prize_amount"), 10, 64)
		ticketPrice, err2 := strconv.ParseUint(c.PostForm("ticket_price"), 10, 64)
		maxTickets, err3 := strconv.Atoi(c.PostForm("max_tickets"))
		duration, err4 := strconv.Atoi(c.PostForm("duration_minutes"))
		if err1 != nil || err2 != nil || err3 != nil || err4 != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid numeric parameters"})
			return
		}

		now := time.Now()
		r, err := rafflesvc.CreateRaffle(db, user.Username, user.WalletAddress,
			c.PostForm("title"), c.PostForm("description"),
			prizeAmount, ticketPrice, maxTickets,
			now, now.Add(time.Duration(duration)*time.Minute))
		if err != nil {
			respondError(c, err)
			return
		}

		c.JSON(http.StatusOK, gin.H{"raffle_id": r.ID, "escrow": r.EscrowAddress, "end_time": r.EndTime})
	}
}

// @Summary Buys a raffle ticket
// @Description Sells the caller the next ticket in purchase order. The creator cannot buy.
// @Tags raffle
// @Produce json
// @Param Authorization header string true "Bearer JWT token"
// @Param raffle_id path integer true "Raffle id"
// @Success 200 {object} object{ticket_number=integer}
// @Failure 409 {object} object{error=string}
// @Router /auth/raffles/{raffle_id}/tickets [post]
// @Security ApiKeyAuth
func BuyRaffleTicket(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := getAuthenticatedUser(c, db)
		if !ok {
			return
		}
		id, ok := raffleIDParam(c)
		if !ok {
			return
		}

		ticket, err := rafflesvc.BuyTicket(db, id, user.Username, user.WalletAddress)
		if err != nil {
			respondError(c, err)
			return
		}

		c.JSON(http.StatusOK, gin.H{"ticket_number": ticket.TicketNumber})
	}
}

// @Summary Requests the winning draw
// @Description Opens an oracle request for the winning ticket once the raffle ended or sold out. Creator only.
// @Tags raffle
// @Produce json
// @Param Authorization header string true "Bearer JWT token"
// @Param raffle_id path integer true "Raffle id"
// @Success 200 {object} object{handle=string}
// @Failure 409 {object} object{error=string}
// @Router /auth/raffles/{raffle_id}/draw [post]
// @Security ApiKeyAuth
func RequestRaffleDraw(db *gorm.DB, orc oracle.Oracle) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := getAuthenticatedUser(c, db)
		if !ok {
			return
		}
		id, ok := raffleIDParam(c)
		if !ok {
			return
		}

		handle, err := rafflesvc.RequestDraw(db, orc, id, user.Username)
		if err != nil {
			respondError(c, err)
			return
		}

		c.JSON(http.StatusOK, gin.H{"handle": handle})
	}
}

// @Summary Consumes the draw's randomness
// @Description Reads the fulfilled oracle request and fixes the winning ticket
// @Tags raffle
// @Produce json
// @Param Authorization header string true "Bearer JWT token"
// @Param raffle_id path integer true "Raffle id"
// @Success 200 {object} object{winning_ticket=integer,winner=string}
// @Failure 409 {object} object{error=string}
// @Router /auth/raffles/{raffle_id}/draw/fulfill [post]
// @Security ApiKeyAuth
func FulfillRaffleDraw(db *gorm.DB, sio *socket_io.SocketServer, orc oracle.Oracle) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := raffleIDParam(c)
		if !ok {
			return
		}

		r, err := rafflesvc.FulfillDraw(db, sio, orc, id)
		if err != nil {
			respondError(c, err)
			return
		}

		c.JSON(http.StatusOK, gin.H{"winning_ticket": *r.WinningTicket, "winner": *r.WinnerWallet})
	}
}

// @Summary Distributes the raffle prize
// @Description Pays the prize to the winner, the fee to the treasury and the remaining revenue to the creator
// @Tags raffle
// @Produce json
// @Param Authorization header string true "Bearer JWT token"
// @Param raffle_id path integer true "Raffle id"
// @Success 200 {object} object{message=string}
// @Failure 409 {object} object{error=string}
// @Router /auth/raffles/{raffle_id}/distribute [post]
// @Security ApiKeyAuth
func DistributeRafflePrize(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := getAuthenticatedUser(c, db)
		if !ok {
			return
		}
		id, ok := raffleIDParam(c)
		if !ok {
			return
		}

		r, err := rafflesvc.DistributePrize(db, id, user.WalletAddress)
		if err != nil {
			respondError(c, err)
			return
		}

		c.JSON(http.StatusOK, gin.H{"message": "Prize distributed", "winner": *r.WinnerWallet})
	}
}

// @Summary Cancels a raffle
// @Description Aborts an active raffle, returning the escrowed prize to the creator. Ticket holders claim refunds individually.
// @Tags raffle
// @Produce json
// @Param Authorization header string true "Bearer JWT token"
// @Param raffle_id path integer true "Raffle id"
// @Success 200 {object} object{message=string}
// @Failure 403 {object} object{error=string}
// @Router /auth/raffles/{raffle_id}/cancel [post]
// @Security ApiKeyAuth
func CancelRaffle(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := getAuthenticatedUser(c, db)
		if !ok {
			return
		}
		id, ok := raffleIDParam(c)
		if !ok {
			return
		}

		if _, err := rafflesvc.CancelRaffle(db, id, user.Username, user.WalletAddress); err != nil {
			respondError(c, err)
			return
		}

		c.JSON(http.StatusOK, gin.H{"message": "Raffle cancelled"})
	}
}

// @Summary Claims raffle ticket refunds
// @Description Refunds every unrefunded ticket the caller holds in a cancelled raffle
// @Tags raffle
// @Produce json
// @Param Authorization header string true "Bearer JWT token"
// @Param raffle_id path integer true "Raffle id"
// @Success 200 {object} object{amount=integer}
// @Failure 409 {object} object{error=string}
// @Router /auth/raffles/{raffle_id}/refund [post]
// @Security ApiKeyAuth
func ClaimRaffleRefund(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := getAuthenticatedUser(c, db)
		if !ok {
			return
		}
		id, ok := raffleIDParam(c)
		if !ok {
			return
		}

		amount, err := rafflesvc.ClaimTicketRefund(db, id, user.WalletAddress)
		if err != nil {
			respondError(c, err)
			return
		}

		c.JSON(http.StatusOK, gin.H{"message": "Tickets refunded", "amount": amount})
	}
}

// @Summary Gives info of a raffle
// @Tags raffle
// @Produce json
// @Param Authorization header string true "Bearer JWT token"
// @Param raffle_id path integer true "Raffle id"
// @Success 200 {object} object{raffle_id=integer,status=string}
// @Failure 404 {object} object{error=string}
// @Router /auth/raffles/{raffle_id} [get]
// @Security ApiKeyAuth
func GetRaffleInfo(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := raffleIDParam(c)
		if !ok {
			return
		}

		r, err := rafflesvc.GetRaffle(db, id)
		if err != nil {
			respondError(c, err)
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"raffle_id":      r.ID,
			"creator":        r.CreatorUsername,
			"title":          r.Title,
			"description":    r.Description,
			"prize_amount":   r.PrizeAmount,
			"ticket_price":   r.TicketPrice,
			"max_tickets":    r.MaxTickets,
			"tickets_sold":   r.TicketsSold,
			"status":         r.Status,
			"start_time":     r.StartTime,
			"end_time":       r.EndTime,
			"winning_ticket": r.WinningTicket,
			"winner":         r.WinnerWallet,
		})
	}
}
