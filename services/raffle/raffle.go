package raffle

import (
	constants "Rondo/constants/game"
	models "Rondo/models/postgres"
	"Rondo/services/oracle"
	"Rondo/services/socket_io"
	"Rondo/services/token"
	"encoding/binary"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// Single-draw raffle sibling of the elimination game: tickets are sold
// in purchase order, one oracle draw picks the winning ticket, the prize
// goes to its holder and a basis-point fee goes to the treasury.

var (
	ErrRaffleNotFound        = errors.New("raffle not found")
	ErrInvalidRaffleConfig   = errors.New("invalid raffle configuration")
	ErrInvalidFeeRate        = errors.New("fee rate above maximum")
	ErrRaffleNotActive       = errors.New("raffle is not active")
	ErrRaffleEnded           = errors.New("raffle has ended")
	ErrRaffleNotEnded        = errors.New("raffle has not ended yet")
	ErrRaffleSoldOut         = errors.New("raffle is sold out")
	ErrCreatorCannotBuy      = errors.New("creator cannot buy tickets")
	ErrNotRaffleCreator      = errors.New("only the raffle creator may do this")
	ErrNoTicketsSold         = errors.New("no tickets sold")
	ErrDrawNotFulfilled      = errors.New("draw randomness not yet available")
	ErrInvalidDrawValue      = errors.New("draw randomness must be 32 bytes")
	ErrNoDrawPending         = errors.New("no draw pending")
	ErrRaffleNotComplete     = errors.New("raffle winner not drawn yet")
	ErrRaffleNotCancelled    = errors.New("raffle not cancelled")
	ErrTicketAlreadyRefunded = errors.New("ticket already refunded")
	ErrNoTicketsToRefund     = errors.New("no tickets to refund")
)

// Fee rate the raffle charges the prize, in basis points
const feeRateBps = 250

// CreateRaffle opens a new raffle and escrows the creator's prize
func CreateRaffle(db *gorm.DB, creatorUsername string, creatorWallet string,
	title string, description string, prizeAmount uint64, ticketPrice uint64,
	maxTickets int, startTime time.Time, endTime time.Time) (*models.Raffle, error) {

	if title == "" || prizeAmount == 0 || ticketPrice == 0 || maxTickets <= 0 || !endTime.After(startTime) {
		return nil, ErrInvalidRaffleConfig
	}
	if feeRateBps > constants.MaxRaffleFeeRateBps {
		return nil, ErrInvalidFeeRate
	}

	var r *models.Raffle
	err := db.Transaction(func(tx *gorm.DB) error {
		escrow, err := token.CreateAccount(tx, token.GenerateAddress(), creatorUsername, models.AccountKindEscrow)
		if err != nil {
			return err
		}

		// The prize is locked up front so a winning ticket can always
		// be paid out
		if err := token.Transfer(tx, prizeAmount, creatorWallet, escrow.Address); err != nil {
			return err
		}

		r = &models.Raffle{
			CreatorUsername: creatorUsername,
			Title:           title,
			Description:     description,
			PrizeAmount:     prizeAmount,
			TicketPrice:     ticketPrice,
			MaxTickets:      maxTickets,
			StartTime:       startTime,
			EndTime:         endTime,
			Status:          models.RaffleActive,
			EscrowAddress:   escrow.Address,
		}
		return tx.Create(r).Error
	})
	if err != nil {
		return nil, err
	}

	log.Printf("[RAFFLE] Raffle %d created by %s: prize=%d price=%d max=%d",
		r.ID, creatorUsername, prizeAmount, ticketPrice, maxTickets)
	return r, nil
}

// BuyTicket sells the next ticket of an active raffle. Ticket numbers
// start at 0 and follow the purchase order.
func BuyTicket(db *gorm.DB, raffleID uint, buyerUsername string, buyerWallet string) (*models.RaffleTicket, error) {
	var ticket *models.RaffleTicket

	err := db.Transaction(func(tx *gorm.DB) error {
		r, err := loadRaffle(tx, raffleID)
		if err != nil {
			return err
		}

		if r.Status != models.RaffleActive {
			return ErrRaffleNotActive
		}
		now := time.Now()
		if now.Before(r.StartTime) || now.After(r.EndTime) {
			return ErrRaffleEnded
		}
		if r.TicketsSold >= r.MaxTickets {
			return ErrRaffleSoldOut
		}
		if r.CreatorUsername == buyerUsername {
			return ErrCreatorCannotBuy
		}

		if err := token.Transfer(tx, r.TicketPrice, buyerWallet, r.EscrowAddress); err != nil {
			return err
		}

		ticket = &models.RaffleTicket{
			RaffleID:     r.ID,
			TicketNumber: r.TicketsSold,
			OwnerWallet:  buyerWallet,
			PurchasedAt:  now,
		}
		if err := tx.Create(ticket).Error; err != nil {
			return err
		}

		r.TicketsSold++
		return tx.Save(r).Error
	})
	if err != nil {
		return nil, err
	}

	log.Printf("[RAFFLE] Ticket %d of raffle %d sold to %s", ticket.TicketNumber, raffleID, buyerWallet)
	return ticket, nil
}

// RequestDraw asks the oracle for the winning-ticket randomness once the
// raffle has ended or sold out
func RequestDraw(db *gorm.DB, orc oracle.Oracle, raffleID uint, callerUsername string) (string, error) {
	var handle string

	err := db.Transaction(func(tx *gorm.DB) error {
		r, err := loadRaffle(tx, raffleID)
		if err != nil {
			return err
		}

		if r.CreatorUsername != callerUsername {
			return ErrNotRaffleCreator
		}
		if r.Status != models.RaffleActive {
			return ErrRaffleNotActive
		}
		if !r.HasEnded(time.Now()) {
			return ErrRaffleNotEnded
		}
		if r.TicketsSold == 0 {
			return ErrNoTicketsSold
		}

		seed := fmt.Sprintf("raffle-%d", r.ID)
		handle, err = orc.Request(seed)
		if err != nil {
			return fmt.Errorf("error requesting draw randomness: %w", err)
		}

		r.Status = models.RaffleDrawing
		r.OracleHandle = handle
		return tx.Save(r).Error
	})
	if err != nil {
		return "", err
	}

	log.Printf("[RAFFLE] Draw requested for raffle %d, handle=%s", raffleID, handle)
	return handle, nil
}

// FulfillDraw reads the oracle's value and picks the winning ticket:
// little-endian u64 of the first 8 bytes, mod tickets sold
func FulfillDraw(db *gorm.DB, sio *socket_io.SocketServer, orc oracle.Oracle, raffleID uint) (*models.Raffle, error) {
	var r *models.Raffle

	err := db.Transaction(func(tx *gorm.DB) error {
		var err error
		r, err = loadRaffle(tx, raffleID)
		if err != nil {
			return err
		}

		if r.Status != models.RaffleDrawing {
			return ErrNoDrawPending
		}

		randomValue, err := orc.Read(r.OracleHandle)
		if err != nil {
			if errors.Is(err, oracle.ErrNotYetAvailable) {
				return ErrDrawNotFulfilled
			}
			return fmt.Errorf("error reading draw result: %w", err)
		}
		if len(randomValue) != constants.RandomValueLen {
			return ErrInvalidDrawValue
		}

		winning := int(binary.LittleEndian.Uint64(randomValue[:8]) % uint64(r.TicketsSold))

		var ticket models.RaffleTicket
		if err := tx.Where("raffle_id = ? AND ticket_number = ?", r.ID, winning).First(&ticket).Error; err != nil {
			return err
		}

		now := time.Now()
		r.Status = models.RaffleComplete
		r.WinningTicket = &winning
		r.WinnerWallet = &ticket.OwnerWallet
		r.OracleHandle = ""
		r.DrawnAt = &now
		return tx.Save(r).Error
	})
	if err != nil {
		return nil, err
	}

	log.Printf("[RAFFLE] Raffle %d drawn: ticket=%d winner=%s", raffleID, *r.WinningTicket, *r.WinnerWallet)

	if sio != nil {
		sio.Broadcast(fmt.Sprintf("raffle-%d", raffleID), "raffle_drawn", gin.H{
			"raffle_id":      raffleID,
			"winning_ticket": *r.WinningTicket,
			"winner":         *r.WinnerWallet,
		})
	}

	return r, nil
}

// DistributePrize pays the prize to the winner and the basis-point fee
// of the ticket revenue to the treasury. The remaining revenue goes to
// the creator's wallet.
func DistributePrize(db *gorm.DB, raffleID uint, creatorWallet string) (*models.Raffle, error) {
	var r *models.Raffle

	err := db.Transaction(func(tx *gorm.DB) error {
		var err error
		r, err = loadRaffle(tx, raffleID)
		if err != nil {
			return err
		}

		if r.Status != models.RaffleComplete {
			return ErrRaffleNotComplete
		}

		if err := token.Transfer(tx, r.PrizeAmount, r.EscrowAddress, *r.WinnerWallet); err != nil {
			return err
		}

		revenue := r.TicketPrice * uint64(r.TicketsSold)
		fee := revenue * feeRateBps / 10000

		if fee > 0 {
			var treasury models.Treasury
			if err := tx.Where("id = ?", models.TreasuryID).First(&treasury).Error; err != nil {
				return err
			}
			if err := token.Transfer(tx, fee, r.EscrowAddress, treasury.TokenAddress); err != nil {
				return err
			}
			treasury.TotalCollected += fee
			treasury.PendingWithdrawal += fee
			if err := tx.Save(&treasury).Error; err != nil {
				return err
			}
		}

		if revenue > fee {
			if err := token.Transfer(tx, revenue-fee, r.EscrowAddress, creatorWallet); err != nil {
				return err
			}
		}

		now := time.Now()
		r.Status = models.RaffleDistributed
		r.DistributedAt = &now
		return tx.Save(r).Error
	})
	if err != nil {
		return nil, err
	}

	log.Printf("[RAFFLE] Raffle %d distributed, prize=%d winner=%s", raffleID, r.PrizeAmount, *r.WinnerWallet)
	return r, nil
}

// CancelRaffle aborts an active raffle and returns the escrowed prize to
// the creator. Ticket holders claim their refunds individually.
func CancelRaffle(db *gorm.DB, raffleID uint, callerUsername string, creatorWallet string) (*models.Raffle, error) {
	var r *models.Raffle

	err := db.Transaction(func(tx *gorm.DB) error {
		var err error
		r, err = loadRaffle(tx, raffleID)
		if err != nil {
			return err
		}

		if r.CreatorUsername != callerUsername {
			return ErrNotRaffleCreator
		}
		if r.Status != models.RaffleActive {
			return ErrRaffleNotActive
		}

		if err := token.Transfer(tx, r.PrizeAmount, r.EscrowAddress, creatorWallet); err != nil {
			return err
		}

		r.Status = models.RaffleCancelled
		return tx.Save(r).Error
	})
	if err != nil {
		return nil, err
	}

	log.Printf("[RAFFLE] Raffle %d cancelled by %s", raffleID, callerUsername)
	return r, nil
}

// ClaimTicketRefund refunds every unrefunded ticket a wallet holds in a
// cancelled raffle
func ClaimTicketRefund(db *gorm.DB, raffleID uint, wallet string) (uint64, error) {
	var refunded uint64

	err := db.Transaction(func(tx *gorm.DB) error {
		r, err := loadRaffle(tx, raffleID)
		if err != nil {
			return err
		}

		if r.Status != models.RaffleCancelled {
			return ErrRaffleNotCancelled
		}

		var tickets []models.RaffleTicket
		if err := tx.Where("raffle_id = ? AND owner_wallet = ? AND refunded = ?", r.ID, wallet, false).
			Find(&tickets).Error; err != nil {
			return err
		}
		if len(tickets) == 0 {
			return ErrNoTicketsToRefund
		}

		refunded = r.TicketPrice * uint64(len(tickets))
		if err := token.Transfer(tx, refunded, r.EscrowAddress, wallet); err != nil {
			return err
		}

		for i := range tickets {
			tickets[i].Refunded = true
			if err := tx.Save(&tickets[i]).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return 0, err
	}

	log.Printf("[RAFFLE] Refunded %d to %s for raffle %d", refunded, wallet, raffleID)
	return refunded, nil
}

// GetRaffle returns one raffle with its tickets preloaded
func GetRaffle(db *gorm.DB, raffleID uint) (*models.Raffle, error) {
	var r models.Raffle
	if err := db.Preload("Tickets").Where("id = ?", raffleID).First(&r).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, ErrRaffleNotFound
		}
		return nil, err
	}
	return &r, nil
}

func loadRaffle(tx *gorm.DB, raffleID uint) (*models.Raffle, error) {
	var r models.Raffle
	if err := tx.Where("id = ?", raffleID).First(&r).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, ErrRaffleNotFound
		}
		return nil, err
	}
	return &r, nil
}
