package dao

import (
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type TicketBook struct {
	ID               uint                `gorm:"primaryKey"`
	CampaignID       uint                `gorm:"not null;index"`
	Campaign         Campaign            `gorm:"foreignKey:CampaignID"`
	Code             string              `gorm:"not null"`
	TotalTickets     int                 `gorm:"not null"`
	RemainingTickets int                 `gorm:"not null"`
	Active           bool                `gorm:"not null"`
	Requests         []TicketBookRequest `gorm:"foreignKey:TicketBookID"`
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

type TicketBookRequest struct {
	ID           uint       `gorm:"primaryKey"`
	TicketBookID uint       `gorm:"not null;index"`
	TicketBook   TicketBook `gorm:"foreignKey:TicketBookID"`
	VolunteerID  uint       `gorm:"not null;index"`
	Volunteer    User       `gorm:"foreignKey:VolunteerID"`
	RequestedAt  time.Time  `gorm:"not null"`
	Active       bool       `gorm:"not null"`
}

func (d *RaffleDAO) CreateTicketBook(ctx context.Context, book TicketBook) (TicketBook, error) {
	if err := d.conn(ctx).Omit(clause.Associations).Create(&book).Error; err != nil {
		if isForeignKeyViolation(err) {
			return TicketBook{}, ErrCampaignNotFound
		}
		return TicketBook{}, err
	}
	return book, nil
}

func (d *RaffleDAO) GetTicketBookByID(ctx context.Context, id uint) (TicketBook, error) {
	var book TicketBook
	if err := d.conn(ctx).First(&book, id).Error; err != nil {
		return TicketBook{}, notFound(err, ErrTicketBookNotFound)
	}
	return book, nil
}

func (d *RaffleDAO) GetTicketBooksByCampaignID(ctx context.Context, campaignID uint) ([]TicketBook, error) {
	var books []TicketBook
	err := d.conn(ctx).Where("campaign_id = ?", campaignID).Order("id").Find(&books).Error
	if err != nil {
		return nil, err
	}
	return books, nil
}

// FindSellableTicketBook loads an active ticket book together with its
// campaign and its single active request.
func (d *RaffleDAO) FindSellableTicketBook(ctx context.Context, ticketBookID uint) (TicketBook, error) {
	var book TicketBook
	err := d.conn(ctx).
		Preload("Campaign").
		Preload("Requests", "active = ?", true).
		Where("id = ? AND active = ?", ticketBookID, true).
		First(&book).Error
	if err != nil {
		return TicketBook{}, notFound(err, ErrTicketBookNotFound)
	}

	if len(book.Requests) != 1 || !book.Campaign.Active {
		return TicketBook{}, ErrTicketBookNotFound
	}

	return book, nil
}

// AdjustRemainingTickets takes delta tickets out of the book (a negative delta
// gives them back). The guard lives in the UPDATE itself so concurrent sales
// against the same book serialize on the row and can never drive the count
// below zero.
func (d *RaffleDAO) AdjustRemainingTickets(ctx context.Context, ticketBookID uint, delta int) (int, error) {
	db := d.conn(ctx)

	result := db.Model(&TicketBook{}).
		Where("id = ? AND remaining_tickets - ? >= 0", ticketBookID, delta).
		Update("remaining_tickets", gorm.Expr("remaining_tickets - ?", delta))
	if result.Error != nil {
		return 0, result.Error
	}

	var book TicketBook
	if err := db.Select("id", "remaining_tickets").First(&book, ticketBookID).Error; err != nil {
		return 0, notFound(err, ErrTicketBookNotFound)
	}

	if result.RowsAffected == 0 {
		return book.RemainingTickets, &InsufficientTicketsError{
			TicketBookID: ticketBookID,
			Remaining:    book.RemainingTickets,
			Requested:    delta,
		}
	}

	return book.RemainingTickets, nil
}

func (d *RaffleDAO) CreateTicketBookRequest(ctx context.Context, request TicketBookRequest) (TicketBookRequest, error) {
	err := d.conn(ctx).Omit(clause.Associations).Create(&request).Error
	switch {
	case err == nil:
		return request, nil
	case isUniqueViolation(err, activeRequestIndex, "ticket_book_requests.ticket_book_id"):
		return TicketBookRequest{}, ErrTicketBookRequestFound
	case isForeignKeyViolation(err):
		return TicketBookRequest{}, ErrTicketBookNotFound
	default:
		return TicketBookRequest{}, err
	}
}

func (d *RaffleDAO) GetTicketBookRequestByID(ctx context.Context, id uint) (TicketBookRequest, error) {
	var request TicketBookRequest
	if err := d.conn(ctx).First(&request, id).Error; err != nil {
		return TicketBookRequest{}, notFound(err, ErrRequestNotFound)
	}
	return request, nil
}

func (d *RaffleDAO) DeactivateTicketBookRequest(ctx context.Context, id uint) error {
	result := d.conn(ctx).Model(&TicketBookRequest{}).
		Where("id = ?", id).
		Update("active", false)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrRequestNotFound
	}
	return nil
}
