package dao

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type Campaign struct {
	ID             uint            `gorm:"primaryKey"`
	Name           string          `gorm:"not null"`
	Description    string
	TicketPrice    decimal.Decimal `gorm:"type:numeric(12,2);not null"`
	RunningRevenue decimal.Decimal `gorm:"type:numeric(12,2);not null"`
	Location       string
	Active         bool         `gorm:"not null"`
	TicketBooks    []TicketBook `gorm:"foreignKey:CampaignID"`
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

func (d *RaffleDAO) CreateCampaign(ctx context.Context, campaign Campaign) (Campaign, error) {
	if err := d.conn(ctx).Omit(clause.Associations).Create(&campaign).Error; err != nil {
		return Campaign{}, err
	}
	return campaign, nil
}

func (d *RaffleDAO) GetCampaigns(ctx context.Context) ([]Campaign, error) {
	var campaigns []Campaign
	if err := d.conn(ctx).Order("id").Find(&campaigns).Error; err != nil {
		return nil, err
	}
	return campaigns, nil
}

func (d *RaffleDAO) GetCampaignByID(ctx context.Context, id uint) (Campaign, error) {
	var campaign Campaign
	err := d.conn(ctx).Preload("TicketBooks", func(db *gorm.DB) *gorm.DB {
		return db.Order("ticket_books.id")
	}).First(&campaign, id).Error
	if err != nil {
		return Campaign{}, notFound(err, ErrCampaignNotFound)
	}
	return campaign, nil
}

// LockCampaign reads the campaign row and holds a row lock on it until the
// surrounding transaction ends. Revenue writers wait on that lock.
func (d *RaffleDAO) LockCampaign(ctx context.Context, id uint) (Campaign, error) {
	var campaign Campaign
	err := d.conn(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&campaign, id).Error
	if err != nil {
		return Campaign{}, notFound(err, ErrCampaignNotFound)
	}
	return campaign, nil
}

// AdjustCampaignRevenue adds delta to the running revenue with a single
// relative update and returns the new total.
func (d *RaffleDAO) AdjustCampaignRevenue(ctx context.Context, campaignID uint, delta decimal.Decimal) (decimal.Decimal, error) {
	db := d.conn(ctx)

	result := db.Model(&Campaign{}).
		Where("id = ?", campaignID).
		Update("running_revenue", gorm.Expr("running_revenue + ?", delta))
	if result.Error != nil {
		return decimal.Zero, result.Error
	}
	if result.RowsAffected == 0 {
		return decimal.Zero, ErrCampaignNotFound
	}

	var campaign Campaign
	if err := db.Select("id", "running_revenue").First(&campaign, campaignID).Error; err != nil {
		return decimal.Zero, notFound(err, ErrCampaignNotFound)
	}
	return campaign.RunningRevenue, nil
}

func (d *RaffleDAO) SetCampaignRevenue(ctx context.Context, campaignID uint, revenue decimal.Decimal) error {
	result := d.conn(ctx).Model(&Campaign{}).
		Where("id = ?", campaignID).
		Update("running_revenue", revenue)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrCampaignNotFound
	}
	return nil
}

// SumActiveSales recomputes a campaign's revenue from its active sales.
func (d *RaffleDAO) SumActiveSales(ctx context.Context, campaignID uint) (decimal.Decimal, error) {
	var total decimal.Decimal
	row := d.conn(ctx).Model(&RaffleSale{}).
		Select("COALESCE(SUM(raffle_sales.subtotal), 0)").
		Joins("JOIN ticket_book_requests ON ticket_book_requests.id = raffle_sales.ticket_book_request_id").
		Joins("JOIN ticket_books ON ticket_books.id = ticket_book_requests.ticket_book_id").
		Where("ticket_books.campaign_id = ? AND raffle_sales.active = ?", campaignID, true).
		Row()
	if err := row.Scan(&total); err != nil {
		return decimal.Zero, err
	}
	return total, nil
}
