package dao

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm/clause"
)

type RaffleSale struct {
	ID                  uint                `gorm:"primaryKey"`
	TicketBookRequestID uint                `gorm:"not null;index"`
	TicketBookRequest   TicketBookRequest   `gorm:"foreignKey:TicketBookRequestID"`
	TicketsSold         int                 `gorm:"not null"`
	Subtotal            decimal.Decimal     `gorm:"type:numeric(12,2);not null"`
	Active              bool                `gorm:"not null"`
	Payments            []RaffleSalePayment `gorm:"foreignKey:RaffleSaleID"`
	CreatedAt           time.Time
	UpdatedAt           time.Time
}

type RaffleSalePayment struct {
	ID              uint            `gorm:"primaryKey"`
	RaffleSaleID    uint            `gorm:"not null;index"`
	PaymentMethodID uint            `gorm:"not null;index"`
	PaymentMethod   PaymentMethod   `gorm:"foreignKey:PaymentMethodID"`
	Amount          decimal.Decimal `gorm:"type:numeric(12,2);not null"`
	CorrelationCode string          `gorm:"not null"`
	TransferProof   string          `gorm:"not null"`
	Active          bool            `gorm:"not null"`
}

type PaymentMethod struct {
	ID               uint   `gorm:"primaryKey"`
	Name             string `gorm:"unique;not null"`
	RequiresEvidence bool   `gorm:"not null"`
	Active           bool   `gorm:"not null"`
}

func (d *RaffleDAO) CreateRaffleSale(ctx context.Context, sale RaffleSale) (RaffleSale, error) {
	if err := d.conn(ctx).Omit(clause.Associations).Create(&sale).Error; err != nil {
		return RaffleSale{}, err
	}
	return sale, nil
}

// GetRaffleSaleByID loads a sale with its payments and the request, ticket
// book and campaign it was sold from.
func (d *RaffleDAO) GetRaffleSaleByID(ctx context.Context, id uint) (RaffleSale, error) {
	var sale RaffleSale
	err := d.conn(ctx).
		Preload("Payments", "active = ?", true).
		Preload("TicketBookRequest.TicketBook.Campaign").
		First(&sale, id).Error
	if err != nil {
		return RaffleSale{}, notFound(err, ErrSaleNotFound)
	}
	return sale, nil
}

// UpdateRaffleSale rewrites the totals of an active sale that still sells
// expectedTickets. Any other state is reported as ErrSaleConflict.
func (d *RaffleDAO) UpdateRaffleSale(ctx context.Context, id uint, expectedTickets, ticketsSold int, subtotal decimal.Decimal) error {
	result := d.conn(ctx).Model(&RaffleSale{}).
		Where("id = ? AND active = ? AND tickets_sold = ?", id, true, expectedTickets).
		Updates(map[string]interface{}{
			"tickets_sold": ticketsSold,
			"subtotal":     subtotal,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrSaleConflict
	}
	return nil
}

// DeactivateRaffleSale flags the sale and its payments inactive. The sale must
// still be active and sell expectedTickets.
func (d *RaffleDAO) DeactivateRaffleSale(ctx context.Context, id uint, expectedTickets int) error {
	db := d.conn(ctx)

	result := db.Model(&RaffleSale{}).
		Where("id = ? AND active = ? AND tickets_sold = ?", id, true, expectedTickets).
		Update("active", false)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrSaleConflict
	}

	return db.Model(&RaffleSalePayment{}).Where("raffle_sale_id = ?", id).Update("active", false).Error
}

func (d *RaffleDAO) DeleteRaffleSale(ctx context.Context, id uint) error {
	db := d.conn(ctx)

	if err := db.Where("raffle_sale_id = ?", id).Delete(&RaffleSalePayment{}).Error; err != nil {
		return err
	}

	result := db.Delete(&RaffleSale{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrSaleNotFound
	}
	return nil
}

func (d *RaffleDAO) CreateRaffleSalePayments(ctx context.Context, payments []RaffleSalePayment) ([]RaffleSalePayment, error) {
	if len(payments) == 0 {
		return payments, nil
	}
	if err := d.conn(ctx).Omit(clause.Associations).Create(&payments).Error; err != nil {
		if isForeignKeyViolation(err) {
			return nil, ErrPaymentMethodNotFound
		}
		return nil, err
	}
	return payments, nil
}

func (d *RaffleDAO) DeleteRaffleSalePayments(ctx context.Context, saleID uint) error {
	return d.conn(ctx).Where("raffle_sale_id = ?", saleID).Delete(&RaffleSalePayment{}).Error
}

func (d *RaffleDAO) GetPaymentMethods(ctx context.Context) ([]PaymentMethod, error) {
	var methods []PaymentMethod
	if err := d.conn(ctx).Order("id").Find(&methods).Error; err != nil {
		return nil, err
	}
	return methods, nil
}

func (d *RaffleDAO) GetPaymentMethodsByIDs(ctx context.Context, ids []uint) ([]PaymentMethod, error) {
	var methods []PaymentMethod
	if len(ids) == 0 {
		return methods, nil
	}
	if err := d.conn(ctx).Where("id IN ?", ids).Find(&methods).Error; err != nil {
		return nil, err
	}
	return methods, nil
}
