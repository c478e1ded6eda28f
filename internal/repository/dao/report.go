package dao

import (
	"context"

	"gorm.io/gorm"
)

type SaleReportFilter struct {
	CampaignID  uint
	VolunteerID uint
}

// GetSaleReport returns active sales with every relation the report renders.
func (d *RaffleDAO) GetSaleReport(ctx context.Context, filter SaleReportFilter) ([]RaffleSale, error) {
	query := d.conn(ctx).
		Preload("Payments", "active = ?", true).
		Preload("Payments.PaymentMethod").
		Preload("TicketBookRequest.TicketBook.Campaign").
		Preload("TicketBookRequest.Volunteer").
		Joins("JOIN ticket_book_requests ON ticket_book_requests.id = raffle_sales.ticket_book_request_id").
		Joins("JOIN ticket_books ON ticket_books.id = ticket_book_requests.ticket_book_id").
		Where("raffle_sales.active = ?", true)

	query = applySaleReportFilter(query, filter)

	var sales []RaffleSale
	if err := query.Order("raffle_sales.id").Find(&sales).Error; err != nil {
		return nil, err
	}
	return sales, nil
}

func applySaleReportFilter(query *gorm.DB, filter SaleReportFilter) *gorm.DB {
	if filter.CampaignID != 0 {
		query = query.Where("ticket_books.campaign_id = ?", filter.CampaignID)
	}
	if filter.VolunteerID != 0 {
		query = query.Where("ticket_book_requests.volunteer_id = ?", filter.VolunteerID)
	}
	return query
}
