package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type SaleReportFilter struct {
	CampaignID  uint
	VolunteerID uint
}

type SaleReportPayment struct {
	PaymentMethod   string          `json:"payment_method"`
	Amount          decimal.Decimal `json:"amount"`
	CorrelationCode string          `json:"correlation_code"`
	TransferProof   string          `json:"transfer_proof"`
}

// SaleReportRow is a read-only projection of a sale with its attribution.
type SaleReportRow struct {
	SaleID         uint                `json:"sale_id"`
	TicketsSold    int                 `json:"tickets_sold"`
	Subtotal       decimal.Decimal     `json:"subtotal"`
	TicketBookID   uint                `json:"ticket_book_id"`
	TicketBookCode string              `json:"ticket_book_code"`
	CampaignID     uint                `json:"campaign_id"`
	CampaignName   string              `json:"campaign_name"`
	VolunteerID    uint                `json:"volunteer_id"`
	VolunteerName  string              `json:"volunteer_name"`
	Payments       []SaleReportPayment `json:"payments"`
	SoldAt         time.Time           `json:"sold_at"`
}
