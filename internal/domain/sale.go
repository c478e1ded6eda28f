package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// RaffleSale (recaudación) records tickets sold against a ticket book request.
// Subtotal is always TicketsSold × campaign ticket price.
type RaffleSale struct {
	ID                  uint            `json:"id"`
	TicketBookRequestID uint            `json:"ticket_book_request_id"`
	TicketsSold         int             `json:"tickets_sold"`
	Subtotal            decimal.Decimal `json:"subtotal"`
	Active              bool            `json:"active"`
	Payments            []Payment       `json:"payments"`
	CreatedAt           time.Time       `json:"created_at"`
	UpdatedAt           time.Time       `json:"updated_at"`
}

type SaleEventKind string

const (
	SaleCreated     SaleEventKind = "created"
	SaleUpdated     SaleEventKind = "updated"
	SaleDeactivated SaleEventKind = "deactivated"
)

// SaleEvent is pushed to live feed subscribers after a sale transaction commits.
type SaleEvent struct {
	Kind             SaleEventKind   `json:"kind"`
	CampaignID       uint            `json:"campaign_id"`
	TicketBookID     uint            `json:"ticket_book_id"`
	SaleID           uint            `json:"sale_id"`
	TicketsSold      int             `json:"tickets_sold"`
	Subtotal         decimal.Decimal `json:"subtotal"`
	RunningRevenue   decimal.Decimal `json:"running_revenue"`
	RemainingTickets int             `json:"remaining_tickets"`
	OccurredAt       time.Time       `json:"occurred_at"`
}
