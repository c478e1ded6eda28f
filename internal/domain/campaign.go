package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Campaign is a fundraising raffle (rifa). RunningRevenue is a cache of the
// subtotals of every active sale sold from its ticket books.
type Campaign struct {
	ID             uint            `json:"id"`
	Name           string          `json:"name"`
	Description    string          `json:"description"`
	TicketPrice    decimal.Decimal `json:"ticket_price"`
	RunningRevenue decimal.Decimal `json:"running_revenue"`
	Location       string          `json:"location"`
	Active         bool            `json:"active"`
	TicketBooks    []TicketBook    `json:"ticket_books,omitempty"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
}

// Subtotal is the amount owed for quantity tickets of this campaign.
func (c Campaign) Subtotal(quantity int) decimal.Decimal {
	return c.TicketPrice.Mul(decimal.NewFromInt(int64(quantity)))
}

type RevenueReconciliation struct {
	CampaignID uint            `json:"campaign_id"`
	Recorded   decimal.Decimal `json:"recorded"`
	Computed   decimal.Decimal `json:"computed"`
	Drift      decimal.Decimal `json:"drift"`
	Consistent bool            `json:"consistent"`
	Repaired   bool            `json:"repaired"`
}
