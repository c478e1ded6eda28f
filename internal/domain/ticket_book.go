package domain

import "time"

// TicketBook (talonario) is a block of tickets belonging to one campaign.
type TicketBook struct {
	ID               uint      `json:"id"`
	CampaignID       uint      `json:"campaign_id"`
	Code             string    `json:"code"`
	TotalTickets     int       `json:"total_tickets"`
	RemainingTickets int       `json:"remaining_tickets"`
	Active           bool      `json:"active"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

// TicketBookRequest is a volunteer's claim to sell from a ticket book. Only
// books with exactly one active request can be sold from.
type TicketBookRequest struct {
	ID           uint      `json:"id"`
	TicketBookID uint      `json:"ticket_book_id"`
	VolunteerID  uint      `json:"volunteer_id"`
	RequestedAt  time.Time `json:"requested_at"`
	Active       bool      `json:"active"`
}

// SaleContext is everything a sale needs to know about the book it is sold from.
type SaleContext struct {
	Campaign   Campaign
	TicketBook TicketBook
	Request    TicketBookRequest
}
