package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/recaudacion/rifas-api/internal/repository"
)

var (
	ErrInsufficientTickets = repository.ErrInsufficientTickets
	ErrInvalidQuantity     = errors.New("quantity must be at least one ticket")
)

type InsufficientTicketsError = repository.InsufficientTicketsError

type LedgerRepository interface {
	AdjustRemainingTickets(ctx context.Context, ticketBookID uint, delta int) (int, error)
	AdjustCampaignRevenue(ctx context.Context, campaignID uint, delta decimal.Decimal) (decimal.Decimal, error)
}

// InventoryLedger owns the remaining ticket count of ticket books. Calls made
// with a transaction context take part in that transaction.
type InventoryLedger struct {
	repo LedgerRepository
}

func NewInventoryLedger(repo LedgerRepository) *InventoryLedger {
	return &InventoryLedger{
		repo: repo,
	}
}

// Reserve takes quantity tickets out of the book and returns what is left.
func (l *InventoryLedger) Reserve(ctx context.Context, ticketBookID uint, quantity int) (int, error) {
	if quantity < 1 {
		return 0, ErrInvalidQuantity
	}
	return l.Adjust(ctx, ticketBookID, quantity)
}

// Release gives quantity tickets back to the book.
func (l *InventoryLedger) Release(ctx context.Context, ticketBookID uint, quantity int) (int, error) {
	if quantity < 1 {
		return 0, ErrInvalidQuantity
	}
	return l.Adjust(ctx, ticketBookID, -quantity)
}

// Adjust consumes delta tickets; a negative delta returns them. The remaining
// count never drops below zero.
func (l *InventoryLedger) Adjust(ctx context.Context, ticketBookID uint, delta int) (int, error) {
	remaining, err := l.repo.AdjustRemainingTickets(ctx, ticketBookID, delta)
	if err != nil {
		return remaining, fmt.Errorf("l.repo.AdjustRemainingTickets -> %w", err)
	}
	return remaining, nil
}

// CampaignAggregate keeps a campaign's running revenue in step with its sales.
type CampaignAggregate struct {
	repo LedgerRepository
}

func NewCampaignAggregate(repo LedgerRepository) *CampaignAggregate {
	return &CampaignAggregate{
		repo: repo,
	}
}

func (a *CampaignAggregate) Credit(ctx context.Context, campaignID uint, amount decimal.Decimal) (decimal.Decimal, error) {
	if amount.IsNegative() {
		return decimal.Zero, fmt.Errorf("credit of negative amount %s", amount)
	}
	return a.Adjust(ctx, campaignID, amount)
}

func (a *CampaignAggregate) Adjust(ctx context.Context, campaignID uint, delta decimal.Decimal) (decimal.Decimal, error) {
	revenue, err := a.repo.AdjustCampaignRevenue(ctx, campaignID, delta)
	if err != nil {
		return decimal.Zero, fmt.Errorf("a.repo.AdjustCampaignRevenue -> %w", err)
	}
	return revenue, nil
}
