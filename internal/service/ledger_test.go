package service_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/recaudacion/rifas-api/internal/service"
)

func TestInventoryLedger(t *testing.T) {
	e := newEnv(t, 10)
	ctx := context.Background()
	ledger := service.NewInventoryLedger(e.raffleRepo)

	remaining, err := ledger.Reserve(ctx, e.book.ID, 4)
	require.NoError(t, err)
	assert.Equal(t, 6, remaining)

	remaining, err = ledger.Reserve(ctx, e.book.ID, 7)
	assert.ErrorIs(t, err, service.ErrInsufficientTickets)
	assert.Equal(t, 6, remaining)

	remaining, err = ledger.Release(ctx, e.book.ID, 2)
	require.NoError(t, err)
	assert.Equal(t, 8, remaining)

	remaining, err = ledger.Adjust(ctx, e.book.ID, 8)
	require.NoError(t, err)
	assert.Equal(t, 0, remaining)

	_, err = ledger.Reserve(ctx, e.book.ID, 0)
	assert.ErrorIs(t, err, service.ErrInvalidQuantity)
	_, err = ledger.Release(ctx, e.book.ID, -1)
	assert.ErrorIs(t, err, service.ErrInvalidQuantity)

	_, err = ledger.Adjust(ctx, e.book.ID+50, 1)
	assert.ErrorIs(t, err, service.ErrTicketBookNotFound)
}

func TestInventoryLedgerJoinsTransaction(t *testing.T) {
	e := newEnv(t, 10)
	ctx := context.Background()
	ledger := service.NewInventoryLedger(e.raffleRepo)

	err := e.raffleRepo.Transaction(ctx, func(ctx context.Context) error {
		if _, err := ledger.Reserve(ctx, e.book.ID, 3); err != nil {
			return err
		}
		_, err := ledger.Reserve(ctx, e.book.ID, 8)
		return err
	})
	assert.ErrorIs(t, err, service.ErrInsufficientTickets)
	assert.Equal(t, 10, e.remaining(t, e.book.ID))
}

func TestCampaignAggregate(t *testing.T) {
	e := newEnv(t, 10)
	ctx := context.Background()
	aggregate := service.NewCampaignAggregate(e.raffleRepo)

	revenue, err := aggregate.Credit(ctx, e.campaign.ID, money("25.50"))
	require.NoError(t, err)
	assert.Equal(t, "25.50", revenue.StringFixed(2))

	revenue, err = aggregate.Adjust(ctx, e.campaign.ID, money("-5.50"))
	require.NoError(t, err)
	assert.Equal(t, "20.00", revenue.StringFixed(2))

	_, err = aggregate.Credit(ctx, e.campaign.ID, money("-1"))
	assert.Error(t, err)

	_, err = aggregate.Adjust(ctx, e.campaign.ID+9, money("1"))
	assert.ErrorIs(t, err, service.ErrCampaignNotFound)
}
