package dao_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/recaudacion/rifas-api/internal/repository/dao"
	"github.com/recaudacion/rifas-api/internal/repository/dao/daotest"
)

type fixture struct {
	campaign dao.Campaign
	book     dao.TicketBook
	request  dao.TicketBookRequest
}

func seed(t *testing.T, d *dao.RaffleDAO, userDAO *dao.UserDAO, remaining int) fixture {
	t.Helper()
	ctx := context.Background()

	volunteer, err := userDAO.Insert(ctx, dao.User{Email: "vol@example.com", Password: "x", Name: "Ana", Role: "volunteer"})
	require.NoError(t, err)

	campaign, err := d.CreateCampaign(ctx, dao.Campaign{
		Name:           "Rifa navideña",
		TicketPrice:    decimal.RequireFromString("10.00"),
		RunningRevenue: decimal.Zero,
		Active:         true,
	})
	require.NoError(t, err)

	book, err := d.CreateTicketBook(ctx, dao.TicketBook{
		CampaignID:       campaign.ID,
		Code:             "T-001",
		TotalTickets:     remaining,
		RemainingTickets: remaining,
		Active:           true,
	})
	require.NoError(t, err)

	request, err := d.CreateTicketBookRequest(ctx, dao.TicketBookRequest{
		TicketBookID: book.ID,
		VolunteerID:  volunteer.ID,
		RequestedAt:  time.Now(),
		Active:       true,
	})
	require.NoError(t, err)

	return fixture{campaign: campaign, book: book, request: request}
}

func TestAdjustRemainingTickets(t *testing.T) {
	db := daotest.NewDB(t)
	d := dao.NewRaffleDAO(db)
	f := seed(t, d, dao.NewUserDAO(db), 10)
	ctx := context.Background()

	remaining, err := d.AdjustRemainingTickets(ctx, f.book.ID, 4)
	require.NoError(t, err)
	assert.Equal(t, 6, remaining)

	remaining, err = d.AdjustRemainingTickets(ctx, f.book.ID, 7)
	require.Error(t, err)
	assert.True(t, errors.Is(err, dao.ErrInsufficientTickets))
	assert.Equal(t, 6, remaining)

	var insufficient *dao.InsufficientTicketsError
	require.True(t, errors.As(err, &insufficient))
	assert.Equal(t, 6, insufficient.Remaining)
	assert.Equal(t, 7, insufficient.Requested)

	remaining, err = d.AdjustRemainingTickets(ctx, f.book.ID, -2)
	require.NoError(t, err)
	assert.Equal(t, 8, remaining)

	_, err = d.AdjustRemainingTickets(ctx, 999, 1)
	assert.ErrorIs(t, err, dao.ErrTicketBookNotFound)
}

func TestAdjustCampaignRevenue(t *testing.T) {
	db := daotest.NewDB(t)
	d := dao.NewRaffleDAO(db)
	f := seed(t, d, dao.NewUserDAO(db), 10)
	ctx := context.Background()

	revenue, err := d.AdjustCampaignRevenue(ctx, f.campaign.ID, decimal.RequireFromString("50.00"))
	require.NoError(t, err)
	assert.True(t, revenue.Equal(decimal.RequireFromString("50")), revenue.String())

	revenue, err = d.AdjustCampaignRevenue(ctx, f.campaign.ID, decimal.RequireFromString("-20.00"))
	require.NoError(t, err)
	assert.True(t, revenue.Equal(decimal.RequireFromString("30")), revenue.String())

	_, err = d.AdjustCampaignRevenue(ctx, 999, decimal.NewFromInt(1))
	assert.ErrorIs(t, err, dao.ErrCampaignNotFound)
}

func TestTransactionRollsBack(t *testing.T) {
	db := daotest.NewDB(t)
	d := dao.NewRaffleDAO(db)
	f := seed(t, d, dao.NewUserDAO(db), 10)
	ctx := context.Background()

	boom := errors.New("boom")
	err := d.Transaction(ctx, func(ctx context.Context) error {
		if _, err := d.AdjustRemainingTickets(ctx, f.book.ID, 5); err != nil {
			return err
		}
		if _, err := d.AdjustCampaignRevenue(ctx, f.campaign.ID, decimal.NewFromInt(50)); err != nil {
			return err
		}
		return boom
	})
	require.ErrorIs(t, err, boom)

	book, err := d.GetTicketBookByID(ctx, f.book.ID)
	require.NoError(t, err)
	assert.Equal(t, 10, book.RemainingTickets)

	campaign, err := d.GetCampaignByID(ctx, f.campaign.ID)
	require.NoError(t, err)
	assert.True(t, campaign.RunningRevenue.IsZero(), campaign.RunningRevenue.String())
}

func TestFindSellableTicketBook(t *testing.T) {
	db := daotest.NewDB(t)
	d := dao.NewRaffleDAO(db)
	f := seed(t, d, dao.NewUserDAO(db), 10)
	ctx := context.Background()

	book, err := d.FindSellableTicketBook(ctx, f.book.ID)
	require.NoError(t, err)
	assert.Equal(t, f.campaign.ID, book.Campaign.ID)
	require.Len(t, book.Requests, 1)
	assert.Equal(t, f.request.ID, book.Requests[0].ID)

	require.NoError(t, d.DeactivateTicketBookRequest(ctx, f.request.ID))

	_, err = d.FindSellableTicketBook(ctx, f.book.ID)
	assert.ErrorIs(t, err, dao.ErrTicketBookNotFound)
}

func TestCreateTicketBookRequestRejectsSecondActiveRequest(t *testing.T) {
	db := daotest.NewDB(t)
	d := dao.NewRaffleDAO(db)
	userDAO := dao.NewUserDAO(db)
	f := seed(t, d, userDAO, 10)
	ctx := context.Background()

	_, err := d.CreateTicketBookRequest(ctx, dao.TicketBookRequest{
		TicketBookID: f.book.ID,
		VolunteerID:  f.request.VolunteerID,
		RequestedAt:  time.Now(),
		Active:       true,
	})
	assert.ErrorIs(t, err, dao.ErrTicketBookRequestFound)

	require.NoError(t, d.DeactivateTicketBookRequest(ctx, f.request.ID))

	next, err := d.CreateTicketBookRequest(ctx, dao.TicketBookRequest{
		TicketBookID: f.book.ID,
		VolunteerID:  f.request.VolunteerID,
		RequestedAt:  time.Now(),
		Active:       true,
	})
	require.NoError(t, err)
	assert.NotEqual(t, f.request.ID, next.ID)
}

func TestSumActiveSales(t *testing.T) {
	db := daotest.NewDB(t)
	d := dao.NewRaffleDAO(db)
	f := seed(t, d, dao.NewUserDAO(db), 10)
	ctx := context.Background()

	total, err := d.SumActiveSales(ctx, f.campaign.ID)
	require.NoError(t, err)
	assert.True(t, total.IsZero())

	for _, subtotal := range []string{"30.00", "20.00"} {
		_, err := d.CreateRaffleSale(ctx, dao.RaffleSale{
			TicketBookRequestID: f.request.ID,
			TicketsSold:         1,
			Subtotal:            decimal.RequireFromString(subtotal),
			Active:              true,
		})
		require.NoError(t, err)
	}
	inactive, err := d.CreateRaffleSale(ctx, dao.RaffleSale{
		TicketBookRequestID: f.request.ID,
		TicketsSold:         1,
		Subtotal:            decimal.RequireFromString("10.00"),
		Active:              true,
	})
	require.NoError(t, err)
	require.NoError(t, d.DeactivateRaffleSale(ctx, inactive.ID, 1))

	total, err = d.SumActiveSales(ctx, f.campaign.ID)
	require.NoError(t, err)
	assert.True(t, total.Equal(decimal.NewFromInt(50)), total.String())
}

func TestPaymentMethodsAreSeeded(t *testing.T) {
	db := daotest.NewDB(t)
	d := dao.NewRaffleDAO(db)

	methods, err := d.GetPaymentMethods(context.Background())
	require.NoError(t, err)
	require.Len(t, methods, len(dao.DefaultPaymentMethods))

	byID := make(map[uint]dao.PaymentMethod, len(methods))
	for _, m := range methods {
		byID[m.ID] = m
	}
	assert.True(t, byID[1].RequiresEvidence)
	assert.False(t, byID[3].RequiresEvidence)
	assert.True(t, byID[4].RequiresEvidence)
}

func TestSaleWritesRequireExpectedState(t *testing.T) {
	db := daotest.NewDB(t)
	d := dao.NewRaffleDAO(db)
	f := seed(t, d, dao.NewUserDAO(db), 10)
	ctx := context.Background()

	sale, err := d.CreateRaffleSale(ctx, dao.RaffleSale{
		TicketBookRequestID: f.request.ID,
		TicketsSold:         3,
		Subtotal:            decimal.RequireFromString("30.00"),
		Active:              true,
	})
	require.NoError(t, err)

	err = d.UpdateRaffleSale(ctx, sale.ID, 2, 4, decimal.RequireFromString("40.00"))
	assert.ErrorIs(t, err, dao.ErrSaleConflict)

	require.NoError(t, d.UpdateRaffleSale(ctx, sale.ID, 3, 4, decimal.RequireFromString("40.00")))

	err = d.DeactivateRaffleSale(ctx, sale.ID, 3)
	assert.ErrorIs(t, err, dao.ErrSaleConflict)

	require.NoError(t, d.DeactivateRaffleSale(ctx, sale.ID, 4))

	err = d.UpdateRaffleSale(ctx, sale.ID, 4, 5, decimal.RequireFromString("50.00"))
	assert.ErrorIs(t, err, dao.ErrSaleConflict)

	stored, err := d.GetRaffleSaleByID(ctx, sale.ID)
	require.NoError(t, err)
	assert.False(t, stored.Active)
	assert.Equal(t, 4, stored.TicketsSold)
}
