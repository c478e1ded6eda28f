package service_test

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/recaudacion/rifas-api/internal/domain"
	"github.com/recaudacion/rifas-api/internal/repository"
	"github.com/recaudacion/rifas-api/internal/service"
)

func TestCreateCampaign(t *testing.T) {
	e := newEnv(t, 10)
	ctx := context.Background()

	_, err := e.raffles.CreateCampaign(ctx, domain.Campaign{Name: "Gratis", TicketPrice: money("0")})
	assert.ErrorIs(t, err, service.ErrInvalidTicketPrice)

	created, err := e.raffles.CreateCampaign(ctx, domain.Campaign{
		Name:           "  Rifa de verano ",
		TicketPrice:    money("25"),
		RunningRevenue: money("999"),
	})
	require.NoError(t, err)
	assert.Equal(t, "Rifa de verano", created.Name)
	assert.True(t, created.RunningRevenue.IsZero())
	assert.True(t, created.Active)

	campaigns, err := e.raffles.ListCampaigns(ctx)
	require.NoError(t, err)
	assert.Len(t, campaigns, 2)

	found, err := e.raffles.GetCampaign(ctx, e.campaign.ID)
	require.NoError(t, err)
	require.Len(t, found.TicketBooks, 1)
	assert.Equal(t, e.book.ID, found.TicketBooks[0].ID)

	_, err = e.raffles.GetCampaign(ctx, 404)
	assert.ErrorIs(t, err, service.ErrCampaignNotFound)
}

func TestCreateTicketBook(t *testing.T) {
	e := newEnv(t, 10)
	ctx := context.Background()

	book, err := e.raffles.CreateTicketBook(ctx, e.campaign.ID, "T-900", 25)
	require.NoError(t, err)
	assert.Equal(t, 25, book.TotalTickets)
	assert.Equal(t, 25, book.RemainingTickets)
	assert.True(t, book.Active)

	_, err = e.raffles.CreateTicketBook(ctx, e.campaign.ID, "T-901", 0)
	assert.ErrorIs(t, err, service.ErrInvalidTicketCount)

	_, err = e.raffles.CreateTicketBook(ctx, 404, "T-902", 5)
	assert.ErrorIs(t, err, service.ErrCampaignNotFound)

	books, err := e.raffles.ListTicketBooks(ctx, e.campaign.ID)
	require.NoError(t, err)
	assert.Len(t, books, 2)
}

func TestRequestTicketBook(t *testing.T) {
	e := newEnv(t, 10)
	ctx := context.Background()

	_, err := e.raffles.RequestTicketBook(ctx, e.book.ID, e.volunteer.ID)
	assert.ErrorIs(t, err, service.ErrTicketBookRequestFound)

	admin, err := e.userRepo.Create(ctx, domain.User{Email: "admin@example.com", Password: "x", Name: "Admin", Role: domain.RoleAdmin})
	require.NoError(t, err)
	book, err := e.raffles.CreateTicketBook(ctx, e.campaign.ID, "T-050", 5)
	require.NoError(t, err)

	_, err = e.raffles.RequestTicketBook(ctx, book.ID, admin.ID)
	assert.ErrorIs(t, err, service.ErrNotVolunteer)

	_, err = e.raffles.RequestTicketBook(ctx, book.ID, 404)
	assert.ErrorIs(t, err, service.ErrUserNotFound)

	request, err := e.raffles.RequestTicketBook(ctx, book.ID, e.volunteer.ID)
	require.NoError(t, err)
	assert.True(t, request.Active)
	assert.False(t, request.RequestedAt.IsZero())

	require.NoError(t, e.raffles.ReleaseTicketBookRequest(ctx, request.ID))
	_, err = e.sales.Create(ctx, book.ID, 1, []domain.Payment{cash("10.00")})
	assert.ErrorIs(t, err, service.ErrTicketBookNotFound)

	_, err = e.raffles.RequestTicketBook(ctx, book.ID, e.volunteer.ID)
	require.NoError(t, err)

	assert.ErrorIs(t, e.raffles.ReleaseTicketBookRequest(ctx, 404), service.ErrRequestNotFound)
}

func TestListPaymentMethods(t *testing.T) {
	e := newEnv(t, 10)

	methods, err := e.raffles.ListPaymentMethods(context.Background())
	require.NoError(t, err)
	require.Len(t, methods, 4)

	evidence := map[string]bool{}
	for _, m := range methods {
		evidence[m.Name] = m.RequiresEvidence
	}
	assert.Equal(t, map[string]bool{
		"Depósito":      true,
		"Transferencia": true,
		"Efectivo":      false,
		"Cheque":        true,
	}, evidence)
}

func TestReconcileRevenueRepairsDrift(t *testing.T) {
	e := newEnv(t, 10)
	ctx := context.Background()

	_, err := e.sales.Create(ctx, e.book.ID, 3, []domain.Payment{cash("30.00")})
	require.NoError(t, err)
	require.NoError(t, e.raffleRepo.SetCampaignRevenue(ctx, e.campaign.ID, money("45")))

	check, err := e.raffles.ReconcileRevenue(ctx, e.campaign.ID, false)
	require.NoError(t, err)
	assert.False(t, check.Consistent)
	assert.Equal(t, "15.00", check.Drift.StringFixed(2))
	assert.Equal(t, "45.00", e.revenue(t).StringFixed(2))

	repaired, err := e.raffles.ReconcileRevenue(ctx, e.campaign.ID, true)
	require.NoError(t, err)
	assert.True(t, repaired.Repaired)
	assert.Equal(t, "30.00", repaired.Computed.StringFixed(2))
	assert.Equal(t, "30.00", e.revenue(t).StringFixed(2))

	_, err = e.raffles.ReconcileRevenue(ctx, 404, true)
	assert.ErrorIs(t, err, service.ErrCampaignNotFound)
}

// callRecorder logs the repository calls a reconciliation makes.
type callRecorder struct {
	*repository.RaffleRepository
	calls []string
}

func (r *callRecorder) Transaction(ctx context.Context, fn func(ctx context.Context) error) error {
	r.calls = append(r.calls, "begin")
	err := r.RaffleRepository.Transaction(ctx, fn)
	r.calls = append(r.calls, "end")
	return err
}

func (r *callRecorder) GetCampaignByID(ctx context.Context, id uint) (domain.Campaign, error) {
	r.calls = append(r.calls, "get")
	return r.RaffleRepository.GetCampaignByID(ctx, id)
}

func (r *callRecorder) LockCampaign(ctx context.Context, id uint) (domain.Campaign, error) {
	r.calls = append(r.calls, "lock")
	return r.RaffleRepository.LockCampaign(ctx, id)
}

func (r *callRecorder) SumActiveSales(ctx context.Context, campaignID uint) (decimal.Decimal, error) {
	r.calls = append(r.calls, "sum")
	return r.RaffleRepository.SumActiveSales(ctx, campaignID)
}

func (r *callRecorder) SetCampaignRevenue(ctx context.Context, campaignID uint, revenue decimal.Decimal) error {
	r.calls = append(r.calls, "set")
	return r.RaffleRepository.SetCampaignRevenue(ctx, campaignID, revenue)
}

func TestReconcileRevenueLocksCampaignBeforeSumming(t *testing.T) {
	e := newEnv(t, 10)
	ctx := context.Background()

	_, err := e.sales.Create(ctx, e.book.ID, 2, []domain.Payment{cash("20.00")})
	require.NoError(t, err)
	require.NoError(t, e.raffleRepo.SetCampaignRevenue(ctx, e.campaign.ID, money("5")))

	repo := &callRecorder{RaffleRepository: e.raffleRepo}
	raffles := service.NewRaffleService(repo, e.userRepo)

	repaired, err := raffles.ReconcileRevenue(ctx, e.campaign.ID, true)
	require.NoError(t, err)
	assert.True(t, repaired.Repaired)
	assert.Equal(t, []string{"begin", "lock", "sum", "set", "end"}, repo.calls)
	assert.Equal(t, "20.00", e.revenue(t).StringFixed(2))
}
