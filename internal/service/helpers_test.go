package service_test

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/recaudacion/rifas-api/internal/domain"
	"github.com/recaudacion/rifas-api/internal/metrics"
	"github.com/recaudacion/rifas-api/internal/repository"
	"github.com/recaudacion/rifas-api/internal/repository/dao"
	"github.com/recaudacion/rifas-api/internal/repository/dao/daotest"
	"github.com/recaudacion/rifas-api/internal/service"
)

const (
	methodDeposit  uint = 1
	methodTransfer uint = 2
	methodCash     uint = 3
	methodCheck    uint = 4
)

type recordingPublisher struct {
	mu     sync.Mutex
	events []domain.SaleEvent
}

func (p *recordingPublisher) Publish(event domain.SaleEvent) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
}

func (p *recordingPublisher) Events() []domain.SaleEvent {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]domain.SaleEvent(nil), p.events...)
}

type env struct {
	raffleDAO  *dao.RaffleDAO
	userDAO    *dao.UserDAO
	raffleRepo *repository.RaffleRepository
	userRepo   *repository.UserRepository
	sales      *service.RaffleSaleService
	raffles    *service.RaffleService
	publisher  *recordingPublisher
	volunteer  domain.User
	campaign   domain.Campaign
	book       domain.TicketBook
}

func newEnv(t *testing.T, remaining int) *env {
	t.Helper()
	ctx := context.Background()

	db := daotest.NewDB(t)
	e := &env{
		raffleDAO: dao.NewRaffleDAO(db),
		userDAO:   dao.NewUserDAO(db),
		publisher: &recordingPublisher{},
	}
	e.raffleRepo = repository.NewRaffleRepository(e.raffleDAO)
	e.userRepo = repository.NewUserRepository(e.userDAO)
	e.sales = service.NewRaffleSaleService(e.raffleRepo, e.publisher, metrics.NewSaleMetrics(nil))
	e.raffles = service.NewRaffleService(e.raffleRepo, e.userRepo)

	var err error
	e.volunteer, err = e.userRepo.Create(ctx, domain.User{
		Email:    "voluntario@example.com",
		Password: "hash",
		Name:     "Ana López",
		Role:     domain.RoleVolunteer,
	})
	require.NoError(t, err)

	e.campaign, err = e.raffles.CreateCampaign(ctx, domain.Campaign{
		Name:        "Rifa pro fondos",
		TicketPrice: decimal.RequireFromString("10.00"),
	})
	require.NoError(t, err)

	e.book = e.newBook(t, remaining)

	return e
}

// newBook creates a ticket book in the env campaign assigned to the volunteer.
func (e *env) newBook(t *testing.T, remaining int) domain.TicketBook {
	t.Helper()
	ctx := context.Background()

	books, err := e.raffles.ListTicketBooks(ctx, e.campaign.ID)
	require.NoError(t, err)

	book, err := e.raffles.CreateTicketBook(ctx, e.campaign.ID, fmt.Sprintf("T-%03d", len(books)+1), remaining)
	require.NoError(t, err)

	_, err = e.raffles.RequestTicketBook(ctx, book.ID, e.volunteer.ID)
	require.NoError(t, err)

	return book
}

func (e *env) remaining(t *testing.T, bookID uint) int {
	t.Helper()
	book, err := e.raffleRepo.GetTicketBookByID(context.Background(), bookID)
	require.NoError(t, err)
	return book.RemainingTickets
}

func (e *env) revenue(t *testing.T) decimal.Decimal {
	t.Helper()
	campaign, err := e.raffleRepo.GetCampaignByID(context.Background(), e.campaign.ID)
	require.NoError(t, err)
	return campaign.RunningRevenue
}

func (e *env) activeSales(t *testing.T) []domain.SaleReportRow {
	t.Helper()
	rows, err := e.raffleRepo.GetSaleReport(context.Background(), domain.SaleReportFilter{CampaignID: e.campaign.ID})
	require.NoError(t, err)
	return rows
}

func cash(amount string) domain.Payment {
	return domain.Payment{PaymentMethodID: methodCash, Amount: decimal.RequireFromString(amount)}
}

func transfer(amount, code, proof string) domain.Payment {
	return domain.Payment{
		PaymentMethodID: methodTransfer,
		Amount:          decimal.RequireFromString(amount),
		CorrelationCode: code,
		TransferProof:   proof,
	}
}

func money(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}
