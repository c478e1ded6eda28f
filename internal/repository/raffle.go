package repository

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/recaudacion/rifas-api/internal/domain"
	"github.com/recaudacion/rifas-api/internal/repository/dao"
)

var (
	ErrCampaignNotFound       = dao.ErrCampaignNotFound
	ErrTicketBookNotFound     = dao.ErrTicketBookNotFound
	ErrTicketBookRequestFound = dao.ErrTicketBookRequestFound
	ErrRequestNotFound        = dao.ErrRequestNotFound
	ErrSaleNotFound           = dao.ErrSaleNotFound
	ErrSaleStillActive        = dao.ErrSaleStillActive
	ErrSaleConflict           = dao.ErrSaleConflict
	ErrInsufficientTickets    = dao.ErrInsufficientTickets
	ErrPaymentMethodNotFound  = dao.ErrPaymentMethodNotFound
)

type InsufficientTicketsError = dao.InsufficientTicketsError

type RaffleDAO interface {
	Transaction(ctx context.Context, fn func(ctx context.Context) error) error
	CreateCampaign(ctx context.Context, campaign dao.Campaign) (dao.Campaign, error)
	GetCampaigns(ctx context.Context) ([]dao.Campaign, error)
	GetCampaignByID(ctx context.Context, id uint) (dao.Campaign, error)
	LockCampaign(ctx context.Context, id uint) (dao.Campaign, error)
	AdjustCampaignRevenue(ctx context.Context, campaignID uint, delta decimal.Decimal) (decimal.Decimal, error)
	SetCampaignRevenue(ctx context.Context, campaignID uint, revenue decimal.Decimal) error
	SumActiveSales(ctx context.Context, campaignID uint) (decimal.Decimal, error)
	CreateTicketBook(ctx context.Context, book dao.TicketBook) (dao.TicketBook, error)
	GetTicketBookByID(ctx context.Context, id uint) (dao.TicketBook, error)
	GetTicketBooksByCampaignID(ctx context.Context, campaignID uint) ([]dao.TicketBook, error)
	FindSellableTicketBook(ctx context.Context, ticketBookID uint) (dao.TicketBook, error)
	AdjustRemainingTickets(ctx context.Context, ticketBookID uint, delta int) (int, error)
	CreateTicketBookRequest(ctx context.Context, request dao.TicketBookRequest) (dao.TicketBookRequest, error)
	GetTicketBookRequestByID(ctx context.Context, id uint) (dao.TicketBookRequest, error)
	DeactivateTicketBookRequest(ctx context.Context, id uint) error
	CreateRaffleSale(ctx context.Context, sale dao.RaffleSale) (dao.RaffleSale, error)
	GetRaffleSaleByID(ctx context.Context, id uint) (dao.RaffleSale, error)
	UpdateRaffleSale(ctx context.Context, id uint, expectedTickets, ticketsSold int, subtotal decimal.Decimal) error
	DeactivateRaffleSale(ctx context.Context, id uint, expectedTickets int) error
	DeleteRaffleSale(ctx context.Context, id uint) error
	CreateRaffleSalePayments(ctx context.Context, payments []dao.RaffleSalePayment) ([]dao.RaffleSalePayment, error)
	DeleteRaffleSalePayments(ctx context.Context, saleID uint) error
	GetPaymentMethods(ctx context.Context) ([]dao.PaymentMethod, error)
	GetPaymentMethodsByIDs(ctx context.Context, ids []uint) ([]dao.PaymentMethod, error)
	GetSaleReport(ctx context.Context, filter dao.SaleReportFilter) ([]dao.RaffleSale, error)
}

type RaffleRepository struct {
	dao RaffleDAO
}

func NewRaffleRepository(dao RaffleDAO) *RaffleRepository {
	return &RaffleRepository{
		dao: dao,
	}
}

// Transaction runs fn in one unit of work. Repository calls made with the
// context passed to fn take part in it.
func (r *RaffleRepository) Transaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return r.dao.Transaction(ctx, fn)
}

func (r *RaffleRepository) CreateCampaign(ctx context.Context, campaign domain.Campaign) (domain.Campaign, error) {
	created, err := r.dao.CreateCampaign(ctx, r.campaignDomainToDao(campaign))
	if err != nil {
		return domain.Campaign{}, fmt.Errorf("r.dao.CreateCampaign -> %w", err)
	}
	return r.campaignDaoToDomain(created), nil
}

func (r *RaffleRepository) GetCampaigns(ctx context.Context) ([]domain.Campaign, error) {
	campaigns, err := r.dao.GetCampaigns(ctx)
	if err != nil {
		return nil, fmt.Errorf("r.dao.GetCampaigns -> %w", err)
	}

	result := make([]domain.Campaign, len(campaigns))
	for i, c := range campaigns {
		result[i] = r.campaignDaoToDomain(c)
	}
	return result, nil
}

func (r *RaffleRepository) GetCampaignByID(ctx context.Context, id uint) (domain.Campaign, error) {
	campaign, err := r.dao.GetCampaignByID(ctx, id)
	if err != nil {
		return domain.Campaign{}, fmt.Errorf("r.dao.GetCampaignByID -> %w", err)
	}
	return r.campaignDaoToDomain(campaign), nil
}

// LockCampaign must run inside Transaction for the lock to outlive the read.
func (r *RaffleRepository) LockCampaign(ctx context.Context, id uint) (domain.Campaign, error) {
	campaign, err := r.dao.LockCampaign(ctx, id)
	if err != nil {
		return domain.Campaign{}, fmt.Errorf("r.dao.LockCampaign -> %w", err)
	}
	return r.campaignDaoToDomain(campaign), nil
}

func (r *RaffleRepository) AdjustCampaignRevenue(ctx context.Context, campaignID uint, delta decimal.Decimal) (decimal.Decimal, error) {
	revenue, err := r.dao.AdjustCampaignRevenue(ctx, campaignID, delta)
	if err != nil {
		return decimal.Zero, fmt.Errorf("r.dao.AdjustCampaignRevenue -> %w", err)
	}
	return revenue, nil
}

func (r *RaffleRepository) SetCampaignRevenue(ctx context.Context, campaignID uint, revenue decimal.Decimal) error {
	if err := r.dao.SetCampaignRevenue(ctx, campaignID, revenue); err != nil {
		return fmt.Errorf("r.dao.SetCampaignRevenue -> %w", err)
	}
	return nil
}

func (r *RaffleRepository) SumActiveSales(ctx context.Context, campaignID uint) (decimal.Decimal, error) {
	total, err := r.dao.SumActiveSales(ctx, campaignID)
	if err != nil {
		return decimal.Zero, fmt.Errorf("r.dao.SumActiveSales -> %w", err)
	}
	return total, nil
}

func (r *RaffleRepository) CreateTicketBook(ctx context.Context, book domain.TicketBook) (domain.TicketBook, error) {
	created, err := r.dao.CreateTicketBook(ctx, r.ticketBookDomainToDao(book))
	if err != nil {
		return domain.TicketBook{}, fmt.Errorf("r.dao.CreateTicketBook -> %w", err)
	}
	return r.ticketBookDaoToDomain(created), nil
}

func (r *RaffleRepository) GetTicketBookByID(ctx context.Context, id uint) (domain.TicketBook, error) {
	book, err := r.dao.GetTicketBookByID(ctx, id)
	if err != nil {
		return domain.TicketBook{}, fmt.Errorf("r.dao.GetTicketBookByID -> %w", err)
	}
	return r.ticketBookDaoToDomain(book), nil
}

func (r *RaffleRepository) GetTicketBooksByCampaignID(ctx context.Context, campaignID uint) ([]domain.TicketBook, error) {
	books, err := r.dao.GetTicketBooksByCampaignID(ctx, campaignID)
	if err != nil {
		return nil, fmt.Errorf("r.dao.GetTicketBooksByCampaignID -> %w", err)
	}
	return r.ticketBooksDaoToDomain(books), nil
}

// FindSaleContext resolves a ticket book to its campaign and active request.
func (r *RaffleRepository) FindSaleContext(ctx context.Context, ticketBookID uint) (domain.SaleContext, error) {
	book, err := r.dao.FindSellableTicketBook(ctx, ticketBookID)
	if err != nil {
		return domain.SaleContext{}, fmt.Errorf("r.dao.FindSellableTicketBook -> %w", err)
	}

	return domain.SaleContext{
		Campaign:   r.campaignDaoToDomain(book.Campaign),
		TicketBook: r.ticketBookDaoToDomain(book),
		Request:    r.requestDaoToDomain(book.Requests[0]),
	}, nil
}

func (r *RaffleRepository) AdjustRemainingTickets(ctx context.Context, ticketBookID uint, delta int) (int, error) {
	remaining, err := r.dao.AdjustRemainingTickets(ctx, ticketBookID, delta)
	if err != nil {
		return remaining, fmt.Errorf("r.dao.AdjustRemainingTickets -> %w", err)
	}
	return remaining, nil
}

func (r *RaffleRepository) CreateTicketBookRequest(ctx context.Context, request domain.TicketBookRequest) (domain.TicketBookRequest, error) {
	created, err := r.dao.CreateTicketBookRequest(ctx, dao.TicketBookRequest{
		TicketBookID: request.TicketBookID,
		VolunteerID:  request.VolunteerID,
		RequestedAt:  request.RequestedAt,
		Active:       request.Active,
	})
	if err != nil {
		return domain.TicketBookRequest{}, fmt.Errorf("r.dao.CreateTicketBookRequest -> %w", err)
	}
	return r.requestDaoToDomain(created), nil
}

func (r *RaffleRepository) GetTicketBookRequestByID(ctx context.Context, id uint) (domain.TicketBookRequest, error) {
	request, err := r.dao.GetTicketBookRequestByID(ctx, id)
	if err != nil {
		return domain.TicketBookRequest{}, fmt.Errorf("r.dao.GetTicketBookRequestByID -> %w", err)
	}
	return r.requestDaoToDomain(request), nil
}

func (r *RaffleRepository) DeactivateTicketBookRequest(ctx context.Context, id uint) error {
	if err := r.dao.DeactivateTicketBookRequest(ctx, id); err != nil {
		return fmt.Errorf("r.dao.DeactivateTicketBookRequest -> %w", err)
	}
	return nil
}

func (r *RaffleRepository) CreateSale(ctx context.Context, sale domain.RaffleSale) (domain.RaffleSale, error) {
	created, err := r.dao.CreateRaffleSale(ctx, dao.RaffleSale{
		TicketBookRequestID: sale.TicketBookRequestID,
		TicketsSold:         sale.TicketsSold,
		Subtotal:            sale.Subtotal,
		Active:              sale.Active,
	})
	if err != nil {
		return domain.RaffleSale{}, fmt.Errorf("r.dao.CreateRaffleSale -> %w", err)
	}
	return r.saleDaoToDomain(created), nil
}

// GetSaleWithContext loads a sale and the campaign, ticket book and request
// it was sold from.
func (r *RaffleRepository) GetSaleWithContext(ctx context.Context, saleID uint) (domain.RaffleSale, domain.SaleContext, error) {
	sale, err := r.dao.GetRaffleSaleByID(ctx, saleID)
	if err != nil {
		return domain.RaffleSale{}, domain.SaleContext{}, fmt.Errorf("r.dao.GetRaffleSaleByID -> %w", err)
	}

	request := sale.TicketBookRequest
	saleCtx := domain.SaleContext{
		Campaign:   r.campaignDaoToDomain(request.TicketBook.Campaign),
		TicketBook: r.ticketBookDaoToDomain(request.TicketBook),
		Request:    r.requestDaoToDomain(request),
	}

	return r.saleDaoToDomain(sale), saleCtx, nil
}

// UpdateSaleTotals only applies while the stored sale still sells expectedTickets.
func (r *RaffleRepository) UpdateSaleTotals(ctx context.Context, saleID uint, expectedTickets, ticketsSold int, subtotal decimal.Decimal) error {
	if err := r.dao.UpdateRaffleSale(ctx, saleID, expectedTickets, ticketsSold, subtotal); err != nil {
		return fmt.Errorf("r.dao.UpdateRaffleSale -> %w", err)
	}
	return nil
}

func (r *RaffleRepository) DeactivateSale(ctx context.Context, saleID uint, expectedTickets int) error {
	if err := r.dao.DeactivateRaffleSale(ctx, saleID, expectedTickets); err != nil {
		return fmt.Errorf("r.dao.DeactivateRaffleSale -> %w", err)
	}
	return nil
}

func (r *RaffleRepository) DeleteSale(ctx context.Context, saleID uint) error {
	if err := r.dao.DeleteRaffleSale(ctx, saleID); err != nil {
		return fmt.Errorf("r.dao.DeleteRaffleSale -> %w", err)
	}
	return nil
}

func (r *RaffleRepository) CreatePayments(ctx context.Context, saleID uint, payments []domain.Payment) ([]domain.Payment, error) {
	daoPayments := make([]dao.RaffleSalePayment, len(payments))
	for i, p := range payments {
		daoPayments[i] = r.paymentDomainToDao(p)
		daoPayments[i].RaffleSaleID = saleID
	}

	created, err := r.dao.CreateRaffleSalePayments(ctx, daoPayments)
	if err != nil {
		return nil, fmt.Errorf("r.dao.CreateRaffleSalePayments -> %w", err)
	}
	return r.paymentsDaoToDomain(created), nil
}

// ReplacePayments deletes every payment of the sale and stores payments instead.
func (r *RaffleRepository) ReplacePayments(ctx context.Context, saleID uint, payments []domain.Payment) ([]domain.Payment, error) {
	if err := r.dao.DeleteRaffleSalePayments(ctx, saleID); err != nil {
		return nil, fmt.Errorf("r.dao.DeleteRaffleSalePayments -> %w", err)
	}
	return r.CreatePayments(ctx, saleID, payments)
}

func (r *RaffleRepository) GetPaymentMethods(ctx context.Context) ([]domain.PaymentMethod, error) {
	methods, err := r.dao.GetPaymentMethods(ctx)
	if err != nil {
		return nil, fmt.Errorf("r.dao.GetPaymentMethods -> %w", err)
	}
	return r.paymentMethodsDaoToDomain(methods), nil
}

func (r *RaffleRepository) GetPaymentMethodsByIDs(ctx context.Context, ids []uint) ([]domain.PaymentMethod, error) {
	methods, err := r.dao.GetPaymentMethodsByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("r.dao.GetPaymentMethodsByIDs -> %w", err)
	}
	return r.paymentMethodsDaoToDomain(methods), nil
}

func (r *RaffleRepository) GetSaleReport(ctx context.Context, filter domain.SaleReportFilter) ([]domain.SaleReportRow, error) {
	sales, err := r.dao.GetSaleReport(ctx, dao.SaleReportFilter{
		CampaignID:  filter.CampaignID,
		VolunteerID: filter.VolunteerID,
	})
	if err != nil {
		return nil, fmt.Errorf("r.dao.GetSaleReport -> %w", err)
	}

	rows := make([]domain.SaleReportRow, len(sales))
	for i, sale := range sales {
		rows[i] = r.saleDaoToReportRow(sale)
	}
	return rows, nil
}
