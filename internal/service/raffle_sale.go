package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/recaudacion/rifas-api/internal/domain"
	"github.com/recaudacion/rifas-api/internal/metrics"
	"github.com/recaudacion/rifas-api/internal/repository"
)

var (
	ErrTicketBookNotFound = repository.ErrTicketBookNotFound
	ErrSaleNotFound       = repository.ErrSaleNotFound
	ErrSaleStillActive    = repository.ErrSaleStillActive
	ErrSaleConflict       = repository.ErrSaleConflict
)

const (
	opCreate     = "create"
	opUpdate     = "update"
	opDeactivate = "deactivate"
	opPurge      = "purge"
)

type RaffleSaleRepository interface {
	LedgerRepository
	Transaction(ctx context.Context, fn func(ctx context.Context) error) error
	FindSaleContext(ctx context.Context, ticketBookID uint) (domain.SaleContext, error)
	GetSaleWithContext(ctx context.Context, saleID uint) (domain.RaffleSale, domain.SaleContext, error)
	CreateSale(ctx context.Context, sale domain.RaffleSale) (domain.RaffleSale, error)
	UpdateSaleTotals(ctx context.Context, saleID uint, expectedTickets, ticketsSold int, subtotal decimal.Decimal) error
	DeactivateSale(ctx context.Context, saleID uint, expectedTickets int) error
	DeleteSale(ctx context.Context, saleID uint) error
	CreatePayments(ctx context.Context, saleID uint, payments []domain.Payment) ([]domain.Payment, error)
	ReplacePayments(ctx context.Context, saleID uint, payments []domain.Payment) ([]domain.Payment, error)
	GetPaymentMethodsByIDs(ctx context.Context, ids []uint) ([]domain.PaymentMethod, error)
}

// SaleEventPublisher is told about every sale transaction once it has committed.
type SaleEventPublisher interface {
	Publish(event domain.SaleEvent)
}

type RaffleSaleService struct {
	repo      RaffleSaleRepository
	ledger    *InventoryLedger
	aggregate *CampaignAggregate
	allocator *PaymentAllocator
	publisher SaleEventPublisher
	metrics   *metrics.SaleMetrics
	now       func() time.Time
}

func NewRaffleSaleService(repo RaffleSaleRepository, publisher SaleEventPublisher, m *metrics.SaleMetrics) *RaffleSaleService {
	return &RaffleSaleService{
		repo:      repo,
		ledger:    NewInventoryLedger(repo),
		aggregate: NewCampaignAggregate(repo),
		allocator: NewPaymentAllocator(),
		publisher: publisher,
		metrics:   m,
		now:       time.Now,
	}
}

// Create records a sale of ticketsSold tickets from a ticket book. The sale,
// the inventory reservation, the revenue credit and the payments are written
// in one transaction.
func (s *RaffleSaleService) Create(ctx context.Context, ticketBookID uint, ticketsSold int, payments []domain.Payment) (domain.RaffleSale, error) {
	if ticketsSold < 1 {
		return domain.RaffleSale{}, ErrInvalidQuantity
	}

	saleCtx, err := s.repo.FindSaleContext(ctx, ticketBookID)
	if err != nil {
		return domain.RaffleSale{}, fmt.Errorf("s.repo.FindSaleContext -> %w", err)
	}

	book := saleCtx.TicketBook
	if book.RemainingTickets < ticketsSold {
		return domain.RaffleSale{}, &InsufficientTicketsError{
			TicketBookID: book.ID,
			Remaining:    book.RemainingTickets,
			Requested:    ticketsSold,
		}
	}

	subtotal := saleCtx.Campaign.Subtotal(ticketsSold)
	normalized, err := s.validatePayments(ctx, payments, subtotal)
	if err != nil {
		return domain.RaffleSale{}, err
	}

	var (
		sale      domain.RaffleSale
		remaining int
		revenue   decimal.Decimal
	)
	err = s.repo.Transaction(ctx, func(ctx context.Context) error {
		var err error
		sale, err = s.repo.CreateSale(ctx, domain.RaffleSale{
			TicketBookRequestID: saleCtx.Request.ID,
			TicketsSold:         ticketsSold,
			Subtotal:            subtotal,
			Active:              true,
		})
		if err != nil {
			return fmt.Errorf("s.repo.CreateSale -> %w", err)
		}

		if remaining, err = s.ledger.Reserve(ctx, book.ID, ticketsSold); err != nil {
			return fmt.Errorf("s.ledger.Reserve -> %w", err)
		}

		if revenue, err = s.aggregate.Credit(ctx, saleCtx.Campaign.ID, subtotal); err != nil {
			return fmt.Errorf("s.aggregate.Credit -> %w", err)
		}

		if sale.Payments, err = s.repo.CreatePayments(ctx, sale.ID, normalized); err != nil {
			return fmt.Errorf("s.repo.CreatePayments -> %w", err)
		}

		return nil
	})
	if err != nil {
		s.rolledBack(opCreate, err, zap.Uint("ticket_book_id", ticketBookID))
		return domain.RaffleSale{}, fmt.Errorf("s.repo.Transaction -> %w", err)
	}

	s.committed(domain.SaleCreated, opCreate, saleCtx, sale, remaining, revenue)

	return sale, nil
}

// Update replaces the quantity and the payment set of an active sale. The
// inventory and the campaign revenue move by the difference to the stored sale.
func (s *RaffleSaleService) Update(ctx context.Context, saleID uint, ticketsSold int, payments []domain.Payment) (domain.RaffleSale, error) {
	if ticketsSold < 1 {
		return domain.RaffleSale{}, ErrInvalidQuantity
	}

	sale, saleCtx, err := s.activeSale(ctx, saleID)
	if err != nil {
		return domain.RaffleSale{}, err
	}

	subtotal := saleCtx.Campaign.Subtotal(ticketsSold)
	revenueDelta := subtotal.Sub(sale.Subtotal)
	ticketDelta := ticketsSold - sale.TicketsSold

	book := saleCtx.TicketBook
	if book.RemainingTickets-ticketDelta < 0 {
		return domain.RaffleSale{}, &InsufficientTicketsError{
			TicketBookID: book.ID,
			Remaining:    book.RemainingTickets,
			Requested:    ticketDelta,
		}
	}

	normalized, err := s.validatePayments(ctx, payments, subtotal)
	if err != nil {
		return domain.RaffleSale{}, err
	}

	var (
		remaining int
		revenue   decimal.Decimal
	)
	err = s.repo.Transaction(ctx, func(ctx context.Context) error {
		// The deltas were computed from sale as read above. The guarded write
		// goes first so a sale changed in between aborts the unit of work.
		var err error
		if err = s.repo.UpdateSaleTotals(ctx, sale.ID, sale.TicketsSold, ticketsSold, subtotal); err != nil {
			return fmt.Errorf("s.repo.UpdateSaleTotals -> %w", err)
		}

		if revenue, err = s.aggregate.Adjust(ctx, saleCtx.Campaign.ID, revenueDelta); err != nil {
			return fmt.Errorf("s.aggregate.Adjust -> %w", err)
		}

		if remaining, err = s.ledger.Adjust(ctx, book.ID, ticketDelta); err != nil {
			return fmt.Errorf("s.ledger.Adjust -> %w", err)
		}

		if sale.Payments, err = s.repo.ReplacePayments(ctx, sale.ID, normalized); err != nil {
			return fmt.Errorf("s.repo.ReplacePayments -> %w", err)
		}

		return nil
	})
	if err != nil {
		s.rolledBack(opUpdate, err, zap.Uint("sale_id", saleID))
		return domain.RaffleSale{}, fmt.Errorf("s.repo.Transaction -> %w", err)
	}

	sale.TicketsSold = ticketsSold
	sale.Subtotal = subtotal
	sale.UpdatedAt = s.now()

	s.committed(domain.SaleUpdated, opUpdate, saleCtx, sale, remaining, revenue)

	return sale, nil
}

func (s *RaffleSaleService) Get(ctx context.Context, saleID uint) (domain.RaffleSale, error) {
	sale, _, err := s.repo.GetSaleWithContext(ctx, saleID)
	if err != nil {
		return domain.RaffleSale{}, fmt.Errorf("s.repo.GetSaleWithContext -> %w", err)
	}
	return sale, nil
}

// Deactivate soft deletes a sale. Its tickets go back to the book and its
// subtotal comes off the campaign revenue.
func (s *RaffleSaleService) Deactivate(ctx context.Context, saleID uint) (domain.RaffleSale, error) {
	sale, saleCtx, err := s.activeSale(ctx, saleID)
	if err != nil {
		return domain.RaffleSale{}, err
	}

	var (
		remaining int
		revenue   decimal.Decimal
	)
	err = s.repo.Transaction(ctx, func(ctx context.Context) error {
		var err error
		if err = s.repo.DeactivateSale(ctx, sale.ID, sale.TicketsSold); err != nil {
			return fmt.Errorf("s.repo.DeactivateSale -> %w", err)
		}

		if remaining, err = s.ledger.Adjust(ctx, saleCtx.TicketBook.ID, -sale.TicketsSold); err != nil {
			return fmt.Errorf("s.ledger.Adjust -> %w", err)
		}

		if revenue, err = s.aggregate.Adjust(ctx, saleCtx.Campaign.ID, sale.Subtotal.Neg()); err != nil {
			return fmt.Errorf("s.aggregate.Adjust -> %w", err)
		}

		return nil
	})
	if err != nil {
		s.rolledBack(opDeactivate, err, zap.Uint("sale_id", saleID))
		return domain.RaffleSale{}, fmt.Errorf("s.repo.Transaction -> %w", err)
	}

	sale.Active = false
	for i := range sale.Payments {
		sale.Payments[i].Active = false
	}

	s.committed(domain.SaleDeactivated, opDeactivate, saleCtx, sale, remaining, revenue)

	return sale, nil
}

// Purge physically removes a sale that has already been deactivated.
func (s *RaffleSaleService) Purge(ctx context.Context, saleID uint) error {
	sale, _, err := s.repo.GetSaleWithContext(ctx, saleID)
	if err != nil {
		return fmt.Errorf("s.repo.GetSaleWithContext -> %w", err)
	}
	if sale.Active {
		return ErrSaleStillActive
	}

	err = s.repo.Transaction(ctx, func(ctx context.Context) error {
		return s.repo.DeleteSale(ctx, sale.ID)
	})
	if err != nil {
		s.rolledBack(opPurge, err, zap.Uint("sale_id", saleID))
		return fmt.Errorf("s.repo.DeleteSale -> %w", err)
	}

	s.metrics.IncCommitted(opPurge)

	return nil
}

func (s *RaffleSaleService) activeSale(ctx context.Context, saleID uint) (domain.RaffleSale, domain.SaleContext, error) {
	sale, saleCtx, err := s.repo.GetSaleWithContext(ctx, saleID)
	if err != nil {
		return domain.RaffleSale{}, domain.SaleContext{}, fmt.Errorf("s.repo.GetSaleWithContext -> %w", err)
	}
	if !sale.Active {
		return domain.RaffleSale{}, domain.SaleContext{}, ErrSaleNotFound
	}
	return sale, saleCtx, nil
}

func (s *RaffleSaleService) validatePayments(ctx context.Context, payments []domain.Payment, subtotal decimal.Decimal) ([]domain.Payment, error) {
	methods, err := s.repo.GetPaymentMethodsByIDs(ctx, paymentMethodIDs(payments))
	if err != nil {
		return nil, fmt.Errorf("s.repo.GetPaymentMethodsByIDs -> %w", err)
	}
	return s.allocator.Validate(payments, subtotal, methods)
}

func (s *RaffleSaleService) committed(kind domain.SaleEventKind, op string, saleCtx domain.SaleContext, sale domain.RaffleSale, remaining int, revenue decimal.Decimal) {
	s.metrics.ObserveCommitted(op, sale.Subtotal)

	if s.publisher == nil {
		return
	}
	s.publisher.Publish(domain.SaleEvent{
		Kind:             kind,
		CampaignID:       saleCtx.Campaign.ID,
		TicketBookID:     saleCtx.TicketBook.ID,
		SaleID:           sale.ID,
		TicketsSold:      sale.TicketsSold,
		Subtotal:         sale.Subtotal,
		RunningRevenue:   revenue,
		RemainingTickets: remaining,
		OccurredAt:       s.now(),
	})
}

func (s *RaffleSaleService) rolledBack(op string, err error, fields ...zap.Field) {
	s.metrics.IncRolledBack(op)

	level := zap.ErrorLevel
	if errors.Is(err, ErrInsufficientTickets) {
		level = zap.WarnLevel
	}
	fields = append(fields, zap.String("operation", op), zap.Error(err))
	if ce := zap.L().Check(level, "raffle sale transaction rolled back"); ce != nil {
		ce.Write(fields...)
	}
}
