package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/recaudacion/rifas-api/internal/domain"
	"github.com/recaudacion/rifas-api/internal/repository"
)

var (
	ErrCampaignNotFound       = repository.ErrCampaignNotFound
	ErrTicketBookRequestFound = repository.ErrTicketBookRequestFound
	ErrRequestNotFound        = repository.ErrRequestNotFound
	ErrNotVolunteer           = errors.New("ticket books can only be assigned to volunteers")
	ErrInvalidTicketPrice     = errors.New("ticket price must be greater than zero")
	ErrInvalidTicketCount     = errors.New("ticket book must hold at least one ticket")
)

type RaffleRepository interface {
	Transaction(ctx context.Context, fn func(ctx context.Context) error) error
	CreateCampaign(ctx context.Context, campaign domain.Campaign) (domain.Campaign, error)
	GetCampaigns(ctx context.Context) ([]domain.Campaign, error)
	GetCampaignByID(ctx context.Context, id uint) (domain.Campaign, error)
	LockCampaign(ctx context.Context, id uint) (domain.Campaign, error)
	SumActiveSales(ctx context.Context, campaignID uint) (decimal.Decimal, error)
	SetCampaignRevenue(ctx context.Context, campaignID uint, revenue decimal.Decimal) error
	CreateTicketBook(ctx context.Context, book domain.TicketBook) (domain.TicketBook, error)
	GetTicketBookByID(ctx context.Context, id uint) (domain.TicketBook, error)
	GetTicketBooksByCampaignID(ctx context.Context, campaignID uint) ([]domain.TicketBook, error)
	CreateTicketBookRequest(ctx context.Context, request domain.TicketBookRequest) (domain.TicketBookRequest, error)
	GetTicketBookRequestByID(ctx context.Context, id uint) (domain.TicketBookRequest, error)
	DeactivateTicketBookRequest(ctx context.Context, id uint) error
	GetPaymentMethods(ctx context.Context) ([]domain.PaymentMethod, error)
}

// RaffleService manages campaigns, their ticket books and the requests that
// hand a ticket book to a volunteer.
type RaffleService struct {
	repo     RaffleRepository
	userRepo UserRepository
	now      func() time.Time
}

func NewRaffleService(repo RaffleRepository, userRepo UserRepository) *RaffleService {
	return &RaffleService{
		repo:     repo,
		userRepo: userRepo,
		now:      time.Now,
	}
}

func (s *RaffleService) CreateCampaign(ctx context.Context, campaign domain.Campaign) (domain.Campaign, error) {
	if !campaign.TicketPrice.IsPositive() {
		return domain.Campaign{}, ErrInvalidTicketPrice
	}

	campaign.Name = strings.TrimSpace(campaign.Name)
	campaign.TicketPrice = campaign.TicketPrice.Round(domain.MoneyScale)
	campaign.RunningRevenue = decimal.Zero
	campaign.Active = true

	created, err := s.repo.CreateCampaign(ctx, campaign)
	if err != nil {
		return domain.Campaign{}, fmt.Errorf("s.repo.CreateCampaign -> %w", err)
	}

	return created, nil
}

func (s *RaffleService) ListCampaigns(ctx context.Context) ([]domain.Campaign, error) {
	campaigns, err := s.repo.GetCampaigns(ctx)
	if err != nil {
		return nil, fmt.Errorf("s.repo.GetCampaigns -> %w", err)
	}

	return campaigns, nil
}

func (s *RaffleService) GetCampaign(ctx context.Context, id uint) (domain.Campaign, error) {
	campaign, err := s.repo.GetCampaignByID(ctx, id)
	if err != nil {
		return domain.Campaign{}, fmt.Errorf("s.repo.GetCampaignByID -> %w", err)
	}

	return campaign, nil
}

func (s *RaffleService) CreateTicketBook(ctx context.Context, campaignID uint, code string, totalTickets int) (domain.TicketBook, error) {
	if totalTickets < 1 {
		return domain.TicketBook{}, ErrInvalidTicketCount
	}

	if _, err := s.repo.GetCampaignByID(ctx, campaignID); err != nil {
		return domain.TicketBook{}, fmt.Errorf("s.repo.GetCampaignByID -> %w", err)
	}

	book, err := s.repo.CreateTicketBook(ctx, domain.TicketBook{
		CampaignID:       campaignID,
		Code:             strings.TrimSpace(code),
		TotalTickets:     totalTickets,
		RemainingTickets: totalTickets,
		Active:           true,
	})
	if err != nil {
		return domain.TicketBook{}, fmt.Errorf("s.repo.CreateTicketBook -> %w", err)
	}

	return book, nil
}

func (s *RaffleService) ListTicketBooks(ctx context.Context, campaignID uint) ([]domain.TicketBook, error) {
	if _, err := s.repo.GetCampaignByID(ctx, campaignID); err != nil {
		return nil, fmt.Errorf("s.repo.GetCampaignByID -> %w", err)
	}

	books, err := s.repo.GetTicketBooksByCampaignID(ctx, campaignID)
	if err != nil {
		return nil, fmt.Errorf("s.repo.GetTicketBooksByCampaignID -> %w", err)
	}

	return books, nil
}

// RequestTicketBook assigns a ticket book to a volunteer. A book holds at most
// one active request at a time.
func (s *RaffleService) RequestTicketBook(ctx context.Context, ticketBookID, volunteerID uint) (domain.TicketBookRequest, error) {
	volunteer, err := s.userRepo.FindByID(ctx, volunteerID)
	if err != nil {
		return domain.TicketBookRequest{}, fmt.Errorf("s.userRepo.FindByID -> %w", err)
	}
	if volunteer.Role != domain.RoleVolunteer {
		return domain.TicketBookRequest{}, ErrNotVolunteer
	}

	book, err := s.repo.GetTicketBookByID(ctx, ticketBookID)
	if err != nil {
		return domain.TicketBookRequest{}, fmt.Errorf("s.repo.GetTicketBookByID -> %w", err)
	}
	if !book.Active {
		return domain.TicketBookRequest{}, ErrTicketBookNotFound
	}

	var request domain.TicketBookRequest
	err = s.repo.Transaction(ctx, func(ctx context.Context) error {
		var err error
		request, err = s.repo.CreateTicketBookRequest(ctx, domain.TicketBookRequest{
			TicketBookID: book.ID,
			VolunteerID:  volunteer.ID,
			RequestedAt:  s.now(),
			Active:       true,
		})
		return err
	})
	if err != nil {
		return domain.TicketBookRequest{}, fmt.Errorf("s.repo.CreateTicketBookRequest -> %w", err)
	}

	return request, nil
}

func (s *RaffleService) ReleaseTicketBookRequest(ctx context.Context, requestID uint) error {
	if err := s.repo.DeactivateTicketBookRequest(ctx, requestID); err != nil {
		return fmt.Errorf("s.repo.DeactivateTicketBookRequest -> %w", err)
	}

	return nil
}

func (s *RaffleService) ListPaymentMethods(ctx context.Context) ([]domain.PaymentMethod, error) {
	methods, err := s.repo.GetPaymentMethods(ctx)
	if err != nil {
		return nil, fmt.Errorf("s.repo.GetPaymentMethods -> %w", err)
	}

	return methods, nil
}

// ReconcileRevenue compares the cached running revenue of a campaign with the
// sum of its active sales. With repair set, a drifted cache is overwritten
// with the recomputed value.
func (s *RaffleService) ReconcileRevenue(ctx context.Context, campaignID uint, repair bool) (domain.RevenueReconciliation, error) {
	var result domain.RevenueReconciliation

	err := s.repo.Transaction(ctx, func(ctx context.Context) error {
		// Every sale write updates the campaign row. Holding its lock keeps
		// sales from committing between this read and the sum.
		campaign, err := s.repo.LockCampaign(ctx, campaignID)
		if err != nil {
			return fmt.Errorf("s.repo.LockCampaign -> %w", err)
		}

		computed, err := s.repo.SumActiveSales(ctx, campaignID)
		if err != nil {
			return fmt.Errorf("s.repo.SumActiveSales -> %w", err)
		}

		result = domain.RevenueReconciliation{
			CampaignID: campaign.ID,
			Recorded:   campaign.RunningRevenue,
			Computed:   computed,
			Drift:      campaign.RunningRevenue.Sub(computed),
			Consistent: campaign.RunningRevenue.Equal(computed),
		}

		if !repair || result.Consistent {
			return nil
		}

		if err := s.repo.SetCampaignRevenue(ctx, campaignID, computed); err != nil {
			return fmt.Errorf("s.repo.SetCampaignRevenue -> %w", err)
		}
		result.Repaired = true

		return nil
	})
	if err != nil {
		return domain.RevenueReconciliation{}, err
	}

	return result, nil
}
