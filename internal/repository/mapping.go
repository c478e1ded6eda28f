package repository

import (
	"github.com/recaudacion/rifas-api/internal/domain"
	"github.com/recaudacion/rifas-api/internal/repository/dao"
)

func (r *RaffleRepository) campaignDomainToDao(c domain.Campaign) dao.Campaign {
	return dao.Campaign{
		ID:             c.ID,
		Name:           c.Name,
		Description:    c.Description,
		TicketPrice:    c.TicketPrice,
		RunningRevenue: c.RunningRevenue,
		Location:       c.Location,
		Active:         c.Active,
		CreatedAt:      c.CreatedAt,
		UpdatedAt:      c.UpdatedAt,
	}
}

func (r *RaffleRepository) campaignDaoToDomain(c dao.Campaign) domain.Campaign {
	campaign := domain.Campaign{
		ID:             c.ID,
		Name:           c.Name,
		Description:    c.Description,
		TicketPrice:    c.TicketPrice,
		RunningRevenue: c.RunningRevenue,
		Location:       c.Location,
		Active:         c.Active,
		CreatedAt:      c.CreatedAt,
		UpdatedAt:      c.UpdatedAt,
	}

	if len(c.TicketBooks) > 0 {
		campaign.TicketBooks = r.ticketBooksDaoToDomain(c.TicketBooks)
	}

	return campaign
}

func (r *RaffleRepository) ticketBookDomainToDao(b domain.TicketBook) dao.TicketBook {
	return dao.TicketBook{
		ID:               b.ID,
		CampaignID:       b.CampaignID,
		Code:             b.Code,
		TotalTickets:     b.TotalTickets,
		RemainingTickets: b.RemainingTickets,
		Active:           b.Active,
		CreatedAt:        b.CreatedAt,
		UpdatedAt:        b.UpdatedAt,
	}
}

func (r *RaffleRepository) ticketBookDaoToDomain(b dao.TicketBook) domain.TicketBook {
	return domain.TicketBook{
		ID:               b.ID,
		CampaignID:       b.CampaignID,
		Code:             b.Code,
		TotalTickets:     b.TotalTickets,
		RemainingTickets: b.RemainingTickets,
		Active:           b.Active,
		CreatedAt:        b.CreatedAt,
		UpdatedAt:        b.UpdatedAt,
	}
}

func (r *RaffleRepository) ticketBooksDaoToDomain(books []dao.TicketBook) []domain.TicketBook {
	domainBooks := make([]domain.TicketBook, len(books))
	for i, b := range books {
		domainBooks[i] = r.ticketBookDaoToDomain(b)
	}
	return domainBooks
}

func (r *RaffleRepository) requestDaoToDomain(req dao.TicketBookRequest) domain.TicketBookRequest {
	return domain.TicketBookRequest{
		ID:           req.ID,
		TicketBookID: req.TicketBookID,
		VolunteerID:  req.VolunteerID,
		RequestedAt:  req.RequestedAt,
		Active:       req.Active,
	}
}

func (r *RaffleRepository) saleDaoToDomain(s dao.RaffleSale) domain.RaffleSale {
	return domain.RaffleSale{
		ID:                  s.ID,
		TicketBookRequestID: s.TicketBookRequestID,
		TicketsSold:         s.TicketsSold,
		Subtotal:            s.Subtotal,
		Active:              s.Active,
		Payments:            r.paymentsDaoToDomain(s.Payments),
		CreatedAt:           s.CreatedAt,
		UpdatedAt:           s.UpdatedAt,
	}
}

func (r *RaffleRepository) paymentDomainToDao(p domain.Payment) dao.RaffleSalePayment {
	return dao.RaffleSalePayment{
		ID:              p.ID,
		RaffleSaleID:    p.RaffleSaleID,
		PaymentMethodID: p.PaymentMethodID,
		Amount:          p.Amount,
		CorrelationCode: p.CorrelationCode,
		TransferProof:   p.TransferProof,
		Active:          p.Active,
	}
}

func (r *RaffleRepository) paymentsDaoToDomain(payments []dao.RaffleSalePayment) []domain.Payment {
	domainPayments := make([]domain.Payment, len(payments))
	for i, p := range payments {
		domainPayments[i] = domain.Payment{
			ID:              p.ID,
			RaffleSaleID:    p.RaffleSaleID,
			PaymentMethodID: p.PaymentMethodID,
			Amount:          p.Amount,
			CorrelationCode: p.CorrelationCode,
			TransferProof:   p.TransferProof,
			Active:          p.Active,
		}
	}
	return domainPayments
}

func (r *RaffleRepository) paymentMethodsDaoToDomain(methods []dao.PaymentMethod) []domain.PaymentMethod {
	domainMethods := make([]domain.PaymentMethod, len(methods))
	for i, m := range methods {
		domainMethods[i] = domain.PaymentMethod{
			ID:               m.ID,
			Name:             m.Name,
			RequiresEvidence: m.RequiresEvidence,
			Active:           m.Active,
		}
	}
	return domainMethods
}

func (r *RaffleRepository) saleDaoToReportRow(s dao.RaffleSale) domain.SaleReportRow {
	request := s.TicketBookRequest
	book := request.TicketBook

	payments := make([]domain.SaleReportPayment, len(s.Payments))
	for i, p := range s.Payments {
		payments[i] = domain.SaleReportPayment{
			PaymentMethod:   p.PaymentMethod.Name,
			Amount:          p.Amount,
			CorrelationCode: p.CorrelationCode,
			TransferProof:   p.TransferProof,
		}
	}

	return domain.SaleReportRow{
		SaleID:         s.ID,
		TicketsSold:    s.TicketsSold,
		Subtotal:       s.Subtotal,
		TicketBookID:   book.ID,
		TicketBookCode: book.Code,
		CampaignID:     book.Campaign.ID,
		CampaignName:   book.Campaign.Name,
		VolunteerID:    request.Volunteer.ID,
		VolunteerName:  request.Volunteer.Name,
		Payments:       payments,
		SoldAt:         s.CreatedAt,
	}
}
