package service

import (
	"context"
	"fmt"

	"github.com/recaudacion/rifas-api/internal/domain"
)

type ReportRepository interface {
	GetSaleReport(ctx context.Context, filter domain.SaleReportFilter) ([]domain.SaleReportRow, error)
}

type ReportService struct {
	repo ReportRepository
}

func NewReportService(repo ReportRepository) *ReportService {
	return &ReportService{
		repo: repo,
	}
}

// SaleReport lists active sales with their payments, ticket book, campaign and
// volunteer. Zero filter fields match everything.
func (s *ReportService) SaleReport(ctx context.Context, filter domain.SaleReportFilter) ([]domain.SaleReportRow, error) {
	rows, err := s.repo.GetSaleReport(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("s.repo.GetSaleReport -> %w", err)
	}

	return rows, nil
}
