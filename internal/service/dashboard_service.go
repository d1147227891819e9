package service

import (
	"time"

	"go-retail-api/internal/apperr"
	"go-retail-api/internal/repository"

	"github.com/shopspring/decimal"
)

// DashboardOverview is the stats block plus the running month's sales.
type DashboardOverview struct {
	repository.DashboardStats
	MonthSales decimal.Decimal `json:"month_sales"`
}

type DashboardService interface {
	Stats() (*DashboardOverview, error)
	SalesTrend(days int) ([]repository.DailySales, error)
}

type dashboardService struct {
	inventory repository.InventoryRepository
	retail    repository.RetailRepository
}

func NewDashboardService(inventory repository.InventoryRepository, retail repository.RetailRepository) DashboardService {
	return &dashboardService{inventory: inventory, retail: retail}
}

func (s *dashboardService) Stats() (*DashboardOverview, error) {
	stats, err := s.inventory.Stats()
	if err != nil {
		return nil, apperr.Internal(err)
	}

	now := time.Now().UTC()
	monthSales, err := s.retail.MonthlySales(now.Year(), int(now.Month()))
	if err != nil {
		return nil, apperr.Internal(err)
	}

	return &DashboardOverview{DashboardStats: *stats, MonthSales: monthSales}, nil
}

// SalesTrend aggregates daily revenue for the trailing window. Days is
// clamped to a sane range rather than rejected.
func (s *dashboardService) SalesTrend(days int) ([]repository.DailySales, error) {
	if days <= 0 {
		days = 7
	}
	if days > 365 {
		days = 365
	}

	end := time.Now().UTC()
	start := end.AddDate(0, 0, -days)

	trend, err := s.retail.DailySales(start, end)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	return trend, nil
}
