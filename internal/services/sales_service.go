package services

import (
	"context"
	"fmt"
	"sort"
	"time"

	"storefront/internal/auth"
	"storefront/internal/domain"
	"storefront/internal/repository"

	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

type SalesService struct {
	store repository.Store
	loc   *time.Location
	log   *zap.Logger
	now   func() time.Time
}

func NewSalesService(store repository.Store, loc *time.Location, log *zap.Logger) *SalesService {
	if loc == nil {
		loc = time.UTC
	}
	return &SalesService{store: store, loc: loc, log: log, now: time.Now}
}

// MonthWindow resolves (year, month) to [first instant of the month, first instant
// of the next month) in loc. Zero year or month means the current one.
func MonthWindow(year, month int, now time.Time, loc *time.Location) (domain.SalesWindow, error) {
	now = now.In(loc)
	if year == 0 {
		year = now.Year()
	}
	if month == 0 {
		month = int(now.Month())
	}
	if year < 1 || month < 1 || month > 12 {
		return domain.SalesWindow{}, fmt.Errorf("year %d month %d: %w", year, month, domain.ErrInvalidInput)
	}

	from := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, loc)
	return domain.SalesWindow{
		Year:  year,
		Month: time.Month(month),
		From:  from,
		To:    from.AddDate(0, 1, 0),
	}, nil
}

// Report aggregates revenue, cost and profit from the order item snapshots of
// one calendar month. It is recomputed on every call.
func (s *SalesService) Report(ctx context.Context, p auth.Principal, year, month int) (*domain.SalesReport, error) {
	if err := p.Admin(); err != nil {
		return nil, err
	}

	w, err := MonthWindow(year, month, s.now(), s.loc)
	if err != nil {
		return nil, err
	}

	ctx, span := tracer().Start(ctx, "SalesReport")
	defer span.End()
	span.SetAttributes(attribute.Int("sales.year", w.Year), attribute.Int("sales.month", int(w.Month)))

	items, err := s.store.Orders().ListSoldItems(ctx, w.From, w.To)
	if err != nil {
		return nil, fmt.Errorf("list sold items: %w", err)
	}

	report := Aggregate(items)
	report.Year = w.Year
	report.Month = int(w.Month)

	s.log.Debug("sales report computed",
		zap.Int("year", w.Year),
		zap.Int("month", int(w.Month)),
		zap.Int("items", len(items)),
	)
	return report, nil
}

// Aggregate sums items into totals and per-product and per-seller rows, each
// sorted by profit descending. Ties keep first-sale order.
func Aggregate(items []domain.SoldItem) *domain.SalesReport {
	report := &domain.SalesReport{
		ByProduct: []domain.ProductSales{},
		BySeller:  []domain.SellerSales{},
	}

	productIdx := map[uint64]int{}
	sellerIdx := map[uint64]int{}
	for _, it := range items {
		report.Totals.Add(it)

		i, ok := productIdx[it.ProductID]
		if !ok {
			i = len(report.ByProduct)
			productIdx[it.ProductID] = i
			report.ByProduct = append(report.ByProduct, domain.ProductSales{
				ProductID:   it.ProductID,
				ProductName: it.ProductName,
				SellerName:  it.SellerName,
			})
		}
		report.ByProduct[i].Add(it)

		j, ok := sellerIdx[it.SellerID]
		if !ok {
			j = len(report.BySeller)
			sellerIdx[it.SellerID] = j
			report.BySeller = append(report.BySeller, domain.SellerSales{
				SellerID:   it.SellerID,
				SellerName: it.SellerName,
			})
		}
		report.BySeller[j].Add(it)
	}

	sort.SliceStable(report.ByProduct, func(a, b int) bool {
		return report.ByProduct[a].Profit.GreaterThan(report.ByProduct[b].Profit)
	})
	sort.SliceStable(report.BySeller, func(a, b int) bool {
		return report.BySeller[a].Profit.GreaterThan(report.BySeller[b].Profit)
	})
	return report
}
