package usecase

import (
	"context"
	"strings"

	"bookingdesk/internal/domain/apperr"
	"bookingdesk/internal/domain/entity"
	"bookingdesk/internal/domain/repository"
	"bookingdesk/pkg/logger"
	"bookingdesk/pkg/utils"

	"github.com/shopspring/decimal"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

const missingSupplierName = "N/A"

// Reporting aggregates bookings for dashboards and exports
type Reporting struct {
	bookings  repository.BookingRepository
	suppliers repository.SupplierRepository
	users     repository.UserRepository
	airlines  repository.AirlineRepository
	logger    logger.Logger
	now       Clock
}

// NewReporting creates the reporting usecase. airlines may be nil.
func NewReporting(
	bookings repository.BookingRepository,
	suppliers repository.SupplierRepository,
	users repository.UserRepository,
	airlines repository.AirlineRepository,
	logger logger.Logger,
) *Reporting {
	return &Reporting{
		bookings:  bookings,
		suppliers: suppliers,
		users:     users,
		airlines:  airlines,
		logger:    logger,
		now:       defaultClock,
	}
}

// OutstandingBalance lists bookings with money still owed by the client
func (r *Reporting) OutstandingBalance(ctx context.Context, actor entity.Actor) ([]entity.OutstandingBalanceRow, error) {
	if err := requireRole(actor, entity.RolesAccountAdmin); err != nil {
		return nil, err
	}
	bookings, err := r.bookings.List(ctx, entity.BookingFilter{})
	if err != nil {
		return nil, err
	}
	suppliers, err := r.suppliers.FindByIDs(ctx, supplierIDs(bookings))
	if err != nil {
		return nil, err
	}
	return OutstandingRows(bookings, suppliers), nil
}

// DashboardStats aggregates the bookings visible to the actor
func (r *Reporting) DashboardStats(ctx context.Context, actor entity.Actor) (*entity.DashboardStats, error) {
	filter := entity.BookingFilter{}
	if actor.Role.IsAgent() {
		filter.CreatedBy = actor.ID
	}
	bookings, err := r.bookings.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	stats := ComputeDashboard(bookings)
	return &stats, nil
}

// BookingReport builds export rows for the filter; agents only ever see their own bookings
func (r *Reporting) BookingReport(ctx context.Context, actor entity.Actor, f entity.BookingReportFilter) (*entity.BookingReport, error) {
	if err := validateStruct(f); err != nil {
		return nil, err
	}
	from, to, err := utils.ParseDayRange(f.StartDate, f.EndDate)
	if err != nil {
		return nil, apperr.Validation("start_date", "dates must use YYYY-MM-DD")
	}

	filter := entity.BookingFilter{From: from, To: to, SupplierID: f.SupplierID}
	if f.Status != "" {
		st, ok := entity.ParseBookingStatus(f.Status)
		if !ok {
			return nil, apperr.Validation("status", "unknown booking status")
		}
		filter.Status = st
	}
	if f.PendingVerification {
		filter.Status = entity.StatusPendingVerification
	}
	if actor.Role.IsAgent() {
		filter.CreatedBy = actor.ID
	} else {
		filter.CreatedBy = f.EmployeeID
	}

	bookings, err := r.bookings.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	suppliers, err := r.suppliers.FindByIDs(ctx, supplierIDs(bookings))
	if err != nil {
		return nil, err
	}
	users, err := r.users.FindByIDs(ctx, creatorIDs(bookings))
	if err != nil {
		return nil, err
	}
	airlineNames := r.airlineNames(ctx, bookings)

	rows := make([]entity.BookingReportRow, 0, len(bookings))
	for _, b := range bookings {
		row := entity.BookingReportRow{
			PNR:           b.PNR,
			PaxName:       b.PaxName,
			ContactNumber: b.ContactNumber,
			Airline:       b.Airline,
			SupplierName:  missingSupplierName,
			OurCost:       b.OurCost,
			SalePrice:     b.SalePrice,
			Status:        StatusLabel(b.Status),
			CreatedBy:     "Unknown",
			CreatedAt:     utils.FormatDateTime(b.CreatedAt),
		}
		if name, ok := airlineNames[b.Airline]; ok {
			row.Airline = name
		}
		if s, ok := suppliers[b.SupplierID]; ok {
			row.SupplierName = s.Name
		}
		if u, ok := users[b.CreatedBy]; ok {
			row.CreatedBy = u.Name
		}
		rows = append(rows, row)
	}

	return &entity.BookingReport{
		StartDate: f.StartDate,
		EndDate:   f.EndDate,
		Rows:      rows,
		Generated: r.now(),
	}, nil
}

// airlineNames resolves airline codes through the directory when one is configured
func (r *Reporting) airlineNames(ctx context.Context, bookings []*entity.Booking) map[string]string {
	names := make(map[string]string)
	if r.airlines == nil {
		return names
	}
	for _, b := range bookings {
		code := strings.TrimSpace(b.Airline)
		if code == "" {
			continue
		}
		if _, seen := names[b.Airline]; seen {
			continue
		}
		airline, err := r.airlines.GetByCode(ctx, code)
		if err != nil {
			if !apperr.IsKind(err, apperr.KindNotFound) {
				r.logger.Warn("Airline lookup failed", "code", code, "error", err)
			}
			names[b.Airline] = b.Airline
			continue
		}
		names[b.Airline] = airline.Name
	}
	return names
}

// OutstandingRows keeps bookings whose balance is strictly positive
func OutstandingRows(bookings []*entity.Booking, suppliers map[string]*entity.Supplier) []entity.OutstandingBalanceRow {
	rows := make([]entity.OutstandingBalanceRow, 0)
	for _, b := range bookings {
		paid := totalPaid(b)
		balance := decimal.NewFromFloat(b.SalePrice).Sub(paid)
		if !balance.IsPositive() {
			continue
		}
		name := missingSupplierName
		if s, ok := suppliers[b.SupplierID]; ok {
			name = s.Name
		}
		rows = append(rows, entity.OutstandingBalanceRow{
			BookingID:    b.ID,
			PNR:          b.PNR,
			PaxName:      b.PaxName,
			SalePrice:    b.SalePrice,
			TotalPaid:    paid.InexactFloat64(),
			Balance:      balance.InexactFloat64(),
			SupplierName: name,
			CreatedAt:    utils.FormatDate(b.CreatedAt),
		})
	}
	return rows
}

// ComputeDashboard sums every booking. Its outstanding balance includes
// overpaid bookings as negative amounts, unlike OutstandingRows.
func ComputeDashboard(bookings []*entity.Booking) entity.DashboardStats {
	var stats entity.DashboardStats
	revenue, cost, outstanding := decimal.Zero, decimal.Zero, decimal.Zero

	for _, b := range bookings {
		stats.TotalBookings++
		switch b.Status {
		case entity.StatusPendingVerification:
			stats.PendingVerification++
		case entity.StatusAccountVerified:
			stats.AccountVerified++
		case entity.StatusAdminVerified:
			stats.AdminVerified++
		}
		sale := decimal.NewFromFloat(b.SalePrice)
		revenue = revenue.Add(sale)
		cost = cost.Add(decimal.NewFromFloat(b.OurCost))
		outstanding = outstanding.Add(sale.Sub(totalPaid(b)))
	}

	stats.TotalRevenue = revenue.InexactFloat64()
	stats.TotalCost = cost.InexactFloat64()
	stats.TotalMargin = revenue.Sub(cost).InexactFloat64()
	stats.OutstandingBalance = outstanding.InexactFloat64()
	return stats
}

// TotalOutstanding sums the balance column of an outstanding report
func TotalOutstanding(rows []entity.OutstandingBalanceRow) float64 {
	total := decimal.Zero
	for _, row := range rows {
		total = total.Add(decimal.NewFromFloat(row.Balance))
	}
	return total.InexactFloat64()
}

// StatusLabel renders a status for people: pending_verification becomes "Pending Verification"
func StatusLabel(s entity.BookingStatus) string {
	return cases.Title(language.English).String(strings.ReplaceAll(string(s), "_", " "))
}

func totalPaid(b *entity.Booking) decimal.Decimal {
	sum := decimal.Zero
	for _, inst := range b.Installments {
		sum = sum.Add(decimal.NewFromFloat(inst.Amount))
	}
	return sum
}

func supplierIDs(bookings []*entity.Booking) []string {
	seen := make(map[string]struct{})
	var ids []string
	for _, b := range bookings {
		if _, ok := seen[b.SupplierID]; ok || b.SupplierID == "" {
			continue
		}
		seen[b.SupplierID] = struct{}{}
		ids = append(ids, b.SupplierID)
	}
	return ids
}

func creatorIDs(bookings []*entity.Booking) []string {
	seen := make(map[string]struct{})
	var ids []string
	for _, b := range bookings {
		if _, ok := seen[b.CreatedBy]; ok {
			continue
		}
		seen[b.CreatedBy] = struct{}{}
		ids = append(ids, b.CreatedBy)
	}
	return ids
}
