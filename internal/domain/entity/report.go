package entity

import "time"

// OutstandingBalanceRow is one booking the client still owes money on
type OutstandingBalanceRow struct {
	BookingID    string  `json:"booking_id"`
	PNR          string  `json:"pnr"`
	PaxName      string  `json:"pax_name"`
	SalePrice    float64 `json:"sale_price"`
	TotalPaid    float64 `json:"total_paid"`
	Balance      float64 `json:"balance"`
	SupplierName string  `json:"supplier_name"`
	CreatedAt    string  `json:"created_at"`
}

// DashboardStats aggregates the bookings visible to a caller
type DashboardStats struct {
	TotalBookings       int     `json:"total_bookings"`
	PendingVerification int     `json:"pending_verification"`
	AccountVerified     int     `json:"account_verified"`
	AdminVerified       int     `json:"admin_verified"`
	TotalRevenue        float64 `json:"total_revenue"`
	TotalCost           float64 `json:"total_cost"`
	TotalMargin         float64 `json:"total_margin"`
	OutstandingBalance  float64 `json:"outstanding_balance"`
}

// BookingReportFilter is the body of the export endpoints
type BookingReportFilter struct {
	StartDate           string `json:"start_date,omitempty" validate:"omitempty,datetime=2006-01-02"`
	EndDate             string `json:"end_date,omitempty" validate:"omitempty,datetime=2006-01-02"`
	SupplierID          string `json:"supplier_id,omitempty"`
	EmployeeID          string `json:"employee_id,omitempty"`
	Status              string `json:"status,omitempty"`
	PendingVerification bool   `json:"pending_verification,omitempty"`
}

// BookingReportRow is one line of a booking export
type BookingReportRow struct {
	PNR           string
	PaxName       string
	ContactNumber string
	Airline       string
	SupplierName  string
	OurCost       float64
	SalePrice     float64
	Status        string
	CreatedBy     string
	CreatedAt     string
}

// BookingReport is a rendered-ready export
type BookingReport struct {
	StartDate string
	EndDate   string
	Rows      []BookingReportRow
	Generated time.Time
}
