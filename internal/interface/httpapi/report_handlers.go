package httpapi

import (
	"fmt"
	"net/http"
	"time"

	"bookingdesk/internal/domain/entity"
	"bookingdesk/internal/interface/export"
	"bookingdesk/internal/usecase"
)

const (
	contentTypeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	contentTypePDF  = "application/pdf"
)

func writeFile(w http.ResponseWriter, contentType, filename string, data []byte) {
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%s", filename))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

func stamp() string {
	return time.Now().Format("20060102_150405")
}

func (h *Handlers) DashboardStats(w http.ResponseWriter, r *http.Request) {
	actor, ok := h.actor(w, r)
	if !ok {
		return
	}
	stats, err := h.Reporting.DashboardStats(r.Context(), actor)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

func (h *Handlers) OutstandingBalance(w http.ResponseWriter, r *http.Request) {
	actor, ok := h.actor(w, r)
	if !ok {
		return
	}
	rows, err := h.Reporting.OutstandingBalance(r.Context(), actor)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, rows)
}

func (h *Handlers) OutstandingBalanceExcel(w http.ResponseWriter, r *http.Request) {
	actor, ok := h.actor(w, r)
	if !ok {
		return
	}
	rows, err := h.Reporting.OutstandingBalance(r.Context(), actor)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	data, err := export.OutstandingXLSX(rows, usecase.TotalOutstanding(rows))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeFile(w, contentTypeXLSX, "outstanding_balance_"+stamp()+".xlsx", data)
}

func (h *Handlers) bookingReport(w http.ResponseWriter, r *http.Request) (*entity.BookingReport, bool) {
	actor, ok := h.actor(w, r)
	if !ok {
		return nil, false
	}
	var filter entity.BookingReportFilter
	if r.ContentLength != 0 && !decodeJSON(w, r, &filter) {
		return nil, false
	}
	report, err := h.Reporting.BookingReport(r.Context(), actor, filter)
	if err != nil {
		h.fail(w, r, err)
		return nil, false
	}
	return report, true
}

func (h *Handlers) BookingsPDF(w http.ResponseWriter, r *http.Request) {
	report, ok := h.bookingReport(w, r)
	if !ok {
		return
	}
	data, err := export.BookingsPDF(report)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeFile(w, contentTypePDF, "bookings_report_"+stamp()+".pdf", data)
}

func (h *Handlers) BookingsExcel(w http.ResponseWriter, r *http.Request) {
	report, ok := h.bookingReport(w, r)
	if !ok {
		return
	}
	data, err := export.BookingsXLSX(report)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeFile(w, contentTypeXLSX, "bookings_report_"+stamp()+".xlsx", data)
}
