// Package export renders reports as XLSX and PDF documents.
package export

import (
	"fmt"

	"bookingdesk/internal/domain/entity"

	"github.com/xuri/excelize/v2"
)

const (
	bookingSheet     = "Bookings"
	outstandingSheet = "Outstanding Balance"
)

var bookingHeaders = []string{
	"PNR", "Passenger Name", "Contact", "Airline", "Supplier",
	"Our Cost", "Sale Price", "Status", "Created By", "Created At",
}

var outstandingHeaders = []string{
	"PNR", "Passenger Name", "Supplier", "Sale Price", "Total Paid", "Balance", "Created At",
}

// BookingsXLSX renders the booking report workbook
func BookingsXLSX(report *entity.BookingReport) ([]byte, error) {
	f, err := newWorkbook(bookingSheet, bookingHeaders)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	for i, row := range report.Rows {
		values := []interface{}{
			row.PNR, row.PaxName, row.ContactNumber, row.Airline, row.SupplierName,
			row.OurCost, row.SalePrice, row.Status, row.CreatedBy, row.CreatedAt,
		}
		if err := writeRow(f, bookingSheet, i+2, values); err != nil {
			return nil, err
		}
	}
	return finish(f)
}

// OutstandingXLSX renders the outstanding balance workbook with a closing total row
func OutstandingXLSX(rows []entity.OutstandingBalanceRow, total float64) ([]byte, error) {
	f, err := newWorkbook(outstandingSheet, outstandingHeaders)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	for i, row := range rows {
		values := []interface{}{
			row.PNR, row.PaxName, row.SupplierName, row.SalePrice, row.TotalPaid, row.Balance, row.CreatedAt,
		}
		if err := writeRow(f, outstandingSheet, i+2, values); err != nil {
			return nil, err
		}
	}

	totalRow := len(rows) + 3
	if err := writeRow(f, outstandingSheet, totalRow, []interface{}{"", "", "", "", "Total Outstanding:", total}); err != nil {
		return nil, err
	}
	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return nil, err
	}
	if err := f.SetCellStyle(outstandingSheet, fmt.Sprintf("E%d", totalRow), fmt.Sprintf("F%d", totalRow), bold); err != nil {
		return nil, err
	}
	return finish(f)
}

func newWorkbook(sheet string, headers []string) (*excelize.File, error) {
	f := excelize.NewFile()
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		f.Close()
		return nil, err
	}

	values := make([]interface{}, len(headers))
	for i, h := range headers {
		values[i] = h
	}
	if err := writeRow(f, sheet, 1, values); err != nil {
		f.Close()
		return nil, err
	}

	header, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Color: "FFFFFF"},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"366092"}, Pattern: 1},
	})
	if err != nil {
		f.Close()
		return nil, err
	}
	last, _ := excelize.CoordinatesToCellName(len(headers), 1)
	if err := f.SetCellStyle(sheet, "A1", last, header); err != nil {
		f.Close()
		return nil, err
	}
	lastCol, _ := excelize.ColumnNumberToName(len(headers))
	if err := f.SetColWidth(sheet, "A", lastCol, 18); err != nil {
		f.Close()
		return nil, err
	}
	return f, nil
}

func writeRow(f *excelize.File, sheet string, row int, values []interface{}) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	return f.SetSheetRow(sheet, cell, &values)
}

func finish(f *excelize.File) ([]byte, error) {
	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to write workbook: %w", err)
	}
	return buf.Bytes(), nil
}
