// Package export renders booking listings into xlsx workbooks for owners
// who want their schedule offline. Rendering is synchronous and pure over
// the slices handed in; no storage access happens here.
package export

import (
	"fmt"
	"time"

	"shareit/internal/models"

	"github.com/xuri/excelize/v2"
)

const sheetName = "Bookings"

var columns = []string{"Booking #", "Item", "Booker #", "Start", "End", "Status"}

// BuildBookingsReport builds a workbook with one row per booking, in the
// order given. itemNames maps item ids to display names; unknown ids fall
// back to "item #N".
func BuildBookingsReport(bookings []models.Booking, itemNames map[int64]string, period string) (*excelize.File, error) {
	f := excelize.NewFile()

	index, err := f.NewSheet(sheetName)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("error creating sheet: %w", err)
	}
	f.SetActiveSheet(index)
	if err := f.DeleteSheet("Sheet1"); err != nil {
		f.Close()
		return nil, fmt.Errorf("error dropping default sheet: %w", err)
	}

	_ = f.SetCellValue(sheetName, "A1", fmt.Sprintf("Bookings: %s", period))
	_ = f.MergeCell(sheetName, "A1", "F1")

	titleStyle, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true, Size: 14}})
	if err == nil {
		_ = f.SetCellStyle(sheetName, "A1", "F1", titleStyle)
	}

	for i, column := range columns {
		cell, _ := excelize.CoordinatesToCellName(i+1, 2)
		_ = f.SetCellValue(sheetName, cell, column)
	}

	headerStyle, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err == nil {
		_ = f.SetCellStyle(sheetName, "A2", "F2", headerStyle)
	}

	for i, booking := range bookings {
		row := i + 3
		name, ok := itemNames[booking.ItemID]
		if !ok {
			name = fmt.Sprintf("item #%d", booking.ItemID)
		}

		values := []any{
			booking.ID,
			name,
			booking.BookerID,
			booking.Start.Format(time.RFC3339),
			booking.End.Format(time.RFC3339),
			string(booking.Status),
		}
		for j, value := range values {
			cell, _ := excelize.CoordinatesToCellName(j+1, row)
			_ = f.SetCellValue(sheetName, cell, value)
		}
	}

	_ = f.SetColWidth(sheetName, "A", "A", 12)
	_ = f.SetColWidth(sheetName, "B", "B", 28)
	_ = f.SetColWidth(sheetName, "C", "F", 22)

	return f, nil
}
