package services

import (
	"bytes"
	"fmt"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/yeremiapane/taplink-saas/models"
)

const reservationsSheet = "Reservations"

var reservationColumns = []struct {
	header string
	width  float64
}{
	{"ID", 8},
	{"Date", 12},
	{"Start", 8},
	{"End", 8},
	{"Table", 10},
	{"Guests", 8},
	{"Name", 24},
	{"Phone", 18},
	{"Status", 12},
	{"Comment", 40},
}

// ExportReservations renders reservations as an XLSX workbook. Times are
// shown in loc, the tenant's timezone.
func ExportReservations(rows []models.Reservation, loc *time.Location) ([]byte, error) {
	if loc == nil {
		loc = time.UTC
	}

	f := excelize.NewFile()
	index, err := f.NewSheet(reservationsSheet)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("create sheet: %w", err)
	}
	f.DeleteSheet("Sheet1")
	f.SetActiveSheet(index)

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#E6F3FF"}, Pattern: 1},
		Alignment: &excelize.Alignment{
			Horizontal: "center",
			Vertical:   "center",
		},
	})
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("create header style: %w", err)
	}

	for i, col := range reservationColumns {
		name, _ := excelize.ColumnNumberToName(i + 1)
		cell := name + "1"
		if err := f.SetCellValue(reservationsSheet, cell, col.header); err != nil {
			f.Close()
			return nil, fmt.Errorf("set header %s: %w", cell, err)
		}
		if err := f.SetCellStyle(reservationsSheet, cell, cell, headerStyle); err != nil {
			f.Close()
			return nil, fmt.Errorf("style header %s: %w", cell, err)
		}
		if err := f.SetColWidth(reservationsSheet, name, name, col.width); err != nil {
			f.Close()
			return nil, fmt.Errorf("set width %s: %w", name, err)
		}
	}

	for i, r := range rows {
		start, end := r.StartAt.In(loc), r.EndAt.In(loc)
		values := []interface{}{
			r.ID,
			start.Format("2006-01-02"),
			start.Format("15:04"),
			end.Format("15:04"),
			deref(r.TableLabel),
			r.PartySize,
			r.Name,
			r.Phone,
			r.Status,
			deref(r.Comment),
		}
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		if err := f.SetSheetRow(reservationsSheet, cell, &values); err != nil {
			f.Close()
			return nil, fmt.Errorf("write row %d: %w", i+2, err)
		}
	}

	if err := f.SetPanes(reservationsSheet, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	}); err != nil {
		f.Close()
		return nil, fmt.Errorf("freeze header: %w", err)
	}

	var buf bytes.Buffer
	if _, err := f.WriteTo(&buf); err != nil {
		f.Close()
		return nil, fmt.Errorf("write workbook: %w", err)
	}
	if err := f.Close(); err != nil {
		return nil, fmt.Errorf("close workbook: %w", err)
	}
	return buf.Bytes(), nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
