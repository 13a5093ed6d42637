package service

import (
	"context"
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"shuttle-service/internal/lifecycle"
)

// sheet names are capped at 31 characters by Excel
const maxSheetName = 31

var clearanceColumns = []string{"Shift", "Worksite", "Completed", "Total", "Clear", "Pax"}

var exportColumns = []string{
	"Depart",
	"Arrival",
	"AM Shift",
	"PM Shift",
	"Bus At Hotel",
	"Boarding",
	"Hotel Departure",
	"Bus At Site",
	"Staging",
	"Site Departure",
	"Bus At Hotel (Return)",
	"Status",
	"AM Pax",
	"PM Pax",
	"Total Pax",
}

// ExportSchedule writes the filtered schedule view as an xlsx workbook, followed
// by a sheet with today's AM and PM clearance boards. Both sheets come from
// one snapshot.
func (s *DashboardService) ExportSchedule(ctx context.Context, q ScheduleQuery, w io.Writer) error {
	filter, err := scheduleFilter(q)
	if err != nil {
		return err
	}

	dc := s.dayContext()
	snap, logs, checkIns, err := s.snapshot(ctx, dc)
	if err != nil {
		return err
	}
	view := s.scheduleView(snap, logs, checkIns, dc, filter)
	overview := s.overview(snap, logs, checkIns, dc)

	file := excelize.NewFile()
	defer file.Close()

	sheet := view.Day + " Schedule"
	if len(sheet) > maxSheetName {
		sheet = sheet[:maxSheetName]
	}
	if err := file.SetSheetName("Sheet1", sheet); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}

	if err := writeHeader(file, sheet, exportColumns); err != nil {
		return err
	}

	for i, row := range view.Rows {
		var lc lifecycle.TripLifecycle
		if row.Lifecycle != nil {
			lc = *row.Lifecycle
		}
		cells := []interface{}{
			row.DepartName,
			row.ArrivalName,
			row.Times.AMShift,
			row.Times.PMShift,
			row.Times.BusArrivalAtHotel,
			row.Times.BoardingBegins,
			row.Times.HotelDeparture,
			row.Times.BusArrivalAtSite,
			row.Times.Staging,
			row.Times.SiteDeparture,
			row.Times.BusArrivalAtHotelReturn,
			lc.Label,
			lc.AMPax,
			lc.PMPax,
			lc.TotalPax,
		}
		if err := writeRow(file, sheet, i+2, cells); err != nil {
			return err
		}
	}

	if err := writeClearanceSheet(file, overview); err != nil {
		return err
	}

	if err := file.Write(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	s.log.Debug().Str("day", view.Day).Int("rows", len(view.Rows)).Msg("schedule exported")
	return nil
}

func writeClearanceSheet(file *excelize.File, overview *Overview) error {
	const sheet = "Clearance"
	if _, err := file.NewSheet(sheet); err != nil {
		return fmt.Errorf("create sheet %s: %w", sheet, err)
	}
	if err := writeHeader(file, sheet, clearanceColumns); err != nil {
		return err
	}

	rowNum := 2
	for _, board := range []ClearanceBoard{overview.AM, overview.PM} {
		for _, res := range board.Worksites {
			cells := []interface{}{
				string(board.Shift),
				res.WorksiteName,
				res.Completed,
				res.Total,
				clearLabel(res.IsClear),
				res.TotalPax,
			}
			if err := writeRow(file, sheet, rowNum, cells); err != nil {
				return err
			}
			rowNum++
		}
	}
	return nil
}

func clearLabel(isClear bool) string {
	if isClear {
		return "Yes"
	}
	return "No"
}

func writeHeader(file *excelize.File, sheet string, columns []string) error {
	if err := writeRow(file, sheet, 1, toCells(columns)); err != nil {
		return err
	}
	style, err := file.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err == nil {
		endCell, _ := excelize.CoordinatesToCellName(len(columns), 1)
		_ = file.SetCellStyle(sheet, "A1", endCell, style)
	}
	return nil
}

func writeRow(file *excelize.File, sheet string, rowNum int, cells []interface{}) error {
	for i, val := range cells {
		cell, err := excelize.CoordinatesToCellName(i+1, rowNum)
		if err != nil {
			return err
		}
		if err := file.SetCellValue(sheet, cell, val); err != nil {
			return fmt.Errorf("set %s: %w", cell, err)
		}
	}
	return nil
}

func toCells(values []string) []interface{} {
	out := make([]interface{}, len(values))
	for i, v := range values {
		out[i] = v
	}
	return out
}
