// Package export renders weekly dashboards as spreadsheet downloads.
package export

import (
	"bytes"
	"fmt"
	"log/slog"

	"github.com/xuri/excelize/v2"

	"github.com/cmlabs-hris/timesheet-go/internal/domain/timesheet"
	"github.com/cmlabs-hris/timesheet-go/internal/pkg/i18n"
)

const ContentTypeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// header row index; data starts below it
const headerRow = 3

var columns = []i18n.Key{
	i18n.KeyColumnUser,
	i18n.KeyColumnDate,
	i18n.KeyColumnWorkStart,
	i18n.KeyColumnBreakStart,
	i18n.KeyColumnBreakEnd,
	i18n.KeyColumnWorkEnd,
	i18n.KeyColumnWorked,
	i18n.KeyColumnExpected,
	i18n.KeyColumnDiff,
	i18n.KeyColumnStatus,
}

type styles struct {
	title, header, total, negative int
}

// Filename is the download name of the workbook for a week.
func Filename(weekStart string) string {
	return fmt.Sprintf("timesheet_%s.xlsx", weekStart)
}

// SheetName is the name of the single worksheet for a week.
func SheetName(weekStart string) string {
	return "Week " + weekStart
}

// WeeklyXLSX writes one sheet with a row per user-day and a total row per user.
func WeeklyXLSX(d timesheet.WeeklyDashboard, lang i18n.Lang) ([]byte, error) {
	f := excelize.NewFile()
	defer func() {
		if err := f.Close(); err != nil {
			slog.Error("failed to close workbook", "error", err)
		}
	}()

	sheet := SheetName(d.WeekStart)
	index, err := f.NewSheet(sheet)
	if err != nil {
		return nil, fmt.Errorf("create sheet: %w", err)
	}
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return nil, fmt.Errorf("delete default sheet: %w", err)
	}
	f.SetActiveSheet(index)

	st, err := newStyles(f)
	if err != nil {
		return nil, err
	}

	lastCol, _ := excelize.ColumnNumberToName(len(columns))
	title := fmt.Sprintf("%s %s - %s", i18n.Translate(lang, i18n.KeyReportTitle), d.WeekStart, d.WeekEnd)
	if err := f.SetCellValue(sheet, "A1", title); err != nil {
		return nil, err
	}
	if err := f.MergeCell(sheet, "A1", lastCol+"1"); err != nil {
		return nil, err
	}
	if err := f.SetCellStyle(sheet, "A1", lastCol+"1", st.title); err != nil {
		return nil, err
	}

	for i, key := range columns {
		cell, _ := excelize.CoordinatesToCellName(i+1, headerRow)
		if err := f.SetCellValue(sheet, cell, i18n.Translate(lang, key)); err != nil {
			return nil, err
		}
	}
	first, _ := excelize.CoordinatesToCellName(1, headerRow)
	last, _ := excelize.CoordinatesToCellName(len(columns), headerRow)
	if err := f.SetCellStyle(sheet, first, last, st.header); err != nil {
		return nil, err
	}

	row := headerRow + 1
	for _, u := range d.Users {
		for _, day := range u.Days {
			values := []any{
				u.DisplayName,
				day.Label,
				day.WorkStart,
				day.BreakStart,
				day.BreakEnd,
				day.WorkEnd,
				day.WorkedMinutes,
				day.ExpectedMinutes,
				day.Diff,
				day.StatusLabel,
			}
			if err := setRow(f, sheet, row, values); err != nil {
				return nil, err
			}
			if day.DiffMinutes < 0 {
				cell, _ := excelize.CoordinatesToCellName(9, row)
				if err := f.SetCellStyle(sheet, cell, cell, st.negative); err != nil {
					return nil, err
				}
			}
			row++
		}

		totals := []any{
			u.DisplayName,
			i18n.Translate(lang, i18n.KeyWeekTotal),
			"", "", "", "",
			u.TotalWorkedMinutes,
			u.TotalExpectedMinutes,
			u.TotalDiff,
			"",
		}
		if err := setRow(f, sheet, row, totals); err != nil {
			return nil, err
		}
		a, _ := excelize.CoordinatesToCellName(1, row)
		b, _ := excelize.CoordinatesToCellName(len(columns), row)
		if err := f.SetCellStyle(sheet, a, b, st.total); err != nil {
			return nil, err
		}
		row += 2
	}

	if err := f.SetColWidth(sheet, "A", "A", 22); err != nil {
		return nil, err
	}
	if err := f.SetColWidth(sheet, "B", lastCol, 14); err != nil {
		return nil, err
	}
	if err := f.SetHeaderFooter(sheet, &excelize.HeaderFooterOptions{
		OddHeader: "&C" + title,
		OddFooter: "&R&P / &N",
	}); err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("write workbook: %w", err)
	}
	return buf.Bytes(), nil
}

func setRow(f *excelize.File, sheet string, row int, values []any) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	return f.SetSheetRow(sheet, cell, &values)
}

func newStyles(f *excelize.File) (styles, error) {
	var st styles
	var err error

	border := []excelize.Border{
		{Type: "left", Color: "000000", Style: 1},
		{Type: "top", Color: "000000", Style: 1},
		{Type: "right", Color: "000000", Style: 1},
		{Type: "bottom", Color: "000000", Style: 1},
	}

	if st.title, err = f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 14},
		Alignment: &excelize.Alignment{Horizontal: "left", Vertical: "center"},
	}); err != nil {
		return st, fmt.Errorf("title style: %w", err)
	}
	if st.header, err = f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"D9E1F2"}, Pattern: 1},
		Border:    border,
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center", WrapText: true},
	}); err != nil {
		return st, fmt.Errorf("header style: %w", err)
	}
	if st.total, err = f.NewStyle(&excelize.Style{
		Font:   &excelize.Font{Bold: true},
		Fill:   excelize.Fill{Type: "pattern", Color: []string{"F2F2F2"}, Pattern: 1},
		Border: border,
	}); err != nil {
		return st, fmt.Errorf("total style: %w", err)
	}
	if st.negative, err = f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Color: "C00000"},
	}); err != nil {
		return st, fmt.Errorf("negative style: %w", err)
	}
	return st, nil
}
