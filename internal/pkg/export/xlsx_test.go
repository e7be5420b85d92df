package export

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/cmlabs-hris/timesheet-go/internal/domain/timesheet"
	"github.com/cmlabs-hris/timesheet-go/internal/pkg/i18n"
)

func sampleDashboard() timesheet.WeeklyDashboard {
	return timesheet.WeeklyDashboard{
		WeekStart: "2024-01-08",
		WeekEnd:   "2024-01-14",
		Users: []timesheet.UserWeekReport{
			{
				Username:    "anna",
				DisplayName: "Anna",
				Days: []timesheet.DayReportRow{
					{
						Date: "2024-01-08", Label: "Mo 08.01.",
						WorkStart: "08:00", BreakStart: "12:00", BreakEnd: "12:30", WorkEnd: "16:30",
						WorkedMinutes: 480, ExpectedMinutes: 480, DiffMinutes: 0, Diff: "+0 min",
						Status: "complete", StatusLabel: "vollständig",
					},
					{
						Date: "2024-01-09", Label: "Di 09.01.",
						WorkStart: "08:00", BreakStart: "12:00", BreakEnd: "12:30", WorkEnd: "15:30",
						WorkedMinutes: 420, ExpectedMinutes: 480, DiffMinutes: -60, Diff: "-60 min",
						Status: "complete", StatusLabel: "vollständig",
					},
				},
				TotalWorkedMinutes:   900,
				TotalExpectedMinutes: 960,
				TotalDiffMinutes:     -60,
				TotalDiff:            "-60 min",
			},
		},
	}
}

func TestWeeklyXLSX(t *testing.T) {
	data, err := WeeklyXLSX(sampleDashboard(), i18n.German)
	require.NoError(t, err)
	require.NotEmpty(t, data)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer f.Close()

	sheet := SheetName("2024-01-08")
	assert.Equal(t, []string{sheet}, f.GetSheetList())

	title, err := f.GetCellValue(sheet, "A1")
	require.NoError(t, err)
	assert.Contains(t, title, i18n.Translate(i18n.German, i18n.KeyReportTitle))
	assert.Contains(t, title, "2024-01-14")

	header, err := f.GetCellValue(sheet, "B3")
	require.NoError(t, err)
	assert.Equal(t, i18n.Translate(i18n.German, i18n.KeyColumnDate), header)

	rows, err := f.GetRows(sheet)
	require.NoError(t, err)
	require.GreaterOrEqual(t, len(rows), 6)

	assert.Equal(t, "Anna", rows[3][0])
	assert.Equal(t, "Mo 08.01.", rows[3][1])
	assert.Equal(t, "480", rows[3][6])
	assert.Equal(t, "-60 min", rows[4][8])

	assert.Equal(t, i18n.Translate(i18n.German, i18n.KeyWeekTotal), rows[5][1])
	assert.Equal(t, "900", rows[5][6])
	assert.Equal(t, "-60 min", rows[5][8])
}

func TestWeeklyXLSX_NoUsers(t *testing.T) {
	d := sampleDashboard()
	d.Users = nil

	data, err := WeeklyXLSX(d, i18n.English)
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(SheetName(d.WeekStart))
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, "User", rows[2][0])
}

func TestFilename(t *testing.T) {
	assert.Equal(t, "timesheet_2024-01-08.xlsx", Filename("2024-01-08"))
}
