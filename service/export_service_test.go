package service

import (
	"bytes"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/Aashish23092/loan-appraisal/logger"
	"github.com/Aashish23092/loan-appraisal/utils"
)

func TestScheduleXLSX(t *testing.T) {
	app := testApplication()
	app.Identification.FullName = "Nguyễn Văn An"
	schedule, summary := Recalc(app)

	data, err := NewExportService(logger.NewNop(), 10).ScheduleXLSX(app, schedule, summary)
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{ScheduleSheet, SummarySheet}, f.GetSheetList())

	rows, err := f.GetRows(ScheduleSheet, excelize.Options{RawCellValue: true})
	require.NoError(t, err)
	require.Len(t, rows, len(schedule)+1)
	assert.Equal(t, []string{"Tháng", "Thanh toán", "Lãi", "Gốc", "Dư nợ"}, rows[0])
	assert.Equal(t, "1", rows[1][0])
	assert.Equal(t, strconv.FormatInt(roundVND(schedule[0].Payment), 10), rows[1][1])
	assert.Equal(t, strconv.FormatInt(roundVND(schedule[0].Interest), 10), rows[1][2])
	assert.Equal(t, "60", rows[60][0])
	assert.Equal(t, "0", rows[60][4])

	name, err := f.GetCellValue(SummarySheet, "B1")
	require.NoError(t, err)
	assert.Equal(t, "Nguyễn Văn An", name)

	ltv, err := f.GetCellValue(SummarySheet, "B9")
	require.NoError(t, err)
	assert.Equal(t, utils.FormatRatio(summary.LTVPercent), ltv)
}

func TestScheduleXLSXWithoutRatios(t *testing.T) {
	app := testApplication()
	app.Income.MonthlyIncome = 0
	schedule, summary := Recalc(app)

	data, err := NewExportService(logger.NewNop(), 10).ScheduleXLSX(app, schedule, summary)
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer f.Close()

	dsr, err := f.GetCellValue(SummarySheet, "B8")
	require.NoError(t, err)
	assert.Equal(t, utils.NoDataLabel, dsr)
}

func TestScheduleXLSXEmptySchedule(t *testing.T) {
	app := testApplication()
	schedule, summary := Recalc(app)
	schedule = schedule[:0]

	data, err := NewExportService(logger.NewNop(), 10).ScheduleXLSX(app, schedule, summary)
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(ScheduleSheet)
	require.NoError(t, err)
	assert.Len(t, rows, 1)
}

func TestReportDOCX(t *testing.T) {
	app := testApplication()
	app.Identification.FullName = "Nguyễn Văn An <Chủ hộ>"
	app.Identification.NationalID = "001085012345"
	app.Finance.Purpose = "Mua nhà & sửa chữa"
	schedule, summary := Recalc(app)

	data, err := NewExportService(logger.NewNop(), 10).ReportDOCX(app, schedule, summary)
	require.NoError(t, err)

	text, err := ExtractDocxText(data)
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(text, "Báo cáo thẩm định\n"))
	assert.Contains(t, text, "Họ tên: Nguyễn Văn An <Chủ hộ>")
	assert.Contains(t, text, "CCCD: 001085012345")
	assert.Contains(t, text, "Mục đích: Mua nhà & sửa chữa")
	assert.Contains(t, text, "Số tiền vay: 4.000.000.000 đ")
	assert.Contains(t, text, "LTV (ước tính): 80.00%")

	// Header row plus the first ten periods.
	assert.Contains(t, text, "\n10\n")
	assert.NotContains(t, text, "\n11\n")
}

func TestReportDOCXAllRows(t *testing.T) {
	app := testApplication()
	app.Finance.TermMonths = 12
	schedule, summary := Recalc(app)

	data, err := NewExportService(logger.NewNop(), 0).ReportDOCX(app, schedule, summary)
	require.NoError(t, err)

	text, err := ExtractDocxText(data)
	require.NoError(t, err)
	assert.Contains(t, text, "\n12\n")
	assert.Contains(t, text, "DSR (ước tính): ")
}

func TestWriteScheduleSheetReportsErrors(t *testing.T) {
	f := excelize.NewFile()
	defer f.Close()

	schedule, _ := Recalc(testApplication())
	err := writeScheduleSheet(f, schedule, 0, 0)
	assert.ErrorContains(t, err, "schedule header")

	err = setColWidths(f, "Sheet1", []colWidth{{"A", "A", excelize.MaxColumnWidth + 1}})
	assert.ErrorIs(t, err, excelize.ErrColumnWidth)
}
