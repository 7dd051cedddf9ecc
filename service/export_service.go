package service

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/Aashish23092/loan-appraisal/dto"
	"github.com/Aashish23092/loan-appraisal/logger"
	"github.com/Aashish23092/loan-appraisal/utils"
)

const (
	ScheduleSheet = "Lịch trả nợ"
	SummarySheet  = "Tóm tắt"

	reportTitle = "Báo cáo thẩm định"
)

var scheduleHeaders = []string{"Tháng", "Thanh toán", "Lãi", "Gốc", "Dư nợ"}

// ExportService serializes an appraisal into the downloadable formats.
type ExportService struct {
	log        *logger.Logger
	reportRows int
}

// NewExportService creates an ExportService whose report lists the first
// reportRows schedule rows; reportRows <= 0 lists all of them.
func NewExportService(log *logger.Logger, reportRows int) *ExportService {
	return &ExportService{log: log.With("service", "ExportService"), reportRows: reportRows}
}

// ScheduleXLSX returns an XLSX workbook (as bytes) with the full schedule and
// a summary sheet. Values are rounded to whole VND here, not in the schedule.
func (s *ExportService) ScheduleXLSX(app dto.LoanApplication, schedule []dto.AmortizationRow, summary dto.Summary) ([]byte, error) {
	start := time.Now()

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", ScheduleSheet); err != nil {
		return nil, fmt.Errorf("rename sheet: %w", err)
	}

	headerStyle, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return nil, fmt.Errorf("header style: %w", err)
	}
	moneyStyle, err := f.NewStyle(&excelize.Style{NumFmt: 3}) // #,##0
	if err != nil {
		return nil, fmt.Errorf("money style: %w", err)
	}

	if err := writeScheduleSheet(f, schedule, headerStyle, moneyStyle); err != nil {
		return nil, err
	}

	if _, err := f.NewSheet(SummarySheet); err != nil {
		return nil, fmt.Errorf("summary sheet: %w", err)
	}
	summaryRows := [][]interface{}{
		{"Họ và tên", app.Identification.FullName},
		{"CCCD/CMND", app.Identification.NationalID},
		{"Số tiền vay", summary.Principal},
		{"Lãi suất (%/năm)", app.Finance.AnnualRatePercent},
		{"Thời hạn (tháng)", app.Finance.TermMonths},
		{"Thanh toán hàng tháng", roundVND(summary.MonthlyPayment)},
		{"Tổng tiền lãi", roundVND(summary.TotalInterest)},
		{"DSR", utils.FormatRatio(summary.DSRPercent)},
		{"LTV", utils.FormatRatio(summary.LTVPercent)},
	}
	for i, values := range summaryRows {
		if err := f.SetSheetRow(SummarySheet, fmt.Sprintf("A%d", i+1), &values); err != nil {
			return nil, fmt.Errorf("summary row %d: %w", i+1, err)
		}
	}
	if err := f.SetCellStyle(SummarySheet, "A1", fmt.Sprintf("A%d", len(summaryRows)), headerStyle); err != nil {
		return nil, fmt.Errorf("summary style: %w", err)
	}
	if err := setColWidths(f, SummarySheet, []colWidth{{"A", "A", 26}, {"B", "B", 24}}); err != nil {
		return nil, err
	}

	f.SetActiveSheet(0)

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("xlsx write: %w", err)
	}

	s.log.Info("export.xlsx.ok",
		"rows", len(schedule),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return buf.Bytes(), nil
}

// ReportDOCX returns a Word report with the borrower, the loan terms, the risk
// ratios and the head of the schedule.
func (s *ExportService) ReportDOCX(app dto.LoanApplication, schedule []dto.AmortizationRow, summary dto.Summary) ([]byte, error) {
	start := time.Now()

	var body strings.Builder
	writeDocxHeading(&body, reportTitle)
	writeDocxParagraph(&body, "Họ tên: "+app.Identification.FullName)
	writeDocxParagraph(&body, "CCCD: "+app.Identification.NationalID)
	writeDocxParagraph(&body, "Địa chỉ: "+app.Identification.Address)
	writeDocxParagraph(&body, "Mục đích: "+app.Finance.Purpose)
	writeDocxParagraph(&body, "Số tiền vay: "+utils.FormatVND(summary.Principal))
	writeDocxParagraph(&body, fmt.Sprintf("Lãi suất: %.2f%%/năm, thời hạn %d tháng", app.Finance.AnnualRatePercent, app.Finance.TermMonths))
	writeDocxParagraph(&body, "Thanh toán hàng tháng: "+utils.FormatVNDFloat(summary.MonthlyPayment))
	writeDocxParagraph(&body, "DSR (ước tính): "+utils.FormatRatio(summary.DSRPercent))
	writeDocxParagraph(&body, "LTV (ước tính): "+utils.FormatRatio(summary.LTVPercent))

	rows := make([][]string, 0, len(schedule)+1)
	rows = append(rows, []string{"Tháng", "TT", "Lãi", "Gốc", "Dư"})
	for _, r := range headRows(schedule, s.reportRows) {
		rows = append(rows, []string{
			strconv.Itoa(r.Period),
			strconv.FormatInt(roundVND(r.Payment), 10),
			strconv.FormatInt(roundVND(r.Interest), 10),
			strconv.FormatInt(roundVND(r.Principal), 10),
			strconv.FormatInt(roundVND(r.Balance), 10),
		})
	}
	writeDocxTable(&body, rows)

	out, err := packDocx(body.String())
	if err != nil {
		return nil, fmt.Errorf("docx write: %w", err)
	}

	s.log.Info("export.docx.ok",
		"rows", len(rows)-1,
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return out, nil
}

func writeScheduleSheet(f *excelize.File, schedule []dto.AmortizationRow, headerStyle, moneyStyle int) error {
	header := make([]interface{}, len(scheduleHeaders))
	for i, h := range scheduleHeaders {
		header[i] = h
	}
	if err := f.SetSheetRow(ScheduleSheet, "A1", &header); err != nil {
		return fmt.Errorf("schedule header: %w", err)
	}
	if err := f.SetCellStyle(ScheduleSheet, "A1", "E1", headerStyle); err != nil {
		return fmt.Errorf("header style: %w", err)
	}

	for i, r := range schedule {
		values := []interface{}{
			r.Period,
			roundVND(r.Payment),
			roundVND(r.Interest),
			roundVND(r.Principal),
			roundVND(r.Balance),
		}
		if err := f.SetSheetRow(ScheduleSheet, fmt.Sprintf("A%d", i+2), &values); err != nil {
			return fmt.Errorf("schedule row %d: %w", r.Period, err)
		}
	}
	if len(schedule) > 0 {
		last := fmt.Sprintf("E%d", len(schedule)+1)
		if err := f.SetCellStyle(ScheduleSheet, "B2", last, moneyStyle); err != nil {
			return fmt.Errorf("money style: %w", err)
		}
	}
	return setColWidths(f, ScheduleSheet, []colWidth{{"A", "A", 8}, {"B", "E", 18}})
}

type colWidth struct {
	start, end string
	width      float64
}

func setColWidths(f *excelize.File, sheet string, widths []colWidth) error {
	for _, w := range widths {
		if err := f.SetColWidth(sheet, w.start, w.end, w.width); err != nil {
			return fmt.Errorf("column width %s:%s on %s: %w", w.start, w.end, sheet, err)
		}
	}
	return nil
}

func roundVND(v float64) int64 {
	return int64(math.Round(v))
}

// WordprocessingML

const (
	docxContentTypes = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<Types xmlns="http://schemas.openxmlformats.org/package/2006/content-types">` +
		`<Default Extension="rels" ContentType="application/vnd.openxmlformats-package.relationships+xml"/>` +
		`<Default Extension="xml" ContentType="application/xml"/>` +
		`<Override PartName="/word/document.xml" ContentType="application/vnd.openxmlformats-officedocument.wordprocessingml.document.main+xml"/>` +
		`</Types>`

	docxRels = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">` +
		`<Relationship Id="rId1" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/officeDocument" Target="word/document.xml"/>` +
		`</Relationships>`

	docxDocumentOpen = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main"><w:body>`

	docxDocumentClose = `<w:sectPr><w:pgSz w:w="11906" w:h="16838"/></w:sectPr></w:body></w:document>`
)

func packDocx(body string) ([]byte, error) {
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)

	parts := []struct {
		name    string
		content string
	}{
		{"[Content_Types].xml", docxContentTypes},
		{"_rels/.rels", docxRels},
		{docxBodyPart, docxDocumentOpen + body + docxDocumentClose},
	}
	for _, p := range parts {
		w, err := zw.Create(p.name)
		if err != nil {
			return nil, err
		}
		if _, err := w.Write([]byte(p.content)); err != nil {
			return nil, err
		}
	}
	if err := zw.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func writeDocxHeading(b *strings.Builder, text string) {
	b.WriteString(`<w:p><w:pPr><w:jc w:val="center"/></w:pPr><w:r><w:rPr><w:b/><w:sz w:val="32"/></w:rPr>`)
	writeDocxText(b, text)
	b.WriteString(`</w:r></w:p>`)
}

func writeDocxParagraph(b *strings.Builder, text string) {
	b.WriteString(`<w:p><w:r>`)
	writeDocxText(b, text)
	b.WriteString(`</w:r></w:p>`)
}

func writeDocxTable(b *strings.Builder, rows [][]string) {
	b.WriteString(`<w:tbl><w:tblPr><w:tblW w:w="0" w:type="auto"/><w:tblBorders>` +
		`<w:top w:val="single" w:sz="4"/><w:left w:val="single" w:sz="4"/>` +
		`<w:bottom w:val="single" w:sz="4"/><w:right w:val="single" w:sz="4"/>` +
		`<w:insideH w:val="single" w:sz="4"/><w:insideV w:val="single" w:sz="4"/>` +
		`</w:tblBorders></w:tblPr>`)
	for _, row := range rows {
		b.WriteString(`<w:tr>`)
		for _, cell := range row {
			b.WriteString(`<w:tc><w:p><w:r>`)
			writeDocxText(b, cell)
			b.WriteString(`</w:r></w:p></w:tc>`)
		}
		b.WriteString(`</w:tr>`)
	}
	b.WriteString(`</w:tbl>`)
}

func writeDocxText(b *strings.Builder, text string) {
	b.WriteString(`<w:t xml:space="preserve">`)
	_ = xml.EscapeText(b, []byte(text))
	b.WriteString(`</w:t>`)
}
