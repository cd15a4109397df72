package services

import (
	"fmt"
	"io"

	"crudefi_backend/internal/models"

	"github.com/jung-kurt/gofpdf"
)

const pdfTitle = "CrudeFi"

// RenderMonthlyReportPDF writes the monthly salary roll-up as a one-table A4 document.
func RenderMonthlyReportPDF(report *models.MonthlySalaryReport, w io.Writer) error {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle(fmt.Sprintf("%s salary report %s", pdfTitle, report.Month), false)
	pdf.AddPage()
	pdf.SetFont("Helvetica", "B", 16)
	pdf.Cell(0, 10, fmt.Sprintf("Salary report %s", report.Month))
	pdf.Ln(14)

	widths := []float64{60, 45, 25, 25, 35}
	headers := []string{"Staff", "Role", "Shifts", "Hours", "Amount"}
	pdf.SetFont("Helvetica", "B", 11)
	for i, h := range headers {
		pdf.CellFormat(widths[i], 8, h, "1", 0, "C", false, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Helvetica", "", 10)
	for _, row := range report.Rows {
		pdf.CellFormat(widths[0], 7, row.FullName, "1", 0, "L", false, 0, "")
		pdf.CellFormat(widths[1], 7, row.Role, "1", 0, "L", false, 0, "")
		pdf.CellFormat(widths[2], 7, fmt.Sprintf("%d", row.ShiftCount), "1", 0, "R", false, 0, "")
		pdf.CellFormat(widths[3], 7, row.TotalHours.StringFixed(2), "1", 0, "R", false, 0, "")
		pdf.CellFormat(widths[4], 7, row.TotalAmount.StringFixed(2), "1", 0, "R", false, 0, "")
		pdf.Ln(-1)
	}

	pdf.SetFont("Helvetica", "B", 10)
	pdf.CellFormat(widths[0]+widths[1], 8, "Total", "1", 0, "L", false, 0, "")
	pdf.CellFormat(widths[2], 8, fmt.Sprintf("%d", report.ShiftCount), "1", 0, "R", false, 0, "")
	pdf.CellFormat(widths[3], 8, report.TotalHours.StringFixed(2), "1", 0, "R", false, 0, "")
	pdf.CellFormat(widths[4], 8, report.TotalAmount.StringFixed(2), "1", 0, "R", false, 0, "")
	pdf.Ln(-1)

	return pdf.Output(w)
}

// RenderPayslipPDF writes a single salary record as a payslip.
func RenderPayslipPDF(record *models.SalaryRecord, w io.Writer) error {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle(fmt.Sprintf("%s payslip %d", pdfTitle, record.RecordID), false)
	pdf.AddPage()
	pdf.SetFont("Helvetica", "B", 16)
	pdf.Cell(40, 10, "Payslip")
	pdf.Ln(12)

	pdf.SetFont("Helvetica", "", 12)
	line := func(label, value string) {
		pdf.Cell(0, 8, fmt.Sprintf("%s: %s", label, value))
		pdf.Ln(7)
	}
	line("Record", fmt.Sprintf("%d", record.RecordID))
	line("Staff", derefOr(record.StaffName, fmt.Sprintf("#%d", record.StaffID)))
	line("Role", derefOr(record.Role, "-"))
	line("Shift date", derefOr(record.ShiftDate, "-"))
	pdf.Ln(3)
	line("Hours", record.TotalHours.StringFixed(2))
	line("Hourly rate", record.HourlyRate.StringFixed(2))
	line("Amount", record.TotalAmount.StringFixed(2))
	line("Status", record.PaymentStatus)
	if record.DeductionReason != nil {
		line("Deduction reason", *record.DeductionReason)
	}

	return pdf.Output(w)
}

func derefOr(s *string, fallback string) string {
	if s == nil || *s == "" {
		return fallback
	}
	return *s
}
