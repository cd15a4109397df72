package handlers

import (
	"bytes"
	"errors"
	"fmt"
	"net/http"

	"crudefi_backend/internal/models"
	"crudefi_backend/internal/services"
	"crudefi_backend/pkg/utils"

	"github.com/gin-gonic/gin"
)

const contentTypePDF = "application/pdf"

// SalaryHandler exposes the salary ledger.
type SalaryHandler struct {
	salaryService services.SalaryService
}

func NewSalaryHandler(ss services.SalaryService) *SalaryHandler {
	return &SalaryHandler{salaryService: ss}
}

func respondSalaryError(c *gin.Context, err error, op string) {
	switch {
	case errors.Is(err, services.ErrSalaryRecordNotFound):
		utils.RespondWithError(c, utils.NewAPIError(http.StatusNotFound, utils.ErrCodeNotFound, "Salary record not found.", err.Error()))
	case errors.Is(err, services.ErrInvalidMonth), errors.Is(err, services.ErrValidation):
		utils.RespondValidationFailed(c, err.Error())
	default:
		utils.LogError(err, op+": unexpected error")
		utils.RespondInternalError(c, "Failed to process salary request.")
	}
}

// GetSalaryRecords lists salary records by status, staff and month.
func (h *SalaryHandler) GetSalaryRecords(c *gin.Context) {
	page, pageSize := utils.PageParams(c.Query("page"), c.Query("page_size"))
	staffID, err := utils.OptionalInt64(c.Query("staff_id"))
	if err != nil {
		utils.RespondValidationFailed(c, "staff_id must be a number")
		return
	}
	filters := models.SalaryFilters{
		Status:   c.Query("status"),
		StaffID:  staffID,
		Month:    c.Query("month"),
		Page:     page,
		PageSize: pageSize,
	}

	records, total, err := h.salaryService.GetSalaryRecords(c.Request.Context(), filters)
	if err != nil {
		respondSalaryError(c, err, "GetSalaryRecords")
		return
	}
	if records == nil {
		records = []models.SalaryRecord{}
	}
	utils.RespondPage(c, records, total, page, pageSize)
}

func (h *SalaryHandler) GetSalaryRecordByID(c *gin.Context) {
	recordID, ok := parseIDParam(c, "id", "salary record")
	if !ok {
		return
	}
	record, err := h.salaryService.GetSalaryRecordByID(c.Request.Context(), recordID)
	if err != nil {
		respondSalaryError(c, err, "GetSalaryRecordByID")
		return
	}
	utils.RespondSuccess(c, http.StatusOK, record)
}

// MarkPaid settles a pending salary record.
func (h *SalaryHandler) MarkPaid(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}
	recordID, ok := parseIDParam(c, "id", "salary record")
	if !ok {
		return
	}
	record, err := h.salaryService.MarkPaid(c.Request.Context(), actor.UserID, recordID)
	if err != nil {
		respondSalaryError(c, err, "MarkPaid")
		return
	}
	utils.RespondSuccess(c, http.StatusOK, record, "Salary marked as paid")
}

// MonthlyReport returns per-staff totals for ?month=YYYY-MM.
func (h *SalaryHandler) MonthlyReport(c *gin.Context) {
	report, err := h.salaryService.MonthlyReport(c.Request.Context(), c.Query("month"))
	if err != nil {
		respondSalaryError(c, err, "MonthlyReport")
		return
	}
	if report.Rows == nil {
		report.Rows = []models.MonthlySalaryRow{}
	}
	utils.RespondSuccess(c, http.StatusOK, report)
}

// ExportMonthlyReport renders the monthly report as a PDF download.
func (h *SalaryHandler) ExportMonthlyReport(c *gin.Context) {
	month := c.Query("month")
	var buf bytes.Buffer
	if err := h.salaryService.WriteMonthlyReportPDF(c.Request.Context(), month, &buf); err != nil {
		respondSalaryError(c, err, "ExportMonthlyReport")
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="salary-%s.pdf"`, month))
	c.Data(http.StatusOK, contentTypePDF, buf.Bytes())
}

// Payslip renders one salary record as a PDF.
func (h *SalaryHandler) Payslip(c *gin.Context) {
	recordID, ok := parseIDParam(c, "id", "salary record")
	if !ok {
		return
	}
	var buf bytes.Buffer
	if err := h.salaryService.WritePayslipPDF(c.Request.Context(), recordID, &buf); err != nil {
		respondSalaryError(c, err, "Payslip")
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="payslip-%d.pdf"`, recordID))
	c.Data(http.StatusOK, contentTypePDF, buf.Bytes())
}
