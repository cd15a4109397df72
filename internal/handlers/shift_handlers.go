package handlers

import (
	"errors"
	"io"
	"net/http"

	"crudefi_backend/internal/models"
	"crudefi_backend/internal/services"
	"crudefi_backend/pkg/utils"

	"github.com/gin-gonic/gin"
)

// ShiftHandler exposes the shift lifecycle.
type ShiftHandler struct {
	shiftService services.ShiftService
}

// NewShiftHandler creates a new ShiftHandler.
func NewShiftHandler(ss services.ShiftService) *ShiftHandler {
	return &ShiftHandler{shiftService: ss}
}

// respondShiftError maps shift lifecycle errors onto HTTP statuses.
func respondShiftError(c *gin.Context, err error, op string) {
	switch {
	case errors.Is(err, services.ErrStaffNotFound):
		utils.RespondWithError(c, utils.NewAPIError(http.StatusNotFound, utils.ErrCodeNotFound, "Staff member not found.", err.Error()))
	case errors.Is(err, services.ErrRoleNotFound):
		utils.RespondWithError(c, utils.NewAPIError(http.StatusNotFound, utils.ErrCodeNotFound, "Role not found.", err.Error()))
	case errors.Is(err, services.ErrActorNotFound):
		utils.RespondWithError(c, utils.NewAPIError(http.StatusUnauthorized, utils.ErrCodeUnauthorized, "Authenticated user no longer exists.", err.Error()))
	case errors.Is(err, services.ErrShiftNotFound):
		utils.RespondWithError(c, utils.NewAPIError(http.StatusNotFound, utils.ErrCodeNotFound, "Shift not found.", err.Error()))
	case errors.Is(err, services.ErrShiftAlreadyOpen):
		utils.RespondWithError(c, utils.NewAPIError(http.StatusConflict, utils.ErrCodeConflict, "Staff member already has an open shift.", err.Error()))
	case errors.Is(err, services.ErrShiftNotOpen):
		utils.RespondWithError(c, utils.NewAPIError(http.StatusConflict, utils.ErrCodeConflict, "Shift is already closed.", err.Error()))
	case errors.Is(err, services.ErrSalaryRecordExists):
		utils.RespondWithError(c, utils.NewAPIError(http.StatusConflict, utils.ErrCodeConflict, "Salary record already exists for this shift.", err.Error()))
	case errors.Is(err, services.ErrDeductionReasonRequired):
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Deduction reason is required for shifts shorter than 10 hours.", err.Error()))
	case errors.Is(err, services.ErrShiftTimeFormat), errors.Is(err, services.ErrShiftValidation), errors.Is(err, services.ErrValidation):
		utils.RespondValidationFailed(c, err.Error())
	default:
		utils.LogError(err, op+": unexpected error")
		utils.RespondInternalError(c, "Failed to process shift.")
		return
	}
	utils.LogWarn(err, op+": request rejected")
}

// OpenShift starts a shift, snapshotting the role's current daily rate.
func (h *ShiftHandler) OpenShift(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}
	var req services.OpenShiftRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.LogWarn(err, "OpenShift: Failed to bind JSON")
		utils.RespondValidationFailed(c, err.Error())
		return
	}
	if !checkManagerID(c, actor, req.ManagerID) {
		return
	}

	shift, err := h.shiftService.OpenShift(c.Request.Context(), actor.UserID, req)
	if err != nil {
		respondShiftError(c, err, "OpenShift")
		return
	}
	utils.RespondSuccess(c, http.StatusCreated, shift, "Shift opened")
}

// CloseShift ends an open shift and records its salary.
func (h *ShiftHandler) CloseShift(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}
	shiftID, ok := parseIDParam(c, "shift_id", "shift")
	if !ok {
		return
	}
	var req services.CloseShiftRequest
	// An empty body, chunked or not, closes the shift now with no deduction reason.
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		utils.LogWarn(err, "CloseShift: Failed to bind JSON")
		utils.RespondValidationFailed(c, err.Error())
		return
	}
	if !checkManagerID(c, actor, req.ManagerID) {
		return
	}

	result, err := h.shiftService.CloseShift(c.Request.Context(), actor.UserID, shiftID, req)
	if err != nil {
		respondShiftError(c, err, "CloseShift")
		return
	}
	message := "Shift closed and salary recorded"
	if result.SalaryRecord == nil {
		message = "Shift closed; worked less than 1 hour, no salary recorded"
	}
	utils.RespondSuccess(c, http.StatusOK, result, message)
}

func (h *ShiftHandler) GetShiftByID(c *gin.Context) {
	shiftID, ok := parseIDParam(c, "shift_id", "shift")
	if !ok {
		return
	}
	shift, err := h.shiftService.GetShiftByID(c.Request.Context(), shiftID)
	if err != nil {
		respondShiftError(c, err, "GetShiftByID")
		return
	}
	utils.RespondSuccess(c, http.StatusOK, shift)
}

// GetShifts lists shifts filtered by date, status, role, staff name and staff id.
func (h *ShiftHandler) GetShifts(c *gin.Context) {
	page, pageSize := utils.PageParams(c.Query("page"), c.Query("page_size"))
	staffID, err := utils.OptionalInt64(c.Query("staff_id"))
	if err != nil {
		utils.RespondValidationFailed(c, "staff_id must be a number")
		return
	}
	filters := models.ShiftFilters{
		Date:      c.Query("date"),
		Status:    c.Query("status"),
		Role:      c.Query("role"),
		StaffName: c.Query("staff_name"),
		StaffID:   staffID,
		Page:      page,
		PageSize:  pageSize,
	}
	h.listShifts(c, filters)
}

// GetOpenShifts lists shifts that have not been closed yet.
func (h *ShiftHandler) GetOpenShifts(c *gin.Context) {
	page, pageSize := utils.PageParams(c.Query("page"), c.Query("page_size"))
	h.listShifts(c, models.ShiftFilters{Status: models.ShiftStatusOpen, Page: page, PageSize: pageSize})
}

func (h *ShiftHandler) listShifts(c *gin.Context, filters models.ShiftFilters) {
	shifts, total, err := h.shiftService.GetShifts(c.Request.Context(), filters)
	if err != nil {
		respondShiftError(c, err, "GetShifts")
		return
	}
	if shifts == nil {
		shifts = []models.Shift{}
	}
	utils.RespondPage(c, shifts, total, filters.Page, filters.PageSize)
}

func (h *ShiftHandler) GetShiftStats(c *gin.Context) {
	stats, err := h.shiftService.GetShiftStats(c.Request.Context())
	if err != nil {
		utils.LogError(err, "GetShiftStats: Error from shiftService.GetShiftStats")
		utils.RespondInternalError(c, "Failed to fetch shift stats.")
		return
	}
	utils.RespondSuccess(c, http.StatusOK, stats)
}
