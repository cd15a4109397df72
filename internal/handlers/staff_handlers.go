package handlers

import (
	"errors"
	"net/http"

	"crudefi_backend/internal/models"
	"crudefi_backend/internal/services"
	"crudefi_backend/pkg/utils"

	"github.com/gin-gonic/gin"
)

// StaffHandler holds the staff service.
type StaffHandler struct {
	staffService services.StaffService
}

// NewStaffHandler creates a new StaffHandler.
func NewStaffHandler(ss services.StaffService) *StaffHandler {
	return &StaffHandler{staffService: ss}
}

// CreateStaff handles the creation of a new staff member.
func (h *StaffHandler) CreateStaff(c *gin.Context) {
	var req services.CreateStaffRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.LogWarn(err, "CreateStaff: Failed to bind JSON")
		utils.RespondValidationFailed(c, err.Error())
		return
	}

	staff, err := h.staffService.CreateStaff(c.Request.Context(), req)
	if err != nil {
		if errors.Is(err, services.ErrNationalIDExists) {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusConflict, utils.ErrCodeConflict, "National ID is already registered.", err.Error()))
		} else if errors.Is(err, services.ErrStaffDataValidation) {
			utils.RespondValidationFailed(c, err.Error())
		} else {
			utils.LogError(err, "CreateStaff: Error from staffService.CreateStaff")
			utils.RespondInternalError(c, "Failed to create staff member.")
		}
		return
	}
	utils.RespondSuccess(c, http.StatusCreated, staff, "Staff member created")
}

// GetStaff handles fetching staff members with pagination and search.
func (h *StaffHandler) GetStaff(c *gin.Context) {
	page, pageSize := utils.PageParams(c.Query("page"), c.Query("page_size"))
	search := utils.NewNullString(c.Query("search"))

	staff, total, err := h.staffService.GetStaff(c.Request.Context(), page, pageSize, search)
	if err != nil {
		utils.LogError(err, "GetStaff: Error from staffService.GetStaff")
		utils.RespondInternalError(c, "Failed to fetch staff members.")
		return
	}
	if staff == nil {
		staff = []models.Staff{}
	}
	utils.RespondPage(c, staff, total, page, pageSize)
}

// GetStaffByID handles fetching a single staff member.
func (h *StaffHandler) GetStaffByID(c *gin.Context) {
	staffID, ok := parseIDParam(c, "id", "staff")
	if !ok {
		return
	}

	staff, err := h.staffService.GetStaffByID(c.Request.Context(), staffID)
	if err != nil {
		if errors.Is(err, services.ErrStaffNotFound) {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusNotFound, utils.ErrCodeNotFound, "Staff member not found.", err.Error()))
		} else {
			utils.LogError(err, "GetStaffByID: Error from staffService.GetStaffByID")
			utils.RespondInternalError(c, "Failed to fetch staff member.")
		}
		return
	}
	utils.RespondSuccess(c, http.StatusOK, staff)
}

// UpdateStaff handles a partial update of a staff member.
func (h *StaffHandler) UpdateStaff(c *gin.Context) {
	staffID, ok := parseIDParam(c, "id", "staff")
	if !ok {
		return
	}

	var req services.UpdateStaffRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.LogWarn(err, "UpdateStaff: Failed to bind JSON")
		utils.RespondValidationFailed(c, err.Error())
		return
	}

	staff, err := h.staffService.UpdateStaff(c.Request.Context(), staffID, req)
	if err != nil {
		if errors.Is(err, services.ErrStaffNotFound) {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusNotFound, utils.ErrCodeNotFound, "Staff member not found to update.", err.Error()))
		} else if errors.Is(err, services.ErrNationalIDExists) {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusConflict, utils.ErrCodeConflict, "National ID is already registered.", err.Error()))
		} else if errors.Is(err, services.ErrStaffDataValidation) {
			utils.RespondValidationFailed(c, err.Error())
		} else {
			utils.LogError(err, "UpdateStaff: Error from staffService.UpdateStaff")
			utils.RespondInternalError(c, "Failed to update staff member.")
		}
		return
	}
	utils.RespondSuccess(c, http.StatusOK, staff, "Staff member updated")
}

// DeleteStaff handles deleting a staff member with no shift history.
func (h *StaffHandler) DeleteStaff(c *gin.Context) {
	staffID, ok := parseIDParam(c, "id", "staff")
	if !ok {
		return
	}

	if err := h.staffService.DeleteStaff(c.Request.Context(), staffID); err != nil {
		if errors.Is(err, services.ErrStaffNotFound) {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusNotFound, utils.ErrCodeNotFound, "Staff member not found to delete.", err.Error()))
		} else if errors.Is(err, services.ErrStaffInUse) {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusConflict, utils.ErrCodeConflict, "Staff member cannot be deleted as they are referenced in other records.", err.Error()))
		} else {
			utils.LogError(err, "DeleteStaff: Error from staffService.DeleteStaff")
			utils.RespondInternalError(c, "Failed to delete staff member.")
		}
		return
	}
	utils.RespondSuccess(c, http.StatusOK, nil, "Staff member deleted successfully")
}
