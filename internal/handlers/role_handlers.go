package handlers

import (
	"errors"
	"net/http"

	"crudefi_backend/internal/models"
	"crudefi_backend/internal/services"
	"crudefi_backend/pkg/utils"

	"github.com/gin-gonic/gin"
)

// RoleHandler exposes the role registry.
type RoleHandler struct {
	roleService services.RoleService
}

func NewRoleHandler(rs services.RoleService) *RoleHandler {
	return &RoleHandler{roleService: rs}
}

func (h *RoleHandler) CreateRole(c *gin.Context) {
	var req services.CreateRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.LogWarn(err, "CreateRole: Failed to bind JSON")
		utils.RespondValidationFailed(c, err.Error())
		return
	}

	role, err := h.roleService.CreateRole(c.Request.Context(), req)
	if err != nil {
		if errors.Is(err, services.ErrRoleExists) {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusConflict, utils.ErrCodeConflict, "Role already exists.", err.Error()))
		} else if errors.Is(err, services.ErrInvalidRate) || errors.Is(err, services.ErrValidation) {
			utils.RespondValidationFailed(c, err.Error())
		} else {
			utils.LogError(err, "CreateRole: Error from roleService.CreateRole")
			utils.RespondInternalError(c, "Failed to create role.")
		}
		return
	}
	utils.RespondSuccess(c, http.StatusCreated, role, "Role created")
}

func (h *RoleHandler) GetRoles(c *gin.Context) {
	roles, err := h.roleService.GetRoles(c.Request.Context())
	if err != nil {
		utils.LogError(err, "GetRoles: Error from roleService.GetRoles")
		utils.RespondInternalError(c, "Failed to fetch roles.")
		return
	}
	if roles == nil {
		roles = []models.Role{}
	}
	utils.RespondSuccess(c, http.StatusOK, roles)
}

func (h *RoleHandler) GetRole(c *gin.Context) {
	role, err := h.roleService.GetRole(c.Request.Context(), c.Param("role_name"))
	if err != nil {
		if errors.Is(err, services.ErrRoleNotFound) {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusNotFound, utils.ErrCodeNotFound, "Role not found.", c.Param("role_name")))
		} else {
			utils.LogError(err, "GetRole: Error from roleService.GetRole")
			utils.RespondInternalError(c, "Failed to fetch role.")
		}
		return
	}
	utils.RespondSuccess(c, http.StatusOK, role)
}

// UpdateRoleRate changes the daily rate used by shifts opened from now on.
func (h *RoleHandler) UpdateRoleRate(c *gin.Context) {
	var req services.UpdateRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.LogWarn(err, "UpdateRoleRate: Failed to bind JSON")
		utils.RespondValidationFailed(c, err.Error())
		return
	}

	role, err := h.roleService.UpdateRoleRate(c.Request.Context(), c.Param("role_name"), req)
	if err != nil {
		if errors.Is(err, services.ErrRoleNotFound) {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusNotFound, utils.ErrCodeNotFound, "Role not found to update.", c.Param("role_name")))
		} else if errors.Is(err, services.ErrInvalidRate) {
			utils.RespondValidationFailed(c, err.Error())
		} else {
			utils.LogError(err, "UpdateRoleRate: Error from roleService.UpdateRoleRate")
			utils.RespondInternalError(c, "Failed to update role.")
		}
		return
	}
	utils.RespondSuccess(c, http.StatusOK, role, "Role rate updated")
}

func (h *RoleHandler) DeleteRole(c *gin.Context) {
	if err := h.roleService.DeleteRole(c.Request.Context(), c.Param("role_name")); err != nil {
		if errors.Is(err, services.ErrRoleNotFound) {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusNotFound, utils.ErrCodeNotFound, "Role not found to delete.", c.Param("role_name")))
		} else if errors.Is(err, services.ErrRoleInUse) {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusConflict, utils.ErrCodeConflict, "Role is used by an open shift.", err.Error()))
		} else {
			utils.LogError(err, "DeleteRole: Error from roleService.DeleteRole")
			utils.RespondInternalError(c, "Failed to delete role.")
		}
		return
	}
	utils.RespondSuccess(c, http.StatusOK, nil, "Role deleted successfully")
}
