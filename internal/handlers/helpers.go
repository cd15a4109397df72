package handlers

import (
	"net/http"

	"crudefi_backend/internal/middleware"
	"crudefi_backend/pkg/utils"

	"github.com/gin-gonic/gin"
)

// parseIDParam reads a positive int64 path parameter, responding 400 when it is malformed.
func parseIDParam(c *gin.Context, name, label string) (int64, bool) {
	id, err := utils.StrToInt64(c.Param(name))
	if err != nil || id <= 0 {
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid "+label+" ID format.", c.Param(name)))
		return 0, false
	}
	return id, true
}

// requireActor returns the authenticated operator or responds 401.
func requireActor(c *gin.Context) (middleware.Actor, bool) {
	actor, ok := middleware.CurrentActor(c)
	if !ok {
		utils.RespondWithError(c, utils.NewAPIError(http.StatusUnauthorized, utils.ErrCodeUnauthorized, "Authentication required.", ""))
		return middleware.Actor{}, false
	}
	return actor, true
}

// checkManagerID rejects a body manager_id that names someone other than the caller.
func checkManagerID(c *gin.Context, actor middleware.Actor, managerID *int64) bool {
	if managerID != nil && *managerID != actor.UserID {
		utils.RespondWithError(c, utils.NewAPIError(http.StatusForbidden, utils.ErrCodeForbidden,
			"manager_id does not match the authenticated user.", "manager_id "+utils.Int64ToStr(*managerID)))
		return false
	}
	return true
}
