package router

import (
	"crudefi_backend/internal/handlers"
	"crudefi_backend/internal/middleware"
	"crudefi_backend/internal/models"

	"github.com/gin-gonic/gin"
)

// Access role sets used by the route groups.
var (
	adminOnlyRoles = []string{models.AccessRoleAdmin}
	shiftOperators = []string{models.AccessRoleAdmin, models.AccessRoleManager}
)

// SetupStaffRoutes sets up the staff directory routes. Writes are Admin only.
func SetupStaffRoutes(authenticatedGroup *gin.RouterGroup, staffHandler *handlers.StaffHandler) {
	staffRoutes := authenticatedGroup.Group("/staff")
	{
		staffRoutes.GET("", staffHandler.GetStaff)
		staffRoutes.GET("/:id", staffHandler.GetStaffByID)

		adminOnly := staffRoutes.Group("", middleware.RoleAuthMiddleware(adminOnlyRoles...))
		adminOnly.POST("", staffHandler.CreateStaff)
		adminOnly.PUT("/:id", staffHandler.UpdateStaff)
		adminOnly.DELETE("/:id", staffHandler.DeleteStaff)
	}
}

// SetupRoleRoutes sets up the role registry routes. Writes are Admin only.
func SetupRoleRoutes(authenticatedGroup *gin.RouterGroup, roleHandler *handlers.RoleHandler) {
	roleRoutes := authenticatedGroup.Group("/roles")
	{
		roleRoutes.GET("", roleHandler.GetRoles)
		roleRoutes.GET("/:role_name", roleHandler.GetRole)

		adminOnly := roleRoutes.Group("", middleware.RoleAuthMiddleware(adminOnlyRoles...))
		adminOnly.POST("", roleHandler.CreateRole)
		adminOnly.PUT("/:role_name", roleHandler.UpdateRoleRate)
		adminOnly.DELETE("/:role_name", roleHandler.DeleteRole)
	}
}

// SetupShiftRoutes sets up shift lifecycle routes. Opening and closing needs Admin or Manager.
func SetupShiftRoutes(authenticatedGroup *gin.RouterGroup, shiftHandler *handlers.ShiftHandler) {
	shiftRoutes := authenticatedGroup.Group("/shifts")
	{
		shiftRoutes.GET("", shiftHandler.GetShifts)
		shiftRoutes.GET("/open", shiftHandler.GetOpenShifts)
		shiftRoutes.GET("/stats", shiftHandler.GetShiftStats)
		shiftRoutes.GET("/:shift_id", shiftHandler.GetShiftByID)

		operators := shiftRoutes.Group("", middleware.RoleAuthMiddleware(shiftOperators...))
		operators.POST("/open", shiftHandler.OpenShift)
		operators.PUT("/:shift_id/close", shiftHandler.CloseShift)
	}
}

// SetupSalaryRoutes sets up the salary ledger routes. Paying is Admin only.
func SetupSalaryRoutes(authenticatedGroup *gin.RouterGroup, salaryHandler *handlers.SalaryHandler) {
	salaryRoutes := authenticatedGroup.Group("/salary")
	{
		salaryRoutes.GET("", salaryHandler.GetSalaryRecords)
		salaryRoutes.GET("/monthly", salaryHandler.MonthlyReport)
		salaryRoutes.GET("/monthly/export", salaryHandler.ExportMonthlyReport)
		salaryRoutes.GET("/:id", salaryHandler.GetSalaryRecordByID)
		salaryRoutes.GET("/:id/payslip", salaryHandler.Payslip)

		salaryRoutes.PUT("/:id/pay", middleware.RoleAuthMiddleware(adminOnlyRoles...), salaryHandler.MarkPaid)
	}
}

// SetupDashboardRoutes sets up read-only reporting routes.
func SetupDashboardRoutes(authenticatedGroup *gin.RouterGroup, dashboardHandler *handlers.DashboardHandler) {
	authenticatedGroup.GET("/dashboard/summary", dashboardHandler.GetSummary)
}
