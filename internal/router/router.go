package router

import (
	"database/sql"
	"net/http"

	"crudefi_backend/internal/config"
	"crudefi_backend/internal/handlers"
	"crudefi_backend/internal/middleware"
	"crudefi_backend/internal/repositories"
	"crudefi_backend/internal/services"
	"crudefi_backend/pkg/utils"

	"github.com/gin-gonic/gin"
)

// Handlers bundles every HTTP handler mounted under /api.
type Handlers struct {
	Auth      *handlers.AuthHandler
	Staff     *handlers.StaffHandler
	Role      *handlers.RoleHandler
	Shift     *handlers.ShiftHandler
	Salary    *handlers.SalaryHandler
	Dashboard *handlers.DashboardHandler
}

// NewHandlers wires repositories, services and handlers against db.
func NewHandlers(db *sql.DB, cfg *config.Config, tokens *utils.TokenManager) Handlers {
	authRepo := repositories.NewAuthRepository(db)
	staffRepo := repositories.NewStaffRepository(db)
	roleRepo := repositories.NewRoleRepository(db)
	shiftRepo := repositories.NewShiftRepository(db)
	salaryRepo := repositories.NewSalaryRepository(db)

	loc := cfg.Payroll.Location

	authService := services.NewAuthService(authRepo, db, tokens)
	staffService := services.NewStaffService(staffRepo, db)
	roleService := services.NewRoleService(roleRepo, db)
	shiftService := services.NewShiftService(shiftRepo, staffRepo, roleRepo, salaryRepo, db, loc)
	salaryService := services.NewSalaryService(salaryRepo, db, loc)
	dashboardService := services.NewDashboardService(staffRepo, roleRepo, shiftRepo, salaryRepo, loc)

	return Handlers{
		Auth:      handlers.NewAuthHandler(authService),
		Staff:     handlers.NewStaffHandler(staffService),
		Role:      handlers.NewRoleHandler(roleService),
		Shift:     handlers.NewShiftHandler(shiftService),
		Salary:    handlers.NewSalaryHandler(salaryService),
		Dashboard: handlers.NewDashboardHandler(dashboardService),
	}
}

// Setup initializes the routing for the application.
func Setup(engine *gin.Engine, h Handlers, tokens *utils.TokenManager) {
	engine.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := engine.Group("/api")

	SetupPublicAuthRoutes(api.Group("/auth"), h.Auth)

	authenticated := api.Group("")
	authenticated.Use(middleware.AuthMiddleware(tokens))
	{
		SetupAuthenticatedAuthRoutes(authenticated.Group("/auth"), h.Auth)
		SetupStaffRoutes(authenticated, h.Staff)
		SetupRoleRoutes(authenticated, h.Role)
		SetupShiftRoutes(authenticated, h.Shift)
		SetupSalaryRoutes(authenticated, h.Salary)
		SetupDashboardRoutes(authenticated, h.Dashboard)
	}
}

func SetupPublicAuthRoutes(group *gin.RouterGroup, authHandler *handlers.AuthHandler) {
	group.POST("/login", authHandler.LoginUser)
}

func SetupAuthenticatedAuthRoutes(group *gin.RouterGroup, authHandler *handlers.AuthHandler) {
	group.GET("/me", authHandler.GetCurrentUser)
	group.POST("/register", middleware.RoleAuthMiddleware(adminOnlyRoles...), authHandler.RegisterUser)
}
