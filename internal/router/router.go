package router

import (
	"net/http"

	"hostel-admin/internal/cache"
	"hostel-admin/internal/config"
	"hostel-admin/internal/handler"
	"hostel-admin/internal/metrics"
	"hostel-admin/internal/middleware"
	"hostel-admin/internal/service"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Deps are the long-lived components the routes are built from.
type Deps struct {
	Config   *config.Config
	DB       *gorm.DB
	Services *service.Services
	Cache    cache.Store
	Log      *zap.Logger
	Metrics  *metrics.Metrics
}

// SetupRouter configures the Gin engine and the full route table.
func SetupRouter(d Deps) *gin.Engine {
	cfg := d.Config
	if cfg.Server.Mode != "" {
		gin.SetMode(cfg.Server.Mode)
	}
	log := d.Log
	if log == nil {
		log = zap.NewNop()
	}

	r := gin.New()
	r.Use(
		middleware.Recovery(log),
		middleware.RequestLogger(log, d.Metrics),
		middleware.CORS(cfg.Server.CORSOrigins),
	)

	r.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"service": "hostel-admin", "status": "running"})
	})
	r.GET("/health", func(c *gin.Context) {
		sqlDB, err := d.DB.DB()
		if err == nil {
			err = sqlDB.PingContext(c.Request.Context())
		}
		if err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unhealthy", "database": "unreachable"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "healthy", "database": "connected"})
	})
	if d.Metrics != nil {
		r.GET("/metrics", gin.WrapH(d.Metrics.Handler()))
	}

	jwtSecret := cfg.JWT.Secret
	authMW := middleware.AuthMiddleware(jwtSecret, d.DB)

	// ====== Auth ======
	authHandler := handler.NewAuthHandler(d.DB, jwtSecret, cfg.JWT.Issuer, cfg.JWT.ExpireHours, log, d.Metrics)
	auth := r.Group("/auth")
	auth.POST("/login", authHandler.Login)
	auth.GET("/check-auth", authMW, authHandler.CheckAuth)
	auth.POST("/logout", authMW, authHandler.Logout)

	// ====== API ======
	api := r.Group("/api")

	registrationHandler := handler.NewRegistrationHandler(d.Services, log)
	mealHandler := handler.NewMealHandler(d.Services, log)

	// public
	api.POST("/registration", registrationHandler.Submit)
	api.GET("/meals/public", mealHandler.GetMeals)

	// authenticated
	protected := api.Group("")
	protected.Use(
		authMW,
		middleware.AuditMiddleware(d.DB, cfg.Security.EncryptionKey, log),
	)

	protected.POST("/profile/password", handler.ChangePassword(d.DB, cfg.Security.BcryptCost))

	dashboardHandler := handler.NewDashboardHandler(d.Services, log)
	protected.GET("/dashboard", dashboardHandler.Dashboard)

	roomHandler := handler.NewRoomHandler(d.Services, log)
	protected.GET("/rooms", roomHandler.ListRooms)

	studentHandler := handler.NewStudentHandler(d.Services, log)
	protected.GET("/students", studentHandler.ListStudents)
	protected.POST("/students", studentHandler.CreateStudent)
	protected.POST("/students/bulk-upload", studentHandler.BulkUpload)
	protected.GET("/students/download-template", studentHandler.DownloadTemplate)
	protected.GET("/students/:id", studentHandler.GetStudent)
	protected.PUT("/students/:id", studentHandler.UpdateStudent)
	protected.DELETE("/students/:id", studentHandler.DeleteStudent)
	protected.GET("/students/:id/fee-status", studentHandler.FeeStatus)

	feeHandler := handler.NewFeeHandler(d.Services, log)
	protected.POST("/fees", feeHandler.CollectFee)
	protected.GET("/fees", feeHandler.Overview)
	protected.GET("/fees/export", feeHandler.Export)
	protected.GET("/fee-records", feeHandler.ListRecords)

	expenseHandler := handler.NewExpenseHandler(d.Services, log)
	protected.GET("/expenses", expenseHandler.ListExpenses)
	protected.POST("/expenses", expenseHandler.CreateExpense)
	protected.DELETE("/expenses/:id", expenseHandler.DeleteExpense)
	protected.GET("/expenses/report/:year/:month", expenseHandler.Report)

	employeeHandler := handler.NewEmployeeHandler(d.Services, log)
	protected.GET("/employees", employeeHandler.ListEmployees)
	protected.POST("/employees", employeeHandler.CreateEmployee)
	protected.PUT("/employees/:id", employeeHandler.UpdateEmployee)
	protected.DELETE("/employees/:id", employeeHandler.DeleteEmployee)
	protected.GET("/employees/:id/salaries", employeeHandler.ListSalaries)
	protected.POST("/employees/:id/salaries", employeeHandler.PaySalary)
	protected.PUT("/salaries/:id", employeeHandler.UpdateSalary)
	protected.DELETE("/salaries/:id", employeeHandler.DeleteSalary)
	protected.GET("/salaries/summary/:month_year", employeeHandler.MonthlySummary)
	protected.GET("/salaries/yearly-summary/:year", employeeHandler.YearlySummary)
	protected.GET("/salaries/available-months", employeeHandler.AvailableMonths)

	admin := protected.Group("/admin")
	admin.GET("/registrations", registrationHandler.List)
	admin.GET("/registrations/stats", registrationHandler.Stats)
	admin.PUT("/registrations/:id", registrationHandler.Update)
	admin.DELETE("/registrations/:id", registrationHandler.Delete)

	protected.GET("/meals", mealHandler.GetMeals)
	protected.PUT("/meals/timings", mealHandler.UpdateTimings)
	protected.PUT("/meals/menu", mealHandler.UpdateMenu)

	logHandler := handler.NewLogHandler(d.DB, cfg.Security.EncryptionKey, log)
	protected.GET("/logs", logHandler.ListLogs)

	backupHandler := handler.NewBackupHandler(d.DB, cfg.Security.EncryptionKey, cfg.Backup.Dir, d.Cache, log)
	protected.POST("/backups", backupHandler.CreateBackup)
	protected.GET("/backups", backupHandler.ListBackups)
	protected.GET("/backups/:id/download", backupHandler.DownloadBackup)
	protected.POST("/backups/:id/restore", backupHandler.RestoreBackup)
	protected.DELETE("/backups/:id", backupHandler.DeleteBackup)

	return r
}
