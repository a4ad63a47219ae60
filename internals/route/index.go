// file: internals/route/index.go
package routes

import (
	"log"
	"time"

	"sekolahku_backend/internals/configs"
	attendanceRoute "sekolahku_backend/internals/features/school/attendance/route"
	gradingRoute "sekolahku_backend/internals/features/school/grading/route"
	leaveRoute "sekolahku_backend/internals/features/school/leaves/route"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

var startTime time.Time

func SetupRoutes(app *fiber.App, db *gorm.DB, cfg configs.AppConfig) {
	startTime = time.Now()

	BaseRoutes(app, db)

	// ===================== ADMIN (sekolah) =====================
	// Auth di luar cakupan service ini; grup tetap /api/a supaya sejajar dengan gateway.
	log.Println("[INFO] Setting up ADMIN group...")
	admin := app.Group("/api/a")

	log.Println("[INFO] Setting up AttendanceRoutes...")
	attendanceRoute.AttendanceAdminRoutes(admin, db, cfg)

	log.Println("[INFO] Setting up LeaveRoutes...")
	leaveRoute.LeaveAdminRoutes(admin, db, cfg)

	log.Println("[INFO] Setting up GradingRoutes...")
	gradingRoute.GradingAdminRoutes(admin, db, cfg)
}

func BaseRoutes(app *fiber.App, db *gorm.DB) {
	app.Get("/", func(c *fiber.Ctx) error {
		return c.SendString("Sekolahku backend jalan 🚀")
	})

	app.Get("/health", func(c *fiber.Ctx) error {
		dbStatus := "Connected"
		serverStatus := "OK"
		httpStatus := fiber.StatusOK

		sqlDB, err := db.DB()
		if err != nil || sqlDB.PingContext(c.UserContext()) != nil {
			dbStatus = "Database connection error"
			serverStatus = "DOWN"
			httpStatus = fiber.StatusServiceUnavailable
		}

		return c.Status(httpStatus).JSON(fiber.Map{
			"status":         serverStatus,
			"database":       dbStatus,
			"server_time":    time.Now().Format(time.RFC3339),
			"uptime_seconds": int(time.Since(startTime).Seconds()),
		})
	})
}
