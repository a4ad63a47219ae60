// file: internals/features/school/attendance/route/attendance_route.go
package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"sekolahku_backend/internals/configs"
	attendanceCtl "sekolahku_backend/internals/features/school/attendance/controller"
	attendanceSvc "sekolahku_backend/internals/features/school/attendance/service"
)

func AttendanceAdminRoutes(api fiber.Router, db *gorm.DB, cfg configs.AppConfig) {
	ctl := attendanceCtl.NewAttendanceController(attendanceSvc.NewAttendanceService(db, nil, cfg), nil)

	g := api.Group("/attendance")
	g.Post("/daily", ctl.UpsertDaily)
	g.Get("/daily", ctl.Query)
	g.Get("/summary", ctl.Summary)
	g.Get("/recap", ctl.Recap)
	g.Get("/students/:student_id", ctl.ListByStudent)
	g.Post("/sweep", ctl.Sweep)
	g.Patch("/:id", ctl.Correct)
	g.Delete("/:id", ctl.Delete)
}
