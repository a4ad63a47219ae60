// file: internals/features/school/leaves/route/leave_route.go
package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"sekolahku_backend/internals/configs"
	leaveCtl "sekolahku_backend/internals/features/school/leaves/controller"
	leaveSvc "sekolahku_backend/internals/features/school/leaves/service"
)

func LeaveAdminRoutes(api fiber.Router, db *gorm.DB, cfg configs.AppConfig) {
	ctl := leaveCtl.NewLeaveController(leaveSvc.NewLeaveService(db, nil, cfg), nil)

	g := api.Group("/leaves")
	g.Post("/", ctl.Create)
	g.Get("/", ctl.List)
	g.Get("/:id", ctl.Get)
	g.Post("/:id/approve", ctl.Approve)
	g.Post("/:id/reject", ctl.Reject)
}
