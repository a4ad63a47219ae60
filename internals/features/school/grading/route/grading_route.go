// file: internals/features/school/grading/route/grading_route.go
package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"sekolahku_backend/internals/configs"
	gradingCtl "sekolahku_backend/internals/features/school/grading/controller"
	gradingSvc "sekolahku_backend/internals/features/school/grading/service"
)

func GradingAdminRoutes(api fiber.Router, db *gorm.DB, cfg configs.AppConfig) {
	ctl := gradingCtl.NewGradingController(gradingSvc.NewGradingService(db, nil, cfg), nil)

	cs := api.Group("/class-subjects/:id")
	cs.Put("/grading-policy", ctl.SetPolicy)
	cs.Get("/grading-policy", ctl.GetPolicy)
	cs.Post("/assessments", ctl.CreateAssessment)
	cs.Get("/assessments", ctl.ListAssessments)
	cs.Get("/final-scores", ctl.FinalScores)
	cs.Get("/final-scores/:student_id", ctl.FinalScoreOfStudent)

	as := api.Group("/assessments")
	as.Get("/:id", ctl.GetAssessment)
	as.Patch("/:id", ctl.UpdateAssessment)
	as.Delete("/:id", ctl.DeleteAssessment)
	as.Post("/:id/lock", ctl.Lock)
	as.Post("/:id/publish", ctl.Publish)
	as.Get("/:id/scores", ctl.ListScores)
	as.Post("/:id/scores", ctl.BulkUpsertScores)

	api.Patch("/scores/:id", ctl.PatchScore)
	api.Get("/classes/:id/report-card", ctl.ReportCard)
}
