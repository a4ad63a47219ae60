// file: internals/features/school/grading/controller/grading_controller.go
package controller

import (
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	dto "sekolahku_backend/internals/features/school/grading/dto"
	"sekolahku_backend/internals/features/school/grading/service"
	helper "sekolahku_backend/internals/helpers"
)

type GradingController struct {
	Svc       *service.GradingService
	Validator *validator.Validate
}

func NewGradingController(svc *service.GradingService, v *validator.Validate) *GradingController {
	if v == nil {
		v = validator.New()
	}
	return &GradingController{Svc: svc, Validator: v}
}

/* ============================================
   POLICY
   PUT /class-subjects/:id/grading-policy
   GET /class-subjects/:id/grading-policy?term_id=
============================================ */

func (ctl *GradingController) SetPolicy(c *fiber.Ctx) error {
	csID, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	var req dto.SetPolicyRequest
	if ok, err := helper.BindAndValidate(c, ctl.Validator, &req); !ok {
		return err
	}

	res, err := ctl.Svc.SetPolicy(c.UserContext(), req.ToInput(csID))
	if err != nil {
		return helper.JsonAppError(c, err)
	}
	return helper.JsonUpdated(c, "Grading policy tersimpan", res)
}

func (ctl *GradingController) GetPolicy(c *fiber.Ctx) error {
	csID, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	termID, err := helper.RequireUUIDQuery(c, "term_id")
	if err != nil {
		return helper.FromFiberError(c, err)
	}

	res, err := ctl.Svc.GetPolicy(c.UserContext(), csID, termID)
	if err != nil {
		return helper.JsonAppError(c, err)
	}
	return helper.JsonOK(c, "ok", res)
}

/* ============================================
   ASSESSMENT
============================================ */

func (ctl *GradingController) CreateAssessment(c *fiber.Ctx) error {
	csID, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	var req dto.CreateAssessmentRequest
	if ok, err := helper.BindAndValidate(c, ctl.Validator, &req); !ok {
		return err
	}
	req.Normalize()
	in, err := req.ToInput(csID)
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, err.Error())
	}

	m, err := ctl.Svc.CreateAssessment(c.UserContext(), in)
	if err != nil {
		return helper.JsonAppError(c, err)
	}
	return helper.JsonCreated(c, "Assessment dibuat", m)
}

// GET /class-subjects/:id/assessments?term_id=
func (ctl *GradingController) ListAssessments(c *fiber.Ctx) error {
	csID, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	termID, err := helper.ParseUUIDQuery(c, "term_id")
	if err != nil {
		return helper.FromFiberError(c, err)
	}

	items, err := ctl.Svc.ListAssessments(c.UserContext(), csID, termID)
	if err != nil {
		return helper.JsonAppError(c, err)
	}
	return helper.JsonList(c, "ok", items, nil)
}

func (ctl *GradingController) GetAssessment(c *fiber.Ctx) error {
	id, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	m, err := ctl.Svc.GetAssessment(c.UserContext(), id)
	if err != nil {
		return helper.JsonAppError(c, err)
	}
	return helper.JsonOK(c, "ok", m)
}

func (ctl *GradingController) UpdateAssessment(c *fiber.Ctx) error {
	id, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	var req dto.UpdateAssessmentRequest
	if ok, err := helper.BindAndValidate(c, ctl.Validator, &req); !ok {
		return err
	}
	in, err := req.ToInput()
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, err.Error())
	}

	m, err := ctl.Svc.UpdateAssessment(c.UserContext(), id, in)
	if err != nil {
		return helper.JsonAppError(c, err)
	}
	return helper.JsonUpdated(c, "Assessment diperbarui", m)
}

func (ctl *GradingController) DeleteAssessment(c *fiber.Ctx) error {
	id, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	if err := ctl.Svc.DeleteAssessment(c.UserContext(), id); err != nil {
		return helper.JsonAppError(c, err)
	}
	return helper.JsonDeleted(c, "Assessment dihapus", fiber.Map{"assessment_id": id})
}

// POST /assessments/:id/lock
func (ctl *GradingController) Lock(c *fiber.Ctx) error {
	id, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	m, err := ctl.Svc.LockAssessment(c.UserContext(), id)
	if err != nil {
		return helper.JsonAppError(c, err)
	}
	return helper.JsonUpdated(c, "Assessment dikunci", m)
}

// POST /assessments/:id/publish
func (ctl *GradingController) Publish(c *fiber.Ctx) error {
	id, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	m, err := ctl.Svc.PublishAssessment(c.UserContext(), id)
	if err != nil {
		return helper.JsonAppError(c, err)
	}
	return helper.JsonUpdated(c, "Assessment dipublikasikan", m)
}

/* ============================================
   SCORES
============================================ */

// POST /assessments/:id/scores
func (ctl *GradingController) BulkUpsertScores(c *fiber.Ctx) error {
	id, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	var req dto.BulkScoresRequest
	if ok, err := helper.BindAndValidate(c, ctl.Validator, &req); !ok {
		return err
	}

	res, err := ctl.Svc.BulkUpsertScores(c.UserContext(), id, req.ToInputs())
	if err != nil {
		return helper.JsonAppError(c, err)
	}
	return helper.JsonOK(c, "Nilai tersimpan", res)
}

// GET /assessments/:id/scores?q=&page=&per_page=
func (ctl *GradingController) ListScores(c *fiber.Ctx) error {
	id, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	pg := helper.ResolvePaging(c, 25, helper.MaxPerPage)

	rows, total, err := ctl.Svc.ListScores(c.UserContext(), id, helper.QueryTrim(c, "q"), pg)
	if err != nil {
		return helper.JsonAppError(c, err)
	}
	p := helper.BuildPaginationFromPage(total, pg.Page, pg.PerPage)
	return helper.JsonList(c, "ok", rows, &p)
}

// PATCH /scores/:id
func (ctl *GradingController) PatchScore(c *fiber.Ctx) error {
	id, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	var req dto.PatchScoreRequest
	if ok, err := helper.BindAndValidate(c, ctl.Validator, &req); !ok {
		return err
	}

	m, err := ctl.Svc.PatchScore(c.UserContext(), id, req.Value, req.Note)
	if err != nil {
		return helper.JsonAppError(c, err)
	}
	return helper.JsonUpdated(c, "Nilai diperbarui", m)
}

/* ============================================
   FINAL SCORES
   GET /class-subjects/:id/final-scores?term_id=&q=&page=&per_page=
   GET /class-subjects/:id/final-scores/:student_id?term_id=
   GET /classes/:id/report-card?term_id=
============================================ */

func (ctl *GradingController) FinalScores(c *fiber.Ctx) error {
	csID, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	termID, err := helper.RequireUUIDQuery(c, "term_id")
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	pg := helper.ResolvePaging(c, 25, helper.MaxPerPage)

	res, err := ctl.Svc.ComputeFinalBatch(c.UserContext(), csID, termID, helper.QueryTrim(c, "q"), pg)
	if err != nil {
		return helper.JsonAppError(c, err)
	}
	p := helper.BuildPaginationFromPage(res.Total, pg.Page, pg.PerPage)
	return c.JSON(fiber.Map{
		"success":    true,
		"message":    "ok",
		"data":       res.Items,
		"weights":    res.Weights,
		"pagination": p,
	})
}

func (ctl *GradingController) FinalScoreOfStudent(c *fiber.Ctx) error {
	csID, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	studentID, err := helper.ParseUUIDParam(c, "student_id")
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	termID, err := helper.RequireUUIDQuery(c, "term_id")
	if err != nil {
		return helper.FromFiberError(c, err)
	}

	res, err := ctl.Svc.ComputeFinal(c.UserContext(), csID, termID, studentID)
	if err != nil {
		return helper.JsonAppError(c, err)
	}
	return helper.JsonOK(c, "ok", res)
}

func (ctl *GradingController) ReportCard(c *fiber.Ctx) error {
	classID, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	termID, err := helper.RequireUUIDQuery(c, "term_id")
	if err != nil {
		return helper.FromFiberError(c, err)
	}

	res, err := ctl.Svc.ReportCard(c.UserContext(), classID, termID)
	if err != nil {
		return helper.JsonAppError(c, err)
	}
	return helper.JsonOK(c, "ok", res)
}
