// file: internals/features/school/attendance/controller/attendance_controller.go
package controller

import (
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	dto "sekolahku_backend/internals/features/school/attendance/dto"
	"sekolahku_backend/internals/features/school/attendance/service"
	helper "sekolahku_backend/internals/helpers"
	"sekolahku_backend/internals/helpers/dbtime"
)

/* ============================================
   Controller
============================================ */

type AttendanceController struct {
	Svc       *service.AttendanceService
	Validator *validator.Validate
}

func NewAttendanceController(svc *service.AttendanceService, v *validator.Validate) *AttendanceController {
	if v == nil {
		v = validator.New()
	}
	return &AttendanceController{Svc: svc, Validator: v}
}

/* ============================================
   UPSERT DAILY
   POST /attendance/daily
============================================ */

func (ctl *AttendanceController) UpsertDaily(c *fiber.Ctx) error {
	var req dto.UpsertDailyRequest
	if ok, err := helper.BindAndValidate(c, ctl.Validator, &req); !ok {
		return err
	}
	req.Normalize()

	date, err := req.ResolveDate(dbtime.TodayInSchool(c))
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, err.Error())
	}

	res, err := ctl.Svc.UpsertDaily(c.UserContext(), req.ClassID, date, req.ToInputs())
	if err != nil {
		return helper.JsonAppError(c, err)
	}
	return helper.JsonOK(c, "Presensi tersimpan", res)
}

/* ============================================
   QUERY LEDGER
   GET /attendance/daily?class_id=&from=&to=&name=&page=&per_page=
============================================ */

func (ctl *AttendanceController) Query(c *fiber.Ctx) error {
	var p service.QueryParams

	var err error
	if p.ClassID, err = helper.ParseUUIDQuery(c, "class_id"); err != nil {
		return helper.FromFiberError(c, err)
	}
	if p.From, err = helper.ParseDateQuery(c, "from"); err != nil {
		return helper.FromFiberError(c, err)
	}
	if p.To, err = helper.ParseDateQuery(c, "to"); err != nil {
		return helper.FromFiberError(c, err)
	}
	p.Name = helper.QueryTrim(c, "name")
	p.Paging = helper.ResolvePaging(c, helper.DefaultPerPage, helper.MaxPerPage)

	res, err := ctl.Svc.Query(c.UserContext(), p)
	if err != nil {
		return helper.JsonAppError(c, err)
	}

	pagination := helper.BuildPaginationFromPage(res.Total, p.Paging.Page, p.Paging.PerPage)
	return c.JSON(fiber.Map{
		"success":    true,
		"message":    "ok",
		"data":       res.Items,
		"range":      fiber.Map{"from": res.From, "to": res.To, "defaulted": res.Defaulted},
		"pagination": pagination,
	})
}

/* ============================================
   SUMMARY
   GET /attendance/summary?class_id=&from=&to=
============================================ */

func (ctl *AttendanceController) Summary(c *fiber.Ctx) error {
	classID, err := helper.RequireUUIDQuery(c, "class_id")
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	from, err := helper.ParseDateQuery(c, "from")
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	to, err := helper.ParseDateQuery(c, "to")
	if err != nil {
		return helper.FromFiberError(c, err)
	}

	res, err := ctl.Svc.Summarize(c.UserContext(), classID, from, to)
	if err != nil {
		return helper.JsonAppError(c, err)
	}
	return helper.JsonOK(c, "ok", res)
}

/* ============================================
   DAILY RECAP
   GET /attendance/recap?date=
============================================ */

func (ctl *AttendanceController) Recap(c *fiber.Ctx) error {
	d, err := helper.ParseDateQuery(c, "date")
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	date := dbtime.TodayInSchool(c)
	if d != nil {
		date = *d
	}

	res, err := ctl.Svc.DailyRecap(c.UserContext(), date)
	if err != nil {
		return helper.JsonAppError(c, err)
	}
	return helper.JsonOK(c, "ok", res)
}

/* ============================================
   LIST BY STUDENT
   GET /attendance/students/:student_id?from=&to=
============================================ */

func (ctl *AttendanceController) ListByStudent(c *fiber.Ctx) error {
	studentID, err := helper.ParseUUIDParam(c, "student_id")
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	from, err := helper.ParseDateQuery(c, "from")
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	to, err := helper.ParseDateQuery(c, "to")
	if err != nil {
		return helper.FromFiberError(c, err)
	}

	items, err := ctl.Svc.ListByPerson(c.UserContext(), studentID, from, to)
	if err != nil {
		return helper.JsonAppError(c, err)
	}
	return helper.JsonList(c, "ok", items, nil)
}

/* ============================================
   CORRECT / DELETE
   PATCH  /attendance/:id
   DELETE /attendance/:id
============================================ */

func (ctl *AttendanceController) Correct(c *fiber.Ctx) error {
	id, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	var req dto.CorrectEntryRequest
	if ok, err := helper.BindAndValidate(c, ctl.Validator, &req); !ok {
		return err
	}

	m, err := ctl.Svc.CorrectEntry(c.UserContext(), id, req.StatusPtr(), req.Note)
	if err != nil {
		return helper.JsonAppError(c, err)
	}
	return helper.JsonUpdated(c, "Presensi diperbarui", dto.FromModel(*m))
}

func (ctl *AttendanceController) Delete(c *fiber.Ctx) error {
	id, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	if err := ctl.Svc.DeleteEntry(c.UserContext(), id); err != nil {
		return helper.JsonAppError(c, err)
	}
	return helper.JsonDeleted(c, "Presensi dihapus", fiber.Map{"attendance_entry_id": id})
}

/* ============================================
   SWEEP (trigger manual)
   POST /attendance/sweep?date=
============================================ */

func (ctl *AttendanceController) Sweep(c *fiber.Ctx) error {
	d, err := helper.ParseDateQuery(c, "date")
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	date := dbtime.TodayInSchool(c)
	if d != nil {
		date = *d
	}

	res, err := ctl.Svc.SweepDay(c.UserContext(), date)
	if err != nil {
		return helper.JsonAppError(c, err)
	}
	return helper.JsonOK(c, "Sweep selesai", res)
}
