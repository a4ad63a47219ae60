// file: internals/features/school/leaves/controller/leave_controller.go
package controller

import (
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	dto "sekolahku_backend/internals/features/school/leaves/dto"
	"sekolahku_backend/internals/features/school/leaves/service"
	helper "sekolahku_backend/internals/helpers"
)

type LeaveController struct {
	Svc       *service.LeaveService
	Validator *validator.Validate
}

func NewLeaveController(svc *service.LeaveService, v *validator.Validate) *LeaveController {
	if v == nil {
		v = validator.New()
	}
	return &LeaveController{Svc: svc, Validator: v}
}

/* ============================================
   CREATE
   POST /leaves
============================================ */

func (ctl *LeaveController) Create(c *fiber.Ctx) error {
	var req dto.CreateLeaveRequest
	if ok, err := helper.BindAndValidate(c, ctl.Validator, &req); !ok {
		return err
	}
	req.Normalize()

	in, err := req.ToInput()
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, err.Error())
	}
	m, err := ctl.Svc.Create(c.UserContext(), in)
	if err != nil {
		return helper.JsonAppError(c, err)
	}
	return helper.JsonCreated(c, "Izin berhasil diajukan", m)
}

/* ============================================
   LIST / DETAIL
   GET /leaves?status=&student_id=&q=&page=&per_page=
   GET /leaves/:id
============================================ */

func (ctl *LeaveController) List(c *fiber.Ctx) error {
	status, ok := dto.ParseStatusFilter(c.Query("status"))
	if !ok {
		return helper.JsonError(c, fiber.StatusBadRequest, "status harus salah satu: submitted, approved, rejected")
	}
	studentID, err := helper.ParseUUIDQuery(c, "student_id")
	if err != nil {
		return helper.FromFiberError(c, err)
	}

	p := service.ListParams{
		Status:    status,
		StudentID: studentID,
		Keyword:   helper.QueryTrim(c, "q"),
		Paging:    helper.ResolvePaging(c, helper.DefaultPerPage, helper.MaxPerPage),
	}
	rows, total, err := ctl.Svc.List(c.UserContext(), p)
	if err != nil {
		return helper.JsonAppError(c, err)
	}
	pagination := helper.BuildPaginationFromPage(total, p.Paging.Page, p.Paging.PerPage)
	return helper.JsonList(c, "ok", rows, &pagination)
}

func (ctl *LeaveController) Get(c *fiber.Ctx) error {
	id, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	m, err := ctl.Svc.Get(c.UserContext(), id)
	if err != nil {
		return helper.JsonAppError(c, err)
	}
	return helper.JsonOK(c, "ok", m)
}

/* ============================================
   APPROVE / REJECT
   POST /leaves/:id/approve
   POST /leaves/:id/reject
============================================ */

func (ctl *LeaveController) Approve(c *fiber.Ctx) error {
	id, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	res, err := ctl.Svc.Approve(c.UserContext(), id)
	if err != nil {
		return helper.JsonAppError(c, err)
	}
	return helper.JsonUpdated(c, "Izin disetujui", res)
}

func (ctl *LeaveController) Reject(c *fiber.Ctx) error {
	id, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	m, err := ctl.Svc.Reject(c.UserContext(), id)
	if err != nil {
		return helper.JsonAppError(c, err)
	}
	return helper.JsonUpdated(c, "Izin ditolak", m)
}
