// file: internals/features/school/attendance/dto/attendance_dto.go
package dto

import (
	"strings"

	"sekolahku_backend/internals/features/school/attendance/model"
	"sekolahku_backend/internals/features/school/attendance/service"
	"sekolahku_backend/internals/helpers/dbtime"

	"github.com/google/uuid"
)

/* =========================================================
   REQUEST: upsert harian
   POST /attendance/daily
========================================================= */

type DailyEntryRequest struct {
	StudentID uuid.UUID `json:"student_id" validate:"required"`
	Status    string    `json:"status" validate:"required,oneof=present excused sick absent late"`
	Note      *string   `json:"note" validate:"omitempty,max=500"`
}

type UpsertDailyRequest struct {
	ClassID uuid.UUID `json:"class_id" validate:"required"`
	// kosong → hari ini (zona sekolah)
	Date    string              `json:"date" validate:"omitempty,datetime=2006-01-02"`
	Entries []DailyEntryRequest `json:"entries" validate:"required,min=1,dive"`
}

func (r *UpsertDailyRequest) Normalize() {
	r.Date = strings.TrimSpace(r.Date)
	for i := range r.Entries {
		r.Entries[i].Status = strings.ToLower(strings.TrimSpace(r.Entries[i].Status))
	}
}

// ResolveDate: tanggal request atau fallback.
func (r UpsertDailyRequest) ResolveDate(fallback dbtime.Date) (dbtime.Date, error) {
	if r.Date == "" {
		return fallback, nil
	}
	return dbtime.ParseDate(r.Date)
}

func (r UpsertDailyRequest) ToInputs() []service.DailyEntryInput {
	out := make([]service.DailyEntryInput, 0, len(r.Entries))
	for _, e := range r.Entries {
		out = append(out, service.DailyEntryInput{
			StudentID: e.StudentID,
			Status:    model.AttendanceStatus(e.Status),
			Note:      e.Note,
		})
	}
	return out
}

/* =========================================================
   REQUEST: koreksi langsung
   PATCH /attendance/:id
========================================================= */

type CorrectEntryRequest struct {
	Status *string `json:"status" validate:"omitempty,oneof=present excused sick absent late"`
	// "" → hapus catatan
	Note *string `json:"note" validate:"omitempty,max=500"`
}

func (r CorrectEntryRequest) StatusPtr() *model.AttendanceStatus {
	if r.Status == nil {
		return nil
	}
	st := model.AttendanceStatus(strings.ToLower(strings.TrimSpace(*r.Status)))
	return &st
}

/* =========================================================
   RESPONSE
========================================================= */

type AttendanceEntryResponse struct {
	AttendanceEntryID uuid.UUID              `json:"attendance_entry_id"`
	ClassID           uuid.UUID              `json:"class_id"`
	StudentID         uuid.UUID              `json:"student_id"`
	Date              dbtime.Date            `json:"date"`
	Status            model.AttendanceStatus `json:"status"`
	Note              *string                `json:"note,omitempty"`
}

func FromModel(m model.AttendanceEntryModel) AttendanceEntryResponse {
	return AttendanceEntryResponse{
		AttendanceEntryID: m.AttendanceEntryID,
		ClassID:           m.AttendanceEntryClassID,
		StudentID:         m.AttendanceEntryStudentID,
		Date:              m.AttendanceEntryDate,
		Status:            m.AttendanceEntryStatus,
		Note:              m.AttendanceEntryNote,
	}
}
