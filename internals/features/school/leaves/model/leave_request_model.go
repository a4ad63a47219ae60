// file: internals/features/school/leaves/model/leave_request_model.go
package model

import (
	"errors"
	"strings"
	"time"

	attendanceModel "sekolahku_backend/internals/features/school/attendance/model"
	"sekolahku_backend/internals/helpers/dbtime"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

/* =========================================================
   ENUMS
========================================================= */

type LeaveCategory string

const (
	LeaveCategorySick     LeaveCategory = "sick"
	LeaveCategoryPersonal LeaveCategory = "personal"
	LeaveCategoryOther    LeaveCategory = "other"
)

func (c LeaveCategory) Valid() bool {
	switch c {
	case LeaveCategorySick, LeaveCategoryPersonal, LeaveCategoryOther:
		return true
	}
	return false
}

// AttendanceStatus: status ledger hasil materialisasi izin.
func (c LeaveCategory) AttendanceStatus() attendanceModel.AttendanceStatus {
	if c == LeaveCategorySick {
		return attendanceModel.AttendanceStatusSick
	}
	return attendanceModel.AttendanceStatusExcused
}

type LeaveStatus string

const (
	LeaveStatusSubmitted LeaveStatus = "submitted"
	LeaveStatusApproved  LeaveStatus = "approved"
	LeaveStatusRejected  LeaveStatus = "rejected"
)

func (s LeaveStatus) Valid() bool {
	switch s {
	case LeaveStatusSubmitted, LeaveStatusApproved, LeaveStatusRejected:
		return true
	}
	return false
}

func (s LeaveStatus) IsTerminal() bool {
	return s == LeaveStatusApproved || s == LeaveStatusRejected
}

/* =========================================================
   LEAVE REQUESTS (izin siswa)
========================================================= */

type LeaveRequestModel struct {
	LeaveRequestID        uuid.UUID     `gorm:"type:uuid;primaryKey;column:leave_request_id" json:"leave_request_id"`
	LeaveRequestStudentID uuid.UUID     `gorm:"type:uuid;not null;index:idx_leave_requests_student;column:leave_request_student_id" json:"leave_request_student_id"`
	LeaveRequestStartDate dbtime.Date   `gorm:"not null;column:leave_request_start_date" json:"leave_request_start_date"`
	LeaveRequestEndDate   dbtime.Date   `gorm:"not null;column:leave_request_end_date" json:"leave_request_end_date"`
	LeaveRequestCategory  LeaveCategory `gorm:"type:varchar(16);not null;column:leave_request_category" json:"leave_request_category"`
	LeaveRequestReason    string        `gorm:"type:text;not null;column:leave_request_reason" json:"leave_request_reason"`
	// URL lampiran (surat dokter, dsb). Upload file di luar modul ini.
	LeaveRequestAttachmentURL *string `gorm:"type:text;column:leave_request_attachment_url" json:"leave_request_attachment_url,omitempty"`

	LeaveRequestStatus           LeaveStatus `gorm:"type:varchar(16);not null;index:idx_leave_requests_status;column:leave_request_status" json:"leave_request_status"`
	LeaveRequestDecidedAt        *time.Time  `gorm:"column:leave_request_decided_at" json:"leave_request_decided_at,omitempty"`
	LeaveRequestMaterializedDays int         `gorm:"not null;default:0;column:leave_request_materialized_days" json:"leave_request_materialized_days"`

	LeaveRequestCreatedAt time.Time `gorm:"not null;autoCreateTime;column:leave_request_created_at" json:"leave_request_created_at"`
	LeaveRequestUpdatedAt time.Time `gorm:"not null;autoUpdateTime;column:leave_request_updated_at" json:"leave_request_updated_at"`
}

func (LeaveRequestModel) TableName() string { return "leave_requests" }

func (m *LeaveRequestModel) BeforeCreate(tx *gorm.DB) error {
	if m.LeaveRequestID == uuid.Nil {
		m.LeaveRequestID = uuid.New()
	}
	if m.LeaveRequestStatus == "" {
		m.LeaveRequestStatus = LeaveStatusSubmitted
	}
	return nil
}

// Mirror CHECK: end >= start
func (m *LeaveRequestModel) BeforeSave(tx *gorm.DB) error {
	if m.LeaveRequestEndDate.Before(m.LeaveRequestStartDate) {
		return errors.New("leave_request_end_date must be >= leave_request_start_date")
	}
	m.LeaveRequestReason = strings.TrimSpace(m.LeaveRequestReason)
	if m.LeaveRequestAttachmentURL != nil {
		s := strings.TrimSpace(*m.LeaveRequestAttachmentURL)
		if s == "" {
			m.LeaveRequestAttachmentURL = nil
		} else {
			m.LeaveRequestAttachmentURL = &s
		}
	}
	return nil
}
