// file: internals/features/school/attendance/model/attendance_entry_model.go
package model

import (
	"strings"
	"time"

	helper "sekolahku_backend/internals/helpers"
	"sekolahku_backend/internals/helpers/dbtime"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

/* =========================================================
   ENUM: status presensi harian
========================================================= */

type AttendanceStatus string

const (
	AttendanceStatusPresent AttendanceStatus = "present"
	AttendanceStatusExcused AttendanceStatus = "excused"
	AttendanceStatusSick    AttendanceStatus = "sick"
	AttendanceStatusAbsent  AttendanceStatus = "absent"
	AttendanceStatusLate    AttendanceStatus = "late"
)

// AllAttendanceStatuses: urutan tetap untuk rekap.
var AllAttendanceStatuses = []AttendanceStatus{
	AttendanceStatusPresent,
	AttendanceStatusExcused,
	AttendanceStatusSick,
	AttendanceStatusAbsent,
	AttendanceStatusLate,
}

func (s AttendanceStatus) Valid() bool {
	switch s {
	case AttendanceStatusPresent, AttendanceStatusExcused, AttendanceStatusSick,
		AttendanceStatusAbsent, AttendanceStatusLate:
		return true
	}
	return false
}

func ParseAttendanceStatus(s string) (AttendanceStatus, bool) {
	st := AttendanceStatus(strings.ToLower(strings.TrimSpace(s)))
	return st, st.Valid()
}

/* =========================================================
   LEDGER: satu baris per (kelas, siswa, tanggal)
========================================================= */

type AttendanceEntryModel struct {
	AttendanceEntryID uuid.UUID `gorm:"type:uuid;primaryKey;column:attendance_entry_id" json:"attendance_entry_id"`

	AttendanceEntryClassID   uuid.UUID   `gorm:"type:uuid;not null;uniqueIndex:uq_attendance_entries_class_student_date,priority:1;column:attendance_entry_class_id" json:"attendance_entry_class_id"`
	AttendanceEntryStudentID uuid.UUID   `gorm:"type:uuid;not null;uniqueIndex:uq_attendance_entries_class_student_date,priority:2;index:idx_attendance_entries_student_date,priority:1;column:attendance_entry_student_id" json:"attendance_entry_student_id"`
	AttendanceEntryDate      dbtime.Date `gorm:"not null;uniqueIndex:uq_attendance_entries_class_student_date,priority:3;index:idx_attendance_entries_student_date,priority:2;column:attendance_entry_date" json:"attendance_entry_date"`

	AttendanceEntryStatus AttendanceStatus `gorm:"type:varchar(16);not null;column:attendance_entry_status" json:"attendance_entry_status"`
	AttendanceEntryNote   *string          `gorm:"type:text;column:attendance_entry_note" json:"attendance_entry_note,omitempty"`

	AttendanceEntryCreatedAt time.Time `gorm:"not null;autoCreateTime;column:attendance_entry_created_at" json:"attendance_entry_created_at"`
	AttendanceEntryUpdatedAt time.Time `gorm:"not null;autoUpdateTime;column:attendance_entry_updated_at" json:"attendance_entry_updated_at"`
}

func (AttendanceEntryModel) TableName() string { return "attendance_entries" }

func (m *AttendanceEntryModel) BeforeCreate(tx *gorm.DB) error {
	if m.AttendanceEntryID == uuid.Nil {
		m.AttendanceEntryID = uuid.New()
	}
	m.AttendanceEntryNote = NormalizeNote(m.AttendanceEntryNote)
	return nil
}

// NormalizeNote: trim; string kosong → nil ("tanpa catatan").
func NormalizeNote(p *string) *string {
	return helper.TrimPtr(p)
}

// SameNote: nil == nil, selain itu bandingkan isi.
func SameNote(a, b *string) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}

// NoteValue: untuk Updates(map) → NULL kalau nil.
func NoteValue(p *string) any {
	if p == nil {
		return nil
	}
	return *p
}
