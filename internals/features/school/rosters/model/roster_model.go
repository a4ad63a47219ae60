// file: internals/features/school/rosters/model/roster_model.go
package model

import (
	"errors"
	"strings"
	"time"

	"sekolahku_backend/internals/helpers/dbtime"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

/* =========================================================
   CLASSES (rombel): grup presensi harian
========================================================= */

type ClassModel struct {
	ClassID       uuid.UUID `gorm:"type:uuid;primaryKey;column:class_id" json:"class_id"`
	ClassName     string    `gorm:"type:varchar(120);not null;column:class_name" json:"class_name"`
	ClassIsActive bool      `gorm:"not null;column:class_is_active" json:"class_is_active"`

	ClassCreatedAt time.Time `gorm:"not null;autoCreateTime;column:class_created_at" json:"class_created_at"`
	ClassUpdatedAt time.Time `gorm:"not null;autoUpdateTime;column:class_updated_at" json:"class_updated_at"`
}

func (ClassModel) TableName() string { return "classes" }

func (m *ClassModel) BeforeCreate(tx *gorm.DB) error {
	if m.ClassID == uuid.Nil {
		m.ClassID = uuid.New()
	}
	m.ClassName = strings.TrimSpace(m.ClassName)
	return nil
}

/* =========================================================
   STUDENTS: orang yang dilacak presensinya
   student_class_id = keanggotaan kelas saat ini
========================================================= */

type StudentModel struct {
	StudentID       uuid.UUID  `gorm:"type:uuid;primaryKey;column:student_id" json:"student_id"`
	StudentName     string     `gorm:"type:varchar(160);not null;column:student_name" json:"student_name"`
	StudentNIS      *string    `gorm:"type:varchar(32);column:student_nis" json:"student_nis,omitempty"`
	StudentClassID  *uuid.UUID `gorm:"type:uuid;index:idx_students_class;column:student_class_id" json:"student_class_id,omitempty"`
	StudentIsActive bool       `gorm:"not null;column:student_is_active" json:"student_is_active"`

	StudentCreatedAt time.Time `gorm:"not null;autoCreateTime;column:student_created_at" json:"student_created_at"`
	StudentUpdatedAt time.Time `gorm:"not null;autoUpdateTime;column:student_updated_at" json:"student_updated_at"`
}

func (StudentModel) TableName() string { return "students" }

func (m *StudentModel) BeforeCreate(tx *gorm.DB) error {
	if m.StudentID == uuid.Nil {
		m.StudentID = uuid.New()
	}
	m.StudentName = strings.TrimSpace(m.StudentName)
	if m.StudentNIS != nil {
		s := strings.TrimSpace(*m.StudentNIS)
		if s == "" {
			m.StudentNIS = nil
		} else {
			m.StudentNIS = &s
		}
	}
	return nil
}

// IsTracked: aktif & punya kelas → ikut sweep.
func (m StudentModel) IsTracked() bool {
	return m.StudentIsActive && m.StudentClassID != nil
}

/* =========================================================
   ACADEMIC TERMS
========================================================= */

type AcademicTermModel struct {
	AcademicTermID uuid.UUID `gorm:"type:uuid;primaryKey;column:academic_term_id" json:"academic_term_id"`
	// Example academic_year: "2026/2027"
	AcademicTermAcademicYear string `gorm:"type:varchar(16);not null;column:academic_term_academic_year" json:"academic_term_academic_year"`
	// Example name: "Ganjil" | "Genap"
	AcademicTermName      string      `gorm:"type:varchar(60);not null;column:academic_term_name" json:"academic_term_name"`
	AcademicTermStartDate dbtime.Date `gorm:"not null;column:academic_term_start_date" json:"academic_term_start_date"`
	AcademicTermEndDate   dbtime.Date `gorm:"not null;column:academic_term_end_date" json:"academic_term_end_date"`
	AcademicTermIsActive  bool        `gorm:"not null;column:academic_term_is_active" json:"academic_term_is_active"`

	AcademicTermCreatedAt time.Time `gorm:"not null;autoCreateTime;column:academic_term_created_at" json:"academic_term_created_at"`
	AcademicTermUpdatedAt time.Time `gorm:"not null;autoUpdateTime;column:academic_term_updated_at" json:"academic_term_updated_at"`
}

func (AcademicTermModel) TableName() string { return "academic_terms" }

func (m *AcademicTermModel) BeforeCreate(tx *gorm.DB) error {
	if m.AcademicTermID == uuid.Nil {
		m.AcademicTermID = uuid.New()
	}
	return nil
}

// Mirror CHECK: end >= start
func (m *AcademicTermModel) BeforeSave(tx *gorm.DB) error {
	if m.AcademicTermEndDate.Before(m.AcademicTermStartDate) {
		return errors.New("academic_term_end_date must be >= academic_term_start_date")
	}
	m.AcademicTermAcademicYear = strings.TrimSpace(m.AcademicTermAcademicYear)
	m.AcademicTermName = strings.TrimSpace(m.AcademicTermName)
	return nil
}

/* =========================================================
   CLASS SUBJECTS (kelas × mapel): pemilik grading policy
========================================================= */

type ClassSubjectModel struct {
	ClassSubjectID          uuid.UUID `gorm:"type:uuid;primaryKey;column:class_subject_id" json:"class_subject_id"`
	ClassSubjectClassID     uuid.UUID `gorm:"type:uuid;not null;index:idx_class_subjects_class;column:class_subject_class_id" json:"class_subject_class_id"`
	ClassSubjectSubjectName string    `gorm:"type:varchar(120);not null;column:class_subject_subject_name" json:"class_subject_subject_name"`
	ClassSubjectCode        *string   `gorm:"type:varchar(24);column:class_subject_code" json:"class_subject_code,omitempty"`

	ClassSubjectCreatedAt time.Time `gorm:"not null;autoCreateTime;column:class_subject_created_at" json:"class_subject_created_at"`
	ClassSubjectUpdatedAt time.Time `gorm:"not null;autoUpdateTime;column:class_subject_updated_at" json:"class_subject_updated_at"`
}

func (ClassSubjectModel) TableName() string { return "class_subjects" }

func (m *ClassSubjectModel) BeforeCreate(tx *gorm.DB) error {
	if m.ClassSubjectID == uuid.Nil {
		m.ClassSubjectID = uuid.New()
	}
	m.ClassSubjectSubjectName = strings.TrimSpace(m.ClassSubjectSubjectName)
	return nil
}
