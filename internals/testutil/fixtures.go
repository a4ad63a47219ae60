package testutil

import (
	"testing"

	rosterModel "sekolahku_backend/internals/features/school/rosters/model"
	"sekolahku_backend/internals/helpers/dbtime"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func SeedClass(t *testing.T, db *gorm.DB, name string) rosterModel.ClassModel {
	t.Helper()
	m := rosterModel.ClassModel{ClassName: name, ClassIsActive: true}
	require.NoError(t, db.Create(&m).Error)
	return m
}

// SeedStudent: siswa aktif; classID nil → tidak punya kelas.
func SeedStudent(t *testing.T, db *gorm.DB, name string, classID *uuid.UUID) rosterModel.StudentModel {
	t.Helper()
	m := rosterModel.StudentModel{StudentName: name, StudentClassID: classID, StudentIsActive: true}
	require.NoError(t, db.Create(&m).Error)
	return m
}

func SeedTerm(t *testing.T, db *gorm.DB) rosterModel.AcademicTermModel {
	t.Helper()
	m := rosterModel.AcademicTermModel{
		AcademicTermAcademicYear: "2025/2026",
		AcademicTermName:         "Ganjil",
		AcademicTermStartDate:    dbtime.NewDate(2025, 7, 14),
		AcademicTermEndDate:      dbtime.NewDate(2025, 12, 19),
		AcademicTermIsActive:     true,
	}
	require.NoError(t, db.Create(&m).Error)
	return m
}

func SeedClassSubject(t *testing.T, db *gorm.DB, classID uuid.UUID, subject string) rosterModel.ClassSubjectModel {
	t.Helper()
	m := rosterModel.ClassSubjectModel{ClassSubjectClassID: classID, ClassSubjectSubjectName: subject}
	require.NoError(t, db.Create(&m).Error)
	return m
}

func Ptr[T any](v T) *T { return &v }
