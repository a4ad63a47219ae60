package database

import (
	attendanceModel "sekolahku_backend/internals/features/school/attendance/model"
	gradingModel "sekolahku_backend/internals/features/school/grading/model"
	leaveModel "sekolahku_backend/internals/features/school/leaves/model"
	rosterModel "sekolahku_backend/internals/features/school/rosters/model"

	"gorm.io/gorm"
)

// Migrate: AutoMigrate semua tabel. Unique index (kelas, siswa, tanggal) &
// (assessment, siswa) didefinisikan lewat tag model.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&rosterModel.ClassModel{},
		&rosterModel.StudentModel{},
		&rosterModel.AcademicTermModel{},
		&rosterModel.ClassSubjectModel{},
		&attendanceModel.AttendanceEntryModel{},
		&leaveModel.LeaveRequestModel{},
		&gradingModel.GradingPolicyModel{},
		&gradingModel.AssessmentModel{},
		&gradingModel.ScoreModel{},
	)
}
