// file: internals/features/school/attendance/service/absence_sweeper.go
package service

import (
	"context"
	"log"

	"sekolahku_backend/internals/features/school/attendance/model"
	rosterModel "sekolahku_backend/internals/features/school/rosters/model"
	"sekolahku_backend/internals/helpers/apperror"
	"sekolahku_backend/internals/helpers/dbtime"

	"github.com/google/uuid"
	"gorm.io/gorm/clause"
)

type SweepResult struct {
	Date     dbtime.Date `json:"date"`
	Tracked  int64       `json:"tracked"`
	Missing  int         `json:"missing"`
	Inserted int         `json:"inserted"`
	Failed   int         `json:"failed"`
}

type sweepTarget struct {
	StudentID uuid.UUID `gorm:"column:student_id"`
	ClassID   uuid.UUID `gorm:"column:student_class_id"`
}

// SweepDay: siswa yang dilacak tapi belum punya entri di `date` (kelas mana pun)
// → insert "absent" tanpa catatan. Gagal per siswa dicatat lalu lanjut.
// Dijalankan ulang = no-op untuk siswa yang sudah punya entri.
func (s *AttendanceService) SweepDay(ctx context.Context, date dbtime.Date) (*SweepResult, error) {
	if date.IsZero() {
		date = dbtime.Today(s.Loc)
	}
	db := s.DB.WithContext(ctx)
	res := &SweepResult{Date: date}

	tracked := db.Model(&rosterModel.StudentModel{}).
		Where("student_is_active = ? AND student_class_id IS NOT NULL", true)
	if err := tracked.Count(&res.Tracked).Error; err != nil {
		return nil, apperror.FromDB(err, "gagal menghitung siswa")
	}

	var targets []sweepTarget
	if err := db.Model(&rosterModel.StudentModel{}).
		Select("student_id, student_class_id").
		Where("student_is_active = ? AND student_class_id IS NOT NULL", true).
		Where(`NOT EXISTS (
			SELECT 1 FROM attendance_entries e
			WHERE e.attendance_entry_student_id = students.student_id
			  AND e.attendance_entry_date = ?)`, date).
		Order("student_id ASC").
		Scan(&targets).Error; err != nil {
		return nil, apperror.FromDB(err, "gagal mencari siswa tanpa presensi")
	}
	res.Missing = len(targets)

	for _, t := range targets {
		if err := ctx.Err(); err != nil {
			log.Printf("[SWEEP] dihentikan date=%s inserted=%d failed=%d: %v", date, res.Inserted, res.Failed, err)
			return res, apperror.Persistence(err, "sweep dibatalkan")
		}

		row := model.AttendanceEntryModel{
			AttendanceEntryClassID:   t.ClassID,
			AttendanceEntryStudentID: t.StudentID,
			AttendanceEntryDate:      date,
			AttendanceEntryStatus:    model.AttendanceStatusAbsent,
		}
		ins := db.Clauses(clause.OnConflict{Columns: entryKeyColumns, DoNothing: true}).Create(&row)
		if ins.Error != nil {
			res.Failed++
			log.Printf("[SWEEP ERROR] student=%s class=%s date=%s: %v", t.StudentID, t.ClassID, date, ins.Error)
			continue
		}
		if ins.RowsAffected == 1 {
			res.Inserted++
		}
	}

	log.Printf("[SWEEP] date=%s tracked=%d missing=%d inserted=%d failed=%d",
		date, res.Tracked, res.Missing, res.Inserted, res.Failed)
	return res, nil
}
