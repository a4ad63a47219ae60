// file: internals/features/school/attendance/service/attendance_service.go
package service

import (
	"context"
	"fmt"
	"log"
	"time"

	"sekolahku_backend/internals/configs"
	database "sekolahku_backend/internals/databases"
	"sekolahku_backend/internals/features/school/attendance/model"
	rosterService "sekolahku_backend/internals/features/school/rosters/service"
	"sekolahku_backend/internals/helpers/apperror"
	"sekolahku_backend/internals/helpers/dbtime"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

/* =========================================================
   Service
========================================================= */

type AttendanceService struct {
	DB           *gorm.DB
	Roster       rosterService.RosterService
	TxMaxRetries int
	Loc          *time.Location
}

func NewAttendanceService(db *gorm.DB, roster rosterService.RosterService, cfg configs.AppConfig) *AttendanceService {
	if roster == nil {
		roster = rosterService.NewRosterService()
	}
	return &AttendanceService{
		DB:           db,
		Roster:       roster,
		TxMaxRetries: cfg.TxMaxRetries,
		Loc:          cfg.Location(),
	}
}

// Kolom unik ledger (kelas, siswa, tanggal).
var entryKeyColumns = []clause.Column{
	{Name: "attendance_entry_class_id"},
	{Name: "attendance_entry_student_id"},
	{Name: "attendance_entry_date"},
}

const entryKeyWhere = "attendance_entry_class_id = ? AND attendance_entry_student_id = ? AND attendance_entry_date = ?"

/* =========================================================
   UPSERT DAILY (reconciler)
========================================================= */

type DailyEntryInput struct {
	StudentID uuid.UUID
	Status    model.AttendanceStatus
	Note      *string
}

type UpsertDailyResult struct {
	ClassID           uuid.UUID   `json:"class_id"`
	Date              dbtime.Date `json:"date"`
	Accepted          int         `json:"accepted"`
	Changed           int         `json:"changed"`
	Unchanged         int         `json:"unchanged"`
	Dropped           int         `json:"dropped"`
	DroppedStudentIDs []uuid.UUID `json:"dropped_student_ids"`
}

// UpsertDaily: upsert batch presensi satu kelas/tanggal dalam satu transaksi.
// Siswa yang bukan anggota kelas dibuang (dihitung di Dropped).
func (s *AttendanceService) UpsertDaily(ctx context.Context, classID uuid.UUID, date dbtime.Date, entries []DailyEntryInput) (*UpsertDailyResult, error) {
	if date.IsZero() {
		return nil, apperror.Validation("tanggal wajib diisi")
	}
	if len(entries) == 0 {
		return nil, apperror.Validation("entries tidak boleh kosong")
	}

	seen := make(map[uuid.UUID]bool, len(entries))
	ids := make([]uuid.UUID, 0, len(entries))
	for i, e := range entries {
		if !e.Status.Valid() {
			return nil, apperror.ValidationFields("status presensi tidak valid", map[string]string{
				fmt.Sprintf("entries[%d].status", i): "oneof=present excused sick absent late",
			})
		}
		if seen[e.StudentID] {
			return nil, apperror.ValidationFields("siswa duplikat dalam satu batch", map[string]string{
				fmt.Sprintf("entries[%d].student_id", i): "unique",
			})
		}
		seen[e.StudentID] = true
		ids = append(ids, e.StudentID)
	}

	var res *UpsertDailyResult
	err := database.WithTx(ctx, s.DB, s.TxMaxRetries, func(tx *gorm.DB) error {
		// hasil di-reset tiap attempt (retry transaksi)
		res = &UpsertDailyResult{ClassID: classID, Date: date, DroppedStudentIDs: []uuid.UUID{}}

		ok, err := s.Roster.ClassExists(tx, classID)
		if err != nil {
			return err
		}
		if !ok {
			return apperror.NotFound("kelas tidak ditemukan")
		}

		members, err := s.Roster.MembersOf(tx, classID, ids)
		if err != nil {
			return err
		}

		accepted := make([]DailyEntryInput, 0, len(entries))
		for _, e := range entries {
			if members[e.StudentID] {
				accepted = append(accepted, e)
				continue
			}
			res.DroppedStudentIDs = append(res.DroppedStudentIDs, e.StudentID)
		}
		res.Dropped = len(res.DroppedStudentIDs)
		res.Accepted = len(accepted)
		if len(accepted) == 0 {
			return apperror.Validation("tidak ada siswa yang terdaftar di kelas ini")
		}

		for _, e := range accepted {
			changed, err := upsertEntry(tx, classID, date, e)
			if err != nil {
				return err
			}
			if changed {
				res.Changed++
			} else {
				res.Unchanged++
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	log.Printf("[ATTENDANCE] upsert class=%s date=%s accepted=%d changed=%d dropped=%d",
		classID, date, res.Accepted, res.Changed, res.Dropped)
	return res, nil
}

// upsertEntry: insert kalau belum ada; kalau sudah ada, update hanya bila status/note berubah.
func upsertEntry(tx *gorm.DB, classID uuid.UUID, date dbtime.Date, e DailyEntryInput) (bool, error) {
	note := model.NormalizeNote(e.Note)
	row := model.AttendanceEntryModel{
		AttendanceEntryClassID:   classID,
		AttendanceEntryStudentID: e.StudentID,
		AttendanceEntryDate:      date,
		AttendanceEntryStatus:    e.Status,
		AttendanceEntryNote:      note,
	}

	ins := tx.Clauses(clause.OnConflict{Columns: entryKeyColumns, DoNothing: true}).Create(&row)
	if ins.Error != nil {
		return false, apperror.Persistence(ins.Error, "gagal menyimpan presensi")
	}
	if ins.RowsAffected == 1 {
		return true, nil
	}

	var cur model.AttendanceEntryModel
	if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where(entryKeyWhere, classID, e.StudentID, date).
		Take(&cur).Error; err != nil {
		return false, apperror.Persistence(err, "gagal membaca presensi")
	}
	if cur.AttendanceEntryStatus == e.Status && model.SameNote(cur.AttendanceEntryNote, note) {
		return false, nil
	}

	if err := tx.Model(&model.AttendanceEntryModel{}).
		Where("attendance_entry_id = ?", cur.AttendanceEntryID).
		Updates(map[string]any{
			"attendance_entry_status":     string(e.Status),
			"attendance_entry_note":       model.NoteValue(note),
			"attendance_entry_updated_at": time.Now(),
		}).Error; err != nil {
		return false, apperror.Persistence(err, "gagal memperbarui presensi")
	}
	return true, nil
}

/* =========================================================
   CORRECT / DELETE (koreksi langsung)
========================================================= */

// CorrectEntry: minimal satu field. note "" → hapus catatan.
func (s *AttendanceService) CorrectEntry(ctx context.Context, entryID uuid.UUID, status *model.AttendanceStatus, note *string) (*model.AttendanceEntryModel, error) {
	if status == nil && note == nil {
		return nil, apperror.Validation("minimal satu field (status/note) harus diisi")
	}
	if status != nil && !status.Valid() {
		return nil, apperror.ValidationFields("status presensi tidak valid", map[string]string{
			"status": "oneof=present excused sick absent late",
		})
	}

	var out model.AttendanceEntryModel
	err := database.WithTx(ctx, s.DB, s.TxMaxRetries, func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("attendance_entry_id = ?", entryID).
			Take(&out).Error; err != nil {
			return apperror.FromDB(err, "data presensi tidak ditemukan")
		}

		now := time.Now()
		patch := map[string]any{"attendance_entry_updated_at": now}
		out.AttendanceEntryUpdatedAt = now
		if status != nil {
			patch["attendance_entry_status"] = string(*status)
			out.AttendanceEntryStatus = *status
		}
		if note != nil {
			n := model.NormalizeNote(note)
			patch["attendance_entry_note"] = model.NoteValue(n)
			out.AttendanceEntryNote = n
		}
		if err := tx.Model(&model.AttendanceEntryModel{}).
			Where("attendance_entry_id = ?", entryID).
			Updates(patch).Error; err != nil {
			return apperror.Persistence(err, "gagal memperbarui presensi")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// DeleteEntry: hard delete (unique index tidak cocok dengan soft delete).
func (s *AttendanceService) DeleteEntry(ctx context.Context, entryID uuid.UUID) error {
	res := s.DB.WithContext(ctx).
		Where("attendance_entry_id = ?", entryID).
		Delete(&model.AttendanceEntryModel{})
	if res.Error != nil {
		return apperror.Persistence(res.Error, "gagal menghapus presensi")
	}
	if res.RowsAffected == 0 {
		return apperror.NotFound("data presensi tidak ditemukan")
	}
	return nil
}
