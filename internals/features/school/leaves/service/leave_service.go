// file: internals/features/school/leaves/service/leave_service.go
package service

import (
	"context"
	"log"
	"strings"
	"time"

	"sekolahku_backend/internals/configs"
	database "sekolahku_backend/internals/databases"
	attendanceModel "sekolahku_backend/internals/features/school/attendance/model"
	"sekolahku_backend/internals/features/school/leaves/model"
	rosterService "sekolahku_backend/internals/features/school/rosters/service"
	helper "sekolahku_backend/internals/helpers"
	"sekolahku_backend/internals/helpers/apperror"
	"sekolahku_backend/internals/helpers/dbtime"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type LeaveService struct {
	DB            *gorm.DB
	Roster        rosterService.RosterService
	TxMaxRetries  int
	OverlapPolicy string
}

func NewLeaveService(db *gorm.DB, roster rosterService.RosterService, cfg configs.AppConfig) *LeaveService {
	if roster == nil {
		roster = rosterService.NewRosterService()
	}
	policy := cfg.LeaveOverlapPolicy
	if policy != configs.LeaveOverlapMerge {
		policy = configs.LeaveOverlapStrict
	}
	return &LeaveService{
		DB:            db,
		Roster:        roster,
		TxMaxRetries:  cfg.TxMaxRetries,
		OverlapPolicy: policy,
	}
}

/* =========================================================
   CREATE / GET / LIST
========================================================= */

type CreateLeaveInput struct {
	StudentID     uuid.UUID
	StartDate     dbtime.Date
	EndDate       dbtime.Date
	Category      model.LeaveCategory
	Reason        string
	AttachmentURL *string
}

func (s *LeaveService) Create(ctx context.Context, in CreateLeaveInput) (*model.LeaveRequestModel, error) {
	fields := map[string]string{}
	if in.StartDate.IsZero() {
		fields["start_date"] = "required"
	}
	if in.EndDate.IsZero() {
		fields["end_date"] = "required"
	}
	if !in.StartDate.IsZero() && !in.EndDate.IsZero() && in.StartDate.After(in.EndDate) {
		fields["start_date"] = "ltefield=end_date"
	}
	if !in.Category.Valid() {
		fields["category"] = "oneof=sick personal other"
	}
	if strings.TrimSpace(in.Reason) == "" {
		fields["reason"] = "required"
	}
	if len(fields) > 0 {
		return nil, apperror.ValidationFields("data izin tidak valid", fields)
	}

	db := s.DB.WithContext(ctx)
	if _, err := s.Roster.GetStudent(db, in.StudentID); err != nil {
		return nil, err
	}

	m := model.LeaveRequestModel{
		LeaveRequestStudentID:     in.StudentID,
		LeaveRequestStartDate:     in.StartDate,
		LeaveRequestEndDate:       in.EndDate,
		LeaveRequestCategory:      in.Category,
		LeaveRequestReason:        in.Reason,
		LeaveRequestAttachmentURL: in.AttachmentURL,
		LeaveRequestStatus:        model.LeaveStatusSubmitted,
	}
	if err := db.Create(&m).Error; err != nil {
		return nil, apperror.Persistence(err, "gagal menyimpan izin")
	}
	return &m, nil
}

func (s *LeaveService) Get(ctx context.Context, id uuid.UUID) (*model.LeaveRequestModel, error) {
	var m model.LeaveRequestModel
	if err := s.DB.WithContext(ctx).Where("leave_request_id = ?", id).Take(&m).Error; err != nil {
		return nil, apperror.FromDB(err, "izin tidak ditemukan")
	}
	return &m, nil
}

type ListParams struct {
	Status    *model.LeaveStatus
	StudentID *uuid.UUID
	Keyword   string
	Paging    helper.Paging
}

type LeaveRow struct {
	model.LeaveRequestModel
	StudentName string `gorm:"column:student_name" json:"student_name"`
}

// List: terbaru dulu.
func (s *LeaveService) List(ctx context.Context, p ListParams) ([]LeaveRow, int64, error) {
	pg := helper.ClampPaging(p.Paging.Page, p.Paging.PerPage, helper.DefaultPerPage, helper.MaxPerPage)

	q := s.DB.WithContext(ctx).
		Table("leave_requests AS l").
		Joins("JOIN students AS st ON st.student_id = l.leave_request_student_id")
	if p.Status != nil {
		q = q.Where("l.leave_request_status = ?", string(*p.Status))
	}
	if p.StudentID != nil {
		q = q.Where("l.leave_request_student_id = ?", *p.StudentID)
	}
	if kw := strings.ToLower(strings.TrimSpace(p.Keyword)); kw != "" {
		q = q.Where("LOWER(st.student_name) LIKE ?", "%"+kw+"%")
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, apperror.FromDB(err, "gagal menghitung izin")
	}

	rows := []LeaveRow{}
	if err := q.Select("l.*, st.student_name").
		Order("l.leave_request_created_at DESC").
		Order("l.leave_request_id ASC").
		Limit(pg.Limit).Offset(pg.Offset).
		Scan(&rows).Error; err != nil {
		return nil, 0, apperror.FromDB(err, "gagal mengambil izin")
	}
	return rows, total, nil
}

/* =========================================================
   APPROVE (materialisasi ke ledger presensi)
========================================================= */

type ApproveResult struct {
	Leave            model.LeaveRequestModel `json:"leave"`
	MaterializedDays int                     `json:"materialized_days"`
	SkippedDays      int                     `json:"skipped_days"`
}

// Approve: submitted → approved. Setiap hari kerja di [start, end] jadi satu entri
// presensi (Sabtu/Minggu dilewati). Semua dalam satu transaksi: gagal satu → batal semua,
// status izin tetap submitted.
func (s *LeaveService) Approve(ctx context.Context, id uuid.UUID) (*ApproveResult, error) {
	var out *ApproveResult
	err := database.WithTx(ctx, s.DB, s.TxMaxRetries, func(tx *gorm.DB) error {
		lr, err := s.lockSubmitted(tx, id)
		if err != nil {
			return err
		}

		classID, err := s.Roster.StudentClass(tx, lr.LeaveRequestStudentID)
		if err != nil {
			return err
		}
		if classID == nil {
			return apperror.Validation("siswa belum terdaftar di kelas mana pun")
		}

		days := dbtime.BusinessDays(lr.LeaveRequestStartDate, lr.LeaveRequestEndDate)
		status := lr.LeaveRequestCategory.AttendanceStatus()
		note := attendanceModel.NormalizeNote(&lr.LeaveRequestReason)

		count := 0
		for _, d := range days {
			wrote, err := s.materializeDay(tx, *classID, lr.LeaveRequestStudentID, d, status, note)
			if err != nil {
				return err
			}
			if wrote {
				count++
			}
		}

		now := time.Now()
		upd := tx.Model(&model.LeaveRequestModel{}).
			Where("leave_request_id = ? AND leave_request_status = ?", id, string(model.LeaveStatusSubmitted)).
			Updates(map[string]any{
				"leave_request_status":            string(model.LeaveStatusApproved),
				"leave_request_decided_at":        now,
				"leave_request_materialized_days": count,
				"leave_request_updated_at":        now,
			})
		if upd.Error != nil {
			return apperror.Persistence(upd.Error, "gagal menyetujui izin")
		}
		if upd.RowsAffected != 1 {
			return apperror.InvalidState("izin sudah diproses")
		}

		lr.LeaveRequestStatus = model.LeaveStatusApproved
		lr.LeaveRequestDecidedAt = &now
		lr.LeaveRequestMaterializedDays = count
		lr.LeaveRequestUpdatedAt = now
		out = &ApproveResult{Leave: *lr, MaterializedDays: count, SkippedDays: len(days) - count}
		return nil
	})
	if err != nil {
		return nil, err
	}

	log.Printf("[LEAVE] approved id=%s student=%s days=%d skipped=%d policy=%s",
		id, out.Leave.LeaveRequestStudentID, out.MaterializedDays, out.SkippedDays, s.OverlapPolicy)
	return out, nil
}

// materializeDay: true kalau satu hari tercatat di ledger.
//
//	strict: insert biasa; entri yang sudah ada → unique violation → PersistenceError (rollback).
//	merge : entri "absent" ditimpa; status lain dibiarkan & tidak dihitung.
func (s *LeaveService) materializeDay(tx *gorm.DB, classID, studentID uuid.UUID, d dbtime.Date, status attendanceModel.AttendanceStatus, note *string) (bool, error) {
	row := attendanceModel.AttendanceEntryModel{
		AttendanceEntryClassID:   classID,
		AttendanceEntryStudentID: studentID,
		AttendanceEntryDate:      d,
		AttendanceEntryStatus:    status,
		AttendanceEntryNote:      note,
	}

	if s.OverlapPolicy != configs.LeaveOverlapMerge {
		if err := tx.Create(&row).Error; err != nil {
			if apperror.IsUniqueViolation(err) {
				return false, apperror.Persistence(err, "presensi tanggal "+d.String()+" sudah ada")
			}
			return false, apperror.Persistence(err, "gagal materialisasi izin")
		}
		return true, nil
	}

	ins := tx.Clauses(clause.OnConflict{
		Columns: []clause.Column{
			{Name: "attendance_entry_class_id"},
			{Name: "attendance_entry_student_id"},
			{Name: "attendance_entry_date"},
		},
		DoNothing: true,
	}).Create(&row)
	if ins.Error != nil {
		return false, apperror.Persistence(ins.Error, "gagal materialisasi izin")
	}
	if ins.RowsAffected == 1 {
		return true, nil
	}

	upd := tx.Model(&attendanceModel.AttendanceEntryModel{}).
		Where("attendance_entry_class_id = ? AND attendance_entry_student_id = ? AND attendance_entry_date = ?", classID, studentID, d).
		Where("attendance_entry_status = ?", string(attendanceModel.AttendanceStatusAbsent)).
		Updates(map[string]any{
			"attendance_entry_status":     string(status),
			"attendance_entry_note":       attendanceModel.NoteValue(note),
			"attendance_entry_updated_at": time.Now(),
		})
	if upd.Error != nil {
		return false, apperror.Persistence(upd.Error, "gagal materialisasi izin")
	}
	return upd.RowsAffected == 1, nil
}

/* =========================================================
   REJECT (tanpa efek ke ledger)
========================================================= */

func (s *LeaveService) Reject(ctx context.Context, id uuid.UUID) (*model.LeaveRequestModel, error) {
	var out *model.LeaveRequestModel
	err := database.WithTx(ctx, s.DB, s.TxMaxRetries, func(tx *gorm.DB) error {
		lr, err := s.lockSubmitted(tx, id)
		if err != nil {
			return err
		}

		now := time.Now()
		upd := tx.Model(&model.LeaveRequestModel{}).
			Where("leave_request_id = ? AND leave_request_status = ?", id, string(model.LeaveStatusSubmitted)).
			Updates(map[string]any{
				"leave_request_status":     string(model.LeaveStatusRejected),
				"leave_request_decided_at": now,
				"leave_request_updated_at": now,
			})
		if upd.Error != nil {
			return apperror.Persistence(upd.Error, "gagal menolak izin")
		}
		if upd.RowsAffected != 1 {
			return apperror.InvalidState("izin sudah diproses")
		}

		lr.LeaveRequestStatus = model.LeaveStatusRejected
		lr.LeaveRequestDecidedAt = &now
		lr.LeaveRequestUpdatedAt = now
		out = lr
		return nil
	})
	if err != nil {
		return nil, err
	}
	log.Printf("[LEAVE] rejected id=%s student=%s", id, out.LeaveRequestStudentID)
	return out, nil
}

// lockSubmitted: SELECT ... FOR UPDATE; status terminal → InvalidState.
func (s *LeaveService) lockSubmitted(tx *gorm.DB, id uuid.UUID) (*model.LeaveRequestModel, error) {
	var lr model.LeaveRequestModel
	if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("leave_request_id = ?", id).
		Take(&lr).Error; err != nil {
		return nil, apperror.FromDB(err, "izin tidak ditemukan")
	}
	if lr.LeaveRequestStatus.IsTerminal() {
		return nil, apperror.InvalidState("izin sudah berstatus %s", lr.LeaveRequestStatus)
	}
	return &lr, nil
}
