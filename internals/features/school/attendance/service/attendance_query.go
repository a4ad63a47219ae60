// file: internals/features/school/attendance/service/attendance_query.go
package service

import (
	"context"
	"strings"
	"time"

	"sekolahku_backend/internals/features/school/attendance/model"
	helper "sekolahku_backend/internals/helpers"
	"sekolahku_backend/internals/helpers/apperror"
	"sekolahku_backend/internals/helpers/dbtime"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

/* =========================================================
   Read models
========================================================= */

type EntryRow struct {
	AttendanceEntryID uuid.UUID              `gorm:"column:attendance_entry_id" json:"attendance_entry_id"`
	ClassID           uuid.UUID              `gorm:"column:attendance_entry_class_id" json:"class_id"`
	ClassName         string                 `gorm:"column:class_name" json:"class_name"`
	StudentID         uuid.UUID              `gorm:"column:attendance_entry_student_id" json:"student_id"`
	StudentName       string                 `gorm:"column:student_name" json:"student_name"`
	Date              dbtime.Date            `gorm:"column:attendance_entry_date" json:"date"`
	Status            model.AttendanceStatus `gorm:"column:attendance_entry_status" json:"status"`
	Note              *string                `gorm:"column:attendance_entry_note" json:"note,omitempty"`
	UpdatedAt         time.Time              `gorm:"column:attendance_entry_updated_at" json:"updated_at"`
}

const entryRowSelect = `e.attendance_entry_id, e.attendance_entry_class_id, c.class_name,
	e.attendance_entry_student_id, st.student_name, e.attendance_entry_date,
	e.attendance_entry_status, e.attendance_entry_note, e.attendance_entry_updated_at`

func (s *AttendanceService) entryRows(ctx context.Context) *gorm.DB {
	return s.DB.WithContext(ctx).
		Table("attendance_entries AS e").
		Joins("JOIN students AS st ON st.student_id = e.attendance_entry_student_id").
		Joins("LEFT JOIN classes AS c ON c.class_id = e.attendance_entry_class_id")
}

/* =========================================================
   QUERY LEDGER
========================================================= */

type QueryParams struct {
	ClassID *uuid.UUID
	From    *dbtime.Date
	To      *dbtime.Date
	Name    string
	Paging  helper.Paging
}

type QueryResult struct {
	From      dbtime.Date `json:"from"`
	To        dbtime.Date `json:"to"`
	Defaulted bool        `json:"defaulted"`
	Items     []EntryRow  `json:"items"`
	Total     int64       `json:"total"`
}

// ResolveRange: bound yang kosong → hari ini (zona sekolah). from > to → ValidationError.
func ResolveRange(from, to *dbtime.Date, today dbtime.Date) (dbtime.Date, dbtime.Date, bool, error) {
	defaulted := from == nil || to == nil
	f, t := today, today
	if from != nil {
		f = *from
	}
	if to != nil {
		t = *to
	}
	if f.After(t) {
		return f, t, defaulted, apperror.ValidationFields("rentang tanggal tidak valid", map[string]string{
			"from": "ltefield=to",
		})
	}
	return f, t, defaulted, nil
}

// Query: urut tanggal DESC lalu nama siswa ASC.
func (s *AttendanceService) Query(ctx context.Context, p QueryParams) (*QueryResult, error) {
	from, to, defaulted, err := ResolveRange(p.From, p.To, dbtime.Today(s.Loc))
	if err != nil {
		return nil, err
	}
	pg := helper.ClampPaging(p.Paging.Page, p.Paging.PerPage, helper.DefaultPerPage, helper.MaxPerPage)

	q := s.entryRows(ctx).
		Where("e.attendance_entry_date BETWEEN ? AND ?", from, to)
	if p.ClassID != nil {
		q = q.Where("e.attendance_entry_class_id = ?", *p.ClassID)
	}
	if kw := strings.ToLower(strings.TrimSpace(p.Name)); kw != "" {
		q = q.Where("LOWER(st.student_name) LIKE ?", "%"+kw+"%")
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, apperror.FromDB(err, "gagal menghitung data presensi")
	}

	items := []EntryRow{}
	if err := q.Select(entryRowSelect).
		Order("e.attendance_entry_date DESC").
		Order("st.student_name ASC").
		Order("e.attendance_entry_id ASC").
		Limit(pg.Limit).Offset(pg.Offset).
		Scan(&items).Error; err != nil {
		return nil, apperror.FromDB(err, "gagal mengambil data presensi")
	}

	return &QueryResult{From: from, To: to, Defaulted: defaulted, Items: items, Total: total}, nil
}

/* =========================================================
   SUMMARIZE (tally per siswa)
========================================================= */

type PersonSummary struct {
	StudentID   uuid.UUID `gorm:"column:student_id" json:"student_id"`
	StudentName string    `gorm:"column:student_name" json:"student_name"`
	Present     int64     `gorm:"column:present" json:"present"`
	Excused     int64     `gorm:"column:excused" json:"excused"`
	Sick        int64     `gorm:"column:sick" json:"sick"`
	Absent      int64     `gorm:"column:absent" json:"absent"`
	Late        int64     `gorm:"column:late" json:"late"`
	Total       int64     `gorm:"column:total" json:"total"`
	// hadir / total × 100
	PresentPercentage float64 `gorm:"-" json:"present_percentage"`
}

type SummaryResult struct {
	ClassID uuid.UUID       `json:"class_id"`
	From    *dbtime.Date    `json:"from,omitempty"`
	To      *dbtime.Date    `json:"to,omitempty"`
	Items   []PersonSummary `json:"items"`
}

const summarySelect = `e.attendance_entry_student_id AS student_id, st.student_name AS student_name,
	SUM(CASE WHEN e.attendance_entry_status = 'present' THEN 1 ELSE 0 END) AS present,
	SUM(CASE WHEN e.attendance_entry_status = 'excused' THEN 1 ELSE 0 END) AS excused,
	SUM(CASE WHEN e.attendance_entry_status = 'sick' THEN 1 ELSE 0 END) AS sick,
	SUM(CASE WHEN e.attendance_entry_status = 'absent' THEN 1 ELSE 0 END) AS absent,
	SUM(CASE WHEN e.attendance_entry_status = 'late' THEN 1 ELSE 0 END) AS late,
	COUNT(*) AS total`

// Summarize: tally status per siswa untuk satu kelas. Bound kosong = tanpa batas.
func (s *AttendanceService) Summarize(ctx context.Context, classID uuid.UUID, from, to *dbtime.Date) (*SummaryResult, error) {
	if from != nil && to != nil && from.After(*to) {
		return nil, apperror.ValidationFields("rentang tanggal tidak valid", map[string]string{"from": "ltefield=to"})
	}
	ok, err := s.Roster.ClassExists(s.DB.WithContext(ctx), classID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, apperror.NotFound("kelas tidak ditemukan")
	}

	q := s.entryRows(ctx).Where("e.attendance_entry_class_id = ?", classID)
	if from != nil {
		q = q.Where("e.attendance_entry_date >= ?", *from)
	}
	if to != nil {
		q = q.Where("e.attendance_entry_date <= ?", *to)
	}

	items := []PersonSummary{}
	if err := q.Select(summarySelect).
		Group("e.attendance_entry_student_id, st.student_name").
		Order("st.student_name ASC").
		Scan(&items).Error; err != nil {
		return nil, apperror.FromDB(err, "gagal membuat rekap presensi")
	}
	for i := range items {
		items[i].PresentPercentage = helper.Percent(items[i].Present, items[i].Total)
	}
	return &SummaryResult{ClassID: classID, From: from, To: to, Items: items}, nil
}

/* =========================================================
   LIST BY PERSON
========================================================= */

func (s *AttendanceService) ListByPerson(ctx context.Context, studentID uuid.UUID, from, to *dbtime.Date) ([]EntryRow, error) {
	if from != nil && to != nil && from.After(*to) {
		return nil, apperror.ValidationFields("rentang tanggal tidak valid", map[string]string{"from": "ltefield=to"})
	}
	if _, err := s.Roster.GetStudent(s.DB.WithContext(ctx), studentID); err != nil {
		return nil, err
	}

	q := s.entryRows(ctx).Where("e.attendance_entry_student_id = ?", studentID)
	if from != nil {
		q = q.Where("e.attendance_entry_date >= ?", *from)
	}
	if to != nil {
		q = q.Where("e.attendance_entry_date <= ?", *to)
	}

	items := []EntryRow{}
	if err := q.Select(entryRowSelect).
		Order("e.attendance_entry_date DESC").
		Scan(&items).Error; err != nil {
		return nil, apperror.FromDB(err, "gagal mengambil riwayat presensi")
	}
	return items, nil
}

/* =========================================================
   DAILY RECAP (semua siswa yang dilacak, satu tanggal)
========================================================= */

type DailyRecap struct {
	Date     dbtime.Date                      `json:"date"`
	Tracked  int                              `json:"tracked"`
	Recorded int64                            `json:"recorded"`
	Unmarked int64                            `json:"unmarked"`
	Counts   map[model.AttendanceStatus]int64 `json:"counts"`
}

type statusCount struct {
	Status model.AttendanceStatus `gorm:"column:status"`
	Total  int64                  `gorm:"column:total"`
}

func (s *AttendanceService) DailyRecap(ctx context.Context, date dbtime.Date) (*DailyRecap, error) {
	db := s.DB.WithContext(ctx)
	tracked, err := s.Roster.TrackedStudentIDs(db)
	if err != nil {
		return nil, err
	}

	out := &DailyRecap{Date: date, Tracked: len(tracked), Counts: map[model.AttendanceStatus]int64{}}
	for _, st := range model.AllAttendanceStatuses {
		out.Counts[st] = 0
	}

	var rows []statusCount
	if err := db.Model(&model.AttendanceEntryModel{}).
		Select("attendance_entry_status AS status, COUNT(*) AS total").
		Where("attendance_entry_date = ?", date).
		Group("attendance_entry_status").
		Scan(&rows).Error; err != nil {
		return nil, apperror.FromDB(err, "gagal membuat rekap harian")
	}
	for _, r := range rows {
		out.Counts[r.Status] = r.Total
	}

	if len(tracked) > 0 {
		if err := db.Model(&model.AttendanceEntryModel{}).
			Where("attendance_entry_date = ?", date).
			Where("attendance_entry_student_id IN ?", tracked).
			Distinct("attendance_entry_student_id").
			Count(&out.Recorded).Error; err != nil {
			return nil, apperror.FromDB(err, "gagal membuat rekap harian")
		}
	}
	out.Unmarked = int64(out.Tracked) - out.Recorded
	return out, nil
}
