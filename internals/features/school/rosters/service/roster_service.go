// file: internals/features/school/rosters/service/roster_service.go
package service

import (
	"strings"

	"sekolahku_backend/internals/features/school/rosters/model"
	helper "sekolahku_backend/internals/helpers"
	"sekolahku_backend/internals/helpers/apperror"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// RosterService: lookup kelas/siswa/term yang dibutuhkan presensi & penilaian.
// Semua method menerima tx supaya bisa dipakai di dalam transaksi pemanggil.
type RosterService interface {
	ClassExists(tx *gorm.DB, classID uuid.UUID) (bool, error)
	MembersOf(tx *gorm.DB, classID uuid.UUID, studentIDs []uuid.UUID) (map[uuid.UUID]bool, error)
	GetStudent(tx *gorm.DB, studentID uuid.UUID) (*model.StudentModel, error)
	StudentClass(tx *gorm.DB, studentID uuid.UUID) (*uuid.UUID, error)
	TrackedStudentIDs(tx *gorm.DB) ([]uuid.UUID, error)
	ListStudentsOfClass(tx *gorm.DB, classID uuid.UUID, keyword string, pg helper.Paging) ([]model.StudentModel, int64, error)
	GetClassSubject(tx *gorm.DB, classSubjectID uuid.UUID) (*model.ClassSubjectModel, error)
	ClassSubjectsOfClass(tx *gorm.DB, classID uuid.UUID) ([]model.ClassSubjectModel, error)
	TermExists(tx *gorm.DB, termID uuid.UUID) (bool, error)
}

type rosterSvc struct{}

func NewRosterService() RosterService {
	return &rosterSvc{}
}

func (s *rosterSvc) ClassExists(tx *gorm.DB, classID uuid.UUID) (bool, error) {
	var cnt int64
	if err := tx.Model(&model.ClassModel{}).
		Where("class_id = ?", classID).
		Count(&cnt).Error; err != nil {
		return false, apperror.FromDB(err, "gagal memeriksa kelas")
	}
	return cnt > 0, nil
}

// MembersOf: subset studentIDs yang saat ini anggota aktif classID.
func (s *rosterSvc) MembersOf(tx *gorm.DB, classID uuid.UUID, studentIDs []uuid.UUID) (map[uuid.UUID]bool, error) {
	out := make(map[uuid.UUID]bool, len(studentIDs))
	if len(studentIDs) == 0 {
		return out, nil
	}
	var ids []uuid.UUID
	if err := tx.Model(&model.StudentModel{}).
		Where("student_class_id = ? AND student_is_active = ?", classID, true).
		Where("student_id IN ?", studentIDs).
		Pluck("student_id", &ids).Error; err != nil {
		return nil, apperror.FromDB(err, "gagal memeriksa anggota kelas")
	}
	for _, id := range ids {
		out[id] = true
	}
	return out, nil
}

func (s *rosterSvc) GetStudent(tx *gorm.DB, studentID uuid.UUID) (*model.StudentModel, error) {
	var m model.StudentModel
	if err := tx.Where("student_id = ?", studentID).Take(&m).Error; err != nil {
		return nil, apperror.FromDB(err, "siswa tidak ditemukan")
	}
	return &m, nil
}

// StudentClass: kelas siswa saat ini (nil kalau belum punya kelas).
func (s *rosterSvc) StudentClass(tx *gorm.DB, studentID uuid.UUID) (*uuid.UUID, error) {
	st, err := s.GetStudent(tx, studentID)
	if err != nil {
		return nil, err
	}
	return st.StudentClassID, nil
}

// TrackedStudentIDs: siswa aktif yang punya kelas.
func (s *rosterSvc) TrackedStudentIDs(tx *gorm.DB) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	if err := tx.Model(&model.StudentModel{}).
		Where("student_is_active = ? AND student_class_id IS NOT NULL", true).
		Order("student_name ASC").
		Pluck("student_id", &ids).Error; err != nil {
		return nil, apperror.FromDB(err, "gagal mengambil daftar siswa")
	}
	return ids, nil
}

func (s *rosterSvc) ListStudentsOfClass(tx *gorm.DB, classID uuid.UUID, keyword string, pg helper.Paging) ([]model.StudentModel, int64, error) {
	q := tx.Model(&model.StudentModel{}).
		Where("student_class_id = ? AND student_is_active = ?", classID, true)
	if kw := strings.ToLower(strings.TrimSpace(keyword)); kw != "" {
		q = q.Where("LOWER(student_name) LIKE ?", "%"+kw+"%")
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, apperror.FromDB(err, "gagal menghitung siswa")
	}

	var rows []model.StudentModel
	if pg.Limit > 0 {
		q = q.Limit(pg.Limit).Offset(pg.Offset)
	}
	if err := q.Order("student_name ASC").Order("student_id ASC").Find(&rows).Error; err != nil {
		return nil, 0, apperror.FromDB(err, "gagal mengambil siswa")
	}
	return rows, total, nil
}

func (s *rosterSvc) GetClassSubject(tx *gorm.DB, classSubjectID uuid.UUID) (*model.ClassSubjectModel, error) {
	var m model.ClassSubjectModel
	if err := tx.Where("class_subject_id = ?", classSubjectID).Take(&m).Error; err != nil {
		return nil, apperror.FromDB(err, "class subject tidak ditemukan")
	}
	return &m, nil
}

func (s *rosterSvc) ClassSubjectsOfClass(tx *gorm.DB, classID uuid.UUID) ([]model.ClassSubjectModel, error) {
	var rows []model.ClassSubjectModel
	if err := tx.Where("class_subject_class_id = ?", classID).
		Order("class_subject_subject_name ASC").
		Find(&rows).Error; err != nil {
		return nil, apperror.FromDB(err, "gagal mengambil mapel kelas")
	}
	return rows, nil
}

func (s *rosterSvc) TermExists(tx *gorm.DB, termID uuid.UUID) (bool, error) {
	var cnt int64
	if err := tx.Model(&model.AcademicTermModel{}).
		Where("academic_term_id = ?", termID).
		Count(&cnt).Error; err != nil {
		return false, apperror.FromDB(err, "gagal memeriksa term")
	}
	return cnt > 0, nil
}
