// file: internals/features/school/grading/service/score_service.go
package service

import (
	"context"
	"fmt"
	"log"
	"time"

	database "sekolahku_backend/internals/databases"
	"sekolahku_backend/internals/features/school/grading/model"
	helper "sekolahku_backend/internals/helpers"
	"sekolahku_backend/internals/helpers/apperror"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// guardWritable: dengan ScoreLockGuard, nilai hanya bisa diubah selama draft.
func (s *GradingService) guardWritable(a *model.AssessmentModel) error {
	if s.ScoreLockGuard && a.AssessmentState != model.AssessmentStateDraft {
		return apperror.InvalidState("assessment berstatus %s, nilai tidak bisa diubah", a.AssessmentState)
	}
	return nil
}

/* =========================================================
   BULK UPSERT (all-or-nothing)
========================================================= */

type ScoreItemInput struct {
	StudentID uuid.UUID
	Value     float64
	// nil → catatan lama dipertahankan
	Note *string
}

type BulkScoreResult struct {
	AssessmentID uuid.UUID `json:"assessment_id"`
	Processed    int       `json:"processed"`
}

func (s *GradingService) BulkUpsertScores(ctx context.Context, assessmentID uuid.UUID, items []ScoreItemInput) (*BulkScoreResult, error) {
	if len(items) == 0 {
		return nil, apperror.Validation("items tidak boleh kosong")
	}
	seen := make(map[uuid.UUID]bool, len(items))
	ids := make([]uuid.UUID, 0, len(items))
	for i, it := range items {
		if seen[it.StudentID] {
			return nil, apperror.ValidationFields("siswa duplikat dalam satu batch", map[string]string{
				fmt.Sprintf("items[%d].student_id", i): "unique",
			})
		}
		seen[it.StudentID] = true
		ids = append(ids, it.StudentID)
	}

	processed := 0
	err := database.WithTx(ctx, s.DB, s.TxMaxRetries, func(tx *gorm.DB) error {
		processed = 0

		a, err := s.getAssessment(tx, assessmentID, true)
		if err != nil {
			return err
		}
		if err := s.guardWritable(a); err != nil {
			return err
		}

		cs, err := s.Roster.GetClassSubject(tx, a.AssessmentClassSubjectID)
		if err != nil {
			return err
		}
		members, err := s.Roster.MembersOf(tx, cs.ClassSubjectClassID, ids)
		if err != nil {
			return err
		}
		bad := map[string]string{}
		for i, it := range items {
			if !members[it.StudentID] {
				bad[fmt.Sprintf("items[%d].student_id", i)] = "member_of_class"
			}
		}
		if len(bad) > 0 {
			return apperror.ValidationFields("siswa bukan anggota kelas", bad)
		}

		for _, it := range items {
			if err := upsertScore(tx, assessmentID, it); err != nil {
				return err
			}
			processed++
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	log.Printf("[GRADING] bulk scores assessment=%s processed=%d", assessmentID, processed)
	return &BulkScoreResult{AssessmentID: assessmentID, Processed: processed}, nil
}

func upsertScore(tx *gorm.DB, assessmentID uuid.UUID, it ScoreItemInput) error {
	cols := []string{"score_value", "score_updated_at"}
	note := helper.TrimPtr(it.Note)
	if it.Note != nil {
		cols = append(cols, "score_note")
	}

	row := model.ScoreModel{
		ScoreAssessmentID: assessmentID,
		ScoreStudentID:    it.StudentID,
		ScoreValue:        it.Value,
		ScoreNote:         note,
	}
	if err := tx.Clauses(clause.OnConflict{
		Columns: []clause.Column{
			{Name: "score_assessment_id"},
			{Name: "score_student_id"},
		},
		DoUpdates: clause.AssignmentColumns(cols),
	}).Create(&row).Error; err != nil {
		return apperror.Persistence(err, "gagal menyimpan nilai")
	}
	return nil
}

/* =========================================================
   PATCH SINGLE SCORE
========================================================= */

func (s *GradingService) PatchScore(ctx context.Context, scoreID uuid.UUID, value *float64, note *string) (*model.ScoreModel, error) {
	if value == nil && note == nil {
		return nil, apperror.Validation("minimal satu field (value/note) harus diisi")
	}

	var out model.ScoreModel
	err := database.WithTx(ctx, s.DB, s.TxMaxRetries, func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("score_id = ?", scoreID).
			Take(&out).Error; err != nil {
			return apperror.FromDB(err, "nilai tidak ditemukan")
		}
		a, err := s.getAssessment(tx, out.ScoreAssessmentID, false)
		if err != nil {
			return err
		}
		if err := s.guardWritable(a); err != nil {
			return err
		}

		now := time.Now()
		patch := map[string]any{"score_updated_at": now}
		if value != nil {
			patch["score_value"] = *value
			out.ScoreValue = *value
		}
		if note != nil {
			n := helper.TrimPtr(note)
			if n == nil {
				patch["score_note"] = nil
			} else {
				patch["score_note"] = *n
			}
			out.ScoreNote = n
		}
		if err := tx.Model(&model.ScoreModel{}).
			Where("score_id = ?", scoreID).
			Updates(patch).Error; err != nil {
			return apperror.Persistence(err, "gagal memperbarui nilai")
		}
		out.ScoreUpdatedAt = now
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

/* =========================================================
   LIST SCORES (roster kelas + nilai yang sudah ada)
========================================================= */

type ScoreRow struct {
	StudentID   uuid.UUID  `json:"student_id"`
	StudentName string     `json:"student_name"`
	StudentNIS  *string    `json:"student_nis,omitempty"`
	ScoreID     *uuid.UUID `json:"score_id"`
	Value       *float64   `json:"value"`
	Note        *string    `json:"note"`
}

func (s *GradingService) ListScores(ctx context.Context, assessmentID uuid.UUID, keyword string, pg helper.Paging) ([]ScoreRow, int64, error) {
	db := s.DB.WithContext(ctx)
	a, err := s.getAssessment(db, assessmentID, false)
	if err != nil {
		return nil, 0, err
	}
	cs, err := s.Roster.GetClassSubject(db, a.AssessmentClassSubjectID)
	if err != nil {
		return nil, 0, err
	}

	pg = helper.ClampPaging(pg.Page, pg.PerPage, 25, helper.MaxPerPage)
	students, total, err := s.Roster.ListStudentsOfClass(db, cs.ClassSubjectClassID, keyword, pg)
	if err != nil {
		return nil, 0, err
	}

	ids := make([]uuid.UUID, 0, len(students))
	for _, st := range students {
		ids = append(ids, st.StudentID)
	}
	byStudent := map[uuid.UUID]model.ScoreModel{}
	if len(ids) > 0 {
		var scores []model.ScoreModel
		if err := db.Where("score_assessment_id = ? AND score_student_id IN ?", assessmentID, ids).
			Find(&scores).Error; err != nil {
			return nil, 0, apperror.FromDB(err, "gagal mengambil nilai")
		}
		for _, sc := range scores {
			byStudent[sc.ScoreStudentID] = sc
		}
	}

	rows := make([]ScoreRow, 0, len(students))
	for _, st := range students {
		r := ScoreRow{StudentID: st.StudentID, StudentName: st.StudentName, StudentNIS: st.StudentNIS}
		if sc, ok := byStudent[st.StudentID]; ok {
			id, v := sc.ScoreID, sc.ScoreValue
			r.ScoreID, r.Value, r.Note = &id, &v, sc.ScoreNote
		}
		rows = append(rows, r)
	}
	return rows, total, nil
}
