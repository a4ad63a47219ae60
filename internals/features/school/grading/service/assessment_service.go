// file: internals/features/school/grading/service/assessment_service.go
package service

import (
	"context"
	"log"
	"strings"
	"time"

	database "sekolahku_backend/internals/databases"
	"sekolahku_backend/internals/features/school/grading/model"
	"sekolahku_backend/internals/helpers/apperror"
	"sekolahku_backend/internals/helpers/dbtime"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

/* =========================================================
   ASSESSMENT CRUD
========================================================= */

type CreateAssessmentInput struct {
	ClassSubjectID uuid.UUID
	TermID         uuid.UUID
	Title          string
	Category       model.AssessmentCategory
	DueDate        *dbtime.Date
}

func (s *GradingService) CreateAssessment(ctx context.Context, in CreateAssessmentInput) (*model.AssessmentModel, error) {
	fields := map[string]string{}
	if strings.TrimSpace(in.Title) == "" {
		fields["title"] = "required"
	}
	if !in.Category.Valid() {
		fields["category"] = "oneof=task quiz midterm final project practical"
	}
	if len(fields) > 0 {
		return nil, apperror.ValidationFields("data assessment tidak valid", fields)
	}

	db := s.DB.WithContext(ctx)
	if _, err := s.Roster.GetClassSubject(db, in.ClassSubjectID); err != nil {
		return nil, err
	}
	if ok, err := s.Roster.TermExists(db, in.TermID); err != nil {
		return nil, err
	} else if !ok {
		return nil, apperror.NotFound("term tidak ditemukan")
	}

	m := model.AssessmentModel{
		AssessmentClassSubjectID: in.ClassSubjectID,
		AssessmentTermID:         in.TermID,
		AssessmentTitle:          in.Title,
		AssessmentCategory:       in.Category,
		AssessmentDueDate:        in.DueDate,
		AssessmentState:          model.AssessmentStateDraft,
	}
	if err := db.Create(&m).Error; err != nil {
		return nil, apperror.Persistence(err, "gagal membuat assessment")
	}
	return &m, nil
}

// ListAssessments: termID nil → semua term.
func (s *GradingService) ListAssessments(ctx context.Context, classSubjectID uuid.UUID, termID *uuid.UUID) ([]model.AssessmentModel, error) {
	q := s.DB.WithContext(ctx).Where("assessment_class_subject_id = ?", classSubjectID)
	if termID != nil {
		q = q.Where("assessment_term_id = ?", *termID)
	}
	rows := []model.AssessmentModel{}
	if err := q.Order("assessment_created_at ASC").Order("assessment_id ASC").Find(&rows).Error; err != nil {
		return nil, apperror.FromDB(err, "gagal mengambil assessment")
	}
	return rows, nil
}

func (s *GradingService) GetAssessment(ctx context.Context, id uuid.UUID) (*model.AssessmentModel, error) {
	return s.getAssessment(s.DB.WithContext(ctx), id, false)
}

func (s *GradingService) getAssessment(tx *gorm.DB, id uuid.UUID, lock bool) (*model.AssessmentModel, error) {
	q := tx
	if lock {
		q = q.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	var m model.AssessmentModel
	if err := q.Where("assessment_id = ?", id).Take(&m).Error; err != nil {
		return nil, apperror.FromDB(err, "assessment tidak ditemukan")
	}
	return &m, nil
}

type UpdateAssessmentInput struct {
	Title    *string
	Category *model.AssessmentCategory
	DueDate  *dbtime.Date
}

// UpdateAssessment: hanya selama draft.
func (s *GradingService) UpdateAssessment(ctx context.Context, id uuid.UUID, in UpdateAssessmentInput) (*model.AssessmentModel, error) {
	patch := map[string]any{}
	if in.Title != nil {
		t := strings.TrimSpace(*in.Title)
		if t == "" {
			return nil, apperror.ValidationFields("title tidak boleh kosong", map[string]string{"title": "required"})
		}
		patch["assessment_title"] = t
	}
	if in.Category != nil {
		if !in.Category.Valid() {
			return nil, apperror.ValidationFields("kategori tidak valid", map[string]string{
				"category": "oneof=task quiz midterm final project practical",
			})
		}
		patch["assessment_category"] = string(*in.Category)
	}
	if in.DueDate != nil {
		patch["assessment_due_date"] = *in.DueDate
	}
	if len(patch) == 0 {
		return nil, apperror.Validation("tidak ada field yang diubah")
	}

	var out *model.AssessmentModel
	err := database.WithTx(ctx, s.DB, s.TxMaxRetries, func(tx *gorm.DB) error {
		a, err := s.getAssessment(tx, id, true)
		if err != nil {
			return err
		}
		if a.AssessmentState != model.AssessmentStateDraft {
			return apperror.InvalidState("assessment berstatus %s tidak bisa diubah", a.AssessmentState)
		}
		patch["assessment_updated_at"] = time.Now()
		if err := tx.Model(&model.AssessmentModel{}).
			Where("assessment_id = ?", id).
			Updates(patch).Error; err != nil {
			return apperror.Persistence(err, "gagal memperbarui assessment")
		}
		out, err = s.getAssessment(tx, id, false)
		return err
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// DeleteAssessment: hanya selama draft; nilai ikut terhapus dalam transaksi yang sama.
func (s *GradingService) DeleteAssessment(ctx context.Context, id uuid.UUID) error {
	return database.WithTx(ctx, s.DB, s.TxMaxRetries, func(tx *gorm.DB) error {
		a, err := s.getAssessment(tx, id, true)
		if err != nil {
			return err
		}
		if a.AssessmentState != model.AssessmentStateDraft {
			return apperror.InvalidState("assessment berstatus %s tidak bisa dihapus", a.AssessmentState)
		}
		if err := tx.Where("score_assessment_id = ?", id).Delete(&model.ScoreModel{}).Error; err != nil {
			return apperror.Persistence(err, "gagal menghapus nilai")
		}
		if err := tx.Where("assessment_id = ?", id).Delete(&model.AssessmentModel{}).Error; err != nil {
			return apperror.Persistence(err, "gagal menghapus assessment")
		}
		return nil
	})
}

/* =========================================================
   STATE MACHINE: draft → locked → published (maju saja)
========================================================= */

func (s *GradingService) LockAssessment(ctx context.Context, id uuid.UUID) (*model.AssessmentModel, error) {
	return s.transition(ctx, id, model.AssessmentStateLocked)
}

// PublishAssessment: dari draft atau locked; set flag is_published.
func (s *GradingService) PublishAssessment(ctx context.Context, id uuid.UUID) (*model.AssessmentModel, error) {
	return s.transition(ctx, id, model.AssessmentStatePublished)
}

func (s *GradingService) transition(ctx context.Context, id uuid.UUID, to model.AssessmentState) (*model.AssessmentModel, error) {
	var out *model.AssessmentModel
	err := database.WithTx(ctx, s.DB, s.TxMaxRetries, func(tx *gorm.DB) error {
		a, err := s.getAssessment(tx, id, true)
		if err != nil {
			return err
		}
		from := a.AssessmentState
		if !from.CanTransitionTo(to) {
			return apperror.InvalidState("transisi %s → %s tidak diizinkan", from, to)
		}

		now := time.Now()
		patch := map[string]any{
			"assessment_state":      string(to),
			"assessment_updated_at": now,
		}
		if to == model.AssessmentStateLocked || a.AssessmentLockedAt == nil {
			patch["assessment_locked_at"] = now
			a.AssessmentLockedAt = &now
		}
		if to == model.AssessmentStatePublished {
			patch["assessment_is_published"] = true
			patch["assessment_published_at"] = now
			a.AssessmentIsPublished = true
			a.AssessmentPublishedAt = &now
		}

		upd := tx.Model(&model.AssessmentModel{}).
			Where("assessment_id = ? AND assessment_state = ?", id, string(from)).
			Updates(patch)
		if upd.Error != nil {
			return apperror.Persistence(upd.Error, "gagal mengubah status assessment")
		}
		if upd.RowsAffected != 1 {
			return apperror.InvalidState("status assessment sudah berubah")
		}

		a.AssessmentState = to
		a.AssessmentUpdatedAt = now
		out = a
		return nil
	})
	if err != nil {
		return nil, err
	}
	log.Printf("[GRADING] assessment=%s state → %s", id, to)
	return out, nil
}
