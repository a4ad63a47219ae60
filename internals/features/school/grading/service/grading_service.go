// file: internals/features/school/grading/service/grading_service.go
package service

import (
	"context"
	"errors"
	"time"

	"sekolahku_backend/internals/configs"
	"sekolahku_backend/internals/features/school/grading/model"
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

type GradingService struct {
	DB                   *gorm.DB
	Roster               rosterService.RosterService
	TxMaxRetries         int
	ScoreLockGuard       bool
	DefaultPassThreshold int
	Loc                  *time.Location
}

func NewGradingService(db *gorm.DB, roster rosterService.RosterService, cfg configs.AppConfig) *GradingService {
	if roster == nil {
		roster = rosterService.NewRosterService()
	}
	return &GradingService{
		DB:                   db,
		Roster:               roster,
		TxMaxRetries:         cfg.TxMaxRetries,
		ScoreLockGuard:       cfg.ScoreLockGuard,
		DefaultPassThreshold: cfg.DefaultPassThreshold,
		Loc:                  cfg.Location(),
	}
}

/* =========================================================
   GRADING POLICY
========================================================= */

type SetPolicyInput struct {
	ClassSubjectID uuid.UUID
	TermID         uuid.UUID
	Weights        model.WeightMap
	// nil → DefaultPassThreshold
	PassThreshold *int
}

type PolicyView struct {
	GradingPolicyID uuid.UUID       `json:"grading_policy_id"`
	ClassSubjectID  uuid.UUID       `json:"class_subject_id"`
	TermID          uuid.UUID       `json:"term_id"`
	Weights         model.WeightMap `json:"weights"`
	PassThreshold   int             `json:"pass_threshold"`
	EffectiveDate   dbtime.Date     `json:"effective_date"`
	UpdatedAt       time.Time       `json:"updated_at"`
}

func policyView(m model.GradingPolicyModel) (*PolicyView, error) {
	w, err := m.WeightMap()
	if err != nil {
		return nil, apperror.Persistence(err, "bobot policy rusak")
	}
	return &PolicyView{
		GradingPolicyID: m.GradingPolicyID,
		ClassSubjectID:  m.GradingPolicyClassSubjectID,
		TermID:          m.GradingPolicyTermID,
		Weights:         w,
		PassThreshold:   m.GradingPolicyPassThreshold,
		EffectiveDate:   m.GradingPolicyEffectiveDate,
		UpdatedAt:       m.GradingPolicyUpdatedAt,
	}, nil
}

// weightErr: WeightError → ValidationError (dengan field map).
func weightErr(err error) error {
	var we *model.WeightError
	if errors.As(err, &we) {
		return apperror.ValidationFields(we.Message, we.Fields)
	}
	return apperror.Validation("%s", err.Error())
}

// SetPolicy: upsert per (class_subject, term). Total bobot wajib tepat 100.
func (s *GradingService) SetPolicy(ctx context.Context, in SetPolicyInput) (*PolicyView, error) {
	if err := in.Weights.Validate(); err != nil {
		return nil, weightErr(err)
	}
	threshold := s.DefaultPassThreshold
	if in.PassThreshold != nil {
		threshold = *in.PassThreshold
	}
	if threshold < 0 || threshold > 100 {
		return nil, apperror.ValidationFields("pass_threshold harus 0..100", map[string]string{"pass_threshold": "min=0,max=100"})
	}
	weights, err := in.Weights.ToJSON()
	if err != nil {
		return nil, apperror.Validation("bobot tidak valid")
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

	row := model.GradingPolicyModel{
		GradingPolicyClassSubjectID: in.ClassSubjectID,
		GradingPolicyTermID:         in.TermID,
		GradingPolicyWeights:        weights,
		GradingPolicyPassThreshold:  threshold,
		GradingPolicyEffectiveDate:  dbtime.Today(s.Loc),
	}
	if err := db.Clauses(clause.OnConflict{
		Columns: []clause.Column{
			{Name: "grading_policy_class_subject_id"},
			{Name: "grading_policy_term_id"},
		},
		DoUpdates: clause.AssignmentColumns([]string{
			"grading_policy_weights",
			"grading_policy_pass_threshold",
			"grading_policy_effective_date",
			"grading_policy_updated_at",
		}),
	}).Create(&row).Error; err != nil {
		return nil, apperror.Persistence(err, "gagal menyimpan grading policy")
	}

	return s.GetPolicy(ctx, in.ClassSubjectID, in.TermID)
}

func (s *GradingService) GetPolicy(ctx context.Context, classSubjectID, termID uuid.UUID) (*PolicyView, error) {
	m, err := s.findPolicy(s.DB.WithContext(ctx), classSubjectID, termID)
	if err != nil {
		return nil, err
	}
	if m == nil {
		return nil, apperror.NotFound("grading policy belum diset")
	}
	return policyView(*m)
}

// findPolicy: nil (tanpa error) kalau belum ada.
func (s *GradingService) findPolicy(tx *gorm.DB, classSubjectID, termID uuid.UUID) (*model.GradingPolicyModel, error) {
	var m model.GradingPolicyModel
	err := tx.Where("grading_policy_class_subject_id = ? AND grading_policy_term_id = ?", classSubjectID, termID).
		Take(&m).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, apperror.FromDB(err, "gagal membaca grading policy")
	}
	return &m, nil
}
