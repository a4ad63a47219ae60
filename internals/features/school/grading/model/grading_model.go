// file: internals/features/school/grading/model/grading_model.go
package model

import (
	"strings"
	"time"

	"sekolahku_backend/internals/helpers/dbtime"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

/* =========================================================
   GRADING POLICY: satu per (class_subject, term)
========================================================= */

type GradingPolicyModel struct {
	GradingPolicyID             uuid.UUID `gorm:"type:uuid;primaryKey;column:grading_policy_id" json:"grading_policy_id"`
	GradingPolicyClassSubjectID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:uq_grading_policies_cs_term,priority:1;column:grading_policy_class_subject_id" json:"grading_policy_class_subject_id"`
	GradingPolicyTermID         uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:uq_grading_policies_cs_term,priority:2;column:grading_policy_term_id" json:"grading_policy_term_id"`

	// {"task":30,"quiz":20,"midterm":25,"final":25}
	GradingPolicyWeights       datatypes.JSON `gorm:"not null;column:grading_policy_weights" json:"grading_policy_weights"`
	GradingPolicyPassThreshold int            `gorm:"not null;column:grading_policy_pass_threshold" json:"grading_policy_pass_threshold"`
	GradingPolicyEffectiveDate dbtime.Date    `gorm:"not null;column:grading_policy_effective_date" json:"grading_policy_effective_date"`

	GradingPolicyCreatedAt time.Time `gorm:"not null;autoCreateTime;column:grading_policy_created_at" json:"grading_policy_created_at"`
	GradingPolicyUpdatedAt time.Time `gorm:"not null;autoUpdateTime;column:grading_policy_updated_at" json:"grading_policy_updated_at"`
}

func (GradingPolicyModel) TableName() string { return "grading_policies" }

func (m *GradingPolicyModel) BeforeCreate(tx *gorm.DB) error {
	if m.GradingPolicyID == uuid.Nil {
		m.GradingPolicyID = uuid.New()
	}
	return nil
}

func (m GradingPolicyModel) WeightMap() (WeightMap, error) {
	return ParseWeightMap(m.GradingPolicyWeights)
}

/* =========================================================
   ASSESSMENT: lifecycle draft → locked → published
========================================================= */

type AssessmentState string

const (
	AssessmentStateDraft     AssessmentState = "draft"
	AssessmentStateLocked    AssessmentState = "locked"
	AssessmentStatePublished AssessmentState = "published"
)

func (s AssessmentState) rank() int {
	switch s {
	case AssessmentStateDraft:
		return 0
	case AssessmentStateLocked:
		return 1
	case AssessmentStatePublished:
		return 2
	}
	return -1
}

func (s AssessmentState) Valid() bool { return s.rank() >= 0 }

// CanTransitionTo: hanya maju (draft→locked, draft→published, locked→published).
func (s AssessmentState) CanTransitionTo(to AssessmentState) bool {
	return s.Valid() && to.Valid() && to.rank() > s.rank()
}

type AssessmentModel struct {
	AssessmentID             uuid.UUID          `gorm:"type:uuid;primaryKey;column:assessment_id" json:"assessment_id"`
	AssessmentClassSubjectID uuid.UUID          `gorm:"type:uuid;not null;index:idx_assessments_cs_term,priority:1;column:assessment_class_subject_id" json:"assessment_class_subject_id"`
	AssessmentTermID         uuid.UUID          `gorm:"type:uuid;not null;index:idx_assessments_cs_term,priority:2;column:assessment_term_id" json:"assessment_term_id"`
	AssessmentTitle          string             `gorm:"type:varchar(200);not null;column:assessment_title" json:"assessment_title"`
	AssessmentCategory       AssessmentCategory `gorm:"type:varchar(16);not null;column:assessment_category" json:"assessment_category"`
	AssessmentDueDate        *dbtime.Date       `gorm:"column:assessment_due_date" json:"assessment_due_date,omitempty"`

	AssessmentState       AssessmentState `gorm:"type:varchar(16);not null;column:assessment_state" json:"assessment_state"`
	AssessmentIsPublished bool            `gorm:"not null;column:assessment_is_published" json:"assessment_is_published"`
	AssessmentLockedAt    *time.Time      `gorm:"column:assessment_locked_at" json:"assessment_locked_at,omitempty"`
	AssessmentPublishedAt *time.Time      `gorm:"column:assessment_published_at" json:"assessment_published_at,omitempty"`

	AssessmentCreatedAt time.Time `gorm:"not null;autoCreateTime;column:assessment_created_at" json:"assessment_created_at"`
	AssessmentUpdatedAt time.Time `gorm:"not null;autoUpdateTime;column:assessment_updated_at" json:"assessment_updated_at"`
}

func (AssessmentModel) TableName() string { return "assessments" }

func (m *AssessmentModel) BeforeCreate(tx *gorm.DB) error {
	if m.AssessmentID == uuid.Nil {
		m.AssessmentID = uuid.New()
	}
	if m.AssessmentState == "" {
		m.AssessmentState = AssessmentStateDraft
	}
	m.AssessmentTitle = strings.TrimSpace(m.AssessmentTitle)
	return nil
}

/* =========================================================
   SCORE: satu per (assessment, siswa)
========================================================= */

type ScoreModel struct {
	ScoreID           uuid.UUID `gorm:"type:uuid;primaryKey;column:score_id" json:"score_id"`
	ScoreAssessmentID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:uq_scores_assessment_student,priority:1;column:score_assessment_id" json:"score_assessment_id"`
	ScoreStudentID    uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:uq_scores_assessment_student,priority:2;index:idx_scores_student;column:score_student_id" json:"score_student_id"`
	ScoreValue        float64   `gorm:"not null;column:score_value" json:"score_value"`
	ScoreNote         *string   `gorm:"type:text;column:score_note" json:"score_note,omitempty"`

	ScoreCreatedAt time.Time `gorm:"not null;autoCreateTime;column:score_created_at" json:"score_created_at"`
	ScoreUpdatedAt time.Time `gorm:"not null;autoUpdateTime;column:score_updated_at" json:"score_updated_at"`
}

func (ScoreModel) TableName() string { return "scores" }

func (m *ScoreModel) BeforeCreate(tx *gorm.DB) error {
	if m.ScoreID == uuid.Nil {
		m.ScoreID = uuid.New()
	}
	return nil
}
