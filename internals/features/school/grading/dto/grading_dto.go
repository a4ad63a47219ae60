// file: internals/features/school/grading/dto/grading_dto.go
package dto

import (
	"strings"

	"sekolahku_backend/internals/features/school/grading/model"
	"sekolahku_backend/internals/features/school/grading/service"
	helper "sekolahku_backend/internals/helpers"
	"sekolahku_backend/internals/helpers/dbtime"

	"github.com/google/uuid"
)

/* =========================================================
   GRADING POLICY
   PUT /class-subjects/:id/grading-policy
========================================================= */

type SetPolicyRequest struct {
	TermID        uuid.UUID       `json:"term_id" validate:"required"`
	Weights       model.WeightMap `json:"weights" validate:"required,min=1"`
	PassThreshold *int            `json:"pass_threshold" validate:"omitempty,min=0,max=100"`
}

func (r SetPolicyRequest) ToInput(classSubjectID uuid.UUID) service.SetPolicyInput {
	w := make(model.WeightMap, len(r.Weights))
	for k, v := range r.Weights {
		w[model.AssessmentCategory(strings.ToLower(strings.TrimSpace(string(k))))] = v
	}
	return service.SetPolicyInput{
		ClassSubjectID: classSubjectID,
		TermID:         r.TermID,
		Weights:        w,
		PassThreshold:  r.PassThreshold,
	}
}

/* =========================================================
   ASSESSMENT
========================================================= */

type CreateAssessmentRequest struct {
	TermID   uuid.UUID `json:"term_id" validate:"required"`
	Title    string    `json:"title" validate:"required,max=200"`
	Category string    `json:"category" validate:"required,oneof=task quiz midterm final project practical"`
	DueDate  *string   `json:"due_date" validate:"omitempty,datetime=2006-01-02"`
}

func (r *CreateAssessmentRequest) Normalize() {
	r.Title = strings.TrimSpace(r.Title)
	r.Category = strings.ToLower(strings.TrimSpace(r.Category))
	r.DueDate = helper.TrimPtr(r.DueDate)
}

func (r CreateAssessmentRequest) ToInput(classSubjectID uuid.UUID) (service.CreateAssessmentInput, error) {
	var due *dbtime.Date
	if r.DueDate != nil {
		d, err := dbtime.ParseDate(*r.DueDate)
		if err != nil {
			return service.CreateAssessmentInput{}, err
		}
		due = &d
	}
	return service.CreateAssessmentInput{
		ClassSubjectID: classSubjectID,
		TermID:         r.TermID,
		Title:          r.Title,
		Category:       model.AssessmentCategory(r.Category),
		DueDate:        due,
	}, nil
}

type UpdateAssessmentRequest struct {
	Title    *string `json:"title" validate:"omitempty,max=200"`
	Category *string `json:"category" validate:"omitempty,oneof=task quiz midterm final project practical"`
	DueDate  *string `json:"due_date" validate:"omitempty,datetime=2006-01-02"`
}

func (r UpdateAssessmentRequest) ToInput() (service.UpdateAssessmentInput, error) {
	var in service.UpdateAssessmentInput
	in.Title = r.Title
	if r.Category != nil {
		c := model.AssessmentCategory(strings.ToLower(strings.TrimSpace(*r.Category)))
		in.Category = &c
	}
	if due := helper.TrimPtr(r.DueDate); due != nil {
		d, err := dbtime.ParseDate(*due)
		if err != nil {
			return in, err
		}
		in.DueDate = &d
	}
	return in, nil
}

/* =========================================================
   SCORES
   POST  /assessments/:id/scores
   PATCH /scores/:id
========================================================= */

type ScoreItemRequest struct {
	StudentID uuid.UUID `json:"student_id" validate:"required"`
	Value     *float64  `json:"value" validate:"required,min=0,max=100"`
	Note      *string   `json:"note" validate:"omitempty,max=500"`
}

type BulkScoresRequest struct {
	Items []ScoreItemRequest `json:"items" validate:"required,min=1,dive"`
}

func (r BulkScoresRequest) ToInputs() []service.ScoreItemInput {
	out := make([]service.ScoreItemInput, 0, len(r.Items))
	for _, it := range r.Items {
		out = append(out, service.ScoreItemInput{
			StudentID: it.StudentID,
			Value:     *it.Value,
			Note:      it.Note,
		})
	}
	return out
}

type PatchScoreRequest struct {
	Value *float64 `json:"value" validate:"omitempty,min=0,max=100"`
	Note  *string  `json:"note" validate:"omitempty,max=500"`
}
