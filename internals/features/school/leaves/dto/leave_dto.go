// file: internals/features/school/leaves/dto/leave_dto.go
package dto

import (
	"strings"

	"sekolahku_backend/internals/features/school/leaves/model"
	"sekolahku_backend/internals/features/school/leaves/service"
	"sekolahku_backend/internals/helpers/dbtime"

	"github.com/google/uuid"
)

// POST /leaves
type CreateLeaveRequest struct {
	StudentID     uuid.UUID `json:"student_id" validate:"required"`
	StartDate     string    `json:"start_date" validate:"required,datetime=2006-01-02"`
	EndDate       string    `json:"end_date" validate:"required,datetime=2006-01-02"`
	Category      string    `json:"category" validate:"required,oneof=sick personal other"`
	Reason        string    `json:"reason" validate:"required,max=1000"`
	AttachmentURL *string   `json:"attachment_url" validate:"omitempty,url"`
}

func (r *CreateLeaveRequest) Normalize() {
	r.StartDate = strings.TrimSpace(r.StartDate)
	r.EndDate = strings.TrimSpace(r.EndDate)
	r.Category = strings.ToLower(strings.TrimSpace(r.Category))
	r.Reason = strings.TrimSpace(r.Reason)
}

func (r CreateLeaveRequest) ToInput() (service.CreateLeaveInput, error) {
	start, err := dbtime.ParseDate(r.StartDate)
	if err != nil {
		return service.CreateLeaveInput{}, err
	}
	end, err := dbtime.ParseDate(r.EndDate)
	if err != nil {
		return service.CreateLeaveInput{}, err
	}
	return service.CreateLeaveInput{
		StudentID:     r.StudentID,
		StartDate:     start,
		EndDate:       end,
		Category:      model.LeaveCategory(r.Category),
		Reason:        r.Reason,
		AttachmentURL: r.AttachmentURL,
	}, nil
}

// ParseStatusFilter: "" → nil; tidak dikenal → ok=false.
func ParseStatusFilter(s string) (*model.LeaveStatus, bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return nil, true
	}
	st := model.LeaveStatus(s)
	if !st.Valid() {
		return nil, false
	}
	return &st, true
}
