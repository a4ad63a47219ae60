// file: internals/features/school/grading/service/final_score_service.go
package service

import (
	"context"

	"sekolahku_backend/internals/features/school/grading/model"
	rosterModel "sekolahku_backend/internals/features/school/rosters/model"
	helper "sekolahku_backend/internals/helpers"
	"sekolahku_backend/internals/helpers/apperror"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type FinalScore struct {
	StudentID   uuid.UUID `json:"student_id"`
	StudentName string    `json:"student_name"`
	StudentNIS  *string   `json:"student_nis,omitempty"`
	Aggregate
}

type FinalScorePage struct {
	ClassSubjectID uuid.UUID       `json:"class_subject_id"`
	TermID         uuid.UUID       `json:"term_id"`
	Weights        model.WeightMap `json:"weights"`
	Items          []FinalScore    `json:"items"`
	Total          int64           `json:"total"`
}

// finalInputs: policy + kategori tiap assessment untuk (class_subject, term).
type finalInputs struct {
	weights    model.WeightMap
	threshold  int
	categoryOf map[uuid.UUID]model.AssessmentCategory
	cs         *rosterModel.ClassSubjectModel
}

func (s *GradingService) loadFinalInputs(tx *gorm.DB, classSubjectID, termID uuid.UUID) (*finalInputs, error) {
	policy, err := s.findPolicy(tx, classSubjectID, termID)
	if err != nil {
		return nil, err
	}
	if policy == nil {
		return nil, apperror.PolicyMissing("grading policy belum diset")
	}
	weights, err := policy.WeightMap()
	if err != nil {
		return nil, apperror.Persistence(err, "bobot policy rusak")
	}

	cs, err := s.Roster.GetClassSubject(tx, classSubjectID)
	if err != nil {
		return nil, err
	}

	var assessments []model.AssessmentModel
	if err := tx.Select("assessment_id", "assessment_category").
		Where("assessment_class_subject_id = ? AND assessment_term_id = ?", classSubjectID, termID).
		Find(&assessments).Error; err != nil {
		return nil, apperror.FromDB(err, "gagal mengambil assessment")
	}
	categoryOf := make(map[uuid.UUID]model.AssessmentCategory, len(assessments))
	for _, a := range assessments {
		categoryOf[a.AssessmentID] = a.AssessmentCategory
	}

	return &finalInputs{
		weights:    weights,
		threshold:  policy.GradingPolicyPassThreshold,
		categoryOf: categoryOf,
		cs:         cs,
	}, nil
}

// scoresByStudent: student → kategori → daftar nilai.
func (in *finalInputs) scoresByStudent(tx *gorm.DB, studentIDs []uuid.UUID) (map[uuid.UUID]map[model.AssessmentCategory][]float64, error) {
	out := make(map[uuid.UUID]map[model.AssessmentCategory][]float64, len(studentIDs))
	if len(in.categoryOf) == 0 || len(studentIDs) == 0 {
		return out, nil
	}
	assessmentIDs := make([]uuid.UUID, 0, len(in.categoryOf))
	for id := range in.categoryOf {
		assessmentIDs = append(assessmentIDs, id)
	}

	var scores []model.ScoreModel
	if err := tx.Where("score_assessment_id IN ? AND score_student_id IN ?", assessmentIDs, studentIDs).
		Find(&scores).Error; err != nil {
		return nil, apperror.FromDB(err, "gagal mengambil nilai")
	}
	for _, sc := range scores {
		cat := in.categoryOf[sc.ScoreAssessmentID]
		if out[sc.ScoreStudentID] == nil {
			out[sc.ScoreStudentID] = map[model.AssessmentCategory][]float64{}
		}
		out[sc.ScoreStudentID][cat] = append(out[sc.ScoreStudentID][cat], sc.ScoreValue)
	}
	return out, nil
}

func (in *finalInputs) finalsFor(tx *gorm.DB, students []rosterModel.StudentModel) ([]FinalScore, error) {
	ids := make([]uuid.UUID, 0, len(students))
	for _, st := range students {
		ids = append(ids, st.StudentID)
	}
	scores, err := in.scoresByStudent(tx, ids)
	if err != nil {
		return nil, err
	}
	out := make([]FinalScore, 0, len(students))
	for _, st := range students {
		out = append(out, FinalScore{
			StudentID:   st.StudentID,
			StudentName: st.StudentName,
			StudentNIS:  st.StudentNIS,
			Aggregate:   AggregateScores(in.weights, in.threshold, scores[st.StudentID]),
		})
	}
	return out, nil
}

// ComputeFinal: satu siswa.
func (s *GradingService) ComputeFinal(ctx context.Context, classSubjectID, termID, studentID uuid.UUID) (*FinalScore, error) {
	db := s.DB.WithContext(ctx)
	in, err := s.loadFinalInputs(db, classSubjectID, termID)
	if err != nil {
		return nil, err
	}
	st, err := s.Roster.GetStudent(db, studentID)
	if err != nil {
		return nil, err
	}
	rows, err := in.finalsFor(db, []rosterModel.StudentModel{*st})
	if err != nil {
		return nil, err
	}
	return &rows[0], nil
}

// ComputeFinalBatch: semua siswa kelas (paginated, urut nama).
func (s *GradingService) ComputeFinalBatch(ctx context.Context, classSubjectID, termID uuid.UUID, keyword string, pg helper.Paging) (*FinalScorePage, error) {
	db := s.DB.WithContext(ctx)
	in, err := s.loadFinalInputs(db, classSubjectID, termID)
	if err != nil {
		return nil, err
	}

	pg = helper.ClampPaging(pg.Page, pg.PerPage, 25, helper.MaxPerPage)
	students, total, err := s.Roster.ListStudentsOfClass(db, in.cs.ClassSubjectClassID, keyword, pg)
	if err != nil {
		return nil, err
	}
	items, err := in.finalsFor(db, students)
	if err != nil {
		return nil, err
	}
	return &FinalScorePage{
		ClassSubjectID: classSubjectID,
		TermID:         termID,
		Weights:        in.weights,
		Items:          items,
		Total:          total,
	}, nil
}

/* =========================================================
   REPORT CARD (rekap nilai akhir semua mapel satu kelas)
========================================================= */

type SubjectFinal struct {
	ClassSubjectID uuid.UUID `json:"class_subject_id"`
	SubjectName    string    `json:"subject_name"`
	Final          float64   `json:"final"`
	Threshold      int       `json:"threshold"`
	Status         string    `json:"status"`
}

type ReportCardRow struct {
	StudentID   uuid.UUID      `json:"student_id"`
	StudentName string         `json:"student_name"`
	StudentNIS  *string        `json:"student_nis,omitempty"`
	Subjects    []SubjectFinal `json:"subjects"`
	Average     float64        `json:"average"`
	Status      string         `json:"status"`
}

type ReportCard struct {
	ClassID         uuid.UUID       `json:"class_id"`
	TermID          uuid.UUID       `json:"term_id"`
	Threshold       int             `json:"threshold"`
	Rows            []ReportCardRow `json:"rows"`
	SkippedSubjects []uuid.UUID     `json:"skipped_subjects"`
}

// ReportCard: mapel tanpa policy dilewati (dicatat di SkippedSubjects).
// Rata-rata dibandingkan dengan DefaultPassThreshold.
func (s *GradingService) ReportCard(ctx context.Context, classID, termID uuid.UUID) (*ReportCard, error) {
	db := s.DB.WithContext(ctx)
	ok, err := s.Roster.ClassExists(db, classID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, apperror.NotFound("kelas tidak ditemukan")
	}

	subjects, err := s.Roster.ClassSubjectsOfClass(db, classID)
	if err != nil {
		return nil, err
	}
	students, _, err := s.Roster.ListStudentsOfClass(db, classID, "", helper.Paging{})
	if err != nil {
		return nil, err
	}

	out := &ReportCard{
		ClassID:         classID,
		TermID:          termID,
		Threshold:       s.DefaultPassThreshold,
		Rows:            make([]ReportCardRow, 0, len(students)),
		SkippedSubjects: []uuid.UUID{},
	}
	rowIdx := make(map[uuid.UUID]int, len(students))
	for i, st := range students {
		out.Rows = append(out.Rows, ReportCardRow{
			StudentID:   st.StudentID,
			StudentName: st.StudentName,
			StudentNIS:  st.StudentNIS,
			Subjects:    []SubjectFinal{},
		})
		rowIdx[st.StudentID] = i
	}

	for _, cs := range subjects {
		in, err := s.loadFinalInputs(db, cs.ClassSubjectID, termID)
		if apperror.KindOf(err) == apperror.KindPolicyMissing {
			out.SkippedSubjects = append(out.SkippedSubjects, cs.ClassSubjectID)
			continue
		}
		if err != nil {
			return nil, err
		}
		finals, err := in.finalsFor(db, students)
		if err != nil {
			return nil, err
		}
		for _, f := range finals {
			r := &out.Rows[rowIdx[f.StudentID]]
			r.Subjects = append(r.Subjects, SubjectFinal{
				ClassSubjectID: cs.ClassSubjectID,
				SubjectName:    cs.ClassSubjectSubjectName,
				Final:          f.Final,
				Threshold:      f.Threshold,
				Status:         f.Status,
			})
		}
	}

	for i := range out.Rows {
		r := &out.Rows[i]
		if len(r.Subjects) == 0 {
			r.Status = StatusFail
			continue
		}
		sum := 0.0
		for _, sf := range r.Subjects {
			sum += sf.Final
		}
		r.Average = helper.Round2(sum / float64(len(r.Subjects)))
		r.Status = PassStatus(r.Average, s.DefaultPassThreshold)
	}
	return out, nil
}
