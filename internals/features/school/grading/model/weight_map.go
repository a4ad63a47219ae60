// file: internals/features/school/grading/model/weight_map.go
package model

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"gorm.io/datatypes"
)

/* =========================================================
   ENUM: kategori assessment (kunci bobot)
========================================================= */

type AssessmentCategory string

const (
	CategoryTask      AssessmentCategory = "task"
	CategoryQuiz      AssessmentCategory = "quiz"
	CategoryMidterm   AssessmentCategory = "midterm"
	CategoryFinal     AssessmentCategory = "final"
	CategoryProject   AssessmentCategory = "project"
	CategoryPractical AssessmentCategory = "practical"
)

var AllCategories = []AssessmentCategory{
	CategoryTask, CategoryQuiz, CategoryMidterm, CategoryFinal, CategoryProject, CategoryPractical,
}

func (c AssessmentCategory) Valid() bool {
	for _, k := range AllCategories {
		if c == k {
			return true
		}
	}
	return false
}

func ParseCategory(s string) (AssessmentCategory, bool) {
	c := AssessmentCategory(strings.ToLower(strings.TrimSpace(s)))
	return c, c.Valid()
}

/* =========================================================
   WeightMap: kategori → persen (integer), total wajib 100
========================================================= */

const WeightTotal = 100

type WeightMap map[AssessmentCategory]int

// WeightError: detail per field untuk ValidationError.
type WeightError struct {
	Message string
	Fields  map[string]string
}

func (e *WeightError) Error() string { return e.Message }

// Validate: kategori dikenal, bobot >= 0, jumlah tepat 100 (tanpa toleransi).
func (w WeightMap) Validate() error {
	if len(w) == 0 {
		return &WeightError{Message: "bobot wajib diisi", Fields: map[string]string{"weights": "required"}}
	}
	fields := map[string]string{}
	for k, v := range w {
		if !k.Valid() {
			fields["weights."+string(k)] = "oneof=task quiz midterm final project practical"
			continue
		}
		if v < 0 {
			fields["weights."+string(k)] = "gte=0"
		}
	}
	if len(fields) > 0 {
		return &WeightError{Message: "bobot tidak valid", Fields: fields}
	}
	if total := w.Total(); total != WeightTotal {
		return &WeightError{
			Message: fmt.Sprintf("total bobot harus %d (sekarang %d)", WeightTotal, total),
			Fields:  map[string]string{"weights": fmt.Sprintf("sum=%d", WeightTotal)},
		}
	}
	return nil
}

func (w WeightMap) Total() int {
	t := 0
	for _, v := range w {
		t += v
	}
	return t
}

// Categories: urut sesuai AllCategories (deterministik untuk output).
func (w WeightMap) Categories() []AssessmentCategory {
	out := make([]AssessmentCategory, 0, len(w))
	for _, c := range AllCategories {
		if _, ok := w[c]; ok {
			out = append(out, c)
		}
	}
	// kunci tak dikenal (data lama) tetap ikut, di belakang
	var extra []string
	for c := range w {
		if !c.Valid() {
			extra = append(extra, string(c))
		}
	}
	sort.Strings(extra)
	for _, c := range extra {
		out = append(out, AssessmentCategory(c))
	}
	return out
}

// ToJSON: untuk kolom jsonb.
func (w WeightMap) ToJSON() (datatypes.JSON, error) {
	b, err := json.Marshal(map[AssessmentCategory]int(w))
	if err != nil {
		return nil, err
	}
	return datatypes.JSON(b), nil
}

func ParseWeightMap(b []byte) (WeightMap, error) {
	w := WeightMap{}
	if len(b) == 0 {
		return w, nil
	}
	if err := json.Unmarshal(b, &w); err != nil {
		return nil, err
	}
	return w, nil
}
