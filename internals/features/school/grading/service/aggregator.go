// file: internals/features/school/grading/service/aggregator.go
package service

import (
	"sekolahku_backend/internals/features/school/grading/model"
	helper "sekolahku_backend/internals/helpers"
)

const (
	StatusPass = "pass"
	StatusFail = "fail"
)

type CategoryScore struct {
	Category model.AssessmentCategory `json:"category"`
	Weight   int                      `json:"weight"`
	// rata-rata (2 desimal); kategori tanpa nilai → 0
	Average float64 `json:"average"`
	Count   int     `json:"count"`
}

type Aggregate struct {
	Categories []CategoryScore `json:"categories"`
	Final      float64         `json:"final"`
	Threshold  int             `json:"threshold"`
	Status     string          `json:"status"`
}

// Aggregate: nilai akhir satu siswa.
//
//	final = Σ(avg_kategori × bobot / 100), dibulatkan 2 desimal (half away from zero).
//
// Kategori di policy yang tidak punya nilai dihitung 0 (bukan dikeluarkan).
// Nilai di kategori yang tidak ada di policy diabaikan.
// final dihitung dari rata-rata yang belum dibulatkan.
func AggregateScores(weights model.WeightMap, threshold int, byCategory map[model.AssessmentCategory][]float64) Aggregate {
	out := Aggregate{Threshold: threshold, Categories: make([]CategoryScore, 0, len(weights))}

	final := 0.0
	for _, cat := range weights.Categories() {
		w := weights[cat]
		vals := byCategory[cat]
		avg := 0.0
		if len(vals) > 0 {
			sum := 0.0
			for _, v := range vals {
				sum += v
			}
			avg = sum / float64(len(vals))
		}
		final += avg * float64(w) / 100
		out.Categories = append(out.Categories, CategoryScore{
			Category: cat,
			Weight:   w,
			Average:  helper.Round2(avg),
			Count:    len(vals),
		})
	}

	out.Final = helper.Round2(final)
	out.Status = PassStatus(out.Final, threshold)
	return out
}

// PassStatus: batas inklusif.
func PassStatus(final float64, threshold int) string {
	if final >= float64(threshold) {
		return StatusPass
	}
	return StatusFail
}
