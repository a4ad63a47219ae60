package service

import (
	"testing"

	"sekolahku_backend/internals/features/school/grading/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var halfHalf = model.WeightMap{model.CategoryTask: 50, model.CategoryFinal: 50}

func TestAggregateScores_WeightedPass(t *testing.T) {
	got := AggregateScores(halfHalf, 75, map[model.AssessmentCategory][]float64{
		model.CategoryTask:  {80, 90},
		model.CategoryFinal: {70},
	})

	assert.Equal(t, 77.5, got.Final)
	assert.Equal(t, StatusPass, got.Status)
	assert.Equal(t, 75, got.Threshold)
	require.Len(t, got.Categories, 2)
	assert.Equal(t, CategoryScore{Category: model.CategoryTask, Weight: 50, Average: 85, Count: 2}, got.Categories[0])
	assert.Equal(t, CategoryScore{Category: model.CategoryFinal, Weight: 50, Average: 70, Count: 1}, got.Categories[1])
}

func TestAggregateScores_MissingCategoryCountsAsZero(t *testing.T) {
	got := AggregateScores(halfHalf, 75, map[model.AssessmentCategory][]float64{
		model.CategoryTask: {80, 90},
	})

	assert.Equal(t, 42.5, got.Final)
	assert.Equal(t, StatusFail, got.Status)
	require.Len(t, got.Categories, 2)
	assert.Equal(t, 0.0, got.Categories[1].Average)
	assert.Equal(t, 0, got.Categories[1].Count)
}

func TestAggregateScores_ThresholdInclusive(t *testing.T) {
	got := AggregateScores(halfHalf, 75, map[model.AssessmentCategory][]float64{
		model.CategoryTask:  {75},
		model.CategoryFinal: {75},
	})
	assert.Equal(t, 75.0, got.Final)
	assert.Equal(t, StatusPass, got.Status)

	assert.Equal(t, StatusFail, PassStatus(74.99, 75))
	assert.Equal(t, StatusPass, PassStatus(75, 75))
}

func TestAggregateScores_IgnoresCategoryOutsidePolicy(t *testing.T) {
	got := AggregateScores(model.WeightMap{model.CategoryFinal: 100}, 60, map[model.AssessmentCategory][]float64{
		model.CategoryFinal: {64},
		model.CategoryQuiz:  {0, 0, 0},
	})
	assert.Equal(t, 64.0, got.Final)
	assert.Len(t, got.Categories, 1)
}

func TestAggregateScores_RoundsToTwoDecimals(t *testing.T) {
	w := model.WeightMap{model.CategoryTask: 30, model.CategoryQuiz: 70}
	got := AggregateScores(w, 50, map[model.AssessmentCategory][]float64{
		model.CategoryTask: {100, 90, 85},
		model.CategoryQuiz: {66},
	})

	// task avg 91.666…, final = 27.5 + 46.2 = 73.7
	assert.Equal(t, 91.67, got.Categories[0].Average)
	assert.Equal(t, 73.7, got.Final)
}

func TestAggregateScores_NoScoresAtAll(t *testing.T) {
	got := AggregateScores(halfHalf, 0, nil)
	assert.Equal(t, 0.0, got.Final)
	assert.Equal(t, StatusPass, got.Status)
}
