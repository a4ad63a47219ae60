package model

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWeightMap_Validate(t *testing.T) {
	cases := []struct {
		name    string
		weights WeightMap
		ok      bool
	}{
		{"sum 100", WeightMap{CategoryTask: 30, CategoryQuiz: 20, CategoryMidterm: 25, CategoryFinal: 25}, true},
		{"sum 99", WeightMap{CategoryTask: 30, CategoryQuiz: 20, CategoryMidterm: 25, CategoryFinal: 24}, false},
		{"sum 101", WeightMap{CategoryTask: 51, CategoryFinal: 50}, false},
		{"single 100", WeightMap{CategoryFinal: 100}, true},
		{"zero weight allowed", WeightMap{CategoryTask: 0, CategoryFinal: 100}, true},
		{"empty", WeightMap{}, false},
		{"negative", WeightMap{CategoryTask: -10, CategoryFinal: 110}, false},
		{"unknown category", WeightMap{"homework": 50, CategoryFinal: 50}, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.weights.Validate()
			if tc.ok {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			var we *WeightError
			assert.True(t, errors.As(err, &we))
			assert.NotEmpty(t, we.Fields)
		})
	}
}

func TestWeightMap_JSONRoundTripKeepsCategories(t *testing.T) {
	w := WeightMap{CategoryTask: 50, CategoryFinal: 50}
	raw, err := w.ToJSON()
	require.NoError(t, err)

	back, err := ParseWeightMap(raw)
	require.NoError(t, err)
	assert.Equal(t, w, back)
	assert.Equal(t, 100, back.Total())
}

func TestWeightMap_CategoriesDeterministic(t *testing.T) {
	w := WeightMap{CategoryFinal: 40, CategoryTask: 30, CategoryQuiz: 30}
	first := w.Categories()
	for i := 0; i < 20; i++ {
		assert.Equal(t, first, w.Categories())
	}
	assert.Len(t, first, 3)
}

func TestAssessmentState_CanTransitionTo(t *testing.T) {
	cases := []struct {
		from, to AssessmentState
		ok       bool
	}{
		{AssessmentStateDraft, AssessmentStateLocked, true},
		{AssessmentStateDraft, AssessmentStatePublished, true},
		{AssessmentStateLocked, AssessmentStatePublished, true},
		{AssessmentStateLocked, AssessmentStateDraft, false},
		{AssessmentStatePublished, AssessmentStateLocked, false},
		{AssessmentStatePublished, AssessmentStatePublished, false},
		{AssessmentStateDraft, AssessmentStateDraft, false},
		{AssessmentStateDraft, AssessmentState("archived"), false},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.ok, tc.from.CanTransitionTo(tc.to), "%s → %s", tc.from, tc.to)
	}
}
