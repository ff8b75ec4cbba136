package db

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCategoryForStep(t *testing.T) {
	tests := []struct {
		step         string
		wantCategory string
		wantOK       bool
	}{
		{StepGapReport, CategoryAnalysis, true},
		{StepCandidates, CategoryAggregation, true},
		{StepRecommendations, CategoryMatching, true},
		{StepLearningPlan, CategoryPlanning, true},
		{"resume", "", false},
		{"", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.step, func(t *testing.T) {
			category, ok := CategoryForStep(tt.step)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.wantCategory, category)
		})
	}
}
