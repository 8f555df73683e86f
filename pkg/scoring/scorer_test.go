package scoring

import (
	"strings"
	"testing"

	"github.com/toolpilot-ai/toolpilot/models"

	"github.com/stretchr/testify/assert"
)

func TestScoreAllBonusesClampedTo100(t *testing.T) {
	scorer := NewScorer()

	// 全部加分项命中：50+20+25+20+15+10=140，截断为100
	tool := &models.Tool{
		Name:            "QuickDraft",
		SetupDifficulty: models.SetupEasy,
		TimeToValue:     models.ValueInMinutes,
		PricingModel:    models.PricingFree,
		TargetRoles:     []string{"Manager"},
	}
	profile := &models.UserProfile{
		Role:         "Manager",
		AIExperience: models.ExperienceNever,
	}

	result := scorer.Score(tool, profile)

	assert.Equal(t, 100, result.Value)
	assert.Equal(t, models.PriorityHigh, result.Priority)

	// 每一个命中的加分项都要有对应的可读片段
	fragments := []string{
		"Simple setup process",
		"Delivers value within minutes",
		"Perfect for Managers",
		"Free to start",
		"Great first tool for AI newcomers",
	}
	for _, f := range fragments {
		assert.Contains(t, result.Reason, f)
	}
	assert.Equal(t, len(fragments), len(strings.Split(result.Reason, " • ")))
}

func TestScoreDeterministic(t *testing.T) {
	scorer := NewScorer()

	tool := &models.Tool{
		SetupDifficulty: models.SetupMedium,
		TimeToValue:     models.ValueInHours,
		PricingModel:    models.PricingFreemium,
		TargetRoles:     []string{"Designer"},
	}
	profile := &models.UserProfile{Role: "Engineer", AIExperience: models.ExperienceIntermediate}

	first := scorer.Score(tool, profile)
	for i := 0; i < 10; i++ {
		again := scorer.Score(tool, profile)
		assert.Equal(t, first.Value, again.Value)
		assert.Equal(t, first.Reason, again.Reason)
	}
}

func TestScoreBreakdown(t *testing.T) {
	scorer := NewScorer()
	profile := &models.UserProfile{Role: "Manager", AIExperience: models.ExperienceAdvanced}

	tests := []struct {
		name     string
		tool     models.Tool
		expected int
	}{
		{
			name:     "base only",
			tool:     models.Tool{SetupDifficulty: models.SetupHard, TimeToValue: models.ValueInDays, PricingModel: models.PricingPaid, PricingAmount: 99},
			expected: 50,
		},
		{
			name:     "cheap paid tool",
			tool:     models.Tool{SetupDifficulty: models.SetupHard, TimeToValue: models.ValueInDays, PricingModel: models.PricingPaid, PricingAmount: 19},
			expected: 55,
		},
		{
			name:     "hours to value plus freemium",
			tool:     models.Tool{SetupDifficulty: models.SetupMedium, TimeToValue: models.ValueInHours, PricingModel: models.PricingFreemium},
			expected: 75,
		},
		{
			name:     "role match without difficulty bonus",
			tool:     models.Tool{SetupDifficulty: models.SetupMedium, TimeToValue: models.ValueInDays, PricingModel: models.PricingPaid, PricingAmount: 50, TargetRoles: []string{"Manager"}},
			expected: 70,
		},
		{
			name:     "easy setup free tool",
			tool:     models.Tool{SetupDifficulty: models.SetupEasy, TimeToValue: models.ValueInDays, PricingModel: models.PricingFree},
			expected: 85,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := scorer.Score(&tt.tool, profile)
			assert.Equal(t, tt.expected, result.Value)
			assert.GreaterOrEqual(t, result.Value, 0)
			assert.LessOrEqual(t, result.Value, 100)
		})
	}
}

func TestScoreNoMatchStillScored(t *testing.T) {
	scorer := NewScorer()

	// 角色/行业完全不匹配的工具不应被判零分
	tool := &models.Tool{
		SetupDifficulty: models.SetupEasy,
		TimeToValue:     models.ValueInMinutes,
		PricingModel:    models.PricingFree,
		TargetRoles:     []string{"Recruiter"},
	}
	profile := &models.UserProfile{Role: "Engineer", AIExperience: models.ExperienceAdvanced}

	result := scorer.Score(tool, profile)
	assert.Equal(t, 100, result.Value) // 50+20+25+15=110 截断
	assert.NotContains(t, result.Reason, "Perfect for")
}

func TestScoreNoviceBonusRequiresEasySetup(t *testing.T) {
	scorer := NewScorer()
	profile := &models.UserProfile{Role: "Engineer", AIExperience: models.ExperienceNever}

	hardTool := &models.Tool{SetupDifficulty: models.SetupHard, TimeToValue: models.ValueInDays, PricingModel: models.PricingPaid, PricingAmount: 99}
	result := scorer.Score(hardTool, profile)

	assert.Equal(t, 50, result.Value)
	assert.NotContains(t, result.Reason, "newcomers")
}

func TestScoreNilProfile(t *testing.T) {
	scorer := NewScorer()

	tool := &models.Tool{SetupDifficulty: models.SetupEasy, TimeToValue: models.ValueInHours, PricingModel: models.PricingFree}
	result := scorer.Score(tool, nil)

	assert.Equal(t, 100, result.Value)
	assert.NotEmpty(t, result.Reason)
}

func TestPriorityThresholds(t *testing.T) {
	assert.Equal(t, models.PriorityHigh, models.PriorityForScore(80))
	assert.Equal(t, models.PriorityMedium, models.PriorityForScore(79))
	assert.Equal(t, models.PriorityMedium, models.PriorityForScore(60))
	assert.Equal(t, models.PriorityLow, models.PriorityForScore(59))
	assert.Equal(t, models.PriorityLow, models.PriorityForScore(0))
}
