package scoring

import (
	"fmt"
	"strings"

	"github.com/toolpilot-ai/toolpilot/models"
)

// ScoreResult 单个工具的评分结果
type ScoreResult struct {
	Value    int             // 0-100
	Reason   string          // 由命中的加分项拼接而成
	Priority models.Priority // 按阈值派生的优先级档位
}

// Scorer 工具推荐评分器，确定性可解释的加法启发式
type Scorer struct {
	// 加分项配置
	bonuses struct {
		base           int
		easySetup      int
		valueMinutes   int
		valueHours     int
		roleMatch      int
		freePricing    int
		freemium       int
		cheapPaid      int
		noviceFriendly int
	}
	cheapPaidCeiling float64 // 付费工具的"低价"上限（美元/月）
}

// NewScorer 创建评分器实例
func NewScorer() *Scorer {
	s := &Scorer{}
	// 默认加分配置
	s.bonuses.base = 50
	s.bonuses.easySetup = 20
	s.bonuses.valueMinutes = 25
	s.bonuses.valueHours = 15
	s.bonuses.roleMatch = 20
	s.bonuses.freePricing = 15
	s.bonuses.freemium = 10
	s.bonuses.cheapPaid = 5
	s.bonuses.noviceFriendly = 10
	s.cheapPaidCeiling = 20
	return s
}

// Score 对单个工具评分，纯函数无副作用
// 角色/行业不匹配不是否决项，工具仍得到基础分+定价+难度得分
func (s *Scorer) Score(tool *models.Tool, profile *models.UserProfile) ScoreResult {
	score := s.bonuses.base
	var reasons []string

	if tool.SetupDifficulty == models.SetupEasy {
		score += s.bonuses.easySetup
		reasons = append(reasons, "Simple setup process")
	}

	switch tool.TimeToValue {
	case models.ValueInMinutes:
		score += s.bonuses.valueMinutes
		reasons = append(reasons, "Delivers value within minutes")
	case models.ValueInHours:
		score += s.bonuses.valueHours
		reasons = append(reasons, "Delivers value within hours")
	}

	if profile != nil && tool.MatchesRole(profile.Role) {
		score += s.bonuses.roleMatch
		reasons = append(reasons, fmt.Sprintf("Perfect for %ss", profile.Role))
	}

	switch tool.PricingModel {
	case models.PricingFree:
		score += s.bonuses.freePricing
		reasons = append(reasons, "Free to start")
	case models.PricingFreemium:
		score += s.bonuses.freemium
		reasons = append(reasons, "Free tier available")
	case models.PricingPaid:
		if tool.PricingAmount <= s.cheapPaidCeiling {
			score += s.bonuses.cheapPaid
			reasons = append(reasons, fmt.Sprintf("Affordable at $%.0f/month", tool.PricingAmount))
		}
	}

	// 新手额外可达性加分
	if profile != nil && profile.AIExperience == models.ExperienceNever && tool.SetupDifficulty == models.SetupEasy {
		score += s.bonuses.noviceFriendly
		reasons = append(reasons, "Great first tool for AI newcomers")
	}

	score = clamp(score, 0, 100)

	reason := strings.Join(reasons, " • ")
	if reason == "" {
		reason = "Solid general-purpose option"
	}

	return ScoreResult{
		Value:    score,
		Reason:   reason,
		Priority: models.PriorityForScore(score),
	}
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
