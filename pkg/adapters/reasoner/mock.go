package reasoner

import (
	"context"
	"strings"

	"github.com/aretw0/spire/pkg/domain"
)

// MockModel is the model name that selects the offline keyword reasoner.
const MockModel = "local-mock"

// Rule answers with Answer when a prompt contains any of Keywords (case-insensitive).
type Rule struct {
	Keywords []string
	Answer   string
}

// DefaultRules keep a dry run moving through the common screens.
var DefaultRules = []Rule{
	{Keywords: []string{"map", "地图", "节点"}, Answer: "<choice>1</choice>"},
	{Keywords: []string{"combat", "战斗", "手牌"}, Answer: "<choice>结束回合</choice>"},
	{Keywords: []string{"shop", "商店", "商品"}, Answer: "<choice>[-1]</choice>"},
}

// Mock implements ports.Reasoner with keyword rules and no network.
type Mock struct {
	rules    []Rule
	fallback string
}

// NewMock creates a mock reasoner. Without rules, DefaultRules apply.
func NewMock(rules ...Rule) *Mock {
	if len(rules) == 0 {
		rules = DefaultRules
	}
	return &Mock{rules: rules, fallback: "模拟响应：操作成功。"}
}

// Generate returns the answer of the first matching rule, or a generic acknowledgement.
func (m *Mock) Generate(ctx context.Context, prompt string, history []domain.Message) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	lower := strings.ToLower(prompt)
	for _, r := range m.rules {
		for _, k := range r.Keywords {
			if strings.Contains(lower, strings.ToLower(k)) {
				return r.Answer, nil
			}
		}
	}
	return m.fallback, nil
}
