package knowledge_test

import (
	"testing"

	"github.com/aretw0/spire/pkg/domain"
	"github.com/aretw0/spire/pkg/knowledge"
	"github.com/stretchr/testify/assert"
)

func TestRender(t *testing.T) {
	tests := []struct {
		name    string
		tpl     string
		vars    map[string]string
		want    string
		wantErr error
	}{
		{"plain", "无占位符", nil, "无占位符", nil},
		{"substitutes", "金币 {gold}, 商品 {items}", map[string]string{"gold": "99", "items": "a, b"}, "金币 99, 商品 a, b", nil},
		{"repeated", "{x}-{x}", map[string]string{"x": "1"}, "1-1", nil},
		{"escaped braces", `{{"choice": {n}}}`, map[string]string{"n": "3"}, `{"choice": 3}`, nil},
		{"missing value", "{hand_cards}", map[string]string{}, "", domain.ErrTemplate},
		{"unclosed", "结果 {text", map[string]string{"text": "x"}, "", domain.ErrTemplate},
		{"stray close", "a } b", nil, "", domain.ErrTemplate},
		{"values are not re-expanded", "{a}", map[string]string{"a": "{b}"}, "{b}", nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := knowledge.Render(tt.tpl, tt.vars)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestPartialRatio(t *testing.T) {
	assert.Equal(t, 100, knowledge.PartialRatio("打击", "打击+"))
	assert.Equal(t, 100, knowledge.PartialRatio("", ""))
	assert.Equal(t, 0, knowledge.PartialRatio("", "打击"))
	assert.Less(t, knowledge.PartialRatio("防御", "打击"), 80)
}

func TestContains(t *testing.T) {
	assert.True(t, knowledge.Contains("Strike", "strike +", 80))
	assert.True(t, knowledge.Contains("重 击", "重击", 80))
	assert.False(t, knowledge.Contains("打击", "防御", 80))
	assert.False(t, knowledge.Contains("", "防御", 80))
}
