package states_test

import (
	"testing"

	"github.com/aretw0/spire/internal/states"
	"github.com/aretw0/spire/pkg/domain"
	"github.com/stretchr/testify/assert"
)

// tokens lays texts out left to right the way the recognizer reports them.
func tokens(texts ...string) []domain.RecognizedItem {
	items := make([]domain.RecognizedItem, len(texts))
	for i, text := range texts {
		items[i] = domain.RecognizedItem{
			Index: i + 1,
			Text:  text,
			Box:   domain.Rect(float64(i)*0.1, 0, 0.1, 1),
		}
	}
	return items
}

func TestScanHand(t *testing.T) {
	tests := []struct {
		name  string
		items []domain.RecognizedItem
		want  []domain.HandCard
	}{
		{
			name:  "name cost pairs",
			items: tokens("打击", "1", "防御", "2"),
			want:  []domain.HandCard{{Name: "打击", Cost: 1, Index: 0}, {Name: "防御", Cost: 2, Index: 1}},
		},
		{
			name:  "name without cost",
			items: tokens("打击", "防御", "1"),
			want:  []domain.HandCard{{Name: "打击", Cost: 0, Index: 0}, {Name: "防御", Cost: 1, Index: 1}},
		},
		{
			name:  "trailing name",
			items: tokens("打击", "1", "痛击"),
			want:  []domain.HandCard{{Name: "打击", Cost: 1, Index: 0}, {Name: "痛击", Cost: 0, Index: 1}},
		},
		{
			name:  "orphan and out of range numbers",
			items: tokens("3", "打击", "42", "2"),
			want:  []domain.HandCard{{Name: "打击", Cost: 2, Index: 0}},
		},
		{
			name:  "noise ignored",
			items: tokens("abc", "打击", "", "x1", "0"),
			want:  []domain.HandCard{{Name: "打击", Cost: 0, Index: 0}},
		},
		{
			name:  "empty",
			items: nil,
			want:  nil,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, states.ScanHand(tt.items))
		})
	}
}

func TestScanHand_ReadsLeftToRight(t *testing.T) {
	items := []domain.RecognizedItem{
		{Index: 1, Text: "1", Box: domain.Rect(0.3, 0, 0.1, 1)},
		{Index: 2, Text: "打击", Box: domain.Rect(0.1, 0, 0.1, 1)},
	}
	assert.Equal(t, []domain.HandCard{{Name: "打击", Cost: 1}}, states.ScanHand(items))
}

func TestFindCard(t *testing.T) {
	hand := []domain.HandCard{
		{Name: "打击", Cost: 1, Index: 0},
		{Name: "重击 Plus", Cost: 2, Index: 1},
		{Name: "防御", Cost: 1, Index: 2},
	}
	tests := []struct {
		target string
		want   string
		ok     bool
	}{
		{"防御", "防御", true},
		{"重击", "重击 Plus", true},
		{"我选择打击", "打击", true},
		{"重击plus", "重击 Plus", true},
		{"治疗", "", false},
		{"", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.target, func(t *testing.T) {
			card, ok := states.FindCard(tt.target, hand)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, card.Name)
		})
	}
}
