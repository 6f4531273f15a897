package states_test

import (
	"testing"

	"github.com/aretw0/spire/internal/states"
	"github.com/aretw0/spire/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRouteKind(t *testing.T) {
	tests := []struct {
		label string
		want  domain.StateKind
	}{
		{"仙女祝福", domain.KindFairyBlessing},
		{"铁匠铺", domain.KindBlacksmith},
		{"老猫商店", domain.KindShop},
		{"商店", domain.KindShop},
		{"忘忧酒馆", domain.KindTavern},
		{"害羞的宝箱", domain.KindChest},
		{"技能", domain.KindSkill},
		{"未知事件", domain.KindUnknown},
		{" 商店 ", domain.KindShop},
		{"神秘商店", domain.KindShop},
		{"战斗(精英)", domain.KindCombat},
		{"", domain.KindCombat},
	}
	for _, tt := range tests {
		t.Run(tt.label, func(t *testing.T) {
			assert.Equal(t, tt.want, states.RouteKind(tt.label))
		})
	}
}

func TestRoute_BuildsEveryTarget(t *testing.T) {
	for _, label := range states.RouteLabels() {
		st := states.Route(label)
		require.NotNil(t, st, label)
		assert.Equal(t, states.RouteKind(label), st.Kind(), label)
	}
}

func TestForKind(t *testing.T) {
	kinds := []domain.StateKind{
		domain.KindInitialization, domain.KindMapSelection, domain.KindCombat, domain.KindShop,
		domain.KindTavern, domain.KindBlacksmith, domain.KindChest, domain.KindFairyBlessing,
		domain.KindDialogueReward, domain.KindSkill, domain.KindUpgrade, domain.KindUnknown,
	}
	for _, k := range kinds {
		st := states.ForKind(k)
		require.NotNil(t, st, k)
		assert.Equal(t, k, st.Kind())
	}
	assert.Nil(t, states.ForKind("lobby"))
	assert.Equal(t, domain.KindInitialization, states.New().Kind())
}
