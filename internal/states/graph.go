package states

import "github.com/aretw0/spire/pkg/domain"

// Edge is one transition a state can take.
type Edge struct {
	From  domain.StateKind
	To    domain.StateKind
	Label string
}

// Edges lists every transition the states perform, map routes in routing-table order.
func Edges() []Edge {
	edges := []Edge{
		{domain.KindInitialization, domain.KindMapSelection, ""},
		{domain.KindMapSelection, domain.KindMapSelection, labelNextCrossing},
		{domain.KindMapSelection, domain.KindMapSelection, labelBandage},
		{domain.KindMapSelection, domain.KindMapSelection, labelLastPage},
	}
	for _, r := range routes {
		edges = append(edges, Edge{domain.KindMapSelection, r.kind, r.label})
	}
	return append(edges,
		Edge{domain.KindMapSelection, domain.KindCombat, "fight"},
		Edge{domain.KindCombat, domain.KindDialogueReward, "won, dialogue"},
		Edge{domain.KindCombat, domain.KindUpgrade, "won, upgrade"},
		Edge{domain.KindCombat, domain.KindMapSelection, "won"},
		Edge{domain.KindCombat, domain.KindMapSelection, "lost"},
		Edge{domain.KindDialogueReward, domain.KindUpgrade, "upgrade"},
		Edge{domain.KindDialogueReward, domain.KindMapSelection, ""},
		Edge{domain.KindUpgrade, domain.KindTavern, "清除卡牌"},
		Edge{domain.KindUpgrade, domain.KindBlacksmith, "强化卡牌"},
		Edge{domain.KindUpgrade, domain.KindMapSelection, ""},
		Edge{domain.KindSkill, domain.KindChest, "usable"},
		Edge{domain.KindSkill, domain.KindMapSelection, "unusable"},
		Edge{domain.KindShop, domain.KindMapSelection, ""},
		Edge{domain.KindTavern, domain.KindMapSelection, ""},
		Edge{domain.KindBlacksmith, domain.KindMapSelection, ""},
		Edge{domain.KindChest, domain.KindMapSelection, ""},
		Edge{domain.KindFairyBlessing, domain.KindMapSelection, ""},
		Edge{domain.KindUnknown, domain.KindMapSelection, ""},
	)
}
