package states

import (
	"strings"

	"github.com/aretw0/spire/internal/runtime"
	"github.com/aretw0/spire/pkg/domain"
)

// route maps a map-node label to the screen it opens.
type route struct {
	label string
	kind  domain.StateKind
}

// routes is checked by exact label first, then by containment in this order, so longer labels
// must come before labels they contain.
var routes = []route{
	{"仙女祝福", domain.KindFairyBlessing},
	{"铁匠铺", domain.KindBlacksmith},
	{"老猫商店", domain.KindShop},
	{"商店", domain.KindShop},
	{"忘忧酒馆", domain.KindTavern},
	{"害羞的宝箱", domain.KindChest},
	{"技能", domain.KindSkill},
	{"未知事件", domain.KindUnknown},
}

// RouteKind returns the state a node label leads to. Labels matching no route are fights.
func RouteKind(label string) domain.StateKind {
	label = strings.TrimSpace(label)
	for _, r := range routes {
		if r.label == label {
			return r.kind
		}
	}
	for _, r := range routes {
		if strings.Contains(label, r.label) {
			return r.kind
		}
	}
	return domain.KindCombat
}

// Route builds the state a node label leads to.
func Route(label string) runtime.State {
	return ForKind(RouteKind(label))
}

// RouteLabels lists the labels of the routing table in match order.
func RouteLabels() []string {
	out := make([]string, len(routes))
	for i, r := range routes {
		out[i] = r.label
	}
	return out
}
