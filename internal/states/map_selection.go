package states

import (
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/aretw0/spire/internal/runtime"
	"github.com/aretw0/spire/pkg/domain"
	"github.com/aretw0/spire/pkg/geometry"
)

var (
	// mapBand is the strip holding the labels of the reachable nodes.
	mapBand = domain.Rect(0.2, 0.25, 0.6, 0.03)
	// nodeHotspotOffset is how far below its label a node's clickable icon sits, as a multiple of
	// the band height.
	nodeHotspotOffset = 12.3 * mapBand.Height
)

// Labels with a dedicated handling on the map itself.
const (
	labelNextCrossing = "下个路口"
	labelBandage      = "绷带"
	labelLastPage     = "尾页"
)

// MapSelection reads the reachable nodes, asks the reasoner which one to enter and routes to the
// state behind it.
type MapSelection struct{}

func (st *MapSelection) Kind() domain.StateKind {
	return domain.KindMapSelection
}

func (st *MapSelection) Handle(ctx context.Context, s *runtime.Session) error {
	items := s.RecognizeItems(ctx, mapBand)
	if len(items) == 0 {
		s.Logger().Info("no map nodes visible, dismissing")
		click(ctx, s, skipPoint, "skip")
		settle(ctx, s, 1500*time.Millisecond)
		return nil
	}

	labels := make([]string, 0, len(items))
	for _, item := range items {
		labels = append(labels, item.Text)
	}
	vars := map[string]string{
		"text": strings.Join(describeAll(s, categoryNodes, labels, "战斗节点"), ", "),
	}
	choice, err := s.Ask(ctx, "map_selection", vars, domain.TopicMap)
	if err != nil {
		s.Logger().Warn("no node choice", "err", err)
		return nil
	}

	index, err := strconv.Atoi(strings.TrimSpace(choice))
	if err != nil {
		s.Logger().Warn("node choice is not an index", "choice", choice)
		return nil
	}
	item, ok := nodeAt(items, index)
	if !ok {
		s.Logger().Warn("node choice out of range", "index", index, "nodes", len(items))
		return nil
	}

	center, err := geometry.RegionToDisplay(mapBand, item.Center)
	if err != nil {
		s.Logger().Warn("node center", "err", err)
		return nil
	}
	label := strings.TrimSpace(item.Text)
	s.SetSelectedNode(domain.SelectedNode{Index: index, Text: label, Center: center})
	s.Logger().Info("node selected", "index", index, "node", label)

	if err := s.ClickIn(ctx, mapBand, item.Center); err != nil {
		s.Logger().Warn("click node label", "err", err)
	}
	settle(ctx, s, 200*time.Millisecond)

	if label == labelNextCrossing {
		deleteSelected(ctx, s)
		return s.TransitionTo(ctx, &MapSelection{})
	}

	hotspot := domain.Pt(center.X, center.Y+nodeHotspotOffset)
	click(ctx, s, hotspot, "node")

	switch label {
	case labelBandage:
		settle(ctx, s, 1500*time.Millisecond)
		click(ctx, s, hotspot, "node")
		return s.TransitionTo(ctx, &MapSelection{})
	case labelLastPage:
		settle(ctx, s, 8*time.Second)
		return s.TransitionTo(ctx, &MapSelection{})
	}

	settle(ctx, s, time.Second)
	return s.TransitionTo(ctx, Route(label))
}

func nodeAt(items []domain.RecognizedItem, index int) (domain.RecognizedItem, bool) {
	for _, item := range items {
		if item.Index == index {
			return item, true
		}
	}
	return domain.RecognizedItem{}, false
}
