package states

import (
	"context"
	"encoding/json"
	"fmt"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/aretw0/spire/internal/runtime"
	"github.com/aretw0/spire/pkg/domain"
)

// shopSlot is one of the three wares on the shop counter.
type shopSlot struct {
	name  domain.Region
	price domain.Region
	buy   domain.Point
}

var (
	shopSlots = [...]shopSlot{
		{domain.Rect(0.29, 0.35, 0.1, 0.05), domain.Rect(0.32, 0.655, 0.06, 0.05), domain.Pt(0.32, 0.7)},
		{domain.Rect(0.46, 0.35, 0.1, 0.05), domain.Rect(0.485, 0.655, 0.06, 0.05), domain.Pt(0.485, 0.7)},
		{domain.Rect(0.63, 0.35, 0.1, 0.05), domain.Rect(0.65, 0.655, 0.06, 0.05), domain.Pt(0.65, 0.7)},
	}
	shopIdle  = domain.Pt(0.1, 0.1)
	shopLeave = domain.Pt(0.72, 0.27)
)

// shopGoldKey is the snapshot key holding the player's gold.
const shopGoldKey = "p_money"

// Shop reads the wares, asks which ones to buy and leaves.
type Shop struct{}

func (st *Shop) Kind() domain.StateKind {
	return domain.KindShop
}

func (st *Shop) Handle(ctx context.Context, s *runtime.Session) error {
	// keep the pointer off the wares so hover cards do not cover the labels
	click(ctx, s, shopIdle, "idle")
	settle(ctx, s, 200*time.Millisecond)

	lines := make([]string, len(shopSlots))
	for i, slot := range shopSlots {
		name, _ := s.RecognizeText(ctx, slot.name)
		price, _ := s.RecognizeText(ctx, slot.price)
		lines[i] = wareLine(s, i, strings.TrimSpace(name), ShopPrice(price))
	}

	gold := 0
	if snap, err := s.Snapshot(ctx); err == nil {
		gold = snap.IntOr(shopGoldKey, 0)
	}

	vars := map[string]string{
		"gold":  strconv.Itoa(gold),
		"items": strings.Join(lines, "\n"),
	}
	answer, err := s.Ask(ctx, "shop_decision", vars, domain.TopicMap)
	if err != nil {
		s.Logger().Warn("no shop decision", "err", err)
		return leave(ctx, s, shopLeave, false)
	}
	picks, err := ParsePurchase(answer)
	if err != nil {
		s.Logger().Warn("unreadable shop decision", "answer", answer, "err", err)
		return leave(ctx, s, shopLeave, false)
	}
	if slices.Contains(picks, -1) {
		s.Logger().Info("buying nothing")
		return leave(ctx, s, shopLeave, true)
	}

	bought := 0
	for _, n := range picks {
		if n < 1 || n > len(shopSlots) {
			s.Logger().Warn("ignoring ware index", "index", n)
			continue
		}
		if click(ctx, s, shopSlots[n-1].buy, "buy") {
			bought++
		}
		settle(ctx, s, 500*time.Millisecond)
	}
	s.Logger().Info("shopping done", "bought", bought)
	if bought >= len(shopSlots) {
		// an emptied counter closes on its own
		return s.TransitionTo(ctx, &MapSelection{})
	}
	return leave(ctx, s, shopLeave, true)
}

// ShopPrice cleans a recognized price. The coin glyph before a 4 is often read as "Oh".
func ShopPrice(raw string) string {
	price := strings.TrimSpace(strings.ReplaceAll(raw, "Oh", "40"))
	if price == "" {
		return "N/A"
	}
	return price
}

// ParsePurchase reads the reasoner's purchase list, a JSON array of 1-based ware indices where
// -1 means buying nothing.
func ParsePurchase(answer string) ([]int, error) {
	var picks []int
	if err := json.Unmarshal([]byte(strings.TrimSpace(answer)), &picks); err != nil {
		return nil, fmt.Errorf("parse purchase list: %w", err)
	}
	return picks, nil
}

func wareLine(s *runtime.Session, i int, name, price string) string {
	if name == "" {
		return fmt.Sprintf("商品%d: N/A", i+1)
	}
	return fmt.Sprintf("%s (%s) - 价格: %s", name, s.Describe(categoryItems, name, "未知物品"), price)
}
