package states

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/aretw0/spire/internal/runtime"
	"github.com/aretw0/spire/pkg/domain"
	"github.com/aretw0/spire/pkg/geometry"
)

// Snapshot keys read during a fight.
const (
	keyPlayerHP    = "c_currentHP"
	keyPlayerMaxHP = "c_maxHP"
	keyEnemyHP     = "e_currentHP"
	keyEnemyMaxHP  = "e_maxHP"
	keyEnergy      = "c_actionPoints"
)

var (
	handRegion     = domain.Rect(0.10, 0.6, 0.80, 0.07)
	endTurnButton  = domain.Rect(0.78, 0.86, 0.1, 0.06)
	retryButton    = domain.Rect(0.52, 0.76, 0.15, 0.05)
	openStory      = domain.Rect(0.87, 0.38, 0.08, 0.04)
	turnIndicator  = domain.Pt(0.8, 0.87)
	playerTurnTint = domain.Color{R: 79, G: 102, B: 52}
	enemyTurnTint  = domain.Color{R: 89, G: 89, B: 89}
)

const turnTintTolerance = 15

// vitals is the part of a snapshot a fight decision needs. Missing values are -1.
type vitals struct {
	hp, maxHP, enemyHP, enemyMaxHP, energy int
}

func readVitals(snap domain.Snapshot) vitals {
	return vitals{
		hp:         snap.IntOr(keyPlayerHP, -1),
		maxHP:      snap.IntOr(keyPlayerMaxHP, -1),
		enemyHP:    snap.IntOr(keyEnemyHP, -1),
		enemyMaxHP: snap.IntOr(keyEnemyMaxHP, -1),
		energy:     snap.IntOr(keyEnergy, 0),
	}
}

func (v vitals) empty() bool {
	return v.hp < 0 && v.maxHP < 0 && v.enemyHP < 0 && v.enemyMaxHP < 0
}

// Combat plays a fight one card per tick until it is won or lost.
type Combat struct {
	entered bool
}

func (st *Combat) Kind() domain.StateKind {
	return domain.KindCombat
}

func (st *Combat) Handle(ctx context.Context, s *runtime.Session) error {
	if !st.entered {
		st.entered = true
		s.ClearHistory(domain.TopicCombat)
	}

	v, ok := st.vitals(ctx, s)
	if !ok {
		s.Logger().Warn("no combat data, leaving fight")
		click(ctx, s, skipPoint, "skip")
		return s.TransitionTo(ctx, &MapSelection{})
	}

	switch {
	case v.hp == 0:
		return st.lost(ctx, s)
	case v.enemyHP == 0:
		return st.won(ctx, s)
	}

	if !st.playerTurn(ctx, s) {
		settle(ctx, s, time.Second)
		return nil
	}
	st.playTurn(ctx, s, v)
	return nil
}

func (st *Combat) vitals(ctx context.Context, s *runtime.Session) (vitals, bool) {
	for attempt := range 2 {
		if attempt > 0 {
			settle(ctx, s, time.Second)
		}
		snap, err := s.Snapshot(ctx)
		if err != nil {
			s.Logger().Debug("snapshot", "attempt", attempt+1, "err", err)
			continue
		}
		if v := readVitals(snap); !v.empty() {
			return v, true
		}
	}
	return vitals{}, false
}

func (st *Combat) lost(ctx context.Context, s *runtime.Session) error {
	s.Logger().Info("fight lost, retrying from the story")
	settle(ctx, s, 2*time.Second)
	clickCenter(ctx, s, retryButton, "retry")
	settle(ctx, s, 5*time.Second)
	clickCenter(ctx, s, openStory, "open story")
	settle(ctx, s, 5*time.Second)
	s.ClearHistory(domain.TopicCombat)
	return s.TransitionTo(ctx, &MapSelection{})
}

func (st *Combat) won(ctx context.Context, s *runtime.Session) error {
	s.Logger().Info("fight won")
	settle(ctx, s, 1500*time.Millisecond)
	s.ClearHistory(domain.TopicCombat)
	s.AddToHistory(domain.TopicMap, domain.RoleSystem, "系统提示：战斗已胜利结束。")

	if text, _ := s.RecognizeText(ctx, dialogueText); len([]rune(text)) > 5 {
		return s.TransitionTo(ctx, &DialogueReward{})
	}

	click(ctx, s, skipPoint, "skip")
	settle(ctx, s, time.Second)
	if upgradeOffered(ctx, s) {
		return s.TransitionTo(ctx, &Upgrade{})
	}

	click(ctx, s, skipPoint, "skip")
	settle(ctx, s, time.Second)
	return s.TransitionTo(ctx, &MapSelection{})
}

// playerTurn samples the turn indicator; when its color is neither reference it falls back to
// reading the end-turn button.
func (st *Combat) playerTurn(ctx context.Context, s *runtime.Session) bool {
	c, err := s.PixelColor(ctx, turnIndicator)
	if err == nil {
		switch {
		case c.Near(playerTurnTint, turnTintTolerance):
			return true
		case c.Near(enemyTurnTint, turnTintTolerance):
			return false
		}
	}
	text, _ := s.RecognizeText(ctx, endTurnButton)
	return strings.Contains(squashSpaces(text), "回合结束")
}

func (st *Combat) playTurn(ctx context.Context, s *runtime.Session, v vitals) {
	click(ctx, s, skipPoint, "skip")
	settle(ctx, s, 500*time.Millisecond)

	hand := ScanHand(s.RecognizeItems(ctx, handRegion))
	if len(hand) == 0 {
		s.Logger().Info("empty hand")
		st.endTurn(ctx, s)
		return
	}

	cards := make([]string, 0, len(hand))
	for _, card := range hand {
		desc := s.Describe(categoryCards, card.Name, "未知卡牌")
		cards = append(cards, fmt.Sprintf("%s (%d费, %s)", card.Name, card.Cost, desc))
	}
	vars := map[string]string{
		"p_hp":       orNA(v.hp),
		"p_max_hp":   orNA(v.maxHP),
		"p_energy":   strconv.Itoa(v.energy),
		"hand_cards": strings.Join(cards, ", "),
		"e_hp":       orNA(v.enemyHP),
		"e_max_hp":   orNA(v.enemyMaxHP),
	}
	choice, err := s.Ask(ctx, "combat_decision", vars, domain.TopicCombat)
	if err != nil {
		s.Logger().Warn("no combat decision", "err", err)
		st.endTurn(ctx, s)
		return
	}
	if wantsEndTurn(choice) {
		st.endTurn(ctx, s)
		return
	}

	card, ok := FindCard(choice, hand)
	if !ok {
		s.Logger().Warn("chosen card not in hand", "choice", choice)
		st.endTurn(ctx, s)
		return
	}
	if v.energy < card.Cost {
		s.Logger().Warn("not enough energy", "card", card.Name, "cost", card.Cost, "energy", v.energy)
		st.endTurn(ctx, s)
		return
	}
	if err := st.play(ctx, s, card); err != nil {
		s.Logger().Warn("play card failed", "card", card.Name, "err", err)
		st.endTurn(ctx, s)
	}
}

// play drags card from the hand to the play zone.
func (st *Combat) play(ctx context.Context, s *runtime.Session, card domain.HandCard) error {
	item, ok := s.FindText(ctx, card.Name, handRegion)
	if !ok {
		return fmt.Errorf("card %q: %w", card.Name, domain.ErrNotFound)
	}
	from, err := geometry.RegionToDisplay(handRegion, item.Center)
	if err != nil {
		return err
	}
	if err := s.DragRelative(ctx, from, playZone, 300*time.Millisecond); err != nil {
		return err
	}
	s.Logger().Info("card played", "card", card.Name, "cost", card.Cost)
	settle(ctx, s, 1500*time.Millisecond)
	click(ctx, s, skipPoint, "skip")
	return nil
}

func (st *Combat) endTurn(ctx context.Context, s *runtime.Session) {
	s.Logger().Info("ending turn")
	clickCenter(ctx, s, endTurnButton, "end turn")
	settle(ctx, s, time.Second)

	prompt, _ := s.RecognizeText(ctx, discardPrompt)
	if strings.Contains(prompt, "选择") {
		discard(ctx, s, squashSpaces(prompt))
	}
}

func wantsEndTurn(choice string) bool {
	return strings.Contains(choice, "结束回合") || strings.Contains(strings.ToLower(choice), "end turn")
}

func orNA(v int) string {
	if v < 0 {
		return "N/A"
	}
	return strconv.Itoa(v)
}
