package states

import (
	"context"
	"strings"
	"time"

	"github.com/aretw0/spire/internal/runtime"
	"github.com/aretw0/spire/pkg/domain"
	"github.com/aretw0/spire/pkg/knowledge"
)

var dialogueOptions = domain.Rect(0.4, 0.48, 0.2, 0.3)

// dialogueMatchScore is the partial ratio above which a recognized line is a known dialogue.
const dialogueMatchScore = 80

const noDialogueKnowledge = "未找到相关对话知识。"

// DialogueReward answers an event dialogue, using what the knowledge base says each option does.
type DialogueReward struct{}

func (st *DialogueReward) Kind() domain.StateKind {
	return domain.KindDialogueReward
}

func (st *DialogueReward) Handle(ctx context.Context, s *runtime.Session) error {
	raw, _ := s.RecognizeText(ctx, dialogueText)
	text := strings.Join(strings.Fields(raw), " ")
	if len([]rune(text)) < 3 {
		settle(ctx, s, time.Second)
		return nil
	}

	hint := noDialogueKnowledge
	store := s.Knowledge()
	if question, score, ok := store.MatchDialog(text, dialogueMatchScore); ok {
		s.Logger().Debug("dialogue matched", "question", question, "score", score)
		hint = knowledge.FormatEffects(store.Dialog(question))
	}

	dismiss(ctx, s, 3, 500*time.Millisecond)

	rawOptions, _ := s.RecognizeText(ctx, dialogueOptions)
	options := strings.Join(strings.Fields(rawOptions), " ")
	if len([]rune(options)) < 2 {
		settle(ctx, s, time.Second)
		return nil
	}

	vars := map[string]string{
		"dialogue_text": text,
		"options_text":  options,
		"knowledge":     hint,
	}
	answer, err := s.Ask(ctx, "dialogue_choice", vars, domain.TopicMap)
	if err != nil {
		s.Logger().Warn("no dialogue choice", "err", err)
		settle(ctx, s, time.Second)
		return nil
	}
	item, ok := s.FindText(ctx, answer, dialogueOptions)
	if !ok {
		s.Logger().Warn("dialogue option not on screen", "answer", answer)
		settle(ctx, s, time.Second)
		return nil
	}
	if err := s.ClickIn(ctx, dialogueOptions, item.Center); err != nil {
		s.Logger().Warn("click dialogue option", "err", err)
		return nil
	}
	s.Logger().Info("dialogue answered", "option", answer)
	settle(ctx, s, 1500*time.Millisecond)

	dismiss(ctx, s, 5, 300*time.Millisecond)
	settle(ctx, s, 2*time.Second)
	if upgradeOffered(ctx, s) {
		return s.TransitionTo(ctx, &Upgrade{})
	}
	dismiss(ctx, s, 5, 300*time.Millisecond)
	settle(ctx, s, 2*time.Second)
	return s.TransitionTo(ctx, &MapSelection{})
}
