package runtime

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/aretw0/spire/pkg/domain"
)

var (
	choicePattern = regexp.MustCompile(`(?s)<choice>(.*?)</choice>`)
	chatPattern   = regexp.MustCompile(`(?s)<chat>(.*?)</chat>`)
)

// Response is a reasoner answer split into its tagged parts.
type Response struct {
	// Choice is the <choice> payload, or the whole trimmed answer when the tag is absent.
	Choice string
	// Chat is the <chat> payload, empty when absent.
	Chat string
}

// ParseResponse extracts the choice and chat payloads independently of each other and of
// their order.
func ParseResponse(raw string) Response {
	var r Response
	if m := chatPattern.FindStringSubmatch(raw); m != nil {
		r.Chat = strings.TrimSpace(m[1])
	}
	if m := choicePattern.FindStringSubmatch(raw); m != nil {
		r.Choice = strings.TrimSpace(m[1])
		return r
	}
	rest := chatPattern.ReplaceAllString(raw, "")
	r.Choice = strings.TrimSpace(rest)
	return r
}

// AskReasoner sends prompt with the history of topic (none when topic is empty) and returns the
// choice payload. A successful exchange appends exactly one user and one assistant message to
// the topic's history; a failed one leaves it untouched. The chat payload goes to the chat sink.
func (s *Session) AskReasoner(ctx context.Context, prompt string, topic domain.Topic) (string, error) {
	if s.ports.Reasoner == nil {
		return "", fmt.Errorf("no reasoner configured: %w", domain.ErrNoResponse)
	}

	history := s.History(topic)

	rctx, cancel := withTimeout(ctx, s.reasonerTimeout)
	defer cancel()
	start := time.Now()
	raw, err := s.ports.Reasoner.Generate(rctx, prompt, history)
	if err == nil && strings.TrimSpace(raw) == "" {
		err = domain.ErrNoResponse
	}
	if s.hooks.OnReasonerCall != nil {
		s.hooks.OnReasonerCall(ctx, &domain.ReasonerEvent{
			EventBase: s.event(domain.EventReasonerCall),
			Topic:     topic,
			Duration:  time.Since(start),
			Err:       err,
		})
	}
	if err != nil {
		s.logger.Warn("reasoner call failed", "topic", topic, "err", err)
		return "", fmt.Errorf("ask reasoner: %w", err)
	}

	if topic != "" {
		s.AddToHistory(topic, domain.RoleUser, prompt)
		s.AddToHistory(topic, domain.RoleAssistant, raw)
	}

	resp := ParseResponse(raw)
	if resp.Chat != "" {
		s.dispatchChat(ctx, resp.Chat)
	}
	if resp.Choice == "" {
		s.logger.Warn("reasoner answer carries no choice", "topic", topic)
		return "", domain.ErrNoResponse
	}
	s.logger.Info("reasoner choice", "topic", topic, "choice", resp.Choice)
	return resp.Choice, nil
}

// Ask renders the prompt template key with vars and asks the reasoner on topic.
// A missing template or placeholder fails before the reasoner is contacted.
func (s *Session) Ask(ctx context.Context, key string, vars map[string]string, topic domain.Topic) (string, error) {
	prompt, err := s.store.Render(key, vars)
	if err != nil {
		s.logger.Warn("prompt unavailable", "key", key, "err", err)
		return "", err
	}
	return s.AskReasoner(ctx, prompt, topic)
}

// RecognizeAndAsk recognizes region, enriches each label with its description from category
// (unknown labels read "未知"), and asks template key with {text} and {indexed_text} on the map
// topic. It returns the enriched text and the choice.
func (s *Session) RecognizeAndAsk(ctx context.Context, region domain.Region, key, category string) (string, string, error) {
	_, items := s.RecognizeText(ctx, region)
	if len(items) == 0 {
		return "", "", fmt.Errorf("nothing recognized in %s: %w", region, domain.ErrNoData)
	}

	parts := make([]string, len(items))
	indexed := make([]string, len(items))
	for i, item := range items {
		label := item.Text
		if category != "" {
			label = fmt.Sprintf("%s (%s)", item.Text, s.store.DescribeOr(category, item.Text, "未知"))
		}
		parts[i] = label
		indexed[i] = fmt.Sprintf("%d: %s", item.Index, label)
	}
	text := strings.Join(parts, " ")

	choice, err := s.Ask(ctx, key, map[string]string{
		"text":         text,
		"indexed_text": strings.Join(indexed, "\n"),
	}, domain.TopicMap)
	return text, choice, err
}

// Greet sends the "initialization" prompt once without history. The answer is only logged.
func (s *Session) Greet(ctx context.Context) {
	prompt, ok := s.store.Prompt("initialization")
	if !ok || s.ports.Reasoner == nil {
		return
	}
	rctx, cancel := withTimeout(ctx, s.reasonerTimeout)
	defer cancel()
	answer, err := s.ports.Reasoner.Generate(rctx, prompt, nil)
	if err != nil {
		s.logger.Warn("initialization prompt failed", "err", err)
		return
	}
	s.logger.Info("initialization prompt answered", "answer", answer)
}

func (s *Session) dispatchChat(ctx context.Context, msg string) {
	if s.hooks.OnChat != nil {
		s.hooks.OnChat(ctx, &domain.ChatEvent{EventBase: s.event(domain.EventChat), Message: msg})
	}
	if s.ports.Chat == nil {
		s.logger.Info("chat", "msg", msg)
		return
	}
	if err := s.ports.Chat.Say(ctx, msg); err != nil {
		s.logger.Warn("chat not delivered", "err", err)
	}
}

// AddToHistory appends one message to topic. Unknown topics are ignored with a warning.
func (s *Session) AddToHistory(topic domain.Topic, role, content string) {
	if !topic.Valid() {
		s.logger.Warn("unknown history topic", "topic", topic)
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.histories[topic] = append(s.histories[topic], domain.Message{Role: role, Content: content})
}

// History returns a copy of topic's messages. Empty and unknown topics yield nil.
func (s *Session) History(topic domain.Topic) []domain.Message {
	if topic == "" {
		return nil
	}
	if !topic.Valid() {
		s.logger.Warn("unknown history topic", "topic", topic)
		return nil
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]domain.Message(nil), s.histories[topic]...)
}

// ClearHistory empties topic.
func (s *Session) ClearHistory(topic domain.Topic) {
	if !topic.Valid() {
		s.logger.Warn("unknown history topic", "topic", topic)
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.histories[topic] = nil
	s.logger.Debug("history cleared", "topic", topic)
}

// Describe is a shortcut for the knowledge store's DescribeOr.
func (s *Session) Describe(category, name, def string) string {
	return s.store.DescribeOr(category, name, def)
}
