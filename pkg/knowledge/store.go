package knowledge

import (
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"github.com/aretw0/spire/internal/logging"
	"github.com/aretw0/spire/pkg/domain"
	"github.com/mitchellh/mapstructure"
)

// Well-known knowledge categories.
const (
	CategoryCards     = "cards"
	CategoryNodes     = "nodes"
	CategoryBlessings = "blessings"
	CategoryDialog    = "dialog"
)

// Entry is the structured form of a knowledge item.
type Entry struct {
	Description string         `mapstructure:"description"`
	Quote       string         `mapstructure:"quote"`
	Extra       map[string]any `mapstructure:",remain"`
}

// Text returns the description, falling back to the quote.
func (e Entry) Text() string {
	if e.Description != "" {
		return e.Description
	}
	return e.Quote
}

// Store is a read-only view over prompt templates and the knowledge base.
type Store struct {
	prompts   map[string]string
	knowledge map[string]map[string]any
	logger    *slog.Logger
}

// Option configures a Store.
type Option func(*Store)

// WithLogger sets the logger used to report malformed entries.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Store) {
		s.logger = logger
	}
}

// New builds a Store from already decoded tables.
func New(prompts map[string]string, knowledge map[string]map[string]any, opts ...Option) *Store {
	s := &Store{
		prompts:   prompts,
		knowledge: knowledge,
		logger:    logging.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.prompts == nil {
		s.prompts = map[string]string{}
	}
	if s.knowledge == nil {
		s.knowledge = map[string]map[string]any{}
	}
	return s
}

// Load reads both tables from disk. Any failure is logged and yields an empty table,
// so startup never aborts because of a bad data file.
func Load(promptPath, knowledgePath string, opts ...Option) *Store {
	s := New(nil, nil, opts...)

	if prompts, err := LoadPrompts(promptPath); err != nil {
		s.logger.Error("failed to load prompt templates", "path", promptPath, "error", err)
	} else {
		s.prompts = prompts
	}

	if kb, err := LoadKnowledge(knowledgePath); err != nil {
		s.logger.Error("failed to load knowledge base", "path", knowledgePath, "error", err)
	} else {
		s.knowledge = kb
	}

	s.logger.Info("knowledge loaded", "prompts", len(s.prompts), "categories", len(s.knowledge))
	return s
}

// Prompt returns the template registered under key.
func (s *Store) Prompt(key string) (string, bool) {
	tpl, ok := s.prompts[key]
	return tpl, ok
}

// PromptKeys lists template keys in lexical order.
func (s *Store) PromptKeys() []string {
	return sortedKeys(s.prompts)
}

// Render fills the template registered under key.
func (s *Store) Render(key string, vars map[string]string) (string, error) {
	tpl, ok := s.prompts[key]
	if !ok {
		return "", fmt.Errorf("%q: %w", key, domain.ErrTemplateMissing)
	}
	out, err := Render(tpl, vars)
	if err != nil {
		return "", fmt.Errorf("%q: %w", key, err)
	}
	return out, nil
}

// Categories lists knowledge categories in lexical order.
func (s *Store) Categories() []string {
	return sortedKeys(s.knowledge)
}

// Names lists the item names of a category in lexical order.
func (s *Store) Names(category string) []string {
	return sortedKeys(s.knowledge[category])
}

// Lookup decodes the entry for name in category.
func (s *Store) Lookup(category, name string) (Entry, bool) {
	raw, ok := s.knowledge[category][strings.TrimSpace(name)]
	if !ok {
		return Entry{}, false
	}
	switch v := raw.(type) {
	case string:
		return Entry{Description: v}, true
	case map[string]any:
		var e Entry
		if err := mapstructure.Decode(v, &e); err != nil {
			s.logger.Warn("malformed knowledge entry", "category", category, "name", name, "error", err)
			return Entry{}, false
		}
		return e, true
	default:
		s.logger.Warn("unexpected knowledge entry type", "category", category, "name", name, "type", fmt.Sprintf("%T", raw))
		return Entry{}, false
	}
}

// Describe returns the description (or quote) for name in category.
func (s *Store) Describe(category, name string) (string, bool) {
	e, ok := s.Lookup(category, name)
	if !ok {
		return "", false
	}
	text := e.Text()
	return text, text != ""
}

// DescribeOr returns Describe's text or def.
func (s *Store) DescribeOr(category, name, def string) string {
	if text, ok := s.Describe(category, name); ok {
		return text
	}
	return def
}

// Dialog returns the option→effect table for a dialogue question.
func (s *Store) Dialog(question string) map[string]string {
	raw, ok := s.knowledge[CategoryDialog][question].(map[string]any)
	if !ok {
		return nil
	}
	effects := make(map[string]string, len(raw))
	for opt, eff := range raw {
		effects[opt] = fmt.Sprint(eff)
	}
	return effects
}

// MatchDialog finds the dialogue question most similar to text by partial ratio.
// It returns ok=false when the best score is below threshold.
func (s *Store) MatchDialog(text string, threshold int) (question string, score int, ok bool) {
	best := 0
	for _, key := range s.Names(CategoryDialog) {
		sc := PartialRatio(text, key)
		if sc > best {
			best = sc
			if sc >= threshold {
				question = key
			}
		}
	}
	return question, best, question != ""
}

// FormatEffects renders an option→effect table as "'opt': effect" pairs joined by "; ".
func FormatEffects(effects map[string]string) string {
	parts := make([]string, 0, len(effects))
	for _, opt := range sortedKeys(effects) {
		parts = append(parts, fmt.Sprintf("'%s': %s", opt, effects[opt]))
	}
	return strings.Join(parts, "; ")
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
