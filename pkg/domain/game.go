package domain

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// HandCard is one card read from the hand during a combat turn.
type HandCard struct {
	Name  string `json:"name"`
	Cost  int    `json:"cost"`
	Index int    `json:"index"`
}

// SelectedNode is the last map node chosen by the agent.
// Index is the 1-based position in the map band, as used by DeleteLevel.
type SelectedNode struct {
	Index  int    `json:"index"`
	Text   string `json:"text"`
	Center Point  `json:"center"`
}

// Snapshot is a flat key/value view of the game's memory.
// Values are int when the source value parsed as an integer, string otherwise.
type Snapshot map[string]any

// Int returns the integer value stored at key.
func (s Snapshot) Int(key string) (int, bool) {
	switch v := s[key].(type) {
	case int:
		return v, true
	case int64:
		return int(v), true
	case float64:
		return int(v), true
	case string:
		n, err := strconv.Atoi(strings.TrimSpace(v))
		return n, err == nil
	}
	return 0, false
}

// IntOr returns the integer at key or def.
func (s Snapshot) IntOr(key string, def int) int {
	if v, ok := s.Int(key); ok {
		return v
	}
	return def
}

// Summary renders the snapshot as sorted "key: value" pairs joined by ", ".
func (s Snapshot) Summary() string {
	if len(s) == 0 {
		return "无"
	}
	keys := make([]string, 0, len(s))
	for k := range s {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s: %v", k, s[k]))
	}
	return strings.Join(parts, ", ")
}
