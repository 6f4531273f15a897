package knowledge

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// LoadPrompts reads a {key: {"prompt": "..."}} table. Bare string values are accepted too.
func LoadPrompts(path string) (map[string]string, error) {
	var raw map[string]any
	if err := decodeFile(path, &raw); err != nil {
		return nil, err
	}

	prompts := make(map[string]string, len(raw))
	for key, v := range raw {
		switch val := v.(type) {
		case string:
			prompts[key] = val
		case map[string]any:
			tpl, ok := val["prompt"].(string)
			if !ok {
				return nil, fmt.Errorf("prompt %q: missing string field \"prompt\"", key)
			}
			prompts[key] = tpl
		default:
			return nil, fmt.Errorf("prompt %q: unexpected type %T", key, v)
		}
	}
	return prompts, nil
}

// LoadKnowledge reads a category → name → entry table.
func LoadKnowledge(path string) (map[string]map[string]any, error) {
	var kb map[string]map[string]any
	if err := decodeFile(path, &kb); err != nil {
		return nil, err
	}
	return kb, nil
}

func decodeFile(path string, out any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", path, err)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, out); err != nil {
			return fmt.Errorf("failed to parse %s: %w", path, err)
		}
	default:
		if err := json.Unmarshal(data, out); err != nil {
			return fmt.Errorf("failed to parse %s: %w", path, err)
		}
	}
	return nil
}
