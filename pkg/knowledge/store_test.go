package knowledge_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/aretw0/spire/pkg/domain"
	"github.com/aretw0/spire/pkg/knowledge"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad_JSONAndYAML(t *testing.T) {
	prompts := writeFile(t, "prompt.json", `{
		"map_selection": {"prompt": "节点: {text}"},
		"initialization": "你好"
	}`)
	kb := writeFile(t, "game_knowledge.yaml", `
cards:
  打击: 造成6点伤害
  防御:
    description: 获得5点格挡
  重击:
    quote: 势大力沉
    rarity: common
dialog:
  你愿意帮助我吗:
    帮助: 获得100金币
    拒绝: 无事发生
`)

	store := knowledge.Load(prompts, kb)

	tpl, ok := store.Prompt("map_selection")
	assert.True(t, ok)
	assert.Equal(t, "节点: {text}", tpl)
	assert.Equal(t, []string{"initialization", "map_selection"}, store.PromptKeys())

	assert.Equal(t, []string{"cards", "dialog"}, store.Categories())
	assert.Equal(t, "造成6点伤害", store.DescribeOr(knowledge.CategoryCards, "打击", "未知"))
	assert.Equal(t, "获得5点格挡", store.DescribeOr(knowledge.CategoryCards, "防御", "未知"))
	assert.Equal(t, "势大力沉", store.DescribeOr(knowledge.CategoryCards, " 重击 ", "未知"))
	assert.Equal(t, "未知", store.DescribeOr(knowledge.CategoryCards, "旋风斩", "未知"))

	entry, ok := store.Lookup(knowledge.CategoryCards, "重击")
	require.True(t, ok)
	assert.Equal(t, "common", entry.Extra["rarity"])

	effects := store.Dialog("你愿意帮助我吗")
	assert.Equal(t, "'帮助': 获得100金币; '拒绝': 无事发生", knowledge.FormatEffects(effects))
}

func TestLoad_DegradesToEmpty(t *testing.T) {
	broken := writeFile(t, "prompt.json", `{"map_selection": `)

	store := knowledge.Load(broken, filepath.Join(t.TempDir(), "missing.json"))

	assert.Empty(t, store.PromptKeys())
	assert.Empty(t, store.Categories())

	_, err := store.Render("map_selection", nil)
	assert.ErrorIs(t, err, domain.ErrTemplateMissing)
}

func TestLoadPrompts_RejectsMissingPromptField(t *testing.T) {
	path := writeFile(t, "prompt.json", `{"shop_decision": {"text": "x"}}`)

	_, err := knowledge.LoadPrompts(path)
	assert.Error(t, err)
}

func TestStore_Render(t *testing.T) {
	store := knowledge.New(map[string]string{
		"discard": "弃置{discard_count}张: {available_cards}",
	}, nil)

	out, err := store.Render("discard", map[string]string{
		"discard_count":   "2",
		"available_cards": "打击, 防御",
	})
	require.NoError(t, err)
	assert.Equal(t, "弃置2张: 打击, 防御", out)

	_, err = store.Render("discard", map[string]string{"discard_count": "2"})
	assert.ErrorIs(t, err, domain.ErrTemplate)
}

func TestStore_MatchDialog(t *testing.T) {
	store := knowledge.New(nil, map[string]map[string]any{
		knowledge.CategoryDialog: {
			"你愿意帮助我吗": map[string]any{"帮助": "获得100金币"},
			"要来一杯吗":   map[string]any{"喝": "回复生命"},
		},
	})

	question, score, ok := store.MatchDialog("旅人: 你愿意帮助我吗? 我迷路了", 80)
	assert.True(t, ok)
	assert.Equal(t, "你愿意帮助我吗", question)
	assert.Equal(t, 100, score)

	_, _, ok = store.MatchDialog("完全无关的文本内容", 80)
	assert.False(t, ok)
}
