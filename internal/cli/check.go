package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"time"

	"github.com/aretw0/spire/internal/config"
	"github.com/aretw0/spire/internal/presentation/tui"
	"github.com/aretw0/spire/pkg/adapters/desktop"
	"github.com/aretw0/spire/pkg/adapters/ocr"
	"github.com/aretw0/spire/pkg/adapters/redis"
	"github.com/aretw0/spire/pkg/domain"
	"github.com/aretw0/spire/pkg/knowledge"
)

// Probes are the host facilities a readiness check inspects.
type Probes struct {
	Displays       []domain.Display
	OpenRecognizer func(language string) (io.Closer, error)
}

// HostProbes inspects the real desktop and Tesseract install.
func HostProbes() Probes {
	return Probes{
		Displays: desktop.Displays(),
		OpenRecognizer: func(language string) (io.Closer, error) {
			return ocr.New(language)
		},
	}
}

// Checks verifies everything a run depends on without touching the game.
func Checks(ctx context.Context, cfg config.Config, probes Probes) []tui.Check {
	checks := []tui.Check{
		checkDisplay(cfg.Display, probes.Displays),
		checkPrompts(cfg.PromptsFile),
		checkKnowledge(cfg.KnowledgeFile),
		checkRecognizer(cfg.Recognizer.Language, probes.OpenRecognizer),
		checkReasoner(cfg.Reasoner),
		checkMemoryReader(cfg.Memory.Command, cfg.Memory.Dir),
	}
	if cfg.Scratch.Backend == "redis" || cfg.Chat.Backend == "redis" {
		checks = append(checks, checkRedis(ctx, cfg.Redis))
	}
	return checks
}

func checkDisplay(index int, displays []domain.Display) tui.Check {
	c := tui.Check{Name: "Display"}
	for _, d := range displays {
		if d.Index == index {
			c.OK = d.Width > 0 && d.Height > 0
			c.Detail = d.String()
			return c
		}
	}
	c.Detail = fmt.Sprintf("display %d of %d not found", index, len(displays))
	return c
}

func checkPrompts(path string) tui.Check {
	c := tui.Check{Name: "Prompts"}
	prompts, err := knowledge.LoadPrompts(path)
	if err != nil {
		c.Detail = err.Error()
		return c
	}
	c.OK = len(prompts) > 0
	c.Detail = fmt.Sprintf("%d templates in %s", len(prompts), path)
	return c
}

func checkKnowledge(path string) tui.Check {
	c := tui.Check{Name: "Knowledge"}
	kb, err := knowledge.LoadKnowledge(path)
	if err != nil {
		c.Detail = err.Error()
		return c
	}
	c.OK = true
	c.Detail = fmt.Sprintf("%d categories in %s", len(kb), path)
	return c
}

func checkRecognizer(language string, open func(string) (io.Closer, error)) tui.Check {
	c := tui.Check{Name: "OCR"}
	if open == nil {
		c.Detail = "no recognizer available"
		return c
	}
	r, err := open(language)
	if err != nil {
		c.Detail = err.Error()
		return c
	}
	_ = r.Close()
	c.OK = true
	c.Detail = "tesseract " + language
	return c
}

func checkReasoner(cfg config.ReasonerConfig) tui.Check {
	c := tui.Check{Name: "Reasoner", OK: true}
	if cfg.Provider == "mock" {
		c.Detail = "offline mock"
		return c
	}
	c.Detail = fmt.Sprintf("%s at %s", cfg.Model, cfg.BaseURL)
	if cfg.Key() == "" {
		c.OK = false
		c.Detail = fmt.Sprintf("no API key, set reasoner.api_key or %s", cfg.APIKeyEnv)
	}
	return c
}

func checkMemoryReader(command, dir string) tui.Check {
	c := tui.Check{Name: "Memory reader"}
	if command == "" {
		c.Detail = "memory.command is empty"
		return c
	}
	candidate := command
	if dir != "" && !filepath.IsAbs(command) && filepath.Base(command) == command {
		if p := filepath.Join(dir, command); fileExists(p) {
			candidate = p
		}
	}
	path, err := exec.LookPath(candidate)
	if err != nil {
		c.Detail = err.Error()
		return c
	}
	c.OK = true
	c.Detail = path
	return c
}

func checkRedis(ctx context.Context, cfg config.RedisConfig) tui.Check {
	c := tui.Check{Name: "Redis"}
	client := redis.NewClient(cfg.Addr, cfg.Password, cfg.DB)
	defer client.Close()

	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		c.Detail = err.Error()
		return c
	}
	c.OK = true
	c.Detail = cfg.Addr
	return c
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
