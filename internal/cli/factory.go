package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/aretw0/spire"
	"github.com/aretw0/spire/internal/config"
	"github.com/aretw0/spire/pkg/adapters/desktop"
	"github.com/aretw0/spire/pkg/adapters/file"
	httpAdapter "github.com/aretw0/spire/pkg/adapters/http"
	"github.com/aretw0/spire/pkg/adapters/memory"
	"github.com/aretw0/spire/pkg/adapters/ocr"
	"github.com/aretw0/spire/pkg/adapters/process"
	"github.com/aretw0/spire/pkg/adapters/reasoner"
	"github.com/aretw0/spire/pkg/adapters/redis"
	"github.com/aretw0/spire/pkg/knowledge"
	"github.com/aretw0/spire/pkg/observability"
	"github.com/aretw0/spire/pkg/ports"
	backend "github.com/redis/go-redis/v9"
)

// Stack is a fully wired agent plus the pieces the commands expose around it.
type Stack struct {
	Agent   *spire.Agent
	Metrics *observability.Metrics
	Streams *httpAdapter.StreamManager

	closers []io.Closer
}

// Close releases the recognizer and any Redis connection.
func (s *Stack) Close() error {
	var errs []error
	for i := len(s.closers) - 1; i >= 0; i-- {
		errs = append(errs, s.closers[i].Close())
	}
	return errors.Join(errs...)
}

// display is a monitor the agent both watches and drives.
type display interface {
	ports.FrameSource
	ports.InputActuator
}

type recognizer interface {
	ports.TextRecognizer
	io.Closer
}

var (
	openDisplay = func(index int, logger *slog.Logger) (display, error) {
		d, err := desktop.Open(index, desktop.WithLogger(logger))
		if err != nil {
			return nil, err
		}
		return d, nil
	}
	openRecognizer = func(language string, logger *slog.Logger) (recognizer, error) {
		r, err := ocr.New(language, ocr.WithLogger(logger))
		if err != nil {
			return nil, err
		}
		return r, nil
	}
)

// Build opens the configured display and wires every adapter into an agent.
// Failing to open the display is fatal; the other adapters degrade at run time.
func Build(ctx context.Context, cfg config.Config, logger *slog.Logger) (*Stack, error) {
	desk, err := openDisplay(cfg.Display, logger)
	if err != nil {
		return nil, fmt.Errorf("open display %d: %w", cfg.Display, err)
	}

	s := &Stack{
		Metrics: observability.NewMetrics(),
		Streams: httpAdapter.NewStreamManager(logger),
	}

	var text ports.TextRecognizer
	if r, err := openRecognizer(cfg.Recognizer.Language, logger); err != nil {
		logger.Warn("recognizer unavailable, perception will return nothing", "language", cfg.Recognizer.Language, "err", err)
	} else {
		text = r
		s.closers = append(s.closers, r)
	}

	p := spire.Ports{
		Frames:     desk,
		Actuator:   desk,
		Recognizer: text,
		Reasoner:   newReasoner(cfg.Reasoner, logger),
		Memory:     process.NewReader(cfg.Memory.Command, append(cfg.Memory.Options(), process.WithLogger(logger))...),
	}

	var client *backend.Client
	if cfg.Scratch.Backend == "redis" || cfg.Chat.Backend == "redis" {
		client = redis.NewClient(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		s.closers = append(s.closers, client)
		if err := client.Ping(ctx).Err(); err != nil {
			logger.Warn("redis unreachable, scratch and chat may fail", "addr", cfg.Redis.Addr, "err", err)
		}
	}
	p.Scratch = newScratch(cfg, client)
	p.Chat = newChat(cfg.Chat, client)

	agent, err := spire.New(
		spire.WithPorts(p),
		spire.WithKnowledge(knowledge.Load(cfg.PromptsFile, cfg.KnowledgeFile, knowledge.WithLogger(logger))),
		spire.WithLogger(logger),
		spire.WithLifecycleHooks(s.Metrics.Hooks()),
		spire.WithLifecycleHooks(s.Streams.Hooks()),
		spire.WithReasonerTimeout(cfg.Reasoner.Timeout),
		spire.WithRecognizerTimeout(cfg.Recognizer.Timeout),
		spire.WithDebugDir(cfg.Debug.CaptureDir),
	)
	if err != nil {
		_ = s.Close()
		return nil, err
	}
	s.Agent = agent
	return s, nil
}

// newReasoner picks the offline mock for the "mock" provider or the local-mock model name.
func newReasoner(cfg config.ReasonerConfig, logger *slog.Logger) ports.Reasoner {
	if cfg.Provider == "mock" || cfg.Model == reasoner.MockModel {
		logger.Info("using offline mock reasoner")
		return reasoner.NewMock()
	}
	if cfg.Key() == "" {
		logger.Warn("no reasoner API key configured", "env", cfg.APIKeyEnv)
	}
	return reasoner.NewOpenAI(cfg.Key(),
		reasoner.WithBaseURL(cfg.BaseURL),
		reasoner.WithModel(cfg.Model),
		reasoner.WithMaxTokens(cfg.MaxTokens),
		reasoner.WithTemperature(cfg.Temperature),
		reasoner.WithLogger(logger),
	)
}

func newScratch(cfg config.Config, client *backend.Client) ports.ScratchStore {
	switch {
	case cfg.Scratch.Backend == "redis" && client != nil:
		return redis.NewFromClient(client, redis.WithPrefix(cfg.Redis.Prefix), redis.WithTTL(cfg.Scratch.TTL))
	case cfg.Scratch.Backend == "file":
		return file.New(cfg.Scratch.Dir)
	}
	return memory.NewStore()
}

// newChat returns nil for the log backend; the session then logs chat lines itself.
func newChat(cfg config.ChatConfig, client *backend.Client) ports.ChatSink {
	if cfg.Backend == "redis" && client != nil {
		return redis.NewChatSink(client, cfg.Channel)
	}
	return nil
}
