package process

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os/exec"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/aretw0/spire/internal/logging"
	"github.com/aretw0/spire/pkg/domain"
)

// Reader implements ports.MemorySnapshot by running an executable that prints the game's
// memory as "key: value" lines.
type Reader struct {
	command string
	args    []string
	env     map[string]string
	baseDir string
	timeout time.Duration
	logger  *slog.Logger
}

// Option configures the reader.
type Option func(*Reader)

// WithArgs sets the arguments passed to the command.
func WithArgs(args ...string) Option {
	return func(r *Reader) {
		r.args = args
	}
}

// WithEnv adds variables to the command environment.
func WithEnv(env map[string]string) Option {
	return func(r *Reader) {
		r.env = env
	}
}

// WithBaseDir sets the working directory of the command.
func WithBaseDir(dir string) Option {
	return func(r *Reader) {
		r.baseDir = dir
	}
}

// WithTimeout bounds every read.
func WithTimeout(d time.Duration) Option {
	return func(r *Reader) {
		r.timeout = d
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Reader) {
		r.logger = logger
	}
}

// NewReader creates a reader for command.
func NewReader(command string, opts ...Option) *Reader {
	r := &Reader{
		command: command,
		timeout: DefaultTimeout,
		logger:  logging.NewNop(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Read runs the command once and parses its output.
// Any failure, including a timeout or an empty output, is reported as domain.ErrNoData.
func (r *Reader) Read(ctx context.Context) (domain.Snapshot, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, r.command, r.args...)
	cmd.Dir = r.baseDir
	// Children of the reader may hold the output pipes open after it is killed.
	killGroup(cmd)
	cmd.WaitDelay = waitDelay
	if len(r.env) > 0 {
		env := make([]string, 0, len(r.env))
		for k, v := range r.env {
			env = append(env, k+"="+v)
		}
		sort.Strings(env)
		cmd.Env = append(cmd.Environ(), env...)
	}

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	if stderr.Len() > 0 {
		r.logger.Warn("memory reader stderr", "stderr", strings.TrimSpace(stderr.String()))
	}
	if err != nil {
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return nil, fmt.Errorf("memory reader timed out after %s: %w", r.timeout, domain.ErrNoData)
		}
		// A failing reader still prints which stage failed.
		details := Parse(stdout.String())
		r.logger.Warn("memory reader failed", "err", err, "details", details.Summary(), "hint", failureHint(details))
		return nil, fmt.Errorf("memory reader: %v: %w", err, domain.ErrNoData)
	}

	snap := Parse(stdout.String())
	if len(snap) == 0 {
		return nil, fmt.Errorf("memory reader printed nothing: %w", domain.ErrNoData)
	}
	r.logger.Debug("memory snapshot read", "keys", len(snap))
	return snap, nil
}

// Parse reads "key: value" lines. Values that parse as integers are stored as int, the rest as
// trimmed strings. Lines without a colon are skipped.
func Parse(output string) domain.Snapshot {
	snap := domain.Snapshot{}
	for _, line := range strings.Split(output, "\n") {
		key, value, ok := strings.Cut(strings.TrimSpace(line), ":")
		if !ok {
			continue
		}
		key, value = strings.TrimSpace(key), strings.TrimSpace(value)
		if key == "" {
			continue
		}
		if n, err := strconv.Atoi(value); err == nil {
			snap[key] = n
			continue
		}
		snap[key] = value
	}
	return snap
}

func failureHint(details domain.Snapshot) string {
	switch {
	case details["init_error_window"] != nil:
		return "game window not found"
	case details["init_error_handle"] != nil:
		return "process handle denied, elevated rights may be required"
	}
	return ""
}
