package testutils

import (
	"context"
	"errors"
	"strings"
	"sync"

	"github.com/aretw0/spire/pkg/domain"
)

// ErrReasoner is a canned reasoner failure.
var ErrReasoner = errors.New("reasoner offline")

// Call records one Generate invocation.
type Call struct {
	Prompt  string
	History []domain.Message
}

// Reasoner is a fake Reasoner answering from a queue; the last answer repeats.
// An answer equal to Fail makes the call return ErrReasoner.
type Reasoner struct {
	mu      sync.Mutex
	answers []string
	Calls   []Call
	// Route, when set, answers prompts containing a key with its value before the queue is used.
	Route map[string]string
}

// Fail is the answer that makes a scripted call fail.
const Fail = "\x00fail"

// Answer queues answers.
func (r *Reasoner) Answer(answers ...string) *Reasoner {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.answers = append(r.answers, answers...)
	return r
}

// Prompts returns every prompt received so far.
func (r *Reasoner) Prompts() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, len(r.Calls))
	for i, c := range r.Calls {
		out[i] = c.Prompt
	}
	return out
}

func (r *Reasoner) Generate(ctx context.Context, prompt string, history []domain.Message) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Calls = append(r.Calls, Call{Prompt: prompt, History: append([]domain.Message(nil), history...)})

	for key, answer := range r.Route {
		if strings.Contains(prompt, key) {
			return answer, nil
		}
	}
	if len(r.answers) == 0 {
		return "", ErrReasoner
	}
	answer := r.answers[0]
	if len(r.answers) > 1 {
		r.answers = r.answers[1:]
	}
	if answer == Fail {
		return "", ErrReasoner
	}
	return answer, nil
}
