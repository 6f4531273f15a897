package http_test

import (
	"bufio"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	spirehttp "github.com/aretw0/spire/pkg/adapters/http"
	"github.com/aretw0/spire/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubAgent struct {
	status    domain.Status
	histories map[domain.Topic][]domain.Message
}

func (a *stubAgent) Status() domain.Status { return a.status }

func (a *stubAgent) History(topic domain.Topic) ([]domain.Message, error) {
	if !topic.Valid() {
		return nil, domain.ErrUnknownTopic
	}
	return a.histories[topic], nil
}

func newAgent() *stubAgent {
	return &stubAgent{
		status: domain.Status{
			RunID:        "run-1",
			State:        domain.KindShop,
			Ticks:        42,
			SelectedNode: &domain.SelectedNode{Index: 2, Text: "商店"},
		},
		histories: map[domain.Topic][]domain.Message{
			domain.TopicMap: {{Role: domain.RoleUser, Content: "选择"}},
		},
	}
}

func get(t *testing.T, h http.Handler, path string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	return rec
}

func TestHandler(t *testing.T) {
	t.Run("Health", func(t *testing.T) {
		rec := get(t, spirehttp.NewHandler(newAgent(), spirehttp.WithVersion("0.3.0\n")), "/healthz")
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, `{"status":"ok","version":"0.3.0"}`, rec.Body.String())
	})

	t.Run("Status", func(t *testing.T) {
		rec := get(t, spirehttp.NewHandler(newAgent()), "/status")
		require.Equal(t, http.StatusOK, rec.Code)

		var got domain.Status
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
		assert.Equal(t, domain.KindShop, got.State)
		assert.Equal(t, uint64(42), got.Ticks)
		require.NotNil(t, got.SelectedNode)
		assert.Equal(t, "商店", got.SelectedNode.Text)
	})

	t.Run("History", func(t *testing.T) {
		h := spirehttp.NewHandler(newAgent())

		rec := get(t, h, "/history/map")
		require.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, `[{"role":"user","content":"选择"}]`, rec.Body.String())

		rec = get(t, h, "/history/combat")
		require.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, `[]`, rec.Body.String())

		rec = get(t, h, "/history/shop")
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("Metrics Only When Mounted", func(t *testing.T) {
		assert.Equal(t, http.StatusNotFound, get(t, spirehttp.NewHandler(newAgent()), "/metrics").Code)

		metrics := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte("spire_up 1\n"))
		})
		rec := get(t, spirehttp.NewHandler(newAgent(), spirehttp.WithMetrics(metrics)), "/metrics")
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "spire_up 1\n", rec.Body.String())
	})

	t.Run("Graph Marks Current State", func(t *testing.T) {
		assert.Equal(t, http.StatusNotFound, get(t, spirehttp.NewHandler(newAgent()), "/graph").Code)

		render := func(current domain.StateKind) string {
			return "graph TD\n    class " + string(current) + " current;\n"
		}
		rec := get(t, spirehttp.NewHandler(newAgent(), spirehttp.WithDiagram(render)), "/graph")
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Header().Get("Content-Type"), "text/plain")
		assert.Contains(t, rec.Body.String(), "class shop current;")
	})
}

func TestSubscribeEvents(t *testing.T) {
	streams := spirehttp.NewStreamManager(nil)
	srv := httptest.NewServer(spirehttp.NewHandler(newAgent(), spirehttp.WithStreams(streams)))
	t.Cleanup(srv.Close)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, srv.URL+"/events?types=state_enter,chat", nil)
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, "text/event-stream", resp.Header.Get("Content-Type"))

	lines := bufio.NewScanner(resp.Body)
	readEvent := func() (string, string) {
		var event, data string
		for lines.Scan() {
			line := lines.Text()
			switch {
			case strings.HasPrefix(line, "event: "):
				event = strings.TrimPrefix(line, "event: ")
			case strings.HasPrefix(line, "data: "):
				data = strings.TrimPrefix(line, "data: ")
			case line == "":
				return event, data
			}
		}
		return event, data
	}

	event, _ := readEvent()
	require.Equal(t, "ping", event)

	hooks := streams.Hooks()
	hooks.OnStateLeave(ctx, &domain.StateEvent{EventBase: domain.EventBase{Type: domain.EventStateLeave}, State: domain.KindMapSelection})
	hooks.OnStateEnter(ctx, &domain.StateEvent{EventBase: domain.EventBase{Type: domain.EventStateEnter}, State: domain.KindCombat})

	event, data := readEvent()
	assert.Equal(t, "state_enter", event, "filtered events are skipped")
	assert.Contains(t, data, `"state":"combat"`)
}

func TestStreamManager(t *testing.T) {
	sm := spirehttp.NewStreamManager(nil)
	ch, cancel := sm.Subscribe()

	sm.Hooks().OnStepFault(context.Background(), &domain.FaultEvent{
		EventBase: domain.EventBase{Type: domain.EventStepFault},
		State:     domain.KindShop,
		Err:       domain.ErrNoData,
	})

	ev := <-ch
	assert.Equal(t, domain.EventStepFault, ev.Type)
	assert.Contains(t, ev.Data, `"error":"no data"`)

	cancel()
	_, open := <-ch
	assert.False(t, open)

	assert.NotPanics(t, func() { sm.Broadcast(spirehttp.Event{Type: domain.EventChat}) })
}
