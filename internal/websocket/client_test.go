package websocket

import (
	"context"
	"encoding/json"
	"sync"
	"testing"
	"time"

	"maumjari-counsel-be/internal/dto"
	"maumjari-counsel-be/internal/pkg/logger"
	"maumjari-counsel-be/internal/repository/memory"
	"maumjari-counsel-be/internal/service"
	"maumjari-counsel-be/pkg/events"
	"maumjari-counsel-be/pkg/llm"
	"maumjari-counsel-be/pkg/rag"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// slowProvider holds every generation until release is closed or the
// caller's context ends.
type slowProvider struct {
	started chan struct{}
	release chan struct{}

	mu      sync.Mutex
	ctxErrs []error
}

func newSlowProvider() *slowProvider {
	return &slowProvider{started: make(chan struct{}, 16), release: make(chan struct{})}
}

func (p *slowProvider) Chat(ctx context.Context, history []llm.Message, options ...llm.Option) (string, error) {
	p.started <- struct{}{}
	select {
	case <-p.release:
		return "천천히 이야기해 주셔서 고마워요", nil
	case <-ctx.Done():
		p.mu.Lock()
		p.ctxErrs = append(p.ctxErrs, ctx.Err())
		p.mu.Unlock()
		return "", ctx.Err()
	}
}

func (p *slowProvider) Generate(ctx context.Context, prompt string, options ...llm.Option) (string, error) {
	return p.Chat(ctx, nil, options...)
}

func (p *slowProvider) cancelled() []error {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]error{}, p.ctxErrs...)
}

type nopPublisher struct{}

func (nopPublisher) Publish(ctx context.Context, event events.Event) error { return nil }

type turnFixture struct {
	client   *Client
	provider *slowProvider
	svc      service.ICounselingService
	turns    chan *dto.ChatRequest
	cancel   context.CancelFunc
	served   chan struct{}
}

func newTurnFixture(t *testing.T) *turnFixture {
	t.Helper()
	hub := startHub(t)
	provider := newSlowProvider()
	svc := service.NewCounselingService(
		memory.NewSessionRepository(time.Hour, time.Minute),
		memory.NewHistoryRepository(time.Hour, time.Minute),
		provider,
		nil,
		nopPublisher{},
		logger.NewNopLogger(),
		service.CounselingOptions{RAG: rag.DefaultConfig(), ModelReady: true},
	)
	handler := NewChatHandler(hub, svc, logger.NewNopLogger())

	client := NewClient(hub, nil, "s1")
	require.True(t, hub.Register(client))

	ctx, cancel := context.WithCancel(context.Background())
	f := &turnFixture{
		client:   client,
		provider: provider,
		svc:      svc,
		turns:    make(chan *dto.ChatRequest, turnQueue),
		cancel:   cancel,
		served:   make(chan struct{}),
	}
	go func() {
		defer close(f.served)
		client.serveTurns(ctx, handler.Chat, f.turns)
	}()
	return f
}

// stop does what readPump does when the socket goes away.
func (f *turnFixture) stop(t *testing.T) {
	t.Helper()
	f.cancel()
	close(f.turns)
	select {
	case <-f.served:
	case <-time.After(time.Second):
		t.Fatal("turn loop did not stop")
	}
}

func waitStarted(t *testing.T, p *slowProvider) {
	t.Helper()
	select {
	case <-p.started:
	case <-time.After(time.Second):
		t.Fatal("generation never started")
	}
}

func TestSlowTurnDoesNotBlockFrames(t *testing.T) {
	f := newTurnFixture(t)

	f.client.dispatch(f.turns, &dto.ChatRequest{Message: "요즘 잠을 잘 못 자요", SessionId: "other"})
	waitStarted(t, f.provider)

	// The generation is still running; further frames are queued without blocking.
	for i := 0; i < turnQueue; i++ {
		f.client.dispatch(f.turns, &dto.ChatRequest{Message: "계속 생각이 많아져요"})
	}
	f.client.dispatch(f.turns, &dto.ChatRequest{Message: "한 번 더요"})
	assert.JSONEq(t, `{"error":"`+MessageTurnQueueFull+`"}`, string(receive(t, f.client)))

	close(f.provider.release)
	for want := 1; want <= turnQueue+1; want++ {
		var res dto.ChatResponse
		require.NoError(t, json.Unmarshal(receive(t, f.client), &res))
		assert.Equal(t, "s1", res.SessionId)
		assert.Equal(t, want, res.TurnCount)
		assert.False(t, res.Fallback)
	}

	f.stop(t)
	assert.Empty(t, f.provider.cancelled())
}

func TestDisconnectCancelsInFlightTurn(t *testing.T) {
	f := newTurnFixture(t)

	f.client.dispatch(f.turns, &dto.ChatRequest{Message: "오늘 너무 우울해요"})
	waitStarted(t, f.provider)
	f.client.dispatch(f.turns, &dto.ChatRequest{Message: "아직 대기 중인 메시지"})

	f.stop(t)

	assert.Equal(t, []error{context.Canceled}, f.provider.cancelled())
	assert.Empty(t, f.provider.started, "queued turn must not run after disconnect")

	analysis, err := f.svc.SessionAnalysis(context.Background(), "s1")
	require.NoError(t, err)
	assert.Equal(t, 1, analysis.TotalTurns)
	assert.Equal(t, 0, analysis.ConversationLength)
}
