package service

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"maumjari-counsel-be/internal/dto"
	"maumjari-counsel-be/internal/pkg/logger"
	"maumjari-counsel-be/internal/repository/memory"
	"maumjari-counsel-be/pkg/events"
	"maumjari-counsel-be/pkg/llm"
	"maumjari-counsel-be/pkg/llm/mock"
	"maumjari-counsel-be/pkg/rag"
	"maumjari-counsel-be/pkg/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingPublisher struct {
	mu     sync.Mutex
	events []events.Event
	err    error
}

func (p *recordingPublisher) Publish(ctx context.Context, event events.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.err != nil {
		return p.err
	}
	p.events = append(p.events, event)
	return nil
}

func (p *recordingPublisher) published() []events.Event {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]events.Event{}, p.events...)
}

type stubSearcher struct {
	docs  []store.Document
	err   error
	calls int
}

func (s *stubSearcher) Search(ctx context.Context, query string, cfg rag.Config) ([]store.Document, error) {
	s.calls++
	return s.docs, s.err
}

var fixedNow = time.Date(2026, 3, 2, 21, 30, 0, 0, time.UTC)

func newCounselingFixture(t *testing.T, provider llm.LLMProvider, knowledge KnowledgeSearcher) (ICounselingService, *recordingPublisher) {
	t.Helper()
	pub := &recordingPublisher{}
	svc := NewCounselingService(
		memory.NewSessionRepository(time.Hour, time.Minute),
		memory.NewHistoryRepository(time.Hour, time.Minute),
		provider,
		knowledge,
		pub,
		logger.NewNopLogger(),
		CounselingOptions{RAG: rag.DefaultConfig(), ModelReady: true},
	)
	svc.(*counselingService).now = func() time.Time { return fixedNow }
	return svc, pub
}

func chat(t *testing.T, svc ICounselingService, sessionId, message, personaKey string) *ChatResult {
	t.Helper()
	res, err := svc.Chat(context.Background(), &dto.ChatRequest{Message: message, SessionId: sessionId, Persona: personaKey})
	require.NoError(t, err)
	return res
}

func TestChatFirstTurn(t *testing.T) {
	provider := mock.NewProvider("<|im_start|>assistant\n오늘 정말 많이 우울하셨겠네요 [EOS]")
	svc, pub := newCounselingFixture(t, provider, nil)

	res := chat(t, svc, "s1", "오늘 너무 우울해요", "")

	assert.Equal(t, OutcomeGenerated, res.Outcome)
	assert.Equal(t, "오늘 정말 많이 우울하셨겠네요 마음이 많이 힘드시겠어요.", res.Response.Response)
	assert.Equal(t, "s1", res.Response.SessionId)
	assert.Equal(t, "initial", res.Response.CounselingStage)
	assert.Equal(t, "우울", res.Response.DetectedEmotion)
	assert.Equal(t, 1, res.Response.TurnCount)
	assert.Equal(t, "empathetic", res.Response.Persona)
	assert.Equal(t, "공감형 상담사", res.Response.PersonaName)
	assert.False(t, res.Response.RAGEnhanced)
	assert.False(t, res.Response.Fallback)

	published := pub.published()
	require.Len(t, published, 1)
	turn, ok := published[0].(events.TurnRecorded)
	require.True(t, ok)
	assert.Equal(t, "s1", turn.SessionID)
	assert.Equal(t, "2026-03-02", turn.Date)
	assert.Equal(t, "오늘 너무 우울해요", turn.UserMessage)
	assert.Equal(t, res.Response.Response, turn.AssistantReply)
	assert.Equal(t, 1, turn.TurnNumber)
	assert.Equal(t, "initial", turn.Stage)
}

func TestChatDefaultsSessionID(t *testing.T) {
	svc, _ := newCounselingFixture(t, mock.NewProvider(), nil)

	res := chat(t, svc, "  ", "안녕하세요", "")
	assert.Equal(t, DefaultSessionID, res.Response.SessionId)
}

func TestChatThirdTurnReachesExplorationAndReplaysHistory(t *testing.T) {
	provider := mock.NewProvider()
	svc, _ := newCounselingFixture(t, provider, nil)

	chat(t, svc, "s1", "요즘 잠을 잘 못 자요", "")
	chat(t, svc, "s1", "회사 일이 많아서 불안해요", "")
	res := chat(t, svc, "s1", "어떻게 해야 할지 모르겠어요", "")

	assert.Equal(t, "exploration", res.Response.CounselingStage)
	assert.Equal(t, 3, res.Response.TurnCount)

	messages := provider.LastCall()
	require.Len(t, messages, 6) // system + two replayed pairs + current
	assert.Equal(t, llm.RoleSystem, messages[0].Role)
	assert.Equal(t, "요즘 잠을 잘 못 자요", messages[1].Content)
	assert.Equal(t, "어떻게 해야 할지 모르겠어요", messages[5].Content)
}

func TestChatFallbackKeepsTurnCount(t *testing.T) {
	provider := mock.NewProvider()
	provider.SetError(errors.New("connection refused"))
	svc, pub := newCounselingFixture(t, provider, nil)

	res := chat(t, svc, "s1", "너무 화가 나요", "analytical")

	assert.Equal(t, OutcomeFallback, res.Outcome)
	assert.Equal(t, FallbackReply, res.Response.Response)
	assert.True(t, res.Response.Fallback)
	assert.Equal(t, 1, res.Response.TurnCount)
	assert.Equal(t, "initial", res.Response.CounselingStage)
	assert.Equal(t, "혼란스러운", res.Response.DetectedEmotion)
	assert.Equal(t, "analytical", res.Response.Persona)
	assert.Equal(t, "공감형 상담사", res.Response.PersonaName)
	assert.Empty(t, pub.published())

	analysis, err := svc.SessionAnalysis(context.Background(), "s1")
	require.NoError(t, err)
	assert.Equal(t, 1, analysis.TotalTurns)
	assert.Equal(t, 0, analysis.ConversationLength)
	assert.Nil(t, analysis.LastUpdate)
}

func TestChatBlankCompletionFallsBack(t *testing.T) {
	svc, _ := newCounselingFixture(t, mock.NewProvider("   "), nil)

	res := chat(t, svc, "s1", "괜찮아요", "")
	assert.Equal(t, OutcomeFallback, res.Outcome)
}

func TestChatPersonaIsSticky(t *testing.T) {
	svc, _ := newCounselingFixture(t, mock.NewProvider(), nil)

	first := chat(t, svc, "s1", "시험 준비가 걱정돼요", "analytical")
	assert.Equal(t, "analytical", first.Response.Persona)
	assert.Equal(t, "분석형 상담사", first.Response.PersonaName)

	second := chat(t, svc, "s1", "계획을 세워보고 싶어요", "")
	assert.Equal(t, "analytical", second.Response.Persona)

	third := chat(t, svc, "s1", "다른 방법도 있을까요", "robot")
	assert.Equal(t, "analytical", third.Response.Persona)

	fourth := chat(t, svc, "s1", "조금 지쳤어요", "gentle")
	assert.Equal(t, "gentle", fourth.Response.Persona)
	assert.Equal(t, "부드러운 상담사", fourth.Response.PersonaName)
}

func TestChatUsesKnowledgeSnippet(t *testing.T) {
	provider := mock.NewProvider()
	searcher := &stubSearcher{docs: []store.Document{{
		Source:  "guide.md",
		Content: "불안한 감정이 올라올 때는 호흡에 집중하는 대처 방법이 도움이 됩니다. 천천히 숨을 들이쉬고 내쉬면서 몸의 긴장을 알아차리는 연습을 해보세요.",
	}}}
	svc, pub := newCounselingFixture(t, provider, searcher)

	res := chat(t, svc, "s1", "불안해서 숨이 막혀요", "")

	assert.True(t, res.Response.RAGEnhanced)
	assert.Equal(t, 1, searcher.calls)
	system := provider.LastCall()[0].Content
	assert.True(t, strings.Contains(system, "참고할 상담 지식"))
	assert.True(t, strings.Contains(system, "호흡에 집중하는"))

	turn := pub.published()[0].(events.TurnRecorded)
	assert.True(t, turn.RAGEnhanced)
}

func TestChatKnowledgeFailureIsNotFatal(t *testing.T) {
	searcher := &stubSearcher{err: errors.New("vector store down")}
	svc, _ := newCounselingFixture(t, mock.NewProvider(), searcher)

	res := chat(t, svc, "s1", "요즘 힘들어요", "")
	assert.Equal(t, OutcomeGenerated, res.Outcome)
	assert.False(t, res.Response.RAGEnhanced)
}

func TestChatPublishFailureIsNotFatal(t *testing.T) {
	svc, pub := newCounselingFixture(t, mock.NewProvider(), nil)
	pub.err = errors.New("bus closed")

	res := chat(t, svc, "s1", "요즘 힘들어요", "")
	assert.Equal(t, OutcomeGenerated, res.Outcome)
}

func TestSessionAnalysis(t *testing.T) {
	svc, _ := newCounselingFixture(t, mock.NewProvider(), nil)

	_, err := svc.SessionAnalysis(context.Background(), "ghost")
	assert.ErrorIs(t, err, ErrSessionNotFound)

	chat(t, svc, "s1", "오늘 너무 우울해요", "supportive")
	chat(t, svc, "s1", "불안하기도 해요", "")

	analysis, err := svc.SessionAnalysis(context.Background(), "s1")
	require.NoError(t, err)
	assert.Equal(t, "s1", analysis.SessionId)
	assert.Equal(t, 2, analysis.TotalTurns)
	assert.Equal(t, 2, analysis.ConversationLength)
	assert.Equal(t, "initial", analysis.CurrentStage)
	assert.Equal(t, []string{"우울", "불안"}, analysis.IdentifiedEmotions)
	assert.Equal(t, "supportive", analysis.Persona)
	assert.Equal(t, "지지형 상담사", analysis.PersonaName)
	require.NotNil(t, analysis.LastUpdate)
	assert.Equal(t, fixedNow.Format(time.RFC3339), *analysis.LastUpdate)
}

func TestPersonasAndHealth(t *testing.T) {
	svc, _ := newCounselingFixture(t, mock.NewProvider(), nil)

	personas := svc.Personas(context.Background())
	assert.Len(t, personas.AvailablePersonas, 5)
	assert.Equal(t, "empathetic", personas.DefaultPersona)
	assert.Equal(t, "실용형 상담사", personas.AvailablePersonas["practical"].Name)

	health := svc.Health(context.Background())
	assert.Equal(t, "ok", health.Status)
	assert.True(t, health.ModelLoaded)
	assert.Equal(t, ServiceName, health.Service)
}
