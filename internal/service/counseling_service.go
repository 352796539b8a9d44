package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"maumjari-counsel-be/internal/dto"
	"maumjari-counsel-be/internal/pkg/logger"
	"maumjari-counsel-be/internal/repository/contract"
	"maumjari-counsel-be/pkg/counsel/emotion"
	"maumjari-counsel-be/pkg/counsel/persona"
	"maumjari-counsel-be/pkg/counsel/postprocess"
	"maumjari-counsel-be/pkg/counsel/prompt"
	"maumjari-counsel-be/pkg/counsel/session"
	"maumjari-counsel-be/pkg/counsel/stage"
	"maumjari-counsel-be/pkg/events"
	"maumjari-counsel-be/pkg/llm"
	"maumjari-counsel-be/pkg/rag"
	"maumjari-counsel-be/pkg/store"
)

const (
	DefaultSessionID = "default"
	ServiceName      = "Professional Counseling AI with Personas"

	FallbackReply = "죄송합니다. 조금 더 자세히 말씀해주실 수 있을까요?"
)

// ErrSessionNotFound is returned for analysis of an id that never chatted.
var ErrSessionNotFound = errors.New("session not found")

// Outcome tells callers whether the reply came from the model.
type Outcome int

const (
	OutcomeGenerated Outcome = iota
	OutcomeFallback
)

func (o Outcome) String() string {
	if o == OutcomeFallback {
		return "fallback"
	}
	return "generated"
}

type ChatResult struct {
	Outcome  Outcome
	Response *dto.ChatResponse
}

// KnowledgeSearcher is the retrieval the chat path needs; *rag.Retriever satisfies it.
type KnowledgeSearcher interface {
	Search(ctx context.Context, query string, cfg rag.Config) ([]store.Document, error)
}

type CounselingOptions struct {
	ReplayTurns int
	RAG         rag.Config
	ModelReady  bool
}

type ICounselingService interface {
	Chat(ctx context.Context, request *dto.ChatRequest) (*ChatResult, error)
	SessionAnalysis(ctx context.Context, sessionId string) (*dto.SessionAnalysisResponse, error)
	Personas(ctx context.Context) *dto.PersonasResponse
	Health(ctx context.Context) *dto.HealthResponse
}

type counselingService struct {
	sessions    *session.Manager
	history     contract.HistoryStore
	llmProvider llm.LLMProvider
	knowledge   KnowledgeSearcher
	publisher   IPublisherService
	logger      logger.ILogger
	opts        CounselingOptions
	now         func() time.Time
}

// NewCounselingService wires the chat path. knowledge may be nil when RAG is off.
func NewCounselingService(
	sessions contract.SessionStore,
	history contract.HistoryStore,
	llmProvider llm.LLMProvider,
	knowledge KnowledgeSearcher,
	publisher IPublisherService,
	log logger.ILogger,
	opts CounselingOptions,
) ICounselingService {
	if opts.ReplayTurns <= 0 {
		opts.ReplayTurns = prompt.DefaultReplayTurns
	}
	return &counselingService{
		sessions:    session.NewManager(sessions),
		history:     history,
		llmProvider: llmProvider,
		knowledge:   knowledge,
		publisher:   publisher,
		logger:      log,
		opts:        opts,
		now:         time.Now,
	}
}

func chatOptions() []llm.Option {
	return []llm.Option{
		llm.WithMaxTokens(150),
		llm.WithTemperature(0.7),
		llm.WithTopP(0.8),
		llm.WithTopK(50),
		llm.WithRepetitionPenalty(1.2),
	}
}

func (cs *counselingService) Chat(ctx context.Context, request *dto.ChatRequest) (*ChatResult, error) {
	sessionId := strings.TrimSpace(request.SessionId)
	if sessionId == "" {
		sessionId = DefaultSessionID
	}

	detected := emotion.Detect(request.Message)

	sess, err := cs.sessions.RecordTurn(ctx, sessionId, detected, request.Persona)
	if err != nil {
		return nil, fmt.Errorf("record turn for session %s: %w", sessionId, err)
	}
	current := persona.Resolve(string(sess.Persona))

	recent, err := cs.history.Recent(ctx, sessionId, cs.opts.ReplayTurns)
	if err != nil {
		return nil, fmt.Errorf("load history for session %s: %w", sessionId, err)
	}

	snippet, ragUsed := cs.knowledgeSnippet(ctx, request.Message)

	messages := prompt.Compose(prompt.Input{
		Session:   sess,
		Persona:   current,
		Message:   request.Message,
		Emotion:   detected,
		History:   recent,
		Knowledge: snippet,
		MaxTurns:  cs.opts.ReplayTurns,
	})

	raw, err := cs.llmProvider.Chat(ctx, messages, chatOptions()...)
	if err == nil && strings.TrimSpace(raw) == "" {
		err = llm.ErrEmptyCompletion
	}
	if err != nil {
		cs.logger.Error("CounselingService", "Generation failed, using fallback reply", map[string]interface{}{
			"session_id": sessionId,
			"turn_count": sess.TurnCount,
			"error":      err.Error(),
		})
		return cs.fallback(sess), nil
	}

	reply := postprocess.Clean(raw, current)
	now := cs.now()

	turn, err := cs.history.Append(ctx, sessionId, store.TurnRecord{
		Timestamp:       now,
		UserText:        request.Message,
		AssistantText:   reply,
		DetectedEmotion: detected,
		StageAtTime:     sess.Stage,
		RAGEnhanced:     ragUsed,
	})
	if err != nil {
		return nil, fmt.Errorf("append history for session %s: %w", sessionId, err)
	}

	cs.publishTurn(ctx, sessionId, turn, current)

	cs.logger.Info("CounselingService", "Turn completed", map[string]interface{}{
		"session_id":  sessionId,
		"stage":       sess.Stage.String(),
		"emotion":     detected,
		"turn_count":  sess.TurnCount,
		"persona":     string(current.Key),
		"rag_enabled": ragUsed,
	})

	return &ChatResult{
		Outcome: OutcomeGenerated,
		Response: &dto.ChatResponse{
			Response:         reply,
			SessionId:        sessionId,
			CounselingStage:  sess.Stage.String(),
			DetectedEmotion:  detected,
			TurnCount:        sess.TurnCount,
			StageDescription: stage.Describe(sess.Stage),
			RAGEnhanced:      ragUsed,
			Persona:          string(sess.Persona),
			PersonaName:      current.Name,
		},
	}, nil
}

// fallback keeps the already-counted turn but reports the canned reply.
func (cs *counselingService) fallback(sess *store.CounselingSession) *ChatResult {
	return &ChatResult{
		Outcome: OutcomeFallback,
		Response: &dto.ChatResponse{
			Response:         FallbackReply,
			SessionId:        sess.ID,
			CounselingStage:  stage.Initial.String(),
			DetectedEmotion:  emotion.Fallback,
			TurnCount:        sess.TurnCount,
			StageDescription: stage.Describe(stage.Initial),
			RAGEnhanced:      false,
			Persona:          string(sess.Persona),
			PersonaName:      persona.Resolve(string(persona.Default)).Name,
			Fallback:         true,
		},
	}
}

func (cs *counselingService) knowledgeSnippet(ctx context.Context, message string) (string, bool) {
	if cs.knowledge == nil {
		return "", false
	}
	docs, err := cs.knowledge.Search(ctx, message, cs.opts.RAG)
	if err != nil {
		cs.logger.Warn("CounselingService", "Knowledge search failed", map[string]interface{}{"error": err.Error()})
		return "", false
	}
	return rag.CounselingSnippet(docs)
}

func (cs *counselingService) publishTurn(ctx context.Context, sessionId string, turn store.TurnRecord, p persona.Persona) {
	if cs.publisher == nil {
		return
	}
	event := events.TurnRecorded{
		SessionID:       sessionId,
		Date:            turn.Timestamp.Format(time.DateOnly),
		UserMessage:     turn.UserText,
		AssistantReply:  turn.AssistantText,
		DetectedEmotion: turn.DetectedEmotion,
		Stage:           turn.StageAtTime.String(),
		Persona:         string(p.Key),
		TurnNumber:      turn.TurnNumber,
		RAGEnhanced:     turn.RAGEnhanced,
		OccurredAt:      turn.Timestamp,
	}
	if err := cs.publisher.Publish(ctx, event); err != nil {
		cs.logger.Warn("CounselingService", "Failed to publish turn event", map[string]interface{}{
			"session_id": sessionId,
			"error":      err.Error(),
		})
	}
}

func (cs *counselingService) SessionAnalysis(ctx context.Context, sessionId string) (*dto.SessionAnalysisResponse, error) {
	sess, err := cs.sessions.Find(ctx, sessionId)
	if err != nil {
		return nil, fmt.Errorf("find session %s: %w", sessionId, err)
	}
	if sess == nil {
		return nil, ErrSessionNotFound
	}

	turns, err := cs.history.All(ctx, sessionId)
	if err != nil {
		return nil, fmt.Errorf("load history for session %s: %w", sessionId, err)
	}

	var lastUpdate *string
	if len(turns) > 0 {
		ts := turns[len(turns)-1].Timestamp.Format(time.RFC3339)
		lastUpdate = &ts
	}

	return &dto.SessionAnalysisResponse{
		SessionId:          sessionId,
		TotalTurns:         sess.TurnCount,
		CurrentStage:       sess.Stage.String(),
		StageDescription:   stage.Describe(sess.Stage),
		IdentifiedEmotions: append([]string{}, sess.Emotions...),
		ConversationLength: len(turns),
		LastUpdate:         lastUpdate,
		Persona:            string(sess.Persona),
		PersonaName:        persona.Resolve(string(sess.Persona)).Name,
	}, nil
}

func (cs *counselingService) Personas(ctx context.Context) *dto.PersonasResponse {
	available := make(map[string]dto.PersonaInfo)
	for _, p := range persona.All() {
		available[string(p.Key)] = dto.PersonaInfo{
			Name:        p.Name,
			Description: p.Description,
			Style:       p.Style,
		}
	}
	return &dto.PersonasResponse{
		AvailablePersonas: available,
		DefaultPersona:    string(persona.Default),
	}
}

func (cs *counselingService) Health(ctx context.Context) *dto.HealthResponse {
	return &dto.HealthResponse{
		Status:      "ok",
		ModelLoaded: cs.opts.ModelReady,
		Service:     ServiceName,
	}
}
