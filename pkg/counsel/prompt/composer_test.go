package prompt

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"maumjari-counsel-be/pkg/counsel/persona"
	"maumjari-counsel-be/pkg/counsel/stage"
	"maumjari-counsel-be/pkg/llm"
	"maumjari-counsel-be/pkg/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sessionAt(s stage.Stage, emotions ...string) *store.CounselingSession {
	rec := store.NewCounselingSession("s1", time.Now())
	rec.Stage = s
	rec.Emotions = emotions
	return rec
}

func turns(n int) []store.TurnRecord {
	out := make([]store.TurnRecord, n)
	for i := range out {
		out[i] = store.TurnRecord{
			UserText:      fmt.Sprintf("user-%d", i+1),
			AssistantText: fmt.Sprintf("assistant-%d", i+1),
			TurnNumber:    i + 1,
		}
	}
	return out
}

func TestComposeOrdering(t *testing.T) {
	msgs := Compose(Input{
		Session: sessionAt(stage.Initial),
		Persona: persona.Resolve("empathetic"),
		Message: "오늘 너무 우울해요",
		Emotion: "우울",
		History: turns(5),
	})

	// system + 3 replayed pairs + new message
	require.Len(t, msgs, 8)
	assert.Equal(t, llm.RoleSystem, msgs[0].Role)
	assert.Equal(t, "user-3", msgs[1].Content)
	assert.Equal(t, "assistant-3", msgs[2].Content)
	assert.Equal(t, llm.RoleAssistant, msgs[6].Role)
	assert.Equal(t, "assistant-5", msgs[6].Content)
	assert.Equal(t, llm.Message{Role: llm.RoleUser, Content: "오늘 너무 우울해요"}, msgs[7])
}

func TestComposeWithoutHistory(t *testing.T) {
	msgs := Compose(Input{Session: sessionAt(stage.Initial), Persona: persona.Resolve(""), Message: "hi"})
	require.Len(t, msgs, 2)
	assert.Equal(t, llm.RoleSystem, msgs[0].Role)
	assert.Equal(t, "hi", msgs[1].Content)
}

func TestComposeMaxTurns(t *testing.T) {
	msgs := Compose(Input{Session: sessionAt(stage.Initial), Persona: persona.Resolve(""), Message: "hi", History: turns(4), MaxTurns: 1})
	require.Len(t, msgs, 4)
	assert.Equal(t, "user-4", msgs[1].Content)
}

func TestSystemPromptStageBranches(t *testing.T) {
	p := persona.Resolve("analytical")

	initial := SystemPrompt(Input{Session: sessionAt(stage.Initial), Persona: p, Emotion: "우울"})
	assert.True(t, strings.HasPrefix(initial, BaseCounselingPrompt+"\n\n"+p.PromptPrefix+"\n\n"+p.Style))
	assert.Contains(t, initial, "- 사용자의 용기를 인정하고 격려")
	assert.Contains(t, initial, "다음 지침을 따라 분석형 상담사의 특성에 맞게 응답하세요:")
	assert.NotContains(t, initial, "주요 감정")

	exploration := SystemPrompt(Input{Session: sessionAt(stage.Exploration, "우울", "불안"), Persona: p, Emotion: "불안"})
	assert.Contains(t, exploration, "사용자가 느끼는 주요 감정: 불안")
	assert.Contains(t, exploration, "- 분석형 상담사의 접근 방식으로 탐색")

	goal := SystemPrompt(Input{Session: sessionAt(stage.GoalSetting, "우울", "불안"), Persona: p})
	assert.Contains(t, goal, "주요 감정들: 우울, 불안")
	assert.Contains(t, goal, "3. 분석형 상담사의 접근법으로 목표 제시")

	intervention := SystemPrompt(Input{Session: sessionAt(stage.Intervention, "분노"), Persona: p})
	assert.Contains(t, intervention, "주요 감정들: 분노")
	assert.Contains(t, intervention, "1. 분석형 상담사의 접근법으로 개입 제공")

	// evaluation falls into the intervention-style block
	evaluation := SystemPrompt(Input{Session: sessionAt(stage.Evaluation, "분노"), Persona: p})
	assert.Equal(t, intervention, evaluation)
}

func TestSystemPromptKnowledge(t *testing.T) {
	p := persona.Resolve("gentle")
	out := SystemPrompt(Input{Session: sessionAt(stage.Initial), Persona: p, Knowledge: "  호흡 조절은 불안 완화에 도움이 됩니다.  "})
	assert.True(t, strings.HasSuffix(out, "\n호흡 조절은 불안 완화에 도움이 됩니다."))

	plain := SystemPrompt(Input{Session: sessionAt(stage.Initial), Persona: p, Knowledge: "   "})
	assert.NotContains(t, plain, "참고할 상담 지식")
}
