package prompt

import (
	"fmt"
	"strings"

	"maumjari-counsel-be/pkg/counsel/persona"
	"maumjari-counsel-be/pkg/counsel/stage"
	"maumjari-counsel-be/pkg/llm"
	"maumjari-counsel-be/pkg/store"
)

// Input is everything the composer needs for one turn. Emotion detection
// and session mutation happen before Compose is called.
type Input struct {
	Session   *store.CounselingSession
	Persona   persona.Persona
	Message   string
	Emotion   string
	History   []store.TurnRecord
	Knowledge string
	// MaxTurns caps replayed history; zero means DefaultReplayTurns.
	MaxTurns int
}

// Compose returns the system message, the replayed history as user/assistant
// pairs (oldest first) and the new user message last.
func Compose(in Input) []llm.Message {
	history := recentTurns(in.History, in.MaxTurns)

	messages := make([]llm.Message, 0, 2+2*len(history))
	messages = append(messages, llm.Message{Role: llm.RoleSystem, Content: SystemPrompt(in)})
	for _, turn := range history {
		messages = append(messages,
			llm.Message{Role: llm.RoleUser, Content: turn.UserText},
			llm.Message{Role: llm.RoleAssistant, Content: turn.AssistantText},
		)
	}
	messages = append(messages, llm.Message{Role: llm.RoleUser, Content: in.Message})
	return messages
}

// SystemPrompt builds the base rules, persona block and stage block.
func SystemPrompt(in Input) string {
	var sb strings.Builder

	writePersona(&sb, in.Persona)

	current := stage.Initial
	var emotions []string
	if in.Session != nil {
		current = in.Session.Stage
		emotions = in.Session.Emotions
	}

	switch current {
	case stage.Initial:
		writeInitial(&sb, in.Persona)
	case stage.Exploration:
		writeExploration(&sb, in.Persona, in.Emotion)
	case stage.GoalSetting:
		writeGoalSetting(&sb, in.Persona, emotions)
	default:
		// intervention, and evaluation should it ever be reached
		writeIntervention(&sb, in.Persona, emotions)
	}

	writeKnowledge(&sb, in.Knowledge)

	return sb.String()
}

func recentTurns(history []store.TurnRecord, max int) []store.TurnRecord {
	if max <= 0 {
		max = DefaultReplayTurns
	}
	if len(history) > max {
		return history[len(history)-max:]
	}
	return history
}

func writePersona(sb *strings.Builder, p persona.Persona) {
	sb.WriteString(BaseCounselingPrompt)
	sb.WriteString("\n\n")
	sb.WriteString(p.PromptPrefix)
	sb.WriteString("\n\n")
	sb.WriteString(p.Style)
	sb.WriteString("\n\n")
}

func writeGuidelineHeader(sb *strings.Builder, p persona.Persona) {
	fmt.Fprintf(sb, "다음 지침을 따라 %s의 특성에 맞게 응답하세요:\n", p.Name)
}

func writeInitial(sb *strings.Builder, p persona.Persona) {
	writeGuidelineHeader(sb, p)
	sb.WriteString("- 사용자의 용기를 인정하고 격려\n")
	sb.WriteString("- 편안하고 안전한 분위기 조성\n")
	fmt.Fprintf(sb, "- %s의 특성을 살린 자연스러운 응답\n", p.Name)
	sb.WriteString("- 완전하고 자연스러운 문장으로 응답\n")
	sb.WriteString("- 절대로 사용자 역할을 하지 마세요\n")
	sb.WriteString("- 상담사 응답만 생성하세요")
}

func writeExploration(sb *strings.Builder, p persona.Persona, emotion string) {
	fmt.Fprintf(sb, "사용자가 느끼는 주요 감정: %s\n\n", emotion)
	writeGuidelineHeader(sb, p)
	sb.WriteString("- 사용자의 감정을 정확히 반영하고 공감\n")
	fmt.Fprintf(sb, "- %s의 접근 방식으로 탐색\n", p.Name)
	sb.WriteString("- 구체적이고 도움이 되는 질문으로 탐색\n")
	sb.WriteString("- 완전하고 자연스러운 문장으로 응답\n")
	sb.WriteString("- 절대로 사용자 역할을 하지 마세요\n")
	sb.WriteString("- 상담사 응답만 생성하세요")
}

func writeGoalSetting(sb *strings.Builder, p persona.Persona, emotions []string) {
	fmt.Fprintf(sb, "주요 감정들: %s\n\n", strings.Join(emotions, ", "))
	writeGuidelineHeader(sb, p)
	fmt.Fprintf(sb, "1. 현재 상황을 %s의 관점에서 요약\n", p.Name)
	sb.WriteString("2. 변화하고 싶은 부분 확인\n")
	fmt.Fprintf(sb, "3. %s의 접근법으로 목표 제시\n", p.Name)
	sb.WriteString("4. 절대로 사용자 역할을 하지 마세요\n")
	sb.WriteString("5. 상담사 응답만 생성하세요")
}

func writeIntervention(sb *strings.Builder, p persona.Persona, emotions []string) {
	fmt.Fprintf(sb, "주요 감정들: %s\n\n", strings.Join(emotions, ", "))
	writeGuidelineHeader(sb, p)
	fmt.Fprintf(sb, "1. %s의 접근법으로 개입 제공\n", p.Name)
	sb.WriteString("2. 페르소나에 맞는 대처 방법 제안\n")
	sb.WriteString("3. 구체적인 실천 방안\n")
	sb.WriteString("4. 절대로 사용자 역할을 하지 마세요\n")
	sb.WriteString("5. 상담사 응답만 생성하세요")
}

func writeKnowledge(sb *strings.Builder, knowledge string) {
	knowledge = strings.TrimSpace(knowledge)
	if knowledge == "" {
		return
	}
	sb.WriteString("\n\n참고할 상담 지식 (직접 인용하지 말고 자연스럽게 반영하세요):\n")
	sb.WriteString(knowledge)
}
