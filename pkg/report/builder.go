package report

import (
	"fmt"
	"regexp"
	"strings"
)

const (
	sectionState        = "📊 정서상태 분석"
	sectionIssues       = "🎯 주요 이슈"
	sectionIntervention = "💡 치료적 개입점"
	sectionPlan         = "📋 실행계획"

	formatMarker = "다음 형식으로 정확히 작성하세요:"
)

var (
	metaTextRes = []*regexp.Regexp{
		regexp.MustCompile(`(?s)【[^】]*】[^#]*`),
		regexp.MustCompile(`당신은 전문 임상심리사입니다[^#]*`),
		regexp.MustCompile(`리포트 작성 지침[^#]*`),
		regexp.MustCompile(`분석 정보[^#]*`),
		regexp.MustCompile(`상담 내용[^#]*`),
	}
	headerRes = []struct {
		re   *regexp.Regexp
		repl string
	}{
		{regexp.MustCompile(`#+\s*📊\s*정서상태[^#]*`), sectionState},
		{regexp.MustCompile(`#+\s*🎯\s*주요\s*이슈[^#]*`), sectionIssues},
		{regexp.MustCompile(`#+\s*💡\s*치료[^#]*`), sectionIntervention},
		{regexp.MustCompile(`#+\s*📋\s*실행[^#]*`), sectionPlan},
	}
	blankLinesRe = regexp.MustCompile(`\n{3,}`)
)

// Prompt builds the clinical report instruction for the model.
func Prompt(state PsychologicalState, transcript string, chatCount int) string {
	var sb strings.Builder
	sb.WriteString("당신은 전문 임상심리사입니다. 다음 지침에 따라 객관적이고 전문적인 상담 리포트를 작성해주세요:\n\n")
	sb.WriteString("【리포트 작성 지침】\n")
	sb.WriteString("1. 전문적이고 신뢰감 있는 말투 사용\n")
	sb.WriteString("2. 각 섹션당 2-3문장으로 간결하게 작성\n")
	sb.WriteString("3. 객관적 관찰과 분석 중심\n")
	sb.WriteString("4. 구체적이고 실천 가능한 조언 제시\n")
	sb.WriteString("5. 단계별 실행 계획 포함\n")
	sb.WriteString("6. 섹션 제목 없이 내용만 작성\n\n")
	sb.WriteString("【분석 정보】\n")
	fmt.Fprintf(&sb, "- 주요 정서: %s\n", state.DominantEmotion)
	fmt.Fprintf(&sb, "- 정서 강도: %d/5\n", state.Intensity)
	fmt.Fprintf(&sb, "- 치료 동기: %s\n", state.Motivation)
	fmt.Fprintf(&sb, "- 위험도: %s\n", state.RiskLevel)
	fmt.Fprintf(&sb, "- 상담 횟수: %d회\n\n", chatCount)
	sb.WriteString("【상담 내용】\n")
	sb.WriteString(transcript)
	sb.WriteString("\n\n")
	sb.WriteString(formatMarker)
	sb.WriteString("\n\n")

	sb.WriteString(sectionState + "\n")
	sb.WriteString(stateParagraph(state))
	sb.WriteString("\n\n")

	sb.WriteString(sectionIssues + "\n")
	fmt.Fprintf(&sb, "총 **%d회** 상담을 통해 관찰된 주요 문제점과 패턴을 분석합니다. 주된 어려움은 정서 조절과 관련이 있으며, 일상생활에서의 스트레스 대처 능력 향상이 필요합니다.\n\n", chatCount)

	sb.WriteString(sectionIntervention + "\n")
	sb.WriteString(interventionParagraph)
	sb.WriteString("\n\n")

	sb.WriteString(sectionPlan + "\n")
	sb.WriteString("**1단계**: 감정 인식 및 기록하기 (일일 감정 일기 작성)\n")
	sb.WriteString("**2단계**: 호흡법 등 즉시 대처 기술 연습 (4-7-8 호흡법)\n")
	sb.WriteString("**3단계**: 일상 스트레스 관리 루틴 구축 (규칙적 운동, 충분한 수면)")
	return sb.String()
}

const interventionParagraph = "정서 조절력 강화와 스트레스 대처 기술 습득이 우선적으로 필요합니다. " +
	"인지행동치료 기법을 활용한 부정적 사고 패턴 개선과 마음챙김 연습을 통한 현재 순간 집중력 향상을 권장합니다."

func stateParagraph(state PsychologicalState) string {
	return fmt.Sprintf("내담자는 현재 **%s** 상태를 주로 나타내며, 전반적 정서 강도는 **%d/5** 수준입니다. "+
		"치료 동기는 **%s** 수준으로 평가되며, 현재 위험도는 **%s** 상태입니다.",
		state.DominantEmotion, state.Intensity, state.Motivation, state.RiskLevel)
}

// ExtractReport cuts the report body out of raw model output. Backends
// that echo the prompt have it removed.
func ExtractReport(raw, prompt string) string {
	if strings.Contains(raw, sectionPlan) {
		if i := strings.Index(raw, sectionState); i >= 0 {
			return strings.TrimSpace(raw[i:])
		}
		parts := strings.Split(raw, sectionPlan)
		return strings.TrimSpace(parts[len(parts)-1])
	}
	return strings.TrimSpace(strings.TrimPrefix(raw, prompt))
}

// CleanReport removes leaked instructions and normalizes markdown headers.
func CleanReport(report string) string {
	if i := strings.LastIndex(report, formatMarker); i >= 0 {
		report = strings.TrimSpace(report[i+len(formatMarker):])
	}
	for _, re := range metaTextRes {
		report = re.ReplaceAllString(report, "")
	}
	for _, h := range headerRes {
		report = h.re.ReplaceAllString(report, h.repl)
	}
	report = blankLinesRe.ReplaceAllString(report, "\n\n")
	return strings.TrimSpace(report)
}

// FallbackReport is the deterministic body used when no model output is available.
func FallbackReport(state PsychologicalState, chatCount int) string {
	var sb strings.Builder
	sb.WriteString(sectionState + "\n")
	sb.WriteString(stateParagraph(state))
	sb.WriteString("\n\n")

	sb.WriteString(sectionIssues + "  \n")
	fmt.Fprintf(&sb, "총 **%d회** 상담을 통해 **%s** 관련 어려움이 관찰되었습니다. 주된 문제는 정서 조절의 어려움과 일상 스트레스 대처 능력 부족으로 나타납니다.\n\n",
		chatCount, strings.Join(state.Emotions, ", "))

	sb.WriteString(sectionIntervention + "\n")
	sb.WriteString(interventionParagraph)
	sb.WriteString("\n\n")

	sb.WriteString(sectionPlan + "\n")
	sb.WriteString("**1단계**: 감정 인식 및 기록하기 (일일 감정 일기 작성)\n")
	sb.WriteString("**2단계**: 호흡법 등 즉시 대처 기술 연습 (4-7-8 호흡법 실시)\n")
	sb.WriteString("**3단계**: 일상 스트레스 관리 루틴 구축 (규칙적 운동, 충분한 수면 패턴 확립)")
	return sb.String()
}
