package report

import "fmt"

var motivationMessages = map[string]string{
	MotivationHigh:   "적극적인 변화 의지를 보여주셨습니다",
	MotivationMedium: "적절한 수준의 치료 동기를 유지하고 계십니다",
	MotivationLow:    "치료에 대한 동기를 높이는 것이 필요합니다",
}

// FirstSessionComparison is used when there is no earlier session to compare with.
const FirstSessionComparison = "📍 첫 상담으로 비교 데이터가 없습니다. 다음 상담부터 변화 추이를 분석하겠습니다."

// Summary returns the three headline lines of a report.
func Summary(state PsychologicalState) []string {
	var intensityDesc string
	switch {
	case state.Intensity >= 4:
		intensityDesc = "강한"
	case state.Intensity >= 2:
		intensityDesc = "중간 정도의"
	default:
		intensityDesc = "약한"
	}

	motivation, ok := motivationMessages[state.Motivation]
	if !ok {
		motivation = "치료 동기를 평가했습니다"
	}

	return []string{
		fmt.Sprintf("💭 오늘 상담에서 **%s** 감정이 %s 강도로 나타났습니다.", state.DominantEmotion, intensityDesc),
		fmt.Sprintf("🎯 %s.", motivation),
		"📈 지속적인 관찰과 단계적 접근을 통해 긍정적 변화가 기대됩니다.",
	}
}

// Compare describes the trend against an earlier session.
func Compare(state PsychologicalState, hasPrevious bool) string {
	if !hasPrevious {
		return FirstSessionComparison
	}

	var stability string
	switch {
	case state.Intensity <= 2:
		stability = "개선"
	case state.Intensity == 3:
		stability = "유지"
	default:
		stability = "관찰 필요"
	}

	expression := "유지"
	if state.Motivation == MotivationHigh || state.Motivation == MotivationMedium {
		expression = "증가"
	}

	coping := "개발 필요"
	if state.DominantEmotion == "긍정감" || state.DominantEmotion == "혼란감" {
		coping = "강화"
	}

	return fmt.Sprintf("📊 **변화 분석** (전회 대비):\n"+
		"• **정서 안정성**: %s - 감정 조절 능력이 점진적으로 향상되고 있습니다\n"+
		"• **표현 능력**: 구체적 감정 표현이 %s - 자기 인식이 깊어지고 있습니다  \n"+
		"• **대처 의지**: %s 경향 - 문제 해결에 대한 의지가 나타납니다\n"+
		"• **치료 관계**: 상담사와의 신뢰 관계가 안정적으로 형성되고 있습니다",
		stability, expression, coping)
}
