package report

import "strings"

const (
	RiskNormal    = "정상"
	RiskObserve   = "관찰필요"
	RiskAttention = "주의필요"

	MotivationHigh   = "높음"
	MotivationMedium = "보통"
	MotivationLow    = "낮음"

	defaultEmotion = "혼란감"
	maxEmotions    = 3
)

type indicator struct {
	Label    string
	Keywords []string
}

var emotionIndicators = []indicator{
	{"우울감", []string{"우울", "슬프", "힘들", "절망", "무기력", "의욕없", "재미없"}},
	{"불안감", []string{"불안", "걱정", "두려", "초조", "긴장", "떨려", "무서"}},
	{"스트레스", []string{"스트레스", "압박", "부담", "피곤", "지쳐", "답답", "숨막"}},
	{"분노감", []string{"화나", "짜증", "분노", "억울", "속상", "열받", "빡쳐"}},
	{"긍정감", []string{"좋", "행복", "기쁘", "만족", "편안", "감사", "희망"}},
	{"혼란감", []string{"혼란", "모르겠", "어떻게", "갈등", "딜레마", "애매"}},
}

var (
	highRiskKeywords   = []string{"죽고싶", "자살", "사라지고싶", "끝내고싶"}
	mediumRiskKeywords = []string{"소용없", "의미없", "포기", "그만두고싶"}
)

// checked in order, first tier with a hit wins
var motivationIndicators = []indicator{
	{MotivationHigh, []string{"변화하고싶", "노력", "해보겠", "시도", "배우고싶"}},
	{MotivationMedium, []string{"그런 것 같", "해볼게", "생각해볼게"}},
	{MotivationLow, []string{"모르겠", "안될것같", "어려울것같"}},
}

// intensity counts how many of these labels were detected
var intenseEmotions = map[string]bool{"우울감": true, "불안감": true, "분노감": true}

// PsychologicalState is the keyword-based reading of a day's transcript.
type PsychologicalState struct {
	Emotions        []string `json:"emotions"`
	DominantEmotion string   `json:"dominant_emotion"`
	RiskLevel       string   `json:"risk_level"`
	Motivation      string   `json:"motivation"`
	Intensity       int      `json:"intensity"`
}

// Analyze scans a transcript for emotion, risk and motivation markers.
func Analyze(transcript string) PsychologicalState {
	var detected []string
	intensity := 0
	for _, ind := range emotionIndicators {
		if containsAny(transcript, ind.Keywords) {
			detected = append(detected, ind.Label)
			if intenseEmotions[ind.Label] {
				intensity++
			}
		}
	}

	state := PsychologicalState{
		Emotions:        []string{defaultEmotion},
		DominantEmotion: defaultEmotion,
		RiskLevel:       RiskNormal,
		Motivation:      MotivationMedium,
		Intensity:       intensity,
	}
	if len(detected) > 0 {
		if len(detected) > maxEmotions {
			detected = detected[:maxEmotions]
		}
		state.Emotions = detected
		state.DominantEmotion = detected[0]
	}

	switch {
	case containsAny(transcript, highRiskKeywords):
		state.RiskLevel = RiskAttention
	case containsAny(transcript, mediumRiskKeywords):
		state.RiskLevel = RiskObserve
	}

	for _, ind := range motivationIndicators {
		if containsAny(transcript, ind.Keywords) {
			state.Motivation = ind.Label
			break
		}
	}

	return state
}

func containsAny(s string, subs []string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
