package report

import "math/rand"

const (
	CategorySelfGrowth   = "자기계발"
	CategoryRelationship = "관계개선"
	CategoryMood         = "우울불안"

	// added to books when emotional intensity is high
	firstAidBook = "📚 '마음의 응급처치' - 가이 윈치"
)

type contentSet struct {
	Youtube  []string
	Books    []string
	Articles []string
}

var contentCatalog = map[string]contentSet{
	CategorySelfGrowth: {
		Youtube: []string{
			"📹 '5분 만에 스트레스 해소법' - 마음건강TV",
			"📹 '감정조절 간단 호흡법' - 힐링마인드",
			"📹 '자존감 높이는 3가지 방법' - 심리학 카페",
		},
		Books: []string{
			"📚 '불안할 때 뇌과학' - 에이미 모린",
			"📚 '감정조절의 기술' - 마사 라인한",
			"📚 '회복탄력성' - 김주환",
		},
		Articles: []string{
			"📰 '스트레스와 뇌 변화' - 대한신경정신의학회지",
			"📰 '인지행동치료의 효과' - 한국심리학회지",
			"📰 '마음챙김과 정신건강' - 정신건강의학 리뷰",
		},
	},
	CategoryRelationship: {
		Youtube: []string{
			"📹 '건강한 소통법 5분 가이드' - 관계심리학",
			"📹 '갈등 해결하는 방법' - 소통의기술",
			"📹 '감정 표현하는 법' - 마음소통",
		},
		Books: []string{
			"📚 '비폭력 대화' - 마셜 로젠버그",
			"📚 '관계의 기술' - 존 고트만",
			"📚 '감정의 언어' - 캐롤 드웩",
		},
	},
	CategoryMood: {
		Youtube: []string{
			"📹 '우울감 극복 간단 실천법' - 마음치유",
			"📹 '불안 다스리기 호흡법' - 심리건강",
			"📹 '긍정적 사고 훈련' - 멘탈케어",
		},
		Books: []string{
			"📚 '우울증 벗어나기' - 데이비드 번스",
			"📚 '불안 다스리기' - 에드먼드 번",
			"📚 '마음의 치유력' - 루이즈 헤이",
		},
	},
}

// Recommendations is the content list returned with a report.
type Recommendations struct {
	YoutubeVideos []string `json:"youtube_videos"`
	Books         []string `json:"books"`
	Articles      []string `json:"articles"`
}

// Category maps the dominant emotion and intensity to a content category.
func Category(state PsychologicalState) string {
	switch state.DominantEmotion {
	case "우울감", "무기력":
		if state.Intensity >= 4 {
			return CategoryMood
		}
		return CategorySelfGrowth
	case "불안감", "스트레스":
		return CategoryMood
	case "분노감", "짜증":
		return CategoryRelationship
	default:
		return CategorySelfGrowth
	}
}

// Recommend samples items from the matching category: three per kind when
// motivation is high, two otherwise.
func Recommend(state PsychologicalState, rng *rand.Rand) Recommendations {
	set := contentCatalog[Category(state)]

	n := 2
	if state.Motivation == MotivationHigh {
		n = 3
	}

	rec := Recommendations{
		YoutubeVideos: sample(set.Youtube, n, rng),
		Books:         sample(set.Books, n, rng),
		Articles:      sample(set.Articles, n, rng),
	}
	if state.Intensity >= 4 {
		rec.Books = append(rec.Books, firstAidBook)
	}
	return rec
}

func sample(items []string, n int, rng *rand.Rand) []string {
	if n > len(items) {
		n = len(items)
	}
	out := make([]string, 0, n)
	for _, i := range rng.Perm(len(items))[:n] {
		out = append(out, items[i])
	}
	return out
}
