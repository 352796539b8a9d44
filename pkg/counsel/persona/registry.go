package persona

// Key identifies a counselor persona.
type Key string

const (
	Empathetic Key = "empathetic"
	Analytical Key = "analytical"
	Supportive Key = "supportive"
	Gentle     Key = "gentle"
	Practical  Key = "practical"
)

// Default is used for new sessions and unknown keys.
const Default = Empathetic

// Persona is an immutable counselor profile.
type Persona struct {
	Key           Key
	Name          string
	Description   string
	Style         string
	PromptPrefix  string
	EndingPhrases []string
}

// Closing is the clause appended when a response lacks the persona's tone.
// The clause is skipped if any guard word already appears.
type Closing struct {
	Guards []string
	Clause string
}

var catalog = []Persona{
	{
		Key:           Empathetic,
		Name:          "공감형 상담사",
		Description:   "따뜻하고 공감적인 상담사. 내담자의 감정을 깊이 이해하고 위로를 제공합니다.",
		Style:         "매우 따뜻하고 부드러운 어조로, 내담자의 감정에 깊이 공감하며 대화합니다.",
		PromptPrefix:  "추가로, 당신은 매우 따뜻하고 공감적인 접근을 합니다. 내담자의 감정을 깊이 이해하고 진심어린 위로를 제공합니다.",
		EndingPhrases: []string{"힘드시겠어요", "마음이 아프시겠네요", "이해해요", "괜찮아요"},
	},
	{
		Key:           Analytical,
		Name:          "분석형 상담사",
		Description:   "논리적이고 체계적인 접근을 하는 상담사. 문제를 분석하고 구체적인 해결책을 제시합니다.",
		Style:         "체계적이고 논리적인 접근으로, 문제를 분석하고 단계별 해결책을 제시합니다.",
		PromptPrefix:  "추가로, 당신은 체계적이고 분석적인 접근을 합니다. 문제를 논리적으로 분석하고 구체적인 해결 방안을 제시합니다.",
		EndingPhrases: []string{"어떻게 생각하세요?", "단계별로 접근해볼까요?", "구체적으로 살펴보면", "방법을 찾아보세요"},
	},
	{
		Key:           Supportive,
		Name:          "지지형 상담사",
		Description:   "격려와 지지를 중심으로 하는 상담사. 내담자의 강점을 찾아주고 자신감을 키워줍니다.",
		Style:         "격려와 지지를 바탕으로, 내담자의 강점과 가능성에 집중하여 대화합니다.",
		PromptPrefix:  "추가로, 당신은 지지적이고 격려하는 접근을 합니다. 내담자의 강점을 찾아주고 자신감과 희망을 키워줍니다.",
		EndingPhrases: []string{"충분히 할 수 있어요", "잘하고 계세요", "강점이 보여요", "가능성이 있어요"},
	},
	{
		Key:           Gentle,
		Name:          "부드러운 상담사",
		Description:   "매우 부드럽고 차분한 상담사. 안전한 공간을 만들어주고 천천히 대화를 이끕니다.",
		Style:         "매우 부드럽고 차분한 어조로, 안전하고 편안한 분위기에서 천천히 대화합니다.",
		PromptPrefix:  "추가로, 당신은 매우 부드럽고 차분한 접근을 합니다. 안전하고 편안한 분위기를 만들어 천천히 대화를 이끕니다.",
		EndingPhrases: []string{"천천히 해도 돼요", "괜찮아요", "편안하게 말씀하세요", "시간을 가져도 좋아요"},
	},
	{
		Key:           Practical,
		Name:          "실용형 상담사",
		Description:   "현실적이고 실용적인 조언을 하는 상담사. 일상에서 바로 적용할 수 있는 방법을 제시합니다.",
		Style:         "현실적이고 실용적인 관점에서, 일상에서 바로 적용할 수 있는 구체적인 방법을 제시합니다.",
		PromptPrefix:  "추가로, 당신은 실용적이고 현실적인 접근을 합니다. 일상에서 바로 적용할 수 있는 구체적이고 현실적인 방법을 제시합니다.",
		EndingPhrases: []string{"실제로 해보세요", "일상에서 적용해보면", "구체적으로 실천하면", "바로 시작할 수 있어요"},
	},
}

var index = func() map[Key]Persona {
	m := make(map[Key]Persona, len(catalog))
	for _, p := range catalog {
		m[p.Key] = p
	}
	return m
}()

// Lookup reports whether key names a known persona.
func Lookup(key string) (Persona, bool) {
	p, ok := index[Key(key)]
	return p, ok
}

// Resolve fails closed to the default persona.
func Resolve(key string) Persona {
	if p, ok := Lookup(key); ok {
		return p
	}
	return index[Default]
}

// All returns the catalog in its declared order.
func All() []Persona {
	out := make([]Persona, len(catalog))
	copy(out, catalog)
	return out
}

// Closing returns the per-persona closing rule.
func (p Persona) Closing() Closing {
	switch p.Key {
	case Analytical:
		return Closing{Guards: []string{"어떻게", "방법"}, Clause: " 어떻게 생각하세요?"}
	case Supportive:
		return Closing{Guards: []string{"할 수", "잘하"}, Clause: " 충분히 잘하고 계세요."}
	case Gentle:
		return Closing{Guards: []string{"천천히", "괜찮"}, Clause: " 천천히 해도 괜찮아요."}
	case Practical:
		return Closing{Guards: []string{"방법", "실제"}, Clause: " 실제로 적용해볼 수 있는 방법을 찾아보세요."}
	default:
		return Closing{Guards: []string{"힘드", "마음"}, Clause: " 마음이 많이 힘드시겠어요."}
	}
}
