package stage

// Stage is a discrete phase of a counseling conversation.
type Stage string

const (
	Initial      Stage = "initial"
	Exploration  Stage = "exploration"
	GoalSetting  Stage = "goal_setting"
	Intervention Stage = "intervention"
	// Evaluation is part of the catalog but no transition reaches it.
	Evaluation Stage = "evaluation"
)

const unknownDescription = "알 수 없음"

var descriptions = map[Stage]string{
	Initial:      "초기_라포형성",
	Exploration:  "문제_탐색",
	GoalSetting:  "목표_설정",
	Intervention: "개입_단계",
	Evaluation:   "평가_단계",
}

var order = map[Stage]int{
	Initial:      0,
	Exploration:  1,
	GoalSetting:  2,
	Intervention: 3,
	Evaluation:   4,
}

// Advance applies the turn-count thresholds. Each rule fires only from the
// stage directly preceding it, and at most one rule fires per call.
func Advance(current Stage, turnCount int) Stage {
	switch {
	case turnCount >= 3 && current == Initial:
		return Exploration
	case turnCount >= 6 && current == Exploration:
		return GoalSetting
	case turnCount >= 9 && current == GoalSetting:
		return Intervention
	}
	return current
}

// Describe returns the Korean label shown to clients.
func Describe(s Stage) string {
	if d, ok := descriptions[s]; ok {
		return d
	}
	return unknownDescription
}

func Parse(v string) (Stage, bool) {
	s := Stage(v)
	_, ok := descriptions[s]
	return s, ok
}

// Rank orders stages along the counseling sequence; unknown stages rank -1.
func Rank(s Stage) int {
	if r, ok := order[s]; ok {
		return r
	}
	return -1
}

func (s Stage) String() string {
	return string(s)
}
