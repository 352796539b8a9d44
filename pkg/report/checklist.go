package report

import (
	"bytes"
	"encoding/json"
	"strings"
)

const (
	ChecklistInstructions   = "각 항목에 대해 1-10점으로 평가해주세요."
	ChecklistCompletionTime = "약 3-5분 소요"

	checklistLinkPrefix = "https://forms.gle/counseling-feedback-"
)

// ChecklistGroup is one titled block of feedback questions.
type ChecklistGroup struct {
	Title     string
	Questions []string
}

// Checklist keeps its groups in display order, also when encoded as a JSON object.
type Checklist []ChecklistGroup

var feedbackChecklist = Checklist{
	{"정서상태", []string{
		"오늘 하루 기분은 어떠셨나요? (1-10점)",
		"스트레스 수준은 어느 정도인가요?",
		"수면의 질은 어떠셨나요?",
	}},
	{"상담효과", []string{
		"상담 후 마음이 편해졌나요?",
		"새롭게 깨달은 점이 있나요?",
		"실천하고 싶은 방법을 찾았나요?",
	}},
	{"일상변화", []string{
		"어제와 비교해 달라진 점이 있나요?",
		"오늘 긍정적인 일이 있었나요?",
		"내일 시도해보고 싶은 것이 있나요?",
	}},
}

// FeedbackChecklist returns a copy of the post-session checklist.
func FeedbackChecklist() Checklist {
	out := make(Checklist, len(feedbackChecklist))
	for i, g := range feedbackChecklist {
		out[i] = ChecklistGroup{Title: g.Title, Questions: append([]string{}, g.Questions...)}
	}
	return out
}

// ChecklistLink returns the feedback form address for a YYYY-MM-DD date.
func ChecklistLink(date string) string {
	return checklistLinkPrefix + strings.ReplaceAll(date, "-", "")
}

func (c Checklist) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, g := range c {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(g.Title)
		if err != nil {
			return nil, err
		}
		questions, err := json.Marshal(g.Questions)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(questions)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}
