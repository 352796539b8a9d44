package emotion

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDetect(t *testing.T) {
	tests := []struct {
		name string
		text string
		want string
	}{
		{"depression", "오늘 너무 우울해요", "우울"},
		{"anxiety", "시험 때문에 걱정이 많아요", "불안"},
		{"anger", "짜증이 나요", "분노"},
		{"loneliness", "요즘 혼자라는 느낌이 들어요", "외로움"},
		{"trauma", "악몽을 자주 꿔요", "트라우마"},
		{"declared order wins", "불안하고 우울해요", "우울"},
		{"stress maps to anxiety", "스트레스가 심해요", "불안"},
		{"no match", "그냥 그래요", Fallback},
		{"empty", "", Fallback},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Detect(tt.text))
		})
	}
}
