package emotion

import "strings"

// Fallback is returned when no category matches.
const Fallback = "혼란스러운"

// Category is one emotion label and the keywords that trigger it.
type Category struct {
	Label    string
	Keywords []string
}

// Taxonomy is evaluated in declaration order; the first hit wins.
var Taxonomy = []Category{
	{Label: "우울", Keywords: []string{"우울", "슬픔", "눈물", "절망", "허무", "무기력"}},
	{Label: "불안", Keywords: []string{"불안", "걱정", "두려움", "초조", "긴장", "스트레스"}},
	{Label: "분노", Keywords: []string{"화", "짜증", "분노", "억울", "답답", "화남"}},
	{Label: "외로움", Keywords: []string{"외로움", "고립", "혼자", "소외", "쓸쓸"}},
	{Label: "트라우마", Keywords: []string{"트라우마", "사고", "충격", "악몽", "플래시백"}},
}

// Detect returns the first taxonomy label with a keyword contained in text.
func Detect(text string) string {
	for _, c := range Taxonomy {
		for _, kw := range c.Keywords {
			if strings.Contains(text, kw) {
				return c.Label
			}
		}
	}
	return Fallback
}
