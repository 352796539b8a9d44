package rag

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"maumjari-counsel-be/pkg/store"
)

const (
	passageWindow  = 300
	snippetMaxLen  = 200
	snippetMinLen  = 50
	passagesToScan = 2
)

var (
	// academic material reads badly inside a counseling reply
	academicMarkers  = []string{"참고문헌", "출처:", "연구", "논문", "년도", "p."}
	counselingTopics = []string{"상담", "치료", "심리", "감정", "대처", "방법"}

	citationRe = regexp.MustCompile(`\d{4}년?|\d{4}\s*,\s*p.*|저자.*|출처.*`)
)

// CounselingSnippet picks the first retrieved passage usable as background
// for a counseling reply. It reports false when none qualifies.
func CounselingSnippet(docs []store.Document) (string, bool) {
	if len(docs) > passagesToScan {
		docs = docs[:passagesToScan]
	}

	for _, doc := range docs {
		text := truncateRunes(doc.Content, passageWindow)

		if containsAny(text, academicMarkers) || !containsAny(text, counselingTopics) {
			continue
		}

		clean := strings.TrimSpace(citationRe.ReplaceAllString(text, ""))
		if utf8.RuneCountInString(clean) > snippetMinLen {
			return truncateRunes(clean, snippetMaxLen), true
		}
	}
	return "", false
}

func truncateRunes(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	return string([]rune(s)[:n])
}

func containsAny(s string, subs []string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
