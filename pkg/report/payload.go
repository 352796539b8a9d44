package report

import "time"

const (
	VersionIndexCompatible = "3.0-index-js-compatible"
	VersionReactOptimized  = "3.0-react-optimized"

	MessageNoHistory           = "채팅 내역이 없습니다."
	MessageInsufficientHistory = "채팅 내역이 충분하지 않습니다."

	// transcripts shorter than this are treated as no session at all
	MinTranscriptRunes = 10
)

// Report is the response body of both report endpoints. The title, mood,
// content, activities and generatedAt fields are only set by the
// server-fetched variant.
type Report struct {
	Success            bool               `json:"success"`
	Message            string             `json:"message,omitempty"`
	Date               string             `json:"date"`
	SessionCount       int                `json:"session_count"`
	Title              string             `json:"title,omitempty"`
	Mood               string             `json:"mood,omitempty"`
	Content            string             `json:"content,omitempty"`
	Activities         []string           `json:"activities,omitempty"`
	ThreeLineSummary   []string           `json:"three_line_summary"`
	ProfessionalReport string             `json:"professional_report"`
	PsychologicalState PsychologicalState `json:"psychological_state"`
	ComparisonAnalysis string             `json:"comparison_analysis"`
	Recommendations    Recommendations    `json:"recommendations"`
	FeedbackChecklist  Checklist          `json:"feedback_checklist"`
	ChecklistLink      string             `json:"checklist_link"`
	GeneratedAt        string             `json:"generated_at"`
	GeneratedAtCamel   string             `json:"generatedAt,omitempty"`
	ReportVersion      string             `json:"report_version"`
}

const noSessionReport = "📊 정서상태 분석\n" +
	"아직 상담 내역이 없어 정서 상태를 분석할 수 없습니다.\n\n" +
	"🎯 주요 이슈\n" +
	"마음자리와의 대화를 통해 하루의 감정과 생각을 나누어보세요.\n\n" +
	"💡 치료적 개입점\n" +
	"상담을 시작하시면 개인화된 분석과 조언을 제공해드리겠습니다.\n\n" +
	"📋 실행계획\n" +
	"**1단계**: 마음자리와 대화 시작하기\n" +
	"**2단계**: 오늘의 감정과 상황 나누기  \n" +
	"**3단계**: 전문적인 리포트와 조언 받기"

// NoSession is the canned payload returned when there is nothing to analyze.
func NoSession(date, message, version string, now time.Time) Report {
	return Report{
		Success:      false,
		Message:      message,
		Date:         date,
		SessionCount: 0,
		ThreeLineSummary: []string{
			"💭 아직 오늘의 상담 내역이 없습니다.",
			"🎯 마음자리와 대화를 시작해보세요!",
			"📈 상담을 통해 마음을 나누고 성장할 수 있습니다.",
		},
		ProfessionalReport: noSessionReport,
		PsychologicalState: PsychologicalState{
			DominantEmotion: "대기중",
			Emotions:        []string{"대기중"},
			RiskLevel:       RiskNormal,
			Motivation:      "준비중",
			Intensity:       0,
		},
		ComparisonAnalysis: "📍 첫 상담을 시작하면 변화 분석을 제공해드리겠습니다.",
		Recommendations: Recommendations{
			YoutubeVideos: []string{"📹 '마음건강 시작하기' - 마음건강TV"},
			Books:         []string{"📚 '상담의 첫걸음' - 심리학 안내서"},
			Articles:      []string{"📰 '상담의 효과' - 심리건강 가이드"},
		},
		FeedbackChecklist: FeedbackChecklist(),
		ChecklistLink:     ChecklistLink(date),
		GeneratedAt:       now.Format(time.RFC3339),
		ReportVersion:     version,
	}
}
